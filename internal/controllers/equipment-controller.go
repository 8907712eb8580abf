package controllers

import (
	"net/http"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/services"
	"maintenance-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type EquipmentController struct {
	equipmentService services.EquipmentServiceInterface
	portService      services.EquipmentPortServiceInterface
	logger           *zap.Logger
}

func NewEquipmentController(
	equipmentService services.EquipmentServiceInterface,
	portService services.EquipmentPortServiceInterface,
	logger *zap.Logger,
) *EquipmentController {
	return &EquipmentController{
		equipmentService: equipmentService,
		portService:      portService,
		logger:           logger,
	}
}

func (ctrl *EquipmentController) List(c echo.Context) error {
	filter := utils.ParseFilterFromQuery(c.Request().URL.Query())
	items, total, err := ctrl.equipmentService.List(c.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, items, "equipment list", http.StatusOK, total)
}

func (ctrl *EquipmentController) Find(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	item, err := ctrl.equipmentService.Find(c.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, item, "equipment", http.StatusOK)
}

func (ctrl *EquipmentController) Create(c echo.Context) error {
	var payload dto.CreateEquipmentDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	item, err := ctrl.equipmentService.Create(c.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, item, "equipment created", http.StatusCreated)
}

func (ctrl *EquipmentController) Update(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.UpdateEquipmentDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	item, err := ctrl.equipmentService.Update(c.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, item, "equipment updated", http.StatusOK)
}

func (ctrl *EquipmentController) Delete(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := ctrl.equipmentService.Delete(c.Request().Context(), id); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, nil, "equipment deleted", http.StatusOK)
}

// Import accepts a multipart upload under the "file" field.
func (ctrl *EquipmentController) Import(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	src, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	defer src.Close()

	report, err := ctrl.portService.Import(c.Request().Context(), fileHeader.Filename, src)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if len(report.Errors) > 0 {
		return utils.SuccessResponse(c, report, "import rejected", http.StatusUnprocessableEntity)
	}
	return utils.SuccessResponse(c, report, "import finished", http.StatusOK)
}

func (ctrl *EquipmentController) Export(c echo.Context) error {
	filter := utils.ParseFilterFromQuery(c.Request().URL.Query())

	var data []byte
	var name, contentType string
	var err error

	switch c.QueryParam("format") {
	case "xlsx":
		data, name, err = ctrl.portService.ExportXLSX(c.Request().Context(), filter)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		data, name, err = ctrl.portService.ExportCSV(c.Request().Context(), filter)
		contentType = "text/csv"
	}
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Blob(http.StatusOK, contentType, data)
}
