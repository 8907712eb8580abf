package controllers

import (
	"net/http"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/services"
	"maintenance-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ServiceRequestController struct {
	requestService services.ServiceRequestServiceInterface
	logger         *zap.Logger
}

func NewServiceRequestController(requestService services.ServiceRequestServiceInterface, logger *zap.Logger) *ServiceRequestController {
	return &ServiceRequestController{requestService: requestService, logger: logger}
}

func (ctrl *ServiceRequestController) List(c echo.Context) error {
	filter := utils.ParseFilterFromQuery(c.Request().URL.Query())
	items, total, err := ctrl.requestService.List(c.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, items, "service request list", http.StatusOK, total)
}

func (ctrl *ServiceRequestController) Find(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	item, err := ctrl.requestService.Find(c.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, item, "service request", http.StatusOK)
}

func (ctrl *ServiceRequestController) Create(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.CreateServiceRequestDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	item, err := ctrl.requestService.Create(c.Request().Context(), userID, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, item, "service request created", http.StatusCreated)
}

func (ctrl *ServiceRequestController) Update(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	id, err := parseIDParam(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.UpdateServiceRequestDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	item, err := ctrl.requestService.Update(c.Request().Context(), userID, actorRole(c), id, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, item, "service request updated", http.StatusOK)
}

func (ctrl *ServiceRequestController) Delete(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := ctrl.requestService.Delete(c.Request().Context(), actorRole(c), id); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, nil, "service request deleted", http.StatusOK)
}

func (ctrl *ServiceRequestController) BulkComplete(c echo.Context) error {
	var payload dto.BulkCompleteDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	report, err := ctrl.requestService.BulkCompletePreventive(c.Request().Context(), actorRole(c), payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, report, "preventive requests completed", http.StatusOK)
}
