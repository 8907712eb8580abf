package controllers

import (
	"net/http"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/services"
	"maintenance-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type JobOrderController struct {
	jobOrderService services.JobOrderServiceInterface
	logger          *zap.Logger
}

func NewJobOrderController(jobOrderService services.JobOrderServiceInterface, logger *zap.Logger) *JobOrderController {
	return &JobOrderController{jobOrderService: jobOrderService, logger: logger}
}

func (ctrl *JobOrderController) List(c echo.Context) error {
	filter := utils.ParseFilterFromQuery(c.Request().URL.Query())
	items, total, err := ctrl.jobOrderService.List(c.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, items, "job order list", http.StatusOK, total)
}

func (ctrl *JobOrderController) Find(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	item, err := ctrl.jobOrderService.Find(c.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, item, "job order", http.StatusOK)
}

func (ctrl *JobOrderController) Create(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.CreateJobOrderDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	item, err := ctrl.jobOrderService.Create(c.Request().Context(), userID, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, item, "job order created", http.StatusCreated)
}

func (ctrl *JobOrderController) Complete(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	item, err := ctrl.jobOrderService.Complete(c.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, item, "job order completed", http.StatusOK)
}
