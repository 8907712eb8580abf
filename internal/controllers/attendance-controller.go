package controllers

import (
	"net/http"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/services"
	"maintenance-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AttendanceController struct {
	attendanceService services.AttendanceServiceInterface
	logger            *zap.Logger
}

func NewAttendanceController(attendanceService services.AttendanceServiceInterface, logger *zap.Logger) *AttendanceController {
	return &AttendanceController{attendanceService: attendanceService, logger: logger}
}

func (ctrl *AttendanceController) List(c echo.Context) error {
	filter := utils.ParseFilterFromQuery(c.Request().URL.Query())
	items, total, err := ctrl.attendanceService.List(c.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, items, "attendance list", http.StatusOK, total)
}

func (ctrl *AttendanceController) CheckIn(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.CheckInDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	item, err := ctrl.attendanceService.CheckIn(c.Request().Context(), userID, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, item, "checked in", http.StatusCreated)
}

func (ctrl *AttendanceController) CheckOut(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := ctrl.attendanceService.CheckOut(c.Request().Context(), userID); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, nil, "checked out", http.StatusOK)
}
