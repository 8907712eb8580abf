package controllers

import (
	"net/http"

	"maintenance-system/internal/services"
	"maintenance-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AdminController struct {
	adminService services.AdminServiceInterface
	logger       *zap.Logger
}

func NewAdminController(adminService services.AdminServiceInterface, logger *zap.Logger) *AdminController {
	return &AdminController{adminService: adminService, logger: logger}
}

// Wipe clears all operational data. The service enforces the admin gate.
func (ctrl *AdminController) Wipe(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := ctrl.adminService.WipeOperationalData(c.Request().Context(), userID, actorRole(c)); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, nil, "operational data wiped", http.StatusOK)
}
