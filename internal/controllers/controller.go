package controllers

import (
	"strconv"

	"maintenance-system/internal/authz"
	apperrors "maintenance-system/pkg/apperrors"
	"maintenance-system/pkg/contextkeys"

	"github.com/labstack/echo/v4"
)

// actorID pulls the authenticated user id placed in the request context by
// the auth middleware.
func actorID(c echo.Context) (uint64, error) {
	id, ok := c.Request().Context().Value(contextkeys.UserIDKey).(uint64)
	if !ok {
		return 0, apperrors.ErrUserIDNotFoundInContext
	}
	return id, nil
}

func actorRole(c echo.Context) authz.Role {
	name, _ := c.Request().Context().Value(contextkeys.UserRoleKey).(string)
	return authz.RoleFromString(name)
}

func parseIDParam(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewValidationError("invalid id %q", c.Param("id"))
	}
	return id, nil
}
