package handlers

import (
	"net/http"

	"barangay_app_go/db"
	"barangay_app_go/middleware"
	"barangay_app_go/models"
	"barangay_app_go/services"

	"github.com/labstack/echo/v4"
)

const resourceUser = "User"

// GetUsersHandler lists staff accounts
func GetUsersHandler(c echo.Context) error {
	page, limit := pageParams(c)
	users, total, err := services.GetUsers(db.DB, c.QueryParam("q"), page, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return respondPage(c, users, total, page, limit)
}

// CreateUserHandler creates a staff account
func CreateUserHandler(c echo.Context) error {
	var input services.UserInput
	if err := bindBody(c, &input); err != nil {
		return err
	}
	user, err := services.CreateUser(db.DB, input)
	if err != nil {
		return serviceError(c, err)
	}
	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c), services.AuditEvent{
		Action:       models.AuditActionCreate,
		ResourceType: resourceUser,
		ResourceID:   user.ID,
		ResourceName: user.Name,
		Description:  "Account created with role " + user.Role,
	})
	return c.JSON(http.StatusCreated, user)
}

type activeRequest struct {
	Active bool `json:"active"`
}

// SetUserActiveHandler enables or disables a staff account. Admins cannot
// disable themselves.
func SetUserActiveHandler(c echo.Context) error {
	id := c.Param("id")
	var req activeRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if current := middleware.GetCurrentUser(c); current != nil && current.ID == id && !req.Active {
		return echo.NewHTTPError(http.StatusConflict, "You cannot disable your own account")
	}
	user, err := services.SetUserActive(db.DB, id, req.Active)
	if err != nil {
		return serviceError(c, err)
	}
	description := "Account disabled"
	if user.IsActive {
		description = "Account enabled"
	}
	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c), services.AuditEvent{
		Action:       models.AuditActionUpdate,
		ResourceType: resourceUser,
		ResourceID:   user.ID,
		ResourceName: user.Name,
		Description:  description,
	})
	return c.JSON(http.StatusOK, user)
}
