package handlers

import (
	"net/http"

	"barangay_app_go/db"
	"barangay_app_go/services"

	"github.com/labstack/echo/v4"
)

// DashboardHandler returns the headline counts and recent activity
func DashboardHandler(c echo.Context) error {
	stats, err := services.GetDashboardStats(db.DB, services.Now())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}
