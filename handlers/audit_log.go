package handlers

import (
	"fmt"
	"net/http"

	"barangay_app_go/db"
	"barangay_app_go/middleware"
	"barangay_app_go/models"
	"barangay_app_go/services"

	"github.com/labstack/echo/v4"
)

// recordAudit writes an audit entry for the current request. Failures are
// logged by the service and never fail the request.
func recordAudit(c echo.Context, action models.AuditAction, resourceType string, id uint, name, description string, oldValues, newValues interface{}) {
	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c), services.AuditEvent{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   fmt.Sprint(id),
		ResourceName: name,
		Description:  description,
		OldValues:    oldValues,
		NewValues:    newValues,
	})
}

// GetAuditLogsHandler returns filtered and paginated audit logs
func GetAuditLogsHandler(c echo.Context) error {
	page, limit := pageParams(c)

	filters := services.AuditLogFilters{
		UserID:       c.QueryParam("user_id"),
		ResourceType: c.QueryParam("resource_type"),
		Action:       c.QueryParam("action"),
		SearchQuery:  c.QueryParam("search"),
	}
	if from := queryDate(c, "date_from", false); from != nil {
		filters.DateFrom = *from
	}
	if to := queryDate(c, "date_to", true); to != nil {
		filters.DateTo = *to
	}

	logs, total, err := services.GetAuditLogs(db.DB, filters, page, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return respondPage(c, logs, total, page, limit)
}

// GetResourceHistoryHandler returns the audit history for a specific resource
func GetResourceHistoryHandler(c echo.Context) error {
	logs, err := services.GetResourceAuditHistory(db.DB, c.Param("type"), c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, logs)
}
