package handlers

import (
	"fmt"
	"net/http"

	"barangay_app_go/db"
	"barangay_app_go/models"
	"barangay_app_go/services"

	"github.com/labstack/echo/v4"
)

const resourceIncident = "Incident"

// GetIncidentsHandler lists incidents
func GetIncidentsHandler(c echo.Context) error {
	page, limit := pageParams(c)
	filters := services.IncidentFilters{
		Keyword:    c.QueryParam("q"),
		Type:       c.QueryParam("type"),
		Status:     c.QueryParam("status"),
		ResidentID: queryUint(c, "resident_id"),
		DateFrom:   queryDate(c, "date_from", false),
		DateTo:     queryDate(c, "date_to", true),
	}
	incidents, total, err := services.GetIncidents(db.DB, filters, page, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return respondPage(c, incidents, total, page, limit)
}

// GetIncidentHandler returns one incident
func GetIncidentHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	incident, err := services.GetIncidentByID(db.DB, id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, incident)
}

// CreateIncidentHandler records an incident and assigns its number
func CreateIncidentHandler(c echo.Context) error {
	var input services.IncidentInput
	if err := bindBody(c, &input); err != nil {
		return err
	}
	incident, err := services.CreateIncident(db.DB, input)
	if err != nil {
		return serviceError(c, err)
	}
	recordAudit(c, models.AuditActionCreate, resourceIncident, incident.ID, incident.IncidentNumber, "Incident recorded", nil, incident)
	return c.JSON(http.StatusCreated, incident)
}

// UpdateIncidentHandler edits an incident that is still open
func UpdateIncidentHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var input services.IncidentInput
	if err := bindBody(c, &input); err != nil {
		return err
	}
	before, err := services.GetIncidentByID(db.DB, id)
	if err != nil {
		return serviceError(c, err)
	}
	incident, err := services.UpdateIncident(db.DB, id, input)
	if err != nil {
		return serviceError(c, err)
	}
	recordAudit(c, models.AuditActionUpdate, resourceIncident, incident.ID, incident.IncidentNumber, "Incident updated", before, incident)
	return c.JSON(http.StatusOK, incident)
}

// UpdateIncidentStatusHandler moves an incident through its workflow
func UpdateIncidentStatusHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req statusRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	before, err := services.GetIncidentByID(db.DB, id)
	if err != nil {
		return serviceError(c, err)
	}
	incident, err := services.UpdateIncidentStatus(db.DB, id, req.Status, req.Resolution)
	if err != nil {
		return serviceError(c, err)
	}
	recordAudit(c, models.AuditActionStatus, resourceIncident, incident.ID, incident.IncidentNumber,
		fmt.Sprintf("Status changed from %s to %s", before.Status, incident.Status),
		map[string]string{"status": before.Status}, map[string]string{"status": incident.Status})
	return c.JSON(http.StatusOK, incident)
}

// DeleteIncidentHandler removes an incident
func DeleteIncidentHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	incident, err := services.DeleteIncident(db.DB, id)
	if err != nil {
		return serviceError(c, err)
	}
	recordAudit(c, models.AuditActionDelete, resourceIncident, incident.ID, incident.IncidentNumber, "Incident deleted", incident, nil)
	return c.JSON(http.StatusOK, map[string]string{"message": "Incident deleted"})
}
