package handlers

import (
	"net/http"
	"strconv"

	"barangay_app_go/db"
	"barangay_app_go/services"

	"github.com/labstack/echo/v4"
)

// GetBHWsHandler lists barangay health workers
func GetBHWsHandler(c echo.Context) error {
	page, limit := pageParams(c)
	activeOnly, _ := strconv.ParseBool(c.QueryParam("active"))
	workers, total, err := services.GetBHWs(db.DB, c.QueryParam("q"), activeOnly, page, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return respondPage(c, workers, total, page, limit)
}

// GetBHWHandler returns one health worker
func GetBHWHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	bhw, err := services.GetBHWByID(db.DB, id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, bhw)
}

// CreateBHWHandler registers a health worker
func CreateBHWHandler(c echo.Context) error {
	var input services.BHWInput
	if err := bindBody(c, &input); err != nil {
		return err
	}
	bhw, err := services.CreateBHW(db.DB, input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, bhw)
}

// UpdateBHWHandler replaces a health worker's details
func UpdateBHWHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var input services.BHWInput
	if err := bindBody(c, &input); err != nil {
		return err
	}
	bhw, err := services.UpdateBHW(db.DB, id, input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, bhw)
}

// DeleteBHWHandler removes a health worker
func DeleteBHWHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := services.DeleteBHW(db.DB, id); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Health worker deleted"})
}

// GetVisitLogsHandler lists household visits
func GetVisitLogsHandler(c echo.Context) error {
	page, limit := pageParams(c)
	filters := services.VisitLogFilters{
		BHWID:      queryUint(c, "bhw_id"),
		ResidentID: queryUint(c, "resident_id"),
		VisitType:  c.QueryParam("type"),
		DateFrom:   queryDate(c, "date_from", false),
		DateTo:     queryDate(c, "date_to", true),
	}
	logs, total, err := services.GetVisitLogs(db.DB, filters, page, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return respondPage(c, logs, total, page, limit)
}

// CreateVisitLogHandler records a household visit
func CreateVisitLogHandler(c echo.Context) error {
	var input services.VisitLogInput
	if err := bindBody(c, &input); err != nil {
		return err
	}
	log, err := services.CreateVisitLog(db.DB, input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, log)
}

// DeleteVisitLogHandler removes a visit log
func DeleteVisitLogHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := services.DeleteVisitLog(db.DB, id); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Visit log deleted"})
}
