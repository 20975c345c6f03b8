package handlers

import (
	"net/http"

	"barangay_app_go/db"
	"barangay_app_go/services"

	"github.com/labstack/echo/v4"
)

// GetCentersHandler lists evacuation centers with their occupancy
func GetCentersHandler(c echo.Context) error {
	page, limit := pageParams(c)
	centers, total, err := services.GetCenters(db.DB, c.QueryParam("q"), page, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return respondPage(c, centers, total, page, limit)
}

// GetCenterHandler returns one evacuation center
func GetCenterHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	center, err := services.GetCenterByID(db.DB, id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, center)
}

// CreateCenterHandler registers an evacuation center
func CreateCenterHandler(c echo.Context) error {
	var input services.CenterInput
	if err := bindBody(c, &input); err != nil {
		return err
	}
	center, err := services.CreateCenter(db.DB, input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, center)
}

// UpdateCenterHandler replaces a center's details
func UpdateCenterHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var input services.CenterInput
	if err := bindBody(c, &input); err != nil {
		return err
	}
	center, err := services.UpdateCenter(db.DB, id, input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, center)
}

// DeleteCenterHandler removes a center without evacuees
func DeleteCenterHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := services.DeleteCenter(db.DB, id); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Evacuation center deleted"})
}

// GetEvacueesHandler lists evacuees, optionally for one center
func GetEvacueesHandler(c echo.Context) error {
	page, limit := pageParams(c)
	evacuees, total, err := services.GetEvacuees(db.DB, queryUint(c, "center_id"), c.QueryParam("status"), page, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return respondPage(c, evacuees, total, page, limit)
}

// CheckInEvacueeHandler admits a resident to a center
func CheckInEvacueeHandler(c echo.Context) error {
	var input services.CheckInInput
	if err := bindBody(c, &input); err != nil {
		return err
	}
	evacuee, err := services.CheckInEvacuee(db.DB, input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, evacuee)
}

// CheckOutEvacueeHandler releases an evacuee
func CheckOutEvacueeHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	evacuee, err := services.CheckOutEvacuee(db.DB, id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, evacuee)
}

// DeleteEvacueeHandler removes an evacuee record
func DeleteEvacueeHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := services.DeleteEvacuee(db.DB, id); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Evacuee deleted"})
}
