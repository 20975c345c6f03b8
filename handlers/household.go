package handlers

import (
	"net/http"

	"barangay_app_go/db"
	"barangay_app_go/services"

	"github.com/labstack/echo/v4"
)

// GetHouseholdsHandler lists households
func GetHouseholdsHandler(c echo.Context) error {
	page, limit := pageParams(c)
	filters := services.HouseholdFilters{
		Keyword:          c.QueryParam("q"),
		Purok:            c.QueryParam("purok"),
		Is4PsBeneficiary: queryBool(c, "4ps"),
	}
	households, total, err := services.GetHouseholds(db.DB, filters, page, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return respondPage(c, households, total, page, limit)
}

// GetHouseholdHandler returns a household with its members
func GetHouseholdHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	household, err := services.GetHouseholdByID(db.DB, id)
	if err != nil {
		return serviceError(c, err)
	}
	members, err := services.GetHouseholdMembers(db.DB, id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"household": household,
		"members":   members,
	})
}

// CreateHouseholdHandler registers a household
func CreateHouseholdHandler(c echo.Context) error {
	var input services.HouseholdInput
	if err := bindBody(c, &input); err != nil {
		return err
	}
	household, err := services.CreateHousehold(db.DB, input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, household)
}

// UpdateHouseholdHandler replaces a household's details
func UpdateHouseholdHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var input services.HouseholdInput
	if err := bindBody(c, &input); err != nil {
		return err
	}
	household, err := services.UpdateHousehold(db.DB, id, input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, household)
}

// DeleteHouseholdHandler removes a household without members
func DeleteHouseholdHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := services.DeleteHousehold(db.DB, id); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Household deleted"})
}
