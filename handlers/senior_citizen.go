package handlers

import (
	"net/http"
	"strconv"
	"time"

	"barangay_app_go/db"
	"barangay_app_go/services"

	"github.com/labstack/echo/v4"
)

// GetSeniorIDsHandler lists senior citizen IDs
func GetSeniorIDsHandler(c echo.Context) error {
	page, limit := pageParams(c)
	pensioners, _ := strconv.ParseBool(c.QueryParam("pensioners"))
	cards, total, err := services.GetSeniorCitizenIDs(db.DB, c.QueryParam("q"), pensioners, page, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return respondPage(c, cards, total, page, limit)
}

// GetSeniorIDHandler returns one senior citizen ID with its benefits
func GetSeniorIDHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	card, err := services.GetSeniorCitizenID(db.DB, id)
	if err != nil {
		return serviceError(c, err)
	}
	benefits, err := services.GetBenefits(db.DB, id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"card":     card,
		"benefits": benefits,
	})
}

// IssueSeniorIDHandler issues an ID to a resident aged sixty or over
func IssueSeniorIDHandler(c echo.Context) error {
	var input services.SeniorIDInput
	if err := bindBody(c, &input); err != nil {
		return err
	}
	card, err := services.IssueSeniorCitizenID(db.DB, input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, card)
}

// UpdateSeniorIDHandler replaces a senior citizen ID's details
func UpdateSeniorIDHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var input services.SeniorIDInput
	if err := bindBody(c, &input); err != nil {
		return err
	}
	card, err := services.UpdateSeniorCitizenID(db.DB, id, input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, card)
}

// DeleteSeniorIDHandler removes a senior citizen ID and its benefits
func DeleteSeniorIDHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := services.DeleteSeniorCitizenID(db.DB, id); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Senior citizen ID deleted"})
}

// AddBenefitHandler records a benefit claimed on an ID
func AddBenefitHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var input services.BenefitInput
	if err := bindBody(c, &input); err != nil {
		return err
	}
	benefit, err := services.AddBenefit(db.DB, id, input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, benefit)
}

// GetBenefitTotalHandler sums benefits claimed in a year (default: this year)
func GetBenefitTotalHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	year := services.Now().Year()
	if y, err := strconv.Atoi(c.QueryParam("year")); err == nil && y > 0 {
		year = y
	}
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	total, err := services.TotalBenefits(db.DB, id, from, from.AddDate(1, 0, 0))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"year": year, "total": total})
}

// DeleteBenefitHandler removes a benefit
func DeleteBenefitHandler(c echo.Context) error {
	id, err := parseID(c, "benefitId")
	if err != nil {
		return err
	}
	if err := services.DeleteBenefit(db.DB, id); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Benefit deleted"})
}
