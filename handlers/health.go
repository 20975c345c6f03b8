package handlers

import (
	"net/http"

	"barangay_app_go/db"
	"barangay_app_go/services"

	"github.com/labstack/echo/v4"
)

// GetMedicalRecordsHandler lists consultations, optionally for one resident
func GetMedicalRecordsHandler(c echo.Context) error {
	page, limit := pageParams(c)
	records, total, err := services.GetMedicalRecords(db.DB, queryUint(c, "resident_id"), c.QueryParam("q"), page, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return respondPage(c, records, total, page, limit)
}

// GetMedicalRecordHandler returns one consultation
func GetMedicalRecordHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	rec, err := services.GetMedicalRecordByID(db.DB, id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

// CreateMedicalRecordHandler records a consultation
func CreateMedicalRecordHandler(c echo.Context) error {
	var input services.MedicalRecordInput
	if err := bindBody(c, &input); err != nil {
		return err
	}
	rec, err := services.CreateMedicalRecord(db.DB, input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, rec)
}

// UpdateMedicalRecordHandler replaces a consultation
func UpdateMedicalRecordHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var input services.MedicalRecordInput
	if err := bindBody(c, &input); err != nil {
		return err
	}
	rec, err := services.UpdateMedicalRecord(db.DB, id, input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

// DeleteMedicalRecordHandler removes a consultation
func DeleteMedicalRecordHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := services.DeleteMedicalRecord(db.DB, id); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Medical record deleted"})
}

// GetVaccinationsHandler lists doses
func GetVaccinationsHandler(c echo.Context) error {
	page, limit := pageParams(c)
	vaccinations, total, err := services.GetVaccinations(db.DB, queryUint(c, "resident_id"), c.QueryParam("vaccine"), page, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return respondPage(c, vaccinations, total, page, limit)
}

// GetDueVaccinationsHandler lists doses due on or before ?as_of (default today)
func GetDueVaccinationsHandler(c echo.Context) error {
	asOf := services.Now()
	if t := queryDate(c, "as_of", false); t != nil {
		asOf = *t
	}
	due, err := services.GetDueVaccinations(db.DB, asOf)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, due)
}

// GetVaccinationHandler returns one dose
func GetVaccinationHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	vac, err := services.GetVaccinationByID(db.DB, id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, vac)
}

// CreateVaccinationHandler records a dose
func CreateVaccinationHandler(c echo.Context) error {
	var input services.VaccinationInput
	if err := bindBody(c, &input); err != nil {
		return err
	}
	vac, err := services.CreateVaccination(db.DB, input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, vac)
}

// UpdateVaccinationHandler replaces a dose
func UpdateVaccinationHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var input services.VaccinationInput
	if err := bindBody(c, &input); err != nil {
		return err
	}
	vac, err := services.UpdateVaccination(db.DB, id, input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, vac)
}

// DeleteVaccinationHandler removes a dose
func DeleteVaccinationHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := services.DeleteVaccination(db.DB, id); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Vaccination deleted"})
}
