package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"barangay_app_go/db"
	"barangay_app_go/models"
	"barangay_app_go/services"

	"github.com/labstack/echo/v4"
)

const resourceResident = "Resident"

func residentFilters(c echo.Context) services.ResidentFilters {
	return services.ResidentFilters{
		Keyword:     c.QueryParam("q"),
		Purok:       c.QueryParam("purok"),
		Gender:      c.QueryParam("gender"),
		HouseholdID: queryUint(c, "household_id"),
		BHWID:       queryUint(c, "bhw_id"),
		IsVoter:     queryBool(c, "voter"),
		IsPWD:       queryBool(c, "pwd"),
		IsSenior:    queryBool(c, "senior"),
	}
}

// GetResidentsHandler lists residents
func GetResidentsHandler(c echo.Context) error {
	page, limit := pageParams(c)
	residents, total, err := services.GetResidents(db.DB, residentFilters(c), page, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return respondPage(c, residents, total, page, limit)
}

// GetResidentHandler returns one resident
func GetResidentHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	resident, err := services.GetResidentByID(db.DB, id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, resident)
}

// CreateResidentHandler registers a resident
func CreateResidentHandler(c echo.Context) error {
	var input services.ResidentInput
	if err := bindBody(c, &input); err != nil {
		return err
	}
	resident, err := services.CreateResident(db.DB, input)
	if err != nil {
		return serviceError(c, err)
	}
	recordAudit(c, models.AuditActionCreate, resourceResident, resident.ID, resident.FullName(), "Resident registered", nil, resident)
	return c.JSON(http.StatusCreated, resident)
}

// UpdateResidentHandler replaces a resident's details
func UpdateResidentHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var input services.ResidentInput
	if err := bindBody(c, &input); err != nil {
		return err
	}

	before, err := services.GetResidentByID(db.DB, id)
	if err != nil {
		return serviceError(c, err)
	}
	resident, err := services.UpdateResident(db.DB, id, input)
	if err != nil {
		return serviceError(c, err)
	}
	recordAudit(c, models.AuditActionUpdate, resourceResident, resident.ID, resident.FullName(), "Resident updated", before, resident)
	return c.JSON(http.StatusOK, resident)
}

// DeleteResidentHandler deletes a resident. Without ?force=true the delete
// is refused while blocking records exist; the response lists them.
func DeleteResidentHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	force, _ := strconv.ParseBool(c.QueryParam("force"))

	resident, err := services.GetResidentByID(db.DB, id)
	if err != nil {
		return serviceError(c, err)
	}
	counts, err := services.CountResidentDependents(db.DB, id)
	if err != nil {
		return serviceError(c, err)
	}

	if err := services.DeleteResident(db.DB, id, force); err != nil {
		var blocked *services.DeleteBlockedError
		if errors.As(err, &blocked) {
			return c.JSON(http.StatusConflict, map[string]interface{}{
				"error":      err.Error(),
				"reasons":    blocked.Reasons,
				"dependents": counts,
			})
		}
		return serviceError(c, err)
	}

	action := models.AuditActionDelete
	description := "Resident deleted"
	if force {
		action = models.AuditActionForceDelete
		description = fmt.Sprintf("Resident force-deleted with %s", describeCounts(counts))
	}
	recordAudit(c, action, resourceResident, id, resident.FullName(), description, map[string]interface{}{
		"resident":   resident,
		"dependents": counts,
	}, nil)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":    "Resident deleted",
		"force":      force,
		"dependents": counts,
	})
}

func describeCounts(counts []services.DependentCount) string {
	var parts []string
	for _, dc := range counts {
		if dc.Count > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", dc.Count, dc.Label))
		}
	}
	if len(parts) == 0 {
		return "no related records"
	}
	return strings.Join(parts, ", ")
}

// GetResidentDependentsHandler reports what a delete of the resident would touch
func GetResidentDependentsHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if _, err := services.GetResidentByID(db.DB, id); err != nil {
		return serviceError(c, err)
	}
	counts, err := services.CountResidentDependents(db.DB, id)
	if err != nil {
		return serviceError(c, err)
	}
	reasons, err := services.CheckResidentDependents(db.DB, id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"dependents":  counts,
		"reasons":     reasons,
		"safe_delete": len(reasons) == 0,
	})
}

// ExportResidentsHandler downloads the filtered residents as a spreadsheet.
// With ?archive=true the file is kept in storage and its key returned instead.
func ExportResidentsHandler(c echo.Context) error {
	buf, count, err := services.ExportResidentsExcel(db.DB, residentFilters(c))
	if err != nil {
		return serviceError(c, err)
	}

	if archive, _ := strconv.ParseBool(c.QueryParam("archive")); archive && Storage != nil {
		ctx := c.Request().Context()
		key := services.ExportKey("residents", services.Now())
		stored, err := Storage.Put(ctx, bytes.NewReader(buf.Bytes()), key, services.XLSXContentType, int64(buf.Len()))
		if err != nil {
			return serviceError(c, err)
		}
		if url, err := Storage.GetSignedURL(ctx, key, 15*time.Minute); err == nil {
			stored.URL = url
		}
		recordAudit(c, models.AuditActionCreate, "Export", 0, key, fmt.Sprintf("Archived export of %d residents", count), nil, nil)
		return c.JSON(http.StatusCreated, map[string]interface{}{"file": stored, "count": count})
	}

	c.Response().Header().Set("Content-Disposition", "attachment; filename=residents.xlsx")
	c.Response().Header().Set("X-Total-Count", strconv.Itoa(count))
	return c.Blob(http.StatusOK, services.XLSXContentType, buf.Bytes())
}

// GetResidentTemplateHandler serves the empty import spreadsheet
func GetResidentTemplateHandler(c echo.Context) error {
	buf, err := services.GenerateResidentTemplate()
	if err != nil {
		return serviceError(c, err)
	}
	c.Response().Header().Set("Content-Disposition", "attachment; filename=resident_import_template.xlsx")
	return c.Blob(http.StatusOK, services.XLSXContentType, buf.Bytes())
}

// ImportResidentsHandler handles the spreadsheet upload. Rows that fail are
// reported; the others are kept.
func ImportResidentsHandler(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No file uploaded")
	}
	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to open file")
	}
	defer src.Close()

	result, err := services.ImportResidentsExcel(db.DB, src)
	if err != nil {
		return serviceError(c, err)
	}
	recordAudit(c, models.AuditActionImport, resourceResident, 0, file.Filename,
		fmt.Sprintf("Imported %d of %d residents", result.SuccessCount, result.TotalProcessed), nil, result)
	return c.JSON(http.StatusOK, result)
}
