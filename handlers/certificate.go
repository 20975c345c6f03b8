package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"barangay_app_go/db"
	"barangay_app_go/middleware"
	"barangay_app_go/models"
	"barangay_app_go/services"

	"github.com/labstack/echo/v4"
)

const resourceCertificate = "Certificate"

// GetCertificatesHandler lists certificates
func GetCertificatesHandler(c echo.Context) error {
	page, limit := pageParams(c)
	filters := services.CertificateFilters{
		Keyword:    c.QueryParam("q"),
		ResidentID: queryUint(c, "resident_id"),
		Type:       c.QueryParam("type"),
		Status:     c.QueryParam("status"),
		DateFrom:   queryDate(c, "date_from", false),
		DateTo:     queryDate(c, "date_to", true),
	}
	certs, total, err := services.GetCertificates(db.DB, filters, page, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return respondPage(c, certs, total, page, limit)
}

// GetCertificateHandler returns one certificate
func GetCertificateHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	cert, err := services.GetCertificateByID(db.DB, id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, cert)
}

// CreateCertificateHandler records a certificate request and assigns its number
func CreateCertificateHandler(c echo.Context) error {
	var input services.CertificateInput
	if err := bindBody(c, &input); err != nil {
		return err
	}
	cert, err := services.CreateCertificate(db.DB, getConfig(c).AppURL, input)
	if err != nil {
		return serviceError(c, err)
	}
	recordAudit(c, models.AuditActionCreate, resourceCertificate, cert.ID, cert.CertificateNumber, "Certificate requested", nil, cert)
	return c.JSON(http.StatusCreated, cert)
}

// UpdateCertificateHandler edits a certificate that has not been issued
func UpdateCertificateHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var input services.CertificateInput
	if err := bindBody(c, &input); err != nil {
		return err
	}
	before, err := services.GetCertificateByID(db.DB, id)
	if err != nil {
		return serviceError(c, err)
	}
	cert, err := services.UpdateCertificate(db.DB, id, input)
	if err != nil {
		return serviceError(c, err)
	}
	recordAudit(c, models.AuditActionUpdate, resourceCertificate, cert.ID, cert.CertificateNumber, "Certificate updated", before, cert)
	return c.JSON(http.StatusOK, cert)
}

type statusRequest struct {
	Status     string `json:"status" form:"status"`
	Resolution string `json:"resolution" form:"resolution"`
}

// UpdateCertificateStatusHandler moves a certificate through its workflow.
// The resident is emailed when the certificate is issued; a failed email is
// logged and does not fail the request.
func UpdateCertificateStatusHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req statusRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	actor := "system"
	if user := middleware.GetCurrentUser(c); user != nil {
		actor = user.Name
	}
	before, err := services.GetCertificateByID(db.DB, id)
	if err != nil {
		return serviceError(c, err)
	}
	cert, err := services.UpdateCertificateStatus(db.DB, id, req.Status, actor)
	if err != nil {
		return serviceError(c, err)
	}

	recordAudit(c, models.AuditActionStatus, resourceCertificate, cert.ID, cert.CertificateNumber,
		fmt.Sprintf("Status changed from %s to %s", before.Status, cert.Status),
		map[string]string{"status": before.Status}, map[string]string{"status": cert.Status})

	if cert.IsIssued() {
		services.NotifyCertificateIssued(getConfig(c), cert)
	}
	return c.JSON(http.StatusOK, cert)
}

// DeleteCertificateHandler removes a certificate that was never issued
func DeleteCertificateHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	cert, err := services.DeleteCertificate(db.DB, id)
	if err != nil {
		return serviceError(c, err)
	}
	recordAudit(c, models.AuditActionDelete, resourceCertificate, cert.ID, cert.CertificateNumber, "Certificate deleted", cert, nil)
	return c.JSON(http.StatusOK, map[string]string{"message": "Certificate deleted"})
}

// PrintCertificateHandler renders and stores the certificate PDF
func PrintCertificateHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if Printer == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Certificate printing is not configured")
	}
	key, err := Printer.Print(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"document_key": key})
}

// DownloadCertificateHandler streams the stored PDF, printing it first when
// the certificate has none yet
func DownloadCertificateHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if Printer == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Certificate printing is not configured")
	}
	ctx := c.Request().Context()

	reader, cert, err := Printer.Open(ctx, id)
	if errors.Is(err, services.ErrCertificateNotPrinted) {
		if _, err = Printer.Print(ctx, id); err == nil {
			reader, cert, err = Printer.Open(ctx, id)
		}
	}
	if err != nil {
		return serviceError(c, err)
	}
	defer reader.Close()

	c.Response().Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%s.pdf", cert.CertificateNumber))
	c.Response().Header().Set(echo.HeaderContentType, "application/pdf")
	c.Response().WriteHeader(http.StatusOK)
	_, err = io.Copy(c.Response(), reader)
	return err
}

// VerifyCertificateHandler is the public target of a certificate's QR code
func VerifyCertificateHandler(c echo.Context) error {
	result, err := services.VerifyCertificate(db.DB, c.Param("number"), services.Now())
	if err != nil {
		if errors.Is(err, services.ErrCertificateNotFound) {
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"certificate_number": c.Param("number"),
				"valid":              false,
				"error":              "Certificate not found",
			})
		}
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
