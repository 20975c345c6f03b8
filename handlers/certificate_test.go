package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"barangay_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCertificateWorkflowAndVerify(t *testing.T) {
	s := newTestServer(t)
	withClock(t, time.Date(2025, time.July, 1, 9, 0, 0, 0, time.UTC))
	_, secretary := s.login(t, models.RoleSecretary)
	resident := createResident(t, s.conn, "Liza", "Soberano")

	rec := s.do(t, http.MethodPost, "/api/certificates", map[string]interface{}{
		"resident_id":      resident.ID,
		"certificate_type": models.CertificateTypeIndigency,
		"purpose":          "Scholarship",
	}, secretary)
	requireStatus(t, rec, http.StatusCreated)
	var cert models.Certificate
	decode(t, rec, &cert)
	assert.Equal(t, "IND-2025-00001", cert.CertificateNumber)
	assert.Equal(t, "https://brgy.test/verify/IND-2025-00001", cert.QRPayload)

	var verification struct {
		Valid  bool   `json:"valid"`
		Status string `json:"status"`
	}
	rec = s.do(t, http.MethodGet, "/verify/IND-2025-00001", nil, "")
	requireStatus(t, rec, http.StatusOK)
	decode(t, rec, &verification)
	assert.False(t, verification.Valid)

	statusPath := fmt.Sprintf("/api/certificates/%d/status", cert.ID)
	requireStatus(t, s.do(t, http.MethodPut, statusPath, map[string]string{"status": models.CertificateStatusApproved}, secretary), http.StatusOK)
	rec = s.do(t, http.MethodPut, statusPath, map[string]string{"status": models.CertificateStatusIssued}, secretary)
	requireStatus(t, rec, http.StatusOK)
	decode(t, rec, &cert)
	require.NotNil(t, cert.IssueDate)

	rec = s.do(t, http.MethodGet, "/verify/IND-2025-00001", nil, "")
	requireStatus(t, rec, http.StatusOK)
	decode(t, rec, &verification)
	assert.True(t, verification.Valid)
	assert.Equal(t, models.CertificateStatusIssued, verification.Status)

	rec = s.do(t, http.MethodPut, statusPath, map[string]string{"status": models.CertificateStatusPending}, secretary)
	requireStatus(t, rec, http.StatusConflict)

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/api/certificates/%d", cert.ID), nil, secretary)
	requireStatus(t, rec, http.StatusConflict)

	assert.Equal(t, int64(2), countAudit(t, s.conn, models.AuditActionStatus))
}

func TestVerifyUnknownCertificate(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/verify/CLE-2025-99999", nil, "")
	requireStatus(t, rec, http.StatusNotFound)
	var body struct {
		Valid  bool   `json:"valid"`
		Number string `json:"certificate_number"`
	}
	decode(t, rec, &body)
	assert.False(t, body.Valid)
	assert.Equal(t, "CLE-2025-99999", body.Number)
}

func TestCreateCertificateForMissingResident(t *testing.T) {
	s := newTestServer(t)
	_, secretary := s.login(t, models.RoleSecretary)

	rec := s.do(t, http.MethodPost, "/api/certificates", map[string]interface{}{
		"resident_id":      404,
		"certificate_type": models.CertificateTypeResidency,
		"purpose":          "Bank",
	}, secretary)
	assert.Contains(t, []int{http.StatusBadRequest, http.StatusNotFound}, rec.Code, rec.Body.String())
}

func TestPrintCertificateWithoutPrinter(t *testing.T) {
	s := newTestServer(t)
	_, secretary := s.login(t, models.RoleSecretary)

	prev := Printer
	Printer = nil
	t.Cleanup(func() { Printer = prev })

	rec := s.do(t, http.MethodPost, "/api/certificates/1/print", nil, secretary)
	requireStatus(t, rec, http.StatusServiceUnavailable)
}
