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

func TestResidentDeleteBlockedThenForced(t *testing.T) {
	s := newTestServer(t)
	withClock(t, time.Date(2025, time.March, 3, 8, 0, 0, 0, time.UTC))
	_, admin := s.login(t, models.RoleAdmin)

	rec := s.do(t, http.MethodPost, "/api/residents", map[string]interface{}{
		"first_name": "Juan",
		"last_name":  "Dela Cruz",
		"address":    "Purok 3, Poblacion",
		"gender":     models.GenderMale,
		"birth_date": "1990-05-14",
	}, admin)
	requireStatus(t, rec, http.StatusCreated)
	var resident models.Resident
	decode(t, rec, &resident)

	rec = s.do(t, http.MethodPost, "/api/certificates", map[string]interface{}{
		"resident_id":      resident.ID,
		"certificate_type": models.CertificateTypeClearance,
		"purpose":          "Employment",
	}, admin)
	requireStatus(t, rec, http.StatusCreated)
	var cert models.Certificate
	decode(t, rec, &cert)
	assert.Equal(t, "CLE-2025-00001", cert.CertificateNumber)

	path := fmt.Sprintf("/api/residents/%d", resident.ID)

	rec = s.do(t, http.MethodGet, path+"/dependents", nil, admin)
	requireStatus(t, rec, http.StatusOK)
	var report struct {
		Reasons    []string `json:"reasons"`
		SafeDelete bool     `json:"safe_delete"`
	}
	decode(t, rec, &report)
	assert.False(t, report.SafeDelete)
	assert.Contains(t, report.Reasons[0], "certificates")

	rec = s.do(t, http.MethodDelete, path, nil, admin)
	requireStatus(t, rec, http.StatusConflict)
	var blocked struct {
		Error   string   `json:"error"`
		Reasons []string `json:"reasons"`
	}
	decode(t, rec, &blocked)
	assert.NotEmpty(t, blocked.Error)
	require.Len(t, blocked.Reasons, 1)

	rec = s.do(t, http.MethodGet, path, nil, admin)
	requireStatus(t, rec, http.StatusOK)

	rec = s.do(t, http.MethodDelete, path+"?force=true", nil, admin)
	requireStatus(t, rec, http.StatusOK)

	rec = s.do(t, http.MethodGet, path, nil, admin)
	requireStatus(t, rec, http.StatusNotFound)

	var certs int64
	s.conn.Model(&models.Certificate{}).Count(&certs)
	assert.Zero(t, certs)

	var entry models.AuditLog
	require.NoError(t, s.conn.Where("action = ?", models.AuditActionForceDelete).First(&entry).Error)
	assert.Contains(t, entry.Description, "1 certificates")
	assert.Equal(t, "Test admin", entry.UserName)
}

func TestSafeDeleteWithoutDependents(t *testing.T) {
	s := newTestServer(t)
	_, admin := s.login(t, models.RoleAdmin)
	resident := createResident(t, s.conn, "Pedro", "Penduko")

	rec := s.do(t, http.MethodDelete, fmt.Sprintf("/api/residents/%d", resident.ID), nil, admin)
	requireStatus(t, rec, http.StatusOK)
	assert.Equal(t, int64(1), countAudit(t, s.conn, models.AuditActionDelete))

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/api/residents/%d", resident.ID), nil, admin)
	requireStatus(t, rec, http.StatusNotFound)
}

func TestResidentValidation(t *testing.T) {
	s := newTestServer(t)
	_, secretary := s.login(t, models.RoleSecretary)

	rec := s.do(t, http.MethodPost, "/api/residents", map[string]interface{}{
		"last_name": "Santos",
		"address":   "Purok 1",
	}, secretary)
	requireStatus(t, rec, http.StatusBadRequest)
	assert.Contains(t, rec.Body.String(), "first_name")

	rec = s.do(t, http.MethodGet, "/api/residents/abc", nil, secretary)
	requireStatus(t, rec, http.StatusBadRequest)
}

func TestResidentRoutesEnforceRoles(t *testing.T) {
	s := newTestServer(t)
	_, bhw := s.login(t, models.RoleBHW)
	_, secretary := s.login(t, models.RoleSecretary)
	resident := createResident(t, s.conn, "Rosa", "Reyes")
	path := fmt.Sprintf("/api/residents/%d", resident.ID)

	requireStatus(t, s.do(t, http.MethodGet, "/api/residents", nil, ""), http.StatusUnauthorized)
	requireStatus(t, s.do(t, http.MethodGet, "/api/residents", nil, bhw), http.StatusOK)
	requireStatus(t, s.do(t, http.MethodGet, path, nil, bhw), http.StatusOK)
	requireStatus(t, s.do(t, http.MethodPost, "/api/residents", map[string]string{"first_name": "X"}, bhw), http.StatusForbidden)
	requireStatus(t, s.do(t, http.MethodDelete, path, nil, secretary), http.StatusForbidden)
	requireStatus(t, s.do(t, http.MethodGet, "/api/vaccinations", nil, secretary), http.StatusForbidden)
	requireStatus(t, s.do(t, http.MethodGet, "/api/vaccinations", nil, bhw), http.StatusOK)
}

func TestGetResidentsPaging(t *testing.T) {
	s := newTestServer(t)
	_, secretary := s.login(t, models.RoleSecretary)
	for i := 0; i < 3; i++ {
		createResident(t, s.conn, fmt.Sprintf("Ana%d", i), "Lopez")
	}

	rec := s.do(t, http.MethodGet, "/api/residents?page=2&limit=2", nil, secretary)
	requireStatus(t, rec, http.StatusOK)
	var page struct {
		Data  []models.Resident `json:"data"`
		Total int64             `json:"total"`
		Page  int               `json:"page"`
	}
	decode(t, rec, &page)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Len(t, page.Data, 1)
}
