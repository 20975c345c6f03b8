package services

import (
	"testing"
	"time"

	"barangay_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDashboardStats(t *testing.T) {
	conn := setupTestDB(t)
	at := time.Date(2025, time.June, 15, 8, 0, 0, 0, time.UTC)

	juan := createTestResident(t, conn, "Juan", "Dela Cruz")
	maria := createTestResident(t, conn, "Maria", "Clara")
	require.NoError(t, conn.Model(maria).Update("is_senior", true).Error)

	createTestCertificate(t, conn, juan.ID, "CLE-2025-00001")
	issued := createTestCertificate(t, conn, maria.ID, "CLE-2025-00002")
	issueDate := at.AddDate(0, 0, -3)
	require.NoError(t, conn.Model(issued).Updates(map[string]interface{}{
		"status":     models.CertificateStatusIssued,
		"issue_date": issueDate,
	}).Error)

	createTestIncident(t, conn, &juan.ID, &maria.ID)
	closed := createTestIncident(t, conn, &maria.ID, nil)
	require.NoError(t, conn.Model(closed).Update("status", models.IncidentStatusClosed).Error)

	center := &models.EvacuationCenter{Name: "Gym", Address: "Poblacion", Capacity: 10, IsActive: true}
	require.NoError(t, conn.Create(center).Error)
	require.NoError(t, conn.Create(&models.Evacuee{
		ResidentID:  juan.ID,
		CenterID:    center.ID,
		Status:      models.EvacueeStatusCheckedIn,
		CheckedInAt: at,
	}).Error)

	stats, err := GetDashboardStats(conn, at)
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalResidents)
	assert.Equal(t, int64(0), stats.Households)
	assert.Equal(t, int64(1), stats.Seniors)
	assert.Equal(t, int64(1), stats.OpenIncidents)
	assert.Equal(t, int64(1), stats.PendingCertificates)
	assert.Equal(t, int64(1), stats.IssuedThisMonth)
	assert.Equal(t, int64(1), stats.ActiveEvacuees)
	assert.Len(t, stats.RecentIncidents, 2)
	assert.Len(t, stats.RecentCertificates, 2)
}

func TestGetDashboardStatsEmpty(t *testing.T) {
	conn := setupTestDB(t)

	stats, err := GetDashboardStats(conn, time.Now().UTC())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalResidents)
	assert.Empty(t, stats.RecentIncidents)
}
