package services

import (
	"testing"

	"barangay_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBHWProfiles(t *testing.T) {
	conn := setupTestDB(t)

	bhw, err := CreateBHW(conn, BHWInput{FullName: "Ana Reyes", AssignedPurok: "Purok 1"})
	require.NoError(t, err)
	assert.True(t, bhw.IsActive)

	no := false
	inactive, err := CreateBHW(conn, BHWInput{FullName: "Ben Cruz", IsActive: &no})
	require.NoError(t, err)
	assert.False(t, inactive.IsActive)

	_, err = CreateBHW(conn, BHWInput{})
	assert.ErrorIs(t, err, ErrValidation)

	active, total, err := GetBHWs(conn, "", true, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Ana Reyes", active[0].FullName)

	updated, err := UpdateBHW(conn, inactive.ID, BHWInput{FullName: "Benjamin Cruz"})
	require.NoError(t, err)
	assert.Equal(t, "Benjamin Cruz", updated.FullName)
	assert.False(t, updated.IsActive)

	_, err = GetBHWByID(conn, 999)
	assert.ErrorIs(t, err, ErrBHWNotFound)
}

func TestVisitLogs(t *testing.T) {
	conn := setupTestDB(t)
	bhw, err := CreateBHW(conn, BHWInput{FullName: "Ana Reyes"})
	require.NoError(t, err)
	resident, err := CreateResident(conn, ResidentInput{FirstName: "Liza", LastName: "Soberano", Address: "Purok 1", BHWID: &bhw.ID})
	require.NoError(t, err)

	log, err := CreateVisitLog(conn, VisitLogInput{BHWID: bhw.ID, ResidentID: &resident.ID, VisitDate: "2025-02-10", VisitType: models.VisitTypePrenatal, Findings: "BP normal"})
	require.NoError(t, err)
	assert.NotZero(t, log.ID)

	_, err = CreateVisitLog(conn, VisitLogInput{BHWID: bhw.ID, VisitDate: "2025-02-10", VisitType: "Social"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = CreateVisitLog(conn, VisitLogInput{BHWID: 999, VisitDate: "2025-02-10", VisitType: models.VisitTypeRoutine})
	assert.ErrorIs(t, err, ErrValidation)

	logs, total, err := GetVisitLogs(conn, VisitLogFilters{ResidentID: &resident.ID}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.NotNil(t, logs[0].BHW)

	// Deleting the worker removes their logs and unassigns residents
	require.NoError(t, DeleteBHW(conn, bhw.ID))
	assert.Zero(t, countRows(t, conn, &models.BHWVisitLog{}, "id = ?", log.ID))
	var kept models.Resident
	require.NoError(t, conn.First(&kept, resident.ID).Error)
	assert.Nil(t, kept.BHWID)

	assert.ErrorIs(t, DeleteVisitLog(conn, log.ID), ErrVisitLogNotFound)
}
