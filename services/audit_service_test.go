package services

import (
	"encoding/json"
	"testing"

	"barangay_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogAuditEvent(t *testing.T) {
	conn := setupTestDB(t)

	user := models.User{
		Name:     "Test Auditor",
		Email:    "auditor@barangay.local",
		Password: "x",
		Role:     models.RoleAdmin,
	}
	require.NoError(t, conn.Create(&user).Error)

	ctx := AuditContext{
		UserID:    user.ID,
		UserName:  user.Name,
		UserRole:  user.Role,
		IPAddress: "10.0.0.1",
	}

	err := LogAuditEvent(conn, ctx, AuditEvent{
		Action:       models.AuditActionUpdate,
		ResourceType: "Certificate",
		ResourceID:   "12",
		ResourceName: "CLE-2025-00012",
		Description:  "Updated status",
		OldValues:    map[string]interface{}{"status": "Pending"},
		NewValues:    map[string]interface{}{"status": "Approved"},
	})
	require.NoError(t, err)

	// Written synchronously: no waiting needed
	var log models.AuditLog
	require.NoError(t, conn.First(&log, "resource_id = ?", "12").Error)
	assert.Equal(t, user.ID, *log.UserID)
	assert.Equal(t, "Certificate", log.ResourceType)
	assert.Equal(t, "Updated status", log.Description)
	assert.Equal(t, "10.0.0.1", log.IPAddress)

	var savedOld, savedNew map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(log.OldValues), &savedOld))
	require.NoError(t, json.Unmarshal([]byte(log.NewValues), &savedNew))
	assert.Equal(t, "Pending", savedOld["status"])
	assert.Equal(t, "Approved", savedNew["status"])

	changes := log.Changes()
	require.Len(t, changes, 1)
	assert.Equal(t, "status", changes[0].Field)
}

func TestLogAuditEventSystemActor(t *testing.T) {
	conn := setupTestDB(t)

	err := LogAuditEvent(conn, AuditContext{}, AuditEvent{
		Action:       models.AuditActionStatus,
		ResourceType: "Certificate",
		ResourceID:   "1",
	})
	require.NoError(t, err)

	var log models.AuditLog
	require.NoError(t, conn.First(&log).Error)
	assert.Nil(t, log.UserID)
	assert.Equal(t, "system", log.UserName)
	assert.Empty(t, log.OldValues)
}

func TestAuditLogImmutable(t *testing.T) {
	conn := setupTestDB(t)
	require.NoError(t, LogAuditEvent(conn, AuditContext{UserName: "sec"}, AuditEvent{
		Action:       models.AuditActionCreate,
		ResourceType: "Resident",
		ResourceID:   "1",
	}))

	var log models.AuditLog
	require.NoError(t, conn.First(&log).Error)

	err := conn.Model(&log).Update("description", "tampered").Error
	assert.ErrorIs(t, err, models.ErrAuditLogImmutable)
	err = conn.Delete(&log).Error
	assert.ErrorIs(t, err, models.ErrAuditLogImmutable)
}

func TestGetAuditLogs(t *testing.T) {
	conn := setupTestDB(t)
	for _, e := range []AuditEvent{
		{Action: models.AuditActionCreate, ResourceType: "Resident", ResourceID: "1", ResourceName: "Juan Dela Cruz"},
		{Action: models.AuditActionDelete, ResourceType: "Resident", ResourceID: "1", ResourceName: "Juan Dela Cruz"},
		{Action: models.AuditActionCreate, ResourceType: "Incident", ResourceID: "3", ResourceName: "BLO-2025-00001"},
	} {
		require.NoError(t, LogAuditEvent(conn, AuditContext{UserName: "sec"}, e))
	}

	logs, total, err := GetAuditLogs(conn, AuditLogFilters{ResourceType: "Resident"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, logs, 2)

	_, total, err = GetAuditLogs(conn, AuditLogFilters{SearchQuery: "blo-2025"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	history, err := GetResourceAuditHistory(conn, "Resident", "1")
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestLogSecurityEvent(t *testing.T) {
	conn := setupTestDB(t)

	LogSecurityEvent(conn, "LOGIN_FAILED", "", "invalid password for clerk@barangay.local")

	var log models.AuditLog
	require.NoError(t, conn.First(&log, "resource_type = ?", "SecurityEvent").Error)
	assert.Equal(t, models.AuditActionSecurity, log.Action)
	assert.Equal(t, "LOGIN_FAILED", log.ResourceID)
}
