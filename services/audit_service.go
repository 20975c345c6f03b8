package services

import (
	"encoding/json"
	"fmt"
	"time"

	"barangay_app_go/logger"
	"barangay_app_go/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuditContext contains contextual information for audit logging
type AuditContext struct {
	UserID    string
	UserName  string
	UserRole  string
	IPAddress string
	UserAgent string
}

// AuditEvent describes one audited operation
type AuditEvent struct {
	Action       models.AuditAction
	ResourceType string
	ResourceID   string
	ResourceName string
	Description  string
	OldValues    interface{}
	NewValues    interface{}
}

// LogAuditEvent writes an audit log entry. The write happens in the caller's
// goroutine so a request that returns has its trail committed. A failed write
// is logged and reported but never undoes the audited operation.
func LogAuditEvent(db *gorm.DB, ctx AuditContext, event AuditEvent) error {
	auditLog := models.AuditLog{
		UserID:       ptrIfNotEmpty(ctx.UserID),
		UserName:     ctx.UserName,
		UserRole:     ctx.UserRole,
		ResourceType: event.ResourceType,
		ResourceID:   event.ResourceID,
		ResourceName: event.ResourceName,
		Action:       event.Action,
		Description:  event.Description,
		OldValues:    marshalAuditValues(event.OldValues),
		NewValues:    marshalAuditValues(event.NewValues),
		IPAddress:    ctx.IPAddress,
		UserAgent:    ctx.UserAgent,
	}
	if auditLog.UserName == "" {
		auditLog.UserName = "system"
	}
	if auditLog.UserRole == "" {
		auditLog.UserRole = "system"
	}

	if err := db.Create(&auditLog).Error; err != nil {
		logger.L.Error("failed to create audit log",
			zap.String("resource_type", event.ResourceType),
			zap.String("resource_id", event.ResourceID),
			zap.String("action", string(event.Action)),
			zap.Error(err),
		)
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

func marshalAuditValues(v interface{}) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// ptrIfNotEmpty returns a pointer to the string if not empty, nil otherwise
func ptrIfNotEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// GetResourceAuditHistory retrieves the audit history for a specific resource
func GetResourceAuditHistory(db *gorm.DB, resourceType, resourceID string) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := db.Where("resource_type = ? AND resource_id = ?", resourceType, resourceID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}

// AuditLogFilters contains filter options for audit log queries
type AuditLogFilters struct {
	UserID       string
	ResourceType string
	Action       string
	DateFrom     time.Time
	DateTo       time.Time
	SearchQuery  string
}

// GetAuditLogs retrieves paginated audit logs, newest first
func GetAuditLogs(db *gorm.DB, filters AuditLogFilters, page, limit int) ([]models.AuditLog, int64, error) {
	query := db.Model(&models.AuditLog{})

	if filters.UserID != "" {
		query = query.Where("user_id = ?", filters.UserID)
	}
	if filters.ResourceType != "" {
		query = query.Where("resource_type = ?", filters.ResourceType)
	}
	if filters.Action != "" {
		query = query.Where("action = ?", filters.Action)
	}
	if !filters.DateFrom.IsZero() {
		query = query.Where("created_at >= ?", filters.DateFrom)
	}
	if !filters.DateTo.IsZero() {
		query = query.Where("created_at <= ?", filters.DateTo)
	}
	query = likeAny(db, query, filters.SearchQuery, "resource_name", "description", "user_name")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.AuditLog
	err := paginate(query, page, limit).
		Order("created_at DESC").
		Find(&logs).Error

	return logs, total, err
}

// LogSecurityEvent records a security-relevant event such as a failed login
func LogSecurityEvent(db *gorm.DB, eventType, userID, details string) {
	logger.L.Warn("security event",
		zap.String("event", eventType),
		zap.String("user_id", userID),
		zap.String("details", details),
	)

	err := LogAuditEvent(db, AuditContext{UserID: userID}, AuditEvent{
		Action:       models.AuditActionSecurity,
		ResourceType: "SecurityEvent",
		ResourceID:   eventType,
		Description:  details,
	})
	if err != nil {
		logger.L.Error("failed to persist security event", zap.Error(err))
	}
}
