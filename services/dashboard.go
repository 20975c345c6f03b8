package services

import (
	"fmt"
	"time"

	"barangay_app_go/models"

	"gorm.io/gorm"
)

// DashboardStats holds the counts shown on the office dashboard
type DashboardStats struct {
	TotalResidents      int64                `json:"total_residents"`
	Households          int64                `json:"households"`
	Seniors             int64                `json:"seniors"`
	OpenIncidents       int64                `json:"open_incidents"`
	PendingCertificates int64                `json:"pending_certificates"`
	IssuedThisMonth     int64                `json:"issued_this_month"`
	ActiveEvacuees      int64                `json:"active_evacuees"`
	RecentIncidents     []models.Incident    `json:"recent_incidents"`
	RecentCertificates  []models.Certificate `json:"recent_certificates"`
}

// GetDashboardStats collects the dashboard counts as of at
func GetDashboardStats(db *gorm.DB, at time.Time) (*DashboardStats, error) {
	stats := &DashboardStats{}
	monthStart := time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, time.UTC)

	counts := []struct {
		name  string
		dest  *int64
		query *gorm.DB
	}{
		{"residents", &stats.TotalResidents, db.Model(&models.Resident{})},
		{"households", &stats.Households, db.Model(&models.Household{})},
		{"seniors", &stats.Seniors, db.Model(&models.Resident{}).Where("is_senior = ?", true)},
		{"open incidents", &stats.OpenIncidents, db.Model(&models.Incident{}).
			Where("status IN ?", []string{models.IncidentStatusOpen, models.IncidentStatusUnderInvestigation})},
		{"pending certificates", &stats.PendingCertificates, db.Model(&models.Certificate{}).
			Where("status IN ?", []string{models.CertificateStatusPending, models.CertificateStatusApproved})},
		{"issued certificates", &stats.IssuedThisMonth, db.Model(&models.Certificate{}).
			Where("issue_date >= ? AND issue_date < ?", monthStart, monthStart.AddDate(0, 1, 0))},
		{"evacuees", &stats.ActiveEvacuees, db.Model(&models.Evacuee{}).
			Where("status = ?", models.EvacueeStatusCheckedIn)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", c.name, err)
		}
	}

	if err := db.Order("reported_at DESC").Limit(5).Find(&stats.RecentIncidents).Error; err != nil {
		return nil, fmt.Errorf("failed to load recent incidents: %w", err)
	}
	if err := db.Preload("Resident").Order("created_at DESC").Limit(5).Find(&stats.RecentCertificates).Error; err != nil {
		return nil, fmt.Errorf("failed to load recent certificates: %w", err)
	}
	return stats, nil
}
