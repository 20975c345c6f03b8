package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"barangay_app_go/models"

	"gorm.io/gorm"
)

// BHW-related errors
var (
	ErrBHWNotFound      = errors.New("health worker not found")
	ErrVisitLogNotFound = errors.New("visit log not found")
)

// BHWInput is the editable part of a health worker profile
type BHWInput struct {
	FullName        string `json:"full_name" form:"full_name"`
	ContactNumber   string `json:"contact_number" form:"contact_number"`
	AssignedPurok   string `json:"assigned_purok" form:"assigned_purok"`
	AccreditationNo string `json:"accreditation_no" form:"accreditation_no"`
	IsActive        *bool  `json:"is_active" form:"is_active"`
}

// VisitLogInput is the payload for logging a visit
type VisitLogInput struct {
	BHWID      uint   `json:"bhw_id" form:"bhw_id"`
	ResidentID *uint  `json:"resident_id" form:"resident_id"`
	VisitDate  string `json:"visit_date" form:"visit_date"`
	VisitType  string `json:"visit_type" form:"visit_type"`
	Findings   string `json:"findings" form:"findings"`
	Referral   string `json:"referral" form:"referral"`
}

// VisitLogFilters holds filter options for querying visit logs
type VisitLogFilters struct {
	BHWID      *uint
	ResidentID *uint
	VisitType  string
	DateFrom   *time.Time
	DateTo     *time.Time
}

func validateBHWInput(input *BHWInput) error {
	input.FullName = strings.TrimSpace(input.FullName)
	if err := requireText("full_name", input.FullName, 200); err != nil {
		return err
	}
	return limitText("accreditation_no", strings.TrimSpace(input.AccreditationNo), 50)
}

// CreateBHW registers a health worker. New profiles are active unless stated otherwise.
func CreateBHW(db *gorm.DB, input BHWInput) (*models.BHWProfile, error) {
	if err := validateBHWInput(&input); err != nil {
		return nil, err
	}
	profile := models.BHWProfile{
		FullName:        input.FullName,
		ContactNumber:   strings.TrimSpace(input.ContactNumber),
		AssignedPurok:   strings.TrimSpace(input.AssignedPurok),
		AccreditationNo: strings.TrimSpace(input.AccreditationNo),
		IsActive:        input.IsActive == nil || *input.IsActive,
	}
	if err := db.Create(&profile).Error; err != nil {
		return nil, fmt.Errorf("failed to create health worker: %w", err)
	}
	return &profile, nil
}

// GetBHWByID retrieves a health worker profile
func GetBHWByID(db *gorm.DB, bhwID uint) (*models.BHWProfile, error) {
	var profile models.BHWProfile
	if err := db.First(&profile, bhwID).Error; err != nil {
		return nil, notFound(err, ErrBHWNotFound)
	}
	return &profile, nil
}

// GetBHWs lists health workers, optionally only active ones
func GetBHWs(db *gorm.DB, keyword string, activeOnly bool, page, limit int) ([]models.BHWProfile, int64, error) {
	var profiles []models.BHWProfile
	var total int64

	query := db.Model(&models.BHWProfile{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	query = likeAny(db, query, keyword, "full_name", "assigned_purok", "contact_number")

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(query, page, limit).Order("full_name ASC").Find(&profiles).Error
	return profiles, total, err
}

// UpdateBHW replaces the editable fields of a profile
func UpdateBHW(db *gorm.DB, bhwID uint, input BHWInput) (*models.BHWProfile, error) {
	profile, err := GetBHWByID(db, bhwID)
	if err != nil {
		return nil, err
	}
	if err := validateBHWInput(&input); err != nil {
		return nil, err
	}

	profile.FullName = input.FullName
	profile.ContactNumber = strings.TrimSpace(input.ContactNumber)
	profile.AssignedPurok = strings.TrimSpace(input.AssignedPurok)
	profile.AccreditationNo = strings.TrimSpace(input.AccreditationNo)
	if input.IsActive != nil {
		profile.IsActive = *input.IsActive
	}

	if err := db.Save(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to update health worker: %w", err)
	}
	return profile, nil
}

// DeleteBHW removes a profile together with its visit logs. Residents
// assigned to the worker are unassigned.
func DeleteBHW(db *gorm.DB, bhwID uint) error {
	return deleteByID(db, &models.BHWProfile{}, bhwID, ErrBHWNotFound)
}

// CreateVisitLog records a visit by a health worker
func CreateVisitLog(db *gorm.DB, input VisitLogInput) (*models.BHWVisitLog, error) {
	if input.BHWID == 0 {
		return nil, newValidationError("bhw_id", "is required")
	}
	if err := mustExist(db, &models.BHWProfile{}, input.BHWID, "bhw_id", "health worker"); err != nil {
		return nil, err
	}
	if input.ResidentID != nil {
		if err := mustExist(db, &models.Resident{}, *input.ResidentID, "resident_id", "resident"); err != nil {
			return nil, err
		}
	}
	if !models.IsValidVisitType(input.VisitType) {
		return nil, newValidationError("visit_type", "unknown visit type %q", input.VisitType)
	}
	visitDate, err := parseOptionalTime("visit_date", input.VisitDate)
	if err != nil {
		return nil, err
	}
	if visitDate == nil {
		return nil, newValidationError("visit_date", "is required")
	}

	log := models.BHWVisitLog{
		BHWID:      input.BHWID,
		ResidentID: input.ResidentID,
		VisitDate:  *visitDate,
		VisitType:  input.VisitType,
		Findings:   SanitizeRichText(input.Findings),
		Referral:   StripMarkup(input.Referral),
	}
	if err := db.Create(&log).Error; err != nil {
		return nil, fmt.Errorf("failed to create visit log: %w", err)
	}
	return &log, nil
}

// GetVisitLogs lists visit logs with filters and pagination
func GetVisitLogs(db *gorm.DB, filters VisitLogFilters, page, limit int) ([]models.BHWVisitLog, int64, error) {
	var logs []models.BHWVisitLog
	var total int64

	query := db.Model(&models.BHWVisitLog{})
	if filters.BHWID != nil {
		query = query.Where("bhw_id = ?", *filters.BHWID)
	}
	if filters.ResidentID != nil {
		query = query.Where("resident_id = ?", *filters.ResidentID)
	}
	if filters.VisitType != "" && models.IsValidVisitType(filters.VisitType) {
		query = query.Where("visit_type = ?", filters.VisitType)
	}
	if filters.DateFrom != nil {
		query = query.Where("visit_date >= ?", filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("visit_date <= ?", filters.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(query, page, limit).
		Preload("BHW").
		Preload("Resident").
		Order("visit_date DESC").
		Find(&logs).Error
	return logs, total, err
}

// DeleteVisitLog removes a visit log
func DeleteVisitLog(db *gorm.DB, logID uint) error {
	return deleteByID(db, &models.BHWVisitLog{}, logID, ErrVisitLogNotFound)
}
