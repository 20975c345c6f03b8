package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"barangay_app_go/logger"
	"barangay_app_go/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Incident-related errors
var (
	ErrIncidentNotFound = errors.New("incident not found")
	ErrIncidentClosed   = errors.New("closed incidents cannot be edited")
)

// IncidentFilters holds filter options for querying incidents
type IncidentFilters struct {
	Keyword    string
	Type       string
	Status     string
	ResidentID *uint // complainant or respondent
	DateFrom   *time.Time
	DateTo     *time.Time
}

// IncidentInput is the payload for recording an incident
type IncidentInput struct {
	IncidentType    string `json:"incident_type" form:"incident_type"`
	Title           string `json:"title" form:"title"`
	Narrative       string `json:"narrative" form:"narrative"`
	Location        string `json:"location" form:"location"`
	IncidentDate    string `json:"incident_date" form:"incident_date"` // RFC 3339 or YYYY-MM-DD
	ComplainantID   *uint  `json:"complainant_id" form:"complainant_id"`
	RespondentID    *uint  `json:"respondent_id" form:"respondent_id"`
	ComplainantName string `json:"complainant_name" form:"complainant_name"`
	RespondentName  string `json:"respondent_name" form:"respondent_name"`
	HandledBy       string `json:"handled_by" form:"handled_by"`
}

func validateIncidentInput(db *gorm.DB, input *IncidentInput, requireType bool) (time.Time, error) {
	input.Title = StripMarkup(input.Title)
	input.Narrative = SanitizeRichText(input.Narrative)
	input.Location = StripMarkup(input.Location)
	input.ComplainantName = StripMarkup(input.ComplainantName)
	input.RespondentName = StripMarkup(input.RespondentName)

	if requireType {
		input.IncidentType = strings.TrimSpace(input.IncidentType)
		if input.IncidentType == "" {
			return time.Time{}, newValidationError("incident_type", "is required")
		}
		if !models.IsValidIncidentType(input.IncidentType) {
			return time.Time{}, newValidationError("incident_type", "unknown incident type %q", input.IncidentType)
		}
	}
	if err := requireText("title", input.Title, 200); err != nil {
		return time.Time{}, err
	}

	occurred, err := parseOptionalTime("incident_date", input.IncidentDate)
	if err != nil {
		return time.Time{}, err
	}
	if occurred == nil {
		return time.Time{}, newValidationError("incident_date", "is required")
	}

	if input.ComplainantID != nil && input.RespondentID != nil && *input.ComplainantID == *input.RespondentID {
		return time.Time{}, newValidationError("respondent_id", "complainant and respondent must differ")
	}
	if input.ComplainantID != nil {
		if err := mustExist(db, &models.Resident{}, *input.ComplainantID, "complainant_id", "resident"); err != nil {
			return time.Time{}, err
		}
	}
	if input.RespondentID != nil {
		if err := mustExist(db, &models.Resident{}, *input.RespondentID, "respondent_id", "resident"); err != nil {
			return time.Time{}, err
		}
	}
	return *occurred, nil
}

// CreateIncident records a new incident with a generated number
func CreateIncident(db *gorm.DB, input IncidentInput) (*models.Incident, error) {
	occurred, err := validateIncidentInput(db, &input, true)
	if err != nil {
		return nil, err
	}

	var incident models.Incident
	_, err = insertWithNumber(NewIncidentNumberGenerator(db), input.IncidentType, func(number string) error {
		now := Now()
		incident = models.Incident{
			IncidentType:    input.IncidentType,
			IncidentNumber:  number,
			Title:           input.Title,
			Narrative:       input.Narrative,
			Location:        input.Location,
			IncidentDate:    occurred,
			ReportedAt:      now,
			ComplainantID:   input.ComplainantID,
			RespondentID:    input.RespondentID,
			ComplainantName: input.ComplainantName,
			RespondentName:  input.RespondentName,
			Status:          models.IncidentStatusOpen,
			HandledBy:       strings.TrimSpace(input.HandledBy),
		}
		incident.CreatedAt = now
		return db.Create(&incident).Error
	})
	if err != nil {
		if errors.Is(err, ErrNumberSpaceExhausted) || errors.Is(err, ErrNumberConflict) || errors.Is(err, ErrValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create incident: %w", err)
	}
	return &incident, nil
}

// GetIncidentByID retrieves an incident with both parties
func GetIncidentByID(db *gorm.DB, incidentID uint) (*models.Incident, error) {
	var incident models.Incident
	err := db.Preload("Complainant").Preload("Respondent").First(&incident, incidentID).Error
	if err != nil {
		return nil, notFound(err, ErrIncidentNotFound)
	}
	return &incident, nil
}

// GetIncidents retrieves incidents with filters and pagination
func GetIncidents(db *gorm.DB, filters IncidentFilters, page, limit int) ([]models.Incident, int64, error) {
	var incidents []models.Incident
	var total int64

	query := db.Model(&models.Incident{})

	if filters.Type != "" && models.IsValidIncidentType(filters.Type) {
		query = query.Where("incident_type = ?", filters.Type)
	}
	if filters.Status != "" && models.IsValidIncidentStatus(filters.Status) {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.ResidentID != nil {
		query = query.Where("complainant_id = ? OR respondent_id = ?", *filters.ResidentID, *filters.ResidentID)
	}
	if filters.DateFrom != nil {
		query = query.Where("incident_date >= ?", filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("incident_date <= ?", filters.DateTo)
	}
	query = likeAny(db, query, filters.Keyword,
		"incident_number", "title", "narrative", "location", "complainant_name", "respondent_name")

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := paginate(query, page, limit).
		Preload("Complainant").
		Preload("Respondent").
		Order("reported_at DESC").
		Find(&incidents).Error

	return incidents, total, err
}

// UpdateIncident edits an incident's details. Type and number never change.
func UpdateIncident(db *gorm.DB, incidentID uint, input IncidentInput) (*models.Incident, error) {
	var incident models.Incident
	if err := db.First(&incident, incidentID).Error; err != nil {
		return nil, notFound(err, ErrIncidentNotFound)
	}
	if incident.Status == models.IncidentStatusClosed {
		return nil, ErrIncidentClosed
	}

	occurred, err := validateIncidentInput(db, &input, false)
	if err != nil {
		return nil, err
	}

	incident.Title = input.Title
	incident.Narrative = input.Narrative
	incident.Location = input.Location
	incident.IncidentDate = occurred
	incident.ComplainantID = input.ComplainantID
	incident.RespondentID = input.RespondentID
	incident.ComplainantName = input.ComplainantName
	incident.RespondentName = input.RespondentName
	incident.HandledBy = strings.TrimSpace(input.HandledBy)

	if err := db.Save(&incident).Error; err != nil {
		return nil, fmt.Errorf("failed to update incident: %w", err)
	}
	return &incident, nil
}

// UpdateIncidentStatus moves an incident through its workflow. Resolving
// requires a resolution and stamps ResolvedAt; reopening clears it.
func UpdateIncidentStatus(db *gorm.DB, incidentID uint, status, resolution string) (*models.Incident, error) {
	if !models.IsValidIncidentStatus(status) {
		return nil, newValidationError("status", "unknown status %q", status)
	}

	var incident models.Incident
	if err := db.First(&incident, incidentID).Error; err != nil {
		return nil, notFound(err, ErrIncidentNotFound)
	}
	if !models.CanTransitionIncident(incident.Status, status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidStatusChange, incident.Status, status)
	}

	resolution = SanitizeRichText(resolution)
	updates := map[string]interface{}{"status": status}

	switch status {
	case models.IncidentStatusResolved:
		if resolution == "" {
			return nil, newValidationError("resolution", "is required to resolve an incident")
		}
		updates["resolution"] = resolution
		updates["resolved_at"] = Now()
	case models.IncidentStatusUnderInvestigation:
		updates["resolved_at"] = nil
	case models.IncidentStatusClosed:
		if resolution != "" {
			updates["resolution"] = resolution
		}
	}

	if err := db.Model(&incident).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update incident status: %w", err)
	}

	logger.L.Info("incident status changed",
		zap.Uint("incident_id", incident.ID),
		zap.String("number", incident.IncidentNumber),
		zap.String("status", status),
	)
	return GetIncidentByID(db, incidentID)
}

// DeleteIncident removes an incident
func DeleteIncident(db *gorm.DB, incidentID uint) (*models.Incident, error) {
	var incident models.Incident
	if err := db.First(&incident, incidentID).Error; err != nil {
		return nil, notFound(err, ErrIncidentNotFound)
	}
	if err := db.Delete(&incident).Error; err != nil {
		return nil, fmt.Errorf("failed to delete incident: %w", err)
	}
	return &incident, nil
}
