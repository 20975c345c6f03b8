package services

import (
	"fmt"
	"strings"
	"time"

	"barangay_app_go/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ResidentFilters holds filter options for querying residents
type ResidentFilters struct {
	Keyword     string // name, address, contact number or email
	Purok       string
	Gender      string
	HouseholdID *uint
	BHWID       *uint
	IsVoter     *bool
	IsPWD       *bool
	IsSenior    *bool
}

// ResidentInput is the editable part of a resident
type ResidentInput struct {
	FirstName     string `json:"first_name" form:"first_name"`
	MiddleName    string `json:"middle_name" form:"middle_name"`
	LastName      string `json:"last_name" form:"last_name"`
	Suffix        string `json:"suffix" form:"suffix"`
	BirthDate     string `json:"birth_date" form:"birth_date"` // YYYY-MM-DD
	BirthPlace    string `json:"birth_place" form:"birth_place"`
	Gender        string `json:"gender" form:"gender"`
	CivilStatus   string `json:"civil_status" form:"civil_status"`
	Occupation    string `json:"occupation" form:"occupation"`
	Address       string `json:"address" form:"address"`
	Purok         string `json:"purok" form:"purok"`
	ContactNumber string `json:"contact_number" form:"contact_number"`
	Email         string `json:"email" form:"email"`
	HouseholdID   *uint  `json:"household_id" form:"household_id"`
	BHWID         *uint  `json:"bhw_id" form:"bhw_id"`
	IsVoter       bool   `json:"is_voter" form:"is_voter"`
	IsPWD         bool   `json:"is_pwd" form:"is_pwd"`
}

// validateResidentInput checks required fields and enumerations
func validateResidentInput(db *gorm.DB, input *ResidentInput) error {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Address = strings.TrimSpace(input.Address)
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))

	if err := requireText("first_name", input.FirstName, 100); err != nil {
		return err
	}
	if err := requireText("last_name", input.LastName, 100); err != nil {
		return err
	}
	if err := requireText("address", input.Address, 255); err != nil {
		return err
	}
	if err := limitText("suffix", input.Suffix, 10); err != nil {
		return err
	}
	if input.Gender != "" && !models.IsValidGender(input.Gender) {
		return newValidationError("gender", "must be %s or %s", models.GenderMale, models.GenderFemale)
	}
	if input.CivilStatus != "" && !models.IsValidCivilStatus(input.CivilStatus) {
		return newValidationError("civil_status", "invalid civil status %q", input.CivilStatus)
	}
	if input.Email != "" && !strings.Contains(input.Email, "@") {
		return newValidationError("email", "invalid email address")
	}

	if input.HouseholdID != nil {
		if err := mustExist(db, &models.Household{}, *input.HouseholdID, "household_id", "household"); err != nil {
			return err
		}
	}
	if input.BHWID != nil {
		if err := mustExist(db, &models.BHWProfile{}, *input.BHWID, "bhw_id", "health worker"); err != nil {
			return err
		}
	}
	return nil
}

// mustExist reports a validation error when a referenced row is missing
func mustExist(db *gorm.DB, model interface{}, id uint, field, what string) error {
	var count int64
	if err := db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return newValidationError(field, "%s %d does not exist", what, id)
	}
	return nil
}

func applyResidentInput(resident *models.Resident, input ResidentInput, birthDate *datatypes.Date) {
	resident.FirstName = input.FirstName
	resident.MiddleName = strings.TrimSpace(input.MiddleName)
	resident.LastName = input.LastName
	resident.Suffix = strings.TrimSpace(input.Suffix)
	resident.BirthDate = birthDate
	resident.BirthPlace = strings.TrimSpace(input.BirthPlace)
	resident.Gender = input.Gender
	resident.CivilStatus = input.CivilStatus
	resident.Occupation = strings.TrimSpace(input.Occupation)
	resident.Address = input.Address
	resident.Purok = strings.TrimSpace(input.Purok)
	resident.ContactNumber = strings.TrimSpace(input.ContactNumber)
	resident.Email = input.Email
	resident.HouseholdID = input.HouseholdID
	resident.BHWID = input.BHWID
	resident.IsVoter = input.IsVoter
	resident.IsPWD = input.IsPWD
	resident.IsSenior = resident.Age(Now()) >= models.SeniorAge
}

// CreateResident validates and persists a new resident
func CreateResident(db *gorm.DB, input ResidentInput) (*models.Resident, error) {
	if err := validateResidentInput(db, &input); err != nil {
		return nil, err
	}
	birthDate, err := parseOptionalDate("birth_date", input.BirthDate)
	if err != nil {
		return nil, err
	}
	if birthDate != nil && time.Time(*birthDate).After(Now()) {
		return nil, newValidationError("birth_date", "cannot be in the future")
	}

	var resident models.Resident
	applyResidentInput(&resident, input, birthDate)

	if err := db.Create(&resident).Error; err != nil {
		return nil, fmt.Errorf("failed to create resident: %w", err)
	}
	return &resident, nil
}

// GetResidentByID retrieves a resident with household and health worker
func GetResidentByID(db *gorm.DB, residentID uint) (*models.Resident, error) {
	var resident models.Resident
	err := db.Preload("Household").Preload("BHW").First(&resident, residentID).Error
	if err != nil {
		return nil, notFound(err, ErrResidentNotFound)
	}
	return &resident, nil
}

// residentQuery applies filters to a resident query
func residentQuery(db *gorm.DB, filters ResidentFilters) *gorm.DB {
	query := db.Model(&models.Resident{})

	if filters.Purok != "" {
		query = query.Where("purok = ?", filters.Purok)
	}
	if filters.Gender != "" && models.IsValidGender(filters.Gender) {
		query = query.Where("gender = ?", filters.Gender)
	}
	if filters.HouseholdID != nil {
		query = query.Where("household_id = ?", *filters.HouseholdID)
	}
	if filters.BHWID != nil {
		query = query.Where("bhw_id = ?", *filters.BHWID)
	}
	if filters.IsVoter != nil {
		query = query.Where("is_voter = ?", *filters.IsVoter)
	}
	if filters.IsPWD != nil {
		query = query.Where("is_pwd = ?", *filters.IsPWD)
	}
	if filters.IsSenior != nil {
		query = query.Where("is_senior = ?", *filters.IsSenior)
	}
	return likeAny(db, query, filters.Keyword,
		"first_name", "middle_name", "last_name", "address", "contact_number", "email")
}

// GetResidents retrieves residents with filters and pagination
func GetResidents(db *gorm.DB, filters ResidentFilters, page, limit int) ([]models.Resident, int64, error) {
	var residents []models.Resident
	var total int64

	query := residentQuery(db, filters)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := paginate(query, page, limit).
		Order("last_name ASC, first_name ASC").
		Find(&residents).Error

	return residents, total, err
}

// UpdateResident replaces the editable fields of a resident
func UpdateResident(db *gorm.DB, residentID uint, input ResidentInput) (*models.Resident, error) {
	var resident models.Resident
	if err := db.First(&resident, residentID).Error; err != nil {
		return nil, notFound(err, ErrResidentNotFound)
	}

	if err := validateResidentInput(db, &input); err != nil {
		return nil, err
	}
	birthDate, err := parseOptionalDate("birth_date", input.BirthDate)
	if err != nil {
		return nil, err
	}
	if birthDate != nil && time.Time(*birthDate).After(Now()) {
		return nil, newValidationError("birth_date", "cannot be in the future")
	}

	applyResidentInput(&resident, input, birthDate)
	// Drop stale associations so Save does not upsert them
	resident.Household = nil
	resident.BHW = nil

	if err := db.Save(&resident).Error; err != nil {
		return nil, fmt.Errorf("failed to update resident: %w", err)
	}
	return &resident, nil
}

// RefreshSeniorFlags recomputes IsSenior from birth dates. Returns how many
// residents changed.
func RefreshSeniorFlags(db *gorm.DB, at time.Time) (int64, error) {
	cutoff := time.Date(at.Year()-models.SeniorAge, at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)

	promoted := db.Model(&models.Resident{}).
		Where("is_senior = ? AND birth_date IS NOT NULL AND birth_date <= ?", false, cutoff).
		Update("is_senior", true)
	if promoted.Error != nil {
		return 0, promoted.Error
	}
	return promoted.RowsAffected, nil
}
