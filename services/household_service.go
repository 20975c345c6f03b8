package services

import (
	"errors"
	"fmt"
	"strings"

	"barangay_app_go/models"

	"gorm.io/gorm"
)

// ErrHouseholdNotFound is returned when a household does not exist
var ErrHouseholdNotFound = errors.New("household not found")

// HouseholdFilters holds filter options for querying households
type HouseholdFilters struct {
	Keyword          string // number, head or address
	Purok            string
	Is4PsBeneficiary *bool
}

// HouseholdInput is the editable part of a household
type HouseholdInput struct {
	HouseholdNumber  string  `json:"household_number" form:"household_number"`
	HeadName         string  `json:"head_name" form:"head_name"`
	Address          string  `json:"address" form:"address"`
	Purok            string  `json:"purok" form:"purok"`
	MonthlyIncome    float64 `json:"monthly_income" form:"monthly_income"`
	Is4PsBeneficiary bool    `json:"is_4ps_beneficiary" form:"is_4ps_beneficiary"`
}

func validateHouseholdInput(input *HouseholdInput) error {
	input.HouseholdNumber = strings.TrimSpace(input.HouseholdNumber)
	input.HeadName = strings.TrimSpace(input.HeadName)
	input.Address = strings.TrimSpace(input.Address)
	input.Purok = strings.TrimSpace(input.Purok)

	if err := requireText("household_number", input.HouseholdNumber, 50); err != nil {
		return err
	}
	if err := requireText("head_name", input.HeadName, 200); err != nil {
		return err
	}
	if err := requireText("address", input.Address, 255); err != nil {
		return err
	}
	if input.MonthlyIncome < 0 {
		return newValidationError("monthly_income", "cannot be negative")
	}
	return nil
}

// CreateHousehold validates and persists a household
func CreateHousehold(db *gorm.DB, input HouseholdInput) (*models.Household, error) {
	if err := validateHouseholdInput(&input); err != nil {
		return nil, err
	}
	household := models.Household{
		HouseholdNumber:  input.HouseholdNumber,
		HeadName:         input.HeadName,
		Address:          input.Address,
		Purok:            input.Purok,
		MonthlyIncome:    input.MonthlyIncome,
		Is4PsBeneficiary: input.Is4PsBeneficiary,
	}
	if err := db.Create(&household).Error; err != nil {
		return nil, translateWriteError(err, "household number already used")
	}
	return &household, nil
}

// GetHouseholdByID retrieves a household
func GetHouseholdByID(db *gorm.DB, householdID uint) (*models.Household, error) {
	var household models.Household
	if err := db.First(&household, householdID).Error; err != nil {
		return nil, notFound(err, ErrHouseholdNotFound)
	}
	return &household, nil
}

// GetHouseholdMembers lists the residents of a household
func GetHouseholdMembers(db *gorm.DB, householdID uint) ([]models.Resident, error) {
	if _, err := GetHouseholdByID(db, householdID); err != nil {
		return nil, err
	}
	var members []models.Resident
	err := db.Where("household_id = ?", householdID).
		Order("last_name ASC, first_name ASC").
		Find(&members).Error
	return members, err
}

// GetHouseholds retrieves households with filters and pagination
func GetHouseholds(db *gorm.DB, filters HouseholdFilters, page, limit int) ([]models.Household, int64, error) {
	var households []models.Household
	var total int64

	query := db.Model(&models.Household{})
	if filters.Purok != "" {
		query = query.Where("purok = ?", filters.Purok)
	}
	if filters.Is4PsBeneficiary != nil {
		query = query.Where("is_4ps_beneficiary = ?", *filters.Is4PsBeneficiary)
	}
	query = likeAny(db, query, filters.Keyword, "household_number", "head_name", "address")

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(query, page, limit).Order("household_number ASC").Find(&households).Error
	return households, total, err
}

// UpdateHousehold replaces the editable fields of a household
func UpdateHousehold(db *gorm.DB, householdID uint, input HouseholdInput) (*models.Household, error) {
	household, err := GetHouseholdByID(db, householdID)
	if err != nil {
		return nil, err
	}
	if err := validateHouseholdInput(&input); err != nil {
		return nil, err
	}

	household.HouseholdNumber = input.HouseholdNumber
	household.HeadName = input.HeadName
	household.Address = input.Address
	household.Purok = input.Purok
	household.MonthlyIncome = input.MonthlyIncome
	household.Is4PsBeneficiary = input.Is4PsBeneficiary

	if err := db.Save(household).Error; err != nil {
		return nil, translateWriteError(err, "household number already used")
	}
	return household, nil
}

// DeleteHousehold removes a household. Its members stay and lose the link.
func DeleteHousehold(db *gorm.DB, householdID uint) error {
	if err := deleteByID(db, &models.Household{}, householdID, ErrHouseholdNotFound); err != nil {
		return fmt.Errorf("failed to delete household: %w", err)
	}
	return nil
}
