package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"barangay_app_go/models"

	"gorm.io/gorm"
)

// Senior citizen errors
var (
	ErrSeniorIDNotFound  = errors.New("senior citizen ID not found")
	ErrBenefitNotFound   = errors.New("benefit not found")
	ErrNotSeniorCitizen  = errors.New("resident is below the senior citizen age")
	ErrSeniorIDDuplicate = errors.New("resident already holds a senior citizen ID")
)

// SeniorIDInput is the payload for issuing an OSCA ID
type SeniorIDInput struct {
	ResidentID  uint   `json:"resident_id" form:"resident_id"`
	OSCANumber  string `json:"osca_number" form:"osca_number"`
	IssuedAt    string `json:"issued_at" form:"issued_at"` // defaults to now
	IsPensioner bool   `json:"is_pensioner" form:"is_pensioner"`
}

// BenefitInput is the payload for recording a claimed benefit
type BenefitInput struct {
	BenefitType string  `json:"benefit_type" form:"benefit_type"`
	Amount      float64 `json:"amount" form:"amount"`
	ClaimedAt   string  `json:"claimed_at" form:"claimed_at"` // defaults to now
	Remarks     string  `json:"remarks" form:"remarks"`
}

// IssueSeniorCitizenID issues an OSCA ID. The resident must be a senior when
// the birth date is known, and may hold only one ID.
func IssueSeniorCitizenID(db *gorm.DB, input SeniorIDInput) (*models.SeniorCitizenID, error) {
	input.OSCANumber = strings.TrimSpace(input.OSCANumber)
	if input.ResidentID == 0 {
		return nil, newValidationError("resident_id", "is required")
	}
	if err := requireText("osca_number", input.OSCANumber, 30); err != nil {
		return nil, err
	}
	issuedAt, err := parseOptionalTime("issued_at", input.IssuedAt)
	if err != nil {
		return nil, err
	}
	if issuedAt == nil {
		now := Now()
		issuedAt = &now
	}

	var resident models.Resident
	if err := db.First(&resident, input.ResidentID).Error; err != nil {
		return nil, notFound(err, ErrResidentNotFound)
	}
	if age := resident.Age(*issuedAt); age >= 0 && age < models.SeniorAge {
		return nil, ErrNotSeniorCitizen
	}

	var existing int64
	if err := db.Model(&models.SeniorCitizenID{}).Where("resident_id = ?", input.ResidentID).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrSeniorIDDuplicate
	}

	card := models.SeniorCitizenID{
		ResidentID:  input.ResidentID,
		OSCANumber:  input.OSCANumber,
		IssuedAt:    *issuedAt,
		IsPensioner: input.IsPensioner,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&card).Error; err != nil {
			return err
		}
		return tx.Model(&models.Resident{}).Where("id = ?", input.ResidentID).Update("is_senior", true).Error
	})
	if err != nil {
		return nil, translateWriteError(err, "OSCA number already used")
	}
	return &card, nil
}

// GetSeniorCitizenID retrieves an OSCA ID with its resident
func GetSeniorCitizenID(db *gorm.DB, cardID uint) (*models.SeniorCitizenID, error) {
	var card models.SeniorCitizenID
	if err := db.Preload("Resident").First(&card, cardID).Error; err != nil {
		return nil, notFound(err, ErrSeniorIDNotFound)
	}
	return &card, nil
}

// GetSeniorCitizenIDs lists OSCA IDs with their residents
func GetSeniorCitizenIDs(db *gorm.DB, keyword string, pensionersOnly bool, page, limit int) ([]models.SeniorCitizenID, int64, error) {
	var cards []models.SeniorCitizenID
	var total int64

	query := db.Model(&models.SeniorCitizenID{})
	if pensionersOnly {
		query = query.Where("is_pensioner = ?", true)
	}
	if kw := strings.TrimSpace(keyword); kw != "" {
		like := "%" + strings.ToLower(kw) + "%"
		residents := db.Model(&models.Resident{}).Select("id").
			Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", like, like)
		query = query.Where("LOWER(osca_number) LIKE ? OR resident_id IN (?)", like, residents)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(query, page, limit).Preload("Resident").Order("osca_number ASC").Find(&cards).Error
	return cards, total, err
}

// UpdateSeniorCitizenID changes the OSCA number or pension flag
func UpdateSeniorCitizenID(db *gorm.DB, cardID uint, input SeniorIDInput) (*models.SeniorCitizenID, error) {
	var card models.SeniorCitizenID
	if err := db.First(&card, cardID).Error; err != nil {
		return nil, notFound(err, ErrSeniorIDNotFound)
	}
	input.OSCANumber = strings.TrimSpace(input.OSCANumber)
	if err := requireText("osca_number", input.OSCANumber, 30); err != nil {
		return nil, err
	}
	card.OSCANumber = input.OSCANumber
	card.IsPensioner = input.IsPensioner
	if err := db.Save(&card).Error; err != nil {
		return nil, translateWriteError(err, "OSCA number already used")
	}
	return &card, nil
}

// DeleteSeniorCitizenID revokes an OSCA ID together with its benefit history
func DeleteSeniorCitizenID(db *gorm.DB, cardID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("senior_citizen_card_id = ?", cardID).Delete(&models.SeniorCitizenBenefit{}).Error; err != nil {
			return err
		}
		return deleteByID(tx, &models.SeniorCitizenID{}, cardID, ErrSeniorIDNotFound)
	})
}

// AddBenefit records a benefit claimed with an OSCA ID
func AddBenefit(db *gorm.DB, cardID uint, input BenefitInput) (*models.SeniorCitizenBenefit, error) {
	if err := mustExist(db, &models.SeniorCitizenID{}, cardID, "card_id", "senior citizen ID"); err != nil {
		return nil, ErrSeniorIDNotFound
	}
	input.BenefitType = strings.TrimSpace(input.BenefitType)
	if err := requireText("benefit_type", input.BenefitType, 50); err != nil {
		return nil, err
	}
	if input.Amount < 0 {
		return nil, newValidationError("amount", "cannot be negative")
	}
	claimed, err := parseOptionalTime("claimed_at", input.ClaimedAt)
	if err != nil {
		return nil, err
	}
	if claimed == nil {
		now := Now()
		claimed = &now
	}

	benefit := models.SeniorCitizenBenefit{
		CardID:      cardID,
		BenefitType: input.BenefitType,
		Amount:      input.Amount,
		ClaimedAt:   *claimed,
		Remarks:     StripMarkup(input.Remarks),
	}
	if err := db.Create(&benefit).Error; err != nil {
		return nil, fmt.Errorf("failed to record benefit: %w", err)
	}
	return &benefit, nil
}

// GetBenefits lists the benefits claimed with an OSCA ID, newest first
func GetBenefits(db *gorm.DB, cardID uint) ([]models.SeniorCitizenBenefit, error) {
	var benefits []models.SeniorCitizenBenefit
	err := db.Where("senior_citizen_card_id = ?", cardID).Order("claimed_at DESC").Find(&benefits).Error
	return benefits, err
}

// TotalBenefits sums the amounts claimed with an OSCA ID within [from, to)
func TotalBenefits(db *gorm.DB, cardID uint, from, to time.Time) (float64, error) {
	var total float64
	err := db.Model(&models.SeniorCitizenBenefit{}).
		Where("senior_citizen_card_id = ? AND claimed_at >= ? AND claimed_at < ?", cardID, from, to).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// DeleteBenefit removes a benefit record
func DeleteBenefit(db *gorm.DB, benefitID uint) error {
	return deleteByID(db, &models.SeniorCitizenBenefit{}, benefitID, ErrBenefitNotFound)
}
