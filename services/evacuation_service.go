package services

import (
	"errors"
	"fmt"
	"strings"

	"barangay_app_go/models"

	"gorm.io/gorm"
)

// Evacuation errors
var (
	ErrCenterNotFound    = errors.New("evacuation center not found")
	ErrCenterInactive    = errors.New("evacuation center is not active")
	ErrCenterFull        = errors.New("evacuation center is at capacity")
	ErrEvacueeNotFound   = errors.New("evacuee not found")
	ErrAlreadyCheckedIn  = errors.New("resident is already checked in at an evacuation center")
	ErrAlreadyCheckedOut = errors.New("evacuee has already checked out")
)

// CenterInput is the editable part of an evacuation center
type CenterInput struct {
	Name     string `json:"name" form:"name"`
	Address  string `json:"address" form:"address"`
	Capacity int    `json:"capacity" form:"capacity"`
	IsActive *bool  `json:"is_active" form:"is_active"`
}

// CheckInInput is the payload for sheltering a resident
type CheckInInput struct {
	ResidentID  uint   `json:"resident_id" form:"resident_id"`
	CenterID    uint   `json:"center_id" form:"center_id"`
	CheckedInAt string `json:"checked_in_at" form:"checked_in_at"` // defaults to now
	Notes       string `json:"notes" form:"notes"`
}

// CenterOccupancy is a center with its current head count
type CenterOccupancy struct {
	models.EvacuationCenter
	Occupants int64 `json:"occupants"`
	Available int64 `json:"available"`
}

func validateCenterInput(input *CenterInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Address = strings.TrimSpace(input.Address)
	if err := requireText("name", input.Name, 200); err != nil {
		return err
	}
	if err := requireText("address", input.Address, 255); err != nil {
		return err
	}
	if input.Capacity <= 0 {
		return newValidationError("capacity", "must be greater than zero")
	}
	return nil
}

// CreateCenter registers an evacuation center. New centers are active unless stated otherwise.
func CreateCenter(db *gorm.DB, input CenterInput) (*models.EvacuationCenter, error) {
	if err := validateCenterInput(&input); err != nil {
		return nil, err
	}
	center := models.EvacuationCenter{
		Name:     input.Name,
		Address:  input.Address,
		Capacity: input.Capacity,
		IsActive: input.IsActive == nil || *input.IsActive,
	}
	if err := db.Create(&center).Error; err != nil {
		return nil, translateWriteError(err, "center name already used")
	}
	return &center, nil
}

// GetCenterByID retrieves an evacuation center
func GetCenterByID(db *gorm.DB, centerID uint) (*models.EvacuationCenter, error) {
	var center models.EvacuationCenter
	if err := db.First(&center, centerID).Error; err != nil {
		return nil, notFound(err, ErrCenterNotFound)
	}
	return &center, nil
}

// GetCenters lists evacuation centers with their current occupancy
func GetCenters(db *gorm.DB, keyword string, page, limit int) ([]CenterOccupancy, int64, error) {
	var centers []models.EvacuationCenter
	var total int64

	query := likeAny(db, db.Model(&models.EvacuationCenter{}), keyword, "name", "address")
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := paginate(query, page, limit).Order("name ASC").Find(&centers).Error; err != nil {
		return nil, 0, err
	}

	result := make([]CenterOccupancy, 0, len(centers))
	for _, c := range centers {
		occupants, err := countOccupants(db, c.ID)
		if err != nil {
			return nil, 0, err
		}
		available := int64(c.Capacity) - occupants
		if available < 0 {
			available = 0
		}
		result = append(result, CenterOccupancy{EvacuationCenter: c, Occupants: occupants, Available: available})
	}
	return result, total, nil
}

// UpdateCenter replaces the editable fields of a center
func UpdateCenter(db *gorm.DB, centerID uint, input CenterInput) (*models.EvacuationCenter, error) {
	center, err := GetCenterByID(db, centerID)
	if err != nil {
		return nil, err
	}
	if err := validateCenterInput(&input); err != nil {
		return nil, err
	}
	center.Name = input.Name
	center.Address = input.Address
	center.Capacity = input.Capacity
	if input.IsActive != nil {
		center.IsActive = *input.IsActive
	}
	if err := db.Save(center).Error; err != nil {
		return nil, translateWriteError(err, "center name already used")
	}
	return center, nil
}

// DeleteCenter removes a center and its evacuee records
func DeleteCenter(db *gorm.DB, centerID uint) error {
	return deleteByID(db, &models.EvacuationCenter{}, centerID, ErrCenterNotFound)
}

func countOccupants(db *gorm.DB, centerID uint) (int64, error) {
	var n int64
	err := db.Model(&models.Evacuee{}).
		Where("center_id = ? AND status = ?", centerID, models.EvacueeStatusCheckedIn).
		Count(&n).Error
	return n, err
}

// CheckInEvacuee shelters a resident at a center. A resident can be checked
// in at one center at a time and a center cannot exceed its capacity.
func CheckInEvacuee(db *gorm.DB, input CheckInInput) (*models.Evacuee, error) {
	if input.ResidentID == 0 {
		return nil, newValidationError("resident_id", "is required")
	}
	if input.CenterID == 0 {
		return nil, newValidationError("center_id", "is required")
	}
	checkedIn, err := parseOptionalTime("checked_in_at", input.CheckedInAt)
	if err != nil {
		return nil, err
	}
	if checkedIn == nil {
		now := Now()
		checkedIn = &now
	}

	var evacuee models.Evacuee
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := residentExists(tx, input.ResidentID); err != nil {
			return err
		}
		center, err := GetCenterByID(tx, input.CenterID)
		if err != nil {
			return err
		}
		if !center.IsActive {
			return ErrCenterInactive
		}

		var sheltered int64
		if err := tx.Model(&models.Evacuee{}).
			Where("resident_id = ? AND status = ?", input.ResidentID, models.EvacueeStatusCheckedIn).
			Count(&sheltered).Error; err != nil {
			return err
		}
		if sheltered > 0 {
			return ErrAlreadyCheckedIn
		}

		occupants, err := countOccupants(tx, center.ID)
		if err != nil {
			return err
		}
		if occupants >= int64(center.Capacity) {
			return ErrCenterFull
		}

		evacuee = models.Evacuee{
			ResidentID:  input.ResidentID,
			CenterID:    center.ID,
			Status:      models.EvacueeStatusCheckedIn,
			CheckedInAt: *checkedIn,
			Notes:       StripMarkup(input.Notes),
		}
		return tx.Create(&evacuee).Error
	})
	if err != nil {
		return nil, err
	}
	return &evacuee, nil
}

// CheckOutEvacuee marks an evacuee as having left the center
func CheckOutEvacuee(db *gorm.DB, evacueeID uint) (*models.Evacuee, error) {
	var evacuee models.Evacuee
	if err := db.First(&evacuee, evacueeID).Error; err != nil {
		return nil, notFound(err, ErrEvacueeNotFound)
	}
	if evacuee.Status == models.EvacueeStatusCheckedOut {
		return nil, ErrAlreadyCheckedOut
	}

	now := Now()
	evacuee.Status = models.EvacueeStatusCheckedOut
	evacuee.CheckedOutAt = &now
	if err := db.Save(&evacuee).Error; err != nil {
		return nil, fmt.Errorf("failed to check out evacuee: %w", err)
	}
	return &evacuee, nil
}

// GetEvacuees lists evacuees of a center, optionally by status
func GetEvacuees(db *gorm.DB, centerID *uint, status string, page, limit int) ([]models.Evacuee, int64, error) {
	var evacuees []models.Evacuee
	var total int64

	query := db.Model(&models.Evacuee{})
	if centerID != nil {
		query = query.Where("center_id = ?", *centerID)
	}
	if status == models.EvacueeStatusCheckedIn || status == models.EvacueeStatusCheckedOut {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(query, page, limit).
		Preload("Resident").
		Preload("Center").
		Order("checked_in_at DESC").
		Find(&evacuees).Error
	return evacuees, total, err
}

// DeleteEvacuee removes an evacuee record
func DeleteEvacuee(db *gorm.DB, evacueeID uint) error {
	return deleteByID(db, &models.Evacuee{}, evacueeID, ErrEvacueeNotFound)
}
