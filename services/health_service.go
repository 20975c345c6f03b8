package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"barangay_app_go/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Health record errors
var (
	ErrMedicalRecordNotFound = errors.New("medical record not found")
	ErrVaccinationNotFound   = errors.New("vaccination not found")
)

// MedicalRecordInput is the payload for a consultation
type MedicalRecordInput struct {
	ResidentID    uint    `json:"resident_id" form:"resident_id"`
	VisitDate     string  `json:"visit_date" form:"visit_date"`
	Complaint     string  `json:"complaint" form:"complaint"`
	Diagnosis     string  `json:"diagnosis" form:"diagnosis"`
	Treatment     string  `json:"treatment" form:"treatment"`
	BloodPressure string  `json:"blood_pressure" form:"blood_pressure"`
	WeightKg      float64 `json:"weight_kg" form:"weight_kg"`
	HeightCm      float64 `json:"height_cm" form:"height_cm"`
	AttendedBy    string  `json:"attended_by" form:"attended_by"`
}

// VaccinationInput is the payload for a vaccine dose
type VaccinationInput struct {
	ResidentID       uint   `json:"resident_id" form:"resident_id"`
	VaccineName      string `json:"vaccine_name" form:"vaccine_name"`
	DoseNumber       int    `json:"dose_number" form:"dose_number"`
	DateAdministered string `json:"date_administered" form:"date_administered"`
	NextDoseDate     string `json:"next_dose_date" form:"next_dose_date"`
	LotNumber        string `json:"lot_number" form:"lot_number"`
	AdministeredBy   string `json:"administered_by" form:"administered_by"`
}

func buildMedicalRecord(db *gorm.DB, input MedicalRecordInput, rec *models.MedicalRecord) error {
	if input.ResidentID == 0 {
		return newValidationError("resident_id", "is required")
	}
	if err := mustExist(db, &models.Resident{}, input.ResidentID, "resident_id", "resident"); err != nil {
		return err
	}
	visitDate, err := parseOptionalTime("visit_date", input.VisitDate)
	if err != nil {
		return err
	}
	if visitDate == nil {
		return newValidationError("visit_date", "is required")
	}
	if input.WeightKg < 0 || input.HeightCm < 0 {
		return newValidationError("weight_kg", "measurements cannot be negative")
	}
	if err := limitText("blood_pressure", input.BloodPressure, 20); err != nil {
		return err
	}

	rec.ResidentID = input.ResidentID
	rec.VisitDate = *visitDate
	rec.Complaint = SanitizeRichText(input.Complaint)
	rec.Diagnosis = SanitizeRichText(input.Diagnosis)
	rec.Treatment = SanitizeRichText(input.Treatment)
	rec.BloodPressure = strings.TrimSpace(input.BloodPressure)
	rec.WeightKg = input.WeightKg
	rec.HeightCm = input.HeightCm
	rec.AttendedBy = strings.TrimSpace(input.AttendedBy)
	return nil
}

// CreateMedicalRecord logs a consultation for a resident
func CreateMedicalRecord(db *gorm.DB, input MedicalRecordInput) (*models.MedicalRecord, error) {
	var rec models.MedicalRecord
	if err := buildMedicalRecord(db, input, &rec); err != nil {
		return nil, err
	}
	if err := db.Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("failed to create medical record: %w", err)
	}
	return &rec, nil
}

// GetMedicalRecordByID retrieves a medical record
func GetMedicalRecordByID(db *gorm.DB, recordID uint) (*models.MedicalRecord, error) {
	var rec models.MedicalRecord
	if err := db.Preload("Resident").First(&rec, recordID).Error; err != nil {
		return nil, notFound(err, ErrMedicalRecordNotFound)
	}
	return &rec, nil
}

// GetMedicalRecords lists medical records, newest first, optionally for one resident
func GetMedicalRecords(db *gorm.DB, residentID *uint, keyword string, page, limit int) ([]models.MedicalRecord, int64, error) {
	var records []models.MedicalRecord
	var total int64

	query := db.Model(&models.MedicalRecord{})
	if residentID != nil {
		query = query.Where("resident_id = ?", *residentID)
	}
	query = likeAny(db, query, keyword, "complaint", "diagnosis", "treatment")

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(query, page, limit).Order("visit_date DESC").Find(&records).Error
	return records, total, err
}

// UpdateMedicalRecord replaces a medical record's details
func UpdateMedicalRecord(db *gorm.DB, recordID uint, input MedicalRecordInput) (*models.MedicalRecord, error) {
	var rec models.MedicalRecord
	if err := db.First(&rec, recordID).Error; err != nil {
		return nil, notFound(err, ErrMedicalRecordNotFound)
	}
	if err := buildMedicalRecord(db, input, &rec); err != nil {
		return nil, err
	}
	if err := db.Save(&rec).Error; err != nil {
		return nil, fmt.Errorf("failed to update medical record: %w", err)
	}
	return &rec, nil
}

// DeleteMedicalRecord removes a medical record
func DeleteMedicalRecord(db *gorm.DB, recordID uint) error {
	return deleteByID(db, &models.MedicalRecord{}, recordID, ErrMedicalRecordNotFound)
}

func buildVaccination(db *gorm.DB, input VaccinationInput, vac *models.Vaccination) error {
	input.VaccineName = strings.TrimSpace(input.VaccineName)
	if input.ResidentID == 0 {
		return newValidationError("resident_id", "is required")
	}
	if err := mustExist(db, &models.Resident{}, input.ResidentID, "resident_id", "resident"); err != nil {
		return err
	}
	if err := requireText("vaccine_name", input.VaccineName, 100); err != nil {
		return err
	}
	if input.DoseNumber <= 0 {
		input.DoseNumber = 1
	}
	given, err := parseOptionalDate("date_administered", input.DateAdministered)
	if err != nil {
		return err
	}
	if given == nil {
		return newValidationError("date_administered", "is required")
	}
	next, err := parseOptionalDate("next_dose_date", input.NextDoseDate)
	if err != nil {
		return err
	}
	if next != nil && !time.Time(*next).After(time.Time(*given)) {
		return newValidationError("next_dose_date", "must be after the date administered")
	}

	vac.ResidentID = input.ResidentID
	vac.VaccineName = input.VaccineName
	vac.DoseNumber = input.DoseNumber
	vac.DateAdministered = *given
	if FormatDate(vac.NextDoseDate) != FormatDate(next) {
		vac.ReminderSentAt = nil
	}
	vac.NextDoseDate = next
	vac.LotNumber = strings.TrimSpace(input.LotNumber)
	vac.AdministeredBy = strings.TrimSpace(input.AdministeredBy)
	return nil
}

// CreateVaccination records a dose
func CreateVaccination(db *gorm.DB, input VaccinationInput) (*models.Vaccination, error) {
	var vac models.Vaccination
	if err := buildVaccination(db, input, &vac); err != nil {
		return nil, err
	}
	if err := db.Create(&vac).Error; err != nil {
		return nil, fmt.Errorf("failed to create vaccination: %w", err)
	}
	return &vac, nil
}

// GetVaccinationByID retrieves a vaccination
func GetVaccinationByID(db *gorm.DB, vaccinationID uint) (*models.Vaccination, error) {
	var vac models.Vaccination
	if err := db.Preload("Resident").First(&vac, vaccinationID).Error; err != nil {
		return nil, notFound(err, ErrVaccinationNotFound)
	}
	return &vac, nil
}

// GetVaccinations lists doses, newest first, optionally for one resident or vaccine
func GetVaccinations(db *gorm.DB, residentID *uint, vaccine string, page, limit int) ([]models.Vaccination, int64, error) {
	var vaccinations []models.Vaccination
	var total int64

	query := db.Model(&models.Vaccination{})
	if residentID != nil {
		query = query.Where("resident_id = ?", *residentID)
	}
	query = likeAny(db, query, vaccine, "vaccine_name")

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(query, page, limit).Order("date_administered DESC").Find(&vaccinations).Error
	return vaccinations, total, err
}

// GetDueVaccinations lists doses whose next dose falls on or before the given day
func GetDueVaccinations(db *gorm.DB, asOf time.Time) ([]models.Vaccination, error) {
	var due []models.Vaccination
	day := datatypes.Date(time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC))
	err := db.Preload("Resident").
		Where("next_dose_date IS NOT NULL AND next_dose_date <= ?", day).
		Order("next_dose_date ASC").
		Find(&due).Error
	return due, err
}

// UpdateVaccination replaces a vaccination's details
func UpdateVaccination(db *gorm.DB, vaccinationID uint, input VaccinationInput) (*models.Vaccination, error) {
	var vac models.Vaccination
	if err := db.First(&vac, vaccinationID).Error; err != nil {
		return nil, notFound(err, ErrVaccinationNotFound)
	}
	if err := buildVaccination(db, input, &vac); err != nil {
		return nil, err
	}
	if err := db.Save(&vac).Error; err != nil {
		return nil, fmt.Errorf("failed to update vaccination: %w", err)
	}
	return &vac, nil
}

// DeleteVaccination removes a vaccination
func DeleteVaccination(db *gorm.DB, vaccinationID uint) error {
	return deleteByID(db, &models.Vaccination{}, vaccinationID, ErrVaccinationNotFound)
}
