package models

import (
	"time"

	"gorm.io/datatypes"
)

// MedicalRecord is a consultation or check-up logged at the barangay health station
type MedicalRecord struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ResidentID uint      `gorm:"not null;index" json:"resident_id"`
	Resident   *Resident `gorm:"foreignKey:ResidentID;constraint:OnDelete:RESTRICT" json:"resident,omitempty"`

	VisitDate     time.Time `gorm:"not null;index" json:"visit_date"`
	Complaint     string    `gorm:"type:text" json:"complaint,omitempty"`
	Diagnosis     string    `gorm:"type:text" json:"diagnosis,omitempty"`
	Treatment     string    `gorm:"type:text" json:"treatment,omitempty"`
	BloodPressure string    `gorm:"size:20" json:"blood_pressure,omitempty"`
	WeightKg      float64   `json:"weight_kg,omitempty"`
	HeightCm      float64   `json:"height_cm,omitempty"`
	AttendedBy    string    `json:"attended_by,omitempty"`
}

// TableName specifies the table name for MedicalRecord model
func (MedicalRecord) TableName() string {
	return "medical_records"
}

// Vaccination is a single vaccine dose given to a resident
type Vaccination struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ResidentID uint      `gorm:"not null;index" json:"resident_id"`
	Resident   *Resident `gorm:"foreignKey:ResidentID;constraint:OnDelete:RESTRICT" json:"resident,omitempty"`

	VaccineName      string          `gorm:"not null" json:"vaccine_name"`
	DoseNumber       int             `gorm:"not null;default:1" json:"dose_number"`
	DateAdministered datatypes.Date  `gorm:"not null" json:"date_administered"`
	NextDoseDate     *datatypes.Date `json:"next_dose_date,omitempty"`
	LotNumber        string          `gorm:"size:50" json:"lot_number,omitempty"`
	AdministeredBy   string          `json:"administered_by,omitempty"`
	ReminderSentAt   *time.Time      `json:"reminder_sent_at,omitempty"`
}

// TableName specifies the table name for Vaccination model
func (Vaccination) TableName() string {
	return "vaccinations"
}
