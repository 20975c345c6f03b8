package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Gender constants
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
)

// Civil status constants
const (
	CivilStatusSingle    = "Single"
	CivilStatusMarried   = "Married"
	CivilStatusWidowed   = "Widowed"
	CivilStatusSeparated = "Separated"
)

// SeniorAge is the age at which a resident qualifies as a senior citizen
const SeniorAge = 60

// Resident is a person registered in the barangay.
//
// Certificates, medical records, vaccinations, evacuees, incidents, the
// senior citizen ID and BHW visit logs all point back here. None of them
// cascade from the database side; see services.ResidentDependents.
type Resident struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Name parts
	FirstName  string `gorm:"not null;index:idx_resident_name" json:"first_name"`
	MiddleName string `json:"middle_name,omitempty"`
	LastName   string `gorm:"not null;index:idx_resident_name" json:"last_name"`
	Suffix     string `gorm:"size:10" json:"suffix,omitempty"`

	// Personal details
	BirthDate   *datatypes.Date `json:"birth_date,omitempty"`
	BirthPlace  string          `json:"birth_place,omitempty"`
	Gender      string          `gorm:"size:10" json:"gender,omitempty"`
	CivilStatus string          `gorm:"size:20" json:"civil_status,omitempty"`
	Occupation  string          `json:"occupation,omitempty"`

	// Contact
	Address       string `gorm:"not null" json:"address"`
	Purok         string `gorm:"size:50;index" json:"purok,omitempty"`
	ContactNumber string `gorm:"size:30" json:"contact_number,omitempty"`
	Email         string `json:"email,omitempty"`

	// Household link
	HouseholdID *uint      `gorm:"index" json:"household_id,omitempty"`
	Household   *Household `gorm:"foreignKey:HouseholdID;constraint:OnDelete:SET NULL" json:"household,omitempty"`

	// Assigned barangay health worker
	BHWID *uint       `gorm:"column:bhw_id;index" json:"bhw_id,omitempty"`
	BHW   *BHWProfile `gorm:"foreignKey:BHWID;constraint:OnDelete:SET NULL" json:"bhw,omitempty"`

	// Flags
	IsVoter  bool `gorm:"column:is_voter;not null;default:false" json:"is_voter"`
	IsPWD    bool `gorm:"column:is_pwd;not null;default:false" json:"is_pwd"`
	IsSenior bool `gorm:"column:is_senior;not null;default:false" json:"is_senior"`
}

// TableName specifies the table name for Resident model
func (Resident) TableName() string {
	return "residents"
}

// FullName joins the name parts, skipping empty ones
func (r *Resident) FullName() string {
	parts := []string{r.FirstName}
	if r.MiddleName != "" {
		parts = append(parts, r.MiddleName)
	}
	parts = append(parts, r.LastName)
	if r.Suffix != "" {
		parts = append(parts, r.Suffix)
	}
	return strings.Join(parts, " ")
}

// Age returns the resident's age in whole years at the given time, or -1 when
// the birth date is unknown.
func (r *Resident) Age(at time.Time) int {
	if r.BirthDate == nil {
		return -1
	}
	born := time.Time(*r.BirthDate)
	age := at.Year() - born.Year()
	if at.Month() < born.Month() || (at.Month() == born.Month() && at.Day() < born.Day()) {
		age--
	}
	return age
}

// IsValidGender checks if the gender is one of the recorded values
func IsValidGender(gender string) bool {
	return gender == GenderMale || gender == GenderFemale
}

// IsValidCivilStatus checks if the civil status is valid
func IsValidCivilStatus(status string) bool {
	switch status {
	case CivilStatusSingle, CivilStatusMarried, CivilStatusWidowed, CivilStatusSeparated:
		return true
	}
	return false
}
