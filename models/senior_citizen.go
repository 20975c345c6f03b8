package models

import "time"

// SeniorCitizenID is the OSCA identification card held by a senior resident.
// A resident holds at most one.
type SeniorCitizenID struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ResidentID uint      `gorm:"not null;uniqueIndex" json:"resident_id"`
	Resident   *Resident `gorm:"foreignKey:ResidentID;constraint:OnDelete:RESTRICT" json:"resident,omitempty"`

	OSCANumber  string    `gorm:"column:osca_number;size:30;not null;uniqueIndex" json:"osca_number"`
	IssuedAt    time.Time `gorm:"not null" json:"issued_at"`
	IsPensioner bool      `gorm:"not null;default:false" json:"is_pensioner"`
}

// TableName specifies the table name for SeniorCitizenID model
func (SeniorCitizenID) TableName() string {
	return "senior_citizen_ids"
}

// SeniorCitizenBenefit is a benefit claimed against a senior citizen ID.
// Benefits live and die with their card.
type SeniorCitizenBenefit struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CardID uint             `gorm:"column:senior_citizen_card_id;not null;index" json:"card_id"`
	Card   *SeniorCitizenID `gorm:"foreignKey:CardID;constraint:OnDelete:CASCADE" json:"card,omitempty"`

	BenefitType string    `gorm:"size:50;not null" json:"benefit_type"`
	Amount      float64   `json:"amount"`
	ClaimedAt   time.Time `gorm:"not null" json:"claimed_at"`
	Remarks     string    `json:"remarks,omitempty"`
}

// TableName specifies the table name for SeniorCitizenBenefit model
func (SeniorCitizenBenefit) TableName() string {
	return "senior_citizen_benefits"
}
