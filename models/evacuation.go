package models

import "time"

// Evacuee status constants
const (
	EvacueeStatusCheckedIn  = "Checked In"
	EvacueeStatusCheckedOut = "Checked Out"
)

// EvacuationCenter is a facility used to shelter residents during disasters
type EvacuationCenter struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name     string `gorm:"not null;uniqueIndex" json:"name"`
	Address  string `gorm:"not null" json:"address"`
	Capacity int    `gorm:"not null" json:"capacity"`
	IsActive bool   `gorm:"not null;default:false" json:"is_active"`
}

// TableName specifies the table name for EvacuationCenter model
func (EvacuationCenter) TableName() string {
	return "evacuation_centers"
}

// Evacuee is a resident sheltered at an evacuation center
type Evacuee struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ResidentID uint      `gorm:"not null;index" json:"resident_id"`
	Resident   *Resident `gorm:"foreignKey:ResidentID;constraint:OnDelete:RESTRICT" json:"resident,omitempty"`

	CenterID uint              `gorm:"not null;index" json:"center_id"`
	Center   *EvacuationCenter `gorm:"foreignKey:CenterID;constraint:OnDelete:CASCADE" json:"center,omitempty"`

	Status       string     `gorm:"size:20;not null" json:"status"`
	CheckedInAt  time.Time  `gorm:"not null" json:"checked_in_at"`
	CheckedOutAt *time.Time `json:"checked_out_at,omitempty"`
	Notes        string     `gorm:"type:text" json:"notes,omitempty"`
}

// TableName specifies the table name for Evacuee model
func (Evacuee) TableName() string {
	return "evacuees"
}
