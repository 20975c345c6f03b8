package models

import "time"

// Visit type constants
const (
	VisitTypeRoutine   = "Routine"
	VisitTypeFollowUp  = "Follow-up"
	VisitTypePrenatal  = "Prenatal"
	VisitTypeEmergency = "Emergency"
)

// BHWProfile is a barangay health worker
type BHWProfile struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	FullName        string `gorm:"not null" json:"full_name"`
	ContactNumber   string `gorm:"size:30" json:"contact_number,omitempty"`
	AssignedPurok   string `gorm:"size:50;index" json:"assigned_purok,omitempty"`
	AccreditationNo string `gorm:"size:50" json:"accreditation_no,omitempty"`
	IsActive        bool   `gorm:"not null;default:false" json:"is_active"`
}

// TableName specifies the table name for BHWProfile model
func (BHWProfile) TableName() string {
	return "bhw_profiles"
}

// BHWVisitLog records a household or resident visit by a health worker.
// The resident link is a plain reference: deleting the resident detaches the
// log instead of removing it.
type BHWVisitLog struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	BHWID uint        `gorm:"column:bhw_id;not null;index" json:"bhw_id"`
	BHW   *BHWProfile `gorm:"foreignKey:BHWID;constraint:OnDelete:CASCADE" json:"bhw,omitempty"`

	ResidentID *uint     `gorm:"index" json:"resident_id,omitempty"`
	Resident   *Resident `gorm:"foreignKey:ResidentID;constraint:OnDelete:NO ACTION" json:"resident,omitempty"`

	VisitDate time.Time `gorm:"not null;index" json:"visit_date"`
	VisitType string    `gorm:"size:20;not null" json:"visit_type"`
	Findings  string    `gorm:"type:text" json:"findings,omitempty"`
	Referral  string    `json:"referral,omitempty"`
}

// TableName specifies the table name for BHWVisitLog model
func (BHWVisitLog) TableName() string {
	return "bhw_visit_logs"
}

// IsValidVisitType checks if the visit type is valid
func IsValidVisitType(visitType string) bool {
	switch visitType {
	case VisitTypeRoutine, VisitTypeFollowUp, VisitTypePrenatal, VisitTypeEmergency:
		return true
	}
	return false
}
