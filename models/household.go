package models

import "time"

// Household groups residents living at the same dwelling
type Household struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	HouseholdNumber  string  `gorm:"size:50;uniqueIndex" json:"household_number"`
	HeadName         string  `gorm:"not null" json:"head_name"`
	Address          string  `gorm:"not null" json:"address"`
	Purok            string  `gorm:"size:50;index" json:"purok,omitempty"`
	MonthlyIncome    float64 `json:"monthly_income"`
	Is4PsBeneficiary bool    `gorm:"column:is_4ps_beneficiary;not null;default:false" json:"is_4ps_beneficiary"`
}

// TableName specifies the table name for Household model
func (Household) TableName() string {
	return "households"
}
