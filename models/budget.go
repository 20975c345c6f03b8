package models

import "time"

// Expense status constants (workflow states - must remain fixed)
const (
	ExpenseStatusPending  = "Pending"
	ExpenseStatusApproved = "Approved"
	ExpenseStatusPaid     = "Paid"
	ExpenseStatusRejected = "Rejected"
)

// Budget is a fiscal-year allocation for one category of barangay spending
type Budget struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	FiscalYear      int     `gorm:"not null;uniqueIndex:idx_budget_year_category" json:"fiscal_year"`
	Category        string  `gorm:"size:100;not null;uniqueIndex:idx_budget_year_category" json:"category"`
	Description     string  `gorm:"type:text" json:"description,omitempty"`
	AllocatedAmount float64 `gorm:"not null" json:"allocated_amount"`
}

// TableName specifies the table name for Budget model
func (Budget) TableName() string {
	return "budgets"
}

// Expense is a disbursement charged against a budget
type Expense struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	BudgetID uint    `gorm:"not null;index" json:"budget_id"`
	Budget   *Budget `gorm:"foreignKey:BudgetID;constraint:OnDelete:CASCADE" json:"budget,omitempty"`

	Description string     `gorm:"not null" json:"description"`
	Amount      float64    `gorm:"not null" json:"amount"`
	Payee       string     `json:"payee,omitempty"`
	IncurredAt  time.Time  `gorm:"not null" json:"incurred_at"`
	Status      string     `gorm:"size:20;not null;default:Pending;index" json:"status"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
}

// TableName specifies the table name for Expense model
func (Expense) TableName() string {
	return "expenses"
}

// IsValidExpenseStatus checks if the status is valid
func IsValidExpenseStatus(status string) bool {
	switch status {
	case ExpenseStatusPending, ExpenseStatusApproved, ExpenseStatusPaid, ExpenseStatusRejected:
		return true
	}
	return false
}
