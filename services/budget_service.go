package services

import (
	"errors"
	"fmt"
	"strings"

	"barangay_app_go/models"

	"gorm.io/gorm"
)

// Budget errors
var (
	ErrBudgetNotFound  = errors.New("budget not found")
	ErrExpenseNotFound = errors.New("expense not found")
	ErrBudgetExceeded  = errors.New("expense exceeds the remaining allocation")
)

// BudgetInput is the editable part of a budget line
type BudgetInput struct {
	FiscalYear      int     `json:"fiscal_year" form:"fiscal_year"`
	Category        string  `json:"category" form:"category"`
	Description     string  `json:"description" form:"description"`
	AllocatedAmount float64 `json:"allocated_amount" form:"allocated_amount"`
}

// ExpenseInput is the payload for charging an expense
type ExpenseInput struct {
	Description string  `json:"description" form:"description"`
	Amount      float64 `json:"amount" form:"amount"`
	Payee       string  `json:"payee" form:"payee"`
	IncurredAt  string  `json:"incurred_at" form:"incurred_at"` // defaults to now
}

// BudgetSummary is a budget line with what has been spent against it
type BudgetSummary struct {
	models.Budget
	Spent     float64 `json:"spent"`
	Remaining float64 `json:"remaining"`
}

var expenseTransitions = map[string][]string{
	models.ExpenseStatusPending:  {models.ExpenseStatusApproved, models.ExpenseStatusRejected},
	models.ExpenseStatusApproved: {models.ExpenseStatusPaid, models.ExpenseStatusRejected},
}

func validateBudgetInput(input *BudgetInput) error {
	input.Category = strings.TrimSpace(input.Category)
	if input.FiscalYear < 2000 || input.FiscalYear > 2100 {
		return newValidationError("fiscal_year", "must be a four-digit year")
	}
	if err := requireText("category", input.Category, 100); err != nil {
		return err
	}
	if input.AllocatedAmount < 0 {
		return newValidationError("allocated_amount", "cannot be negative")
	}
	return nil
}

// CreateBudget adds a budget line for a fiscal year and category
func CreateBudget(db *gorm.DB, input BudgetInput) (*models.Budget, error) {
	if err := validateBudgetInput(&input); err != nil {
		return nil, err
	}
	budget := models.Budget{
		FiscalYear:      input.FiscalYear,
		Category:        input.Category,
		Description:     strings.TrimSpace(input.Description),
		AllocatedAmount: input.AllocatedAmount,
	}
	if err := db.Create(&budget).Error; err != nil {
		return nil, translateWriteError(err, "category already budgeted for this year")
	}
	return &budget, nil
}

// GetBudgetByID retrieves a budget line
func GetBudgetByID(db *gorm.DB, budgetID uint) (*models.Budget, error) {
	var budget models.Budget
	if err := db.First(&budget, budgetID).Error; err != nil {
		return nil, notFound(err, ErrBudgetNotFound)
	}
	return &budget, nil
}

// UpdateBudget changes a budget line. The allocation cannot drop below what
// is already committed.
func UpdateBudget(db *gorm.DB, budgetID uint, input BudgetInput) (*models.Budget, error) {
	budget, err := GetBudgetByID(db, budgetID)
	if err != nil {
		return nil, err
	}
	if err := validateBudgetInput(&input); err != nil {
		return nil, err
	}
	spent, err := budgetSpent(db, budgetID)
	if err != nil {
		return nil, err
	}
	if input.AllocatedAmount < spent {
		return nil, newValidationError("allocated_amount", "cannot be below committed expenses of %.2f", spent)
	}

	budget.FiscalYear = input.FiscalYear
	budget.Category = input.Category
	budget.Description = strings.TrimSpace(input.Description)
	budget.AllocatedAmount = input.AllocatedAmount
	if err := db.Save(budget).Error; err != nil {
		return nil, translateWriteError(err, "category already budgeted for this year")
	}
	return budget, nil
}

// DeleteBudget removes a budget line and its expenses
func DeleteBudget(db *gorm.DB, budgetID uint) error {
	return deleteByID(db, &models.Budget{}, budgetID, ErrBudgetNotFound)
}

// budgetSpent sums every expense on a budget except rejected ones
func budgetSpent(db *gorm.DB, budgetID uint) (float64, error) {
	var total float64
	err := db.Model(&models.Expense{}).
		Where("budget_id = ? AND status != ?", budgetID, models.ExpenseStatusRejected).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// GetBudgetSummary lists the budget lines of a fiscal year with spending
func GetBudgetSummary(db *gorm.DB, fiscalYear int) ([]BudgetSummary, error) {
	var budgets []models.Budget
	if err := db.Where("fiscal_year = ?", fiscalYear).Order("category ASC").Find(&budgets).Error; err != nil {
		return nil, err
	}

	summaries := make([]BudgetSummary, 0, len(budgets))
	for _, b := range budgets {
		spent, err := budgetSpent(db, b.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, BudgetSummary{Budget: b, Spent: spent, Remaining: b.AllocatedAmount - spent})
	}
	return summaries, nil
}

// CreateExpense charges an expense to a budget. The check and insert share a
// transaction so concurrent charges cannot overspend.
func CreateExpense(db *gorm.DB, budgetID uint, input ExpenseInput) (*models.Expense, error) {
	input.Description = strings.TrimSpace(input.Description)
	if err := requireText("description", input.Description, 255); err != nil {
		return nil, err
	}
	if input.Amount <= 0 {
		return nil, newValidationError("amount", "must be greater than zero")
	}
	incurred, err := parseOptionalTime("incurred_at", input.IncurredAt)
	if err != nil {
		return nil, err
	}
	if incurred == nil {
		now := Now()
		incurred = &now
	}

	var expense models.Expense
	err = db.Transaction(func(tx *gorm.DB) error {
		budget, err := GetBudgetByID(tx, budgetID)
		if err != nil {
			return err
		}
		spent, err := budgetSpent(tx, budgetID)
		if err != nil {
			return err
		}
		if spent+input.Amount > budget.AllocatedAmount {
			return fmt.Errorf("%w: %.2f remaining", ErrBudgetExceeded, budget.AllocatedAmount-spent)
		}

		expense = models.Expense{
			BudgetID:    budgetID,
			Description: input.Description,
			Amount:      input.Amount,
			Payee:       strings.TrimSpace(input.Payee),
			IncurredAt:  *incurred,
			Status:      models.ExpenseStatusPending,
		}
		return tx.Create(&expense).Error
	})
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

// GetExpenses lists the expenses of a budget, newest first
func GetExpenses(db *gorm.DB, budgetID uint, status string, page, limit int) ([]models.Expense, int64, error) {
	var expenses []models.Expense
	var total int64

	query := db.Model(&models.Expense{}).Where("budget_id = ?", budgetID)
	if status != "" && models.IsValidExpenseStatus(status) {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(query, page, limit).Order("incurred_at DESC").Find(&expenses).Error
	return expenses, total, err
}

// UpdateExpenseStatus moves an expense through approval
func UpdateExpenseStatus(db *gorm.DB, expenseID uint, status string) (*models.Expense, error) {
	if !models.IsValidExpenseStatus(status) {
		return nil, newValidationError("status", "unknown status %q", status)
	}
	var expense models.Expense
	if err := db.First(&expense, expenseID).Error; err != nil {
		return nil, notFound(err, ErrExpenseNotFound)
	}

	allowed := false
	for _, s := range expenseTransitions[expense.Status] {
		if s == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidStatusChange, expense.Status, status)
	}

	expense.Status = status
	if status == models.ExpenseStatusApproved {
		now := Now()
		expense.ApprovedAt = &now
	}
	if err := db.Save(&expense).Error; err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}
	return &expense, nil
}

// DeleteExpense removes a pending or rejected expense
func DeleteExpense(db *gorm.DB, expenseID uint) error {
	var expense models.Expense
	if err := db.First(&expense, expenseID).Error; err != nil {
		return notFound(err, ErrExpenseNotFound)
	}
	if expense.Status == models.ExpenseStatusApproved || expense.Status == models.ExpenseStatusPaid {
		return fmt.Errorf("%w: %s expenses are kept", ErrInvalidStatusChange, strings.ToLower(expense.Status))
	}
	return db.Delete(&expense).Error
}
