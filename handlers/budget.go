package handlers

import (
	"net/http"
	"strconv"

	"barangay_app_go/db"
	"barangay_app_go/services"

	"github.com/labstack/echo/v4"
)

// GetBudgetSummaryHandler returns allocated, spent and remaining per budget
// line for ?year (default: this year)
func GetBudgetSummaryHandler(c echo.Context) error {
	year := services.Now().Year()
	if y, err := strconv.Atoi(c.QueryParam("year")); err == nil && y > 0 {
		year = y
	}
	summary, err := services.GetBudgetSummary(db.DB, year)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

// GetBudgetHandler returns one budget line
func GetBudgetHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	budget, err := services.GetBudgetByID(db.DB, id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, budget)
}

// CreateBudgetHandler adds a budget line
func CreateBudgetHandler(c echo.Context) error {
	var input services.BudgetInput
	if err := bindBody(c, &input); err != nil {
		return err
	}
	budget, err := services.CreateBudget(db.DB, input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, budget)
}

// UpdateBudgetHandler replaces a budget line
func UpdateBudgetHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var input services.BudgetInput
	if err := bindBody(c, &input); err != nil {
		return err
	}
	budget, err := services.UpdateBudget(db.DB, id, input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, budget)
}

// DeleteBudgetHandler removes a budget line without expenses
func DeleteBudgetHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := services.DeleteBudget(db.DB, id); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Budget deleted"})
}

// GetExpensesHandler lists the expenses charged to a budget line
func GetExpensesHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	page, limit := pageParams(c)
	expenses, total, err := services.GetExpenses(db.DB, id, c.QueryParam("status"), page, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return respondPage(c, expenses, total, page, limit)
}

// CreateExpenseHandler charges an expense to a budget line
func CreateExpenseHandler(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var input services.ExpenseInput
	if err := bindBody(c, &input); err != nil {
		return err
	}
	expense, err := services.CreateExpense(db.DB, id, input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, expense)
}

// UpdateExpenseStatusHandler approves, pays or rejects an expense
func UpdateExpenseStatusHandler(c echo.Context) error {
	id, err := parseID(c, "expenseId")
	if err != nil {
		return err
	}
	var req statusRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	expense, err := services.UpdateExpenseStatus(db.DB, id, req.Status)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, expense)
}

// DeleteExpenseHandler removes an expense
func DeleteExpenseHandler(c echo.Context) error {
	id, err := parseID(c, "expenseId")
	if err != nil {
		return err
	}
	if err := services.DeleteExpense(db.DB, id); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Expense deleted"})
}
