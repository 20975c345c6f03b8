package handlers

import (
	"net/http"

	"barangay_app_go/middleware"
	"barangay_app_go/models"
	"barangay_app_go/services"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts the public and authenticated API on e
func RegisterRoutes(e *echo.Echo, tokens *services.TokenService) {
	// Public routes (no authentication required)
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/verify/:number", VerifyCertificateHandler, middleware.VerifyRateLimiter.Middleware())
	e.POST("/api/auth/login", LoginHandler, middleware.LoginRateLimiter.Middleware())

	// Protected routes (authentication required)
	api := e.Group("/api")
	api.Use(middleware.RequireAuth(tokens))
	api.Use(middleware.AuditContext())
	{
		api.GET("/auth/me", MeHandler)
		api.GET("/dashboard", DashboardHandler)

		// Residents are readable by every role
		api.GET("/residents", GetResidentsHandler)
		api.GET("/residents/:id", GetResidentHandler)
		api.GET("/households", GetHouseholdsHandler)
		api.GET("/households/:id", GetHouseholdHandler)
	}

	// Records desk (admin and secretary)
	desk := api.Group("")
	desk.Use(middleware.RequireRole(models.RoleAdmin, models.RoleSecretary))
	{
		desk.POST("/residents", CreateResidentHandler)
		desk.PUT("/residents/:id", UpdateResidentHandler)
		desk.GET("/residents/:id/dependents", GetResidentDependentsHandler)
		desk.GET("/residents/export", ExportResidentsHandler)
		desk.GET("/residents/template", GetResidentTemplateHandler)
		desk.POST("/residents/import", ImportResidentsHandler)

		desk.POST("/households", CreateHouseholdHandler)
		desk.PUT("/households/:id", UpdateHouseholdHandler)
		desk.DELETE("/households/:id", DeleteHouseholdHandler)

		desk.GET("/certificates", GetCertificatesHandler)
		desk.POST("/certificates", CreateCertificateHandler)
		desk.GET("/certificates/:id", GetCertificateHandler)
		desk.PUT("/certificates/:id", UpdateCertificateHandler)
		desk.PUT("/certificates/:id/status", UpdateCertificateStatusHandler)
		desk.DELETE("/certificates/:id", DeleteCertificateHandler)
		desk.POST("/certificates/:id/print", PrintCertificateHandler)
		desk.GET("/certificates/:id/pdf", DownloadCertificateHandler)

		desk.GET("/incidents", GetIncidentsHandler)
		desk.POST("/incidents", CreateIncidentHandler)
		desk.GET("/incidents/:id", GetIncidentHandler)
		desk.PUT("/incidents/:id", UpdateIncidentHandler)
		desk.PUT("/incidents/:id/status", UpdateIncidentStatusHandler)
		desk.DELETE("/incidents/:id", DeleteIncidentHandler)

		desk.GET("/evacuation-centers", GetCentersHandler)
		desk.POST("/evacuation-centers", CreateCenterHandler)
		desk.GET("/evacuation-centers/:id", GetCenterHandler)
		desk.PUT("/evacuation-centers/:id", UpdateCenterHandler)
		desk.DELETE("/evacuation-centers/:id", DeleteCenterHandler)
		desk.GET("/evacuees", GetEvacueesHandler)
		desk.POST("/evacuees", CheckInEvacueeHandler)
		desk.PUT("/evacuees/:id/checkout", CheckOutEvacueeHandler)
		desk.DELETE("/evacuees/:id", DeleteEvacueeHandler)

		desk.GET("/senior-ids", GetSeniorIDsHandler)
		desk.POST("/senior-ids", IssueSeniorIDHandler)
		desk.GET("/senior-ids/:id", GetSeniorIDHandler)
		desk.PUT("/senior-ids/:id", UpdateSeniorIDHandler)
		desk.DELETE("/senior-ids/:id", DeleteSeniorIDHandler)
		desk.POST("/senior-ids/:id/benefits", AddBenefitHandler)
		desk.GET("/senior-ids/:id/benefits/total", GetBenefitTotalHandler)
		desk.DELETE("/senior-ids/:id/benefits/:benefitId", DeleteBenefitHandler)

		desk.GET("/budgets", GetBudgetSummaryHandler)
		desk.POST("/budgets", CreateBudgetHandler)
		desk.GET("/budgets/:id", GetBudgetHandler)
		desk.PUT("/budgets/:id", UpdateBudgetHandler)
		desk.DELETE("/budgets/:id", DeleteBudgetHandler)
		desk.GET("/budgets/:id/expenses", GetExpensesHandler)
		desk.POST("/budgets/:id/expenses", CreateExpenseHandler)
		desk.PUT("/budgets/:id/expenses/:expenseId/status", UpdateExpenseStatusHandler)
		desk.DELETE("/budgets/:id/expenses/:expenseId", DeleteExpenseHandler)
	}

	// Health desk (admin and health workers)
	health := api.Group("")
	health.Use(middleware.RequireRole(models.RoleAdmin, models.RoleBHW))
	{
		health.GET("/medical-records", GetMedicalRecordsHandler)
		health.POST("/medical-records", CreateMedicalRecordHandler)
		health.GET("/medical-records/:id", GetMedicalRecordHandler)
		health.PUT("/medical-records/:id", UpdateMedicalRecordHandler)
		health.DELETE("/medical-records/:id", DeleteMedicalRecordHandler)

		health.GET("/vaccinations", GetVaccinationsHandler)
		health.GET("/vaccinations/due", GetDueVaccinationsHandler)
		health.POST("/vaccinations", CreateVaccinationHandler)
		health.GET("/vaccinations/:id", GetVaccinationHandler)
		health.PUT("/vaccinations/:id", UpdateVaccinationHandler)
		health.DELETE("/vaccinations/:id", DeleteVaccinationHandler)

		health.GET("/bhws", GetBHWsHandler)
		health.GET("/bhws/:id", GetBHWHandler)
		health.GET("/visit-logs", GetVisitLogsHandler)
		health.POST("/visit-logs", CreateVisitLogHandler)
		health.DELETE("/visit-logs/:id", DeleteVisitLogHandler)
	}

	// Admin-only routes
	admin := api.Group("")
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	{
		admin.DELETE("/residents/:id", DeleteResidentHandler)

		admin.POST("/bhws", CreateBHWHandler)
		admin.PUT("/bhws/:id", UpdateBHWHandler)
		admin.DELETE("/bhws/:id", DeleteBHWHandler)

		admin.GET("/users", GetUsersHandler)
		admin.POST("/users", CreateUserHandler)
		admin.PUT("/users/:id/active", SetUserActiveHandler)

		admin.GET("/audit-logs", GetAuditLogsHandler)
		admin.GET("/audit-logs/:type/:id", GetResourceHistoryHandler)
	}
}
