package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"barangay_app_go/config"
	"barangay_app_go/logger"
	"barangay_app_go/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Services wired by cmd/server at startup
var (
	Tokens  *services.TokenService
	Printer *services.CertificatePrinter
	Storage services.StorageProvider
)

// PageResponse wraps one page of a list endpoint
type PageResponse struct {
	Data  interface{} `json:"data"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

// getConfig returns the config placed on the context by the server
func getConfig(c echo.Context) *config.Config {
	if cfg, ok := c.Get("config").(*config.Config); ok {
		return cfg
	}
	return &config.Config{BarangayName: "Barangay", EmailTestMode: true}
}

// parseID reads a positive integer path parameter
func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}

// pageParams reads page and limit query parameters
func pageParams(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return services.NormalizePage(page, limit)
}

func respondPage(c echo.Context, data interface{}, total int64, page, limit int) error {
	return c.JSON(http.StatusOK, PageResponse{Data: data, Total: total, Page: page, Limit: limit})
}

// queryUint returns nil when the parameter is absent or malformed
func queryUint(c echo.Context, name string) *uint {
	v, err := strconv.ParseUint(c.QueryParam(name), 10, 64)
	if err != nil || v == 0 {
		return nil
	}
	id := uint(v)
	return &id
}

// queryBool returns nil when the parameter is absent
func queryBool(c echo.Context, name string) *bool {
	v, err := strconv.ParseBool(c.QueryParam(name))
	if err != nil {
		return nil
	}
	return &v
}

// queryDate parses a YYYY-MM-DD parameter; endOfDay moves it to the last second
func queryDate(c echo.Context, name string, endOfDay bool) *time.Time {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	t, err := services.ParseDate(raw)
	if err != nil {
		return nil
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Second)
	}
	return &t
}

func bindBody(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	return nil
}

var notFoundErrors = []error{
	services.ErrResidentNotFound,
	services.ErrHouseholdNotFound,
	services.ErrCertificateNotFound,
	services.ErrIncidentNotFound,
	services.ErrBHWNotFound,
	services.ErrVisitLogNotFound,
	services.ErrMedicalRecordNotFound,
	services.ErrVaccinationNotFound,
	services.ErrCenterNotFound,
	services.ErrEvacueeNotFound,
	services.ErrSeniorIDNotFound,
	services.ErrBenefitNotFound,
	services.ErrBudgetNotFound,
	services.ErrExpenseNotFound,
	services.ErrUserNotFound,
}

var conflictErrors = []error{
	services.ErrResidentHasDependents,
	services.ErrRelatedRecordsExist,
	services.ErrDuplicate,
	services.ErrEmailTaken,
	services.ErrNumberConflict,
	services.ErrInvalidStatusChange,
	services.ErrCertificateLocked,
	services.ErrCertificateNotIssued,
	services.ErrCertificateNotPrinted,
	services.ErrIncidentClosed,
	services.ErrCenterInactive,
	services.ErrCenterFull,
	services.ErrAlreadyCheckedIn,
	services.ErrAlreadyCheckedOut,
	services.ErrNotSeniorCitizen,
	services.ErrSeniorIDDuplicate,
	services.ErrBudgetExceeded,
}

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// serviceError maps a service error to an HTTP error. Validation, not-found
// and conflict messages are safe to show; anything else is logged and
// reported as a generic failure.
func serviceError(c echo.Context, err error) error {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrInvalidSpreadsheet):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case matchesAny(err, notFoundErrors):
		return echo.NewHTTPError(http.StatusNotFound, capitalize(err.Error()))
	case matchesAny(err, conflictErrors):
		return echo.NewHTTPError(http.StatusConflict, capitalize(err.Error()))
	}

	logger.L.Error("request failed",
		zap.String("method", c.Request().Method),
		zap.String("route", c.Path()),
		zap.Error(err),
	)
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
