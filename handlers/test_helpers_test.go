package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"barangay_app_go/config"
	"barangay_app_go/db"
	"barangay_app_go/models"
	"barangay_app_go/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testPassword = "Kapitan-Hall-2025"

type testServer struct {
	e      *echo.Echo
	conn   *gorm.DB
	tokens *services.TokenService
}

// setupTestDB swaps the global database for a private in-memory one
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:h_" + uuid.New().String() + "?mode=memory&cache=shared&_foreign_keys=on"
	conn, err := gorm.Open(sqlite.Open(dsn), db.NewConfig(gormlogger.Silent))
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(models.All()...))

	prev := db.DB
	db.DB = conn
	t.Cleanup(func() {
		db.DB = prev
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return conn
}

// newTestServer mounts the full API on a fresh echo instance
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	conn := setupTestDB(t)
	tokens := services.NewTokenService("handler-test-key", "barangay-test", time.Hour)

	prevTokens := Tokens
	Tokens = tokens
	t.Cleanup(func() { Tokens = prevTokens })

	cfg := &config.Config{
		AppURL:        "https://brgy.test",
		BarangayName:  "Barangay Poblacion",
		EmailTestMode: true,
	}

	e := echo.New()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})
	RegisterRoutes(e, tokens)

	return &testServer{e: e, conn: conn, tokens: tokens}
}

// login creates an account with the given role and returns a token for it
func (s *testServer) login(t *testing.T, role string) (*models.User, string) {
	t.Helper()
	user, err := services.CreateUser(s.conn, services.UserInput{
		Name:     "Test " + role,
		Email:    role + "-" + uuid.NewString()[:8] + "@barangay.local",
		Password: testPassword,
		Role:     role,
	})
	require.NoError(t, err)
	token, _, err := s.tokens.GenerateAccessToken(user)
	require.NoError(t, err)
	return user, token
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
}

// withClock pins services.Now for the duration of a test
func withClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := services.Now
	services.Now = func() time.Time { return at }
	t.Cleanup(func() { services.Now = prev })
}

func createResident(t *testing.T, conn *gorm.DB, first, last string) *models.Resident {
	t.Helper()
	resident := &models.Resident{
		FirstName: first,
		LastName:  last,
		Address:   "Purok 2, Poblacion",
		Purok:     "Purok 2",
		Gender:    models.GenderMale,
	}
	require.NoError(t, conn.Create(resident).Error)
	return resident
}

func countAudit(t *testing.T, conn *gorm.DB, action models.AuditAction) int64 {
	t.Helper()
	var n int64
	require.NoError(t, conn.Model(&models.AuditLog{}).Where("action = ?", action).Count(&n).Error)
	return n
}
