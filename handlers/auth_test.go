package handlers

import (
	"net/http"
	"testing"

	"barangay_app_go/models"
	"barangay_app_go/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginHandler(t *testing.T) {
	s := newTestServer(t)
	_, err := services.CreateUser(s.conn, services.UserInput{
		Name:     "Kapitan",
		Email:    "kapitan@barangay.local",
		Password: testPassword,
		Role:     models.RoleAdmin,
	})
	require.NoError(t, err)

	rec := s.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "kapitan@barangay.local",
		"password": "Wrong-Password-9",
	}, "")
	requireStatus(t, rec, http.StatusUnauthorized)

	rec = s.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "Kapitan@Barangay.local",
		"password": testPassword,
	}, "")
	requireStatus(t, rec, http.StatusOK)
	var login struct {
		AccessToken string       `json:"access_token"`
		TokenType   string       `json:"token_type"`
		User        *models.User `json:"user"`
	}
	decode(t, rec, &login)
	assert.Equal(t, "Bearer", login.TokenType)
	require.NotEmpty(t, login.AccessToken)

	rec = s.do(t, http.MethodGet, "/api/auth/me", nil, login.AccessToken)
	requireStatus(t, rec, http.StatusOK)
	var me models.User
	decode(t, rec, &me)
	assert.Equal(t, "kapitan@barangay.local", me.Email)

	assert.Equal(t, int64(1), countAudit(t, s.conn, models.AuditActionLogin))
	assert.Equal(t, int64(1), countAudit(t, s.conn, models.AuditActionSecurity))
}

func TestUserAdministration(t *testing.T) {
	s := newTestServer(t)
	admin, adminToken := s.login(t, models.RoleAdmin)
	_, secretary := s.login(t, models.RoleSecretary)

	payload := map[string]string{
		"name":     "Health Worker",
		"email":    "hw@barangay.local",
		"password": testPassword,
		"role":     models.RoleBHW,
	}
	requireStatus(t, s.do(t, http.MethodPost, "/api/users", payload, secretary), http.StatusForbidden)

	rec := s.do(t, http.MethodPost, "/api/users", payload, adminToken)
	requireStatus(t, rec, http.StatusCreated)
	var created models.User
	decode(t, rec, &created)

	requireStatus(t, s.do(t, http.MethodPost, "/api/users", payload, adminToken), http.StatusConflict)

	rec = s.do(t, http.MethodPut, "/api/users/"+created.ID+"/active", map[string]bool{"active": false}, adminToken)
	requireStatus(t, rec, http.StatusOK)
	decode(t, rec, &created)
	assert.False(t, created.IsActive)

	rec = s.do(t, http.MethodPut, "/api/users/"+admin.ID+"/active", map[string]bool{"active": false}, adminToken)
	requireStatus(t, rec, http.StatusConflict)

	rec = s.do(t, http.MethodGet, "/api/users?q=health", nil, adminToken)
	requireStatus(t, rec, http.StatusOK)
	var page struct {
		Total int64 `json:"total"`
	}
	decode(t, rec, &page)
	assert.Equal(t, int64(1), page.Total)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/health", nil, "")
	requireStatus(t, rec, http.StatusOK)
	assert.Contains(t, rec.Body.String(), "ok")
}
