package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"barangay_app_go/db"
	"barangay_app_go/middleware"
	"barangay_app_go/models"
	"barangay_app_go/services"

	"github.com/labstack/echo/v4"
)

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type loginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        *models.User `json:"user"`
}

// LoginHandler exchanges credentials for an access token
func LoginHandler(c echo.Context) error {
	var req loginRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}

	user, err := services.Authenticate(db.DB, req.Email, req.Password)
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, services.ErrUserInactive):
		return echo.NewHTTPError(http.StatusForbidden, "Account is disabled")
	case err != nil:
		return serviceError(c, err)
	}

	if Tokens == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Sign-in is not configured")
	}
	token, expiresAt, err := Tokens.GenerateAccessToken(user)
	if err != nil {
		return serviceError(c, err)
	}

	c.Set(middleware.ContextKeyUser, user)
	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c), services.AuditEvent{
		Action:       models.AuditActionLogin,
		ResourceType: "User",
		ResourceID:   user.ID,
		ResourceName: user.Name,
		Description:  "Signed in",
	})

	return c.JSON(http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User:        user,
	})
}

// MeHandler returns the signed-in user
func MeHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}
	return c.JSON(http.StatusOK, user)
}
