package services

import (
	"errors"
	"fmt"
	"strings"

	"barangay_app_go/logger"
	"barangay_app_go/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user account is disabled")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email is already registered")
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPassword verifies a password against a hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// UserInput is the payload for creating a staff account
type UserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateUser validates and stores a new active staff account
func CreateUser(db *gorm.DB, input UserInput) (*models.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if err := requireText("name", input.Name, 100); err != nil {
		return nil, err
	}
	if input.Email == "" || !strings.Contains(input.Email, "@") {
		return nil, newValidationError("email", "a valid email is required")
	}
	if !models.IsValidRole(input.Role) {
		return nil, newValidationError("role", "must be %s, %s or %s", models.RoleAdmin, models.RoleSecretary, models.RoleBHW)
	}
	if err := ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hash,
		Role:     input.Role,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Authenticate checks credentials and stamps the login time. Unknown email
// and wrong password report the same error.
func Authenticate(db *gorm.DB, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same bcrypt cost as the wrong-password path
			_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z5H0YuhL5dfc5R3ZC8nRTFmS"), []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !CheckPassword(password, user.Password) {
		LogSecurityEvent(db, "LOGIN_FAILED", user.ID, "invalid password")
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		LogSecurityEvent(db, "LOGIN_INACTIVE", user.ID, "login attempt on disabled account")
		return nil, ErrUserInactive
	}

	now := Now()
	if err := db.Model(&user).Update("last_login_at", now).Error; err != nil {
		logger.L.Warn("failed to stamp last login", zap.String("user_id", user.ID), zap.Error(err))
	}
	user.LastLoginAt = &now
	return &user, nil
}

// GetUserByID retrieves an active or inactive user
func GetUserByID(db *gorm.DB, userID string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &user, nil
}

// GetUsers lists staff accounts ordered by name
func GetUsers(db *gorm.DB, keyword string, page, limit int) ([]models.User, int64, error) {
	query := likeAny(db, db.Model(&models.User{}), keyword, "name", "email")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := paginate(query, page, limit).Order("name ASC").Find(&users).Error
	return users, total, err
}

// SetUserActive enables or disables a staff account. Disabled accounts keep
// their history but can no longer sign in.
func SetUserActive(db *gorm.DB, userID string, active bool) (*models.User, error) {
	user, err := GetUserByID(db, userID)
	if err != nil {
		return nil, err
	}
	if err := db.Model(user).Update("is_active", active).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	user.IsActive = active
	return user, nil
}
