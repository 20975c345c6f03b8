package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role constants
const (
	RoleAdmin     = "admin"     // Barangay captain / system administrator
	RoleSecretary = "secretary" // Records and certificate desk
	RoleBHW       = "bhw"       // Health worker, health records only
)

// User is a staff account allowed to operate the records system
type User struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name        string     `gorm:"not null" json:"name"`
	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"not null" json:"-"`
	Role        string     `gorm:"not null;default:secretary" json:"role"`
	IsActive    bool       `gorm:"not null;default:false" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// BeforeCreate hook to generate UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// IsValidRole checks if the role is valid
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleSecretary, RoleBHW:
		return true
	}
	return false
}
