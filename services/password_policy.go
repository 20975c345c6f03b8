package services

import (
	"unicode"
)

// MinPasswordLength is the shortest password accepted for a staff account
const MinPasswordLength = 12

// ValidatePassword checks length and that upper, lower, digit and symbol
// characters are all present.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return newValidationError("password", "must be at least %d characters long", MinPasswordLength)
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	switch {
	case !hasUpper:
		return newValidationError("password", "must contain an uppercase letter")
	case !hasLower:
		return newValidationError("password", "must contain a lowercase letter")
	case !hasNumber:
		return newValidationError("password", "must contain a number")
	case !hasSpecial:
		return newValidationError("password", "must contain a special character")
	}
	return nil
}
