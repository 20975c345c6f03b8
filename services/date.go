package services

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// ParseDate parses a date string in YYYY-MM-DD form (HTML5 date inputs)
func ParseDate(dateStr string) (time.Time, error) {
	parsed, err := time.Parse("2006-01-02", strings.TrimSpace(dateStr))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: expected YYYY-MM-DD")
	}
	return parsed, nil
}

// parseOptionalDate returns nil for an empty value
func parseOptionalDate(field, value string) (*datatypes.Date, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	parsed, err := ParseDate(value)
	if err != nil {
		return nil, newValidationError(field, "%s", err.Error())
	}
	d := datatypes.Date(parsed)
	return &d, nil
}

// parseOptionalTime accepts RFC 3339 or a bare date and returns nil for an empty value
func parseOptionalTime(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := ParseDate(value)
	if err != nil {
		return nil, newValidationError(field, "expected RFC 3339 timestamp or YYYY-MM-DD")
	}
	return &t, nil
}

// FormatDate renders a date for display, or "" when nil
func FormatDate(d *datatypes.Date) string {
	if d == nil {
		return ""
	}
	return time.Time(*d).Format("2006-01-02")
}
