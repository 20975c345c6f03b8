package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Shared errors
var (
	ErrValidation          = errors.New("validation failed")
	ErrRelatedRecordsExist = errors.New("cannot delete: related records exist")
	ErrDuplicate           = errors.New("record already exists")
)

// ValidationError reports malformed or missing user input
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is lets callers match any validation error with errors.Is(err, ErrValidation)
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Now is the clock used for numbering and lifecycle timestamps
var Now = func() time.Time {
	return time.Now().UTC()
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gorm.ErrForeignKeyViolated) ||
		strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// notFound maps gorm's record-not-found to the service's own sentinel
func notFound(err error, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

// NormalizePage clamps page and limit to sane values
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// paginate applies offset and limit for the given page
func paginate(query *gorm.DB, page, limit int) *gorm.DB {
	page, limit = NormalizePage(page, limit)
	return query.Limit(limit).Offset((page - 1) * limit)
}

// likeEscaper makes LIKE wildcards in user input match literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likeAny adds a case-insensitive substring match over the given columns
func likeAny(db, query *gorm.DB, keyword string, columns ...string) *gorm.DB {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" || len(columns) == 0 {
		return query
	}
	kw := "%" + likeEscaper.Replace(strings.ToLower(keyword)) + "%"
	cond := db.Where("LOWER("+columns[0]+") LIKE ? ESCAPE '\\'", kw)
	for _, col := range columns[1:] {
		cond = cond.Or("LOWER("+col+") LIKE ? ESCAPE '\\'", kw)
	}
	return query.Where(cond)
}

func requireText(field, value string, max int) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return newValidationError(field, "is required")
	}
	if max > 0 && len(value) > max {
		return newValidationError(field, "must be at most %d characters", max)
	}
	return nil
}

func limitText(field, value string, max int) error {
	if len(value) > max {
		return newValidationError(field, "must be at most %d characters", max)
	}
	return nil
}

// translateWriteError maps constraint violations on insert or update
func translateWriteError(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case isDuplicateKey(err):
		return fmt.Errorf("%w: %s", ErrDuplicate, what)
	case isForeignKeyViolation(err):
		return ErrRelatedRecordsExist
	}
	return err
}

// deleteByID deletes one row by primary key
func deleteByID(db *gorm.DB, model interface{}, id uint, notFoundErr error) error {
	result := db.Delete(model, id)
	if result.Error != nil {
		if isForeignKeyViolation(result.Error) {
			return ErrRelatedRecordsExist
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFoundErr
	}
	return nil
}
