package services

//go:generate mockgen -destination=mocks/number_store.go -package=mocks barangay_app_go/services NumberStore

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"barangay_app_go/logger"
	"barangay_app_go/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MaxNumberAttempts bounds the candidate search for one number.
const MaxNumberAttempts = 100

// maxInsertAttempts bounds how often a create retries after losing a race
// on the unique number index.
const maxInsertAttempts = 3

// Numbering errors
var (
	ErrNumberSpaceExhausted = errors.New("unable to generate a unique record number")
	ErrNumberConflict       = errors.New("record number was taken concurrently, please retry")
)

// NumberStore answers the two questions the generator asks of storage.
type NumberStore interface {
	// CountInYear counts records of recordType created in [from, to).
	CountInYear(recordType string, from, to time.Time) (int64, error)
	// NumberExists reports whether number is already assigned.
	NumberExists(number string) (bool, error)
}

// NumberGenerator hands out TYPE-YEAR-NNNNN numbers.
//
// The count of this year's records of the type seeds the sequence; the
// candidate is then bumped until it does not collide with an existing number.
// Gaps left by deletions are therefore tolerated. Uniqueness under
// concurrency is enforced by the unique index, not by the generator.
type NumberGenerator struct {
	Kind        string
	Store       NumberStore
	Now         func() time.Time
	MaxAttempts int
	Metrics     *metrics.Metrics
}

// NewNumberGenerator creates a generator over store with the default limits.
func NewNumberGenerator(kind string, store NumberStore) *NumberGenerator {
	return &NumberGenerator{
		Kind:        kind,
		Store:       store,
		Now:         Now,
		MaxAttempts: MaxNumberAttempts,
		Metrics:     metrics.Default,
	}
}

// NewCertificateNumberGenerator numbers certificates per certificate type.
func NewCertificateNumberGenerator(db *gorm.DB) *NumberGenerator {
	return NewNumberGenerator("certificate", &tableNumberStore{
		db:           db,
		table:        "certificates",
		typeColumn:   "certificate_type",
		numberColumn: "certificate_number",
	})
}

// NewIncidentNumberGenerator numbers incidents per incident type.
func NewIncidentNumberGenerator(db *gorm.DB) *NumberGenerator {
	return NewNumberGenerator("incident", &tableNumberStore{
		db:           db,
		table:        "incidents",
		typeColumn:   "incident_type",
		numberColumn: "incident_number",
	})
}

// NumberPrefix derives the prefix from a record type: its first three
// letters or digits, upper-cased. Shorter types use what they have.
func NumberPrefix(recordType string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(recordType) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() == 3 {
				break
			}
		}
	}
	return b.String()
}

// FormatRecordNumber renders PREFIX-YEAR-NNNNN. Sequences past 99999 widen.
func FormatRecordNumber(prefix string, year, sequence int) string {
	return fmt.Sprintf("%s-%d-%05d", prefix, year, sequence)
}

// Next returns the first free number for recordType in the current year.
// It performs at most MaxAttempts existence checks.
func (g *NumberGenerator) Next(recordType string) (string, error) {
	prefix := NumberPrefix(recordType)
	if prefix == "" {
		return "", newValidationError("type", "cannot derive a number prefix from %q", recordType)
	}

	now := time.Now().UTC()
	if g.Now != nil {
		now = g.Now().UTC()
	}
	year := now.Year()
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	count, err := g.Store.CountInYear(recordType, from, to)
	if err != nil {
		return "", fmt.Errorf("failed to count %s records: %w", g.Kind, err)
	}

	maxAttempts := g.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = MaxNumberAttempts
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate := FormatRecordNumber(prefix, year, int(count)+1+attempt)

		exists, err := g.Store.NumberExists(candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check %s number: %w", g.Kind, err)
		}
		if !exists {
			g.observe(func(m *metrics.Metrics) { m.IncrementGenerated(g.Kind) })
			return candidate, nil
		}
		g.observe(func(m *metrics.Metrics) { m.IncrementCollision(g.Kind) })
	}

	g.observe(func(m *metrics.Metrics) { m.IncrementExhausted(g.Kind) })
	logger.L.Error("record number space exhausted",
		zap.String("kind", g.Kind),
		zap.String("prefix", prefix),
		zap.Int("year", year),
		zap.Int64("base_count", count),
		zap.Int("attempts", maxAttempts),
	)
	return "", fmt.Errorf("%w: %s-%d after %d attempts", ErrNumberSpaceExhausted, prefix, year, maxAttempts)
}

func (g *NumberGenerator) observe(fn func(*metrics.Metrics)) {
	if g.Metrics != nil {
		fn(g.Metrics)
	}
}

// tableNumberStore backs a NumberGenerator with a gorm table.
type tableNumberStore struct {
	db           *gorm.DB
	table        string
	typeColumn   string
	numberColumn string
}

func (s *tableNumberStore) CountInYear(recordType string, from, to time.Time) (int64, error) {
	var count int64
	err := s.db.Table(s.table).
		Where(s.typeColumn+" = ?", recordType).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&count).Error
	return count, err
}

func (s *tableNumberStore) NumberExists(number string) (bool, error) {
	var count int64
	err := s.db.Table(s.table).Where(s.numberColumn+" = ?", number).Count(&count).Error
	return count > 0, err
}
