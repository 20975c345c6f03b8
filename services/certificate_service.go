package services

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"barangay_app_go/logger"
	"barangay_app_go/metrics"
	"barangay_app_go/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Certificate-related errors
var (
	ErrCertificateNotFound   = errors.New("certificate not found")
	ErrInvalidStatusChange   = errors.New("status change not allowed")
	ErrCertificateLocked     = errors.New("issued certificates cannot be changed")
	ErrCertificateNotPrinted = errors.New("certificate has no generated document")
)

// CertificateFilters holds filter options for querying certificates
type CertificateFilters struct {
	Keyword    string // number, purpose or OR number
	ResidentID *uint
	Type       string
	Status     string
	DateFrom   *time.Time
	DateTo     *time.Time
}

// CertificateInput is the payload for requesting a certificate
type CertificateInput struct {
	ResidentID      uint    `json:"resident_id" form:"resident_id"`
	CertificateType string  `json:"certificate_type" form:"certificate_type"`
	Purpose         string  `json:"purpose" form:"purpose"`
	Remarks         string  `json:"remarks" form:"remarks"`
	Fee             float64 `json:"fee" form:"fee"`
	OrNumber        string  `json:"or_number" form:"or_number"`
}

// CertificateVerification is the public answer to a QR scan
type CertificateVerification struct {
	CertificateNumber string     `json:"certificate_number"`
	CertificateType   string     `json:"certificate_type"`
	ResidentName      string     `json:"resident_name"`
	Status            string     `json:"status"`
	IssueDate         *time.Time `json:"issue_date,omitempty"`
	ExpiryDate        *time.Time `json:"expiry_date,omitempty"`
	Valid             bool       `json:"valid"`
}

// BuildVerificationURL returns the URL encoded into a certificate's QR code
func BuildVerificationURL(appURL, number string) string {
	return strings.TrimRight(appURL, "/") + "/verify/" + url.PathEscape(number)
}

// CertificateExpiry returns when a certificate issued at the given time lapses
func CertificateExpiry(certType string, issuedAt time.Time) time.Time {
	if certType == models.CertificateTypeBusinessPermit {
		return issuedAt.AddDate(1, 0, 0)
	}
	return issuedAt.AddDate(0, 6, 0)
}

// insertWithNumber takes a number from gen and runs insert with it. When the
// unique index rejects the number (another request got there first) a fresh
// number is generated, up to maxInsertAttempts times.
func insertWithNumber(gen *NumberGenerator, recordType string, insert func(number string) error) (string, error) {
	for attempt := 1; attempt <= maxInsertAttempts; attempt++ {
		number, err := gen.Next(recordType)
		if err != nil {
			return "", err
		}

		err = insert(number)
		if err == nil {
			return number, nil
		}
		if !isDuplicateKey(err) {
			return "", err
		}

		gen.observe(func(m *metrics.Metrics) { m.IncrementCollision(gen.Kind) })
		logger.L.Warn("record number taken concurrently, retrying",
			zap.String("kind", gen.Kind),
			zap.String("number", number),
			zap.Int("attempt", attempt),
		)
	}
	return "", ErrNumberConflict
}

func validateCertificateInput(input *CertificateInput) error {
	input.CertificateType = strings.TrimSpace(input.CertificateType)
	if input.ResidentID == 0 {
		return newValidationError("resident_id", "is required")
	}
	if input.CertificateType == "" {
		return newValidationError("certificate_type", "is required")
	}
	if !models.IsValidCertificateType(input.CertificateType) {
		return newValidationError("certificate_type", "unknown certificate type %q", input.CertificateType)
	}
	if input.Fee < 0 {
		return newValidationError("fee", "cannot be negative")
	}
	if err := limitText("or_number", input.OrNumber, 30); err != nil {
		return err
	}
	return nil
}

// CreateCertificate files a new certificate request with a generated number
func CreateCertificate(db *gorm.DB, appURL string, input CertificateInput) (*models.Certificate, error) {
	if err := validateCertificateInput(&input); err != nil {
		return nil, err
	}
	if err := residentExists(db, input.ResidentID); err != nil {
		return nil, err
	}

	var cert models.Certificate
	_, err := insertWithNumber(NewCertificateNumberGenerator(db), input.CertificateType, func(number string) error {
		now := Now()
		cert = models.Certificate{
			ResidentID:        input.ResidentID,
			CertificateType:   input.CertificateType,
			CertificateNumber: number,
			Purpose:           strings.TrimSpace(input.Purpose),
			Remarks:           strings.TrimSpace(input.Remarks),
			Fee:               input.Fee,
			OrNumber:          strings.TrimSpace(input.OrNumber),
			Status:            models.CertificateStatusPending,
			StatusChangedAt:   &now,
			QRPayload:         BuildVerificationURL(appURL, number),
		}
		cert.CreatedAt = now
		return db.Create(&cert).Error
	})
	if err != nil {
		if errors.Is(err, ErrNumberSpaceExhausted) || errors.Is(err, ErrNumberConflict) || errors.Is(err, ErrValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create certificate: %w", err)
	}
	return &cert, nil
}

// GetCertificateByID retrieves a certificate with its resident
func GetCertificateByID(db *gorm.DB, certificateID uint) (*models.Certificate, error) {
	var cert models.Certificate
	if err := db.Preload("Resident").First(&cert, certificateID).Error; err != nil {
		return nil, notFound(err, ErrCertificateNotFound)
	}
	return &cert, nil
}

// GetCertificateByNumber retrieves a certificate by its business number
func GetCertificateByNumber(db *gorm.DB, number string) (*models.Certificate, error) {
	var cert models.Certificate
	err := db.Preload("Resident").
		Where("certificate_number = ?", strings.TrimSpace(number)).
		First(&cert).Error
	if err != nil {
		return nil, notFound(err, ErrCertificateNotFound)
	}
	return &cert, nil
}

// GetCertificates retrieves certificates with filters and pagination
func GetCertificates(db *gorm.DB, filters CertificateFilters, page, limit int) ([]models.Certificate, int64, error) {
	var certs []models.Certificate
	var total int64

	query := db.Model(&models.Certificate{})

	if filters.ResidentID != nil {
		query = query.Where("resident_id = ?", *filters.ResidentID)
	}
	if filters.Type != "" && models.IsValidCertificateType(filters.Type) {
		query = query.Where("certificate_type = ?", filters.Type)
	}
	if filters.Status != "" && models.IsValidCertificateStatus(filters.Status) {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", filters.DateTo)
	}
	query = likeAny(db, query, filters.Keyword, "certificate_number", "purpose", "or_number")

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := paginate(query, page, limit).
		Preload("Resident").
		Order("created_at DESC").
		Find(&certs).Error

	return certs, total, err
}

// UpdateCertificate edits the free-text fields of a certificate that has not
// been issued yet. Type and number never change.
func UpdateCertificate(db *gorm.DB, certificateID uint, input CertificateInput) (*models.Certificate, error) {
	var cert models.Certificate
	if err := db.First(&cert, certificateID).Error; err != nil {
		return nil, notFound(err, ErrCertificateNotFound)
	}
	if cert.Status == models.CertificateStatusIssued || cert.Status == models.CertificateStatusExpired {
		return nil, ErrCertificateLocked
	}
	if input.Fee < 0 {
		return nil, newValidationError("fee", "cannot be negative")
	}
	if err := limitText("or_number", input.OrNumber, 30); err != nil {
		return nil, err
	}

	cert.Purpose = strings.TrimSpace(input.Purpose)
	cert.Remarks = strings.TrimSpace(input.Remarks)
	cert.Fee = input.Fee
	cert.OrNumber = strings.TrimSpace(input.OrNumber)

	if err := db.Save(&cert).Error; err != nil {
		return nil, fmt.Errorf("failed to update certificate: %w", err)
	}
	return &cert, nil
}

// UpdateCertificateStatus moves a certificate through its workflow.
// Issuing stamps the issue date, the default expiry and the issuing officer.
func UpdateCertificateStatus(db *gorm.DB, certificateID uint, status, actor string) (*models.Certificate, error) {
	if !models.IsValidCertificateStatus(status) {
		return nil, newValidationError("status", "unknown status %q", status)
	}

	var cert models.Certificate
	if err := db.Preload("Resident").First(&cert, certificateID).Error; err != nil {
		return nil, notFound(err, ErrCertificateNotFound)
	}
	if !models.CanTransitionCertificate(cert.Status, status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidStatusChange, cert.Status, status)
	}

	now := Now()
	updates := map[string]interface{}{
		"status":            status,
		"status_changed_at": now,
	}
	if status == models.CertificateStatusIssued {
		expiry := CertificateExpiry(cert.CertificateType, now)
		updates["issue_date"] = now
		updates["expiry_date"] = expiry
		updates["issued_by"] = actor
	}

	if err := db.Model(&cert).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update certificate status: %w", err)
	}

	logger.L.Info("certificate status changed",
		zap.Uint("certificate_id", cert.ID),
		zap.String("number", cert.CertificateNumber),
		zap.String("status", status),
		zap.String("actor", actor),
	)
	return GetCertificateByID(db, certificateID)
}

// SetCertificateDocument records the storage key of a generated PDF
func SetCertificateDocument(db *gorm.DB, certificateID uint, key string) error {
	result := db.Model(&models.Certificate{}).Where("id = ?", certificateID).Update("document_key", key)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCertificateNotFound
	}
	return nil
}

// DeleteCertificate removes a certificate that was never issued.
// The number is not reused; the generator skips over the gap.
func DeleteCertificate(db *gorm.DB, certificateID uint) (*models.Certificate, error) {
	var cert models.Certificate
	if err := db.First(&cert, certificateID).Error; err != nil {
		return nil, notFound(err, ErrCertificateNotFound)
	}
	if cert.Status == models.CertificateStatusIssued || cert.Status == models.CertificateStatusExpired {
		return nil, ErrCertificateLocked
	}
	if err := db.Delete(&cert).Error; err != nil {
		return nil, fmt.Errorf("failed to delete certificate: %w", err)
	}
	return &cert, nil
}

// VerifyCertificate answers a QR scan. Unknown numbers return ErrCertificateNotFound.
func VerifyCertificate(db *gorm.DB, number string, at time.Time) (*CertificateVerification, error) {
	cert, err := GetCertificateByNumber(db, number)
	if err != nil {
		return nil, err
	}

	v := &CertificateVerification{
		CertificateNumber: cert.CertificateNumber,
		CertificateType:   models.GetCertificateTypeDisplayName(cert.CertificateType),
		Status:            cert.Status,
		IssueDate:         cert.IssueDate,
		ExpiryDate:        cert.ExpiryDate,
		Valid:             cert.IsIssued() && !cert.IsExpiredAt(at),
	}
	if cert.Resident != nil {
		v.ResidentName = cert.Resident.FullName()
	}
	return v, nil
}

// ExpireCertificates marks issued certificates past their expiry date as
// Expired and returns how many changed.
func ExpireCertificates(db *gorm.DB, at time.Time) (int64, error) {
	result := db.Model(&models.Certificate{}).
		Where("status = ? AND expiry_date IS NOT NULL AND expiry_date < ?", models.CertificateStatusIssued, at).
		Updates(map[string]interface{}{
			"status":            models.CertificateStatusExpired,
			"status_changed_at": at,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to expire certificates: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		logger.L.Info("certificates expired", zap.Int64("count", result.RowsAffected))
	}
	return result.RowsAffected, nil
}
