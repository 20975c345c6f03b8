package models

import "time"

// Certificate type constants. The first three letters become the number prefix.
const (
	CertificateTypeClearance      = "Clearance"
	CertificateTypeIndigency      = "Indigency"
	CertificateTypeResidency      = "Residency"
	CertificateTypeBusinessPermit = "BusinessPermit"
	CertificateTypeID             = "ID"
)

// Certificate status constants (workflow states)
const (
	CertificateStatusPending  = "Pending"
	CertificateStatusApproved = "Approved"
	CertificateStatusIssued   = "Issued"
	CertificateStatusExpired  = "Expired"
	CertificateStatusRejected = "Rejected"
)

// Certificate is a civic document issued to a resident
type Certificate struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index:idx_certificate_type_created" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ResidentID uint      `gorm:"not null;index" json:"resident_id"`
	Resident   *Resident `gorm:"foreignKey:ResidentID;constraint:OnDelete:RESTRICT" json:"resident,omitempty"`

	// Identification. The number is assigned once at creation and never regenerated.
	CertificateType   string `gorm:"size:30;not null;index:idx_certificate_type_created" json:"certificate_type"`
	CertificateNumber string `gorm:"size:20;uniqueIndex:idx_certificate_number,where:certificate_number <> ''" json:"certificate_number"`

	Purpose    string     `gorm:"type:text" json:"purpose,omitempty"`
	Remarks    string     `gorm:"type:text" json:"remarks,omitempty"`
	Fee        float64    `json:"fee"`
	OrNumber   string     `gorm:"size:30" json:"or_number,omitempty"` // Official receipt
	IssueDate  *time.Time `json:"issue_date,omitempty"`
	ExpiryDate *time.Time `gorm:"index" json:"expiry_date,omitempty"`
	IssuedBy   string     `json:"issued_by,omitempty"`

	// Status and lifecycle
	Status          string     `gorm:"size:20;not null;default:Pending;index" json:"status"`
	StatusChangedAt *time.Time `json:"status_changed_at,omitempty"`

	// Verification payload encoded into the printed QR code
	QRPayload string `gorm:"column:qr_payload" json:"qr_payload,omitempty"`

	// Storage key of the printable PDF, if one has been generated
	DocumentKey string `json:"document_key,omitempty"`
}

// TableName specifies the table name for Certificate model
func (Certificate) TableName() string {
	return "certificates"
}

// IsIssued checks if the certificate has been released to the resident
func (c *Certificate) IsIssued() bool {
	return c.Status == CertificateStatusIssued
}

// IsExpiredAt reports whether the certificate is past its expiry date at t
func (c *Certificate) IsExpiredAt(t time.Time) bool {
	if c.Status == CertificateStatusExpired {
		return true
	}
	return c.ExpiryDate != nil && t.After(*c.ExpiryDate)
}

// IsValidCertificateType checks if the certificate type is valid
func IsValidCertificateType(certType string) bool {
	validTypes := []string{
		CertificateTypeClearance,
		CertificateTypeIndigency,
		CertificateTypeResidency,
		CertificateTypeBusinessPermit,
		CertificateTypeID,
	}
	for _, t := range validTypes {
		if t == certType {
			return true
		}
	}
	return false
}

// IsValidCertificateStatus checks if the status is valid
func IsValidCertificateStatus(status string) bool {
	switch status {
	case CertificateStatusPending, CertificateStatusApproved, CertificateStatusIssued,
		CertificateStatusExpired, CertificateStatusRejected:
		return true
	}
	return false
}

// certificateTransitions lists the statuses reachable from each status
var certificateTransitions = map[string][]string{
	CertificateStatusPending:  {CertificateStatusApproved, CertificateStatusRejected},
	CertificateStatusApproved: {CertificateStatusIssued, CertificateStatusRejected},
	CertificateStatusIssued:   {CertificateStatusExpired},
}

// CanTransitionCertificate checks if a certificate may move from one status to another
func CanTransitionCertificate(from, to string) bool {
	for _, s := range certificateTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// GetCertificateTypeDisplayName returns human-readable type name
func GetCertificateTypeDisplayName(certType string) string {
	names := map[string]string{
		CertificateTypeClearance:      "Barangay Clearance",
		CertificateTypeIndigency:      "Certificate of Indigency",
		CertificateTypeResidency:      "Certificate of Residency",
		CertificateTypeBusinessPermit: "Barangay Business Permit",
		CertificateTypeID:             "Barangay ID",
	}
	if name, ok := names[certType]; ok {
		return name
	}
	return certType
}
