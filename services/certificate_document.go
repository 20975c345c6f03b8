package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"time"

	"barangay_app_go/logger"
	"barangay_app_go/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrCertificateNotIssued is returned when printing a certificate that has not been issued
var ErrCertificateNotIssued = errors.New("only issued certificates can be printed")

var certificateTemplate = template.Must(template.ParseFS(templateFS, "templates/certificates/certificate.html"))

// certificateStatements is the certifying paragraph per certificate type
var certificateStatements = map[string]string{
	models.CertificateTypeClearance:      "Based on the records of this office, the above-named person has no derogatory record on file and is known to be of good moral character.",
	models.CertificateTypeIndigency:      "Based on the records of this office, the above-named person belongs to an indigent family of this barangay.",
	models.CertificateTypeResidency:      "Based on the records of this office, the above-named person has been residing in this barangay.",
	models.CertificateTypeBusinessPermit: "The above-named person is hereby granted clearance to operate a business within the territorial jurisdiction of this barangay, subject to existing laws and ordinances.",
	models.CertificateTypeID:             "The above-named person is registered in the barangay inhabitants record and is entitled to this barangay identification.",
}

// CertificateView is the data rendered into the printable certificate
type CertificateView struct {
	BarangayName    string
	Title           string
	Number          string
	ResidentName    string
	Age             int
	CivilStatus     string
	Address         string
	Statement       string
	Purpose         string
	Remarks         template.HTML
	IssuedOn        string
	IssuedBy        string
	ValidUntil      string
	OrNumber        string
	Fee             float64
	VerificationURL string
}

// NewCertificateView flattens a certificate and its resident for rendering
func NewCertificateView(barangayName string, cert *models.Certificate) CertificateView {
	view := CertificateView{
		BarangayName:    barangayName,
		Title:           models.GetCertificateTypeDisplayName(cert.CertificateType),
		Number:          cert.CertificateNumber,
		Statement:       certificateStatements[cert.CertificateType],
		Purpose:         cert.Purpose,
		Remarks:         template.HTML(SanitizeRichText(cert.Remarks)),
		IssuedBy:        cert.IssuedBy,
		OrNumber:        cert.OrNumber,
		Fee:             cert.Fee,
		VerificationURL: cert.QRPayload,
	}
	issued := Now()
	if cert.IssueDate != nil {
		issued = *cert.IssueDate
	}
	view.IssuedOn = ordinalDate(issued)
	if cert.ExpiryDate != nil {
		view.ValidUntil = cert.ExpiryDate.Format("January 2, 2006")
	}
	if r := cert.Resident; r != nil {
		view.ResidentName = r.FullName()
		view.CivilStatus = r.CivilStatus
		view.Address = r.Address
		if age := r.Age(issued); age > 0 {
			view.Age = age
		}
	}
	return view
}

// ordinalDate renders "10th day of April, 2025"
func ordinalDate(t time.Time) string {
	day := t.Day()
	suffix := "th"
	if day < 11 || day > 13 {
		switch day % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s day of %s", day, suffix, t.Format("January, 2006"))
}

// RenderCertificateHTML renders the printable HTML for a certificate
func RenderCertificateHTML(barangayName string, cert *models.Certificate) (string, error) {
	var buf bytes.Buffer
	if err := certificateTemplate.Execute(&buf, NewCertificateView(barangayName, cert)); err != nil {
		return "", fmt.Errorf("failed to render certificate: %w", err)
	}
	return buf.String(), nil
}

// CertificatePrinter renders certificates to PDF and keeps them in storage
type CertificatePrinter struct {
	DB           *gorm.DB
	Storage      StorageProvider
	Renderer     PDFRenderer
	BarangayName string
}

// Print renders and stores the PDF for an issued certificate, replacing any
// previous document. Returns the new storage key.
func (p *CertificatePrinter) Print(ctx context.Context, certificateID uint) (string, error) {
	cert, err := GetCertificateByID(p.DB, certificateID)
	if err != nil {
		return "", err
	}
	if !cert.IsIssued() {
		return "", ErrCertificateNotIssued
	}

	html, err := RenderCertificateHTML(p.BarangayName, cert)
	if err != nil {
		return "", err
	}
	pdf, err := p.Renderer.RenderPDF(ctx, html)
	if err != nil {
		return "", err
	}

	year := Now().Year()
	if cert.IssueDate != nil {
		year = cert.IssueDate.Year()
	}
	key := CertificateDocumentKey(cert.CertificateNumber, year)
	if _, err := p.Storage.Put(ctx, bytes.NewReader(pdf), key, "application/pdf", int64(len(pdf))); err != nil {
		return "", err
	}
	if err := SetCertificateDocument(p.DB, cert.ID, key); err != nil {
		return "", err
	}

	if cert.DocumentKey != "" && cert.DocumentKey != key {
		if err := p.Storage.Delete(ctx, cert.DocumentKey); err != nil {
			logger.L.Warn("failed to remove previous certificate document",
				zap.String("key", cert.DocumentKey), zap.Error(err))
		}
	}

	logger.L.Info("certificate printed",
		zap.Uint("certificate_id", cert.ID),
		zap.String("number", cert.CertificateNumber),
		zap.String("key", key),
		zap.String("storage", p.Storage.Name()),
	)
	return key, nil
}

// Open returns the stored PDF of a certificate
func (p *CertificatePrinter) Open(ctx context.Context, certificateID uint) (io.ReadCloser, *models.Certificate, error) {
	cert, err := GetCertificateByID(p.DB, certificateID)
	if err != nil {
		return nil, nil, err
	}
	if cert.DocumentKey == "" {
		return nil, cert, ErrCertificateNotPrinted
	}
	reader, _, err := p.Storage.Get(ctx, cert.DocumentKey)
	if err != nil {
		return nil, cert, err
	}
	return reader, cert, nil
}
