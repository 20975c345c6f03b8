package services

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"barangay_app_go/config"
	"barangay_app_go/logger"
	"barangay_app_go/models"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

//go:embed templates
var templateFS embed.FS

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// loadTemplate renders templates/emails/<name>.html and .txt. The HTML part
// is escaped by html/template; the text part is rendered verbatim.
func loadTemplate(name string, data interface{}) (html string, text string, err error) {
	htmlTmpl, err := template.ParseFS(templateFS, "templates/emails/"+name+".html")
	if err != nil {
		return "", "", fmt.Errorf("failed to parse template %s.html: %w", name, err)
	}
	var htmlBuf bytes.Buffer
	if err := htmlTmpl.Execute(&htmlBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to execute template %s.html: %w", name, err)
	}

	textTmpl, err := texttemplate.ParseFS(templateFS, "templates/emails/"+name+".txt")
	if err != nil {
		return "", "", fmt.Errorf("failed to parse template %s.txt: %w", name, err)
	}
	var textBuf bytes.Buffer
	if err := textTmpl.Execute(&textBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to execute template %s.txt: %w", name, err)
	}

	return htmlBuf.String(), textBuf.String(), nil
}

// SendEmail sends an email using the Resend API, or logs it in test mode
func SendEmail(cfg *config.Config, email *Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("email has no recipients")
	}
	if email.HTMLBody == "" && email.TextBody == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	if cfg.EmailTestMode {
		logger.L.Info("email logged, not sent (test mode)",
			zap.Strings("to", email.To),
			zap.String("subject", email.Subject),
			zap.String("text", email.TextBody),
		)
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	client := resend.NewClient(cfg.ResendAPIKey)
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTMLBody,
		Text:    email.TextBody,
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %w", err)
	}

	logger.L.Info("email sent", zap.String("resend_id", sent.Id), zap.Strings("to", email.To))
	return nil
}

// CertificateIssuedEmailData contains data for the certificate issued template
type CertificateIssuedEmailData struct {
	ResidentName      string
	BarangayName      string
	CertificateName   string
	CertificateNumber string
	Purpose           string
	ExpiresOn         string
	VerificationURL   string
}

// BuildCertificateIssuedEmail tells a resident their certificate is ready.
// Returns nil when the resident has no email address.
func BuildCertificateIssuedEmail(barangayName string, cert *models.Certificate) (*Email, error) {
	if cert.Resident == nil || strings.TrimSpace(cert.Resident.Email) == "" {
		return nil, nil
	}

	data := CertificateIssuedEmailData{
		ResidentName:      cert.Resident.FullName(),
		BarangayName:      barangayName,
		CertificateName:   models.GetCertificateTypeDisplayName(cert.CertificateType),
		CertificateNumber: cert.CertificateNumber,
		Purpose:           cert.Purpose,
		VerificationURL:   cert.QRPayload,
	}
	if cert.ExpiryDate != nil {
		data.ExpiresOn = cert.ExpiryDate.Format("January 2, 2006")
	}

	html, text, err := loadTemplate("certificate_issued", data)
	if err != nil {
		return nil, err
	}
	return &Email{
		To:       []string{cert.Resident.Email},
		Subject:  fmt.Sprintf("Your %s (%s) is ready", data.CertificateName, cert.CertificateNumber),
		HTMLBody: html,
		TextBody: text,
	}, nil
}

// NotifyCertificateIssued emails the resident when an address is on file.
// Delivery failures are logged; they never undo the issuance.
func NotifyCertificateIssued(cfg *config.Config, cert *models.Certificate) {
	email, err := BuildCertificateIssuedEmail(cfg.BarangayName, cert)
	if err != nil {
		logger.L.Error("failed to build certificate email", zap.Uint("certificate_id", cert.ID), zap.Error(err))
		return
	}
	if email == nil {
		return
	}
	if err := SendEmail(cfg, email); err != nil {
		logger.L.Error("failed to send certificate email", zap.Uint("certificate_id", cert.ID), zap.Error(err))
	}
}

// VaccinationDueEmailData contains data for the vaccination reminder template
type VaccinationDueEmailData struct {
	ResidentName string
	BarangayName string
	VaccineName  string
	DoseNumber   int
	DueOn        string
}

// BuildVaccinationDueEmail reminds a resident of an upcoming dose.
// Returns nil when the resident has no email address.
func BuildVaccinationDueEmail(barangayName string, vac *models.Vaccination) (*Email, error) {
	if vac.Resident == nil || strings.TrimSpace(vac.Resident.Email) == "" {
		return nil, nil
	}
	data := VaccinationDueEmailData{
		ResidentName: vac.Resident.FullName(),
		BarangayName: barangayName,
		VaccineName:  vac.VaccineName,
		DoseNumber:   vac.DoseNumber + 1,
	}
	if vac.NextDoseDate != nil {
		data.DueOn = time.Time(*vac.NextDoseDate).Format("Monday, January 2, 2006")
	}

	html, text, err := loadTemplate("vaccination_due", data)
	if err != nil {
		return nil, err
	}
	return &Email{
		To:       []string{vac.Resident.Email},
		Subject:  fmt.Sprintf("Reminder: %s dose %d is due", vac.VaccineName, data.DoseNumber),
		HTMLBody: html,
		TextBody: text,
	}, nil
}
