package services

import (
	"testing"
	"time"

	"barangay_app_go/config"
	"barangay_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issuedCertificate() *models.Certificate {
	expiry := time.Date(2025, time.October, 10, 0, 0, 0, 0, time.UTC)
	return &models.Certificate{
		ID:                7,
		CertificateType:   models.CertificateTypeClearance,
		CertificateNumber: "CLE-2025-00007",
		Purpose:           "Employment <script>x</script>",
		ExpiryDate:        &expiry,
		QRPayload:         "https://records.example.ph/verify/CLE-2025-00007",
		Resident: &models.Resident{
			FirstName: "Juan",
			LastName:  "Dela Cruz",
			Email:     "juan@example.ph",
		},
	}
}

func TestBuildCertificateIssuedEmail(t *testing.T) {
	email, err := BuildCertificateIssuedEmail("Barangay San Roque", issuedCertificate())
	require.NoError(t, err)
	require.NotNil(t, email)

	assert.Equal(t, []string{"juan@example.ph"}, email.To)
	assert.Contains(t, email.Subject, "Barangay Clearance")
	assert.Contains(t, email.Subject, "CLE-2025-00007")
	assert.Contains(t, email.TextBody, "Juan Dela Cruz")
	assert.Contains(t, email.TextBody, "October 10, 2025")
	assert.Contains(t, email.HTMLBody, "Barangay San Roque")
	assert.Contains(t, email.HTMLBody, "https://records.example.ph/verify/CLE-2025-00007")
	assert.NotContains(t, email.HTMLBody, "<script>")
}

func TestBuildCertificateIssuedEmailNoAddress(t *testing.T) {
	cert := issuedCertificate()
	cert.Resident.Email = ""

	email, err := BuildCertificateIssuedEmail("Barangay San Roque", cert)
	require.NoError(t, err)
	assert.Nil(t, email)
}

func TestSendEmail(t *testing.T) {
	email := &Email{To: []string{"juan@example.ph"}, Subject: "Hi", TextBody: "Hello"}

	t.Run("test mode logs instead of sending", func(t *testing.T) {
		assert.NoError(t, SendEmail(&config.Config{EmailTestMode: true}, email))
	})

	t.Run("missing api key", func(t *testing.T) {
		err := SendEmail(&config.Config{EmailTestMode: false}, email)
		assert.ErrorContains(t, err, "RESEND_API_KEY")
	})

	t.Run("no body", func(t *testing.T) {
		err := SendEmail(&config.Config{EmailTestMode: true}, &Email{To: []string{"a@b.c"}})
		assert.Error(t, err)
	})

	t.Run("no recipients", func(t *testing.T) {
		err := SendEmail(&config.Config{EmailTestMode: true}, &Email{TextBody: "x"})
		assert.Error(t, err)
	})
}

func TestLoadTemplateMissing(t *testing.T) {
	_, _, err := loadTemplate("does_not_exist", nil)
	assert.Error(t, err)
}

func TestBuildVaccinationDueEmail(t *testing.T) {
	next := testDate(2025, time.March, 12)
	vac := &models.Vaccination{
		VaccineName:  "Hepatitis B",
		DoseNumber:   1,
		NextDoseDate: &next,
		Resident:     &models.Resident{FirstName: "Ana", LastName: "Reyes", Email: "ana@example.ph"},
	}

	email, err := BuildVaccinationDueEmail("Barangay San Roque", vac)
	require.NoError(t, err)
	require.NotNil(t, email)
	assert.Equal(t, "Reminder: Hepatitis B dose 2 is due", email.Subject)
	assert.Contains(t, email.TextBody, "Wednesday, March 12, 2025")
	assert.Contains(t, email.HTMLBody, "Ana Reyes")

	vac.Resident.Email = ""
	email, err = BuildVaccinationDueEmail("Barangay San Roque", vac)
	require.NoError(t, err)
	assert.Nil(t, email)
}
