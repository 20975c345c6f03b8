package services

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"barangay_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePDF struct {
	calls int
	html  string
	err   error
}

func (f *fakePDF) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	f.calls++
	f.html = html
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4 fake"), nil
}

func TestOrdinalDate(t *testing.T) {
	cases := map[int]string{1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 11: "11th", 12: "12th", 13: "13th", 21: "21st", 22: "22nd", 23: "23rd", 31: "31st"}
	for day, want := range cases {
		got := ordinalDate(time.Date(2025, time.January, day, 0, 0, 0, 0, time.UTC))
		assert.Equal(t, want+" day of January, 2025", got)
	}
}

func TestRenderCertificateHTML(t *testing.T) {
	issued := time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC)
	expiry := issued.AddDate(0, 6, 0)
	born := testDate(1990, time.May, 1)
	cert := &models.Certificate{
		CertificateType:   models.CertificateTypeIndigency,
		CertificateNumber: "IND-2025-00003",
		Purpose:           "Medical assistance <b>urgent</b>",
		Remarks:           `<p>Family of five</p><script>alert(1)</script>`,
		IssueDate:         &issued,
		ExpiryDate:        &expiry,
		IssuedBy:          "Hon. Maria Santos",
		OrNumber:          "OR-7781",
		Fee:               50,
		QRPayload:         "https://records.example.ph/verify/IND-2025-00003",
		Resident: &models.Resident{
			FirstName:   "Pedro",
			LastName:    "Penduko",
			BirthDate:   &born,
			CivilStatus: "Married",
			Address:     "Purok 3",
		},
	}

	html, err := RenderCertificateHTML("Barangay San Roque", cert)
	require.NoError(t, err)

	assert.Contains(t, html, "Certificate of Indigency")
	assert.Contains(t, html, "IND-2025-00003")
	assert.Contains(t, html, "Pedro Penduko")
	assert.Contains(t, html, "34 years old")
	assert.Contains(t, html, "indigent family")
	assert.Contains(t, html, "10th day of April, 2025")
	assert.Contains(t, html, "October 10, 2025")
	assert.Contains(t, html, "PHP 50.00")
	assert.Contains(t, html, "<p>Family of five</p>")
	assert.Contains(t, html, "&lt;b&gt;urgent&lt;/b&gt;")
	assert.NotContains(t, html, "<script>")
}

func TestCertificatePrinter(t *testing.T) {
	conn := setupTestDB(t)
	withClock(t, time.Date(2025, time.April, 10, 9, 0, 0, 0, time.UTC))
	resident := createTestResident(t, conn, "Juan", "Dela Cruz")

	cert, err := CreateCertificate(conn, testAppURL, CertificateInput{ResidentID: resident.ID, CertificateType: models.CertificateTypeClearance, Purpose: "Employment"})
	require.NoError(t, err)

	renderer := &fakePDF{}
	storage := NewLocalStorage(t.TempDir())
	printer := &CertificatePrinter{DB: conn, Storage: storage, Renderer: renderer, BarangayName: "Barangay San Roque"}
	ctx := context.Background()

	_, err = printer.Print(ctx, cert.ID)
	assert.ErrorIs(t, err, ErrCertificateNotIssued)

	_, _, err = printer.Open(ctx, cert.ID)
	assert.ErrorIs(t, err, ErrCertificateNotPrinted)

	_, err = UpdateCertificateStatus(conn, cert.ID, models.CertificateStatusApproved, "sec")
	require.NoError(t, err)
	_, err = UpdateCertificateStatus(conn, cert.ID, models.CertificateStatusIssued, "Hon. Maria Santos")
	require.NoError(t, err)

	key, err := printer.Print(ctx, cert.ID)
	require.NoError(t, err)
	assert.Contains(t, key, "certificates/2025/CLE-2025-00001_")
	assert.Contains(t, renderer.html, "Barangay Clearance")

	reader, opened, err := printer.Open(ctx, cert.ID)
	require.NoError(t, err)
	defer reader.Close()
	body, _ := io.ReadAll(reader)
	assert.Equal(t, "%PDF-1.4 fake", string(body))
	assert.Equal(t, key, opened.DocumentKey)

	// Reprinting replaces the stored document
	second, err := printer.Print(ctx, cert.ID)
	require.NoError(t, err)
	assert.NotEqual(t, key, second)
	_, _, err = storage.Get(ctx, key)
	assert.Error(t, err)

	_, err = printer.Print(ctx, 9999)
	assert.ErrorIs(t, err, ErrCertificateNotFound)
}

func TestCertificatePrinterRenderFailure(t *testing.T) {
	conn := setupTestDB(t)
	resident := createTestResident(t, conn, "Juan", "Dela Cruz")
	cert := createTestCertificate(t, conn, resident.ID, "CLE-2025-00001")
	require.NoError(t, conn.Model(cert).Update("status", models.CertificateStatusIssued).Error)

	boom := errors.New("chrome crashed")
	printer := &CertificatePrinter{DB: conn, Storage: NewLocalStorage(t.TempDir()), Renderer: &fakePDF{err: boom}}

	_, err := printer.Print(context.Background(), cert.ID)
	assert.ErrorIs(t, err, boom)

	var reloaded models.Certificate
	require.NoError(t, conn.First(&reloaded, cert.ID).Error)
	assert.Empty(t, reloaded.DocumentKey)
}
