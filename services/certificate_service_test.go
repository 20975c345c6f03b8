package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"barangay_app_go/metrics"
	"barangay_app_go/models"
	"barangay_app_go/services/mocks"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

const testAppURL = "https://brgy.example.ph/"

func TestCreateCertificate(t *testing.T) {
	conn := setupTestDB(t)
	withClock(t, time.Date(2025, time.April, 10, 9, 0, 0, 0, time.UTC))
	resident := createTestResident(t, conn, "Maria", "Clara")

	t.Run("Two clearances in the same year", func(t *testing.T) {
		first, err := CreateCertificate(conn, testAppURL, CertificateInput{
			ResidentID:      resident.ID,
			CertificateType: models.CertificateTypeClearance,
			Purpose:         "Employment",
		})
		require.NoError(t, err)
		assert.Equal(t, "CLE-2025-00001", first.CertificateNumber)
		assert.Equal(t, models.CertificateStatusPending, first.Status)
		assert.Equal(t, "https://brgy.example.ph/verify/CLE-2025-00001", first.QRPayload)

		second, err := CreateCertificate(conn, testAppURL, CertificateInput{
			ResidentID:      resident.ID,
			CertificateType: models.CertificateTypeClearance,
			Purpose:         "Bank requirement",
		})
		require.NoError(t, err)
		assert.Equal(t, "CLE-2025-00002", second.CertificateNumber)
	})

	t.Run("Number format per type", func(t *testing.T) {
		for _, certType := range []string{models.CertificateTypeIndigency, models.CertificateTypeBusinessPermit, models.CertificateTypeID} {
			cert, err := CreateCertificate(conn, testAppURL, CertificateInput{ResidentID: resident.ID, CertificateType: certType})
			require.NoError(t, err)
			assert.Regexp(t, recordNumberPattern, cert.CertificateNumber)
			assert.Equal(t, fmt.Sprintf("%s-2025-00001", NumberPrefix(certType)), cert.CertificateNumber)
		}
	})

	t.Run("Unknown type", func(t *testing.T) {
		_, err := CreateCertificate(conn, testAppURL, CertificateInput{ResidentID: resident.ID, CertificateType: "Passport"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("Missing resident", func(t *testing.T) {
		_, err := CreateCertificate(conn, testAppURL, CertificateInput{ResidentID: 999, CertificateType: models.CertificateTypeClearance})
		assert.ErrorIs(t, err, ErrResidentNotFound)
	})

	t.Run("No duplicates after a deletion gap", func(t *testing.T) {
		third, err := CreateCertificate(conn, testAppURL, CertificateInput{ResidentID: resident.ID, CertificateType: models.CertificateTypeClearance})
		require.NoError(t, err)
		assert.Equal(t, "CLE-2025-00003", third.CertificateNumber)

		// Remove 00002, leaving 00001 and 00003: the count-based candidate collides and moves on
		var second models.Certificate
		require.NoError(t, conn.Where("certificate_number = ?", "CLE-2025-00002").First(&second).Error)
		_, err = DeleteCertificate(conn, second.ID)
		require.NoError(t, err)

		next, err := CreateCertificate(conn, testAppURL, CertificateInput{ResidentID: resident.ID, CertificateType: models.CertificateTypeClearance})
		require.NoError(t, err)
		assert.Equal(t, "CLE-2025-00004", next.CertificateNumber)
	})
}

func TestInsertWithNumber(t *testing.T) {
	newGenerator := func(t *testing.T) *NumberGenerator {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockNumberStore(ctrl)
		store.EXPECT().CountInYear(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), nil).AnyTimes()
		store.EXPECT().NumberExists(gomock.Any()).Return(false, nil).AnyTimes()
		gen := NewNumberGenerator("certificate", store)
		gen.Now = func() time.Time { return time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC) }
		gen.Metrics = metrics.New(prometheus.NewRegistry())
		return gen
	}

	t.Run("Retries after losing a race", func(t *testing.T) {
		calls := 0
		number, err := insertWithNumber(newGenerator(t), models.CertificateTypeClearance, func(number string) error {
			calls++
			if calls == 1 {
				return gorm.ErrDuplicatedKey
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, "CLE-2025-00001", number)
		assert.Equal(t, 2, calls)
	})

	t.Run("Gives up with a conflict", func(t *testing.T) {
		calls := 0
		_, err := insertWithNumber(newGenerator(t), models.CertificateTypeClearance, func(string) error {
			calls++
			return errors.New("UNIQUE constraint failed: certificates.certificate_number")
		})
		assert.ErrorIs(t, err, ErrNumberConflict)
		assert.Equal(t, maxInsertAttempts, calls)
	})

	t.Run("Other errors are not retried", func(t *testing.T) {
		calls := 0
		boom := errors.New("database is locked")
		_, err := insertWithNumber(newGenerator(t), models.CertificateTypeClearance, func(string) error {
			calls++
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
	})
}

func TestCertificateUniqueIndex(t *testing.T) {
	conn := setupTestDB(t)
	resident := createTestResident(t, conn, "Crisostomo", "Ibarra")

	createTestCertificate(t, conn, resident.ID, "CLE-2025-00001")
	err := conn.Create(&models.Certificate{ResidentID: resident.ID, CertificateType: models.CertificateTypeClearance, CertificateNumber: "CLE-2025-00001"}).Error
	assert.True(t, isDuplicateKey(err), "expected duplicate key, got %v", err)

	// Empty numbers are exempt from the index
	require.NoError(t, conn.Create(&models.Certificate{ResidentID: resident.ID, CertificateType: models.CertificateTypeClearance}).Error)
	require.NoError(t, conn.Create(&models.Certificate{ResidentID: resident.ID, CertificateType: models.CertificateTypeClearance}).Error)
}

func TestCertificateWorkflow(t *testing.T) {
	conn := setupTestDB(t)
	issuedAt := time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)
	withClock(t, issuedAt)
	resident := createTestResident(t, conn, "Sisa", "Santos")

	cert, err := CreateCertificate(conn, testAppURL, CertificateInput{ResidentID: resident.ID, CertificateType: models.CertificateTypeResidency, Purpose: "School"})
	require.NoError(t, err)

	_, err = UpdateCertificateStatus(conn, cert.ID, models.CertificateStatusIssued, "Kap. Tiago")
	assert.ErrorIs(t, err, ErrInvalidStatusChange)

	cert, err = UpdateCertificateStatus(conn, cert.ID, models.CertificateStatusApproved, "Sec. Basilio")
	require.NoError(t, err)
	assert.Equal(t, models.CertificateStatusApproved, cert.Status)

	cert, err = UpdateCertificateStatus(conn, cert.ID, models.CertificateStatusIssued, "Kap. Tiago")
	require.NoError(t, err)
	assert.True(t, cert.IsIssued())
	assert.Equal(t, "Kap. Tiago", cert.IssuedBy)
	require.NotNil(t, cert.IssueDate)
	require.NotNil(t, cert.ExpiryDate)
	assert.True(t, cert.ExpiryDate.Equal(time.Date(2025, time.July, 15, 10, 0, 0, 0, time.UTC)))

	_, err = UpdateCertificate(conn, cert.ID, CertificateInput{Purpose: "Changed"})
	assert.ErrorIs(t, err, ErrCertificateLocked)
	_, err = DeleteCertificate(conn, cert.ID)
	assert.ErrorIs(t, err, ErrCertificateLocked)

	_, err = UpdateCertificateStatus(conn, cert.ID, "Lost", "x")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = UpdateCertificateStatus(conn, 12345, models.CertificateStatusApproved, "x")
	assert.ErrorIs(t, err, ErrCertificateNotFound)
}

func TestVerifyAndExpireCertificates(t *testing.T) {
	conn := setupTestDB(t)
	issuedAt := time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)
	withClock(t, issuedAt)
	resident := createTestResident(t, conn, "Elias", "Salvador")

	cert, err := CreateCertificate(conn, testAppURL, CertificateInput{ResidentID: resident.ID, CertificateType: models.CertificateTypeIndigency})
	require.NoError(t, err)

	v, err := VerifyCertificate(conn, cert.CertificateNumber, issuedAt)
	require.NoError(t, err)
	assert.False(t, v.Valid)
	assert.Equal(t, "Elias Salvador", v.ResidentName)
	assert.Equal(t, "Certificate of Indigency", v.CertificateType)

	_, err = UpdateCertificateStatus(conn, cert.ID, models.CertificateStatusApproved, "sec")
	require.NoError(t, err)
	_, err = UpdateCertificateStatus(conn, cert.ID, models.CertificateStatusIssued, "cap")
	require.NoError(t, err)

	v, err = VerifyCertificate(conn, cert.CertificateNumber, issuedAt.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.True(t, v.Valid)

	// Still valid the day before expiry, nothing to expire
	n, err := ExpireCertificates(conn, issuedAt.AddDate(0, 6, -1))
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = ExpireCertificates(conn, issuedAt.AddDate(0, 6, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	v, err = VerifyCertificate(conn, cert.CertificateNumber, issuedAt.AddDate(0, 6, 1))
	require.NoError(t, err)
	assert.False(t, v.Valid)
	assert.Equal(t, models.CertificateStatusExpired, v.Status)

	_, err = VerifyCertificate(conn, "CLE-1999-00001", issuedAt)
	assert.ErrorIs(t, err, ErrCertificateNotFound)
}

func TestGetCertificates(t *testing.T) {
	conn := setupTestDB(t)
	withClock(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC))
	r1 := createTestResident(t, conn, "Basilio", "Cruz")
	r2 := createTestResident(t, conn, "Crispin", "Cruz")

	_, err := CreateCertificate(conn, testAppURL, CertificateInput{ResidentID: r1.ID, CertificateType: models.CertificateTypeClearance, Purpose: "Scholarship"})
	require.NoError(t, err)
	_, err = CreateCertificate(conn, testAppURL, CertificateInput{ResidentID: r2.ID, CertificateType: models.CertificateTypeIndigency, Purpose: "Medical assistance"})
	require.NoError(t, err)

	certs, total, err := GetCertificates(conn, CertificateFilters{}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, certs, 2)
	assert.NotNil(t, certs[0].Resident)

	_, total, err = GetCertificates(conn, CertificateFilters{ResidentID: &r1.ID}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = GetCertificates(conn, CertificateFilters{Keyword: "MEDICAL"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = GetCertificates(conn, CertificateFilters{Type: models.CertificateTypeClearance, Status: models.CertificateStatusPending}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestCertificateExpiry(t *testing.T) {
	at := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC), CertificateExpiry(models.CertificateTypeClearance, at))
	assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), CertificateExpiry(models.CertificateTypeBusinessPermit, at))
}
