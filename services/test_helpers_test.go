package services

import (
	"testing"
	"time"

	"barangay_app_go/db"
	"barangay_app_go/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB opens a private in-memory database with foreign keys enforced
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:svc_" + uuid.New().String() + "?mode=memory&cache=shared&_foreign_keys=on"
	conn, err := gorm.Open(sqlite.Open(dsn), db.NewConfig(gormlogger.Silent))
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(models.All()...))

	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return conn
}

func createTestResident(t *testing.T, conn *gorm.DB, first, last string) *models.Resident {
	t.Helper()
	resident := &models.Resident{
		FirstName: first,
		LastName:  last,
		Address:   "Purok 1, Poblacion",
		Purok:     "Purok 1",
		Gender:    models.GenderFemale,
	}
	require.NoError(t, conn.Create(resident).Error)
	return resident
}

func createTestCertificate(t *testing.T, conn *gorm.DB, residentID uint, number string) *models.Certificate {
	t.Helper()
	cert := &models.Certificate{
		ResidentID:        residentID,
		CertificateType:   models.CertificateTypeClearance,
		CertificateNumber: number,
		Purpose:           "Employment",
	}
	require.NoError(t, conn.Create(cert).Error)
	return cert
}

func createTestMedicalRecord(t *testing.T, conn *gorm.DB, residentID uint) *models.MedicalRecord {
	t.Helper()
	rec := &models.MedicalRecord{
		ResidentID: residentID,
		VisitDate:  time.Now().UTC(),
		Complaint:  "Cough",
	}
	require.NoError(t, conn.Create(rec).Error)
	return rec
}

func createTestIncident(t *testing.T, conn *gorm.DB, complainantID, respondentID *uint) *models.Incident {
	t.Helper()
	now := time.Now().UTC()
	incident := &models.Incident{
		IncidentType:  models.IncidentTypeBlotter,
		Title:         "Noise complaint",
		IncidentDate:  now,
		ReportedAt:    now,
		ComplainantID: complainantID,
		RespondentID:  respondentID,
	}
	require.NoError(t, conn.Create(incident).Error)
	return incident
}

func testDate(year int, month time.Month, day int) datatypes.Date {
	return datatypes.Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

func uintPtr(v uint) *uint {
	return &v
}

// withClock pins services.Now for the duration of a test
func withClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := Now
	Now = func() time.Time { return at }
	t.Cleanup(func() { Now = prev })
}
