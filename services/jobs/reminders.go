package jobs

import (
	"time"

	"barangay_app_go/config"
	"barangay_app_go/logger"
	"barangay_app_go/models"
	"barangay_app_go/services"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// ReminderLeadDays is how far ahead of the due date reminders go out
	ReminderLeadDays = 3
	// ReminderGraceDays is how long after the due date a missed reminder is still sent
	ReminderGraceDays = 7
)

// SendVaccinationReminders emails residents whose next dose is due within
// the reminder window. Each dose is reminded at most once.
func SendVaccinationReminders(database *gorm.DB, cfg *config.Config, at time.Time) (int, error) {
	due, err := services.GetDueVaccinations(database, at.AddDate(0, 0, ReminderLeadDays))
	if err != nil {
		return 0, err
	}
	oldest := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -ReminderGraceDays)

	sent := 0
	for i := range due {
		vac := &due[i]
		if vac.ReminderSentAt != nil || vac.NextDoseDate == nil || time.Time(*vac.NextDoseDate).Before(oldest) {
			continue
		}

		email, err := services.BuildVaccinationDueEmail(cfg.BarangayName, vac)
		if err != nil {
			logger.L.Error("failed to build vaccination reminder", zap.Uint("vaccination_id", vac.ID), zap.Error(err))
			continue
		}
		if email == nil {
			continue
		}
		if err := services.SendEmail(cfg, email); err != nil {
			logger.L.Warn("failed to send vaccination reminder", zap.Uint("vaccination_id", vac.ID), zap.Error(err))
			continue
		}

		if err := database.Model(&models.Vaccination{}).Where("id = ?", vac.ID).
			Update("reminder_sent_at", at).Error; err != nil {
			logger.L.Error("failed to mark reminder sent", zap.Uint("vaccination_id", vac.ID), zap.Error(err))
			continue
		}
		sent++
	}
	return sent, nil
}
