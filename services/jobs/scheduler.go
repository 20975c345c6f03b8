package jobs

import (
	"fmt"
	"time"

	"barangay_app_go/config"
	"barangay_app_go/logger"
	"barangay_app_go/services"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultSchedule runs the daily sweep five minutes after midnight
const DefaultSchedule = "5 0 * * *"

// SweepResult reports what a daily sweep changed
type SweepResult struct {
	Expired  int64
	Promoted int64
	Reminded int
}

// RunDailySweep expires lapsed certificates, flags residents who turned
// sixty and sends vaccination reminders. Each step runs even when an earlier
// one fails; the first error is returned.
func RunDailySweep(database *gorm.DB, cfg *config.Config, at time.Time) (SweepResult, error) {
	var result SweepResult
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	expired, err := services.ExpireCertificates(database, at)
	if err != nil {
		logger.L.Error("certificate expiry failed", zap.Error(err))
	}
	keep(err)
	result.Expired = expired

	promoted, err := services.RefreshSeniorFlags(database, at)
	if err != nil {
		logger.L.Error("senior flag refresh failed", zap.Error(err))
	}
	keep(err)
	result.Promoted = promoted

	reminded, err := SendVaccinationReminders(database, cfg, at)
	if err != nil {
		logger.L.Error("vaccination reminders failed", zap.Error(err))
	}
	keep(err)
	result.Reminded = reminded

	logger.L.Info("daily sweep finished",
		zap.Time("at", at),
		zap.Int64("expired", result.Expired),
		zap.Int64("promoted", result.Promoted),
		zap.Int("reminded", result.Reminded),
	)
	return result, firstErr
}

// StartScheduler registers the daily sweep on spec in the barangay's time
// zone and starts the cron runner. Callers stop it with Stop().
func StartScheduler(database *gorm.DB, cfg *config.Config, spec string) (*cron.Cron, error) {
	if spec == "" {
		spec = DefaultSchedule
	}
	c := cron.New(cron.WithLocation(cfg.Location()))

	_, err := c.AddFunc(spec, func() {
		logger.L.Info("running scheduled daily sweep")
		RunDailySweep(database, cfg, services.Now())
	})
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	c.Start()
	logger.L.Info("scheduler started", zap.String("schedule", spec), zap.String("timezone", cfg.Timezone))
	return c, nil
}
