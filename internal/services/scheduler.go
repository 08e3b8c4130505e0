package services

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/unihub/unihub/backend/internal/models"
	"github.com/unihub/unihub/backend/pkg/logger"
	"gorm.io/gorm"
)

// Scheduler runs periodic maintenance: clearing expired verification and
// reset tokens and pruning old audit log entries.
type Scheduler struct {
	cron  *cron.Cron
	db    *gorm.DB
	audit *AuditLogService
}

func NewScheduler(db *gorm.DB) *Scheduler {
	return &Scheduler{
		cron:  cron.New(),
		db:    db,
		audit: NewAuditLogService(db),
	}
}

// Start registers the maintenance jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	// Daily at 03:00: purge expired tokens.
	if _, err := s.cron.AddFunc("0 3 * * *", s.PurgeExpiredTokens); err != nil {
		return err
	}
	// Daily at 03:30: prune old audit entries.
	if _, err := s.cron.AddFunc("30 3 * * *", s.audit.RunCleanup); err != nil {
		return err
	}

	s.cron.Start()
	logger.Infof("[Scheduler] maintenance jobs registered")
	return nil
}

// Stop halts the cron loop and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// PurgeExpiredTokens clears verification and reset tokens past their expiry
// so stale tokens cannot linger in the table indefinitely.
func (s *Scheduler) PurgeExpiredTokens() {
	now := time.Now()

	verif := s.db.Model(&models.User{}).
		Where("verification_token <> '' AND verification_expires < ?", now).
		Updates(map[string]interface{}{
			"verification_token":   "",
			"verification_expires": nil,
		})
	if verif.Error != nil {
		logger.Errorf("[Scheduler] failed to purge verification tokens: %v", verif.Error)
	}

	reset := s.db.Model(&models.User{}).
		Where("reset_token <> '' AND reset_expires < ?", now).
		Updates(map[string]interface{}{
			"reset_token":   "",
			"reset_expires": nil,
		})
	if reset.Error != nil {
		logger.Errorf("[Scheduler] failed to purge reset tokens: %v", reset.Error)
	}

	if verif.RowsAffected > 0 || reset.RowsAffected > 0 {
		logger.Infof("[Scheduler] purged %d verification and %d reset tokens",
			verif.RowsAffected, reset.RowsAffected)
	}
}
