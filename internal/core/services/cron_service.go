package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"teamfund/internal/adapters/persistence/models"
	"teamfund/internal/core/domain"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// stalePendingAge is how long a bill may sit in PENDING before the
// team admin gets a daily reminder about it.
const stalePendingAge = 48 * time.Hour

// CronService runs scheduled background jobs
type CronService struct {
	db       *gorm.DB
	notifier *NotificationService
	cron     *cron.Cron
}

// NewCronService creates a new cron service
func NewCronService(db *gorm.DB, notifier *NotificationService) *CronService {
	return &CronService{
		db:       db,
		notifier: notifier,
		cron:     cron.New(),
	}
}

// Start registers and starts the scheduled jobs (08:30 daily)
func (s *CronService) Start() {
	_, err := s.cron.AddFunc("30 8 * * *", func() {
		if err := s.RemindStalePendingBills(context.Background()); err != nil {
			log.Printf("❌ Stale bill reminder job failed: %v", err)
		}
	})
	if err != nil {
		log.Printf("❌ Failed to register cron job: %v", err)
		return
	}

	s.cron.Start()
	log.Println("✅ Cron service started (daily reminder at 08:30)")
}

// Stop stops the cron scheduler
func (s *CronService) Stop() {
	s.cron.Stop()
	log.Println("⚠️ Cron service stopped")
}

type stalePendingRow struct {
	AdminID uint
	Count   int64
	Total   float64
}

// RemindStalePendingBills notifies each team admin who has bills that
// have been waiting in PENDING for more than 48 hours.
func (s *CronService) RemindStalePendingBills(ctx context.Context) error {
	cutoff := time.Now().Add(-stalePendingAge)

	var rows []stalePendingRow
	err := s.db.WithContext(ctx).
		Model(&models.Bill{}).
		Select("teams.admin_id AS admin_id, COUNT(*) AS count, COALESCE(SUM(bills.amount), 0) AS total").
		Joins("JOIN teams ON teams.id = bills.team_id").
		Where("bills.status = ? AND bills.created_at < ?", domain.BillStatusPending, cutoff).
		Group("teams.admin_id").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	for _, row := range rows {
		message := fmt.Sprintf(
			"You have %d pending bill(s) totaling $%s waiting for more than 48 hours.",
			row.Count, formatAmount(row.Total),
		)

		if _, err := s.notifier.Notify(ctx, row.AdminID, "Pending Bills Reminder", message, domain.NotifyWarning, nil); err != nil {
			log.Printf("⚠️ Reminder notification failed for user %d: %v", row.AdminID, err)
		}
	}

	if len(rows) > 0 {
		log.Printf("✅ Stale bill reminders sent to %d admin(s)", len(rows))
	}

	return nil
}
