package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ItumelengS/linac-qa-app-sub000/internal/models"
	"github.com/ItumelengS/linac-qa-app-sub000/internal/repository"
)

// Scheduler watches the QA calendar: it periodically checks every active
// unit for overdue daily and monthly QA and logs what is due. The checks
// are advisory; nothing blocks treatment from this side.
type Scheduler struct {
	log *zap.Logger
}

func NewScheduler(log *zap.Logger) *Scheduler {
	return &Scheduler{log: log}
}

// Start runs the scheduler in a goroutine.
func (s *Scheduler) Start() {
	s.log.Info("Starting QA due-date scheduler...")
	go func() {
		// First check shortly after startup, then hourly.
		timer := time.NewTimer(1 * time.Minute)
		defer timer.Stop()
		<-timer.C
		s.runDueCheck()

		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			<-ticker.C
			s.runDueCheck()
		}
	}()
}

func (s *Scheduler) runDueCheck() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	units, err := repository.ListActiveEquipment(ctx)
	if err != nil {
		s.log.Error("Failed to list equipment for QA due check", zap.Error(err))
		return
	}

	now := time.Now()
	for _, unit := range units {
		s.checkUnit(ctx, &unit, now)
	}
}

func (s *Scheduler) checkUnit(ctx context.Context, unit *models.Equipment, now time.Time) {
	// Daily QA is due when the last daily report predates today.
	last, err := repository.LastReportDate(ctx, unit.ID, "daily")
	switch {
	case err != nil:
		s.log.Info("Daily QA due: no reports on record",
			zap.String("unit", unit.Name))
	case last.Before(startOfDay(now)):
		s.log.Info("Daily QA due",
			zap.String("unit", unit.Name),
			zap.Time("last_daily", *last))
	}

	// Monthly QA is due after 30 days.
	last, err = repository.LastReportDate(ctx, unit.ID, "monthly")
	switch {
	case err != nil:
		s.log.Info("Monthly QA due: no reports on record",
			zap.String("unit", unit.Name))
	case now.Sub(*last) > 30*24*time.Hour:
		s.log.Info("Monthly QA due",
			zap.String("unit", unit.Name),
			zap.Time("last_monthly", *last))
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
