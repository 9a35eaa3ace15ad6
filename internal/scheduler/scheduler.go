package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/herdmon/herdmon/internal/config"
	"github.com/herdmon/herdmon/internal/domain/models"
	"github.com/herdmon/herdmon/internal/repository/mongodb"
	"github.com/herdmon/herdmon/internal/repository/sheets"
	"github.com/herdmon/herdmon/internal/service/reporting"
	"github.com/herdmon/herdmon/pkg/clients/notify"
)

// Scheduler manages scheduled tasks. Any of the three sinks may be nil, in
// which case that part of the job is skipped.
type Scheduler struct {
	cron     *cron.Cron
	reports  reporting.ReportService
	archive  mongodb.Repository
	exporter sheets.Repository
	notifier notify.Client
	schedule string
	logger   *zap.Logger
	now      func() time.Time
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.ReportingConfig, reports reporting.ReportService, archive mongodb.Repository, exporter sheets.Repository, notifier notify.Client, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, falling back to UTC", zap.String("timezone", cfg.Timezone), zap.Error(err))
		loc = time.UTC
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		reports:  reports,
		archive:  archive,
		exporter: exporter,
		notifier: notifier,
		schedule: cfg.CronSchedule,
		logger:   logger,
		now:      time.Now,
	}
}

// Start registers the daily report job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))

	if _, err := s.cron.AddFunc(s.schedule, s.runDailyReport); err != nil {
		s.logger.Error("failed to schedule daily report", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

// runDailyReport builds the report for the previous, completed day and fans
// it out to the configured sinks. Sink failures are logged and do not block
// the remaining sinks.
func (s *Scheduler) runDailyReport() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	day := s.now().UTC().AddDate(0, 0, -1)
	s.logger.Info("generating daily report", zap.String("date", day.Format(models.DateLayout)))

	report, err := s.reports.GenerateReport(ctx, day)
	if err != nil {
		s.logger.Error("failed to generate daily report", zap.Error(err))
		return
	}

	if s.archive != nil {
		snapshot := models.ArchivedReport{
			SnapshotID:  uuid.NewString(),
			GeneratedAt: s.now().UTC(),
			Report:      report,
		}
		if err := s.archive.SaveReport(ctx, snapshot); err != nil {
			s.logger.Error("failed to archive report", zap.Error(err))
		} else {
			s.logger.Info("report archived", zap.String("snapshot_id", snapshot.SnapshotID))
		}
	}

	if s.exporter != nil {
		if err := s.exporter.AppendReportSummary(ctx, report); err != nil {
			s.logger.Error("failed to export report summary", zap.Error(err))
		}
	}

	if s.notifier != nil && len(report.PotentiallyIllCows) > 0 {
		alert := notify.Alert{
			Date:        report.Date,
			Summary:     report.Summary,
			FlaggedCows: report.PotentiallyIllCows,
		}
		if err := s.notifier.SendAlert(ctx, alert); err != nil {
			s.logger.Error("failed to send flagged-cow alert", zap.Error(err))
		} else {
			s.logger.Info("flagged-cow alert sent", zap.Int("flagged", len(report.PotentiallyIllCows)))
		}
	}
}
