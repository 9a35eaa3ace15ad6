package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/herdmon/herdmon/internal/domain/models"
	"github.com/herdmon/herdmon/pkg/clients/notify"
)

type fakeReports struct {
	report  models.Report
	err     error
	gotDate time.Time
}

func (f *fakeReports) GenerateReport(_ context.Context, date time.Time) (models.Report, error) {
	f.gotDate = date
	return f.report, f.err
}

type fakeArchive struct {
	snapshots []models.ArchivedReport
	err       error
}

func (f *fakeArchive) SaveReport(_ context.Context, snapshot models.ArchivedReport) error {
	if f.err != nil {
		return f.err
	}
	f.snapshots = append(f.snapshots, snapshot)
	return nil
}

type fakeExporter struct {
	reports []models.Report
}

func (f *fakeExporter) AppendReportSummary(_ context.Context, report models.Report) error {
	f.reports = append(f.reports, report)
	return nil
}

type fakeNotifier struct {
	alerts []notify.Alert
}

func (f *fakeNotifier) SendAlert(_ context.Context, alert notify.Alert) error {
	f.alerts = append(f.alerts, alert)
	return nil
}

func flaggedReport() models.Report {
	return models.Report{
		Date: "2024-03-09",
		PotentiallyIllCows: []models.HealthFlag{
			{ID: "cow-1", Name: "Bessie", Reason: "Significant weight loss: -6.90% change"},
		},
		Summary: models.HerdSummary{CowsMonitored: 2, FlaggedCows: 1},
	}
}

func newTestScheduler(reports *fakeReports, archive *fakeArchive, exporter *fakeExporter, notifier *fakeNotifier) *Scheduler {
	s := &Scheduler{
		cron:     cron.New(),
		reports:  reports,
		schedule: "0 6 * * *",
		logger:   zap.NewNop(),
		now:      func() time.Time { return time.Date(2024, 3, 10, 6, 0, 0, 0, time.UTC) },
	}
	// A nil fake must stay a nil interface inside the scheduler.
	if archive != nil {
		s.archive = archive
	}
	if exporter != nil {
		s.exporter = exporter
	}
	if notifier != nil {
		s.notifier = notifier
	}
	return s
}

func TestRunDailyReportFansOut(t *testing.T) {
	reports := &fakeReports{report: flaggedReport()}
	archive := &fakeArchive{}
	exporter := &fakeExporter{}
	notifier := &fakeNotifier{}

	s := newTestScheduler(reports, archive, exporter, notifier)
	s.runDailyReport()

	// The 06:00 run reports on the previous, completed day.
	assert.Equal(t, "2024-03-09", reports.gotDate.Format(models.DateLayout))

	require.Len(t, archive.snapshots, 1)
	snapshot := archive.snapshots[0]
	assert.NotEmpty(t, snapshot.SnapshotID)
	assert.Equal(t, "2024-03-09", snapshot.Report.Date)
	assert.Equal(t, time.Date(2024, 3, 10, 6, 0, 0, 0, time.UTC), snapshot.GeneratedAt)

	require.Len(t, exporter.reports, 1)
	assert.Equal(t, "2024-03-09", exporter.reports[0].Date)

	require.Len(t, notifier.alerts, 1)
	alert := notifier.alerts[0]
	assert.Equal(t, "2024-03-09", alert.Date)
	require.Len(t, alert.FlaggedCows, 1)
	assert.Equal(t, "cow-1", alert.FlaggedCows[0].ID)
}

func TestRunDailyReportSkipsAlertWithoutFlags(t *testing.T) {
	reports := &fakeReports{report: models.Report{Date: "2024-03-09"}}
	notifier := &fakeNotifier{}

	s := newTestScheduler(reports, nil, nil, notifier)
	s.runDailyReport()

	assert.Empty(t, notifier.alerts)
}

func TestRunDailyReportToleratesMissingSinks(t *testing.T) {
	reports := &fakeReports{report: flaggedReport()}

	s := newTestScheduler(reports, nil, nil, nil)
	s.runDailyReport()

	assert.Equal(t, "2024-03-09", reports.gotDate.Format(models.DateLayout))
}

func TestRunDailyReportContinuesPastArchiveFailure(t *testing.T) {
	reports := &fakeReports{report: flaggedReport()}
	archive := &fakeArchive{err: assert.AnError}
	exporter := &fakeExporter{}
	notifier := &fakeNotifier{}

	s := newTestScheduler(reports, archive, exporter, notifier)
	s.runDailyReport()

	assert.Len(t, exporter.reports, 1)
	assert.Len(t, notifier.alerts, 1)
}

func TestRunDailyReportStopsOnGenerateFailure(t *testing.T) {
	reports := &fakeReports{err: assert.AnError}
	archive := &fakeArchive{}

	s := newTestScheduler(reports, archive, nil, nil)
	s.runDailyReport()

	assert.Empty(t, archive.snapshots)
}
