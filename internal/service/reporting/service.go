package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/montanaflynn/stats"
	"go.uber.org/zap"

	"github.com/herdmon/herdmon/internal/domain/models"
	repo "github.com/herdmon/herdmon/internal/repository/sqlite"
)

// reportWindowDays bounds how far back the report aggregates look.
const reportWindowDays = 30

// ReportService describes the operations the HTTP layer and the scheduler can
// perform.
type ReportService interface {
	GenerateReport(ctx context.Context, date time.Time) (models.Report, error)
}

// Service assembles the daily herd health report.
type Service struct {
	cows         repo.CowRepository
	measurements repo.MeasurementRepository
	logger       *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(cows repo.CowRepository, measurements repo.MeasurementRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{cows: cows, measurements: measurements, logger: logger}
}

// GenerateReport builds the health report for the given calendar day. The
// aggregates cover the 30 days leading up to and including that day; the day
// itself counts in full.
func (s *Service) GenerateReport(ctx context.Context, date time.Time) (models.Report, error) {
	day := date.UTC().Truncate(24 * time.Hour)
	window := models.TimeRange{
		Start: float64(day.AddDate(0, 0, -reportWindowDays).Unix()),
		End:   float64(day.AddDate(0, 0, 1).Unix()),
	}

	cows, err := s.cows.List(ctx)
	if err != nil {
		return models.Report{}, fmt.Errorf("list cows: %w", err)
	}

	report := models.Report{
		Date:               day.Format(models.DateLayout),
		Cows:               make([]models.CowSummary, 0, len(cows)),
		PotentiallyIllCows: make([]models.HealthFlag, 0),
	}

	flagged := make(map[string]struct{})
	for _, cow := range cows {
		summary, err := Aggregate(ctx, s.measurements, cow, window)
		if err != nil {
			return models.Report{}, err
		}
		report.Cows = append(report.Cows, summary)

		for _, flag := range classify(summary) {
			report.PotentiallyIllCows = append(report.PotentiallyIllCows, flag)
			flagged[flag.ID] = struct{}{}
		}
	}

	report.Summary = herdSummary(report.Cows, len(flagged))

	s.logger.Debug("report generated",
		zap.String("date", report.Date),
		zap.Int("cows", len(report.Cows)),
		zap.Int("flags", len(report.PotentiallyIllCows)),
	)
	return report, nil
}

// herdSummary condenses per-cow aggregates into herd-level statistics.
// flaggedCows counts distinct cows, not individual flags.
func herdSummary(cows []models.CowSummary, flaggedCows int) models.HerdSummary {
	var milk, weight []float64
	for _, cow := range cows {
		if cow.AvgMilkProduction != nil {
			milk = append(milk, *cow.AvgMilkProduction)
		}
		if cow.AvgWeight != nil {
			weight = append(weight, *cow.AvgWeight)
		}
	}

	return models.HerdSummary{
		CowsMonitored:     len(cows),
		FlaggedCows:       flaggedCows,
		AvgMilkProduction: herdMean(milk),
		AvgWeight:         herdMean(weight),
	}
}

func herdMean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	mean, err := stats.Mean(values)
	if err != nil {
		return nil
	}
	return &mean
}
