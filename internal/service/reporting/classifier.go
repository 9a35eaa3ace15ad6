package reporting

import (
	"fmt"

	"github.com/herdmon/herdmon/internal/domain/models"
)

// Flag thresholds, expressed as percent change of the latest reading against
// the average.
const (
	weightLossThresholdPct = -5.0
	milkDropThresholdPct   = -20.0
)

// classify returns up to two health flags for one cow. Weight is checked
// before milk, so a cow failing both lists its weight flag first.
func classify(summary models.CowSummary) []models.HealthFlag {
	var flags []models.HealthFlag

	if pct, ok := percentChange(summary.AvgWeight, summary.LatestWeight); ok && pct < weightLossThresholdPct {
		flags = append(flags, models.HealthFlag{
			ID:     summary.ID,
			Name:   summary.Name,
			Reason: fmt.Sprintf("Significant weight loss: %.2f%% change", pct),
		})
	}

	if pct, ok := percentChange(summary.AvgMilkProduction, summary.LatestMilk); ok && pct < milkDropThresholdPct {
		flags = append(flags, models.HealthFlag{
			ID:     summary.ID,
			Name:   summary.Name,
			Reason: fmt.Sprintf("Significant milk production drop: %.2f%% change", pct),
		})
	}

	return flags
}

// percentChange reports the relative change of the latest reading against the
// average. ok is false when either side is missing or unusable.
func percentChange(avg *float64, latest *models.MeasurementPoint) (pct float64, ok bool) {
	if avg == nil || latest == nil || *avg == 0 || latest.Value <= 0 {
		return 0, false
	}
	return (latest.Value - *avg) / *avg * 100, true
}
