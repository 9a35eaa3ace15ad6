package reporting

import (
	"context"
	"fmt"

	"github.com/herdmon/herdmon/internal/domain/models"
	repo "github.com/herdmon/herdmon/internal/repository/sqlite"
)

// Aggregate builds the summary for one cow: average and latest
// positive-valued measurement per kind, restricted to window. A zero window
// spans the cow's whole history.
func Aggregate(ctx context.Context, measurements repo.MeasurementRepository, cow models.Cow, window models.TimeRange) (models.CowSummary, error) {
	summary := models.CowSummary{ID: cow.ID, Name: cow.Name, Birthdate: cow.Birthdate}

	var err error
	if summary.AvgMilkProduction, err = measurements.Average(ctx, cow.ID, models.KindMilk, window); err != nil {
		return models.CowSummary{}, fmt.Errorf("average milk for cow %s: %w", cow.ID, err)
	}
	if summary.AvgWeight, err = measurements.Average(ctx, cow.ID, models.KindWeight, window); err != nil {
		return models.CowSummary{}, fmt.Errorf("average weight for cow %s: %w", cow.ID, err)
	}
	if summary.LatestMilk, err = measurements.Latest(ctx, cow.ID, models.KindMilk, window); err != nil {
		return models.CowSummary{}, fmt.Errorf("latest milk for cow %s: %w", cow.ID, err)
	}
	if summary.LatestWeight, err = measurements.Latest(ctx, cow.ID, models.KindWeight, window); err != nil {
		return models.CowSummary{}, fmt.Errorf("latest weight for cow %s: %w", cow.ID, err)
	}
	return summary, nil
}
