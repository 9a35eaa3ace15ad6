package herd

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/herdmon/herdmon/internal/domain/models"
	repo "github.com/herdmon/herdmon/internal/repository/sqlite"
	"github.com/herdmon/herdmon/internal/service/reporting"
)

// recentLimit caps the per-kind page served by RecentMeasurements.
const recentLimit = 5

// HerdService describes the operations the HTTP layer can perform.
type HerdService interface {
	RegisterCow(ctx context.Context, req models.CreateCowRequest) (models.Cow, error)
	RegisterSensor(ctx context.Context, req models.CreateSensorRequest) (models.Sensor, error)
	RecordMeasurement(ctx context.Context, req models.CreateMeasurementRequest) (models.Measurement, error)
	ListCows(ctx context.Context) ([]models.Cow, error)
	CowDetails(ctx context.Context, id string) (models.CowSummary, error)
	RecentMeasurements(ctx context.Context, id string) (models.RecentMeasurements, error)
	Healthy(ctx context.Context) error
}

// Service owns the write path (cow, sensor and measurement registration) and
// the per-cow read views.
type Service struct {
	cows         repo.CowRepository
	sensors      repo.SensorRepository
	measurements repo.MeasurementRepository
	logger       *zap.Logger
}

// NewService wires a new herd service instance.
func NewService(cows repo.CowRepository, sensors repo.SensorRepository, measurements repo.MeasurementRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{cows: cows, sensors: sensors, measurements: measurements, logger: logger}
}

// RegisterCow validates and stores a new cow.
func (s *Service) RegisterCow(ctx context.Context, req models.CreateCowRequest) (models.Cow, error) {
	if err := req.Validate(); err != nil {
		return models.Cow{}, err
	}

	cow := req.Cow()
	if err := s.cows.Create(ctx, cow); err != nil {
		return models.Cow{}, err
	}

	s.logger.Info("cow registered", zap.String("cow_id", cow.ID))
	return cow, nil
}

// RegisterSensor validates and stores a new sensor.
func (s *Service) RegisterSensor(ctx context.Context, req models.CreateSensorRequest) (models.Sensor, error) {
	if err := req.Validate(); err != nil {
		return models.Sensor{}, err
	}

	sensor := req.Sensor()
	if err := s.sensors.Create(ctx, sensor); err != nil {
		return models.Sensor{}, err
	}

	s.logger.Info("sensor registered", zap.String("sensor_id", sensor.ID), zap.String("unit", string(sensor.Unit)))
	return sensor, nil
}

// RecordMeasurement validates and stores one sensor reading. The referenced
// cow and sensor must already be registered.
func (s *Service) RecordMeasurement(ctx context.Context, req models.CreateMeasurementRequest) (models.Measurement, error) {
	if err := req.Validate(); err != nil {
		return models.Measurement{}, err
	}

	if _, err := s.cows.Get(ctx, req.CowID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.Measurement{}, fmt.Errorf("%w: unknown cow %q", models.ErrValidation, req.CowID)
		}
		return models.Measurement{}, err
	}
	if _, err := s.sensors.Get(ctx, req.SensorID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.Measurement{}, fmt.Errorf("%w: unknown sensor %q", models.ErrValidation, req.SensorID)
		}
		return models.Measurement{}, err
	}

	m := req.Measurement()
	if err := s.measurements.Insert(ctx, &m); err != nil {
		return models.Measurement{}, err
	}

	s.logger.Debug("measurement recorded",
		zap.String("cow_id", m.CowID),
		zap.String("sensor_id", m.SensorID),
		zap.Float64("value", m.Value),
	)
	return m, nil
}

// ListCows returns every registered cow ordered by id.
func (s *Service) ListCows(ctx context.Context) ([]models.Cow, error) {
	return s.cows.List(ctx)
}

// CowDetails returns a cow together with its whole-history aggregates.
func (s *Service) CowDetails(ctx context.Context, id string) (models.CowSummary, error) {
	cow, err := s.cows.Get(ctx, id)
	if err != nil {
		return models.CowSummary{}, err
	}
	return reporting.Aggregate(ctx, s.measurements, *cow, models.TimeRange{})
}

// RecentMeasurements returns a cow's newest milk and weight readings, at most
// five per kind.
func (s *Service) RecentMeasurements(ctx context.Context, id string) (models.RecentMeasurements, error) {
	if _, err := s.cows.Get(ctx, id); err != nil {
		return models.RecentMeasurements{}, err
	}

	out := models.RecentMeasurements{CowID: id}
	var err error
	if out.Milk, err = s.measurements.Recent(ctx, id, models.KindMilk, recentLimit); err != nil {
		return models.RecentMeasurements{}, fmt.Errorf("recent milk for cow %s: %w", id, err)
	}
	if out.Weight, err = s.measurements.Recent(ctx, id, models.KindWeight, recentLimit); err != nil {
		return models.RecentMeasurements{}, fmt.Errorf("recent weight for cow %s: %w", id, err)
	}

	if out.Milk == nil {
		out.Milk = []models.Measurement{}
	}
	if out.Weight == nil {
		out.Weight = []models.Measurement{}
	}
	return out, nil
}

// Healthy reports whether the backing store answers queries.
func (s *Service) Healthy(ctx context.Context) error {
	if _, err := s.cows.Count(ctx); err != nil {
		return fmt.Errorf("store unreachable: %w", err)
	}
	return nil
}
