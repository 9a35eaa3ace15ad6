package herd

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herdmon/herdmon/internal/domain/models"
)

type fakeCows struct{ cows map[string]models.Cow }

func (f *fakeCows) Create(_ context.Context, cow models.Cow) error {
	if _, ok := f.cows[cow.ID]; ok {
		return fmt.Errorf("cow %s: %w", cow.ID, models.ErrConflict)
	}
	f.cows[cow.ID] = cow
	return nil
}

func (f *fakeCows) Get(_ context.Context, id string) (*models.Cow, error) {
	cow, ok := f.cows[id]
	if !ok {
		return nil, fmt.Errorf("cow %s: %w", id, models.ErrNotFound)
	}
	return &cow, nil
}

func (f *fakeCows) List(context.Context) ([]models.Cow, error) {
	out := make([]models.Cow, 0, len(f.cows))
	for _, cow := range f.cows {
		out = append(out, cow)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCows) Count(context.Context) (int, error) { return len(f.cows), nil }

type fakeSensors struct{ sensors map[string]models.Sensor }

func (f *fakeSensors) Create(_ context.Context, sensor models.Sensor) error {
	if _, ok := f.sensors[sensor.ID]; ok {
		return fmt.Errorf("sensor %s: %w", sensor.ID, models.ErrConflict)
	}
	f.sensors[sensor.ID] = sensor
	return nil
}

func (f *fakeSensors) Get(_ context.Context, id string) (*models.Sensor, error) {
	sensor, ok := f.sensors[id]
	if !ok {
		return nil, fmt.Errorf("sensor %s: %w", id, models.ErrNotFound)
	}
	return &sensor, nil
}

// fakeMeasurements mirrors the store's aggregate semantics in memory:
// positive values only, window bounds, insertion id as tie-break.
type fakeMeasurements struct {
	sensors map[string]models.Sensor
	rows    []models.Measurement
}

func (f *fakeMeasurements) Insert(_ context.Context, m *models.Measurement) error {
	m.ID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, *m)
	return nil
}

func (f *fakeMeasurements) matches(m models.Measurement, cowID string, kind models.MeasurementKind, window models.TimeRange) bool {
	k, _ := models.KindForUnit(f.sensors[m.SensorID].Unit)
	if m.CowID != cowID || k != kind {
		return false
	}
	if window.Start != 0 && m.Timestamp < window.Start {
		return false
	}
	if window.End != 0 && m.Timestamp >= window.End {
		return false
	}
	return true
}

func (f *fakeMeasurements) Average(_ context.Context, cowID string, kind models.MeasurementKind, window models.TimeRange) (*float64, error) {
	var sum float64
	var n int
	for _, m := range f.rows {
		if f.matches(m, cowID, kind, window) && m.Value > 0 {
			sum += m.Value
			n++
		}
	}
	if n == 0 {
		return nil, nil
	}
	avg := sum / float64(n)
	return &avg, nil
}

func (f *fakeMeasurements) Latest(_ context.Context, cowID string, kind models.MeasurementKind, window models.TimeRange) (*models.MeasurementPoint, error) {
	var best *models.Measurement
	for i := range f.rows {
		m := f.rows[i]
		if !f.matches(m, cowID, kind, window) || m.Value <= 0 {
			continue
		}
		if best == nil || m.Timestamp > best.Timestamp || (m.Timestamp == best.Timestamp && m.ID > best.ID) {
			best = &f.rows[i]
		}
	}
	if best == nil {
		return nil, nil
	}
	return &models.MeasurementPoint{Value: best.Value, Timestamp: best.Timestamp, SensorID: best.SensorID}, nil
}

func (f *fakeMeasurements) Recent(_ context.Context, cowID string, kind models.MeasurementKind, limit uint64) ([]models.Measurement, error) {
	var out []models.Measurement
	for _, m := range f.rows {
		if f.matches(m, cowID, kind, models.TimeRange{}) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp == out[j].Timestamp {
			return out[i].ID > out[j].ID
		}
		return out[i].Timestamp > out[j].Timestamp
	})
	if uint64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	sensors := &fakeSensors{sensors: map[string]models.Sensor{}}
	return NewService(
		&fakeCows{cows: map[string]models.Cow{}},
		sensors,
		&fakeMeasurements{sensors: sensors.sensors},
		nil,
	)
}

func registerHerd(t *testing.T, svc *Service) {
	t.Helper()
	ctx := context.Background()
	_, err := svc.RegisterCow(ctx, models.CreateCowRequest{ID: "cow-1", Name: "Bessie", Birthdate: "2020-01-01"})
	require.NoError(t, err)
	_, err = svc.RegisterSensor(ctx, models.CreateSensorRequest{ID: "milk-1", Unit: "L"})
	require.NoError(t, err)
	_, err = svc.RegisterSensor(ctx, models.CreateSensorRequest{ID: "scale-1", Unit: "kg"})
	require.NoError(t, err)
}

func record(t *testing.T, svc *Service, sensorID string, ts, value float64) {
	t.Helper()
	_, err := svc.RecordMeasurement(context.Background(), models.CreateMeasurementRequest{
		SensorID: sensorID, CowID: "cow-1", Timestamp: ts, Value: value,
	})
	require.NoError(t, err)
}

func TestRegisterCow(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cow, err := svc.RegisterCow(ctx, models.CreateCowRequest{ID: "cow-1", Name: "Bessie", Birthdate: "2020-01-01"})
	require.NoError(t, err)
	assert.Equal(t, "cow-1", cow.ID)

	_, err = svc.RegisterCow(ctx, models.CreateCowRequest{ID: "cow-1", Name: "Clone", Birthdate: "2021-01-01"})
	require.ErrorIs(t, err, models.ErrConflict)

	_, err = svc.RegisterCow(ctx, models.CreateCowRequest{ID: "cow-2", Name: "Hilda", Birthdate: "15.06.2021"})
	require.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.RegisterCow(ctx, models.CreateCowRequest{Name: "Nameless", Birthdate: "2021-01-01"})
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestRegisterSensorNormalizesUnit(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	sensor, err := svc.RegisterSensor(ctx, models.CreateSensorRequest{ID: "milk-1", Unit: "l"})
	require.NoError(t, err)
	assert.Equal(t, models.UnitLiters, sensor.Unit)

	sensor, err = svc.RegisterSensor(ctx, models.CreateSensorRequest{ID: "scale-1", Unit: "KG"})
	require.NoError(t, err)
	assert.Equal(t, models.UnitKilograms, sensor.Unit)

	_, err = svc.RegisterSensor(ctx, models.CreateSensorRequest{ID: "odd-1", Unit: "gal"})
	require.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.RegisterSensor(ctx, models.CreateSensorRequest{ID: "milk-1", Unit: "L"})
	require.ErrorIs(t, err, models.ErrConflict)
}

func TestRecordMeasurement(t *testing.T) {
	svc := newTestService(t)
	registerHerd(t, svc)
	ctx := context.Background()

	m, err := svc.RecordMeasurement(ctx, models.CreateMeasurementRequest{
		SensorID: "milk-1", CowID: "cow-1", Timestamp: 1000, Value: 12.5,
	})
	require.NoError(t, err)
	assert.NotZero(t, m.ID)

	_, err = svc.RecordMeasurement(ctx, models.CreateMeasurementRequest{
		SensorID: "milk-1", CowID: "ghost", Timestamp: 1000, Value: 1,
	})
	require.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.RecordMeasurement(ctx, models.CreateMeasurementRequest{
		SensorID: "ghost", CowID: "cow-1", Timestamp: 1000, Value: 1,
	})
	require.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.RecordMeasurement(ctx, models.CreateMeasurementRequest{
		SensorID: "milk-1", CowID: "cow-1", Timestamp: 1000, Value: -3,
	})
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestCowDetails(t *testing.T) {
	svc := newTestService(t)
	registerHerd(t, svc)

	record(t, svc, "milk-1", 100, 10)
	record(t, svc, "milk-1", 200, 20)
	record(t, svc, "scale-1", 150, 500)

	details, err := svc.CowDetails(context.Background(), "cow-1")
	require.NoError(t, err)

	assert.Equal(t, "Bessie", details.Name)
	require.NotNil(t, details.AvgMilkProduction)
	assert.InDelta(t, 15.0, *details.AvgMilkProduction, 1e-9)
	require.NotNil(t, details.AvgWeight)
	assert.InDelta(t, 500.0, *details.AvgWeight, 1e-9)
	require.NotNil(t, details.LatestMilk)
	assert.Equal(t, 200.0, details.LatestMilk.Timestamp)

	_, err = svc.CowDetails(context.Background(), "ghost")
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestRecentMeasurements(t *testing.T) {
	svc := newTestService(t)
	registerHerd(t, svc)

	for i := 0; i < 7; i++ {
		record(t, svc, "milk-1", float64(100+i), float64(i))
	}

	recent, err := svc.RecentMeasurements(context.Background(), "cow-1")
	require.NoError(t, err)

	assert.Equal(t, "cow-1", recent.CowID)
	require.Len(t, recent.Milk, 5)
	assert.Equal(t, 106.0, recent.Milk[0].Timestamp)
	assert.Equal(t, 102.0, recent.Milk[4].Timestamp)
	assert.NotNil(t, recent.Weight)
	assert.Empty(t, recent.Weight)

	_, err = svc.RecentMeasurements(context.Background(), "ghost")
	require.ErrorIs(t, err, models.ErrNotFound)
}
