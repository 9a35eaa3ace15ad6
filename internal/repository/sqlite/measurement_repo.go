package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/herdmon/herdmon/internal/domain/models"
)

// MeasurementRepository defines the measurement persistence and aggregate
// query operations used by the services. The kind of a measurement is
// resolved by joining against the sensors table; there is no per-kind table.
type MeasurementRepository interface {
	Insert(ctx context.Context, m *models.Measurement) error
	Average(ctx context.Context, cowID string, kind models.MeasurementKind, window models.TimeRange) (*float64, error)
	Latest(ctx context.Context, cowID string, kind models.MeasurementKind, window models.TimeRange) (*models.MeasurementPoint, error)
	Recent(ctx context.Context, cowID string, kind models.MeasurementKind, limit uint64) ([]models.Measurement, error)
}

// MeasurementRepo is the SQLite-backed MeasurementRepository.
type MeasurementRepo struct{ *Repo }

func NewMeasurementRepo(db *sql.DB) *MeasurementRepo {
	return &MeasurementRepo{NewRepo(db)}
}

// Insert appends a measurement row and fills in its insertion id. Broken
// cow/sensor references surface as ErrValidation; the herd service checks
// them up front, the foreign keys are the backstop.
func (r *MeasurementRepo) Insert(ctx context.Context, m *models.Measurement) error {
	q := r.SQ.Insert("measurements").
		Columns("sensor_id", "cow_id", "timestamp", "value").
		Values(m.SensorID, m.CowID, m.Timestamp, m.Value)
	sqlStr, args, _ := q.ToSql()

	res, err := r.DB.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		if isConstraintErr(err) {
			return fmt.Errorf("%w: measurement references unknown cow or sensor", models.ErrValidation)
		}
		return fmt.Errorf("insert measurement: %w", err)
	}

	id, _ := res.LastInsertId()
	m.ID = id
	return nil
}

// Average returns the arithmetic mean over the positive-valued measurements
// of the given cow and kind inside window, or nil when no row qualifies.
func (r *MeasurementRepo) Average(ctx context.Context, cowID string, kind models.MeasurementKind, window models.TimeRange) (*float64, error) {
	unit, ok := models.UnitForKind(kind)
	if !ok {
		return nil, fmt.Errorf("%w: unknown measurement kind %q", models.ErrValidation, kind)
	}

	q := r.SQ.Select("AVG(m.value)").
		From("measurements m").
		Join("sensors s ON s.id = m.sensor_id").
		Where(sq.Eq{"m.cow_id": cowID, "s.unit": string(unit)}).
		Where(sq.Gt{"m.value": 0})
	q = inWindow(q, window)
	sqlStr, args, _ := q.ToSql()

	var avg sql.NullFloat64
	if err := r.DB.QueryRowContext(ctx, sqlStr, args...).Scan(&avg); err != nil {
		return nil, fmt.Errorf("average %s for cow %s: %w", kind, cowID, err)
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}

// Latest returns the positive-valued measurement with the maximum timestamp
// for the given cow and kind inside window, or nil when none exists. Ties on
// the timestamp resolve to the highest insertion id.
func (r *MeasurementRepo) Latest(ctx context.Context, cowID string, kind models.MeasurementKind, window models.TimeRange) (*models.MeasurementPoint, error) {
	unit, ok := models.UnitForKind(kind)
	if !ok {
		return nil, fmt.Errorf("%w: unknown measurement kind %q", models.ErrValidation, kind)
	}

	q := r.SQ.Select("m.value", "m.timestamp", "m.sensor_id").
		From("measurements m").
		Join("sensors s ON s.id = m.sensor_id").
		Where(sq.Eq{"m.cow_id": cowID, "s.unit": string(unit)}).
		Where(sq.Gt{"m.value": 0})
	q = inWindow(q, window)
	q = q.OrderBy("m.timestamp DESC", "m.id DESC").Limit(1)
	sqlStr, args, _ := q.ToSql()

	var p models.MeasurementPoint
	err := r.DB.QueryRowContext(ctx, sqlStr, args...).Scan(&p.Value, &p.Timestamp, &p.SensorID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest %s for cow %s: %w", kind, cowID, err)
	}
	return &p, nil
}

// Recent returns up to limit measurements of the given cow and kind, newest
// first. Unlike the aggregate queries it does not filter zero values; it
// serves the per-cow inspection endpoint.
func (r *MeasurementRepo) Recent(ctx context.Context, cowID string, kind models.MeasurementKind, limit uint64) ([]models.Measurement, error) {
	unit, ok := models.UnitForKind(kind)
	if !ok {
		return nil, fmt.Errorf("%w: unknown measurement kind %q", models.ErrValidation, kind)
	}

	q := r.SQ.Select("m.id", "m.sensor_id", "m.cow_id", "m.timestamp", "m.value").
		From("measurements m").
		Join("sensors s ON s.id = m.sensor_id").
		Where(sq.Eq{"m.cow_id": cowID, "s.unit": string(unit)}).
		OrderBy("m.timestamp DESC", "m.id DESC").
		Limit(limit)
	sqlStr, args, _ := q.ToSql()

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("recent %s for cow %s: %w", kind, cowID, err)
	}
	defer rows.Close()

	var out []models.Measurement
	for rows.Next() {
		var m models.Measurement
		if err := rows.Scan(&m.ID, &m.SensorID, &m.CowID, &m.Timestamp, &m.Value); err != nil {
			return nil, fmt.Errorf("scan measurement: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate measurements: %w", err)
	}
	return out, nil
}

// inWindow narrows a measurement query to the given time range. Zero bounds
// stay unbounded.
func inWindow(q sq.SelectBuilder, window models.TimeRange) sq.SelectBuilder {
	if window.Start != 0 {
		q = q.Where(sq.GtOrEq{"m.timestamp": window.Start})
	}
	if window.End != 0 {
		q = q.Where(sq.Lt{"m.timestamp": window.End})
	}
	return q
}
