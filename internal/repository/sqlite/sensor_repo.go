package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/herdmon/herdmon/internal/domain/models"
)

// SensorRepository defines the sensor persistence operations used by the
// services.
type SensorRepository interface {
	Create(ctx context.Context, sensor models.Sensor) error
	Get(ctx context.Context, id string) (*models.Sensor, error)
}

// SensorRepo is the SQLite-backed SensorRepository.
type SensorRepo struct{ *Repo }

func NewSensorRepo(db *sql.DB) *SensorRepo { return &SensorRepo{NewRepo(db)} }

// Create inserts a new sensor. A primary-key collision maps to ErrConflict.
func (r *SensorRepo) Create(ctx context.Context, sensor models.Sensor) error {
	q := r.SQ.Insert("sensors").
		Columns("id", "unit").
		Values(sensor.ID, string(sensor.Unit))
	sqlStr, args, _ := q.ToSql()

	if _, err := r.DB.ExecContext(ctx, sqlStr, args...); err != nil {
		if isConstraintErr(err) {
			return fmt.Errorf("sensor %s: %w", sensor.ID, models.ErrConflict)
		}
		return fmt.Errorf("insert sensor %s: %w", sensor.ID, err)
	}
	return nil
}

// Get returns the sensor with the given id, or ErrNotFound.
func (r *SensorRepo) Get(ctx context.Context, id string) (*models.Sensor, error) {
	q := r.SQ.Select("id", "unit").From("sensors").Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()

	var sensor models.Sensor
	var unit string
	err := r.DB.QueryRowContext(ctx, sqlStr, args...).Scan(&sensor.ID, &unit)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sensor %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query sensor %s: %w", id, err)
	}
	sensor.Unit = models.Unit(unit)
	return &sensor, nil
}
