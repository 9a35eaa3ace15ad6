package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/herdmon/herdmon/internal/domain/models"
)

// CowRepository defines the cow persistence operations used by the services.
type CowRepository interface {
	Create(ctx context.Context, cow models.Cow) error
	Get(ctx context.Context, id string) (*models.Cow, error)
	List(ctx context.Context) ([]models.Cow, error)
	Count(ctx context.Context) (int, error)
}

// CowRepo is the SQLite-backed CowRepository.
type CowRepo struct{ *Repo }

func NewCowRepo(db *sql.DB) *CowRepo { return &CowRepo{NewRepo(db)} }

// Create inserts a new cow. A primary-key collision maps to ErrConflict.
func (r *CowRepo) Create(ctx context.Context, cow models.Cow) error {
	q := r.SQ.Insert("cows").
		Columns("id", "name", "birthdate").
		Values(cow.ID, cow.Name, cow.Birthdate)
	sqlStr, args, _ := q.ToSql()

	if _, err := r.DB.ExecContext(ctx, sqlStr, args...); err != nil {
		if isConstraintErr(err) {
			return fmt.Errorf("cow %s: %w", cow.ID, models.ErrConflict)
		}
		return fmt.Errorf("insert cow %s: %w", cow.ID, err)
	}
	return nil
}

// Get returns the cow with the given id, or ErrNotFound.
func (r *CowRepo) Get(ctx context.Context, id string) (*models.Cow, error) {
	q := r.SQ.Select("id", "name", "birthdate").From("cows").Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()

	var cow models.Cow
	err := r.DB.QueryRowContext(ctx, sqlStr, args...).Scan(&cow.ID, &cow.Name, &cow.Birthdate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("cow %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query cow %s: %w", id, err)
	}
	return &cow, nil
}

// List returns all cows ordered by id.
func (r *CowRepo) List(ctx context.Context) ([]models.Cow, error) {
	q := r.SQ.Select("id", "name", "birthdate").From("cows").OrderBy("id")
	sqlStr, args, _ := q.ToSql()

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list cows: %w", err)
	}
	defer rows.Close()

	var out []models.Cow
	for rows.Next() {
		var cow models.Cow
		if err := rows.Scan(&cow.ID, &cow.Name, &cow.Birthdate); err != nil {
			return nil, fmt.Errorf("scan cow: %w", err)
		}
		out = append(out, cow)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cows: %w", err)
	}
	return out, nil
}

// Count returns the number of registered cows.
func (r *CowRepo) Count(ctx context.Context) (int, error) {
	q := r.SQ.Select("COUNT(*)").From("cows")
	sqlStr, args, _ := q.ToSql()

	var n int
	if err := r.DB.QueryRowContext(ctx, sqlStr, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cows: %w", err)
	}
	return n, nil
}

// isConstraintErr reports whether err is a SQLite constraint violation
// (duplicate primary key, broken foreign key).
func isConstraintErr(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}
