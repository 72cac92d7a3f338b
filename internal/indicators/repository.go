package indicators

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Entry is one recorded value of a clinical or operational KPI, such as
// monthly attendance rate or average workshop turnaround days.
type Entry struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Value      float64   `json:"value"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Repository stores KPI entries in Postgres via database/sql.
type Repository struct {
	db *sql.DB
}

// NewRepository creates an indicator repository.
func NewRepository(db *sql.DB) *Repository {
	if db == nil {
		panic("indicators: db required")
	}
	return &Repository{db: db}
}

// Insert records a KPI value.
func (r *Repository) Insert(ctx context.Context, name string, value float64) (*Entry, error) {
	if name == "" {
		return nil, ErrMissingName
	}

	e := &Entry{
		ID:         uuid.NewString(),
		Name:       name,
		Value:      value,
		RecordedAt: time.Now().UTC(),
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO indicator_entries (id, name, value, recorded_at) VALUES ($1, $2, $3, $4)`,
		e.ID, e.Name, e.Value, e.RecordedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("indicators: insert entry: %w", err)
	}
	return e, nil
}

// Latest returns the most recent value of every indicator.
func (r *Repository) Latest(ctx context.Context) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT ON (name) id, name, value, recorded_at
		 FROM indicator_entries
		 ORDER BY name, recorded_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("indicators: query latest: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Name, &e.Value, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("indicators: scan entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("indicators: iterate entries: %w", err)
	}
	return out, nil
}

// Series returns the history of one indicator, most recent first.
func (r *Repository) Series(ctx context.Context, name string, limit int) ([]Entry, error) {
	if name == "" {
		return nil, ErrMissingName
	}
	if limit < 1 || limit > 500 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, value, recorded_at
		 FROM indicator_entries
		 WHERE name = $1
		 ORDER BY recorded_at DESC
		 LIMIT $2`,
		name, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("indicators: query series: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Name, &e.Value, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("indicators: scan entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("indicators: iterate entries: %w", err)
	}
	return out, nil
}
