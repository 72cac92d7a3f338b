package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// financeDB defines the database interface needed by Repository.
type financeDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository stores financial records in Postgres.
type Repository struct {
	db financeDB
}

// NewRepository creates a finance repository over a connection pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("finance: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithDB allows injecting a mock database for testing.
func NewRepositoryWithDB(db financeDB) *Repository {
	return &Repository{db: db}
}

// Insert registers a financial movement.
func (r *Repository) Insert(ctx context.Context, req *CreateRecordRequest) (*Record, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	occurredOn, _ := time.Parse("2006-01-02", req.OccurredOn)
	rec := &Record{
		ID:          uuid.NewString(),
		Description: req.Description,
		Type:        req.Type,
		AmountCents: req.AmountCents,
		Category:    req.Category,
		OccurredOn:  occurredOn,
		CreatedAt:   time.Now().UTC(),
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO finance_records (id, description, type, amount_cents, category, occurred_on, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.Description, string(rec.Type), rec.AmountCents, rec.Category, rec.OccurredOn, rec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("finance: insert record: %w", err)
	}
	return rec, nil
}

// List returns movements ordered most recent first, optionally filtered
// to a period.
func (r *Repository) List(ctx context.Context, start, end *time.Time) ([]Record, error) {
	query := `SELECT id, description, type, amount_cents, category, occurred_on, created_at
		FROM finance_records`
	var args []any
	if start != nil && end != nil {
		query += ` WHERE occurred_on >= $1 AND occurred_on < $2`
		args = append(args, *start, *end)
	}
	query += ` ORDER BY occurred_on DESC, created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("finance: list records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var recType string
		if err := rows.Scan(&rec.ID, &rec.Description, &recType, &rec.AmountCents, &rec.Category, &rec.OccurredOn, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("finance: scan record: %w", err)
		}
		rec.Type = RecordType(recType)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("finance: iterate records: %w", err)
	}
	return out, nil
}

// GetSummary aggregates income, expense and per-category totals.
// Optional start/end times for filtering. If nil, returns all-time totals.
func (r *Repository) GetSummary(ctx context.Context, start, end *time.Time) (*Summary, error) {
	summary := &Summary{ByCategory: make(map[string]int64)}

	var timeFilter string
	var args []any
	if start != nil && end != nil {
		timeFilter = ` WHERE occurred_on >= $1 AND occurred_on < $2`
		args = append(args, *start, *end)
		summary.PeriodStart = start.Format(time.RFC3339)
		summary.PeriodEnd = end.Format(time.RFC3339)
	} else {
		summary.PeriodStart = "all-time"
		summary.PeriodEnd = "now"
	}

	totalsQuery := `SELECT
			COALESCE(SUM(CASE WHEN type = 'income' THEN amount_cents ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN type = 'expense' THEN amount_cents ELSE 0 END), 0)
		FROM finance_records` + timeFilter
	if err := r.db.QueryRow(ctx, totalsQuery, args...).Scan(&summary.IncomeCents, &summary.ExpenseCents); err != nil {
		return nil, fmt.Errorf("finance: sum totals: %w", err)
	}
	summary.NetCents = summary.IncomeCents - summary.ExpenseCents

	categoryQuery := `SELECT category, COALESCE(SUM(amount_cents), 0)
		FROM finance_records` + timeFilter + ` GROUP BY category`

	rows, err := r.db.Query(ctx, categoryQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("finance: sum by category: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category string
		var total int64
		if err := rows.Scan(&category, &total); err != nil {
			return nil, fmt.Errorf("finance: scan category: %w", err)
		}
		summary.ByCategory[category] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("finance: iterate categories: %w", err)
	}
	return summary, nil
}
