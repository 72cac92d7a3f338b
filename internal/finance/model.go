package finance

import (
	"strings"
	"time"
)

// RecordType partitions financial records into income and expense.
type RecordType string

const (
	TypeIncome  RecordType = "income"
	TypeExpense RecordType = "expense"
)

// Valid reports whether t is a known record type.
func (t RecordType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Record is one financial movement of the clinic.
type Record struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Type        RecordType `json:"type"`
	AmountCents int64      `json:"amount_cents"`
	Category    string     `json:"category"`
	OccurredOn  time.Time  `json:"occurred_on"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Summary aggregates movements over a period.
type Summary struct {
	IncomeCents  int64            `json:"income_cents"`
	ExpenseCents int64            `json:"expense_cents"`
	NetCents     int64            `json:"net_cents"`
	ByCategory   map[string]int64 `json:"by_category"`
	PeriodStart  string           `json:"period_start"`
	PeriodEnd    string           `json:"period_end"`
}

// CreateRecordRequest is the request body for registering a movement.
type CreateRecordRequest struct {
	Description string     `json:"description"`
	Type        RecordType `json:"type"`
	AmountCents int64      `json:"amount_cents"`
	Category    string     `json:"category"`
	OccurredOn  string     `json:"occurred_on"`
}

// Validate validates the movement request.
func (r *CreateRecordRequest) Validate() error {
	if strings.TrimSpace(r.Description) == "" {
		return ErrInvalidDescription
	}
	if !r.Type.Valid() {
		return ErrInvalidType
	}
	if r.AmountCents <= 0 {
		return ErrInvalidAmount
	}
	if _, err := time.Parse("2006-01-02", r.OccurredOn); err != nil {
		return ErrInvalidDate
	}
	return nil
}
