package indicators

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func TestRepositoryInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectExec("INSERT INTO indicator_entries").
		WithArgs(sqlmock.AnyArg(), "attendance_rate", 0.92, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	entry, err := repo.Insert(context.Background(), "attendance_rate", 0.92)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if entry.ID == "" {
		t.Error("expected a generated id")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestRepositoryInsertRequiresName(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewRepository(db)
	if _, err := repo.Insert(context.Background(), "", 1); !errors.Is(err, ErrMissingName) {
		t.Errorf("expected ErrMissingName, got %v", err)
	}
}

func TestRepositoryLatest(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT DISTINCT ON \\(name\\)").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "value", "recorded_at"}).
			AddRow("k1", "attendance_rate", 0.92, now).
			AddRow("k2", "avg_turnaround_days", 11.5, now))

	entries, err := repo.Latest(context.Background())
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1].Value != 11.5 {
		t.Errorf("unexpected entries: %+v", entries)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestRepositorySeriesDefaultsLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT id, name, value, recorded_at").
		WithArgs("attendance_rate", 50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "value", "recorded_at"}).
			AddRow("k1", "attendance_rate", 0.92, now))

	entries, err := repo.Series(context.Background(), "attendance_rate", 0)
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
