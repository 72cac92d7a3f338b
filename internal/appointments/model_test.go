package appointments

import (
	"context"
	"testing"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{"08:00", TimeOfDay{8, 0}, false},
		{"8:05", TimeOfDay{8, 5}, false},
		{"23:59", TimeOfDay{23, 59}, false},
		{"14:30:15", TimeOfDay{14, 30}, false},
		{"24:00", TimeOfDay{}, true},
		{"12:60", TimeOfDay{}, true},
		{"noon", TimeOfDay{}, true},
		{"", TimeOfDay{}, true},
	}
	for _, tc := range cases {
		got, err := ParseTimeOfDay(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseTimeOfDay(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimeOfDay(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseTimeOfDay(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSortByTime(t *testing.T) {
	agenda := []Appointment{
		{ID: "a1", Time: "14:00"},
		{ID: "a2", Time: "08:00"},
		{ID: "a3", Time: "10:30"},
	}
	SortByTime(agenda)

	want := []string{"08:00", "10:30", "14:00"}
	for i, w := range want {
		if agenda[i].Time != w {
			t.Fatalf("position %d: got %s, want %s", i, agenda[i].Time, w)
		}
	}
}

func TestSortByTimeUnpaddedInput(t *testing.T) {
	// Lexicographic ordering would put "9:00" after "10:30".
	agenda := []Appointment{
		{ID: "a1", Time: "10:30"},
		{ID: "a2", Time: "9:00"},
	}
	SortByTime(agenda)

	if agenda[0].Time != "9:00" {
		t.Fatalf("unpadded time sorted wrong: %+v", agenda)
	}
}

func TestSortByTimeUnparseableSinks(t *testing.T) {
	agenda := []Appointment{
		{ID: "a1", Time: "bogus"},
		{ID: "a2", Time: "08:00"},
	}
	SortByTime(agenda)

	if agenda[0].ID != "a2" || agenda[1].ID != "a1" {
		t.Fatalf("unparseable entry must sink to the end: %+v", agenda)
	}
}

func TestCreateAppointmentRequestValidate(t *testing.T) {
	req := &CreateAppointmentRequest{PatientName: "Maria", Date: "2026-09-10", Time: "8:30"}
	if err := req.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Time != "08:30" {
		t.Errorf("time must normalize to HH:MM, got %q", req.Time)
	}
	if req.Type != TypePhysio {
		t.Errorf("empty type must default to physio, got %s", req.Type)
	}

	if err := (&CreateAppointmentRequest{Date: "2026-09-10", Time: "08:00"}).Validate(); err != ErrMissingPatient {
		t.Errorf("expected ErrMissingPatient, got %v", err)
	}
	if err := (&CreateAppointmentRequest{PatientName: "x", Date: "10/09/2026", Time: "08:00"}).Validate(); err != ErrInvalidDate {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
	if err := (&CreateAppointmentRequest{PatientName: "x", Date: "2026-09-10", Time: "25:00"}).Validate(); err != ErrInvalidTime {
		t.Errorf("expected ErrInvalidTime, got %v", err)
	}
}

func TestDoubleBookingAllowed(t *testing.T) {
	repo := NewInMemoryRepository()
	req1 := &CreateAppointmentRequest{PatientName: "Maria", Date: "2026-09-10", Time: "08:00"}
	req2 := &CreateAppointmentRequest{PatientName: "João", Date: "2026-09-10", Time: "08:00"}

	if _, err := repo.Create(context.Background(), req1); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if _, err := repo.Create(context.Background(), req2); err != nil {
		t.Fatalf("same slot must be bookable twice: %v", err)
	}
}
