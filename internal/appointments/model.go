package appointments

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Type distinguishes clinic sessions from workshop visits.
type Type string

const (
	TypePhysio   Type = "physio"
	TypeWorkshop Type = "workshop"
)

// Valid reports whether t is a known appointment type.
func (t Type) Valid() bool {
	return t == TypePhysio || t == TypeWorkshop
}

// TimeOfDay is a wall-clock time within a day, minute precision.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay accepts "HH:MM" and the free-form variants "H:MM" and
// "HH:MM:SS" (seconds dropped). Agenda ordering compares the parsed
// value, not the string, so unpadded input sorts correctly.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return TimeOfDay{}, fmt.Errorf("appointments: invalid time %q", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("appointments: invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("appointments: invalid minute in %q", s)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// String renders the zero-padded "HH:MM" form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Before reports whether t precedes other within the day.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	if t.Hour != other.Hour {
		return t.Hour < other.Hour
	}
	return t.Minute < other.Minute
}

// Appointment is one agenda slot. Slot uniqueness is intentionally not
// enforced: double-booking the same date and time is allowed.
type Appointment struct {
	ID          string    `json:"id"`
	PatientID   string    `json:"patient_id"`
	PatientName string    `json:"patient_name"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Type        Type      `json:"type"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// SortByTime orders an agenda ascending by time of day. Entries with an
// unparseable time sink to the end in their original relative order.
func SortByTime(list []Appointment) {
	sort.SliceStable(list, func(i, j int) bool {
		ti, erri := ParseTimeOfDay(list[i].Time)
		tj, errj := ParseTimeOfDay(list[j].Time)
		if erri != nil {
			return false
		}
		if errj != nil {
			return true
		}
		return ti.Before(tj)
	})
}

// CreateAppointmentRequest is the request body for booking a slot.
type CreateAppointmentRequest struct {
	PatientID   string `json:"patient_id"`
	PatientName string `json:"patient_name"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Type        Type   `json:"type"`
}

// Validate validates the booking request and normalizes the time to
// zero-padded "HH:MM".
func (r *CreateAppointmentRequest) Validate() error {
	if strings.TrimSpace(r.PatientName) == "" && r.PatientID == "" {
		return ErrMissingPatient
	}
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return ErrInvalidDate
	}
	tod, err := ParseTimeOfDay(r.Time)
	if err != nil {
		return ErrInvalidTime
	}
	r.Time = tod.String()
	if r.Type == "" {
		r.Type = TypePhysio
	}
	if !r.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

// UpdateStatusRequest changes an appointment's status label.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}
