package appointments

import "errors"

var (
	// ErrMissingPatient indicates a booking without a patient reference.
	ErrMissingPatient = errors.New("appointments: patient reference is required")

	// ErrInvalidDate indicates a date outside the "YYYY-MM-DD" form.
	ErrInvalidDate = errors.New("appointments: invalid date")

	// ErrInvalidTime indicates an unparseable time of day.
	ErrInvalidTime = errors.New("appointments: invalid time")

	// ErrInvalidType indicates an unknown appointment type.
	ErrInvalidType = errors.New("appointments: invalid type")

	// ErrAppointmentNotFound indicates the requested slot does not exist.
	ErrAppointmentNotFound = errors.New("appointments: appointment not found")
)
