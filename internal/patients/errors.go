package patients

import "errors"

var (
	// ErrInvalidName is returned when the name is missing
	ErrInvalidName = errors.New("patients: name is required")

	// ErrMissingContact is returned when both email and phone are missing
	ErrMissingContact = errors.New("patients: either email or phone is required")

	// ErrEmptyNote is returned when a clinical note has no text
	ErrEmptyNote = errors.New("patients: note text is required")

	// ErrPatientNotFound is returned when a patient is not found
	ErrPatientNotFound = errors.New("patients: patient not found")
)
