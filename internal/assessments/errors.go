package assessments

import "errors"

var (
	// ErrMissingPatientID indicates a request without a patient reference.
	ErrMissingPatientID = errors.New("assessments: patient id is required")

	// ErrAlreadyFinished indicates a mutation against a finalized record.
	ErrAlreadyFinished = errors.New("assessments: assessment already finalized")

	// ErrInvalidEVA indicates an EVA pain score outside 0-10.
	ErrInvalidEVA = errors.New("assessments: eva pain must be between 0 and 10")
)
