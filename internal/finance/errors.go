package finance

import "errors"

var (
	// ErrInvalidDescription indicates a movement without a description.
	ErrInvalidDescription = errors.New("finance: description is required")

	// ErrInvalidType indicates a type other than income or expense.
	ErrInvalidType = errors.New("finance: type must be income or expense")

	// ErrInvalidAmount indicates a non-positive amount.
	ErrInvalidAmount = errors.New("finance: amount must be positive")

	// ErrInvalidDate indicates a date outside the "YYYY-MM-DD" form.
	ErrInvalidDate = errors.New("finance: invalid date")
)
