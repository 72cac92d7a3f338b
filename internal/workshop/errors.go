package workshop

import "errors"

var (
	// ErrInvalidProduct indicates an order without a product description.
	ErrInvalidProduct = errors.New("workshop: product description is required")

	// ErrMissingPatient indicates an order without a patient reference.
	ErrMissingPatient = errors.New("workshop: patient reference is required")

	// ErrInvalidStatus indicates a status outside the pipeline enumeration.
	ErrInvalidStatus = errors.New("workshop: invalid order status")

	// ErrOrderNotFound indicates the requested work order does not exist.
	ErrOrderNotFound = errors.New("workshop: order not found")
)
