package inventory

import "errors"

var (
	// ErrInvalidName indicates an item without a name.
	ErrInvalidName = errors.New("inventory: item name is required")

	// ErrInvalidCategory indicates a category outside the closed set.
	ErrInvalidCategory = errors.New("inventory: invalid category")

	// ErrNegativeQuantity indicates a negative quantity or minimum.
	ErrNegativeQuantity = errors.New("inventory: quantity cannot be negative")

	// ErrItemNotFound indicates the requested item does not exist.
	ErrItemNotFound = errors.New("inventory: item not found")
)
