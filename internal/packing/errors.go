package packing

import "errors"

var (
	// ErrInvalidItem is returned when an item violates the input contract.
	ErrInvalidItem = errors.New("items need an id, positive dimensions and a positive quantity")
	// ErrInvalidContainer is returned when a container dimension is not a finite number.
	ErrInvalidContainer = errors.New("container dimensions must be finite numbers")
	// ErrTooManyUnits is returned when the expanded unit count exceeds the configured cap.
	ErrTooManyUnits = errors.New("too many units to pack in one request")
)
