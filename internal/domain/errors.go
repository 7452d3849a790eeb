package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrStockExceeded is returned when an increment would push a line
	// past the product's available quantity. The basket is unchanged.
	ErrStockExceeded = errors.New("not enough stock available")

	// ErrEmptyBasket is returned when checkout is initiated on an empty basket.
	ErrEmptyBasket = errors.New("basket is empty, nothing to checkout")
)

// ValidationError reports the first missing billing field. It blocks
// order submission and is surfaced inline to the user.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// NetworkError wraps a failed remote call (catalog, order, payment).
// It is surfaced as a dismissible alert; retrying is up to the user.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
