package repository

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidState      = errors.New("order cannot be canceled")
	ErrUnsupported       = errors.New("operation not supported by this backend")
	ErrInsufficientStock = errors.New("insufficient stock")

	ErrInvalidQuantity      = errors.New("quantity must be a positive integer")
	ErrInvalidPaymentStatus = errors.New("payment status must be Paid or Unpaid")
)

// Specific NotFound errors; all of them match ErrNotFound with errors.Is.
var (
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)
	ErrOrderNotFound   = fmt.Errorf("order %w", ErrNotFound)
)

// IsDomainError reports whether err is one of the errors above, as opposed to a storage
// failure.
func IsDomainError(err error) bool {
	for _, target := range []error{
		ErrNotFound,
		ErrEmptyCart,
		ErrInvalidState,
		ErrUnsupported,
		ErrInsufficientStock,
		ErrInvalidQuantity,
		ErrInvalidPaymentStatus,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
