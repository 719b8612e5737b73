package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the referenced location or item does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is a transient concurrency conflict; callers may retry.
	ErrConflict = errors.New("concurrency conflict")

	// ErrInvalidQuantity rejects non-positive quantities on credit/debit
	// and negative absolute values on adjust.
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// InsufficientStockError is returned by debit when the requested quantity
// exceeds current stock. Available carries the committed balance observed
// by the failing transaction so the caller can show it to staff.
type InsufficientStockError struct {
	LocationID string
	ItemID     string
	Requested  float64
	Available  float64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %s at location %s: requested %g, available %g",
		e.ItemID, e.LocationID, e.Requested, e.Available)
}

// InvalidTransferStateError covers responding to a non-pending transfer as
// well as malformed transfer requests (same source and destination,
// non-positive quantity).
type InvalidTransferStateError struct {
	TransferID string
	Reason     string
}

func (e *InvalidTransferStateError) Error() string {
	if e.TransferID == "" {
		return "invalid transfer: " + e.Reason
	}
	return fmt.Sprintf("invalid transfer state for %s: %s", e.TransferID, e.Reason)
}

func IsInsufficientStock(err error) bool {
	var target *InsufficientStockError
	return errors.As(err, &target)
}

func IsInvalidTransferState(err error) bool {
	var target *InvalidTransferStateError
	return errors.As(err, &target)
}
