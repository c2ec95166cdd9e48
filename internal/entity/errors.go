package domain

import (
	"errors"
	"fmt"
)

// Validation failures: the request was wrong, the store is untouched.
var (
	ErrEmptyOrder      = errors.New("order has no line items")
	ErrUnknownCustomer = errors.New("unknown customer")
	ErrOrderNotFound   = errors.New("order not found")
	ErrInvalidPrice    = errors.New("price must be positive")
)

// Infrastructure failures: the request may have been fine, the store was
// not. Callers may retry ErrTxConflict; the processor never does.
var (
	ErrTxConflict       = errors.New("transaction conflict")
	ErrStoreUnavailable = errors.New("store unavailable")
)

type UnknownBookError struct {
	ISBN string
}

func (e *UnknownBookError) Error() string {
	return fmt.Sprintf("unknown book %s", e.ISBN)
}

type InvalidQuantityError struct {
	ISBN string
	Qty  int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %d for book %s", e.Qty, e.ISBN)
}

type DuplicateLineItemError struct {
	ISBN string
}

func (e *DuplicateLineItemError) Error() string {
	return fmt.Sprintf("book %s appears more than once in the order", e.ISBN)
}

type InsufficientStockError struct {
	ISBN      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for book %s: available %d, requested %d",
		e.ISBN, e.Available, e.Requested)
}
