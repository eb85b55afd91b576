package models

import (
	"errors"
	"fmt"
	"net/http"
)

// Error taxonomy surfaced by the core operations. Handlers translate these
// to HTTP codes with HTTPStatus; nothing here is retried internally except
// ErrConflict, which order creation retries once.
var (
	ErrValidation        = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrIntegrity         = errors.New("data integrity violation")
	ErrConflict          = errors.New("conflicting concurrent update")
	ErrNotAuthorized     = errors.New("not authorized")
	ErrAlreadyPaid       = errors.New("order is already paid")
)

// InsufficientStockError reports a stock check failure together with the
// quantity that is actually available, so the caller can act on it.
type InsufficientStockError struct {
	VariantID uint
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for variant %d: requested %d, only %d available",
		e.VariantID, e.Requested, e.Available)
}

// AmbiguousVariantError reports an attribute query that matched more than
// one variant and none of the matches is the product's default.
type AmbiguousVariantError struct {
	ProductID uint
	Matched   int
}

func (e *AmbiguousVariantError) Error() string {
	return fmt.Sprintf("attributes match %d variants of product %d and none is the default",
		e.Matched, e.ProductID)
}

func (e *AmbiguousVariantError) Unwrap() error { return ErrIntegrity }

// HTTPStatus maps a core error to the status code handlers respond with.
func HTTPStatus(err error) int {
	var stockErr *InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		return http.StatusBadRequest
	case errors.Is(err, ErrValidation), errors.Is(err, ErrAlreadyPaid):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotAuthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrIntegrity):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
