// Package apperr defines the domain error kinds surfaced by the core
// services. Services return these sentinels (possibly wrapped with detail);
// the handler layer maps each kind to a transport status. Internal storage
// errors never leak to clients unclassified.
package apperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrInvalidQuantity: quantity missing, non-numeric, or not > 0.
	ErrInvalidQuantity = errors.New("quantity must be a positive number")
	// ErrNotFound: the referenced product or SKU does not exist, or the
	// SKU does not belong to the given product.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientStock: an OUT mutation exceeds the current stock.
	ErrInsufficientStock = errors.New("not enough stock available")
	// ErrOptionNotFound: an option string does not resolve to a
	// sub-variant of the product during composition.
	ErrOptionNotFound = errors.New("option not found for product")
	// ErrMalformedInput: the request payload fails structural decoding.
	ErrMalformedInput = errors.New("malformed request payload")
	// ErrConstraintConflict: a store-level uniqueness violation surfaced a
	// race not otherwise caught (duplicate SKU code or product identifier).
	ErrConstraintConflict = errors.New("conflicting concurrent write")
)

const pgUniqueViolation = "23505"

// FromStore classifies a storage-layer error into a domain kind. Unique
// violations become ErrConstraintConflict, missing rows ErrNotFound;
// anything else passes through unchanged.
func FromStore(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrConstraintConflict
	}
	return err
}
