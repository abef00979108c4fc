package apperr

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestFromStoreNil(t *testing.T) {
	assert.NoError(t, FromStore(nil))
}

func TestFromStoreRecordNotFound(t *testing.T) {
	assert.ErrorIs(t, FromStore(gorm.ErrRecordNotFound), ErrNotFound)

	wrapped := fmt.Errorf("loading sku: %w", gorm.ErrRecordNotFound)
	assert.ErrorIs(t, FromStore(wrapped), ErrNotFound)
}

func TestFromStoreUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "idx_product_skus_sku_code"}
	assert.ErrorIs(t, FromStore(pgErr), ErrConstraintConflict)
}

func TestFromStoreOtherPgErrorPassesThrough(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23503"} // foreign key violation
	assert.Equal(t, error(pgErr), FromStore(pgErr))
}

func TestFromStoreDomainErrorsUntouched(t *testing.T) {
	// Already-classified errors pass through so wrapping survives
	assert.ErrorIs(t, FromStore(ErrInsufficientStock), ErrInsufficientStock)

	wrapped := fmt.Errorf("%w: %q", ErrOptionNotFound, "XXL")
	assert.ErrorIs(t, FromStore(wrapped), ErrOptionNotFound)
}
