package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicate(t *testing.T) {
	assert.False(t, IsDuplicate(nil))
	assert.False(t, IsDuplicate(errors.New("connection refused")))

	assert.True(t, IsDuplicate(&pq.Error{Code: "23505"}))
	assert.False(t, IsDuplicate(&pq.Error{Code: "23503"}))

	// Wrapped postgres errors still match
	wrapped := fmt.Errorf("create company: %w", &pq.Error{Code: "23505"})
	assert.True(t, IsDuplicate(wrapped))

	assert.True(t, IsDuplicate(errors.New("UNIQUE constraint failed: companies.name")))
	assert.True(t, IsDuplicate(errors.New(`duplicate key value violates unique constraint "idx_companies_name"`)))
}

func TestValidEntryKind(t *testing.T) {
	for _, kind := range []string{EntryCreditSale, EntryCashSale, EntryPayment, EntryReturn, EntryDebit} {
		assert.True(t, ValidEntryKind(kind), kind)
	}
	assert.False(t, ValidEntryKind("GIFT"))
	assert.False(t, ValidEntryKind("credit_sale"))
	assert.False(t, ValidEntryKind(""))
}
