package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/surrealdb/surrealdb.go"
)

func TestWrapQueryError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{
			name:     "nil error",
			err:      nil,
			sentinel: nil,
		},
		{
			name:     "unique index violation",
			err:      &surrealdb.QueryError{Message: "Database index `message_session_index` already contains ['sess-1', 0]"},
			sentinel: ErrDuplicateIndex,
		},
		{
			name:     "record already exists",
			err:      &surrealdb.QueryError{Message: "The record `context_entry:abc` already exists"},
			sentinel: ErrDuplicateIndex,
		},
		{
			name:     "transaction conflict",
			err:      &surrealdb.QueryError{Message: "Transaction conflict, please retry"},
			sentinel: ErrTransactionConflict,
		},
		{
			name:     "wrapped query error",
			err:      fmt.Errorf("append message: %w", &surrealdb.QueryError{Message: "already contains ['sess-2', 3]"}),
			sentinel: ErrDuplicateIndex,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := wrapQueryError(tt.err)
			if tt.sentinel == nil {
				assert.NoError(t, wrapped)
				return
			}
			assert.ErrorIs(t, wrapped, tt.sentinel)
			// Original message survives wrapping for log context
			var queryErr *surrealdb.QueryError
			if errors.As(tt.err, &queryErr) {
				assert.Contains(t, wrapped.Error(), queryErr.Message)
			}
		})
	}
}

func TestWrapQueryErrorPassthrough(t *testing.T) {
	// Non-query errors and unrecognized query errors pass through unchanged
	plain := errors.New("connection reset")
	assert.Equal(t, plain, wrapQueryError(plain))

	other := &surrealdb.QueryError{Message: "Parse error: unexpected token"}
	wrapped := wrapQueryError(other)
	assert.NotErrorIs(t, wrapped, ErrDuplicateIndex)
	assert.NotErrorIs(t, wrapped, ErrTransactionConflict)
}
