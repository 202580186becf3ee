package graph

import (
	"errors"
	"fmt"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
	"github.com/stretchr/testify/assert"
)

func TestClassifyWriteError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, classifyWriteError(nil))
	})

	t.Run("constraint violation becomes UniquenessConflictError", func(t *testing.T) {
		cause := &db.Neo4jError{
			Code: "Neo.ClientError.Schema.ConstraintValidationFailed",
			Msg:  "node already exists",
		}

		err := classifyWriteError(cause)

		var conflict *UniquenessConflictError
		assert.ErrorAs(t, err, &conflict)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("other neo4j errors pass through", func(t *testing.T) {
		cause := &db.Neo4jError{
			Code: "Neo.TransientError.Transaction.DeadlockDetected",
			Msg:  "deadlock",
		}

		err := classifyWriteError(cause)

		var conflict *UniquenessConflictError
		assert.False(t, errors.As(err, &conflict))
		assert.Equal(t, cause, err)
	})

	t.Run("non-neo4j errors pass through", func(t *testing.T) {
		cause := errors.New("connection refused")
		assert.Equal(t, cause, classifyWriteError(cause))
	})
}

func TestIsUniquenessConflict(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil",
			err:      nil,
			expected: false,
		},
		{
			name:     "wrapped conflict",
			err:      fmt.Errorf("bulk create: %w", &UniquenessConflictError{Cause: errors.New("dup")}),
			expected: true,
		},
		{
			name:     "raw driver constraint error",
			err:      &db.Neo4jError{Code: "Neo.ClientError.Schema.ConstraintValidationFailed"},
			expected: true,
		},
		{
			name:     "unrelated driver error",
			err:      &db.Neo4jError{Code: "Neo.ClientError.Statement.SyntaxError"},
			expected: false,
		},
		{
			name:     "plain error",
			err:      errors.New("boom"),
			expected: false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, IsUniquenessConflict(test.err))
		})
	}
}
