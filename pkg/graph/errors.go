package graph

import (
	"errors"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
)

// ErrNotFound is returned by single-entity reads when no node matches.
var ErrNotFound = errors.New("not found")

// constraintViolationCode is the Neo4j status code raised when a write breaks
// a uniqueness constraint.
const constraintViolationCode = "Neo.ClientError.Schema.ConstraintValidationFailed"

// UniquenessConflictError reports a write that violated a uniqueness
// constraint (company_id or company_name). The whole batch statement is
// rolled back; nothing partially commits.
type UniquenessConflictError struct {
	Cause error
}

func (e *UniquenessConflictError) Error() string {
	return fmt.Sprintf("uniqueness conflict: %v", e.Cause)
}

func (e *UniquenessConflictError) Unwrap() error {
	return e.Cause
}

// IsUniquenessConflict reports whether err is (or wraps) a uniqueness
// constraint violation.
func IsUniquenessConflict(err error) bool {
	var conflict *UniquenessConflictError
	if errors.As(err, &conflict) {
		return true
	}
	var neoErr *db.Neo4jError
	return errors.As(err, &neoErr) && neoErr.Code == constraintViolationCode
}

// classifyWriteError wraps constraint violations in UniquenessConflictError
// so callers can skip/report instead of treating them as generic failures.
func classifyWriteError(err error) error {
	if err == nil {
		return nil
	}
	var neoErr *db.Neo4jError
	if errors.As(err, &neoErr) && neoErr.Code == constraintViolationCode {
		return &UniquenessConflictError{Cause: err}
	}
	return err
}
