package expr

import (
	"errors"
	"fmt"
)

// StructuralError reports a malformed tree: a missing required child, an
// empty path or an incomplete case expression.
//
// Structural errors signal a defect in whatever produced the tree. They are
// returned by Validate and raised as panics by traversal, which fails fast
// instead of guessing.
type StructuralError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Location points at the offending node, e.g. "$.children[1].left".
	// Empty when the location is unknown.
	Location string
}

// ErrorCode categorizes structural errors.
type ErrorCode string

const (
	// ErrCodeNilNode indicates a required child is nil.
	ErrCodeNilNode ErrorCode = "NIL_NODE"

	// ErrCodeEmptyPath indicates a path without elements.
	ErrCodeEmptyPath ErrorCode = "EMPTY_PATH"

	// ErrCodeIncompleteCase indicates a case without default or a when
	// clause without condition or result.
	ErrCodeIncompleteCase ErrorCode = "INCOMPLETE_CASE"

	// ErrCodeEmptyList indicates an IN predicate without candidates or a
	// compound predicate without children.
	ErrCodeEmptyList ErrorCode = "EMPTY_LIST"

	// ErrCodeUnknownNode indicates a node type this package does not know.
	ErrCodeUnknownNode ErrorCode = "UNKNOWN_NODE"

	// ErrCodeWrongKind indicates a rewrite returned a node of the wrong kind
	// for its position (e.g. a non-predicate as a compound child).
	ErrCodeWrongKind ErrorCode = "WRONG_KIND"
)

// Error implements the error interface.
func (e *StructuralError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("%s: %s (at %s)", e.Code, e.Message, e.Location)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsStructuralError returns true if err is or wraps a StructuralError.
func IsStructuralError(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}

func structuralf(code ErrorCode, format string, args ...any) *StructuralError {
	return &StructuralError{Code: code, Message: fmt.Sprintf(format, args...)}
}
