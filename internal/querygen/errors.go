package querygen

import (
	"errors"
	"fmt"
)

// RenderError reports an expression the generator cannot render.
//
// Render errors are deterministic for a given tree and dialect; retrying
// does not help.
type RenderError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message describes the failure.
	Message string

	// Clause is the clause being rendered.
	Clause Clause

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes render errors.
type ErrorCode string

const (
	// ErrCodeUnsupportedLiteral indicates a literal value with no SQL text
	// converter.
	ErrCodeUnsupportedLiteral ErrorCode = "UNSUPPORTED_LITERAL"

	// ErrCodeInvalidLiteral indicates a numeric literal whose text does not
	// parse as its declared type.
	ErrCodeInvalidLiteral ErrorCode = "INVALID_LITERAL"

	// ErrCodeFunctionFailed indicates a registered function refused its
	// arguments.
	ErrCodeFunctionFailed ErrorCode = "FUNCTION_FAILED"
)

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v (%s clause)", e.Code, e.Message, e.Err, e.Clause)
	}
	return fmt.Sprintf("%s: %s (%s clause)", e.Code, e.Message, e.Clause)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// IsRenderError returns true if err is or wraps a RenderError.
func IsRenderError(err error) bool {
	var re *RenderError
	return errors.As(err, &re)
}

// ErrorCodeOf returns the code of the RenderError in err's chain, or "".
func ErrorCodeOf(err error) ErrorCode {
	var re *RenderError
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}
