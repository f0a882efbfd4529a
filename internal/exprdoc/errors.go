package exprdoc

import (
	"errors"
	"fmt"
)

// DecodeError reports a document that cannot be turned into an
// expression tree.
type DecodeError struct {
	Code     string
	Message  string
	Location string // e.g. "$.and[1].eq", empty when unknown
}

func (e *DecodeError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("%s: %s (at %s)", e.Code, e.Message, e.Location)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes.
const (
	ErrCodeFormat       = "D001" // unreadable YAML or CUE
	ErrCodeSchema       = "D002" // document fails the schema
	ErrCodeMissingField = "D003" // required field absent
	ErrCodeInvalidNode  = "D004" // malformed expression node
)

// IsDecodeError returns true if err is or wraps a DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
