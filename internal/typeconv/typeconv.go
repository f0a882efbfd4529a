// Package typeconv classifies runtime values by kind and converts them to
// SQL literal text.
//
// Kinds decide how a value is inlined:
//   - KindNumeric and KindBoolean render as bare tokens
//   - KindCharacter renders quoted (strings, uuids, times)
//
// Values of any other type have no converter. Converting them fails with
// *UnsupportedError rather than falling back to fmt formatting.
package typeconv

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// Kind groups value types by how they are written as SQL text.
type Kind int

const (
	KindUnsupported Kind = iota
	KindNumeric
	KindBoolean
	KindCharacter
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindBoolean:
		return "boolean"
	case KindCharacter:
		return "character"
	default:
		return "unsupported"
	}
}

// Layouts used for temporal values.
const (
	DateLayout      = "2006-01-02"
	TimeLayout      = "15:04:05"
	TimestampLayout = "2006-01-02 15:04:05.999999999"
)

var (
	bigIntType  = reflect.TypeOf((*big.Int)(nil))
	decimalType = reflect.TypeOf(decimal.Decimal{})
	uuidType    = reflect.TypeOf(uuid.UUID{})
	timeType    = reflect.TypeOf(time.Time{})
)

// UnsupportedError reports a value that has no SQL text converter.
type UnsupportedError struct {
	Value any
	Type  string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("cannot render '%v' of type '%s' as SQL text", e.Value, e.Type)
}

// IsUnsupported returns true if err is or wraps an UnsupportedError.
func IsUnsupported(err error) bool {
	var ue *UnsupportedError
	return errors.As(err, &ue)
}

// TypeName returns the Go type name of v, or "unknown" for nil.
func TypeName(v any) string {
	if v == nil {
		return "unknown"
	}
	return reflect.TypeOf(v).String()
}

// Classify returns the kind of v. Named types are classified by their
// underlying kind, so `type Status string` is KindCharacter.
func Classify(v any) Kind {
	if v == nil {
		return KindUnsupported
	}
	t := reflect.TypeOf(v)
	switch t {
	case bigIntType, decimalType:
		return KindNumeric
	case uuidType, timeType:
		return KindCharacter
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return KindNumeric
	case reflect.Bool:
		return KindBoolean
	case reflect.String:
		return KindCharacter
	default:
		return KindUnsupported
	}
}

func IsNumeric(v any) bool   { return Classify(v) == KindNumeric }
func IsBoolean(v any) bool   { return Classify(v) == KindBoolean }
func IsCharacter(v any) bool { return Classify(v) == KindCharacter }

// ToString converts v to its unquoted SQL text.
//
// Strings are NFC-normalized so canonically equivalent inputs produce the
// same text.
func ToString(v any) (string, error) {
	if v == nil {
		return "", &UnsupportedError{Value: v, Type: TypeName(v)}
	}
	switch val := v.(type) {
	case *big.Int:
		if val == nil {
			return "", &UnsupportedError{Value: v, Type: TypeName(v)}
		}
		return val.String(), nil
	case decimal.Decimal:
		return val.String(), nil
	case uuid.UUID:
		return val.String(), nil
	case time.Time:
		return val.Format(TimestampLayout), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", &UnsupportedError{Value: v, Type: TypeName(v)}
		}
		bits := 64
		if rv.Kind() == reflect.Float32 {
			bits = 32
		}
		return strconv.FormatFloat(f, 'g', -1, bits), nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), nil
	case reflect.String:
		return norm.NFC.String(rv.String()), nil
	default:
		return "", &UnsupportedError{Value: v, Type: TypeName(v)}
	}
}

// Inline converts v to SQL literal text, quoting character kinds.
func Inline(v any) (string, error) {
	s, err := ToString(v)
	if err != nil {
		return "", err
	}
	if IsCharacter(v) {
		return Quote(s), nil
	}
	return s, nil
}

// Quote wraps s in single quotes, doubling embedded quotes.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
