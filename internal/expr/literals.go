package expr

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// NumericType tags a NumericLiteral with the numeric kind it was written
// as.
type NumericType int

const (
	NumericInteger NumericType = iota
	NumericLong
	NumericBigInteger
	NumericFloat
	NumericDouble
	NumericBigDecimal
)

var numericTypeNames = [...]string{
	NumericInteger:    "integer",
	NumericLong:       "long",
	NumericBigInteger: "big_integer",
	NumericFloat:      "float",
	NumericDouble:     "double",
	NumericBigDecimal: "big_decimal",
}

// numericSuffixes are the literal suffixes accepted for each type.
// Matching is case-insensitive.
var numericSuffixes = [...]string{
	NumericInteger:    "",
	NumericLong:       "l",
	NumericBigInteger: "bi",
	NumericFloat:      "f",
	NumericDouble:     "d",
	NumericBigDecimal: "bd",
}

func (t NumericType) String() string {
	if int(t) < 0 || int(t) >= len(numericTypeNames) {
		return fmt.Sprintf("NumericType(%d)", int(t))
	}
	return numericTypeNames[t]
}

// ParseNumericType maps a type name as returned by String back to its
// NumericType.
func ParseNumericType(name string) (NumericType, bool) {
	for i, n := range numericTypeNames {
		if strings.EqualFold(n, name) {
			return NumericType(i), true
		}
	}
	return 0, false
}

// NumericLiteral is a number as written in the query text, tagged with its
// numeric kind.
type NumericLiteral struct {
	Value string
	Type  NumericType
}

func (*NumericLiteral) exprNode() {}

// Text returns the literal without its type suffix.
func (l *NumericLiteral) Text() string {
	v := l.Value
	if int(l.Type) >= 0 && int(l.Type) < len(numericSuffixes) {
		suffix := numericSuffixes[l.Type]
		if suffix != "" && len(v) > len(suffix) && strings.EqualFold(v[len(v)-len(suffix):], suffix) {
			v = v[:len(v)-len(suffix)]
		}
	}
	return v
}

// Number converts the literal into its Go value: int32, int64, *big.Int,
// float32, float64 or decimal.Decimal depending on Type.
func (l *NumericLiteral) Number() (any, error) {
	text := l.Text()
	switch l.Type {
	case NumericInteger:
		n, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("integer literal %q: %w", l.Value, err)
		}
		return int32(n), nil
	case NumericLong:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("long literal %q: %w", l.Value, err)
		}
		return n, nil
	case NumericBigInteger:
		n, ok := new(big.Int).SetString(text, 10)
		if !ok {
			return nil, fmt.Errorf("big integer literal %q: invalid syntax", l.Value)
		}
		return n, nil
	case NumericFloat:
		f, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return nil, fmt.Errorf("float literal %q: %w", l.Value, err)
		}
		return float32(f), nil
	case NumericDouble:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("double literal %q: %w", l.Value, err)
		}
		return f, nil
	case NumericBigDecimal:
		d, err := decimal.NewFromString(text)
		if err != nil {
			return nil, fmt.Errorf("big decimal literal %q: %w", l.Value, err)
		}
		return d, nil
	default:
		return nil, fmt.Errorf("numeric literal %q: unknown numeric type %s", l.Value, l.Type)
	}
}

// BooleanLiteral is TRUE or FALSE.
type BooleanLiteral struct {
	Value bool
}

func (*BooleanLiteral) exprNode() {}

// StringLiteral is a character string literal. Value holds the unquoted
// text.
type StringLiteral struct {
	Value string
}

func (*StringLiteral) exprNode() {}

// DateLiteral is a calendar date. Only the date part of Value is
// significant.
type DateLiteral struct {
	Value time.Time
}

func (*DateLiteral) exprNode() {}

// TimeLiteral is a time of day. Only the clock part of Value is
// significant.
type TimeLiteral struct {
	Value time.Time
}

func (*TimeLiteral) exprNode() {}

// TimestampLiteral is a date and time.
type TimestampLiteral struct {
	Value time.Time
}

func (*TimestampLiteral) exprNode() {}

// EnumLiteral references an enum constant.
//
// Original is the reference as written (e.g. "Status.ACTIVE"). Value is the
// resolved Go value when the producer could resolve it; it may be nil.
type EnumLiteral struct {
	Value    any
	Original string
}

func (*EnumLiteral) exprNode() {}

// EntityLiteral references an entity type by name (e.g. in TYPE(x) = Cat).
// Value is an optional resolved representation.
type EntityLiteral struct {
	Value    any
	Original string
}

func (*EntityLiteral) exprNode() {}

// NullExpression is the NULL literal.
type NullExpression struct{}

func (*NullExpression) exprNode() {}

// LiteralExpression carries an arbitrary runtime value supplied by a
// programmatic builder rather than by query text. How it renders depends
// on the value's kind and on the clause it appears in.
type LiteralExpression struct {
	Value any
}

func (*LiteralExpression) exprNode() {}
