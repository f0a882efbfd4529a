package function

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/exprsql/internal/dialect"
)

// CountTupleName is the name count_tuple is registered under.
const CountTupleName = "count_tuple"

// DistinctQualifier marks a distinct count when passed, quoted, as the
// first argument.
const DistinctQualifier = "DISTINCT"

var (
	// ErrNoArguments is returned for a call without arguments.
	ErrNoArguments = errors.New("needs at least one argument")

	// ErrNothingToCount is returned when only the qualifier was given.
	ErrNothingToCount = errors.New("needs at least one expression to count")
)

// CountTuple counts composite values. Arguments may be flattened
// composites ("a.x, a.y"); each logical item counts as one tuple
// component.
//
//	count_tuple(a)                -> count(a)
//	count_tuple(a, b)             -> count(case when a is null or b is null then null else 1 end)
//	count_tuple('DISTINCT', a, b) -> count(distinct <dialect tuple>)
//
// The distinct multi-column form depends on dialect.TupleCounter.
type CountTuple struct {
	Dialect dialect.Dialect
}

func (CountTuple) Name() string { return CountTupleName }

func (f CountTuple) Render(ctx *RenderContext) error {
	if len(ctx.Args) == 0 {
		return fmt.Errorf("%s: %w", CountTupleName, ErrNoArguments)
	}

	distinct := false
	start := 0
	if strings.EqualFold(strings.TrimSpace(ctx.Args[0]), "'"+DistinctQualifier+"'") {
		distinct = true
		start = 1
	}

	var items []string
	for _, arg := range ctx.Args[start:] {
		items = append(items, f.Dialect.SelectItems(arg)...)
	}
	if len(items) == 0 {
		return fmt.Errorf("%s: %w (args=%s)", CountTupleName, ErrNothingToCount, strings.Join(ctx.Args, ", "))
	}

	var target string
	switch {
	case len(items) == 1:
		target = items[0]
	case distinct:
		tc, ok := f.Dialect.(dialect.TupleCounter)
		if !ok {
			return &UnsupportedError{Function: CountTupleName, Dialect: f.Dialect.Name(), Feature: "distinct multi-column count"}
		}
		target = tc.CountDistinctTuple(items)
	default:
		target = "case when " + strings.Join(items, " is null or ") + " is null then null else 1 end"
	}

	ctx.AddChunk("count(")
	if distinct {
		ctx.AddChunk("distinct ")
	}
	ctx.AddChunk(target)
	ctx.AddChunk(")")
	return nil
}
