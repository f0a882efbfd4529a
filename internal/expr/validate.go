package expr

import (
	"errors"
	"fmt"
)

// Validate checks the structural invariants the rest of the core relies
// on. It does not re-check grammar.
//
// Rules:
//  1. Required children are non-nil
//  2. Paths hold at least one element
//  3. Case expressions have a default; when clauses have both a condition
//     and a result
//  4. IN predicates have candidates; compound predicates have children
//
// All violations are collected. The returned error joins one
// *StructuralError per violation, or is nil for a well-formed tree.
//
// Validate is a pure function with no side effects.
func Validate(e Expression) error {
	v := &validator{}
	v.validate(e, "$")
	return errors.Join(v.problems...)
}

// validator accumulates problems during traversal.
type validator struct {
	problems []error
}

func (v *validator) addProblem(code ErrorCode, loc string, format string, args ...any) {
	v.problems = append(v.problems, &StructuralError{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Location: loc,
	})
}

// required reports a nil child; non-nil children are validated.
func (v *validator) required(e Expression, loc string) {
	if e == nil || isNilPointer(e) {
		v.addProblem(ErrCodeNilNode, loc, "required expression is missing")
		return
	}
	v.validate(e, loc)
}

func (v *validator) optional(e Expression, loc string) {
	if e != nil && !isNilPointer(e) {
		v.validate(e, loc)
	}
}

func (v *validator) list(list []Expression, loc string) {
	for i, e := range list {
		v.required(e, fmt.Sprintf("%s[%d]", loc, i))
	}
}

func (v *validator) path(p *PathExpression, loc string) {
	if p == nil {
		v.addProblem(ErrCodeNilNode, loc, "required path is missing")
		return
	}
	v.validate(p, loc)
}

// validate recursively validates a node.
func (v *validator) validate(e Expression, loc string) {
	if isNilPointer(e) {
		v.addProblem(ErrCodeNilNode, loc, "required expression is missing")
		return
	}

	switch n := e.(type) {
	case nil:
		v.addProblem(ErrCodeNilNode, loc, "required expression is missing")

	case *NumericLiteral:
		if _, err := n.Number(); err != nil {
			v.addProblem(ErrCodeWrongKind, loc, "%v", err)
		}
	case *BooleanLiteral, *StringLiteral, *DateLiteral, *TimeLiteral, *TimestampLiteral,
		*EnumLiteral, *EntityLiteral, *NullExpression, *LiteralExpression,
		*PropertyExpression, *ParameterExpression, *SubqueryExpression:
		// leaves

	case *PathExpression:
		if len(n.Elements) == 0 {
			v.addProblem(ErrCodeEmptyPath, loc, "path has no elements")
		}
		for i, el := range n.Elements {
			v.required(el, fmt.Sprintf("%s.elements[%d]", loc, i))
		}
	case *ArrayExpression:
		if n.Base == nil {
			v.addProblem(ErrCodeNilNode, loc+".base", "array access without base")
		}
		v.required(n.Index, loc+".index")
	case *TreatExpression:
		v.required(n.Expression, loc+".expression")
	case *ListIndexExpression:
		v.path(n.Path, loc+".path")
	case *MapKeyExpression:
		v.path(n.Path, loc+".path")
	case *MapValueExpression:
		v.path(n.Path, loc+".path")
	case *MapEntryExpression:
		v.path(n.Path, loc+".path")

	case *ArithmeticExpression:
		v.required(n.Left, loc+".left")
		v.required(n.Right, loc+".right")
	case *ArithmeticFactor:
		v.required(n.Expression, loc+".expression")
	case *FunctionExpression:
		v.list(n.Args, loc+".args")
	case *AggregateExpression:
		v.list(n.Args, loc+".args")
	case *TypeFunctionExpression:
		if len(n.Args) != 1 {
			v.addProblem(ErrCodeWrongKind, loc, "type function takes exactly one argument, got %d", len(n.Args))
		}
		v.list(n.Args, loc+".args")
	case *TrimExpression:
		v.optional(n.Character, loc+".character")
		v.required(n.Source, loc+".source")
	case *GeneralCaseExpression:
		v.validateCase(n, loc)
	case *SimpleCaseExpression:
		v.required(n.Operand, loc+".operand")
		v.validateCase(&n.GeneralCaseExpression, loc)
	case *WhenClauseExpression:
		v.validateWhen(n, loc)

	case *CompoundPredicate:
		if len(n.Children) == 0 {
			v.addProblem(ErrCodeEmptyList, loc, "compound predicate has no children")
		}
		for i, c := range n.Children {
			v.required(c, fmt.Sprintf("%s.children[%d]", loc, i))
		}
	case *EqPredicate:
		v.binary(n.Left, n.Right, loc)
	case *GtPredicate:
		v.binary(n.Left, n.Right, loc)
	case *GePredicate:
		v.binary(n.Left, n.Right, loc)
	case *LtPredicate:
		v.binary(n.Left, n.Right, loc)
	case *LePredicate:
		v.binary(n.Left, n.Right, loc)
	case *MemberOfPredicate:
		v.binary(n.Left, n.Right, loc)
	case *LikePredicate:
		v.required(n.Left, loc+".left")
		v.required(n.Pattern, loc+".pattern")
		v.optional(n.Escape, loc+".escape")
	case *BetweenPredicate:
		v.required(n.Left, loc+".left")
		v.required(n.Start, loc+".start")
		v.required(n.End, loc+".end")
	case *InPredicate:
		v.required(n.Left, loc+".left")
		if len(n.Right) == 0 {
			v.addProblem(ErrCodeEmptyList, loc+".right", "in predicate has no candidates")
		}
		v.list(n.Right, loc+".right")
	case *IsNullPredicate:
		v.required(n.Expression, loc+".expression")
	case *IsEmptyPredicate:
		v.required(n.Expression, loc+".expression")
	case *ExistsPredicate:
		v.required(n.Subquery, loc+".subquery")

	default:
		v.addProblem(ErrCodeUnknownNode, loc, "unknown expression type %T", e)
	}
}

func (v *validator) binary(left, right Expression, loc string) {
	v.required(left, loc+".left")
	v.required(right, loc+".right")
}

func (v *validator) validateCase(c *GeneralCaseExpression, loc string) {
	for i, w := range c.WhenClauses {
		wloc := fmt.Sprintf("%s.when[%d]", loc, i)
		if w == nil {
			v.addProblem(ErrCodeIncompleteCase, wloc, "when clause is missing")
			continue
		}
		v.validateWhen(w, wloc)
	}
	if c.Default == nil {
		v.addProblem(ErrCodeIncompleteCase, loc+".default", "case expression has no default branch")
		return
	}
	v.validate(c.Default, loc+".default")
}

func (v *validator) validateWhen(w *WhenClauseExpression, loc string) {
	if w.Condition == nil {
		v.addProblem(ErrCodeIncompleteCase, loc+".condition", "when clause has no condition")
	} else {
		v.validate(w.Condition, loc+".condition")
	}
	if w.Result == nil {
		v.addProblem(ErrCodeIncompleteCase, loc+".result", "when clause has no result")
	} else {
		v.validate(w.Result, loc+".result")
	}
}
