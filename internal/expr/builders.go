package expr

import (
	"strings"
	"time"
)

// Path builds a path from dotted property names. Each argument may itself
// contain dots: Path("d.owner", "name") equals Path("d", "owner", "name").
// Path panics without at least one property, since an empty path violates
// the path invariant.
func Path(properties ...string) *PathExpression {
	var elements []PathElement
	for _, p := range properties {
		for _, part := range strings.Split(p, ".") {
			if part == "" {
				continue
			}
			elements = append(elements, &PropertyExpression{Property: part})
		}
	}
	if len(elements) == 0 {
		panic(structuralf(ErrCodeEmptyPath, "path needs at least one property"))
	}
	return &PathExpression{Elements: elements}
}

// PathOf builds a path from explicit elements.
func PathOf(elements ...PathElement) *PathExpression {
	if len(elements) == 0 {
		panic(structuralf(ErrCodeEmptyPath, "path needs at least one element"))
	}
	return &PathExpression{Elements: elements}
}

func Prop(name string) *PropertyExpression { return &PropertyExpression{Property: name} }

func Index(base string, index Expression) *ArrayExpression {
	return &ArrayExpression{Base: Prop(base), Index: index}
}

func Treat(e Expression, typ string) *TreatExpression {
	return &TreatExpression{Expression: e, Type: typ}
}

func Key(p *PathExpression) *MapKeyExpression          { return &MapKeyExpression{Path: p} }
func Value(p *PathExpression) *MapValueExpression      { return &MapValueExpression{Path: p} }
func Entry(p *PathExpression) *MapEntryExpression      { return &MapEntryExpression{Path: p} }
func ListIndex(p *PathExpression) *ListIndexExpression { return &ListIndexExpression{Path: p} }

func Int(v string) *NumericLiteral    { return &NumericLiteral{Value: v, Type: NumericInteger} }
func Long(v string) *NumericLiteral   { return &NumericLiteral{Value: v, Type: NumericLong} }
func BigInt(v string) *NumericLiteral { return &NumericLiteral{Value: v, Type: NumericBigInteger} }
func Float(v string) *NumericLiteral  { return &NumericLiteral{Value: v, Type: NumericFloat} }
func Double(v string) *NumericLiteral { return &NumericLiteral{Value: v, Type: NumericDouble} }
func BigDec(v string) *NumericLiteral { return &NumericLiteral{Value: v, Type: NumericBigDecimal} }

func Bool(v bool) *BooleanLiteral               { return &BooleanLiteral{Value: v} }
func Str(v string) *StringLiteral               { return &StringLiteral{Value: v} }
func Date(t time.Time) *DateLiteral             { return &DateLiteral{Value: t} }
func Time(t time.Time) *TimeLiteral             { return &TimeLiteral{Value: t} }
func Timestamp(t time.Time) *TimestampLiteral   { return &TimestampLiteral{Value: t} }
func Enum(original string, v any) *EnumLiteral  { return &EnumLiteral{Value: v, Original: original} }
func Entity(original string) *EntityLiteral     { return &EntityLiteral{Original: original} }
func Null() *NullExpression                     { return &NullExpression{} }
func Literal(v any) *LiteralExpression          { return &LiteralExpression{Value: v} }
func Param(name string) *ParameterExpression    { return &ParameterExpression{Name: name} }
func Subquery(query string) *SubqueryExpression { return &SubqueryExpression{Query: query} }

func Add(l, r Expression) *ArithmeticExpression {
	return &ArithmeticExpression{Left: l, Right: r, Op: OpAdd}
}

func Sub(l, r Expression) *ArithmeticExpression {
	return &ArithmeticExpression{Left: l, Right: r, Op: OpSubtract}
}

func Mul(l, r Expression) *ArithmeticExpression {
	return &ArithmeticExpression{Left: l, Right: r, Op: OpMultiply}
}

func Div(l, r Expression) *ArithmeticExpression {
	return &ArithmeticExpression{Left: l, Right: r, Op: OpDivide}
}

func Neg(e Expression) *ArithmeticFactor { return &ArithmeticFactor{Expression: e, Invert: true} }

func Func(name string, args ...Expression) *FunctionExpression {
	return &FunctionExpression{Name: name, Args: args}
}

func Aggregate(name string, distinct bool, args ...Expression) *AggregateExpression {
	return &AggregateExpression{FunctionExpression: FunctionExpression{Name: name, Args: args}, Distinct: distinct}
}

func TypeOf(arg Expression) *TypeFunctionExpression {
	return &TypeFunctionExpression{FunctionExpression: FunctionExpression{Name: "type", Args: []Expression{arg}}}
}

func Trim(spec TrimSpec, char, source Expression) *TrimExpression {
	return &TrimExpression{Spec: spec, Character: char, Source: source}
}

func When(cond, result Expression) *WhenClauseExpression {
	return &WhenClauseExpression{Condition: cond, Result: result}
}

// Case builds a general case expression. It panics when def is nil, since
// a case without default violates the case invariant.
func Case(def Expression, whens ...*WhenClauseExpression) *GeneralCaseExpression {
	if def == nil {
		panic(structuralf(ErrCodeIncompleteCase, "case expression needs a default branch"))
	}
	return &GeneralCaseExpression{WhenClauses: whens, Default: def}
}

// SimpleCase builds CASE operand WHEN ... END. Like Case it requires def.
func SimpleCase(operand, def Expression, whens ...*WhenClauseExpression) *SimpleCaseExpression {
	return &SimpleCaseExpression{Operand: operand, GeneralCaseExpression: *Case(def, whens...)}
}

func Eq(l, r Expression) *EqPredicate             { return &EqPredicate{Left: l, Right: r} }
func Gt(l, r Expression) *GtPredicate             { return &GtPredicate{Left: l, Right: r} }
func Ge(l, r Expression) *GePredicate             { return &GePredicate{Left: l, Right: r} }
func Lt(l, r Expression) *LtPredicate             { return &LtPredicate{Left: l, Right: r} }
func Le(l, r Expression) *LePredicate             { return &LePredicate{Left: l, Right: r} }
func MemberOf(l, r Expression) *MemberOfPredicate { return &MemberOfPredicate{Left: l, Right: r} }
func IsNull(e Expression) *IsNullPredicate        { return &IsNullPredicate{Expression: e} }
func IsEmpty(e Expression) *IsEmptyPredicate      { return &IsEmptyPredicate{Expression: e} }
func Exists(sub Expression) *ExistsPredicate      { return &ExistsPredicate{Subquery: sub} }

func Between(e, start, end Expression) *BetweenPredicate {
	return &BetweenPredicate{Left: e, Start: start, End: end}
}

func In(e Expression, candidates ...Expression) *InPredicate {
	return &InPredicate{Left: e, Right: candidates}
}

func Like(e, pattern Expression) *LikePredicate {
	return &LikePredicate{Left: e, Pattern: pattern, CaseSensitive: true}
}

func AndOf(children ...Predicate) *CompoundPredicate {
	return &CompoundPredicate{Operator: And, Children: children}
}

func OrOf(children ...Predicate) *CompoundPredicate {
	return &CompoundPredicate{Operator: Or, Children: children}
}

// Not returns p negated.
func Not(p Predicate) Predicate { return p.Negate() }

// WrapNot wraps p in a single-child AND and negates the wrapper, leaving p
// itself untouched.
func WrapNot(p Predicate) *CompoundPredicate {
	return &CompoundPredicate{Operator: And, Children: []Predicate{p}, Negated: true}
}
