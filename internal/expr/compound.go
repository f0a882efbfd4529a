package expr

import "fmt"

// ArithmeticOperator is one of the four binary arithmetic operators.
type ArithmeticOperator int

const (
	OpAdd ArithmeticOperator = iota
	OpSubtract
	OpMultiply
	OpDivide
)

var arithmeticSymbols = [...]string{
	OpAdd:      "+",
	OpSubtract: "-",
	OpMultiply: "*",
	OpDivide:   "/",
}

// Symbol returns the textual operator.
func (o ArithmeticOperator) Symbol() string {
	if int(o) < 0 || int(o) >= len(arithmeticSymbols) {
		return fmt.Sprintf("ArithmeticOperator(%d)", int(o))
	}
	return arithmeticSymbols[o]
}

func (o ArithmeticOperator) String() string { return o.Symbol() }

// ParseArithmeticOperator maps "+", "-", "*" or "/" to its operator.
func ParseArithmeticOperator(symbol string) (ArithmeticOperator, bool) {
	for i, s := range arithmeticSymbols {
		if s == symbol {
			return ArithmeticOperator(i), true
		}
	}
	return 0, false
}

// ArithmeticExpression is left <op> right. No parentheses are implied;
// callers composing nested arithmetic wrap operands themselves.
type ArithmeticExpression struct {
	Left  Expression
	Right Expression
	Op    ArithmeticOperator
}

func (*ArithmeticExpression) exprNode() {}

// ArithmeticFactor wraps an expression with a unary sign. Invert renders a
// leading minus.
type ArithmeticFactor struct {
	Expression Expression
	Invert     bool
}

func (*ArithmeticFactor) exprNode() {}

// FunctionExpression is a call name(args...).
type FunctionExpression struct {
	Name string
	Args []Expression
}

func (*FunctionExpression) exprNode() {}

// AggregateExpression is an aggregate call such as COUNT(DISTINCT x).
type AggregateExpression struct {
	FunctionExpression
	Distinct bool
}

func (*AggregateExpression) exprNode() {}

// TypeFunctionExpression is TYPE(x), a function call whose single argument
// is a path or parameter.
type TypeFunctionExpression struct {
	FunctionExpression
}

func (*TypeFunctionExpression) exprNode() {}

// Arg returns the single argument of TYPE(x).
func (e *TypeFunctionExpression) Arg() Expression {
	if len(e.Args) == 0 {
		return nil
	}
	return e.Args[0]
}

// TrimSpec selects which side TRIM removes characters from.
type TrimSpec int

const (
	TrimBoth TrimSpec = iota
	TrimLeading
	TrimTrailing
)

var trimSpecNames = [...]string{
	TrimBoth:     "both",
	TrimLeading:  "leading",
	TrimTrailing: "trailing",
}

func (s TrimSpec) String() string {
	if int(s) < 0 || int(s) >= len(trimSpecNames) {
		return fmt.Sprintf("TrimSpec(%d)", int(s))
	}
	return trimSpecNames[s]
}

// ParseTrimSpec maps "both", "leading" or "trailing" to its TrimSpec.
func ParseTrimSpec(name string) (TrimSpec, bool) {
	for i, n := range trimSpecNames {
		if n == name {
			return TrimSpec(i), true
		}
	}
	return 0, false
}

// TrimExpression is TRIM(spec [char] FROM source). Character is optional.
type TrimExpression struct {
	Spec      TrimSpec
	Character Expression
	Source    Expression
}

func (*TrimExpression) exprNode() {}

// WhenClauseExpression is WHEN condition THEN result. Both are required.
type WhenClauseExpression struct {
	Condition Expression
	Result    Expression
}

func (*WhenClauseExpression) exprNode() {}

// GeneralCaseExpression is CASE WHEN ... THEN ... ELSE default END.
// Default is always present.
type GeneralCaseExpression struct {
	WhenClauses []*WhenClauseExpression
	Default     Expression
}

func (*GeneralCaseExpression) exprNode() {}

// SimpleCaseExpression is CASE operand WHEN value THEN ... ELSE default END.
type SimpleCaseExpression struct {
	Operand Expression
	GeneralCaseExpression
}

func (*SimpleCaseExpression) exprNode() {}

// ParameterExpression is a named parameter placeholder (:name).
type ParameterExpression struct {
	Name string
}

func (*ParameterExpression) exprNode() {}

// SubqueryExpression references an already rendered subquery. Building the
// subquery itself belongs to the query builder above this package.
type SubqueryExpression struct {
	Query string
}

func (*SubqueryExpression) exprNode() {}
