package expr

// Expression is a node of the expression tree.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and keeps
// the type switch in Accept exhaustive.
//
// All implementations are pointer types. Nodes are built once and are
// read-only afterwards; rewrites produce new nodes instead of mutating
// existing ones.
type Expression interface {
	exprNode() // Marker method - seals interface to this package
}

// Predicate is an Expression that evaluates to a boolean and can be
// negated.
//
// Negate returns a copy with the negation flag toggled. The receiver is
// left untouched, so Negate(Negate(p)) is equivalent to p.
type Predicate interface {
	Expression
	IsNegated() bool
	Negate() Predicate
	predicateNode()
}

// PathElement is one step of a PathExpression: a property access, an
// indexed access, a treat cast or a map/list accessor.
type PathElement interface {
	Expression
	pathElement()
}
