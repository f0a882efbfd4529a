// Package expr provides the expression abstract syntax tree (AST) shared by
// the query generator, the SQL function renderers and every analysis that
// runs above them.
//
// ARCHITECTURE:
//
// The AST sits between an external producer (a parser or a programmatic
// builder) and the rendering backends:
//
//	[parser / builders] → [expr AST] → [querygen] → SQL text + bindings
//	                                  → [analysis visitors]
//
// The core never re-validates grammar. It only relies on the structural
// invariants checked by Validate: paths are non-empty, case expressions
// carry a default and every when-clause has a condition and a result.
//
// SEALED INTERFACES:
//
// Expression, Predicate and PathElement are sealed interfaces using the
// marker method pattern. Only types in this package implement them, which
// makes the type switch in Accept exhaustive:
//
//	switch e := e.(type) {
//	case *PathExpression:
//	    return v.VisitPath(e)
//	case *EqPredicate:
//	    return v.VisitEq(e)
//	...
//	}
//
// VISITORS:
//
// Visitor[R] is the double-dispatch contract. Two shapes are used:
//   - Visitor[Expression] for rewrites (see RewriteAdapter)
//   - Visitor[bool] for abortable existence searches (see AbortableAdapter)
//
// Go methods do not dispatch virtually through embedding, so both adapters
// carry an Outer field. A visitor embedding an adapter sets Outer to itself
// and overrides only the methods it cares about; recursion from the adapter
// then goes back through the outer visitor.
//
// NEGATION:
//
// Predicates carry a Negated flag. Negate returns a copy with the flag
// toggled and never touches the receiver, so trees can be shared across
// renders. Negating a CompoundPredicate flips its own flag only; pushing
// the negation into the children is ExpandNegation's job.
package expr
