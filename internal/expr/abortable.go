package expr

// AbortableAdapter answers "does any node in this subtree satisfy P?".
//
// It walks depth-first, left to right, and stops at the first child that
// reports true. Leaves, parameters, subqueries and EXISTS report false.
// A search is expressed by embedding the adapter and overriding the
// methods for the variants that match:
//
//	type aggregateFinder struct{ expr.AbortableAdapter }
//
//	func (f *aggregateFinder) VisitAggregate(*expr.AggregateExpression) bool {
//	    return true
//	}
//
//	f := &aggregateFinder{}
//	f.Outer = f
//	found := expr.Accept[bool](tree, f)
//
// Outer must point at the embedding visitor, otherwise recursion bypasses
// the overrides. A nil required child panics with a *StructuralError.
type AbortableAdapter struct {
	Outer Visitor[bool]
}

func (a *AbortableAdapter) self() Visitor[bool] {
	if a.Outer != nil {
		return a.Outer
	}
	return a
}

func (a *AbortableAdapter) visit(e Expression) bool {
	return Accept(e, a.self())
}

func (a *AbortableAdapter) visitAll(list []Expression) bool {
	for _, e := range list {
		if a.visit(e) {
			return true
		}
	}
	return false
}

func (a *AbortableAdapter) VisitNumeric(*NumericLiteral) bool        { return false }
func (a *AbortableAdapter) VisitBoolean(*BooleanLiteral) bool        { return false }
func (a *AbortableAdapter) VisitString(*StringLiteral) bool          { return false }
func (a *AbortableAdapter) VisitDate(*DateLiteral) bool              { return false }
func (a *AbortableAdapter) VisitTime(*TimeLiteral) bool              { return false }
func (a *AbortableAdapter) VisitTimestamp(*TimestampLiteral) bool    { return false }
func (a *AbortableAdapter) VisitEnum(*EnumLiteral) bool              { return false }
func (a *AbortableAdapter) VisitEntity(*EntityLiteral) bool          { return false }
func (a *AbortableAdapter) VisitNull(*NullExpression) bool           { return false }
func (a *AbortableAdapter) VisitLiteral(*LiteralExpression) bool     { return false }
func (a *AbortableAdapter) VisitProperty(*PropertyExpression) bool   { return false }
func (a *AbortableAdapter) VisitParameter(*ParameterExpression) bool { return false }
func (a *AbortableAdapter) VisitSubquery(*SubqueryExpression) bool   { return false }
func (a *AbortableAdapter) VisitExists(*ExistsPredicate) bool        { return false }

func (a *AbortableAdapter) VisitPath(e *PathExpression) bool {
	for _, el := range e.Elements {
		if a.visit(el) {
			return true
		}
	}
	return false
}

func (a *AbortableAdapter) VisitArray(e *ArrayExpression) bool {
	if e.Base == nil {
		panic(structuralf(ErrCodeNilNode, "array expression without base"))
	}
	if a.visit(e.Base) {
		return true
	}
	return a.visit(e.Index)
}

func (a *AbortableAdapter) VisitTreat(e *TreatExpression) bool {
	return a.visit(e.Expression)
}

func (a *AbortableAdapter) VisitListIndex(e *ListIndexExpression) bool {
	return a.visitPath(e.Path)
}

func (a *AbortableAdapter) VisitMapKey(e *MapKeyExpression) bool {
	return a.visitPath(e.Path)
}

func (a *AbortableAdapter) VisitMapValue(e *MapValueExpression) bool {
	return a.visitPath(e.Path)
}

func (a *AbortableAdapter) VisitMapEntry(e *MapEntryExpression) bool {
	return a.visitPath(e.Path)
}

func (a *AbortableAdapter) visitPath(p *PathExpression) bool {
	if p == nil {
		panic(structuralf(ErrCodeNilNode, "accessor without path"))
	}
	return a.visit(p)
}

func (a *AbortableAdapter) VisitArithmetic(e *ArithmeticExpression) bool {
	if a.visit(e.Left) {
		return true
	}
	return a.visit(e.Right)
}

func (a *AbortableAdapter) VisitArithmeticFactor(e *ArithmeticFactor) bool {
	return a.visit(e.Expression)
}

func (a *AbortableAdapter) VisitFunction(e *FunctionExpression) bool {
	return a.visitAll(e.Args)
}

func (a *AbortableAdapter) VisitAggregate(e *AggregateExpression) bool {
	return a.self().VisitFunction(&e.FunctionExpression)
}

func (a *AbortableAdapter) VisitTypeFunction(e *TypeFunctionExpression) bool {
	return a.self().VisitFunction(&e.FunctionExpression)
}

func (a *AbortableAdapter) VisitTrim(e *TrimExpression) bool {
	if e.Character != nil && a.visit(e.Character) {
		return true
	}
	return a.visit(e.Source)
}

func (a *AbortableAdapter) VisitGeneralCase(e *GeneralCaseExpression) bool {
	for _, w := range e.WhenClauses {
		if w == nil {
			panic(structuralf(ErrCodeIncompleteCase, "nil when clause"))
		}
		if a.visit(w) {
			return true
		}
	}
	if e.Default == nil {
		panic(structuralf(ErrCodeIncompleteCase, "case without default"))
	}
	return a.visit(e.Default)
}

func (a *AbortableAdapter) VisitSimpleCase(e *SimpleCaseExpression) bool {
	if a.visit(e.Operand) {
		return true
	}
	return a.self().VisitGeneralCase(&e.GeneralCaseExpression)
}

func (a *AbortableAdapter) VisitWhenClause(e *WhenClauseExpression) bool {
	if a.visit(e.Condition) {
		return true
	}
	return a.visit(e.Result)
}

func (a *AbortableAdapter) VisitCompound(p *CompoundPredicate) bool {
	for _, c := range p.Children {
		if a.visit(c) {
			return true
		}
	}
	return false
}

func (a *AbortableAdapter) VisitEq(p *EqPredicate) bool {
	return a.visitBinary(p.Left, p.Right)
}

func (a *AbortableAdapter) VisitGt(p *GtPredicate) bool {
	return a.visitBinary(p.Left, p.Right)
}

func (a *AbortableAdapter) VisitGe(p *GePredicate) bool {
	return a.visitBinary(p.Left, p.Right)
}

func (a *AbortableAdapter) VisitLt(p *LtPredicate) bool {
	return a.visitBinary(p.Left, p.Right)
}

func (a *AbortableAdapter) VisitLe(p *LePredicate) bool {
	return a.visitBinary(p.Left, p.Right)
}

func (a *AbortableAdapter) VisitMemberOf(p *MemberOfPredicate) bool {
	return a.visitBinary(p.Left, p.Right)
}

func (a *AbortableAdapter) VisitLike(p *LikePredicate) bool {
	if a.visitBinary(p.Left, p.Pattern) {
		return true
	}
	return p.Escape != nil && a.visit(p.Escape)
}

func (a *AbortableAdapter) VisitBetween(p *BetweenPredicate) bool {
	if a.visit(p.Left) {
		return true
	}
	if a.visit(p.Start) {
		return true
	}
	return a.visit(p.End)
}

func (a *AbortableAdapter) VisitIn(p *InPredicate) bool {
	if a.visit(p.Left) {
		return true
	}
	return a.visitAll(p.Right)
}

func (a *AbortableAdapter) VisitIsNull(p *IsNullPredicate) bool {
	return a.visit(p.Expression)
}

func (a *AbortableAdapter) VisitIsEmpty(p *IsEmptyPredicate) bool {
	return a.visit(p.Expression)
}

func (a *AbortableAdapter) visitBinary(left, right Expression) bool {
	if a.visit(left) {
		return true
	}
	return a.visit(right)
}
