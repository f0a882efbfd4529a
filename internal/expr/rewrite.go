package expr

// RewriteAdapter is the base transforming visitor. Each method rewrites the
// node's children and rebuilds the node only when a child changed, so an
// adapter with no overrides returns the input tree itself.
//
// Like AbortableAdapter, set Outer to the embedding visitor so overrides
// are honoured during recursion.
type RewriteAdapter struct {
	Outer Visitor[Expression]
}

func (r *RewriteAdapter) self() Visitor[Expression] {
	if r.Outer != nil {
		return r.Outer
	}
	return r
}

func (r *RewriteAdapter) rewrite(e Expression) Expression {
	return Accept(e, r.self())
}

// rewriteOptional leaves nil children nil.
func (r *RewriteAdapter) rewriteOptional(e Expression) Expression {
	if e == nil {
		return nil
	}
	return r.rewrite(e)
}

func (r *RewriteAdapter) rewriteList(list []Expression) ([]Expression, bool) {
	var out []Expression
	for i, e := range list {
		n := r.rewrite(e)
		if n != e && out == nil {
			out = make([]Expression, len(list))
			copy(out, list[:i])
		}
		if out != nil {
			out[i] = n
		}
	}
	if out == nil {
		return list, false
	}
	return out, true
}

func (r *RewriteAdapter) rewritePath(p *PathExpression) *PathExpression {
	if p == nil {
		panic(structuralf(ErrCodeNilNode, "accessor without path"))
	}
	n := r.rewrite(p)
	path, ok := n.(*PathExpression)
	if !ok {
		panic(structuralf(ErrCodeWrongKind, "path rewritten to %T", n))
	}
	return path
}

func (r *RewriteAdapter) rewritePredicate(p Predicate) Predicate {
	n := r.rewrite(p)
	pred, ok := n.(Predicate)
	if !ok {
		panic(structuralf(ErrCodeWrongKind, "predicate rewritten to %T", n))
	}
	return pred
}

func (r *RewriteAdapter) VisitNumeric(e *NumericLiteral) Expression     { return e }
func (r *RewriteAdapter) VisitBoolean(e *BooleanLiteral) Expression     { return e }
func (r *RewriteAdapter) VisitString(e *StringLiteral) Expression       { return e }
func (r *RewriteAdapter) VisitDate(e *DateLiteral) Expression           { return e }
func (r *RewriteAdapter) VisitTime(e *TimeLiteral) Expression           { return e }
func (r *RewriteAdapter) VisitTimestamp(e *TimestampLiteral) Expression { return e }
func (r *RewriteAdapter) VisitEnum(e *EnumLiteral) Expression           { return e }
func (r *RewriteAdapter) VisitEntity(e *EntityLiteral) Expression       { return e }
func (r *RewriteAdapter) VisitNull(e *NullExpression) Expression        { return e }
func (r *RewriteAdapter) VisitLiteral(e *LiteralExpression) Expression  { return e }
func (r *RewriteAdapter) VisitProperty(e *PropertyExpression) Expression {
	return e
}
func (r *RewriteAdapter) VisitParameter(e *ParameterExpression) Expression {
	return e
}
func (r *RewriteAdapter) VisitSubquery(e *SubqueryExpression) Expression {
	return e
}

func (r *RewriteAdapter) VisitPath(e *PathExpression) Expression {
	var out []PathElement
	for i, el := range e.Elements {
		n := r.rewrite(el)
		pe, ok := n.(PathElement)
		if !ok {
			panic(structuralf(ErrCodeWrongKind, "path element rewritten to %T", n))
		}
		if pe != el && out == nil {
			out = make([]PathElement, len(e.Elements))
			copy(out, e.Elements[:i])
		}
		if out != nil {
			out[i] = pe
		}
	}
	if out == nil {
		return e
	}
	return &PathExpression{Elements: out}
}

func (r *RewriteAdapter) VisitArray(e *ArrayExpression) Expression {
	index := r.rewrite(e.Index)
	if index == e.Index {
		return e
	}
	return &ArrayExpression{Base: e.Base, Index: index}
}

func (r *RewriteAdapter) VisitTreat(e *TreatExpression) Expression {
	inner := r.rewrite(e.Expression)
	if inner == e.Expression {
		return e
	}
	return &TreatExpression{Expression: inner, Type: e.Type}
}

func (r *RewriteAdapter) VisitListIndex(e *ListIndexExpression) Expression {
	if p := r.rewritePath(e.Path); p != e.Path {
		return &ListIndexExpression{Path: p}
	}
	return e
}

func (r *RewriteAdapter) VisitMapKey(e *MapKeyExpression) Expression {
	if p := r.rewritePath(e.Path); p != e.Path {
		return &MapKeyExpression{Path: p}
	}
	return e
}

func (r *RewriteAdapter) VisitMapValue(e *MapValueExpression) Expression {
	if p := r.rewritePath(e.Path); p != e.Path {
		return &MapValueExpression{Path: p}
	}
	return e
}

func (r *RewriteAdapter) VisitMapEntry(e *MapEntryExpression) Expression {
	if p := r.rewritePath(e.Path); p != e.Path {
		return &MapEntryExpression{Path: p}
	}
	return e
}

func (r *RewriteAdapter) VisitArithmetic(e *ArithmeticExpression) Expression {
	left, right := r.rewrite(e.Left), r.rewrite(e.Right)
	if left == e.Left && right == e.Right {
		return e
	}
	return &ArithmeticExpression{Left: left, Right: right, Op: e.Op}
}

func (r *RewriteAdapter) VisitArithmeticFactor(e *ArithmeticFactor) Expression {
	inner := r.rewrite(e.Expression)
	if inner == e.Expression {
		return e
	}
	return &ArithmeticFactor{Expression: inner, Invert: e.Invert}
}

func (r *RewriteAdapter) VisitFunction(e *FunctionExpression) Expression {
	args, changed := r.rewriteList(e.Args)
	if !changed {
		return e
	}
	return &FunctionExpression{Name: e.Name, Args: args}
}

func (r *RewriteAdapter) VisitAggregate(e *AggregateExpression) Expression {
	args, changed := r.rewriteList(e.Args)
	if !changed {
		return e
	}
	return &AggregateExpression{
		FunctionExpression: FunctionExpression{Name: e.Name, Args: args},
		Distinct:           e.Distinct,
	}
}

func (r *RewriteAdapter) VisitTypeFunction(e *TypeFunctionExpression) Expression {
	args, changed := r.rewriteList(e.Args)
	if !changed {
		return e
	}
	return &TypeFunctionExpression{FunctionExpression: FunctionExpression{Name: e.Name, Args: args}}
}

func (r *RewriteAdapter) VisitTrim(e *TrimExpression) Expression {
	char, source := r.rewriteOptional(e.Character), r.rewrite(e.Source)
	if char == e.Character && source == e.Source {
		return e
	}
	return &TrimExpression{Spec: e.Spec, Character: char, Source: source}
}

func (r *RewriteAdapter) rewriteWhens(whens []*WhenClauseExpression) ([]*WhenClauseExpression, bool) {
	var out []*WhenClauseExpression
	for i, w := range whens {
		if w == nil {
			panic(structuralf(ErrCodeIncompleteCase, "nil when clause"))
		}
		n := r.rewrite(w)
		nw, ok := n.(*WhenClauseExpression)
		if !ok {
			panic(structuralf(ErrCodeWrongKind, "when clause rewritten to %T", n))
		}
		if nw != w && out == nil {
			out = make([]*WhenClauseExpression, len(whens))
			copy(out, whens[:i])
		}
		if out != nil {
			out[i] = nw
		}
	}
	if out == nil {
		return whens, false
	}
	return out, true
}

func (r *RewriteAdapter) VisitGeneralCase(e *GeneralCaseExpression) Expression {
	whens, changed := r.rewriteWhens(e.WhenClauses)
	def := r.rewrite(e.Default)
	if !changed && def == e.Default {
		return e
	}
	return &GeneralCaseExpression{WhenClauses: whens, Default: def}
}

func (r *RewriteAdapter) VisitSimpleCase(e *SimpleCaseExpression) Expression {
	operand := r.rewrite(e.Operand)
	whens, changed := r.rewriteWhens(e.WhenClauses)
	def := r.rewrite(e.Default)
	if operand == e.Operand && !changed && def == e.Default {
		return e
	}
	return &SimpleCaseExpression{
		Operand:               operand,
		GeneralCaseExpression: GeneralCaseExpression{WhenClauses: whens, Default: def},
	}
}

func (r *RewriteAdapter) VisitWhenClause(e *WhenClauseExpression) Expression {
	cond, result := r.rewrite(e.Condition), r.rewrite(e.Result)
	if cond == e.Condition && result == e.Result {
		return e
	}
	return &WhenClauseExpression{Condition: cond, Result: result}
}

func (r *RewriteAdapter) VisitCompound(p *CompoundPredicate) Expression {
	var out []Predicate
	for i, c := range p.Children {
		n := r.rewritePredicate(c)
		if n != c && out == nil {
			out = make([]Predicate, len(p.Children))
			copy(out, p.Children[:i])
		}
		if out != nil {
			out[i] = n
		}
	}
	if out == nil {
		return p
	}
	return &CompoundPredicate{Operator: p.Operator, Children: out, Negated: p.Negated}
}

func (r *RewriteAdapter) VisitEq(p *EqPredicate) Expression {
	left, right := r.rewrite(p.Left), r.rewrite(p.Right)
	if left == p.Left && right == p.Right {
		return p
	}
	return &EqPredicate{Left: left, Right: right, Negated: p.Negated}
}

func (r *RewriteAdapter) VisitGt(p *GtPredicate) Expression {
	left, right := r.rewrite(p.Left), r.rewrite(p.Right)
	if left == p.Left && right == p.Right {
		return p
	}
	return &GtPredicate{Left: left, Right: right, Negated: p.Negated}
}

func (r *RewriteAdapter) VisitGe(p *GePredicate) Expression {
	left, right := r.rewrite(p.Left), r.rewrite(p.Right)
	if left == p.Left && right == p.Right {
		return p
	}
	return &GePredicate{Left: left, Right: right, Negated: p.Negated}
}

func (r *RewriteAdapter) VisitLt(p *LtPredicate) Expression {
	left, right := r.rewrite(p.Left), r.rewrite(p.Right)
	if left == p.Left && right == p.Right {
		return p
	}
	return &LtPredicate{Left: left, Right: right, Negated: p.Negated}
}

func (r *RewriteAdapter) VisitLe(p *LePredicate) Expression {
	left, right := r.rewrite(p.Left), r.rewrite(p.Right)
	if left == p.Left && right == p.Right {
		return p
	}
	return &LePredicate{Left: left, Right: right, Negated: p.Negated}
}

func (r *RewriteAdapter) VisitMemberOf(p *MemberOfPredicate) Expression {
	left, right := r.rewrite(p.Left), r.rewrite(p.Right)
	if left == p.Left && right == p.Right {
		return p
	}
	return &MemberOfPredicate{Left: left, Right: right, Negated: p.Negated}
}

func (r *RewriteAdapter) VisitLike(p *LikePredicate) Expression {
	left, pattern, escape := r.rewrite(p.Left), r.rewrite(p.Pattern), r.rewriteOptional(p.Escape)
	if left == p.Left && pattern == p.Pattern && escape == p.Escape {
		return p
	}
	return &LikePredicate{
		Left:          left,
		Pattern:       pattern,
		Escape:        escape,
		CaseSensitive: p.CaseSensitive,
		Negated:       p.Negated,
	}
}

func (r *RewriteAdapter) VisitBetween(p *BetweenPredicate) Expression {
	left, start, end := r.rewrite(p.Left), r.rewrite(p.Start), r.rewrite(p.End)
	if left == p.Left && start == p.Start && end == p.End {
		return p
	}
	return &BetweenPredicate{Left: left, Start: start, End: end, Negated: p.Negated}
}

func (r *RewriteAdapter) VisitIn(p *InPredicate) Expression {
	left := r.rewrite(p.Left)
	right, changed := r.rewriteList(p.Right)
	if left == p.Left && !changed {
		return p
	}
	return &InPredicate{Left: left, Right: right, Negated: p.Negated}
}

func (r *RewriteAdapter) VisitIsNull(p *IsNullPredicate) Expression {
	inner := r.rewrite(p.Expression)
	if inner == p.Expression {
		return p
	}
	return &IsNullPredicate{Expression: inner, Negated: p.Negated}
}

func (r *RewriteAdapter) VisitIsEmpty(p *IsEmptyPredicate) Expression {
	inner := r.rewrite(p.Expression)
	if inner == p.Expression {
		return p
	}
	return &IsEmptyPredicate{Expression: inner, Negated: p.Negated}
}

func (r *RewriteAdapter) VisitExists(p *ExistsPredicate) Expression {
	inner := r.rewrite(p.Subquery)
	if inner == p.Subquery {
		return p
	}
	return &ExistsPredicate{Subquery: inner, Negated: p.Negated}
}

// ExpandNegation pushes the negation of compound predicates down to their
// children using De Morgan's laws, so no compound in the result is
// negated. Leaf predicates keep their own flags.
func ExpandNegation(e Expression) Expression {
	x := &negationExpander{}
	x.Outer = x
	return Accept[Expression](e, x)
}

type negationExpander struct{ RewriteAdapter }

func (x *negationExpander) VisitCompound(p *CompoundPredicate) Expression {
	if !p.Negated {
		return x.RewriteAdapter.VisitCompound(p)
	}
	children := make([]Predicate, len(p.Children))
	for i, c := range p.Children {
		if c == nil {
			panic(structuralf(ErrCodeNilNode, "nil compound child"))
		}
		children[i] = x.rewritePredicate(c.Negate())
	}
	return &CompoundPredicate{Operator: p.Operator.Invert(), Children: children}
}

// ReplaceParameters substitutes parameters named in values. Parameters
// without a replacement are kept.
func ReplaceParameters(e Expression, values map[string]Expression) Expression {
	x := &parameterReplacer{values: values}
	x.Outer = x
	return Accept[Expression](e, x)
}

type parameterReplacer struct {
	RewriteAdapter
	values map[string]Expression
}

func (x *parameterReplacer) VisitParameter(p *ParameterExpression) Expression {
	if v, ok := x.values[p.Name]; ok && v != nil {
		return v
	}
	return p
}
