package expr

import "fmt"

// BooleanOperator joins the children of a CompoundPredicate.
type BooleanOperator int

const (
	And BooleanOperator = iota
	Or
)

func (o BooleanOperator) String() string {
	switch o {
	case And:
		return "and"
	case Or:
		return "or"
	default:
		return fmt.Sprintf("BooleanOperator(%d)", int(o))
	}
}

// Invert returns the dual operator used when pushing a negation through a
// compound predicate.
func (o BooleanOperator) Invert() BooleanOperator {
	if o == And {
		return Or
	}
	return And
}

// CompoundPredicate joins its children with Operator. Negating it flips
// its own flag; the children are left as they are.
type CompoundPredicate struct {
	Operator BooleanOperator
	Children []Predicate
	Negated  bool
}

func (*CompoundPredicate) exprNode()      {}
func (*CompoundPredicate) predicateNode() {}

func (p *CompoundPredicate) IsNegated() bool { return p.Negated }

func (p *CompoundPredicate) Negate() Predicate {
	c := *p
	c.Negated = !c.Negated
	return &c
}

// EqPredicate is left = right.
type EqPredicate struct {
	Left    Expression
	Right   Expression
	Negated bool
}

func (*EqPredicate) exprNode()      {}
func (*EqPredicate) predicateNode() {}

func (p *EqPredicate) IsNegated() bool { return p.Negated }

func (p *EqPredicate) Negate() Predicate {
	c := *p
	c.Negated = !c.Negated
	return &c
}

// GtPredicate is left > right.
type GtPredicate struct {
	Left    Expression
	Right   Expression
	Negated bool
}

func (*GtPredicate) exprNode()      {}
func (*GtPredicate) predicateNode() {}

func (p *GtPredicate) IsNegated() bool { return p.Negated }

func (p *GtPredicate) Negate() Predicate {
	c := *p
	c.Negated = !c.Negated
	return &c
}

// GePredicate is left >= right.
type GePredicate struct {
	Left    Expression
	Right   Expression
	Negated bool
}

func (*GePredicate) exprNode()      {}
func (*GePredicate) predicateNode() {}

func (p *GePredicate) IsNegated() bool { return p.Negated }

func (p *GePredicate) Negate() Predicate {
	c := *p
	c.Negated = !c.Negated
	return &c
}

// LtPredicate is left < right.
type LtPredicate struct {
	Left    Expression
	Right   Expression
	Negated bool
}

func (*LtPredicate) exprNode()      {}
func (*LtPredicate) predicateNode() {}

func (p *LtPredicate) IsNegated() bool { return p.Negated }

func (p *LtPredicate) Negate() Predicate {
	c := *p
	c.Negated = !c.Negated
	return &c
}

// LePredicate is left <= right.
type LePredicate struct {
	Left    Expression
	Right   Expression
	Negated bool
}

func (*LePredicate) exprNode()      {}
func (*LePredicate) predicateNode() {}

func (p *LePredicate) IsNegated() bool { return p.Negated }

func (p *LePredicate) Negate() Predicate {
	c := *p
	c.Negated = !c.Negated
	return &c
}

// BetweenPredicate is left BETWEEN start AND end.
type BetweenPredicate struct {
	Left    Expression
	Start   Expression
	End     Expression
	Negated bool
}

func (*BetweenPredicate) exprNode()      {}
func (*BetweenPredicate) predicateNode() {}

func (p *BetweenPredicate) IsNegated() bool { return p.Negated }

func (p *BetweenPredicate) Negate() Predicate {
	c := *p
	c.Negated = !c.Negated
	return &c
}

// InPredicate is left IN (right...). Right keeps the candidates in the
// order they were written and must not be empty.
type InPredicate struct {
	Left    Expression
	Right   []Expression
	Negated bool
}

func (*InPredicate) exprNode()      {}
func (*InPredicate) predicateNode() {}

func (p *InPredicate) IsNegated() bool { return p.Negated }

func (p *InPredicate) Negate() Predicate {
	c := *p
	c.Negated = !c.Negated
	return &c
}

// LikePredicate is left LIKE pattern [ESCAPE escape]. When CaseSensitive is
// false both sides are upper-cased before matching.
type LikePredicate struct {
	Left          Expression
	Pattern       Expression
	Escape        Expression
	CaseSensitive bool
	Negated       bool
}

func (*LikePredicate) exprNode()      {}
func (*LikePredicate) predicateNode() {}

func (p *LikePredicate) IsNegated() bool { return p.Negated }

func (p *LikePredicate) Negate() Predicate {
	c := *p
	c.Negated = !c.Negated
	return &c
}

// IsNullPredicate is expression IS NULL.
type IsNullPredicate struct {
	Expression Expression
	Negated    bool
}

func (*IsNullPredicate) exprNode()      {}
func (*IsNullPredicate) predicateNode() {}

func (p *IsNullPredicate) IsNegated() bool { return p.Negated }

func (p *IsNullPredicate) Negate() Predicate {
	c := *p
	c.Negated = !c.Negated
	return &c
}

// IsEmptyPredicate is collection IS EMPTY.
type IsEmptyPredicate struct {
	Expression Expression
	Negated    bool
}

func (*IsEmptyPredicate) exprNode()      {}
func (*IsEmptyPredicate) predicateNode() {}

func (p *IsEmptyPredicate) IsNegated() bool { return p.Negated }

func (p *IsEmptyPredicate) Negate() Predicate {
	c := *p
	c.Negated = !c.Negated
	return &c
}

// MemberOfPredicate is left MEMBER OF right.
type MemberOfPredicate struct {
	Left    Expression
	Right   Expression
	Negated bool
}

func (*MemberOfPredicate) exprNode()      {}
func (*MemberOfPredicate) predicateNode() {}

func (p *MemberOfPredicate) IsNegated() bool { return p.Negated }

func (p *MemberOfPredicate) Negate() Predicate {
	c := *p
	c.Negated = !c.Negated
	return &c
}

// ExistsPredicate is EXISTS (subquery).
type ExistsPredicate struct {
	Subquery Expression
	Negated  bool
}

func (*ExistsPredicate) exprNode()      {}
func (*ExistsPredicate) predicateNode() {}

func (p *ExistsPredicate) IsNegated() bool { return p.Negated }

func (p *ExistsPredicate) Negate() Predicate {
	c := *p
	c.Negated = !c.Negated
	return &c
}
