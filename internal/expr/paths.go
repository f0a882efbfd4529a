package expr

// PathExpression is a dotted navigation such as d.owner.name.
//
// A path always holds at least one element. Validate reports empty paths
// and Path panics when called without properties.
type PathExpression struct {
	Elements []PathElement
}

func (*PathExpression) exprNode() {}

// PropertyExpression accesses a named property.
type PropertyExpression struct {
	Property string
}

func (*PropertyExpression) exprNode()    {}
func (*PropertyExpression) pathElement() {}

// ArrayExpression is an indexed access such as owner.contacts[1].
type ArrayExpression struct {
	Base  *PropertyExpression
	Index Expression
}

func (*ArrayExpression) exprNode()    {}
func (*ArrayExpression) pathElement() {}

// TreatExpression narrows a path to a subtype: TREAT(x AS Cat).
type TreatExpression struct {
	Expression Expression
	Type       string
}

func (*TreatExpression) exprNode()    {}
func (*TreatExpression) pathElement() {}

// ListIndexExpression is INDEX(path) over an ordered collection.
type ListIndexExpression struct {
	Path *PathExpression
}

func (*ListIndexExpression) exprNode()    {}
func (*ListIndexExpression) pathElement() {}

// MapKeyExpression is KEY(path) over a map-valued path.
type MapKeyExpression struct {
	Path *PathExpression
}

func (*MapKeyExpression) exprNode()    {}
func (*MapKeyExpression) pathElement() {}

// MapValueExpression is VALUE(path) over a map-valued path.
type MapValueExpression struct {
	Path *PathExpression
}

func (*MapValueExpression) exprNode()    {}
func (*MapValueExpression) pathElement() {}

// MapEntryExpression is ENTRY(path) over a map-valued path.
type MapEntryExpression struct {
	Path *PathExpression
}

func (*MapEntryExpression) exprNode()    {}
func (*MapEntryExpression) pathElement() {}
