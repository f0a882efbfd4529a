package expr

// ContainsAggregate reports whether e contains an aggregate call.
func ContainsAggregate(e Expression) bool {
	f := &aggregateFinder{}
	f.Outer = f
	return Accept[bool](e, f)
}

type aggregateFinder struct{ AbortableAdapter }

func (*aggregateFinder) VisitAggregate(*AggregateExpression) bool { return true }

// ContainsSubquery reports whether e contains a subquery, including the
// one behind an EXISTS predicate.
func ContainsSubquery(e Expression) bool {
	f := &subqueryFinder{}
	f.Outer = f
	return Accept[bool](e, f)
}

type subqueryFinder struct{ AbortableAdapter }

func (*subqueryFinder) VisitSubquery(*SubqueryExpression) bool { return true }
func (*subqueryFinder) VisitExists(*ExistsPredicate) bool      { return true }

// ContainsParameter reports whether e references any named parameter.
func ContainsParameter(e Expression) bool {
	f := &parameterFinder{}
	f.Outer = f
	return Accept[bool](e, f)
}

type parameterFinder struct{ AbortableAdapter }

func (*parameterFinder) VisitParameter(*ParameterExpression) bool { return true }

// CollectParameters returns the names of all parameters in e, in the order
// they are first encountered, without duplicates.
func CollectParameters(e Expression) []string {
	c := &parameterCollector{seen: make(map[string]bool)}
	c.Outer = c
	Accept[bool](e, c)
	return c.names
}

// parameterCollector never matches, so the walk covers the whole tree.
type parameterCollector struct {
	AbortableAdapter
	seen  map[string]bool
	names []string
}

func (c *parameterCollector) VisitParameter(p *ParameterExpression) bool {
	if !c.seen[p.Name] {
		c.seen[p.Name] = true
		c.names = append(c.names, p.Name)
	}
	return false
}
