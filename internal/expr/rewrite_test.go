package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewriteAdapter_IdentityKeepsTree(t *testing.T) {
	tree := AndOf(
		Eq(Path("a.b"), Str("x")),
		Between(Path("c"), Int("1"), Int("2")),
		In(Path("d"), Param("p")),
	)

	r := &RewriteAdapter{}
	out := Accept[Expression](tree, r)

	assert.Same(t, tree, out)
}

func TestReplaceParameters(t *testing.T) {
	left := Eq(Path("a"), Param("p"))
	right := Gt(Path("b"), Int("3"))
	tree := AndOf(left, right)

	out := ReplaceParameters(tree, map[string]Expression{"p": Str("value")})

	compound, ok := out.(*CompoundPredicate)
	require.True(t, ok)
	require.Len(t, compound.Children, 2)
	assert.NotSame(t, tree, compound)
	assert.Same(t, right, compound.Children[1], "unchanged siblings are shared")

	eq, ok := compound.Children[0].(*EqPredicate)
	require.True(t, ok)
	assert.Equal(t, Str("value"), eq.Right)

	// the input tree is untouched
	assert.Equal(t, Param("p"), left.Right)
}

func TestExpandNegation(t *testing.T) {
	tree := AndOf(Eq(Path("a"), Int("1")), Gt(Path("b"), Int("2"))).Negate()

	out := ExpandNegation(tree)

	compound, ok := out.(*CompoundPredicate)
	require.True(t, ok)
	assert.Equal(t, Or, compound.Operator)
	assert.False(t, compound.Negated)
	require.Len(t, compound.Children, 2)
	assert.True(t, compound.Children[0].IsNegated())
	assert.True(t, compound.Children[1].IsNegated())

	// the original stays negated and unexpanded
	assert.True(t, tree.IsNegated())
}

func TestExpandNegation_Nested(t *testing.T) {
	inner := OrOf(Eq(Path("a"), Int("1")), Not(Eq(Path("b"), Int("2"))))
	tree := AndOf(Not(inner), IsNull(Path("c")))

	out := ExpandNegation(tree).(*CompoundPredicate)

	assert.Equal(t, And, out.Operator)
	expanded := out.Children[0].(*CompoundPredicate)
	assert.Equal(t, And, expanded.Operator)
	assert.False(t, expanded.Negated)
	assert.True(t, expanded.Children[0].IsNegated())
	assert.False(t, expanded.Children[1].IsNegated(), "double negation cancels")
	assert.Same(t, tree.Children[1], out.Children[1])
}

func TestNegate_Involution(t *testing.T) {
	preds := []Predicate{
		Eq(Path("a"), Int("1")),
		Gt(Path("a"), Int("1")),
		Ge(Path("a"), Int("1")),
		Lt(Path("a"), Int("1")),
		Le(Path("a"), Int("1")),
		Between(Path("a"), Int("1"), Int("2")),
		In(Path("a"), Int("1")),
		Like(Path("a"), Str("x%")),
		IsNull(Path("a")),
		IsEmpty(Path("a")),
		MemberOf(Param("p"), Path("a")),
		Exists(Subquery("select 1")),
		AndOf(Eq(Path("a"), Int("1"))),
	}

	for _, p := range preds {
		once := p.Negate()
		assert.True(t, once.IsNegated(), "%T", p)
		assert.False(t, p.IsNegated(), "%T receiver must not change", p)
		assert.Equal(t, p, once.Negate(), "%T", p)
	}
}

func TestRewrite_WrongKindPanics(t *testing.T) {
	x := &predicateBreaker{}
	x.Outer = x

	assert.Panics(t, func() {
		Accept[Expression](AndOf(Eq(Path("a"), Int("1"))), x)
	})
}

type predicateBreaker struct{ RewriteAdapter }

func (*predicateBreaker) VisitEq(*EqPredicate) Expression { return Int("1") }
