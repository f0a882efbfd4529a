package querygen

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/exprsql/internal/expr"
	"github.com/roach88/exprsql/internal/function"
	"github.com/roach88/exprsql/internal/typeconv"
)

// renderer is the per-call accumulator. It implements expr.Visitor[error]
// and writes every node into buf.
type renderer struct {
	gen    *Generator
	clause Clause
	buf    *strings.Builder

	bindings []Binding
	params   []string
	seen     map[string]bool

	// reserved holds the tree's parameter names; generated binding names
	// skip them. next numbers generated bindings.
	reserved map[string]bool
	next     int

	// inline is positive while rendering arguments of a registered
	// function, whose renderer works on argument text.
	inline int
}

func newRenderer(g *Generator, clause Clause, params []string) *renderer {
	r := &renderer{
		gen:      g,
		clause:   clause,
		buf:      new(strings.Builder),
		seen:     make(map[string]bool),
		reserved: make(map[string]bool, len(params)),
	}
	for _, p := range params {
		r.reserved[p] = true
	}
	return r
}

func (r *renderer) visit(e expr.Expression) error {
	return expr.Accept[error](e, r)
}

// emit writes strings and renders expressions in order, stopping at the
// first error.
func (r *renderer) emit(parts ...any) error {
	for _, p := range parts {
		switch v := p.(type) {
		case string:
			r.buf.WriteString(v)
		case nil:
			panic(nilNode("missing required child"))
		default:
			if err := r.visit(v.(expr.Expression)); err != nil {
				return err
			}
		}
	}
	return nil
}

// list renders es separated by sep.
func (r *renderer) list(es []expr.Expression, sep string) error {
	for i, e := range es {
		if i > 0 {
			r.buf.WriteString(sep)
		}
		if err := r.visit(e); err != nil {
			return err
		}
	}
	return nil
}

// capture renders e into a separate buffer and returns its text.
func (r *renderer) capture(e expr.Expression) (string, error) {
	saved := r.buf
	r.buf = new(strings.Builder)
	defer func() { r.buf = saved }()

	if err := r.visit(e); err != nil {
		return "", err
	}
	return r.buf.String(), nil
}

func (r *renderer) inlining() bool {
	return r.inline > 0 || r.clause.inlinesAll()
}

// bind registers v as a new binding and writes its placeholder. The
// name never equals a parameter name used in the tree.
func (r *renderer) bind(v any) {
	var name string
	for {
		r.next++
		name = r.gen.prefix + strconv.Itoa(r.next)
		if !r.reserved[name] {
			break
		}
	}
	r.bindings = append(r.bindings, Binding{Name: name, Value: v, Type: reflect.TypeOf(v)})
	r.buf.WriteString(":" + name)
}

// literal writes a runtime value. Numeric and boolean values are always
// inlined; other kinds are inlined only in the select list.
func (r *renderer) literal(v any) error {
	if v == nil {
		r.buf.WriteString("null")
		return nil
	}

	kind := typeconv.Classify(v)
	if kind == typeconv.KindUnsupported {
		return r.unsupported(&typeconv.UnsupportedError{Value: v, Type: typeconv.TypeName(v)})
	}
	if kind == typeconv.KindCharacter && !r.inlining() {
		r.bind(v)
		return nil
	}

	s, err := typeconv.Inline(v)
	if err != nil {
		return r.unsupported(err)
	}
	r.buf.WriteString(s)
	return nil
}

func (r *renderer) temporal(t time.Time, layout string) error {
	if !r.inlining() {
		r.bind(t)
		return nil
	}
	r.buf.WriteString(typeconv.Quote(t.Format(layout)))
	return nil
}

func (r *renderer) unsupported(err error) error {
	return &RenderError{Code: ErrCodeUnsupportedLiteral, Message: "literal value", Clause: r.clause, Err: err}
}

func nilNode(msg string) *expr.StructuralError {
	return &expr.StructuralError{Code: expr.ErrCodeNilNode, Message: msg}
}

// Literals

func (r *renderer) VisitNumeric(n *expr.NumericLiteral) error {
	if _, err := n.Number(); err != nil {
		return &RenderError{Code: ErrCodeInvalidLiteral, Message: "numeric literal", Clause: r.clause, Err: err}
	}
	r.buf.WriteString(n.Text())
	return nil
}

func (r *renderer) VisitBoolean(n *expr.BooleanLiteral) error {
	r.buf.WriteString(strconv.FormatBool(n.Value))
	return nil
}

func (r *renderer) VisitString(n *expr.StringLiteral) error {
	return r.literal(n.Value)
}

func (r *renderer) VisitDate(n *expr.DateLiteral) error {
	return r.temporal(n.Value, typeconv.DateLayout)
}

func (r *renderer) VisitTime(n *expr.TimeLiteral) error {
	return r.temporal(n.Value, typeconv.TimeLayout)
}

func (r *renderer) VisitTimestamp(n *expr.TimestampLiteral) error {
	return r.temporal(n.Value, typeconv.TimestampLayout)
}

// Enum and entity references render as written unless the producer
// resolved them to a value.
func (r *renderer) VisitEnum(n *expr.EnumLiteral) error {
	if n.Value == nil {
		r.buf.WriteString(n.Original)
		return nil
	}
	return r.literal(n.Value)
}

func (r *renderer) VisitEntity(n *expr.EntityLiteral) error {
	if n.Value == nil {
		r.buf.WriteString(n.Original)
		return nil
	}
	return r.literal(n.Value)
}

func (r *renderer) VisitNull(*expr.NullExpression) error {
	r.buf.WriteString("null")
	return nil
}

func (r *renderer) VisitLiteral(n *expr.LiteralExpression) error {
	return r.literal(n.Value)
}

// Paths

func (r *renderer) VisitPath(n *expr.PathExpression) error {
	if len(n.Elements) == 0 {
		panic(&expr.StructuralError{Code: expr.ErrCodeEmptyPath, Message: "path without elements"})
	}
	for i, el := range n.Elements {
		if i > 0 {
			r.buf.WriteByte('.')
		}
		if err := r.visit(el); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) VisitProperty(n *expr.PropertyExpression) error {
	r.buf.WriteString(n.Property)
	return nil
}

func (r *renderer) VisitArray(n *expr.ArrayExpression) error {
	if n.Base == nil {
		panic(nilNode("array expression without base"))
	}
	return r.emit(n.Base, "[", n.Index, "]")
}

func (r *renderer) VisitTreat(n *expr.TreatExpression) error {
	return r.emit("treat(", n.Expression, " as "+n.Type+")")
}

func (r *renderer) pathCall(name string, p *expr.PathExpression) error {
	if p == nil {
		panic(nilNode(name + " without path"))
	}
	return r.emit(name+"(", p, ")")
}

func (r *renderer) VisitListIndex(n *expr.ListIndexExpression) error {
	return r.pathCall("index", n.Path)
}

func (r *renderer) VisitMapKey(n *expr.MapKeyExpression) error {
	return r.pathCall("key", n.Path)
}

func (r *renderer) VisitMapValue(n *expr.MapValueExpression) error {
	return r.pathCall("value", n.Path)
}

func (r *renderer) VisitMapEntry(n *expr.MapEntryExpression) error {
	return r.pathCall("entry", n.Path)
}

// Compound expressions

func (r *renderer) VisitArithmetic(n *expr.ArithmeticExpression) error {
	return r.emit(n.Left, " "+n.Op.Symbol()+" ", n.Right)
}

func (r *renderer) VisitArithmeticFactor(n *expr.ArithmeticFactor) error {
	if n.Invert {
		return r.emit("-", n.Expression)
	}
	return r.visit(n.Expression)
}

func (r *renderer) VisitFunction(n *expr.FunctionExpression) error {
	return r.call(n.Name, false, n.Args)
}

func (r *renderer) VisitAggregate(n *expr.AggregateExpression) error {
	return r.call(n.Name, n.Distinct, n.Args)
}

func (r *renderer) VisitTypeFunction(n *expr.TypeFunctionExpression) error {
	return r.call(n.Name, false, n.Args)
}

func (r *renderer) call(name string, distinct bool, args []expr.Expression) error {
	if f, ok := r.gen.funcs.Lookup(name); ok {
		return r.callRegistered(f, distinct, args)
	}
	r.buf.WriteString(name + "(")
	if distinct {
		r.buf.WriteString("distinct ")
	}
	if err := r.list(args, ", "); err != nil {
		return err
	}
	r.buf.WriteByte(')')
	return nil
}

// callRegistered hands the rendered argument text to f. A distinct
// aggregate passes the quoted qualifier as its first argument.
func (r *renderer) callRegistered(f function.Function, distinct bool, args []expr.Expression) error {
	texts := make([]string, 0, len(args)+1)
	if distinct {
		texts = append(texts, "'"+function.DistinctQualifier+"'")
	}

	r.inline++
	for _, a := range args {
		s, err := r.capture(a)
		if err != nil {
			r.inline--
			return err
		}
		texts = append(texts, s)
	}
	r.inline--

	ctx := function.NewRenderContext(texts...)
	if err := f.Render(ctx); err != nil {
		return &RenderError{Code: ErrCodeFunctionFailed, Message: "function " + f.Name(), Clause: r.clause, Err: err}
	}
	r.buf.WriteString(ctx.String())
	return nil
}

func (r *renderer) VisitTrim(n *expr.TrimExpression) error {
	r.buf.WriteString("trim(" + n.Spec.String() + " ")
	if n.Character != nil {
		if err := r.emit(n.Character, " "); err != nil {
			return err
		}
	}
	return r.emit("from ", n.Source, ")")
}

func (r *renderer) whens(whens []*expr.WhenClauseExpression, def expr.Expression) error {
	for _, w := range whens {
		if w == nil {
			panic(nilNode("nil when clause"))
		}
		if err := r.emit(" ", w); err != nil {
			return err
		}
	}
	if def == nil {
		panic(&expr.StructuralError{Code: expr.ErrCodeIncompleteCase, Message: "case without default"})
	}
	return r.emit(" else ", def, " end")
}

func (r *renderer) VisitGeneralCase(n *expr.GeneralCaseExpression) error {
	r.buf.WriteString("case")
	return r.whens(n.WhenClauses, n.Default)
}

func (r *renderer) VisitSimpleCase(n *expr.SimpleCaseExpression) error {
	if err := r.emit("case ", n.Operand); err != nil {
		return err
	}
	return r.whens(n.WhenClauses, n.Default)
}

func (r *renderer) VisitWhenClause(n *expr.WhenClauseExpression) error {
	return r.emit("when ", n.Condition, " then ", n.Result)
}

func (r *renderer) VisitParameter(n *expr.ParameterExpression) error {
	if !r.seen[n.Name] {
		r.seen[n.Name] = true
		r.params = append(r.params, n.Name)
	}
	r.buf.WriteString(":" + n.Name)
	return nil
}

func (r *renderer) VisitSubquery(n *expr.SubqueryExpression) error {
	r.buf.WriteString("(" + n.Query + ")")
	return nil
}

// Predicates. A negated predicate renders its native negated form.

// VisitCompound joins the children with the operator keyword. A nested
// compound is always parenthesized; a negated one renders as not (...).
func (r *renderer) VisitCompound(p *expr.CompoundPredicate) error {
	if len(p.Children) == 0 {
		panic(&expr.StructuralError{Code: expr.ErrCodeEmptyList, Message: "compound predicate without children"})
	}
	if p.Negated {
		r.buf.WriteString("not (")
	}
	for i, c := range p.Children {
		if i > 0 {
			r.buf.WriteString(" " + p.Operator.String() + " ")
		}
		nested, ok := c.(*expr.CompoundPredicate)
		wrap := ok && nested != nil && !nested.Negated
		if wrap {
			r.buf.WriteByte('(')
		}
		if err := r.visit(c); err != nil {
			return err
		}
		if wrap {
			r.buf.WriteByte(')')
		}
	}
	if p.Negated {
		r.buf.WriteByte(')')
	}
	return nil
}

func pick(negated bool, plain, negatedForm string) string {
	if negated {
		return negatedForm
	}
	return plain
}

func (r *renderer) VisitEq(p *expr.EqPredicate) error {
	return r.emit(p.Left, pick(p.Negated, " = ", " <> "), p.Right)
}

func (r *renderer) VisitGt(p *expr.GtPredicate) error {
	return r.emit(p.Left, pick(p.Negated, " > ", " <= "), p.Right)
}

func (r *renderer) VisitGe(p *expr.GePredicate) error {
	return r.emit(p.Left, pick(p.Negated, " >= ", " < "), p.Right)
}

func (r *renderer) VisitLt(p *expr.LtPredicate) error {
	return r.emit(p.Left, pick(p.Negated, " < ", " >= "), p.Right)
}

func (r *renderer) VisitLe(p *expr.LePredicate) error {
	return r.emit(p.Left, pick(p.Negated, " <= ", " > "), p.Right)
}

func (r *renderer) VisitBetween(p *expr.BetweenPredicate) error {
	return r.emit(p.Left, pick(p.Negated, " between ", " not between "), p.Start, " and ", p.End)
}

func (r *renderer) VisitIn(p *expr.InPredicate) error {
	if len(p.Right) == 0 {
		panic(&expr.StructuralError{Code: expr.ErrCodeEmptyList, Message: "in predicate without candidates"})
	}
	if err := r.emit(p.Left, pick(p.Negated, " in (", " not in (")); err != nil {
		return err
	}
	if err := r.list(p.Right, ", "); err != nil {
		return err
	}
	r.buf.WriteByte(')')
	return nil
}

// VisitLike upper-cases both sides of a case-insensitive match.
func (r *renderer) VisitLike(p *expr.LikePredicate) error {
	op := pick(p.Negated, " like ", " not like ")
	var err error
	if p.CaseSensitive {
		err = r.emit(p.Left, op, p.Pattern)
	} else {
		err = r.emit("upper(", p.Left, ")"+op+"upper(", p.Pattern, ")")
	}
	if err != nil || p.Escape == nil {
		return err
	}
	return r.emit(" escape ", p.Escape)
}

func (r *renderer) VisitIsNull(p *expr.IsNullPredicate) error {
	return r.emit(p.Expression, pick(p.Negated, " is null", " is not null"))
}

func (r *renderer) VisitIsEmpty(p *expr.IsEmptyPredicate) error {
	return r.emit(p.Expression, pick(p.Negated, " is empty", " is not empty"))
}

func (r *renderer) VisitMemberOf(p *expr.MemberOfPredicate) error {
	return r.emit(p.Left, pick(p.Negated, " member of ", " not member of "), p.Right)
}

func (r *renderer) VisitExists(p *expr.ExistsPredicate) error {
	return r.emit(pick(p.Negated, "exists ", "not exists "), p.Subquery)
}
