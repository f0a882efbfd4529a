package exprdoc

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/exprsql/internal/expr"
	"github.com/roach88/exprsql/internal/typeconv"
)

// Build converts a decoded expression node into an expression tree.
//
// node is the generic form produced by decoding YAML or CUE: maps with a
// single key naming the node kind, lists, and scalars. Bare scalars are
// shorthand: a string is a path, a number a numeric literal, a boolean a
// boolean literal and null the null literal.
func Build(node any) (expr.Expression, error) {
	b := &builder{}
	e := b.expression(node, "$")
	if b.err != nil {
		return nil, b.err
	}
	return e, nil
}

// builder keeps the first error. Once set, every method returns nil
// without looking at its input.
type builder struct {
	err error
}

func (b *builder) fail(loc, format string, args ...any) {
	if b.err == nil {
		b.err = &DecodeError{Code: ErrCodeInvalidNode, Message: fmt.Sprintf(format, args...), Location: loc}
	}
}

func (b *builder) expression(node any, loc string) expr.Expression {
	if b.err != nil {
		return nil
	}
	switch v := node.(type) {
	case nil:
		return expr.Null()
	case string:
		return b.path(v, loc)
	case bool:
		return expr.Bool(v)
	case map[string]any:
		return b.keyed(v, loc)
	case []any:
		b.fail(loc, "expected an expression, got a list")
		return nil
	}
	if n, ok := numberText(node); ok {
		return bareNumber(n)
	}
	b.fail(loc, "unsupported value %v of type %s", node, typeconv.TypeName(node))
	return nil
}

func (b *builder) predicate(node any, loc string) expr.Predicate {
	e := b.expression(node, loc)
	if e == nil {
		return nil
	}
	p, ok := e.(expr.Predicate)
	if !ok {
		b.fail(loc, "expected a predicate")
		return nil
	}
	return p
}

func (b *builder) keyed(m map[string]any, loc string) expr.Expression {
	if len(m) != 1 {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.fail(loc, "expression node needs exactly one key, got [%s]", strings.Join(keys, ", "))
		return nil
	}
	var kind string
	var arg any
	for k, v := range m {
		kind, arg = k, v
	}
	at := loc + "." + kind

	if nt, ok := numericKinds[kind]; ok {
		text, ok := numberText(arg)
		if !ok {
			text, ok = arg.(string)
		}
		if !ok {
			b.fail(at, "expected a number")
			return nil
		}
		return &expr.NumericLiteral{Value: text, Type: nt}
	}

	switch kind {
	// Literals
	case "path":
		return b.path(b.str(arg, at), at)
	case "bool":
		v, ok := arg.(bool)
		if !ok {
			b.fail(at, "expected a boolean")
		}
		return expr.Bool(v)
	case "string":
		return expr.Str(b.str(arg, at))
	case "date":
		return expr.Date(b.time(arg, at, typeconv.DateLayout))
	case "time":
		return expr.Time(b.time(arg, at, typeconv.TimeLayout))
	case "timestamp":
		return expr.Timestamp(b.time(arg, at, time.RFC3339Nano, typeconv.TimestampLayout))
	case "enum":
		ref, val := b.reference(arg, at)
		return expr.Enum(ref, val)
	case "entity":
		ref, val := b.reference(arg, at)
		return &expr.EntityLiteral{Original: ref, Value: val}
	case "null":
		return expr.Null()
	case "literal":
		return expr.Literal(scalar(arg))
	case "uuid":
		id, err := uuid.Parse(b.str(arg, at))
		if err != nil && b.err == nil {
			b.fail(at, "invalid uuid: %v", err)
		}
		return expr.Literal(id)
	case "param":
		return expr.Param(b.str(arg, at))
	case "subquery":
		return expr.Subquery(b.str(arg, at))

	// Paths
	case "key":
		return expr.Key(b.pathArg(arg, at))
	case "value":
		return expr.Value(b.pathArg(arg, at))
	case "entry":
		return expr.Entry(b.pathArg(arg, at))
	case "index":
		return expr.ListIndex(b.pathArg(arg, at))
	case "treat":
		f := b.fields(arg, at, "path", "as")
		b.required(f, at, "path", "as")
		return expr.Treat(b.expression(f["path"], at+".path"), b.str(f["as"], at+".as"))

	// Compound expressions
	case "add", "sub", "mul", "div":
		ops := b.operands(arg, at, 2)
		op, _ := expr.ParseArithmeticOperator(arithmeticSymbols[kind])
		return &expr.ArithmeticExpression{Left: ops[0], Right: ops[1], Op: op}
	case "neg":
		return expr.Neg(b.expression(arg, at))
	case "func", "aggregate":
		f := b.fields(arg, at, "name", "args", "distinct")
		b.required(f, at, "name")
		name := b.str(f["name"], at+".name")
		args := b.list(f["args"], at+".args")
		if kind == "func" {
			return expr.Func(name, args...)
		}
		distinct, _ := f["distinct"].(bool)
		return expr.Aggregate(name, distinct, args...)
	case "type":
		return expr.TypeOf(b.expression(arg, at))
	case "trim":
		return b.trim(arg, at)
	case "case":
		return b.caseExpr(arg, at)

	// Predicates
	case "eq", "ne", "gt", "ge", "lt", "le", "member_of":
		ops := b.operands(arg, at, 2)
		return comparison(kind, ops[0], ops[1])
	case "between":
		ops := b.operands(arg, at, 3)
		return expr.Between(ops[0], ops[1], ops[2])
	case "in":
		ops := b.list(arg, at)
		if b.err == nil && len(ops) < 2 {
			b.fail(at, "in needs a subject and at least one candidate")
		}
		if b.err != nil {
			return nil
		}
		return expr.In(ops[0], ops[1:]...)
	case "like":
		return b.like(arg, at)
	case "is_null":
		return expr.IsNull(b.expression(arg, at))
	case "is_empty":
		return expr.IsEmpty(b.expression(arg, at))
	case "exists":
		return expr.Exists(b.expression(arg, at))
	case "and", "or":
		items, ok := arg.([]any)
		if !ok || len(items) == 0 {
			b.fail(at, "expected a non-empty list of predicates")
			return nil
		}
		children := make([]expr.Predicate, len(items))
		for i, it := range items {
			children[i] = b.predicate(it, fmt.Sprintf("%s[%d]", at, i))
		}
		if kind == "and" {
			return expr.AndOf(children...)
		}
		return expr.OrOf(children...)
	case "not":
		p := b.predicate(arg, at)
		if p == nil {
			return nil
		}
		return p.Negate()
	}

	b.fail(loc, "unknown expression kind %q", kind)
	return nil
}

var numericKinds = map[string]expr.NumericType{
	"int":     expr.NumericInteger,
	"long":    expr.NumericLong,
	"bigint":  expr.NumericBigInteger,
	"float":   expr.NumericFloat,
	"double":  expr.NumericDouble,
	"decimal": expr.NumericBigDecimal,
}

var arithmeticSymbols = map[string]string{"add": "+", "sub": "-", "mul": "*", "div": "/"}

func comparison(kind string, l, r expr.Expression) expr.Predicate {
	switch kind {
	case "eq":
		return expr.Eq(l, r)
	case "ne":
		return expr.Eq(l, r).Negate()
	case "gt":
		return expr.Gt(l, r)
	case "ge":
		return expr.Ge(l, r)
	case "lt":
		return expr.Lt(l, r)
	case "le":
		return expr.Le(l, r)
	default:
		return expr.MemberOf(l, r)
	}
}

func (b *builder) str(v any, loc string) string {
	s, ok := v.(string)
	if !ok && b.err == nil {
		b.fail(loc, "expected a string")
	}
	return s
}

// time parses v with the first matching layout.
func (b *builder) time(v any, loc string, layouts ...string) time.Time {
	if t, ok := v.(time.Time); ok {
		return t
	}
	s := b.str(v, loc)
	if b.err != nil {
		return time.Time{}
	}
	var err error
	for _, layout := range layouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t
		}
	}
	b.fail(loc, "invalid time %q: %v", s, err)
	return time.Time{}
}

// reference accepts "Status.ACTIVE" or {ref: Status.ACTIVE, value: ACTIVE}.
func (b *builder) reference(v any, loc string) (string, any) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	f := b.fields(v, loc, "ref", "value")
	b.required(f, loc, "ref")
	return b.str(f["ref"], loc+".ref"), scalar(f["value"])
}

// fields checks that v is a map holding only the allowed keys.
func (b *builder) fields(v any, loc string, allowed ...string) map[string]any {
	if b.err != nil {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		b.fail(loc, "expected a mapping with keys %s", strings.Join(allowed, ", "))
		return nil
	}
	for k := range m {
		known := false
		for _, a := range allowed {
			if k == a {
				known = true
				break
			}
		}
		if !known {
			b.fail(loc+"."+k, "unknown field %q", k)
			return nil
		}
	}
	return m
}

// required fails unless f holds key.
func (b *builder) required(f map[string]any, loc string, keys ...string) {
	if b.err != nil {
		return
	}
	for _, k := range keys {
		if _, ok := f[k]; !ok {
			b.fail(loc, "missing field %q", k)
			return
		}
	}
}

func (b *builder) list(v any, loc string) []expr.Expression {
	if v == nil || b.err != nil {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		b.fail(loc, "expected a list")
		return nil
	}
	out := make([]expr.Expression, len(items))
	for i, it := range items {
		out[i] = b.expression(it, fmt.Sprintf("%s[%d]", loc, i))
	}
	return out
}

func (b *builder) operands(v any, loc string, n int) []expr.Expression {
	ops := b.list(v, loc)
	if b.err == nil && len(ops) != n {
		b.fail(loc, "expected %d operands, got %d", n, len(ops))
	}
	if b.err != nil {
		return make([]expr.Expression, n)
	}
	return ops
}

func (b *builder) pathArg(v any, loc string) *expr.PathExpression {
	e := b.expression(v, loc)
	p, ok := e.(*expr.PathExpression)
	if !ok && b.err == nil {
		b.fail(loc, "expected a path")
	}
	return p
}

// path parses dotted navigation. A segment may carry one index suffix:
// contacts[1] or contacts[:i].
func (b *builder) path(s, loc string) *expr.PathExpression {
	if b.err != nil {
		return nil
	}
	var elements []expr.PathElement
	for _, seg := range strings.Split(s, ".") {
		if seg == "" {
			b.fail(loc, "empty segment in path %q", s)
			return nil
		}
		open := strings.IndexByte(seg, '[')
		if open < 0 {
			elements = append(elements, expr.Prop(seg))
			continue
		}
		if open == 0 || !strings.HasSuffix(seg, "]") {
			b.fail(loc, "malformed index in path %q", s)
			return nil
		}
		idx := seg[open+1 : len(seg)-1]
		var index expr.Expression
		switch {
		case strings.HasPrefix(idx, ":") && len(idx) > 1:
			index = expr.Param(idx[1:])
		case idx != "" && strings.Trim(idx, "0123456789") == "":
			index = expr.Int(idx)
		default:
			b.fail(loc, "malformed index in path %q", s)
			return nil
		}
		elements = append(elements, expr.Index(seg[:open], index))
	}
	return expr.PathOf(elements...)
}

func (b *builder) trim(v any, loc string) expr.Expression {
	f := b.fields(v, loc, "spec", "char", "from")
	b.required(f, loc, "from")
	if b.err != nil {
		return nil
	}
	spec := expr.TrimBoth
	if s, ok := f["spec"]; ok {
		name := b.str(s, loc+".spec")
		parsed, ok := expr.ParseTrimSpec(name)
		if !ok && b.err == nil {
			b.fail(loc+".spec", "unknown trim spec %q", name)
		}
		spec = parsed
	}
	var char expr.Expression
	if c, ok := f["char"]; ok {
		char = b.expression(c, loc+".char")
	}
	return expr.Trim(spec, char, b.expression(f["from"], loc+".from"))
}

func (b *builder) caseExpr(v any, loc string) expr.Expression {
	f := b.fields(v, loc, "operand", "when", "else")
	if f == nil {
		return nil
	}
	items, ok := f["when"].([]any)
	if !ok || len(items) == 0 {
		b.fail(loc+".when", "case needs at least one when clause")
		return nil
	}
	whens := make([]*expr.WhenClauseExpression, len(items))
	for i, it := range items {
		at := fmt.Sprintf("%s.when[%d]", loc, i)
		wf := b.fields(it, at, "if", "then")
		b.required(wf, at, "if", "then")
		whens[i] = expr.When(b.expression(wf["if"], at+".if"), b.expression(wf["then"], at+".then"))
	}
	if _, ok := f["else"]; !ok {
		b.fail(loc, "case needs an else branch")
		return nil
	}
	def := b.expression(f["else"], loc+".else")
	if b.err != nil {
		return nil
	}
	if op, ok := f["operand"]; ok {
		return expr.SimpleCase(b.expression(op, loc+".operand"), def, whens...)
	}
	return expr.Case(def, whens...)
}

// like accepts [subject, pattern] or a mapping with left, pattern and the
// optional escape and case_sensitive fields.
func (b *builder) like(v any, loc string) expr.Expression {
	if _, ok := v.([]any); ok {
		ops := b.operands(v, loc, 2)
		return expr.Like(ops[0], ops[1])
	}
	f := b.fields(v, loc, "left", "pattern", "escape", "case_sensitive")
	b.required(f, loc, "left", "pattern")
	if b.err != nil {
		return nil
	}
	p := &expr.LikePredicate{
		Left:          b.expression(f["left"], loc+".left"),
		Pattern:       b.expression(f["pattern"], loc+".pattern"),
		CaseSensitive: true,
	}
	if e, ok := f["escape"]; ok {
		p.Escape = b.expression(e, loc+".escape")
	}
	if cs, ok := f["case_sensitive"].(bool); ok {
		p.CaseSensitive = cs
	}
	return p
}

// numberText returns the decimal text of a decoded number.
func numberText(v any) (string, bool) {
	switch n := v.(type) {
	case *big.Int:
		return n.String(), true
	case *big.Float:
		return n.Text('g', -1), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64), true
	}
	return "", false
}

// bareNumber picks the narrowest numeric literal type for a bare number.
func bareNumber(text string) *expr.NumericLiteral {
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		if n >= math.MinInt32 && n <= math.MaxInt32 {
			return expr.Int(text)
		}
		return expr.Long(text)
	}
	if _, ok := new(big.Int).SetString(text, 10); ok {
		return expr.BigInt(text)
	}
	return expr.Double(text)
}

// scalar normalizes a decoded value for a LiteralExpression: signed
// integers become int64, unsigned ones uint64 and floats float64.
func scalar(v any) any {
	switch n := v.(type) {
	case nil, string, bool:
		return v
	case *big.Int:
		if n.IsInt64() {
			return n.Int64()
		}
		return n
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint()
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	}
	return v
}
