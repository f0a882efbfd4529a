package querygen

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"

	"github.com/roach88/exprsql/internal/dialect"
	"github.com/roach88/exprsql/internal/expr"
	"github.com/roach88/exprsql/internal/function"
)

// DefaultParameterPrefix prefixes the names of generated bindings.
const DefaultParameterPrefix = "param_"

// Generator renders expression trees for one dialect.
//
// A Generator holds only configuration. Each Render call uses its own
// buffer and binding list, so one Generator may serve concurrent renders
// of different trees.
type Generator struct {
	dialect dialect.Dialect
	funcs   *function.Registry
	logger  *slog.Logger
	prefix  string
	strict  bool
}

// Option configures a Generator.
type Option func(*Generator)

// WithFunctions sets the registry consulted for function calls. The
// registry must be built for the generator's dialect.
func WithFunctions(r *function.Registry) Option {
	return func(g *Generator) { g.funcs = r }
}

// WithLogger sets the logger receiving debug records. The default
// discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithParameterPrefix sets the prefix of generated binding names.
func WithParameterPrefix(prefix string) Option {
	return func(g *Generator) { g.prefix = prefix }
}

// WithStrictFunctions makes New fail when the dialect lacks a capability
// a built-in function may need, such as distinct tuple counting, instead
// of failing when such a call is rendered.
func WithStrictFunctions() Option {
	return func(g *Generator) { g.strict = true }
}

// New returns a Generator for d.
//
// Without WithFunctions the generator uses function.NewRegistry(d).
func New(d dialect.Dialect, opts ...Option) (*Generator, error) {
	if d == nil {
		return nil, errors.New("querygen: nil dialect")
	}
	g := &Generator{dialect: d, prefix: DefaultParameterPrefix}
	for _, opt := range opts {
		opt(g)
	}

	if g.logger == nil {
		g.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if !validPrefix(g.prefix) {
		return nil, fmt.Errorf("querygen: invalid parameter prefix %q", g.prefix)
	}
	if g.strict {
		if _, ok := d.(dialect.TupleCounter); !ok {
			return nil, fmt.Errorf("querygen: %w", &function.UnsupportedError{
				Function: function.CountTupleName, Dialect: d.Name(), Feature: "distinct multi-column count"})
		}
	}
	if g.funcs == nil {
		r, err := function.NewRegistry(d)
		if err != nil {
			return nil, fmt.Errorf("querygen: %w", err)
		}
		g.funcs = r
	} else if g.funcs.Dialect().Name() != d.Name() {
		return nil, fmt.Errorf("querygen: function registry built for %s, generator for %s",
			g.funcs.Dialect().Name(), d.Name())
	}
	return g, nil
}

// Dialect returns the generator's dialect.
func (g *Generator) Dialect() dialect.Dialect {
	return g.dialect
}

// Binding is a named parameter value produced by rendering.
type Binding struct {
	Name  string
	Value any
	Type  reflect.Type
}

// Result is rendered SQL text plus the bindings its placeholders refer to.
type Result struct {
	SQL string

	// Bindings are the generated parameters in order of first appearance.
	Bindings []Binding

	// Parameters are the names of parameter expressions found in the tree,
	// in order of first appearance. Their values come from the caller.
	Parameters []string
}

// Statement rewrites the named placeholders in r.SQL to d's positional
// syntax. Generated bindings supply their own values; parameter
// expressions are looked up in params.
func (r *Result) Statement(d dialect.Dialect, params map[string]any) (dialect.Statement, error) {
	byName := make(map[string]any, len(r.Bindings))
	for _, b := range r.Bindings {
		byName[b.Name] = b.Value
	}
	return dialect.BindNamed(d, r.SQL, func(name string) (any, bool) {
		if v, ok := byName[name]; ok {
			return v, true
		}
		v, ok := params[name]
		return v, ok
	})
}

// Render renders e as it would appear in clause.
//
// A malformed tree (nil required child, empty path, incomplete case) is
// returned as *expr.StructuralError. Values that cannot be rendered and
// failing function calls are returned as *RenderError.
func (g *Generator) Render(e expr.Expression, clause Clause) (res *Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			se, ok := rec.(*expr.StructuralError)
			if !ok {
				panic(rec)
			}
			res, err = nil, se
		}
	}()

	r := newRenderer(g, clause, expr.CollectParameters(e))
	if err := expr.Accept[error](e, r); err != nil {
		return nil, err
	}

	res = &Result{SQL: r.buf.String(), Bindings: r.bindings, Parameters: r.params}
	g.logger.Debug("render complete",
		"dialect", g.dialect.Name(),
		"clause", clause.String(),
		"bindings", len(res.Bindings),
		"parameters", len(res.Parameters))
	return res, nil
}

func validPrefix(p string) bool {
	if p == "" {
		return false
	}
	for i := 0; i < len(p); i++ {
		c := p[i]
		letter := c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
		if !letter && (i == 0 || c < '0' || c > '9') {
			return false
		}
	}
	return true
}
