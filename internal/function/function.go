// Package function renders extended built-in functions into native SQL.
//
// A Function receives its arguments already rendered to SQL text and
// writes its expansion into a RenderContext. Renderers never re-parse
// argument text beyond asking the dialect how many logical select items a
// fragment holds.
//
// Functions are collected in a Registry bound to one dialect. The query
// generator consults the registry for every function call it renders.
package function

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/exprsql/internal/dialect"
)

// Function expands one extended built-in.
type Function interface {
	// Name is the lower-case name the function is called by.
	Name() string

	// Render writes the expansion of ctx.Args into ctx.
	Render(ctx *RenderContext) error
}

// RenderContext holds the pre-rendered arguments of one call and collects
// the output text.
type RenderContext struct {
	Args []string

	buf strings.Builder
}

// NewRenderContext returns a context over args.
func NewRenderContext(args ...string) *RenderContext {
	return &RenderContext{Args: args}
}

// AddChunk appends literal SQL text.
func (c *RenderContext) AddChunk(s string) {
	c.buf.WriteString(s)
}

// AddArgument appends the text of argument i.
func (c *RenderContext) AddArgument(i int) {
	c.buf.WriteString(c.Args[i])
}

// String returns the text written so far.
func (c *RenderContext) String() string {
	return c.buf.String()
}

// UnsupportedError reports a function feature the dialect cannot express.
type UnsupportedError struct {
	Function string
	Dialect  string
	Feature  string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s: %s is not supported by dialect %s", e.Function, e.Feature, e.Dialect)
}

// IsUnsupported returns true if err is or wraps an UnsupportedError.
func IsUnsupported(err error) bool {
	var ue *UnsupportedError
	return errors.As(err, &ue)
}

// Registry maps function names to renderers for one dialect. It is
// immutable once built.
type Registry struct {
	dialect dialect.Dialect
	funcs   map[string]Function
}

type registryConfig struct {
	strictTupleCount bool
	extra            []Function
}

// Option configures NewRegistry.
type Option func(*registryConfig)

// StrictTupleCount makes NewRegistry fail when the dialect cannot count
// distinct multi-column tuples, instead of failing later when such a
// count is rendered.
func StrictTupleCount() Option {
	return func(c *registryConfig) { c.strictTupleCount = true }
}

// WithFunction registers f in addition to the built-ins. A function with
// a built-in's name replaces it.
func WithFunction(f Function) Option {
	return func(c *registryConfig) { c.extra = append(c.extra, f) }
}

// NewRegistry returns a registry holding the built-in functions for d.
func NewRegistry(d dialect.Dialect, opts ...Option) (*Registry, error) {
	if d == nil {
		return nil, errors.New("function registry: nil dialect")
	}
	var cfg registryConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.strictTupleCount {
		if _, ok := d.(dialect.TupleCounter); !ok {
			return nil, &UnsupportedError{Function: CountTupleName, Dialect: d.Name(), Feature: "distinct multi-column count"}
		}
	}

	r := &Registry{dialect: d, funcs: make(map[string]Function)}
	r.add(CountTuple{Dialect: d})
	for _, f := range cfg.extra {
		r.add(f)
	}
	return r, nil
}

func (r *Registry) add(f Function) {
	r.funcs[strings.ToLower(f.Name())] = f
}

// Dialect returns the dialect the registry renders for.
func (r *Registry) Dialect() dialect.Dialect {
	return r.dialect
}

// Lookup returns the function registered under name (case-insensitive).
func (r *Registry) Lookup(name string) (Function, bool) {
	if r == nil {
		return nil, false
	}
	f, ok := r.funcs[strings.ToLower(name)]
	return f, ok
}

// Names returns the registered function names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for n := range r.funcs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Render renders the named function over args.
func (r *Registry) Render(name string, args ...string) (string, error) {
	f, ok := r.Lookup(name)
	if !ok {
		return "", fmt.Errorf("unknown function %q", name)
	}
	ctx := NewRenderContext(args...)
	if err := f.Render(ctx); err != nil {
		return "", err
	}
	return ctx.String(), nil
}
