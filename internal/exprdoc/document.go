// Package exprdoc reads expression documents: YAML or CUE files that
// describe an expression tree together with the options it is rendered
// with.
//
// A document looks like this in YAML:
//
//	dialect: postgresql
//	clause: where
//	limit: 10
//	params:
//	  minAge: 30
//	expression:
//	  and:
//	    - eq: [e.dept, {string: eng}]
//	    - ge: [e.age, {param: minAge}]
//
// CUE documents carry the same fields and are checked against the
// #Document schema before decoding.
package exprdoc

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/exprsql/internal/expr"
)

//go:embed schema.cue
var schemaCUE string

// Document is a decoded expression document.
type Document struct {
	// Name identifies the document in output. Optional.
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// Dialect is a dialect registry name. Optional; the caller supplies a
	// default.
	Dialect string `yaml:"dialect,omitempty" json:"dialect,omitempty"`

	// Clause is the clause the expression renders in. Defaults to "where".
	Clause string `yaml:"clause,omitempty" json:"clause,omitempty"`

	// Offset and Limit request row limiting of the rendered statement.
	Offset *int64 `yaml:"offset,omitempty" json:"offset,omitempty"`
	Limit  *int64 `yaml:"limit,omitempty" json:"limit,omitempty"`

	// Params supplies values for parameter expressions.
	Params map[string]any `yaml:"params,omitempty" json:"params,omitempty"`

	// Expression is the undecoded expression node. See Build.
	Expression any `yaml:"expression" json:"expression"`
}

// DefaultClause is used when a document names no clause.
const DefaultClause = "where"

// ClauseName returns the document clause or DefaultClause.
func (d *Document) ClauseName() string {
	if d.Clause == "" {
		return DefaultClause
	}
	return d.Clause
}

// Tree builds and validates the document's expression.
func (d *Document) Tree() (expr.Expression, error) {
	if d.Expression == nil {
		return nil, &DecodeError{Code: ErrCodeMissingField, Message: "document has no expression", Location: "$"}
	}
	e, err := Build(d.Expression)
	if err != nil {
		return nil, err
	}
	if err := expr.Validate(e); err != nil {
		return nil, err
	}
	return e, nil
}

// LoadFile reads a document, choosing the format by extension: .cue for
// CUE, .yaml or .yml for YAML.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	switch ext := filepath.Ext(path); ext {
	case ".cue":
		return ParseCUE(data, path)
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return nil, &DecodeError{Code: ErrCodeFormat, Message: fmt.Sprintf("unsupported document extension %q", ext)}
	}
}

// ParseYAML decodes a YAML document. Unknown top-level fields are
// rejected.
func ParseYAML(data []byte) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &DecodeError{Code: ErrCodeMissingField, Message: "empty document"}
		}
		return nil, &DecodeError{Code: ErrCodeFormat, Message: fmt.Sprintf("failed to parse YAML: %v", err)}
	}
	if err := checkBounds(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ParseCUE evaluates a CUE document, unifies it with #Document and decodes
// the result. filename is used in error positions.
func ParseCUE(data []byte, filename string) (*Document, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile document schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Document"))

	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, &DecodeError{Code: ErrCodeFormat, Message: fmt.Sprintf("failed to compile CUE: %v", err)}
	}

	unified := def.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, &DecodeError{Code: ErrCodeSchema, Message: err.Error()}
	}

	var doc Document
	if err := unified.Decode(&doc); err != nil {
		return nil, &DecodeError{Code: ErrCodeFormat, Message: fmt.Sprintf("failed to decode CUE: %v", err)}
	}
	return &doc, nil
}

func checkBounds(doc *Document) error {
	if doc.Offset != nil && *doc.Offset < 0 {
		return &DecodeError{Code: ErrCodeSchema, Message: fmt.Sprintf("offset must not be negative, got %d", *doc.Offset), Location: "$.offset"}
	}
	if doc.Limit != nil && *doc.Limit < 0 {
		return &DecodeError{Code: ErrCodeSchema, Message: fmt.Sprintf("limit must not be negative, got %d", *doc.Limit), Location: "$.limit"}
	}
	return nil
}
