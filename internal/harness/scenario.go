package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/exprsql/internal/dialect"
	"github.com/roach88/exprsql/internal/exprdoc"
	"github.com/roach88/exprsql/internal/querygen"
)

// ExprMarker is replaced by the rendered expression in a case query.
const ExprMarker = "{expr}"

// Scenario is a named set of cases rendered for a list of dialects.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario pins down.
	Description string `yaml:"description"`

	// Dialects lists the dialects every case is rendered for. Empty means
	// all registered dialects.
	Dialects []string `yaml:"dialects,omitempty"`

	// Cases are rendered in order.
	Cases []Case `yaml:"cases"`
}

// Case is one expression document plus what to check about its output.
type Case struct {
	exprdoc.Document `yaml:",inline"`

	// Query wraps the rendered expression. It must contain ExprMarker.
	// Empty means the expression alone.
	Query string `yaml:"query,omitempty"`

	// Expect is optional.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect holds the expectations of a case.
type Expect struct {
	// SQL is the exact rendered expression before placeholders are bound.
	SQL string `yaml:"sql,omitempty"`

	// Error is a substring the render error must contain. A case without
	// Error must render without error.
	Error string `yaml:"error,omitempty"`

	// Dialects replaces the expectation for the named dialects.
	Dialects map[string]Expect `yaml:"dialects,omitempty"`
}

// For returns the expectation that applies to dialect name.
func (e *Expect) For(name string) Expect {
	if e == nil {
		return Expect{}
	}
	if o, ok := e.Dialects[name]; ok {
		return o
	}
	return Expect{SQL: e.SQL, Error: e.Error}
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field checking.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // catches typos like "case:" vs "cases:"
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadScenarios loads every .yaml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	for _, name := range s.Dialects {
		if _, err := dialect.Lookup(name); err != nil {
			return err
		}
	}

	seen := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		if c.Name == "" {
			return fmt.Errorf("cases[%d]: name is required", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("cases[%d]: duplicate case name %q", i, c.Name)
		}
		seen[c.Name] = true

		if c.Expression == nil {
			return fmt.Errorf("cases[%d]: expression is required", i)
		}
		if _, err := querygen.ParseClause(c.ClauseName()); err != nil {
			return fmt.Errorf("cases[%d]: %w", i, err)
		}
		if c.Dialect != "" {
			if _, err := dialect.Lookup(c.Dialect); err != nil {
				return fmt.Errorf("cases[%d]: %w", i, err)
			}
		}
		if c.Query != "" && !strings.Contains(c.Query, ExprMarker) {
			return fmt.Errorf("cases[%d]: query must contain %s", i, ExprMarker)
		}
	}
	return nil
}
