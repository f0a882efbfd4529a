package harness

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/exprsql/internal/dialect"
	"github.com/roach88/exprsql/internal/expr"
	"github.com/roach88/exprsql/internal/querygen"
)

// Harness renders scenarios. The zero value is not usable; use New.
type Harness struct {
	logger *slog.Logger
}

// New returns a Harness logging to logger. A nil logger discards output.
func New(logger *slog.Logger) *Harness {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests
	}
	return &Harness{logger: logger}
}

// Run executes a scenario with a silent harness.
func Run(scenario *Scenario) (*Result, error) {
	return New(nil).Run(scenario)
}

// Run renders every case of scenario for every dialect and checks the
// expectations.
//
// Render failures are outputs, not errors: they are recorded per dialect
// and compared with the case's expected error. Run itself fails only for
// scenarios that cannot be executed at all (unknown dialect, undecodable
// expression).
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	names := scenario.Dialects
	if len(names) == 0 {
		names = dialect.Names()
	}

	result := NewResult()
	for _, c := range scenario.Cases {
		tree, err := c.Tree()
		if err != nil {
			return nil, fmt.Errorf("case %s: %w", c.Name, err)
		}
		clause, err := querygen.ParseClause(c.ClauseName())
		if err != nil {
			return nil, fmt.Errorf("case %s: %w", c.Name, err)
		}

		caseDialects := names
		if c.Dialect != "" {
			caseDialects = []string{c.Dialect}
		}
		for _, name := range caseDialects {
			d, err := dialect.Lookup(name)
			if err != nil {
				return nil, fmt.Errorf("case %s: %w", c.Name, err)
			}

			out := h.render(&c, d, tree, clause)
			for _, msg := range checkExpect(out, c.Expect.For(d.Name())) {
				result.AddError(msg)
			}
			result.AddOutput(out)
		}
	}

	h.logger.Debug("scenario complete",
		"scenario", scenario.Name,
		"outputs", len(result.Outputs),
		"pass", result.Pass)
	return result, nil
}

// render produces the output of one case for one dialect.
func (h *Harness) render(c *Case, d dialect.Dialect, tree expr.Expression, clause querygen.Clause) Output {
	out := Output{Case: c.Name, Dialect: d.Name()}

	gen, err := querygen.New(d, querygen.WithLogger(h.logger))
	if err != nil {
		out.Error = err.Error()
		return out
	}
	res, err := gen.Render(tree, clause)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Rendered = res.SQL

	if c.Query != "" {
		res.SQL = strings.ReplaceAll(c.Query, ExprMarker, res.SQL)
	}
	stmt, err := res.Statement(d, c.Params)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	stmt, err = d.ApplyLimit(stmt, c.Offset, c.Limit)
	if err != nil {
		out.Error = err.Error()
		return out
	}

	out.SQL, out.Args = stmt.SQL, stmt.Args
	return out
}
