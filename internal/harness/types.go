package harness

// Output is what one case produced for one dialect.
type Output struct {
	Case    string `json:"case"`
	Dialect string `json:"dialect"`

	// Rendered is the expression text before binding.
	Rendered string `json:"rendered,omitempty"`

	// SQL and Args are the final statement: query applied, placeholders
	// bound and rows limited.
	SQL  string `json:"sql,omitempty"`
	Args []any  `json:"args,omitempty"`

	// Error is set instead of SQL when rendering failed.
	Error string `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every expectation matched.
	Pass bool `json:"pass"`

	// Outputs are ordered by case, then by dialect.
	Outputs []Output `json:"outputs"`

	// Errors contains expectation failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Outputs: []Output{},
		Errors:  []string{},
	}
}

// AddError adds an expectation failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddOutput appends the output of one case and dialect.
func (r *Result) AddOutput(o Output) {
	r.Outputs = append(r.Outputs, o)
}
