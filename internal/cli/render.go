package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/exprsql/internal/dialect"
	"github.com/roach88/exprsql/internal/expr"
	"github.com/roach88/exprsql/internal/exprdoc"
	"github.com/roach88/exprsql/internal/harness"
	"github.com/roach88/exprsql/internal/querygen"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Clause string   // overrides the document clause
	Params []string // name=value pairs, override document params
	Prefix string   // generated binding prefix

	ExpandNegation bool // push compound negation down to the leaves
	InlineParams   bool // replace parameters by literals before rendering
	Strict         bool // reject dialects lacking function capabilities up front
}

// BindingOutput describes one generated binding.
type BindingOutput struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
	Type  string `json:"type"`
}

// RenderOutput is the rendering of one document.
type RenderOutput struct {
	Path       string          `json:"path"`
	Name       string          `json:"name,omitempty"`
	Dialect    string          `json:"dialect"`
	Clause     string          `json:"clause"`
	Rendered   string          `json:"rendered"`
	SQL        string          `json:"sql"`
	Args       []any           `json:"args"`
	Bindings   []BindingOutput `json:"bindings,omitempty"`
	Parameters []string        `json:"parameters,omitempty"`
}

// RenderReport is the render command payload.
type RenderReport []RenderOutput

// Text renders the report as SQL lines followed by their arguments. With
// more than one document each block is headed by the document path.
func (r RenderReport) Text() string {
	var sb strings.Builder
	for i, o := range r {
		if len(r) > 1 {
			if i > 0 {
				sb.WriteByte('\n')
			}
			fmt.Fprintf(&sb, "-- %s\n", o.Path)
		}
		args, err := harness.FormatArgs(o.Args)
		if err != nil {
			args = fmt.Sprint(o.Args)
		}
		fmt.Fprintf(&sb, "%s\nargs: %s\n", o.SQL, args)
	}
	return sb.String()
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <document-or-dir>",
		Short: "Render expression documents as SQL",
		Long: `Render YAML or CUE expression documents as SQL for a dialect.

The expression is rendered in the document's clause, named placeholders
are rewritten to the dialect's positional syntax and the document's
offset/limit are applied.

Example:
  exprsql render ./filter.yaml
  exprsql render ./filter.cue --dialect mysql --param minAge=40
  exprsql render ./docs --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Clause, "clause", "", "clause to render in (default: document clause, then where)")
	cmd.Flags().StringArrayVarP(&opts.Params, "param", "p", nil, "parameter value as name=value (repeatable)")
	cmd.Flags().StringVar(&opts.Prefix, "prefix", querygen.DefaultParameterPrefix, "prefix of generated binding names")
	cmd.Flags().BoolVar(&opts.ExpandNegation, "expand-negation", false, "rewrite not (a and b) as not a or not b before rendering")
	cmd.Flags().BoolVar(&opts.InlineParams, "inline-params", false, "render parameter values as literals instead of binding them")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail unless the dialect supports every built-in function form")

	return cmd
}

func runRender(opts *RenderOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	params, err := parseParams(opts.Params)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "invalid --param", err)
	}

	loadResult, loadErrors := LoadDocuments(path, LoadModeFailFast)
	if len(loadErrors) > 0 {
		return failLoad(formatter, loadErrors[0])
	}
	formatter.VerboseLog("Found %d document(s) in %s", loadResult.FileCount, path)

	report := make(RenderReport, 0, len(loadResult.Documents))
	for _, ld := range loadResult.Documents {
		out, err := renderDocument(opts, ld, params, logger)
		if err != nil {
			code, exit := errorCode(err)
			return formatter.Fail(exit, code, fmt.Sprintf("failed to render %s", ld.Path), err)
		}
		report = append(report, *out)
	}
	return formatter.Success(report)
}

func renderDocument(opts *RenderOptions, ld LoadedDocument, params map[string]any, logger *slog.Logger) (*RenderOutput, error) {
	doc := ld.Document

	d, err := dialect.Lookup(opts.dialectName(doc.Dialect))
	if err != nil {
		return nil, coded(ErrCodeUnknownDialect, err)
	}

	clauseName := doc.ClauseName()
	if opts.Clause != "" {
		clauseName = opts.Clause
	}
	clause, err := querygen.ParseClause(clauseName)
	if err != nil {
		return nil, coded(ErrCodeInvalidClause, err)
	}

	tree, err := doc.Tree()
	if err != nil {
		return nil, err
	}

	merged := make(map[string]any, len(doc.Params)+len(params))
	for k, v := range doc.Params {
		merged[k] = v
	}
	for k, v := range params {
		merged[k] = v
	}

	if opts.ExpandNegation {
		tree = expr.ExpandNegation(tree)
	}
	if opts.InlineParams {
		literals := make(map[string]expr.Expression, len(merged))
		for k, v := range merged {
			literals[k] = expr.Literal(v)
		}
		tree = expr.ReplaceParameters(tree, literals)
	}

	genOpts := []querygen.Option{querygen.WithLogger(logger), querygen.WithParameterPrefix(opts.Prefix)}
	if opts.Strict {
		genOpts = append(genOpts, querygen.WithStrictFunctions())
	}
	gen, err := querygen.New(d, genOpts...)
	if err != nil {
		return nil, coded(ErrCodeGeneric, err)
	}
	res, err := gen.Render(tree, clause)
	if err != nil {
		return nil, coded(ErrCodeRenderFailed, err)
	}

	stmt, err := res.Statement(d, merged)
	if err != nil {
		return nil, coded(ErrCodeBindFailed, err)
	}
	stmt, err = d.ApplyLimit(stmt, doc.Offset, doc.Limit)
	if err != nil {
		return nil, coded(ErrCodeLimitFailed, err)
	}

	logger.Debug("document rendered", "path", ld.Path, "dialect", d.Name(), "args", len(stmt.Args))

	out := &RenderOutput{
		Path:       ld.Path,
		Name:       doc.Name,
		Dialect:    d.Name(),
		Clause:     clause.String(),
		Rendered:   res.SQL,
		SQL:        stmt.SQL,
		Args:       stmt.Args,
		Parameters: res.Parameters,
	}
	if out.Args == nil {
		out.Args = []any{}
	}
	for _, b := range res.Bindings {
		bo := BindingOutput{Name: b.Name, Value: b.Value, Type: "nil"}
		if b.Type != nil {
			bo.Type = b.Type.String()
		}
		out.Bindings = append(out.Bindings, bo)
	}
	return out, nil
}

// parseParams parses name=value pairs. Values are read as YAML scalars, so
// 30 is a number and true a boolean.
func parseParams(pairs []string) (map[string]any, error) {
	params := make(map[string]any, len(pairs))
	for _, p := range pairs {
		name, raw, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("expected name=value, got %q", p)
		}
		v, err := parseValue(raw)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", name, err)
		}
		params[name] = v
	}
	return params, nil
}

// parseValue reads a single YAML scalar. The empty string stays a string.
func parseValue(raw string) (any, error) {
	if raw == "" {
		return "", nil
	}
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
		return nil, err
	}
	switch v.(type) {
	case map[string]any, []any:
		return nil, fmt.Errorf("expected a scalar, got %q", raw)
	}
	return v, nil
}

// codedError attaches a CLI error code to an error.
type codedError struct {
	code string
	err  error
}

func (e *codedError) Error() string { return e.err.Error() }
func (e *codedError) Unwrap() error { return e.err }

func coded(code string, err error) error {
	return &codedError{code: code, err: err}
}

// errorCode returns the CLI code and exit code for err.
func errorCode(err error) (string, int) {
	var ce *codedError
	if errors.As(err, &ce) {
		if ce.code == ErrCodeUnknownDialect || ce.code == ErrCodeInvalidClause {
			return ce.code, ExitCommandError
		}
		return ce.code, ExitFailure
	}
	var de *exprdoc.DecodeError
	if errors.As(err, &de) {
		return MapDecodeErrorCode(de.Code), ExitFailure
	}
	return ErrCodeInvalidTree, ExitFailure
}

// failLoad reports a load error. Missing paths are command errors; broken
// documents are failures.
func failLoad(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}
	switch loadErr.Code {
	case ErrCodeNotFound, ErrCodeNoFiles, ErrCodeScanError:
		return formatter.Fail(ExitCommandError, loadErr.Code, loadErr.Message, nil)
	default:
		return formatter.Fail(ExitFailure, loadErr.Code, loadErr.Error(), nil)
	}
}
