package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/exprsql/internal/dialect"
	"github.com/roach88/exprsql/internal/harness"
)

// LimitOptions holds flags for the limit command.
type LimitOptions struct {
	*RootOptions
	Offset int64
	Limit  int64
	Args   []string // existing statement arguments
}

// LimitOutput is a statement after row limiting.
type LimitOutput struct {
	Dialect string `json:"dialect"`
	SQL     string `json:"sql"`
	Args    []any  `json:"args"`
}

// Text renders the statement and its arguments.
func (o LimitOutput) Text() string {
	args, err := harness.FormatArgs(o.Args)
	if err != nil {
		args = fmt.Sprint(o.Args)
	}
	return fmt.Sprintf("%s\nargs: %s\n", o.SQL, args)
}

// NewLimitCommand creates the limit command.
func NewLimitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LimitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "limit <sql>",
		Short: "Apply dialect row limiting to a statement",
		Long: `Apply a dialect's row limiting to an already parameterized statement.

Arguments given with --arg keep their positions; the offset and limit
values are appended after them.

Example:
  exprsql limit "select * from t where a = ?" --dialect mysql --arg 1 --offset 5 --limit 10
  exprsql limit "select * from t" --dialect oracle --limit 10`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLimit(opts, args[0], cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.Offset, "offset", 0, "rows to skip")
	cmd.Flags().Int64Var(&opts.Limit, "limit", 0, "maximum rows to return")
	cmd.Flags().StringArrayVar(&opts.Args, "arg", nil, "existing statement argument (repeatable)")

	return cmd
}

func runLimit(opts *LimitOptions, sql string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	d, err := dialect.Lookup(opts.dialectName(""))
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeUnknownDialect, "unknown dialect", err)
	}

	stmt := dialect.Statement{SQL: sql, Args: []any{}}
	for _, raw := range opts.Args {
		v, err := parseValue(raw)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeGeneric, "invalid --arg", err)
		}
		stmt.Args = append(stmt.Args, v)
	}

	// Unset flags mean no bound, which differs from an explicit zero.
	var offset, limit *int64
	if cmd.Flags().Changed("offset") {
		offset = &opts.Offset
	}
	if cmd.Flags().Changed("limit") {
		limit = &opts.Limit
	}

	out, err := d.ApplyLimit(stmt, offset, limit)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeLimitFailed, "row limiting failed", err)
	}
	formatter.VerboseLog("Applied %s row limiting (%d args)", d.Name(), len(out.Args))

	return formatter.Success(LimitOutput{Dialect: d.Name(), SQL: out.SQL, Args: out.Args})
}
