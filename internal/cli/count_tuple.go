package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/exprsql/internal/dialect"
	"github.com/roach88/exprsql/internal/function"
)

// CountTupleOptions holds flags for the count-tuple command.
type CountTupleOptions struct {
	*RootOptions
	Distinct bool
	Strict   bool
}

// CountTupleOutput is a rendered count_tuple call.
type CountTupleOutput struct {
	Dialect string   `json:"dialect"`
	Args    []string `json:"args"`
	Items   int      `json:"items"`
	SQL     string   `json:"sql"`
}

// Text returns the rendered SQL.
func (o CountTupleOutput) Text() string {
	return o.SQL + "\n"
}

// NewCountTupleCommand creates the count-tuple command.
func NewCountTupleCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CountTupleOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "count-tuple <arg>...",
		Short: "Render a count_tuple call",
		Long: `Render count_tuple over already rendered SQL arguments.

An argument may be a flattened composite ("a.x, a.y"); each of its items
is one tuple component.

Example:
  exprsql count-tuple "e.id" "e.dept"
  exprsql count-tuple --distinct "e.first, e.last" --dialect sqlite`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCountTuple(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Distinct, "distinct", false, "count distinct tuples")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail unless the dialect can count distinct tuples")

	return cmd
}

func runCountTuple(opts *CountTupleOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	d, err := dialect.Lookup(opts.dialectName(""))
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeUnknownDialect, "unknown dialect", err)
	}

	var regOpts []function.Option
	if opts.Strict {
		regOpts = append(regOpts, function.StrictTupleCount())
	}
	reg, err := function.NewRegistry(d, regOpts...)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeRenderFailed, "function registry rejected dialect", err)
	}

	callArgs := args
	if opts.Distinct {
		callArgs = append([]string{"'" + function.DistinctQualifier + "'"}, args...)
	}
	sql, err := reg.Render(function.CountTupleName, callArgs...)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeRenderFailed, "count_tuple failed", err)
	}

	items := 0
	for _, a := range args {
		items += dialect.CountSelectItems(d, a)
	}
	formatter.VerboseLog("Rendered count_tuple over %d item(s) for %s", items, d.Name())

	return formatter.Success(CountTupleOutput{Dialect: d.Name(), Args: args, Items: items, SQL: sql})
}
