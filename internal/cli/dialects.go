package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/exprsql/internal/dialect"
)

// DialectInfo describes one registered dialect.
type DialectInfo struct {
	Name        string `json:"name"`
	Placeholder string `json:"placeholder"`
	TupleCount  bool   `json:"tuple_count"`
}

// DialectList is the dialects command payload.
type DialectList []DialectInfo

// Text renders the list as an aligned table.
func (l DialectList) Text() string {
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPLACEHOLDER\tDISTINCT TUPLES")
	for _, d := range l {
		tuples := "no"
		if d.TupleCount {
			tuples = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Name, d.Placeholder, tuples)
	}
	_ = tw.Flush()
	return sb.String()
}

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "dialects",
		Short:         "List registered dialects",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			list, err := listDialects()
			if err != nil {
				return formatter.Fail(ExitFailure, ErrCodeUnknownDialect, "dialect registry is inconsistent", err)
			}
			return formatter.Success(list)
		},
	}
}

func listDialects() (DialectList, error) {
	names := dialect.Names()
	list := make(DialectList, 0, len(names))
	for _, name := range names {
		d, err := dialect.Lookup(name)
		if err != nil {
			return nil, err
		}
		_, tuples := d.(dialect.TupleCounter)
		list = append(list, DialectInfo{Name: d.Name(), Placeholder: d.Placeholder(1), TupleCount: tuples})
	}
	return list, nil
}
