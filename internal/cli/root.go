package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Dialect string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// DefaultDialect is used when neither the flag nor a document names one.
const DefaultDialect = "postgresql"

// NewRootCommand creates the root command for the exprsql CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "exprsql",
		Short: "exprsql - expression trees to dialect SQL",
		Long: `Render object-query expression trees as SQL for a chosen dialect.

Expression documents (YAML or CUE) describe a tree, the clause it renders
in and optional row limits. Commands render them, apply dialect row
limiting to existing statements and expand count_tuple calls.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			slog.SetDefault(newLogger(opts, cmd.ErrOrStderr()))
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.Dialect, "dialect", "d", "", "target dialect (default: document dialect, then "+DefaultDialect+")")

	// Add subcommands
	cmd.AddCommand(NewRenderCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewLimitCommand(opts))
	cmd.AddCommand(NewCountTupleCommand(opts))
	cmd.AddCommand(NewDialectsCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// newLogger returns a text logger on w. Verbose enables debug records.
func newLogger(opts *RootOptions, w io.Writer) *slog.Logger {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

// dialectName picks the dialect: the flag, then the document's, then
// DefaultDialect.
func (o *RootOptions) dialectName(document string) string {
	switch {
	case o.Dialect != "":
		return o.Dialect
	case document != "":
		return document
	default:
		return DefaultDialect
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
