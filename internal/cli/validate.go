package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/exprsql/internal/querygen"
)

// ValidationError is one problem found in one document.
type ValidationError struct {
	Path    string `json:"path,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool              `json:"valid"`
	Documents int               `json:"documents"`
	Errors    []ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <document-or-dir>",
		Short: "Validate expression documents",
		Long: `Validate YAML or CUE expression documents.

Every document is decoded, its expression tree is built and checked, and
a trial render is run for its dialect and clause. Parameters must be
bound by the document's own params. All documents are checked; errors are
reported together.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	loadResult, loadErrors := LoadDocuments(path, LoadModeCollectAll)

	// Handle load errors (path not found, no files, etc.)
	if loadResult == nil && len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputValidateError(formatter, loadErr.Code, loadErr.Message, nil)
		}
		return outputValidateError(formatter, ErrCodeGeneric, loadErrors[0].Error(), nil)
	}

	formatter.VerboseLog("Found %d document file(s) in %s", loadResult.FileCount, path)

	var validationErrors []ValidationError
	for _, err := range loadErrors {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			validationErrors = append(validationErrors, ValidationError{
				Path:    loadErr.Path,
				Code:    loadErr.Code,
				Message: loadErr.Message,
			})
		}
	}
	validationErrors = append(validationErrors, validateAll(opts, loadResult.Documents, formatter)...)

	if len(validationErrors) > 0 {
		return outputValidationErrors(formatter, validationErrors)
	}
	return outputValidateSuccess(formatter, loadResult.FileCount)
}

// validateAll trial-renders every document and collects the failures.
func validateAll(opts *RootOptions, docs []LoadedDocument, formatter *OutputFormatter) []ValidationError {
	renderOpts := &RenderOptions{RootOptions: opts, Prefix: querygen.DefaultParameterPrefix}
	logger := newLogger(&RootOptions{}, io.Discard)

	var errs []ValidationError
	for _, ld := range docs {
		formatter.VerboseLog("Validating document: %s", ld.Path)
		if _, err := renderDocument(renderOpts, ld, nil, logger); err != nil {
			code, _ := errorCode(err)
			errs = append(errs, ValidationError{Path: ld.Path, Code: code, Message: err.Error()})
		}
	}
	return errs
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, count int) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Documents: count})
	}

	fmt.Fprintf(formatter.Writer, "✓ All documents valid (%d)\n", count)
	return nil
}

// outputValidateError outputs a single validation error.
func outputValidateError(formatter *OutputFormatter, code, message string, details any) error {
	_ = formatter.Error(code, message, details)
	// Unreadable input is a command-level error (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []ValidationError) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Path != "" {
			fmt.Fprintln(formatter.Writer, err.Path)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", err.Code, err.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
