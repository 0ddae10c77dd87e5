package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"framesync/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                       `json:"valid"`
	Errors []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <timeline.cue>",
		Short: "Compile and statically check a timeline document",
		Long: `Compile a CUE timeline document and run the static checks: duplicate IDs,
negative times, out-of-range keyframes, unknown easing names.

Exits 0 when the document is valid, 1 when it is not, 2 on command errors.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	doc, err := compiler.CompileFile(path)
	if err != nil {
		// A missing or unreadable file is a command error; a document that
		// does not compile is a validation failure.
		var ce *compiler.CompileError
		if errors.As(err, &ce) {
			return outputValidationErrors(formatter, []compiler.ValidationError{{
				Field:   ce.Field,
				Message: ce.Message,
				Code:    ErrCodeGeneric,
			}})
		}
		if os.IsNotExist(errors.Unwrap(err)) {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "validate", err)
		}
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitFailure, "validate", err)
	}

	formatter.VerboseLog("compiled %s: %d segments (%d scenes, %d clips)",
		path, len(doc.Entries), len(doc.Scenes), len(doc.Clips))

	if verrs := compiler.Validate(doc); len(verrs) > 0 {
		return outputValidationErrors(formatter, verrs)
	}

	return outputValidateSuccess(formatter, doc)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, doc *compiler.Document) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true})
	}

	fmt.Fprintf(formatter.Writer, "✓ timeline valid: %d segments (%d scenes, %d clips)\n",
		len(doc.Entries), len(doc.Scenes), len(doc.Clips))
	return nil
}

// outputValidationErrors outputs validation errors and maps them to exit
// code 1.
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
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

		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "  %s %s: %s\n", err.Code, err.Field, err.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
