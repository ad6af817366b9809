package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/plotdeck/plotdeck/internal/sessionfile"
)

// ValidationResult holds validation results for one session file.
type ValidationResult struct {
	File   string                        `json:"file"`
	Valid  bool                          `json:"valid"`
	Errors []sessionfile.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <session.yaml>",
		Short: "Validate a session file against the schema",
		Long: `Validate a session file against the embedded schema without loading it.

Checks YAML syntax and structural constraints (version, modes, layouts,
signal references). Reports every violation, not just the first.

Exit codes:
  0 - session file is valid
  1 - session file violates the schema
  2 - command error (file not readable)`,
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

	data, err := os.ReadFile(path)
	if err != nil {
		_ = formatter.Error(sessionfile.ErrMalformedYAML, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read session file", err)
	}
	formatter.VerboseLog("Validating %s (%d bytes)", path, len(data))

	errs := sessionfile.Validate(data)
	if len(errs) > 0 {
		if formatter.Format == "json" {
			_ = formatter.Success(ValidationResult{File: path, Valid: false, Errors: errs})
		} else {
			fmt.Fprintf(formatter.Writer, "%s: invalid\n", path)
			for _, e := range errs {
				fmt.Fprintf(formatter.Writer, "  %s\n", e.Error())
			}
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{File: path, Valid: true})
	}
	fmt.Fprintf(formatter.Writer, "%s: valid\n", path)
	return nil
}
