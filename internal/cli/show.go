package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plotdeck/plotdeck/internal/sessionfile"
)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <session.yaml>",
		Short: "Print a session file's contents",
		Long: `Print a session file as a readable summary (or JSON with --format json).

The file is validated first; an invalid session is rejected the same way
the validate command rejects it.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runShow(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	doc, err := sessionfile.Load(path)
	if err != nil {
		_ = formatter.Error(sessionfile.ErrSchemaViolation, err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to load session file", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(doc)
	}
	fmt.Fprint(formatter.Writer, doc.Describe())
	return nil
}
