package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by every subcommand.
type RootOptions struct {
	Verbose bool
}

// NewRootCommand builds the opflow CLI's root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "opflow",
		Short: "opflow - composable business-operation pipelines",
		Long:  "A demo CLI wiring lookup, validation, and transaction combinators into a runnable pipeline.",
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.AddCommand(NewRunCommand(opts))

	return cmd
}

// Execute runs the opflow CLI.
func Execute() error {
	return NewRootCommand().Execute()
}
