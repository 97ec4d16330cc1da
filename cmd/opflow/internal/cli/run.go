package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opflow-io/opflow/cmd/opflow/internal/demo"
	"github.com/opflow-io/opflow/pkg/op"
)

// NewRunCommand builds the "run" subcommand: invokes the demo
// create-a-comment-on-a-post pipeline against sample in-memory data.
func NewRunCommand(opts *RootOptions) *cobra.Command {
	var postID, authorID int
	var body string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "run the create-comment-on-post demo pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			res := demo.Run(cmd.Context(), postID, authorID, body)
			if res.Failure() {
				fmt.Fprintf(cmd.ErrOrStderr(), "failed in: %s\n", op.Describe(res.Errors()[0].Producer))
				for _, e := range res.Errors() {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s at %v\n", e.Code, e.Error(), e.Path)
				}
				return fmt.Errorf("pipeline failed with %d error(s)", len(res.Errors()))
			}
			if opts.Verbose {
				fmt.Fprintf(cmd.OutOrStdout(), "context: %+v\n", res.Context())
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&postID, "post-id", 1, "id of the post to comment on")
	cmd.Flags().IntVar(&authorID, "author-id", 10, "id of the comment author")
	cmd.Flags().StringVar(&body, "body", "Great post!", "comment body")

	return cmd
}
