package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/navtree/pkg/frontend"
	"tableflip.dev/navtree/pkg/runner/remove"
)

func addDelete(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a node and everything below it.",
		Example: `
navtree delete <id>
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSync(cmd, func(ctx context.Context, sync *frontend.Sync) error {
				r := remove.Remove{ID: args[0], Sync: sync, Out: cmd.OutOrStdout()}
				return r.Do(ctx)
			})
		},
	}

	topLevel.AddCommand(cmd)
}
