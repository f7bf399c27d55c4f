package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/navtree/pkg/commands/options"
	"tableflip.dev/navtree/pkg/frontend"
	"tableflip.dev/navtree/pkg/runner/rename"
)

func addRename(topLevel *cobra.Command) {
	ido := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "rename <id> <name...>",
		Short: "Rename a node. Model nodes rename their record and every mirror.",
		Example: `
navtree rename <id> Getting started
`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSync(cmd, func(ctx context.Context, sync *frontend.Sync) error {
				r := rename.Rename{
					ID:     args[0],
					Name:   strings.Join(args[1:], " "),
					Sync:   sync,
					ShowID: ido.ShowID,
					Out:    cmd.OutOrStdout(),
				}
				return r.Do(ctx)
			})
		},
	}
	options.AddShowIDArgs(cmd, ido)

	topLevel.AddCommand(cmd)
}
