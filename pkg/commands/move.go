package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/navtree/pkg/commands/options"
	"tableflip.dev/navtree/pkg/frontend"
	"tableflip.dev/navtree/pkg/runner/move"
)

func addMove(topLevel *cobra.Command) {
	var (
		parent   string
		position int
	)
	ido := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "move <id>",
		Short: "Move a node to another group or position.",
		Example: `
navtree move <id> --parent <group-id>
navtree move <id> --position 0
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSync(cmd, func(ctx context.Context, sync *frontend.Sync) error {
				r := move.Move{
					ID:       args[0],
					Parent:   parent,
					Position: position,
					Sync:     sync,
					ShowID:   ido.ShowID,
					Out:      cmd.OutOrStdout(),
				}
				return r.Do(ctx)
			})
		},
	}
	cmd.Flags().StringVarP(&parent, "parent", "p", "", "Group to move the node into. Empty or 0 for the root level.")
	cmd.Flags().IntVar(&position, "position", -1, "Index among the new siblings; negative appends.")
	options.AddShowIDArgs(cmd, ido)

	topLevel.AddCommand(cmd)
}
