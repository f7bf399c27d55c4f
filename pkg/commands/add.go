package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/navtree/pkg/commands/options"
	"tableflip.dev/navtree/pkg/frontend"
	"tableflip.dev/navtree/pkg/runner/add"
)

func addAdd(topLevel *cobra.Command) {
	no := &options.NodeOptions{}
	ido := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "add <type> <name...>",
		Short: "Add a node to a catalog.",
		Long: `Add a node of the given type. Shipped types are group, link and model.
A model node without --model-id creates a record named after the node.`,
		Example: `
navtree add group Docs
navtree add link Intro --parent <docs-id> --url /docs/intro
navtree add link Blog --url https://example.com/blog --blank
navtree add model Pricing
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSync(cmd, func(ctx context.Context, sync *frontend.Sync) error {
				r := add.Add{
					Type:      args[0],
					Name:      strings.Join(args[1:], " "),
					Parent:    no.Parent,
					URL:       no.URL,
					Blank:     no.Blank,
					ModelID:   no.ModelID,
					SortOrder: no.SortOrder,
					Sync:      sync,
					ShowID:    ido.ShowID,
					Out:       cmd.OutOrStdout(),
				}
				return r.Do(ctx)
			})
		},
	}
	options.AddNodeArgs(cmd, no)
	options.AddShowIDArgs(cmd, ido)

	topLevel.AddCommand(cmd)
}
