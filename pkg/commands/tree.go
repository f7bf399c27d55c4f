package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/navtree/pkg/commands/options"
	"tableflip.dev/navtree/pkg/frontend"
	"tableflip.dev/navtree/pkg/runner/tree"
)

func addTree(topLevel *cobra.Command) {
	fo := &options.OutputOptions{}
	ido := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the whole catalog.",
		Example: `
navtree tree
navtree tree --catalog footer -k
navtree tree -o yaml
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := fo.Format()
			if err != nil {
				return err
			}
			return withSync(cmd, func(ctx context.Context, sync *frontend.Sync) error {
				r := tree.Tree{
					Sync:   sync,
					Format: format,
					ShowID: ido.ShowID,
					Out:    cmd.OutOrStdout(),
				}
				return r.Do(ctx)
			})
		},
	}
	options.AddFormatArg(cmd, fo)
	options.AddShowIDArgs(cmd, ido)

	topLevel.AddCommand(cmd)
}
