package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/navtree/pkg/commands/options"
	"tableflip.dev/navtree/pkg/frontend"
	"tableflip.dev/navtree/pkg/runner/search"
)

func addSearch(topLevel *cobra.Command) {
	fo := &options.OutputOptions{}
	ido := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "search <term...>",
		Short: "Find nodes by name and show them within their groups.",
		Example: `
navtree search pricing
navtree search -o json "getting started"
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := fo.Format()
			if err != nil {
				return err
			}
			return withSync(cmd, func(ctx context.Context, sync *frontend.Sync) error {
				r := search.Search{
					Term:   strings.Join(args, " "),
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
