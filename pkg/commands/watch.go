package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/navtree/pkg/runner/watch"
)

func addWatch(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print a line whenever a catalog document changes on disk.",
		Example: `
navtree watch
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			_, svc, err := openCatalogs(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			defer svc.Close(context.Background())

			w := watch.Watch{Source: svc, Out: cmd.OutOrStdout()}
			return oo.HandleError(w.Do(ctx))
		},
	}

	topLevel.AddCommand(cmd)
}
