package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/navtree/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the catalogs and where they are stored.",
		Example: `
navtree info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cfg, svc, err := openCatalogs(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			defer svc.Close(context.Background())

			s := info.Info{
				Config: cfg,
				Stores: svc.Stores(),
				Out:    cmd.OutOrStdout(),
			}
			err = s.Do(ctx)
			return oo.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}
