package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/navtree/pkg/tui/browser"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "browse the catalogs in a text-based user interface",
		Example: `
navtree ui
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cfg, svc, err := openCatalogs(context.Background())
			if err != nil {
				return err
			}
			defer svc.Close(context.Background())
			return browser.Run(svc, defaultCatalog(cfg, svc))
		},
	}

	topLevel.AddCommand(cmd)
}
