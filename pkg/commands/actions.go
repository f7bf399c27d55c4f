package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/navtree/pkg/frontend"
	"tableflip.dev/navtree/pkg/runner/actions"
)

func addActions(topLevel *cobra.Command) {
	var (
		run  string
		data string
	)

	cmd := &cobra.Command{
		Use:   "actions [id...]",
		Short: "List or run the actions offered for the selected nodes.",
		Example: `
navtree actions
navtree actions <id>
navtree actions <group-id> --run sort-alphabetically
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var input map[string]any
			if data != "" {
				if err := json.Unmarshal([]byte(data), &input); err != nil {
					return fmt.Errorf("parse --data: %w", err)
				}
			}
			return withSync(cmd, func(ctx context.Context, sync *frontend.Sync) error {
				r := actions.Actions{
					IDs:  args,
					Run:  run,
					Data: input,
					Sync: sync,
					Out:  cmd.OutOrStdout(),
				}
				return r.Do(ctx)
			})
		},
	}
	cmd.Flags().StringVar(&run, "run", "", "Action id to run.")
	cmd.Flags().StringVar(&data, "data", "", "JSON object passed to the action.")

	topLevel.AddCommand(cmd)
}
