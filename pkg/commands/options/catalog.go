// Package options defines shared flag helpers for CLI commands.
package options

import (
	"github.com/spf13/cobra"
)

// CatalogOptions selects the catalog a command works on.
type CatalogOptions struct {
	Catalog string
	Verbose bool
}

func AddCatalogArgs(cmd *cobra.Command, o *CatalogOptions) {
	cmd.PersistentFlags().StringVarP(&o.Catalog, "catalog", "c", "",
		"Catalog to work on. Defaults to the first configured section.")
	cmd.PersistentFlags().BoolVarP(&o.Verbose, "verbose", "v", false,
		"Log debug output to stderr.")
}

// NodeOptions carries the payload flags of a node.
type NodeOptions struct {
	Parent    string
	URL       string
	Blank     bool
	ModelID   string
	SortOrder int
}

func AddNodeArgs(cmd *cobra.Command, o *NodeOptions) {
	cmd.Flags().StringVarP(&o.Parent, "parent", "p", "",
		"Id of the group to add the node to. Empty for the root level.")
	cmd.Flags().StringVar(&o.URL, "url", "",
		"Target of a link node.")
	cmd.Flags().BoolVar(&o.Blank, "blank", false,
		"Open a link node in a new tab.")
	cmd.Flags().StringVar(&o.ModelID, "model-id", "",
		"Record behind a model node. A new record is created when empty.")
	cmd.Flags().IntVar(&o.SortOrder, "sort-order", 0,
		"Position among the siblings. 0 appends.")
}
