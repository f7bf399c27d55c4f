package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/navtree/pkg/commands/options"
	"tableflip.dev/navtree/pkg/frontend"
	"tableflip.dev/navtree/pkg/navigation"
	"tableflip.dev/navtree/pkg/store"
)

var (
	oo = &options.OutputOptions{}
	co = &options.CatalogOptions{}

	logger = zap.NewNop()
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "navtree",
		Short: base.Wrap80("Edit the navigation catalogs of an admin panel on the command line."),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(co.Verbose)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	options.AddCatalogArgs(cmd, co)
	options.AddOutputArg(cmd, oo)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addTree(topLevel)
	addAdd(topLevel)
	addMove(topLevel)
	addRename(topLevel)
	addDelete(topLevel)
	addSearch(topLevel)
	addActions(topLevel)
	addWatch(topLevel)
	addInfo(topLevel)
	addMCP(topLevel)
	addUI(topLevel)
	addVersion(topLevel)
	addUpgrade(topLevel)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

// openCatalogs loads the config and hydrates every catalog. The returned
// service must be closed so pending writes reach the disk.
func openCatalogs(ctx context.Context) (store.Config, *navigation.Service, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	svc, err := navigation.Open(ctx, cfg, navigation.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	return cfg, svc, nil
}

// defaultCatalog is the --catalog flag, or the first configured section.
func defaultCatalog(cfg store.Config, svc *navigation.Service) string {
	if co.Catalog != "" {
		return co.Catalog
	}
	if sections := cfg.Sections(); len(sections) > 0 {
		return sections[0]
	}
	if ids := svc.Catalogs(); len(ids) > 0 {
		return ids[0]
	}
	return ""
}

// withSync runs fn against the selected catalog and closes the service
// afterwards, reporting errors the way --json asks for.
func withSync(cmd *cobra.Command, fn func(ctx context.Context, sync *frontend.Sync) error) error {
	cmd.SilenceUsage = true
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, svc, err := openCatalogs(ctx)
	if err != nil {
		return oo.HandleError(err)
	}
	sync, err := svc.Sync(defaultCatalog(cfg, svc))
	if err == nil {
		err = fn(ctx, sync)
	}
	if cerr := svc.Close(context.Background()); cerr != nil && err == nil {
		err = cerr
	}
	return oo.HandleError(err)
}
