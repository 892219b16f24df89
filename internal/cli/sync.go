package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/see-platform/seesync/internal/discover"
	"github.com/see-platform/seesync/internal/export"
	"github.com/see-platform/seesync/internal/resolve"
	"github.com/see-platform/seesync/internal/ro"
	"github.com/see-platform/seesync/internal/upload"
	"github.com/see-platform/seesync/internal/wralea"
)

var (
	syncNoWorkflows bool
	syncOverwrite   bool
	syncExclude     []string
)

func init() {
	syncCmd.Flags().BoolVar(&syncNoWorkflows, "no-workflows", false, "Convert everything except workflows")
	syncCmd.Flags().BoolVar(&syncOverwrite, "overwrite", false, "Replace objects already registered with the same id")
	syncCmd.Flags().StringSliceVar(&syncExclude, "exclude", nil, "Glob of paths to skip, relative to the root (repeatable, ** supported)")
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync [root]",
	Short: "Register every wralea package under root on SEEweb",
	Long: `Walk root (or root/src when it exists) for wralea manifests, convert their
interfaces, nodes, data and composites, and register them on SEEweb.

Each package is filed in its own container under the alinea, openalea or
vplants namespace container. Objects whose id is already registered are
left alone unless --overwrite is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pkgs, err := loadPackages(args, syncExclude)
		if err != nil {
			return err
		}
		if len(pkgs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No wralea packages found")
			return nil
		}

		client, err := newClient(ctx, true)
		if err != nil {
			return err
		}
		bundle, err := exportPackages(ctx, pkgs, client, !syncNoWorkflows)
		if err != nil {
			return err
		}

		up := upload.New(client,
			upload.WithOverwrite(syncOverwrite),
			upload.WithLogger(logger),
			upload.WithMetrics(recorder))
		sum, err := up.Bundle(ctx, bundle)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Synced %d package(s): %d registered, %d already present\n",
			len(bundle.Packages), sum.Registered, sum.Skipped)
		return nil
	},
}

// loadPackages discovers manifests under the root given in args (default
// the working directory).
func loadPackages(args, exclude []string) ([]*wralea.Package, error) {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	pkgs, err := discover.Load(root, discover.Options{Exclude: exclude, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("loading packages under %s: %w", root, err)
	}
	return pkgs, nil
}

// exportPackages converts pkgs, resolving unknown references through
// catalog. A nil catalog resolves locally only.
func exportPackages(ctx context.Context, pkgs []*wralea.Package, catalog resolve.Catalog, workflows bool) (*export.Bundle, error) {
	r := resolve.New(ro.NewStore(), catalog, logger)
	return export.New(r, logger).Export(ctx, pkgs, export.Options{Workflows: workflows})
}
