package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/see-platform/seesync/internal/archive"
	"github.com/see-platform/seesync/internal/export"
	"github.com/see-platform/seesync/internal/resolve"
)

var (
	convertOut         string
	convertNoWorkflows bool
	convertOffline     bool
	convertExclude     []string
)

func init() {
	convertCmd.Flags().StringVarP(&convertOut, "out", "o", "", "Write one .wkf file per RO under this directory")
	convertCmd.Flags().BoolVar(&convertNoWorkflows, "no-workflows", false, "Convert everything except workflows")
	convertCmd.Flags().BoolVar(&convertOffline, "offline", false, "Resolve references from the scanned packages only")
	convertCmd.Flags().StringSliceVar(&convertExclude, "exclude", nil, "Glob of paths to skip, relative to the root (repeatable, ** supported)")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert [root]",
	Short: "Convert wralea packages to RO records without registering them",
	Long: `Convert the wralea packages under root and list the resulting RO records.

With --out each record is written as <out>/<package>/<name>.wkf, ready for
'pack'. References missing from the scanned packages are looked up on
SEEweb unless --offline is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pkgs, err := loadPackages(args, convertExclude)
		if err != nil {
			return err
		}

		var catalog resolve.Catalog
		if !convertOffline {
			client, err := newClient(ctx, false)
			if err != nil {
				return err
			}
			catalog = client
		}
		bundle, err := exportPackages(ctx, pkgs, catalog, !convertNoWorkflows)
		if err != nil {
			return err
		}

		if convertOut != "" {
			paths, err := archive.Write(convertOut, bundle)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d record(s) to %s\n", len(paths), convertOut)
			return nil
		}
		return printBundle(cmd, bundle)
	},
}

func printBundle(cmd *cobra.Command, b *export.Bundle) error {
	if b.Len() == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing to convert")
		return nil
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "TYPE\tPACKAGE\tNAME\tID")
	for _, it := range b.Items() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", it.Def.Type(), it.Package, it.Def.Name(), it.Def.ID())
	}
	return w.Flush()
}
