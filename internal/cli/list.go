package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	listJSON    bool
	listExclude []string
)

var listCmd = &cobra.Command{
	Use:   "list [root]",
	Short: "List the wralea packages found under root",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringSliceVar(&listExclude, "exclude", nil, "Glob of paths to skip, relative to the root (repeatable, ** supported)")
	rootCmd.AddCommand(listCmd)
}

// listEntry summarises one package for display.
type listEntry struct {
	Name       string `json:"name"`
	Version    string `json:"version"`
	Interfaces int    `json:"interfaces"`
	Nodes      int    `json:"nodes"`
	Data       int    `json:"data"`
	Composites int    `json:"composites"`
	Path       string `json:"path"`
}

func runList(cmd *cobra.Command, args []string) error {
	pkgs, err := loadPackages(args, listExclude)
	if err != nil {
		return err
	}
	if len(pkgs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No wralea packages found")
		return nil
	}

	entries := make([]listEntry, 0, len(pkgs))
	for _, p := range pkgs {
		entries = append(entries, listEntry{
			Name:       p.Name,
			Version:    p.Version,
			Interfaces: len(p.Interfaces),
			Nodes:      len(p.Nodes),
			Data:       len(p.Data),
			Composites: len(p.Composites),
			Path:       p.Path,
		})
	}

	if listJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tVERSION\tINTERFACES\tNODES\tDATA\tCOMPOSITES\tPATH")
	for _, e := range entries {
		version := e.Version
		if version == "" {
			version = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			e.Name, version, e.Interfaces, e.Nodes, e.Data, e.Composites, e.Path)
	}
	return w.Flush()
}
