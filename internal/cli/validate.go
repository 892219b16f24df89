package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/see-platform/seesync/internal/discover"
	"github.com/see-platform/seesync/internal/wralea"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate <manifest-or-dir>...",
	Short: "Check wralea manifests against the schema",
	Long: `Validate wralea manifests. Directories are searched for manifest files the
same way 'sync' does.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var paths []string
		for _, arg := range args {
			info, err := os.Stat(arg)
			if err != nil {
				return fmt.Errorf("reading %s: %w", arg, err)
			}
			if !info.IsDir() {
				paths = append(paths, arg)
				continue
			}
			found, err := discover.FindManifests(discover.SourceRoot(arg), discover.Options{Logger: logger})
			if err != nil {
				return err
			}
			paths = append(paths, found...)
		}

		failed := 0
		for _, path := range paths {
			if !checkManifest(cmd, path) {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d manifest(s) invalid", failed, len(paths))
		}
		return nil
	},
}

func checkManifest(cmd *cobra.Command, path string) bool {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Manifest validation: %s\n", path)

	result, err := wralea.ValidateFile(path)
	if err != nil {
		fmt.Fprintf(out, "  [FAIL] %v\n", err)
		return false
	}
	if result.Valid {
		pkg, err := wralea.Parse(path)
		if err != nil {
			fmt.Fprintf(out, "  [ OK ] Valid manifest\n")
			return true
		}
		fmt.Fprintf(out, "  [ OK ] %s (v%s): %d node(s), %d data, %d composite(s)\n",
			pkg.Name, pkg.Version, len(pkg.Nodes), len(pkg.Data), len(pkg.Composites))
		return true
	}

	fmt.Fprintf(out, "  [FAIL] %d validation issue(s):\n", len(result.Issues))
	for _, issue := range result.Issues {
		if issue.Path != "" {
			fmt.Fprintf(out, "    - %s: %s\n", issue.Path, issue.Message)
		} else {
			fmt.Fprintf(out, "    - %s\n", issue.Message)
		}
	}
	return false
}
