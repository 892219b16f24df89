package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/see-platform/seesync/internal/rewrite"
)

func init() {
	rootCmd.AddCommand(rewriteUIDsCmd)
}

var rewriteUIDsCmd = &cobra.Command{
	Use:   "rewrite-uids <manifest>...",
	Short: "Give every factory of a YAML manifest a uid",
	Long: `Add a time-based uid to every node, data and composite factory that has
none, editing the manifest in place. Existing uids, comments and key order
are kept. Factories with a uid keep their RO id across renames.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			n, err := rewrite.AssignUIDs(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: added %d uid(s)\n", path, n)
		}
		return nil
	},
}
