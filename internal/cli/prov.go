package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/see-platform/seesync/internal/ro"
	"github.com/see-platform/seesync/internal/upload"
)

var (
	provContainer    string
	provOverwrite    bool
	provFailExisting bool
)

func init() {
	uploadProvCmd.Flags().StringVar(&provContainer, "container", "", "Container to file the provenance in, created when missing")
	uploadProvCmd.Flags().BoolVar(&provOverwrite, "overwrite", false, "Replace a provenance already registered with the same id")
	uploadProvCmd.Flags().BoolVar(&provFailExisting, "fail-existing", false, "Fail instead of skipping when the id is already registered")
	rootCmd.AddCommand(uploadProvCmd)
}

var uploadProvCmd = &cobra.Command{
	Use:   "upload-prov <prov.wkf>",
	Short: "Register an execution provenance record",
	Long: `Register a workflow_prov record read from a JSON file.

The workflow it refers to and every input data of type "ref" must already
be registered. Output data are registered as separate ROs and the record
is linked to its inputs (consume), outputs (produce) and container.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		def, err := ro.ReadFile(args[0])
		if err != nil {
			return err
		}

		client, err := newClient(ctx, true)
		if err != nil {
			return err
		}
		up := upload.New(client,
			upload.WithOverwrite(provOverwrite),
			upload.WithFailOnExisting(provFailExisting),
			upload.WithLogger(logger),
			upload.WithMetrics(recorder))

		var cid string
		if provContainer != "" {
			if cid, _, err = up.EnsureContainer(ctx, provContainer); err != nil {
				return err
			}
		}

		res, err := up.Prov(ctx, def, cid)
		if err != nil {
			return err
		}
		if res.Skipped {
			fmt.Fprintf(cmd.OutOrStdout(), "Provenance %s already registered, nothing done\n", res.ID)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Registered provenance %s\n", res.ID)
		return nil
	},
}
