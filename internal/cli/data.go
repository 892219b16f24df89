package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/see-platform/seesync/internal/ro"
)

var (
	dataInterface string
	dataContainer string
)

func init() {
	registerDataCmd.Flags().StringVar(&dataInterface, "interface", "", "Name of the interface typing the data (required)")
	registerDataCmd.Flags().StringVar(&dataContainer, "container", "", "Container to file the data in, by id")
	_ = registerDataCmd.MarkFlagRequired("interface")
	rootCmd.AddCommand(registerDataCmd)
}

var registerDataCmd = &cobra.Command{
	Use:   "register-data <data.wkf>",
	Short: "Register a data RO typed by an interface",
	Long: `Register the data record read from a JSON file. The interface is looked up
by name on SEEweb and must match exactly one registered interface.`,
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
		id, err := client.RegisterData(ctx, dataInterface, def)
		if err != nil {
			return err
		}
		if dataContainer != "" {
			if err := client.Connect(ctx, dataContainer, id, ro.LinkContains); err != nil {
				return err
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Registered data %s\n", id)
		return nil
	},
}
