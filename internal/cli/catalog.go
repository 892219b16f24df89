package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/see-platform/seesync/internal/ro"
)

var (
	searchType    string
	searchName    string
	getValue      bool
	removeRecurse bool
	linkType      string
)

func init() {
	searchCmd.Flags().StringVar(&searchType, "type", "", "RO type (interface, workflow_node, workflow, workflow_prov, container, ro)")
	searchCmd.Flags().StringVar(&searchName, "name", "", "Exact RO name")
	getCmd.Flags().BoolVar(&getValue, "value", false, "Print only the value of a data RO")
	removeCmd.Flags().BoolVarP(&removeRecurse, "recursive", "r", false, "Also remove the ROs contained in this one")
	for _, c := range []*cobra.Command{connectCmd, disconnectCmd} {
		c.Flags().StringVar(&linkType, "type", ro.LinkContains, "Link type (contains, consume, produce)")
	}
	rootCmd.AddCommand(searchCmd, getCmd, removeCmd, connectCmd, disconnectCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search [key=value...]",
	Short: "Query the SEEweb catalog",
	Long: `Query the SEEweb catalog and print the matching RO ids.

--type and --name are shortcuts for type=... and name=...; any other
key=value pair is passed through as a query parameter.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		query, err := parseQuery(args)
		if err != nil {
			return err
		}
		if searchType != "" {
			query.Set("type", searchType)
		}
		if searchName != "" {
			query.Set("name", searchName)
		}

		client, err := newClient(cmd.Context(), false)
		if err != nil {
			return err
		}
		raw, err := client.Search(cmd.Context(), query)
		if err != nil {
			return err
		}
		return printJSON(cmd, raw)
	},
}

// parseQuery turns key=value arguments into query parameters.
func parseQuery(args []string) (url.Values, error) {
	q := url.Values{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("query argument %q is not key=value", arg)
		}
		q.Add(key, value)
	}
	return q, nil
}

var getCmd = &cobra.Command{
	Use:   "get <uid>",
	Short: "Print the definition of a registered RO",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd.Context(), false)
		if err != nil {
			return err
		}
		if getValue {
			v, err := client.GetROData(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, v)
		}
		def, err := client.GetRODef(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd, def)
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <uid>",
	Short: "Remove a registered RO",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd.Context(), true)
		if err != nil {
			return err
		}
		if err := client.Remove(cmd.Context(), args[0], removeRecurse); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
		return nil
	},
}

var connectCmd = &cobra.Command{
	Use:   "connect <src> <tgt>",
	Short: "Link two registered ROs",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd.Context(), true)
		if err != nil {
			return err
		}
		if err := client.Connect(cmd.Context(), args[0], args[1], linkType); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Linked %s -%s-> %s\n", args[0], linkType, args[1])
		return nil
	},
}

var disconnectCmd = &cobra.Command{
	Use:   "disconnect <src> <tgt>",
	Short: "Remove the link between two ROs",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd.Context(), true)
		if err != nil {
			return err
		}
		if err := client.Disconnect(cmd.Context(), args[0], args[1], linkType); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Unlinked %s -%s-> %s\n", args[0], linkType, args[1])
		return nil
	},
}

func printJSON(cmd *cobra.Command, v any) error {
	if raw, ok := v.(json.RawMessage); ok {
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return fmt.Errorf("parsing answer: %w", err)
		}
		v = decoded
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
