package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/see-platform/seesync/internal/archive"
	"github.com/see-platform/seesync/internal/ro"
)

var (
	packZip    string
	packDryRun bool
)

func init() {
	packCmd.Flags().StringVar(&packZip, "zip", "", "Keep the archive at this path (default: a temporary file)")
	packCmd.Flags().BoolVar(&packDryRun, "dry-run", false, "Build the archive without uploading it")
	rootCmd.AddCommand(packCmd)
}

var packCmd = &cobra.Command{
	Use:   "pack <dir>",
	Short: "Zip a directory of .wkf records and upload it to SEEweb",
	Long: `Pack every .wkf file under dir (as written by 'convert --out') into a zip
archive and upload it through the SEEweb RO creation form. Every record must
parse and carry an id and a type.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src := args[0]
		if info, err := os.Stat(src); err != nil || !info.IsDir() {
			return fmt.Errorf("%s is not a directory", src)
		}

		defs, err := archive.ReadDir(src)
		if err != nil {
			return err
		}
		if len(defs) == 0 {
			return fmt.Errorf("no %s records under %s: %w", archive.Ext, src, ro.ErrValidation)
		}
		for _, def := range defs {
			if def.ID() == "" || def.Type() == "" {
				return fmt.Errorf("record %q under %s lacks an id or type: %w", def.Name(), src, ro.ErrValidation)
			}
		}

		dest := packZip
		if dest == "" {
			tmp, err := os.MkdirTemp("", "seesync-pack-*")
			if err != nil {
				return fmt.Errorf("creating temp dir: %w", err)
			}
			defer os.RemoveAll(tmp)
			dest = filepath.Join(tmp, filepath.Base(filepath.Clean(src))+".zip")
		}

		if err := archive.Zip(src, dest); err != nil {
			return err
		}
		sum, err := archive.Checksum(dest)
		if err != nil {
			return err
		}
		logger.Info("packed archive", "path", dest, "records", len(defs), "sha256", sum)

		if packDryRun {
			fmt.Fprintf(cmd.OutOrStdout(), "Packed %d record(s) into %s (sha256 %s)\n", len(defs), dest, sum)
			return nil
		}

		client, err := newClient(cmd.Context(), true)
		if err != nil {
			return err
		}
		if err := client.UploadFile(cmd.Context(), dest); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s (sha256 %s)\n", filepath.Base(dest), sum)
		return nil
	},
}
