package cli

import (
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/see-platform/seesync/internal/config"
	"github.com/see-platform/seesync/internal/discover"
	"github.com/see-platform/seesync/internal/seeweb"
)

var (
	checkConfig    bool
	checkCatalog   bool
	checkManifests string
)

func init() {
	doctorCmd.Flags().BoolVar(&checkConfig, "check-config", false, "Show the resolved settings")
	doctorCmd.Flags().BoolVar(&checkCatalog, "check-catalog", false, "Verify SEEweb answers and credentials are accepted")
	doctorCmd.Flags().StringVar(&checkManifests, "check-manifests", "", "Validate every manifest under the given root")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check settings, SEEweb connectivity and manifests",
	Long: `Run diagnostic checks. With no flag, settings and SEEweb connectivity are
checked. Exits non-zero when a check fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		cfg, cat := checkConfig, checkCatalog
		if !cfg && !cat && checkManifests == "" {
			cfg, cat = true, true
		}

		ok := true
		if cfg {
			runConfigCheck(out)
		}
		if cat {
			ok = runCatalogCheck(cmd, out) && ok
		}
		if checkManifests != "" {
			ok = runManifestsCheck(cmd, out, checkManifests) && ok
		}
		if !ok {
			return fmt.Errorf("some checks failed")
		}
		return nil
	},
}

func runConfigCheck(out io.Writer) {
	fmt.Fprintln(out, "Settings check:")
	if _, err := os.Stat(config.FilePath()); err != nil {
		fmt.Fprintf(out, "  [INFO] no config file at %s\n", config.FilePath())
	} else {
		fmt.Fprintf(out, "  [ OK ] config file %s\n", config.FilePath())
	}
	s := config.Current()
	fmt.Fprintf(out, "  [ OK ] root %s\n", s.Root)
	if s.User == "" {
		fmt.Fprintln(out, "  [WARN] no user configured, writes will be anonymous")
	} else {
		fmt.Fprintf(out, "  [ OK ] user %s\n", s.User)
	}
}

func runCatalogCheck(cmd *cobra.Command, out io.Writer) bool {
	fmt.Fprintln(out, "SEEweb check:")
	s := config.Current()
	c, err := seeweb.New(s.Root, seeweb.WithTimeout(s.Timeout), seeweb.WithLogger(logger), seeweb.WithMetrics(recorder))
	if err != nil {
		fmt.Fprintf(out, "  [FAIL] %v\n", err)
		return false
	}
	if _, err := c.Search(cmd.Context(), url.Values{"type": {"container"}}); err != nil {
		fmt.Fprintf(out, "  [FAIL] %s unreachable: %v\n", s.Root, err)
		return false
	}
	fmt.Fprintf(out, "  [ OK ] %s answers searches\n", s.Root)

	if s.User == "" {
		fmt.Fprintln(out, "  [MISS] login skipped, no user configured")
		return true
	}
	if err := c.Login(cmd.Context(), s.User, s.Password); err != nil {
		fmt.Fprintf(out, "  [FAIL] login as %s: %v\n", s.User, err)
		return false
	}
	fmt.Fprintf(out, "  [ OK ] logged in as %s\n", s.User)
	return true
}

func runManifestsCheck(cmd *cobra.Command, out io.Writer, root string) bool {
	fmt.Fprintln(out, "Manifests check:")
	paths, err := discover.FindManifests(discover.SourceRoot(root), discover.Options{Logger: logger})
	if err != nil {
		fmt.Fprintf(out, "  [FAIL] %v\n", err)
		return false
	}
	if len(paths) == 0 {
		fmt.Fprintf(out, "  [WARN] no manifest under %s\n", root)
		return true
	}
	ok := true
	for _, p := range paths {
		ok = checkManifest(cmd, p) && ok
	}
	return ok
}
