package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/see-platform/seesync/internal/branding"
	"github.com/see-platform/seesync/internal/config"
	"github.com/see-platform/seesync/internal/metrics"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	flagVerbose     bool
	flagMetricsFile string

	logger   = slog.Default()
	recorder *metrics.Recorder
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` publishes OpenAlea wralea packages to a SEEweb catalog.

It reads wralea manifests, converts interfaces, nodes, data and composite
workflows into RO records, resolves references against the catalog and
registers everything in dependency order, skipping objects already there.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		for key, name := range map[string]string{
			config.KeyRoot:     "see-root",
			config.KeyUser:     "user",
			config.KeyPassword: "password",
			config.KeyTimeout:  "timeout",
		} {
			if err := viper.BindPFlag(key, cmd.Root().PersistentFlags().Lookup(name)); err != nil {
				return fmt.Errorf("binding --%s: %w", name, err)
			}
		}

		logger = newLogger(cmd.ErrOrStderr(), flagVerbose)
		slog.SetDefault(logger)

		recorder = nil
		if flagMetricsFile != "" {
			recorder = metrics.New()
		}
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output, including every SEEweb request")
	pf.String("see-root", "", "SEEweb root URL (default "+branding.DefaultRoot()+")")
	pf.String("user", "", "SEEweb user id")
	pf.String("password", "", "SEEweb password")
	pf.Duration("timeout", 0, "Per-request timeout, e.g. 30s (0 means none)")
	pf.StringVar(&flagMetricsFile, "metrics-file", "", "Write Prometheus textfile metrics to this path on exit")
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return execute(context.Background(), os.Args[1:])
}

// execute runs args and writes the metrics textfile whether or not the
// command succeeded.
func execute(ctx context.Context, args []string) error {
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	if recorder != nil {
		if werr := recorder.WriteTextfile(flagMetricsFile); werr != nil && err == nil {
			err = werr
		}
	}
	return err
}
