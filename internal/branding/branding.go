// Package branding provides compile-time identity values for the CLI.
//
// The embedded branding.yaml carries the command name, the dot-directory
// used for user settings, the environment variable prefix and the default
// SEEweb root. Go's //go:embed bakes it into the binary.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	HomeDir     string `yaml:"home_dir"`
	EnvPrefix   string `yaml:"env_prefix"`
	GoModule    string `yaml:"go_module"`
	DefaultRoot string `yaml:"default_root"`
	UserAgent   string `yaml:"user_agent"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or empty.
		defaults = brand{
			CLIName:     "seesync",
			DisplayName: "SEE sync",
			Description: "Publish OpenAlea wralea packages to the SEEweb catalog",
			HomeDir:     ".seesync",
			EnvPrefix:   "SEE",
			GoModule:    "github.com/see-platform/seesync",
			DefaultRoot: "http://127.0.0.1:6543",
			UserAgent:   "seesync",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "seesync").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".seesync").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "SEE").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GoModule returns the Go module path. Not consumed at runtime.
func GoModule() string { load(); return defaults.GoModule }

// DefaultRoot returns the SEEweb root URL used when nothing is configured.
func DefaultRoot() string { load(); return defaults.DefaultRoot }

// UserAgent returns the User-Agent header sent to SEEweb.
func UserAgent() string { load(); return defaults.UserAgent }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("root") → "SEE_ROOT".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
