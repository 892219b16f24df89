package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/see-platform/seesync/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Keys understood by the CLI.
const (
	KeyRoot     = "root"
	KeyUser     = "user"
	KeyPassword = "password"
	KeyTimeout  = "timeout"
)

// Keys lists the settable keys in display order.
var Keys = []string{KeyRoot, KeyUser, KeyPassword, KeyTimeout}

// Check reports whether value is acceptable for key.
func Check(key, value string) error {
	switch key {
	case KeyRoot:
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%s must be an http(s) URL, got %q", key, value)
		}
	case KeyTimeout:
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%s must be a duration such as 30s: %w", key, err)
		}
	case KeyUser, KeyPassword:
	default:
		return fmt.Errorf("unknown key %q (known: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}

// Settings is the resolved SEEweb connection configuration.
type Settings struct {
	Root     string
	User     string
	Password string
	Timeout  time.Duration // zero keeps the HTTP client default
}

// Dir returns the path to the config directory (~/.seesync/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.seesync/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
//
// Credentials also honour the historical SEE_user / SEE_pwd variables.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyRoot, branding.DefaultRoot())
	_ = viper.BindEnv(KeyUser, branding.EnvVar("user"), branding.EnvPrefix()+"_user")
	_ = viper.BindEnv(KeyPassword, branding.EnvVar("pwd"), branding.EnvPrefix()+"_pwd", branding.EnvVar("password"))

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Current returns the resolved settings after Load and any flag bindings.
func Current() Settings {
	return Settings{
		Root:     viper.GetString(KeyRoot),
		User:     viper.GetString(KeyUser),
		Password: viper.GetString(KeyPassword),
		Timeout:  viper.GetDuration(KeyTimeout),
	}
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := Check(key, value); err != nil {
		return err
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
