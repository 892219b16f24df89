// Package config manages user-level settings stored at ~/.seesync/config.yaml.
// It layers the config file, SEE_* environment variables and command-line
// flags through Viper and exposes the resolved SEEweb connection settings.
package config
