// Package cli defines the Cobra command tree for the seesync CLI. Each file
// registers one or more commands with the root command. Commands delegate to
// the internal packages and only handle flags, settings and output.
package cli
