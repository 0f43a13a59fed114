// Package config loads the TOML configuration file used by the syncqueue
// maintenance command.
package config
