// Package config loads application settings from a YAML file and the
// environment. Command-line flags are applied on top by the cmd package.
package config
