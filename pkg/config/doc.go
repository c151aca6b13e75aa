// Package config handles configuration management for ningen.
// It layers the embedded defaults, the user configuration file, the project
// configuration file, NINGEN_* environment variables and command-line
// overrides, later layers winning.
package config
