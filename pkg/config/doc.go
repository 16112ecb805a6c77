// Package config handles configuration for the setup wizard.
//
// It has two halves. Settings is the application configuration, layered
// from embedded TOML defaults, the user's XDG config file and environment
// variables. Store is the build configuration being edited: scalar build
// variables and typed sections merged from the packaged defaults, the
// external build tool, the primary data file and the override-data file,
// and written back into the target file through the patch engine.
package config
