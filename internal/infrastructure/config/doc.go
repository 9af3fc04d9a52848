// Package config provides configuration loading for the viewer host.
//
// Configuration is resolved in three layers: built-in defaults, an
// optional viewer.toml settings file, and environment variables. The
// settings file, when supplied, overrides the other two; it is the
// channel packaged installs use, while environment variables serve
// development and CI.
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	if err := config.ApplyFile("viewer.toml", cfg); err != nil { ... }
package config
