// Package config provides configuration management for the strata CLI.
//
// The project tunables live under the settings key and share their type with
// internal/config; this package adds the CLI-only fields around them.
package config

import (
	intconfig "github.com/leapstack-labs/strata/internal/config"
	"github.com/leapstack-labs/strata/pkg/core"
)

// Config holds all CLI configuration options.
type Config struct {
	StatePath    string        `koanf:"state_path" yaml:"state_path"`
	Verbose      bool          `koanf:"verbose" yaml:"verbose,omitempty"`
	OutputFormat string        `koanf:"output" yaml:"output,omitempty"`
	Settings     core.Settings `koanf:"settings" yaml:"settings"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-" yaml:"-"`
}

// Default configuration values.
const (
	DefaultStateFile = ".strata/project.db"
	DefaultOutput    = "auto" // TTY=text, non-TTY=markdown
)

// Default returns a Config with every field at its default.
func Default() *Config {
	return &Config{
		StatePath:    DefaultStateFile,
		OutputFormat: DefaultOutput,
		Settings:     intconfig.Default(),
	}
}
