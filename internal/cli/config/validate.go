package config

import (
	"fmt"

	intconfig "github.com/leapstack-labs/strata/internal/config"
)

// OutputFormats lists the accepted values of the output option.
var OutputFormats = []string{"auto", "text", "markdown", "json", "yaml"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.StatePath == "" {
		return fmt.Errorf("state_path is required")
	}

	valid := false
	for _, f := range OutputFormats {
		if c.OutputFormat == f {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid output format %q (want one of %v)", c.OutputFormat, OutputFormats)
	}

	if err := intconfig.Validate(c.Settings); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}
