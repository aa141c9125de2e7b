package config

import (
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/leapstack-labs/strata/pkg/core"
)

// ConfigFileName is the name of the config file.
const ConfigFileName = "strata.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = "strata.yml"

// LoadFromDir loads the settings section of strata.yaml (or strata.yml) in dir.
// Missing keys keep their defaults; a missing file yields Default().
func LoadFromDir(dir string) (core.Settings, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(DefaultMap(), "."), nil); err != nil {
		return core.Settings{}, err
	}

	if configPath := findConfigFile(dir); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return core.Settings{}, err
		}
	}

	var s core.Settings
	if err := k.Unmarshal("settings", &s); err != nil {
		return core.Settings{}, err
	}
	ApplyDefaults(&s)
	return s, nil
}

// DefaultMap returns the defaults keyed the way they appear in strata.yaml.
func DefaultMap() map[string]interface{} {
	d := Default()
	return map[string]interface{}{
		"settings.snap_tolerance":           d.SnapTolerance,
		"settings.ghost_pattern":            d.GhostPattern,
		"settings.min_thickness":            d.MinThickness,
		"settings.correlation_angle":        d.CorrelationAngle,
		"settings.parent_correlation_angle": d.ParentCorrelationAngle,
		"settings.max_collar_snap_distance": d.MaxCollarSnapDistance,
	}
}

// findConfigFile finds the config file in the given directory.
// Returns empty string if not found.
func findConfigFile(dir string) string {
	yamlPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(yamlPath); err == nil {
		return yamlPath
	}

	ymlPath := filepath.Join(dir, ConfigFileNameAlt)
	if _, err := os.Stat(ymlPath); err == nil {
		return ymlPath
	}

	return ""
}

// FindProjectRoot walks up from the given directory to find a directory
// containing strata.yaml or strata.yml.
// Returns empty string if not found.
func FindProjectRoot(startDir string) string {
	dir := startDir
	for {
		if findConfigFile(dir) != "" {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
