package commands

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/leapstack-labs/strata/internal/cli/output"
	"github.com/leapstack-labs/strata/pkg/core"
	"github.com/spf13/cobra"
)

// NewSettingsCommand creates the settings command group.
func NewSettingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the project settings",
		Long: `Show or change the project settings stored in the state database.

Settings are read at the start of every operation. Changing them does not
revisit intervals or edges stored earlier.`,
	}

	cmd.AddCommand(newSettingsShowCommand())
	cmd.AddCommand(newSettingsSetCommand())

	return cmd
}

func newSettingsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the settings in effect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			s, err := cmdCtx.Engine.Settings(cmd.Context())
			if err != nil {
				return err
			}
			return cmdCtx.Renderer.Render(settingsTable(s))
		},
	}
}

func newSettingsSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "set <key=value>...",
		Short:   "Change settings",
		Example: `  strata settings set snap_tolerance=0.05 ghost_pattern=%ghost%`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			s, err := cmdCtx.Engine.Settings(cmd.Context())
			if err != nil {
				return err
			}
			if err := applySettings(&s, args); err != nil {
				return err
			}
			if err := cmdCtx.Engine.UpdateSettings(cmd.Context(), s); err != nil {
				return err
			}
			return cmdCtx.Renderer.Render(settingsTable(s))
		},
	}
}

// applySettings decodes key=value pairs onto s. Values are weakly typed, so
// "0.05" sets a float field.
func applySettings(s *core.Settings, pairs []string) error {
	values := make(map[string]any, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return fmt.Errorf("setting %q: want key=value", p)
		}
		values[key] = value
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "koanf",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           s,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(values); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

func settingsTable(s core.Settings) output.Table {
	return output.Table{
		Title:  "Settings",
		Header: []string{"key", "value"},
		Rows: [][]any{
			{"snap_tolerance", s.SnapTolerance},
			{"ghost_pattern", s.GhostPattern},
			{"min_thickness", s.MinThickness},
			{"correlation_angle", s.CorrelationAngle},
			{"parent_correlation_angle", s.ParentCorrelationAngle},
			{"max_collar_snap_distance", s.MaxCollarSnapDistance},
		},
		Data: s,
	}
}
