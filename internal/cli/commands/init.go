package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/strata/internal/cli/config"
	intconfig "github.com/leapstack-labs/strata/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new strata project",
		Long: `Initialize a new strata project.

This creates:
  - strata.yaml holding the state path and the project settings
  - the state database, with the settings stored in it`,
		Example: `  # Initialize in current directory
  strata init

  # Initialize in a new directory
  strata init my-project

  # Overwrite an existing strata.yaml
  strata init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, force bool) error {
	cc := NewCommandContextWithoutEngine(cmd)

	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	configPath := filepath.Join(dir, intconfig.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", intconfig.ConfigFileName)
	}

	file := config.Config{StatePath: config.DefaultStateFile, Settings: cc.Cfg.Settings}
	data, err := yaml.Marshal(&file)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	eng, err := createEngine(cmd.Context(), filepath.Join(dir, config.DefaultStateFile), cc.Cfg.Settings, cc.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = eng.Close() }()

	created, err := eng.Init(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to initialize state: %w", err)
	}

	cc.Renderer.Success("Wrote %s", configPath)
	if created {
		cc.Renderer.Success("Stored project settings in %s", filepath.Join(dir, config.DefaultStateFile))
	} else {
		cc.Renderer.Success("State database already holds settings; left unchanged")
	}
	return nil
}
