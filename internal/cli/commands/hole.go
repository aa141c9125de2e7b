package commands

import (
	"fmt"
	"os"

	"github.com/leapstack-labs/strata/internal/cli/output"
	"github.com/leapstack-labs/strata/pkg/core"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

// NewHoleCommand creates the hole command group.
func NewHoleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hole",
		Short: "Manage boreholes",
		Long: `Manage boreholes and their deviation surveys.

Saving a hole rebuilds its trajectory, its reference lines in every section
and the geometry of its intervals and correlation nodes.`,
	}

	cmd.AddCommand(newHoleSaveCommand())
	cmd.AddCommand(newHoleImportCommand())
	cmd.AddCommand(newHoleListCommand())
	cmd.AddCommand(newHoleShowCommand())
	cmd.AddCommand(newHoleDeleteCommand())
	cmd.AddCommand(newHoleClosestCommand())
	cmd.AddCommand(newRebuildCommand())

	return cmd
}

func newHoleSaveCommand() *cobra.Command {
	var (
		x, y, z, depth float64
		deviations     []string
	)

	cmd := &cobra.Command{
		Use:     "save <id>",
		Aliases: []string{"add"},
		Short:   "Create or replace a hole",
		Example: `  # Vertical hole
  strata hole save DH1 --x 100 --y 200 --z 350 --depth 120

  # Deviated hole, one --deviation per survey station (depth,dip,azimuth)
  strata hole save DH2 --x 150 --y 200 --z 348 --depth 200 \
    --deviation 0,-90,0 --deviation 100,-75,45`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h := &core.Hole{ID: args[0], Collar: r3.Vec{X: x, Y: y, Z: z}, Depth: depth}
			for _, s := range deviations {
				d, err := parseDeviation(s)
				if err != nil {
					return err
				}
				h.Deviations = append(h.Deviations, d)
			}
			return runHoleSave(cmd, []*core.Hole{h})
		},
	}

	cmd.Flags().Float64Var(&x, "x", 0, "Collar easting")
	cmd.Flags().Float64Var(&y, "y", 0, "Collar northing")
	cmd.Flags().Float64Var(&z, "z", 0, "Collar elevation")
	cmd.Flags().Float64Var(&depth, "depth", 0, "Total measured depth")
	cmd.Flags().StringArrayVar(&deviations, "deviation", nil, "Survey station as depth,dip,azimuth (repeatable)")
	_ = cmd.MarkFlagRequired("depth")

	return cmd
}

// holeFile is the layout read by hole import.
type holeFile struct {
	Holes []*core.Hole `yaml:"holes"`
}

func newHoleImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Create or replace holes from a YAML file",
		Long: `Create or replace every hole listed in a YAML file, in one transaction per hole.

  holes:
    - id: DH1
      collar: {x: 100, y: 200, z: 350}
      depth: 120
      deviations:
        - {depth: 0, dip: -90, azimuth: 0}
        - {depth: 60, dip: -80, azimuth: 90}`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			var f holeFile
			if err := yaml.Unmarshal(data, &f); err != nil {
				return fmt.Errorf("failed to parse %s: %w", args[0], err)
			}
			if len(f.Holes) == 0 {
				return fmt.Errorf("%s lists no holes", args[0])
			}
			return runHoleSave(cmd, f.Holes)
		},
	}
}

func runHoleSave(cmd *cobra.Command, holes []*core.Hole) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	saved := make([]*core.Hole, 0, len(holes))
	for _, h := range holes {
		s, err := cmdCtx.Engine.SaveHole(cmd.Context(), h)
		if err != nil {
			return fmt.Errorf("failed to save hole %s: %w", h.ID, err)
		}
		if !s.HasGeometry() {
			cmdCtx.Renderer.Warn("hole %s has no trajectory", s.ID)
		}
		saved = append(saved, s)
	}
	return cmdCtx.Renderer.Render(holeTable(saved))
}

func newHoleListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List holes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			holes, err := cmdCtx.Engine.ListHoles(cmd.Context())
			if err != nil {
				return err
			}
			return cmdCtx.Renderer.Render(holeTable(holes))
		},
	}
}

func newHoleShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a hole with its trajectory and intervals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			h, err := cmdCtx.Engine.GetHole(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			intervals, err := cmdCtx.Engine.ListIntervals(cmd.Context(), h.ID)
			if err != nil {
				return err
			}

			r := cmdCtx.Renderer
			switch r.EffectiveMode() {
			case output.ModeJSON, output.ModeYAML:
				return r.Render(output.Table{Data: holeDetail{
					Hole:       h,
					Trajectory: wktOrEmpty(h.Trajectory.WKT),
					Intervals:  intervals,
				}})
			}
			if err := r.Render(holeTable([]*core.Hole{h})); err != nil {
				return err
			}
			r.Success("trajectory: %s", wktOrEmpty(h.Trajectory.WKT))
			return r.Render(intervalTable(intervals))
		},
	}
}

type holeDetail struct {
	Hole       *core.Hole       `json:"hole" yaml:"hole"`
	Trajectory string           `json:"trajectory" yaml:"trajectory"`
	Intervals  []*core.Interval `json:"intervals" yaml:"intervals"`
}

func newHoleDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a hole with its intervals and nodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := cmdCtx.Engine.DeleteHole(cmd.Context(), args[0]); err != nil {
				return err
			}
			cmdCtx.Renderer.Success("Deleted hole %s", args[0])
			return nil
		},
	}
}

func newHoleClosestCommand() *cobra.Command {
	var (
		x, y      float64
		sectionID string
	)

	cmd := &cobra.Command{
		Use:   "closest",
		Short: "Find the hole nearest to a point",
		Long: `Find the hole nearest to a point.

Without --section the point is a plan-view (x, y) and collars are searched
within max_collar_snap_distance. With --section the point is in section
coordinates and the nearest reference line wins.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			id, err := cmdCtx.Engine.ClosestHole(cmd.Context(), x, y, sectionID)
			if err != nil {
				return err
			}
			return cmdCtx.Renderer.Render(output.Table{
				Header: []string{"hole_id"},
				Rows:   [][]any{{id}},
			})
		},
	}

	cmd.Flags().Float64Var(&x, "x", 0, "Point X")
	cmd.Flags().Float64Var(&y, "y", 0, "Point Y")
	cmd.Flags().StringVar(&sectionID, "section", "", "Interpret the point in this section")

	return cmd
}

func newRebuildCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Recompute every trajectory and derived geometry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := cmdCtx.Engine.RebuildAll(cmd.Context()); err != nil {
				return err
			}
			cmdCtx.Renderer.Success("Rebuilt all holes")
			return nil
		},
	}
}

func holeTable(holes []*core.Hole) output.Table {
	t := output.Table{
		Title:  fmt.Sprintf("Holes (%d)", len(holes)),
		Header: []string{"id", "x", "y", "z", "depth", "stations"},
		Data:   holes,
	}
	for _, h := range holes {
		t.Rows = append(t.Rows, []any{h.ID, h.Collar.X, h.Collar.Y, h.Collar.Z, h.Depth, len(h.Deviations)})
	}
	return t
}
