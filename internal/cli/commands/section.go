package commands

import (
	"fmt"

	"github.com/leapstack-labs/strata/internal/cli/output"
	"github.com/leapstack-labs/strata/pkg/core"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"
)

// NewSectionCommand creates the section command group.
func NewSectionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "section",
		Short: "Manage cross sections",
		Long: `Manage cross sections: vertical drawing planes defined by a plan-view fence.

A point at depth projects to X = anchor x + distance along the fence and
Y = anchor y + (z - anchor z) * scale.`,
	}

	cmd.AddCommand(newSectionSaveCommand())
	cmd.AddCommand(newSectionListCommand())
	cmd.AddCommand(newSectionDeleteCommand())
	cmd.AddCommand(newSectionDefaultsCommand())
	cmd.AddCommand(newSectionLinesCommand())

	return cmd
}

func newSectionSaveCommand() *cobra.Command {
	var (
		fence             string
		ax, ay, az, scale float64
	)

	cmd := &cobra.Command{
		Use:     "save <id>",
		Aliases: []string{"add"},
		Short:   "Create or replace a section",
		Example: `  strata section save WE --fence "LINESTRING (0 0, 500 0)" --scale 1`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := parseFence(fence)
			if err != nil {
				return err
			}
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			sec := &core.Section{ID: args[0], Anchor: r3.Vec{X: ax, Y: ay, Z: az}, Fence: line, Scale: scale}
			if err := cmdCtx.Engine.SaveSection(cmd.Context(), sec); err != nil {
				return err
			}
			return cmdCtx.Renderer.Render(sectionTable([]*core.Section{sec}))
		},
	}

	cmd.Flags().StringVar(&fence, "fence", "", "Plan-view fence as WKT LINESTRING")
	cmd.Flags().Float64Var(&ax, "anchor-x", 0, "Section X of the fence start")
	cmd.Flags().Float64Var(&ay, "anchor-y", 0, "Section Y of elevation anchor-z")
	cmd.Flags().Float64Var(&az, "anchor-z", 0, "Elevation drawn at anchor-y")
	cmd.Flags().Float64Var(&scale, "scale", 1, "Vertical exaggeration")
	_ = cmd.MarkFlagRequired("fence")

	return cmd
}

func newSectionListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			sections, err := cmdCtx.Engine.ListSections(cmd.Context())
			if err != nil {
				return err
			}
			return cmdCtx.Renderer.Render(sectionTable(sections))
		},
	}
}

func newSectionDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a section and its reference lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := cmdCtx.Engine.DeleteSection(cmd.Context(), args[0]); err != nil {
				return err
			}
			cmdCtx.Renderer.Success("Deleted section %s", args[0])
			return nil
		},
	}
}

func newSectionDefaultsCommand() *cobra.Command {
	var scale, rotation float64

	cmd := &cobra.Command{
		Use:   "defaults",
		Short: "Create the two default sections framing every collar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			sections, err := cmdCtx.Engine.CreateDefaultSections(cmd.Context(), scale, rotation)
			if err != nil {
				return err
			}
			return cmdCtx.Renderer.Render(sectionTable(sections))
		},
	}

	cmd.Flags().Float64Var(&scale, "scale", 1, "Vertical exaggeration")
	cmd.Flags().Float64Var(&rotation, "rotation", 0, "Rotation of the first section in degrees")

	return cmd
}

func newSectionLinesCommand() *cobra.Command {
	var filter core.HoleSectionFilter

	cmd := &cobra.Command{
		Use:   "lines",
		Short: "List hole reference lines projected into sections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			lines, err := cmdCtx.Engine.ReferenceLines(cmd.Context(), filter)
			if err != nil {
				return err
			}
			t := output.Table{
				Title:  fmt.Sprintf("Reference lines (%d)", len(lines)),
				Header: []string{"hole_id", "section_id", "geom"},
			}
			for _, l := range lines {
				t.Rows = append(t.Rows, []any{l.HoleID, l.SectionID, wktOrEmpty(l.Geom.WKT)})
			}
			return cmdCtx.Renderer.Render(t)
		},
	}

	cmd.Flags().StringVar(&filter.HoleID, "hole", "", "Only lines of this hole")
	cmd.Flags().StringVar(&filter.SectionID, "section", "", "Only lines in this section")

	return cmd
}

func sectionTable(sections []*core.Section) output.Table {
	t := output.Table{
		Title:  fmt.Sprintf("Sections (%d)", len(sections)),
		Header: []string{"id", "anchor_x", "anchor_y", "anchor_z", "scale", "fence"},
	}
	for _, s := range sections {
		t.Rows = append(t.Rows, []any{s.ID, s.Anchor.X, s.Anchor.Y, s.Anchor.Z, s.Scale, wktOrEmpty(s.Fence.WKT)})
	}
	return t
}
