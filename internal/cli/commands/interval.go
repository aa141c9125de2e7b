package commands

import (
	"fmt"

	"github.com/leapstack-labs/strata/internal/cli/output"
	"github.com/leapstack-labs/strata/internal/interval"
	"github.com/leapstack-labs/strata/pkg/core"
	"github.com/leapstack-labs/strata/pkg/geometry"
	"github.com/spf13/cobra"
)

// NewIntervalCommand creates the interval command group.
func NewIntervalCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interval",
		Short: "Edit formation intervals",
		Long: `Edit formation intervals.

An interval is drawn as a WKT line, either in section coordinates (2D) or in
world coordinates (3D). Depths not given with --from/--to are inferred from
the drawing, rounded, and snapped against neighbouring intervals of the same
hole when the gap is within snap_tolerance.`,
	}

	cmd.AddCommand(newIntervalAddCommand())
	cmd.AddCommand(newIntervalUpdateCommand())
	cmd.AddCommand(newIntervalDeleteCommand())
	cmd.AddCommand(newIntervalListCommand())

	return cmd
}

func addIntervalFlags(cmd *cobra.Command) {
	cmd.Flags().String("hole", "", "Hole to place the interval on")
	cmd.Flags().String("section", "", "Section the drawing was made in")
	cmd.Flags().String("wkt", "", "Drawn line as WKT (2D section or 3D world coordinates)")
	cmd.Flags().Float64("from", 0, "Top depth, kept as given")
	cmd.Flags().Float64("to", 0, "Bottom depth, kept as given")
	cmd.Flags().String("code", "", "Formation code")
	cmd.Flags().String("comments", "", "Comments; inherited from the same code when omitted")
}

func intervalRequest(cmd *cobra.Command) (interval.Request, error) {
	req := interval.Request{
		From:     optionalFloat(cmd, "from"),
		To:       optionalFloat(cmd, "to"),
		Comments: optionalString(cmd, "comments"),
	}
	req.HoleID, _ = cmd.Flags().GetString("hole")
	req.SectionID, _ = cmd.Flags().GetString("section")
	req.Code, _ = cmd.Flags().GetString("code")

	if wkt, _ := cmd.Flags().GetString("wkt"); wkt != "" {
		d, err := geometry.ParseWKT(wkt)
		if err != nil {
			return interval.Request{}, err
		}
		req.Drawing = d
	}
	return req, nil
}

func newIntervalAddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Insert an interval",
		Example: `  # Drawn in section WE
  strata interval add --section WE --wkt "LINESTRING (50 -2, 50 -12)" --code CLAY

  # Manual depths
  strata interval add --hole DH1 --from 12 --to 20 --code SAND`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := intervalRequest(cmd)
			if err != nil {
				return err
			}
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := cmdCtx.Engine.InsertInterval(cmd.Context(), req)
			if err != nil {
				return err
			}
			return cmdCtx.Renderer.Render(resultTable(res))
		},
	}
	addIntervalFlags(cmd)
	return cmd
}

func newIntervalUpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an interval",
		Long: `Update an interval.

Omitted depths are inferred again from --wkt when given, otherwise the stored
depths are kept. An omitted --code keeps the stored code.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := intervalRequest(cmd)
			if err != nil {
				return err
			}
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := cmdCtx.Engine.UpdateInterval(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			return cmdCtx.Renderer.Render(resultTable(res))
		},
	}
	addIntervalFlags(cmd)
	return cmd
}

func newIntervalDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an interval",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := cmdCtx.Engine.DeleteInterval(cmd.Context(), args[0]); err != nil {
				return err
			}
			cmdCtx.Renderer.Success("Deleted interval %s", args[0])
			return nil
		},
	}
}

func newIntervalListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <hole>",
		Short: "List the intervals of a hole by depth",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			intervals, err := cmdCtx.Engine.ListIntervals(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return cmdCtx.Renderer.Render(intervalTable(intervals))
		},
	}
}

func intervalTable(intervals []*core.Interval) output.Table {
	t := output.Table{
		Title:  fmt.Sprintf("Intervals (%d)", len(intervals)),
		Header: []string{"id", "hole_id", "from", "to", "code", "comments"},
		Data:   intervals,
	}
	for _, i := range intervals {
		t.Rows = append(t.Rows, []any{i.ID, i.HoleID, i.From, i.To, i.Code, i.Comments})
	}
	return t
}

// resultView is the structured form of an edit result.
type resultView struct {
	core.Interval `yaml:",inline"`
	SectionID     string `json:"section_id,omitempty" yaml:"section_id,omitempty"`
	Geom          string `json:"geom,omitempty" yaml:"geom,omitempty"`
}

func resultTable(res *interval.Result) output.Table {
	i := res.Interval
	geom := wktOrEmpty(res.Geom.WKT)
	return output.Table{
		Header: []string{"id", "hole_id", "section_id", "from", "to", "code", "comments", "geom"},
		Rows:   [][]any{{i.ID, i.HoleID, res.SectionID, i.From, i.To, i.Code, i.Comments, geom}},
		Data:   resultView{Interval: *i, SectionID: res.SectionID, Geom: geom},
	}
}
