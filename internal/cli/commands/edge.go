package commands

import (
	"fmt"

	"github.com/leapstack-labs/strata/internal/cli/output"
	"github.com/leapstack-labs/strata/pkg/core"
	"github.com/spf13/cobra"
)

// NewEdgeCommand creates the edge command group.
func NewEdgeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edge",
		Short: "Compute and accept correlation edges",
		Long: `Compute and accept correlation edges.

Possible edges join nodes of one graph on adjacent holes when their slope is
within correlation_angle; in a nested graph the edge must also follow the edge
between the two parent nodes within parent_correlation_angle.`,
	}

	cmd.AddCommand(newEdgePossibleCommand())
	cmd.AddCommand(newEdgeAcceptCommand())
	cmd.AddCommand(newEdgeListCommand())

	return cmd
}

func newEdgePossibleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "possible <graph>",
		Short: "Show the valid edges of a graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			edges, err := cmdCtx.Engine.PossibleEdges(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return cmdCtx.Renderer.Render(edgeTable("Possible edges", edges))
		},
	}
}

func newEdgeAcceptCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "accept <graph>",
		Short: "Store the current possible edges of a graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			edges, err := cmdCtx.Engine.AcceptPossibleEdges(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return cmdCtx.Renderer.Render(edgeTable("Accepted edges", asPossible(edges)))
		},
	}
}

func newEdgeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <graph>",
		Short: "List the accepted edges of a graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			edges, err := cmdCtx.Engine.ListEdges(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return cmdCtx.Renderer.Render(edgeTable("Edges", asPossible(edges)))
		},
	}
}

func asPossible(edges []*core.Edge) []*core.PossibleEdge {
	out := make([]*core.PossibleEdge, len(edges))
	for i, e := range edges {
		out[i] = (*core.PossibleEdge)(e)
	}
	return out
}

func edgeTable(title string, edges []*core.PossibleEdge) output.Table {
	t := output.Table{
		Title:  fmt.Sprintf("%s (%d)", title, len(edges)),
		Header: []string{"start", "end", "graph_id", "geom"},
	}
	for _, e := range edges {
		t.Rows = append(t.Rows, []any{e.StartID, e.EndID, e.GraphID, wktOrEmpty(e.Geom.WKT)})
	}
	return t
}
