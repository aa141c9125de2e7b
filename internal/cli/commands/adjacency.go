package commands

import (
	"fmt"

	"github.com/leapstack-labs/strata/internal/cli/output"
	"github.com/leapstack-labs/strata/pkg/core"
	"github.com/spf13/cobra"
)

// NewAdjacencyCommand creates the adjacency command group.
func NewAdjacencyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adjacency",
		Short: "Manage which holes may be correlated",
		Long: `Manage which holes may be correlated.

Only nodes on adjacent holes can be joined by an edge. Adjacency is either
triangulated from the collars or set explicitly.`,
	}

	cmd.AddCommand(newAdjacencyTriangulateCommand())
	cmd.AddCommand(newAdjacencySetCommand())
	cmd.AddCommand(newAdjacencyListCommand())

	return cmd
}

func newAdjacencyTriangulateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "triangulate",
		Short: "Replace adjacency with the Delaunay edges of the collars",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			pairs, err := cmdCtx.Engine.Triangulate(cmd.Context())
			if err != nil {
				return err
			}
			return cmdCtx.Renderer.Render(pairTable(pairs))
		},
	}
}

func newAdjacencySetCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "set <A:B>...",
		Short:   "Replace adjacency with explicit hole pairs",
		Example: `  strata adjacency set DH1:DH2 DH2:DH3`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs := make([]core.HolePair, 0, len(args))
			for _, a := range args {
				p, err := parseHolePair(a)
				if err != nil {
					return err
				}
				pairs = append(pairs, p)
			}

			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := cmdCtx.Engine.SetAdjacency(cmd.Context(), pairs); err != nil {
				return err
			}
			return cmdCtx.Renderer.Render(pairTable(pairs))
		},
	}
}

func newAdjacencyListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List adjacent hole pairs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			pairs, err := cmdCtx.Engine.Adjacency(cmd.Context())
			if err != nil {
				return err
			}
			return cmdCtx.Renderer.Render(pairTable(pairs))
		},
	}
}

func pairTable(pairs []core.HolePair) output.Table {
	t := output.Table{
		Title:  fmt.Sprintf("Adjacent holes (%d)", len(pairs)),
		Header: []string{"a", "b"},
	}
	for _, p := range pairs {
		t.Rows = append(t.Rows, []any{p.A, p.B})
	}
	return t
}
