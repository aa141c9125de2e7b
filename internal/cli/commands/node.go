package commands

import (
	"fmt"

	"github.com/leapstack-labs/strata/internal/cli/output"
	"github.com/leapstack-labs/strata/pkg/core"
	"github.com/spf13/cobra"
)

// NewNodeCommand creates the node command group.
func NewNodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Manage correlation nodes",
		Long: `Manage correlation nodes: depth ranges on a hole belonging to a graph.

Inserting, moving or deleting a node re-parents the nodes of child graphs.`,
	}

	cmd.AddCommand(newNodeAddCommand())
	cmd.AddCommand(newNodeUpdateCommand())
	cmd.AddCommand(newNodeDeleteCommand())
	cmd.AddCommand(newNodeListCommand())

	return cmd
}

func nodeFlags(cmd *cobra.Command, n *core.Node) {
	cmd.Flags().StringVar(&n.GraphID, "graph", "", "Graph the node belongs to")
	cmd.Flags().StringVar(&n.HoleID, "hole", "", "Hole the node lies on")
	cmd.Flags().Float64Var(&n.From, "from", 0, "Top depth")
	cmd.Flags().Float64Var(&n.To, "to", 0, "Bottom depth")
}

func newNodeAddCommand() *cobra.Command {
	var n core.Node

	cmd := &cobra.Command{
		Use:     "add [id]",
		Short:   "Insert a node",
		Example: `  strata node add top-clay --graph stratigraphy --hole DH1 --from 12 --to 12.5`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				n.ID = args[0]
			}
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			saved, err := cmdCtx.Engine.InsertNode(cmd.Context(), &n)
			if err != nil {
				return err
			}
			return cmdCtx.Renderer.Render(nodeTable([]*core.Node{saved}))
		},
	}

	nodeFlags(cmd, &n)
	_ = cmd.MarkFlagRequired("graph")
	_ = cmd.MarkFlagRequired("hole")

	return cmd
}

func newNodeUpdateCommand() *cobra.Command {
	var n core.Node

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Move a node",
		Long: `Move a node. An omitted --graph or --hole keeps the stored value; the
depths are always replaced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n.ID = args[0]
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			saved, err := cmdCtx.Engine.UpdateNode(cmd.Context(), &n)
			if err != nil {
				return err
			}
			return cmdCtx.Renderer.Render(nodeTable([]*core.Node{saved}))
		},
	}

	nodeFlags(cmd, &n)
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func newNodeDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := cmdCtx.Engine.DeleteNode(cmd.Context(), args[0]); err != nil {
				return err
			}
			cmdCtx.Renderer.Success("Deleted node %s", args[0])
			return nil
		},
	}
}

func newNodeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <graph>",
		Short: "List the nodes of a graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			nodes, err := cmdCtx.Engine.ListNodes(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return cmdCtx.Renderer.Render(nodeTable(nodes))
		},
	}
}

func nodeTable(nodes []*core.Node) output.Table {
	t := output.Table{
		Title:  fmt.Sprintf("Nodes (%d)", len(nodes)),
		Header: []string{"id", "graph_id", "hole_id", "from", "to", "parent"},
		Data:   nodes,
	}
	for _, n := range nodes {
		t.Rows = append(t.Rows, []any{n.ID, n.GraphID, n.HoleID, n.From, n.To, n.ParentID})
	}
	return t
}
