package commands

import (
	"fmt"

	"github.com/leapstack-labs/strata/internal/cli/output"
	"github.com/spf13/cobra"
)

// NewGraphCommand creates the graph command group.
func NewGraphCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Manage correlation graphs",
		Long: `Manage correlation graphs.

A graph may be nested under parent graphs, one level deep. Nodes of a nested
graph take the closest node of a parent graph on the same hole as their parent.`,
	}

	cmd.AddCommand(newGraphCreateCommand())
	cmd.AddCommand(newGraphDeleteCommand())
	cmd.AddCommand(newGraphLinkCommand())
	cmd.AddCommand(newGraphUnlinkCommand())
	cmd.AddCommand(newGraphTypeCommand())
	cmd.AddCommand(newGraphListCommand())

	return cmd
}

func newGraphCreateCommand() *cobra.Command {
	var (
		graphType string
		parents   []string
	)

	cmd := &cobra.Command{
		Use:   "create <id>",
		Short: "Create a graph",
		Example: `  strata graph create stratigraphy --type lithology
  strata graph create units --parent stratigraphy`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			g, err := cmdCtx.Engine.CreateGraph(cmd.Context(), args[0], graphType, parents)
			if err != nil {
				return err
			}
			return cmdCtx.Renderer.Render(output.Table{
				Header: []string{"id", "type", "parents"},
				Rows:   [][]any{{g.ID, g.Type, fmt.Sprint(parents)}},
				Data:   g,
			})
		},
	}

	cmd.Flags().StringVar(&graphType, "type", "", "Graph type")
	cmd.Flags().StringSliceVar(&parents, "parent", nil, "Parent graph (repeatable)")

	return cmd
}

func newGraphDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a graph with its nodes and edges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := cmdCtx.Engine.DeleteGraph(cmd.Context(), args[0]); err != nil {
				return err
			}
			cmdCtx.Renderer.Success("Deleted graph %s", args[0])
			return nil
		},
	}
}

func newGraphLinkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "link <parent> <child>",
		Short: "Nest a graph under a parent graph",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := cmdCtx.Engine.AddGraphRelationship(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			cmdCtx.Renderer.Success("Linked %s -> %s", args[0], args[1])
			return nil
		},
	}
}

func newGraphUnlinkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unlink <parent> <child>",
		Short: "Remove a parent graph from a child graph",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := cmdCtx.Engine.RemoveGraphRelationship(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			cmdCtx.Renderer.Success("Unlinked %s -> %s", args[0], args[1])
			return nil
		},
	}
}

func newGraphTypeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "type <id> <type>",
		Short: "Check a graph type, assigning it when unset",
		Long: `Check a graph type, assigning it when unset.

Fails when the graph already has a different type.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ok, err := cmdCtx.Engine.EnsureGraphType(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("graph %s is not of type %s", args[0], args[1])
			}
			cmdCtx.Renderer.Success("Graph %s is of type %s", args[0], args[1])
			return nil
		},
	}
}

func newGraphListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List graphs with their parents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			graphs, err := cmdCtx.Engine.ListGraphs(cmd.Context())
			if err != nil {
				return err
			}
			rels, err := cmdCtx.Engine.ListRelationships(cmd.Context())
			if err != nil {
				return err
			}
			parents := make(map[string][]string)
			for _, rel := range rels {
				parents[rel.ChildID] = append(parents[rel.ChildID], rel.ParentID)
			}

			t := output.Table{
				Title:  fmt.Sprintf("Graphs (%d)", len(graphs)),
				Header: []string{"id", "type", "parents"},
			}
			for _, g := range graphs {
				t.Rows = append(t.Rows, []any{g.ID, g.Type, parents[g.ID]})
			}
			return cmdCtx.Renderer.Render(t)
		},
	}
}
