package dag

import (
	"testing"

	"github.com/leapstack-labs/strata/pkg/core"
)

func TestHierarchy_AddAndLink(t *testing.T) {
	h := New()
	h.AddGraph("contacts")
	h.AddGraph("faults")
	h.AddGraph("veins")

	if h.Len() != 3 {
		t.Errorf("expected 3 graphs, got %d", h.Len())
	}

	if err := h.Link("contacts", "veins"); err != nil {
		t.Errorf("failed to link: %v", err)
	}
	if err := h.Link("faults", "veins"); err != nil {
		t.Errorf("failed to link: %v", err)
	}
	// duplicate links collapse
	_ = h.Link("faults", "veins")

	if h.LinkCount() != 2 {
		t.Errorf("expected 2 links, got %d", h.LinkCount())
	}
	if got := h.Parents("veins"); len(got) != 2 || got[0] != "contacts" {
		t.Errorf("unexpected parents: %v", got)
	}
	if got := h.Children("contacts"); len(got) != 1 || got[0] != "veins" {
		t.Errorf("unexpected children: %v", got)
	}
}

func TestHierarchy_LinkErrors(t *testing.T) {
	h := New()
	h.AddGraph("a")

	if err := h.Link("a", "missing"); err == nil {
		t.Error("expected error for missing child")
	}
	if err := h.Link("missing", "a"); err == nil {
		t.Error("expected error for missing parent")
	}
	if err := h.Link("a", "a"); err == nil {
		t.Error("expected error for self-parent")
	}
}

func TestHierarchy_HasCycle(t *testing.T) {
	h := New()
	for _, id := range []string{"a", "b", "c"} {
		h.AddGraph(id)
	}
	_ = h.Link("a", "b")
	_ = h.Link("b", "c")

	if cyclic, path := h.HasCycle(); cyclic {
		t.Errorf("expected no cycle, got %v", path)
	}

	_ = h.Link("c", "a")
	cyclic, path := h.HasCycle()
	if !cyclic {
		t.Fatal("expected cycle to be detected")
	}
	if len(path) == 0 {
		t.Error("expected cycle path to be non-empty")
	}
}

func TestHierarchy_Validate(t *testing.T) {
	tests := []struct {
		name    string
		rels    []core.GraphRelationship
		wantErr bool
	}{
		{
			name: "single level",
			rels: []core.GraphRelationship{{ParentID: "ref", ChildID: "child"}},
		},
		{
			name: "two parents one level",
			rels: []core.GraphRelationship{
				{ParentID: "ref1", ChildID: "child"},
				{ParentID: "ref2", ChildID: "child"},
			},
		},
		{
			name: "two levels",
			rels: []core.GraphRelationship{
				{ParentID: "ref", ChildID: "child"},
				{ParentID: "child", ChildID: "grandchild"},
			},
			wantErr: true,
		},
		{
			name: "cycle",
			rels: []core.GraphRelationship{
				{ParentID: "a", ChildID: "b"},
				{ParentID: "b", ChildID: "a"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := FromRelationships(nil, tt.rels)
			if err != nil {
				t.Fatalf("failed to build hierarchy: %v", err)
			}
			err = h.Validate(1)
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestHierarchy_Order(t *testing.T) {
	h, err := FromRelationships([]string{"z", "solo"}, []core.GraphRelationship{
		{ParentID: "z", ChildID: "a"},
		{ParentID: "m", ChildID: "a"},
	})
	if err != nil {
		t.Fatalf("failed to build hierarchy: %v", err)
	}

	order, err := h.Order()
	if err != nil {
		t.Fatalf("failed to order: %v", err)
	}
	if len(order) != 4 {
		t.Fatalf("expected 4 graphs, got %v", order)
	}

	pos := make(map[string]int)
	for i, id := range order {
		pos[id] = i
	}
	if pos["z"] >= pos["a"] || pos["m"] >= pos["a"] {
		t.Errorf("parents must come first: %v", order)
	}
}

func TestHierarchy_DescendantsAndRoots(t *testing.T) {
	h, _ := FromRelationships([]string{"other"}, []core.GraphRelationship{
		{ParentID: "ref", ChildID: "c1"},
		{ParentID: "ref", ChildID: "c2"},
	})

	desc := h.Descendants("ref")
	if len(desc) != 2 || desc[0] != "c1" || desc[1] != "c2" {
		t.Errorf("unexpected descendants: %v", desc)
	}
	if len(h.Descendants("c1")) != 0 {
		t.Error("leaf graph has no descendants")
	}

	roots := h.Roots()
	if len(roots) != 2 || roots[0] != "other" || roots[1] != "ref" {
		t.Errorf("unexpected roots: %v", roots)
	}
}

func TestHierarchy_UnlinkAndRemove(t *testing.T) {
	h, _ := FromRelationships(nil, []core.GraphRelationship{
		{ParentID: "ref", ChildID: "c1"},
		{ParentID: "ref", ChildID: "c2"},
	})

	h.Unlink("ref", "c1")
	if len(h.Parents("c1")) != 0 {
		t.Error("c1 should have no parent after unlink")
	}

	h.Remove("ref")
	if h.Has("ref") {
		t.Error("ref should be removed")
	}
	if len(h.Parents("c2")) != 0 {
		t.Error("c2 should lose its parent with ref")
	}
	if h.LinkCount() != 0 {
		t.Errorf("expected no links, got %d", h.LinkCount())
	}
}
