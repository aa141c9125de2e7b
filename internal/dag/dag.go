// Package dag models the parent/child hierarchy of correlation graphs.
// It supports cycle detection, nesting checks and top-down ordering so that
// parent references are always recomputed after the graphs they point into.
package dag

import (
	"fmt"
	"sort"

	"github.com/leapstack-labs/strata/pkg/core"
)

// Hierarchy is a directed graph of correlation graph identifiers,
// with edges pointing from parent graph to child graph.
type Hierarchy struct {
	ids      map[string]bool
	children map[string][]string // parent -> children
	parents  map[string][]string // child -> parents
}

// New creates an empty hierarchy.
func New() *Hierarchy {
	return &Hierarchy{
		ids:      make(map[string]bool),
		children: make(map[string][]string),
		parents:  make(map[string][]string),
	}
}

// FromRelationships builds a hierarchy from graph identifiers and their links.
// Graphs referenced only by a relationship are added implicitly.
func FromRelationships(graphIDs []string, rels []core.GraphRelationship) (*Hierarchy, error) {
	h := New()
	for _, id := range graphIDs {
		h.AddGraph(id)
	}
	for _, r := range rels {
		h.AddGraph(r.ParentID)
		h.AddGraph(r.ChildID)
		if err := h.Link(r.ParentID, r.ChildID); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// AddGraph adds a graph identifier. Adding an existing one is a no-op.
func (h *Hierarchy) AddGraph(id string) {
	h.ids[id] = true
}

// Has reports whether the identifier is part of the hierarchy.
func (h *Hierarchy) Has(id string) bool { return h.ids[id] }

// Link records that child is nested under parent.
func (h *Hierarchy) Link(parentID, childID string) error {
	if !h.ids[parentID] {
		return fmt.Errorf("parent graph %q does not exist", parentID)
	}
	if !h.ids[childID] {
		return fmt.Errorf("child graph %q does not exist", childID)
	}
	if parentID == childID {
		return fmt.Errorf("graph %q cannot be its own parent", parentID)
	}

	if !contains(h.children[parentID], childID) {
		h.children[parentID] = append(h.children[parentID], childID)
		sort.Strings(h.children[parentID])
	}
	if !contains(h.parents[childID], parentID) {
		h.parents[childID] = append(h.parents[childID], parentID)
		sort.Strings(h.parents[childID])
	}
	return nil
}

// Unlink removes a parent/child link if present.
func (h *Hierarchy) Unlink(parentID, childID string) {
	h.children[parentID] = remove(h.children[parentID], childID)
	h.parents[childID] = remove(h.parents[childID], parentID)
}

// Remove drops a graph and every link touching it.
func (h *Hierarchy) Remove(id string) {
	for _, c := range h.children[id] {
		h.parents[c] = remove(h.parents[c], id)
	}
	for _, p := range h.parents[id] {
		h.children[p] = remove(h.children[p], id)
	}
	delete(h.children, id)
	delete(h.parents, id)
	delete(h.ids, id)
}

// Parents returns the parent graphs of id, sorted.
func (h *Hierarchy) Parents(id string) []string { return h.parents[id] }

// Children returns the child graphs of id, sorted.
func (h *Hierarchy) Children(id string) []string { return h.children[id] }

// Len returns the number of graphs.
func (h *Hierarchy) Len() int { return len(h.ids) }

// LinkCount returns the number of parent/child links.
func (h *Hierarchy) LinkCount() int {
	count := 0
	for _, c := range h.children {
		count += len(c)
	}
	return count
}

// HasCycle returns true if the hierarchy contains a cycle, along with the cycle path.
func (h *Hierarchy) HasCycle() (bool, []string) {
	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	from := make(map[string]string)
	var cycle []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		visited[id] = true
		onStack[id] = true
		for _, c := range h.children[id] {
			if !visited[c] {
				from[c] = id
				if dfs(c) {
					return true
				}
			} else if onStack[c] {
				cycle = []string{c}
				for cur := id; cur != c; cur = from[cur] {
					cycle = append([]string{cur}, cycle...)
				}
				cycle = append([]string{c}, cycle...)
				return true
			}
		}
		onStack[id] = false
		return false
	}

	for _, id := range h.sortedIDs() {
		if !visited[id] && dfs(id) {
			return true, cycle
		}
	}
	return false, nil
}

// Depth returns the number of ancestors on the longest path above id.
// Root graphs have depth 0. The hierarchy must be acyclic.
func (h *Hierarchy) Depth(id string) int {
	best := 0
	for _, p := range h.parents[id] {
		if d := h.Depth(p) + 1; d > best {
			best = d
		}
	}
	return best
}

// Validate checks the hierarchy is acyclic and nested at most maxDepth levels.
func (h *Hierarchy) Validate(maxDepth int) error {
	if cyclic, path := h.HasCycle(); cyclic {
		return fmt.Errorf("cycle detected: %v", path)
	}
	for _, id := range h.sortedIDs() {
		if d := h.Depth(id); d > maxDepth {
			return fmt.Errorf("graph %q is nested %d levels deep, at most %d supported", id, d, maxDepth)
		}
	}
	return nil
}

// Order returns graphs with every parent before its children.
// Returns an error if the hierarchy contains a cycle.
func (h *Hierarchy) Order() ([]string, error) {
	if cyclic, path := h.HasCycle(); cyclic {
		return nil, fmt.Errorf("cycle detected: %v", path)
	}

	visited := make(map[string]bool)
	var out []string
	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, p := range h.parents[id] {
			visit(p)
		}
		out = append(out, id)
	}
	for _, id := range h.sortedIDs() {
		visit(id)
	}
	return out, nil
}

// Descendants returns every graph below the given ones, excluding them, sorted.
func (h *Hierarchy) Descendants(ids ...string) []string {
	seen := make(map[string]bool)
	var mark func(id string)
	mark = func(id string) {
		for _, c := range h.children[id] {
			if !seen[c] {
				seen[c] = true
				mark(c)
			}
		}
	}
	for _, id := range ids {
		mark(id)
	}
	for _, id := range ids {
		delete(seen, id)
	}
	return sortedKeys(seen)
}

// Roots returns graphs without parents, sorted.
func (h *Hierarchy) Roots() []string {
	var roots []string
	for _, id := range h.sortedIDs() {
		if len(h.parents[id]) == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

func (h *Hierarchy) sortedIDs() []string { return sortedKeys(h.ids) }

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}

func remove(slice []string, s string) []string {
	out := slice[:0]
	for _, v := range slice {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
