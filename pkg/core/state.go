package core

import "context"

// Store opens transactions over the persisted project.
//
// Every editing operation runs inside exactly one WithTx call; returning an
// error from fn rolls back everything fn wrote.
type Store interface {
	WithTx(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}

// Tx is the transactional view of the project handed to services.
type Tx interface {
	SettingsRepository
	HoleRepository
	SectionRepository
	IntervalRepository
	GraphRepository
	NodeRepository
	EdgeRepository
}

// SettingsRepository persists the project tunables.
type SettingsRepository interface {
	// GetSettings returns ErrNotFound when the project was never initialized.
	GetSettings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, s Settings) error
}

// HoleRepository stores holes, their deviations and the per-section reference lines.
type HoleRepository interface {
	GetHole(ctx context.Context, id string) (*Hole, error)
	ListHoles(ctx context.Context) ([]*Hole, error)
	SaveHole(ctx context.Context, h *Hole) error
	DeleteHole(ctx context.Context, id string) error

	ListHoleSections(ctx context.Context, filter HoleSectionFilter) ([]*HoleSection, error)
	SaveHoleSection(ctx context.Context, hs *HoleSection) error
	DeleteHoleSections(ctx context.Context, filter HoleSectionFilter) error

	ListAdjacency(ctx context.Context) ([]HolePair, error)
	ReplaceAdjacency(ctx context.Context, pairs []HolePair) error
}

// HoleSectionFilter narrows reference line queries; empty fields match everything.
type HoleSectionFilter struct {
	HoleID    string
	SectionID string
}

// SectionRepository stores sections.
type SectionRepository interface {
	GetSection(ctx context.Context, id string) (*Section, error)
	ListSections(ctx context.Context) ([]*Section, error)
	SaveSection(ctx context.Context, s *Section) error
	DeleteSection(ctx context.Context, id string) error
}

// IntervalRepository stores formation records.
type IntervalRepository interface {
	GetInterval(ctx context.Context, id string) (*Interval, error)
	// ListIntervals returns the intervals of a hole ordered by From.
	ListIntervals(ctx context.Context, holeID string) ([]*Interval, error)
	// ListIntervalsByCode returns every interval with the code ordered by From.
	ListIntervalsByCode(ctx context.Context, code string) ([]*Interval, error)
	InsertInterval(ctx context.Context, i *Interval) error
	UpdateInterval(ctx context.Context, i *Interval) error
	DeleteInterval(ctx context.Context, id string) error
}

// GraphRepository stores graphs and their parent/child relationships.
type GraphRepository interface {
	GetGraph(ctx context.Context, id string) (*Graph, error)
	ListGraphs(ctx context.Context) ([]*Graph, error)
	InsertGraph(ctx context.Context, g *Graph) error
	UpdateGraph(ctx context.Context, g *Graph) error
	DeleteGraph(ctx context.Context, id string) error

	ListRelationships(ctx context.Context) ([]GraphRelationship, error)
	AddRelationship(ctx context.Context, r GraphRelationship) error
	RemoveRelationship(ctx context.Context, r GraphRelationship) error
}

// NodeRepository stores correlation nodes.
type NodeRepository interface {
	GetNode(ctx context.Context, id string) (*Node, error)
	// ListNodes returns nodes in insertion order.
	ListNodes(ctx context.Context, filter NodeFilter) ([]*Node, error)
	InsertNode(ctx context.Context, n *Node) error
	UpdateNode(ctx context.Context, n *Node) error
	SetNodeParent(ctx context.Context, id, parentID string) error
	DeleteNode(ctx context.Context, id string) error
}

// NodeFilter narrows node queries; empty fields match everything.
type NodeFilter struct {
	GraphIDs []string
	HoleID   string
}

// EdgeRepository stores accepted correlation edges.
type EdgeRepository interface {
	ListEdges(ctx context.Context, graphID string) ([]*Edge, error)
	InsertEdge(ctx context.Context, e *Edge) error
	DeleteEdges(ctx context.Context, graphID string) error
}
