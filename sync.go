package boardkit

import (
	"context"

	"github.com/charmbracelet/log"
)

// ElementStore is the external owner of the element list. The graph only
// reads it, except for Reparent, which writes parent changes through it.
type ElementStore interface {
	// Elements returns a snapshot of the current element list.
	Elements(ctx context.Context) ([]Element, error)
	// UpdateParents sets ParentID for every id in changes (empty detaches).
	// Implementations should apply all changes or none.
	UpdateParents(ctx context.Context, changes map[string]string) error
}

// VersionedStore is implemented by stores that count their changes. The
// counter lets GraphSync skip hashing an unchanged list.
type VersionedStore interface {
	Version() uint64
}

// GraphSync keeps a Graph in lock-step with an ElementStore. The graph is a
// projection: every refresh rebuilds it from the full element list unless
// the list is unchanged.
type GraphSync struct {
	graph  *Graph
	store  ElementStore
	cache  ProjectionCache
	logger *log.Logger
}

// NewGraphSync creates a sync adapter over store. store may be nil when the
// caller feeds elements through Sync and accepts in-memory-only reparenting.
func NewGraphSync(store ElementStore, logger *log.Logger) *GraphSync {
	if logger == nil {
		logger = DefaultConfig().Logger
	}
	return &GraphSync{graph: NewGraph(), store: store, logger: logger}
}

// Graph returns the synced graph.
func (s *GraphSync) Graph() *Graph { return s.graph }

// Store returns the backing store, which may be nil.
func (s *GraphSync) Store() ElementStore { return s.store }

// Sync projects elements into the graph. version is the source's change
// counter (0 if unknown). Reports whether the graph was rebuilt.
func (s *GraphSync) Sync(elements []Element, version uint64) bool {
	snap, changed := s.cache.Project(elements, version)
	if !changed {
		return false
	}
	s.graph.Import(snap)
	s.logger.Debug("graph rebuilt", "nodes", len(snap.Nodes), "edges", len(snap.Edges))
	return true
}

// Refresh reloads the element list from the store and syncs it.
func (s *GraphSync) Refresh(ctx context.Context) (bool, error) {
	if s.store == nil {
		return false, nil
	}
	var version uint64
	if v, ok := s.store.(VersionedStore); ok {
		version = v.Version()
	}
	elements, err := s.store.Elements(ctx)
	if err != nil {
		return false, WrapError(ErrCodeStoreFailure, err, "load elements")
	}
	return s.Sync(elements, version), nil
}

// Reparent moves nodeIDs under newParentID (empty detaches). The whole batch
// is validated against the graph, then persisted through the store, then
// applied to the graph. Any failure leaves both unchanged.
func (s *GraphSync) Reparent(ctx context.Context, nodeIDs []string, newParentID string) error {
	changes, err := s.graph.PlanReparent(nodeIDs, newParentID)
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		return nil
	}
	if s.store != nil {
		if err := s.store.UpdateParents(ctx, changes); err != nil {
			return WrapError(ErrCodeStoreFailure, err, "persist parent of %d nodes", len(changes))
		}
	}
	s.graph.applyParents(changes)
	s.cache.Invalidate()
	return nil
}
