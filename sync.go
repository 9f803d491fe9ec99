package pctree

import (
	"encoding/binary"
	"sync"

	"github.com/pcgeo/pctree/internal/core"
)

// SyncTree wraps a Tree with a read-write lock, per spec.md §9: a Tree
// and its subgraph are owned by a single logical holder by default
// (concurrent mutation is undefined), but concurrent readers against an
// immutable tree are safe by construction, and a read-write lock at the
// tree boundary is sufficient for callers that do need multi-threaded
// access.
type SyncTree struct {
	mu   sync.RWMutex
	tree *Tree
}

// NewSyncTree wraps tree for concurrent use.
func NewSyncTree(tree *Tree) *SyncTree {
	return &SyncTree{tree: tree}
}

// InsertPoint takes the write lock and delegates to Tree.InsertPoint.
func (s *SyncTree) InsertPoint(coordinate core.Coordinate, attrs *core.AttrList) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.InsertPoint(coordinate, attrs)
}

// Compact takes the write lock and delegates to Tree.Compact.
func (s *SyncTree) Compact() CompactionReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Compact()
}

// Filter takes the read lock and delegates to Tree.Filter. The
// returned Tree is a fresh, disjoint copy, safe to use without the
// lock held.
func (s *SyncTree) Filter(f Filter) (*Tree, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Filter(f)
}

// NumNodes takes the read lock and delegates to Tree.NumNodes.
func (s *SyncTree) NumNodes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.NumNodes()
}

// Write takes the read lock and delegates to Tree.Write.
func (s *SyncTree) Write(w interface {
	Write(p []byte) (int, error)
}, order binary.ByteOrder) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Write(w, order)
}

// Snapshot returns the underlying Tree under the read lock, for callers
// that need to pass it to a function expecting *Tree. The snapshot
// shares the underlying node graph; mutating the original SyncTree
// afterward is undefined for any goroutine still holding a Snapshot.
func (s *SyncTree) Snapshot() *Tree {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree
}
