// Package pctree stores and queries point clouds as a geohash-indexed
// radix tree: each point's (x,y) location is encoded as a short textual
// geohash, points sharing a common prefix are grouped under a shared
// node, and non-spatial measurements attach to nodes as typed
// attributes that get compacted upward when they agree across an
// entire subtree.
package pctree

import (
	"encoding/binary"

	"github.com/pcgeo/pctree/internal/codec"
	"github.com/pcgeo/pctree/internal/core"
	"github.com/pcgeo/pctree/internal/utils"
)

// Logf is an optional, swappable hook for diagnostic output. It
// defaults to a no-op; callers that want visibility into build/compact
// progress can replace it.
var Logf func(format string, args ...any) = func(string, ...any) {}

// DupesPolicy mirrors core.DupesPolicy at the public API boundary.
type DupesPolicy = core.DupesPolicy

const (
	DupesNo  = core.DupesNo
	DupesYes = core.DupesYes
)

// Config carries build-time options for a Tree.
type Config struct {
	MaxResolution int
	Dupes         DupesPolicy
}

// DefaultConfig returns the conventional build configuration: full
// resolution, no duplicate leaves.
func DefaultConfig() Config {
	return Config{MaxResolution: core.MaxResolution, Dupes: DupesNo}
}

// Tree is (schema, root, num_nodes, config): a Tree uniquely owns its
// root Node, which in turn uniquely owns its children and attributes.
// Attributes reference (do not own) Dimensions living in the schema.
type Tree struct {
	schema   *core.Schema
	root     *core.Node
	numNodes int
	config   Config
}

// New constructs an empty tree over schema with the given config.
func New(schema *core.Schema, config Config) (*Tree, error) {
	if schema == nil {
		return nil, utils.New(utils.KindError, "nil schema")
	}
	if !schema.HasXY() {
		return nil, utils.New(utils.KindMalformed, "schema must begin with X, Y dimensions")
	}
	return &Tree{
		schema: schema,
		root:   core.NewInternal(""),
		config: config,
	}, nil
}

// Schema returns the tree's schema.
func (t *Tree) Schema() *core.Schema {
	return t.schema
}

// NumNodes returns the number of leaves (points) in the tree.
func (t *Tree) NumNodes() int {
	return t.numNodes
}

// Config returns the tree's build configuration.
func (t *Tree) Config() Config {
	return t.config
}

// InsertPoint encodes coordinate at the config's max resolution, builds
// a leaf carrying attrs, and inserts it into the tree.
func (t *Tree) InsertPoint(coordinate core.Coordinate, attrs *core.AttrList) error {
	hash, err := core.Encode(coordinate, t.config.MaxResolution)
	if err != nil {
		return err
	}
	leaf := core.NewLeaf(hash, attrs)
	core.Insert(t.root, leaf, t.config.Dupes)
	t.numNodes = core.CountLeaves(t.root)
	return nil
}

// NewFromNodeList allocates a root with the empty hash, inserts every
// leaf (by its full-resolution hash and payload attributes) via the
// insertion state machine, runs compaction, and counts leaves.
func NewFromNodeList(schema *core.Schema, config Config, hashes []string, attrLists []*core.AttrList) (*Tree, CompactionReport, error) {
	if len(hashes) != len(attrLists) {
		return nil, CompactionReport{}, utils.New(utils.KindError, "hashes and attrLists length mismatch")
	}
	t, err := New(schema, config)
	if err != nil {
		return nil, CompactionReport{}, err
	}
	for i, h := range hashes {
		leaf := core.NewLeaf(h, attrLists[i])
		core.Insert(t.root, leaf, config.Dupes)
	}
	t.numNodes = core.CountLeaves(t.root)
	report := t.Compact()
	return t, report, nil
}

// Write serializes the tree (header + body, per the wire format) to w
// using order as the on-disk endianness.
func (t *Tree) Write(w interface {
	Write(p []byte) (int, error)
}, order binary.ByteOrder) error {
	return codec.Write(w, order, t.root, t.numNodes)
}

// Read rehydrates a tree from r (a codec.FileReader or codec.MemReader)
// against schema, which the caller supplies out of band.
func Read(r interface {
	utils.ReaderAt
	Size() int64
}, schema *core.Schema, config Config) (*Tree, error) {
	root, numLeaves, err := codec.Read(r, schema)
	if err != nil {
		return nil, err
	}
	return &Tree{schema: schema, root: root, numNodes: numLeaves, config: config}, nil
}
