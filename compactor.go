package pctree

import "github.com/pcgeo/pctree/internal/core"

// CompactionReport mirrors core.CompactionReport at the public boundary.
type CompactionReport = core.CompactionReport

// Compact runs the upward attribute-compaction pass over every payload
// dimension (positions 2 and up — X, Y live in the hash, not an
// attribute). The operation is idempotent.
func (t *Tree) Compact() CompactionReport {
	report := core.CompactTree(t.root, t.schema.PayloadDims())
	if report.AttributesRemoved > 0 {
		Logf("compact: moved %d attribute(s) across %d dimension(s)",
			report.AttributesRemoved, report.DimensionsCompacted)
	}
	return report
}
