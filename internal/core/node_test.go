package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zDim(t *testing.T) *Dimension {
	t.Helper()
	d := dim(t, "Z", Float64, 1, 0)
	d.Position = 2
	return d
}

func leafWithZ(t *testing.T, fragment string, z float64, d *Dimension) *Node {
	t.Helper()
	attr, err := NewFromDouble(d, z)
	require.NoError(t, err)
	list := NewAttrList()
	list.Append(attr)
	return NewLeaf(fragment, list)
}

func TestInsertFirstChildAttachesDirectly(t *testing.T) {
	root := NewInternal("")
	d := zDim(t)
	leaf := leafWithZ(t, "abcde", 1.0, d)

	Insert(root, leaf, DupesNo)

	require.Len(t, root.Children, 1)
	assert.Equal(t, "abcde", root.Children[0].Fragment)
}

func TestInsertSplitCreatesSharedParent(t *testing.T) {
	root := NewInternal("")
	d := zDim(t)

	Insert(root, leafWithZ(t, "abcde", 1.0, d), DupesNo)
	Insert(root, leafWithZ(t, "abcpq", 2.0, d), DupesNo)

	require.Len(t, root.Children, 1)
	shared := root.Children[0]
	assert.Equal(t, "abc", shared.Fragment)
	require.Len(t, shared.Children, 2)
	assert.ElementsMatch(t, []string{"de", "pq"}, []string{shared.Children[0].Fragment, shared.Children[1].Fragment})
}

func TestInsertChildBUnderARecursesIntoExistingNode(t *testing.T) {
	root := NewInternal("")
	d := zDim(t)

	Insert(root, leafWithZ(t, "abc", 1.0, d), DupesNo)
	Insert(root, leafWithZ(t, "abcde", 2.0, d), DupesNo)

	require.Len(t, root.Children, 1)
	abc := root.Children[0]
	assert.Equal(t, "abc", abc.Fragment)
	require.Len(t, abc.Children, 1)
	assert.Equal(t, "de", abc.Children[0].Fragment)
}

func TestInsertChildAUnderBInvertsExistingNode(t *testing.T) {
	root := NewInternal("")
	d := zDim(t)

	Insert(root, leafWithZ(t, "abcde", 1.0, d), DupesNo)
	Insert(root, leafWithZ(t, "abc", 2.0, d), DupesNo)

	require.Len(t, root.Children, 1)
	shared := root.Children[0]
	assert.Equal(t, "abc", shared.Fragment)
	require.Len(t, shared.Children, 2)
	assert.ElementsMatch(t, []string{"de", ""}, []string{shared.Children[0].Fragment, shared.Children[1].Fragment})
}

func TestInsertSameDupesNoMergesAttributes(t *testing.T) {
	root := NewInternal("")
	d := zDim(t)
	classDim := dim(t, "classification", Uint8, 1, 0)
	classDim.Position = 3

	first := leafWithZ(t, "abcde", 1.0, d)
	Insert(root, first, DupesNo)

	classAttr, err := NewFromDouble(classDim, 9)
	require.NoError(t, err)
	dupList := NewAttrList()
	dupList.Append(classAttr)
	dup := NewLeaf("abcde", dupList)

	Insert(root, dup, DupesNo)

	require.Len(t, root.Children, 1)
	merged := root.Children[0]
	assert.True(t, merged.Attrs.Has(d))
	assert.True(t, merged.Attrs.Has(classDim))
}

func TestInsertSameDupesYesKeepsSiblings(t *testing.T) {
	root := NewInternal("")
	d := zDim(t)

	Insert(root, leafWithZ(t, "abcde", 1.0, d), DupesYes)
	Insert(root, leafWithZ(t, "abcde", 2.0, d), DupesYes)

	require.Len(t, root.Children, 2)
}

func TestCountLeavesAfterMultipleInserts(t *testing.T) {
	root := NewInternal("")
	d := zDim(t)

	Insert(root, leafWithZ(t, "s00000", 0, d), DupesNo)
	Insert(root, leafWithZ(t, "s00001", 1, d), DupesNo)
	Insert(root, leafWithZ(t, "tzzzzz", 2, d), DupesNo)

	assert.Equal(t, 3, CountLeaves(root))
}

func TestZAverageCompactedAtInternalNode(t *testing.T) {
	root := NewInternal("")
	d := zDim(t)

	Insert(root, leafWithZ(t, "s00000", 5.0, d), DupesNo)
	Insert(root, leafWithZ(t, "s00001", 5.0, d), DupesNo)

	report := CompactTree(root, []*Dimension{d})
	assert.Equal(t, 1, report.DimensionsCompacted)
	// two from the leaves, then one from their shared "s0000" parent as
	// the value moves on up to the root
	assert.Equal(t, 3, report.AttributesRemoved)

	assert.InDelta(t, 5.0, root.ZAverage(d), 1e-9)
}
