package core

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcgeo/pctree/internal/utils"
)

func dim(t *testing.T, name string, typ PrimType, scale, offset float64) *Dimension {
	t.Helper()
	d, err := NewDimension(name, "", typ, scale, offset)
	require.NoError(t, err)
	return d
}

func TestNewFromDoubleQuantizesIntegerDimension(t *testing.T) {
	d := dim(t, "intensity", Uint16, 0.01, 0)
	d.Position = 2

	attr, err := NewFromDouble(d, 12.3)
	require.NoError(t, err)
	assert.InDelta(t, 12.3, attr.GetValue(), 0.01)
}

func TestNewFromDoubleFloatRoundTrip(t *testing.T) {
	d := dim(t, "z", Float32, 1, 0)
	d.Position = 1

	attr, err := NewFromDouble(d, -3.5)
	require.NoError(t, err)
	assert.InDelta(t, -3.5, attr.GetValue(), 1e-6)
}

func TestNewFromDoubleFloatAppliesScaleAndOffset(t *testing.T) {
	d := dim(t, "z", Float64, 0.01, 100)
	d.Position = 1

	attr, err := NewFromDouble(d, 42.5)
	require.NoError(t, err)
	assert.InDelta(t, 42.5, attr.GetValue(), 1e-9)

	// the packed bytes carry the quantized stored value (v-offset)/scale,
	// not the raw input v
	stored := math.Float64frombits(binary.LittleEndian.Uint64(attr.Packed[:8]))
	assert.InDelta(t, (42.5-100)/0.01, stored, 1e-6)
}

func TestNewFromDoubleOutOfRange(t *testing.T) {
	d := dim(t, "classification", Uint8, 1, 0)
	d.Position = 3

	_, err := NewFromDouble(d, 9000)
	require.Error(t, err)
	assert.Equal(t, utils.KindRange, utils.KindOf(err))
}

func TestAttrListAppendHasGetByDimension(t *testing.T) {
	d1 := dim(t, "intensity", Uint16, 1, 0)
	d1.Position = 0
	d2 := dim(t, "classification", Uint8, 1, 0)
	d2.Position = 1

	a1, err := NewFromDouble(d1, 100)
	require.NoError(t, err)
	a2, err := NewFromDouble(d2, 7)
	require.NoError(t, err)

	list := NewAttrList()
	list.Append(a1)
	list.Append(a2)

	assert.True(t, list.Has(d1))
	assert.True(t, list.Has(d2))

	got := list.GetByDimension(d2)
	require.NotNil(t, got)
	assert.InDelta(t, 7, got.GetValue(), 1e-9)
}

func TestAttrListRemove(t *testing.T) {
	d1 := dim(t, "a", Uint8, 1, 0)
	d1.Position = 0
	d2 := dim(t, "b", Uint8, 1, 0)
	d2.Position = 1

	a1, _ := NewFromDouble(d1, 1)
	a2, _ := NewFromDouble(d2, 2)

	list := NewAttrList()
	list.Append(a1)
	list.Append(a2)
	list.Remove(d1)

	assert.False(t, list.Has(d1))
	assert.True(t, list.Has(d2))
	assert.Same(t, a2, list.Head())
}

func TestAttrListClone(t *testing.T) {
	d := dim(t, "a", Uint8, 1, 0)
	d.Position = 0
	a, _ := NewFromDouble(d, 5)

	list := NewAttrList()
	list.Append(a)

	clone := list.Clone()
	clone.Head().Packed[0] = 255

	assert.NotEqual(t, clone.Head().Packed[0], list.Head().Packed[0])
}

func TestUnionPrefersFirstListOnConflict(t *testing.T) {
	d1 := dim(t, "a", Uint8, 1, 0)
	d1.Position = 0
	d2 := dim(t, "b", Uint8, 1, 0)
	d2.Position = 1

	a1, _ := NewFromDouble(d1, 1)
	a2First, _ := NewFromDouble(d2, 2)
	a2Second, _ := NewFromDouble(d2, 99)

	first := NewAttrList()
	first.Append(a1)
	first.Append(a2First)

	second := NewAttrList()
	second.Append(a2Second)

	d3 := dim(t, "c", Uint8, 1, 0)
	d3.Position = 2
	a3, _ := NewFromDouble(d3, 3)
	second.Append(a3)

	merged := Union(first, second)

	got2 := merged.GetByDimension(d2)
	require.NotNil(t, got2)
	assert.InDelta(t, 2, got2.GetValue(), 1e-9)

	got3 := merged.GetByDimension(d3)
	require.NotNil(t, got3)
	assert.InDelta(t, 3, got3.GetValue(), 1e-9)
}

func TestAttributeEqual(t *testing.T) {
	d := dim(t, "a", Uint8, 1, 0)
	d.Position = 0
	a1, _ := NewFromDouble(d, 5)
	a2, _ := NewFromDouble(d, 5)
	a3, _ := NewFromDouble(d, 6)

	assert.True(t, a1.Equal(a2))
	assert.False(t, a1.Equal(a3))
}
