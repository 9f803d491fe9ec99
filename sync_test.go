package pctree

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcgeo/pctree/internal/core"
)

func TestSyncTreeConcurrentInserts(t *testing.T) {
	schema := buildTestSchema(t)
	tree, err := New(schema, Config{MaxResolution: 8, Dupes: DupesYes})
	require.NoError(t, err)
	st := NewSyncTree(tree)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			x := float64(i%10) * 0.01
			y := float64(i/10) * 0.01
			_ = st.InsertPoint(core.Coordinate{X: x, Y: y}, zAttr(t, schema, float64(i)))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, st.NumNodes())
}

func TestSyncTreeFilterReturnsIndependentTree(t *testing.T) {
	schema := buildTestSchema(t)
	tree, err := New(schema, Config{MaxResolution: 8, Dupes: DupesNo})
	require.NoError(t, err)
	require.NoError(t, tree.InsertPoint(core.Coordinate{X: 1, Y: 1}, zAttr(t, schema, 9.0)))

	st := NewSyncTree(tree)
	zDim, err := schema.ByName("Z")
	require.NoError(t, err)

	filtered, err := st.Filter(Filter{Dim: zDim, Op: GreaterThan, Threshold: 1.0})
	require.NoError(t, err)
	assert.Equal(t, 1, filtered.NumNodes())
}
