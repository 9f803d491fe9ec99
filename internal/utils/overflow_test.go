package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeMultiplyOverflow(t *testing.T) {
	_, err := SafeMultiply(math.MaxUint64, 2)
	require.Error(t, err)
}

func TestSafeMultiplyOK(t *testing.T) {
	v, err := SafeMultiply(6, 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v)
}

func TestClampRound(t *testing.T) {
	assert.InDelta(t, 0, ClampRound(-5, 0, 255), 0)
	assert.InDelta(t, 255, ClampRound(1000, 0, 255), 0)
	assert.InDelta(t, 3, ClampRound(2.6, 0, 255), 0)
}

func TestInRange(t *testing.T) {
	assert.True(t, InRange(10, 0, 255))
	assert.False(t, InRange(-1, 0, 255))
}
