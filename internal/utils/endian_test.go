package utils

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByteOrderForRoundTrip(t *testing.T) {
	order, err := ByteOrderFor(0)
	require.NoError(t, err)
	assert.Equal(t, binary.LittleEndian, order)
	assert.Equal(t, byte(0), EndianByteFor(order))

	order, err = ByteOrderFor(1)
	require.NoError(t, err)
	assert.Equal(t, binary.BigEndian, order)
	assert.Equal(t, byte(1), EndianByteFor(order))
}

func TestByteOrderForInvalid(t *testing.T) {
	_, err := ByteOrderFor(2)
	require.Error(t, err)
	assert.Equal(t, KindMalformed, KindOf(err))
}

func TestReadUint32AndUint64(t *testing.T) {
	buf := make([]byte, 12)
	binary.LittleEndian.PutUint32(buf[0:4], 0xdeadbeef)
	binary.LittleEndian.PutUint64(buf[4:12], 0x0102030405060708)
	r := bytes.NewReader(buf)

	v32, err := ReadUint32(r, 0, binary.LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xdeadbeef), v32)

	v64, err := ReadUint64(r, 4, binary.LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0102030405060708), v64)
}
