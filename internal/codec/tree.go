package codec

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/pcgeo/pctree/internal/core"
	"github.com/pcgeo/pctree/internal/utils"
)

// maxAttrCount and maxChildCount bound the single-byte / 4-byte counts
// the wire format allows, guarding against corrupt files claiming an
// impossible node shape.
const (
	maxAttrCount  = math.MaxUint8
	maxHashLen    = math.MaxUint8
	maxChildCount = math.MaxUint32
)

// minNodeSize is the smallest a serialized node can possibly be
// (hash_len(1) + flag(1) + attr_count(1) + child_count(4), no hash
// bytes, no attributes, no children) — the lower bound a declared
// child_count is checked against before the decoder commits to
// recursing that many times.
const minNodeSize = 1 + 1 + 1 + 4

// Write serializes header + tree body (num_nodes followed by a
// pre-order DFS of root) to w using order as the wire endianness.
// numLeaves is the tree's declared leaf count (core.CountLeaves(root)).
func Write(w io.Writer, order binary.ByteOrder, root *core.Node, numLeaves int) error {
	if numLeaves < 0 || uint64(numLeaves) > maxChildCount {
		return utils.New(utils.KindRange, "num_nodes out of range")
	}

	if _, err := w.Write(Header{Version: Version, Order: order}.Encode()); err != nil {
		return utils.Wrap(utils.KindIOError, "write header", err)
	}

	var numBuf [4]byte
	order.PutUint32(numBuf[:], uint32(numLeaves))
	if _, err := w.Write(numBuf[:]); err != nil {
		return utils.Wrap(utils.KindIOError, "write num_nodes", err)
	}

	return writeNode(w, order, root)
}

func writeNode(w io.Writer, order binary.ByteOrder, n *core.Node) error {
	if len(n.Fragment) > maxHashLen {
		return utils.New(utils.KindRange, "hash fragment too long")
	}
	if _, err := w.Write([]byte{byte(len(n.Fragment))}); err != nil {
		return utils.Wrap(utils.KindIOError, "write hash_len", err)
	}
	if len(n.Fragment) > 0 {
		if _, err := w.Write([]byte(n.Fragment)); err != nil {
			return utils.Wrap(utils.KindIOError, "write hash_bytes", err)
		}
	}

	// the flag byte is reserved: always written as zero
	if _, err := w.Write([]byte{0}); err != nil {
		return utils.Wrap(utils.KindIOError, "write flag", err)
	}

	attrs := attrSlice(n.Attrs)
	if len(attrs) > maxAttrCount {
		return utils.New(utils.KindRange, "attr_count too large")
	}
	if _, err := w.Write([]byte{byte(len(attrs))}); err != nil {
		return utils.Wrap(utils.KindIOError, "write attr_count", err)
	}
	for _, a := range attrs {
		if _, err := w.Write([]byte{byte(a.Dim.Position)}); err != nil {
			return utils.Wrap(utils.KindIOError, "write dim_index", err)
		}
		size := a.Dim.Type.Size()
		if _, err := w.Write(a.Packed[:size]); err != nil {
			return utils.Wrap(utils.KindIOError, "write packed_bytes", err)
		}
	}

	if len(n.Children) > maxChildCount {
		return utils.New(utils.KindRange, "child_count too large")
	}
	var childBuf [4]byte
	order.PutUint32(childBuf[:], uint32(len(n.Children)))
	if _, err := w.Write(childBuf[:]); err != nil {
		return utils.Wrap(utils.KindIOError, "write child_count", err)
	}
	for _, c := range n.Children {
		if err := writeNode(w, order, c); err != nil {
			return err
		}
	}
	return nil
}

func attrSlice(list *core.AttrList) []*core.Attribute {
	var out []*core.Attribute
	for a := list.Head(); a != nil; a = a.Next {
		out = append(out, a)
	}
	return out
}

// Read parses a header and tree body from r (r must also implement
// Size() int64 so under/over-read can be detected), resolving attribute
// dimension indices against schema. Returns the root node and the
// declared leaf count.
func Read(r interface {
	utils.ReaderAt
	Size() int64
}, schema *core.Schema) (*core.Node, int, error) {
	headerBuf := make([]byte, HeaderSize)
	if n, err := r.ReadAt(headerBuf, 0); err != nil && (err != io.EOF || n < HeaderSize) {
		return nil, 0, utils.Wrap(utils.KindIOError, "read header", err)
	}
	header, err := DecodeHeader(headerBuf)
	if err != nil {
		return nil, 0, err
	}

	c := newCursor(r)
	c.pos = HeaderSize
	c.size = r.Size()

	numBuf, err := c.readN(4)
	if err != nil {
		return nil, 0, utils.Wrap(utils.KindMalformed, "read num_nodes", err)
	}
	numLeaves := int(header.Order.Uint32(numBuf))

	root, err := readNode(c, header.Order, schema)
	if err != nil {
		return nil, 0, err
	}

	if c.pos < r.Size() {
		return nil, 0, utils.New(utils.KindMalformed, "trailing bytes after tree body")
	}
	if c.pos > r.Size() {
		return nil, 0, utils.New(utils.KindMalformed, "tree body extends past end of stream")
	}

	return root, numLeaves, nil
}

func readNode(c *cursor, order binary.ByteOrder, schema *core.Schema) (*core.Node, error) {
	hashLen, err := c.readByte()
	if err != nil {
		return nil, utils.Wrap(utils.KindMalformed, "read hash_len", err)
	}
	var fragment string
	if hashLen > 0 {
		hb, err := c.readN(int(hashLen))
		if err != nil {
			return nil, utils.Wrap(utils.KindMalformed, "read hash_bytes", err)
		}
		fragment = string(hb)
	}

	flag, err := c.readByte()
	if err != nil {
		return nil, utils.Wrap(utils.KindMalformed, "read flag", err)
	}

	attrCount, err := c.readByte()
	if err != nil {
		return nil, utils.Wrap(utils.KindMalformed, "read attr_count", err)
	}

	attrs := core.NewAttrList()
	for i := 0; i < int(attrCount); i++ {
		dimIdx, err := c.readByte()
		if err != nil {
			return nil, utils.Wrap(utils.KindMalformed, "read dim_index", err)
		}
		dim := schema.At(int(dimIdx))
		if dim == nil {
			return nil, utils.New(utils.KindNotFound, "dimension index out of schema range")
		}
		packed, err := c.readN(dim.Type.Size())
		if err != nil {
			return nil, utils.Wrap(utils.KindMalformed, "read packed_bytes", err)
		}
		attr := &core.Attribute{Dim: dim}
		copy(attr.Packed[:], packed)
		attrs.Append(attr)
	}

	childCountBuf, err := c.readN(4)
	if err != nil {
		return nil, utils.Wrap(utils.KindMalformed, "read child_count", err)
	}
	childCount := order.Uint32(childCountBuf)

	// A corrupt or hostile file can claim an arbitrarily large
	// child_count; check it against the stream's remaining length
	// (via an overflow-checked multiply) before recursing, instead of
	// discovering the lie one readByte at a time.
	needed, err := utils.SafeMultiply(uint64(childCount), minNodeSize)
	if err != nil {
		return nil, utils.Wrap(utils.KindMalformed, "child_count", err)
	}
	if needed > uint64(c.remaining()) {
		return nil, utils.New(utils.KindMalformed, "child_count exceeds remaining stream length")
	}

	node := &core.Node{Fragment: fragment, Attrs: attrs, Flag: flag}
	for i := uint32(0); i < childCount; i++ {
		child, err := readNode(c, order, schema)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}
