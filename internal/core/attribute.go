package core

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/bits-and-blooms/bitset"

	"github.com/pcgeo/pctree/internal/utils"
)

// Attribute is a (dimension, packed value) pair. Packed bytes are at
// most 8 (the widest primitive type) and are always stored little-endian
// in memory; the codec applies the wire endianness on (de)serialization.
type Attribute struct {
	Dim    *Dimension
	Packed [8]byte
	Next   *Attribute
}

// NewFromDouble quantizes v for dim (stored = (v-offset)/scale) and
// packs it. The affine transform applies uniformly across every
// primitive type, floats included, per the documented get_value
// contract (v * scale + offset on the way back out).
func NewFromDouble(dim *Dimension, v float64) (*Attribute, error) {
	if dim == nil {
		return nil, utils.New(utils.KindError, "nil dimension")
	}

	a := &Attribute{Dim: dim}
	stored := (v - dim.Offset) / dim.Scale

	if dim.Type.IsFloat() {
		switch dim.Type {
		case Float32:
			f := float32(stored)
			if math.IsInf(float64(f), 0) && !math.IsInf(stored, 0) {
				return nil, utils.New(utils.KindRange, fmt.Sprintf("quantized value %v overflows float32 for %s", stored, dim.Name))
			}
			binary.LittleEndian.PutUint32(a.Packed[:4], math.Float32bits(f))
		case Float64:
			binary.LittleEndian.PutUint64(a.Packed[:8], math.Float64bits(stored))
		}
		return a, nil
	}

	lo, hi := dim.Type.Range()
	if !utils.InRange(math.Round(stored), lo, hi) {
		return nil, utils.New(utils.KindRange,
			fmt.Sprintf("quantized value %v out of range [%v,%v] for %s", stored, lo, hi, dim.Name))
	}
	stored = utils.ClampRound(stored, lo, hi)
	packInt(a.Packed[:], dim.Type, stored)
	return a, nil
}

func packInt(buf []byte, t PrimType, v float64) {
	switch t {
	case Int8:
		buf[0] = byte(int8(v))
	case Uint8:
		buf[0] = byte(uint8(v))
	case Int16:
		binary.LittleEndian.PutUint16(buf[:2], uint16(int16(v)))
	case Uint16:
		binary.LittleEndian.PutUint16(buf[:2], uint16(v))
	case Int32:
		binary.LittleEndian.PutUint32(buf[:4], uint32(int32(v)))
	case Uint32:
		binary.LittleEndian.PutUint32(buf[:4], uint32(v))
	case Int64:
		binary.LittleEndian.PutUint64(buf[:8], uint64(int64(v)))
	case Uint64:
		binary.LittleEndian.PutUint64(buf[:8], uint64(v))
	}
}

func unpackInt(buf []byte, t PrimType) float64 {
	switch t {
	case Int8:
		return float64(int8(buf[0]))
	case Uint8:
		return float64(buf[0])
	case Int16:
		return float64(int16(binary.LittleEndian.Uint16(buf[:2])))
	case Uint16:
		return float64(binary.LittleEndian.Uint16(buf[:2]))
	case Int32:
		return float64(int32(binary.LittleEndian.Uint32(buf[:4])))
	case Uint32:
		return float64(binary.LittleEndian.Uint32(buf[:4]))
	case Int64:
		return float64(int64(binary.LittleEndian.Uint64(buf[:8])))
	case Uint64:
		return float64(binary.LittleEndian.Uint64(buf[:8]))
	default:
		return 0
	}
}

// GetValue unpacks a and applies the dimension's affine transform
// (stored*scale + offset), uniformly across every primitive type.
func (a *Attribute) GetValue() float64 {
	var stored float64
	switch a.Dim.Type {
	case Float32:
		stored = float64(math.Float32frombits(binary.LittleEndian.Uint32(a.Packed[:4])))
	case Float64:
		stored = math.Float64frombits(binary.LittleEndian.Uint64(a.Packed[:8]))
	default:
		stored = unpackInt(a.Packed[:], a.Dim.Type)
	}
	return stored*a.Dim.Scale + a.Dim.Offset
}

// Equal reports whether two attributes for the same dimension carry
// byte-identical packed values, the test compaction uses to decide
// whether sibling values "agree".
func (a *Attribute) Equal(b *Attribute) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Dim.Position != b.Dim.Position {
		return false
	}
	n := a.Dim.Type.Size()
	return bytesEqual(a.Packed[:n], b.Packed[:n])
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// cloneOne returns a shallow copy of a with Next cleared.
func (a *Attribute) cloneOne() *Attribute {
	c := *a
	c.Next = nil
	return &c
}

// AttrList is an ordered singly-linked chain of Attributes with at most
// one entry per dimension, plus a bitset index (by dimension position)
// for O(1) presence/lookup.
type AttrList struct {
	head    *Attribute
	present *bitset.BitSet
}

// NewAttrList returns an empty attribute list.
func NewAttrList() *AttrList {
	return &AttrList{present: bitset.New(0)}
}

// Head returns the first attribute in the chain, or nil.
func (l *AttrList) Head() *Attribute {
	if l == nil {
		return nil
	}
	return l.head
}

// Empty reports whether the list carries no attributes.
func (l *AttrList) Empty() bool {
	return l == nil || l.head == nil
}

// Has reports whether the list already carries dim.
func (l *AttrList) Has(dim *Dimension) bool {
	if l == nil || l.present == nil {
		return false
	}
	//nolint:gosec // dimension positions are small, bounded by schema length
	return l.present.Test(uint(dim.Position))
}

// GetByDimension linear-scans for dim's attribute (spec.md's contract is
// a linear scan; the bitset only accelerates Has/the compaction check).
func (l *AttrList) GetByDimension(dim *Dimension) *Attribute {
	if l == nil {
		return nil
	}
	for a := l.head; a != nil; a = a.Next {
		if a.Dim.Position == dim.Position {
			return a
		}
	}
	return nil
}

// Append adds attr to the end of the list. Caller must ensure attr's
// dimension is not already present (Has); Append does not dedupe.
func (l *AttrList) Append(attr *Attribute) {
	attr.Next = nil
	if l.present == nil {
		l.present = bitset.New(0)
	}
	//nolint:gosec // dimension positions are small, bounded by schema length
	l.present.Set(uint(attr.Dim.Position))
	if l.head == nil {
		l.head = attr
		return
	}
	tail := l.head
	for tail.Next != nil {
		tail = tail.Next
	}
	tail.Next = attr
}

// Remove deletes dim's attribute from the list, if present.
func (l *AttrList) Remove(dim *Dimension) {
	if l == nil || l.head == nil {
		return
	}
	if l.present != nil {
		//nolint:gosec // dimension positions are small, bounded by schema length
		l.present.Clear(uint(dim.Position))
	}
	if l.head.Dim.Position == dim.Position {
		l.head = l.head.Next
		return
	}
	for a := l.head; a.Next != nil; a = a.Next {
		if a.Next.Dim.Position == dim.Position {
			a.Next = a.Next.Next
			return
		}
	}
}

// Clone deep-copies the entire chain.
func (l *AttrList) Clone() *AttrList {
	out := NewAttrList()
	if l == nil {
		return out
	}
	var tail *Attribute
	for a := l.head; a != nil; a = a.Next {
		c := a.cloneOne()
		if tail == nil {
			out.head = c
		} else {
			tail.Next = c
		}
		tail = c
		if l.present != nil {
			//nolint:gosec // dimension positions are small, bounded by schema length
			out.present.Set(uint(c.Dim.Position))
		}
	}
	return out
}

// Union returns a new list containing every attribute in a, plus each
// attribute in b whose dimension is not already present in a. a's order
// is preserved, then b's new entries, and a wins on conflict.
func Union(a, b *AttrList) *AttrList {
	out := a.Clone()
	if b == nil {
		return out
	}
	for attr := b.Head(); attr != nil; attr = attr.Next {
		if out.Has(attr.Dim) {
			continue
		}
		out.Append(attr.cloneOne())
	}
	return out
}
