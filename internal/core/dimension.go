package core

import (
	"fmt"
	"math"

	"github.com/pcgeo/pctree/internal/utils"
)

// PrimType identifies the on-disk representation of a Dimension's values.
// The numeric values double as the wire encoding written by the codec, so
// they must never be renumbered once released.
type PrimType uint8

const (
	Int8 PrimType = iota
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Int64
	Uint64
	Float32
	Float64
)

// Size returns the packed width of the type in bytes (at most 8, per the
// Attribute packed-bytes bound).
func (t PrimType) Size() int {
	switch t {
	case Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64:
		return 8
	default:
		return 0
	}
}

// Range returns the representable [lo, hi] of the stored (pre-scale)
// integer or float value.
func (t PrimType) Range() (lo, hi float64) {
	switch t {
	case Int8:
		return math.MinInt8, math.MaxInt8
	case Uint8:
		return 0, math.MaxUint8
	case Int16:
		return math.MinInt16, math.MaxInt16
	case Uint16:
		return 0, math.MaxUint16
	case Int32:
		return math.MinInt32, math.MaxInt32
	case Uint32:
		return 0, math.MaxUint32
	case Int64:
		return math.MinInt64, math.MaxInt64
	case Uint64:
		return 0, math.MaxUint64
	case Float32:
		return -math.MaxFloat32, math.MaxFloat32
	case Float64:
		return -math.MaxFloat64, math.MaxFloat64
	default:
		return 0, 0
	}
}

// IsFloat reports whether the type stores the (scale,offset)-transformed
// value as an IEEE-754 float, rather than rounding it to an integer.
func (t PrimType) IsFloat() bool {
	return t == Float32 || t == Float64
}

func (t PrimType) String() string {
	switch t {
	case Int8:
		return "int8_t"
	case Uint8:
		return "uint8_t"
	case Int16:
		return "int16_t"
	case Uint16:
		return "uint16_t"
	case Int32:
		return "int32_t"
	case Uint32:
		return "uint32_t"
	case Int64:
		return "int64_t"
	case Uint64:
		return "uint64_t"
	case Float32:
		return "float"
	case Float64:
		return "double"
	default:
		return fmt.Sprintf("prim_%d", uint8(t))
	}
}

// ParsePrimType maps the XML <pc:interpretation> spelling to a PrimType.
func ParsePrimType(name string) (PrimType, error) {
	switch name {
	case "int8_t":
		return Int8, nil
	case "uint8_t":
		return Uint8, nil
	case "int16_t":
		return Int16, nil
	case "uint16_t":
		return Uint16, nil
	case "int32_t":
		return Int32, nil
	case "uint32_t":
		return Uint32, nil
	case "int64_t":
		return Int64, nil
	case "uint64_t":
		return Uint64, nil
	case "float":
		return Float32, nil
	case "double":
		return Float64, nil
	default:
		return 0, utils.New(utils.KindMalformed, fmt.Sprintf("unknown interpretation %q", name))
	}
}

// Dimension is a named, typed, scaled/offset numeric channel in a Schema.
// Stored value = (real_value - Offset) / Scale, rounded to the nearest
// integer for integer types; NewFromDouble rejects a value outside Type's
// representable range with a RANGE error rather than clamping it.
type Dimension struct {
	Position    int
	Name        string
	Description string
	Type        PrimType
	Scale       float64
	Offset      float64
}

// NewDimension validates and constructs a Dimension. Scale must be
// nonzero; Position/Name are assigned by the owning Schema on Add.
func NewDimension(name, description string, typ PrimType, scale, offset float64) (*Dimension, error) {
	if name == "" {
		return nil, utils.New(utils.KindMalformed, "dimension name must not be empty")
	}
	if scale == 0 {
		return nil, utils.New(utils.KindRange, "dimension scale must be nonzero")
	}
	return &Dimension{
		Name:        name,
		Description: description,
		Type:        typ,
		Scale:       scale,
		Offset:      offset,
	}, nil
}
