package core

import (
	"fmt"

	"github.com/pcgeo/pctree/internal/utils"
)

// Schema is an insertion-ordered list of Dimensions with unique names.
// By convention the first two dimensions are X and Y, whose values are
// carried in the geohash rather than in an Attribute.
type Schema struct {
	dims   []*Dimension
	byName map[string]int
}

// NewSchema returns an empty schema.
func NewSchema() *Schema {
	return &Schema{byName: make(map[string]int)}
}

// Add appends dim to the schema, assigning its Position and rejecting
// duplicate names.
func (s *Schema) Add(dim *Dimension) error {
	if dim == nil {
		return utils.New(utils.KindError, "nil dimension")
	}
	if _, exists := s.byName[dim.Name]; exists {
		return utils.New(utils.KindError, fmt.Sprintf("duplicate dimension name %q", dim.Name))
	}
	dim.Position = len(s.dims)
	s.byName[dim.Name] = dim.Position
	s.dims = append(s.dims, dim)
	return nil
}

// Len returns the number of dimensions.
func (s *Schema) Len() int {
	return len(s.dims)
}

// At returns the dimension at position i.
func (s *Schema) At(i int) *Dimension {
	if i < 0 || i >= len(s.dims) {
		return nil
	}
	return s.dims[i]
}

// All returns the dimensions in insertion order. The caller must not
// mutate the returned slice's elements' Name/Position.
func (s *Schema) All() []*Dimension {
	return s.dims
}

// ByName looks up a dimension by name.
func (s *Schema) ByName(name string) (*Dimension, error) {
	i, ok := s.byName[name]
	if !ok {
		return nil, utils.New(utils.KindNotFound, fmt.Sprintf("dimension %q", name))
	}
	return s.dims[i], nil
}

// HasXY reports whether the schema's first two dimensions are named X
// and Y, the spatial convention assumed by the hash codec.
func (s *Schema) HasXY() bool {
	return len(s.dims) >= 2 && s.dims[0].Name == "X" && s.dims[1].Name == "Y"
}

// PayloadDims returns the dimensions from position 2 onward — the ones
// the compactor considers, since positions 0 and 1 (X, Y) live in the
// hash rather than in an Attribute.
func (s *Schema) PayloadDims() []*Dimension {
	if len(s.dims) <= 2 {
		return nil
	}
	return s.dims[2:]
}
