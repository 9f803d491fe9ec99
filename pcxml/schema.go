// Package pcxml parses the PointCloudSchema XML document into a
// core.Schema. No third-party XML library appears anywhere in the
// example pack, and encoding/xml's struct-tag decoding is a direct,
// idiomatic fit for this small, fixed document shape, so this package
// uses the standard library rather than reaching for an external
// dependency.
package pcxml

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/pcgeo/pctree/internal/core"
	"github.com/pcgeo/pctree/internal/utils"
)

type xmlSchema struct {
	XMLName    xml.Name       `xml:"PointCloudSchema"`
	Dimensions []xmlDimension `xml:"dimension"`
}

type xmlDimension struct {
	Position       int      `xml:"position"`
	Name           string   `xml:"name"`
	Description    string   `xml:"description"`
	Interpretation string   `xml:"interpretation"`
	Scale          *float64 `xml:"scale"`
	Offset         *float64 `xml:"offset"`
}

// Parse reads a PointCloudSchema document from r and builds a Schema.
// XML positions are 1-based and are normalized to 0-based internally;
// unknown elements are ignored (encoding/xml's default behavior for
// fields with no matching struct tag).
func Parse(r io.Reader) (*core.Schema, error) {
	dec := xml.NewDecoder(r)

	var doc xmlSchema
	if err := dec.Decode(&doc); err != nil {
		if se, ok := err.(*xml.SyntaxError); ok {
			return nil, utils.New(utils.KindMalformed,
				fmt.Sprintf("xml syntax error at line %d: %v", se.Line, se.Msg))
		}
		return nil, utils.Wrap(utils.KindMalformed, "decode schema xml", err)
	}

	ordered := make([]xmlDimension, len(doc.Dimensions))
	copy(ordered, doc.Dimensions)
	sortByPosition(ordered)

	schema := core.NewSchema()
	for _, d := range ordered {
		if d.Position < 1 {
			return nil, utils.New(utils.KindMalformed,
				fmt.Sprintf("dimension %q has non-positive XML position %d", d.Name, d.Position))
		}
		typ, err := core.ParsePrimType(d.Interpretation)
		if err != nil {
			return nil, err
		}
		scale := 1.0
		if d.Scale != nil {
			scale = *d.Scale
		}
		offset := 0.0
		if d.Offset != nil {
			offset = *d.Offset
		}
		dim, err := core.NewDimension(d.Name, d.Description, typ, scale, offset)
		if err != nil {
			return nil, err
		}
		if err := schema.Add(dim); err != nil {
			return nil, err
		}
	}
	return schema, nil
}

func sortByPosition(dims []xmlDimension) {
	for i := 1; i < len(dims); i++ {
		for j := i; j > 0 && dims[j].Position < dims[j-1].Position; j-- {
			dims[j], dims[j-1] = dims[j-1], dims[j]
		}
	}
}
