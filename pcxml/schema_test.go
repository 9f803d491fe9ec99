package pcxml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcgeo/pctree/internal/core"
)

const sampleSchema = `<?xml version="1.0" encoding="UTF-8"?>
<pc:PointCloudSchema xmlns:pc="http://pointcloud.org/schemas/PC/">
  <pc:dimension>
    <pc:position>1</pc:position>
    <pc:name>X</pc:name>
    <pc:description>x coordinate</pc:description>
    <pc:interpretation>double</pc:interpretation>
  </pc:dimension>
  <pc:dimension>
    <pc:position>2</pc:position>
    <pc:name>Y</pc:name>
    <pc:description>y coordinate</pc:description>
    <pc:interpretation>double</pc:interpretation>
  </pc:dimension>
  <pc:dimension>
    <pc:position>3</pc:position>
    <pc:name>Z</pc:name>
    <pc:description>elevation</pc:description>
    <pc:interpretation>int32_t</pc:interpretation>
    <pc:scale>0.01</pc:scale>
    <pc:offset>100</pc:offset>
  </pc:dimension>
  <pc:unknownElement>ignored</pc:unknownElement>
</pc:PointCloudSchema>`

func TestParseBuildsSchemaInPositionOrder(t *testing.T) {
	schema, err := Parse(strings.NewReader(sampleSchema))
	require.NoError(t, err)
	require.Equal(t, 3, schema.Len())

	assert.Equal(t, "X", schema.At(0).Name)
	assert.Equal(t, "Y", schema.At(1).Name)
	assert.Equal(t, "Z", schema.At(2).Name)

	z := schema.At(2)
	assert.Equal(t, core.Int32, z.Type)
	assert.InDelta(t, 0.01, z.Scale, 1e-12)
	assert.InDelta(t, 100, z.Offset, 1e-12)
}

func TestParseDefaultsScaleAndOffset(t *testing.T) {
	schema, err := Parse(strings.NewReader(sampleSchema))
	require.NoError(t, err)

	x := schema.At(0)
	assert.InDelta(t, 1.0, x.Scale, 1e-12)
	assert.InDelta(t, 0.0, x.Offset, 1e-12)
}

func TestParseRejectsUnknownInterpretation(t *testing.T) {
	bad := strings.Replace(sampleSchema, "double", "decimal128", 1)
	_, err := Parse(strings.NewReader(bad))
	require.Error(t, err)
}

func TestParseRejectsMalformedXML(t *testing.T) {
	_, err := Parse(strings.NewReader("<pc:PointCloudSchema><pc:dimension>"))
	require.Error(t, err)
}
