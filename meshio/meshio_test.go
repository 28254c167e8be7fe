package meshio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMeshXML = `<mesh shape="simplex" coords="2">
  <coords>0 0 1 0 0 1</coords>
  <meshpart name="outer" parent="root" chart="circle"/>
</mesh>`

func TestParseMeshFileReadsShapeAndMeshParts(t *testing.T) {
	mf, err := ParseMeshFile(strings.NewReader(sampleMeshXML))
	require.NoError(t, err)
	assert.Equal(t, ShapeSimplex, mf.Shape)
	assert.Equal(t, 2, mf.Coords)
	require.Len(t, mf.MeshParts, 1)
	assert.Equal(t, "outer", mf.MeshParts[0].Name)
	assert.Equal(t, ChartKind("circle"), ChartKind(mf.MeshParts[0].Chart))
}

func TestParseMeshFileRejectsUnknownShape(t *testing.T) {
	_, err := ParseMeshFile(strings.NewReader(`<mesh shape="hexagon" coords="2"></mesh>`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedShape)
}

func TestParseMeshFileRejectsMalformedXML(t *testing.T) {
	_, err := ParseMeshFile(strings.NewReader(`<mesh shape="simplex"`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
}
