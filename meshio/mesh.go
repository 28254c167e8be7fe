// Package meshio specifies the mesh-file and assembly-contract surface
// of §6 without reimplementing geometry, topology, or element-local
// assembly (all out of scope, §1): MeshFile is the consumption-only
// representation of the XML mesh format, and AssemblyContract is the
// interface a symbolic/numerical assembler (out of scope) must satisfy
// for the rest of this module to build Levels, Transfers and Filters
// against it.
package meshio

import (
	"encoding/xml"
	"fmt"
	"io"
)

// Error is the sentinel error type for this package.
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrParse is returned for malformed mesh XML.
	ErrParse Error = "meshio: parse error"
	// ErrUnsupportedShape is returned for a <mesh shape=...> this
	// package does not recognise.
	ErrUnsupportedShape Error = "meshio: unsupported mesh shape"
)

// Shape names the reference-cell family a mesh is built from.
type Shape string

const (
	ShapeSimplex   Shape = "simplex"
	ShapeHypercube Shape = "hypercube"
)

// MeshFile is the decoded form of §6's XML mesh file: a coords array
// plus the vertex-at-edge/vertex-at-tria(or quad) incidence tables, and
// any child meshparts referencing a parent and a chart. Cell/vertex
// semantics beyond these incidence tables are the assembly contract's
// concern (out of scope, §1) — this type only carries what the file
// declares, verbatim.
type MeshFile struct {
	XMLName xml.Name `xml:"mesh"`
	Shape   Shape    `xml:"shape,attr"`
	Coords  int      `xml:"coords,attr"`

	CoordsData string      `xml:"coords"`
	VertEdge   string      `xml:"vert@edge"`
	VertTria   string      `xml:"vert@tria"`
	VertQuad   string      `xml:"vert@quad"`
	MeshParts  []MeshPart  `xml:"meshpart"`
}

// MeshPart is an optional sub-region of a MeshFile's mesh, referring to
// a parent mesh/meshpart by name and (optionally) a chart.
type MeshPart struct {
	Name   string `xml:"name,attr"`
	Parent string `xml:"parent,attr"`
	Chart  string `xml:"chart,attr"`
}

// ParseMeshFile decodes the XML mesh format of §6 from r. It validates
// only the structural shell (well-formed XML, a recognised shape
// attribute); interpreting the coordinate/incidence payload strings
// into actual vertex/cell arrays is the assembly contract's job.
func ParseMeshFile(r io.Reader) (*MeshFile, error) {
	var mf MeshFile
	if err := xml.NewDecoder(r).Decode(&mf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	switch mf.Shape {
	case ShapeSimplex, ShapeHypercube:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedShape, mf.Shape)
	}
	return &mf, nil
}

// ChartKind names the recognised <meshpart chart=...> geometric chart
// families of §6.
type ChartKind string

const (
	ChartCircle   ChartKind = "circle"
	ChartDiscrete ChartKind = "discrete"
	ChartBezier   ChartKind = "bezier"
)
