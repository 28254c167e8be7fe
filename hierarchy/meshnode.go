package hierarchy

import "fmt"

// ChartKind distinguishes the geometric-chart node kinds §4.10 rumpf
// boundary charts attach to.
type ChartKind int

const (
	ChartMoving ChartKind = iota
	ChartRotating
)

// ChartNode is a leaf reference to a named geometric chart (a
// rumpf.MovingChart or rumpf.RotatingChart, by name — this package
// stays independent of the rumpf package and only carries the name and
// kind a caller resolves against its own chart registry).
type ChartNode struct {
	Name string
	Kind ChartKind
}

// SubMeshNode names one sub-region of a parent mesh — an interior
// boundary or a patch part, per §3 — without owning mesh data itself;
// the actual cell/vertex lists are the assembly contract's concern (out
// of scope, §1).
type SubMeshNode struct {
	Name string
}

// MeshNode is one node of the mesh tree of §3: the root node owns a
// mesh (carried opaquely as Mesh, out of scope §1) plus any number of
// SubMeshNodes and ChartNodes, and any number of child MeshNodes
// produced by refinement. Refinement produces a new tree of the same
// shape — RefineInto walks this node and clones its sub-structure onto
// a freshly-meshed child, leaving mesh assembly itself to the caller.
type MeshNode struct {
	Name string
	Mesh any

	SubMeshes []*SubMeshNode
	Charts    []*ChartNode
	Children  []*MeshNode
}

// NewMeshNode builds a root MeshNode over the given opaque mesh handle.
func NewMeshNode(name string, mesh any) *MeshNode {
	return &MeshNode{Name: name, Mesh: mesh}
}

// AddSubMesh registers a named sub-mesh under this node.
func (n *MeshNode) AddSubMesh(name string) *SubMeshNode {
	sm := &SubMeshNode{Name: name}
	n.SubMeshes = append(n.SubMeshes, sm)
	return sm
}

// AddChart registers a named chart of the given kind under this node.
func (n *MeshNode) AddChart(name string, kind ChartKind) *ChartNode {
	c := &ChartNode{Name: name, Kind: kind}
	n.Charts = append(n.Charts, c)
	return c
}

// RefineInto appends a child MeshNode wrapping the given refined mesh
// handle, reproducing this node's SubMeshNode and ChartNode names (the
// same shape, new mesh, per §3) but no grandchildren — refinement is
// one level at a time.
func (n *MeshNode) RefineInto(childMesh any) *MeshNode {
	child := &MeshNode{Name: n.Name, Mesh: childMesh}
	for _, sm := range n.SubMeshes {
		child.AddSubMesh(sm.Name)
	}
	for _, c := range n.Charts {
		child.AddChart(c.Name, c.Kind)
	}
	n.Children = append(n.Children, child)
	return child
}

// Find locates a descendant (or this node itself) by name via a
// depth-first search, returning an error if no node with that name
// exists anywhere in the subtree.
func (n *MeshNode) Find(name string) (*MeshNode, error) {
	if n.Name == name {
		return n, nil
	}
	for _, c := range n.Children {
		if found, err := c.Find(name); err == nil {
			return found, nil
		}
	}
	return nil, fmt.Errorf("%w: mesh node %q", ErrUnknownLevel, name)
}

// Depth reports the height of the subtree rooted at n (a leaf has
// depth 0).
func (n *MeshNode) Depth() int {
	max := 0
	for _, c := range n.Children {
		if d := c.Depth() + 1; d > max {
			max = d
		}
	}
	return max
}
