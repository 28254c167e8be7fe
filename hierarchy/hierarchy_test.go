package hierarchy

import (
	"testing"

	"github.com/haoxiangmiao/feat3-sub001/gate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeLevelHierarchy() *LevelHierarchy {
	h := NewLevelHierarchy()
	h.Append(&Level{Name: "level0"})
	h.Append(&Level{Name: "level1"})
	h.Append(&Level{Name: "level2"})
	return h
}

func TestLevelHierarchyFinestAndCoarsest(t *testing.T) {
	h := threeLevelHierarchy()
	require.Equal(t, 3, h.NumLevels())

	finest, err := h.Finest()
	require.NoError(t, err)
	assert.Equal(t, "level0", finest.Name)

	coarsest, err := h.Coarsest()
	require.NoError(t, err)
	assert.Equal(t, "level2", coarsest.Name)
}

func TestLevelHierarchyByName(t *testing.T) {
	h := threeLevelHierarchy()
	lvl, err := h.ByName("level1")
	require.NoError(t, err)
	assert.Equal(t, "level1", lvl.Name)

	_, err = h.ByName("level9")
	require.ErrorIs(t, err, ErrUnknownLevel)
}

func TestLevelHierarchyTeardownIsCoarseToFine(t *testing.T) {
	h := threeLevelHierarchy()
	var order []string
	h.Teardown(func(lvl *Level) { order = append(order, lvl.Name) })

	assert.Equal(t, []string{"level2", "level1", "level0"}, order)
	assert.Equal(t, 0, h.NumLevels())
}

func TestTopologyRejectsDuplicateNeighbour(t *testing.T) {
	_, err := NewTopology([]Link{
		{Rank: 1, Mirror: gate.NewMirror([]int{0})},
		{Rank: 1, Mirror: gate.NewMirror([]int{1})},
	})
	require.Error(t, err)
}

func TestTopologyBuildsGateFromLinks(t *testing.T) {
	topo, err := NewTopology([]Link{
		{Rank: 1, Mirror: gate.NewMirror([]int{0})},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, topo.Neighbours())
	assert.Equal(t, 1, topo.Degree())
	assert.NotNil(t, topo.MirrorFor(1))
	assert.Nil(t, topo.MirrorFor(2))
}

func TestTopologyWithNoNeighboursBuildsSerialGate(t *testing.T) {
	topo, err := NewTopology(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, topo.Degree())

	// An empty topology never exchanges with a peer, so it is safe to
	// build over SerialComm (which panics on any actual peer traffic).
	g := topo.BuildGate(gate.SerialComm{}, 2)
	assert.NotNil(t, g)
}

func TestMeshNodeRefineInto(t *testing.T) {
	root := NewMeshNode("root", "coarse-mesh")
	root.AddSubMesh("boundary")
	root.AddChart("wall", ChartMoving)

	child := root.RefineInto("fine-mesh")
	require.Len(t, root.Children, 1)
	assert.Equal(t, "root", child.Name)
	require.Len(t, child.SubMeshes, 1)
	assert.Equal(t, "boundary", child.SubMeshes[0].Name)
	require.Len(t, child.Charts, 1)
	assert.Equal(t, ChartMoving, child.Charts[0].Kind)

	assert.Equal(t, 1, root.Depth())
}

func TestMeshNodeFind(t *testing.T) {
	root := NewMeshNode("root", nil)
	mid := root.RefineInto(nil)
	mid.Name = "mid"
	leaf := mid.RefineInto(nil)
	leaf.Name = "leaf"

	found, err := root.Find("leaf")
	require.NoError(t, err)
	assert.Same(t, leaf, found)

	_, err = root.Find("missing")
	require.Error(t, err)
}
