package control

import (
	"context"
	"testing"

	"github.com/haoxiangmiao/feat3-sub001/lafem"
	"github.com/haoxiangmiao/feat3-sub001/meta"
	"github.com/haoxiangmiao/feat3-sub001/solver"
	"github.com/haoxiangmiao/feat3-sub001/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spd3() *lafem.SparseMatrixCSR {
	rows := []int{0, 0, 1, 1, 1, 2, 2}
	cols := []int{0, 1, 0, 1, 2, 1, 2}
	vals := []float64{2, -1, -1, 2, -1, -1, 2}
	return lafem.NewCSRFromTriplets(3, 3, rows, cols, vals)
}

func TestFactoryBuildsPCGWithJacobiPrecon(t *testing.T) {
	cfg, err := LoadPreset(1)
	require.NoError(t, err)

	stock := NewMatrixStock()
	stock.RegisterMatrix("level0", spd3())

	factory := NewFactory(cfg, stock)
	m, err := factory.Build("PCG-Test1")
	require.NoError(t, err)
	m.Init()
	defer m.Done()

	b := lafem.NewDenseVectorFromSlice([]float64{1, 0, 1})
	x := lafem.NewDenseVector(3)
	status := m.Apply(x, b)
	assert.Equal(t, solver.StatusSuccess, status)
}

func TestFactoryDetectsReferenceCycle(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
[A]
type = richardson
matrix = level0
precon = B

[B]
type = richardson
matrix = level0
precon = A
`))
	require.NoError(t, err)

	stock := NewMatrixStock()
	stock.RegisterMatrix("level0", spd3())
	factory := NewFactory(cfg, stock)

	_, err = factory.Build("A")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCycle)
}

// TestFactoryBuildsMultiGrid exercises the `type = mg` factory case
// (§4.7/§6): a two-level hierarchy ("level0" coarsest, "level1" finest)
// over the same 3x3 SPD system, connected by an identity transfer, a
// Jacobi pre/post smoother built fresh per level, and a direct coarse
// solve.
func TestFactoryBuildsMultiGrid(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
[Smoother]
type = jacobi
omega = 1.0

[Coarse]
type = direct
matrix = level0

[MG]
type = mg
hierarchy = level
lvl_min = 0
lvl_max = 1
cycle = v
smoother = Smoother
coarse = Coarse
max_iter = 20
tol_rel = 1e-10
`))
	require.NoError(t, err)

	stock := NewMatrixStock()
	stock.RegisterMatrix("level0", spd3())
	stock.RegisterMatrix("level1", spd3())

	identity := make([]transfer.CubatureEntry, 3)
	for i := range identity {
		identity[i] = transfer.CubatureEntry{FineRow: i, CoarseCol: i, Weight: 1}
	}
	tr, err := transfer.NewTransfer(context.Background(), nil, 3, 3, identity)
	require.NoError(t, err)
	stock.RegisterTransfer("level1", tr)

	factory := NewFactory(cfg, stock)
	m, err := factory.Build("MG")
	require.NoError(t, err)
	m.Init()
	defer m.Done()

	b := lafem.NewDenseVectorFromSlice([]float64{1, 0, 1})
	x := lafem.NewDenseVector(3)
	status := m.Apply(x, b)
	assert.Equal(t, solver.StatusSuccess, status)
}

// TestFactoryBuildsSchurBlock exercises the `type = schur` BuildBlock
// entry point (§4.9): AInv/SInv resolved from flat PCG sections,
// adapted onto BlockMethod via solver.FlatBlockMethod.
func TestFactoryBuildsSchurBlock(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
[AInv]
type = pcg
matrix = level0

[SInv]
type = pcg
matrix = level0

[Stokes]
type = schur
variant = full
matrix_b = level0
matrix_d = level0
ainv = AInv
sinv = SInv
`))
	require.NoError(t, err)

	stock := NewMatrixStock()
	stock.RegisterMatrix("level0", spd3())

	factory := NewFactory(cfg, stock)
	precon, err := factory.BuildBlock("Stokes")
	require.NoError(t, err)
	precon.Init()
	defer precon.Done()

	uDefect := lafem.NewDenseVectorFromSlice([]float64{1, 0, 1})
	pDefect := lafem.NewDenseVectorFromSlice([]float64{1, 0, 1})
	defect := meta.NewTupleVector(meta.WrapDense(uDefect), meta.WrapDense(pDefect))

	uCorr := lafem.NewDenseVector(3)
	pCorr := lafem.NewDenseVector(3)
	correction := meta.NewTupleVector(meta.WrapDense(uCorr), meta.WrapDense(pCorr))

	status := precon.Apply(correction, defect)
	assert.Equal(t, solver.StatusSuccess, status)
}

func TestFactoryRejectsUnknownType(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
[Weird]
type = not_a_real_solver
matrix = level0
`))
	require.NoError(t, err)

	factory := NewFactory(cfg, NewMatrixStock())
	_, err = factory.Build("Weird")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownType)
}
