package meshio

import (
	"github.com/haoxiangmiao/feat3-sub001/lafem"
	"github.com/haoxiangmiao/feat3-sub001/transfer"
)

// AssemblyContract is the consumption-only surface this module calls
// across to a symbolic/numerical FE assembler (out of scope, §1: no
// element-local assembly, quadrature, or basis-function evaluation is
// reimplemented here). A concrete assembler satisfies this interface by
// wrapping whatever element/quadrature machinery it uses; everything in
// lafem, meta, filter and transfer only ever consumes its outputs.
type AssemblyContract interface {
	// SymbolicMatrix returns a CSR matrix with the correct sparsity
	// pattern for the named FE space but all-zero values (§3's
	// "symbolic assembly: structure only, zero values").
	SymbolicMatrix(space string) (*lafem.SparseMatrixCSR, error)

	// NumericalMatrix fills values into m in place for the named FE
	// space and bilinear form; m must already carry the sparsity
	// pattern SymbolicMatrix produced.
	NumericalMatrix(space, form string, m *lafem.SparseMatrixCSR) error

	// NumericalRHS fills a load vector for the named FE space and
	// linear form.
	NumericalRHS(space, form string) (*lafem.DenseVector, error)

	// DirichletDofs returns the (index, value) pairs a Dirichlet
	// boundary condition on the named boundary part imposes on the
	// named FE space, for building a filter.UnitFilter.
	DirichletDofs(space, boundary string) (indices []int, values []float64, err error)

	// SlipNormals returns the per-dof unit normal vectors on the named
	// boundary part, for building a filter.SlipFilter (§8 property 6:
	// must agree with the true boundary normal within 1e-10).
	SlipNormals(space, boundary string) (indices []int, normals [][]float64, err error)

	// CubatureEntries returns the fine/coarse cubature-weighted
	// projection contributions transfer.NewTransfer consumes to build
	// a two-level Transfer between the named fine and coarse spaces.
	CubatureEntries(fineSpace, coarseSpace string) ([]transfer.CubatureEntry, error)

	// DofCount returns the number of degrees of freedom the named FE
	// space has on this process.
	DofCount(space string) (int, error)
}
