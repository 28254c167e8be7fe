package lafem

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// dvMagic identifies the little-endian ".dv" dense-vector binary
// format of §6: magic, version, then uint64 length, then length
// float64 values, mirroring the header+payload shape of gonum's
// mat.Dense.MarshalBinary (mat/io.go) but specialised to §6's exact
// wire contract (double values, uint64 indices).
var dvMagic = [4]byte{'F', 'D', 'V', 1}

// WriteDenseVectorBinary writes v in the little-endian .dv format.
func WriteDenseVectorBinary(w io.Writer, v *DenseVector) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(dvMagic[:]); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint64(v.Size())); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, v.Elements()); err != nil {
		return err
	}
	return bw.Flush()
}

// ReadDenseVectorBinary reads the .dv format written by
// WriteDenseVectorBinary. Round-trip is bit-exact (§8 property 2).
func ReadDenseVectorBinary(r io.Reader) (*DenseVector, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if magic != dvMagic {
		return nil, fmt.Errorf("%w: bad .dv magic", ErrParse)
	}
	var n uint64
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	data := make([]float64, n)
	if err := binary.Read(r, binary.LittleEndian, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return NewDenseVectorFromSlice(data), nil
}

// WriteDenseVectorMatrixMarket writes v as a MatrixMarket "array"
// vector (ASCII), round-trippable to 1e-12 absolute tolerance per §8
// property 2.
func WriteDenseVectorMatrixMarket(w io.Writer, v *DenseVector) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "%%MatrixMarket matrix array real general")
	fmt.Fprintf(bw, "%d 1\n", v.Size())
	for _, x := range v.Elements() {
		fmt.Fprintf(bw, "%.17g\n", x)
	}
	return bw.Flush()
}

// ReadDenseVectorMatrixMarket reads the format written by
// WriteDenseVectorMatrixMarket.
func ReadDenseVectorMatrixMarket(r io.Reader) (*DenseVector, error) {
	sc := bufio.NewScanner(r)
	var dims []int
	var data []float64
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		if dims == nil {
			fields := strings.Fields(line)
			if len(fields) != 2 {
				return nil, fmt.Errorf("%w: bad mtx header", ErrParse)
			}
			n, err := strconv.Atoi(fields[0])
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrParse, err)
			}
			dims = []int{n}
			continue
		}
		x, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		data = append(data, x)
	}
	if dims == nil {
		return nil, fmt.Errorf("%w: empty mtx file", ErrParse)
	}
	return NewDenseVectorFromSlice(data), nil
}

// csrMagic identifies the little-endian binary CSR matrix format.
var csrMagic = [4]byte{'F', 'C', 'S', 1}

// WriteCSRBinary writes m in a little-endian binary format: magic,
// rows, cols, nnz (uint64 each), then row_ptr (rows+1 uint64), col_ind
// (nnz uint64), val (nnz float64).
func WriteCSRBinary(w io.Writer, m *SparseMatrixCSR) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(csrMagic[:]); err != nil {
		return err
	}
	header := []uint64{uint64(m.Rows()), uint64(m.Cols()), uint64(m.NNZ())}
	if err := binary.Write(bw, binary.LittleEndian, header); err != nil {
		return err
	}
	if err := writeUint64Slice(bw, m.RowPtr()); err != nil {
		return err
	}
	if err := writeUint64Slice(bw, m.ColInd()); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, m.Values()); err != nil {
		return err
	}
	return bw.Flush()
}

// ReadCSRBinary reads the format written by WriteCSRBinary.
func ReadCSRBinary(r io.Reader) (*SparseMatrixCSR, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if magic != csrMagic {
		return nil, fmt.Errorf("%w: bad CSR magic", ErrParse)
	}
	var header [3]uint64
	if err := binary.Read(r, binary.LittleEndian, header[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	rows, cols, nnz := int(header[0]), int(header[1]), int(header[2])
	rowPtr, err := readUint64Slice(r, rows+1)
	if err != nil {
		return nil, err
	}
	colInd, err := readUint64Slice(r, nnz)
	if err != nil {
		return nil, err
	}
	val := make([]float64, nnz)
	if err := binary.Read(r, binary.LittleEndian, val); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return &SparseMatrixCSR{
		rows: rows, cols: cols,
		rowPtr: WrapHandle(rowPtr),
		colInd: WrapHandle(colInd),
		val:    WrapHandle(val),
	}, nil
}

func writeUint64Slice(w io.Writer, ints []int) error {
	u := make([]uint64, len(ints))
	for i, v := range ints {
		u[i] = uint64(v)
	}
	return binary.Write(w, binary.LittleEndian, u)
}

func readUint64Slice(r io.Reader, n int) ([]int, error) {
	u := make([]uint64, n)
	if err := binary.Read(r, binary.LittleEndian, u); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	out := make([]int, n)
	for i, v := range u {
		out[i] = int(v)
	}
	return out, nil
}
