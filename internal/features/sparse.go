// Package features turns message text into classifier input.
package features

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/mikey/sms-spam-classifier/internal/core"
)

// CSR is a compressed sparse row matrix.
// Row i holds Indices[IndPtr[i]:IndPtr[i+1]] with matching Data, column indices ascending.
type CSR struct {
	NumRows int
	NumCols int
	IndPtr  []int
	Indices []int
	Data    []float64
}

var _ mat.Matrix = (*CSR)(nil)

// NewCSR creates an empty matrix with the given number of columns
func NewCSR(cols int) *CSR {
	return &CSR{NumCols: cols, IndPtr: []int{0}}
}

// AppendRow adds a row; indices must be ascending and below the column count
func (m *CSR) AppendRow(indices []int, values []float64) error {
	if len(indices) != len(values) {
		return fmt.Errorf("%w: %d indices, %d values", core.ErrShapeMismatch, len(indices), len(values))
	}
	for k, j := range indices {
		if j < 0 || j >= m.NumCols {
			return fmt.Errorf("%w: column %d outside [0,%d)", core.ErrShapeMismatch, j, m.NumCols)
		}
		if k > 0 && indices[k-1] >= j {
			return fmt.Errorf("row indices not ascending at %d", k)
		}
	}
	m.Indices = append(m.Indices, indices...)
	m.Data = append(m.Data, values...)
	m.IndPtr = append(m.IndPtr, len(m.Indices))
	m.NumRows++
	return nil
}

// Dims returns the matrix shape
func (m *CSR) Dims() (r, c int) {
	return m.NumRows, m.NumCols
}

// At returns the element at row i, column j
func (m *CSR) At(i, j int) float64 {
	if i < 0 || i >= m.NumRows || j < 0 || j >= m.NumCols {
		panic(mat.ErrIndexOutOfRange)
	}
	cols, vals := m.Row(i)
	k := sort.SearchInts(cols, j)
	if k < len(cols) && cols[k] == j {
		return vals[k]
	}
	return 0
}

// T returns the implicit transpose
func (m *CSR) T() mat.Matrix {
	return mat.Transpose{Matrix: m}
}

// Row returns the stored column indices and values of row i
func (m *CSR) Row(i int) ([]int, []float64) {
	start, end := m.IndPtr[i], m.IndPtr[i+1]
	return m.Indices[start:end], m.Data[start:end]
}

// NNZ returns the number of stored entries
func (m *CSR) NNZ() int {
	return len(m.Data)
}

// ToDense expands the matrix
func (m *CSR) ToDense() *mat.Dense {
	if m.NumRows == 0 || m.NumCols == 0 {
		return &mat.Dense{}
	}
	d := mat.NewDense(m.NumRows, m.NumCols, nil)
	for i := 0; i < m.NumRows; i++ {
		cols, vals := m.Row(i)
		for k, j := range cols {
			d.Set(i, j, vals[k])
		}
	}
	return d
}

// Validate checks the row pointers and column indices of m
func (m *CSR) Validate() error {
	if m.NumRows < 0 || m.NumCols < 0 || len(m.IndPtr) != m.NumRows+1 || m.IndPtr[0] != 0 {
		return fmt.Errorf("%w: %d rows with %d row pointers", core.ErrShapeMismatch, m.NumRows, len(m.IndPtr))
	}
	if len(m.Indices) != len(m.Data) || m.IndPtr[m.NumRows] != len(m.Indices) {
		return fmt.Errorf("%w: %d indices, %d values, %d stored",
			core.ErrShapeMismatch, len(m.Indices), len(m.Data), m.IndPtr[m.NumRows])
	}
	for i := 0; i < m.NumRows; i++ {
		if m.IndPtr[i] > m.IndPtr[i+1] {
			return fmt.Errorf("%w: row pointers decrease at row %d", core.ErrShapeMismatch, i)
		}
	}
	for i := 0; i < m.NumRows; i++ {
		start, end := m.IndPtr[i], m.IndPtr[i+1]
		for k := start; k < end; k++ {
			j := m.Indices[k]
			if j < 0 || j >= m.NumCols {
				return fmt.Errorf("%w: row %d has column %d outside [0,%d)", core.ErrShapeMismatch, i, j, m.NumCols)
			}
			if k > start && m.Indices[k-1] >= j {
				return fmt.Errorf("row %d indices not ascending", i)
			}
		}
	}
	return nil
}

// FromMatrix copies the non-zero entries of m into a CSR matrix.
// A *CSR is validated and returned as is.
func FromMatrix(m mat.Matrix) (*CSR, error) {
	if csr, ok := m.(*CSR); ok {
		if err := csr.Validate(); err != nil {
			return nil, err
		}
		return csr, nil
	}
	r, c := m.Dims()
	out := NewCSR(c)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, m)
		var idx []int
		var vals []float64
		for j, v := range row {
			if v != 0 {
				idx = append(idx, j)
				vals = append(vals, v)
			}
		}
		if err := out.AppendRow(idx, vals); err != nil {
			return nil, fmt.Errorf("failed to convert row %d: %w", i, err)
		}
	}
	return out, nil
}

// SparseDot returns the dot product of two rows given as ascending index lists
func SparseDot(ai []int, av []float64, bi []int, bv []float64) float64 {
	var sum float64
	p, q := 0, 0
	for p < len(ai) && q < len(bi) {
		switch {
		case ai[p] == bi[q]:
			sum += av[p] * bv[q]
			p++
			q++
		case ai[p] < bi[q]:
			p++
		default:
			q++
		}
	}
	return sum
}
