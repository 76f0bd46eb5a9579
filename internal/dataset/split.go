package dataset

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/mikey/sms-spam-classifier/internal/core"
)

// Split holds disjoint train and test row indices
type Split struct {
	Train []int
	Test  []int
}

// TrainTestSplit shuffles n row indices with seed and assigns ceil(testSize*n) of them to the test set
func TrainTestSplit(n int, testSize float64, seed uint64) (Split, error) {
	if testSize <= 0 || testSize >= 1 {
		return Split{}, fmt.Errorf("test size %v outside (0, 1)", testSize)
	}

	nTest := int(math.Ceil(testSize * float64(n)))
	nTrain := n - nTest
	if nTest < 1 || nTrain < 1 {
		return Split{}, fmt.Errorf("%w: %d rows cannot be split with test size %v", core.ErrEmptyDataset, n, testSize)
	}

	rng := rand.New(rand.NewPCG(seed, seed))
	perm := rng.Perm(n)

	return Split{
		Test:  perm[:nTest],
		Train: perm[nTest:],
	}, nil
}

// Take returns the elements of s at idx, in idx order
func Take[T any](s []T, idx []int) []T {
	out := make([]T, len(idx))
	for k, i := range idx {
		out[k] = s[i]
	}
	return out
}

// TakeRows copies the rows of m at idx into a new matrix
func TakeRows(m mat.Matrix, idx []int) *mat.Dense {
	_, c := m.Dims()
	out := mat.NewDense(len(idx), c, nil)
	row := make([]float64, c)
	for k, i := range idx {
		mat.Row(row, i, m)
		out.SetRow(k, row)
	}
	return out
}
