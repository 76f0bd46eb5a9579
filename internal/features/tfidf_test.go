package features

import (
	"math"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/mikey/sms-spam-classifier/internal/core"
	"github.com/mikey/sms-spam-classifier/internal/textproc"
)

var corpus = []string{
	"Free entry to win a prize, call now",
	"Are we meeting for lunch today?",
	"Win cash now! Text WIN to claim",
	"See you at lunch",
}

func fitted(t *testing.T) (*Vectorizer, *CSR) {
	t.Helper()
	v := NewVectorizer(textproc.NewDefaultTokenizer())
	m, err := v.FitTransform(corpus)
	require.NoError(t, err)
	return v, m
}

func TestVectorizerVocabularyIsSorted(t *testing.T) {
	v, m := fitted(t)

	vocab := v.Vocabulary()
	assert.True(t, sort.StringsAreSorted(vocab))
	assert.Contains(t, vocab, "lunch")
	assert.NotContains(t, vocab, "to")

	rows, cols := m.Dims()
	assert.Equal(t, len(corpus), rows)
	assert.Equal(t, v.NumTerms(), cols)
}

func TestVectorizerRowsAreUnitNorm(t *testing.T) {
	_, m := fitted(t)

	for i := 0; i < m.NumRows; i++ {
		_, vals := m.Row(i)
		assert.InDelta(t, 1.0, floats.Norm(vals, 2), 1e-12, "row %d", i)
	}
}

func TestVectorizerSmoothIDF(t *testing.T) {
	v, _ := fitted(t)
	state := v.State()

	idx := sort.SearchStrings(state.Terms, "lunch")
	require.Equal(t, "lunch", state.Terms[idx])
	// two of four documents contain "lunch"
	assert.InDelta(t, math.Log(5.0/3.0)+1, state.IDF[idx], 1e-12)

	idx = sort.SearchStrings(state.Terms, "meeting")
	require.Equal(t, "meeting", state.Terms[idx])
	assert.InDelta(t, math.Log(5.0/2.0)+1, state.IDF[idx], 1e-12)
}

func TestVectorizerTermFrequency(t *testing.T) {
	v, m := fitted(t)
	state := v.State()

	win := sort.SearchStrings(state.Terms, "win")
	cash := sort.SearchStrings(state.Terms, "cash")
	// row 2 mentions "win" twice and "cash" once
	ratio := m.At(2, win) / m.At(2, cash)
	assert.InDelta(t, 2*state.IDF[win]/state.IDF[cash], ratio, 1e-12)
}

func TestVectorizerIgnoresUnknownTerms(t *testing.T) {
	v, _ := fitted(t)

	m, err := v.Transform([]string{"zebra xylophone", "lunch zebra"})
	require.NoError(t, err)

	_, vals := m.Row(0)
	assert.Empty(t, vals)

	idx, vals := m.Row(1)
	require.Len(t, idx, 1)
	assert.InDelta(t, 1.0, vals[0], 1e-12)
}

func TestVectorizerErrors(t *testing.T) {
	v := NewVectorizer(textproc.NewDefaultTokenizer())

	_, err := v.Transform([]string{"hello"})
	assert.ErrorIs(t, err, core.ErrNotFitted)

	assert.ErrorIs(t, v.Fit(nil), core.ErrEmptyDataset)
	assert.ErrorIs(t, v.Fit([]string{"the a an"}), core.ErrEmptyDataset)
}

func TestVectorizerStateRoundTrip(t *testing.T) {
	v, m := fitted(t)

	restored, err := NewVectorizerFromState(v.State())
	require.NoError(t, err)

	again, err := restored.Transform(corpus)
	require.NoError(t, err)
	assert.True(t, mat.Equal(m, again))

	_, err = NewVectorizerFromState(VectorizerState{Terms: []string{"a"}, IDF: nil})
	assert.ErrorIs(t, err, core.ErrShapeMismatch)
}

func TestAssemble(t *testing.T) {
	v, m := fitted(t)

	x, err := Assemble(m, []float64{10, 20, 30, 40})
	require.NoError(t, err)

	rows, cols := x.Dims()
	assert.Equal(t, len(corpus), rows)
	assert.Equal(t, v.NumTerms()+1, cols)
	assert.Equal(t, 30.0, x.At(2, cols-1))
	for j := 0; j < v.NumTerms(); j++ {
		assert.Equal(t, m.At(1, j), x.At(1, j))
	}

	_, err = Assemble(m, []float64{1, 2})
	assert.ErrorIs(t, err, core.ErrShapeMismatch)

	_, err = Assemble(NewCSR(3), nil)
	assert.ErrorIs(t, err, core.ErrEmptyDataset)
}

func TestEncoder(t *testing.T) {
	v, _ := fitted(t)
	enc := NewEncoder(v)

	x, err := enc.Encode([]string{"lunch café"})
	require.NoError(t, err)

	_, cols := x.Dims()
	assert.Equal(t, enc.NumFeatures(), cols)
	assert.Equal(t, 10.0, x.At(0, cols-1))
}

func TestCSR(t *testing.T) {
	m := NewCSR(4)
	require.NoError(t, m.AppendRow([]int{0, 3}, []float64{1, 2}))
	require.NoError(t, m.AppendRow(nil, nil))

	assert.Error(t, m.AppendRow([]int{3, 1}, []float64{1, 1}))
	assert.ErrorIs(t, m.AppendRow([]int{4}, []float64{1}), core.ErrShapeMismatch)
	assert.ErrorIs(t, m.AppendRow([]int{1}, nil), core.ErrShapeMismatch)

	assert.Equal(t, 2, m.NNZ())
	assert.Equal(t, 2.0, m.At(0, 3))
	assert.Equal(t, 0.0, m.At(0, 1))
	assert.Equal(t, 2.0, m.T().At(3, 0))

	dense := m.ToDense()
	assert.True(t, mat.Equal(m, dense))
	converted, err := FromMatrix(dense)
	require.NoError(t, err)
	assert.True(t, mat.Equal(m, converted))
	same, err := FromMatrix(m)
	require.NoError(t, err)
	assert.Same(t, m, same)

	assert.Equal(t, 4.0, SparseDot([]int{0, 3}, []float64{1, 2}, []int{1, 3}, []float64{5, 2}))
}

func TestCSRValidate(t *testing.T) {
	valid := func() *CSR {
		m := NewCSR(3)
		require.NoError(t, m.AppendRow([]int{0, 2}, []float64{1, 2}))
		require.NoError(t, m.AppendRow([]int{1}, []float64{3}))
		return m
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name    string
		corrupt func(m *CSR)
	}{
		{"missing row pointer", func(m *CSR) { m.IndPtr = m.IndPtr[:2] }},
		{"row pointer past data", func(m *CSR) { m.IndPtr[2] = 4 }},
		{"decreasing row pointers", func(m *CSR) { m.IndPtr[1] = 4 }},
		{"column out of range", func(m *CSR) { m.Indices[1] = 3 }},
		{"unsorted columns", func(m *CSR) { m.Indices[0], m.Indices[1] = 2, 0 }},
		{"values missing", func(m *CSR) { m.Data = m.Data[:2] }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := valid()
			tt.corrupt(m)
			assert.Error(t, m.Validate())

			_, err := FromMatrix(m)
			assert.Error(t, err)
		})
	}
}

func TestMatrixStore(t *testing.T) {
	_, m := fitted(t)
	path := filepath.Join(t.TempDir(), "nested", "tfidf_vector.gob")

	require.NoError(t, SaveMatrix(path, m))
	loaded, err := LoadMatrix(path)
	require.NoError(t, err)
	assert.Equal(t, m, loaded)

	_, err = LoadMatrix(filepath.Join(t.TempDir(), "missing.gob"))
	assert.Error(t, err)
}
