package features

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/mikey/sms-spam-classifier/internal/core"
	"github.com/mikey/sms-spam-classifier/internal/textproc"
)

// Assemble concatenates the text matrix with one auxiliary column into a dense matrix
func Assemble(text *CSR, aux []float64) (*mat.Dense, error) {
	rows, cols := text.Dims()
	if rows != len(aux) {
		return nil, fmt.Errorf("%w: text matrix has %d rows, auxiliary column has %d",
			core.ErrShapeMismatch, rows, len(aux))
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: nothing to assemble", core.ErrEmptyDataset)
	}

	out := mat.NewDense(rows, cols+1, nil)
	for i := 0; i < rows; i++ {
		idx, vals := text.Row(i)
		for k, j := range idx {
			out.Set(i, j, vals[k])
		}
		out.Set(i, cols, aux[i])
	}
	return out, nil
}

// Encoder builds classifier input for raw messages with a fitted vectorizer
type Encoder struct {
	vectorizer *Vectorizer
}

var _ core.FeatureEncoder = (*Encoder)(nil)

// NewEncoder creates an encoder around a fitted vectorizer
func NewEncoder(vectorizer *Vectorizer) *Encoder {
	return &Encoder{vectorizer: vectorizer}
}

// NumFeatures returns the width of encoded rows
func (e *Encoder) NumFeatures() int {
	return e.vectorizer.NumTerms() + 1
}

// Encode returns TF-IDF weights followed by the message length for each message
func (e *Encoder) Encode(messages []string) (*mat.Dense, error) {
	text, err := e.vectorizer.Transform(messages)
	if err != nil {
		return nil, err
	}
	lengths := make([]float64, len(messages))
	for i, m := range messages {
		lengths[i] = float64(textproc.MessageLength(m))
	}
	return Assemble(text, lengths)
}
