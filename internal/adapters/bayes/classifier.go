// Package bayes implements a multinomial naive Bayes classifier over non-negative features.
package bayes

import (
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/mikey/sms-spam-classifier/internal/core"
)

// Classifier is a multinomial naive Bayes model with additive smoothing
type Classifier struct {
	LogPrior      [2]float64
	LogLikelihood [2][]float64
	NumFeatures   int

	alpha  float64
	logger *zap.Logger
}

var _ core.Classifier = (*Classifier)(nil)

// New creates an unfitted classifier; alpha <= 0 selects Laplace smoothing
func New(alpha float64, logger *zap.Logger) *Classifier {
	if alpha <= 0 {
		alpha = 1
	}
	return &Classifier{alpha: alpha, logger: logger}
}

// Name returns the classifier name
func (c *Classifier) Name() string {
	return "Multinomial NB"
}

// Fit accumulates per-class feature totals
func (c *Classifier) Fit(x mat.Matrix, labels []core.Label) error {
	rows, cols := x.Dims()
	if rows != len(labels) {
		return fmt.Errorf("%w: %d rows, %d labels", core.ErrShapeMismatch, rows, len(labels))
	}
	if rows == 0 || cols == 0 {
		return core.ErrEmptyDataset
	}

	var classCount [2]int
	totals := [2][]float64{make([]float64, cols), make([]float64, cols)}
	row := make([]float64, cols)
	for i := 0; i < rows; i++ {
		mat.Row(row, i, x)
		if floats.Min(row) < 0 {
			return fmt.Errorf("negative feature value in row %d", i)
		}
		l := labels[i]
		classCount[l]++
		floats.Add(totals[l], row)
	}

	for _, l := range core.Labels {
		// an absent class can never be predicted
		if classCount[l] == 0 {
			c.LogPrior[l] = math.Inf(-1)
		} else {
			c.LogPrior[l] = math.Log(float64(classCount[l]) / float64(rows))
		}
		smoothed := make([]float64, cols)
		floats.AddConst(c.alpha, floats.AddTo(smoothed, smoothed, totals[l]))
		denom := floats.Sum(smoothed)
		for j := range smoothed {
			smoothed[j] = math.Log(smoothed[j] / denom)
		}
		c.LogLikelihood[l] = smoothed
	}
	c.NumFeatures = cols

	if c.logger != nil {
		c.logger.Debug("Fitted naive Bayes",
			zap.Int("ham", classCount[core.Ham]),
			zap.Int("spam", classCount[core.Spam]))
	}
	return nil
}

// Predict returns the label with the highest joint log likelihood
func (c *Classifier) Predict(x mat.Matrix) ([]core.Label, error) {
	if c.NumFeatures == 0 {
		return nil, core.ErrNotFitted
	}
	rows, cols := x.Dims()
	if cols != c.NumFeatures {
		return nil, fmt.Errorf("%w: naive Bayes expects %d features, got %d", core.ErrShapeMismatch, c.NumFeatures, cols)
	}

	out := make([]core.Label, rows)
	row := make([]float64, cols)
	for i := 0; i < rows; i++ {
		mat.Row(row, i, x)
		ham := c.LogPrior[core.Ham] + floats.Dot(row, c.LogLikelihood[core.Ham])
		spam := c.LogPrior[core.Spam] + floats.Dot(row, c.LogLikelihood[core.Spam])
		if spam > ham {
			out[i] = core.Spam
		} else {
			out[i] = core.Ham
		}
	}
	return out, nil
}
