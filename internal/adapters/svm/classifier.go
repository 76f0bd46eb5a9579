// Package svm implements a binary soft-margin support vector classifier with an RBF kernel.
package svm

import (
	"fmt"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/mikey/sms-spam-classifier/internal/core"
	"github.com/mikey/sms-spam-classifier/internal/features"
)

const tau = 1e-12

// Options configures the solver
type Options struct {
	C         float64
	Tolerance float64
	MaxIter   int
	CacheRows int
}

// DefaultOptions mirrors the usual libsvm defaults
func DefaultOptions() Options {
	return Options{
		C:         1.0,
		Tolerance: 1e-3,
		CacheRows: 1024,
	}
}

// Classifier is an RBF-kernel SVM trained with SMO
type Classifier struct {
	SupportVectors *features.CSR
	SqNorms        []float64
	Coef           []float64 // alpha_i * y_i
	Intercept      float64
	Gamma          float64
	NumFeatures    int

	opts   Options
	logger *zap.Logger
}

var _ core.Classifier = (*Classifier)(nil)

// New creates an unfitted classifier
func New(opts Options, logger *zap.Logger) *Classifier {
	def := DefaultOptions()
	if opts.C <= 0 {
		opts.C = def.C
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = def.Tolerance
	}
	if opts.CacheRows <= 0 {
		opts.CacheRows = def.CacheRows
	}
	return &Classifier{opts: opts, logger: logger}
}

// Name returns the classifier name
func (c *Classifier) Name() string {
	return "SVM"
}

func sign(l core.Label) float64 {
	if l == core.Spam {
		return 1
	}
	return -1
}

// scaleGamma returns 1 / (n_features * Var(X)), or 1 when X is constant
func scaleGamma(x *features.CSR) float64 {
	rows, cols := x.Dims()
	total := float64(rows) * float64(cols)
	var sum, sumSq float64
	for _, v := range x.Data {
		sum += v
		sumSq += v * v
	}
	mean := sum / total
	variance := sumSq/total - mean*mean
	if variance <= 0 {
		return 1
	}
	return 1 / (float64(cols) * variance)
}

type problem struct {
	x       *features.CSR
	sqNorms []float64
	y       []float64
	gamma   float64
	rows    *lru.Cache[int, []float64]
}

func (p *problem) kernel(i, j int) float64 {
	ai, av := p.x.Row(i)
	bi, bv := p.x.Row(j)
	d := p.sqNorms[i] + p.sqNorms[j] - 2*features.SparseDot(ai, av, bi, bv)
	return math.Exp(-p.gamma * math.Max(d, 0))
}

// q returns row i of Q where Q_ij = y_i y_j K(x_i, x_j)
func (p *problem) q(i int) []float64 {
	if row, ok := p.rows.Get(i); ok {
		return row
	}
	row := make([]float64, len(p.y))
	for j := range row {
		row[j] = p.y[i] * p.y[j] * p.kernel(i, j)
	}
	p.rows.Add(i, row)
	return row
}

func sqNorms(x *features.CSR) []float64 {
	out := make([]float64, x.NumRows)
	for i := range out {
		_, vals := x.Row(i)
		for _, v := range vals {
			out[i] += v * v
		}
	}
	return out
}

// Fit solves the dual problem with maximal-violating-pair SMO
func (c *Classifier) Fit(x mat.Matrix, labels []core.Label) error {
	rows, cols := x.Dims()
	if rows != len(labels) {
		return fmt.Errorf("%w: %d rows, %d labels", core.ErrShapeMismatch, rows, len(labels))
	}
	if rows == 0 || cols == 0 {
		return core.ErrEmptyDataset
	}

	y := make([]float64, rows)
	var pos int
	for i, l := range labels {
		y[i] = sign(l)
		if y[i] > 0 {
			pos++
		}
	}
	if pos == 0 || pos == rows {
		return fmt.Errorf("svm needs both classes in the training data, got %d spam of %d", pos, rows)
	}

	sparse, err := features.FromMatrix(x)
	if err != nil {
		return fmt.Errorf("failed to read training matrix: %w", err)
	}
	cache, err := lru.New[int, []float64](c.opts.CacheRows)
	if err != nil {
		return fmt.Errorf("failed to create kernel cache: %w", err)
	}
	p := &problem{
		x:       sparse,
		sqNorms: sqNorms(sparse),
		y:       y,
		gamma:   scaleGamma(sparse),
		rows:    cache,
	}

	maxIter := c.opts.MaxIter
	if maxIter <= 0 {
		maxIter = max(10_000_000, 100*rows)
	}

	C := c.opts.C
	alpha := make([]float64, rows)
	grad := make([]float64, rows)
	for i := range grad {
		grad[i] = -1
	}
	upper := func(t int) bool { return alpha[t] >= C }
	lower := func(t int) bool { return alpha[t] <= 0 }

	iter := 0
	for ; iter < maxIter; iter++ {
		i, j := -1, -1
		gmax, gmax2 := math.Inf(-1), math.Inf(-1)
		for t := 0; t < rows; t++ {
			if y[t] > 0 {
				if !upper(t) && -grad[t] >= gmax {
					gmax, i = -grad[t], t
				}
				if !lower(t) && grad[t] >= gmax2 {
					gmax2, j = grad[t], t
				}
			} else {
				if !lower(t) && grad[t] >= gmax {
					gmax, i = grad[t], t
				}
				if !upper(t) && -grad[t] >= gmax2 {
					gmax2, j = -grad[t], t
				}
			}
		}
		if i < 0 || j < 0 || gmax+gmax2 < c.opts.Tolerance {
			break
		}

		qi := p.q(i)
		qj := p.q(j)
		oldI, oldJ := alpha[i], alpha[j]

		if y[i] != y[j] {
			quad := 2 + 2*qi[j] // K(i,i) = K(j,j) = 1 for RBF
			if quad <= 0 {
				quad = tau
			}
			delta := (-grad[i] - grad[j]) / quad
			diff := alpha[i] - alpha[j]
			alpha[i] += delta
			alpha[j] += delta
			if diff > 0 {
				if alpha[j] < 0 {
					alpha[j] = 0
					alpha[i] = diff
				}
			} else if alpha[i] < 0 {
				alpha[i] = 0
				alpha[j] = -diff
			}
			if diff > 0 {
				if alpha[i] > C {
					alpha[i] = C
					alpha[j] = C - diff
				}
			} else if alpha[j] > C {
				alpha[j] = C
				alpha[i] = C + diff
			}
		} else {
			quad := 2 - 2*qi[j]
			if quad <= 0 {
				quad = tau
			}
			delta := (grad[i] - grad[j]) / quad
			sum := alpha[i] + alpha[j]
			alpha[i] -= delta
			alpha[j] += delta
			if sum > C {
				if alpha[i] > C {
					alpha[i] = C
					alpha[j] = sum - C
				}
			} else if alpha[j] < 0 {
				alpha[j] = 0
				alpha[i] = sum
			}
			if sum > C {
				if alpha[j] > C {
					alpha[j] = C
					alpha[i] = sum - C
				}
			} else if alpha[i] < 0 {
				alpha[i] = 0
				alpha[j] = sum
			}
		}

		di, dj := alpha[i]-oldI, alpha[j]-oldJ
		for t := range grad {
			grad[t] += qi[t]*di + qj[t]*dj
		}
	}
	if iter >= maxIter && c.logger != nil {
		c.logger.Warn("SVM solver reached iteration limit", zap.Int("max_iter", maxIter))
	}

	rho := computeRho(alpha, grad, y, C)

	sv := features.NewCSR(cols)
	var coef, norms []float64
	for t := 0; t < rows; t++ {
		if alpha[t] <= 0 {
			continue
		}
		idx, vals := sparse.Row(t)
		if err := sv.AppendRow(idx, vals); err != nil {
			return err
		}
		coef = append(coef, alpha[t]*y[t])
		norms = append(norms, p.sqNorms[t])
	}

	c.SupportVectors = sv
	c.SqNorms = norms
	c.Coef = coef
	c.Intercept = -rho
	c.Gamma = p.gamma
	c.NumFeatures = cols

	if c.logger != nil {
		c.logger.Debug("Fitted SVM",
			zap.Int("iterations", iter),
			zap.Int("support_vectors", len(coef)),
			zap.Float64("gamma", p.gamma))
	}
	return nil
}

// computeRho averages y_i*G_i over free vectors, or takes the midpoint of the feasible range
func computeRho(alpha, grad, y []float64, C float64) float64 {
	ub, lb := math.Inf(1), math.Inf(-1)
	var sumFree float64
	nFree := 0
	for i := range alpha {
		yg := y[i] * grad[i]
		switch {
		case alpha[i] >= C:
			if y[i] < 0 {
				ub = math.Min(ub, yg)
			} else {
				lb = math.Max(lb, yg)
			}
		case alpha[i] <= 0:
			if y[i] > 0 {
				ub = math.Min(ub, yg)
			} else {
				lb = math.Max(lb, yg)
			}
		default:
			nFree++
			sumFree += yg
		}
	}
	if nFree > 0 {
		return sumFree / float64(nFree)
	}
	return (ub + lb) / 2
}

// DecisionFunction returns the signed distance of each row to the separating surface
func (c *Classifier) DecisionFunction(x mat.Matrix) ([]float64, error) {
	if c.SupportVectors == nil {
		return nil, core.ErrNotFitted
	}
	rows, cols := x.Dims()
	if cols != c.NumFeatures {
		return nil, fmt.Errorf("%w: svm expects %d features, got %d", core.ErrShapeMismatch, c.NumFeatures, cols)
	}

	sparse, err := features.FromMatrix(x)
	if err != nil {
		return nil, fmt.Errorf("failed to read input matrix: %w", err)
	}
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		xi, xv := sparse.Row(i)
		var xsq float64
		for _, v := range xv {
			xsq += v * v
		}
		f := c.Intercept
		for k, coef := range c.Coef {
			si, sv := c.SupportVectors.Row(k)
			d := xsq + c.SqNorms[k] - 2*features.SparseDot(xi, xv, si, sv)
			f += coef * math.Exp(-c.Gamma*math.Max(d, 0))
		}
		out[i] = f
	}
	return out, nil
}

// Predict labels rows with a positive decision value as spam
func (c *Classifier) Predict(x mat.Matrix) ([]core.Label, error) {
	scores, err := c.DecisionFunction(x)
	if err != nil {
		return nil, err
	}
	out := make([]core.Label, len(scores))
	for i, s := range scores {
		if s > 0 {
			out[i] = core.Spam
		} else {
			out[i] = core.Ham
		}
	}
	return out, nil
}
