// Package tree implements a CART decision tree classifier with Gini impurity.
package tree

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/mikey/sms-spam-classifier/internal/core"
)

const leaf = -1

// Node is one node of a fitted tree. Leaves have Feature == -1.
type Node struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Label     core.Label
	Samples   int
	Impurity  float64
}

// Classifier is a binary decision tree
type Classifier struct {
	Nodes       []Node
	NumFeatures int

	maxDepth int
	seed     uint64
	logger   *zap.Logger
}

var _ core.Classifier = (*Classifier)(nil)

// New creates an unfitted tree. maxDepth <= 0 grows until leaves are pure.
func New(maxDepth int, seed uint64, logger *zap.Logger) *Classifier {
	return &Classifier{
		maxDepth: maxDepth,
		seed:     seed,
		logger:   logger,
	}
}

// Name returns the classifier name
func (c *Classifier) Name() string {
	return "Decision Tree"
}

type entry struct {
	row int
	val float64
}

type builder struct {
	x        mat.Matrix
	y        []core.Label
	columns  [][]entry
	order    []int
	stamp    []int
	maxDepth int
	nodes    []Node
	nextID   int
}

// Fit grows the tree on features and labels
func (c *Classifier) Fit(features mat.Matrix, labels []core.Label) error {
	rows, cols := features.Dims()
	if rows != len(labels) {
		return fmt.Errorf("%w: %d rows, %d labels", core.ErrShapeMismatch, rows, len(labels))
	}
	if rows == 0 || cols == 0 {
		return core.ErrEmptyDataset
	}

	// column-wise index of non-zero values
	columns := make([][]entry, cols)
	buf := make([]float64, cols)
	for i := 0; i < rows; i++ {
		mat.Row(buf, i, features)
		for j, v := range buf {
			if v != 0 {
				columns[j] = append(columns[j], entry{row: i, val: v})
			}
		}
	}

	rng := rand.New(rand.NewPCG(c.seed, c.seed^0x9e3779b97f4a7c15))
	b := &builder{
		x:        features,
		y:        labels,
		columns:  columns,
		order:    rng.Perm(cols),
		stamp:    make([]int, rows),
		maxDepth: c.maxDepth,
	}

	all := make([]int, rows)
	for i := range all {
		all[i] = i
	}
	b.build(all, 0)

	c.Nodes = b.nodes
	c.NumFeatures = cols

	if c.logger != nil {
		c.logger.Debug("Fitted decision tree",
			zap.Int("nodes", len(c.Nodes)),
			zap.Int("depth", c.Depth()),
			zap.Int("leaves", c.Leaves()))
	}
	return nil
}

func gini(counts [2]int) float64 {
	n := counts[0] + counts[1]
	if n == 0 {
		return 0
	}
	p0 := float64(counts[0]) / float64(n)
	p1 := float64(counts[1]) / float64(n)
	return 1 - p0*p0 - p1*p1
}

func majority(counts [2]int) core.Label {
	if counts[core.Spam] > counts[core.Ham] {
		return core.Spam
	}
	return core.Ham
}

type split struct {
	feature   int
	threshold float64
	score     float64
}

// build appends the subtree for rows and returns its index
func (b *builder) build(rows []int, depth int) int {
	var counts [2]int
	for _, r := range rows {
		counts[b.y[r]]++
	}

	id := len(b.nodes)
	b.nodes = append(b.nodes, Node{
		Feature:  leaf,
		Left:     leaf,
		Right:    leaf,
		Label:    majority(counts),
		Samples:  len(rows),
		Impurity: gini(counts),
	})

	if counts[0] == 0 || counts[1] == 0 || len(rows) < 2 || (b.maxDepth > 0 && depth >= b.maxDepth) {
		return id
	}

	best, ok := b.bestSplit(rows, counts)
	if !ok {
		return id
	}

	var left, right []int
	for _, r := range rows {
		if b.x.At(r, best.feature) <= best.threshold {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}

	b.nodes[id].Feature = best.feature
	b.nodes[id].Threshold = best.threshold
	l := b.build(left, depth+1)
	rt := b.build(right, depth+1)
	b.nodes[id].Left = l
	b.nodes[id].Right = rt
	return id
}

// bestSplit scans every feature for the threshold with the lowest weighted child impurity
func (b *builder) bestSplit(rows []int, counts [2]int) (split, bool) {
	b.nextID++
	for _, r := range rows {
		b.stamp[r] = b.nextID
	}

	n := len(rows)
	best := split{score: -1}
	found := false

	var nonzero []entry
	for _, j := range b.order {
		nonzero = nonzero[:0]
		var nzCounts [2]int
		for _, e := range b.columns[j] {
			if b.stamp[e.row] == b.nextID {
				nonzero = append(nonzero, e)
				nzCounts[b.y[e.row]]++
			}
		}
		zeros := [2]int{counts[0] - nzCounts[0], counts[1] - nzCounts[1]}
		nZeros := zeros[0] + zeros[1]
		if len(nonzero) == 0 || (nZeros == 0 && allEqual(nonzero)) {
			continue
		}

		sort.Slice(nonzero, func(a, c int) bool { return nonzero[a].val < nonzero[c].val })

		// walk distinct values in ascending order, the zero block in its place
		var left [2]int
		nLeft := 0
		prev := 0.0
		havePrev := false
		zeroPending := nZeros > 0

		consider := func(next float64) {
			if !havePrev || nLeft == 0 || nLeft == n {
				return
			}
			right := [2]int{counts[0] - left[0], counts[1] - left[1]}
			score := gini(left)*float64(nLeft) + gini(right)*float64(n-nLeft)
			if !found || score < best.score {
				threshold := prev + (next-prev)/2
				if threshold >= next {
					threshold = prev
				}
				best = split{feature: j, threshold: threshold, score: score}
				found = true
			}
		}

		for k := 0; k < len(nonzero); {
			v := nonzero[k].val
			if zeroPending && v > 0 {
				consider(0)
				left[0] += zeros[0]
				left[1] += zeros[1]
				nLeft += nZeros
				prev, havePrev = 0, true
				zeroPending = false
			}
			consider(v)
			for k < len(nonzero) && nonzero[k].val == v {
				left[b.y[nonzero[k].row]]++
				nLeft++
				k++
			}
			prev, havePrev = v, true
		}
		if zeroPending {
			consider(0)
		}
	}

	return best, found
}

func allEqual(es []entry) bool {
	for _, e := range es[1:] {
		if e.val != es[0].val {
			return false
		}
	}
	return true
}

// Predict walks the tree for each row
func (c *Classifier) Predict(features mat.Matrix) ([]core.Label, error) {
	if len(c.Nodes) == 0 {
		return nil, core.ErrNotFitted
	}
	rows, cols := features.Dims()
	if cols != c.NumFeatures {
		return nil, fmt.Errorf("%w: tree expects %d features, got %d", core.ErrShapeMismatch, c.NumFeatures, cols)
	}

	out := make([]core.Label, rows)
	for i := 0; i < rows; i++ {
		node := c.Nodes[0]
		for node.Feature != leaf {
			if features.At(i, node.Feature) <= node.Threshold {
				node = c.Nodes[node.Left]
			} else {
				node = c.Nodes[node.Right]
			}
		}
		out[i] = node.Label
	}
	return out, nil
}

// Depth returns the length of the longest root-to-leaf path
func (c *Classifier) Depth() int {
	if len(c.Nodes) == 0 {
		return 0
	}
	var walk func(id int) int
	walk = func(id int) int {
		n := c.Nodes[id]
		if n.Feature == leaf {
			return 0
		}
		return 1 + max(walk(n.Left), walk(n.Right))
	}
	return walk(0)
}

// Leaves returns the number of leaf nodes
func (c *Classifier) Leaves() int {
	count := 0
	for _, n := range c.Nodes {
		if n.Feature == leaf {
			count++
		}
	}
	return count
}
