package artifact

import (
	"errors"
	"fmt"
	"math"

	"github.com/yanqian/queue-eta/pkg/features"
)

type linear struct {
	intercept    float64
	coefficients []float64
}

func newLinear(intercept float64, coefficients []float64) (*linear, error) {
	if len(coefficients) != features.Len {
		return nil, fmt.Errorf("linear artifact has %d coefficients, want %d", len(coefficients), features.Len)
	}
	if !finite(intercept) {
		return nil, errors.New("linear intercept is not finite")
	}
	for i, c := range coefficients {
		if !finite(c) {
			return nil, fmt.Errorf("coefficient %d is not finite", i)
		}
	}
	return &linear{intercept: intercept, coefficients: append([]float64(nil), coefficients...)}, nil
}

func (l *linear) score(row []float64) float64 {
	sum := l.intercept
	for i, c := range l.coefficients {
		sum += c * row[i]
	}
	return sum
}

type treeDocument struct {
	Nodes []treeNode `json:"nodes"`
}

// treeNode follows the split convention of CART trees: row[Feature] <= Threshold goes Left.
type treeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Leaf      bool    `json:"leaf"`
	Value     float64 `json:"value"`
}

// forest averages the output of its regression trees.
type forest struct {
	trees [][]treeNode
}

func newForest(docs []treeDocument) (*forest, error) {
	if len(docs) == 0 {
		return nil, errors.New("forest artifact has no trees")
	}
	trees := make([][]treeNode, 0, len(docs))
	for t, doc := range docs {
		if err := checkTree(doc.Nodes); err != nil {
			return nil, fmt.Errorf("tree %d: %w", t, err)
		}
		trees = append(trees, append([]treeNode(nil), doc.Nodes...))
	}
	return &forest{trees: trees}, nil
}

// checkTree rejects trees that could index out of range or loop. Children must
// sit after their parent, so every walk terminates.
func checkTree(nodes []treeNode) error {
	if len(nodes) == 0 {
		return errors.New("tree has no nodes")
	}
	for i, n := range nodes {
		if n.Leaf {
			if !finite(n.Value) {
				return fmt.Errorf("node %d: leaf value is not finite", i)
			}
			continue
		}
		if n.Feature < 0 || n.Feature >= features.Len {
			return fmt.Errorf("node %d: feature index %d out of range", i, n.Feature)
		}
		if math.IsNaN(n.Threshold) {
			return fmt.Errorf("node %d: threshold is NaN", i)
		}
		if n.Left <= i || n.Left >= len(nodes) {
			return fmt.Errorf("node %d: left child %d invalid", i, n.Left)
		}
		if n.Right <= i || n.Right >= len(nodes) {
			return fmt.Errorf("node %d: right child %d invalid", i, n.Right)
		}
	}
	return nil
}

func (f *forest) score(row []float64) float64 {
	var sum float64
	for _, nodes := range f.trees {
		sum += walk(nodes, row)
	}
	return sum / float64(len(f.trees))
}

func walk(nodes []treeNode, row []float64) float64 {
	idx := 0
	for {
		n := nodes[idx]
		if n.Leaf {
			return n.Value
		}
		if row[n.Feature] <= n.Threshold {
			idx = n.Left
		} else {
			idx = n.Right
		}
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
