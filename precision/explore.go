package precision

import (
	"fmt"
	"math"

	"github.com/arloliu/otmap/occupancy"
)

// Tree is the read-only tree access the analyzer needs.
type Tree interface {
	Root() *occupancy.Node
	NodeChildExists(node *occupancy.Node, i int) bool
	NodeChild(node *occupancy.Node, i int) *occupancy.Node
}

// Result accumulates quantization error over a subtree.
type Result struct {
	SumSquaredError float64
	NodeCount       int
}

// RMS returns the root-mean-square error, sqrt(SumSquaredError/NodeCount), or 0
// for an empty result.
func (r Result) RMS() float64 {
	if r.NodeCount == 0 {
		return 0
	}

	return math.Sqrt(r.SumSquaredError / float64(r.NodeCount))
}

func (r *Result) add(o Result) {
	r.SumSquaredError += o.SumSquaredError
	r.NodeCount += o.NodeCount
}

// Explore returns the squared calibrated-codec round-trip error of node and its
// subtree at the given bit width, along with the number of nodes visited.
//
// A nil node yields an empty Result. Bit widths outside 1-32 return
// errs.ErrUnsupportedEncoding.
func Explore(tree Tree, node *occupancy.Node, bits int) (Result, error) {
	q, err := Calibrated(bits)
	if err != nil {
		return Result{}, err
	}

	return ExploreWith(tree, node, q)
}

// ExploreWith is Explore with an arbitrary Quantizer. Children are visited
// depth-first in octant order 0-7.
func ExploreWith(tree Tree, node *occupancy.Node, q Quantizer) (Result, error) {
	if node == nil {
		return Result{}, nil
	}

	p := node.Probability()
	restored, err := q.RoundTrip(p)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", q, err)
	}

	diff := restored - p
	res := Result{SumSquaredError: diff * diff, NodeCount: 1}

	for i := range occupancy.NumOctants {
		if !tree.NodeChildExists(node, i) {
			continue
		}

		sub, err := ExploreWith(tree, tree.NodeChild(node, i), q)
		if err != nil {
			return Result{}, err
		}
		res.add(sub)
	}

	return res, nil
}
