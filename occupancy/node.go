package occupancy

import (
	"fmt"

	"github.com/arloliu/otmap/errs"
)

// NumOctants is the number of child slots of a node.
const NumOctants = 8

// Color is the RGB color of a color tree node.
type Color struct {
	R, G, B uint8
}

// Node is an octree node carrying an occupancy Value.
//
// A node exclusively owns its children; a child is never shared between parents.
type Node struct {
	Value
	Color Color

	parent   *Node
	children *[NumOctants]*Node
}

// NewNode creates a leaf node with the given value.
func NewNode(v Value) *Node {
	return &Node{Value: v}
}

func checkOctant(i int) error {
	if i < 0 || i >= NumOctants {
		return fmt.Errorf("%w: %d", errs.ErrInvalidOctant, i)
	}

	return nil
}

// ChildExists reports whether octant i holds a child. Invalid indexes report false.
func (n *Node) ChildExists(i int) bool {
	return n.children != nil && i >= 0 && i < NumOctants && n.children[i] != nil
}

// Child returns the child at octant i, or nil if it is absent or i is invalid.
func (n *Node) Child(i int) *Node {
	if !n.ChildExists(i) {
		return nil
	}

	return n.children[i]
}

// HasChildren reports whether any octant holds a child.
func (n *Node) HasChildren() bool {
	return n.ChildMask() != 0
}

// ChildCount returns the number of present children.
func (n *Node) ChildCount() int {
	count := 0
	for i := range NumOctants {
		if n.ChildExists(i) {
			count++
		}
	}

	return count
}

// ChildMask returns a bit set with bit i set when octant i holds a child.
func (n *Node) ChildMask() uint8 {
	var mask uint8
	for i := range NumOctants {
		if n.ChildExists(i) {
			mask |= 1 << i
		}
	}

	return mask
}

// CreateChild creates an empty child at octant i, inheriting this node's value and
// color. It returns the existing child if octant i is already occupied.
func (n *Node) CreateChild(i int) (*Node, error) {
	if err := checkOctant(i); err != nil {
		return nil, err
	}
	if c := n.Child(i); c != nil {
		return c, nil
	}

	child := &Node{Value: n.Value, Color: n.Color}
	n.attach(i, child)

	return child, nil
}

// SetChild stores child at octant i, replacing and detaching any existing child.
// A nil child removes the slot.
//
// child must be a root: a node that already has a parent, or that is n itself or
// one of its ancestors, is rejected with errs.ErrNodeOwnership.
func (n *Node) SetChild(i int, child *Node) error {
	if err := checkOctant(i); err != nil {
		return err
	}
	if child == nil {
		n.DeleteChild(i)
		return nil
	}
	if n.Child(i) == child {
		return nil
	}
	if child.parent != nil {
		return fmt.Errorf("%w: child is attached to another node", errs.ErrNodeOwnership)
	}
	for a := n; a != nil; a = a.parent {
		if a == child {
			return fmt.Errorf("%w: child is an ancestor of its new parent", errs.ErrNodeOwnership)
		}
	}

	n.DeleteChild(i)
	n.attach(i, child)

	return nil
}

// Parent returns the node owning n, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// DeleteChild removes the child at octant i together with its subtree. The
// removed child becomes a root and may be attached elsewhere.
func (n *Node) DeleteChild(i int) {
	if !n.ChildExists(i) {
		return
	}

	n.children[i].parent = nil
	n.children[i] = nil
	if !n.HasChildren() {
		n.children = nil
	}
}

func (n *Node) attach(i int, child *Node) {
	if n.children == nil {
		n.children = new([NumOctants]*Node)
	}
	n.children[i] = child
	child.parent = n
}

// MeanChildLogOdds averages the probability of the present children and returns
// the mean as log-odds, log(mean/(1-mean)).
//
// Averaging happens in probability space, which describes consensus occupancy
// better than averaging unbounded log-odds. The result is saturated like a stored
// value. A node without children returns NoChildLogOdds.
func (n *Node) MeanChildLogOdds() float64 {
	var sum float64
	count := 0
	for i := range NumOctants {
		if c := n.Child(i); c != nil {
			sum += c.Probability()
			count++
		}
	}

	if count == 0 {
		return float64(NoChildLogOdds)
	}

	return Saturate(LogOdds(sum / float64(count)))
}

// MaxChildLogOdds returns the largest log-odds among the present children.
//
// Log-odds are compared directly: the logistic transform is monotonic, so the
// largest log-odds is also the largest probability. A node without children
// returns NoChildLogOdds.
func (n *Node) MaxChildLogOdds() float32 {
	maxLogOdds := NoChildLogOdds
	for i := range NumOctants {
		if c := n.Child(i); c != nil && c.logOdds > maxLogOdds {
			maxLogOdds = c.logOdds
		}
	}

	return maxLogOdds
}

// UpdateFromChildren sets this node's log-odds to the maximum of its children.
// Leaves are left unchanged.
func (n *Node) UpdateFromChildren() {
	if n.HasChildren() {
		n.logOdds = n.MaxChildLogOdds()
	}
}

// Walk visits n and its subtree depth-first in octant order. Returning false from
// fn skips the subtree of the visited node.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(node *Node, depth int) bool, depth int) {
	if !fn(n, depth) {
		return
	}

	for i := range NumOctants {
		if c := n.Child(i); c != nil {
			c.walk(fn, depth+1)
		}
	}
}
