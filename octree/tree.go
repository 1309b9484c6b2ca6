package octree

import (
	"fmt"
	"math"

	"github.com/arloliu/otmap/errs"
	"github.com/arloliu/otmap/format"
	"github.com/arloliu/otmap/internal/options"
	"github.com/arloliu/otmap/occupancy"
)

// Default occupancy thresholds of a tree, as probabilities.
const (
	DefaultClampingThresMin = 0.1192
	DefaultClampingThresMax = 0.971
	DefaultOccupancyThres   = 0.5

	// DefaultResolution is used when a layout does not record a resolution.
	DefaultResolution = 0.1

	// MaxDepth is the deepest level a tree may reach; the root is level 0.
	MaxDepth = 64
)

// Tree is an in-memory occupancy octree.
//
// A Tree is not safe for concurrent use. Readers such as the precision analyzer
// must not run while the tree is being updated.
type Tree struct {
	kind       format.TreeKind
	resolution float64
	root       *occupancy.Node

	clampMin    float32 // log-odds
	clampMax    float32 // log-odds
	occupancyTh float64 // probability
}

// TreeOption configures a Tree.
type TreeOption = options.Option[*Tree]

// WithClampingThresholds sets the probability bounds applied by UpdateNode and used
// for leaves restored from the compact binary layout.
func WithClampingThresholds(minProb, maxProb float64) TreeOption {
	return options.New(func(t *Tree) error {
		if !(minProb > 0 && minProb < maxProb && maxProb < 1) {
			return fmt.Errorf("invalid clamping thresholds [%v, %v]", minProb, maxProb)
		}
		t.clampMin = float32(occupancy.LogOdds(minProb))
		t.clampMax = float32(occupancy.LogOdds(maxProb))

		return nil
	})
}

// WithOccupancyThreshold sets the probability at or above which a node counts as occupied.
func WithOccupancyThreshold(p float64) TreeOption {
	return options.New(func(t *Tree) error {
		if !(p > 0 && p < 1) {
			return fmt.Errorf("invalid occupancy threshold %v", p)
		}
		t.occupancyTh = p

		return nil
	})
}

// New creates an empty tree of the given kind and resolution.
func New(kind format.TreeKind, resolution float64, opts ...TreeOption) (*Tree, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidTreeKind, kind)
	}
	if !(resolution > 0) || math.IsInf(resolution, 1) {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidResolution, resolution)
	}

	t := &Tree{
		kind:        kind,
		resolution:  resolution,
		clampMin:    float32(occupancy.LogOdds(DefaultClampingThresMin)),
		clampMax:    float32(occupancy.LogOdds(DefaultClampingThresMax)),
		occupancyTh: DefaultOccupancyThres,
	}
	if err := options.Apply(t, opts...); err != nil {
		return nil, err
	}

	return t, nil
}

// Kind returns the tree kind.
func (t *Tree) Kind() format.TreeKind {
	return t.kind
}

// Resolution returns the edge length of the smallest voxel.
func (t *Tree) Resolution() float64 {
	return t.resolution
}

// Root returns the root node, or nil for an empty tree.
func (t *Tree) Root() *occupancy.Node {
	return t.root
}

// SetRoot replaces the whole tree content. root must not be owned by another
// node; such a node is rejected with errs.ErrNodeOwnership.
func (t *Tree) SetRoot(root *occupancy.Node) error {
	if root != nil && root.Parent() != nil {
		return fmt.Errorf("%w: root has a parent", errs.ErrNodeOwnership)
	}
	t.root = root

	return nil
}

// Size returns the number of nodes in the tree.
func (t *Tree) Size() int {
	if t.root == nil {
		return 0
	}

	count := 0
	t.root.Walk(func(*occupancy.Node, int) bool {
		count++
		return true
	})

	return count
}

// Clear removes all nodes.
func (t *Tree) Clear() {
	t.root = nil
}

// NodeChildExists reports whether node has a child at octant i.
func (t *Tree) NodeChildExists(node *occupancy.Node, i int) bool {
	return node != nil && node.ChildExists(i)
}

// NodeChild returns the child of node at octant i, or nil if absent.
func (t *Tree) NodeChild(node *occupancy.Node, i int) *occupancy.Node {
	if node == nil {
		return nil
	}

	return node.Child(i)
}

// SupportsCompactBinary reports whether the tree can be written in the compact
// binary layout. Color trees cannot: the layout has no room for colors.
func (t *Tree) SupportsCompactBinary() bool {
	return t.kind == format.KindOcTree
}

// ClampingThresholds returns the clamping bounds as log-odds.
func (t *Tree) ClampingThresholds() (minLogOdds, maxLogOdds float32) {
	return t.clampMin, t.clampMax
}

// IsNodeOccupied reports whether node's probability reaches the occupancy threshold.
func (t *Tree) IsNodeOccupied(node *occupancy.Node) bool {
	return node.IsOccupied(t.occupancyTh)
}

// NodeAt returns the node addressed by an octant path from the root.
// An empty path addresses the root.
func (t *Tree) NodeAt(path ...int) (*occupancy.Node, error) {
	if t.root == nil {
		return nil, fmt.Errorf("%w: empty tree", errs.ErrNodeNotFound)
	}

	node := t.root
	for depth, i := range path {
		if i < 0 || i >= occupancy.NumOctants {
			return nil, fmt.Errorf("%w: %d at depth %d", errs.ErrInvalidOctant, i, depth+1)
		}
		child := node.Child(i)
		if child == nil {
			return nil, fmt.Errorf("%w: path %v", errs.ErrNodeNotFound, path[:depth+1])
		}
		node = child
	}

	return node, nil
}

// EnsurePath returns the node addressed by path, creating the root and any missing
// nodes along the way. New nodes inherit the value of their parent.
func (t *Tree) EnsurePath(path ...int) (*occupancy.Node, error) {
	_, err := t.ensurePath(path)
	if err != nil {
		return nil, err
	}

	return t.NodeAt(path...)
}

// ensurePath returns the nodes along path, root first.
func (t *Tree) ensurePath(path []int) ([]*occupancy.Node, error) {
	if len(path) > MaxDepth {
		return nil, fmt.Errorf("%w: path length %d exceeds %d", errs.ErrTreeTooDeep, len(path), MaxDepth)
	}
	for depth, i := range path {
		if i < 0 || i >= occupancy.NumOctants {
			return nil, fmt.Errorf("%w: %d at depth %d", errs.ErrInvalidOctant, i, depth+1)
		}
	}

	if t.root == nil {
		t.root = occupancy.NewNode(occupancy.Value{})
	}

	nodes := make([]*occupancy.Node, 0, len(path)+1)
	node := t.root
	nodes = append(nodes, node)
	for _, i := range path {
		child, err := node.CreateChild(i)
		if err != nil {
			return nil, err
		}
		node = child
		nodes = append(nodes, node)
	}

	return nodes, nil
}

// UpdateInnerOccupancy sets every inner node to the maximum of its children,
// bottom-up. Use it after changing leaf values directly.
func (t *Tree) UpdateInnerOccupancy() {
	if t.root != nil {
		updateInner(t.root)
	}
}

func updateInner(n *occupancy.Node) {
	if !n.HasChildren() {
		return
	}
	for i := range occupancy.NumOctants {
		if child := n.Child(i); child != nil {
			updateInner(child)
		}
	}
	n.UpdateFromChildren()
}

// UpdateNode applies an additive log-odds update to the node addressed by path,
// creating it if needed.
//
// The updated value is clamped to the tree's clamping thresholds, and every
// ancestor is refreshed to the maximum of its children.
func (t *Tree) UpdateNode(delta float32, path ...int) (*occupancy.Node, error) {
	nodes, err := t.ensurePath(path)
	if err != nil {
		return nil, err
	}

	leaf := nodes[len(nodes)-1]
	leaf.AddValue(delta)
	leaf.SetLogOdds(min(max(leaf.LogOdds(), t.clampMin), t.clampMax))

	for i := len(nodes) - 2; i >= 0; i-- {
		nodes[i].UpdateFromChildren()
	}

	return leaf, nil
}
