package occupancy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/otmap/errs"
)

func nodeWithChildren(t *testing.T, logOdds map[int]float32) *Node {
	t.Helper()

	n := NewNode(Value{})
	for i, l := range logOdds {
		require.NoError(t, n.SetChild(i, NewNode(NewValue(l))))
	}

	return n
}

func TestNodeChildren(t *testing.T) {
	n := NewNode(NewValue(0.5))
	require.False(t, n.HasChildren())
	require.Zero(t, n.ChildCount())
	require.Nil(t, n.Child(0))

	c, err := n.CreateChild(3)
	require.NoError(t, err)
	require.Equal(t, n.LogOdds(), c.LogOdds())

	again, err := n.CreateChild(3)
	require.NoError(t, err)
	require.Same(t, c, again)

	_, err = n.CreateChild(7)
	require.NoError(t, err)

	require.True(t, n.ChildExists(3))
	require.True(t, n.ChildExists(7))
	require.False(t, n.ChildExists(0))
	require.False(t, n.ChildExists(8))
	require.False(t, n.ChildExists(-1))
	require.Equal(t, 2, n.ChildCount())
	require.Equal(t, uint8(0b1000_1000), n.ChildMask())

	n.DeleteChild(3)
	require.False(t, n.ChildExists(3))
	n.DeleteChild(7)
	require.False(t, n.HasChildren())
}

func TestNodeInvalidOctant(t *testing.T) {
	n := NewNode(Value{})

	_, err := n.CreateChild(8)
	require.ErrorIs(t, err, errs.ErrInvalidOctant)

	require.ErrorIs(t, n.SetChild(-1, NewNode(Value{})), errs.ErrInvalidOctant)
	require.ErrorIs(t, n.SetChild(0, n), errs.ErrNodeOwnership)
}

func TestMeanChildLogOddsSingleChild(t *testing.T) {
	for _, v := range []float32{-2, -0.3, 0, 1.5, 3.5} {
		n := nodeWithChildren(t, map[int]float32{5: v})
		require.InDelta(t, float64(v), n.MeanChildLogOdds(), 1e-6)
	}
}

func TestMeanChildLogOddsAveragesProbabilities(t *testing.T) {
	n := nodeWithChildren(t, map[int]float32{
		0: float32(LogOdds(0.2)),
		4: float32(LogOdds(0.6)),
	})

	require.InDelta(t, LogOdds(0.4), n.MeanChildLogOdds(), 1e-6)

	// averaging log-odds would give a different answer
	naive := (LogOdds(0.2) + LogOdds(0.6)) / 2
	require.Greater(t, math.Abs(naive-n.MeanChildLogOdds()), 1e-3)
}

func TestMaxChildLogOdds(t *testing.T) {
	n := nodeWithChildren(t, map[int]float32{1: -1.0, 2: 2.0, 6: 0.5})
	require.Equal(t, float32(2.0), n.MaxChildLogOdds())

	n = nodeWithChildren(t, map[int]float32{0: -5, 7: -3})
	require.Equal(t, float32(-3), n.MaxChildLogOdds())
}

func TestChildAggregationWithoutChildren(t *testing.T) {
	n := NewNode(NewValue(1))

	require.Equal(t, NoChildLogOdds, n.MaxChildLogOdds())
	require.Equal(t, float64(NoChildLogOdds), n.MeanChildLogOdds())
	require.False(t, math.IsNaN(n.MeanChildLogOdds()))
	require.Less(t, NoChildLogOdds, float32(-LogOddsLimit))
}

func TestUpdateFromChildren(t *testing.T) {
	leaf := NewNode(NewValue(1.5))
	leaf.UpdateFromChildren()
	require.Equal(t, float32(1.5), leaf.LogOdds())

	n := nodeWithChildren(t, map[int]float32{1: -1.0, 2: 2.0})
	n.UpdateFromChildren()
	require.Equal(t, float32(2.0), n.LogOdds())
}

func TestWalkOrder(t *testing.T) {
	root := NewNode(Value{})
	a, err := root.CreateChild(6)
	require.NoError(t, err)
	a.SetLogOdds(6)
	b, err := root.CreateChild(1)
	require.NoError(t, err)
	b.SetLogOdds(1)
	c, err := b.CreateChild(2)
	require.NoError(t, err)
	c.SetLogOdds(12)

	var visited []float32
	var depths []int
	root.Walk(func(n *Node, depth int) bool {
		visited = append(visited, n.LogOdds())
		depths = append(depths, depth)
		return true
	})

	require.Equal(t, []float32{0, 1, 12, 6}, visited)
	require.Equal(t, []int{0, 1, 2, 1}, depths)

	count := 0
	root.Walk(func(n *Node, depth int) bool {
		count++
		return depth == 0
	})
	require.Equal(t, 3, count)
}

func TestSetChildOwnership(t *testing.T) {
	a := NewNode(Value{})
	b := NewNode(Value{})
	shared := NewNode(NewValue(1))

	require.NoError(t, a.SetChild(0, shared))
	require.Same(t, a, shared.Parent())
	require.NoError(t, a.SetChild(0, shared), "re-setting the same slot is a no-op")

	require.ErrorIs(t, b.SetChild(0, shared), errs.ErrNodeOwnership)
	require.False(t, b.ChildExists(0))

	require.ErrorIs(t, a.SetChild(3, shared), errs.ErrNodeOwnership)
	require.Equal(t, 1, a.ChildCount())

	// once detached, the node can move to a new parent
	a.DeleteChild(0)
	require.Nil(t, shared.Parent())
	require.NoError(t, b.SetChild(0, shared))
	require.Same(t, b, shared.Parent())
}

func TestSetChildRejectsCycles(t *testing.T) {
	root := NewNode(Value{})
	child, err := root.CreateChild(0)
	require.NoError(t, err)
	grandchild, err := child.CreateChild(5)
	require.NoError(t, err)

	require.ErrorIs(t, child.SetChild(1, root), errs.ErrNodeOwnership)
	require.ErrorIs(t, grandchild.SetChild(0, root), errs.ErrNodeOwnership)
	require.False(t, grandchild.HasChildren())

	count := 0
	root.Walk(func(*Node, int) bool {
		count++
		return true
	})
	require.Equal(t, 3, count)
}

func TestSetChildReplaceDetaches(t *testing.T) {
	n := NewNode(Value{})
	old := NewNode(NewValue(-1))
	repl := NewNode(NewValue(2))

	require.NoError(t, n.SetChild(4, old))
	require.NoError(t, n.SetChild(4, repl))
	require.Nil(t, old.Parent())
	require.Same(t, n, repl.Parent())
	require.Same(t, repl, n.Child(4))

	require.NoError(t, n.SetChild(4, nil))
	require.Nil(t, repl.Parent())
	require.False(t, n.HasChildren())
}
