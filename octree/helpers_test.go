package octree

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/otmap/format"
	"github.com/arloliu/otmap/occupancy"
)

type sampleLeaf struct {
	path     []int
	logOdds  float32
	occupied bool
}

// sampleLeaves builds a 9-node tree: root, 0, 0/1, 0/2, 3, 7, 7/1, 7/7, 7/7/0.
var sampleLeaves = []sampleLeaf{
	{path: []int{0, 1}, logOdds: 0.85, occupied: true},
	{path: []int{0, 2}, logOdds: -0.4},
	{path: []int{3}, logOdds: 2.0, occupied: true},
	{path: []int{7, 7, 0}, logOdds: -1.5},
	{path: []int{7, 1}, logOdds: 0.3, occupied: true},
}

func sampleTree(t *testing.T, kind format.TreeKind) *Tree {
	t.Helper()

	tree, err := New(kind, 0.05)
	require.NoError(t, err)

	for i, leaf := range sampleLeaves {
		n, err := tree.EnsurePath(leaf.path...)
		require.NoError(t, err)
		n.SetLogOdds(leaf.logOdds)
		if kind.HasColor() {
			n.Color = occupancy.Color{R: uint8(40 * i), G: uint8(255 - 30*i), B: uint8(7 * i)}
		}
	}
	tree.UpdateInnerOccupancy()
	require.Equal(t, 9, tree.Size())

	return tree
}

// requireSameTree checks that both trees have the same shape, colors and
// probabilities within delta.
func requireSameTree(t *testing.T, want, got *Tree, delta float64) {
	t.Helper()

	require.Equal(t, want.Kind(), got.Kind())
	require.Equal(t, want.Resolution(), got.Resolution())
	require.Equal(t, want.Size(), got.Size())
	requireSameNode(t, want.Kind().HasColor(), want.Root(), got.Root(), delta)
}

func requireSameNode(t *testing.T, withColor bool, want, got *occupancy.Node, delta float64) {
	t.Helper()

	if want == nil {
		require.Nil(t, got)
		return
	}
	require.NotNil(t, got)
	require.InDelta(t, want.Probability(), got.Probability(), delta)
	if withColor {
		require.Equal(t, want.Color, got.Color)
	}
	require.Equal(t, want.ChildMask(), got.ChildMask())

	for i := range occupancy.NumOctants {
		requireSameNode(t, withColor, want.Child(i), got.Child(i), delta)
	}
}
