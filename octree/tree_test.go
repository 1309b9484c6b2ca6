package octree

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/otmap/errs"
	"github.com/arloliu/otmap/format"
	"github.com/arloliu/otmap/occupancy"
)

func TestNew(t *testing.T) {
	tree, err := New(format.KindOcTree, 0.2)
	require.NoError(t, err)
	require.Equal(t, format.KindOcTree, tree.Kind())
	require.Equal(t, 0.2, tree.Resolution())
	require.Nil(t, tree.Root())
	require.Zero(t, tree.Size())
	require.True(t, tree.SupportsCompactBinary())

	color, err := New(format.KindColorOcTree, 0.2)
	require.NoError(t, err)
	require.False(t, color.SupportsCompactBinary())

	_, err = New(format.TreeKind(9), 0.2)
	require.ErrorIs(t, err, errs.ErrInvalidTreeKind)

	for _, res := range []float64{0, -1} {
		_, err = New(format.KindOcTree, res)
		require.ErrorIs(t, err, errs.ErrInvalidResolution)
	}
}

func TestTreeOptions(t *testing.T) {
	tree, err := New(format.KindOcTree, 0.1, WithClampingThresholds(0.2, 0.8), WithOccupancyThreshold(0.7))
	require.NoError(t, err)

	lo, hi := tree.ClampingThresholds()
	require.InDelta(t, occupancy.LogOdds(0.2), float64(lo), 1e-6)
	require.InDelta(t, occupancy.LogOdds(0.8), float64(hi), 1e-6)

	n := occupancy.NewNode(occupancy.ValueFromProbability(0.65))
	require.False(t, tree.IsNodeOccupied(n))
	n.SetLogOdds(float32(occupancy.LogOdds(0.75)))
	require.True(t, tree.IsNodeOccupied(n))

	_, err = New(format.KindOcTree, 0.1, WithClampingThresholds(0.8, 0.2))
	require.Error(t, err)
	_, err = New(format.KindOcTree, 0.1, WithOccupancyThreshold(1))
	require.Error(t, err)
}

func TestUpdateNode(t *testing.T) {
	tree, err := New(format.KindOcTree, 0.1)
	require.NoError(t, err)

	leaf, err := tree.UpdateNode(0.85, 2, 5)
	require.NoError(t, err)
	require.InDelta(t, 0.85, leaf.LogOdds(), 1e-6)
	require.Equal(t, 3, tree.Size())

	inner, err := tree.NodeAt(2)
	require.NoError(t, err)
	require.Equal(t, leaf.LogOdds(), inner.LogOdds())
	require.Equal(t, leaf.LogOdds(), tree.Root().LogOdds())

	// a lower sibling does not lower the parent
	_, err = tree.UpdateNode(-0.4, 2, 6)
	require.NoError(t, err)
	require.Equal(t, leaf.LogOdds(), inner.LogOdds())

	// updates clamp to the thresholds
	_, hi := tree.ClampingThresholds()
	for range 10 {
		leaf, err = tree.UpdateNode(0.85, 2, 5)
		require.NoError(t, err)
	}
	require.Equal(t, hi, leaf.LogOdds())
	require.Equal(t, hi, tree.Root().LogOdds())
}

func TestNodeAt(t *testing.T) {
	tree := sampleTree(t, format.KindOcTree)

	root, err := tree.NodeAt()
	require.NoError(t, err)
	require.Same(t, tree.Root(), root)

	n, err := tree.NodeAt(7, 7, 0)
	require.NoError(t, err)
	require.InDelta(t, -1.5, n.LogOdds(), 1e-6)
	require.False(t, n.HasChildren())

	inner, err := tree.NodeAt(7)
	require.NoError(t, err)
	require.InDelta(t, 0.3, inner.LogOdds(), 1e-6)
	require.InDelta(t, 2.0, root.LogOdds(), 1e-6)

	_, err = tree.NodeAt(7, 7, 1)
	require.ErrorIs(t, err, errs.ErrNodeNotFound)

	_, err = tree.NodeAt(8)
	require.ErrorIs(t, err, errs.ErrInvalidOctant)

	empty, err := New(format.KindOcTree, 0.1)
	require.NoError(t, err)
	_, err = empty.NodeAt()
	require.ErrorIs(t, err, errs.ErrNodeNotFound)
}

func TestEnsurePath(t *testing.T) {
	tree, err := New(format.KindColorOcTree, 0.1)
	require.NoError(t, err)

	mid, err := tree.EnsurePath(4)
	require.NoError(t, err)
	mid.SetLogOdds(1.25)
	mid.Color = occupancy.Color{R: 10, G: 20, B: 30}

	leaf, err := tree.EnsurePath(4, 0)
	require.NoError(t, err)
	require.Equal(t, mid.LogOdds(), leaf.LogOdds())
	require.Equal(t, mid.Color, leaf.Color)

	again, err := tree.EnsurePath(4, 0)
	require.NoError(t, err)
	require.Same(t, leaf, again)

	_, err = tree.EnsurePath(1, -1)
	require.ErrorIs(t, err, errs.ErrInvalidOctant)
	require.False(t, tree.Root().ChildExists(1))

	_, err = tree.EnsurePath(make([]int, MaxDepth+1)...)
	require.ErrorIs(t, err, errs.ErrTreeTooDeep)

	tree.UpdateInnerOccupancy()
	require.Equal(t, leaf.LogOdds(), tree.Root().LogOdds())

	tree.Clear()
	require.Zero(t, tree.Size())
}

func TestNodeChildAccessors(t *testing.T) {
	tree := sampleTree(t, format.KindOcTree)
	root := tree.Root()

	require.True(t, tree.NodeChildExists(root, 0))
	require.False(t, tree.NodeChildExists(root, 1))
	require.False(t, tree.NodeChildExists(nil, 0))
	require.NotNil(t, tree.NodeChild(root, 7))
	require.Nil(t, tree.NodeChild(root, 5))
	require.Nil(t, tree.NodeChild(nil, 0))
}

func TestSetRoot(t *testing.T) {
	tree, err := New(format.KindOcTree, 0.1)
	require.NoError(t, err)

	root := occupancy.NewNode(occupancy.Value{})
	child, err := root.CreateChild(2)
	require.NoError(t, err)

	require.ErrorIs(t, tree.SetRoot(child), errs.ErrNodeOwnership)
	require.Nil(t, tree.Root())

	require.NoError(t, tree.SetRoot(root))
	require.Equal(t, 2, tree.Size())

	require.NoError(t, tree.SetRoot(nil))
	require.Zero(t, tree.Size())
}
