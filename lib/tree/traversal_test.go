package tree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func collect(walk func(action func(key uint64) bool)) []uint64 {
	keys := make([]uint64, 0, 8)
	walk(func(key uint64) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

func TestRBTreeWalkOrders(t *testing.T) {
	tree := NewRBTree[uint64]()

	require.Empty(t, collect(tree.PreorderWalk))
	require.Empty(t, collect(tree.InorderWalk))
	require.Empty(t, collect(tree.PostorderWalk))

	for _, key := range []uint64{4, 2, 6, 1, 3, 5, 7} {
		tree.Insert(key)
	}

	require.Equal(t, []uint64{4, 2, 1, 3, 6, 5, 7}, collect(tree.PreorderWalk))
	require.Equal(t, []uint64{1, 2, 3, 4, 5, 6, 7}, collect(tree.InorderWalk))
	require.Equal(t, []uint64{1, 3, 2, 5, 7, 6, 4}, collect(tree.PostorderWalk))
}

func TestRBTreeWalkEarlyStop(t *testing.T) {
	tree := NewRBTree[uint64]()
	for _, key := range []uint64{4, 2, 6, 1, 3, 5, 7} {
		tree.Insert(key)
	}

	type testcase struct {
		name     string
		walk     func(action func(key uint64) bool)
		expected []uint64
	}
	testcases := []testcase{
		{name: "preorder", walk: tree.PreorderWalk, expected: []uint64{4, 2, 1}},
		{name: "inorder", walk: tree.InorderWalk, expected: []uint64{1, 2, 3}},
		{name: "postorder", walk: tree.PostorderWalk, expected: []uint64{1, 3, 2}},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			keys := make([]uint64, 0, 3)
			tc.walk(func(key uint64) bool {
				keys = append(keys, key)
				return len(keys) < 3
			})
			require.Equal(tt, tc.expected, keys)
		})
	}
}

func TestRBTreeForeachColors(t *testing.T) {
	tree := NewRBTree[uint64]()
	for _, key := range []uint64{4, 2, 6} {
		tree.Insert(key)
	}

	colors := make([]RBColor, 0, 3)
	tree.Foreach(func(idx int64, color RBColor, key uint64) bool {
		colors = append(colors, color)
		return true
	})
	require.Equal(t, []RBColor{Red, Black, Red}, colors)
}
