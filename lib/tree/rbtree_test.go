package tree

import (
	randv2 "math/rand/v2"
	"sort"
	"testing"

	"github.com/google/btree"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"github.com/repairing-yu/rust-red-black-tree/lib/id"
	"github.com/repairing-yu/rust-red-black-tree/lib/infra"
)

type checkData struct {
	color RBColor
	key   uint64
}

func requireInorder(t *testing.T, tree RBTree[uint64], expected []checkData) {
	t.Helper()
	visited := int64(0)
	tree.Foreach(func(idx int64, color RBColor, key uint64) bool {
		require.Equal(t, expected[idx].color, color)
		require.Equal(t, expected[idx].key, key)
		visited++
		return true
	})
	require.Equal(t, int64(len(expected)), visited)
	require.NoError(t, Validate[uint64](tree))
}

func treeSnapshot[K infra.OrderedKey](tree RBTree[K]) ([]K, []RBColor) {
	keys := make([]K, 0, 8)
	tree.PreorderWalk(func(key K) bool {
		keys = append(keys, key)
		return true
	})
	colors := make([]RBColor, 0, 8)
	tree.Foreach(func(_ int64, color RBColor, _ K) bool {
		colors = append(colors, color)
		return true
	})
	return keys, colors
}

func TestNilNode(t *testing.T) {
	var nilNode RBNode[uint64] = nil
	require.True(t, nilNode == nil)

	var nilNode2 *rbNode[uint64] = nil
	nilNode = nilNode2
	require.True(t, nilNode != nil)
	require.Nil(t, nilNode)
}

func TestRBTreeInsertRotationCases(t *testing.T) {
	type testcase struct {
		name  string
		order []uint64
	}
	testcases := []testcase{
		{name: "rr", order: []uint64{10, 20, 30}},
		{name: "ll", order: []uint64{30, 20, 10}},
		{name: "rl", order: []uint64{10, 30, 20}},
		{name: "lr", order: []uint64{30, 10, 20}},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			tree := NewRBTree[uint64]()
			for _, key := range tc.order {
				tree.Insert(key)
			}
			requireInorder(tt, tree, []checkData{
				{Red, 10}, {Black, 20}, {Red, 30},
			})

			root := tree.Root()
			require.Equal(tt, uint64(20), root.Key())
			require.Equal(tt, Black, root.Color())
			require.Equal(tt, uint64(10), root.Left().Key())
			require.Equal(tt, uint64(30), root.Right().Key())
		})
	}
}

func TestRBTreeUncleRecolorUpsweep(t *testing.T) {
	tree := NewRBTree[uint64]()
	for _, key := range []uint64{4, 2, 6, 1, 3, 5, 7} {
		tree.Insert(key)
	}
	requireInorder(t, tree, []checkData{
		{Red, 1}, {Black, 2}, {Red, 3},
		{Black, 4},
		{Red, 5}, {Black, 6}, {Red, 7},
	})
	require.Equal(t, int64(7), tree.Size())

	// Every path from the root to a nil link crosses exactly one black
	// node below the root: the red leaves add nothing to the depth.
	root := tree.Root()
	require.Equal(t, 1, blackDepthTo[uint64](root.Left(), root))
	require.Equal(t, 1, blackDepthTo[uint64](root.Right(), root))
	require.Equal(t, 1, blackDepthTo[uint64](root.Left().Left(), root))
	require.Equal(t, 1, blackDepthTo[uint64](root.Left().Right(), root))
	require.Equal(t, 1, blackDepthTo[uint64](root.Right().Left(), root))
	require.Equal(t, 1, blackDepthTo[uint64](root.Right().Right(), root))
}

func TestRBTreeGet(t *testing.T) {
	tree := NewRBTree[uint64]()
	_, ok := tree.Get(52)
	require.False(t, ok)

	for _, key := range []uint64{52, 47, 3, 35, 24} {
		tree.Insert(key)
	}
	for _, key := range []uint64{52, 47, 3, 35, 24} {
		found, ok := tree.Get(key)
		require.True(t, ok)
		require.Equal(t, key, found)
	}
	_, ok = tree.Get(1)
	require.False(t, ok)
	_, ok = tree.Get(100)
	require.False(t, ok)

	x := tree.Search(tree.Root(), func(node RBNode[uint64]) int64 {
		if node.Key() == 35 {
			return 0
		} else if node.Key() > 35 {
			return -1
		}
		return 1
	})
	require.NotNil(t, x)
	require.Equal(t, uint64(35), x.Key())
}

func TestRBTreeSingleNodeDelete(t *testing.T) {
	tree := NewRBTree[uint64]()
	tree.Insert(7)
	require.Equal(t, int64(1), tree.Size())

	tree.Delete(7)
	require.Equal(t, int64(0), tree.Size())
	require.Nil(t, tree.Root())
	_, ok := tree.Get(7)
	require.False(t, ok)
}

func TestRBTreeInsertIdempotent(t *testing.T) {
	tree := NewRBTree[uint64]()
	for _, key := range []uint64{4, 2, 6, 1, 3, 5, 7} {
		tree.Insert(key)
	}
	beforeKeys, beforeColors := treeSnapshot[uint64](tree)

	tree.Insert(4)
	tree.Insert(1)
	tree.Insert(7)

	afterKeys, afterColors := treeSnapshot[uint64](tree)
	require.Equal(t, beforeKeys, afterKeys)
	require.Equal(t, beforeColors, afterColors)
}

func TestRBTreeDeleteAbsentNoop(t *testing.T) {
	tree := NewRBTree[uint64]()
	tree.Delete(42)
	require.Nil(t, tree.Root())

	for _, key := range []uint64{4, 2, 6} {
		tree.Insert(key)
	}
	beforeKeys, beforeColors := treeSnapshot[uint64](tree)

	tree.Delete(42)
	tree.Delete(0)
	tree.Delete(5)

	afterKeys, afterColors := treeSnapshot[uint64](tree)
	require.Equal(t, beforeKeys, afterKeys)
	require.Equal(t, beforeColors, afterColors)
}

func TestRBTreeDeleteWithAdjacentSuccessor(t *testing.T) {
	t.Run("successor keeps a red right child", func(tt *testing.T) {
		tree := NewRBTree[uint64]()
		for _, key := range []uint64{4, 2, 6, 1, 3, 5, 7, 8} {
			tree.Insert(key)
		}
		requireInorder(tt, tree, []checkData{
			{Red, 1}, {Black, 2}, {Red, 3},
			{Black, 4},
			{Black, 5}, {Red, 6}, {Black, 7}, {Red, 8},
		})

		// 7 is both 6's right child and its in-order successor; its red
		// child 8 fills the vacated slot, repainted black.
		tree.Delete(6)
		requireInorder(tt, tree, []checkData{
			{Red, 1}, {Black, 2}, {Red, 3},
			{Black, 4},
			{Black, 5}, {Red, 7}, {Black, 8},
		})
		require.Equal(tt, uint64(7), tree.Root().Right().Key())
	})

	t.Run("successor is a childless black node", func(tt *testing.T) {
		tree := NewRBTree[uint64]()
		for _, key := range []uint64{4, 2, 6, 1, 3, 5, 7, 8} {
			tree.Insert(key)
		}
		tree.Delete(8)

		// Now 7 is a childless black successor adjacent to 6: the
		// black deficit lands at 7's own new position.
		tree.Delete(6)
		requireInorder(tt, tree, []checkData{
			{Red, 1}, {Black, 2}, {Red, 3},
			{Black, 4},
			{Red, 5}, {Black, 7},
		})
		require.Equal(tt, uint64(7), tree.Root().Right().Key())
		require.Equal(tt, uint64(5), tree.Root().Right().Left().Key())
	})
}

func TestRBTreeDeleteRootWithDistantSuccessor(t *testing.T) {
	tree := NewRBTree[uint64]()
	for _, key := range []uint64{4, 2, 6, 1, 3, 5, 7} {
		tree.Insert(key)
	}

	// The successor 5 sits one level below 4's right child and must be
	// spliced structurally into the root position.
	tree.Delete(4)
	requireInorder(t, tree, []checkData{
		{Red, 1}, {Black, 2}, {Red, 3},
		{Black, 5},
		{Black, 6}, {Red, 7},
	})
	require.Equal(t, uint64(5), tree.Root().Key())
	require.Equal(t, Black, tree.Root().Color())
	require.Equal(t, int64(6), tree.Size())
}

func TestRBTreeSequentialInsertAndRemove(t *testing.T) {
	total := uint64(1000)
	tree := NewRBTree[uint64]()

	for i := uint64(0); i < total; i++ {
		tree.Insert(i)
		require.NoError(t, Validate[uint64](tree))
	}
	tree.Foreach(func(idx int64, color RBColor, key uint64) bool {
		require.Equal(t, uint64(idx), key)
		return true
	})
	require.Equal(t, int64(total), tree.Size())

	for i := uint64(0); i < total; i++ {
		tree.Delete(i)
		require.NoError(t, Validate[uint64](tree))
		_, ok := tree.Get(i)
		require.False(t, ok)
	}
	require.Equal(t, int64(0), tree.Size())
	require.Nil(t, tree.Root())
}

func TestRBTreeReverseSequentialInsertAndRemove(t *testing.T) {
	total := uint64(1000)
	tree := NewRBTree[uint64]()

	for i := total; i > 0; i-- {
		tree.Insert(i)
		require.NoError(t, Validate[uint64](tree))
	}
	for i := total; i > 0; i-- {
		tree.Delete(i)
		require.NoError(t, Validate[uint64](tree))
	}
	require.Nil(t, tree.Root())
}

// The oracle drill from the original stress driver: after every single
// mutation the tree must agree with an independent reference set on
// size and membership, and hold all structural rules.
func rbtreeRandomOracleRunCore(t *testing.T, total uint64, violationCheck bool) {
	idGen, err := id.MonotonicNonZeroID()
	require.NoError(t, err)

	keys := make([]uint64, 0, total)
	for i := uint64(0); i < total; i++ {
		keys = append(keys, idGen.Number())
	}
	keys = lo.Shuffle(keys)

	tree := NewRBTree[uint64]()
	ref := make(map[uint64]struct{}, total)
	orderedRef := btree.NewOrderedG[uint64](2)

	for _, key := range keys {
		tree.Insert(key)
		ref[key] = struct{}{}
		orderedRef.ReplaceOrInsert(key)

		require.Equal(t, int64(len(ref)), tree.Size())
		require.Equal(t, len(ref), orderedRef.Len())
		_, ok := tree.Get(key)
		require.True(t, ok)
		if violationCheck {
			require.NoError(t, Validate[uint64](tree))
		}
	}

	// Inorder agreement with the ordered reference.
	expected := make([]uint64, 0, total)
	orderedRef.Ascend(func(key uint64) bool {
		expected = append(expected, key)
		return true
	})
	tree.Foreach(func(idx int64, color RBColor, key uint64) bool {
		require.Equal(t, expected[idx], key)
		return true
	})

	removal := lo.Shuffle(lo.Keys(ref))
	for _, key := range removal {
		tree.Delete(key)
		delete(ref, key)
		orderedRef.Delete(key)

		require.Equal(t, int64(len(ref)), tree.Size())
		_, ok := tree.Get(key)
		require.False(t, ok)
		if violationCheck {
			require.NoError(t, Validate[uint64](tree))
		}
	}
	require.Equal(t, int64(0), tree.Size())
	require.Nil(t, tree.Root())
}

func TestRBTreeRandomOracle(t *testing.T) {
	type testcase struct {
		name           string
		total          uint64
		violationCheck bool
	}
	testcases := []testcase{
		{
			name:           "violation check 1000",
			total:          1000,
			violationCheck: true,
		},
		{
			name:           "violation check 5000",
			total:          5000,
			violationCheck: true,
		},
		{
			name:  "no per-op violation check 100000",
			total: 100000,
		},
	}
	t.Parallel()
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			rbtreeRandomOracleRunCore(tt, tc.total, tc.violationCheck)
		})
	}
}

func TestRBTreeRandomDuplicatedInserts(t *testing.T) {
	tree := NewRBTree[uint64]()
	ref := make(map[uint64]struct{})

	for i := 0; i < 20000; i++ {
		key := randv2.Uint64() % 512
		tree.Insert(key)
		ref[key] = struct{}{}
		require.Equal(t, int64(len(ref)), tree.Size())
	}
	require.NoError(t, Validate[uint64](tree))

	sorted := lo.Keys(ref)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	tree.Foreach(func(idx int64, color RBColor, key uint64) bool {
		require.Equal(t, sorted[idx], key)
		return true
	})
}

func TestRBTreeDesc(t *testing.T) {
	tree := NewRBTree[uint64](WithRBTreeDesc[uint64]())
	for _, key := range []uint64{3, 1, 4, 1, 5, 9, 2, 6} {
		tree.Insert(key)
	}
	require.Equal(t, int64(7), tree.Size())
	require.NoError(t, Validate[uint64](tree))

	prev := uint64(0)
	tree.Foreach(func(idx int64, color RBColor, key uint64) bool {
		if idx > 0 {
			require.Less(t, key, prev)
		}
		prev = key
		return true
	})
}

func TestRBTreeRelease(t *testing.T) {
	tree := NewRBTree[uint64]()
	for i := uint64(0); i < 10000; i++ {
		tree.Insert(i)
	}
	require.Equal(t, int64(10000), tree.Size())

	tree.Release()
	require.Equal(t, int64(0), tree.Size())
	require.Nil(t, tree.Root())

	// A released tree stays usable.
	tree.Insert(1)
	require.Equal(t, int64(1), tree.Size())
}

func BenchmarkRBTree_Random(b *testing.B) {
	b.StopTimer()
	tree := NewRBTree[int]()

	rngArr := make([]int, 0, b.N)
	for i := 0; i < b.N; i++ {
		rngArr = append(rngArr, randv2.Int())
	}

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		tree.Insert(rngArr[i])
	}
}

func BenchmarkRBTree_Serial(b *testing.B) {
	b.StopTimer()
	tree := NewRBTree[int]()

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		tree.Insert(i)
	}
}
