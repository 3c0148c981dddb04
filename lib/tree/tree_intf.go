package tree

import "github.com/repairing-yu/rust-red-black-tree/lib/infra"

// go install golang.org/x/tools/cmd/stringer@latest

//go:generate stringer -type=RBColor
type RBColor uint8

const (
	Black RBColor = iota
	Red
)

//go:generate stringer -type=RBDirection
type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

type RBNode[K infra.OrderedKey] interface {
	Key() K
	Color() RBColor
	Left() RBNode[K]
	Right() RBNode[K]
	Parent() RBNode[K]
}

// RBTree is an in-memory ordered key container. All operations are
// synchronous and run to completion; a tree shared across goroutines
// must be serialized externally, reads included, because rebalancing
// rewrites ancestor links that lookups traverse.
type RBTree[K infra.OrderedKey] interface {
	Root() RBNode[K]
	// Insert adds the key. Inserting a key already present is a no-op.
	Insert(key K)
	// Delete removes the key. Deleting an absent key is a no-op.
	Delete(key K)
	Get(key K) (K, bool)
	// Size recounts the keys by full traversal; no cached counter is
	// maintained, so a reported size always reflects reachable nodes.
	Size() int64
	Search(x RBNode[K], fn func(RBNode[K]) int64) RBNode[K]
	Foreach(action func(idx int64, color RBColor, key K) bool)
	PreorderWalk(action func(key K) bool)
	InorderWalk(action func(key K) bool)
	PostorderWalk(action func(key K) bool)
	Release()
}
