package tree

import (
	"errors"

	"go.uber.org/multierr"

	"github.com/repairing-yu/rust-red-black-tree/lib/infra"
)

func isNilLeaf[K infra.OrderedKey](node RBNode[K]) bool {
	return node == nil
}

func isBlack[K infra.OrderedKey](node RBNode[K]) bool {
	return isNilLeaf[K](node) || node.Color() == Black
}

func isRed[K infra.OrderedKey](node RBNode[K]) bool {
	return !isNilLeaf[K](node) && node.Color() == Red
}

func isRoot[K infra.OrderedKey](node RBNode[K]) bool {
	return node != nil && node.Parent() == nil
}

func blackDepthTo[K infra.OrderedKey](target, to RBNode[K]) int {
	depth := 0
	for aux := target; aux != to; aux = aux.Parent() {
		if isBlack[K](aux) {
			depth++
		}
	}
	return depth
}

// rbtree rule validation utilities.

// Inorder traversal to validate that no red node has a red parent or a
// red child, and that the root is black.
func RedViolationValidate[K infra.OrderedKey](tree RBTree[K]) error {
	var aux RBNode[K] = tree.Root()
	if aux == nil {
		return nil
	}
	if isRed[K](aux) {
		return errors.New("rbtree red violation")
	}

	stack := make([]RBNode[K], 0, 32)
	defer func() {
		clear(stack)
	}()

	for ; !isNilLeaf[K](aux); aux = aux.Left() {
		stack = append(stack, aux)
	}

	for size := len(stack); size > 0; size = len(stack) {
		if aux = stack[size-1]; isRed[K](aux) {
			if (!isRoot[K](aux.Parent()) && isRed[K](aux.Parent())) ||
				(isRed[K](aux.Left()) || isRed[K](aux.Right())) {
				return errors.New("rbtree red violation")
			}
		}

		stack = stack[:size-1]
		if aux.Right() != nil {
			for aux = aux.Right(); aux != nil; aux = aux.Left() {
				stack = append(stack, aux)
			}
		}
	}
	return nil
}

// BFS traversal to load all nodes that close at least one path, i.e.
// carry at least one nil child link.
func bfsLeaves[K infra.OrderedKey](tree RBTree[K]) []RBNode[K] {
	var aux RBNode[K] = tree.Root()
	if isNilLeaf[K](aux) {
		return nil
	}

	leaves := make([]RBNode[K], 0, 32)
	queue := make([]RBNode[K], 0, 32)
	defer func() {
		clear(queue)
	}()
	queue = append(queue, aux)

	for len(queue) > 0 {
		aux = queue[0]
		l, r := aux.Left(), aux.Right()
		if isNilLeaf[K](l) || isNilLeaf[K](r) {
			leaves = append(leaves, aux)
		}
		if !isNilLeaf[K](l) {
			queue = append(queue, l)
		}
		if !isNilLeaf[K](r) {
			queue = append(queue, r)
		}
		queue = queue[1:]
	}
	return leaves
}

// BlackViolationValidate recomputes the black depth of every
// path-closing node independently; all of them must agree, otherwise
// some root-to-nil path carries a different number of black nodes.
func BlackViolationValidate[K infra.OrderedKey](tree RBTree[K]) error {
	leaves := bfsLeaves[K](tree)
	if leaves == nil {
		return nil
	}

	blackDepth := blackDepthTo[K](leaves[0], tree.Root())
	for i := 1; i < len(leaves); i++ {
		if blackDepthTo[K](leaves[i], tree.Root()) != blackDepth {
			return errors.New("rbtree black violation")
		}
	}
	return nil
}

// OrderViolationValidate checks that an inorder traversal yields a
// strictly monotonic key sequence (ascending or descending, depending
// on how the tree compares).
func OrderViolationValidate[K infra.OrderedKey](tree RBTree[K]) error {
	var (
		prev      K
		ascending bool
		violated  bool
	)
	tree.Foreach(func(idx int64, _ RBColor, key K) bool {
		switch {
		case idx == 0:
		case key == prev:
			violated = true
			return false
		case idx == 1:
			ascending = prev < key
		case ascending != (prev < key):
			violated = true
			return false
		}
		prev = key
		return true
	})
	if violated {
		return errors.New("rbtree order violation")
	}
	return nil
}

// Validate runs all three structural validators and combines whatever
// they report.
func Validate[K infra.OrderedKey](tree RBTree[K]) error {
	return multierr.Combine(
		RedViolationValidate[K](tree),
		BlackViolationValidate[K](tree),
		OrderViolationValidate[K](tree),
	)
}
