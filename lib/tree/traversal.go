package tree

// Inorder traversal to implement the DFS. The callback sees the visit
// index and the node color besides the key; returning false stops the
// walk early.
func (tree *rbTree[K]) Foreach(action func(idx int64, color RBColor, key K) bool) {
	aux := tree.root
	if aux == nil {
		return
	}

	stack := make([]*rbNode[K], 0, 32)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}

	idx := int64(0)
	for size := len(stack); size > 0; size = len(stack) {
		if aux = stack[size-1]; !action(idx, aux.color, aux.key) {
			return
		}
		idx++
		stack = stack[:size-1]
		if aux.right != nil {
			for aux = aux.right; aux != nil; aux = aux.left {
				stack = append(stack, aux)
			}
		}
	}
}

// PreorderWalk visits node, left subtree, right subtree.
func (tree *rbTree[K]) PreorderWalk(action func(key K) bool) {
	if tree.root == nil {
		return
	}

	stack := make([]*rbNode[K], 0, 32)
	stack = append(stack, tree.root)

	for len(stack) > 0 {
		aux := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !action(aux.key) {
			return
		}
		// Right pushed first so the left subtree is popped first.
		if aux.right != nil {
			stack = append(stack, aux.right)
		}
		if aux.left != nil {
			stack = append(stack, aux.left)
		}
	}
}

// InorderWalk visits the keys in sorted order.
func (tree *rbTree[K]) InorderWalk(action func(key K) bool) {
	tree.Foreach(func(_ int64, _ RBColor, key K) bool {
		return action(key)
	})
}

// PostorderWalk visits left subtree, right subtree, node.
func (tree *rbTree[K]) PostorderWalk(action func(key K) bool) {
	stack := make([]*rbNode[K], 0, 32)
	aux := tree.root
	var last *rbNode[K]

	for aux != nil || len(stack) > 0 {
		for ; aux != nil; aux = aux.left {
			stack = append(stack, aux)
		}
		peek := stack[len(stack)-1]
		if peek.right != nil && last != peek.right {
			aux = peek.right
			continue
		}
		if !action(peek.key) {
			return
		}
		last = peek
		stack = stack[:len(stack)-1]
	}
}
