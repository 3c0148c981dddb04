package tree

import (
	"github.com/repairing-yu/rust-red-black-tree/lib/infra"
)

type rbNode[K infra.OrderedKey] struct {
	parent *rbNode[K]
	left   *rbNode[K]
	right  *rbNode[K]
	key    K
	color  RBColor
}

func (node *rbNode[K]) Color() RBColor {
	return node.color
}

func (node *rbNode[K]) Key() K {
	return node.key
}

func (node *rbNode[K]) Left() RBNode[K] {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left
}

func (node *rbNode[K]) Parent() RBNode[K] {
	if node == nil || node.parent == nil {
		return nil
	}
	return node.parent
}

func (node *rbNode[K]) Right() RBNode[K] {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right
}

// A nil link stands for the absent child. There is no sentinel node and
// nil counts as black for the black-depth rules.
func (node *rbNode[K]) isNilLeaf() bool {
	return node == nil
}

func (node *rbNode[K]) isRed() bool {
	return node != nil && node.color == Red
}

func (node *rbNode[K]) isBlack() bool {
	return node == nil || node.color == Black
}

func (node *rbNode[K]) isRoot() bool {
	return node != nil && node.parent == nil
}

func (node *rbNode[K]) Direction() RBDirection {
	if node.isNilLeaf() {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] nil leaf node without direction")
	}

	if node.isRoot() {
		return Root
	}
	if node == node.parent.left {
		return Left
	}
	return Right
}

func (node *rbNode[K]) sibling() *rbNode[K] {
	switch node.Direction() {
	case Left:
		return node.parent.right
	case Right:
		return node.parent.left
	default:

	}
	return nil
}

func (node *rbNode[K]) minimum() *rbNode[K] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

// The succ node of the current node is its next node in sorted order.
// A node with two children is removed by promoting its succ, which is
// then the minimum of the right subtree.
func (node *rbNode[K]) succ() *rbNode[K] {
	x := node
	if x == nil {
		return nil
	}

	if x.right != nil {
		return x.right.minimum()
	}

	aux := x.parent
	// Backtrack to the ancestor that is the x's succ.
	for aux != nil && x == aux.right {
		x = aux
		aux = aux.parent
	}
	return aux
}

type rbTree[K infra.OrderedKey] struct {
	root   *rbNode[K]
	isDesc bool
}

func (tree *rbTree[K]) keyCompare(k1, k2 K) int64 {
	if k1 == k2 {
		return 0
	} else if k1 < k2 {
		if !tree.isDesc {
			return -1
		}
		return 1
	} else {
		if !tree.isDesc {
			return 1
		}
		return -1
	}
}

func (tree *rbTree[K]) Root() RBNode[K] {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

// References:
// https://elixir.bootlin.com/linux/latest/source/lib/rbtree.c
// rbtree properties:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black.
// (Conclusion) If a node X has exactly one child, it must be a red child,
//   because if it were black, its NIL descendants would sit at a different
//   black depth than X's NIL child, violating p4.

/*
	 |                          |
	 G                          P
	/ \     leftRotate(G,P)    / \
   L   P    =============>    G   Pd
	  / \                    / \
	Pc   Pd                 L   Pc

P is promoted into G's position; G becomes P's child on the opposite
side; the child of P facing G crosses over. Rotations relink only, they
never repaint.
*/
func (tree *rbTree[K]) leftRotate(g, p *rbNode[K]) {
	if g == nil || p == nil || g.right != p {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] left rotate without a right child to promote")
	}

	gp := g.parent
	dir := g.Direction()
	g.right = p.left
	if p.left != nil {
		p.left.parent = g
	}
	p.left = g
	g.parent = p
	p.parent = gp

	switch dir {
	case Root:
		tree.root = p
	case Left:
		gp.left = p
	case Right:
		gp.right = p
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to left-rotate")
	}
}

/*
	   |                           |
	   G                           P
	  / \     rightRotate(G,P)    / \
	 P   R    ==============>    Pc  G
	/ \                             / \
  Pc   Pd                         Pd   R
*/
func (tree *rbTree[K]) rightRotate(g, p *rbNode[K]) {
	if g == nil || p == nil || g.left != p {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] right rotate without a left child to promote")
	}

	gp := g.parent
	dir := g.Direction()
	g.left = p.right
	if p.right != nil {
		p.right.parent = g
	}
	p.right = g
	g.parent = p
	p.parent = gp

	switch dir {
	case Root:
		tree.root = p
	case Left:
		gp.left = p
	case Right:
		gp.right = p
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to right-rotate")
	}
}

// Insert adds the key if absent. A key already present leaves the tree
// untouched. The new node starts red, except for the very first node
// which becomes the black root.
func (tree *rbTree[K]) Insert(key K) {
	if tree.root == nil {
		tree.root = &rbNode[K]{
			key: key,
		}
		return
	}

	aux := tree.root
	var z *rbNode[K]
	for {
		res := tree.keyCompare(key, aux.key)
		if /* equal */ res == 0 {
			return
		} else /* less */ if res < 0 {
			if aux.left == nil {
				z = &rbNode[K]{
					key:    key,
					color:  Red,
					parent: aux,
				}
				aux.left = z
				break
			}
			aux = aux.left
		} else /* greater */ {
			if aux.right == nil {
				z = &rbNode[K]{
					key:    key,
					color:  Red,
					parent: aux,
				}
				aux.right = z
				break
			}
			aux = aux.right
		}
	}

	tree.insertBalance(z)
}

/*
New node X is red on arrival.

<X> is a RED node.
[X] is a BLACK node (or NIL).

i1: X's parent P is black. Nothing to fix.

i2: P is red and P is root. Repaint P into black.

i3: Both P and the uncle U are red, grandpa G is black. (red-violation)
Repaint one level and climb: G may now clash with its own parent, so G
is treated as the freshly inserted node and the loop repeats. When G is
the root it is simply painted black and the sweep stops.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

i4 (LL): P is red, U is black, X and P are both left children.
Single rotation, then swap G's and P's colors. RR mirrors it.

	    [G]                  [P]
	    / \    rRotate(G,P)  / \
	  <P> [U]  ==========>  <X> <G>
	  /                           \
	<X>                           [U]

i5 (LR): P is red, U is black, X is P's right child. Rotate X over P
first, then over G; X takes the black hat. RL mirrors it.

	    [G]                  [G]                 [X]
	    / \    lRotate(P,X)  / \   rRotate(G,X)  / \
	  <P> [U]  ==========> <X> [U] ==========> <P> <G>
	    \                  /                         \
	    <X>              <P>                         [U]
*/
func (tree *rbTree[K]) insertBalance(x *rbNode[K]) {
	for {
		p := x.parent
		if /* i1 */ p == nil || p.isBlack() {
			return
		}

		gp := p.parent
		if /* i2 */ gp == nil {
			p.color = Black
			return
		}

		uncle := p.sibling()
		if /* i3 */ uncle.isRed() {
			p.color = Black
			uncle.color = Black
			if gp.isRoot() {
				return
			}
			gp.color = Red
			x = gp
			continue
		}

		switch {
		case /* i4 LL */ p == gp.left && x == p.left:
			tree.rightRotate(gp, p)
			gp.color = Red
			p.color = Black
		case /* i4 RR */ p == gp.right && x == p.right:
			tree.leftRotate(gp, p)
			gp.color = Red
			p.color = Black
		case /* i5 LR */ p == gp.left:
			tree.leftRotate(p, x)
			tree.rightRotate(gp, x)
			gp.color = Red
			x.color = Black
		default: /* i5 RL */
			tree.rightRotate(p, x)
			tree.leftRotate(gp, x)
			gp.color = Red
			x.color = Black
		}
		return
	}
}

// Delete removes the key if present; an absent key is a no-op.
func (tree *rbTree[K]) Delete(key K) {
	z := tree.find(key)
	if z == nil {
		return
	}
	tree.removeNode(z)
}

/*
Removal reduces every shape to "detach a node with at most one child":

d1: Target is a leaf. Unlink it; removing a black leaf leaves that
path one black short, so the parent enters the delete fix-up. A red
leaf costs nothing.

d2: Target has exactly one child. The target must be black and the
child red (see the p4 conclusion above). The child moves up, painted
black. Black depth is preserved exactly, no fix-up.

d3: Target has two children. The in-order succ (minimum of the right
subtree) is spliced into the target's structural position and inherits
its color; the succ's own vacated slot is filled by its right child
(red if present, repainted with the succ's color) or left empty. If
the succ was a childless black node, the deficit appears at the succ's
original parent. When the succ is the target's direct right child, the
original parent IS the target, so the deficit sits at the succ's own
new position instead; the fix-up must start there.
*/
func (tree *rbTree[K]) removeNode(z *rbNode[K]) {
	zParent, zLeft, zRight, zColor := z.parent, z.left, z.right, z.color

	switch {
	case /* d1 */ zLeft == nil && zRight == nil:
		if zParent == nil {
			tree.root = nil
			break
		}
		if zParent.left == z {
			zParent.left = nil
		} else {
			zParent.right = nil
		}
		if zColor == Black {
			tree.deleteBalance(zParent)
		}

	case /* d3 */ zLeft != nil && zRight != nil:
		succ := z.succ()
		succParent := succ.parent
		succRight := succ.right
		needBalance := false

		// The succ adopts the target's left subtree.
		succ.left = zLeft
		zLeft.parent = succ

		if succRight != nil {
			// The succ holding a child must be black, the child red.
			if succ != zRight {
				succParent.left = succRight
				succRight.parent = succParent
				succ.right = zRight
				zRight.parent = succ
			}
			succRight.color = succ.color
		} else {
			if succ != zRight {
				succParent.left = nil
				succ.right = zRight
				zRight.parent = succ
			}
			if succ.color == Black {
				needBalance = true
			}
		}

		succ.parent = zParent
		switch {
		case zParent == nil:
			tree.root = succ
		case zParent.left == z:
			zParent.left = succ
		default:
			zParent.right = succ
		}
		succ.color = zColor

		if needBalance {
			if succParent == z {
				// succ == z.right with no child of its own: the
				// deficit is at the succ's new position, not at the
				// node that used to be its parent.
				tree.deleteBalance(succ)
			} else {
				tree.deleteBalance(succParent)
			}
		}

	default: /* d2 */
		child := zLeft
		if child == nil {
			child = zRight
		}
		child.color = Black
		child.parent = zParent
		switch {
		case zParent == nil:
			tree.root = child
		case zParent.left == z:
			zParent.left = child
		default:
			zParent.right = child
		}
	}

	// Fully unlink the detached node so nothing keeps the subtree alive.
	z.parent, z.left, z.right = nil, nil, nil
}

/*
Stage 1 of the delete fix-up. p is the node whose child slot just lost a
black node; the empty slot marks the deficit side, the surviving child
is the sibling S.

<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

With a red parent the sibling is black and its children, when present,
are red:

rp1: S has two children. Rotate S over P, then

	  <P>                   [S]
	  / \    lRotate(P,S)   / \
	 ·  [S]  ==========>  <P> [Sd]
	    / \                 \
	 <Sc> <Sd>              <Sc>

	(repaint S red first, P black, far nephew Sd black).

rp2: S has only the near child Sc. Double rotation through S and Sc,
P repainted black; Sc keeps red on top.

rp3: S has only the far child Sd. A single rotation settles it, no
repaint: S's black replaces the lost one, P and Sd stay red.

rp4: S is childless. Trade colors: P black, S red.

With a black parent:

bp1: S is red with two black children. Two rotations toward the
deficit, S black, P red; if P picked up a new inner child the pair may
clash red on red, which the insert fix-up clears.

bp2: S is black with a near red child (far child optional). Double
rotation promotes the near child, painted black.

bp3: S is black with only a far red child. Single rotation, far child
painted black.

bp4: S is black and childless. No local donor: paint S red so the
subtree is balanced one level down, and escalate to stage 2 at P.
*/
func (tree *rbTree[K]) deleteBalance(p *rbNode[K]) {
	if p == nil || (p.left != nil && p.right != nil) || (p.left == nil && p.right == nil) {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] delete balance without a single empty child slot")
	}

	if p.isRed() {
		if s := p.right; s != nil {
			// Deficit on the left.
			sc, sd := s.left, s.right
			switch {
			case /* rp1 */ sc != nil && sd != nil:
				tree.leftRotate(p, s)
				s.color = Red
				p.color = Black
				sd.color = Black
			case /* rp2 */ sc != nil:
				tree.rightRotate(s, sc)
				tree.leftRotate(p, sc)
				p.color = Black
			case /* rp3 */ sd != nil:
				tree.leftRotate(p, s)
			default: /* rp4 */
				p.color = Black
				s.color = Red
			}
		} else {
			// Deficit on the right, mirrored.
			s := p.left
			sd, sc := s.left, s.right
			switch {
			case /* rp1 */ sc != nil && sd != nil:
				tree.rightRotate(p, s)
				s.color = Red
				p.color = Black
				sd.color = Black
			case /* rp2 */ sc != nil:
				tree.leftRotate(s, sc)
				tree.rightRotate(p, sc)
				p.color = Black
			case /* rp3 */ sd != nil:
				tree.rightRotate(p, s)
			default: /* rp4 */
				p.color = Black
				s.color = Red
			}
		}
		return
	}

	if s := p.right; s != nil {
		// Deficit on the left.
		if /* bp1 */ s.isRed() {
			sc := s.left
			if sc == nil || s.right == nil {
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] red sibling without two black children")
			}
			tree.leftRotate(p, s)
			tree.leftRotate(p, sc)
			s.color = Black
			p.color = Red
			if p.right != nil {
				tree.insertBalance(p.right)
			}
			return
		}
		sc, sd := s.left, s.right
		switch {
		case /* bp2 */ sc != nil:
			tree.rightRotate(s, sc)
			tree.leftRotate(p, sc)
			sc.color = Black
		case /* bp3 */ sd != nil:
			tree.leftRotate(p, s)
			sd.color = Black
		default: /* bp4 */
			s.color = Red
			tree.deleteBalanceRecursion(p)
		}
	} else {
		// Deficit on the right, mirrored.
		s := p.left
		if /* bp1 */ s.isRed() {
			sc := s.right
			if sc == nil || s.left == nil {
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] red sibling without two black children")
			}
			tree.rightRotate(p, s)
			tree.rightRotate(p, sc)
			s.color = Black
			p.color = Red
			if p.left != nil {
				tree.insertBalance(p.left)
			}
			return
		}
		sd, sc := s.left, s.right
		switch {
		case /* bp2 */ sc != nil:
			tree.leftRotate(s, sc)
			tree.rightRotate(p, sc)
			sc.color = Black
		case /* bp3 */ sd != nil:
			tree.rightRotate(p, s)
			sd.color = Black
		default: /* bp4 */
			s.color = Red
			tree.deleteBalanceRecursion(p)
		}
	}
}

/*
Stage 2 of the delete fix-up: x roots a subtree that is one black
short after a stage 1 recoloring. Classification looks at the parent's
color and the two nephews, near (Sc, same side as x) and far (Sd).
The sibling here always carries two real children, because the deficit
subtree already holds at least one black level.

Red parent:

e1: near nephew black. A single rotation toward x closes the gap.

e2: near nephew red, far black. Swap parent/sibling colors; the red
near nephew now clashes with the red sibling, and the insert fix-up
resolves that pair.

e3: both nephews red. Parent black, sibling red, far nephew black,
then rotate toward x.

Black parent, black sibling:

e4: both nephews black. No red anywhere nearby: paint the sibling red
so this level is evenly short, and climb to the parent.

e5: far nephew red. Rotate toward x, far nephew black.

e6: near nephew red, far black. Promote the near nephew black through
a double rotation.

e7: sibling red. Swap parent/sibling colors and rotate toward x;
x's new sibling is black under a red parent, so the loop retries at x
and lands in e1-e3.

Every escalation (e4) and every reduction (e7) strictly progresses:
e4 climbs one level, e7 turns the parent red which e1-e3 then finish.
*/
func (tree *rbTree[K]) deleteBalanceRecursion(x *rbNode[K]) {
	for {
		p := x.parent
		if p == nil {
			// Black depth shrank for the whole tree at once.
			return
		}

		if x == p.left {
			s := p.right
			if s == nil || s.left == nil || s.right == nil {
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] sibling shape broken during delete fix-up")
			}
			sc, sd := s.left, s.right
			if p.isRed() {
				switch {
				case /* e1 */ sc.isBlack():
					tree.leftRotate(p, s)
				case /* e2 */ sd.isBlack():
					p.color = Black
					s.color = Red
					tree.insertBalance(sc)
				default: /* e3 */
					p.color = Black
					s.color = Red
					sd.color = Black
					tree.leftRotate(p, s)
				}
				return
			}
			if s.isBlack() {
				switch {
				case /* e4 */ sc.isBlack() && sd.isBlack():
					s.color = Red
					x = p
					continue
				case /* e5 */ sd.isRed():
					tree.leftRotate(p, s)
					sd.color = Black
				default: /* e6 */
					sc.color = Black
					tree.rightRotate(s, sc)
					tree.leftRotate(p, sc)
				}
				return
			}
			/* e7 */
			p.color = Red
			s.color = Black
			tree.leftRotate(p, s)
			continue
		}

		// x == p.right, mirrored
		s := p.left
		if s == nil || s.left == nil || s.right == nil {
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] sibling shape broken during delete fix-up")
		}
		sd, sc := s.left, s.right
		if p.isRed() {
			switch {
			case /* e1 */ sc.isBlack():
				tree.rightRotate(p, s)
			case /* e2 */ sd.isBlack():
				p.color = Black
				s.color = Red
				tree.insertBalance(sc)
			default: /* e3 */
				p.color = Black
				s.color = Red
				sd.color = Black
				tree.rightRotate(p, s)
			}
			return
		}
		if s.isBlack() {
			switch {
			case /* e4 */ sc.isBlack() && sd.isBlack():
				s.color = Red
				x = p
				continue
			case /* e5 */ sd.isRed():
				tree.rightRotate(p, s)
				sd.color = Black
			default: /* e6 */
				sc.color = Black
				tree.leftRotate(s, sc)
				tree.rightRotate(p, sc)
			}
			return
		}
		/* e7 */
		p.color = Red
		s.color = Black
		tree.rightRotate(p, s)
	}
}

func (tree *rbTree[K]) find(key K) *rbNode[K] {
	aux := tree.root
	for aux != nil {
		res := tree.keyCompare(key, aux.key)
		if res == 0 {
			return aux
		} else if res < 0 {
			aux = aux.left
		} else {
			aux = aux.right
		}
	}
	return nil
}

func (tree *rbTree[K]) Get(key K) (K, bool) {
	if x := tree.find(key); x != nil {
		return x.key, true
	}
	var zero K
	return zero, false
}

func (tree *rbTree[K]) Search(x RBNode[K], fn func(RBNode[K]) int64) RBNode[K] {
	if x == nil {
		return nil
	}

	for aux := x; aux != nil; {
		res := fn(aux)
		if res == 0 {
			return aux
		} else if res > 0 {
			aux = aux.Right()
		} else {
			aux = aux.Left()
		}
	}
	return nil
}

func (tree *rbTree[K]) Size() int64 {
	var size int64
	tree.InorderWalk(func(K) bool {
		size++
		return true
	})
	return size
}

func (tree *rbTree[K]) Release() {
	aux := tree.root
	tree.root = nil
	if aux == nil {
		return
	}

	stack := make([]*rbNode[K], 0, 32)
	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}

	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		r := aux.right
		aux.parent, aux.left, aux.right = nil, nil, nil
		stack = stack[:size-1]
		if r != nil {
			for aux = r; aux != nil; aux = aux.left {
				stack = append(stack, aux)
			}
		}
	}
}

type RBTreeOpt[K infra.OrderedKey] func(*rbTree[K])

func WithRBTreeDesc[K infra.OrderedKey]() RBTreeOpt[K] {
	return func(tree *rbTree[K]) {
		tree.isDesc = true
	}
}

func NewRBTree[K infra.OrderedKey](opts ...RBTreeOpt[K]) RBTree[K] {
	tree := &rbTree[K]{
		isDesc: false,
	}

	for _, o := range opts {
		o(tree)
	}
	return tree
}
