package bucket

// color of a red-black tree node.
type color uint8

const (
	red color = iota
	black
)

// treeNode is a classic CLRS red-black tree node with a parent pointer,
// ported from the source's tree form (tree_list_base in tree_list.h).
// Deliberately not rebalanced by height or weight: the bucket rebuilds a
// tree from scratch on promotion rather than keeping an incrementally
// balanced structure consistent across promotions/demotions, so the only
// invariant that needs maintaining across single-node inserts/deletes is
// the red-black one.
type treeNode[K any, V any] struct {
	entry  Entry[K, V]
	left   *treeNode[K, V]
	right  *treeNode[K, V]
	parent *treeNode[K, V]
	color  color
}

// update recomputes any per-node augmented data derived from a node's
// children. The tree carries no augmentation today, so this is a no-op.
// The rotations and treeInsertNode call it on the nodes whose children
// they change; the deletion path (treeDelete, transplant) does not.
func update[K any, V any](n *treeNode[K, V]) {}

func leftmost[K any, V any](n *treeNode[K, V]) *treeNode[K, V] {
	for n.left != nil {
		n = n.left
	}
	return n
}

func rightmost[K any, V any](n *treeNode[K, V]) *treeNode[K, V] {
	for n.right != nil {
		n = n.right
	}
	return n
}

// successor returns n's in-order successor, or nil if n is the last node.
func successor[K any, V any](n *treeNode[K, V]) *treeNode[K, V] {
	if n.right != nil {
		return leftmost(n.right)
	}
	p := n.parent
	for p != nil && n == p.right {
		n = p
		p = p.parent
	}
	return p
}

func treeSearch[K any, V any](root *treeNode[K, V], less Less[K], key K) *treeNode[K, V] {
	n := root
	for n != nil {
		switch {
		case less(key, n.entry.Key):
			n = n.left
		case less(n.entry.Key, key):
			n = n.right
		default:
			return n
		}
	}
	return nil
}

// treeInsertNode inserts a detached node into the tree rooted at root
// (ordered by less) and rebalances, returning the new root. Used both by
// promote (inserting already-red nodes one at a time) and by the
// incremental Insert path below.
func treeInsertNode[K any, V any](root *treeNode[K, V], less Less[K], n *treeNode[K, V]) *treeNode[K, V] {
	var parent *treeNode[K, V]
	cur := root
	goLeft := false
	for cur != nil {
		parent = cur
		if less(n.entry.Key, cur.entry.Key) {
			cur = cur.left
			goLeft = true
		} else {
			cur = cur.right
			goLeft = false
		}
	}
	n.parent = parent
	n.left, n.right = nil, nil
	n.color = red
	update(n)
	if parent == nil {
		return insertFixup(n, n)
	}
	if goLeft {
		parent.left = n
	} else {
		parent.right = n
	}
	return insertFixup(root, n)
}

// treeInsert is the bucket-facing wrapper: it inserts e into b's tree and
// returns the new node's address, updating b.root in place.
func treeInsert[K any, V any](b *Bucket[K, V], less Less[K], e Entry[K, V]) *treeNode[K, V] {
	n := &treeNode[K, V]{entry: e}
	b.root = treeInsertNode(b.root, less, n)
	return n
}

func insertFixup[K any, V any](root, z *treeNode[K, V]) *treeNode[K, V] {
	for z.parent != nil && z.parent.color == red {
		parent := z.parent
		grand := parent.parent
		if grand == nil {
			break
		}
		if parent == grand.left {
			uncle := grand.right
			if uncle != nil && uncle.color == red {
				parent.color = black
				uncle.color = black
				grand.color = red
				z = grand
				continue
			}
			if z == parent.right {
				z = parent
				root = leftRotate(root, z)
				parent = z.parent
			}
			parent.color = black
			grand.color = red
			root = rightRotate(root, grand)
		} else {
			uncle := grand.left
			if uncle != nil && uncle.color == red {
				parent.color = black
				uncle.color = black
				grand.color = red
				z = grand
				continue
			}
			if z == parent.left {
				z = parent
				root = rightRotate(root, z)
				parent = z.parent
			}
			parent.color = black
			grand.color = red
			root = leftRotate(root, grand)
		}
	}
	root.color = black
	for root.parent != nil {
		root = root.parent
	}
	return root
}

func leftRotate[K any, V any](root, x *treeNode[K, V]) *treeNode[K, V] {
	y := x.right
	x.right = y.left
	if y.left != nil {
		y.left.parent = x
	}
	y.parent = x.parent
	if x.parent == nil {
		root = y
	} else if x == x.parent.left {
		x.parent.left = y
	} else {
		x.parent.right = y
	}
	y.left = x
	x.parent = y
	update(x)
	update(y)
	return root
}

func rightRotate[K any, V any](root, x *treeNode[K, V]) *treeNode[K, V] {
	y := x.left
	x.left = y.right
	if y.right != nil {
		y.right.parent = x
	}
	y.parent = x.parent
	if x.parent == nil {
		root = y
	} else if x == x.parent.right {
		x.parent.right = y
	} else {
		x.parent.left = y
	}
	y.right = x
	x.parent = y
	update(x)
	update(y)
	return root
}

// treeDelete removes z from b's tree, rebalancing, and leaves b.root
// updated. It follows the standard three-case CLRS deletion: zero/one
// child is a direct splice, two children transplants the successor.
func treeDelete[K any, V any](b *Bucket[K, V], z *treeNode[K, V]) {
	root := b.root
	y := z
	yOriginalColor := y.color
	var x, xParent *treeNode[K, V]

	if z.left == nil {
		x = z.right
		xParent = z.parent
		root = transplant(root, z, z.right)
	} else if z.right == nil {
		x = z.left
		xParent = z.parent
		root = transplant(root, z, z.left)
	} else {
		y = leftmost(z.right)
		yOriginalColor = y.color
		x = y.right
		if y.parent == z {
			xParent = y
		} else {
			xParent = y.parent
			root = transplant(root, y, y.right)
			y.right = z.right
			y.right.parent = y
		}
		root = transplant(root, z, y)
		y.left = z.left
		y.left.parent = y
		y.color = z.color
	}

	if yOriginalColor == black {
		root = deleteFixup(root, x, xParent)
	}
	b.root = root
}

func transplant[K any, V any](root, u, v *treeNode[K, V]) *treeNode[K, V] {
	if u.parent == nil {
		root = v
	} else if u == u.parent.left {
		u.parent.left = v
	} else {
		u.parent.right = v
	}
	if v != nil {
		v.parent = u.parent
	}
	return root
}

// deleteFixup restores the red-black invariants after a black node was
// removed. x is the node that replaced the removed one (possibly nil);
// xParent is tracked separately since x itself may be nil.
func deleteFixup[K any, V any](root, x, xParent *treeNode[K, V]) *treeNode[K, V] {
	for x != root && isBlack(x) {
		if xParent == nil {
			break
		}
		if x == xParent.left {
			w := xParent.right
			if isRed(w) {
				w.color = black
				xParent.color = red
				root = leftRotate(root, xParent)
				w = xParent.right
			}
			if isBlack(w.left) && isBlack(w.right) {
				w.color = red
				x = xParent
				xParent = x.parent
				continue
			}
			if isBlack(w.right) {
				w.left.color = black
				w.color = red
				root = rightRotate(root, w)
				w = xParent.right
			}
			w.color = xParent.color
			xParent.color = black
			w.right.color = black
			root = leftRotate(root, xParent)
			x = root
			break
		}
		w := xParent.left
		if isRed(w) {
			w.color = black
			xParent.color = red
			root = rightRotate(root, xParent)
			w = xParent.left
		}
		if isBlack(w.left) && isBlack(w.right) {
			w.color = red
			x = xParent
			xParent = x.parent
			continue
		}
		if isBlack(w.left) {
			w.right.color = black
			w.color = red
			root = leftRotate(root, w)
			w = xParent.left
		}
		w.color = xParent.color
		xParent.color = black
		w.left.color = black
		root = rightRotate(root, xParent)
		x = root
		break
	}
	if x != nil {
		x.color = black
	}
	return root
}

func isBlack[K any, V any](n *treeNode[K, V]) bool {
	return n == nil || n.color == black
}

func isRed[K any, V any](n *treeNode[K, V]) bool {
	return n != nil && n.color == red
}
