// Package bucket implements the hybrid collision bucket: an ordered
// multiset of entries that behaves as a singly-linked list while small
// and promotes itself to a red-black tree once it grows past a threshold,
// demoting back to a list if it later shrinks. The promotion/demotion
// boundary has hysteresis (promote at 10, demote at 3) so that a bucket
// hovering around either threshold doesn't flip representations on every
// insert/erase pair.
//
// A zero-value Bucket is a valid, empty, list-form bucket — this is what
// the backing array's zero-initialized slots are required to be.
package bucket

// PromoteAt is the size at which a list-form bucket rebuilds itself as a
// red-black tree: the insert that brings it to this size promotes it.
const PromoteAt = 10

// DemoteAt is the size at or below which a tree-form bucket rebuilds
// itself as a list; the check runs after every insert and every erase.
const DemoteAt = 3

// Entry is a single (key, value) slot living inside a bucket.
type Entry[K any, V any] struct {
	Key   K
	Value V
}

// Less is the strict weak ordering the bucket uses to navigate and
// rebuild its tree form. The bucket derives key equality from Less as
// !less(a,b) && !less(b,a), exactly as spec'd, so callers only ever
// supply one capability.
type Less[K any] func(a, b K) bool

type form uint8

const (
	formList form = iota // zero value: matches the required zero-init invariant
	formTree
)

type listNode[K any, V any] struct {
	entry Entry[K, V]
	next  *listNode[K, V]
}

// Bucket is the hybrid collision container described above. The two
// representations are modeled as two optional pointer fields rather than
// a true tagged union (Go has no safe way to alias differently-typed
// pointers in one word); form says which one is live.
type Bucket[K any, V any] struct {
	form form
	size int
	head *listNode[K, V]
	root *treeNode[K, V]
}

// Size returns the number of entries currently in the bucket.
func (b *Bucket[K, V]) Size() int { return b.size }

// Empty reports whether the bucket holds no entries.
func (b *Bucket[K, V]) Empty() bool { return b.size == 0 }

// Clear removes every entry and resets the bucket to list form.
func (b *Bucket[K, V]) Clear() {
	b.head = nil
	b.root = nil
	b.size = 0
	b.form = formList
}

// Cursor is a forward-only iterator over a bucket's entries. It is a
// tagged cursor: a nil cursor (the zero value) is End, and compares equal
// to every other End cursor regardless of which form produced it — this
// is the "sum type: End | Valid{...}" shape the redesign notes call for,
// expressed without an actual sum type since Go doesn't have one.
type Cursor[K any, V any] struct {
	form     form
	listNode *listNode[K, V]
	treeNode *treeNode[K, V]
}

// IsEnd reports whether the cursor has run off the end of the bucket.
func (c Cursor[K, V]) IsEnd() bool {
	if c.form == formTree {
		return c.treeNode == nil
	}
	return c.listNode == nil
}

// Equal compares two cursors. Two End cursors are always equal, even if
// they came from buckets in different representations.
func (c Cursor[K, V]) Equal(other Cursor[K, V]) bool {
	ce, oe := c.IsEnd(), other.IsEnd()
	if ce || oe {
		return ce == oe
	}
	if c.form != other.form {
		return false
	}
	if c.form == formTree {
		return c.treeNode == other.treeNode
	}
	return c.listNode == other.listNode
}

// Entry dereferences the cursor. Calling Entry on an End cursor panics,
// matching the source's IteratorAtEnd failure mode.
func (c Cursor[K, V]) Entry() *Entry[K, V] {
	switch c.form {
	case formTree:
		if c.treeNode == nil {
			panic("bucket: dereference of end cursor")
		}
		return &c.treeNode.entry
	default:
		if c.listNode == nil {
			panic("bucket: dereference of end cursor")
		}
		return &c.listNode.entry
	}
}

// Next advances the cursor. On list form this follows the next pointer
// (the list has no prev pointer, so the cursor is forward-only, matching
// the source's tree_list_base limitation). On tree form this walks to the
// in-order successor.
func (c Cursor[K, V]) Next() Cursor[K, V] {
	switch c.form {
	case formTree:
		if c.treeNode == nil {
			panic("bucket: increment of end cursor")
		}
		return Cursor[K, V]{form: formTree, treeNode: successor(c.treeNode)}
	default:
		if c.listNode == nil {
			panic("bucket: increment of end cursor")
		}
		return Cursor[K, V]{form: formList, listNode: c.listNode.next}
	}
}

// Begin returns a cursor to the bucket's first entry in its current
// iteration order: most-recent-first for list form, ascending key for
// tree form.
func (b *Bucket[K, V]) Begin() Cursor[K, V] {
	if b.form == formTree {
		if b.root == nil {
			return Cursor[K, V]{}
		}
		return Cursor[K, V]{form: formTree, treeNode: leftmost(b.root)}
	}
	return Cursor[K, V]{form: formList, listNode: b.head}
}

// End returns the sentinel end cursor.
func (b *Bucket[K, V]) End() Cursor[K, V] {
	return Cursor[K, V]{}
}

// Find looks up key, using less to navigate the tree form or derive
// equality for the list form's linear scan.
func (b *Bucket[K, V]) Find(less Less[K], key K) (Cursor[K, V], bool) {
	if b.form == formTree {
		n := treeSearch(b.root, less, key)
		if n == nil {
			return Cursor[K, V]{}, false
		}
		return Cursor[K, V]{form: formTree, treeNode: n}, true
	}
	for n := b.head; n != nil; n = n.next {
		if equal(less, n.entry.Key, key) {
			return Cursor[K, V]{form: formList, listNode: n}, true
		}
	}
	return Cursor[K, V]{}, false
}

// Insert always inserts — the bucket never deduplicates; the fixed map is
// responsible for checking existence first. It returns a cursor to the
// freshly-inserted entry, valid even if this insert triggered a
// promotion (the returned cursor is recomputed against the new
// representation in that case).
func (b *Bucket[K, V]) Insert(less Less[K], e Entry[K, V]) Cursor[K, V] {
	var cur Cursor[K, V]
	if b.form == formTree {
		n := treeInsert(b, less, e)
		cur = Cursor[K, V]{form: formTree, treeNode: n}
	} else {
		n := &listNode[K, V]{entry: e, next: b.head}
		b.head = n
		cur = Cursor[K, V]{form: formList, listNode: n}
	}
	b.size++

	if b.form == formList && b.size >= PromoteAt {
		b.promote(less)
		cur, _ = b.Find(less, e.Key)
	} else if b.form == formTree && b.size <= DemoteAt {
		b.demote()
		cur, _ = b.Find(less, e.Key)
	}
	return cur
}

// EraseCursor removes the entry at c and returns a cursor to its
// successor. c must not be an End cursor. Because this is a structural
// removal by position, not by key, it never needs the comparator.
func (b *Bucket[K, V]) EraseCursor(c Cursor[K, V]) Cursor[K, V] {
	if c.IsEnd() {
		panic("bucket: erase of end cursor")
	}

	var next Cursor[K, V]
	if c.form == formTree {
		next = Cursor[K, V]{form: formTree, treeNode: successor(c.treeNode)}
		treeDelete(b, c.treeNode)
	} else {
		next = Cursor[K, V]{form: formList, listNode: c.listNode.next}
		b.listRemove(c.listNode)
	}
	b.size--

	if b.form == formTree && b.size <= DemoteAt {
		// Demotion after erase never needs a comparator: it is a pure
		// structural in-order flatten of the tree into a list.
		b.demote()
	}
	return next
}

// EraseKey removes the entry matching key, if any, and reports how many
// entries were removed (0 or 1, since the fixed map deduplicates on
// insert).
func (b *Bucket[K, V]) EraseKey(less Less[K], key K) int {
	c, found := b.Find(less, key)
	if !found {
		return 0
	}
	b.EraseCursor(c)
	return 1
}

func (b *Bucket[K, V]) listRemove(target *listNode[K, V]) {
	if b.head == target {
		b.head = target.next
		return
	}
	for n := b.head; n != nil; n = n.next {
		if n.next == target {
			n.next = target.next
			return
		}
	}
}

// promote rebuilds the bucket as a red-black tree from its current list,
// moving each entry's data into a fresh tree node.
func (b *Bucket[K, V]) promote(less Less[K]) {
	var root *treeNode[K, V]
	for n := b.head; n != nil; n = n.next {
		root = treeInsertNode(root, less, &treeNode[K, V]{entry: n.entry, color: red})
	}
	if root != nil {
		root.color = black
	}
	b.form = formTree
	b.root = root
	b.head = nil
}

// demote rebuilds the bucket as a list by in-order tree traversal,
// prepending each visited entry, matching the source's traversal_un_treefy.
func (b *Bucket[K, V]) demote() {
	var head *listNode[K, V]
	var walk func(n *treeNode[K, V])
	walk = func(n *treeNode[K, V]) {
		if n == nil {
			return
		}
		walk(n.left)
		head = &listNode[K, V]{entry: n.entry, next: head}
		walk(n.right)
	}
	walk(b.root)
	b.form = formList
	b.head = head
	b.root = nil
}

func equal[K any](less Less[K], a, b K) bool {
	return !less(a, b) && !less(b, a)
}
