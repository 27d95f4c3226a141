package smoothmap

import "github.com/cloudpeak/smooth-hashtable/internal/fixedmap"

// Iterator walks every live entry of a Map exactly once. Iteration order
// is unspecified and intentionally randomized at the table level (which
// of current/old is visited first) so that callers can't accidentally
// come to depend on a stable order. Mutating the map while an Iterator
// is live invalidates it.
type Iterator[K comparable, V any] struct {
	m       *Map[K, V]
	which   int
	visited int
	started bool
	done    bool
	cur     fixedmap.Cursor[K, V]
}

// Iter starts a new Iterator over m. Call Next before the first Key/Value
// access, mirroring the for-loop idiom used throughout this package's
// tests: for it := m.Iter(); it.Next(); { ... it.Key() ... }.
func (m *Map[K, V]) Iter() *Iterator[K, V] {
	it := &Iterator[K, V]{m: m}
	if m.rehashing {
		it.which = int(randUint64() & 1)
	}
	return it
}

// Next advances the iterator and reports whether a live entry is now
// available. Once it has returned false, every subsequent call also
// returns false.
//
// Which table Next starts from is randomized (see Iter), but it always
// visits both current and old before terminating: the wrap below counts
// tables seen rather than assuming current comes first, so a random
// start on old still reaches current afterward.
func (it *Iterator[K, V]) Next() bool {
	if it.done {
		return false
	}
	if !it.started {
		it.started = true
		it.visited = 1
		it.cur = it.m.tableAt(it.which).Begin()
	} else {
		it.cur = it.m.tableAt(it.which).Next(it.cur)
	}
	for it.cur.IsEnd() {
		if it.visited >= 2 {
			it.done = true
			return false
		}
		it.which = 1 - it.which
		it.visited++
		it.cur = it.m.tableAt(it.which).Begin()
	}
	return true
}

// Key returns the current entry's key. Calling Key before a successful
// Next, or after Next has returned false, panics.
func (it *Iterator[K, V]) Key() K {
	if it.done || !it.started || it.cur.IsEnd() {
		panicIteratorAtEnd()
	}
	return it.cur.Entry().Key
}

// Value returns the current entry's value.
func (it *Iterator[K, V]) Value() V {
	if it.done || !it.started || it.cur.IsEnd() {
		panicIteratorAtEnd()
	}
	return it.cur.Entry().Value
}
