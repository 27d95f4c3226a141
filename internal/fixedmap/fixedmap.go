// Package fixedmap implements the closed-addressing hash table with a
// fixed bucket count that backs the progressive map: insert/find/erase
// over a backing array of hybrid buckets, plus the bounded steal_elements
// primitive that feeds incremental migration.
package fixedmap

import (
	"github.com/cloudpeak/smooth-hashtable/internal/backing"
	"github.com/cloudpeak/smooth-hashtable/internal/bucket"
)

// stealScanLimit bounds how many buckets a single StealElements call will
// walk past before giving up, so a long run of already-empty buckets near
// the cursor can't turn one migration step into an unbounded scan.
const stealScanLimit = 300

// Hash computes a bucket index for a key. Quality is entirely the
// caller's concern; a fixed map must stay correct, if slow, under a
// pathological hash.
type Hash[K any] func(key K) uint64

// Map is a hash table over B buckets, B fixed for the table's lifetime.
// It never grows or shrinks itself — the progressive map handles that by
// allocating a differently-sized Map and migrating into it.
type Map[K comparable, V any] struct {
	buckets     *backing.Array[bucket.Bucket[K, V]]
	hash        Hash[K]
	less        bucket.Less[K]
	size        int
	stealCursor int
}

// New constructs a fixed map with exactly n buckets. n must be at least
// 1; the progressive map's capacity-1 placeholder for a drained old table
// is the smallest legal instance.
func New[K comparable, V any](n int, hash Hash[K], less bucket.Less[K]) (*Map[K, V], error) {
	if n < 1 {
		n = 1
	}
	arr, err := backing.New[bucket.Bucket[K, V]](n)
	if err != nil {
		return nil, err
	}
	return &Map[K, V]{
		buckets:     arr,
		hash:        hash,
		less:        less,
		stealCursor: n - 1,
	}, nil
}

// Size reports the number of entries across all buckets.
func (m *Map[K, V]) Size() int { return m.size }

// Empty reports whether the table holds no entries.
func (m *Map[K, V]) Empty() bool { return m.size == 0 }

// BucketCount reports the fixed number of buckets B.
func (m *Map[K, V]) BucketCount() int { return m.buckets.Len() }

func (m *Map[K, V]) bucketIndex(k K) int {
	b := m.buckets.Len()
	if b == 0 {
		return 0
	}
	return int(m.hash(k) % uint64(b))
}

func (m *Map[K, V]) bucketAt(i int) *bucket.Bucket[K, V] {
	return m.buckets.At(i)
}

// Cursor addresses a single entry: which bucket it lives in and a cursor
// within that bucket. The zero Cursor is not meaningful on its own; use
// End to obtain a proper end sentinel for a specific map.
type Cursor[K comparable, V any] struct {
	atEnd bool
	index int
	inner bucket.Cursor[K, V]
}

// IsEnd reports whether the cursor has run past the last entry.
func (c Cursor[K, V]) IsEnd() bool { return c.atEnd }

// Equal compares two cursors the way the fixed map's iterator contract
// requires: two end cursors are always equal regardless of their stale
// index/inner fields.
func (c Cursor[K, V]) Equal(other Cursor[K, V]) bool {
	if c.atEnd || other.atEnd {
		return c.atEnd == other.atEnd
	}
	return c.index == other.index && c.inner.Equal(other.inner)
}

// Entry dereferences the cursor, panicking if it is End.
func (c Cursor[K, V]) Entry() *bucket.Entry[K, V] {
	if c.atEnd {
		panic("fixedmap: dereference of end cursor")
	}
	return c.inner.Entry()
}

// Next advances the cursor to the following live entry, walking forward
// across bucket boundaries and skipping empty buckets.
func (m *Map[K, V]) Next(c Cursor[K, V]) Cursor[K, V] {
	if c.atEnd {
		panic("fixedmap: increment of end cursor")
	}
	next := c.inner.Next()
	if !next.IsEnd() {
		return Cursor[K, V]{index: c.index, inner: next}
	}
	return m.firstFrom(c.index + 1)
}

// Begin returns a cursor to the first live entry, or End if the table is
// empty.
func (m *Map[K, V]) Begin() Cursor[K, V] {
	return m.firstFrom(0)
}

// End returns the sentinel end cursor.
func (m *Map[K, V]) End() Cursor[K, V] {
	return Cursor[K, V]{atEnd: true}
}

func (m *Map[K, V]) firstFrom(index int) Cursor[K, V] {
	for i := index; i < m.buckets.Len(); i++ {
		b := m.bucketAt(i)
		if b.Empty() {
			continue
		}
		begin := b.Begin()
		if !begin.IsEnd() {
			return Cursor[K, V]{index: i, inner: begin}
		}
	}
	return m.End()
}

// Find looks up key and returns a cursor to it, or End if absent.
func (m *Map[K, V]) Find(key K) Cursor[K, V] {
	i := m.bucketIndex(key)
	c, ok := m.bucketAt(i).Find(m.less, key)
	if !ok {
		return m.End()
	}
	return Cursor[K, V]{index: i, inner: c}
}

// Contains reports whether key is present.
func (m *Map[K, V]) Contains(key K) bool {
	return !m.Find(key).IsEnd()
}

// Insert inserts (key, value) if key is absent. It reports the resulting
// cursor and whether an insertion actually happened; on a hit the
// existing entry's cursor is returned unmodified, matching the source's
// duplicate policy.
func (m *Map[K, V]) Insert(key K, value V) (Cursor[K, V], bool) {
	i := m.bucketIndex(key)
	b := m.bucketAt(i)
	if c, ok := b.Find(m.less, key); ok {
		return Cursor[K, V]{index: i, inner: c}, false
	}
	c := b.Insert(m.less, bucket.Entry[K, V]{Key: key, Value: value})
	m.size++
	return Cursor[K, V]{index: i, inner: c}, true
}

// Emplace is Insert under the source's naming; it behaves exactly like
// Insert.
func (m *Map[K, V]) Emplace(key K, value V) (Cursor[K, V], bool) {
	return m.Insert(key, value)
}

// Erase removes key if present, reporting how many entries were removed
// (0 or 1).
func (m *Map[K, V]) Erase(key K) int {
	i := m.bucketIndex(key)
	n := m.bucketAt(i).EraseKey(m.less, key)
	m.size -= n
	return n
}

// EraseCursor removes the entry at c and returns a cursor to the next
// live entry.
func (m *Map[K, V]) EraseCursor(c Cursor[K, V]) Cursor[K, V] {
	if c.atEnd {
		panic("fixedmap: erase of end cursor")
	}
	b := m.bucketAt(c.index)
	next := b.EraseCursor(c.inner)
	m.size--
	if !next.IsEnd() {
		return Cursor[K, V]{index: c.index, inner: next}
	}
	return m.firstFrom(c.index + 1)
}

// At returns a pointer to key's value, inserting a zero value first if
// key is absent — this mirrors operator[] and is the mutable half of the
// source's dual-purpose `at`.
func (m *Map[K, V]) At(key K) *V {
	i := m.bucketIndex(key)
	b := m.bucketAt(i)
	if c, ok := b.Find(m.less, key); ok {
		return &c.Entry().Value
	}
	var zero V
	c := b.Insert(m.less, bucket.Entry[K, V]{Key: key, Value: zero})
	m.size++
	return &c.Entry().Value
}

// Clear removes every entry from every bucket.
func (m *Map[K, V]) Clear() {
	for i := 0; i < m.buckets.Len(); i++ {
		m.bucketAt(i).Clear()
	}
	m.size = 0
	m.stealCursor = m.buckets.Len() - 1
}

// Release drops the table's backing storage so the GC can reclaim it
// without waiting for the map itself to go out of scope. A released map
// must not be used again.
func (m *Map[K, V]) Release() error {
	return m.buckets.Release()
}

// Swap exchanges the full contents (backing array, size, cursor) of two
// fixed maps in O(1) — used by the progressive map's rehash to hand the
// newly constructed table in as `current` and the old one out as `old`.
func (m *Map[K, V]) Swap(other *Map[K, V]) {
	m.buckets.Swap(other.buckets)
	m.size, other.size = other.size, m.size
	m.stealCursor, other.stealCursor = other.stealCursor, m.stealCursor
}

// StealElements drains up to n entries from the map, scanning backward
// from the persistent steal cursor, and returns them. This is the
// migration primitive: each bucket is visited at most twice across a
// full drain (once to take entries, once to confirm emptiness), and a
// single call never walks more than stealScanLimit buckets past its
// starting cursor position, bounding the latency any one caller pays.
func (m *Map[K, V]) StealElements(n int) []bucket.Entry[K, V] {
	var out []bucket.Entry[K, V]
	start := m.stealCursor

	for n > 0 && m.stealCursor >= 0 {
		if start-m.stealCursor > stealScanLimit {
			break
		}
		b := m.bucketAt(m.stealCursor)
		for n > 0 && !b.Empty() {
			c := b.Begin()
			e := *c.Entry()
			b.EraseCursor(c)
			m.size--
			out = append(out, e)
			n--
		}
		if m.stealCursor == 0 {
			break
		}
		if b.Empty() {
			m.stealCursor--
		}
	}
	return out
}
