// Package smoothmap provides Map, an in-memory hash table that avoids the
// latency spike of a conventional table resize by migrating entries a
// few at a time across many subsequent operations, and whose buckets
// promote from a linked list to a red-black tree once enough keys
// collide. Both mechanisms are driven entirely from the public API below
// — callers never see the migration or promotion state unless they reach
// for the debug accessors near the bottom of this file.
//
// Map is single-owner: no method is safe to call concurrently with
// another call on the same instance. Callers needing concurrent access
// must synchronize externally.
package smoothmap

import (
	"github.com/cloudpeak/smooth-hashtable/internal/bucket"
	"github.com/cloudpeak/smooth-hashtable/internal/fixedmap"
)

// defaultInitialBuckets is used by New when the caller doesn't specify a
// starting bucket count.
const defaultInitialBuckets = 10

// shrinkFloor is the bucket count at or below which the table never
// shrinks itself, even if very sparse.
const shrinkFloor = 16

// Hash computes a bucket-selection value for a key. Supplying a poor hash
// keeps the table correct but degrades every bucket toward its tree-form
// worst case; Map makes no attempt to detect or compensate for that.
type Hash[K any] func(key K) uint64

// Less defines a strict weak ordering over keys. A tree-form bucket
// navigates by it, and a list-form bucket derives key equality from it
// as !less(a,b) && !less(b,a).
type Less[K any] func(a, b K) bool

// Entry is a single key/value pair, used by the bulk constructors and
// returned by value from iteration accessors.
type Entry[K any, V any] struct {
	Key   K
	Value V
}

// Map is the progressive hash table: a pair of fixed-size tables,
// current and old, coordinated so that callers observe one logical
// mapping while entries drain from old into current a step at a time.
type Map[K comparable, V any] struct {
	current   *fixedmap.Map[K, V]
	old       *fixedmap.Map[K, V]
	rehashing bool
	hash      Hash[K]
	less      Less[K]
}

// New constructs an empty Map with the default initial bucket count.
func New[K comparable, V any](hash Hash[K], less Less[K]) (*Map[K, V], error) {
	return NewSize[K, V](defaultInitialBuckets, hash, less)
}

// NewSize constructs an empty Map with the given initial bucket count.
func NewSize[K comparable, V any](initialBuckets int, hash Hash[K], less Less[K]) (*Map[K, V], error) {
	if initialBuckets < 1 {
		initialBuckets = 1
	}
	current, err := fixedmap.New[K, V](initialBuckets, fixedmap.Hash[K](hash), bucket.Less[K](less))
	if err != nil {
		return nil, err
	}
	old, err := fixedmap.New[K, V](1, fixedmap.Hash[K](hash), bucket.Less[K](less))
	if err != nil {
		return nil, err
	}
	return &Map[K, V]{current: current, old: old, hash: hash, less: less}, nil
}

// NewFrom constructs a Map pre-populated from entries, last-write-wins
// on duplicate keys — a convenience the source offered via an
// initializer-list constructor that the distilled API otherwise dropped.
func NewFrom[K comparable, V any](hash Hash[K], less Less[K], entries ...Entry[K, V]) (*Map[K, V], error) {
	m, err := NewSize[K, V](max(defaultInitialBuckets, len(entries)), hash, less)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if _, ok := m.Insert(e.Key, e.Value); !ok {
			m.Erase(e.Key)
			m.Insert(e.Key, e.Value)
		}
	}
	return m, nil
}

func (m *Map[K, V]) tableAt(which int) *fixedmap.Map[K, V] {
	if which == 0 {
		return m.current
	}
	return m.old
}

// Size returns the number of logical entries: current.size + old.size.
func (m *Map[K, V]) Size() int {
	return m.current.Size() + m.old.Size()
}

// Empty reports whether the map holds no entries.
func (m *Map[K, V]) Empty() bool {
	return m.Size() == 0
}

// Contains reports whether key is present.
func (m *Map[K, V]) Contains(key K) bool {
	return m.findTable(key) >= 0
}

// findTable returns 0 if key is in current, 1 if in old, -1 if absent.
// It probes whichever of the two tables currently holds more entries
// first, biasing toward the table more likely to contain the hit.
func (m *Map[K, V]) findTable(key K) int {
	first, second := 0, 1
	if m.old.Size() > m.current.Size() {
		first, second = 1, 0
	}
	if m.tableAt(first).Contains(key) {
		return first
	}
	if m.tableAt(second).Contains(key) {
		return second
	}
	return -1
}

// Lookup returns the value for key, or a *KeyNotFoundError if absent.
// Unlike At, Lookup never mutates the map on a miss — this is the
// fail-always half of the split the source's dual-purpose `at` invites.
func (m *Map[K, V]) Lookup(key K) (V, error) {
	which := m.findTable(key)
	if which < 0 {
		var zero V
		return zero, &KeyNotFoundError[K]{Key: key}
	}
	c := m.tableAt(which).Find(key)
	return c.Entry().Value, nil
}

// At returns a pointer to key's value, inserting a zero value into
// current first if key is absent anywhere in the map. This is the
// insert-and-return half of the split, kept under the name `At` because
// it is the behavior callers reach for most often.
func (m *Map[K, V]) At(key K) *V {
	m.moveProgressively()
	defer m.maybeRehash()

	if m.rehashing {
		if c := m.old.Find(key); !c.IsEnd() {
			return &c.Entry().Value
		}
	}
	return m.current.At(key)
}

// Insert inserts (key, value) if key is absent anywhere in the map. It
// reports whether the insertion happened; on a hit, the map is left
// unmodified.
func (m *Map[K, V]) Insert(key K, value V) (Entry[K, V], bool) {
	m.moveProgressively()
	defer m.maybeRehash()

	if m.rehashing {
		if c := m.old.Find(key); !c.IsEnd() {
			e := *c.Entry()
			return Entry[K, V]{Key: e.Key, Value: e.Value}, false
		}
	}
	c, inserted := m.current.Insert(key, value)
	e := *c.Entry()
	return Entry[K, V]{Key: e.Key, Value: e.Value}, inserted
}

// Emplace is Insert: the source distinguishes emplace from insert only
// to avoid constructing a value the caller already has in hand, which Go
// value semantics make moot here.
func (m *Map[K, V]) Emplace(key K, value V) (Entry[K, V], bool) {
	return m.Insert(key, value)
}

// Erase removes key from wherever it lives (current, old, or both during
// a migration window — never legitimately both, but erase checks both
// sides defensively) and reports how many entries were removed.
func (m *Map[K, V]) Erase(key K) int {
	m.moveProgressively()
	defer m.maybeRehash()

	if !m.rehashing {
		return m.current.Erase(key)
	}
	fromCurrent := m.current.Erase(key)
	fromOld := m.old.Erase(key)
	if fromCurrent > fromOld {
		return fromCurrent
	}
	return fromOld
}

// Clear removes every entry from both inner tables and cancels any
// migration in progress.
func (m *Map[K, V]) Clear() {
	m.current.Clear()
	_ = m.old.Release()
	if fresh, err := fixedmap.New[K, V](1, fixedmap.Hash[K](m.hash), bucket.Less[K](m.less)); err == nil {
		m.old = fresh
	}
	m.rehashing = false
}

// Swap exchanges the full contents of two maps in O(1).
func (m *Map[K, V]) Swap(other *Map[K, V]) {
	m.current, other.current = other.current, m.current
	m.old, other.old = other.old, m.old
	m.rehashing, other.rehashing = other.rehashing, m.rehashing
	m.hash, other.hash = other.hash, m.hash
	m.less, other.less = other.less, m.less
}

// moveProgressively runs the migration step: while rehashing, steal one
// entry from old and land it in current. It runs at the top of every
// mutating operation (and only there — Find/Contains/Lookup deliberately
// skip it, since they never mutate).
func (m *Map[K, V]) moveProgressively() {
	if !m.rehashing {
		return
	}
	stolen := m.old.StealElements(1)
	if len(stolen) == 0 {
		if m.old.Empty() {
			m.finishRehash()
		}
		return
	}
	for _, e := range stolen {
		// Stolen keys were already removed from old, so current cannot
		// possibly already hold them: no duplicate check needed.
		m.current.Insert(e.Key, e.Value)
	}
}

func (m *Map[K, V]) finishRehash() {
	m.rehashing = false
	_ = m.old.Release()
	if fresh, err := fixedmap.New[K, V](1, fixedmap.Hash[K](m.hash), bucket.Less[K](m.less)); err == nil {
		m.old = fresh
	}
}

// maybeRehash evaluates the grow/shrink triggers and starts a new
// migration if warranted. It is a no-op while already rehashing —
// rehashing a rehash is forbidden by construction.
func (m *Map[K, V]) maybeRehash() {
	if m.rehashing {
		return
	}
	n := m.current.Size()
	b := m.current.BucketCount()

	switch {
	case 4*n >= 3*b:
		m.rehash(2 * b)
	case b > 4*n && b > shrinkFloor:
		newB := 3 * n
		if newB < 1 {
			newB = 1
		}
		m.rehash(newB)
	}
}

// rehash swaps a freshly constructed, empty fixed map of size newB into
// current, demoting the previous current (holding every pre-rehash
// entry) to old, and flips rehashing on. It requires old to already be
// empty, which holds by construction: rehash only runs from maybeRehash,
// which only runs while !rehashing.
func (m *Map[K, V]) rehash(newB int) {
	fresh, err := fixedmap.New[K, V](newB, fixedmap.Hash[K](m.hash), bucket.Less[K](m.less))
	if err != nil {
		// Allocation failure: leave current as-is and simply skip this
		// rehash attempt. A later mutation will try again.
		return
	}
	fresh.Swap(m.current)
	_ = m.old.Release()
	m.old = fresh
	m.rehashing = true
}

// Rehashing reports whether a migration is currently in progress. This
// and the three accessors below exist purely as test/debug hooks — the
// source's own test suite needed the equivalent to observe migration
// progress, and the testable-properties in this package's tests do too.
func (m *Map[K, V]) Rehashing() bool { return m.rehashing }

// BucketCount returns current's bucket count.
func (m *Map[K, V]) BucketCount() int { return m.current.BucketCount() }

// CurrentSize returns the number of entries held in the current table.
func (m *Map[K, V]) CurrentSize() int { return m.current.Size() }

// OldSize returns the number of entries still awaiting migration.
func (m *Map[K, V]) OldSize() int { return m.old.Size() }
