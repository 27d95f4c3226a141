package fixedmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identityHash(k int) uint64  { return uint64(k) }
func allToBucketZero(int) uint64 { return 0 }
func intLess(a, b int) bool      { return a < b }

func newMap(t *testing.T, n int, hash Hash[int]) *Map[int, string] {
	m, err := New[int, string](n, hash, intLess)
	require.NoError(t, err)
	return m
}

func TestBasicInsertFindErase(t *testing.T) {
	m := newMap(t, 8, identityHash)

	_, inserted := m.Insert(1, "one")
	assert.True(t, inserted)
	_, inserted = m.Insert(2, "two")
	assert.True(t, inserted)
	_, inserted = m.Insert(3, "three")
	assert.True(t, inserted)

	assert.Equal(t, 3, m.Size())
	assert.True(t, m.Contains(2))

	assert.Equal(t, 1, m.Erase(2))
	assert.False(t, m.Contains(2))
	assert.Equal(t, 2, m.Size())
	assert.Equal(t, 0, m.Erase(4))
}

func TestInsertDuplicateReturnsExisting(t *testing.T) {
	m := newMap(t, 4, identityHash)
	m.Insert(1, "one")
	c, inserted := m.Insert(1, "uno")
	assert.False(t, inserted)
	assert.Equal(t, "one", c.Entry().Value)
	assert.Equal(t, 1, m.Size())
}

func TestAtInsertsDefaultOnMiss(t *testing.T) {
	m := newMap(t, 4, identityHash)
	v := m.At(5)
	assert.Equal(t, "", *v)
	assert.True(t, m.Contains(5))
	*v = "five"
	assert.Equal(t, "five", *m.At(5))
}

func TestIterationVisitsEveryEntryOnce(t *testing.T) {
	m := newMap(t, 4, identityHash)
	want := map[int]bool{}
	for i := 0; i < 40; i++ {
		m.Insert(i, "v")
		want[i] = true
	}

	got := map[int]bool{}
	for c := m.Begin(); !c.IsEnd(); c = m.Next(c) {
		got[c.Entry().Key] = true
	}
	assert.Equal(t, want, got)
	assert.Len(t, got, m.Size())
}

func TestClearEmptiesEveryBucket(t *testing.T) {
	m := newMap(t, 4, identityHash)
	for i := 0; i < 20; i++ {
		m.Insert(i, "v")
	}
	m.Clear()
	assert.Equal(t, 0, m.Size())
	assert.True(t, m.Begin().IsEnd())
}

func TestBucketPromotionUnderAdversarialHash(t *testing.T) {
	m := newMap(t, 4, allToBucketZero)
	for i := 0; i < 12; i++ {
		m.Insert(i, "v")
	}
	assert.Equal(t, 12, m.Size())
	for i := 0; i < 12; i++ {
		assert.True(t, m.Contains(i))
	}
}

func TestStealElementsBound(t *testing.T) {
	m := newMap(t, 5, identityHash)
	// identityHash % 5 routes 1, 3, 4 into their own buckets.
	m.Insert(1, "a")
	m.Insert(3, "b")
	m.Insert(4, "c")
	require.Equal(t, 3, m.Size())

	stolen := m.StealElements(3)
	assert.Len(t, stolen, 3)
	assert.Equal(t, 0, m.Size())

	more := m.StealElements(100)
	assert.Len(t, more, 0)
}

func TestStealElementsReturnsFewerThanRequestedWhenDrained(t *testing.T) {
	m := newMap(t, 5, identityHash)
	m.Insert(1, "a")
	m.Insert(3, "b")

	first := m.StealElements(3)
	assert.LessOrEqual(t, len(first), 3)

	total := len(first)
	for total < 2 {
		batch := m.StealElements(100)
		if len(batch) == 0 {
			break
		}
		total += len(batch)
	}
	assert.Equal(t, 2, total)
	assert.Equal(t, 0, m.Size())
}

func TestSwapExchangesContents(t *testing.T) {
	a := newMap(t, 4, identityHash)
	b := newMap(t, 8, identityHash)
	a.Insert(1, "a1")
	b.Insert(2, "b2")

	a.Swap(b)
	assert.Equal(t, 8, a.BucketCount())
	assert.True(t, a.Contains(2))
	assert.Equal(t, 4, b.BucketCount())
	assert.True(t, b.Contains(1))
}
