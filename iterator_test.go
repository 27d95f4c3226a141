package smoothmap

import "testing"

func TestIterationVisitsEachEntryExactlyOnce(t *testing.T) {
	m := newIntMap(t, 4)
	want := map[int]bool{}
	for i := 0; i < 300; i++ {
		m.Insert(i, "v")
		want[i] = true
	}

	got := map[int]bool{}
	count := 0
	for it := m.Iter(); it.Next(); {
		k := it.Key()
		if got[k] {
			t.Fatalf("key %d visited twice", k)
		}
		got[k] = true
		count++
	}
	if count != m.Size() {
		t.Fatalf("iteration visited %d entries, want %d", count, m.Size())
	}
	for k := range want {
		if !got[k] {
			t.Fatalf("iteration missed key %d", k)
		}
	}
}

func TestIterationDuringMigrationCoversBothTables(t *testing.T) {
	m := newIntMap(t, 2)
	for i := 0; i < 6; i++ {
		m.Insert(i, "v")
	}
	if !m.Rehashing() {
		t.Fatalf("expected rehashing after inserting 6 keys into a size-2 table")
	}

	seen := map[int]bool{}
	for it := m.Iter(); it.Next(); {
		seen[it.Key()] = true
	}
	for i := 0; i < 6; i++ {
		if !seen[i] {
			t.Fatalf("key %d missing from iteration during migration", i)
		}
	}
}

func TestIterationStartingFromOldStillReachesCurrent(t *testing.T) {
	m := newIntMap(t, 2)
	// The 5th insert starts a migration with current empty; the 6th moves
	// one entry across and adds its own, so both tables hold entries.
	for i := 0; i < 6; i++ {
		m.Insert(i, "v")
	}
	if !m.Rehashing() {
		t.Fatalf("expected rehashing after inserting 6 keys into a size-2 table")
	}
	if m.CurrentSize() == 0 {
		t.Fatalf("expected current to hold at least one entry during migration")
	}

	// Force the iterator to start at old (which=1), the draw that used to
	// drop every entry in current.
	it := &Iterator[int, string]{m: m, which: 1}
	seen := map[int]bool{}
	for it.Next() {
		seen[it.Key()] = true
	}
	for i := 0; i < 6; i++ {
		if !seen[i] {
			t.Fatalf("key %d missing when iteration starts at old", i)
		}
	}
}

func TestKeyPanicsBeforeNext(t *testing.T) {
	m := newIntMap(t, 4)
	m.Insert(1, "one")
	it := m.Iter()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic calling Key before Next")
		}
	}()
	it.Key()
}

func TestKeyPanicsAfterExhaustion(t *testing.T) {
	m := newIntMap(t, 4)
	it := m.Iter()
	if it.Next() {
		t.Fatalf("Next() on empty map = true")
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic calling Key after exhaustion")
		}
	}()
	it.Key()
}
