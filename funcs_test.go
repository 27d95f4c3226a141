package smoothmap

import "testing"

func TestEqualDetectsSameContents(t *testing.T) {
	m1 := newIntMap(t, 4)
	m2 := newIntMap(t, 8)
	for i := 0; i < 20; i++ {
		m1.Insert(i, "v")
		m2.Insert(i, "v")
	}
	if !Equal(m1, m2) {
		t.Fatalf("Equal(m1, m2) = false, want true")
	}
	m2.Erase(5)
	if Equal(m1, m2) {
		t.Fatalf("Equal(m1, m2) = true after divergence, want false")
	}
}

func TestEqualFuncUsesSuppliedComparator(t *testing.T) {
	m1 := newIntMap(t, 4)
	m2 := newIntMap(t, 4)
	m1.Insert(1, "ONE")
	m2.Insert(1, "one")

	sameLength := func(a, b string) bool {
		return len(a) == len(b)
	}
	if !EqualFunc(m1, m2, sameLength) {
		t.Fatalf("EqualFunc with length comparator = false, want true")
	}
}

func TestStringFuncRendersSortedByKey(t *testing.T) {
	m := newIntMap(t, 4)
	m.Insert(3, "c")
	m.Insert(1, "a")
	m.Insert(2, "b")

	got := StringFunc(m,
		func(k int) string { return string(rune('0' + k)) },
		func(v string) string { return v },
	)
	want := "smoothmap.Map[1:a 2:b 3:c]"
	if got != want {
		t.Fatalf("StringFunc() = %q, want %q", got, want)
	}
}

func TestStringFuncOnEmptyMap(t *testing.T) {
	m := newIntMap(t, 4)
	got := StringFunc(m, func(k int) string { return "" }, func(v string) string { return "" })
	if got != "smoothmap.Map[]" {
		t.Fatalf("StringFunc() on empty map = %q, want %q", got, "smoothmap.Map[]")
	}
}
