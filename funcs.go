// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package smoothmap

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// String converts m to a string representation using K's and V's String
// methods. The rendering sorts by key string so that two maps holding
// the same entries print identically regardless of which internal table
// or bucket form currently holds them.
func String[K interface {
	comparable
	fmt.Stringer
}, V fmt.Stringer](m *Map[K, V]) string {
	return StringFunc(m,
		func(key K) string { return key.String() },
		func(value V) string { return value.String() },
	)
}

type strKV struct {
	k string
	v string
}

// StringFunc converts m to a string representation, using strK and strV
// to render keys and values.
func StringFunc[K comparable, V any](m *Map[K, V], strK func(K) string, strV func(V) string) string {
	if m == nil || m.Size() == 0 {
		return "smoothmap.Map[]"
	}
	strs := make([]strKV, m.Size())
	total := 0
	i := 0
	for it := m.Iter(); it.Next(); {
		kv := &strs[i]
		kv.k = strK(it.Key())
		kv.v = strV(it.Value())
		total += len(kv.k) + len(kv.v)
		i++
	}
	slices.SortFunc(strs, func(a, b strKV) bool { return a.k < b.k })

	var b strings.Builder
	b.Grow(len("smoothmap.Map[]") + len(strs)*2 - 1 + total)
	b.WriteString("smoothmap.Map[")
	for i, kv := range strs {
		if i != 0 {
			b.WriteByte(' ')
		}
		b.WriteString(kv.k)
		b.WriteByte(':')
		b.WriteString(kv.v)
	}
	b.WriteByte(']')
	return b.String()
}

// Equal reports whether m1 and m2 hold the same set of keys, each
// mapping to == values.
func Equal[K comparable, V comparable](m1, m2 *Map[K, V]) bool {
	return EqualFunc(m1, m2, func(a, b V) bool { return a == b })
}

// EqualFunc reports whether m1 and m2 hold the same set of keys, each
// mapping to values considered equal by eq.
func EqualFunc[K comparable, V any](m1, m2 *Map[K, V], eq func(V, V) bool) bool {
	if m1.Size() != m2.Size() {
		return false
	}
	for it := m1.Iter(); it.Next(); {
		v2, err := m2.Lookup(it.Key())
		if err != nil || !eq(it.Value(), v2) {
			return false
		}
	}
	return true
}
