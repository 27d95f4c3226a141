package smoothmap

import "cmp"

// NewOrdered constructs an empty Map for a key type with a natural
// order, supplying cmp.Less as the bucket comparator so callers with an
// Ordered key type don't have to write that one-liner themselves. A hash
// function is still required: natural ordering says nothing about how a
// key should be distributed across buckets.
func NewOrdered[K cmp.Ordered, V any](hash Hash[K]) (*Map[K, V], error) {
	return New[K, V](hash, cmp.Less[K])
}

// NewOrderedSize is NewOrdered with an explicit initial bucket count.
func NewOrderedSize[K cmp.Ordered, V any](initialBuckets int, hash Hash[K]) (*Map[K, V], error) {
	return NewSize[K, V](initialBuckets, hash, cmp.Less[K])
}
