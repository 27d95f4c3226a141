//go:build !go1.22

package smoothmap

import "golang.org/x/exp/rand"

// randUint64 supplies the randomized starting point for iteration.
// Iteration order is explicitly unspecified by this container, and
// randomizing the start discourages callers from accidentally depending
// on insertion order the way a deterministic walk would invite.
func randUint64() uint64 {
	return rand.Uint64()
}
