//go:build go1.22

package smoothmap

import "math/rand/v2"

// randUint64 uses the standard library's generator once the toolchain
// carries one (math/rand/v2), rather than the golang.org/x/exp/rand
// fallback used on older Go versions.
func randUint64() uint64 {
	return rand.Uint64()
}
