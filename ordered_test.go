package smoothmap

import (
	"encoding/binary"
	"hash/maphash"
	"testing"
)

func TestNewOrderedUsesNaturalOrder(t *testing.T) {
	hash := func(a int) uint64 {
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(a))
		return maphash.Bytes(testSeed, buf[:])
	}
	m, err := NewOrdered[int, string](hash)
	if err != nil {
		t.Fatalf("NewOrdered: %v", err)
	}
	for i := 0; i < 15; i++ {
		m.Insert(i, "v")
	}
	if got := m.Size(); got != 15 {
		t.Fatalf("Size() = %d, want 15", got)
	}
}
