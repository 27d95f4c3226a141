package smoothmap_test

import (
	"fmt"
	"hash/maphash"

	smoothmap "github.com/cloudpeak/smooth-hashtable"
)

func ExampleMap_Insert() {
	seed := maphash.MakeSeed()
	hash := func(s string) uint64 { return maphash.String(seed, s) }
	m, err := smoothmap.New[string, string](hash, func(a, b string) bool { return a < b })
	if err != nil {
		panic(err)
	}

	m.Insert("Avenue", "AVE")
	m.Insert("Street", "ST")
	m.Insert("Court", "CT")

	for i := m.Iter(); i.Next(); {
		fmt.Printf("The abbreviation for %q is %q\n", i.Key(), i.Value())
	}
}

func ExampleMap_At() {
	seed := maphash.MakeSeed()
	hash := func(s string) uint64 { return maphash.String(seed, s) }
	m, err := smoothmap.New[string, int](hash, func(a, b string) bool { return a < b })
	if err != nil {
		panic(err)
	}

	*m.At("hits")++
	*m.At("hits")++
	fmt.Println(*m.At("hits"))
	// Output: 2
}
