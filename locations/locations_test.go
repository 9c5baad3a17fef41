package locations_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohsenpakzad/memscan/locations"
)

func kv(addrs []uintptr, values []int32) []locations.Pair[int32] {
	pairs := make([]locations.Pair[int32], len(addrs))
	for i, a := range addrs {
		pairs[i] = locations.Pair[int32]{Addr: a, Value: values[i]}
	}
	return pairs
}

// TestCompactToRange reproduces spec.md §8 scenario 2.
func TestCompactToRange(t *testing.T) {
	addrs := []uintptr{0x2000, 0x2004, 0x2008, 0x200C, 0x2010, 0x2014, 0x2018, 0x201C, 0x2020}
	values := []int32{-2, -1, 0, 1, 2, 3, 4, 5, 6}

	s := locations.NewKeyValue[int32](4, kv(addrs, values))
	s.TryCompact()

	require.Equal(t, locations.Range, s.Kind())
	assert.Equal(t, len(addrs), s.Len())
	assert.Equal(t, addrs, s.Addresses())
	for _, a := range addrs {
		assert.Equal(t, values[indexOf(addrs, a)], s.ValueAt(a))
	}
}

// TestCompactToMasked reproduces spec.md §8 scenario 3.
func TestCompactToMasked(t *testing.T) {
	addrs := []uintptr{0x2000, 0x2004, 0x200C, 0x2010, 0x2014, 0x2018, 0x201C, 0x2024}
	values := []int32{0, 1, 2, 3, 4, 5, 6, 7}

	s := locations.NewKeyValue[int32](4, kv(addrs, values))
	s.TryCompact()

	require.Equal(t, locations.Masked, s.Kind())
	assert.Equal(t, addrs, s.Addresses())
	assert.Equal(t, len(addrs), s.Len())
	for i, a := range addrs {
		assert.Equal(t, values[i], s.ValueAt(a))
	}
}

// TestCompactToExcludedRange reproduces spec.md §8 scenario 4: all even
// addresses in [0x400, 0x481) except multiples of 91, value = addr/2.
func TestCompactToExcludedRange(t *testing.T) {
	var addrs []uintptr
	var values []int32
	for a := uintptr(0x400); a <= 0x480; a += 2 {
		if a%91 == 0 {
			continue
		}
		addrs = append(addrs, a)
		values = append(values, int32(a/2))
	}

	s := locations.NewKeyValue[int32](2, kv(addrs, values))
	s.TryCompact()

	require.Equal(t, locations.ExcludedRange, s.Kind())
	assert.Equal(t, addrs, s.Addresses())
	assert.Equal(t, len(addrs), s.Len())
	for i, a := range addrs {
		assert.Equal(t, values[i], s.ValueAt(a))
	}
}

// TestCompactToOffsetted reproduces spec.md §8 scenario 5.
func TestCompactToOffsetted(t *testing.T) {
	addrs := []uintptr{0x2000, 0x2004, 0x2040}
	values := []int32{0, 1, 2}

	s := locations.NewKeyValue[int32](4, kv(addrs, values))
	s.TryCompact()

	require.Equal(t, locations.Offsetted, s.Kind())
	assert.Equal(t, addrs, s.Addresses())
	for i, a := range addrs {
		assert.Equal(t, values[i], s.ValueAt(a))
	}
}

// TestCompactKeepsKeyValueWhenNothingPaysOff builds a KeyValue set so sparse
// and so wide that none of the four compacted encodings' preconditions
// hold.
func TestCompactKeepsKeyValueWhenNothingPaysOff(t *testing.T) {
	addrs := []uintptr{0x1000, 0x1000 + 100000, 0x1000 + 200000}
	values := []int32{1, 2, 3}

	s := locations.NewKeyValue[int32](4, kv(addrs, values))
	s.TryCompact()

	assert.Equal(t, locations.KeyValue, s.Kind())
	assert.Equal(t, addrs, s.Addresses())
}

func TestCompactNoopBelowTwoEntries(t *testing.T) {
	s := locations.NewKeyValue[int32](4, kv([]uintptr{0x1000}, []int32{7}))
	s.TryCompact()
	assert.Equal(t, locations.KeyValue, s.Kind())
}

// TestIterationInvariance checks addresses()/into_locations() agree across
// a KeyValue store's compaction to Range, per spec.md §8's universal
// invariant.
func TestIterationInvariance(t *testing.T) {
	addrs := []uintptr{0x2000, 0x2004, 0x2008, 0x200C, 0x2010, 0x2014, 0x2018, 0x201C, 0x2020}
	values := []int32{-2, -1, 0, 1, 2, 3, 4, 5, 6}

	s := locations.NewKeyValue[int32](4, kv(addrs, values))
	before := s.Addresses()
	s.TryCompact()
	after := s.Addresses()
	assert.Equal(t, before, after)

	flat := s.IntoLocations()
	require.Len(t, flat, len(addrs))
	for i, p := range flat {
		assert.Equal(t, addrs[i], p.Addr)
		assert.Equal(t, values[i], p.Value)
	}
}

func TestSameValueEncoding(t *testing.T) {
	s := locations.NewSameValue[int32](4, []uintptr{0x3000, 0x3008, 0x3004}, 42)
	assert.Equal(t, locations.SameValue, s.Kind())
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []uintptr{0x3000, 0x3004, 0x3008}, s.Addresses())
	assert.Equal(t, int32(42), s.ValueAt(0x3004))
}

func indexOf(addrs []uintptr, a uintptr) int {
	for i, x := range addrs {
		if x == a {
			return i
		}
	}
	return -1
}
