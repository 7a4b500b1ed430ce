package chacha

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestFloat64Range is the "Double range" property from spec.md §8:
// Float64 always returns a value in [0, 1).
func TestFloat64Range(t *testing.T) {
	var key [KeySize]byte
	for i := range key {
		key[i] = byte(i + 11)
	}
	var iv [IVSize]byte
	g := NewBitGenerator(NewStream(key, iv, Rounds20))

	for i := 0; i < 10000; i++ {
		v := g.Float64()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

// TestBitGeneratorMatchesStream checks the adapter's draws are exactly the
// keystream bytes read in little-endian order, amortized refills aside.
func TestBitGeneratorMatchesStream(t *testing.T) {
	var key [KeySize]byte
	var iv [IVSize]byte

	raw := newScalarStream(key, iv, Rounds20)
	want := make([]byte, 64)
	raw.Update(want)

	g := NewBitGenerator(newScalarStream(key, iv, Rounds20))
	u1 := g.Uint32()
	u2 := g.Uint64()

	require.Equal(t, want[0], byte(u1))
	require.Equal(t, want[4], byte(u2))
}
