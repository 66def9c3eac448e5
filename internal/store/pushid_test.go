package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushKeys_Format(t *testing.T) {
	var g pushKeyGen
	key := g.next()
	require.Len(t, key, 20)
	for _, c := range key {
		assert.True(t, strings.ContainsRune(pushAlphabet, c), "unexpected character %q in push key", c)
	}
}

func TestPushKeys_StrictlyIncreasing(t *testing.T) {
	var g pushKeyGen
	prev := g.next()
	// A tight loop forces many same-millisecond keys, the case the entropy
	// increment exists for.
	for i := 0; i < 10000; i++ {
		key := g.next()
		require.Greater(t, key, prev, "key %d did not sort after its predecessor", i)
		prev = key
	}
}

func TestPushKeys_AlphabetIsByteOrdered(t *testing.T) {
	for i := 1; i < len(pushAlphabet); i++ {
		require.Less(t, pushAlphabet[i-1], pushAlphabet[i],
			"alphabet must be byte-ordered for keys to sort chronologically")
	}
}
