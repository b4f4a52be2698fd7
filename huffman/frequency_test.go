// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package huffman_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blanu/huffpack/huffman"
)

func TestCountFrequencies(t *testing.T) {
	freqs := huffman.CountFrequencies([]byte("mississippi"))

	require.Equal(t, []huffman.SymbolCount{{'i', 4}, {'m', 1}, {'p', 2}, {'s', 4}}, freqs.Entries())
	require.Equal(t, uint64(11), freqs.Total())
	require.Equal(t, uint64(2), freqs.Count('p'))
	require.Zero(t, freqs.Count('x'))
}

func TestCountFrequenciesFullAlphabet(t *testing.T) {
	input := make([]byte, 512)
	for i := range input {
		input[i] = byte(i)
	}

	freqs := huffman.CountFrequencies(input)
	require.Equal(t, 256, freqs.Len())
	for _, e := range freqs.Entries() {
		require.Equal(t, uint64(2), e.Count)
	}
}

func TestNewFrequencyTableSorts(t *testing.T) {
	freqs, err := huffman.NewFrequencyTable([]huffman.SymbolCount{{'z', 3}, {'a', 1}, {'m', 2}})
	require.NoError(t, err)
	require.Equal(t, []huffman.SymbolCount{{'a', 1}, {'m', 2}, {'z', 3}}, freqs.Entries())
	require.True(t, freqs.Equal(huffman.CountFrequencies([]byte("zzzamm"))))
}

func TestNewFrequencyTableRejects(t *testing.T) {
	_, err := huffman.NewFrequencyTable([]huffman.SymbolCount{{'a', 1}, {'a', 2}})
	require.ErrorIs(t, err, huffman.ErrInvalidFrequencyTable)

	_, err = huffman.NewFrequencyTable([]huffman.SymbolCount{{'a', 0}})
	require.ErrorIs(t, err, huffman.ErrInvalidFrequencyTable)

	freqs, err := huffman.NewFrequencyTable(nil)
	require.NoError(t, err)
	require.Zero(t, freqs.Len())

	// Counts whose sum would wrap.
	_, err = huffman.NewFrequencyTable([]huffman.SymbolCount{{'a', 1 << 63}, {'b', 1 << 63}, {'c', math.MaxUint64}})
	require.ErrorIs(t, err, huffman.ErrInvalidFrequencyTable)
	_, err = huffman.NewFrequencyTable([]huffman.SymbolCount{{'a', 1}, {'b', math.MaxUint64}})
	require.ErrorIs(t, err, huffman.ErrInvalidFrequencyTable)

	freqs, err = huffman.NewFrequencyTable([]huffman.SymbolCount{{'a', 1 << 63}, {'b', 1<<63 - 1}})
	require.NoError(t, err)
	require.Equal(t, uint64(math.MaxUint64), freqs.Total())
}

func TestEntriesIsCopy(t *testing.T) {
	freqs := huffman.CountFrequencies([]byte("ab"))
	entries := freqs.Entries()
	entries[0].Count = 99
	require.Equal(t, uint64(1), freqs.Count('a'))
}
