// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package huffman

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPackLayout(t *testing.T) {
	bits := []bool{true, false, true, true, false, false, false, false, true, true}
	bs := Pack(bits)

	require.Equal(t, 10, bs.BitLength)
	require.Equal(t, []byte{0xb0, 0xc0}, bs.Packed)
	require.Equal(t, bits, bs.Bits())
	require.Equal(t, "#*1011000011", bs.String())
}

func TestPackEmpty(t *testing.T) {
	bs := Pack(nil)
	require.Equal(t, 0, bs.BitLength)
	require.Empty(t, bs.Packed)
	require.Empty(t, bs.Bits())
}

func TestPackRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(0x11f00d))

	for iteration := 0; iteration < 100; iteration++ {
		bits := make([]bool, rng.Intn(100))
		for i := range bits {
			bits[i] = rng.Intn(2) == 1
		}

		bs := Pack(bits)
		require.NoError(t, bs.Valid())
		require.Equal(t, (len(bits)+7)/8, len(bs.Packed))
		require.Equal(t, bits, bs.Bits())
	}
}

func TestWriteBitsUnaligned(t *testing.T) {
	word := Pack([]bool{true, true, true, true, true, true, true, true, false, true})

	bwr := newBitWriter(0)
	bwr.writeBit(false)
	bwr.writeBits(word)
	bwr.writeBits(word)
	bs := bwr.bitString()

	require.Equal(t, 21, bs.BitLength)
	want := append([]bool{false}, word.Bits()...)
	want = append(want, word.Bits()...)
	require.Equal(t, want, bs.Bits())
}

func TestBitReaderStopsAtLength(t *testing.T) {
	brd := newBitReader(BitString{[]byte{0xff}, 3})
	for i := 0; i < 3; i++ {
		bit, ok := brd.readBit()
		require.True(t, ok)
		require.True(t, bit)
	}
	_, ok := brd.readBit()
	require.False(t, ok)
}

func TestValid(t *testing.T) {
	require.NoError(t, BitString{[]byte{0, 0}, 16}.Valid())
	require.ErrorIs(t, BitString{[]byte{0}, 9}.Valid(), ErrBitStringShort)
	require.ErrorIs(t, BitString{nil, -2}.Valid(), ErrBitStringNegative)
}

func TestTreeShape(t *testing.T) {
	freqs := CountFrequencies([]byte("hello world"))
	tree := BuildTree(freqs)

	require.Equal(t, 2*freqs.Len()-1, tree.Len())
	require.Equal(t, freqs.Len(), tree.Leaves())
	require.Equal(t, uint64(11), tree.Weight())

	for _, node := range tree.nodes {
		if !node.leaf() {
			require.NotEqual(t, noNode, node.left)
			require.NotEqual(t, noNode, node.right)
			require.Equal(t, tree.nodes[node.left].freq+tree.nodes[node.right].freq, node.freq)
		}
	}
}

func TestTreeTieBreak(t *testing.T) {
	// All equal: the first two symbols merge first and the earlier one goes left.
	tree := BuildTree(CountFrequencies([]byte("dcba")))
	root := tree.nodes[tree.root]
	left := tree.nodes[root.left]
	right := tree.nodes[root.right]

	require.Equal(t, symbol('a'), tree.nodes[left.left].symbol)
	require.Equal(t, symbol('b'), tree.nodes[left.right].symbol)
	require.Equal(t, symbol('c'), tree.nodes[right.left].symbol)
	require.Equal(t, symbol('d'), tree.nodes[right.right].symbol)
}

func TestBuildTreeEmpty(t *testing.T) {
	require.Nil(t, BuildTree(FrequencyTable{}))
	table := NewCodeTable(nil)
	_, ok := table.Code('a')
	require.False(t, ok)
}

func TestSingleLeafTree(t *testing.T) {
	tree := BuildTree(CountFrequencies([]byte("zzz")))
	require.Equal(t, 1, tree.Len())
	require.True(t, tree.nodes[tree.root].leaf())

	code, ok := NewCodeTable(tree).Code('z')
	require.True(t, ok)
	require.Equal(t, "#*0", code.String())
}

func TestTreeString(t *testing.T) {
	str := BuildTree(CountFrequencies([]byte("hello"))).String()
	require.Contains(t, str, "'l' (2) [11]")
	require.Contains(t, str, "'e' (1) [00]")
	require.Contains(t, str, "* (5)")
}
