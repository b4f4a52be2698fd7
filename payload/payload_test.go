// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package payload_test

import (
	"bytes"
	"io"
	"math"
	"math/rand"
	"testing"

	"github.com/icza/bitio"
	"github.com/stretchr/testify/require"

	"github.com/blanu/huffpack/huffman"
	"github.com/blanu/huffpack/payload"
)

func requireSamePayload(t *testing.T, want, got huffman.Payload) {
	t.Helper()
	require.Equal(t, want.BitLength, got.BitLength)
	require.Equal(t, len(want.Packed), len(got.Packed))
	require.True(t, bytes.Equal(want.Packed, got.Packed))
	require.True(t, want.Frequencies.Equal(got.Frequencies), "%v != %v", want.Frequencies, got.Frequencies)
}

func TestLoopback(t *testing.T) {
	rng := rand.New(rand.NewSource(0x7e57ab1e))

	inputs := [][]byte{nil, []byte("a"), []byte("hello"), bytes.Repeat([]byte{0xff}, 1000)}
	for i := 0; i < 50; i++ {
		data := make([]byte, rng.Intn(4000))
		rng.Read(data)
		inputs = append(inputs, data)
	}

	for _, input := range inputs {
		p := huffman.Compress(input)
		b, err := payload.Marshal(p)
		require.NoError(t, err)

		got, err := payload.Unmarshal(b)
		require.NoError(t, err)
		requireSamePayload(t, p, got)

		out, err := huffman.Decompress(got)
		require.NoError(t, err)
		require.True(t, bytes.Equal(input, out))
	}
}

func TestHelloLayout(t *testing.T) {
	b, err := payload.Marshal(huffman.Compress([]byte("hello")))
	require.NoError(t, err)

	// 40 bits of magic and version, 16 of table header, 4*(8+2) of entries and 64 of valid count make 20
	// octets with no padding; then 8 octets of length, 2 packed octets and the digest.
	require.Equal(t, []byte("HUFP\x01"), b[:5])
	require.Len(t, b, 20+8+2+payload.DigestSize)
	require.Equal(t, []byte{0x4f, 0x80}, b[28:30])
}

func TestStreamRead(t *testing.T) {
	first := huffman.Compress([]byte("first payload"))
	second := huffman.Compress([]byte("second"))

	var buf bytes.Buffer
	require.NoError(t, payload.Write(&buf, first))
	require.NoError(t, payload.Write(&buf, second))

	got, err := payload.Read(&buf)
	require.NoError(t, err)
	requireSamePayload(t, first, got)

	got, err = payload.Read(&buf)
	require.NoError(t, err)
	requireSamePayload(t, second, got)

	_, err = payload.Read(&buf)
	require.ErrorIs(t, err, io.EOF)

	buf.WriteString("HU")
	_, err = payload.Read(&buf)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestRejectsCorruption(t *testing.T) {
	b, err := payload.Marshal(huffman.Compress([]byte("corrupt me")))
	require.NoError(t, err)

	flipped := append([]byte(nil), b...)
	flipped[len(flipped)-payload.DigestSize-1] ^= 0x01
	_, err = payload.Unmarshal(flipped)
	require.ErrorIs(t, err, payload.ErrDigestMismatch)

	badMagic := append([]byte(nil), b...)
	badMagic[0] = 'X'
	_, err = payload.Unmarshal(badMagic)
	require.ErrorIs(t, err, payload.ErrBadMagic)

	badVersion := append([]byte(nil), b...)
	badVersion[4] = 9
	_, err = payload.Unmarshal(badVersion)
	require.ErrorIs(t, err, payload.ErrBadVersion)

	for cut := 1; cut < len(b); cut += 3 {
		_, err = payload.Unmarshal(b[:cut])
		require.Error(t, err, "truncated to %d", cut)
	}

	_, err = payload.Unmarshal(append(append([]byte(nil), b...), 0))
	require.Error(t, err)
}

func TestRejectsOverflowingTable(t *testing.T) {
	// Marshal cannot produce this table, so write the container by hand.
	var buf bytes.Buffer
	bw := bitio.NewWriter(&buf)
	bw.TryWrite([]byte("HUFP"))
	bw.TryWriteByte(1)
	bw.TryWriteBits(3, 9)
	bw.TryWriteBits(64, 7)
	for _, e := range []huffman.SymbolCount{{Symbol: 'a', Count: 1 << 63}, {Symbol: 'b', Count: 1 << 63}, {Symbol: 'c', Count: math.MaxUint64}} {
		bw.TryWriteBits(uint64(e.Symbol), 8)
		bw.TryWriteBits(e.Count, 64)
	}
	bw.TryWriteBits(4, 64)
	bw.TryAlign()
	bw.TryWriteBits(1, 64)
	bw.TryWriteByte(0xa0)
	require.NoError(t, bw.TryError)
	require.NoError(t, bw.Close())

	sum := payload.Digest(buf.Bytes())
	buf.Write(sum[:])

	_, err := payload.Unmarshal(buf.Bytes())
	require.ErrorIs(t, err, payload.ErrBadTable)
}

func TestMarshalRejectsBadLength(t *testing.T) {
	p := huffman.Compress([]byte("abc"))
	p.Packed = append(p.Packed, 0)
	_, err := payload.Marshal(p)
	require.ErrorIs(t, err, payload.ErrBadLength)

	p = huffman.Compress([]byte("abc"))
	p.BitLength = 100
	_, err = payload.Marshal(p)
	require.ErrorIs(t, err, huffman.ErrBitStringShort)
}

func TestDigest(t *testing.T) {
	a := payload.Digest([]byte("x"))
	b := payload.Digest([]byte("y"))
	require.NotEqual(t, a, b)
	require.Equal(t, a, payload.Digest([]byte("x")))
}
