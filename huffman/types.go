// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

/*
Package huffman implements a static Huffman codec over eight-bit symbols.  Compress counts symbol frequencies,
builds a prefix tree from them and packs the concatenated codewords into a BitString.  Decompress rebuilds the
same tree from the frequency table carried in the Payload and walks it bit by bit.

Tree construction is deterministic: leaves are seeded in ascending symbol order and nodes of equal frequency
leave the queue in the order they entered it, so both sides of a round trip rebuild identical trees from the
same FrequencyTable.
*/
package huffman

import (
	"errors"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("huffpack/huffman")

type symbol uint8

const totalSymbols = 256

var (
	ErrBitStringNegative = errors.New("huffman: bit string with negative length")
	ErrBitStringShort    = errors.New("huffman: bit string with insufficient octets to represent it")
)

// BitString represents a packed bit string.  Within each octet, bits are addressed most significant first.
//
// Invariants:
//   - 0 <= BitLength <= len(Packed)*8
//   - bits at and beyond BitLength are padding and carry no meaning
type BitString struct {
	Packed    []uint8
	BitLength int
}

// Valid returns an error if the length invariants do not hold for bs.
func (bs BitString) Valid() error {
	switch {
	case bs.BitLength < 0:
		return ErrBitStringNegative
	case bs.BitLength > len(bs.Packed)*8:
		return ErrBitStringShort
	}
	return nil
}

// bit returns bit i of bs.  The caller guarantees 0 <= i < BitLength.
func (bs BitString) bit(i int) bool {
	// Conversion safety: 0 <= i%8 <= 7.
	return (bs.Packed[i/8]>>uint(7-i%8))&1 == 1
}

// Bits unpacks the valid bits of bs, ignoring any padding in the final octet.
func (bs BitString) Bits() []bool {
	bits := make([]bool, bs.BitLength)
	for i := range bits {
		bits[i] = bs.bit(i)
	}
	return bits
}

// Pack packs bits into a BitString of ceil(len(bits)/8) octets.  Bit i lands in octet i/8 at position
// 7-i%8; unused trailing positions are zero.
func Pack(bits []bool) BitString {
	bw := newBitWriter(len(bits))
	for _, b := range bits {
		bw.writeBit(b)
	}
	return bw.bitString()
}

func (bs BitString) String() string {
	prefix := []rune{'#', '*'}
	allRunes := make([]rune, len(prefix)+bs.BitLength)
	copy(allRunes, prefix)

	bitRunes := allRunes[len(prefix):]
	for i := range bitRunes {
		if bs.bit(i) {
			bitRunes[i] = '1'
		} else {
			bitRunes[i] = '0'
		}
	}

	return string(allRunes)
}

// Payload is the complete result of compression: the packed codeword stream, whose BitLength is the number of
// valid bits, plus the frequency table needed to rebuild the tree.  It is the only state that needs to cross
// from Compress to Decompress.
type Payload struct {
	BitString
	Frequencies FrequencyTable
}

// Empty returns true iff p is the payload of an empty input.
func (p Payload) Empty() bool {
	return len(p.Packed) == 0 && p.BitLength == 0 && p.Frequencies.Len() == 0
}
