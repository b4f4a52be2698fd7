// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package huffman

// bitWriter appends bits most significant first into a growing octet slice.
type bitWriter struct {
	dst      []byte
	n        int
	lowAvail int
}

func newBitWriter(sizeHint int) *bitWriter {
	return &bitWriter{dst: make([]byte, 0, (sizeHint+7)/8), lowAvail: 0}
}

func (bwr *bitWriter) writeBit(bit bool) {
	if bwr.lowAvail == 0 {
		bwr.dst = append(bwr.dst, 0)
		bwr.lowAvail = 8
	}
	bwr.lowAvail--
	if bit {
		bwr.dst[len(bwr.dst)-1] |= 1 << uint(bwr.lowAvail)
	}
	bwr.n++
}

// writeBits appends every valid bit of src, a whole octet at a time where alignment allows.
func (bwr *bitWriter) writeBits(src BitString) {
	si := 0
	for ; si+8 <= src.BitLength && bwr.lowAvail == 0; si += 8 {
		bwr.dst = append(bwr.dst, src.Packed[si/8])
		bwr.n += 8
	}
	for ; si < src.BitLength; si++ {
		bwr.writeBit(src.bit(si))
	}
}

// bitString returns the bits written so far.  Padding in the final octet is zero.
func (bwr *bitWriter) bitString() BitString {
	return BitString{bwr.dst, bwr.n}
}

// bitReader yields the valid bits of a BitString in order and reports when they run out.
type bitReader struct {
	src BitString
	pos int
}

func newBitReader(src BitString) *bitReader {
	return &bitReader{src: src}
}

func (brd *bitReader) readBit() (bit bool, ok bool) {
	if brd.pos >= brd.src.BitLength {
		return false, false
	}
	bit = brd.src.bit(brd.pos)
	brd.pos++
	return bit, true
}
