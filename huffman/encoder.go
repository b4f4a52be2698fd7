// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package huffman

// Compress encodes input and returns the packed codeword stream together with the frequency table it was
// coded against.  An empty input yields the empty Payload.  input is not modified.
func Compress(input []byte) Payload {
	if len(input) == 0 {
		return Payload{}
	}

	freqs := CountFrequencies(input)
	tree := BuildTree(freqs)
	codes := NewCodeTable(tree)

	// Conversion safety: the encoded length is bounded by 256 bits per input byte.
	bwr := newBitWriter(int(codes.EncodedLength(freqs)))
	for _, b := range input {
		bwr.writeBits(codes.codes[b])
	}

	bs := bwr.bitString()
	log.Debugf("compressed %d bytes over %d symbols into %d bits (%d bytes)",
		len(input), freqs.Len(), bs.BitLength, len(bs.Packed))
	return Payload{BitString: bs, Frequencies: freqs}
}
