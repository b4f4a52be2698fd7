// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package huffman

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedPayload = errors.New("huffman: malformed payload")
)

// MalformedHow describes why a payload could not be decoded.
type MalformedHow int

const (
	MalformedUnknown MalformedHow = iota
	// The valid-bit count is negative or exceeds the packed octets.
	MalformedBitCount
	// Packed bits are present but the frequency table is empty.
	MalformedEmptyTable
	// A bit selects a child the tree does not have.
	MalformedDeadEnd
	// The valid bits end partway down a codeword.
	MalformedTruncated
)

// MalformedPayloadError describes a payload whose bits cannot be resolved against the tree rebuilt from its
// frequency table.  BitOffset is the index of the offending bit, or -1 where no single bit is at fault.  It
// matches ErrMalformedPayload under errors.Is.
type MalformedPayloadError struct {
	How       MalformedHow
	BitOffset int
}

func (me *MalformedPayloadError) Error() string {
	var str string
	switch me.How {
	case MalformedUnknown:
		str = "???"
	case MalformedBitCount:
		str = "valid bit count out of range"
	case MalformedEmptyTable:
		str = "bits present with empty frequency table"
	case MalformedDeadEnd:
		str = "bit leads to missing child"
	case MalformedTruncated:
		str = "bit stream ends inside a codeword"
	}

	if me.BitOffset >= 0 {
		str += fmt.Sprintf(" at bit %d", me.BitOffset)
	}
	return ErrMalformedPayload.Error() + ": " + str
}

func (me *MalformedPayloadError) Is(target error) bool {
	return target == ErrMalformedPayload
}

// Decompress reconstructs the input that produced p.  An empty packed buffer decodes to an empty result.  If
// the bits cannot be resolved against the tree rebuilt from p.Frequencies, Decompress returns a
// *MalformedPayloadError and no output.
func Decompress(p Payload) ([]byte, error) {
	if len(p.Packed) == 0 {
		if p.BitLength != 0 {
			return nil, &MalformedPayloadError{MalformedBitCount, -1}
		}
		return []byte{}, nil
	}

	if err := p.BitString.Valid(); err != nil {
		return nil, &MalformedPayloadError{MalformedBitCount, -1}
	}

	tree := BuildTree(p.Frequencies)
	if tree == nil {
		return nil, &MalformedPayloadError{MalformedEmptyTable, -1}
	}

	// Every codeword is at least one bit long.
	capacity := p.BitLength
	if total := p.Frequencies.Total(); total < uint64(capacity) {
		capacity = int(total)
	}
	out := make([]byte, 0, capacity)
	brd := newBitReader(p.BitString)
	current := tree.root
	codewordStart := 0

	for {
		bit, ok := brd.readBit()
		if !ok {
			break
		}

		next := tree.child(current, bit)
		if next == noNode {
			// Only a lone leaf at the root lacks children; its codeword is the single bit 0.
			if tree.nodes[current].leaf() && !bit {
				out = append(out, byte(tree.nodes[current].symbol))
				codewordStart = brd.pos
				continue
			}
			return nil, &MalformedPayloadError{MalformedDeadEnd, brd.pos - 1}
		}

		current = next
		if tree.nodes[current].leaf() {
			out = append(out, byte(tree.nodes[current].symbol))
			current = tree.root
			codewordStart = brd.pos
		}
	}

	if current != tree.root {
		return nil, &MalformedPayloadError{MalformedTruncated, codewordStart}
	}

	log.Debugf("decompressed %d bits into %d bytes", p.BitLength, len(out))
	return out, nil
}
