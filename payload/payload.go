// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

/*
Package payload serializes huffman.Payload values for storage and transmission.

A serialized payload is a bit stream, most significant bit first:

	magic "HUFP"                 32 bits
	version                       8 bits
	table entries                 9 bits   0..256
	count width w                 7 bits   0..64, 0 iff the table is empty
	entries, ascending symbol    (8 + w) bits each
	valid bit count              64 bits
	padding to an octet boundary
	packed length in octets      64 bits
	packed octets
	BLAKE2b-256 of all of the above, 32 octets
*/
package payload

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"hash"
	"io"
	"math"
	"math/bits"

	"github.com/dchest/blake2b"
	"github.com/icza/bitio"

	"github.com/blanu/huffpack/huffman"
)

const (
	magic   = "HUFP"
	version = 1

	entryCountBits = 9
	widthBits      = 7
	symbolBits     = 8

	// DigestSize is the length of the trailing digest in octets.
	DigestSize = 32
)

var (
	ErrBadMagic       = errors.New("payload: bad magic")
	ErrBadVersion     = errors.New("payload: unsupported version")
	ErrBadTable       = errors.New("payload: bad frequency table")
	ErrBadLength      = errors.New("payload: packed length disagrees with valid bit count")
	ErrDigestMismatch = errors.New("payload: digest mismatch")
)

// Digest returns the BLAKE2b-256 digest of b.
func Digest(b []byte) (sum [DigestSize]byte) {
	h := blake2b.New256()
	h.Write(b)
	copy(sum[:], h.Sum(nil))
	return
}

// Marshal returns the serialized form of p.
func Marshal(p huffman.Payload) ([]byte, error) {
	if err := p.Valid(); err != nil {
		return nil, err
	}
	if len(p.Packed) != (p.BitLength+7)/8 {
		return nil, ErrBadLength
	}

	var buf bytes.Buffer
	bw := bitio.NewWriter(&buf)

	entries := p.Frequencies.Entries()
	var maxCount uint64
	for _, e := range entries {
		if e.Count > maxCount {
			maxCount = e.Count
		}
	}
	width := uint8(bits.Len64(maxCount))

	bw.TryWrite([]byte(magic))
	bw.TryWriteByte(version)
	bw.TryWriteBits(uint64(len(entries)), entryCountBits)
	bw.TryWriteBits(uint64(width), widthBits)
	for _, e := range entries {
		bw.TryWriteBits(uint64(e.Symbol), symbolBits)
		bw.TryWriteBits(e.Count, width)
	}
	bw.TryWriteBits(uint64(p.BitLength), 64)
	bw.TryAlign()
	bw.TryWriteBits(uint64(len(p.Packed)), 64)
	bw.TryWrite(p.Packed)
	if bw.TryError != nil {
		return nil, bw.TryError
	}
	if err := bw.Close(); err != nil {
		return nil, err
	}

	sum := Digest(buf.Bytes())
	buf.Write(sum[:])
	return buf.Bytes(), nil
}

// Write serializes p onto w.
func Write(w io.Writer, p huffman.Payload) error {
	b, err := Marshal(p)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// Unmarshal parses a serialized payload that occupies all of b.
func Unmarshal(b []byte) (huffman.Payload, error) {
	r := bytes.NewReader(b)
	p, err := Read(r)
	if err != nil {
		return huffman.Payload{}, err
	}
	if r.Len() != 0 {
		return huffman.Payload{}, fmt.Errorf("payload: %d trailing octets", r.Len())
	}
	return p, nil
}

type byteReader interface {
	io.Reader
	io.ByteReader
}

// digestingReader feeds every octet it hands out into a running digest.
type digestingReader struct {
	in     byteReader
	digest hash.Hash
}

func (dr *digestingReader) Read(p []byte) (int, error) {
	n, err := dr.in.Read(p)
	dr.digest.Write(p[:n])
	return n, err
}

func (dr *digestingReader) ReadByte() (byte, error) {
	b, err := dr.in.ReadByte()
	if err == nil {
		dr.digest.Write([]byte{b})
	}
	return b, err
}

func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// Read parses one serialized payload from r.  It returns io.EOF if r is empty.  If r is not also an
// io.ByteReader it is buffered, and Read may consume octets beyond the end of the payload.
func Read(r io.Reader) (huffman.Payload, error) {
	in, ok := r.(byteReader)
	if !ok {
		in = bufio.NewReader(r)
	}
	dr := &digestingReader{in, blake2b.New256()}
	br := bitio.NewReader(dr)

	// A clean io.EOF here means there was no payload at all.
	var head [len(magic)]byte
	if _, err := io.ReadFull(br, head[:]); err != nil {
		return huffman.Payload{}, err
	}
	if string(head[:]) != magic {
		return huffman.Payload{}, ErrBadMagic
	}

	ver := br.TryReadByte()
	entryCount := br.TryReadBits(entryCountBits)
	width := uint8(br.TryReadBits(widthBits))
	if br.TryError != nil {
		return huffman.Payload{}, unexpectedEOF(br.TryError)
	}
	if ver != version {
		return huffman.Payload{}, ErrBadVersion
	}
	if entryCount > 256 || width > 64 || (entryCount == 0) != (width == 0) {
		return huffman.Payload{}, ErrBadTable
	}

	entries := make([]huffman.SymbolCount, entryCount)
	for i := range entries {
		entries[i].Symbol = byte(br.TryReadBits(symbolBits))
		entries[i].Count = br.TryReadBits(width)
	}
	validBits := br.TryReadBits(64)
	br.Align()
	packedLen := br.TryReadBits(64)
	if br.TryError != nil {
		return huffman.Payload{}, unexpectedEOF(br.TryError)
	}

	freqs, err := huffman.NewFrequencyTable(entries)
	if err != nil {
		return huffman.Payload{}, fmt.Errorf("%w: %v", ErrBadTable, err)
	}
	if validBits > math.MaxInt64-7 || packedLen != (validBits+7)/8 {
		return huffman.Payload{}, ErrBadLength
	}

	// Grows with the data actually present rather than trusting packedLen up front.
	var packed bytes.Buffer
	if _, err := io.CopyN(&packed, br, int64(packedLen)); err != nil {
		return huffman.Payload{}, unexpectedEOF(err)
	}

	computed := dr.digest.Sum(nil)
	var trailer [DigestSize]byte
	if _, err := io.ReadFull(in, trailer[:]); err != nil {
		return huffman.Payload{}, unexpectedEOF(err)
	}
	if !bytes.Equal(computed, trailer[:]) {
		return huffman.Payload{}, ErrDigestMismatch
	}

	return huffman.Payload{
		BitString: huffman.BitString{
			Packed: packed.Bytes(),
			// Conversion safety: bounded by math.MaxInt64 above.
			BitLength: int(validBits),
		},
		Frequencies: freqs,
	}, nil
}
