// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

/*
Package stats measures how well a payload compresses its input, for reporting by the command-line tool and
the server.  The codec itself reports nothing.
*/
package stats

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/blanu/huffpack/huffman"
	"github.com/blanu/huffpack/payload"
)

// Stats describes one compression.
type Stats struct {
	OriginalBytes   int  `json:"original_bytes"`
	PackedBytes     int  `json:"packed_bytes"`
	ValidBits       int  `json:"valid_bits"`
	TableEntries    int  `json:"table_entries"`
	SerializedBytes int  `json:"serialized_bytes"`
	ZstdBytes       int  `json:"zstd_bytes"`
	RoundTrip       bool `json:"round_trip"`
}

// zstdSize returns the size of input compressed by zstd at its default level, or -1 if that fails.
func zstdSize(input []byte) int {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return -1
	}
	defer enc.Close()
	return len(enc.EncodeAll(input, nil))
}

// Measure describes the compression of input into p.  It decompresses p to check the round trip.
func Measure(input []byte, p huffman.Payload) Stats {
	st := Stats{
		OriginalBytes: len(input),
		PackedBytes:   len(p.Packed),
		ValidBits:     p.BitLength,
		TableEntries:  p.Frequencies.Len(),
		ZstdBytes:     zstdSize(input),
	}

	if blob, err := payload.Marshal(p); err == nil {
		st.SerializedBytes = len(blob)
	}

	out, err := huffman.Decompress(p)
	st.RoundTrip = err == nil && bytes.Equal(out, input)
	return st
}

// Ratio returns the packed size as a percentage of the original size, or zero for an empty input.
func (st Stats) Ratio() float64 {
	if st.OriginalBytes == 0 {
		return 0
	}
	return float64(st.PackedBytes) / float64(st.OriginalBytes) * 100
}

// Format writes a human-readable report to w.
func (st Stats) Format(w io.Writer) error {
	// For commas between thousands.
	p := message.NewPrinter(language.English)

	verification := "FAILED"
	if st.RoundTrip {
		verification = "SUCCESS"
	}

	_, err := p.Fprintf(w, "Compression Statistics:\n"+
		"---------------------\n"+
		"Original size: %d bytes\n"+
		"Compressed size: %d bytes\n"+
		"Compression ratio: %.2f%%\n"+
		"Valid bits: %d\n"+
		"Frequency table size: %d\n"+
		"Serialized size: %d bytes\n"+
		"zstd size: %d bytes\n"+
		"Verification: %s\n",
		st.OriginalBytes, st.PackedBytes, st.Ratio(), st.ValidBits, st.TableEntries,
		st.SerializedBytes, st.ZstdBytes, verification)
	return err
}
