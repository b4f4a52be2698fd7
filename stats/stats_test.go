// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package stats_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blanu/huffpack/huffman"
	"github.com/blanu/huffpack/stats"
)

func TestHello(t *testing.T) {
	input := []byte("hello")
	st := stats.Measure(input, huffman.Compress(input))

	require.Equal(t, 5, st.OriginalBytes)
	require.Equal(t, 2, st.PackedBytes)
	require.Equal(t, 10, st.ValidBits)
	require.Equal(t, 4, st.TableEntries)
	require.Equal(t, 62, st.SerializedBytes)
	require.Positive(t, st.ZstdBytes)
	require.True(t, st.RoundTrip)
	require.InDelta(t, 40.0, st.Ratio(), 1e-9)

	var buf bytes.Buffer
	require.NoError(t, st.Format(&buf))
	report := buf.String()
	require.Contains(t, report, "Compression ratio: 40.00%")
	require.Contains(t, report, "Valid bits: 10")
	require.Contains(t, report, "Verification: SUCCESS")
}

func TestThousands(t *testing.T) {
	input := []byte(strings.Repeat("abcdefgh", 1000))
	st := stats.Measure(input, huffman.Compress(input))

	var buf bytes.Buffer
	require.NoError(t, st.Format(&buf))
	require.Contains(t, buf.String(), "Original size: 8,000 bytes")
	require.Contains(t, buf.String(), "Compressed size: 3,000 bytes")
}

func TestEmptyAndFailure(t *testing.T) {
	st := stats.Measure(nil, huffman.Compress(nil))
	require.Zero(t, st.Ratio())
	require.True(t, st.RoundTrip)

	broken := huffman.Compress([]byte("hello"))
	broken.BitLength = 9
	st = stats.Measure([]byte("hello"), broken)
	require.False(t, st.RoundTrip)

	var buf bytes.Buffer
	require.NoError(t, st.Format(&buf))
	require.Contains(t, buf.String(), "Verification: FAILED")
}
