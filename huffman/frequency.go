// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package huffman

import (
	"errors"
	"fmt"
	"math/bits"
	"sort"
	"strings"
)

var (
	ErrInvalidFrequencyTable = errors.New("huffman: invalid frequency table")
)

// SymbolCount pairs a symbol with the number of times it occurs.
type SymbolCount struct {
	Symbol byte
	Count  uint64
}

// FrequencyTable maps each symbol present in an input to its occurrence count.  Entries are held in ascending
// symbol order, which is also the order in which BuildTree seeds its queue.  The zero value is the empty
// table.
type FrequencyTable struct {
	entries []SymbolCount
}

// CountFrequencies scans input and returns a table covering exactly the distinct byte values in it.
func CountFrequencies(input []byte) FrequencyTable {
	var counts [totalSymbols]uint64
	for _, b := range input {
		counts[b]++
	}

	var entries []SymbolCount
	for s, c := range counts {
		if c != 0 {
			entries = append(entries, SymbolCount{byte(s), c})
		}
	}

	return FrequencyTable{entries}
}

// NewFrequencyTable constructs a table from entries in any order.  Each symbol may appear at most once,
// every count must be positive, and the counts must sum to no more than the largest uint64.
func NewFrequencyTable(entries []SymbolCount) (FrequencyTable, error) {
	if len(entries) == 0 {
		return FrequencyTable{}, nil
	}

	sorted := make([]SymbolCount, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Symbol < sorted[j].Symbol })

	var total, carry uint64
	for i, e := range sorted {
		if total, carry = bits.Add64(total, e.Count, 0); carry != 0 {
			return FrequencyTable{}, fmt.Errorf("%w: counts overflow at symbol %#02x", ErrInvalidFrequencyTable, e.Symbol)
		}
		if e.Count == 0 {
			return FrequencyTable{}, fmt.Errorf("%w: symbol %#02x has zero count", ErrInvalidFrequencyTable, e.Symbol)
		}
		if i > 0 && sorted[i-1].Symbol == e.Symbol {
			return FrequencyTable{}, fmt.Errorf("%w: symbol %#02x repeated", ErrInvalidFrequencyTable, e.Symbol)
		}
	}

	return FrequencyTable{sorted}, nil
}

// Len returns the number of distinct symbols in ft.
func (ft FrequencyTable) Len() int {
	return len(ft.entries)
}

// Entries returns a copy of the entries of ft in ascending symbol order.
func (ft FrequencyTable) Entries() []SymbolCount {
	out := make([]SymbolCount, len(ft.entries))
	copy(out, ft.entries)
	return out
}

// Count returns the count recorded for s, or zero if s is absent.
func (ft FrequencyTable) Count(s byte) uint64 {
	i := sort.Search(len(ft.entries), func(i int) bool { return ft.entries[i].Symbol >= s })
	if i < len(ft.entries) && ft.entries[i].Symbol == s {
		return ft.entries[i].Count
	}
	return 0
}

// Total returns the sum of all counts, which is the length of the input the table was counted from.  Every
// node weight in the tree built from ft is bounded by it.
func (ft FrequencyTable) Total() (total uint64) {
	for _, e := range ft.entries {
		total += e.Count
	}
	return
}

// Equal returns true iff ft and other hold the same entries.
func (ft FrequencyTable) Equal(other FrequencyTable) bool {
	if len(ft.entries) != len(other.entries) {
		return false
	}
	for i := range ft.entries {
		if ft.entries[i] != other.entries[i] {
			return false
		}
	}
	return true
}

func (ft FrequencyTable) String() string {
	parts := make([]string, len(ft.entries))
	for i, e := range ft.entries {
		parts[i] = fmt.Sprintf("%q:%d", rune(e.Symbol), e.Count)
	}
	return "{" + strings.Join(parts, " ") + "}"
}
