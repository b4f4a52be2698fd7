// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package huffman

import (
	"fmt"
	"strings"
)

// CodeTable maps each symbol of a tree to its codeword, the path from the root to the symbol's leaf with left
// as 0 and right as 1.  Symbols absent from the tree have a zero-length entry.
type CodeTable struct {
	codes [totalSymbols]BitString
}

// appendBit returns a fresh BitString holding bs followed by bit.
func appendBit(bs BitString, bit bool) BitString {
	packed := make([]byte, (bs.BitLength+8)/8)
	copy(packed, bs.Packed)
	if bit {
		packed[bs.BitLength/8] |= 1 << uint(7-bs.BitLength%8)
	}
	return BitString{packed, bs.BitLength + 1}
}

// NewCodeTable derives the codewords of tree by depth-first traversal.  A tree consisting of a single leaf
// assigns that symbol the one-bit codeword 0, since an empty codeword could not be delimited.
func NewCodeTable(tree *Tree) *CodeTable {
	table := &CodeTable{}
	if tree == nil {
		return table
	}

	type frame struct {
		index nodeIndex
		path  BitString
	}

	root := tree.nodes[tree.root]
	if root.leaf() {
		table.codes[root.symbol] = appendBit(BitString{}, false)
		return table
	}

	stack := []frame{{tree.root, BitString{}}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := tree.nodes[top.index]
		if node.leaf() {
			table.codes[node.symbol] = top.path
			continue
		}

		// Right goes on first so the left subtree is visited first.
		stack = append(stack, frame{node.right, appendBit(top.path, true)})
		stack = append(stack, frame{node.left, appendBit(top.path, false)})
	}

	return table
}

// Code returns the codeword for s, and false if s has none.
func (table *CodeTable) Code(s byte) (BitString, bool) {
	code := table.codes[s]
	return code, code.BitLength > 0
}

// EncodedLength returns the number of bits needed to encode an input with frequencies ft.
func (table *CodeTable) EncodedLength(ft FrequencyTable) (bits uint64) {
	for _, e := range ft.entries {
		bits += e.Count * uint64(table.codes[e.Symbol].BitLength)
	}
	return
}

func (table *CodeTable) String() string {
	var parts []string
	for s, code := range table.codes {
		if code.BitLength > 0 {
			parts = append(parts, fmt.Sprintf("\t%q: %v\n", rune(s), code))
		}
	}
	return "CODES{\n" + strings.Join(parts, "") + "}"
}
