// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package huffman

import (
	"container/heap"
	"fmt"
	"strings"
)

// nodeIndex addresses a node within a Tree's arena.
type nodeIndex int32

const noNode nodeIndex = -1

type treeNode struct {
	freq        uint64
	symbol      symbol
	left, right nodeIndex
}

func (node treeNode) leaf() bool {
	return node.left == noNode && node.right == noNode
}

// Tree is a Huffman prefix tree.  Nodes live in a single arena owned by the Tree; internal nodes refer to their
// two children by index.  Leaves carry symbols.  Once built, a Tree is never modified.
type Tree struct {
	nodes []treeNode
	root  nodeIndex
}

// queueItem orders nodes by frequency and then by the sequence number assigned when the node entered the
// queue, so equal frequencies leave in insertion order.
type queueItem struct {
	freq  uint64
	seq   int
	index nodeIndex
}

type nodeQueue []queueItem

func (q nodeQueue) Len() int { return len(q) }

func (q nodeQueue) Less(i, j int) bool {
	if q[i].freq != q[j].freq {
		return q[i].freq < q[j].freq
	}
	return q[i].seq < q[j].seq
}

func (q nodeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *nodeQueue) Push(x interface{}) { *q = append(*q, x.(queueItem)) }

func (q *nodeQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// BuildTree builds the prefix tree for ft, or returns nil if ft is empty.  Leaves enter the queue in ascending
// symbol order.  Each step removes the two lowest-frequency nodes, makes the first the left child and the
// second the right child of a new node, and queues the new node behind any existing nodes of equal frequency.
func BuildTree(ft FrequencyTable) *Tree {
	if ft.Len() == 0 {
		return nil
	}

	// A full binary tree over n leaves has 2n-1 nodes.
	tree := &Tree{nodes: make([]treeNode, 0, 2*ft.Len()-1)}
	queue := make(nodeQueue, 0, ft.Len())
	seq := 0

	enqueue := func(node treeNode) {
		index := nodeIndex(len(tree.nodes))
		tree.nodes = append(tree.nodes, node)
		heap.Push(&queue, queueItem{node.freq, seq, index})
		seq++
	}

	for _, e := range ft.entries {
		enqueue(treeNode{freq: e.Count, symbol: symbol(e.Symbol), left: noNode, right: noNode})
	}

	for queue.Len() > 1 {
		left := heap.Pop(&queue).(queueItem)
		right := heap.Pop(&queue).(queueItem)
		enqueue(treeNode{freq: left.freq + right.freq, left: left.index, right: right.index})
	}

	tree.root = heap.Pop(&queue).(queueItem).index
	return tree
}

// Len returns the number of nodes in the tree.
func (tree *Tree) Len() int {
	return len(tree.nodes)
}

// Leaves returns the number of leaves, which equals the number of distinct symbols.
func (tree *Tree) Leaves() int {
	return (len(tree.nodes) + 1) / 2
}

// Weight returns the frequency at the root, which is the total symbol count.
func (tree *Tree) Weight() uint64 {
	return tree.nodes[tree.root].freq
}

// child returns the child of the node at index in the direction of bit, or noNode if there is none.
func (tree *Tree) child(index nodeIndex, bit bool) nodeIndex {
	if bit {
		return tree.nodes[index].right
	}
	return tree.nodes[index].left
}

// String renders the tree sideways, one node per line, with the path bits leading to each node.  It only
// reads the tree.
func (tree *Tree) String() string {
	var sb strings.Builder
	tree.render(&sb, tree.root, "", "")
	return sb.String()
}

func (tree *Tree) render(sb *strings.Builder, index nodeIndex, indent, path string) {
	node := tree.nodes[index]
	if node.leaf() {
		fmt.Fprintf(sb, "%s%q (%d) [%s]\n", indent, rune(node.symbol), node.freq, path)
		return
	}

	fmt.Fprintf(sb, "%s* (%d)\n", indent, node.freq)
	tree.render(sb, node.left, indent+"  ", path+"0")
	tree.render(sb, node.right, indent+"  ", path+"1")
}
