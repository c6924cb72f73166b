package huffpack

import (
	"bytes"
	"container/heap"
	"fmt"
	"io"
	"math"

	"github.com/chronos-tachyon/assert"
)

// Tree is a Huffman tree stored as an index-addressed arena.  Leaves occupy
// the first Len() slots, in order of the symbols' first occurrence; each
// internal node is appended after the two nodes it merges, and the root is
// always the last node.
type Tree struct {
	nodes []treeNode
}

type treeNode struct {
	symbol Symbol
	freq   uint64
	zero   int32
	one    int32
}

const noChild = int32(-1)

func (node treeNode) isLeaf() bool {
	return node.zero == noChild
}

// BuildTree builds the Huffman tree for the given frequencies.  It returns
// nil if the table is empty, and a tree consisting of a single leaf if the
// table has exactly one entry.
//
// Nodes of equal frequency are merged in order of creation: leaves in order
// of their symbol's first occurrence, then internal nodes in the order they
// were made.  The first node popped becomes the zero branch.  This makes the
// tree shape, and thus the compressed bits, a pure function of the input.
//
func BuildTree(ft *FrequencyTable) *Tree {
	numLeaves := ft.Len()
	if numLeaves == 0 {
		return nil
	}
	assert.Assertf(numLeaves <= math.MaxInt32/2, "too many distinct symbols: %d", numLeaves)

	nodes := make([]treeNode, 0, 2*numLeaves-1)
	h := freqHeap{list: make([]nodeAndFreq, 0, numLeaves)}
	for _, symbol := range ft.order {
		freq := ft.counts[symbol]
		h.list = append(h.list, nodeAndFreq{int32(len(nodes)), freq})
		nodes = append(nodes, treeNode{symbol: symbol, freq: freq, zero: noChild, one: noChild})
	}
	h.Init()

	for h.Len() > 1 {
		a := heap.Pop(&h).(nodeAndFreq)
		b := heap.Pop(&h).(nodeAndFreq)

		// Compute freqSum using saturating addition
		freqSum := a.freq + b.freq
		if freqSum < a.freq {
			freqSum = math.MaxUint64
		}

		index := int32(len(nodes))
		nodes = append(nodes, treeNode{symbol: InvalidSymbol, freq: freqSum, zero: a.node, one: b.node})
		heap.Push(&h, nodeAndFreq{index, freqSum})
	}

	root := heap.Pop(&h).(nodeAndFreq)
	assert.Assertf(int(root.node) == len(nodes)-1, "root %d is not the last node of %d", root.node, len(nodes))
	assert.Assertf(len(nodes) == 2*numLeaves-1, "expected %d nodes, got %d", 2*numLeaves-1, len(nodes))

	return &Tree{nodes: nodes}
}

// Len returns the number of leaves, i.e. the number of distinct symbols.
func (t *Tree) Len() int {
	return (len(t.nodes) + 1) / 2
}

// Freq returns the frequency of the root, i.e. the number of symbols counted.
func (t *Tree) Freq() uint64 {
	return t.nodes[t.root()].freq
}

func (t *Tree) root() int32 {
	return int32(len(t.nodes) - 1)
}

// Dump writes a programmer-readable debugging dump of the Tree to the given
// writer, one node per line, indented by depth, zero branch first.
func (t *Tree) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("Tree{\n")
	var walk func(index int32, depth int)
	walk = func(index int32, depth int) {
		node := t.nodes[index]
		for i := 0; i <= depth; i++ {
			buf.WriteByte('\t')
		}
		if node.isLeaf() {
			fmt.Fprintf(&buf, "leaf %d freq %d\n", node.symbol, node.freq)
			return
		}
		fmt.Fprintf(&buf, "node freq %d\n", node.freq)
		walk(node.zero, depth+1)
		walk(node.one, depth+1)
	}
	walk(t.root(), 0)
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}

// type nodeAndFreq + type freqHeap {{{

type nodeAndFreq struct {
	node int32
	freq uint64
}

type freqHeap struct {
	list []nodeAndFreq
}

func (h *freqHeap) Init() {
	heap.Init(h)
}

func (h *freqHeap) Len() int {
	return len(h.list)
}

func (h *freqHeap) Swap(i, j int) {
	h.list[i], h.list[j] = h.list[j], h.list[i]
}

// Node indices grow with creation order, so they double as the tie-break key.
func (h *freqHeap) Less(i, j int) bool {
	a, b := h.list[i], h.list[j]
	if a.freq != b.freq {
		return a.freq < b.freq
	}
	return a.node < b.node
}

func (h *freqHeap) Push(x interface{}) {
	h.list = append(h.list, x.(nodeAndFreq))
}

func (h *freqHeap) Pop() interface{} {
	last := uint(len(h.list)) - 1
	x := h.list[last]
	h.list = h.list[:last]
	return x
}

var _ heap.Interface = (*freqHeap)(nil)

// }}}
