package huffpack

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/chronos-tachyon/assert"
)

// Entry pairs a Symbol with its Code.
type Entry struct {
	Symbol Symbol
	Code   Code
}

// CodeBook is a prefix-free mapping from Symbols to Codes, together with its
// inverse.  The zero value is an empty CodeBook.
type CodeBook struct {
	codes   map[Symbol]Code
	symbols map[Code]Symbol
	entries []Entry
	minSize byte
	maxSize byte
}

// NewCodeBook walks the given tree and assigns each leaf the path that leads
// to it: "0" for every zero branch taken and "1" for every one branch.  A
// tree consisting of a single leaf assigns that leaf the Code "0".  A nil
// tree yields an empty CodeBook.
func NewCodeBook(t *Tree) *CodeBook {
	cb := &CodeBook{}
	if t == nil {
		return cb
	}

	numLeaves := t.Len()
	cb.codes = make(map[Symbol]Code, numLeaves)
	cb.symbols = make(map[Code]Symbol, numLeaves)
	cb.entries = make([]Entry, 0, numLeaves)

	root := t.nodes[t.root()]
	if root.isLeaf() {
		cb.add(root.symbol, MakeCode(1, 0))
		cb.finish()
		return cb
	}

	// Walk the tree with an explicit stack.  Only internal nodes are ever
	// pushed, and each stack item carries the Code of the path to it.
	//
	// We use stackItem.x to keep track of where we are in the tree walk:
	//   x=0 → We just arrived at stackItem for the first time
	//   x=1 → We have already processed the zero child
	//   x=2 → We have already processed both children

	type stackItem struct {
		index int32
		code  Code
		x     byte
	}

	stack := make([]stackItem, 0, log2uint32(uint32(numLeaves))+1)

	processChild := func(parent stackItem, child int32, bit bool) {
		assert.Assertf(parent.code.Size < MaxCodeSize, "Huffman code exceeds %d bits", MaxCodeSize)
		code := parent.code.Append(bit)
		if node := t.nodes[child]; node.isLeaf() {
			cb.add(node.symbol, code)
			return
		}
		stack = append(stack, stackItem{index: child, code: code})
	}

	stack = append(stack, stackItem{index: t.root()})
	for len(stack) != 0 {
		top := &stack[len(stack)-1]
		x := top.x
		top.x++
		item := *top
		switch x {
		case 0:
			processChild(item, t.nodes[item.index].zero, false)
		case 1:
			processChild(item, t.nodes[item.index].one, true)
		case 2:
			stack = stack[:len(stack)-1]
		}
	}

	assert.Assertf(len(cb.entries) == numLeaves, "expected %d codes, got %d", numLeaves, len(cb.entries))
	cb.finish()
	return cb
}

// NewCodeBookFromEntries reconstructs a CodeBook from a list of entries,
// such as the one returned by Entries.  The entries must use valid, distinct
// Codes that form a prefix-free set, and must not repeat a Symbol.
func NewCodeBookFromEntries(entries []Entry) (*CodeBook, error) {
	cb := &CodeBook{
		codes:   make(map[Symbol]Code, len(entries)),
		symbols: make(map[Code]Symbol, len(entries)),
		entries: make([]Entry, 0, len(entries)),
	}
	for index, entry := range entries {
		if entry.Symbol < 0 {
			return nil, fmt.Errorf("entry %d: invalid symbol %d", index, entry.Symbol)
		}
		if !entry.Code.Valid() {
			return nil, fmt.Errorf("entry %d: invalid code {Size: %d, Bits: %#x} for symbol %d", index, entry.Code.Size, entry.Code.Bits, entry.Symbol)
		}
		if _, found := cb.codes[entry.Symbol]; found {
			return nil, fmt.Errorf("entry %d: duplicate symbol %d", index, entry.Symbol)
		}
		if other, found := cb.symbols[entry.Code]; found {
			return nil, fmt.Errorf("entry %d: code %s of symbol %d is already assigned to symbol %d", index, entry.Code, entry.Symbol, other)
		}
		cb.add(entry.Symbol, entry.Code)
	}
	if err := checkPrefixFree(cb.entries); err != nil {
		return nil, err
	}
	cb.finish()
	return cb, nil
}

func (cb *CodeBook) add(symbol Symbol, hc Code) {
	cb.codes[symbol] = hc
	cb.symbols[hc] = symbol
	cb.entries = append(cb.entries, Entry{symbol, hc})
}

func (cb *CodeBook) finish() {
	byCode(cb.entries).Sort()
	if len(cb.entries) != 0 {
		cb.minSize = cb.entries[0].Code.Size
		cb.maxSize = cb.entries[len(cb.entries)-1].Code.Size
	}
}

// Len returns the number of symbols in the CodeBook.
func (cb *CodeBook) Len() int {
	return len(cb.entries)
}

// Encode returns the Code assigned to symbol.
func (cb *CodeBook) Encode(symbol Symbol) (Code, bool) {
	hc, found := cb.codes[symbol]
	return hc, found
}

// Decode returns the Symbol assigned to the exact Code hc.
func (cb *CodeBook) Decode(hc Code) (Symbol, bool) {
	symbol, found := cb.symbols[hc]
	if !found {
		return InvalidSymbol, false
	}
	return symbol, true
}

// Entries returns a copy of the CodeBook's entries, sorted by Code size and
// then by Code bits.
func (cb *CodeBook) Entries() []Entry {
	out := make([]Entry, len(cb.entries))
	copy(out, cb.entries)
	return out
}

// MinSize is the bit length of the shortest legal code.
func (cb *CodeBook) MinSize() byte {
	return cb.minSize
}

// MaxSize is the bit length of the longest legal code.
func (cb *CodeBook) MaxSize() byte {
	return cb.maxSize
}

// EncodedSize returns the number of bits needed to encode a document with
// the given frequencies, excluding padding.  Symbols without a Code are not
// counted.
func (cb *CodeBook) EncodedSize(ft *FrequencyTable) uint64 {
	var total uint64
	for _, symbol := range ft.order {
		if hc, found := cb.codes[symbol]; found {
			total += ft.counts[symbol] * uint64(hc.Size)
		}
	}
	return total
}

// Dump writes a programmer-readable debugging dump of the CodeBook's current
// state to the given writer.
func (cb *CodeBook) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("CodeBook{\n")
	fmt.Fprintf(&buf, "\tMinSize() = %d\n", cb.minSize)
	fmt.Fprintf(&buf, "\tMaxSize() = %d\n", cb.maxSize)
	for _, entry := range cb.entries {
		fmt.Fprintf(&buf, "\tEncode(%d) = %s\n", entry.Symbol, entry.Code)
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}

// checkPrefixFree sorts a copy of the entries in lexicographic bit order, in
// which any Code that is a prefix of another sorts immediately before some
// Code it prefixes.
func checkPrefixFree(entries []Entry) error {
	sorted := make(byBitOrder, len(entries))
	copy(sorted, entries)
	sorted.Sort()
	for i := 1; i < len(sorted); i++ {
		a, b := sorted[i-1], sorted[i]
		if b.Code.HasPrefix(a.Code) {
			return fmt.Errorf("code %s of symbol %d is a prefix of code %s of symbol %d", a.Code, a.Symbol, b.Code, b.Symbol)
		}
	}
	return nil
}

// type byCode {{{

type byCode []Entry

func (list byCode) Sort() {
	sort.Sort(list)
}

func (list byCode) Len() int {
	return len(list)
}

func (list byCode) Swap(i, j int) {
	list[i], list[j] = list[j], list[i]
}

func (list byCode) Less(i, j int) bool {
	a, b := list[i].Code, list[j].Code
	as, ab := a.Size, a.Bits
	bs, bb := b.Size, b.Bits
	if as != bs {
		return as < bs
	}
	return ab < bb
}

var _ sort.Interface = byCode(nil)

// }}}

// type byBitOrder {{{

type byBitOrder []Entry

func (list byBitOrder) Sort() {
	sort.Sort(list)
}

func (list byBitOrder) Len() int {
	return len(list)
}

func (list byBitOrder) Swap(i, j int) {
	list[i], list[j] = list[j], list[i]
}

func (list byBitOrder) Less(i, j int) bool {
	a, b := list[i].Code, list[j].Code
	ak := a.Bits << (MaxCodeSize - uint(a.Size))
	bk := b.Bits << (MaxCodeSize - uint(b.Size))
	if ak != bk {
		return ak < bk
	}
	return a.Size < b.Size
}

var _ sort.Interface = byBitOrder(nil)

// }}}
