package huffpack

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/icza/bitio"
)

// Decoder resolves a stream of bits into Symbols under a CodeBook.
//
// Besides one slot per Code, the Decoder's table holds one slot for every
// proper prefix of a Code, recording how many more bits a match needs.  A
// candidate that has no slot at all cannot be completed into any Code.
type Decoder struct {
	table   map[Code]decoderData
	minSize byte
	maxSize byte
}

// NewDecoder constructs a Decoder for the given CodeBook.
func NewDecoder(cb *CodeBook) *Decoder {
	numSymbols := uint32(cb.Len())
	if numSymbols == 0 {
		return &Decoder{}
	}

	// len(table) is approximately n×log2(n) when filled.
	numTableSlots := numSymbols * log2uint32(numSymbols)

	d := &Decoder{
		table:   make(map[Code]decoderData, numTableSlots),
		minSize: cb.minSize,
		maxSize: cb.maxSize,
	}
	for _, entry := range cb.entries {
		fillTable(d.table, entry.Symbol, entry.Code)
	}
	return d
}

// Decode attempts to decode a Huffman code into a Symbol.
//
// If the Decode is completely successful, symbol >= 0 and minSize == maxSize.
//
// If the Decode fails due to insufficient bits, symbol == InvalidSymbol and at
// least (minSize - hc.Size) additional bits are required to decode this
// symbol.  No more than (maxSize - hc.Size) additional bits will be required.
//
// If the Decode fails due to unreasonable input, symbol == InvalidSymbol and
// minSize == maxSize == 0.
//
func (d *Decoder) Decode(hc Code) (symbol Symbol, minSize byte, maxSize byte) {
	dd, found := d.table[hc]
	if !found {
		return InvalidSymbol, 0, 0
	}
	return dd.symbol, dd.minSize, dd.maxSize
}

// MinSize is the bit length of the shortest legal code.
func (d *Decoder) MinSize() byte {
	return d.minSize
}

// MaxSize is the bit length of the longest legal code.
func (d *Decoder) MaxSize() byte {
	return d.maxSize
}

// Dump writes a programmer-readable debugging dump of the Decoder's current
// state to the given writer.
func (d *Decoder) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("Decoder{\n")
	fmt.Fprintf(&buf, "\tMinSize() = %d\n", d.minSize)
	fmt.Fprintf(&buf, "\tMaxSize() = %d\n", d.maxSize)
	keys := make(byCodeKey, 0, len(d.table))
	for hc := range d.table {
		keys = append(keys, hc)
	}
	keys.Sort()
	for _, hc := range keys {
		dd := d.table[hc]
		fmt.Fprintf(&buf, "\tDecode(%s) = {%d, %d, %d}\n", hc, dd.symbol, dd.minSize, dd.maxSize)
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}

// DecodePayload unpacks a PackedPayload produced by EncodePayload and
// returns the symbols it encodes.
//
// The first byte holds the number of zero bits (0..7) that were appended
// after the last Code; the remaining bytes hold the Codes, MSB-first.  An
// empty payload decodes to an empty document.  Every failure wraps ErrDecode.
//
func DecodePayload(payload []byte, cb *CodeBook) ([]Symbol, error) {
	if len(payload) == 0 {
		return nil, nil
	}

	padCount := payload[0]
	if padCount > 7 {
		return nil, fmt.Errorf("%w: pad count %d is out of range 0..7", ErrDecode, padCount)
	}
	availBits := uint64(len(payload)-1) * 8
	if uint64(padCount) > availBits {
		return nil, fmt.Errorf("%w: pad count %d exceeds the %d available bits", ErrDecode, padCount, availBits)
	}
	numBits := availBits - uint64(padCount)
	if numBits != 0 && cb.Len() == 0 {
		return nil, fmt.Errorf("%w: %d bits of payload but the codebook is empty", ErrDecode, numBits)
	}

	d := NewDecoder(cb)
	r := bitio.NewReader(bytes.NewReader(payload[1:]))
	out := make([]Symbol, 0, numBits/uint64(d.maxSize|1))

	var hc Code
	var start uint64
	for offset := uint64(0); offset < numBits; offset++ {
		bit, err := r.ReadBool()
		if err != nil {
			return nil, fmt.Errorf("%w: read bit %d of %d: %v", ErrDecode, offset, numBits, err)
		}
		if hc.Size == 0 {
			start = offset
		}
		hc = hc.Append(bit)

		symbol, minSize, _ := d.Decode(hc)
		switch {
		case symbol >= 0:
			out = append(out, symbol)
			hc = Code{}
		case minSize == 0:
			return nil, fmt.Errorf("%w: bits %s at bit offset %d match no code", ErrDecode, hc, start)
		}
	}
	if hc.Size != 0 {
		return nil, fmt.Errorf("%w: payload ends inside a code: %d trailing bits %s at bit offset %d", ErrDecode, hc.Size, hc, start)
	}

	if padCount != 0 {
		padding, err := r.ReadBits(padCount)
		if err != nil {
			return nil, fmt.Errorf("%w: read %d padding bits: %v", ErrDecode, padCount, err)
		}
		if padding != 0 {
			return nil, fmt.Errorf("%w: nonzero padding bits %#x", ErrDecode, padding)
		}
	}
	return out, nil
}

// PadCount returns the number of padding bits recorded in the header of a
// PackedPayload.
func PadCount(payload []byte) (byte, error) {
	if len(payload) == 0 {
		return 0, nil
	}
	if padCount := payload[0]; padCount <= 7 {
		return padCount, nil
	}
	return 0, fmt.Errorf("%w: pad count %d is out of range 0..7", ErrDecode, payload[0])
}

type decoderData struct {
	symbol  Symbol
	minSize byte
	maxSize byte
}

// fillTable records hc → symbol, then walks up through the prefixes of hc,
// widening each prefix's (minSize, maxSize) range to cover both of its
// one-bit extensions.
func fillTable(table map[Code]decoderData, symbol Symbol, hc Code) {
	dd := decoderData{symbol, hc.Size, hc.Size}
	table[hc] = dd

	for hc.Size != 0 {
		// For each hc "...xa", compute "...xA" where A = NOT a.

		sibling := Code{Size: hc.Size, Bits: hc.Bits ^ 1}

		// Merge the dd's from "...xa" (dd) and "...xA" (ddSibling)
		// into ddNew (the new parent for dd and ddSibling).

		ddNew := decoderData{InvalidSymbol, dd.minSize, dd.maxSize}
		if ddSibling, found := table[sibling]; found {
			if ddNew.minSize > ddSibling.minSize {
				ddNew.minSize = ddSibling.minSize
			}
			if ddNew.maxSize < ddSibling.maxSize {
				ddNew.maxSize = ddSibling.maxSize
			}
		}

		// Mutate hc from "...xa" to "...x".

		hc = hc.Prefix(hc.Size - 1)

		// If table[hc] already equals ddNew, we can stop recursing.

		if ddOld, found := table[hc]; found && ddOld == ddNew {
			break
		}

		// Update table[hc] with ddNew and continue recursing.

		table[hc] = ddNew
		dd = ddNew
	}
}

// type byCodeKey {{{

type byCodeKey []Code

func (list byCodeKey) Sort() {
	sort.Sort(list)
}

func (list byCodeKey) Len() int {
	return len(list)
}

func (list byCodeKey) Swap(i, j int) {
	list[i], list[j] = list[j], list[i]
}

func (list byCodeKey) Less(i, j int) bool {
	a, b := list[i], list[j]
	as, ab := a.Size, a.Bits
	bs, bb := b.Size, b.Bits
	if as != bs {
		return as < bs
	}
	return ab < bb
}

var _ sort.Interface = byCodeKey(nil)

// }}}
