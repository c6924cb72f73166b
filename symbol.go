package huffpack

import (
	"fmt"
	"math"
	"unicode/utf8"
)

// Symbol represents a symbol in an arbitrary alphabet.  Negative symbols are
// not valid.
//
// In ModeText a Symbol is a Unicode code point; in ModeBinary it is a byte
// value.
type Symbol int32

// MaxSymbol is the maximum valid symbol.
const MaxSymbol = Symbol(math.MaxInt32)

// InvalidSymbol is returned by some functions to clearly indicate that no
// symbol is being returned.
const InvalidSymbol = Symbol(-1)

// Mode selects how a document's bytes are split into Symbols.
type Mode byte

const (
	// ModeText treats the document as UTF-8 text, one Symbol per code point.
	ModeText Mode = iota

	// ModeBinary treats the document as raw bytes, one Symbol per byte.
	ModeBinary
)

// String returns the name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeText:
		return "text"
	case ModeBinary:
		return "binary"
	default:
		return fmt.Sprintf("Mode(%d)", byte(m))
	}
}

// ParseMode is the inverse of Mode.String.
func ParseMode(str string) (Mode, error) {
	switch str {
	case "text":
		return ModeText, nil
	case "binary":
		return ModeBinary, nil
	default:
		return 0, fmt.Errorf("%w: unknown mode %q", ErrInput, str)
	}
}

// MaxSymbol returns the largest Symbol that is legal in this mode.
func (m Mode) MaxSymbol() Symbol {
	if m == ModeBinary {
		return 0xff
	}
	return utf8.MaxRune
}

// ValidSymbol reports whether symbol is legal in this mode.  Surrogate
// halves are not legal in ModeText, since they have no UTF-8 encoding.
func (m Mode) ValidSymbol(symbol Symbol) bool {
	if m == ModeBinary {
		return symbol >= 0 && symbol <= 0xff
	}
	return utf8.ValidRune(rune(symbol))
}

func (m Mode) valid() bool {
	return m == ModeText || m == ModeBinary
}

var _ fmt.Stringer = Mode(0)

// SymbolsFromText splits UTF-8 text into one Symbol per code point.  Invalid
// UTF-8 is rejected rather than replaced, so that decompression reproduces
// the input exactly.
func SymbolsFromText(text []byte) ([]Symbol, error) {
	out := make([]Symbol, 0, utf8.RuneCount(text))
	for offset := 0; offset < len(text); {
		r, size := utf8.DecodeRune(text[offset:])
		if r == utf8.RuneError && size <= 1 {
			return nil, fmt.Errorf("%w: invalid UTF-8 at byte offset %d", ErrInput, offset)
		}
		out = append(out, Symbol(r))
		offset += size
	}
	return out, nil
}

// SymbolsFromBytes returns one Symbol per byte.
func SymbolsFromBytes(data []byte) []Symbol {
	out := make([]Symbol, len(data))
	for i, b := range data {
		out[i] = Symbol(b)
	}
	return out
}

// AppendSymbols appends the byte form of symbols to dst, as UTF-8 in
// ModeText or as raw bytes in ModeBinary.
func AppendSymbols(dst []byte, mode Mode, symbols []Symbol) ([]byte, error) {
	for index, symbol := range symbols {
		if !mode.ValidSymbol(symbol) {
			return dst, fmt.Errorf("%w: symbol %d at index %d out of range for %v mode", ErrInput, symbol, index, mode)
		}
		if mode == ModeBinary {
			dst = append(dst, byte(symbol))
			continue
		}
		dst = utf8.AppendRune(dst, rune(symbol))
	}
	return dst, nil
}
