package huffpack

import (
	"fmt"
	"strconv"
)

// MaxCodeSize is the longest Code, in bits, that this package can represent.
const MaxCodeSize = 64

// Code represents a sequence of bits.
type Code struct {
	// Size holds the number of valid bits.
	Size byte

	// Bits holds the actual values of the bits.  The most significant of
	// the Size low bits is the first bit, matching the order in which the
	// bits are packed into the payload.
	Bits uint64
}

// MakeCode is a convenience function that constructs a Code.
func MakeCode(size byte, bits uint64) Code {
	return Code{Size: size, Bits: bits}
}

// ParseCode parses a string of '0' and '1' characters into a Code.
func ParseCode(str string) (Code, error) {
	if len(str) > MaxCodeSize {
		return Code{}, fmt.Errorf("code %q is longer than %d bits", str, MaxCodeSize)
	}
	var hc Code
	for i := 0; i < len(str); i++ {
		switch str[i] {
		case '0':
			hc = hc.Append(false)
		case '1':
			hc = hc.Append(true)
		default:
			return Code{}, fmt.Errorf("invalid character %q in code %q", str[i], str)
		}
	}
	return hc, nil
}

// Append returns this Code extended by one bit.
func (hc Code) Append(bit bool) Code {
	hc.Size++
	hc.Bits <<= 1
	if bit {
		hc.Bits |= 1
	}
	return hc
}

// Prefix returns the first n bits of this Code.
func (hc Code) Prefix(n byte) Code {
	if n >= hc.Size {
		return hc
	}
	return Code{Size: n, Bits: hc.Bits >> (hc.Size - n)}
}

// HasPrefix reports whether p is a prefix of this Code.  Every Code is a
// prefix of itself.
func (hc Code) HasPrefix(p Code) bool {
	return p.Size <= hc.Size && hc.Prefix(p.Size) == p
}

// Valid reports whether Size is in range and Bits holds no bits beyond Size.
func (hc Code) Valid() bool {
	if hc.Size == 0 || hc.Size > MaxCodeSize {
		return false
	}
	return hc.Size == MaxCodeSize || hc.Bits>>hc.Size == 0
}

// String returns the string representation of this Code.
func (hc Code) String() string {
	if hc.Size == 0 {
		return "\"\""
	}
	format := "%0" + strconv.FormatUint(uint64(hc.Size), 10) + "b"
	return strconv.Quote(fmt.Sprintf(format, hc.Bits))
}

var _ fmt.Stringer = Code{}
