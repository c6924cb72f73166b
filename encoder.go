package huffpack

import (
	"bytes"
	"fmt"

	"github.com/chronos-tachyon/assert"
	"github.com/icza/bitio"
)

// EncodePayload maps symbols through the CodeBook and packs the resulting
// bits into a PackedPayload: one byte holding the pad count, followed by the
// concatenated Codes, MSB-first, with zero bits appended up to the next byte
// boundary.  An empty document yields an empty payload.
//
// Every symbol must have a Code in cb; otherwise the error wraps ErrEncode.
//
func EncodePayload(symbols []Symbol, cb *CodeBook) ([]byte, error) {
	if len(symbols) == 0 {
		return []byte{}, nil
	}

	var numBits uint64
	for index, symbol := range symbols {
		hc, found := cb.Encode(symbol)
		if !found {
			return nil, fmt.Errorf("%w: symbol %d at index %d has no code", ErrEncode, symbol, index)
		}
		numBits += uint64(hc.Size)
	}
	padCount := byte((8 - numBits%8) % 8)
	numBytes := 1 + (numBits+uint64(padCount))/8

	var buf bytes.Buffer
	buf.Grow(int(numBytes))
	buf.WriteByte(padCount)

	w := bitio.NewWriter(&buf)
	for _, symbol := range symbols {
		hc := cb.codes[symbol]
		if err := w.WriteBits(hc.Bits, hc.Size); err != nil {
			return nil, fmt.Errorf("%w: pack bits: %v", ErrEncode, err)
		}
	}
	// Close pads the final byte with zero bits.
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%w: flush bits: %v", ErrEncode, err)
	}

	assert.Assertf(uint64(buf.Len()) == numBytes, "packed %d bytes, expected %d", buf.Len(), numBytes)
	return buf.Bytes(), nil
}
