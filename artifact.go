package huffpack

import (
	"bytes"
	"encoding"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

const (
	artifactMagic   = "HUFP"
	artifactVersion = uint16(1)

	maxPayloadBytes = math.MaxInt32
)

// Wire format (version 1):
//
//	magic[4]   = "HUFP"
//	version    = uint16 little-endian
//	mode       = uint8 (0 = text, 1 = binary)
//	entryCount = uvarint
//	repeat entryCount times, in CodeBook.Entries order:
//	  symbol = uvarint
//	  size   = uint8 (1..64)
//	  bits   = ceil(size/8) bytes, big-endian
//	payloadLen = uvarint
//	payload    = payloadLen bytes (pad count + packed bits)
//
// An Artifact with an empty CodeBook must have an empty payload, and vice
// versa.

// Artifact is the persisted result of compressing one document: the CodeBook
// needed to decode it, plus the packed payload.
type Artifact struct {
	Mode     Mode
	CodeBook *CodeBook
	Payload  []byte
}

// Validate checks the structural consistency of the Artifact.  It does not
// decode the payload.
func (a *Artifact) Validate() error {
	if !a.Mode.valid() {
		return fmt.Errorf("%w: unknown mode %d", ErrFormat, byte(a.Mode))
	}
	numEntries := a.codeBook().Len()
	if numEntries == 0 && len(a.Payload) != 0 {
		return fmt.Errorf("%w: empty codebook with %d bytes of payload", ErrFormat, len(a.Payload))
	}
	if numEntries != 0 && len(a.Payload) == 0 {
		return fmt.Errorf("%w: codebook of %d entries with an empty payload", ErrFormat, numEntries)
	}
	if len(a.Payload) > maxPayloadBytes {
		return fmt.Errorf("%w: payload too large: %d bytes", ErrFormat, len(a.Payload))
	}
	for _, entry := range a.codeBook().entries {
		if !a.Mode.ValidSymbol(entry.Symbol) {
			return fmt.Errorf("%w: symbol %d out of range for %v mode", ErrFormat, entry.Symbol, a.Mode)
		}
	}
	return nil
}

func (a *Artifact) codeBook() *CodeBook {
	if a.CodeBook == nil {
		return &CodeBook{}
	}
	return a.CodeBook
}

// MarshalBinary serializes the Artifact.
func (a *Artifact) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := a.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary deserializes an Artifact, rejecting trailing bytes.
func (a *Artifact) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	var tmp Artifact
	if _, err := tmp.ReadFrom(r); err != nil {
		return err
	}
	if r.Len() != 0 {
		return fmt.Errorf("%w: %d trailing bytes at offset %d", ErrFormat, r.Len(), len(data)-r.Len())
	}
	*a = tmp
	return nil
}

// WriteTo serializes the Artifact to an io.Writer.
func (a *Artifact) WriteTo(w io.Writer) (int64, error) {
	if err := a.Validate(); err != nil {
		return 0, fmt.Errorf("invalid artifact: %w", err)
	}

	entries := a.codeBook().entries

	var buf bytes.Buffer
	var scratch [binary.MaxVarintLen64]byte
	putUvarint := func(x uint64) {
		n := binary.PutUvarint(scratch[:], x)
		buf.Write(scratch[:n])
	}

	buf.WriteString(artifactMagic)
	binary.LittleEndian.PutUint16(scratch[:2], artifactVersion)
	buf.Write(scratch[:2])
	buf.WriteByte(byte(a.Mode))

	putUvarint(uint64(len(entries)))
	for _, entry := range entries {
		putUvarint(uint64(entry.Symbol))
		buf.WriteByte(entry.Code.Size)
		binary.BigEndian.PutUint64(scratch[:8], entry.Code.Bits)
		buf.Write(scratch[8-codeBytes(entry.Code.Size) : 8])
	}

	putUvarint(uint64(len(a.Payload)))
	buf.Write(a.Payload)

	n, err := buf.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("%w: write artifact: %w", ErrIO, err)
	}
	return n, nil
}

// ReadFrom deserializes an Artifact from an io.Reader.  It reads exactly the
// bytes of one Artifact and no more.
func (a *Artifact) ReadFrom(r io.Reader) (int64, error) {
	cr := &countingReader{r: r}

	var magic [4]byte
	if _, err := io.ReadFull(cr, magic[:]); err != nil {
		return cr.n, cr.readError("magic", 0, err)
	}
	if string(magic[:]) != artifactMagic {
		return cr.n, fmt.Errorf("%w: invalid magic at offset 0: %q", ErrFormat, string(magic[:]))
	}

	var header [3]byte
	if _, err := io.ReadFull(cr, header[:]); err != nil {
		return cr.n, cr.readError("header", 4, err)
	}
	if version := binary.LittleEndian.Uint16(header[0:2]); version != artifactVersion {
		return cr.n, fmt.Errorf("%w: unsupported version at offset 4: %d", ErrFormat, version)
	}
	mode := Mode(header[2])
	if !mode.valid() {
		return cr.n, fmt.Errorf("%w: unknown mode at offset 6: %d", ErrFormat, header[2])
	}
	maxSymbol := mode.MaxSymbol()

	countOffset := cr.n
	entryCount, err := binary.ReadUvarint(cr)
	if err != nil {
		return cr.n, cr.readError("entry count", countOffset, err)
	}
	if entryCount > uint64(maxSymbol)+1 {
		return cr.n, fmt.Errorf("%w: entry count at offset %d: %d exceeds the %v alphabet", ErrFormat, countOffset, entryCount, mode)
	}

	entries := make([]Entry, 0, minUint64(entryCount, 256))
	for i := uint64(0); i < entryCount; i++ {
		entryOffset := cr.n
		symbol, err := binary.ReadUvarint(cr)
		if err != nil {
			return cr.n, cr.readError(fmt.Sprintf("entry %d symbol", i), entryOffset, err)
		}
		if symbol > uint64(maxSymbol) || !mode.ValidSymbol(Symbol(symbol)) {
			return cr.n, fmt.Errorf("%w: entry %d at offset %d: symbol %d out of range for %v mode", ErrFormat, i, entryOffset, symbol, mode)
		}
		size, err := cr.ReadByte()
		if err != nil {
			return cr.n, cr.readError(fmt.Sprintf("entry %d code size", i), entryOffset, err)
		}
		if size == 0 || size > MaxCodeSize {
			return cr.n, fmt.Errorf("%w: entry %d at offset %d: code size %d out of range 1..%d", ErrFormat, i, entryOffset, size, MaxCodeSize)
		}
		var bitsBuf [8]byte
		if _, err := io.ReadFull(cr, bitsBuf[8-codeBytes(size):]); err != nil {
			return cr.n, cr.readError(fmt.Sprintf("entry %d code bits", i), entryOffset, err)
		}
		entries = append(entries, Entry{
			Symbol: Symbol(symbol),
			Code:   MakeCode(size, binary.BigEndian.Uint64(bitsBuf[:])),
		})
	}

	cb, err := NewCodeBookFromEntries(entries)
	if err != nil {
		return cr.n, fmt.Errorf("%w: codebook at offset %d: %v", ErrFormat, countOffset, err)
	}

	payloadOffset := cr.n
	payloadLen, err := binary.ReadUvarint(cr)
	if err != nil {
		return cr.n, cr.readError("payload length", payloadOffset, err)
	}
	if payloadLen > maxPayloadBytes {
		return cr.n, fmt.Errorf("%w: payload length at offset %d too large: %d", ErrFormat, payloadOffset, payloadLen)
	}

	// Copy rather than preallocate, so a corrupt length cannot force a
	// huge allocation before the data runs out.
	var payload bytes.Buffer
	if _, err := io.CopyN(&payload, cr, int64(payloadLen)); err != nil {
		return cr.n, cr.readError("payload", payloadOffset, err)
	}

	tmp := Artifact{Mode: mode, CodeBook: cb, Payload: payload.Bytes()}
	if err := tmp.Validate(); err != nil {
		return cr.n, err
	}
	*a = tmp
	return cr.n, nil
}

func codeBytes(size byte) int {
	return (int(size) + 7) / 8
}

// readError classifies a failed read: running out of bytes or a malformed
// varint is a format error, anything the underlying reader reports is I/O.
func (cr *countingReader) readError(what string, offset int64, err error) error {
	if cr.err != nil {
		return fmt.Errorf("%w: read %s at offset %d: %w", ErrIO, what, offset, cr.err)
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: truncated %s at offset %d", ErrFormat, what, offset)
	}
	return fmt.Errorf("%w: %s at offset %d: %v", ErrFormat, what, offset, err)
}

// countingReader reads one byte at a time for ReadByte, so that varint
// decoding never consumes bytes past the end of the Artifact.
type countingReader struct {
	r       io.Reader
	n       int64
	err     error
	scratch [1]byte
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	if err != nil && err != io.EOF {
		cr.err = err
	}
	return n, err
}

func (cr *countingReader) ReadByte() (byte, error) {
	if _, err := io.ReadFull(cr, cr.scratch[:]); err != nil {
		return 0, err
	}
	return cr.scratch[0], nil
}

var (
	_ io.WriterTo                = (*Artifact)(nil)
	_ io.ReaderFrom              = (*Artifact)(nil)
	_ encoding.BinaryMarshaler   = (*Artifact)(nil)
	_ encoding.BinaryUnmarshaler = (*Artifact)(nil)
	_ io.ByteReader              = (*countingReader)(nil)
)
