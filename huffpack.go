package huffpack

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// Compress encodes a document into an Artifact.  Every symbol must be legal
// in the given mode.  An empty document yields an Artifact with an empty
// CodeBook and an empty payload.
//
// Errors are *StageError values for StageCompress.
func Compress(symbols []Symbol, mode Mode) (*Artifact, error) {
	return compress(symbols, mode, discardLogger())
}

// Decompress decodes an Artifact back into the exact document that produced
// it.
//
// Errors are *StageError values for StageDecompress, wrapping ErrFormat if
// the Artifact is inconsistent and ErrDecode if the payload does not decode.
func Decompress(a *Artifact) ([]Symbol, error) {
	return decompress(a, discardLogger())
}

// CompressText compresses UTF-8 text in ModeText.  Invalid UTF-8 is rejected
// with ErrInput.
func CompressText(text []byte) (*Artifact, error) {
	return compressBytes(text, ModeText, discardLogger())
}

// CompressBytes compresses arbitrary data in ModeBinary.
func CompressBytes(data []byte) (*Artifact, error) {
	return compressBytes(data, ModeBinary, discardLogger())
}

// DecompressToBytes decompresses an Artifact and returns the document in the
// byte form dictated by the Artifact's Mode.
func DecompressToBytes(a *Artifact) ([]byte, error) {
	return decompressBytes(a, discardLogger())
}

// CompressReader reads an entire document from r and compresses it.
func CompressReader(r io.Reader, opts ...Option) (*Artifact, error) {
	o := buildOptions(opts)
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, stageError(StageCompress, fmt.Errorf("%w: read input: %w", ErrIO, err))
	}
	return compressBytes(data, o.mode, o.logger)
}

// DecompressTo decompresses an Artifact and writes the document to w.
func DecompressTo(w io.Writer, a *Artifact, opts ...Option) (int64, error) {
	o := buildOptions(opts)
	data, err := decompressBytes(a, o.logger)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	if err != nil {
		return int64(n), stageError(StageDecompress, fmt.Errorf("%w: write output: %w", ErrIO, err))
	}
	return int64(n), nil
}

func compressBytes(data []byte, mode Mode, log logrus.FieldLogger) (*Artifact, error) {
	var symbols []Symbol
	switch mode {
	case ModeText:
		var err error
		symbols, err = SymbolsFromText(data)
		if err != nil {
			return nil, stageError(StageCompress, err)
		}
	case ModeBinary:
		symbols = SymbolsFromBytes(data)
	default:
		return nil, stageError(StageCompress, fmt.Errorf("%w: unknown mode %d", ErrInput, byte(mode)))
	}
	return compress(symbols, mode, log)
}

func compress(symbols []Symbol, mode Mode, log logrus.FieldLogger) (*Artifact, error) {
	if !mode.valid() {
		return nil, stageError(StageCompress, fmt.Errorf("%w: unknown mode %d", ErrInput, byte(mode)))
	}
	for index, symbol := range symbols {
		if !mode.ValidSymbol(symbol) {
			return nil, stageError(StageCompress, fmt.Errorf("%w: symbol %d at index %d out of range for %v mode", ErrInput, symbol, index, mode))
		}
	}

	ft := CountFrequencies(symbols)
	log.WithFields(logrus.Fields{
		"symbols":  ft.Total(),
		"distinct": ft.Len(),
	}).Debug("counted symbol frequencies")

	cb := NewCodeBook(BuildTree(ft))
	log.WithFields(logrus.Fields{
		"entries": cb.Len(),
		"minSize": cb.MinSize(),
		"maxSize": cb.MaxSize(),
		"bits":    cb.EncodedSize(ft),
	}).Debug("generated codebook")

	payload, err := EncodePayload(symbols, cb)
	if err != nil {
		return nil, stageError(StageCompress, err)
	}
	log.WithField("bytes", len(payload)).Debug("packed payload")

	return &Artifact{Mode: mode, CodeBook: cb, Payload: payload}, nil
}

func decompress(a *Artifact, log logrus.FieldLogger) ([]Symbol, error) {
	if a == nil {
		return nil, stageError(StageDecompress, fmt.Errorf("%w: nil artifact", ErrFormat))
	}
	if err := a.Validate(); err != nil {
		return nil, stageError(StageDecompress, err)
	}
	log.WithFields(logrus.Fields{
		"mode":    a.Mode,
		"entries": a.codeBook().Len(),
		"bytes":   len(a.Payload),
	}).Debug("decoding payload")

	symbols, err := DecodePayload(a.Payload, a.codeBook())
	if err != nil {
		return nil, stageError(StageDecompress, err)
	}
	log.WithField("symbols", len(symbols)).Debug("decoded payload")
	return symbols, nil
}

func decompressBytes(a *Artifact, log logrus.FieldLogger) ([]byte, error) {
	symbols, err := decompress(a, log)
	if err != nil {
		return nil, err
	}
	out, err := AppendSymbols(make([]byte, 0, len(symbols)), a.Mode, symbols)
	if err != nil {
		return nil, stageError(StageDecompress, err)
	}
	return out, nil
}
