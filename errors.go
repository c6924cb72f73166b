package huffpack

import (
	"errors"
	"fmt"
)

var (
	// ErrIO indicates that the input could not be read or the output could
	// not be written.
	ErrIO = errors.New("I/O failure")

	// ErrInput indicates that the input document cannot be represented in
	// the requested Mode, e.g. invalid UTF-8 in ModeText.
	ErrInput = errors.New("unsupported input")

	// ErrEncode indicates that a symbol could not be encoded with the
	// CodeBook at hand.
	ErrEncode = errors.New("encode failure")

	// ErrFormat indicates that an Artifact could not be deserialized, or
	// that its structure is inconsistent.
	ErrFormat = errors.New("malformed artifact")

	// ErrDecode indicates that the packed payload does not resolve to a
	// sequence of symbols under its CodeBook.
	ErrDecode = errors.New("decode failure")
)

// Stage names the half of the pipeline in which an error occurred.
type Stage byte

const (
	StageCompress Stage = iota
	StageDecompress
)

// String returns the name of the stage.
func (s Stage) String() string {
	switch s {
	case StageCompress:
		return "compress"
	case StageDecompress:
		return "decompress"
	default:
		return fmt.Sprintf("Stage(%d)", byte(s))
	}
}

// StageError reports which half of the pipeline failed, and why.  Use
// errors.Is with ErrIO, ErrInput, ErrEncode, ErrFormat, or ErrDecode to
// classify the cause.
type StageError struct {
	Stage Stage
	Err   error
}

// Error fulfills the error interface.
func (e *StageError) Error() string {
	return "huffpack: " + e.Stage.String() + ": " + e.Err.Error()
}

// Unwrap returns the underlying cause.
func (e *StageError) Unwrap() error {
	return e.Err
}

func stageError(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	var se *StageError
	if errors.As(err, &se) {
		return err
	}
	return &StageError{Stage: stage, Err: err}
}

var (
	_ error                       = (*StageError)(nil)
	_ interface{ Unwrap() error } = (*StageError)(nil)
	_ fmt.Stringer                = Stage(0)
)
