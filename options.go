package huffpack

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Option configures CompressReader, DecompressTo, CompressFile, and
// DecompressFile.
type Option func(*options)

type options struct {
	mode   Mode
	logger logrus.FieldLogger
}

// WithMode selects how the input document is split into Symbols.  The
// default is ModeText.  Decompression always uses the Artifact's own Mode.
func WithMode(mode Mode) Option {
	return func(o *options) {
		o.mode = mode
	}
}

// WithLogger sets the logger that receives per-stage debug entries and the
// per-file summary.  By default nothing is logged.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{mode: ModeText, logger: discardLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
