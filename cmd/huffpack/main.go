// Command huffpack compresses and decompresses documents with Huffman codes.
//
//	huffpack [-mode text|binary] [-v] [-q] compress <input> <output>
//	huffpack [-v] [-q] decompress <input> <output>
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/chronos-tachyon/huffpack"
)

const usageText = `usage: huffpack [flags] compress <input> <output>
       huffpack [flags] decompress <input> <output>

flags:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("huffpack", flag.ContinueOnError)
	fs.SetOutput(stderr)
	mode := fs.String("mode", "text", "compress input as: text (UTF-8 code points) / binary (bytes)")
	verbose := fs.Bool("v", false, "log per-stage details")
	quiet := fs.Bool("q", false, "log errors only")
	fs.Usage = func() {
		fmt.Fprint(stderr, usageText)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	log := logrus.New()
	log.SetOutput(stderr)
	switch {
	case *quiet:
		log.SetLevel(logrus.ErrorLevel)
	case *verbose:
		log.SetLevel(logrus.DebugLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}

	if fs.NArg() != 3 {
		fs.Usage()
		return 2
	}
	command, input, output := fs.Arg(0), fs.Arg(1), fs.Arg(2)

	m, err := huffpack.ParseMode(*mode)
	if err != nil {
		log.WithError(err).Error("invalid -mode")
		return 2
	}
	opts := []huffpack.Option{huffpack.WithMode(m), huffpack.WithLogger(log)}

	var stats huffpack.Stats
	switch command {
	case "compress":
		stats, err = huffpack.CompressFile(input, output, opts...)
	case "decompress":
		stats, err = huffpack.DecompressFile(input, output, opts...)
	default:
		log.Errorf("unknown command %q", command)
		fs.Usage()
		return 2
	}
	if err != nil {
		log.WithError(err).Errorf("%s failed", command)
		return 1
	}

	log.Infof("%sed %s to %s", command, input, output)
	log.Infof("Original size: %d bytes", stats.OriginalSize)
	log.Infof("Compressed size: %d bytes", stats.CompressedSize)
	log.Infof("Compression ratio: %.2f", stats.Ratio())
	log.Infof("Time taken: %.4f seconds", stats.Elapsed.Seconds())
	return 0
}
