package huffpack

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// Stats summarizes one CompressFile or DecompressFile call.
type Stats struct {
	Mode           Mode
	OriginalSize   int64
	CompressedSize int64
	Elapsed        time.Duration
}

// Ratio returns OriginalSize / CompressedSize.
func (s Stats) Ratio() float64 {
	if s.CompressedSize == 0 {
		return math.Inf(1)
	}
	return float64(s.OriginalSize) / float64(s.CompressedSize)
}

func (s Stats) fields() logrus.Fields {
	return logrus.Fields{
		"mode":           s.Mode,
		"originalSize":   s.OriginalSize,
		"compressedSize": s.CompressedSize,
		"ratio":          fmt.Sprintf("%.2f", s.Ratio()),
		"elapsed":        s.Elapsed,
	}
}

// CompressFile compresses the document at inPath and writes the serialized
// Artifact to outPath.  The output file is replaced atomically; on failure
// no output file is created and any existing one is left untouched.
func CompressFile(inPath, outPath string, opts ...Option) (Stats, error) {
	o := buildOptions(opts)
	start := time.Now()
	log := o.logger.WithFields(logrus.Fields{"op": StageCompress, "input": inPath, "output": outPath})

	data, err := os.ReadFile(inPath)
	if err != nil {
		return Stats{}, stageError(StageCompress, fmt.Errorf("%w: read input: %w", ErrIO, err))
	}
	a, err := compressBytes(data, o.mode, log)
	if err != nil {
		return Stats{}, err
	}
	raw, err := a.MarshalBinary()
	if err != nil {
		return Stats{}, stageError(StageCompress, err)
	}
	if err := writeFileAtomic(outPath, raw, 0o644); err != nil {
		return Stats{}, stageError(StageCompress, err)
	}

	stats := Stats{
		Mode:           o.mode,
		OriginalSize:   int64(len(data)),
		CompressedSize: int64(len(raw)),
		Elapsed:        time.Since(start),
	}
	log.WithFields(stats.fields()).Info("compressed file")
	return stats, nil
}

// DecompressFile reads a serialized Artifact from inPath and writes the
// decoded document to outPath, replacing it atomically.
func DecompressFile(inPath, outPath string, opts ...Option) (Stats, error) {
	o := buildOptions(opts)
	start := time.Now()
	log := o.logger.WithFields(logrus.Fields{"op": StageDecompress, "input": inPath, "output": outPath})

	raw, err := os.ReadFile(inPath)
	if err != nil {
		return Stats{}, stageError(StageDecompress, fmt.Errorf("%w: read input: %w", ErrIO, err))
	}
	var a Artifact
	if err := a.UnmarshalBinary(raw); err != nil {
		return Stats{}, stageError(StageDecompress, err)
	}
	data, err := decompressBytes(&a, log)
	if err != nil {
		return Stats{}, err
	}
	if err := writeFileAtomic(outPath, data, 0o644); err != nil {
		return Stats{}, stageError(StageDecompress, err)
	}

	stats := Stats{
		Mode:           a.Mode,
		OriginalSize:   int64(len(data)),
		CompressedSize: int64(len(raw)),
		Elapsed:        time.Since(start),
	}
	log.WithFields(stats.fields()).Info("decompressed file")
	return stats, nil
}

// writeFileAtomic writes data to a temporary file next to path, then renames
// it over path.  The temporary file is removed if any step fails.
func writeFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create output: %w", ErrIO, err)
	}
	tmpName := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = f.Write(data); err != nil {
		return fmt.Errorf("%w: write output: %w", ErrIO, err)
	}
	if err = f.Sync(); err != nil {
		return fmt.Errorf("%w: sync output: %w", ErrIO, err)
	}
	if err = f.Chmod(perm); err != nil {
		return fmt.Errorf("%w: chmod output: %w", ErrIO, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("%w: close output: %w", ErrIO, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: rename output: %w", ErrIO, err)
	}
	return nil
}
