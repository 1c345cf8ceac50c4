// Package compress is the task body run by the scheduler for every input file:
// read, re-encode by extension, and write the result next to the input when it
// is smaller.
package compress

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/tupyy/imgsqueeze/internal/config"
	srvErrors "github.com/tupyy/imgsqueeze/pkg/errors"
	"github.com/tupyy/imgsqueeze/pkg/scheduler"
)

type Compressor struct {
	outputFormat string
	jpegQuality  int
	pngStrip     config.StripMode
	writer       *atomicWriter
	log          *zap.SugaredLogger
}

func NewCompressor(cfg *config.Configuration) *Compressor {
	return &Compressor{
		outputFormat: cfg.EffectiveOutputFormat(),
		jpegQuality:  cfg.JPEG.Quality,
		pngStrip:     cfg.PNG.Strip,
		writer:       newAtomicWriter(cfg.Run.WriteRetries),
		log:          zap.S().Named("compress"),
	}
}

// Compress processes one file. The output is written only when it is smaller than
// the input; the returned sizes are reported either way.
func (c *Compressor) Compress(ctx context.Context, path string) (scheduler.Sizes, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return scheduler.Sizes{}, srvErrors.NewUnreadableInputError(path, err)
	}
	if fi.IsDir() {
		return scheduler.Sizes{}, srvErrors.NewDirectoryInputError(path)
	}

	stem, ext := splitName(path)
	encode, format, err := c.encoderFor(ext)
	if err != nil {
		return scheduler.Sizes{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return scheduler.Sizes{}, srvErrors.NewUnreadableInputError(path, err)
	}

	out, err := encode(data)
	if err != nil {
		return scheduler.Sizes{}, srvErrors.NewEncodeFailedError(format, err)
	}

	sizes := scheduler.Sizes{Before: uint64(len(data)), After: uint64(len(out))}
	if !sizes.Shrunk() {
		c.log.Debugw("output not smaller, skipping write", "path", path, "before", sizes.Before, "after", sizes.After)
		return sizes, nil
	}

	dst := filepath.Join(filepath.Dir(path), OutputName(c.outputFormat, stem, ext))
	if err := c.writer.Write(ctx, dst, out, fi.Mode().Perm()); err != nil {
		return scheduler.Sizes{}, srvErrors.NewWriteFailedError(dst, err)
	}

	c.log.Debugw("compressed", "path", path, "output", dst, "before", sizes.Before, "after", sizes.After)
	return sizes, nil
}

func (c *Compressor) encoderFor(ext string) (func([]byte) ([]byte, error), string, error) {
	switch strings.ToLower(ext) {
	case "jpg", "jpeg":
		return func(b []byte) ([]byte, error) { return compressJPEG(b, c.jpegQuality) }, "jpeg", nil
	case "png":
		return func(b []byte) ([]byte, error) { return compressPNG(b, c.pngStrip) }, "png", nil
	default:
		return nil, "", srvErrors.NewUnsupportedFormatError(ext)
	}
}
