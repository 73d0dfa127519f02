package movie

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
	"go.uber.org/zap"

	"github.com/wippyai/swf/coder"
	"github.com/wippyai/swf/errors"
)

// Compression identifies how the body of a movie is stored. The value is
// the first byte of the file signature.
type Compression byte

const (
	// CompressionNone stores the body as is ("FWS").
	CompressionNone Compression = 'F'
	// CompressionZlib deflates everything after the first eight bytes ("CWS").
	CompressionZlib Compression = 'C'
	// CompressionLZMA is recognised but not supported ("ZWS").
	CompressionLZMA Compression = 'Z'
)

// String returns the human-readable name of a compression.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZlib:
		return "zlib"
	case CompressionLZMA:
		return "lzma"
	default:
		return fmt.Sprintf("unknown(%d)", byte(c))
	}
}

// ParseCompression parses a compression from its name.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "none":
		return CompressionNone, nil
	case "zlib":
		return CompressionZlib, nil
	case "lzma":
		return CompressionLZMA, nil
	default:
		return 0, fmt.Errorf("unknown compression: %q", name)
	}
}

// inflate decompresses a zlib stream, failing when the output would
// exceed limit bytes.
func inflate(data []byte, limit int) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseCompress, errors.KindInvalidData, err, "open zlib stream")
	}
	defer r.Close()

	out, err := io.ReadAll(io.LimitReader(r, int64(limit)+1))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseCompress, errors.KindInvalidData, err, "inflate body")
	}
	if len(out) > limit {
		return nil, errors.New(errors.PhaseCompress, errors.KindInvalidData).
			Detail("inflated body exceeds %d bytes", limit).
			Value(limit).
			Build()
	}
	coder.Logger().Debug("inflated movie body",
		zap.Int("compressed", len(data)),
		zap.Int("inflated", len(out)))
	return out, nil
}

// deflate compresses data as a zlib stream.
func deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseCompress, errors.KindInvalidInput, err, "open zlib writer")
	}
	if _, err := w.Write(data); err != nil {
		return nil, errors.Wrap(errors.PhaseCompress, errors.KindInvalidData, err, "deflate body")
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(errors.PhaseCompress, errors.KindInvalidData, err, "finish zlib stream")
	}
	return buf.Bytes(), nil
}
