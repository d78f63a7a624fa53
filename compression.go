package schooldb

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/franklin0603/schooldb/domain/model"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// compressionHandler wraps readers and writers for one compression type.
type compressionHandler struct {
	compressionType model.CompressionType
}

func newCompressionHandler(compressionType model.CompressionType) *compressionHandler {
	return &compressionHandler{compressionType: compressionType}
}

// createReader wraps reader with a decompression reader if needed.
// The returned cleanup function releases decoder resources only; it never
// closes the underlying reader.
func (h *compressionHandler) createReader(reader io.Reader) (io.Reader, func() error, error) {
	switch h.compressionType {
	case model.CompressionNone:
		return reader, func() error { return nil }, nil

	case model.CompressionGZ:
		gzReader, err := gzip.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return gzReader, gzReader.Close, nil

	case model.CompressionBZ2:
		// bzip2.NewReader doesn't need closing
		return bzip2.NewReader(reader), func() error { return nil }, nil

	case model.CompressionXZ:
		xzReader, err := xz.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		return xzReader, func() error { return nil }, nil

	case model.CompressionZSTD:
		decoder, err := zstd.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		return decoder, func() error {
			decoder.Close()
			return nil
		}, nil

	default:
		return nil, nil, fmt.Errorf("%w for reading: %v", ErrUnsupportedCompression, h.compressionType)
	}
}

// checkWritable reports whether output can be compressed with this type.
func (h *compressionHandler) checkWritable() error {
	switch h.compressionType {
	case model.CompressionNone, model.CompressionGZ, model.CompressionXZ, model.CompressionZSTD:
		return nil
	default:
		// bzip2 has no writer in the standard library
		return fmt.Errorf("%w for writing: %v", ErrUnsupportedCompression, h.compressionType)
	}
}

// createWriter wraps writer with a compression writer if needed. The cleanup
// function flushes the compressor; it never closes the underlying writer.
func (h *compressionHandler) createWriter(writer io.Writer) (io.Writer, func() error, error) {
	switch h.compressionType {
	case model.CompressionNone:
		return writer, func() error { return nil }, nil

	case model.CompressionGZ:
		gzWriter := gzip.NewWriter(writer)
		return gzWriter, gzWriter.Close, nil

	case model.CompressionXZ:
		xzWriter, err := xz.NewWriter(writer)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create xz writer: %w", err)
		}
		return xzWriter, xzWriter.Close, nil

	case model.CompressionZSTD:
		zstdWriter, err := zstd.NewWriter(writer)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create zstd writer: %w", err)
		}
		return zstdWriter, zstdWriter.Close, nil

	default:
		return nil, nil, h.checkWritable()
	}
}
