//go:build cgo && gozstd

package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/valyala/gozstd"
)

// zstdLevel matches the default level of the pure Go backend.
const zstdLevel = 3

// Compress encodes data as a single zstd frame. Empty input yields nil.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.CompressLevel(nil, data, zstdLevel), nil
}

// Decompress decodes zstd frames.
//
// Frames that record their content size decode in one call into a buffer of
// that size. Others stream through a reader cut off one byte past the limit.
func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	limit := sizeLimit(c.maxDecoded)
	size, known, err := declaredZstdSize(data, limit)
	if err != nil {
		return nil, err
	}

	var out []byte
	if known {
		out, err = gozstd.Decompress(make([]byte, 0, size), data)
	} else {
		zr := gozstd.NewReader(bytes.NewReader(data))
		out, err = io.ReadAll(io.LimitReader(zr, int64(limit)+1))
		zr.Release()
	}
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}
	if err := checkDecodedSize(out, limit); err != nil {
		return nil, err
	}

	return out, nil
}
