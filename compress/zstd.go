package compress

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/arloliu/otmap/errs"
)

// ZstdCompressor provides Zstandard compression of node payloads.
//
// Zstd gives the best ratio of the built-in codecs and suits archived maps that
// are written once and read rarely.
type ZstdCompressor struct {
	maxDecoded int
}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

// declaredZstdSize reads the content size from the first frame header of data.
// known is false when the frame does not record one.
func declaredZstdSize(data []byte, limit int) (size int, known bool, err error) {
	var h zstd.Header
	if err := h.Decode(data); err != nil {
		return 0, false, fmt.Errorf("zstd decompression failed: %w", err)
	}
	if !h.HasFCS {
		return 0, false, nil
	}
	if h.FrameContentSize > uint64(limit) {
		return 0, false, fmt.Errorf("zstd decompression failed: %w: frame declares %d bytes, limit %d",
			errs.ErrPayloadTooLarge, h.FrameContentSize, limit)
	}

	return int(h.FrameContentSize), true, nil
}

// checkDecodedSize rejects output that outgrew limit without declaring it.
func checkDecodedSize(out []byte, limit int) error {
	if len(out) > limit {
		return fmt.Errorf("zstd decompression failed: %w: %d bytes, limit %d",
			errs.ErrPayloadTooLarge, len(out), limit)
	}

	return nil
}
