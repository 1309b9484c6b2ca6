package compress

import (
	"fmt"

	"github.com/klauspost/compress/s2"

	"github.com/arloliu/otmap/errs"
)

// S2Compressor compresses payloads with S2 blocks.
//
// The block header stores the decoded length, so oversized inputs are rejected
// before any output buffer is allocated.
type S2Compressor struct {
	maxDecoded int
}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates a new S2 compressor.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress encodes data as a single S2 block. Empty input yields nil.
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	bound := s2.MaxEncodedLen(len(data))
	if bound < 0 {
		return nil, fmt.Errorf("s2 compression failed: %w", s2.ErrTooLarge)
	}

	return s2.EncodeBetter(make([]byte, bound), data), nil
}

// Decompress decodes a single S2 block.
func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	n, err := s2.DecodedLen(data)
	if err != nil {
		return nil, fmt.Errorf("s2 decompression failed: %w", err)
	}
	if limit := sizeLimit(c.maxDecoded); n > limit {
		return nil, fmt.Errorf("s2 decompression failed: %w: block declares %d bytes, limit %d",
			errs.ErrPayloadTooLarge, n, limit)
	}

	out, err := s2.Decode(make([]byte, n), data)
	if err != nil {
		return nil, fmt.Errorf("s2 decompression failed: %w", err)
	}

	return out, nil
}
