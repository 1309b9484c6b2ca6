//go:build !cgo || !gozstd

package compress

import (
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/arloliu/otmap/errs"
)

// zstdDecoders reuses decoders, which allocate nothing after warmup. Every
// decoder refuses to produce more than MaxDecompressedSize bytes.
var zstdDecoders = sync.Pool{
	New: func() any {
		d, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
			zstd.WithDecoderMaxMemory(MaxDecompressedSize),
		)
		if err != nil {
			panic(fmt.Sprintf("zstd: decoder setup: %v", err))
		}

		return d
	},
}

// zstdEncoders reuses encoders. Frames carry no CRC since the file header
// already checksums the stored payload.
var zstdEncoders = sync.Pool{
	New: func() any {
		e, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderCRC(false),
		)
		if err != nil {
			panic(fmt.Sprintf("zstd: encoder setup: %v", err))
		}

		return e
	},
}

// Compress encodes data as a single zstd frame that records its content size.
// Empty input yields nil.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	e, _ := zstdEncoders.Get().(*zstd.Encoder)
	out := e.EncodeAll(data, nil)
	zstdEncoders.Put(e)

	return out, nil
}

// Decompress decodes zstd frames.
func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	limit := sizeLimit(c.maxDecoded)
	size, _, err := declaredZstdSize(data, limit)
	if err != nil {
		return nil, err
	}

	d, _ := zstdDecoders.Get().(*zstd.Decoder)
	out, err := d.DecodeAll(data, make([]byte, 0, size))
	zstdDecoders.Put(d)

	if errors.Is(err, zstd.ErrDecoderSizeExceeded) {
		return nil, fmt.Errorf("zstd decompression failed: %w: %w", errs.ErrPayloadTooLarge, err)
	}
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}
	if err := checkDecodedSize(out, limit); err != nil {
		return nil, err
	}

	return out, nil
}
