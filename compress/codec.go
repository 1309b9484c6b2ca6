package compress

import (
	"fmt"

	"github.com/arloliu/otmap/format"
)

// MaxDecompressedSize is the largest payload any codec will restore.
//
// Codecs that record the decoded size check it before allocating; the others
// stop growing their output at this bound. Either way, inputs claiming more
// fail with errs.ErrPayloadTooLarge.
const MaxDecompressedSize = 128 * 1024 * 1024

// Compressor compresses a serialized node payload.
//
// Payloads are pre-order node records: encoded values, optional colors and
// child-presence bytes. Quantized payloads of large trees are highly repetitive,
// which general-purpose compressors exploit well.
type Compressor interface {
	// Compress returns the compressed form of data. data is not modified.
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a payload produced by the matching Compressor.
//
// Implementations must be safe for concurrent use and must refuse to produce
// more than MaxDecompressedSize bytes.
type Decompressor interface {
	// Decompress returns the original payload, or an error when data is
	// corrupted, produced by another algorithm, or decodes past the size bound.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// codecs holds one shared instance per compression type. All codecs are
// stateless values, so sharing them across goroutines is safe.
var codecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// CreateCodec returns the codec for ct. target names what the codec is for,
// for example "payload", and only appears in the error for an unknown type.
func CreateCodec(ct format.CompressionType, target string) (Codec, error) {
	codec, ok := codecs[ct]
	if !ok {
		return nil, fmt.Errorf("invalid %s compression: %s", target, ct)
	}

	return codec, nil
}

// GetCodec returns the codec recorded for ct in a file header.
func GetCodec(ct format.CompressionType) (Codec, error) {
	codec, ok := codecs[ct]
	if !ok {
		return nil, fmt.Errorf("unsupported compression type: %s", ct)
	}

	return codec, nil
}

// sizeLimit resolves a per-codec bound, where zero means MaxDecompressedSize.
func sizeLimit(limit int) int {
	if limit <= 0 || limit > MaxDecompressedSize {
		return MaxDecompressedSize
	}

	return limit
}
