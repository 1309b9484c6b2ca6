// Package compress provides the payload compression codecs of the standard tree
// file layout.
//
// Compression is applied to the serialized node payload after value encoding.
// Lowering the value width (fixedpoint.Width) shrinks each record; compression
// then removes the redundancy that remains between records:
//
//   - None: No compression (fastest, largest)
//   - Zstd: Best ratio, moderate speed
//   - S2: Balanced compression and speed
//   - LZ4: Fastest decompression, moderate ratio
//
// # Usage
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	stored, err := codec.Compress(payload)
//
// The header of a standard tree file records which codec produced the payload, so
// readers pick the matching Decompressor automatically.
//
// # Zstd Backends
//
// Zstd uses github.com/klauspost/compress/zstd by default. Building with the
// "gozstd" tag and cgo enabled switches to github.com/valyala/gozstd. Both
// produce standard zstd frames and are interchangeable on disk.
//
// # Size Limits
//
// No codec restores more than MaxDecompressedSize bytes. S2 blocks and zstd
// frames declare their decoded size, which is checked before allocation.
// Exceeding the bound fails with errs.ErrPayloadTooLarge.
//
// # Thread Safety
//
// All codec implementations are safe for concurrent use.
package compress
