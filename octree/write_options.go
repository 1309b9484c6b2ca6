package octree

import (
	"fmt"

	"github.com/arloliu/otmap/format"
	"github.com/arloliu/otmap/internal/options"
)

type writeConfig struct {
	compression format.CompressionType
	bigEndian   bool
}

func newWriteConfig() *writeConfig {
	return &writeConfig{compression: format.CompressionNone}
}

// WriteOption configures how the standard layout is written.
type WriteOption = options.Option[*writeConfig]

// WithCompression selects the payload compression of the standard layout.
// It defaults to format.CompressionNone.
func WithCompression(c format.CompressionType) WriteOption {
	return options.New(func(cfg *writeConfig) error {
		switch c {
		case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
			cfg.compression = c
			return nil
		default:
			return fmt.Errorf("invalid payload compression: %s", c)
		}
	})
}

// WithBigEndian writes header fields and native values big-endian.
// Quantized values stay little-endian.
func WithBigEndian() WriteOption {
	return options.NoError(func(cfg *writeConfig) {
		cfg.bigEndian = true
	})
}
