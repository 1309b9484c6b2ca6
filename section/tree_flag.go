package section

import (
	"github.com/arloliu/otmap/endian"
	"github.com/arloliu/otmap/errs"
	"github.com/arloliu/otmap/fixedpoint"
	"github.com/arloliu/otmap/format"
)

// TreeFlag represents the packed flag bytes at the start of the tree header.
type TreeFlag struct {
	// Options is a packed field for various options.
	// Bit 0, 2-3 are reserved for future use, must be set to 0.
	// Bit 1 is endianness flag, 0 means little-endian, 1 means big-endian.
	// Bit 4-15 are the magic number identifying the file layout (MagicTreeV1Opt).
	Options uint16

	// Encoding is the byte width of node values, 0 (native) to 4.
	Encoding uint8
	// Compression is the format.CompressionType of the node payload.
	Compression uint8
	// Kind is the format.TreeKind of the stored tree.
	Kind uint8
}

var validCompressions = map[uint8]struct{}{
	uint8(format.CompressionNone): {},
	uint8(format.CompressionZstd): {},
	uint8(format.CompressionS2):   {},
	uint8(format.CompressionLZ4):  {},
}

// NewTreeFlag creates a TreeFlag with default settings: little-endian, native
// values, no compression and a plain occupancy tree.
func NewTreeFlag() TreeFlag {
	flag := TreeFlag{
		Options:     MagicTreeV1Opt,
		Encoding:    uint8(fixedpoint.WidthNative),
		Compression: uint8(format.CompressionNone),
		Kind:        KindOcTree,
	}
	flag.WithLittleEndian()

	return flag
}

// IsLittleEndian returns whether the data is little-endian.
func (f TreeFlag) IsLittleEndian() bool {
	return (f.Options & EndiannessMask) == 0
}

// IsBigEndian returns whether the data is big-endian.
func (f TreeFlag) IsBigEndian() bool {
	return (f.Options & EndiannessMask) != 0
}

// WithLittleEndian sets little-endian byte order.
func (f *TreeFlag) WithLittleEndian() {
	f.Options &= ^uint16(EndiannessMask)
}

// WithBigEndian sets big-endian byte order.
func (f *TreeFlag) WithBigEndian() {
	f.Options |= EndiannessMask
}

// GetMagicNumber returns the magic number from the Options field.
func (f TreeFlag) GetMagicNumber() uint16 {
	return f.Options & MagicNumberMask
}

// Width returns the node value encoding width.
func (f TreeFlag) Width() fixedpoint.Width {
	return fixedpoint.Width(f.Encoding)
}

// SetWidth sets the node value encoding width.
func (f *TreeFlag) SetWidth(w fixedpoint.Width) error {
	if err := w.Validate(); err != nil {
		return err
	}
	f.Encoding = uint8(w)

	return nil
}

// CompressionType returns the payload compression.
func (f TreeFlag) CompressionType() format.CompressionType {
	return format.CompressionType(f.Compression)
}

// SetCompressionType sets the payload compression.
func (f *TreeFlag) SetCompressionType(c format.CompressionType) {
	f.Compression = uint8(c)
}

// TreeKind returns the stored tree kind.
func (f TreeFlag) TreeKind() format.TreeKind {
	return format.TreeKind(f.Kind)
}

// SetTreeKind sets the stored tree kind.
func (f *TreeFlag) SetTreeKind(k format.TreeKind) {
	f.Kind = uint8(k)
}

// IsValidMagicNumber checks if the magic number is valid.
func (f TreeFlag) IsValidMagicNumber() bool {
	return f.GetMagicNumber() == MagicTreeV1Opt
}

// Validate checks if the flag contains valid values.
func (f TreeFlag) Validate() error {
	if !f.IsValidMagicNumber() {
		return errs.ErrInvalidMagicNumber
	}

	if f.Options&ReservedBitsMask != 0 {
		return errs.ErrInvalidHeaderFlags
	}

	if f.Width().Validate() != nil {
		return errs.ErrInvalidHeaderFlags
	}

	if _, ok := validCompressions[f.Compression]; !ok {
		return errs.ErrInvalidHeaderFlags
	}

	if !f.TreeKind().IsValid() {
		return errs.ErrInvalidHeaderFlags
	}

	return nil
}

// GetEndianEngine returns the appropriate endian engine based on the flag.
func (f TreeFlag) GetEndianEngine() endian.EndianEngine {
	if f.IsLittleEndian() {
		return endian.GetLittleEndianEngine()
	}

	return endian.GetBigEndianEngine()
}
