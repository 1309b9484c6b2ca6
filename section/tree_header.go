package section

import (
	"github.com/arloliu/otmap/endian"
	"github.com/arloliu/otmap/errs"
	"github.com/arloliu/otmap/format"
)

// TreeHeader represents the fixed-size header section at the start of a standard tree file.
type TreeHeader struct {
	// Flag is a packed field for options, magic number, encoding, compression and kind.
	Flag TreeFlag // byte offset 0-4, 5-7 reserved
	// Resolution is the edge length of the smallest voxel, in meters.
	Resolution float64 // byte offset 8-15
	// NodeCount is the number of nodes stored in the payload.
	NodeCount uint64 // byte offset 16-23
	// PayloadSize is the size of the stored (possibly compressed) payload in bytes.
	PayloadSize uint64 // byte offset 24-31
	// Checksum is the xxHash64 of the stored payload.
	Checksum uint64 // byte offset 32-39
}

// NewTreeHeader creates a new TreeHeader for a tree of the given kind and resolution.
// NodeCount, PayloadSize and Checksum are set by the writer once the payload is built.
func NewTreeHeader(kind format.TreeKind, resolution float64) *TreeHeader {
	h := &TreeHeader{
		Flag:       NewTreeFlag(),
		Resolution: resolution,
	}
	h.Flag.SetTreeKind(kind)

	return h
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing header (must be exactly HeaderSize bytes)
//
// Returns:
//   - error: ErrInvalidHeaderSize if data is not HeaderSize bytes, or flag validation errors
func (h *TreeHeader) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	// Options is always little-endian; it carries the endianness bit for the rest.
	h.Flag.Options = uint16(data[0]) | (uint16(data[1]) << 8)
	h.Flag.Encoding = data[2]
	h.Flag.Compression = data[3]
	h.Flag.Kind = data[4]

	if data[5] != 0 || data[6] != 0 || data[7] != 0 {
		return errs.ErrInvalidHeaderFlags
	}

	engine := h.Flag.GetEndianEngine()

	h.Resolution = endian.Float64(engine, data[8:16])
	h.NodeCount = engine.Uint64(data[16:24])
	h.PayloadSize = engine.Uint64(data[24:32])
	h.Checksum = engine.Uint64(data[32:40])

	return h.Flag.Validate()
}

// Bytes serializes the TreeHeader into a byte slice.
func (h *TreeHeader) Bytes() []byte {
	b := make([]byte, HeaderSize)

	engine := h.Flag.GetEndianEngine()

	b[0] = byte(h.Flag.Options)
	b[1] = byte(h.Flag.Options >> 8)
	b[2] = h.Flag.Encoding
	b[3] = h.Flag.Compression
	b[4] = h.Flag.Kind
	endian.PutFloat64(engine, b[8:16], h.Resolution)
	engine.PutUint64(b[16:24], h.NodeCount)
	engine.PutUint64(b[24:32], h.PayloadSize)
	engine.PutUint64(b[32:40], h.Checksum)

	return b
}

// HasMagic reports whether data starts with the standard tree magic number.
// It is used for format detection before a full parse.
func HasMagic(data []byte) bool {
	if len(data) < 2 {
		return false
	}

	options := uint16(data[0]) | (uint16(data[1]) << 8)

	return options&MagicNumberMask == MagicTreeV1Opt
}

// ParseTreeHeader parses a TreeHeader from a byte slice.
//
// Parameters:
//   - data: Byte slice containing header (must be at least HeaderSize bytes)
//
// Returns:
//   - TreeHeader: Parsed header struct
//   - error: ErrInvalidHeaderSize or flag validation errors
func ParseTreeHeader(data []byte) (TreeHeader, error) {
	if len(data) < HeaderSize {
		return TreeHeader{}, errs.ErrInvalidHeaderSize
	}

	h := TreeHeader{}
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return TreeHeader{}, err
	}

	return h, nil
}
