package section

import "github.com/arloliu/otmap/format"

const (
	// Bit masks of the Options word
	EndiannessMask   = 0x0002 // Mask for endianness bit (bit 1)
	ReservedBitsMask = 0x000D // Mask for reserved bits (bits 0, 2, 3)
	MagicNumberMask  = 0xFFF0 // Mask for magic number (bits 4-15)

	// MagicTreeV1Opt is the version 1 magic number of the standard tree file layout.
	MagicTreeV1Opt = 0x0A70

	// Tree kinds (byte 4) - using format package constants
	KindOcTree      = uint8(format.KindOcTree)      // KindOcTree marks a plain occupancy tree.
	KindColorOcTree = uint8(format.KindColorOcTree) // KindColorOcTree marks a color occupancy tree.
)

// offset and section sizes in the tree file
const (
	HeaderSize    = 40         // fixed header size in bytes
	PayloadOffset = HeaderSize // byte offset where the node payload starts

	// MaxPayloadSize bounds the stored payload a reader will accept (1 GiB).
	MaxPayloadSize = 1 << 30
)
