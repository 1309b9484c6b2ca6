package format

import (
	"path/filepath"
	"strings"
)

type (
	TreeKind        uint8
	FileKind        uint8
	CompressionType uint8
)

const (
	KindOcTree      TreeKind = 0x1 // KindOcTree represents a plain occupancy octree.
	KindColorOcTree TreeKind = 0x2 // KindColorOcTree represents an occupancy octree with per-node RGB color.

	FileStandard    FileKind = 0x1 // FileStandard represents the headered .ot layout.
	FileBinary      FileKind = 0x2 // FileBinary represents the compact .bt layout.
	FileLegacyColor FileKind = 0x3 // FileLegacyColor represents the header-less legacy color tree layout.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

// File extensions recognized by the file layer.
const (
	ExtStandard = ".ot"
	ExtBinary   = ".bt"
)

func (k TreeKind) String() string {
	switch k {
	case KindOcTree:
		return "OcTree"
	case KindColorOcTree:
		return "ColorOcTree"
	default:
		return "Unknown"
	}
}

// IsValid reports whether k is a known tree kind.
func (k TreeKind) IsValid() bool {
	return k == KindOcTree || k == KindColorOcTree
}

// HasColor reports whether nodes of this tree kind carry an RGB color.
func (k TreeKind) HasColor() bool {
	return k == KindColorOcTree
}

// ParseTreeKind returns the tree kind with the given name, as written in file headers.
func ParseTreeKind(name string) (TreeKind, bool) {
	switch name {
	case "OcTree":
		return KindOcTree, true
	case "ColorOcTree":
		return KindColorOcTree, true
	default:
		return 0, false
	}
}

func (f FileKind) String() string {
	switch f {
	case FileStandard:
		return "Standard"
	case FileBinary:
		return "Binary"
	case FileLegacyColor:
		return "LegacyColor"
	default:
		return "Unknown"
	}
}

// FileKindFromPath selects the layout implied by a path's extension.
// A ".bt" suffix selects the compact binary layout, anything else the standard layout.
func FileKindFromPath(path string) FileKind {
	if strings.EqualFold(filepath.Ext(path), ExtBinary) {
		return FileBinary
	}

	return FileStandard
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompressionType parses a case-insensitive compression name.
func ParseCompressionType(name string) (CompressionType, bool) {
	switch strings.ToLower(name) {
	case "", "none":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}
