// Package otmap stores and analyzes probabilistic occupancy octrees.
//
// Every node of an occupancy tree holds the log-odds that its voxel is occupied.
// otmap persists those trees with a configurable value precision and measures how
// much accuracy each precision costs.
//
// # Core Features
//
//   - Fixed-point codecs that store a node probability in 1-4 bytes, or keep the
//     native float32 log-odds unchanged
//   - A calibrated 1-32 bit codec for precision trade-off studies
//   - Saturating log-odds updates with max and mean child aggregation
//   - Three file layouts: the headered standard layout (.ot) with optional
//     Zstd, S2 or LZ4 payload compression, the compact binary layout (.bt) and
//     the header-less legacy color layout (read only)
//   - xxHash64 payload checksums
//
// # Basic Usage
//
// Building and writing a tree:
//
//	tree, _ := otmap.NewOcTree(0.05)
//	tree.UpdateNode(0.85, 0, 3, 7) // occupied observation at octant path 0/3/7
//	tree.UpdateNode(-0.4, 0, 3, 6) // free observation
//
//	err := otmap.WriteTree("map.ot", tree, fixedpoint.Width(2),
//	    octree.WithCompression(format.CompressionZstd),
//	)
//
// Reading a tree and analyzing precision:
//
//	tree, kind, err := otmap.ReadTree("map.ot")
//	report, err := otmap.AnalyzePrecision(tree)
//	for _, m := range report.Measurements {
//	    fmt.Printf("%2d bits: %g\n", m.Precision, m.RMS())
//	}
//
// # Package Structure
//
// This package provides convenient top-level wrappers. For fine-grained control,
// use the packages directly:
//
//   - fixedpoint: byte-width and calibrated probability codecs
//   - occupancy: log-odds values and tree nodes
//   - octree: the in-memory tree, file layouts and file access
//   - precision: quantization error analysis
//   - compress: payload compression codecs
//   - errs: sentinel errors
package otmap

import (
	"github.com/arloliu/otmap/fixedpoint"
	"github.com/arloliu/otmap/format"
	"github.com/arloliu/otmap/octree"
	"github.com/arloliu/otmap/precision"
)

// NewOcTree creates an empty occupancy tree with the given resolution in meters.
//
// Example:
//
//	tree, err := otmap.NewOcTree(0.1,
//	    octree.WithClampingThresholds(0.12, 0.97),
//	)
func NewOcTree(resolution float64, opts ...octree.TreeOption) (*octree.Tree, error) {
	return octree.New(format.KindOcTree, resolution, opts...)
}

// NewColorOcTree creates an empty occupancy tree whose nodes also carry an RGB color.
// Color trees cannot be written in the compact binary layout.
func NewColorOcTree(resolution float64, opts ...octree.TreeOption) (*octree.Tree, error) {
	return octree.New(format.KindColorOcTree, resolution, opts...)
}

// ReadTree reads a tree file with a default octree.FileAccess.
//
// Parameters:
//   - path: File to read; a ".bt" extension selects the compact binary layout
//
// Returns:
//   - *octree.Tree: The tree read
//   - format.FileKind: The layout the tree was found in
//   - error: errs.ErrFormatDetection if no layout matches, errs.ErrEmptyTree if
//     the file holds too few nodes
func ReadTree(path string) (*octree.Tree, format.FileKind, error) {
	access, err := octree.NewFileAccess()
	if err != nil {
		return nil, 0, err
	}

	return access.Read(path)
}

// WriteTree writes tree to path with node values of width w.
//
// A ".bt" path selects the compact binary layout and ignores w and opts. Failures
// wrap errs.ErrWriteFailure, and a failed write leaves no file behind.
//
// Example:
//
//	err := otmap.WriteTree("map.ot", tree, fixedpoint.Width(1),
//	    octree.WithCompression(format.CompressionS2),
//	)
func WriteTree(path string, tree *octree.Tree, w fixedpoint.Width, opts ...octree.WriteOption) error {
	access, err := octree.NewFileAccess(octree.WithWriteOptions(opts...))
	if err != nil {
		return err
	}

	return access.Write(path, tree, w)
}

// AnalyzePrecision reports the tree-wide RMS quantization error of the calibrated
// codec at each bit width 1-32.
func AnalyzePrecision(tree *octree.Tree, opts ...precision.Option) (precision.Report, error) {
	return precision.Analyze(tree, opts...)
}
