package octree

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/arloliu/otmap/errs"
	"github.com/arloliu/otmap/fixedpoint"
	"github.com/arloliu/otmap/format"
	"github.com/arloliu/otmap/internal/options"
	"github.com/arloliu/otmap/occupancy"
	"github.com/arloliu/otmap/section"
)

// TreeAccess is the read, write and type-query contract that the codec and
// analysis tools require from a tree engine.
type TreeAccess interface {
	// Read loads the tree stored at path and reports which layout it was found in.
	// It returns errs.ErrFormatDetection when no reader recognizes the content and
	// errs.ErrEmptyTree when a reader yields too few nodes.
	Read(path string) (*Tree, format.FileKind, error)
	// Write stores tree at path with node values of width w. Failures wrap
	// errs.ErrWriteFailure.
	Write(path string, tree *Tree, w fixedpoint.Width) error
	// SupportsCompactBinary reports whether tree can be written in the compact
	// binary layout.
	SupportsCompactBinary(tree *Tree) bool
	// NodeChildExists reports whether node has a child at octant i.
	NodeChildExists(tree *Tree, node *occupancy.Node, i int) bool
	// NodeChild returns the child of node at octant i, or nil if absent.
	NodeChild(tree *Tree, node *occupancy.Node, i int) *occupancy.Node
}

// FileAccess implements TreeAccess on the local file system.
//
// The layout is chosen by extension: ".bt" paths use the compact binary layout,
// every other path the standard layout. Reading a non-".bt" file without a
// standard header falls back to the legacy color layout.
type FileAccess struct {
	logger    *zap.Logger
	writeOpts []WriteOption
	treeOpts  []TreeOption
}

var _ TreeAccess = (*FileAccess)(nil)

// AccessOption configures a FileAccess.
type AccessOption = options.Option[*FileAccess]

// WithLogger sets the logger used to report format detection and writes.
func WithLogger(logger *zap.Logger) AccessOption {
	return options.New(func(fa *FileAccess) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		fa.logger = logger

		return nil
	})
}

// WithWriteOptions sets the options applied to every standard layout write.
func WithWriteOptions(opts ...WriteOption) AccessOption {
	return options.NoError(func(fa *FileAccess) {
		fa.writeOpts = append(fa.writeOpts, opts...)
	})
}

// WithTreeOptions sets the options applied to trees restored from the compact
// binary layout, such as WithClampingThresholds.
func WithTreeOptions(opts ...TreeOption) AccessOption {
	return options.NoError(func(fa *FileAccess) {
		fa.treeOpts = append(fa.treeOpts, opts...)
	})
}

// NewFileAccess creates a FileAccess. Without WithLogger it logs nothing.
func NewFileAccess(opts ...AccessOption) (*FileAccess, error) {
	fa := &FileAccess{logger: zap.NewNop()}
	if err := options.Apply(fa, opts...); err != nil {
		return nil, err
	}

	return fa, nil
}

// Read implements TreeAccess.
func (fa *FileAccess) Read(path string) (*Tree, format.FileKind, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", errs.ErrFormatDetection, err)
	}

	return fa.Decode(data, format.FileKindFromPath(path))
}

// Decode parses data using the layout implied by hint, with the same fallback
// rules as Read.
func (fa *FileAccess) Decode(data []byte, hint format.FileKind) (*Tree, format.FileKind, error) {
	if hint == format.FileBinary {
		tree, err := DecodeBinary(data, fa.treeOpts...)
		if err != nil {
			if errors.Is(err, errs.ErrEmptyTree) {
				return nil, 0, err
			}

			return nil, 0, fmt.Errorf("%w: binary layout: %w", errs.ErrFormatDetection, err)
		}
		fa.logger.Debug("read compact binary tree", zap.Stringer("kind", tree.Kind()), zap.Int("size", tree.Size()))

		return tree, format.FileBinary, nil
	}

	var stdErr error
	if section.HasMagic(data) {
		tree, header, err := DecodeStandard(data)
		if err == nil {
			fa.logger.Debug("read standard tree",
				zap.Stringer("kind", tree.Kind()),
				zap.Uint64("nodes", header.NodeCount),
				zap.Stringer("encoding", header.Flag.Width()),
				zap.Stringer("compression", header.Flag.CompressionType()),
			)

			return tree, format.FileStandard, nil
		}
		stdErr = err
	} else {
		stdErr = errs.ErrInvalidMagicNumber
	}

	fa.logger.Warn("could not detect standard tree, trying legacy color layout", zap.Error(stdErr))

	tree, err := DecodeLegacyColor(data)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: standard layout: %v; legacy color layout: %w", errs.ErrFormatDetection, stdErr, err)
	}
	fa.logger.Warn("detected legacy color tree; resolution is not stored and defaults",
		zap.Float64("resolution", tree.Resolution()),
		zap.Int("size", tree.Size()),
	)

	return tree, format.FileLegacyColor, nil
}

// Write implements TreeAccess.
//
// A ".bt" path is written in the compact binary layout, which ignores w. Any
// other path is written in the standard layout.
func (fa *FileAccess) Write(path string, tree *Tree, w fixedpoint.Width) error {
	data, err := fa.Encode(tree, w, format.FileKindFromPath(path))
	if err != nil {
		return err
	}

	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrWriteFailure, err)
	}
	fa.logger.Debug("wrote tree", zap.String("path", path), zap.Int("bytes", len(data)))

	return nil
}

// Encode serializes tree in the given layout. Failures wrap errs.ErrWriteFailure.
func (fa *FileAccess) Encode(tree *Tree, w fixedpoint.Width, kind format.FileKind) ([]byte, error) {
	var (
		data []byte
		err  error
	)

	switch kind {
	case format.FileBinary:
		if !fa.SupportsCompactBinary(tree) {
			return nil, fmt.Errorf("%w: %w: %s", errs.ErrWriteFailure, errs.ErrCompactBinaryUnsupported, tree.Kind())
		}
		data, err = EncodeBinary(tree)
	case format.FileStandard:
		data, err = EncodeStandard(tree, w, fa.writeOpts...)
	default:
		err = fmt.Errorf("layout %s is read only", kind)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrWriteFailure, err)
	}

	return data, nil
}

// SupportsCompactBinary implements TreeAccess.
func (fa *FileAccess) SupportsCompactBinary(tree *Tree) bool {
	return tree != nil && tree.SupportsCompactBinary()
}

// NodeChildExists implements TreeAccess.
func (fa *FileAccess) NodeChildExists(tree *Tree, node *occupancy.Node, i int) bool {
	return tree.NodeChildExists(node, i)
}

// NodeChild implements TreeAccess.
func (fa *FileAccess) NodeChild(tree *Tree, node *occupancy.Node, i int) *occupancy.Node {
	return tree.NodeChild(node, i)
}

// writeFileAtomic writes data to a temporary file next to path and renames it into
// place. The temporary file is removed on any failure.
func writeFileAtomic(path string, data []byte) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	defer func() {
		if err != nil {
			err = multierr.Append(err, removeIfExists(tmp))
		}
	}()

	if _, err = f.Write(data); err != nil {
		return multierr.Append(err, f.Close())
	}
	if err = f.Sync(); err != nil {
		return multierr.Append(err, f.Close())
	}
	if err = f.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp, 0o644); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	return nil
}
