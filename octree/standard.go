package octree

import (
	"errors"
	"fmt"

	"github.com/arloliu/otmap/compress"
	"github.com/arloliu/otmap/endian"
	"github.com/arloliu/otmap/errs"
	"github.com/arloliu/otmap/fixedpoint"
	"github.com/arloliu/otmap/format"
	"github.com/arloliu/otmap/internal/hash"
	"github.com/arloliu/otmap/internal/options"
	"github.com/arloliu/otmap/internal/pool"
	"github.com/arloliu/otmap/occupancy"
	"github.com/arloliu/otmap/section"
)

// nodeCodec serializes pre-order node records shared by the standard and legacy
// color layouts: value, optional RGB color, child-presence byte, children.
type nodeCodec struct {
	engine    endian.EndianEngine
	width     fixedpoint.Width
	withColor bool
	count     uint64
}

func (c *nodeCodec) appendNode(dst []byte, n *occupancy.Node) ([]byte, error) {
	dst, err := n.AppendData(dst, c.engine, c.width)
	if err != nil {
		return dst, err
	}
	if c.withColor {
		dst = append(dst, n.Color.R, n.Color.G, n.Color.B)
	}
	dst = append(dst, n.ChildMask())
	c.count++

	for i := range occupancy.NumOctants {
		if child := n.Child(i); child != nil {
			if dst, err = c.appendNode(dst, child); err != nil {
				return dst, err
			}
		}
	}

	return dst, nil
}

// readNode decodes one node and its subtree from the start of src and returns the
// number of bytes consumed.
func (c *nodeCodec) readNode(src []byte, depth int) (*occupancy.Node, int, error) {
	if depth > MaxDepth {
		return nil, 0, fmt.Errorf("%w: depth %d", errs.ErrTreeTooDeep, depth)
	}

	n := occupancy.NewNode(occupancy.Value{})
	pos, err := n.ReadData(src, c.engine, c.width)
	if errors.Is(err, errs.ErrShortValue) {
		return nil, 0, fmt.Errorf("%w: node value: %w", errs.ErrTruncatedPayload, err)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("node value: %w", err)
	}

	if c.withColor {
		if len(src)-pos < 3 {
			return nil, 0, fmt.Errorf("%w: node color", errs.ErrTruncatedPayload)
		}
		n.Color = occupancy.Color{R: src[pos], G: src[pos+1], B: src[pos+2]}
		pos += 3
	}

	if pos >= len(src) {
		return nil, 0, fmt.Errorf("%w: child mask", errs.ErrTruncatedPayload)
	}
	mask := src[pos]
	pos++
	c.count++

	for i := range occupancy.NumOctants {
		if mask&(1<<i) == 0 {
			continue
		}

		child, used, err := c.readNode(src[pos:], depth+1)
		if err != nil {
			return nil, 0, err
		}
		if err := n.SetChild(i, child); err != nil {
			return nil, 0, err
		}
		pos += used
	}

	return n, pos, nil
}

// EncodeStandard serializes tree in the standard layout with node values of width w.
//
// Parameters:
//   - tree: Tree to serialize; an empty tree produces a header-only file
//   - w: Node value width, 0 (native) to 4 bytes
//   - opts: Write options such as WithCompression
//
// Returns:
//   - []byte: Header followed by the stored payload
//   - error: errs.ErrUnsupportedEncoding for an invalid width,
//     errs.ErrEncodedValueOverflow if a value does not fit in w bytes
func EncodeStandard(tree *Tree, w fixedpoint.Width, opts ...WriteOption) ([]byte, error) {
	cfg := newWriteConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	header := section.NewTreeHeader(tree.kind, tree.resolution)
	if cfg.bigEndian {
		header.Flag.WithBigEndian()
	}
	if err := header.Flag.SetWidth(w); err != nil {
		return nil, err
	}
	header.Flag.SetCompressionType(cfg.compression)

	codec, err := compress.CreateCodec(cfg.compression, "payload")
	if err != nil {
		return nil, err
	}

	buf := pool.GetPayloadBuffer()
	defer pool.PutPayloadBuffer(buf)

	nc := &nodeCodec{
		engine:    header.Flag.GetEndianEngine(),
		width:     w,
		withColor: tree.kind.HasColor(),
	}
	if tree.root != nil {
		if buf.B, err = nc.appendNode(buf.B, tree.root); err != nil {
			return nil, fmt.Errorf("failed to encode node payload: %w", err)
		}
	}

	stored, err := codec.Compress(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to compress node payload: %w", err)
	}
	if len(stored) > section.MaxPayloadSize {
		return nil, fmt.Errorf("%w: %d bytes", errs.ErrPayloadTooLarge, len(stored))
	}

	header.NodeCount = nc.count
	header.PayloadSize = uint64(len(stored))
	header.Checksum = hash.Checksum(stored)

	out := make([]byte, 0, section.HeaderSize+len(stored))
	out = append(out, header.Bytes()...)
	out = append(out, stored...)

	return out, nil
}

// DecodeStandard parses a tree in the standard layout.
//
// The header is validated, the payload length and checksum are verified before
// decompression, and the decoded node count must match the header.
func DecodeStandard(data []byte) (*Tree, section.TreeHeader, error) {
	header, err := section.ParseTreeHeader(data)
	if err != nil {
		return nil, header, err
	}

	tree, err := New(header.Flag.TreeKind(), header.Resolution)
	if err != nil {
		return nil, header, err
	}

	if header.PayloadSize > section.MaxPayloadSize {
		return nil, header, fmt.Errorf("%w: %d bytes", errs.ErrPayloadTooLarge, header.PayloadSize)
	}
	stored := data[section.PayloadOffset:]
	switch {
	case uint64(len(stored)) < header.PayloadSize:
		return nil, header, fmt.Errorf("%w: have %d of %d payload bytes", errs.ErrTruncatedPayload, len(stored), header.PayloadSize)
	case uint64(len(stored)) > header.PayloadSize:
		return nil, header, fmt.Errorf("%w: %d bytes", errs.ErrTrailingPayload, uint64(len(stored))-header.PayloadSize)
	}
	if !hash.Verify(stored, header.Checksum) {
		return nil, header, errs.ErrChecksumMismatch
	}

	codec, err := compress.GetCodec(header.Flag.CompressionType())
	if err != nil {
		return nil, header, err
	}
	payload, err := codec.Decompress(stored)
	if err != nil {
		return nil, header, err
	}

	if len(payload) == 0 {
		if header.NodeCount != 0 {
			return nil, header, fmt.Errorf("%w: header %d, payload 0", errs.ErrNodeCountMismatch, header.NodeCount)
		}

		return tree, header, nil
	}

	nc := &nodeCodec{
		engine:    header.Flag.GetEndianEngine(),
		width:     header.Flag.Width(),
		withColor: header.Flag.TreeKind().HasColor(),
	}
	root, used, err := nc.readNode(payload, 0)
	if err != nil {
		return nil, header, err
	}
	if used != len(payload) {
		return nil, header, fmt.Errorf("%w: %d bytes after root", errs.ErrTrailingPayload, len(payload)-used)
	}
	if nc.count != header.NodeCount {
		return nil, header, fmt.Errorf("%w: header %d, payload %d", errs.ErrNodeCountMismatch, header.NodeCount, nc.count)
	}

	tree.root = root

	return tree, header, nil
}

// DecodeLegacyColor parses the header-less legacy color layout: native
// little-endian float32 log-odds, RGB color and child byte per node, pre-order.
//
// Trailing bytes after the root subtree are ignored. The layout carries no
// resolution, so the tree gets DefaultResolution. A result with fewer than two
// nodes is rejected with errs.ErrEmptyTree.
func DecodeLegacyColor(data []byte) (*Tree, error) {
	tree, err := New(format.KindColorOcTree, DefaultResolution)
	if err != nil {
		return nil, err
	}

	nc := &nodeCodec{
		engine:    endian.GetLittleEndianEngine(),
		width:     fixedpoint.WidthNative,
		withColor: true,
	}
	root, _, err := nc.readNode(data, 0)
	if err != nil {
		return nil, err
	}
	if nc.count < 2 {
		return nil, fmt.Errorf("%w: %d node(s)", errs.ErrEmptyTree, nc.count)
	}

	tree.root = root

	return tree, nil
}
