package octree

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/arloliu/otmap/errs"
	"github.com/arloliu/otmap/format"
	"github.com/arloliu/otmap/internal/pool"
	"github.com/arloliu/otmap/occupancy"
)

// BinaryFileHeader is the first line of every compact binary file.
const BinaryFileHeader = "# Octomap OcTree binary file"

// 2-bit child states of the compact binary layout.
const (
	binaryChildAbsent   = 0b00
	binaryChildFree     = 0b01
	binaryChildOccupied = 0b10
	binaryChildInner    = 0b11
)

// EncodeBinary serializes tree in the compact binary layout.
//
// Each inner node is stored as two bytes holding a 2-bit state per child, octants
// 0-3 in the first byte. Records of inner children follow in octant order. Values
// are not stored: leaves are classified as free or occupied with the tree's
// occupancy threshold.
func EncodeBinary(tree *Tree) ([]byte, error) {
	if !tree.SupportsCompactBinary() {
		return nil, fmt.Errorf("%w: %s", errs.ErrCompactBinaryUnsupported, tree.kind)
	}
	size := tree.Size()
	if size < 2 {
		// DecodeBinary rejects such files, so they are never written
		return nil, fmt.Errorf("%w: %d node(s)", errs.ErrEmptyTree, size)
	}

	buf := pool.GetPayloadBuffer()
	defer pool.PutPayloadBuffer(buf)

	fmt.Fprintf(buf, "%s\n", BinaryFileHeader)
	fmt.Fprintf(buf, "# (feel free to add / change comments, but leave the first line as it is!)\n#\n")
	fmt.Fprintf(buf, "id %s\n", tree.kind)
	fmt.Fprintf(buf, "size %d\n", size)
	fmt.Fprintf(buf, "res %s\n", strconv.FormatFloat(tree.resolution, 'g', -1, 64))
	fmt.Fprintf(buf, "data\n")

	buf.B = tree.appendBinaryNode(buf.B, tree.root)

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())

	return out, nil
}

func (t *Tree) appendBinaryNode(dst []byte, n *occupancy.Node) []byte {
	var states [2]byte
	for i := range occupancy.NumOctants {
		child := n.Child(i)
		if child == nil {
			continue
		}

		state := byte(binaryChildFree)
		switch {
		case child.HasChildren():
			state = binaryChildInner
		case t.IsNodeOccupied(child):
			state = binaryChildOccupied
		}
		states[i/4] |= state << (2 * (i % 4))
	}
	dst = append(dst, states[0], states[1])

	for i := range occupancy.NumOctants {
		if child := n.Child(i); child != nil && child.HasChildren() {
			dst = t.appendBinaryNode(dst, child)
		}
	}

	return dst
}

// binaryHeader holds the fields of a compact binary text header.
type binaryHeader struct {
	kind       format.TreeKind
	size       int
	resolution float64
}

// parseBinaryHeader parses the text header and returns it with the offset of the
// first data byte.
func parseBinaryHeader(data []byte) (binaryHeader, int, error) {
	h := binaryHeader{kind: format.KindOcTree, size: -1, resolution: DefaultResolution}

	pos := 0
	first := true
	for {
		end := bytes.IndexByte(data[pos:], '\n')
		if end < 0 {
			return h, 0, fmt.Errorf("%w: unterminated binary header", errs.ErrFormatDetection)
		}
		line := strings.TrimSpace(string(data[pos : pos+end]))
		pos += end + 1

		if first {
			if !strings.HasPrefix(line, BinaryFileHeader) {
				return h, 0, fmt.Errorf("%w: missing binary file header", errs.ErrFormatDetection)
			}
			first = false

			continue
		}

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, _ := strings.Cut(line, " ")
		value = strings.TrimSpace(value)
		switch key {
		case "data":
			if h.size < 0 {
				return h, 0, fmt.Errorf("%w: binary header without size", errs.ErrFormatDetection)
			}

			return h, pos, nil
		case "id":
			kind, ok := format.ParseTreeKind(value)
			if !ok {
				return h, 0, fmt.Errorf("%w: %q", errs.ErrInvalidTreeKind, value)
			}
			h.kind = kind
		case "size":
			size, err := strconv.Atoi(value)
			if err != nil || size < 0 {
				return h, 0, fmt.Errorf("%w: invalid size %q", errs.ErrFormatDetection, value)
			}
			h.size = size
		case "res":
			res, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return h, 0, fmt.Errorf("%w: invalid resolution %q", errs.ErrFormatDetection, value)
			}
			h.resolution = res
		default:
			// unknown keys are skipped for forward compatibility
		}
	}
}

// DecodeBinary parses a tree in the compact binary layout.
//
// Occupied leaves get the upper clamping threshold, free leaves the lower one and
// inner nodes the maximum of their children. A tree with fewer than two nodes is
// rejected with errs.ErrEmptyTree.
func DecodeBinary(data []byte, opts ...TreeOption) (*Tree, error) {
	h, pos, err := parseBinaryHeader(data)
	if err != nil {
		return nil, err
	}

	tree, err := New(h.kind, h.resolution, opts...)
	if err != nil {
		return nil, err
	}

	root := occupancy.NewNode(occupancy.Value{})
	used, err := tree.readBinaryNode(data[pos:], root, 0)
	if err != nil {
		return nil, err
	}
	if pos+used != len(data) {
		return nil, fmt.Errorf("%w: %d bytes after root", errs.ErrTrailingPayload, len(data)-pos-used)
	}
	tree.root = root

	size := tree.Size()
	if size != h.size {
		return nil, fmt.Errorf("%w: header %d, payload %d", errs.ErrNodeCountMismatch, h.size, size)
	}
	if size < 2 {
		return nil, fmt.Errorf("%w: %d node(s)", errs.ErrEmptyTree, size)
	}

	return tree, nil
}

func (t *Tree) readBinaryNode(src []byte, n *occupancy.Node, depth int) (int, error) {
	if depth >= MaxDepth {
		return 0, fmt.Errorf("%w: depth %d", errs.ErrTreeTooDeep, depth)
	}
	if len(src) < 2 {
		return 0, fmt.Errorf("%w: binary node record", errs.ErrTruncatedPayload)
	}

	pos := 2
	var inner []int
	for i := range occupancy.NumOctants {
		state := (src[i/4] >> (2 * (i % 4))) & 0b11

		var v occupancy.Value
		switch state {
		case binaryChildAbsent:
			continue
		case binaryChildFree:
			v = occupancy.NewValue(t.clampMin)
		case binaryChildOccupied:
			v = occupancy.NewValue(t.clampMax)
		case binaryChildInner:
			inner = append(inner, i)
		}

		if err := n.SetChild(i, occupancy.NewNode(v)); err != nil {
			return 0, err
		}
	}

	for _, i := range inner {
		used, err := t.readBinaryNode(src[pos:], n.Child(i), depth+1)
		if err != nil {
			return 0, err
		}
		pos += used
	}

	n.UpdateFromChildren()

	return pos, nil
}
