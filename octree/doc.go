// Package octree provides a minimal in-memory occupancy octree and the file layer
// that persists it.
//
// The tree engine is small: it owns nodes, addresses them by octant
// paths and applies additive log-odds updates. It does not compute spatial keys,
// cast rays or prune; those belong to a full mapping engine.
//
// # File Layouts
//
// Three layouts are supported:
//
//   - Standard (".ot"): a 40-byte section.TreeHeader followed by pre-order node
//     records. Node values use a fixedpoint.Width of 0 (native float32 log-odds)
//     to 4 bytes, and the payload may be compressed.
//   - Compact binary (".bt"): a text header followed by two bytes per inner node,
//     2 bits per child. Leaves are restored at the clamping thresholds, so the
//     layout keeps structure and occupancy class but not exact values.
//   - Legacy color: header-less pre-order records of native value, RGB color and
//     child byte. It is read only, as a fallback when no standard header is found.
//
// # TreeAccess
//
// TreeAccess is the contract the codec and analysis tools depend on. FileAccess
// implements it on top of the local file system:
//
//	access, err := octree.NewFileAccess(octree.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	tree, kind, err := access.Read("map.ot")
//	if err != nil {
//	    return err
//	}
//	err = access.Write("map_small.ot", tree, fixedpoint.Width(1))
//
// Writes go to a temporary file in the destination directory that is renamed on
// success, so a failed write never leaves a partial output file behind.
package octree
