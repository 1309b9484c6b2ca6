// Package precision measures how much accuracy an occupancy tree loses when its
// node probabilities are quantized.
//
// The analyzer walks a tree depth-first in octant order, round-trips every node
// probability through a Quantizer and accumulates the squared error. Analyze runs
// that walk once per calibrated bit width (1-32 by default) and reports the
// tree-wide RMS error of each width:
//
//	report, err := precision.Analyze(tree)
//	if err != nil {
//		return err
//	}
//	for _, m := range report.Measurements {
//		fmt.Println(m.Precision, m.RMS())
//	}
//
// AnalyzeByteWidths does the same for the 1-4 byte widths used by the standard
// file layout. The analyzer never modifies the tree; callers must not update the
// tree while an analysis runs.
package precision
