package precision

import (
	"fmt"

	"github.com/arloliu/otmap/errs"
	"github.com/arloliu/otmap/fixedpoint"
	"github.com/arloliu/otmap/internal/options"
)

type config struct {
	minBits int
	maxBits int
	strict  bool
}

// Option configures Analyze.
type Option = options.Option[*config]

// WithBitRange limits Analyze to the calibrated bit widths minBits..maxBits.
func WithBitRange(minBits, maxBits int) Option {
	return options.New(func(c *config) error {
		if err := fixedpoint.ValidatePrecision(minBits); err != nil {
			return err
		}
		if err := fixedpoint.ValidatePrecision(maxBits); err != nil {
			return err
		}
		if minBits > maxBits {
			return fmt.Errorf("invalid bit range %d-%d", minBits, maxBits)
		}
		c.minBits, c.maxBits = minBits, maxBits

		return nil
	})
}

// WithStrictBand makes Analyze fail with errs.ErrProbabilityOutOfBand when a node
// probability lies outside the calibration band, instead of clamping it.
func WithStrictBand() Option {
	return options.NoError(func(c *config) {
		c.strict = true
	})
}

// Measurement is the error of one quantizer over the whole tree.
type Measurement struct {
	// Precision is the bit width for calibrated measurements and the byte width
	// for byte-width measurements.
	Precision int
	Quantizer string
	Result
}

// Report lists one Measurement per analyzed precision, in increasing order.
type Report struct {
	NodeCount    int
	Measurements []Measurement
}

// Analyze explores the whole tree once per calibrated bit width, 1-32 unless
// WithBitRange says otherwise.
//
// It returns errs.ErrEmptyTree for a tree without a root.
func Analyze(tree Tree, opts ...Option) (Report, error) {
	cfg := &config{minBits: fixedpoint.MinPrecision, maxBits: fixedpoint.MaxPrecision}
	if err := options.Apply(cfg, opts...); err != nil {
		return Report{}, err
	}

	quantizers := make([]Quantizer, 0, cfg.maxBits-cfg.minBits+1)
	precisions := make([]int, 0, cap(quantizers))
	newQuantizer := Calibrated
	if cfg.strict {
		newQuantizer = StrictCalibrated
	}
	for bits := cfg.minBits; bits <= cfg.maxBits; bits++ {
		q, err := newQuantizer(bits)
		if err != nil {
			return Report{}, err
		}
		quantizers = append(quantizers, q)
		precisions = append(precisions, bits)
	}

	return analyze(tree, precisions, quantizers)
}

// AnalyzeByteWidths explores the whole tree once per byte width 1-4, the widths
// the standard file layout can store.
func AnalyzeByteWidths(tree Tree) (Report, error) {
	quantizers := make([]Quantizer, 0, fixedpoint.MaxWidth)
	precisions := make([]int, 0, fixedpoint.MaxWidth)
	for w := fixedpoint.Width(1); w <= fixedpoint.MaxWidth; w++ {
		q, err := ByteWidth(w)
		if err != nil {
			return Report{}, err
		}
		quantizers = append(quantizers, q)
		precisions = append(precisions, int(w))
	}

	return analyze(tree, precisions, quantizers)
}

func analyze(tree Tree, precisions []int, quantizers []Quantizer) (Report, error) {
	root := tree.Root()
	if root == nil {
		return Report{}, fmt.Errorf("%w: no root node", errs.ErrEmptyTree)
	}

	report := Report{Measurements: make([]Measurement, 0, len(quantizers))}
	for i, q := range quantizers {
		res, err := ExploreWith(tree, root, q)
		if err != nil {
			return Report{}, err
		}
		report.NodeCount = res.NodeCount
		report.Measurements = append(report.Measurements, Measurement{
			Precision: precisions[i],
			Quantizer: q.String(),
			Result:    res,
		})
	}

	return report, nil
}
