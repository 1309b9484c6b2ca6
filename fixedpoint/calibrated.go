package fixedpoint

import (
	"fmt"
	"math"

	"github.com/arloliu/otmap/errs"
)

// Calibration band of the bit-oriented codec. The bounds are the default clamping
// thresholds of an occupancy map (0.1192 and 0.971) widened by 1e-4, so clamped
// node probabilities always fall inside the band.
const (
	ThreshMin = 0.1192 - 0.0001
	ThreshMax = 0.971 + 0.0001
)

// Supported calibrated precisions in bits.
const (
	MinPrecision = 1
	MaxPrecision = 32
)

// ValidatePrecision returns an error matching both errs.ErrUnsupportedEncoding and
// errs.ErrUnsupportedPrecision if bits is outside 1-32.
func ValidatePrecision(bits int) error {
	if bits < MinPrecision || bits > MaxPrecision {
		return fmt.Errorf("%w: %w: bit width %d (supported: %d-%d)",
			errs.ErrUnsupportedEncoding, errs.ErrUnsupportedPrecision, bits, MinPrecision, MaxPrecision)
	}

	return nil
}

// CalibratedMaxValue returns 2^bits-1, the largest calibrated code for bits.
func CalibratedMaxValue(bits int) (uint64, error) {
	if err := ValidatePrecision(bits); err != nil {
		return 0, err
	}

	return (uint64(1) << uint(bits)) - 1, nil
}

// CheckCalibrated returns errs.ErrProbabilityOutOfBand if p lies outside
// [ThreshMin, ThreshMax].
func CheckCalibrated(p float64) error {
	if !(p >= ThreshMin && p <= ThreshMax) {
		return fmt.Errorf("%w: %v not in [%v, %v]", errs.ErrProbabilityOutOfBand, p, ThreshMin, ThreshMax)
	}

	return nil
}

// EncodeCalibrated rescales p from [ThreshMin, ThreshMax] onto [0, 2^bits-1]:
// round(((p-ThreshMin)/(ThreshMax-ThreshMin)) · (2^bits-1)).
//
// Probabilities outside the band are clamped to its nearest bound first, so the
// result is always a valid code. Use CheckCalibrated to reject such input instead.
func EncodeCalibrated(p float64, bits int) (uint64, error) {
	maxValue, err := CalibratedMaxValue(bits)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(p) {
		return 0, fmt.Errorf("%w: NaN", errs.ErrProbabilityOutOfBand)
	}

	p = min(max(p, ThreshMin), ThreshMax)
	unit := (p - ThreshMin) / (ThreshMax - ThreshMin)

	return uint64(math.Round(unit * float64(maxValue))), nil
}

// DecodeCalibrated maps a calibrated code back into the band:
// ThreshMin + (v/(2^bits-1)) · (ThreshMax-ThreshMin).
func DecodeCalibrated(v uint64, bits int) (float64, error) {
	maxValue, err := CalibratedMaxValue(bits)
	if err != nil {
		return 0, err
	}

	unit := float64(v) / float64(maxValue)

	return ThreshMin + unit*(ThreshMax-ThreshMin), nil
}

// RoundTripCalibrated returns decode(encode(p, bits), bits).
func RoundTripCalibrated(p float64, bits int) (float64, error) {
	v, err := EncodeCalibrated(p, bits)
	if err != nil {
		return 0, err
	}

	return DecodeCalibrated(v, bits)
}
