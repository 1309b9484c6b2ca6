package precision

import (
	"fmt"

	"github.com/arloliu/otmap/fixedpoint"
)

// Quantizer round-trips a probability through a lossy codec.
type Quantizer interface {
	// RoundTrip returns decode(encode(p)).
	RoundTrip(p float64) (float64, error)
	String() string
}

type calibrated struct {
	bits   int
	strict bool
}

// Calibrated returns a Quantizer for the calibrated codec with the given bit width.
// Probabilities outside the calibration band are clamped into it.
func Calibrated(bits int) (Quantizer, error) {
	if err := fixedpoint.ValidatePrecision(bits); err != nil {
		return nil, err
	}

	return calibrated{bits: bits}, nil
}

// StrictCalibrated is like Calibrated but rejects probabilities outside the
// calibration band with errs.ErrProbabilityOutOfBand.
func StrictCalibrated(bits int) (Quantizer, error) {
	if err := fixedpoint.ValidatePrecision(bits); err != nil {
		return nil, err
	}

	return calibrated{bits: bits, strict: true}, nil
}

func (q calibrated) RoundTrip(p float64) (float64, error) {
	if q.strict {
		if err := fixedpoint.CheckCalibrated(p); err != nil {
			return 0, err
		}
	}

	return fixedpoint.RoundTripCalibrated(p, q.bits)
}

func (q calibrated) String() string {
	return fmt.Sprintf("%d-bit calibrated", q.bits)
}

type byteWidth struct {
	width fixedpoint.Width
}

// ByteWidth returns a Quantizer for the byte-oriented codec of width w. The native
// width stores values unquantized, so its round trip is exact.
func ByteWidth(w fixedpoint.Width) (Quantizer, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	return byteWidth{width: w}, nil
}

func (q byteWidth) RoundTrip(p float64) (float64, error) {
	if q.width.IsNative() {
		return p, nil
	}

	v, err := fixedpoint.Encode(p, q.width)
	if err != nil {
		return 0, err
	}

	return fixedpoint.Decode(v, q.width)
}

func (q byteWidth) String() string {
	return q.width.String()
}
