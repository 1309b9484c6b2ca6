package occupancy

import (
	"fmt"
	"math"

	"github.com/arloliu/otmap/endian"
	"github.com/arloliu/otmap/errs"
	"github.com/arloliu/otmap/fixedpoint"
)

const (
	// LogOddsLimit bounds stored log-odds to [-LogOddsLimit, LogOddsLimit].
	LogOddsLimit = 32

	// NoChildLogOdds is returned by child aggregations on a node without children.
	NoChildLogOdds float32 = -math.MaxFloat32
)

// Probability converts log-odds to a probability with the logistic transform.
func Probability(logOdds float64) float64 {
	return 1 / (1 + math.Exp(-logOdds))
}

// LogOdds converts a probability to log-odds, log(p/(1-p)).
// The result is not saturated; 0 and 1 map to -Inf and +Inf.
func LogOdds(p float64) float64 {
	return math.Log(p / (1 - p))
}

// Saturate clamps l to [-LogOddsLimit, LogOddsLimit]. NaN is returned unchanged.
func Saturate(l float64) float64 {
	if l > LogOddsLimit {
		return LogOddsLimit
	}
	if l < -LogOddsLimit {
		return -LogOddsLimit
	}

	return l
}

// Value is the occupancy state of one node, stored as log-odds.
//
// The zero Value has log-odds 0, i.e. probability 0.5.
type Value struct {
	logOdds float32
}

// NewValue creates a Value from log-odds, saturating out-of-range input.
func NewValue(logOdds float32) Value {
	return Value{logOdds: float32(Saturate(float64(logOdds)))}
}

// ValueFromProbability creates a Value from an occupancy probability.
func ValueFromProbability(p float64) Value {
	return Value{logOdds: float32(Saturate(LogOdds(p)))}
}

// LogOdds returns the stored log-odds.
func (v Value) LogOdds() float32 {
	return v.logOdds
}

// Probability returns the occupancy probability of the stored log-odds.
func (v Value) Probability() float64 {
	return Probability(float64(v.logOdds))
}

// SetLogOdds replaces the stored log-odds, saturating out-of-range input.
func (v *Value) SetLogOdds(logOdds float32) {
	v.logOdds = float32(Saturate(float64(logOdds)))
}

// AddValue applies an additive log-odds update, value += delta.
//
// The sum saturates at ±LogOddsLimit, so infinite deltas pin the value to a bound.
func (v *Value) AddValue(delta float32) {
	v.logOdds = float32(Saturate(float64(v.logOdds) + float64(delta)))
}

// IsOccupied reports whether the probability is at least threshold.
func (v Value) IsOccupied(threshold float64) bool {
	return v.Probability() >= threshold
}

// AppendData appends the persisted form of v to dst.
//
// Width 0 writes the native float32 log-odds with engine's byte order. Widths 1-4
// write the quantized probability as w little-endian bytes.
//
// Returns:
//   - []byte: dst with the encoded value appended
//   - error: errs.ErrUnsupportedEncoding for an invalid width, errs.ErrEncodedValueOverflow
//     if the encoded value does not fit in w bytes
func (v Value) AppendData(dst []byte, engine endian.EndianEngine, w fixedpoint.Width) ([]byte, error) {
	if err := w.Validate(); err != nil {
		return dst, err
	}

	if w.IsNative() {
		return endian.AppendFloat32(engine, dst, v.logOdds), nil
	}

	return fixedpoint.AppendProbability(dst, v.Probability(), w)
}

// ReadData restores v from the start of src and returns the number of bytes consumed.
//
// Quantized probabilities of exactly 0 or 1 saturate to ∓LogOddsLimit.
func (v *Value) ReadData(src []byte, engine endian.EndianEngine, w fixedpoint.Width) (int, error) {
	if err := w.Validate(); err != nil {
		return 0, err
	}

	size := w.Size()
	if len(src) < size {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", errs.ErrShortValue, size, len(src))
	}

	if w.IsNative() {
		l := endian.Float32(engine, src)
		if math.IsNaN(float64(l)) {
			return 0, errs.ErrInvalidValue
		}
		v.SetLogOdds(l)

		return size, nil
	}

	p, err := fixedpoint.ReadProbability(src, w)
	if err != nil {
		return 0, err
	}
	v.logOdds = float32(Saturate(LogOdds(p)))

	return size, nil
}
