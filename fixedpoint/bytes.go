package fixedpoint

import (
	"fmt"
	"math"

	"github.com/arloliu/otmap/errs"
)

// maxExactInt is the largest magnitude a float64 represents without gaps.
const maxExactInt = 1 << 53

// Encode quantizes probability p into the integer domain of width w:
// round(p · (2^(8n)-1)).
//
// p must already lie in [0, 1]. No clamping is performed: an out-of-range p yields a
// negative or oversized result that AppendEncoded rejects. Width 0 is rejected with
// errs.ErrUnsupportedEncoding because the native width has nothing to quantize.
//
// Parameters:
//   - p: Probability to encode
//   - w: Byte width, 1-4
//
// Returns:
//   - int64: Encoded value, in [0, 2^(8n)-1] whenever p is in [0, 1]
//   - error: errs.ErrUnsupportedEncoding for an invalid width, errs.ErrEncodedValueOverflow
//     for a NaN or unrepresentably large p
func Encode(p float64, w Width) (int64, error) {
	if err := w.quantized(); err != nil {
		return 0, err
	}

	scaled := math.Round(p * float64(w.MaxValue()))
	if math.IsNaN(scaled) || math.Abs(scaled) > maxExactInt {
		return 0, fmt.Errorf("%w: probability %v at %s", errs.ErrEncodedValueOverflow, p, w)
	}

	return int64(scaled), nil
}

// Decode maps an encoded integer back to a probability: v / (2^(8n)-1).
//
// Values outside [0, 2^(8n)-1] decode outside [0, 1]; Decode does not clamp.
func Decode(v int64, w Width) (float64, error) {
	if err := w.quantized(); err != nil {
		return 0, err
	}

	return float64(v) / float64(w.MaxValue()), nil
}

// AppendEncoded appends the n little-endian bytes of v to dst, one byte per
// iteration, low byte first.
//
// After n bytes the remaining bits of v must be zero; otherwise the value did not
// fit in the requested width and errs.ErrEncodedValueOverflow is returned. dst is
// returned unchanged on error.
func AppendEncoded(dst []byte, v int64, w Width) ([]byte, error) {
	if err := w.quantized(); err != nil {
		return dst, err
	}

	start := len(dst)
	rest := v
	for range int(w) {
		dst = append(dst, byte(rest))
		rest >>= 8
	}

	if rest != 0 {
		return dst[:start], fmt.Errorf("%w: value %d at %s (residual %d)", errs.ErrEncodedValueOverflow, v, w, rest)
	}

	return dst, nil
}

// ReadEncoded reads one little-endian encoded value of width w from the start of src.
func ReadEncoded(src []byte, w Width) (int64, error) {
	if err := w.quantized(); err != nil {
		return 0, err
	}
	if len(src) < int(w) {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", errs.ErrShortValue, int(w), len(src))
	}

	var v int64
	for i := range int(w) {
		v |= int64(src[i]) << (8 * i)
	}

	return v, nil
}

// AppendProbability encodes p at width w and appends the encoded bytes to dst.
func AppendProbability(dst []byte, p float64, w Width) ([]byte, error) {
	v, err := Encode(p, w)
	if err != nil {
		return dst, err
	}

	return AppendEncoded(dst, v, w)
}

// ReadProbability reads and decodes one probability of width w from the start of src.
func ReadProbability(src []byte, w Width) (float64, error) {
	v, err := ReadEncoded(src, w)
	if err != nil {
		return 0, err
	}

	return Decode(v, w)
}
