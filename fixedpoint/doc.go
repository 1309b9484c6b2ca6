// Package fixedpoint implements the fixed-point codecs used to persist occupancy
// probabilities under a configurable precision budget.
//
// Two independent schemes are provided:
//
//  1. **Byte-oriented** (Width 1-4): linear quantization of a probability in [0, 1]
//     onto the integer domain [0, 2^(8n)-1]. Encoded values are emitted
//     little-endian, one byte at a time, low byte first. Width 0 (WidthNative)
//     means "no quantization"; the caller persists its native value instead.
//
//  2. **Calibrated bit-oriented** (precision 1-32 bits): linear rescaling of a
//     probability from the empirical band [ThreshMin, ThreshMax] onto
//     [0, 2^b-1]. This codec exists to measure precision trade-offs and is not
//     used for persistence.
//
// # Basic Usage
//
//	v, err := fixedpoint.Encode(0.7, fixedpoint.Width(2))
//	if err != nil {
//	    return err
//	}
//	buf, err := fixedpoint.AppendEncoded(nil, v, fixedpoint.Width(2))
//
//	p, err := fixedpoint.Decode(v, fixedpoint.Width(2))
//
// # Error Handling
//
// Unsupported widths return errs.ErrUnsupportedEncoding (byte codec) or
// errs.ErrUnsupportedPrecision (calibrated codec). The byte codec never clamps:
// a probability outside [0, 1] produces an encoded value that does not fit its
// width, which AppendEncoded reports as errs.ErrEncodedValueOverflow.
//
// # Thread Safety
//
// Every function in this package is pure and safe for concurrent use.
package fixedpoint
