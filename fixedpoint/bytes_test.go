package fixedpoint

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/otmap/errs"
)

func sampleProbabilities(n int) []float64 {
	ps := make([]float64, 0, n+4)
	for i := 1; i < n; i++ {
		ps = append(ps, float64(i)/float64(n))
	}

	return append(ps, 1e-9, 0.5, 0.7, 1-1e-9)
}

func TestWidthValidate(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 4} {
		w, err := ParseWidth(n)
		require.NoError(t, err)
		require.Equal(t, Width(n), w)
	}

	for _, n := range []int{-1, 5, 8} {
		_, err := ParseWidth(n)
		require.ErrorIs(t, err, errs.ErrUnsupportedEncoding)
	}
}

func TestWidthProperties(t *testing.T) {
	tests := []struct {
		width    Width
		size     int
		maxValue uint64
	}{
		{WidthNative, 4, 0},
		{1, 1, 0xFF},
		{2, 2, 0xFFFF},
		{3, 3, 0xFFFFFF},
		{4, 4, 0xFFFFFFFF},
	}

	for _, tt := range tests {
		t.Run(tt.width.String(), func(t *testing.T) {
			require.Equal(t, tt.size, tt.width.Size())
			require.Equal(t, tt.maxValue, tt.width.MaxValue())
		})
	}
}

func TestEncodeDecodeErrorBound(t *testing.T) {
	for w := Width(1); w <= MaxWidth; w++ {
		t.Run(w.String(), func(t *testing.T) {
			bound := 1 / float64(w.MaxValue())
			for _, p := range sampleProbabilities(997) {
				v, err := Encode(p, w)
				require.NoError(t, err)
				require.GreaterOrEqual(t, v, int64(0))
				require.LessOrEqual(t, uint64(v), w.MaxValue())

				got, err := Decode(v, w)
				require.NoError(t, err)
				require.LessOrEqual(t, math.Abs(got-p), bound, "p=%v", p)
			}
		})
	}
}

func TestEncodeKnownValues(t *testing.T) {
	tests := []struct {
		p     float64
		width Width
		want  int64
	}{
		{0, 1, 0},
		{1, 1, 255},
		{0.5, 1, 128}, // 127.5 rounds half away from zero
		{0.2, 1, 51},
		{1, 2, 65535},
		{0.25, 2, 16384}, // 16383.75
		{1, 4, 0xFFFFFFFF},
	}

	for _, tt := range tests {
		got, err := Encode(tt.p, tt.width)
		require.NoError(t, err)
		require.Equal(t, tt.want, got, "p=%v width=%d", tt.p, tt.width)
	}
}

func TestEncodeDecodeMonotonic(t *testing.T) {
	for w := Width(1); w <= MaxWidth; w++ {
		prevEnc := int64(-1)
		for i := 0; i <= 2000; i++ {
			p := float64(i) / 2000
			v, err := Encode(p, w)
			require.NoError(t, err)
			require.GreaterOrEqual(t, v, prevEnc)
			prevEnc = v
		}

		prevDec := -1.0
		step := int64(w.MaxValue()/1000) + 1
		for v := int64(0); uint64(v) <= w.MaxValue(); v += step {
			p, err := Decode(v, w)
			require.NoError(t, err)
			require.GreaterOrEqual(t, p, prevDec)
			prevDec = p
		}
	}
}

func TestUnsupportedWidths(t *testing.T) {
	for _, w := range []Width{-1, WidthNative, 5} {
		_, err := Encode(0.5, w)
		require.ErrorIs(t, err, errs.ErrUnsupportedEncoding)

		_, err = Decode(1, w)
		require.ErrorIs(t, err, errs.ErrUnsupportedEncoding)

		_, err = AppendEncoded(nil, 1, w)
		require.ErrorIs(t, err, errs.ErrUnsupportedEncoding)

		_, err = ReadEncoded([]byte{1, 2, 3, 4, 5}, w)
		require.ErrorIs(t, err, errs.ErrUnsupportedEncoding)
	}
}

func TestAppendEncodedLittleEndian(t *testing.T) {
	buf, err := AppendEncoded([]byte{0xAA}, 0x030201, 3)
	require.NoError(t, err)
	require.Equal(t, []byte{0xAA, 0x01, 0x02, 0x03}, buf)

	v, err := ReadEncoded(buf[1:], 3)
	require.NoError(t, err)
	require.Equal(t, int64(0x030201), v)

	buf, err = AppendEncoded(nil, 0xFFFFFFFF, 4)
	require.NoError(t, err)
	require.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF}, buf)
}

func TestAppendEncodedResidual(t *testing.T) {
	prefix := []byte{0x01}

	// p > 1 overflows the width
	v, err := Encode(1.5, 1)
	require.NoError(t, err)
	require.Equal(t, int64(383), v)

	out, err := AppendEncoded(prefix, v, 1)
	require.ErrorIs(t, err, errs.ErrEncodedValueOverflow)
	require.Equal(t, prefix, out)

	// p < 0 leaves sign bits behind
	v, err = Encode(-0.1, 2)
	require.NoError(t, err)
	_, err = AppendEncoded(nil, v, 2)
	require.ErrorIs(t, err, errs.ErrEncodedValueOverflow)

	_, err = AppendProbability(nil, 2.0, 4)
	require.ErrorIs(t, err, errs.ErrEncodedValueOverflow)
}

func TestEncodeNaN(t *testing.T) {
	_, err := Encode(math.NaN(), 2)
	require.ErrorIs(t, err, errs.ErrEncodedValueOverflow)
}

func TestReadEncodedShort(t *testing.T) {
	_, err := ReadEncoded([]byte{0x01}, 2)
	require.ErrorIs(t, err, errs.ErrShortValue)
}

func TestProbabilityRoundTrip(t *testing.T) {
	for w := Width(1); w <= MaxWidth; w++ {
		var buf []byte
		ps := sampleProbabilities(50)
		for _, p := range ps {
			var err error
			buf, err = AppendProbability(buf, p, w)
			require.NoError(t, err)
		}
		require.Len(t, buf, len(ps)*int(w))

		for i, p := range ps {
			got, err := ReadProbability(buf[i*int(w):], w)
			require.NoError(t, err)
			require.InDelta(t, p, got, w.Resolution())
		}
	}
}
