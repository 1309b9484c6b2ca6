package occupancy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/otmap/endian"
	"github.com/arloliu/otmap/errs"
	"github.com/arloliu/otmap/fixedpoint"
)

func TestProbability(t *testing.T) {
	tests := []struct {
		logOdds float32
		want    float64
	}{
		{0, 0.5},
		{float32(math.Log(3)), 0.75},
		{-float32(math.Log(3)), 0.25},
	}

	for _, tt := range tests {
		v := NewValue(tt.logOdds)
		require.InDelta(t, tt.want, v.Probability(), 1e-7)
	}
}

func TestProbabilityStrictlyInsideUnitInterval(t *testing.T) {
	for _, l := range []float32{-LogOddsLimit, LogOddsLimit, -1e30, 1e30} {
		p := NewValue(l).Probability()
		require.Greater(t, p, 0.0)
		require.Less(t, p, 1.0)
	}
}

func TestValueFromProbability(t *testing.T) {
	for _, p := range []float64{0.1192, 0.3, 0.5, 0.7, 0.971} {
		v := ValueFromProbability(p)
		require.InDelta(t, p, v.Probability(), 1e-6)
	}

	require.Equal(t, float32(-LogOddsLimit), ValueFromProbability(0).LogOdds())
	require.Equal(t, float32(LogOddsLimit), ValueFromProbability(1).LogOdds())
}

func TestAddValue(t *testing.T) {
	var v Value
	v.AddValue(0.85)
	v.AddValue(0.85)
	v.AddValue(-0.4)
	require.InDelta(t, 1.3, v.LogOdds(), 1e-6)

	v.AddValue(float32(math.Inf(1)))
	require.Equal(t, float32(LogOddsLimit), v.LogOdds())

	for range 1000 {
		v.AddValue(-3.5)
	}
	require.Equal(t, float32(-LogOddsLimit), v.LogOdds())
	require.False(t, math.IsInf(float64(v.LogOdds()), 0))
}

func TestIsOccupied(t *testing.T) {
	require.True(t, ValueFromProbability(0.7).IsOccupied(0.5))
	require.False(t, ValueFromProbability(0.3).IsOccupied(0.5))
}

func TestValueNativeRoundTripExact(t *testing.T) {
	for _, engine := range []endian.EndianEngine{endian.GetLittleEndianEngine(), endian.GetBigEndianEngine()} {
		for _, l := range []float32{0, 1.2345678, -3.999, LogOddsLimit, -LogOddsLimit} {
			v := NewValue(l)
			buf, err := v.AppendData(nil, engine, fixedpoint.WidthNative)
			require.NoError(t, err)
			require.Len(t, buf, 4)

			var got Value
			n, err := got.ReadData(buf, engine, fixedpoint.WidthNative)
			require.NoError(t, err)
			require.Equal(t, 4, n)
			require.Equal(t, v.LogOdds(), got.LogOdds())
		}
	}
}

func TestValueQuantizedRoundTrip(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	for w := fixedpoint.Width(1); w <= fixedpoint.MaxWidth; w++ {
		for _, p := range []float64{0.12, 0.4, 0.5, 0.7, 0.97} {
			v := ValueFromProbability(p)
			buf, err := v.AppendData(nil, engine, w)
			require.NoError(t, err)
			require.Len(t, buf, int(w))

			var got Value
			n, err := got.ReadData(buf, engine, w)
			require.NoError(t, err)
			require.Equal(t, int(w), n)
			require.InDelta(t, v.Probability(), got.Probability(), w.Resolution()+1e-6)
		}
	}
}

func TestValueQuantizedExtremesSaturate(t *testing.T) {
	var v Value
	_, err := v.ReadData([]byte{0x00}, endian.GetLittleEndianEngine(), 1)
	require.NoError(t, err)
	require.Equal(t, float32(-LogOddsLimit), v.LogOdds())

	_, err = v.ReadData([]byte{0xFF, 0xFF}, endian.GetLittleEndianEngine(), 2)
	require.NoError(t, err)
	require.Equal(t, float32(LogOddsLimit), v.LogOdds())
}

func TestValueDataErrors(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	v := NewValue(1)

	_, err := v.AppendData(nil, engine, 5)
	require.ErrorIs(t, err, errs.ErrUnsupportedEncoding)

	_, err = v.ReadData([]byte{1, 2, 3, 4, 5, 6}, engine, -1)
	require.ErrorIs(t, err, errs.ErrUnsupportedEncoding)

	_, err = v.ReadData([]byte{1, 2}, engine, fixedpoint.WidthNative)
	require.ErrorIs(t, err, errs.ErrShortValue)

	nan := endian.AppendFloat32(engine, nil, float32(math.NaN()))
	_, err = v.ReadData(nan, engine, fixedpoint.WidthNative)
	require.ErrorIs(t, err, errs.ErrInvalidValue)
}
