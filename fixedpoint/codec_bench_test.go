package fixedpoint

import "testing"

func BenchmarkAppendProbability(b *testing.B) {
	for w := Width(1); w <= MaxWidth; w++ {
		b.Run(w.String(), func(b *testing.B) {
			buf := make([]byte, 0, 4096)
			b.ReportAllocs()
			for i := 0; b.Loop(); i++ {
				if len(buf)+int(w) > cap(buf) {
					buf = buf[:0]
				}
				buf, _ = AppendProbability(buf, float64(i%1000)/1000, w)
			}
		})
	}
}

func BenchmarkRoundTripCalibrated(b *testing.B) {
	b.ReportAllocs()
	for i := 0; b.Loop(); i++ {
		_, _ = RoundTripCalibrated(0.2+float64(i%700)/1000, 16)
	}
}
