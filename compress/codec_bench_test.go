package compress

import (
	"fmt"
	"testing"
)

func BenchmarkCodecs(b *testing.B) {
	for _, nodes := range []int{1000, 100000} {
		data := payloadLike(nodes)
		for _, ct := range allTypes() {
			codec, _ := GetCodec(ct)
			compressed, _ := codec.Compress(data)

			b.Run(fmt.Sprintf("%s/Compress/%d", ct, nodes), func(b *testing.B) {
				b.SetBytes(int64(len(data)))
				b.ReportAllocs()
				for b.Loop() {
					_, _ = codec.Compress(data)
				}
			})

			b.Run(fmt.Sprintf("%s/Decompress/%d", ct, nodes), func(b *testing.B) {
				b.SetBytes(int64(len(data)))
				b.ReportAllocs()
				for b.Loop() {
					_, _ = codec.Decompress(compressed)
				}
			})
		}
	}
}
