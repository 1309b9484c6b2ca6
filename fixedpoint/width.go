package fixedpoint

import (
	"fmt"

	"github.com/arloliu/otmap/errs"
)

// Width is the number of bytes used to persist one node value.
//
// WidthNative (0) stores the native float32 log-odds unchanged; widths 1-4 store a
// quantized probability.
type Width int

const (
	// WidthNative persists the native value without quantization.
	WidthNative Width = 0
	// MaxWidth is the widest supported byte encoding.
	MaxWidth Width = 4

	// nativeSize is the on-disk size of a native float32 value.
	nativeSize = 4
)

// ParseWidth converts an integer flag value into a validated Width.
func ParseWidth(n int) (Width, error) {
	w := Width(n)
	if err := w.Validate(); err != nil {
		return 0, err
	}

	return w, nil
}

// Validate returns errs.ErrUnsupportedEncoding if w is outside 0-4.
func (w Width) Validate() error {
	if w < WidthNative || w > MaxWidth {
		return fmt.Errorf("%w: byte width %d (supported: 0-%d)", errs.ErrUnsupportedEncoding, int(w), int(MaxWidth))
	}

	return nil
}

// IsNative reports whether w bypasses quantization.
func (w Width) IsNative() bool {
	return w == WidthNative
}

// Size returns the number of bytes one value occupies on disk.
func (w Width) Size() int {
	if w.IsNative() {
		return nativeSize
	}

	return int(w)
}

// MaxValue returns the largest encoded integer for a quantized width, 2^(8n)-1.
// It returns 0 for WidthNative.
func (w Width) MaxValue() uint64 {
	if w.IsNative() {
		return 0
	}

	return (uint64(1) << (8 * uint(w))) - 1
}

// Resolution returns the quantization step 1/(2^(8n)-1), the worst-case round-trip
// error bound for a probability in [0, 1].
func (w Width) Resolution() float64 {
	if w.IsNative() {
		return 0
	}

	return 1 / float64(w.MaxValue())
}

func (w Width) String() string {
	if w.IsNative() {
		return "native"
	}

	return fmt.Sprintf("%d-byte", int(w))
}

// quantized validates w as a width that quantizes (1-4).
func (w Width) quantized() error {
	if err := w.Validate(); err != nil {
		return err
	}
	if w.IsNative() {
		return fmt.Errorf("%w: native width has no fixed-point representation", errs.ErrUnsupportedEncoding)
	}

	return nil
}
