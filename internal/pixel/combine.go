package pixel

import (
	"fmt"
	"math"
)

// CombineFunc merges two samples into one. The result is clamped to [0,255].
type CombineFunc func(a, b int) int

// Hypotenuse returns sqrt(a*a + b*b) truncated toward zero. Combining the
// Sobel-x and Sobel-y responses with it gives the gradient magnitude.
func Hypotenuse(a, b int) int {
	return int(math.Sqrt(float64(a*a + b*b)))
}

// Average returns the mean of a and b truncated toward zero.
func Average(a, b int) int {
	return int(0.5*float64(a) + 0.5*float64(b))
}

// Combine applies fn sample by sample to two buffers of identical shape.
func Combine(a, b *Buffer, fn CombineFunc) (*Buffer, error) {
	if err := CheckSameShape(a, b); err != nil {
		return nil, fmt.Errorf("combine: %w", err)
	}
	dst := newLike(a)
	for i := range a.Pix {
		dst.Pix[i] = saturate(fn(int(a.Pix[i]), int(b.Pix[i])))
	}
	return dst, nil
}

// SobelMagnitude convolves src with SobelX and SobelY and merges the two
// responses with Hypotenuse.
func SobelMagnitude(src *Buffer) *Buffer {
	gx := ApplyKernel(src, SobelX)
	gy := ApplyKernel(src, SobelY)
	// Shapes match by construction.
	mag, _ := Combine(gx, gy, Hypotenuse)
	return mag
}
