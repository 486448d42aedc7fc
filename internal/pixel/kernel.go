package pixel

import "fmt"

// Kernel is a 3x3 grid of signed weights, row-major.
type Kernel [3][3]int

// Predefined kernels.
var (
	Sharpen = Kernel{
		{0, -1, 0},
		{-1, 5, -1},
		{0, -1, 0},
	}
	SobelX = Kernel{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	SobelY = Kernel{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// KernelFromSlice builds a Kernel from nine row-major weights.
func KernelFromSlice(w []int) (Kernel, error) {
	var k Kernel
	if len(w) != 9 {
		return k, fmt.Errorf("got %d weights: %w", len(w), ErrInvalidKernel)
	}
	for i, v := range w {
		k[i/3][i%3] = v
	}
	return k, nil
}

// Flipped returns k rotated by 180 degrees.
//
// Libraries that correlate rather than convolve produce ApplyKernel's result
// when given the flipped kernel.
func (k Kernel) Flipped() Kernel {
	var f Kernel
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			f[r][c] = k[2-r][2-c]
		}
	}
	return f
}

// Weights returns the nine weights in row-major order.
func (k Kernel) Weights() []int {
	w := make([]int, 0, 9)
	for r := 0; r < 3; r++ {
		w = append(w, k[r][:]...)
	}
	return w
}

// KernelByName resolves "sharpen", "sobel_x" and "sobel_y".
func KernelByName(name string) (Kernel, error) {
	switch name {
	case "sharpen":
		return Sharpen, nil
	case "sobel_x":
		return SobelX, nil
	case "sobel_y":
		return SobelY, nil
	default:
		return Kernel{}, fmt.Errorf("unknown kernel %q: %w", name, ErrInvalidKernel)
	}
}
