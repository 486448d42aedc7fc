package pixel

// ApplyKernel convolves src with a 3x3 kernel and returns a new buffer of the
// same shape.
//
// # Kernel Orientation
//
// The kernel is applied as a true convolution, so its index mapping is
// mirrored: k[0][0] weights the bottom-right neighbor and k[2][2] the top-left
// one. For a pixel at (row, col) and channel ch:
//
//	acc = sum over r,c of k[r][c] * src[row+1-r][col+1-c][ch]
//
// Symmetric kernels such as Sharpen are unaffected. For Sobel kernels the
// mirroring flips the sign of the response, which the absolute value below
// hides.
//
// # Saturation
//
// Each output sample is |acc| clamped to 255.
//
// # Border
//
// Row 0, row Height-1, column 0 and column Width-1 are not computed and stay
// zero in the output. Buffers smaller than 3x3 produce an all-zero result.
func ApplyKernel(src *Buffer, k Kernel) *Buffer {
	dst := newLike(src)
	if src.Width < 3 || src.Height < 3 {
		return dst
	}

	nc := src.Channels
	stride := src.Stride()

	// offsets[r][c] is the Pix offset of the neighbor that k[r][c] weights.
	var offsets [3][3]int
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			offsets[r][c] = (1-r)*stride + (1-c)*nc
		}
	}

	for row := 1; row < src.Height-1; row++ {
		base := row * stride
		for j := nc; j < stride-nc; j++ {
			p := base + j
			acc := 0
			for r := 0; r < 3; r++ {
				for c := 0; c < 3; c++ {
					if k[r][c] == 0 {
						continue
					}
					acc += k[r][c] * int(src.Pix[p+offsets[r][c]])
				}
			}
			if acc < 0 {
				acc = -acc
			}
			dst.Pix[p] = saturate(acc)
		}
	}
	return dst
}
