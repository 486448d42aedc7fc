package pixel

import "fmt"

// Threshold binarizes a single-channel buffer: samples above level become
// 255, everything else 0.
func Threshold(src *Buffer, level uint8) (*Buffer, error) {
	if err := RequireGray("threshold", src); err != nil {
		return nil, err
	}
	dst := newLike(src)
	for i, v := range src.Pix {
		if v > level {
			dst.Pix[i] = 255
		}
	}
	return dst, nil
}

// Crop copies the half-open region [top,bottom) x [left,right) into a new
// buffer with the same channel count.
func Crop(src *Buffer, top, left, bottom, right int) (*Buffer, error) {
	if top < 0 || left < 0 || bottom > src.Height || right > src.Width || top > bottom || left > right {
		return nil, fmt.Errorf("crop (%d,%d)-(%d,%d) of %dx%d: %w",
			top, left, bottom, right, src.Width, src.Height, ErrBounds)
	}

	dst := &Buffer{
		Width:    right - left,
		Height:   bottom - top,
		Channels: src.Channels,
	}
	dst.Pix = make([]uint8, dst.Width*dst.Height*dst.Channels)

	rowLen := dst.Stride()
	for r := 0; r < dst.Height; r++ {
		from := src.Index(top+r, left, 0)
		copy(dst.Pix[r*rowLen:(r+1)*rowLen], src.Pix[from:from+rowLen])
	}
	return dst, nil
}
