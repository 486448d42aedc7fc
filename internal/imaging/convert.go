package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/pixel-primitives/internal/pixel"
)

// ToBuffer converts img to a 3-channel buffer with samples stored B,G,R.
// Alpha is discarded without compositing.
func ToBuffer(img image.Image) *pixel.Buffer {
	src := imaging.Clone(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()

	buf := &pixel.Buffer{Width: w, Height: h, Channels: 3, Pix: make([]uint8, w*h*3)}
	for y := 0; y < h; y++ {
		in := src.Pix[y*src.Stride : y*src.Stride+w*4]
		out := buf.Pix[y*w*3 : (y+1)*w*3]
		for x := 0; x < w; x++ {
			out[x*3+0] = in[x*4+2]
			out[x*3+1] = in[x*4+1]
			out[x*3+2] = in[x*4+0]
		}
	}
	return buf
}

// ToGray converts img to a single-channel buffer using pixel.Grayscale.
//
// Returns:
//   - *pixel.Buffer: A new 1-channel buffer of img's size.
//   - error: Non-nil only if the intermediate color buffer is rejected.
func ToGray(img image.Image) (*pixel.Buffer, error) {
	gray, err := pixel.Grayscale(ToBuffer(img))
	if err != nil {
		return nil, fmt.Errorf("failed to convert to grayscale: %w", err)
	}
	return gray, nil
}

// FromBuffer converts a buffer back to a Go image.
//
// Parameters:
//   - b: A 1-channel or 3-channel (B,G,R) buffer.
//
// Returns:
//   - image.Image: *image.Gray for 1-channel buffers and an opaque
//     *image.NRGBA for 3-channel buffers.
//   - error: Non-nil for any other channel count.
//
// # Errors
//
//   - Returns an error wrapping pixel.ErrChannelCount if b has neither 1
//     nor 3 channels
func FromBuffer(b *pixel.Buffer) (image.Image, error) {
	switch b.Channels {
	case 1:
		img := image.NewGray(image.Rect(0, 0, b.Width, b.Height))
		for y := 0; y < b.Height; y++ {
			copy(img.Pix[y*img.Stride:y*img.Stride+b.Width], b.Pix[y*b.Width:(y+1)*b.Width])
		}
		return img, nil
	case 3:
		img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
		for y := 0; y < b.Height; y++ {
			in := b.Pix[y*b.Width*3 : (y+1)*b.Width*3]
			out := img.Pix[y*img.Stride : y*img.Stride+b.Width*4]
			for x := 0; x < b.Width; x++ {
				out[x*4+0] = in[x*3+2]
				out[x*4+1] = in[x*3+1]
				out[x*4+2] = in[x*3+0]
				out[x*4+3] = 0xff
			}
		}
		return img, nil
	default:
		return nil, fmt.Errorf("buffer with %d channels: %w", b.Channels, pixel.ErrChannelCount)
	}
}
