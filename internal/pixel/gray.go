package pixel

import "math"

// Luma weights for gray conversion.
const (
	RedWeight   = 0.2989
	GreenWeight = 0.5870
	BlueWeight  = 0.1140
)

// Grayscale reduces a 3-channel B,G,R buffer to a single luma channel.
//
// Each output sample is 0.2989*R + 0.5870*G + 0.1140*B, rounded half to even
// and clamped to [0,255]. The weights follow the storage order: offset 0 is
// blue, offset 1 green, offset 2 red.
//
// Returns ErrChannelCount unless src has 3 channels.
func Grayscale(src *Buffer) (*Buffer, error) {
	if err := requireChannels("grayscale", src, 3); err != nil {
		return nil, err
	}

	dst := &Buffer{
		Width:    src.Width,
		Height:   src.Height,
		Channels: 1,
		Pix:      make([]uint8, src.Width*src.Height),
	}
	for i := range dst.Pix {
		s := i * 3
		y := BlueWeight*float64(src.Pix[s]) +
			GreenWeight*float64(src.Pix[s+1]) +
			RedWeight*float64(src.Pix[s+2])
		dst.Pix[i] = saturate(int(math.RoundToEven(y)))
	}
	return dst, nil
}
