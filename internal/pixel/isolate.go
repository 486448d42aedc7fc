package pixel

import (
	"fmt"
	"strings"
)

// Channel selects one sample of a B,G,R pixel by its memory offset.
type Channel int

// Color channels in storage order.
const (
	Blue  Channel = 0
	Green Channel = 1
	Red   Channel = 2
)

// String returns the lower-case channel name.
func (c Channel) String() string {
	switch c {
	case Blue:
		return "blue"
	case Green:
		return "green"
	case Red:
		return "red"
	default:
		return fmt.Sprintf("channel(%d)", int(c))
	}
}

// ParseChannel resolves "red", "green" or "blue" (case-insensitive).
func ParseChannel(name string) (Channel, error) {
	switch strings.ToLower(name) {
	case "blue", "b":
		return Blue, nil
	case "green", "g":
		return Green, nil
	case "red", "r":
		return Red, nil
	default:
		return 0, fmt.Errorf("channel %q: %w", name, ErrInvalidChannel)
	}
}

// IsolateColor keeps only the part of one channel that stands above the
// pixel's common white component.
//
// For every pixel, min is the smallest of its three samples. The output
// sample in channel ch is src[ch]-min when that difference exceeds threshold
// and 0 otherwise. The other two channels of the output are always 0, so the
// result is a 3-channel buffer showing a single hue.
//
// Returns ErrChannelCount unless src has 3 channels and ErrInvalidChannel for
// an unknown ch.
func IsolateColor(src *Buffer, ch Channel, threshold uint8) (*Buffer, error) {
	if err := requireChannels("isolate color", src, 3); err != nil {
		return nil, err
	}
	if ch < Blue || ch > Red {
		return nil, fmt.Errorf("isolate color: %w", ErrInvalidChannel)
	}

	dst := newLike(src)
	for s := 0; s < len(src.Pix); s += 3 {
		px := src.Pix[s : s+3]
		min := px[0]
		for _, v := range px[1:] {
			if v < min {
				min = v
			}
		}
		if d := px[ch] - min; d > threshold {
			dst.Pix[s+int(ch)] = d
		}
	}
	return dst, nil
}
