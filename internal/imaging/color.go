package imaging

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/pixel-primitives/internal/pixel"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSVColor represents a color in HSV space.
type HSVColor struct {
	H float64 `json:"h"` // Hue: 0-360 degrees
	S float64 `json:"s"` // Saturation: 0-1
	V float64 `json:"v"` // Value: 0-1
}

// ColorSummary describes the mean color of the non-black pixels of a
// color-isolated buffer.
type ColorSummary struct {
	// Pixels is the number of pixels with at least one non-zero channel.
	Pixels int `json:"pixels"`

	// Coverage is Pixels divided by the total pixel count.
	Coverage float64 `json:"coverage"`

	Hex string   `json:"hex"`
	RGB RGBColor `json:"rgb"`
	HSV HSVColor `json:"hsv"`
}

// SummarizeColor averages every pixel of a 3-channel B,G,R buffer that is
// not pure black.
//
// Parameters:
//   - b: A 3-channel buffer, typically the output of pixel.IsolateColor.
//
// Returns:
//   - *ColorSummary: The mean color as RGB, hex and HSV, with the count and
//     coverage of contributing pixels. A buffer with no such pixels yields a
//     black summary with Pixels == 0.
//   - error: Non-nil if b is nil or not 3-channel.
func SummarizeColor(b *pixel.Buffer) (*ColorSummary, error) {
	if b == nil || b.Channels != 3 {
		return nil, fmt.Errorf("summarize color: %w", pixel.ErrChannelCount)
	}

	var sumB, sumG, sumR float64
	count := 0
	for i := 0; i+2 < len(b.Pix); i += 3 {
		if b.Pix[i] == 0 && b.Pix[i+1] == 0 && b.Pix[i+2] == 0 {
			continue
		}
		sumB += float64(b.Pix[i])
		sumG += float64(b.Pix[i+1])
		sumR += float64(b.Pix[i+2])
		count++
	}

	summary := &ColorSummary{Pixels: count, Hex: "#000000"}
	if count == 0 {
		return summary, nil
	}
	if total := b.Width * b.Height; total > 0 {
		summary.Coverage = float64(count) / float64(total)
	}

	n := float64(count)
	c := colorful.Color{R: sumR / n / 255, G: sumG / n / 255, B: sumB / n / 255}.Clamped()
	h, s, v := c.Hsv()
	if math.IsNaN(h) {
		h = 0
	}

	r8, g8, b8 := c.RGB255()
	summary.Hex = c.Hex()
	summary.RGB = RGBColor{R: r8, G: g8, B: b8}
	summary.HSV = HSVColor{H: h, S: s, V: v}
	return summary, nil
}
