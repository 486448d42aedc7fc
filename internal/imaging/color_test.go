package imaging

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/ironsheep/pixel-primitives/internal/pixel"
)

// createInMemoryImage creates a solid in-memory test image.
func createInMemoryImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createPatternImage creates an image with different colors in each quadrant.
func createPatternImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.RGBA{255, 0, 0, 255} // Red top-left
			} else if x >= width/2 && y < height/2 {
				c = color.RGBA{0, 255, 0, 255} // Green top-right
			} else if x < width/2 && y >= height/2 {
				c = color.RGBA{0, 0, 255, 255} // Blue bottom-left
			} else {
				c = color.RGBA{255, 255, 255, 255} // White bottom-right
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func TestSummarizeColor(t *testing.T) {
	tests := []struct {
		name   string
		img    image.Image
		hex    string
		hue    float64
		pixels int
	}{
		{"red", createInMemoryImage(10, 10, color.RGBA{255, 0, 0, 255}), "#ff0000", 0, 100},
		{"green", createInMemoryImage(10, 10, color.RGBA{0, 255, 0, 255}), "#00ff00", 120, 100},
		{"blue", createInMemoryImage(10, 10, color.RGBA{0, 0, 255, 255}), "#0000ff", 240, 100},
		{"black", createInMemoryImage(10, 10, color.Black), "#000000", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := SummarizeColor(ToBuffer(tt.img))
			if err != nil {
				t.Fatalf("SummarizeColor failed: %v", err)
			}
			if s.Hex != tt.hex {
				t.Errorf("Hex: got %s, want %s", s.Hex, tt.hex)
			}
			if s.Pixels != tt.pixels {
				t.Errorf("Pixels: got %d, want %d", s.Pixels, tt.pixels)
			}
			if math.Abs(s.HSV.H-tt.hue) > 0.5 {
				t.Errorf("Hue: got %.2f, want %.0f", s.HSV.H, tt.hue)
			}
		})
	}
}

func TestSummarizeColor_IsolatedRed(t *testing.T) {
	src := ToBuffer(createPatternImage(20, 20))
	isolated, err := pixel.IsolateColor(src, pixel.Red, 50)
	if err != nil {
		t.Fatalf("IsolateColor failed: %v", err)
	}

	s, err := SummarizeColor(isolated)
	if err != nil {
		t.Fatalf("SummarizeColor failed: %v", err)
	}
	// Only the red quadrant survives; white has no red beyond its minimum.
	if s.Pixels != 100 {
		t.Errorf("Pixels: got %d, want 100", s.Pixels)
	}
	if math.Abs(s.Coverage-0.25) > 1e-9 {
		t.Errorf("Coverage: got %v, want 0.25", s.Coverage)
	}
	if s.RGB != (RGBColor{R: 255}) {
		t.Errorf("RGB: got %+v, want pure red", s.RGB)
	}
	if math.Abs(s.HSV.S-1) > 1e-9 || math.Abs(s.HSV.V-1) > 1e-9 {
		t.Errorf("HSV: got %+v, want full saturation and value", s.HSV)
	}
}

func TestSummarizeColor_RequiresColor(t *testing.T) {
	gray, _ := pixel.New(4, 4, 1)
	if _, err := SummarizeColor(gray); !errors.Is(err, pixel.ErrChannelCount) {
		t.Errorf("got %v, want ErrChannelCount", err)
	}
}
