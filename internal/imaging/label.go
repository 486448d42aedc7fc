package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"
	"unicode"

	"github.com/ironsheep/pixel-primitives/internal/pixel"
)

const (
	glyphAdvance = 4
	labelHeight  = 7
)

// glyphs is a 3x5 pixel font. Letters are looked up upper-case.
var glyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	',': {"000", "000", "000", "010", "010"},
	'.': {"000", "000", "000", "000", "010"},
	':': {"000", "010", "000", "010", "000"},
	'-': {"000", "000", "111", "000", "000"},
	'_': {"000", "000", "000", "000", "111"},
	'#': {"101", "111", "101", "111", "101"},
	'A': {"010", "101", "111", "101", "101"},
	'B': {"110", "101", "110", "101", "110"},
	'C': {"011", "100", "100", "100", "011"},
	'D': {"110", "101", "101", "101", "110"},
	'E': {"111", "100", "110", "100", "111"},
	'F': {"111", "100", "110", "100", "100"},
	'G': {"011", "100", "101", "101", "011"},
	'H': {"101", "101", "111", "101", "101"},
	'I': {"111", "010", "010", "010", "111"},
	'J': {"001", "001", "001", "101", "010"},
	'K': {"101", "101", "110", "101", "101"},
	'L': {"100", "100", "100", "100", "111"},
	'M': {"101", "111", "111", "101", "101"},
	'N': {"110", "101", "101", "101", "101"},
	'O': {"010", "101", "101", "101", "010"},
	'P': {"110", "101", "110", "100", "100"},
	'Q': {"010", "101", "101", "110", "011"},
	'R': {"110", "101", "110", "101", "101"},
	'S': {"011", "100", "010", "001", "110"},
	'T': {"111", "010", "010", "010", "010"},
	'U': {"101", "101", "101", "101", "111"},
	'V': {"101", "101", "101", "101", "010"},
	'W': {"101", "101", "111", "111", "101"},
	'X': {"101", "101", "010", "101", "101"},
	'Y': {"101", "101", "010", "010", "010"},
	'Z': {"111", "001", "010", "100", "111"},
}

// labelWidth returns the pixel width drawLabel uses for text.
func labelWidth(text string) int {
	return len([]rune(text)) * glyphAdvance
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080".
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}

// drawLabel draws text with its top-left corner at (x, y) over a background
// box. Pixels outside img are skipped; unknown runes leave a blank cell.
func drawLabel(img draw.Image, x, y int, text string, fg, bg color.Color) {
	bounds := img.Bounds()
	set := func(px, py int, c color.Color) {
		if (image.Point{X: px, Y: py}).In(bounds) {
			img.Set(px, py, c)
		}
	}

	width := labelWidth(text)
	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < width; dx++ {
			set(x+dx, y+dy, bg)
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[unicode.ToUpper(ch)]
		if ok {
			for row, line := range glyph {
				for col, bit := range line {
					if bit == '1' {
						set(cx+col, y+row, fg)
					}
				}
			}
		}
		cx += glyphAdvance
	}
}

// AnnotateRects renders b as an opaque color image and outlines each
// rectangle with its index.
//
// Parameters:
//   - b: A 1-channel or 3-channel buffer to draw on. b is not modified.
//   - rects: Rectangles in image coordinates (X = column, Y = row).
//   - hexColor: Outline color such as "#FF0000". An invalid color falls
//     back to red.
//
// # Errors
//
//   - Returns an error wrapping pixel.ErrChannelCount if b cannot be rendered
func AnnotateRects(b *pixel.Buffer, rects []image.Rectangle, hexColor string) (*image.NRGBA, error) {
	src, err := FromBuffer(b)
	if err != nil {
		return nil, err
	}
	out := image.NewNRGBA(src.Bounds())
	draw.Draw(out, out.Bounds(), src, image.Point{}, draw.Src)

	stroke, err := parseHexColor(hexColor)
	if err != nil {
		stroke = color.RGBA{255, 0, 0, 255}
	}
	bg := color.RGBA{0, 0, 0, 180}

	for i, r := range rects {
		r = r.Intersect(out.Bounds())
		if r.Empty() {
			continue
		}
		for x := r.Min.X; x < r.Max.X; x++ {
			out.Set(x, r.Min.Y, stroke)
			out.Set(x, r.Max.Y-1, stroke)
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			out.Set(r.Min.X, y, stroke)
			out.Set(r.Max.X-1, y, stroke)
		}
		drawLabel(out, r.Min.X+2, r.Min.Y+2, strconv.Itoa(i), stroke, bg)
	}
	return out, nil
}
