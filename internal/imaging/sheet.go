package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/pixel-primitives/internal/pixel"
)

// titleHeight is the vertical space reserved above each row for its title.
const titleHeight = labelHeight + 2

// Sheet lays out titled image pairs on one canvas, one pair per row.
//
// A Sheet owns its layout cursor; two sheets never share placement state.
// It is not safe for concurrent use.
type Sheet struct {
	padding    int
	background color.Color
	rows       []sheetRow
}

type sheetRow struct {
	title  string
	images []image.Image
}

// NewSheet creates an empty sheet with padding pixels between cells and
// around the edge. Negative padding is treated as 0.
func NewSheet(padding int) *Sheet {
	if padding < 0 {
		padding = 0
	}
	return &Sheet{
		padding:    padding,
		background: color.NRGBA{32, 32, 32, 255},
	}
}

// SetBackground sets the canvas color from a hex string like "#202020".
func (s *Sheet) SetBackground(hex string) error {
	c, err := parseHexColor(hex)
	if err != nil {
		return fmt.Errorf("invalid background color %q: %w", hex, err)
	}
	s.background = c
	return nil
}

// AddPair appends a row showing left and right side by side.
//
// Parameters:
//   - title: Label drawn above the row.
//   - left: The image shown first. Must not be nil.
//   - right: The image shown beside left. When nil or the same buffer as
//     left, the row holds a single image.
//
// # Errors
//
//   - Returns an error if either buffer cannot be converted to an image
func (s *Sheet) AddPair(title string, left, right *pixel.Buffer) error {
	row := sheetRow{title: title}

	l, err := FromBuffer(left)
	if err != nil {
		return fmt.Errorf("sheet row %q: %w", title, err)
	}
	row.images = append(row.images, l)

	if right != nil && right != left {
		r, err := FromBuffer(right)
		if err != nil {
			return fmt.Errorf("sheet row %q: %w", title, err)
		}
		row.images = append(row.images, r)
	}

	s.rows = append(s.rows, row)
	return nil
}

// Len returns the number of rows added so far.
func (s *Sheet) Len() int {
	return len(s.rows)
}

// Render composes every row onto a new canvas.
func (s *Sheet) Render() *image.NRGBA {
	p := s.padding
	width, height := 2*p, p
	if len(s.rows) == 0 {
		height = 2 * p
	}
	for _, row := range s.rows {
		w, h := p, 0
		for _, img := range row.images {
			w += img.Bounds().Dx() + p
			if img.Bounds().Dy() > h {
				h = img.Bounds().Dy()
			}
		}
		if tw := labelWidth(row.title) + 2*p; tw > w {
			w = tw
		}
		if w > width {
			width = w
		}
		height += titleHeight + h + p
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	canvas := imaging.New(width, height, s.background)
	y := p
	for _, row := range s.rows {
		drawLabel(canvas, p+1, y+1, row.title, color.White, s.background)
		y += titleHeight

		x, h := p, 0
		for _, img := range row.images {
			canvas = imaging.Paste(canvas, img, image.Pt(x, y))
			x += img.Bounds().Dx() + p
			if img.Bounds().Dy() > h {
				h = img.Bounds().Dy()
			}
		}
		y += h + p
	}
	return canvas
}

// Save renders the sheet and writes it to path.
//
// Parameters:
//   - path: Destination file. The format follows the file extension, as
//     understood by disintegration/imaging.
//
// An empty sheet saves as a background-only canvas.
//
// # Errors
//
//   - Returns error if the extension is unsupported or the file cannot be
//     written
func (s *Sheet) Save(path string) error {
	if err := imaging.Save(s.Render(), path); err != nil {
		return fmt.Errorf("failed to save sheet: %w", err)
	}
	return nil
}
