package contour

import (
	"fmt"
	"image"

	"github.com/ironsheep/pixel-primitives/internal/logger"
	"github.com/ironsheep/pixel-primitives/internal/pixel"
)

const component = "contour"

// Annotation values for single-channel destinations.
const (
	hitGray     uint8 = 128
	outlineGray uint8 = 255
)

// Annotation colors for three-channel destinations, in B,G,R order.
var (
	hitColor     = [3]uint8{0, 255, 0}
	outlineColor = [3]uint8{0, 0, 255}
)

// Rect is a half-open bounding rectangle in pixel coordinates.
type Rect struct {
	Top    int `json:"top"`    // first row (inclusive)
	Bottom int `json:"bottom"` // last row + 1
	Left   int `json:"left"`   // first column (inclusive)
	Right  int `json:"right"`  // last column + 1
}

// Empty reports whether r covers no pixels.
func (r Rect) Empty() bool {
	return r.Bottom <= r.Top || r.Right <= r.Left
}

// Width returns the number of columns covered.
func (r Rect) Width() int {
	if r.Empty() {
		return 0
	}
	return r.Right - r.Left
}

// Height returns the number of rows covered.
func (r Rect) Height() int {
	if r.Empty() {
		return 0
	}
	return r.Bottom - r.Top
}

// Bounds converts r to an image.Rectangle (X = column, Y = row).
func (r Rect) Bounds() image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Right, r.Bottom)
}

func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d)x[%d,%d)", r.Top, r.Bottom, r.Left, r.Right)
}

// Object is one enumerated blob.
type Object struct {
	Rect Rect
	// Crop holds the source pixels inside Rect as they were before erasure.
	Crop *pixel.Buffer
}

// Extractor finds blobs in binary buffers.
type Extractor struct {
	log logger.Logger
}

// NewExtractor returns an Extractor that reports through log.
// A nil log discards output.
func NewExtractor(log logger.Logger) *Extractor {
	if log == nil {
		log = logger.NewNop()
	}
	return &Extractor{log: log}
}

// Extract finds the bounding rectangle of the first blob in src, erases it
// from src, and annotates dst when dst is not nil.
//
// src must be single-channel. dst must match src's width and height and
// have 1 or 3 channels. An image with no foreground returns the zero Rect and
// a nil error.
func (e *Extractor) Extract(src, dst *pixel.Buffer) (Rect, error) {
	rect, _, err := e.extract(src, dst, false)
	return rect, err
}

// extract implements Extract. When keep is set the pixels inside the
// rectangle are copied out of src before they are erased.
func (e *Extractor) extract(src, dst *pixel.Buffer, keep bool) (Rect, *pixel.Buffer, error) {
	if err := pixel.RequireGray("extract", src); err != nil {
		return Rect{}, nil, err
	}
	if dst != nil {
		if dst.Width != src.Width || dst.Height != src.Height {
			return Rect{}, nil, fmt.Errorf("extract: annotation %dx%d for source %dx%d: %w",
				dst.Width, dst.Height, src.Width, src.Height, pixel.ErrShapeMismatch)
		}
		if dst.Channels != 1 && dst.Channels != 3 {
			return Rect{}, nil, fmt.Errorf("extract: annotation with %d channels: %w",
				dst.Channels, pixel.ErrChannelCount)
		}
	}

	sr, sc, ok := seed(src)
	if !ok {
		e.log.Debug(component, "empty image", map[string]interface{}{
			"width":  src.Width,
			"height": src.Height,
		})
		return Rect{}, nil, nil
	}

	w := &walker{src: src, dst: dst}
	br, bc := w.forward(sr, sc)
	tr, tc := w.backward(sr, sc, br, bc)

	rect := Rect{Top: tr, Bottom: br + 1, Left: tc, Right: bc + 1}

	var crop *pixel.Buffer
	if keep {
		var err error
		crop, err = pixel.Crop(src, rect.Top, rect.Left, rect.Bottom, rect.Right)
		if err != nil {
			return rect, nil, fmt.Errorf("failed to crop %s: %w", rect, err)
		}
	}

	erase(src, rect)
	if dst != nil {
		outline(dst, rect)
	}

	e.log.Debug(component, "object extracted", map[string]interface{}{
		"seed_row": sr,
		"seed_col": sc,
		"rect":     rect.String(),
	})
	return rect, crop, nil
}

// ExtractAll extracts objects until an empty rectangle comes back or limit
// objects have been found. limit <= 0 means no limit. Each Crop holds src's
// pixels inside the rectangle as they were just before that object was
// erased.
func (e *Extractor) ExtractAll(src, dst *pixel.Buffer, limit int) ([]Object, error) {
	var objects []Object
	for limit <= 0 || len(objects) < limit {
		rect, crop, err := e.extract(src, dst, true)
		if err != nil {
			return objects, fmt.Errorf("failed to extract object %d: %w", len(objects), err)
		}
		if rect.Empty() {
			break
		}
		objects = append(objects, Object{Rect: rect, Crop: crop})
	}

	e.log.Info(component, "objects enumerated", map[string]interface{}{
		"count": len(objects),
	})
	return objects, nil
}

// seed returns the first foreground pixel in raster order.
func seed(src *pixel.Buffer) (int, int, bool) {
	for i, v := range src.Pix {
		if v != 0 {
			return i / src.Width, i % src.Width, true
		}
	}
	return 0, 0, false
}

// walker grows a cursor over src and marks each hit in dst.
type walker struct {
	src *pixel.Buffer
	dst *pixel.Buffer
}

func (w *walker) fg(row, col int) bool {
	return w.src.Pix[row*w.src.Width+col] != 0
}

// scanCol returns the first foreground row in column col over [from, to].
func (w *walker) scanCol(col, from, to int) (int, bool) {
	for r := from; r <= to; r++ {
		if w.fg(r, col) {
			return r, true
		}
	}
	return 0, false
}

// scanRow returns the first foreground column in row row over [from, to].
func (w *walker) scanRow(row, from, to int) (int, bool) {
	for c := from; c <= to; c++ {
		if w.fg(row, c) {
			return c, true
		}
	}
	return 0, false
}

// forward grows the cursor from the seed toward the bottom-right and returns
// the inclusive bottom-right corner.
func (w *walker) forward(sr, sc int) (int, int) {
	cr, cc := sr, sc
	for {
		extended := false
		if cc+1 < w.src.Width {
			if r, ok := w.scanCol(cc+1, sr, cr); ok {
				w.mark(r, cc+1)
				cc++
				extended = true
			}
		}
		if cr+1 < w.src.Height {
			if c, ok := w.scanRow(cr+1, sc, cc); ok {
				w.mark(cr+1, c)
				cr++
				extended = true
			}
		}
		if !extended {
			return cr, cc
		}
	}
}

// backward grows the cursor from the seed toward the top-left, scanning no
// further than the bottom-right corner (br, bc), and returns the inclusive
// top-left corner.
func (w *walker) backward(sr, sc, br, bc int) (int, int) {
	cr, cc := sr, sc
	for {
		extended := false
		if cc-1 >= 0 {
			if r, ok := w.scanCol(cc-1, cr, br); ok {
				w.mark(r, cc-1)
				cc--
				extended = true
			}
		}
		if cr-1 >= 0 {
			if c, ok := w.scanRow(cr-1, cc, bc); ok {
				w.mark(cr-1, c)
				cr--
				extended = true
			}
		}
		if !extended {
			return cr, cc
		}
	}
}

func (w *walker) mark(row, col int) {
	if w.dst == nil {
		return
	}
	paint(w.dst, row, col, hitGray, hitColor)
}

func paint(dst *pixel.Buffer, row, col int, gray uint8, color [3]uint8) {
	if dst.Channels == 1 {
		dst.Set(row, col, 0, gray)
		return
	}
	i := dst.Index(row, col, 0)
	copy(dst.Pix[i:i+3], color[:])
}

func erase(src *pixel.Buffer, r Rect) {
	for row := r.Top; row < r.Bottom; row++ {
		start := row*src.Width + r.Left
		clear(src.Pix[start : start+r.Width()])
	}
}

func outline(dst *pixel.Buffer, r Rect) {
	last, right := r.Bottom-1, r.Right-1
	for c := r.Left; c <= right; c++ {
		paint(dst, r.Top, c, outlineGray, outlineColor)
		paint(dst, last, c, outlineGray, outlineColor)
	}
	for row := r.Top; row <= last; row++ {
		paint(dst, row, r.Left, outlineGray, outlineColor)
		paint(dst, row, right, outlineGray, outlineColor)
	}
}
