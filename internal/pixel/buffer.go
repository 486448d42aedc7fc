package pixel

import "fmt"

// Buffer is a rectangular grid of 8-bit samples.
//
// Pix holds Width*Height*Channels samples, row-major, with the channels of a
// pixel stored next to each other. Three-channel buffers are B,G,R.
type Buffer struct {
	// Width is the number of columns.
	Width int

	// Height is the number of rows.
	Height int

	// Channels is 1 for gray buffers and 3 for color buffers.
	Channels int

	// Pix holds the samples. len(Pix) == Width*Height*Channels.
	Pix []uint8
}

// New allocates a zeroed buffer.
//
// Returns ErrChannelCount if channels is not 1 or 3 and ErrBounds if either
// dimension is negative.
func New(width, height, channels int) (*Buffer, error) {
	if channels != 1 && channels != 3 {
		return nil, fmt.Errorf("new buffer with %d channels: %w", channels, ErrChannelCount)
	}
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("new buffer %dx%d: %w", width, height, ErrBounds)
	}
	return &Buffer{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}, nil
}

// FromSamples wraps an existing sample slice without copying it.
//
// Returns ErrShapeMismatch if len(pix) does not equal width*height*channels.
func FromSamples(width, height, channels int, pix []uint8) (*Buffer, error) {
	if channels != 1 && channels != 3 {
		return nil, fmt.Errorf("buffer with %d channels: %w", channels, ErrChannelCount)
	}
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("buffer %dx%d: %w", width, height, ErrBounds)
	}
	if len(pix) != width*height*channels {
		return nil, fmt.Errorf("%d samples for %dx%dx%d buffer: %w",
			len(pix), width, height, channels, ErrShapeMismatch)
	}
	return &Buffer{Width: width, Height: height, Channels: channels, Pix: pix}, nil
}

// newLike allocates a zeroed buffer with the shape of b.
func newLike(b *Buffer) *Buffer {
	return &Buffer{
		Width:    b.Width,
		Height:   b.Height,
		Channels: b.Channels,
		Pix:      make([]uint8, len(b.Pix)),
	}
}

// Clone returns a deep copy of b.
func (b *Buffer) Clone() *Buffer {
	c := newLike(b)
	copy(c.Pix, b.Pix)
	return c
}

// Stride is the number of samples in one row.
func (b *Buffer) Stride() int {
	return b.Width * b.Channels
}

// Index returns the offset of sample (row, col, ch) in Pix.
func (b *Buffer) Index(row, col, ch int) int {
	return row*b.Stride() + col*b.Channels + ch
}

// At returns sample (row, col, ch). No bounds checking beyond the slice's own.
func (b *Buffer) At(row, col, ch int) uint8 {
	return b.Pix[b.Index(row, col, ch)]
}

// Set stores sample (row, col, ch).
func (b *Buffer) Set(row, col, ch int, v uint8) {
	b.Pix[b.Index(row, col, ch)] = v
}

// SetPixel stores v in every channel of (row, col).
func (b *Buffer) SetPixel(row, col int, v uint8) {
	i := b.Index(row, col, 0)
	for ch := 0; ch < b.Channels; ch++ {
		b.Pix[i+ch] = v
	}
}

// InBounds reports whether (row, col) addresses a pixel of b.
func (b *Buffer) InBounds(row, col int) bool {
	return row >= 0 && row < b.Height && col >= 0 && col < b.Width
}

// SameShape reports whether b and o have identical width, height and channels.
func (b *Buffer) SameShape(o *Buffer) bool {
	return b.Width == o.Width && b.Height == o.Height && b.Channels == o.Channels
}

// CheckSameShape returns a wrapped ErrShapeMismatch when a and b differ.
func CheckSameShape(a, b *Buffer) error {
	if a == nil || b == nil {
		return fmt.Errorf("nil buffer: %w", ErrShapeMismatch)
	}
	if !a.SameShape(b) {
		return fmt.Errorf("%dx%dx%d vs %dx%dx%d: %w",
			a.Width, a.Height, a.Channels, b.Width, b.Height, b.Channels, ErrShapeMismatch)
	}
	return nil
}

// requireChannels returns a wrapped ErrChannelCount unless b has n channels.
func requireChannels(op string, b *Buffer, n int) error {
	if b == nil {
		return fmt.Errorf("%s: nil buffer: %w", op, ErrChannelCount)
	}
	if b.Channels != n {
		return fmt.Errorf("%s: need %d channels, got %d: %w", op, n, b.Channels, ErrChannelCount)
	}
	return nil
}

// RequireGray returns a wrapped ErrChannelCount unless b is single-channel.
func RequireGray(op string, b *Buffer) error {
	return requireChannels(op, b, 1)
}

// saturate clamps v into [0,255].
func saturate(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
