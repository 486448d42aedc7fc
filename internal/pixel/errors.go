package pixel

import "errors"

// Sentinel errors for buffer operations.
var (
	// ErrShapeMismatch indicates two buffers differ in width, height or channel count.
	ErrShapeMismatch = errors.New("pixel: buffer shapes do not match")
	// ErrChannelCount indicates a buffer has an unsupported number of channels.
	ErrChannelCount = errors.New("pixel: unsupported channel count")
	// ErrInvalidChannel indicates a color channel selector outside Blue, Green, Red.
	ErrInvalidChannel = errors.New("pixel: invalid color channel")
	// ErrInvalidKernel indicates kernel weights that do not form a 3x3 grid.
	ErrInvalidKernel = errors.New("pixel: kernel must have exactly 9 weights")
	// ErrBounds indicates a region that does not fit inside the buffer.
	ErrBounds = errors.New("pixel: region outside buffer bounds")
)
