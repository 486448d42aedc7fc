// Package pixel provides the buffer type and the per-pixel primitives that the
// rest of the module builds on.
//
// A Buffer is a rectangular grid of 8-bit samples with one (gray) or three
// (color) interleaved channels. Rows are stored contiguously in row-major
// order. Three-channel buffers keep their samples in B,G,R order, which is the
// layout produced by imaging.ToBuffer and expected by Grayscale and
// IsolateColor.
//
// # Coordinate System
//
// Pixels are addressed as (row, col) with (0,0) at the top-left corner:
//   - row increases downward (0 to Height-1)
//   - col increases rightward (0 to Width-1)
//
// # Border Convention
//
// ApplyKernel leaves the one-pixel border of its output at zero, and the
// comparators in package compare skip that same border. Results near the
// edge of an image are therefore never compared against a reference.
//
// # Ownership
//
// Every operation in this package allocates and returns a fresh Buffer and
// never modifies its inputs. Buffers are not safe for concurrent writes;
// callers that share one across goroutines must Clone it first.
//
// # Error Handling
//
// Precondition violations are reported with the sentinel errors declared in
// errors.go, wrapped with context:
//   - ErrShapeMismatch when two buffers that must align do not
//   - ErrChannelCount when an operation requires 1 or 3 channels
//   - ErrInvalidChannel for a color channel other than Blue, Green or Red
//   - ErrInvalidKernel when a kernel is not 3x3
//   - ErrBounds for crop regions outside the buffer
package pixel
