// Package reference wraps independent implementations of the pixel
// primitives so their outputs can be compared against this module's own.
//
// Two backends exist, selected at build time:
//   - the default pure-Go backend built on bild, disintegration/imaging and
//     gonum
//   - an OpenCV backend built on gocv, enabled with the "opencv" build tag
//
// Reference outputs are diagnostics. Nothing in the module branches on them.
//
// Both backends follow the module's conventions where the libraries allow:
// kernels are flipped so that Convolve matches pixel.ApplyKernel's mirrored
// indexing, and component counts consider interior pixels only. Border
// samples are not expected to agree.
package reference

import (
	"github.com/ironsheep/pixel-primitives/internal/pixel"
)

// Name returns the active backend: "pure-go" or "opencv".
func Name() string {
	return backend
}

// MomentSummary is the subset of image moments every backend can report.
type MomentSummary struct {
	M00       float64 `json:"m00"`
	CentroidX float64 `json:"centroid_x"`
	CentroidY float64 `json:"centroid_y"`
	Mu20      float64 `json:"mu20"`
	Mu11      float64 `json:"mu11"`
	Mu02      float64 `json:"mu02"`
}

// interior returns a copy of a gray buffer with its one-pixel border cleared.
func interior(src *pixel.Buffer) *pixel.Buffer {
	out := src.Clone()
	if out.Width == 0 || out.Height == 0 {
		return out
	}
	for col := 0; col < out.Width; col++ {
		out.Set(0, col, 0, 0)
		out.Set(out.Height-1, col, 0, 0)
	}
	for row := 0; row < out.Height; row++ {
		out.Set(row, 0, 0, 0)
		out.Set(row, out.Width-1, 0, 0)
	}
	return out
}
