package report

import (
	"fmt"
	"math"

	"github.com/ironsheep/pixel-primitives/internal/moments"
	"github.com/ironsheep/pixel-primitives/internal/pixel"
	"github.com/ironsheep/pixel-primitives/internal/reference"
)

// MomentDiff holds this module's moments minus the reference backend's
// moments of the same buffer. Centroids are in the buffer's own coordinates,
// so an offset applied to both sides cancels out.
type MomentDiff struct {
	Backend   string  `json:"backend"`
	M00       float64 `json:"m00"`
	CentroidX float64 `json:"centroid_x"`
	CentroidY float64 `json:"centroid_y"`
	Mu20      float64 `json:"mu20"`
	Mu11      float64 `json:"mu11"`
	Mu02      float64 `json:"mu02"`
}

// MaxAbs returns the largest absolute difference across all fields.
func (d MomentDiff) MaxAbs() float64 {
	m := 0.0
	for _, v := range []float64{d.M00, d.CentroidX, d.CentroidY, d.Mu20, d.Mu11, d.Mu02} {
		m = math.Max(m, math.Abs(v))
	}
	return m
}

// DiffMoments computes the reference backend's moments of src and subtracts
// them from set, which must have been computed from src with the same
// weighting. With binary set, every non-zero sample weighs 1.
//
// Parameters:
//   - src: Single-channel buffer the moments describe.
//   - binary: Whether set was computed with moments.ComputeBinary.
//   - set: This module's moments of src.
//
// Returns:
//   - MomentDiff: Per-field differences, zero when both sides agree.
//   - error: Non-nil if the reference backend rejects src.
func DiffMoments(src *pixel.Buffer, binary bool, set moments.Set) (MomentDiff, error) {
	ref, err := reference.Moments(src, binary)
	if err != nil {
		return MomentDiff{}, fmt.Errorf("reference moments failed: %w", err)
	}

	cx, cy := set.Centroid()
	return MomentDiff{
		Backend:   reference.Name(),
		M00:       set.M00 - ref.M00,
		CentroidX: cx - ref.CentroidX,
		CentroidY: cy - ref.CentroidY,
		Mu20:      set.Mu20 - ref.Mu20,
		Mu11:      set.Mu11 - ref.Mu11,
		Mu02:      set.Mu02 - ref.Mu02,
	}, nil
}
