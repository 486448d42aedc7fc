package moments

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrNoAxes indicates a Set whose second-order moments are all zero, such as
// an empty buffer or a single pixel.
var ErrNoAxes = errors.New("moments: no principal axes")

// Axes describes the ellipse with the same second-order moments as the blob.
type Axes struct {
	// Orientation is the angle of the major axis in radians, measured from
	// the column axis toward increasing row, in (-pi/2, pi/2].
	Orientation float64 `json:"orientation"`

	// Major and Minor are full axis lengths in pixels (4 * sqrt(eigenvalue)).
	Major float64 `json:"major"`
	Minor float64 `json:"minor"`

	// Eccentricity is 0 for a circle and approaches 1 for a line.
	Eccentricity float64 `json:"eccentricity"`
}

// PrincipalAxes eigen-decomposes the covariance matrix built from the
// second-order central moments of s.
func PrincipalAxes(s Set) (Axes, error) {
	if s.Empty() {
		return Axes{}, fmt.Errorf("empty moment set: %w", ErrNoAxes)
	}

	cxx := s.Mu20 / s.M00
	cxy := s.Mu11 / s.M00
	cyy := s.Mu02 / s.M00

	cov := mat.NewSymDense(2, []float64{cxx, cxy, cxy, cyy})
	var eig mat.EigenSym
	if ok := eig.Factorize(cov, true); !ok {
		return Axes{}, fmt.Errorf("failed to factorize covariance: %w", ErrNoAxes)
	}

	// Values are returned in ascending order.
	vals := eig.Values(nil)
	minor, major := math.Max(vals[0], 0), math.Max(vals[1], 0)
	if major == 0 {
		return Axes{}, fmt.Errorf("zero spread: %w", ErrNoAxes)
	}

	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	theta := math.Atan2(vecs.At(1, 1), vecs.At(0, 1))
	if theta <= -math.Pi/2 {
		theta += math.Pi
	} else if theta > math.Pi/2 {
		theta -= math.Pi
	}

	return Axes{
		Orientation:  theta,
		Major:        4 * math.Sqrt(major),
		Minor:        4 * math.Sqrt(minor),
		Eccentricity: math.Sqrt(1 - minor/major),
	}, nil
}
