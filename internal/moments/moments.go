// Package moments computes image moments of single-channel buffers: raw,
// central, normalized and the seven Hu invariants.
//
// Every accumulation is done in float64. A buffer with zero mass (M00 == 0)
// produces the zero Set, which callers detect with Set.Empty.
package moments

import (
	"math"

	"github.com/ironsheep/pixel-primitives/internal/pixel"
)

// Set holds the moments of one buffer. Subscripts follow the usual
// convention: the first index is the power of the column (x) offset, the
// second the power of the row (y) offset.
type Set struct {
	// Raw moments.
	M00 float64 `json:"m00"`
	M01 float64 `json:"m01"`
	M10 float64 `json:"m10"`

	// Central moments.
	Mu02 float64 `json:"mu02"`
	Mu03 float64 `json:"mu03"`
	Mu11 float64 `json:"mu11"`
	Mu12 float64 `json:"mu12"`
	Mu20 float64 `json:"mu20"`
	Mu21 float64 `json:"mu21"`
	Mu30 float64 `json:"mu30"`

	// Normalized central moments.
	Nu02 float64 `json:"nu02"`
	Nu03 float64 `json:"nu03"`
	Nu11 float64 `json:"nu11"`
	Nu12 float64 `json:"nu12"`
	Nu20 float64 `json:"nu20"`
	Nu21 float64 `json:"nu21"`
	Nu30 float64 `json:"nu30"`

	// Hu invariants, Hu[0] through Hu[6].
	Hu [7]float64 `json:"hu"`
}

// Empty reports whether s describes a buffer with no mass.
func (s Set) Empty() bool {
	return s.M00 == 0
}

// Centroid returns (x, y) = (column, row) of the center of mass.
// It returns (0, 0) for an empty Set.
func (s Set) Centroid() (float64, float64) {
	if s.Empty() {
		return 0, 0
	}
	return s.M10 / s.M00, s.M01 / s.M00
}

// Compute returns the moments of src, weighting each pixel by its sample
// value.
func Compute(src *pixel.Buffer) (Set, error) {
	if err := pixel.RequireGray("moments", src); err != nil {
		return Set{}, err
	}
	return compute(src, func(v uint8) float64 { return float64(v) }), nil
}

// ComputeBinary returns the moments of src treating every non-zero sample as
// 1 and every zero sample as 0.
func ComputeBinary(src *pixel.Buffer) (Set, error) {
	if err := pixel.RequireGray("moments", src); err != nil {
		return Set{}, err
	}
	return compute(src, func(v uint8) float64 {
		if v != 0 {
			return 1
		}
		return 0
	}), nil
}

func compute(src *pixel.Buffer, weight func(uint8) float64) Set {
	var s Set
	for row := 0; row < src.Height; row++ {
		for col := 0; col < src.Width; col++ {
			p := weight(src.Pix[row*src.Width+col])
			s.M00 += p
			s.M01 += float64(row) * p
			s.M10 += float64(col) * p
		}
	}
	if s.M00 == 0 {
		return Set{}
	}

	xc, yc := s.M10/s.M00, s.M01/s.M00
	for row := 0; row < src.Height; row++ {
		dy := float64(row) - yc
		for col := 0; col < src.Width; col++ {
			p := weight(src.Pix[row*src.Width+col])
			if p == 0 {
				continue
			}
			dx := float64(col) - xc
			s.Mu20 += dx * dx * p
			s.Mu11 += dx * dy * p
			s.Mu02 += dy * dy * p
			s.Mu30 += dx * dx * dx * p
			s.Mu21 += dx * dx * dy * p
			s.Mu12 += dx * dy * dy * p
			s.Mu03 += dy * dy * dy * p
		}
	}

	second := s.M00 * s.M00
	third := second * math.Sqrt(s.M00)
	s.Nu20 = s.Mu20 / second
	s.Nu11 = s.Mu11 / second
	s.Nu02 = s.Mu02 / second
	s.Nu30 = s.Mu30 / third
	s.Nu21 = s.Mu21 / third
	s.Nu12 = s.Mu12 / third
	s.Nu03 = s.Mu03 / third

	s.Hu = hu(s)
	return s
}

// hu evaluates the classical Hu invariants from the normalized moments.
func hu(s Set) [7]float64 {
	n20, n02, n11 := s.Nu20, s.Nu02, s.Nu11
	n30, n21, n12, n03 := s.Nu30, s.Nu21, s.Nu12, s.Nu03

	a := n30 + n12
	b := n21 + n03
	c := n30 - 3*n12
	d := 3*n21 - n03

	var h [7]float64
	h[0] = n20 + n02
	h[1] = (n20-n02)*(n20-n02) + 4*n11*n11
	h[2] = c*c + d*d
	h[3] = a*a + b*b
	h[4] = c*a*(a*a-3*b*b) + d*b*(3*a*a-b*b)
	h[5] = (n20-n02)*(a*a-b*b) + 4*n11*a*b
	h[6] = d*a*(a*a-3*b*b) - c*b*(3*a*a-b*b)
	return h
}
