// Package compare provides the scalar distances used to check results
// against reference outputs: pixelwise absolute differences and Hu-moment
// shape distances.
package compare

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/ironsheep/pixel-primitives/internal/pixel"
)

// MatchThreshold is the CompareHu value below which two shapes are treated as
// the same. It is a calibrated heuristic.
const MatchThreshold = 50.0

// SumOfAbsoluteDifferences sums |a-b| over every sample outside the
// one-pixel border, the same region ApplyKernel writes.
//
// Returns a wrapped pixel.ErrShapeMismatch when the buffers differ in width,
// height or channel count.
func SumOfAbsoluteDifferences(a, b *pixel.Buffer) (uint64, error) {
	if err := pixel.CheckSameShape(a, b); err != nil {
		return 0, err
	}

	var sum uint64
	stride, nc := a.Stride(), a.Channels
	for row := 1; row < a.Height-1; row++ {
		base := row * stride
		for j := nc; j < stride-nc; j++ {
			d := int(a.Pix[base+j]) - int(b.Pix[base+j])
			if d < 0 {
				d = -d
			}
			sum += uint64(d)
		}
	}
	return sum, nil
}

// MeanAbsoluteDifference is SumOfAbsoluteDifferences divided by the total
// sample count. Empty buffers yield 0.
func MeanAbsoluteDifference(a, b *pixel.Buffer) (float64, error) {
	sad, err := SumOfAbsoluteDifferences(a, b)
	if err != nil {
		return 0, err
	}
	if len(a.Pix) == 0 {
		return 0, nil
	}
	return float64(sad) / float64(len(a.Pix)), nil
}

// CompareHu returns the squared relative distance between two Hu vectors
// over the first six invariants. The seventh changes sign under reflection
// and is left out.
//
// Terms whose values are equal contribute 0. A term whose values differ but
// whose product is zero makes the result +Inf.
func CompareHu(h1, h2 [7]float64) float64 {
	var d float64
	for i := 0; i < 6; i++ {
		if h1[i] == h2[i] {
			continue
		}
		prod := h1[i] * h2[i]
		if prod == 0 {
			return math.Inf(1)
		}
		diff := h2[i] - h1[i]
		t := diff * diff / prod
		d += t * t
	}
	return d
}

// HuMatch reports whether CompareHu(h1, h2) is below MatchThreshold.
func HuMatch(h1, h2 [7]float64) bool {
	return CompareHu(h1, h2) < MatchThreshold
}

// HuMatchWithin reports whether CompareHu(h1, h2) is below threshold.
func HuMatchWithin(h1, h2 [7]float64, threshold float64) bool {
	return CompareHu(h1, h2) < threshold
}

// HuLogDistance returns the L1 distance between the inverted log-scaled Hu
// vectors, sum |1/m1[i] - 1/m2[i]| with m = sign(h)*log10|h|. Invariants
// whose scaled value is zero in either vector are skipped.
func HuLogDistance(h1, h2 [7]float64) float64 {
	var a, b []float64
	for i := range h1 {
		if h1[i] == 0 || h2[i] == 0 {
			continue
		}
		m1, m2 := logScale(h1[i]), logScale(h2[i])
		if m1 == 0 || m2 == 0 {
			continue
		}
		a = append(a, 1/m1)
		b = append(b, 1/m2)
	}
	if len(a) == 0 {
		return 0
	}
	return floats.Distance(a, b, 1)
}

func logScale(h float64) float64 {
	l := math.Log10(math.Abs(h))
	if h < 0 {
		return -l
	}
	return l
}
