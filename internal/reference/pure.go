//go:build !opencv

package reference

import (
	"fmt"

	"github.com/anthonynsimon/bild/convolution"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/stat"

	pimg "github.com/ironsheep/pixel-primitives/internal/imaging"
	"github.com/ironsheep/pixel-primitives/internal/pixel"
)

const backend = "pure-go"

// Convolve applies k with bild's convolution. Negative responses clamp to 0
// here, so only non-negative kernels agree with pixel.ApplyKernel everywhere
// off the border.
func Convolve(src *pixel.Buffer, k pixel.Kernel) (*pixel.Buffer, error) {
	img, err := pimg.FromBuffer(src)
	if err != nil {
		return nil, err
	}

	f := k.Flipped()
	kern := convolution.NewKernel(3, 3)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			kern.Matrix[r*3+c] = float64(f[r][c])
		}
	}

	out := convolution.Convolve(img, kern, &convolution.Options{KeepAlpha: true})
	return fromRGBA(out.Pix, out.Stride, src.Width, src.Height, src.Channels), nil
}

// Grayscale reduces a B,G,R buffer with disintegration/imaging, which uses
// 0.299/0.587/0.114 weights and rounds half up.
func Grayscale(src *pixel.Buffer) (*pixel.Buffer, error) {
	if src == nil || src.Channels != 3 {
		return nil, fmt.Errorf("reference grayscale: %w", pixel.ErrChannelCount)
	}
	img, err := pimg.FromBuffer(src)
	if err != nil {
		return nil, err
	}
	out := imaging.Grayscale(img)
	return fromRGBA(out.Pix, out.Stride, src.Width, src.Height, 1), nil
}

// Threshold binarizes a gray buffer with bild's segment.Threshold: samples
// above level become 255.
func Threshold(src *pixel.Buffer, level uint8) (*pixel.Buffer, error) {
	if err := pixel.RequireGray("reference threshold", src); err != nil {
		return nil, err
	}
	dst, _ := pixel.New(src.Width, src.Height, 1)
	if level == 255 {
		return dst, nil
	}

	img, err := pimg.FromBuffer(src)
	if err != nil {
		return nil, err
	}
	// segment.Threshold keeps samples >= its level.
	out := segment.Threshold(img, level+1)
	for y := 0; y < src.Height; y++ {
		copy(dst.Pix[y*src.Width:(y+1)*src.Width], out.Pix[y*out.Stride:y*out.Stride+src.Width])
	}
	return dst, nil
}

// Moments computes second-order moments with gonum's weighted statistics.
// With binary set, every non-zero sample weighs 1.
func Moments(src *pixel.Buffer, binary bool) (MomentSummary, error) {
	if err := pixel.RequireGray("reference moments", src); err != nil {
		return MomentSummary{}, err
	}

	var xs, ys, xys, ws []float64
	for row := 0; row < src.Height; row++ {
		for col := 0; col < src.Width; col++ {
			v := src.Pix[row*src.Width+col]
			if v == 0 {
				continue
			}
			w := float64(v)
			if binary {
				w = 1
			}
			xs = append(xs, float64(col))
			ys = append(ys, float64(row))
			xys = append(xys, float64(col*row))
			ws = append(ws, w)
		}
	}
	if len(ws) == 0 {
		return MomentSummary{}, nil
	}

	m00 := floats.Sum(ws)
	cx := stat.Mean(xs, ws)
	cy := stat.Mean(ys, ws)
	return MomentSummary{
		M00:       m00,
		CentroidX: cx,
		CentroidY: cy,
		Mu20:      stat.Moment(2, xs, ws) * m00,
		Mu02:      stat.Moment(2, ys, ws) * m00,
		Mu11:      (stat.Mean(xys, ws) - cx*cy) * m00,
	}, nil
}

// Components counts 8-connected foreground components among interior pixels
// using gonum's graph connectivity.
func Components(src *pixel.Buffer) (int, error) {
	if err := pixel.RequireGray("reference components", src); err != nil {
		return 0, err
	}
	in := interior(src)
	w := in.Width

	g := simple.NewUndirectedGraph()
	for i, v := range in.Pix {
		if v != 0 {
			g.AddNode(simple.Node(i))
		}
	}

	fg := func(row, col int) bool {
		return row >= 0 && row < in.Height && col >= 0 && col < w && in.Pix[row*w+col] != 0
	}
	// Linking forward neighbors is enough to cover all eight directions.
	forward := [4][2]int{{0, 1}, {1, -1}, {1, 0}, {1, 1}}
	for row := 0; row < in.Height; row++ {
		for col := 0; col < w; col++ {
			if !fg(row, col) {
				continue
			}
			for _, d := range forward {
				nr, nc := row+d[0], col+d[1]
				if fg(nr, nc) {
					g.SetEdge(g.NewEdge(simple.Node(row*w+col), simple.Node(nr*w+nc)))
				}
			}
		}
	}

	return len(topo.ConnectedComponents(g)), nil
}

// fromRGBA copies 4-byte-per-pixel R,G,B,A data into a buffer with the given
// channel count, reordering to B,G,R for color.
func fromRGBA(pix []uint8, stride, width, height, channels int) *pixel.Buffer {
	dst, _ := pixel.New(width, height, channels)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			in := pix[y*stride+x*4:]
			if channels == 1 {
				dst.Pix[y*width+x] = in[0]
				continue
			}
			o := (y*width + x) * 3
			dst.Pix[o+0] = in[2]
			dst.Pix[o+1] = in[1]
			dst.Pix[o+2] = in[0]
		}
	}
	return dst
}
