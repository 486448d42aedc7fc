//go:build opencv

package reference

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/ironsheep/pixel-primitives/internal/pixel"
)

const backend = "opencv"

func toMat(src *pixel.Buffer) (gocv.Mat, error) {
	mt := gocv.MatTypeCV8UC1
	if src.Channels == 3 {
		mt = gocv.MatTypeCV8UC3
	}
	m, err := gocv.NewMatFromBytes(src.Height, src.Width, mt, src.Pix)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("failed to wrap buffer: %w", err)
	}
	return m, nil
}

func fromMat(m gocv.Mat, channels int) (*pixel.Buffer, error) {
	return pixel.FromSamples(m.Cols(), m.Rows(), channels, m.ToBytes())
}

// Convolve runs filter2D into a signed 16-bit image and takes the saturated
// absolute value, the same post-processing pixel.ApplyKernel performs.
func Convolve(src *pixel.Buffer, k pixel.Kernel) (*pixel.Buffer, error) {
	in, err := toMat(src)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	kern := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV32F)
	defer kern.Close()
	f := k.Flipped()
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			kern.SetFloatAt(r, c, float32(f[r][c]))
		}
	}

	wide := gocv.NewMat()
	defer wide.Close()
	if err := gocv.Filter2D(in, &wide, gocv.MatTypeCV16S, kern, image.Pt(-1, -1), 0, gocv.BorderDefault); err != nil {
		return nil, fmt.Errorf("filter2D failed: %w", err)
	}

	out := gocv.NewMat()
	defer out.Close()
	gocv.ConvertScaleAbs(wide, &out, 1, 0)
	return fromMat(out, src.Channels)
}

// Grayscale converts a B,G,R buffer with cvtColor.
func Grayscale(src *pixel.Buffer) (*pixel.Buffer, error) {
	if src == nil || src.Channels != 3 {
		return nil, fmt.Errorf("reference grayscale: %w", pixel.ErrChannelCount)
	}
	in, err := toMat(src)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	out := gocv.NewMat()
	defer out.Close()
	gocv.CvtColor(in, &out, gocv.ColorBGRToGray)
	return fromMat(out, 1)
}

// Threshold binarizes with cv::threshold in binary mode: samples above level
// become 255.
func Threshold(src *pixel.Buffer, level uint8) (*pixel.Buffer, error) {
	if err := pixel.RequireGray("reference threshold", src); err != nil {
		return nil, err
	}
	in, err := toMat(src)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	out := gocv.NewMat()
	defer out.Close()
	gocv.Threshold(in, &out, float32(level), 255, gocv.ThresholdBinary)
	return fromMat(out, 1)
}

// Moments reads second-order moments from cv::moments.
func Moments(src *pixel.Buffer, binary bool) (MomentSummary, error) {
	if err := pixel.RequireGray("reference moments", src); err != nil {
		return MomentSummary{}, err
	}
	in, err := toMat(src)
	if err != nil {
		return MomentSummary{}, err
	}
	defer in.Close()

	m := gocv.Moments(in, binary)
	if m["m00"] == 0 {
		return MomentSummary{}, nil
	}
	return MomentSummary{
		M00:       m["m00"],
		CentroidX: m["m10"] / m["m00"],
		CentroidY: m["m01"] / m["m00"],
		Mu20:      m["mu20"],
		Mu11:      m["mu11"],
		Mu02:      m["mu02"],
	}, nil
}

// Components counts 8-connected components among interior pixels with
// cv::connectedComponents.
func Components(src *pixel.Buffer) (int, error) {
	if err := pixel.RequireGray("reference components", src); err != nil {
		return 0, err
	}
	in, err := toMat(interior(src))
	if err != nil {
		return 0, err
	}
	defer in.Close()

	labels := gocv.NewMat()
	defer labels.Close()
	// The count includes the background label.
	n := gocv.ConnectedComponents(in, &labels)
	if n < 1 {
		return 0, nil
	}
	return n - 1, nil
}
