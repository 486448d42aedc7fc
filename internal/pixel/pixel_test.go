package pixel

import (
	"errors"
	"testing"
)

// createGray creates a single-channel buffer filled with v.
func createGray(t *testing.T, width, height int, v uint8) *Buffer {
	t.Helper()
	b, err := New(width, height, 1)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	for i := range b.Pix {
		b.Pix[i] = v
	}
	return b
}

// createColor creates a 3-channel buffer where every pixel is (b, g, r).
func createColor(t *testing.T, width, height int, b, g, r uint8) *Buffer {
	t.Helper()
	buf, err := New(width, height, 3)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	for i := 0; i < len(buf.Pix); i += 3 {
		buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2] = b, g, r
	}
	return buf
}

// createFramedSquare returns a (size+2)x(size+2) gray buffer holding a
// size x size block of v surrounded by a one-pixel zero border.
func createFramedSquare(t *testing.T, size int, v uint8) *Buffer {
	t.Helper()
	b := createGray(t, size+2, size+2, 0)
	for r := 1; r <= size; r++ {
		for c := 1; c <= size; c++ {
			b.Set(r, c, 0, v)
		}
	}
	return b
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		w, h, ch int
		wantErr  error
	}{
		{"gray", 4, 3, 1, nil},
		{"color", 4, 3, 3, nil},
		{"empty", 0, 0, 1, nil},
		{"two channels", 4, 3, 2, ErrChannelCount},
		{"four channels", 4, 3, 4, ErrChannelCount},
		{"negative width", -1, 3, 1, ErrBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := New(tt.w, tt.h, tt.ch)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error: got %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if len(b.Pix) != tt.w*tt.h*tt.ch {
				t.Errorf("len(Pix): got %d, want %d", len(b.Pix), tt.w*tt.h*tt.ch)
			}
		})
	}
}

func TestFromSamples_LengthMismatch(t *testing.T) {
	_, err := FromSamples(2, 2, 3, make([]uint8, 11))
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("error: got %v, want ErrShapeMismatch", err)
	}

	b, err := FromSamples(2, 2, 3, make([]uint8, 12))
	if err != nil {
		t.Fatalf("FromSamples failed: %v", err)
	}
	if b.Stride() != 6 {
		t.Errorf("Stride: got %d, want 6", b.Stride())
	}
}

func TestClone_Independent(t *testing.T) {
	a := createGray(t, 3, 3, 7)
	b := a.Clone()
	b.Set(1, 1, 0, 99)
	if a.At(1, 1, 0) != 7 {
		t.Errorf("Clone shares storage with its source")
	}
}

func TestApplyKernel_SharpenFramedSquare(t *testing.T) {
	src := createFramedSquare(t, 5, 255)

	dst := ApplyKernel(src, Sharpen)

	if !dst.SameShape(src) {
		t.Fatalf("shape: got %dx%dx%d", dst.Width, dst.Height, dst.Channels)
	}
	for r := 0; r < dst.Height; r++ {
		for c := 0; c < dst.Width; c++ {
			got := dst.At(r, c, 0)
			border := r == 0 || c == 0 || r == dst.Height-1 || c == dst.Width-1
			if border && got != 0 {
				t.Errorf("border (%d,%d): got %d, want 0", r, c, got)
			}
			if !border && got != 255 {
				t.Errorf("interior (%d,%d): got %d, want 255", r, c, got)
			}
		}
	}
}

func TestApplyKernel_SharpenEdgeReduction(t *testing.T) {
	// A 100-valued block: interior pixels stay at 100, pixels next to the
	// zero frame gain the missing neighbor weight.
	src := createFramedSquare(t, 5, 100)

	dst := ApplyKernel(src, Sharpen)

	tests := []struct {
		row, col int
		want     uint8
	}{
		{3, 3, 100}, // 5*100 - 4*100
		{1, 3, 200}, // 5*100 - 3*100
		{1, 1, 255}, // 5*100 - 2*100 saturates
		{2, 2, 100},
	}
	for _, tt := range tests {
		if got := dst.At(tt.row, tt.col, 0); got != tt.want {
			t.Errorf("(%d,%d): got %d, want %d", tt.row, tt.col, got, tt.want)
		}
	}
}

func TestApplyKernel_MirroredIndexMapping(t *testing.T) {
	// A gradient where every pixel is unique: v = 10*row + col.
	src := createGray(t, 5, 5, 0)
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			src.Set(r, c, 0, uint8(10*r+c))
		}
	}

	tests := []struct {
		name   string
		kernel Kernel
		dr, dc int // neighbor offset expected to be copied
	}{
		{"top-left weight reads bottom-right", Kernel{{1, 0, 0}, {0, 0, 0}, {0, 0, 0}}, 1, 1},
		{"top-right weight reads bottom-left", Kernel{{0, 0, 1}, {0, 0, 0}, {0, 0, 0}}, 1, -1},
		{"bottom-left weight reads top-right", Kernel{{0, 0, 0}, {0, 0, 0}, {1, 0, 0}}, -1, 1},
		{"top-center weight reads bottom-center", Kernel{{0, 1, 0}, {0, 0, 0}, {0, 0, 0}}, 1, 0},
		{"center weight reads center", Kernel{{0, 0, 0}, {0, 1, 0}, {0, 0, 0}}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := ApplyKernel(src, tt.kernel)
			for r := 1; r < 4; r++ {
				for c := 1; c < 4; c++ {
					want := src.At(r+tt.dr, c+tt.dc, 0)
					if got := dst.At(r, c, 0); got != want {
						t.Errorf("(%d,%d): got %d, want %d", r, c, got, want)
					}
				}
			}
		})
	}
}

func TestApplyKernel_AbsoluteValue(t *testing.T) {
	// A single negative weight on a bright image must not clamp to zero.
	src := createGray(t, 4, 4, 40)
	dst := ApplyKernel(src, Kernel{{0, 0, 0}, {0, -2, 0}, {0, 0, 0}})
	if got := dst.At(1, 1, 0); got != 80 {
		t.Errorf("got %d, want 80", got)
	}
}

func TestApplyKernel_ColorChannelsIndependent(t *testing.T) {
	src := createColor(t, 4, 4, 10, 20, 30)
	dst := ApplyKernel(src, Kernel{{0, 0, 0}, {0, 2, 0}, {0, 0, 0}})

	for _, ch := range []int{0, 1, 2} {
		want := 2 * src.At(1, 1, ch)
		if got := dst.At(1, 1, ch); got != want {
			t.Errorf("channel %d: got %d, want %d", ch, got, want)
		}
		if got := dst.At(0, 1, ch); got != 0 {
			t.Errorf("border channel %d: got %d, want 0", ch, got)
		}
		if got := dst.At(1, 0, ch); got != 0 {
			t.Errorf("first channel group channel %d: got %d, want 0", ch, got)
		}
	}
}

func TestApplyKernel_TinyBuffer(t *testing.T) {
	src := createGray(t, 2, 2, 200)
	dst := ApplyKernel(src, Sharpen)
	for i, v := range dst.Pix {
		if v != 0 {
			t.Errorf("Pix[%d]: got %d, want 0", i, v)
		}
	}
}

func TestKernelFromSlice(t *testing.T) {
	k, err := KernelFromSlice([]int{0, -1, 0, -1, 5, -1, 0, -1, 0})
	if err != nil {
		t.Fatalf("KernelFromSlice failed: %v", err)
	}
	if k != Sharpen {
		t.Errorf("got %v, want Sharpen", k)
	}

	if _, err := KernelFromSlice([]int{1, 2, 3}); !errors.Is(err, ErrInvalidKernel) {
		t.Errorf("error: got %v, want ErrInvalidKernel", err)
	}
}

func TestKernel_Flipped(t *testing.T) {
	if got := SobelY.Flipped(); got != (Kernel{{1, 2, 1}, {0, 0, 0}, {-1, -2, -1}}) {
		t.Errorf("SobelY flipped: got %v", got)
	}
	if Sharpen.Flipped() != Sharpen {
		t.Errorf("Sharpen is symmetric and must flip onto itself")
	}
}

func TestGrayscale(t *testing.T) {
	tests := []struct {
		name    string
		b, g, r uint8
		want    uint8
	}{
		{"white", 255, 255, 255, 255},
		{"black", 0, 0, 0, 0},
		{"pure red", 0, 0, 255, 76},    // 0.2989*255 = 76.22
		{"pure green", 0, 255, 0, 150}, // 0.5870*255 = 149.69
		{"pure blue", 255, 0, 0, 29},   // 0.1140*255 = 29.07
		{"mixed", 64, 128, 200, 142},   // 7.296 + 75.136 + 59.78 = 142.21
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := createColor(t, 3, 2, tt.b, tt.g, tt.r)
			dst, err := Grayscale(src)
			if err != nil {
				t.Fatalf("Grayscale failed: %v", err)
			}
			if dst.Channels != 1 || dst.Width != 3 || dst.Height != 2 {
				t.Fatalf("shape: got %dx%dx%d", dst.Width, dst.Height, dst.Channels)
			}
			if got := dst.At(1, 2, 0); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGrayscale_Deterministic(t *testing.T) {
	src := createColor(t, 8, 8, 0, 0, 0)
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 37)
	}

	a, err := Grayscale(src)
	if err != nil {
		t.Fatalf("Grayscale failed: %v", err)
	}
	b, err := Grayscale(src)
	if err != nil {
		t.Fatalf("Grayscale failed: %v", err)
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("Pix[%d] differs between runs: %d vs %d", i, a.Pix[i], b.Pix[i])
		}
	}
}

func TestGrayscale_RequiresColor(t *testing.T) {
	_, err := Grayscale(createGray(t, 2, 2, 0))
	if !errors.Is(err, ErrChannelCount) {
		t.Errorf("error: got %v, want ErrChannelCount", err)
	}
}

func TestIsolateColor(t *testing.T) {
	tests := []struct {
		name      string
		b, g, r   uint8
		channel   Channel
		threshold uint8
		want      [3]uint8
	}{
		{"red over white", 100, 100, 250, Red, 20, [3]uint8{0, 0, 150}},
		{"below threshold", 100, 100, 110, Red, 20, [3]uint8{0, 0, 0}},
		{"equal to threshold", 100, 100, 120, Red, 20, [3]uint8{0, 0, 0}},
		{"green", 10, 200, 50, Green, 0, [3]uint8{0, 190, 0}},
		{"blue", 90, 30, 60, Blue, 10, [3]uint8{60, 0, 0}},
		{"gray has no hue", 80, 80, 80, Red, 0, [3]uint8{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := createColor(t, 2, 2, tt.b, tt.g, tt.r)
			dst, err := IsolateColor(src, tt.channel, tt.threshold)
			if err != nil {
				t.Fatalf("IsolateColor failed: %v", err)
			}
			for ch := 0; ch < 3; ch++ {
				if got := dst.At(1, 1, ch); got != tt.want[ch] {
					t.Errorf("channel %d: got %d, want %d", ch, got, tt.want[ch])
				}
			}
		})
	}
}

func TestIsolateColor_Errors(t *testing.T) {
	if _, err := IsolateColor(createGray(t, 2, 2, 0), Red, 0); !errors.Is(err, ErrChannelCount) {
		t.Errorf("gray input: got %v, want ErrChannelCount", err)
	}
	if _, err := IsolateColor(createColor(t, 2, 2, 0, 0, 0), Channel(3), 0); !errors.Is(err, ErrInvalidChannel) {
		t.Errorf("channel 3: got %v, want ErrInvalidChannel", err)
	}
}

func TestParseChannel(t *testing.T) {
	for name, want := range map[string]Channel{"red": Red, "Green": Green, "B": Blue} {
		got, err := ParseChannel(name)
		if err != nil || got != want {
			t.Errorf("ParseChannel(%q): got %v, %v; want %v", name, got, err, want)
		}
	}
	if _, err := ParseChannel("purple"); !errors.Is(err, ErrInvalidChannel) {
		t.Errorf("ParseChannel(purple): got %v, want ErrInvalidChannel", err)
	}
}

func TestCombine(t *testing.T) {
	a := createGray(t, 3, 3, 30)
	b := createGray(t, 3, 3, 40)

	hyp, err := Combine(a, b, Hypotenuse)
	if err != nil {
		t.Fatalf("Combine failed: %v", err)
	}
	if got := hyp.At(1, 1, 0); got != 50 {
		t.Errorf("Hypotenuse: got %d, want 50", got)
	}

	avg, err := Combine(a, b, Average)
	if err != nil {
		t.Fatalf("Combine failed: %v", err)
	}
	if got := avg.At(1, 1, 0); got != 35 {
		t.Errorf("Average: got %d, want 35", got)
	}

	big, _ := Combine(createGray(t, 3, 3, 200), createGray(t, 3, 3, 200), Hypotenuse)
	if got := big.At(0, 0, 0); got != 255 {
		t.Errorf("saturation: got %d, want 255", got)
	}

	if _, err := Combine(a, createGray(t, 4, 3, 0), Average); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("mismatch: got %v, want ErrShapeMismatch", err)
	}
}

func TestSobelMagnitude_VerticalEdge(t *testing.T) {
	src := createGray(t, 6, 5, 0)
	for r := 0; r < 5; r++ {
		for c := 3; c < 6; c++ {
			src.Set(r, c, 0, 100)
		}
	}
	mag := SobelMagnitude(src)

	if got := mag.At(2, 1, 0); got != 0 {
		t.Errorf("flat region: got %d, want 0", got)
	}
	// |(-1-2-1)*0 + (1+2+1)*100| = 400, saturated.
	if got := mag.At(2, 2, 0); got != 255 {
		t.Errorf("edge: got %d, want 255", got)
	}
}

func TestThreshold(t *testing.T) {
	src := createGray(t, 3, 1, 0)
	src.Pix = []uint8{126, 127, 128}
	dst, err := Threshold(src, 127)
	if err != nil {
		t.Fatalf("Threshold failed: %v", err)
	}
	want := []uint8{0, 0, 255}
	for i := range want {
		if dst.Pix[i] != want[i] {
			t.Errorf("Pix[%d]: got %d, want %d", i, dst.Pix[i], want[i])
		}
	}

	if _, err := Threshold(createColor(t, 1, 1, 0, 0, 0), 0); !errors.Is(err, ErrChannelCount) {
		t.Errorf("color input: got %v, want ErrChannelCount", err)
	}
}

func TestCrop(t *testing.T) {
	src := createColor(t, 5, 4, 0, 0, 0)
	for r := 0; r < 4; r++ {
		for c := 0; c < 5; c++ {
			src.Set(r, c, 2, uint8(10*r+c))
		}
	}

	dst, err := Crop(src, 1, 2, 3, 5)
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	if dst.Width != 3 || dst.Height != 2 || dst.Channels != 3 {
		t.Fatalf("shape: got %dx%dx%d, want 3x2x3", dst.Width, dst.Height, dst.Channels)
	}
	if got := dst.At(0, 0, 2); got != 12 {
		t.Errorf("top-left: got %d, want 12", got)
	}
	if got := dst.At(1, 2, 2); got != 24 {
		t.Errorf("bottom-right: got %d, want 24", got)
	}

	tests := []struct {
		name                     string
		top, left, bottom, right int
	}{
		{"negative", -1, 0, 2, 2},
		{"too tall", 0, 0, 5, 2},
		{"too wide", 0, 0, 2, 6},
		{"inverted", 3, 0, 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Crop(src, tt.top, tt.left, tt.bottom, tt.right); !errors.Is(err, ErrBounds) {
				t.Errorf("got %v, want ErrBounds", err)
			}
		})
	}
}
