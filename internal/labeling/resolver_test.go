package labeling

import (
	"bytes"
	"errors"
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/ironsheep/pixel-primitives/internal/pixel"
)

// createBinary builds a single-channel buffer from ASCII art where '#' is
// foreground (255) and anything else is background.
func createBinary(t *testing.T, rows ...string) *pixel.Buffer {
	t.Helper()
	b, err := pixel.New(len(rows[0]), len(rows), 1)
	if err != nil {
		t.Fatalf("pixel.New failed: %v", err)
	}
	for r, line := range rows {
		if len(line) != b.Width {
			t.Fatalf("row %d has length %d, want %d", r, len(line), b.Width)
		}
		for c, ch := range line {
			if ch == '#' {
				b.Set(r, c, 0, 255)
			}
		}
	}
	return b
}

// floodCount counts 8-connected foreground components of the interior
// (border excluded) and returns a component id per pixel (-1 for background).
func floodCount(b *pixel.Buffer) (int, []int) {
	ids := make([]int, b.Width*b.Height)
	for i := range ids {
		ids[i] = -1
	}
	interior := func(r, c int) bool {
		return r >= 1 && r < b.Height-1 && c >= 1 && c < b.Width-1
	}
	count := 0
	for r := 1; r < b.Height-1; r++ {
		for c := 1; c < b.Width-1; c++ {
			i := r*b.Width + c
			if b.Pix[i] == 0 || ids[i] >= 0 {
				continue
			}
			stack := [][2]int{{r, c}}
			ids[i] = count
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				for dr := -1; dr <= 1; dr++ {
					for dc := -1; dc <= 1; dc++ {
						nr, nc := p[0]+dr, p[1]+dc
						if !interior(nr, nc) {
							continue
						}
						j := nr*b.Width + nc
						if b.Pix[j] != 0 && ids[j] < 0 {
							ids[j] = count
							stack = append(stack, [2]int{nr, nc})
						}
					}
				}
			}
			count++
		}
	}
	return count, ids
}

func TestLabel_SingleBlobShapes(t *testing.T) {
	tests := []struct {
		name      string
		rows      []string
		wantCount int // provisional labels allocated
	}{
		{
			"U-shape",
			[]string{
				".......",
				".#...#.",
				".#...#.",
				".#####.",
				".......",
			},
			2,
		},
		{
			"S-shape",
			[]string{
				".......",
				".#####.",
				".#.....",
				".#####.",
				".....#.",
				".#####.",
				".......",
			},
			2,
		},
		{
			"zigzag merges two labels in one row",
			[]string{
				".......",
				".#.#.#.",
				"..#.#..",
				".......",
			},
			3,
		},
		{
			"filled square",
			[]string{
				"......",
				".####.",
				".####.",
				".####.",
				"......",
			},
			1,
		},
		{
			"anti-diagonal",
			[]string{
				"......",
				"....#.",
				"...#..",
				"..#...",
				".#....",
				"......",
			},
			1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := createBinary(t, tt.rows...)

			res, err := Label(src)
			if err != nil {
				t.Fatalf("Label failed: %v", err)
			}

			if got := res.Survivors(); got != 1 {
				t.Errorf("Survivors: got %d, want 1 (canonical %v)", got, res.Canonical())
			}
			// Count reports allocations, not survivors.
			if res.Count != tt.wantCount {
				t.Errorf("Count: got %d, want %d", res.Count, tt.wantCount)
			}

			canon := res.Canonical()
			for i, v := range src.Pix {
				if v != 0 && res.Labels[i] != canon[0] {
					t.Errorf("pixel %d: label %d, want %d", i, res.Labels[i], canon[0])
				}
				if v == 0 && res.Labels[i] != 0 {
					t.Errorf("background pixel %d labeled %d", i, res.Labels[i])
				}
			}
		})
	}
}

func TestLabel_AllocationCountExceedsSurvivors(t *testing.T) {
	// The U-shape allocates one label per arm before the base joins them.
	src := createBinary(t,
		".......",
		".#...#.",
		".#...#.",
		".#####.",
		".......",
	)

	res, err := Label(src)
	if err != nil {
		t.Fatalf("Label failed: %v", err)
	}
	if res.Count == res.Survivors() {
		t.Fatalf("expected Count (%d) to exceed Survivors (%d) after a merge", res.Count, res.Survivors())
	}
	if res.MergeTable[2] != 1 {
		t.Errorf("MergeTable[2]: got %d, want 1", res.MergeTable[2])
	}
}

func TestLabel_SeparateBlobs(t *testing.T) {
	src := createBinary(t,
		"..........",
		".##....#..",
		".##...###.",
		"..........",
		"....##....",
		"..........",
	)

	res, err := Label(src)
	if err != nil {
		t.Fatalf("Label failed: %v", err)
	}
	if got := res.Survivors(); got != 3 {
		t.Errorf("Survivors: got %d, want 3", got)
	}
	if res.At(1, 1) == res.At(1, 7) || res.At(1, 1) == res.At(4, 4) || res.At(1, 7) == res.At(4, 5) {
		t.Errorf("distinct blobs share a label: %d %d %d", res.At(1, 1), res.At(1, 7), res.At(4, 4))
	}
	if res.At(2, 6) != res.At(1, 7) {
		t.Errorf("pixels of one blob differ: %d vs %d", res.At(2, 6), res.At(1, 7))
	}
}

func TestLabel_BorderIgnored(t *testing.T) {
	src := createBinary(t,
		"#####",
		"#...#",
		"#...#",
		"#####",
	)

	res, err := Label(src)
	if err != nil {
		t.Fatalf("Label failed: %v", err)
	}
	if res.Count != 0 || res.Survivors() != 0 {
		t.Errorf("border-only image: Count %d, Survivors %d, want 0, 0", res.Count, res.Survivors())
	}
}

func TestLabel_MatchesFloodFill(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 40; trial++ {
		b, _ := pixel.New(24, 18, 1)
		density := 0.3 + 0.4*rng.Float64()
		for i := range b.Pix {
			if rng.Float64() < density {
				b.Pix[i] = 255
			}
		}

		res, err := Label(b)
		if err != nil {
			t.Fatalf("trial %d: Label failed: %v", trial, err)
		}
		want, ids := floodCount(b)
		if got := res.Survivors(); got != want {
			t.Fatalf("trial %d: Survivors %d, flood fill %d", trial, got, want)
		}

		// The two labelings must induce the same partition.
		toLabel := make(map[int]uint16)
		toID := make(map[uint16]int)
		for i, id := range ids {
			if id < 0 {
				if res.Labels[i] != 0 {
					t.Fatalf("trial %d: pixel %d labeled %d outside any component", trial, i, res.Labels[i])
				}
				continue
			}
			l := res.Labels[i]
			if prev, ok := toLabel[id]; ok && prev != l {
				t.Fatalf("trial %d: component %d carries labels %d and %d", trial, id, prev, l)
			}
			if prev, ok := toID[l]; ok && prev != id {
				t.Fatalf("trial %d: label %d spans components %d and %d", trial, l, prev, id)
			}
			toLabel[id], toID[l] = l, id
		}

		for l, v := range res.MergeTable {
			if int(v) > l {
				t.Fatalf("trial %d: MergeTable[%d] = %d increases", trial, l, v)
			}
		}
	}
}

func TestLabelWithCapacity_Exceeded(t *testing.T) {
	src := createBinary(t,
		".........",
		".#.#.#.#.",
		".........",
	)

	_, err := LabelWithCapacity(src, 4)
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("error: got %v, want ErrCapacityExceeded", err)
	}

	res, err := LabelWithCapacity(src, 5)
	if err != nil {
		t.Fatalf("capacity 5: %v", err)
	}
	if res.Count != 4 {
		t.Errorf("Count: got %d, want 4", res.Count)
	}
}

func TestLabel_Errors(t *testing.T) {
	color, _ := pixel.New(3, 3, 3)
	if _, err := Label(color); !errors.Is(err, pixel.ErrChannelCount) {
		t.Errorf("color input: got %v, want ErrChannelCount", err)
	}
	gray, _ := pixel.New(3, 3, 1)
	if _, err := LabelWithCapacity(gray, 1); err == nil {
		t.Error("capacity 1 should be rejected")
	}
}

func TestLabel_IndependentCalls(t *testing.T) {
	src := createBinary(t,
		".....",
		".#.#.",
		".....",
	)
	a, _ := Label(src)
	b, _ := Label(src)
	if a.Count != b.Count || a.Count != 2 {
		t.Errorf("Count: got %d and %d, want 2 and 2", a.Count, b.Count)
	}
}

func TestResult_AsBuffer(t *testing.T) {
	src := createBinary(t,
		".....",
		".#.#.",
		".....",
	)
	res, _ := Label(src)
	buf := res.AsBuffer()

	if buf.Channels != 1 || buf.Width != 5 || buf.Height != 3 {
		t.Fatalf("shape: got %dx%dx%d", buf.Width, buf.Height, buf.Channels)
	}
	a, b := buf.At(1, 1, 0), buf.At(1, 3, 0)
	if a == 0 || b == 0 || a == b {
		t.Errorf("labels should render as distinct non-zero shades, got %d and %d", a, b)
	}
	if buf.At(0, 0, 0) != 0 {
		t.Errorf("background: got %d, want 0", buf.At(0, 0, 0))
	}
}

func TestWriteDump(t *testing.T) {
	src := createBinary(t,
		".......",
		".#...#.",
		".#...#.",
		".#####.",
		".......",
	)
	res, _ := Label(src)

	var buf bytes.Buffer
	if err := WriteDump(&buf, res); err != nil {
		t.Fatalf("WriteDump failed: %v", err)
	}

	dec, err := zstd.NewReader(&buf)
	if err != nil {
		t.Fatalf("zstd.NewReader failed: %v", err)
	}
	defer dec.Close()
	text, err := io.ReadAll(dec)
	if err != nil {
		t.Fatalf("failed to decompress dump: %v", err)
	}

	out := string(text)
	for _, want := range []string{
		"labels 7x5 allocated=2 survivors=1",
		"2 -> 1",
		"0 1 1 1 1 1 0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q:\n%s", want, out)
		}
	}
}
