package labeling

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/ironsheep/pixel-primitives/internal/pixel"
)

// DefaultCapacity is the merge-table size used by Label.
const DefaultCapacity = 1024

// ErrCapacityExceeded indicates the pass needed more provisional labels than
// the merge table can hold.
var ErrCapacityExceeded = errors.New("labeling: merge table capacity exceeded")

// Result holds the output of one labeling pass.
type Result struct {
	// Width and Height match the input buffer.
	Width  int
	Height int

	// Labels holds one canonical label per pixel, row-major. 0 is background.
	Labels []uint16

	// MergeTable maps each provisional label to its canonical label after
	// resolution. Index 0 is background. len(MergeTable) == Count+1.
	MergeTable []uint16

	// Count is the number of provisional labels allocated during the pass.
	Count int
}

// At returns the label of (row, col).
func (r *Result) At(row, col int) uint16 {
	return r.Labels[row*r.Width+col]
}

// Survivors returns the number of distinct canonical labels in the map.
func (r *Result) Survivors() int {
	return len(r.Canonical())
}

// Canonical returns the distinct non-zero labels present in the map, sorted.
func (r *Result) Canonical() []uint16 {
	seen := make(map[uint16]struct{})
	for _, l := range r.Labels {
		if l != 0 {
			seen[l] = struct{}{}
		}
	}
	out := make([]uint16, 0, len(seen))
	for l := range seen {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// AsBuffer renders the label map as a single-channel buffer, spreading the
// canonical labels over 1..255 so they are distinguishable on screen.
func (r *Result) AsBuffer() *pixel.Buffer {
	buf := &pixel.Buffer{
		Width:    r.Width,
		Height:   r.Height,
		Channels: 1,
		Pix:      make([]uint8, len(r.Labels)),
	}
	canon := r.Canonical()
	if len(canon) == 0 {
		return buf
	}
	shade := make(map[uint16]uint8, len(canon))
	step := 255 / len(canon)
	if step == 0 {
		step = 1
	}
	for i, l := range canon {
		v := 255 - i*step
		if v < 1 {
			v = 1
		}
		shade[l] = uint8(v)
	}
	for i, l := range r.Labels {
		if l != 0 {
			buf.Pix[i] = shade[l]
		}
	}
	return buf
}

// merge is a pending (index, target) update recorded while scanning a row.
type merge struct {
	index  uint16
	target uint16
}

// resolver holds the state of a single pass. It is never reused.
type resolver struct {
	width    int
	height   int
	labels   []uint16
	table    []uint16
	count    int
	capacity int
	pending  []merge
}

// Label runs a labeling pass with DefaultCapacity.
func Label(src *pixel.Buffer) (*Result, error) {
	return LabelWithCapacity(src, DefaultCapacity)
}

// LabelWithCapacity runs a labeling pass over a single-channel binary buffer.
// Any non-zero sample is foreground. capacity bounds the merge table; label 0
// is reserved, so at most capacity-1 labels can be allocated.
func LabelWithCapacity(src *pixel.Buffer, capacity int) (*Result, error) {
	if err := pixel.RequireGray("label", src); err != nil {
		return nil, err
	}
	if capacity < 2 || capacity > math.MaxUint16+1 {
		return nil, fmt.Errorf("label: capacity %d outside [2,%d]", capacity, math.MaxUint16+1)
	}

	rv := &resolver{
		width:    src.Width,
		height:   src.Height,
		labels:   make([]uint16, src.Width*src.Height),
		table:    make([]uint16, 1, 64),
		capacity: capacity,
	}
	if err := rv.scan(src.Pix); err != nil {
		return nil, err
	}
	rv.relabel()

	return &Result{
		Width:      rv.width,
		Height:     rv.height,
		Labels:     rv.labels,
		MergeTable: rv.table,
		Count:      rv.count,
	}, nil
}

// scan performs the raster pass.
func (rv *resolver) scan(pix []uint8) error {
	w := rv.width
	var neighbors [4]int

	for row := 1; row < rv.height-1; row++ {
		for col := 1; col < w-1; col++ {
			i := row*w + col
			if pix[i] == 0 {
				continue
			}

			neighbors = [4]int{
				i - w - 1, // north-west
				i - w,     // north
				i - w + 1, // north-east
				i - 1,     // west
			}

			var min uint16
			distinct := 0
			for _, n := range neighbors {
				l := rv.labels[n]
				if l == 0 {
					continue
				}
				if min == 0 {
					min = l
					distinct = 1
					continue
				}
				if l != min {
					distinct++
					if l < min {
						min = l
					}
				}
			}

			switch {
			case distinct == 0:
				l, err := rv.allocate()
				if err != nil {
					return fmt.Errorf("pixel (%d,%d): %w", row, col, err)
				}
				rv.labels[i] = l
			case distinct == 1:
				rv.labels[i] = rv.table[min]
			default:
				for _, n := range neighbors {
					l := rv.labels[n]
					if l == 0 || l == min {
						continue
					}
					rv.labels[n] = min
					rv.pending = append(rv.pending, merge{index: l, target: min})
				}
				rv.labels[i] = rv.table[min]
			}
		}
		rv.drain()
	}
	return nil
}

// allocate hands out the next provisional label.
func (rv *resolver) allocate() (uint16, error) {
	next := rv.count + 1
	if next >= rv.capacity {
		return 0, fmt.Errorf("label %d with capacity %d: %w", next, rv.capacity, ErrCapacityExceeded)
	}
	rv.count = next
	rv.table = append(rv.table, uint16(next))
	return uint16(next), nil
}

// drain applies the row's pending merges, most recent first.
//
// The target's canonical label replaces the index's. When the index was
// already merged into a different chain, the two roots are linked so that no
// table entry ever increases and neither chain is lost.
func (rv *resolver) drain() {
	for k := len(rv.pending) - 1; k >= 0; k-- {
		m := rv.pending[k]
		target := rv.find(m.target)
		index := rv.find(m.index)
		switch {
		case index == target:
		case index < target:
			rv.table[target] = index
		default:
			rv.table[index] = target
		}
		if rv.table[m.index] > rv.table[target] {
			rv.table[m.index] = rv.table[target]
		}
	}
	rv.pending = rv.pending[:0]
}

// find follows the table from l until it reaches a fixed point.
func (rv *resolver) find(l uint16) uint16 {
	for rv.table[l] != l {
		l = rv.table[l]
	}
	return l
}

// relabel collapses the table and rewrites every foreground pixel with its
// canonical label.
func (rv *resolver) relabel() {
	for l := range rv.table {
		rv.table[l] = rv.find(uint16(l))
	}
	for i, l := range rv.labels {
		if l != 0 {
			rv.labels[i] = rv.table[l]
		}
	}
}
