package labeling

import (
	"bufio"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// WriteDump writes a zstd-compressed text dump of a labeling result: a
// header line, one "provisional -> canonical" line per merge-table entry,
// then the label grid with one row per line.
//
// The dump is a debugging aid; nothing in this module reads it back.
func WriteDump(w io.Writer, res *Result) error {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}

	bw := bufio.NewWriter(enc)
	fmt.Fprintf(bw, "labels %dx%d allocated=%d survivors=%d\n",
		res.Width, res.Height, res.Count, res.Survivors())
	for l := 1; l < len(res.MergeTable); l++ {
		fmt.Fprintf(bw, "%d -> %d\n", l, res.MergeTable[l])
	}
	for row := 0; row < res.Height; row++ {
		for col := 0; col < res.Width; col++ {
			if col > 0 {
				bw.WriteByte(' ')
			}
			fmt.Fprintf(bw, "%d", res.At(row, col))
		}
		bw.WriteByte('\n')
	}

	if err := bw.Flush(); err != nil {
		enc.Close()
		return fmt.Errorf("failed to write label dump: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finish label dump: %w", err)
	}
	return nil
}
