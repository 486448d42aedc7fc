// Package labeling finds 8-connected foreground components in a binary
// buffer with a single raster pass and an online merge table.
//
// # Algorithm
//
// Pixels are visited top to bottom, left to right, skipping the one-pixel
// border. Each foreground pixel looks at its four already-visited neighbors
// (north-west, north, north-east, west):
//
//  1. No labeled neighbor: a new provisional label is allocated.
//  2. One distinct label: the pixel takes that label's current resolution.
//  3. Several distinct labels: the smallest one wins. The other neighbors are
//     relabeled in place and a pending merge is pushed on a per-row stack.
//
// At the end of each row the stack is drained into the merge table. A final
// pass chases every label through the table to its canonical value.
//
// # Counts
//
// Result.Count is the number of provisional labels allocated, which is larger
// than the number of components whenever merges happened. Result.Survivors
// counts the canonical labels that remain. Both are reported because existing
// consumers read the allocation count.
//
// # Capacity
//
// The merge table has a fixed capacity (DefaultCapacity unless overridden).
// Allocating past it fails with ErrCapacityExceeded instead of corrupting
// the table.
package labeling
