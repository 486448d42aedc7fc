// Package contour locates the bounding rectangle of one foreground blob at a
// time by growing a cursor outward from a seed pixel.
//
// # Cursor Growth
//
// The seed is the first foreground pixel in raster order. A cursor starts at
// the seed and grows toward the bottom-right: each step scans the next column
// over the rows already covered, and the next row over the columns already
// covered. Any foreground hit extends the cursor on that axis. When neither
// scan hits, or the cursor reaches the buffer edge, the cursor is the
// bottom-right corner. A second pass grows toward the top-left using the
// same rule, bounded by that corner.
//
// Cursor growth is not a flood fill. Concave shapes, shapes with gaps wider than
// one pixel, and blobs that happen to touch the growing rectangle can make the
// result smaller or larger than the true bounding box.
//
// # Side Effects
//
// Extract erases every pixel inside the returned rectangle from its source
// buffer, so repeated calls enumerate successive blobs. When an annotation
// buffer is supplied, cursor hits are marked in it and the final rectangle is
// outlined:
//   - 1-channel: cursor hits 128, outline 255
//   - 3-channel: cursor hits green, outline red
//
// # Coordinate System
//
// Rect uses half-open bounds: Top and Left are inclusive, Bottom and Right
// are exclusive. The zero Rect is empty.
package contour
