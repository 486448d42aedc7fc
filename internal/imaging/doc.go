// Package imaging connects pixel buffers to image files and to the people
// looking at them.
//
// The analysis packages never see an image.Image. This package decodes files
// into Go images, converts them to pixel.Buffer values and back, encodes
// results as base64 PNG for tool callers, and lays out side-by-side comparison
// sheets.
//
// # Coordinate System
//
// Go images are addressed (x, y) with x the column; buffers are addressed
// (row, col). Conversions map x to col and y to row, with (0,0) at the
// top-left corner in both. Regions are half-open: the top-left corner is
// inclusive and the bottom-right corner exclusive.
//
// # Channel Order
//
// ToBuffer produces 3-channel buffers in B,G,R order, the layout that
// pixel.Grayscale and pixel.IsolateColor expect. FromBuffer reverses it.
// Alpha is dropped on the way in and written as fully opaque on the way out.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Sheet is not; build one per report.
//
// # Formats
//
// PNG, JPEG and GIF decoders come from the standard library; BMP and TIFF
// are registered from golang.org/x/image. Sheets are saved in the format
// implied by the file extension.
package imaging
