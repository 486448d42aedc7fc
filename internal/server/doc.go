// Package server exposes the pixel primitives as MCP (Model Context Protocol)
// tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Image information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Pixel operations:
//   - pixel_grayscale: Weighted gray reduction
//   - pixel_convolve: 3x3 kernel convolution
//   - pixel_edges: Fused Sobel magnitude
//   - pixel_isolate_color: Keep one dominant channel
//
// Blob analysis:
//   - pixel_label_components: Connected-component labeling
//   - pixel_extract_objects: Bounding rectangles by probing
//   - pixel_moments: Raw, central, normalized and Hu moments
//
// Comparison:
//   - pixel_compare: Sum of absolute differences
//   - pixel_compare_shapes: Hu invariant distance
//   - pixel_report: Every stage against the reference backend
//
// Every tool that produces an image returns it as a base64-encoded PNG.
// Every tool except pixel_compare and pixel_compare_shapes takes a single
// "path" argument naming the image; those two take "path_a" and "path_b".
//
// # Image Caching
//
// Decoded images are cached by path for the lifetime of the process. The
// cache is the only state shared between calls.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
package server
