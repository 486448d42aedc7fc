package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/ironsheep/pixel-primitives/internal/compare"
	"github.com/ironsheep/pixel-primitives/internal/contour"
	"github.com/ironsheep/pixel-primitives/internal/imaging"
	"github.com/ironsheep/pixel-primitives/internal/labeling"
	"github.com/ironsheep/pixel-primitives/internal/moments"
	"github.com/ironsheep/pixel-primitives/internal/pixel"
	"github.com/ironsheep/pixel-primitives/internal/reference"
	"github.com/ironsheep/pixel-primitives/internal/report"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "pixel_convolve").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Error(component, err, map[string]interface{}{"tool": params.Name})
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads buffers from the cache
//  4. Calls the pixel primitives
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Image information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Pixel operations
	case "pixel_grayscale":
		return s.handleGrayscale(args)
	case "pixel_convolve":
		return s.handleConvolve(args)
	case "pixel_edges":
		return s.handleEdges(args)
	case "pixel_isolate_color":
		return s.handleIsolateColor(args)

	// Blob analysis
	case "pixel_label_components":
		return s.handleLabelComponents(args)
	case "pixel_extract_objects":
		return s.handleExtractObjects(args)
	case "pixel_moments":
		return s.handleMoments(args)

	// Comparison
	case "pixel_compare":
		return s.handleCompare(args)
	case "pixel_compare_shapes":
		return s.handleCompareShapes(args)
	case "pixel_report":
		return s.handleReport(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// binaryLevel resolves an optional level argument against the configured
// default.
func (s *Server) binaryLevel(level *int) (uint8, error) {
	if level == nil {
		return s.cfg.BinaryLevel, nil
	}
	if *level < 0 || *level > 255 {
		return 0, fmt.Errorf("level %d outside [0,255]", *level)
	}
	return uint8(*level), nil
}

// loadBinary loads path as gray and thresholds it.
func (s *Server) loadBinary(path string, level *int) (*pixel.Buffer, uint8, error) {
	lv, err := s.binaryLevel(level)
	if err != nil {
		return nil, 0, err
	}
	gray, err := s.cache.LoadBuffer(path, 1)
	if err != nil {
		return nil, 0, err
	}
	binary, err := pixel.Threshold(gray, lv)
	if err != nil {
		return nil, 0, err
	}
	return binary, lv, nil
}

func finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

// === Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Pixel Operation Handlers ===

// referenceScore is attached to results that have a reference counterpart.
type referenceScore struct {
	Backend string  `json:"backend"`
	SAD     uint64  `json:"sad"`
	Mean    float64 `json:"mean"`
}

func scoreAgainst(ours, ref *pixel.Buffer) (*referenceScore, error) {
	sad, err := compare.SumOfAbsoluteDifferences(ours, ref)
	if err != nil {
		return nil, err
	}
	mean, err := compare.MeanAbsoluteDifference(ours, ref)
	if err != nil {
		return nil, err
	}
	return &referenceScore{Backend: reference.Name(), SAD: sad, Mean: mean}, nil
}

type imageArgs struct {
	Path  string  `json:"path"`
	Scale float64 `json:"scale"`
}

type grayscaleResult struct {
	Image     *imaging.ImageResult `json:"image"`
	Reference *referenceScore      `json:"reference"`
}

func (s *Server) handleGrayscale(args json.RawMessage) (interface{}, error) {
	var a imageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	src, err := s.cache.LoadBuffer(a.Path, 3)
	if err != nil {
		return nil, err
	}

	gray, err := pixel.Grayscale(src)
	if err != nil {
		return nil, err
	}
	ref, err := reference.Grayscale(src)
	if err != nil {
		return nil, err
	}
	score, err := scoreAgainst(gray, ref)
	if err != nil {
		return nil, err
	}
	img, err := imaging.EncodeBuffer(gray, a.Scale)
	if err != nil {
		return nil, err
	}
	return &grayscaleResult{Image: img, Reference: score}, nil
}

type convolveArgs struct {
	Path    string  `json:"path"`
	Kernel  string  `json:"kernel"`
	Weights []int   `json:"weights"`
	Gray    bool    `json:"gray"`
	Scale   float64 `json:"scale"`
}

type convolveResult struct {
	Weights   []int                `json:"weights"`
	Image     *imaging.ImageResult `json:"image"`
	Reference *referenceScore      `json:"reference"`
}

func (s *Server) handleConvolve(args json.RawMessage) (interface{}, error) {
	var a convolveArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Kernel == "" {
		a.Kernel = "sharpen"
	}

	var k pixel.Kernel
	var err error
	if len(a.Weights) > 0 {
		k, err = pixel.KernelFromSlice(a.Weights)
	} else {
		k, err = pixel.KernelByName(a.Kernel)
	}
	if err != nil {
		return nil, err
	}

	channels := 3
	if a.Gray {
		channels = 1
	}
	src, err := s.cache.LoadBuffer(a.Path, channels)
	if err != nil {
		return nil, err
	}

	out := pixel.ApplyKernel(src, k)
	ref, err := reference.Convolve(src, k)
	if err != nil {
		return nil, err
	}
	score, err := scoreAgainst(out, ref)
	if err != nil {
		return nil, err
	}
	img, err := imaging.EncodeBuffer(out, a.Scale)
	if err != nil {
		return nil, err
	}
	return &convolveResult{Weights: k.Weights(), Image: img, Reference: score}, nil
}

type edgesArgs struct {
	Path    string  `json:"path"`
	Combine string  `json:"combine"`
	Scale   float64 `json:"scale"`
}

func (s *Server) handleEdges(args json.RawMessage) (interface{}, error) {
	var a edgesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	var fn pixel.CombineFunc
	switch a.Combine {
	case "", "hypot":
		fn = pixel.Hypotenuse
	case "average":
		fn = pixel.Average
	default:
		return nil, fmt.Errorf("unknown combine %q", a.Combine)
	}

	gray, err := s.cache.LoadBuffer(a.Path, 1)
	if err != nil {
		return nil, err
	}
	gx := pixel.ApplyKernel(gray, pixel.SobelX)
	gy := pixel.ApplyKernel(gray, pixel.SobelY)
	edges, err := pixel.Combine(gx, gy, fn)
	if err != nil {
		return nil, err
	}
	return imaging.EncodeBuffer(edges, a.Scale)
}

type isolateColorArgs struct {
	Path      string  `json:"path"`
	Channel   string  `json:"channel"`
	Threshold int     `json:"threshold"`
	Scale     float64 `json:"scale"`
}

type isolateColorResult struct {
	Channel string                `json:"channel"`
	Color   *imaging.ColorSummary `json:"color"`
	Image   *imaging.ImageResult  `json:"image"`
}

func (s *Server) handleIsolateColor(args json.RawMessage) (interface{}, error) {
	var a isolateColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	ch, err := pixel.ParseChannel(a.Channel)
	if err != nil {
		return nil, err
	}
	if a.Threshold < 0 || a.Threshold > 255 {
		return nil, fmt.Errorf("threshold %d outside [0,255]", a.Threshold)
	}

	src, err := s.cache.LoadBuffer(a.Path, 3)
	if err != nil {
		return nil, err
	}
	iso, err := pixel.IsolateColor(src, ch, uint8(a.Threshold))
	if err != nil {
		return nil, err
	}
	summary, err := imaging.SummarizeColor(iso)
	if err != nil {
		return nil, err
	}
	img, err := imaging.EncodeBuffer(iso, a.Scale)
	if err != nil {
		return nil, err
	}
	return &isolateColorResult{Channel: ch.String(), Color: summary, Image: img}, nil
}

// === Blob Analysis Handlers ===

type labelComponentsArgs struct {
	Path     string  `json:"path"`
	Level    *int    `json:"level"`
	Capacity int     `json:"capacity"`
	Scale    float64 `json:"scale"`
}

type labelComponentsResult struct {
	Level     uint8                `json:"level"`
	Allocated int                  `json:"allocated"`
	Survivors int                  `json:"survivors"`
	Reference int                  `json:"reference"`
	Backend   string               `json:"backend"`
	Image     *imaging.ImageResult `json:"image"`
}

func (s *Server) handleLabelComponents(args json.RawMessage) (interface{}, error) {
	var a labelComponentsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Capacity == 0 {
		a.Capacity = s.cfg.LabelCapacity
	}

	binary, lv, err := s.loadBinary(a.Path, a.Level)
	if err != nil {
		return nil, err
	}
	res, err := labeling.LabelWithCapacity(binary, a.Capacity)
	if err != nil {
		return nil, err
	}
	refCount, err := reference.Components(binary)
	if err != nil {
		return nil, err
	}
	img, err := imaging.EncodeBuffer(res.AsBuffer(), a.Scale)
	if err != nil {
		return nil, err
	}

	return &labelComponentsResult{
		Level:     lv,
		Allocated: res.Count,
		Survivors: res.Survivors(),
		Reference: refCount,
		Backend:   reference.Name(),
		Image:     img,
	}, nil
}

type extractObjectsArgs struct {
	Path  string  `json:"path"`
	Level *int    `json:"level"`
	Limit int     `json:"limit"`
	Color string  `json:"color"`
	Scale float64 `json:"scale"`
}

type extractObjectsResult struct {
	Level   uint8                `json:"level"`
	Count   int                  `json:"count"`
	Objects []contour.Rect       `json:"objects"`
	Image   *imaging.ImageResult `json:"image"`
}

func (s *Server) handleExtractObjects(args json.RawMessage) (interface{}, error) {
	var a extractObjectsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Limit == 0 {
		a.Limit = report.DefaultMaxObjects
	}
	if a.Color == "" {
		a.Color = "#FF0000"
	}

	binary, lv, err := s.loadBinary(a.Path, a.Level)
	if err != nil {
		return nil, err
	}
	src, err := s.cache.LoadBuffer(a.Path, 3)
	if err != nil {
		return nil, err
	}

	objs, err := contour.NewExtractor(s.log).ExtractAll(binary, nil, a.Limit)
	if err != nil {
		return nil, err
	}
	rects := make([]contour.Rect, len(objs))
	bounds := make([]image.Rectangle, len(objs))
	for i, o := range objs {
		rects[i] = o.Rect
		bounds[i] = o.Rect.Bounds()
	}

	annotated, err := imaging.AnnotateRects(src, bounds, a.Color)
	if err != nil {
		return nil, err
	}
	img, err := imaging.EncodeImage(annotated, a.Scale)
	if err != nil {
		return nil, err
	}

	return &extractObjectsResult{Level: lv, Count: len(rects), Objects: rects, Image: img}, nil
}

type regionArgs struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

type momentsArgs struct {
	Path   string      `json:"path"`
	Level  *int        `json:"level"`
	Binary bool        `json:"binary"`
	Region *regionArgs `json:"region"`
}

type momentsResult struct {
	Moments   moments.Set       `json:"moments"`
	CentroidX float64           `json:"centroid_x"`
	CentroidY float64           `json:"centroid_y"`
	Axes      *moments.Axes     `json:"axes,omitempty"`
	Reference report.MomentDiff `json:"reference"`
}

func (s *Server) handleMoments(args json.RawMessage) (interface{}, error) {
	var a momentsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	var src *pixel.Buffer
	var err error
	if a.Level != nil {
		src, _, err = s.loadBinary(a.Path, a.Level)
	} else {
		src, err = s.cache.LoadBuffer(a.Path, 1)
	}
	if err != nil {
		return nil, err
	}

	offX, offY := 0, 0
	if a.Region != nil {
		r := a.Region
		src, err = pixel.Crop(src, r.Y1, r.X1, r.Y2, r.X2)
		if err != nil {
			return nil, err
		}
		offX, offY = r.X1, r.Y1
	}

	var set moments.Set
	if a.Binary {
		set, err = moments.ComputeBinary(src)
	} else {
		set, err = moments.Compute(src)
	}
	if err != nil {
		return nil, err
	}

	diff, err := report.DiffMoments(src, a.Binary, set)
	if err != nil {
		return nil, err
	}

	res := &momentsResult{Moments: set, Reference: diff}
	if !set.Empty() {
		cx, cy := set.Centroid()
		res.CentroidX, res.CentroidY = cx+float64(offX), cy+float64(offY)
	}
	axes, err := moments.PrincipalAxes(set)
	switch {
	case err == nil:
		res.Axes = &axes
	case !errors.Is(err, moments.ErrNoAxes):
		return nil, err
	}
	return res, nil
}

// === Comparison Handlers ===

type compareArgs struct {
	PathA string `json:"path_a"`
	PathB string `json:"path_b"`
	Gray  bool   `json:"gray"`
}

type compareResult struct {
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Channels int     `json:"channels"`
	SAD      uint64  `json:"sad"`
	Mean     float64 `json:"mean"`
}

func (s *Server) handleCompare(args json.RawMessage) (interface{}, error) {
	var a compareArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	channels := 3
	if a.Gray {
		channels = 1
	}

	ba, err := s.cache.LoadBuffer(a.PathA, channels)
	if err != nil {
		return nil, err
	}
	bb, err := s.cache.LoadBuffer(a.PathB, channels)
	if err != nil {
		return nil, err
	}

	sad, err := compare.SumOfAbsoluteDifferences(ba, bb)
	if err != nil {
		return nil, err
	}
	mean, err := compare.MeanAbsoluteDifference(ba, bb)
	if err != nil {
		return nil, err
	}
	return &compareResult{
		Width:    ba.Width,
		Height:   ba.Height,
		Channels: channels,
		SAD:      sad,
		Mean:     mean,
	}, nil
}

type compareShapesArgs struct {
	PathA     string  `json:"path_a"`
	PathB     string  `json:"path_b"`
	Level     *int    `json:"level"`
	Threshold float64 `json:"threshold"`
}

type compareShapesResult struct {
	HuA         [7]float64 `json:"hu_a"`
	HuB         [7]float64 `json:"hu_b"`
	Distance    *float64   `json:"distance"`
	LogDistance float64    `json:"log_distance"`
	Threshold   float64    `json:"threshold"`
	Match       bool       `json:"match"`
}

func (s *Server) handleCompareShapes(args json.RawMessage) (interface{}, error) {
	var a compareShapesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Threshold == 0 {
		a.Threshold = s.cfg.HuThreshold
	}

	hu := func(path string) ([7]float64, error) {
		binary, _, err := s.loadBinary(path, a.Level)
		if err != nil {
			return [7]float64{}, err
		}
		set, err := moments.ComputeBinary(binary)
		if err != nil {
			return [7]float64{}, err
		}
		if set.Empty() {
			return [7]float64{}, fmt.Errorf("no foreground in %s", path)
		}
		return set.Hu, nil
	}

	ha, err := hu(a.PathA)
	if err != nil {
		return nil, err
	}
	hb, err := hu(a.PathB)
	if err != nil {
		return nil, err
	}

	return &compareShapesResult{
		HuA:         ha,
		HuB:         hb,
		Distance:    finite(compare.CompareHu(ha, hb)),
		LogDistance: compare.HuLogDistance(ha, hb),
		Threshold:   a.Threshold,
		Match:       compare.HuMatchWithin(ha, hb, a.Threshold),
	}, nil
}

type reportArgs struct {
	Path       string `json:"path"`
	Level      *int   `json:"level"`
	MaxObjects int    `json:"max_objects"`
	SheetPath  string `json:"sheet_path"`
}

type reportResult struct {
	*report.Report
	SheetPath string `json:"sheet_path,omitempty"`
}

func (s *Server) handleReport(args json.RawMessage) (interface{}, error) {
	var a reportArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	opts := report.OptionsFrom(s.cfg, s.log)
	lv, err := s.binaryLevel(a.Level)
	if err != nil {
		return nil, err
	}
	opts.BinaryLevel = lv
	opts.MaxObjects = a.MaxObjects
	if a.SheetPath != "" {
		opts.Sheet = imaging.NewSheet(8)
	}

	src, err := s.cache.LoadBuffer(a.Path, 3)
	if err != nil {
		return nil, err
	}
	rep, err := report.Run(src, opts)
	if err != nil {
		return nil, err
	}

	if opts.Sheet != nil {
		if err := opts.Sheet.Save(a.SheetPath); err != nil {
			return nil, err
		}
	}
	return &reportResult{Report: rep, SheetPath: a.SheetPath}, nil
}
