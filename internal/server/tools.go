package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func scaleProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "number",
		"description": "Optional scale factor for the returned image (nearest neighbor). Default 1.0",
		"default":     1.0,
	}
}

func levelProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": "Gray level a pixel must exceed to count as foreground (0-255). Defaults to PIXEL_BINARY_LEVEL",
		"minimum":     0,
		"maximum":     255,
	}
}

// GetToolDefinitions returns all available tools.
//
// Returns:
//   - []Tool: One definition per tool, in the order tools/list reports them.
//     Each InputSchema is a JSON Schema object whose "required" entry is a
//     []string.
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Pixel operations
		{
			Name:        "pixel_grayscale",
			Description: "Reduce an image to gray with fixed luminance weights and report how far the result is from the reference backend.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":  pathProperty(),
					"scale": scaleProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "pixel_convolve",
			Description: "Apply a 3x3 kernel (mirrored convolution, absolute value, saturated at 255). Border pixels are left black.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"kernel": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"sharpen", "sobel_x", "sobel_y"},
						"description": "Named kernel. Ignored when weights is given. Default sharpen",
					},
					"weights": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "integer"},
						"minItems":    9,
						"maxItems":    9,
						"description": "Nine row-major kernel weights",
					},
					"gray": map[string]interface{}{
						"type":        "boolean",
						"description": "Convolve the gray reduction instead of the color image",
					},
					"scale": scaleProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "pixel_edges",
			Description: "Fuse horizontal and vertical Sobel responses of the gray image into an edge magnitude.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"combine": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"hypot", "average"},
						"description": "How the two responses are fused. Default hypot",
					},
					"scale": scaleProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "pixel_isolate_color",
			Description: "Keep only pixels where one channel exceeds the weakest channel by more than a threshold, and summarize the kept color.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"channel": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"blue", "green", "red"},
						"description": "Channel to isolate",
					},
					"threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Minimum excess over the weakest channel (0-255). Default 0",
						"minimum":     0,
						"maximum":     255,
					},
					"scale": scaleProperty(),
				},
				"required": []string{"path", "channel"},
			},
		},

		// Blob analysis
		{
			Name:        "pixel_label_components",
			Description: "Threshold the gray image and label 8-connected foreground components. Reports labels allocated, labels surviving resolution, and the reference count.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":  pathProperty(),
					"level": levelProperty(),
					"capacity": map[string]interface{}{
						"type":        "integer",
						"description": "Merge table capacity. Defaults to PIXEL_LABEL_CAPACITY",
					},
					"scale": scaleProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "pixel_extract_objects",
			Description: "Threshold the gray image and find the bounding rectangle of each blob by growing a cursor from its first pixel. Returns the rectangles and an annotated image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":  pathProperty(),
					"level": levelProperty(),
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of objects. Default 32",
					},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Outline color as hex. Default #FF0000",
					},
					"scale": scaleProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "pixel_moments",
			Description: "Compute raw, central and normalized moments, the seven Hu invariants and the principal axes of the gray image or a region of it.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":  pathProperty(),
					"level": levelProperty(),
					"binary": map[string]interface{}{
						"type":        "boolean",
						"description": "Weigh every foreground pixel as 1 instead of by its gray value",
					},
					"region": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"x1": map[string]interface{}{"type": "integer"},
							"y1": map[string]interface{}{"type": "integer"},
							"x2": map[string]interface{}{"type": "integer"},
							"y2": map[string]interface{}{"type": "integer"},
						},
						"required": []string{"x1", "y1", "x2", "y2"},
					},
				},
				"required": []string{"path"},
			},
		},

		// Comparison
		{
			Name:        "pixel_compare",
			Description: "Sum of absolute differences between two images of the same size, ignoring the one-pixel border.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path_a": pathProperty(),
					"path_b": pathProperty(),
					"gray": map[string]interface{}{
						"type":        "boolean",
						"description": "Compare gray reductions instead of color",
					},
				},
				"required": []string{"path_a", "path_b"},
			},
		},
		{
			Name:        "pixel_compare_shapes",
			Description: "Compare the foreground shapes of two images by their Hu invariants.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path_a": pathProperty(),
					"path_b": pathProperty(),
					"level":  levelProperty(),
					"threshold": map[string]interface{}{
						"type":        "number",
						"description": "Distance below which shapes match. Defaults to PIXEL_HU_THRESHOLD",
					},
				},
				"required": []string{"path_a", "path_b"},
			},
		},
		{
			Name:        "pixel_report",
			Description: "Run every primitive over an image, score each stage against the reference backend, and enumerate blobs with their shape descriptors.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":  pathProperty(),
					"level": levelProperty(),
					"max_objects": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of blobs to enumerate. Default 32",
					},
					"sheet_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to save a contact sheet of every stage",
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
