package server

import (
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	if len(tools) == 0 {
		t.Fatal("GetToolDefinitions returned empty slice")
	}

	expectedTools := []string{
		"image_load",
		"image_dimensions",
		"pixel_grayscale",
		"pixel_convolve",
		"pixel_edges",
		"pixel_isolate_color",
		"pixel_label_components",
		"pixel_extract_objects",
		"pixel_moments",
		"pixel_compare",
		"pixel_compare_shapes",
		"pixel_report",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("Tool %s defined twice", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
	if len(tools) != len(expectedTools) {
		t.Errorf("got %d tools, want %d", len(tools), len(expectedTools))
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	tools := GetToolDefinitions()

	for _, tool := range tools {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Name == "" {
				t.Error("Tool name is empty")
			}
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema == nil {
				t.Fatal("Tool InputSchema is nil")
			}

			if schemaType := tool.InputSchema["type"]; schemaType != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", schemaType)
			}

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok || props == nil {
				t.Fatal("InputSchema properties missing")
			}

			// Every required argument must be described.
			required, ok := tool.InputSchema["required"].([]string)
			if !ok {
				t.Fatal("'required' should be a string slice")
			}
			for _, r := range required {
				if _, ok := props[r]; !ok {
					t.Errorf("required argument %s has no property", r)
				}
			}
		})
	}
}

func TestToolDefinitions_RequiredPaths(t *testing.T) {
	twoPaths := map[string]bool{
		"pixel_compare":        true,
		"pixel_compare_shapes": true,
	}

	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			required := tool.InputSchema["required"].([]string)
			has := make(map[string]bool)
			for _, r := range required {
				has[r] = true
			}

			if twoPaths[tool.Name] {
				if !has["path_a"] || !has["path_b"] {
					t.Errorf("%s should require path_a and path_b", tool.Name)
				}
				return
			}
			if !has["path"] {
				t.Errorf("%s should require path", tool.Name)
			}
		})
	}
}
