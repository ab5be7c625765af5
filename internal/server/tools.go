package server

import "github.com/ironsheep/ditherum/internal/dither"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// sourceProperties are the image selection and preprocessing arguments
// shared by the tools that read an image.
func sourceProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the image file",
		},
		"crop": map[string]interface{}{
			"type":        "object",
			"description": "Optional region to crop before processing",
			"properties": map[string]interface{}{
				"x1": map[string]interface{}{"type": "integer"},
				"y1": map[string]interface{}{"type": "integer"},
				"x2": map[string]interface{}{"type": "integer"},
				"y2": map[string]interface{}{"type": "integer"},
			},
			"required": []string{"x1", "y1", "x2", "y2"},
		},
		"width": map[string]interface{}{
			"type":        "integer",
			"description": "Optional resize width; 0 keeps the aspect ratio from height",
			"default":     0,
		},
		"height": map[string]interface{}{
			"type":        "integer",
			"description": "Optional resize height; 0 keeps the aspect ratio from width",
			"default":     0,
		},
	}
}

func withProperties(base map[string]interface{}, extra map[string]interface{}) map[string]interface{} {
	for k, v := range extra {
		base[k] = v
	}
	return base
}

func algorithmNames() []string {
	var names []string
	for _, a := range dither.Algorithms() {
		names = append(names, a.String())
	}
	return names
}

var paletteProperty = map[string]interface{}{
	"type":        "string",
	"description": "Palette JSON file (.json or .json.zst) or preset name: bw, primary, grayN",
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and number of distinct colors.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_compare",
			Description: "Compare two images of equal size: mean and standard deviation of the per-pixel Lab distance, and PSNR.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the reference image",
					},
					"other": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image to compare against the reference",
					},
				},
				"required": []string{"path", "other"},
			},
		},

		// Palette Operations
		{
			Name:        "palette_extract",
			Description: "Extract a palette of representative colors from an image by K-means clustering in Lab space.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(sourceProperties(), map[string]interface{}{
					"colors": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of palette colors (default 16)",
						"default":     16,
					},
					"method": map[string]interface{}{
						"type":        "string",
						"description": "Extraction method",
						"enum":        []string{"lab", "dominant"},
						"default":     "lab",
					},
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to save the palette as JSON",
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "palette_reduce",
			Description: "Reduce an existing palette to fewer colors. The target must be smaller than the current size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"palette": paletteProperty,
					"colors": map[string]interface{}{
						"type":        "integer",
						"description": "Target number of colors",
					},
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to save the reduced palette as JSON",
					},
				},
				"required": []string{"palette", "colors"},
			},
		},
		{
			Name:        "palette_preview",
			Description: "Render a palette as a row of color tiles and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"palette": paletteProperty,
					"tile_size": map[string]interface{}{
						"type":        "integer",
						"description": "Tile edge length in pixels (default 64)",
						"default":     64,
					},
					"sort": map[string]interface{}{
						"type":        "boolean",
						"description": "Order tiles from dark to bright",
						"default":     false,
					},
				},
				"required": []string{"palette"},
			},
		},

		// Dithering
		{
			Name:        "image_dither",
			Description: "Render an image under a restricted palette with error diffusion and save the result. Uses the given palette, or extracts one from the image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(sourceProperties(), map[string]interface{}{
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Path for the dithered image; the extension selects the format",
					},
					"palette": paletteProperty,
					"colors": map[string]interface{}{
						"type":        "integer",
						"description": "Palette size to extract when no palette is given (default 16)",
						"default":     16,
					},
					"reduce_to": map[string]interface{}{
						"type":        "integer",
						"description": "Optionally reduce the palette to this many colors first",
					},
					"algorithm": map[string]interface{}{
						"type":        "string",
						"description": "Diffusion algorithm",
						"enum":        algorithmNames(),
						"default":     dither.FloydSteinberg.String(),
					},
					"palette_output": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to save the palette actually used",
					},
				}),
				"required": []string{"path", "output"},
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
