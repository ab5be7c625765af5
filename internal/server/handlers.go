package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/ironsheep/ditherum/internal/colorspace"
	"github.com/ironsheep/ditherum/internal/dither"
	"github.com/ironsheep/ditherum/internal/imaging"
	"github.com/ironsheep/ditherum/internal/palette"
	"github.com/ironsheep/ditherum/internal/paletteio"
	"github.com/ironsheep/ditherum/internal/processor"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_dither").
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
// Tool execution errors return a JSON-RPC error response with code -32000;
// arguments the tool rejects as invalid return -32602.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		log.Printf("Tool %s failed: %v", params.Name, err)
		if errors.Is(err, palette.ErrInvalidParameter) || errors.Is(err, paletteio.ErrInvalidData) {
			return s.errorResponse(req.ID, -32602, "Invalid tool arguments", err.Error())
		}
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
//  3. Loads images from cache and palettes from disk or presets
//  4. Calls the appropriate palette/dither/processor function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_compare":
		return s.handleImageCompare(args)

	// Palette Operations
	case "palette_extract":
		return s.handlePaletteExtract(args)
	case "palette_reduce":
		return s.handlePaletteReduce(args)
	case "palette_preview":
		return s.handlePalettePreview(args)

	// Dithering
	case "image_dither":
		return s.handleImageDither(args)

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
// Marshal errors are discarded and yield an empty string, so every result
// type must be marshalable.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// PaletteResult is the JSON form of a palette returned by the palette tools.
type PaletteResult struct {
	Colors  []colorspace.RGB `json:"colors"`
	Hex     []string         `json:"hex"`
	Weights []float64        `json:"weights"`
	SavedTo string           `json:"saved_to,omitempty"`
}

func newPaletteResult(p *palette.Palette, savedTo string) *PaletteResult {
	r := &PaletteResult{
		Colors:  p.Colors(),
		Hex:     make([]string, p.Len()),
		Weights: make([]float64, p.Len()),
		SavedTo: savedTo,
	}
	for i, c := range r.Colors {
		r.Hex[i] = c.Hex()
		r.Weights[i] = p.Weight(i)
	}
	return r
}

// loadPalette resolves a preset name or a palette file.
func (s *Server) loadPalette(ref string) (*palette.Palette, error) {
	if ref == "" {
		return nil, fmt.Errorf("palette is required")
	}
	if palette.IsPreset(ref) {
		return palette.Preset(ref)
	}
	return paletteio.Load(ref)
}

// colorsOrDefault applies DefaultColors only when the argument is absent;
// an explicit 0 reaches the extractor and is rejected there.
func colorsOrDefault(n *int) int {
	if n == nil {
		return processor.DefaultColors
	}
	return *n
}

// savePalette writes p when path is set.
func savePalette(path string, p *palette.Palette) error {
	if path == "" {
		return nil
	}
	return paletteio.Save(path, p)
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

type imageCompareArgs struct {
	Path  string `json:"path"`
	Other string `json:"other"`
}

func (s *Server) handleImageCompare(args json.RawMessage) (interface{}, error) {
	var a imageCompareArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	ref, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	other, err := s.cache.Load(a.Other)
	if err != nil {
		return nil, err
	}
	return imaging.Compare(imaging.FromImage(ref), imaging.FromImage(other))
}

// sourceArgs selects an image and its optional preprocessing.
type sourceArgs struct {
	Path   string          `json:"path"`
	Crop   *imaging.Region `json:"crop,omitempty"`
	Width  int             `json:"width"`
	Height int             `json:"height"`
}

func (s *Server) loadSource(a sourceArgs) (*imaging.Grid, error) {
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	img, err = imaging.Preprocess(img, a.Crop, a.Width, a.Height)
	if err != nil {
		return nil, err
	}
	return imaging.FromImage(img), nil
}

// === Palette Handlers ===

type paletteExtractArgs struct {
	sourceArgs
	Colors *int   `json:"colors"`
	Method string `json:"method"`
	Output string `json:"output"`
}

func (s *Server) handlePaletteExtract(args json.RawMessage) (interface{}, error) {
	var a paletteExtractArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	method, err := processor.ParseMethod(a.Method)
	if err != nil {
		return nil, err
	}

	grid, err := s.loadSource(a.sourceArgs)
	if err != nil {
		return nil, err
	}
	p, err := processor.Extract(grid, processor.Options{Colors: colorsOrDefault(a.Colors), Method: method, Cluster: s.cfg})
	if err != nil {
		return nil, err
	}
	if err := savePalette(a.Output, p); err != nil {
		return nil, err
	}
	return newPaletteResult(p, a.Output), nil
}

type paletteReduceArgs struct {
	Palette string `json:"palette"`
	Colors  int    `json:"colors"`
	Output  string `json:"output"`
}

func (s *Server) handlePaletteReduce(args json.RawMessage) (interface{}, error) {
	var a paletteReduceArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	p, err := s.loadPalette(a.Palette)
	if err != nil {
		return nil, err
	}
	reduced, err := p.TryReduce(a.Colors, s.cfg)
	if err != nil {
		return nil, err
	}
	if err := savePalette(a.Output, reduced); err != nil {
		return nil, err
	}
	return newPaletteResult(reduced, a.Output), nil
}

type palettePreviewArgs struct {
	Palette  string `json:"palette"`
	TileSize int    `json:"tile_size"`
	Sort     bool   `json:"sort"`
}

// PalettePreviewResult contains a rendered palette swatch.
type PalettePreviewResult struct {
	ImageBase64 string         `json:"image_base64"`
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	Palette     *PaletteResult `json:"palette"`
}

func (s *Server) handlePalettePreview(args json.RawMessage) (interface{}, error) {
	var a palettePreviewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	p, err := s.loadPalette(a.Palette)
	if err != nil {
		return nil, err
	}
	if a.Sort {
		p = p.SortByLightness()
	}

	img, err := imaging.Swatch(p.Colors(), a.TileSize)
	if err != nil {
		return nil, err
	}
	encoded, err := imaging.EncodePNGBase64(img)
	if err != nil {
		return nil, err
	}
	return &PalettePreviewResult{
		ImageBase64: encoded,
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		Palette:     newPaletteResult(p, ""),
	}, nil
}

// === Dithering Handlers ===

type imageDitherArgs struct {
	sourceArgs
	Output        string `json:"output"`
	Palette       string `json:"palette"`
	Colors        *int   `json:"colors"`
	ReduceTo      int    `json:"reduce_to"`
	Algorithm     string `json:"algorithm"`
	PaletteOutput string `json:"palette_output"`
}

// DitherResult describes a completed image_dither call.
type DitherResult struct {
	Output    string           `json:"output"`
	Width     int              `json:"width"`
	Height    int              `json:"height"`
	Algorithm string           `json:"algorithm"`
	Palette   *PaletteResult   `json:"palette"`
	Quality   *imaging.Quality `json:"quality,omitempty"`
}

func (s *Server) handleImageDither(args json.RawMessage) (interface{}, error) {
	var a imageDitherArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Output == "" {
		return nil, fmt.Errorf("output is required")
	}
	alg, err := dither.ParseAlgorithm(a.Algorithm)
	if err != nil {
		return nil, err
	}

	opts := processor.Options{
		Colors:    colorsOrDefault(a.Colors),
		ReduceTo:  a.ReduceTo,
		Algorithm: alg,
		Cluster:   s.cfg,
	}
	if a.Palette != "" {
		if opts.Palette, err = s.loadPalette(a.Palette); err != nil {
			return nil, err
		}
	}

	grid, err := s.loadSource(a.sourceArgs)
	if err != nil {
		return nil, err
	}
	res, err := processor.Run(grid, opts)
	if err != nil {
		return nil, err
	}
	if err := imaging.SaveGrid(a.Output, res.Image); err != nil {
		return nil, err
	}
	// A later image_load of the output must not see a stale copy.
	s.cache.Evict(a.Output)
	if err := savePalette(a.PaletteOutput, res.Palette); err != nil {
		return nil, err
	}

	return &DitherResult{
		Output:    a.Output,
		Width:     res.Image.Width,
		Height:    res.Image.Height,
		Algorithm: alg.String(),
		Palette:   newPaletteResult(res.Palette, a.PaletteOutput),
		Quality:   res.Quality,
	}, nil
}
