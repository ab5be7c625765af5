// Package server implements the MCP (Model Context Protocol) server for
// palette extraction and dithering.
//
// This package provides a JSON-RPC 2.0 server that exposes the same
// operations as the ditherum command line through the MCP protocol, so
// MCP-compatible clients can extract palettes and dither images without
// shelling out.
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
// Image Information:
//   - image_load: Load image and get metadata
//   - image_compare: Lab distance and PSNR between two images
//
// Palette Operations:
//   - palette_extract: Cluster an image into a palette
//   - palette_reduce: Shrink an existing palette
//   - palette_preview: Render a palette as PNG tiles
//
// Dithering:
//   - image_dither: Error-diffusion render under a palette
//
// Tools that take a "palette" argument accept a palette file (.json or
// .json.zst) or a preset name (bw, primary, grayN).
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded images. Images are cached
// by path and reused across multiple tool calls, avoiding redundant disk I/O.
// The cache persists for the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32602 for rejected arguments (invalid palette size, bad
//     palette data), -32000 for other tool failures
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
// The server is started by the serve subcommand:
//
//	srv := server.New(cluster.DefaultConfig())
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
