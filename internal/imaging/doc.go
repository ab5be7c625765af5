// Package imaging is the boundary between Go's image types and the pixel
// grids consumed by the palette and dither engines.
//
// It loads and saves image files, converts decoded images into row-major
// sRGB grids, performs the optional resize/crop preprocessing, renders
// palette swatches and test gradients, and measures how closely a quantized
// grid approximates its source.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Grid Layout
//
// A Grid stores Width*Height colors in row-major order: the pixel at (x, y)
// lives at index y*Width+x. Alpha is not represented; semi-transparent
// source pixels keep their straight (non-premultiplied) color.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. A Grid is a plain value
// container and must be synchronized by the caller if it is mutated while
// shared.
//
// # Supported Formats
//
// Decoding supports PNG, JPEG, GIF, BMP, TIFF and WebP. Encoding supports
// every format disintegration/imaging can write, selected by file extension.
package imaging
