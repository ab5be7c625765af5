// Package dither renders an image under a restricted palette with error
// diffusion.
//
// Pixels are visited in raster order, left to right and top to bottom. For
// each pixel the accumulated error from earlier pixels is added to the
// source color, the result is clamped to [0,255], the nearest palette entry
// is written out, and the difference is spread to unvisited neighbours
// through the algorithm's kernel. Error that would land outside the image is
// dropped.
//
// Only the current and the next row of error are kept, so auxiliary memory
// is proportional to the image width. The traversal is strictly sequential;
// a Palette may nevertheless be shared by concurrent Dither calls.
package dither
