// Package colorspace converts between 8-bit sRGB triples and CIE L*a*b*.
//
// All clustering and nearest-color searches in this module run on Lab values
// because Euclidean distance in Lab tracks perceived color difference far
// better than distance in raw sRGB.
//
// # Scales
//
//   - RGB: three uint8 channels (0-255)
//   - Lab: L in [0,100], a and b practically within ±128 (D65 white point)
//
// # Conversions
//
// ToLab is total over RGB. ToRGB clamps out-of-gamut Lab values into sRGB
// before rounding to bytes, so every Lab input has a defined RGB output. A
// round trip RGB -> Lab -> RGB is deterministic but not guaranteed to be
// bit-exact; it is within one unit per channel.
//
// # Thread Safety
//
// Every function in this package is pure and safe for concurrent use.
package colorspace
