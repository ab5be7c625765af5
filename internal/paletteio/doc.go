// Package paletteio loads and saves palettes as JSON.
//
// The canonical form is an object holding an ordered list of channel
// triples:
//
//	{"colors": [{"r": 0, "g": 0, "b": 0}, {"r": 255, "g": 255, "b": 255}]}
//
// A bare list of three-element arrays, [[0,0,0],[255,255,255]], is also
// accepted on load. Files ending in ".zst" are zstd compressed.
//
// Every structural problem (malformed JSON, an empty list, a missing or
// out-of-range channel, a repeated color) is reported as ErrInvalidData
// before a Palette is built.
package paletteio
