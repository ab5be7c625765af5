// Package processor ties palette extraction and dithering together.
//
// Extract produces the palette a run will use: a supplied palette or one
// extracted from the image, optionally reduced. Run then dithers the image
// with it and reports how closely the result matches the source. Neither
// function keeps state between calls.
package processor
