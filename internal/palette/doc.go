// Package palette provides an immutable, ordered set of unique colors with
// nearest-color lookup.
//
// A Palette is built by clustering an image (FromGrid, FromPixels), from an
// explicit color list (New), from a preset (BlackAndWhite, Primary,
// Grayscale) or by the dominantcolor extractor (FromDominant). TryReduce
// clusters an existing palette down to fewer colors and returns a new one;
// the receiver is never modified, so a Palette can be shared freely between
// goroutines.
//
// # Nearest-color search
//
// Nearest compares colors by squared Lab distance and breaks ties by the
// lowest entry index. Small palettes are scanned linearly; larger ones use
// an exact k-d tree over the Lab entries that honours the same tie rule, so
// both paths return identical results.
package palette
