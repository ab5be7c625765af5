// Package cluster implements weighted K-means clustering of colors in CIE
// Lab space.
//
// Clustering runs on a population of distinct colors, each weighted by the
// number of pixels that carry it, so the cost of an iteration scales with
// the number of distinct colors rather than the number of pixels.
//
// # Algorithm
//
// Run performs Lloyd iterations:
//   - Assignment: every sample goes to its nearest centroid by squared Lab
//     distance; ties resolve to the lowest centroid index.
//   - Update: each centroid moves to the weighted mean of its samples.
//   - Convergence: iteration stops once no centroid moves farther than
//     Config.Epsilon, or after Config.MaxIterations.
//
// Initialization is deterministic. Candidates (the seed colors when given,
// otherwise the population) are ordered by lightness and the midpoint of
// each of k equal bins is chosen. Two runs with identical inputs and the
// same worker count produce identical results.
//
// # Concurrency
//
// The assignment step is split across a fixed pool of workers that lives
// for one Run. Each worker owns a private accumulator per centroid over a
// contiguous chunk of the population; accumulators are merged in worker
// order once all workers reach the barrier. Nothing is shared between
// concurrent Run calls.
package cluster
