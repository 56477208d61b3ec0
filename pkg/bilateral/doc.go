// Package bilateral implements an edge-preserving bilateral filter for
// 8-bit images.
//
// Each output sample is a weighted average of the samples inside a square
// window around it. The weight of a neighbor is the product of a spatial
// Gaussian on its pixel offset and a range Gaussian on its intensity (or
// joint color) difference from the center, so flat regions are smoothed
// while strong edges survive.
//
// Which channels are filtered, and by which kernel, is decided by a
// [PolicyTable] keyed by the image [Mode]. The default table reproduces the
// historical channel selection, including the RGBA row that filters
// channels 1..3 and passes channel 0 through; [CorrectedPolicies] filters
// RGB and passes alpha instead.
//
// Basic use:
//
//	out, err := bilateral.Filter(img, bilateral.DefaultParams())
//
// Filter never modifies its input and always returns a freshly allocated
// image of the same mode and size.
package bilateral
