// Package filter provides the 3x3 box (mean) stencil used by the blur
// pipeline.
//
// The stencil is expressed as an explicit neighbor lookup: Gather collects up
// to nine optional neighbors from coordinates and bounds checks alone, and
// Mean averages whichever of them are present. Both functions are pure and
// may be called concurrently on disjoint data.
//
// Edge policy: a neighbor that falls outside the global image is absent, not
// replicated. Corner pixels average 4 values, edge pixels 6, interior pixels 9.
package filter
