// Package boxblur blurs 24-bit bitmaps with a 3x3 mean filter computed over
// concurrently processed tiles.
//
// # Overview
//
// Every output pixel is the per-channel integer mean of the source pixel and
// its neighbors. Neighbors outside the image are left out rather than
// clamped, so corner pixels average 4 values, edge pixels 6 and interior
// pixels 9.
//
// # Quick Start
//
//	import "github.com/gogpu/boxblur"
//
//	// Blur a file with the default 4 tiles
//	err := boxblur.BlurFile(ctx, "in.bmp", "out.bmp")
//
//	// Or work on decoded pixels with an explicit grid
//	out, err := boxblur.Blur(ctx, src, boxblur.WithGrid(2, 3))
//
// # Architecture
//
// The library is organized into:
//   - Public API: Blur, BlurImage, Process, BlurFile, options, logging
//   - bmp: bitmap headers, Decode, Encode and diagnostic dumps
//   - pixbuf: RGB pixel buffers and a pool for tile storage
//   - Internal: filter (stencil and sequential reference), parallel (grid,
//     tiles, fork-join workers, reassembly)
//
// # Tiling
//
// The image is cut into a Rows x Cols grid. Each tile copies its region plus
// a one-pixel halo on every side that does not touch the image border, so
// workers never share memory. Results are stitched together only after every
// worker has returned. The output does not depend on the grid.
//
// # Coordinate System
//
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
package boxblur

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
