// Package tryi approximates images with a fixed number of semi-transparent
// triangles.
//
// # Overview
//
// A genome ([Tryi]) is an ordered list of [Triangle] genes together with the
// [Raster] they render to. Triangles are painted in order, so later genes
// cover earlier ones. All geometry lives on a canonical 255x255 canvas: every
// coordinate and colour channel is a single byte, and mutation clamps values
// to [0, 255].
//
// The search itself lives in the evolve package, the fitness function in
// the diff package.
//
// # Quick Start
//
//	import "github.com/gogpu/tryi"
//
//	// A random genome with 150 triangles, rendered at 255x255
//	r := rand.New(rand.NewPCG(1, 2))
//	t := tryi.Random(r, 150)
//
//	// Persist and reload
//	s := t.Serialize()
//	back, err := tryi.Deserialize(s)
//
// # Serialization
//
// A genome serializes to 10 bytes per triangle (p1.x p1.y p2.x p2.y p3.x
// p3.y r g b a), encoded with standard base64. [EncodeSized] prefixes the
// payload with the output canvas size ("<w>;<h>;"). [ReadDNA] imports the
// plain-text polygon format used by other triangle evolvers; it is never
// produced.
//
// # Renderers
//
// Rendering is pluggable through [Renderer]. [ScanlineRenderer] is an aliased
// span filler and the default during search. [VectorRenderer] computes
// anti-aliased coverage with golang.org/x/image/vector and is suited to
// exporting at larger output sizes.
//
// # Coordinate System
//
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Canvas coordinate 255 maps to the right/bottom edge of the raster
package tryi

// Canvas is the size of the canonical working canvas in both dimensions.
const Canvas = 255

// MaxOutput is the largest output width or height a sized genome may
// carry. Rendering at MaxOutput x MaxOutput takes 256MB.
const MaxOutput = 8192
