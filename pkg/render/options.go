package render

import "github.com/taigrr/trophy/pkg/math3d"

// WindingOrder selects which triangle winding is treated as front-facing.
type WindingOrder int

const (
	WindingCW WindingOrder = iota
	WindingCCW
	WindingNeither // draw both orientations
)

// TriangleFillBias selects which shared-edge convention the top-left fill
// rule uses, per the Open Question resolution in SPEC_FULL.md §7.
// FillBiasNeither applies no bias to any edge, so a pixel whose center lies
// exactly on an edge shared by two triangles is drawn by both.
type TriangleFillBias int

const (
	FillBiasTopLeft TriangleFillBias = iota
	FillBiasBottomRight
	FillBiasNeither
)

// LineDrawingDirection biases DDA stepping so lines of a given orientation
// are always walked in a canonical direction.
type LineDrawingDirection int

const (
	LineUp LineDrawingDirection = iota
	LineDown
	LineLeft
	LineRight
)

// LineEndsInclusion controls whether the first/last DDA step is emitted.
type LineEndsInclusion int

const (
	LineEndsNone LineEndsInclusion = iota
	LineEndsStart
	LineEndsEnd
	LineEndsBoth
)

func (e LineEndsInclusion) includeStart() bool {
	return e == LineEndsStart || e == LineEndsBoth
}

func (e LineEndsInclusion) includeEnd() bool {
	return e == LineEndsEnd || e == LineEndsBoth
}

// RendererOptions configures the per-draw pipeline behavior (spec §3).
type RendererOptions struct {
	WindingOrder      WindingOrder
	TriangleFillBias  TriangleFillBias
	LineDirection     LineDrawingDirection
	LineEndsInclusion LineEndsInclusion

	// Frustum, if non-nil, is tested against a vertex buffer's Bounds (spec
	// §6) before per-vertex shading starts. A buffer with no Bounds is never
	// culled: the check is a fast-reject, not a requirement.
	Frustum *Frustum
}

// DefaultOptions returns the pipeline's default draw options: CCW front
// faces, top-left fill rule, lines walked left to right (LineRight), both
// line endpoints included.
func DefaultOptions() RendererOptions {
	return RendererOptions{
		WindingOrder:      WindingCCW,
		TriangleFillBias:  FillBiasTopLeft,
		LineDirection:     LineRight,
		LineEndsInclusion: LineEndsBoth,
	}
}

// Depth convention: smaller depth is nearer. MinDepth (0) is the near end
// of the range and MaxDepth (1) the far end; the depth test keeps the
// smaller value. DefaultDepth clears strictly past MaxDepth so any valid
// depth wins
// against a freshly-cleared cell.
const (
	MinDepth     = 0.0
	MaxDepth     = 1.0
	DefaultDepth = 2.0
)

// ScreenBounds is the compile-time 2D AABB every draw projects into before
// viewport scaling: [-1,-1] x [+1,+1].
func ScreenBounds() math3d.AABB2D {
	return math3d.NewAABB2D(math3d.V2(-1, -1), math3d.V2(1, 1))
}
