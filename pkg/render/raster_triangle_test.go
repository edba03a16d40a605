package render

import (
	"math"
	"testing"

	"github.com/taigrr/trophy/pkg/math3d"
)

func vecVarying(v float64) sumVarying { return sumVarying{v} }

func projV(x, y, depth, zInv, attr float64) ProjectedFragment[sumVarying] {
	return ProjectedFragment[sumVarying]{Pos: math3d.V2(x, y), Depth: depth, ZInv: zInv, Attrs: vecVarying(attr)}
}

func TestRasterizeTriangleBackfaceCulled(t *testing.T) {
	// Clockwise winding (negative area under the spec's CCW convention)
	// must be culled, not rasterized.
	v0 := projV(0, 0, 0.5, 1, 0)
	v1 := projV(0, 10, 0.5, 1, 0)
	v2 := projV(10, 0, 0.5, 1, 0)
	bounds := PixelBounds{MinX: 0, MinY: 0, MaxX: 20, MaxY: 20}

	samples := RasterizeTriangle(v0, v1, v2, FillBiasTopLeft, bounds, false)
	if samples != nil {
		t.Errorf("got %d samples, want 0 for a clockwise-wound (backfacing) triangle", len(samples))
	}
}

func TestRasterizeTriangleDegenerateCollinear(t *testing.T) {
	// Three collinear points have zero area and must not rasterize.
	v0 := projV(0, 0, 0.5, 1, 0)
	v1 := projV(5, 5, 0.5, 1, 0)
	v2 := projV(10, 10, 0.5, 1, 0)
	bounds := PixelBounds{MinX: 0, MinY: 0, MaxX: 20, MaxY: 20}

	samples := RasterizeTriangle(v0, v1, v2, FillBiasTopLeft, bounds, false)
	if samples != nil {
		t.Errorf("got %d samples, want 0 for a degenerate collinear triangle", len(samples))
	}
}

func TestRasterizeTriangleBarycentricWeightsSumToOne(t *testing.T) {
	// A triangle carrying weight 1 at each vertex should interpolate to
	// attribute value 1 everywhere inside it (since barycentric weights
	// always sum to 1), regardless of position.
	v0 := projV(0, 0, 0.2, 1, 1)
	v1 := projV(20, 0, 0.4, 1, 1)
	v2 := projV(0, 20, 0.6, 1, 1)
	bounds := PixelBounds{MinX: 0, MinY: 0, MaxX: 20, MaxY: 20}

	samples := RasterizeTriangle(v0, v1, v2, FillBiasTopLeft, bounds, false)
	if len(samples) == 0 {
		t.Fatal("expected at least one covered pixel")
	}
	for _, s := range samples {
		if math.Abs(s.Attrs.V-1) > 1e-9 {
			t.Errorf("pixel (%d,%d) attrs = %v, want 1 (uniform vertex weights must sum to 1)", s.X, s.Y, s.Attrs.V)
		}
	}
}

func TestRasterizeTriangleTopLeftRuleSharedEdgeCoverage(t *testing.T) {
	// Two triangles sharing one edge, together tiling a square, must
	// rasterize every pixel in the square exactly once: the top-left
	// fill rule's entire purpose is to avoid double-covering or gapping
	// the shared edge.
	bounds := PixelBounds{MinX: 0, MinY: 0, MaxX: 20, MaxY: 20}

	// Square (0,0)-(10,10) split along the diagonal from (0,0) to (10,10).
	triA := RasterizeTriangle(
		projV(0, 0, 0.5, 1, 0), projV(10, 0, 0.5, 1, 0), projV(10, 10, 0.5, 1, 0),
		FillBiasTopLeft, bounds, false,
	)
	triB := RasterizeTriangle(
		projV(0, 0, 0.5, 1, 0), projV(10, 10, 0.5, 1, 0), projV(0, 10, 0.5, 1, 0),
		FillBiasTopLeft, bounds, false,
	)

	seen := map[[2]int]int{}
	for _, s := range triA {
		seen[[2]int{s.X, s.Y}]++
	}
	for _, s := range triB {
		seen[[2]int{s.X, s.Y}]++
	}

	for px, count := range seen {
		if count > 1 {
			t.Errorf("pixel %v covered %d times, want at most 1 (shared-edge double coverage)", px, count)
		}
	}
	if len(seen) == 0 {
		t.Fatal("expected the combined triangles to cover some pixels")
	}
}

func TestRasterizeTriangleClampedToBounds(t *testing.T) {
	// A triangle extending past the pixel bounds must only emit samples
	// within them.
	v0 := projV(-5, -5, 0.5, 1, 0)
	v1 := projV(15, -5, 0.5, 1, 0)
	v2 := projV(-5, 15, 0.5, 1, 0)
	bounds := PixelBounds{MinX: 0, MinY: 0, MaxX: 9, MaxY: 9}

	samples := RasterizeTriangle(v0, v1, v2, FillBiasTopLeft, bounds, false)
	for _, s := range samples {
		if s.X < bounds.MinX || s.X > bounds.MaxX || s.Y < bounds.MinY || s.Y > bounds.MaxY {
			t.Errorf("sample (%d,%d) falls outside bounds %v", s.X, s.Y, bounds)
		}
	}
}

func TestRasterizeTriangleQuadModeMarksHelpers(t *testing.T) {
	v0 := projV(0, 0, 0.5, 1, 0)
	v1 := projV(20, 0, 0.5, 1, 0)
	v2 := projV(0, 20, 0.5, 1, 0)
	bounds := PixelBounds{MinX: 0, MinY: 0, MaxX: 20, MaxY: 20}

	samples := RasterizeTriangle(v0, v1, v2, FillBiasTopLeft, bounds, true)
	if len(samples)%4 != 0 {
		t.Fatalf("quad-mode samples should come in groups of 4, got %d", len(samples))
	}

	sawHelper, sawReal := false, false
	for _, s := range samples {
		if s.Ctx == nil {
			t.Fatal("every quad-mode sample must carry a FragmentContext")
		}
		if s.InTriangle {
			sawReal = true
			if s.Ctx.IsHelperInvocation() {
				t.Errorf("pixel (%d,%d) is inside the triangle but marked as a helper invocation", s.X, s.Y)
			}
		} else {
			sawHelper = true
			if !s.Ctx.IsHelperInvocation() {
				t.Errorf("pixel (%d,%d) is outside the triangle but not marked as a helper invocation", s.X, s.Y)
			}
		}
	}
	if !sawReal {
		t.Error("expected at least one non-helper sample")
	}
	if !sawHelper {
		t.Error("expected at least one helper-invocation sample to fill out a partially-covered quad")
	}
}

func TestRasterizeTriangleFillBiasNeitherDoubleCountsSharedEdge(t *testing.T) {
	// With bias disabled, adjacent triangles sharing an edge both include
	// pixels exactly on that edge, which the top-left rule exists to
	// prevent. Pixel (0,0) has its center on the shared diagonal, so it
	// must be emitted by both triangles.
	bounds := PixelBounds{MinX: 0, MinY: 0, MaxX: 20, MaxY: 20}
	triA := RasterizeTriangle(
		projV(0, 0, 0.5, 1, 0), projV(10, 0, 0.5, 1, 0), projV(10, 10, 0.5, 1, 0),
		FillBiasNeither, bounds, false,
	)
	triB := RasterizeTriangle(
		projV(0, 0, 0.5, 1, 0), projV(10, 10, 0.5, 1, 0), projV(0, 10, 0.5, 1, 0),
		FillBiasNeither, bounds, false,
	)
	if len(triA) == 0 || len(triB) == 0 {
		t.Fatal("expected both triangles to rasterize some pixels")
	}
	inA := map[[2]int]bool{}
	for _, s := range triA {
		inA[[2]int{s.X, s.Y}] = true
	}
	shared := 0
	for _, s := range triB {
		if inA[[2]int{s.X, s.Y}] {
			shared++
		}
	}
	if shared == 0 {
		t.Error("expected at least one pixel on the shared edge to be emitted by both triangles")
	}
}
