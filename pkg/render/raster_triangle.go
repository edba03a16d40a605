package render

import (
	"math"

	"github.com/taigrr/trophy/pkg/math3d"
)

// TriangleSample is one pixel emitted by RasterizeTriangle: its window-space
// integer position, interpolated depth/Z_inv/attributes, whether it fell
// inside the triangle proper, and the FragmentContext identifying its slot
// in the emission group.
type TriangleSample[V Varying[V]] struct {
	X, Y       int
	Depth      float64
	ZInv       float64
	Attrs      V
	InTriangle bool
	Ctx        *FragmentContext
}

// PixelBounds is an inclusive integer clip rectangle, typically the target
// framebuffer or viewport extent.
type PixelBounds struct {
	MinX, MinY, MaxX, MaxY int
}

// edgeCoeffs returns the (A,B,C) linear coefficients of the edge function
// for the directed edge start->end, such that A*x+B*y+C equals
// cross(end-start, (x,y)-start) (spec §4.4): evaluating at a pixel center
// gives twice the signed area of (start,end,pixel).
func edgeCoeffs(start, end math3d.Vec2) (a, b, c float64) {
	a = start.Y - end.Y
	b = end.X - start.X
	c = start.X*end.Y - end.X*start.Y
	return
}

func edgeEval(a, b, c, x, y float64) float64 {
	return a*x + b*y + c
}

// isTopLeft reports whether the directed edge start->end is a top or left
// edge under the spec §4.4 convention: it points right horizontally
// (ey≈0, ex>0), or it points upward (ey>0).
func isTopLeft(start, end math3d.Vec2) bool {
	ex := end.X - start.X
	ey := end.Y - start.Y
	return (ey == 0 && ex > 0) || ey > 0
}

const fillBiasEpsilon = 1e-6

func edgeBias(start, end math3d.Vec2, fill TriangleFillBias) float64 {
	switch fill {
	case FillBiasNeither:
		return 0
	case FillBiasBottomRight:
		if isTopLeft(start, end) {
			return -fillBiasEpsilon
		}
		return 0
	default: // FillBiasTopLeft
		if isTopLeft(start, end) {
			return 0
		}
		return -fillBiasEpsilon
	}
}

// RasterizeTriangle fills the triangle v0,v1,v2 (already in window space,
// CCW/positive-area) using the incremental edge-function algorithm of
// spec §4.4, clipped to bounds. When quadMode is false it emits one
// sample per covered pixel; when true it emits samples in 2x2-aligned
// quads (slots 0,1 top row; 2,3 bottom row) so dFdx/dFdy are available,
// marking pixels outside the triangle as helper invocations.
func RasterizeTriangle[V Varying[V]](v0, v1, v2 ProjectedFragment[V], fill TriangleFillBias, bounds PixelBounds, quadMode bool) []TriangleSample[V] {
	area2 := (v1.Pos.X-v0.Pos.X)*(v2.Pos.Y-v0.Pos.Y) - (v1.Pos.Y-v0.Pos.Y)*(v2.Pos.X-v0.Pos.X)
	if area2 <= 0 {
		return nil
	}

	a0, b0, c0 := edgeCoeffs(v1.Pos, v2.Pos) // opposite v0
	a1, b1, c1 := edgeCoeffs(v2.Pos, v0.Pos) // opposite v1
	a2, b2, c2 := edgeCoeffs(v0.Pos, v1.Pos) // opposite v2
	bias0 := edgeBias(v1.Pos, v2.Pos, fill)
	bias1 := edgeBias(v2.Pos, v0.Pos, fill)
	bias2 := edgeBias(v0.Pos, v1.Pos, fill)

	minX := int(math.Floor(min3(v0.Pos.X, v1.Pos.X, v2.Pos.X)))
	maxX := int(math.Ceil(max3(v0.Pos.X, v1.Pos.X, v2.Pos.X)))
	minY := int(math.Floor(min3(v0.Pos.Y, v1.Pos.Y, v2.Pos.Y)))
	maxY := int(math.Ceil(max3(v0.Pos.Y, v1.Pos.Y, v2.Pos.Y)))
	minX, maxX = clampRange(minX, maxX, bounds.MinX, bounds.MaxX)
	minY, maxY = clampRange(minY, maxY, bounds.MinY, bounds.MaxY)
	if minX > maxX || minY > maxY {
		return nil
	}

	interp := func(px, py float64) (w0, w1, w2, depth, zInv float64, attrs V) {
		w0 = edgeEval(a0, b0, c0, px, py) + bias0
		w1 = edgeEval(a1, b1, c1, px, py) + bias1
		w2 = edgeEval(a2, b2, c2, px, py) + bias2
		k0, k1, k2 := w0/area2, w1/area2, w2/area2
		depth = k0*v0.Depth + k1*v1.Depth + k2*v2.Depth
		zInv = k0*v0.ZInv + k1*v1.ZInv + k2*v2.ZInv
		if zInv == 0 {
			attrs = addScaledVarying(v0.Attrs, k0, v1.Attrs, k1, v2.Attrs, k2)
			return
		}
		raw := v0.Attrs.Scale(k0 * v0.ZInv).Add(v1.Attrs.Scale(k1 * v1.ZInv)).Add(v2.Attrs.Scale(k2 * v2.ZInv))
		attrs = raw.Scale(1 / zInv)
		return
	}

	var samples []TriangleSample[V]

	if !quadMode {
		for y := minY; y <= maxY; y++ {
			// Row-start edge values, advanced incrementally along x below
			// (spec §4.4): w_k += A_k per column step.
			w0, w1, w2 := interpInit(a0, b0, c0, a1, b1, c1, a2, b2, c2, bias0, bias1, bias2, float64(minX)+0.5, float64(y)+0.5)
			for x := minX; x <= maxX; x++ {
				if w0 >= 0 && w1 >= 0 && w2 >= 0 {
					_, _, _, depth, zInv, attrs := interp(float64(x)+0.5, float64(y)+0.5)
					ctx := newGroupContexts(GroupFilled, 1, 1)[0]
					samples = append(samples, TriangleSample[V]{X: x, Y: y, Depth: depth, ZInv: zInv, Attrs: attrs, InTriangle: true, Ctx: ctx})
				}
				w0 += a0
				w1 += a1
				w2 += a2
			}
		}
		return samples
	}

	qMinX := minX - ((minX % 2) + 2) % 2
	qMinY := minY - ((minY % 2) + 2) % 2
	offsets := [4][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	for y := qMinY; y <= maxY; y += 2 {
		for x := qMinX; x <= maxX; x += 2 {
			values := make([]TriangleSample[V], 4)
			anyInside := false
			for slot, off := range offsets {
				px, py := x+off[0], y+off[1]
				w0, w1, w2, depth, zInv, attrs := interp(float64(px)+0.5, float64(py)+0.5)
				inside := w0 >= 0 && w1 >= 0 && w2 >= 0
				anyInside = anyInside || inside
				values[slot] = TriangleSample[V]{X: px, Y: py, Depth: depth, ZInv: zInv, Attrs: attrs, InTriangle: inside}
			}
			if !anyInside {
				continue
			}
			ctxs := newGroupContexts(GroupFilled, 4, 4)
			for slot := range values {
				values[slot].Ctx = ctxs[slot]
				if !values[slot].InTriangle {
					values[slot].Ctx.isHelper = true
				}
			}
			samples = append(samples, values...)
		}
	}
	return samples
}

func interpInit(a0, b0, c0, a1, b1, c1, a2, b2, c2, bias0, bias1, bias2, x, y float64) (float64, float64, float64) {
	return edgeEval(a0, b0, c0, x, y) + bias0,
		edgeEval(a1, b1, c1, x, y) + bias1,
		edgeEval(a2, b2, c2, x, y) + bias2
}

func clampRange(lo, hi, boundLo, boundHi int) (int, int) {
	if lo < boundLo {
		lo = boundLo
	}
	if hi > boundHi {
		hi = boundHi
	}
	return lo, hi
}

func min3(a, b, c float64) float64 { return math.Min(a, math.Min(b, c)) }
func max3(a, b, c float64) float64 { return math.Max(a, math.Max(b, c)) }
