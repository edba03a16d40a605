package render

import (
	"math"

	"github.com/taigrr/trophy/pkg/math3d"
)

// LineSample is one pixel emitted by RasterizeLine: its window-space
// integer position, interpolated depth/Z_inv/attributes, and the
// FragmentContext identifying its slot in the emission group.
type LineSample[V Varying[V]] struct {
	X, Y  int
	Depth float64
	ZInv  float64
	Attrs V
	Ctx   *FragmentContext
}

type lineStep[V Varying[V]] struct {
	pos   math3d.Vec2
	depth float64
	zInv  float64
	attrs V
}

// RasterizeLine walks the DDA grid between two already window-space
// ProjectedFragments (spec §4.3). When pairMode is false each step emits
// a single non-helper LINE-group sample; when true, each included step is
// emitted alongside a helper companion one step ahead (or, at the final
// step, repeating itself) sharing one fragmentGroup so dFdv is available.
func RasterizeLine[V Varying[V]](p0, p1 ProjectedFragment[V], ends LineEndsInclusion, direction LineDrawingDirection, pairMode bool) []LineSample[V] {
	if shouldSwapLineEndpoints(p0.Pos, p1.Pos, direction) {
		p0, p1 = p1, p0
	}

	dx := p1.Pos.X - p0.Pos.X
	dy := p1.Pos.Y - p0.Pos.Y
	length := math.Max(math.Abs(dx), math.Abs(dy))
	n := int(math.Floor(length))
	if n == 0 {
		return nil
	}

	at := func(i int) lineStep[V] {
		t := float64(i) / length
		zInv := p0.ZInv + (p1.ZInv-p0.ZInv)*t
		return lineStep[V]{
			pos:   p0.Pos.Lerp(p1.Pos, t),
			depth: p0.Depth + (p1.Depth-p0.Depth)*t,
			zInv:  zInv,
			attrs: lerpProjectedVarying(p0.Attrs, p1.Attrs, t, p0.ZInv, p1.ZInv, zInv),
		}
	}

	var samples []LineSample[V]
	for i := 0; i <= n; i++ {
		if i == 0 && !ends.includeStart() {
			continue
		}
		if i == n && !ends.includeEnd() {
			continue
		}

		cur := at(i)
		x, y := int(math.Floor(cur.pos.X+0.5)), int(math.Floor(cur.pos.Y+0.5))

		if !pairMode {
			ctx := newGroupContexts(GroupLine, 1, 1)[0]
			samples = append(samples, LineSample[V]{X: x, Y: y, Depth: cur.depth, ZInv: cur.zInv, Attrs: cur.attrs, Ctx: ctx})
			continue
		}

		next := cur
		if i < n {
			next = at(i + 1)
		}
		ctxs := newGroupContexts(GroupLine, 2, 1)
		samples = append(samples,
			LineSample[V]{X: x, Y: y, Depth: cur.depth, ZInv: cur.zInv, Attrs: cur.attrs, Ctx: ctxs[0]},
			LineSample[V]{
				X: int(math.Floor(next.pos.X + 0.5)), Y: int(math.Floor(next.pos.Y + 0.5)),
				Depth: next.depth, ZInv: next.zInv, Attrs: next.attrs, Ctx: ctxs[1],
			},
		)
	}
	return samples
}

// shouldSwapLineEndpoints reports whether the endpoints must be swapped so
// the line is walked toward the canonical direction.
func shouldSwapLineEndpoints(p0, p1 math3d.Vec2, direction LineDrawingDirection) bool {
	dx := p1.X - p0.X
	dy := p1.Y - p0.Y
	switch direction {
	case LineRight:
		return dx < 0
	case LineLeft:
		return dx > 0
	case LineDown:
		return dy < 0
	case LineUp:
		return dy > 0
	default:
		return false
	}
}
