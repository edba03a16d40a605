package render

import "github.com/taigrr/trophy/pkg/math3d"

// Fragment is a vertex-shader output in homogeneous clip space, before
// perspective divide. Pos must never be the zero vector, and Pos.W must be
// non-zero before projection.
type Fragment[V Varying[V]] struct {
	Pos   math3d.Vec4
	Attrs V
}

// ProjectedFragment is the result of perspective-dividing a Fragment.
// Depth is z/w and ZInv is 1/w; ZInv is finite whenever the source w was
// finite and non-zero.
type ProjectedFragment[V Varying[V]] struct {
	Pos   math3d.Vec2
	Depth float64
	ZInv  float64
	Attrs V
}

// Project performs the perspective divide described in spec §4.2:
// pos = (x/w, y/w), depth = z/w, ZInv = 1/w.
func Project[V Varying[V]](f Fragment[V]) ProjectedFragment[V] {
	invW := 1.0 / f.Pos.W
	return ProjectedFragment[V]{
		Pos:   math3d.V2(f.Pos.X*invW, f.Pos.Y*invW),
		Depth: f.Pos.Z * invW,
		ZInv:  invW,
		Attrs: f.Attrs,
	}
}

// lerpProjectedVarying interpolates attributes perspective-correctly given
// the two endpoints' 1/w values and the 1/w value already interpolated at
// parameter t (spec §4.3): the caller supplies zInvT = lerp(zInv0, zInv1, t).
func lerpProjectedVarying[V Varying[V]](a, b V, t, zInv0, zInv1, zInvT float64) V {
	if zInvT == 0 {
		return lerpVarying(a, b, t)
	}
	wa := (1 - t) * zInv0
	wb := t * zInv1
	return a.Scale(wa).Add(b.Scale(wb)).Scale(1 / zInvT)
}
