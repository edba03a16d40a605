package render

import "github.com/taigrr/trophy/pkg/math3d"

// clipPlaneValue evaluates one of the six frustum half-space inequalities at
// a clip-space point. A value >= 0 means the point is inside that plane.
type clipPlaneValue func(p math3d.Vec4) float64

// frustumPlanes returns the left, right, bottom, top, near, far half-space
// functions in homogeneous clip space, matching point_in_frustum (spec
// §4.1): -w<=x<=w, -w<=y<=w, 0<=z<=w.
func frustumPlanes() [6]clipPlaneValue {
	return [6]clipPlaneValue{
		func(p math3d.Vec4) float64 { return p.X + p.W },  // left
		func(p math3d.Vec4) float64 { return p.W - p.X },  // right
		func(p math3d.Vec4) float64 { return p.Y + p.W },  // bottom
		func(p math3d.Vec4) float64 { return p.W - p.Y },  // top
		func(p math3d.Vec4) float64 { return p.Z },        // near
		func(p math3d.Vec4) float64 { return p.W - p.Z },  // far
	}
}

// isZeroVec4 reports whether p is the degenerate all-zero homogeneous point.
func isZeroVec4(p math3d.Vec4) bool {
	return p.X == 0 && p.Y == 0 && p.Z == 0 && p.W == 0
}

// PointInFrustum reports whether a homogeneous clip-space point lies inside
// the view frustum (spec §4.1). The all-zero point is always rejected.
func PointInFrustum(p math3d.Vec4) bool {
	if isZeroVec4(p) {
		return false
	}
	for _, plane := range frustumPlanes() {
		if plane(p) < 0 {
			return false
		}
	}
	return true
}

// PointInScreen reports whether a 2D screen-space point lies inside bounds.
func PointInScreen(p math3d.Vec2, bounds math3d.AABB2D) bool {
	return bounds.Contains(p)
}

const parallelEpsilon = 1e-12

// ClipLine runs Liang-Barsky clipping of the segment p0->p1 against the
// view frustum in homogeneous coordinates (spec §4.1). It returns the
// surviving sub-range [t0,t1] of the parameter, or ok=false if the whole
// segment is rejected.
func ClipLine(p0, p1 math3d.Vec4) (t0, t1 float64, ok bool) {
	if isZeroVec4(p0) || isZeroVec4(p1) {
		return 0, 0, false
	}
	if p0.W < 0 && p1.W < 0 {
		return 0, 0, false
	}

	t0, t1 = 0, 1
	for _, plane := range frustumPlanes() {
		q := plane(p0)
		p := plane(p1) - q
		if p > -parallelEpsilon && p < parallelEpsilon {
			if q < 0 {
				return 0, 0, false
			}
			continue
		}
		t := -q / p
		if p > 0 {
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t1 {
				t1 = t
			}
		}
		if t0 > t1 {
			return 0, 0, false
		}
	}
	return t0, t1, true
}

// ClipLineScreen clips a 2D screen-space segment against bounds, returning
// the surviving [t0,t1] sub-range (the same line_in_bounds shape as
// ClipLine, specialized to an axis-aligned box instead of the frustum).
func ClipLineScreen(p0, p1 math3d.Vec2, bounds math3d.AABB2D) (t0, t1 float64, ok bool) {
	t0, t1 = 0, 1
	planes := [4]func(math3d.Vec2) float64{
		func(p math3d.Vec2) float64 { return p.X - bounds.Min.X },
		func(p math3d.Vec2) float64 { return bounds.Max.X - p.X },
		func(p math3d.Vec2) float64 { return p.Y - bounds.Min.Y },
		func(p math3d.Vec2) float64 { return bounds.Max.Y - p.Y },
	}
	for _, plane := range planes {
		q := plane(p0)
		p := plane(p1) - q
		if p > -parallelEpsilon && p < parallelEpsilon {
			if q < 0 {
				return 0, 0, false
			}
			continue
		}
		t := -q / p
		if p > 0 {
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t1 {
				t1 = t
			}
		}
		if t0 > t1 {
			return 0, 0, false
		}
	}
	return t0, t1, true
}

// rotated3Vec4 returns the cyclic rotation of a 3-triplet starting at index i.
func rotated3Vec4(v Vec4Triplet, i int) Vec4Triplet {
	return Vec4Triplet{v[i], v[(i+1)%3], v[(i+2)%3]}
}

func rotated3Attrs[V Varying[V]](v AttrsTriplet[V], i int) AttrsTriplet[V] {
	return AttrsTriplet[V]{v[i], v[(i+1)%3], v[(i+2)%3]}
}

func lerpVec4(a, b math3d.Vec4, t float64) math3d.Vec4 {
	return a.Lerp(b, t)
}

// clipTripletAgainstPlane runs one Sutherland-Hodgman step (spec §4.1) on a
// single triangle against one plane, appending zero, one or two resulting
// triplets to next/nextAttrs.
func clipTripletAgainstPlane[V Varying[V]](
	pos Vec4Triplet, attrs AttrsTriplet[V],
	plane clipPlaneValue,
	next *[]Vec4Triplet, nextAttrs *[]AttrsTriplet[V],
) {
	var vals [3]float64
	var inside [3]bool
	k := 0
	for i := range 3 {
		vals[i] = plane(pos[i])
		inside[i] = vals[i] >= 0
		if inside[i] {
			k++
		}
	}

	switch k {
	case 0:
		return
	case 3:
		*next = append(*next, pos)
		*nextAttrs = append(*nextAttrs, attrs)
	case 1:
		in := 0
		for i := range 3 {
			if inside[i] {
				in = i
				break
			}
		}
		p := rotated3Vec4(pos, in)
		a := rotated3Attrs(attrs, in)
		v := [3]float64{vals[in], vals[(in+1)%3], vals[(in+2)%3]}

		t01 := v[0] / (v[0] - v[1])
		t02 := v[0] / (v[0] - v[2])
		newPos := Vec4Triplet{p[0], lerpVec4(p[0], p[1], t01), lerpVec4(p[0], p[2], t02)}
		newAttrs := AttrsTriplet[V]{a[0], lerpVarying(a[0], a[1], t01), lerpVarying(a[0], a[2], t02)}
		*next = append(*next, newPos)
		*nextAttrs = append(*nextAttrs, newAttrs)
	case 2:
		out := 0
		for i := range 3 {
			if !inside[i] {
				out = i
				break
			}
		}
		// rotate so the outside vertex lands at index 2, preserving winding.
		rot := (out + 1) % 3
		p := rotated3Vec4(pos, rot)
		a := rotated3Attrs(attrs, rot)
		v := [3]float64{vals[rot], vals[(rot+1)%3], vals[(rot+2)%3]}

		t02 := v[0] / (v[0] - v[2])
		t12 := v[1] / (v[1] - v[2])
		p02 := lerpVec4(p[0], p[2], t02)
		p12 := lerpVec4(p[1], p[2], t12)
		a02 := lerpVarying(a[0], a[2], t02)
		a12 := lerpVarying(a[1], a[2], t12)

		*next = append(*next, Vec4Triplet{p[0], p[1], p02})
		*nextAttrs = append(*nextAttrs, AttrsTriplet[V]{a[0], a[1], a02})
		*next = append(*next, Vec4Triplet{p[1], p12, p02})
		*nextAttrs = append(*nextAttrs, AttrsTriplet[V]{a[1], a12, a02})
	}
}

// ClipTriangleFrustum clips a single triangle against all six frustum
// planes, using buf as reusable scratch space. It returns the surviving
// triplets (valid until the next call on buf).
func ClipTriangleFrustum[V Varying[V]](buf *ClipBuffers[V], pos Vec4Triplet, attrs AttrsTriplet[V]) ([]Vec4Triplet, []AttrsTriplet[V]) {
	buf.seed(pos, attrs)
	for _, plane := range frustumPlanes() {
		for i := range buf.posA {
			clipTripletAgainstPlane(buf.posA[i], buf.attrsA[i], plane, &buf.posB, &buf.attrsB)
		}
		buf.swap()
		if len(buf.posA) == 0 {
			break
		}
	}
	return buf.posA, buf.attrsA
}

// screenPoint is the working vertex shape for screen-space triangle
// clipping: a projected 2D position plus the perspective-correction factor
// Z_inv and the affine screen-space depth.
type screenPoint struct {
	Pos   math3d.Vec2
	Depth float64
	ZInv  float64
}

func lerpScreenPoint(a, b screenPoint, t float64) screenPoint {
	// depth is affine in screen space (spec §4.1/§4.4): interpolate
	// linearly, same as Z_inv.
	return screenPoint{
		Pos:   a.Pos.Lerp(b.Pos, t),
		Depth: a.Depth + (b.Depth-a.Depth)*t,
		ZInv:  a.ZInv + (b.ZInv-a.ZInv)*t,
	}
}

// lerpScreenAttrs interpolates attributes perspective-correctly per spec
// §4.1: (a*ZInv_a*(1-t) + b*ZInv_b*t) / lerp(ZInv).
func lerpScreenAttrs[V Varying[V]](a screenPoint, av V, b screenPoint, bv V, t float64) V {
	zInvT := a.ZInv + (b.ZInv-a.ZInv)*t
	if zInvT == 0 {
		return lerpVarying(av, bv, t)
	}
	return av.Scale(a.ZInv * (1 - t)).Add(bv.Scale(b.ZInv * t)).Scale(1 / zInvT)
}

func screenPlanes(bounds math3d.AABB2D) [4]func(screenPoint) float64 {
	return [4]func(screenPoint) float64{
		func(p screenPoint) float64 { return p.Pos.X - bounds.Min.X },
		func(p screenPoint) float64 { return bounds.Max.X - p.Pos.X },
		func(p screenPoint) float64 { return p.Pos.Y - bounds.Min.Y },
		func(p screenPoint) float64 { return bounds.Max.Y - p.Pos.Y },
	}
}

func rotated3Screen(v [3]screenPoint, i int) [3]screenPoint {
	return [3]screenPoint{v[i], v[(i+1)%3], v[(i+2)%3]}
}

func clipScreenTripletAgainstPlane[V Varying[V]](
	pos [3]screenPoint, attrs AttrsTriplet[V],
	plane func(screenPoint) float64,
	next *[][3]screenPoint, nextAttrs *[]AttrsTriplet[V],
) {
	var vals [3]float64
	var inside [3]bool
	k := 0
	for i := range 3 {
		vals[i] = plane(pos[i])
		inside[i] = vals[i] >= 0
		if inside[i] {
			k++
		}
	}

	switch k {
	case 0:
		return
	case 3:
		*next = append(*next, pos)
		*nextAttrs = append(*nextAttrs, attrs)
	case 1:
		in := 0
		for i := range 3 {
			if inside[i] {
				in = i
				break
			}
		}
		p := rotated3Screen(pos, in)
		a := rotated3Attrs(attrs, in)
		v := [3]float64{vals[in], vals[(in+1)%3], vals[(in+2)%3]}

		t01 := v[0] / (v[0] - v[1])
		t02 := v[0] / (v[0] - v[2])
		p01 := lerpScreenPoint(p[0], p[1], t01)
		p02 := lerpScreenPoint(p[0], p[2], t02)
		a01 := lerpScreenAttrs(p[0], a[0], p[1], a[1], t01)
		a02 := lerpScreenAttrs(p[0], a[0], p[2], a[2], t02)

		*next = append(*next, [3]screenPoint{p[0], p01, p02})
		*nextAttrs = append(*nextAttrs, AttrsTriplet[V]{a[0], a01, a02})
	case 2:
		out := 0
		for i := range 3 {
			if !inside[i] {
				out = i
				break
			}
		}
		rot := (out + 1) % 3
		p := rotated3Screen(pos, rot)
		a := rotated3Attrs(attrs, rot)
		v := [3]float64{vals[rot], vals[(rot+1)%3], vals[(rot+2)%3]}

		t02 := v[0] / (v[0] - v[2])
		t12 := v[1] / (v[1] - v[2])
		p02 := lerpScreenPoint(p[0], p[2], t02)
		p12 := lerpScreenPoint(p[1], p[2], t12)
		a02 := lerpScreenAttrs(p[0], a[0], p[2], a[2], t02)
		a12 := lerpScreenAttrs(p[1], a[1], p[2], a[2], t12)

		*next = append(*next, [3]screenPoint{p[0], p[1], p02})
		*nextAttrs = append(*nextAttrs, AttrsTriplet[V]{a[0], a[1], a02})
		*next = append(*next, [3]screenPoint{p[1], p12, p02})
		*nextAttrs = append(*nextAttrs, AttrsTriplet[V]{a[1], a12, a02})
	}
}

// ClipTriangleScreen clips a single projected triangle against a 2D screen
// AABB (used when the user viewport is not fully contained within the
// screen bounds, spec §4.2). Interpolation is perspective-correct per
// spec §4.1.
func ClipTriangleScreen[V Varying[V]](bounds math3d.AABB2D, pos [3]screenPoint, attrs AttrsTriplet[V]) ([][3]screenPoint, []AttrsTriplet[V]) {
	current := [][3]screenPoint{pos}
	currentAttrs := []AttrsTriplet[V]{attrs}
	for _, plane := range screenPlanes(bounds) {
		var next [][3]screenPoint
		var nextAttrs []AttrsTriplet[V]
		for i := range current {
			clipScreenTripletAgainstPlane(current[i], currentAttrs[i], plane, &next, &nextAttrs)
		}
		current, currentAttrs = next, nextAttrs
		if len(current) == 0 {
			break
		}
	}
	return current, currentAttrs
}
