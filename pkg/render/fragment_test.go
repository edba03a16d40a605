package render

import (
	"math"
	"testing"

	"github.com/taigrr/trophy/pkg/math3d"
)

func TestProjectPerspectiveDivide(t *testing.T) {
	f := Fragment[sumVarying]{Pos: math3d.V4(4, 8, 2, 2), Attrs: sumVarying{5}}
	p := Project(f)

	if math.Abs(p.Pos.X-2) > 1e-9 || math.Abs(p.Pos.Y-4) > 1e-9 {
		t.Errorf("Pos = %v, want (2, 4)", p.Pos)
	}
	if math.Abs(p.Depth-1) > 1e-9 {
		t.Errorf("Depth = %v, want 1", p.Depth)
	}
	if math.Abs(p.ZInv-0.5) > 1e-9 {
		t.Errorf("ZInv = %v, want 0.5", p.ZInv)
	}
	if p.Attrs != f.Attrs {
		t.Errorf("Attrs = %v, want %v (projection must not touch attributes)", p.Attrs, f.Attrs)
	}
}

func TestProjectRoundTrip(t *testing.T) {
	// Projecting and then reconstructing clip-space XY from (Pos*w, Depth*w, w)
	// should recover the original point, for any non-degenerate w.
	original := math3d.V4(1.5, -2.5, 0.75, 3)
	p := Project(Fragment[sumVarying]{Pos: original})

	w := 1 / p.ZInv
	reconstructed := math3d.V4(p.Pos.X*w, p.Pos.Y*w, p.Depth*w, w)
	if math.Abs(reconstructed.X-original.X) > 1e-9 ||
		math.Abs(reconstructed.Y-original.Y) > 1e-9 ||
		math.Abs(reconstructed.Z-original.Z) > 1e-9 ||
		math.Abs(reconstructed.W-original.W) > 1e-9 {
		t.Errorf("round-trip = %v, want %v", reconstructed, original)
	}
}

func TestLerpProjectedVaryingPerspectiveCorrect(t *testing.T) {
	// Two endpoints with different 1/w: the midpoint in screen space is
	// not the arithmetic average of the attributes unless ZInv is equal
	// at both ends.
	a := sumVarying{0}
	b := sumVarying{10}

	got := lerpProjectedVarying(a, b, 0.5, 1, 2, 1.5)
	// wa=(1-t)*zInv0=0.5, wb=t*zInv1=1 -> (0*0.5 + 10*1)/1.5 = 6.666...
	want := 10.0 / 1.5
	if math.Abs(got.V-want) > 1e-9 {
		t.Errorf("got %v, want %v", got.V, want)
	}
}

func TestLerpProjectedVaryingFallsBackWhenZInvZero(t *testing.T) {
	a := sumVarying{0}
	b := sumVarying{10}
	got := lerpProjectedVarying(a, b, 0.5, 0, 0, 0)
	if math.Abs(got.V-5) > 1e-9 {
		t.Errorf("got %v, want 5 (affine lerp fallback when ZInv is zero)", got.V)
	}
}
