package render

import (
	"math"
	"testing"

	"github.com/taigrr/trophy/pkg/math3d"
)

func lineProjV(x, y, depth, zInv, attr float64) ProjectedFragment[sumVarying] {
	return ProjectedFragment[sumVarying]{Pos: math3d.V2(x, y), Depth: depth, ZInv: zInv, Attrs: vecVarying(attr)}
}

func TestRasterizeLinePixelCount(t *testing.T) {
	// DDA step count is floor(max(|dx|,|dy|)); with both ends included
	// that yields n+1 samples for a non-pair-mode draw.
	tests := []struct {
		name    string
		p0, p1  math3d.Vec2
		wantLen int
	}{
		{"horizontal 10 units", math3d.V2(0, 0), math3d.V2(10, 0), 11},
		{"vertical 10 units", math3d.V2(0, 0), math3d.V2(0, 10), 11},
		{"diagonal 10x10", math3d.V2(0, 0), math3d.V2(10, 10), 11},
		{"steep diagonal uses longer axis", math3d.V2(0, 0), math3d.V2(3, 9), 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p0 := ProjectedFragment[sumVarying]{Pos: tc.p0, Depth: 0.5, ZInv: 1}
			p1 := ProjectedFragment[sumVarying]{Pos: tc.p1, Depth: 0.5, ZInv: 1}
			samples := RasterizeLine(p0, p1, LineEndsBoth, LineRight, false)
			if len(samples) != tc.wantLen {
				t.Errorf("got %d samples, want %d", len(samples), tc.wantLen)
			}
		})
	}
}

func TestRasterizeLineIdenticalEndpoints(t *testing.T) {
	p := ProjectedFragment[sumVarying]{Pos: math3d.V2(5, 5), Depth: 0.5, ZInv: 1}
	samples := RasterizeLine(p, p, LineEndsBoth, LineRight, false)
	if samples != nil {
		t.Errorf("got %d samples, want 0 for a zero-length line", len(samples))
	}
}

func TestRasterizeLineEndsInclusion(t *testing.T) {
	p0 := ProjectedFragment[sumVarying]{Pos: math3d.V2(0, 0), Depth: 0.5, ZInv: 1}
	p1 := ProjectedFragment[sumVarying]{Pos: math3d.V2(4, 0), Depth: 0.5, ZInv: 1}

	tests := []struct {
		name    string
		ends    LineEndsInclusion
		wantLen int
	}{
		{"both ends", LineEndsBoth, 5},
		{"start only", LineEndsStart, 4},
		{"end only", LineEndsEnd, 4},
		{"neither end", LineEndsNone, 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			samples := RasterizeLine(p0, p1, tc.ends, LineRight, false)
			if len(samples) != tc.wantLen {
				t.Errorf("got %d samples, want %d", len(samples), tc.wantLen)
			}
		})
	}
}

func TestRasterizeLineDirectionSwapsEndpoints(t *testing.T) {
	// LineLeft requires walking toward decreasing X; given endpoints in
	// increasing-X order, the walk must swap them so the first emitted
	// sample is the right-hand endpoint.
	p0 := ProjectedFragment[sumVarying]{Pos: math3d.V2(0, 0), Depth: 0, ZInv: 1}
	p1 := ProjectedFragment[sumVarying]{Pos: math3d.V2(4, 0), Depth: 1, ZInv: 1}

	samples := RasterizeLine(p0, p1, LineEndsBoth, LineLeft, false)
	if len(samples) == 0 {
		t.Fatal("expected samples")
	}
	if samples[0].X != 4 {
		t.Errorf("first sample X = %d, want 4 (walk should start from the right endpoint for LineLeft)", samples[0].X)
	}
}

func TestRasterizeLinePairModeSharesGroup(t *testing.T) {
	p0 := lineProjV(0, 0, 0.5, 1, 0)
	p1 := lineProjV(10, 0, 0.5, 1, 0)

	samples := RasterizeLine(p0, p1, LineEndsBoth, LineRight, true)
	if len(samples)%2 != 0 {
		t.Fatalf("pair-mode samples should come in pairs, got %d", len(samples))
	}
	for i := 0; i+1 < len(samples); i += 2 {
		a, b := samples[i], samples[i+1]
		if a.Ctx.ID() != 0 || b.Ctx.ID() != 1 {
			t.Errorf("pair slot IDs = (%d,%d), want (0,1)", a.Ctx.ID(), b.Ctx.ID())
		}
	}
}

func TestRasterizeLineDepthInterpolation(t *testing.T) {
	p0 := lineProjV(0, 0, 0, 1, 0)
	p1 := lineProjV(10, 0, 1, 1, 0)

	samples := RasterizeLine(p0, p1, LineEndsBoth, LineRight, false)
	if len(samples) != 11 {
		t.Fatalf("got %d samples, want 11", len(samples))
	}
	for _, s := range samples {
		want := float64(s.X) / 10
		if math.Abs(s.Depth-want) > 1e-9 {
			t.Errorf("pixel x=%d depth = %v, want %v", s.X, s.Depth, want)
		}
	}
}
