package render

import (
	"testing"

	"github.com/taigrr/trophy/pkg/math3d"
)

func TestTexelCoord(t *testing.T) {
	tex := NewTexture(4, 8)
	got := TexelCoord(tex, math3d.V2(0.5, 0.25))
	if got.X != 2 || got.Y != 2 {
		t.Errorf("got %v, want (2, 2)", got)
	}
}

func TestWrapCoordModes(t *testing.T) {
	tests := []struct {
		name string
		x    int
		size int
		mode WrapMode
		want int
	}{
		{"clamp below zero", -3, 10, WrapClamp, 0},
		{"clamp above max", 13, 10, WrapClamp, 9},
		{"repeat negative wraps from top", -1, 10, WrapRepeat, 9},
		{"repeat positive mods", 13, 10, WrapRepeat, 3},
		{"periodic mirrors sign", -3, 10, WrapPeriodic, 3},
		{"periodic positive mods", 13, 10, WrapPeriodic, 3},
		{"blank treated like clamp for index math", -3, 10, WrapBlank, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := wrapCoord(tc.x, tc.size, tc.mode); got != tc.want {
				t.Errorf("wrapCoord(%d, %d, %v) = %d, want %d", tc.x, tc.size, tc.mode, got, tc.want)
			}
		})
	}
}

func TestSampleTextureNoDerivativesUsesBaseLevel(t *testing.T) {
	red := Color{R: 255, A: 255}
	blue := Color{B: 255, A: 255}
	tex := NewCheckerTexture(8, 8, 2, red, blue)
	sampler := Sampler{WrapU: WrapRepeat, WrapV: WrapRepeat, Filter: FilterPoint, MipFilter: MipPoint}

	// Every invocation in the quad sees the same texel coordinate, so
	// dFdx/dFdy are zero and LOD clamps to the base mip (spec §4.6).
	ctxs := newGroupContexts(GroupFilled, 4, 4)
	for _, c := range ctxs {
		FragmentInit(c, math3d.V2(0, 0))
	}
	got := SampleTexture(ctxs[0], sampler, tex, math3d.V2(0, 0))
	if got != red {
		t.Errorf("got %v, want the top-left checker color %v", got, red)
	}
}

func TestSampleAtLODClampsAboveTopMip(t *testing.T) {
	// A texture's mip pyramid bottoms out at a single 1x1 level; any LOD
	// at or beyond that level must clamp rather than index out of range.
	tex := NewTexture(4, 4)
	tex.SetPixel(0, 0, Color{R: 10, A: 255})
	maxLevel := len(tex.mips) - 1
	if maxLevel < 2 {
		t.Fatalf("expected a multi-level mip pyramid for a 4x4 texture, got %d levels", len(tex.mips))
	}

	sampler := Sampler{WrapU: WrapClamp, WrapV: WrapClamp, Filter: FilterPoint, MipFilter: MipPoint}
	atTop := sampleAtLOD(sampler, tex, math3d.V2(0.5, 0.5), float64(maxLevel))
	beyondTop := sampleAtLOD(sampler, tex, math3d.V2(0.5, 0.5), float64(maxLevel)+50)
	if atTop != beyondTop {
		t.Errorf("LOD beyond the top mip should clamp to the same result: got %v vs %v", atTop, beyondTop)
	}
}

func TestSampleAtLODClampsBelowZero(t *testing.T) {
	tex := NewCheckerTexture(4, 4, 1, Color{R: 255, A: 255}, Color{B: 255, A: 255})
	sampler := Sampler{WrapU: WrapClamp, WrapV: WrapClamp, Filter: FilterPoint, MipFilter: MipPoint}

	atZero := sampleAtLOD(sampler, tex, math3d.V2(0, 0), 0)
	belowZero := sampleAtLOD(sampler, tex, math3d.V2(0, 0), -100)
	if atZero != belowZero {
		t.Errorf("negative LOD should clamp to level 0: got %v vs %v", belowZero, atZero)
	}
}

func TestWrapBlankReturnsBlankOutsideBounds(t *testing.T) {
	tex := NewTexture(2, 2)
	tex.SetPixel(0, 0, Color{R: 1, A: 255})
	got := wrappedLevelPixel(tex, 0, -1, 0, WrapBlank, WrapBlank)
	if got != blankColor {
		t.Errorf("got %v, want blankColor %v", got, blankColor)
	}
}

func TestLodForGroupKinds(t *testing.T) {
	t.Run("point group is always LOD 0", func(t *testing.T) {
		ctx := newGroupContexts(GroupPoint, 1, 1)[0]
		if got := lodFor(ctx); got != 0 {
			t.Errorf("got %v, want 0", got)
		}
	})

	t.Run("filled group with no texel spread stays at LOD 0", func(t *testing.T) {
		ctxs := newGroupContexts(GroupFilled, 4, 4)
		for _, c := range ctxs {
			FragmentInit(c, math3d.V2(5, 5))
		}
		if got := lodFor(ctxs[0]); got != 0 {
			t.Errorf("got %v, want 0 for identical texel coords across the quad", got)
		}
	})
}
