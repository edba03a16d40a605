package render

import (
	"math"

	"github.com/taigrr/trophy/pkg/math3d"
)

// Sampler bundles the wrap, filter and mipmap-filter configuration used by
// SampleTexture (spec §4.6).
type Sampler struct {
	WrapU, WrapV WrapMode
	Filter       FilterMode
	MipFilter    MipmapFilterMode
}

// DefaultSampler returns a repeat-wrapped, bilinearly-filtered sampler with
// linear mip blending.
func DefaultSampler() Sampler {
	return Sampler{WrapU: WrapRepeat, WrapV: WrapRepeat, Filter: FilterLinear, MipFilter: MipLinear}
}

// TexelCoord returns tex_size*uv, the pixel-space coordinate a fragment
// shader must FragmentInit (and then yield TokenSynchronize for) before
// calling SampleTexture, so the group's derivatives are available (spec
// §4.6: "the sampler first calls ctx.init(tex_size * uv) ... the intended
// call pattern is: yield the init-token, then sample").
func TexelCoord(tex *Texture, uv math3d.Vec2) math3d.Vec2 {
	return math3d.V2(uv.X*float64(tex.Width()), uv.Y*float64(tex.Height()))
}

// SampleTexture samples tex at uv using sampler, selecting LOD from the
// screen-space derivatives recorded in ctx's group (spec §4.6). The
// caller's fragment shader must already have called FragmentInit with
// TexelCoord(tex, uv) and resumed past a TokenSynchronize before calling
// this. Point groups always read zero derivatives (LOD 0); in line and
// filled groups a slot that was never initialized makes the derivative
// read panic in FragmentAt.
func SampleTexture(ctx *FragmentContext, sampler Sampler, tex *Texture, uv math3d.Vec2) Color {
	lod := lodFor(ctx)
	return sampleAtLOD(sampler, tex, uv, lod)
}

func lodFor(ctx *FragmentContext) float64 {
	switch ctx.Kind() {
	case GroupLine:
		d := DFdv[math3d.Vec2](ctx)
		return 0.5 * math.Log2(math.Max(1, d.Dot(d)))
	case GroupFilled:
		dx := DFdx[math3d.Vec2](ctx)
		dy := DFdy[math3d.Vec2](ctx)
		return 0.5 * math.Log2(math.Max(1, math.Max(dx.Dot(dx), dy.Dot(dy))))
	default: // GroupPoint
		return 0
	}
}

func sampleAtLOD(sampler Sampler, tex *Texture, uv math3d.Vec2, lod float64) Color {
	maxLevel := float64(len(tex.mips) - 1)
	clampedLOD := math.Max(0, math.Min(maxLevel, lod))

	switch sampler.MipFilter {
	case MipNearest:
		level := int(math.Round(clampedLOD))
		return sampleLevel(sampler, tex, level, uv)
	case MipLinear:
		lo := int(math.Floor(clampedLOD))
		hi := int(math.Ceil(clampedLOD))
		if lo == hi {
			return sampleLevel(sampler, tex, lo, uv)
		}
		t := clampedLOD - float64(lo)
		return lerpColor(sampleLevel(sampler, tex, lo, uv), sampleLevel(sampler, tex, hi, uv), t)
	default: // MipPoint
		level := int(math.Floor(clampedLOD))
		return sampleLevel(sampler, tex, level, uv)
	}
}

func sampleLevel(sampler Sampler, tex *Texture, level int, uv math3d.Vec2) Color {
	m := tex.mips[level]
	uvPxX := float64(m.width)*uv.X - 0.5
	uvPxY := float64(m.height)*uv.Y - 0.5

	switch sampler.Filter {
	case FilterPoint:
		x := int(math.Floor(uvPxX))
		y := int(math.Floor(uvPxY))
		return wrappedLevelPixel(tex, level, x, y, sampler.WrapU, sampler.WrapV)
	case FilterLinear:
		x0 := int(math.Floor(uvPxX))
		y0 := int(math.Floor(uvPxY))
		tx := uvPxX - float64(x0)
		ty := uvPxY - float64(y0)
		c00 := wrappedLevelPixel(tex, level, x0, y0, sampler.WrapU, sampler.WrapV)
		c10 := wrappedLevelPixel(tex, level, x0+1, y0, sampler.WrapU, sampler.WrapV)
		c01 := wrappedLevelPixel(tex, level, x0, y0+1, sampler.WrapU, sampler.WrapV)
		c11 := wrappedLevelPixel(tex, level, x0+1, y0+1, sampler.WrapU, sampler.WrapV)
		top := lerpColor(c00, c10, tx)
		bot := lerpColor(c01, c11, tx)
		return lerpColor(top, bot, ty)
	default: // FilterNearest
		x := int(math.Round(uvPxX - 0.5))
		y := int(math.Round(uvPxY - 0.5))
		return wrappedLevelPixel(tex, level, x, y, sampler.WrapU, sampler.WrapV)
	}
}

func wrappedLevelPixel(tex *Texture, level, x, y int, wrapU, wrapV WrapMode) Color {
	m := tex.mips[level]
	if wrapU == WrapBlank && (x < 0 || x >= m.width) {
		return blankColor
	}
	if wrapV == WrapBlank && (y < 0 || y >= m.height) {
		return blankColor
	}
	return tex.getMipPixel(level, wrapCoord(x, m.width, wrapU), wrapCoord(y, m.height, wrapV))
}

// wrapCoord resolves an integer pixel coordinate that may fall outside
// [0,size) to a valid index per mode (spec §4.6).
func wrapCoord(x, size int, mode WrapMode) int {
	switch mode {
	case WrapClamp, WrapBlank:
		if x < 0 {
			return 0
		}
		if x >= size {
			return size - 1
		}
		return x
	case WrapPeriodic:
		if x == math.MinInt {
			x = 0
		}
		if x < 0 {
			x = -x
		}
		return x % size
	default: // WrapRepeat
		if x >= 0 {
			return x % size
		}
		m := x % size
		if m < 0 {
			m += size
		}
		return m
	}
}
