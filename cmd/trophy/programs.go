package main

import (
	"math"

	"github.com/taigrr/trophy/pkg/math3d"
	"github.com/taigrr/trophy/pkg/models"
	"github.com/taigrr/trophy/pkg/render"
)

// Uniform is the per-draw constant block every example Program reads: the
// combined view-projection matrix, the model's world transform for this
// frame, a directional light, and (for textured draws) a texture+sampler.
type Uniform struct {
	ViewProj  math3d.Mat4
	Model     math3d.Mat4
	LightDir  math3d.Vec3
	BaseColor render.Color
	Texture   *render.Texture
	Sampler   render.Sampler
}

// ShadedVarying carries the attributes interpolated across a triangle: the
// world-space normal (for lighting) and the texture coordinate.
type ShadedVarying struct {
	Normal math3d.Vec3
	UV     math3d.Vec2
}

func (v ShadedVarying) Add(o ShadedVarying) ShadedVarying {
	return ShadedVarying{Normal: v.Normal.Add(o.Normal), UV: v.UV.Add(o.UV)}
}

func (v ShadedVarying) Scale(s float64) ShadedVarying {
	return ShadedVarying{Normal: v.Normal.Scale(s), UV: v.UV.Scale(s)}
}

// ColorTarget is the single render target every example Program writes: one
// RGBA color per fragment.
type ColorTarget struct {
	C render.Color
}

func (t ColorTarget) Color() render.Color { return t.C }

func vertexToClip(u Uniform, v models.MeshVertex) render.Fragment[ShadedVarying] {
	worldPos := u.Model.MulVec3(v.Position)
	worldNormal := u.Model.MulVec3Dir(v.Normal)
	clip := u.ViewProj.MulVec4(math3d.V4FromV3(worldPos, 1))
	return render.Fragment[ShadedVarying]{Pos: clip, Attrs: ShadedVarying{Normal: worldNormal, UV: v.UV}}
}

func lightIntensity(normal math3d.Vec3, lightDir math3d.Vec3) float64 {
	n := normal.Normalize()
	diffuse := math.Max(0, n.Dot(lightDir))
	return 0.2 + 0.8*diffuse
}

// GouraudProgram shades a mesh with per-pixel Lambertian lighting and a
// single flat base color; no texture sampling, so its fragment stage never
// needs the helper-invocation derivatives.
type GouraudProgram struct{}

func (GouraudProgram) OnVertex(u Uniform, v models.MeshVertex) render.Fragment[ShadedVarying] {
	return vertexToClip(u, v)
}

func (GouraudProgram) OnFragment(ctx *render.FragmentContext, u Uniform, pf render.ProjectedFragment[ShadedVarying], out *ColorTarget) render.FragmentSeq {
	return func(yield func(render.ProgramToken) bool) {
		out.C = render.MultiplyColor(u.BaseColor, lightIntensity(pf.Attrs.Normal, u.LightDir))
		yield(render.TokenKeep)
	}
}

// TexturedProgram shades a mesh with a sampled, mip-mapped, Lambertian-lit
// texture. Its fragment stage exercises the full helper-invocation contract:
// it seeds the group's quad values with the texel coordinate, synchronizes
// so every invocation in the 2x2 quad (including helpers) reaches the same
// point, and only then samples — SampleTexture reads dFdx/dFdy off the
// group to pick a mip level.
type TexturedProgram struct{}

func (TexturedProgram) OnVertex(u Uniform, v models.MeshVertex) render.Fragment[ShadedVarying] {
	return vertexToClip(u, v)
}

func (TexturedProgram) OnFragment(ctx *render.FragmentContext, u Uniform, pf render.ProjectedFragment[ShadedVarying], out *ColorTarget) render.FragmentSeq {
	return func(yield func(render.ProgramToken) bool) {
		render.FragmentInit(ctx, render.TexelCoord(u.Texture, pf.Attrs.UV))
		if !yield(render.TokenSynchronize) {
			return
		}
		texColor := render.SampleTexture(ctx, u.Sampler, u.Texture, pf.Attrs.UV)
		out.C = render.MultiplyColor(texColor, lightIntensity(pf.Attrs.Normal, u.LightDir))
		yield(render.TokenKeep)
	}
}

// WireframeProgram draws mesh edges as solid-colored lines; it carries no
// interpolated attributes at all.
type WireframeProgram struct {
	LineColor render.Color
}

func (p WireframeProgram) OnVertex(u Uniform, v models.MeshVertex) render.Fragment[render.Empty] {
	worldPos := u.Model.MulVec3(v.Position)
	clip := u.ViewProj.MulVec4(math3d.V4FromV3(worldPos, 1))
	return render.Fragment[render.Empty]{Pos: clip}
}

func (p WireframeProgram) OnFragment(ctx *render.FragmentContext, u Uniform, pf render.ProjectedFragment[render.Empty], out *ColorTarget) render.FragmentSeq {
	return func(yield func(render.ProgramToken) bool) {
		out.C = p.LineColor
		yield(render.TokenKeep)
	}
}
