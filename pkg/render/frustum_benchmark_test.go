package render

import (
	"math"
	"math/rand"
	"testing"

	"github.com/taigrr/trophy/pkg/math3d"
)

// BenchmarkFrustumExtract benchmarks frustum plane extraction from view-projection matrix.
func BenchmarkFrustumExtract(b *testing.B) {
	fov := math.Pi / 3
	aspect := 16.0 / 9.0
	near := 0.1
	far := 100.0

	proj := math3d.Perspective(fov, aspect, near, far)
	view := math3d.Identity()
	viewProj := proj.Mul(view)

	for b.Loop() {
		_ = ExtractFrustum(viewProj)
	}
}

// BenchmarkAABBIntersection benchmarks AABB vs frustum intersection test.
func BenchmarkAABBIntersection(b *testing.B) {
	fov := math.Pi / 3
	aspect := 16.0 / 9.0
	near := 0.1
	far := 100.0

	proj := math3d.Perspective(fov, aspect, near, far)
	view := math3d.Identity()
	viewProj := proj.Mul(view)
	frustum := ExtractFrustum(viewProj)

	// AABB in front of camera (visible)
	visibleBounds := AABB{
		Min: math3d.V3(-1, -1, -15),
		Max: math3d.V3(1, 1, -5),
	}

	b.Run("visible", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = frustum.IntersectsFrustum(visibleBounds)
		}
	})

	// AABB behind camera (culled quickly)
	culledBounds := AABB{
		Min: math3d.V3(-1, -1, 5),
		Max: math3d.V3(1, 1, 15),
	}

	b.Run("culled", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = frustum.IntersectsFrustum(culledBounds)
		}
	})
}

// BenchmarkTransformAABB benchmarks AABB transformation.
func BenchmarkTransformAABB(b *testing.B) {
	local := AABB{
		Min: math3d.V3(-1, -1, -1),
		Max: math3d.V3(1, 1, 1),
	}
	transform := math3d.Translate(math3d.V3(10, 5, -20)).Mul(math3d.RotateY(0.5)).Mul(math3d.ScaleUniform(2))

	for b.Loop() {
		_ = TransformAABB(local, transform)
	}
}

// BenchmarkCullingScenario simulates culling N whole-mesh bounds against a
// frustum, the driver-level fast-reject described in SPEC_FULL.md §6 (kept
// additive to the per-triangle clipper, not a replacement for it).
func BenchmarkCullingScenario(b *testing.B) {
	viewProj := math3d.Perspective(math.Pi/3, 16.0/9.0, 0.1, 100).
		Mul(math3d.LookAt(math3d.V3(0, 10, 20), math3d.Zero3(), math3d.Up()))
	frustum := ExtractFrustum(viewProj)

	rng := rand.New(rand.NewSource(42))
	objectCount := 100

	type object struct {
		bounds    AABB
		transform math3d.Mat4
	}
	objects := make([]object, objectCount)

	for i := range objectCount {
		x := rng.Float64()*100 - 50
		y := rng.Float64() * 10
		z := rng.Float64()*100 - 50

		objects[i] = object{
			bounds: AABB{
				Min: math3d.V3(-1, -1, -1),
				Max: math3d.V3(1, 1, 1),
			},
			transform: math3d.Translate(math3d.V3(x, y, z)),
		}
	}

	b.Run("with_culling", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			visible := 0
			for _, obj := range objects {
				worldBounds := TransformAABB(obj.bounds, obj.transform)
				if frustum.IntersectsFrustum(worldBounds) {
					visible++
				}
			}
			_ = visible
		}
	})

	b.Run("no_culling", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			visible := 0
			for range objects {
				visible++
			}
			_ = visible
		}
	})
}
