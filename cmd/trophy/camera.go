package main

import (
	"math"

	"github.com/taigrr/trophy/pkg/math3d"
)

// Camera is application-level state: the new core pipeline (pkg/render) has
// no notion of a camera, only clip-space vertices, so orbiting/zooming the
// view is this demo's job, not the library's.
type Camera struct {
	Position math3d.Vec3

	Pitch, Yaw, Roll float64

	FOV         float64
	AspectRatio float64
	Near, Far   float64

	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	viewDirty      bool
	projDirty      bool
}

// NewCamera creates a camera with default framing.
func NewCamera() *Camera {
	return &Camera{
		Position:    math3d.V3(0, 10, 0),
		FOV:         math.Pi / 3,
		AspectRatio: 16.0 / 9.0,
		Near:        0.1,
		Far:         1000,
		viewDirty:   true,
		projDirty:   true,
	}
}

func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.viewDirty = true
}

func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.projDirty = true
}

func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.projDirty = true
}

func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
	c.projDirty = true
}

// LookAt orients the camera toward target, recomputing pitch/yaw from the
// resulting direction.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.Position).Normalize()
	c.Pitch = math.Asin(dir.Y)
	c.Yaw = math.Atan2(-dir.X, -dir.Z)
	c.Roll = 0
	c.viewDirty = true
}

func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	if c.viewDirty {
		rot := math3d.RotateZ(-c.Roll).Mul(math3d.RotateX(-c.Pitch)).Mul(math3d.RotateY(-c.Yaw))
		c.viewMatrix = rot.Mul(math3d.Translate(c.Position.Negate()))
		c.viewDirty = false
	}
	if c.projDirty {
		c.projMatrix = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
		c.projDirty = false
	}
	c.viewProjMatrix = c.projMatrix.Mul(c.viewMatrix)
	return c.viewProjMatrix
}
