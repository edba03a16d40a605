package render

import "github.com/taigrr/trophy/pkg/math3d"

// FrameBuffer is the render target contract the driver writes into (spec
// §4.7). ScreenToWindow maps a viewport-scaled screen-space point into the
// target's own pixel grid; Plot commits one color at an integer pixel.
type FrameBuffer interface {
	ScreenToWindow(p math3d.Vec2) math3d.Vec2
	Plot(x, y int, c Color)
	Bounds() PixelBounds
}

// DepthTestingFrameBuffer is a FrameBuffer that also maintains a depth
// buffer; the driver calls TestAndSetDepth before Plot and skips the plot
// when it fails.
type DepthTestingFrameBuffer interface {
	FrameBuffer
	TestAndSetDepth(x, y int, depth float64) bool
}

// DepthBuffer implements the depth test described in spec §3/§7: a smaller
// depth is nearer and wins, so MinDepth (0) is near and MaxDepth (1) far.
type DepthBuffer struct {
	width, height int
	values        []float64
}

// NewDepthBuffer creates a depth buffer cleared to DefaultDepth.
func NewDepthBuffer(width, height int) *DepthBuffer {
	d := &DepthBuffer{width: width, height: height, values: make([]float64, width*height)}
	d.Clear()
	return d
}

// Clear resets every cell to DefaultDepth, which is farther than any
// legitimate depth value and therefore always loses a fresh test.
func (d *DepthBuffer) Clear() {
	for i := range d.values {
		d.values[i] = DefaultDepth
	}
}

// Resize reallocates the buffer for new dimensions and clears it.
func (d *DepthBuffer) Resize(width, height int) {
	d.width, d.height = width, height
	d.values = make([]float64, width*height)
	d.Clear()
}

// TestAndSet reports whether depth beats the stored value at (x,y) — i.e.
// depth < stored — and if so stores it.
func (d *DepthBuffer) TestAndSet(x, y int, depth float64) bool {
	if x < 0 || x >= d.width || y < 0 || y >= d.height {
		return false
	}
	idx := y*d.width + x
	if depth < d.values[idx] {
		d.values[idx] = depth
		return true
	}
	return false
}
