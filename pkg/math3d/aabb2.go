package math3d

// AABB2D is an axis-aligned bounding box in 2D, used for the renderer's
// screen and viewport bounds.
type AABB2D struct {
	Min Vec2
	Max Vec2
}

// NewAABB2D creates an AABB2D from min and max points.
func NewAABB2D(min, max Vec2) AABB2D {
	return AABB2D{Min: min, Max: max}
}

// Size returns the dimensions of the AABB2D.
func (b AABB2D) Size() Vec2 {
	return b.Max.Sub(b.Min)
}

// Contains returns true if the point lies within the box, inclusive.
func (b AABB2D) Contains(p Vec2) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// ContainsAABB returns true if other is entirely within b.
func (b AABB2D) ContainsAABB(other AABB2D) bool {
	return other.Min.X >= b.Min.X && other.Max.X <= b.Max.X &&
		other.Min.Y >= b.Min.Y && other.Max.Y <= b.Max.Y
}

// Transform2D is an affine 2D transform: p' = p*Scale + Offset, applied
// component-wise. It is the map the renderer builds between the screen
// AABB and a user viewport AABB.
type Transform2D struct {
	Scale  Vec2
	Offset Vec2
}

// Identity2D returns the identity transform.
func Identity2D() Transform2D {
	return Transform2D{Scale: Vec2{1, 1}, Offset: Vec2{0, 0}}
}

// MapAABB builds the transform mapping the from box onto the to box.
func MapAABB(from, to AABB2D) Transform2D {
	fromSize := from.Size()
	toSize := to.Size()
	scale := Vec2{
		safeDiv(toSize.X, fromSize.X),
		safeDiv(toSize.Y, fromSize.Y),
	}
	return Transform2D{
		Scale:  scale,
		Offset: to.Min.Sub(Vec2{from.Min.X * scale.X, from.Min.Y * scale.Y}),
	}
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 1
	}
	return a / b
}

// Apply maps a point through the transform.
func (t Transform2D) Apply(p Vec2) Vec2 {
	return Vec2{p.X*t.Scale.X + t.Offset.X, p.Y*t.Scale.Y + t.Offset.Y}
}
