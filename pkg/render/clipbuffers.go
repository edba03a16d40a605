package render

import "github.com/taigrr/trophy/pkg/math3d"

// Vec4Triplet is the three clip-space corners of a triangle being clipped.
type Vec4Triplet = [3]math3d.Vec4

// AttrsTriplet is the three attribute bundles paired with a Vec4Triplet.
type AttrsTriplet[V Varying[V]] = [3]V

// ClipBuffers holds the reusable intermediate queues the triangle clipper
// subdivides into across the six frustum (or four screen) planes. It is
// owned by the caller and passed in for reuse across draws; never share one
// across concurrent draws (spec §5).
//
// Two plain slices stand in for the "two FIFO deques" of spec §3: one holds
// the triplets surviving the plane processed so far, the other accumulates
// the triplets produced by the plane currently being applied. They ping-pong
// plane to plane the same way the teacher's rasterizer reuses a single
// scratch zbuffer slice across frames instead of reallocating.
type ClipBuffers[V Varying[V]] struct {
	posA, posB     []Vec4Triplet
	attrsA, attrsB []AttrsTriplet[V]
}

// NewClipBuffers creates an empty, reusable clip-buffer pair.
func NewClipBuffers[V Varying[V]]() *ClipBuffers[V] {
	return &ClipBuffers[V]{}
}

// reset clears both queues' lengths without releasing their backing arrays.
func (b *ClipBuffers[V]) reset() {
	b.posA = b.posA[:0]
	b.posB = b.posB[:0]
	b.attrsA = b.attrsA[:0]
	b.attrsB = b.attrsB[:0]
}

// seed loads a single starting triplet into queue A.
func (b *ClipBuffers[V]) seed(pos Vec4Triplet, attrs AttrsTriplet[V]) {
	b.reset()
	b.posA = append(b.posA, pos)
	b.attrsA = append(b.attrsA, attrs)
}

// swap exchanges the "current" and "next" roles of the two queues, clearing
// what is about to become the new "next" queue.
func (b *ClipBuffers[V]) swap() {
	b.posA, b.posB = b.posB, b.posA
	b.attrsA, b.attrsB = b.attrsB, b.attrsA
	b.posB = b.posB[:0]
	b.attrsB = b.attrsB[:0]
}
