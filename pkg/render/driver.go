package render

import (
	"iter"
	"math"

	"github.com/taigrr/trophy/pkg/math3d"
)

// ShapeType selects how a vertex stream is chunked into primitives (spec
// §4.7).
type ShapeType int

const (
	ShapePoints ShapeType = iota
	ShapeLines
	ShapeLineStrip
	ShapeLineLoop
	ShapeTriangles
	ShapeTriangleStrip
	ShapeTriangleFan
)

// VertexBuffer is an unindexed vertex stream plus the primitive assembly
// rule to chunk it with.
type VertexBuffer[Vtx any] struct {
	Vertices []Vtx
	Shape    ShapeType

	// Bounds, if non-nil, is this mesh's world-space AABB. When set and the
	// draw's RendererOptions.Frustum is also set, drawGroups is skipped
	// entirely once the bounds test outside the frustum (spec §6).
	Bounds *AABB
}

// IndexedVertexBuffer is a vertex stream addressed through an index list.
type IndexedVertexBuffer[Vtx any] struct {
	Vertices []Vtx
	Indices  []int
	Shape    ShapeType

	// Bounds, if non-nil, is this mesh's world-space AABB; see VertexBuffer.
	Bounds *AABB
}

// assemblePrimitives chunks n vertex-stream positions into primitives per
// spec §4.7's assembly rules, returning vertex-stream index groups of
// length 1 (points), 2 (lines) or 3 (triangles).
func assemblePrimitives(shape ShapeType, n int) [][]int {
	var groups [][]int
	switch shape {
	case ShapePoints:
		for i := range n {
			groups = append(groups, []int{i})
		}
	case ShapeLines:
		for i := 0; i+1 < n; i += 2 {
			groups = append(groups, []int{i, i + 1})
		}
	case ShapeLineStrip:
		groups = append(groups, lineStripEdges(n)...)
	case ShapeLineLoop:
		groups = append(groups, lineStripEdges(n)...)
		if n >= 1 {
			groups = append(groups, []int{n - 1, 0})
		}
	case ShapeTriangles:
		for i := 0; i+2 < n; i += 3 {
			groups = append(groups, []int{i, i + 1, i + 2})
		}
	case ShapeTriangleStrip:
		groups = append(groups, triangleAdjacentWindows(n)...)
	case ShapeTriangleFan:
		groups = append(groups, triangleAdjacentWindows(n)...)
		if n >= 3 {
			groups = append(groups, []int{n - 2, n - 1, 0})
		}
	}
	return groups
}

func lineStripEdges(n int) [][]int {
	var edges [][]int
	for i := 0; i+1 < n; i++ {
		edges = append(edges, []int{i, i + 1})
	}
	return edges
}

func triangleAdjacentWindows(n int) [][]int {
	var tris [][]int
	for i := 0; i+2 < n; i++ {
		tris = append(tris, []int{i, i + 1, i + 2})
	}
	return tris
}

// CullingStats tallies the whole-mesh frustum pre-cull's outcomes across a
// frame, for debugging/benchmarking (spec §6).
type CullingStats struct {
	MeshesTested int
	MeshesCulled int
	MeshesDrawn  int
}

// Renderer orchestrates the clip/project/rasterize/shade pipeline for a
// sequence of draws sharing one viewport (spec §4.7).
type Renderer struct {
	Viewport     math3d.AABB2D
	CullingStats CullingStats
}

// NewRenderer creates a Renderer targeting the given screen-space viewport
// (a sub-rectangle of, or equal to, ScreenBounds()).
func NewRenderer(viewport math3d.AABB2D) *Renderer {
	return &Renderer{Viewport: viewport}
}

// ResetCullingStats zeroes the frustum pre-cull counters; call once per
// frame before issuing that frame's draws.
func (r *Renderer) ResetCullingStats() {
	r.CullingStats = CullingStats{}
}

// cullMesh reports whether bounds should skip rasterization entirely under
// opts.Frustum. Returns false (never culls) when either is nil, so the
// check is an opt-in fast-reject rather than a requirement.
func (r *Renderer) cullMesh(bounds *AABB, opts RendererOptions) bool {
	if opts.Frustum == nil || bounds == nil {
		return false
	}
	r.CullingStats.MeshesTested++
	if !opts.Frustum.IntersectAABB(*bounds) {
		r.CullingStats.MeshesCulled++
		return true
	}
	r.CullingStats.MeshesDrawn++
	return false
}

func (r *Renderer) requiresScreenClipping() bool {
	sb := ScreenBounds()
	return !sb.ContainsAABB(r.Viewport)
}

func (r *Renderer) toViewport(p math3d.Vec2) math3d.Vec2 {
	t := math3d.MapAABB(ScreenBounds(), r.Viewport)
	return t.Apply(p)
}

// Draw runs program over an unindexed vertex buffer, shading and
// committing to fb (spec §4.7).
func Draw[U any, Vtx any, Var Varying[Var], Tgt Targets](
	r *Renderer, program Program[U, Vtx, Var, Tgt], uniform U,
	vb VertexBuffer[Vtx], fb FrameBuffer, opts RendererOptions, clipBuf *ClipBuffers[Var],
) error {
	if r.cullMesh(vb.Bounds, opts) {
		return nil
	}
	groups := assemblePrimitives(vb.Shape, len(vb.Vertices))
	return drawGroups(r, program, uniform, vb.Vertices, groups, fb, opts, clipBuf)
}

// DrawIndexed runs program over an indexed vertex buffer.
func DrawIndexed[U any, Vtx any, Var Varying[Var], Tgt Targets](
	r *Renderer, program Program[U, Vtx, Var, Tgt], uniform U,
	ivb IndexedVertexBuffer[Vtx], fb FrameBuffer, opts RendererOptions, clipBuf *ClipBuffers[Var],
) error {
	if r.cullMesh(ivb.Bounds, opts) {
		return nil
	}
	groups := assemblePrimitives(ivb.Shape, len(ivb.Indices))
	mapped := make([][]int, len(groups))
	for i, g := range groups {
		m := make([]int, len(g))
		for j, idx := range g {
			m[j] = ivb.Indices[idx]
		}
		mapped[i] = m
	}
	return drawGroups(r, program, uniform, ivb.Vertices, mapped, fb, opts, clipBuf)
}

func drawGroups[U any, Vtx any, Var Varying[Var], Tgt Targets](
	r *Renderer, program Program[U, Vtx, Var, Tgt], uniform U,
	vertices []Vtx, groups [][]int, fb FrameBuffer, opts RendererOptions, clipBuf *ClipBuffers[Var],
) error {
	for _, g := range groups {
		var err error
		switch len(g) {
		case 1:
			err = drawPoint(r, program, uniform, vertices[g[0]], fb)
		case 2:
			err = drawLinePrimitive(r, program, uniform, vertices[g[0]], vertices[g[1]], fb, opts)
		case 3:
			err = drawTrianglePrimitive(r, program, uniform, vertices[g[0]], vertices[g[1]], vertices[g[2]], fb, opts, clipBuf)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func windowFloor(p math3d.Vec2) (int, int) {
	return int(math.Floor(p.X + 0.5)), int(math.Floor(p.Y + 0.5))
}

func commit(fb FrameBuffer, x, y int, depth float64, c Color) {
	bounds := fb.Bounds()
	if x < bounds.MinX || x > bounds.MaxX || y < bounds.MinY || y > bounds.MaxY {
		return
	}
	if dfb, ok := fb.(DepthTestingFrameBuffer); ok {
		if !dfb.TestAndSetDepth(x, y, depth) {
			return
		}
	}
	fb.Plot(x, y, c)
}

func drawPoint[U any, Vtx any, Var Varying[Var], Tgt Targets](
	r *Renderer, program Program[U, Vtx, Var, Tgt], uniform U, vertex Vtx, fb FrameBuffer,
) error {
	frag := program.OnVertex(uniform, vertex)
	if !PointInFrustum(frag.Pos) {
		return nil
	}
	proj := Project(frag)
	viewportPos := r.toViewport(proj.Pos)
	if r.requiresScreenClipping() && !PointInScreen(viewportPos, ScreenBounds()) {
		return nil
	}
	windowPos := fb.ScreenToWindow(viewportPos)
	x, y := windowFloor(windowPos)

	ctx := newGroupContexts(GroupPoint, 1, 1)[0]
	var targets Tgt
	seq := program.OnFragment(ctx, uniform, proj, &targets)
	discarded, err := runSingleFragment(seq)
	if err != nil {
		return err
	}
	if !discarded {
		commit(fb, x, y, proj.Depth, targets.Color())
	}
	return nil
}

func drawLinePrimitive[U any, Vtx any, Var Varying[Var], Tgt Targets](
	r *Renderer, program Program[U, Vtx, Var, Tgt], uniform U, v0, v1 Vtx, fb FrameBuffer, opts RendererOptions,
) error {
	f0 := program.OnVertex(uniform, v0)
	f1 := program.OnVertex(uniform, v1)

	t0, t1, ok := ClipLine(f0.Pos, f1.Pos)
	if !ok {
		return nil
	}
	clippedPos0 := f0.Pos.Lerp(f1.Pos, t0)
	clippedPos1 := f0.Pos.Lerp(f1.Pos, t1)
	clippedAttrs0 := lerpVarying(f0.Attrs, f1.Attrs, t0)
	clippedAttrs1 := lerpVarying(f0.Attrs, f1.Attrs, t1)

	p0 := Project(Fragment[Var]{Pos: clippedPos0, Attrs: clippedAttrs0})
	p1 := Project(Fragment[Var]{Pos: clippedPos1, Attrs: clippedAttrs1})
	p0.Pos = r.toViewport(p0.Pos)
	p1.Pos = r.toViewport(p1.Pos)

	if r.requiresScreenClipping() {
		sb := ScreenBounds()
		st0, st1, ok := ClipLineScreen(p0.Pos, p1.Pos, sb)
		if !ok {
			return nil
		}
		p0, p1 = lerpProjectedFragment(p0, p1, st0), lerpProjectedFragment(p0, p1, st1)
	}

	p0.Pos = fb.ScreenToWindow(p0.Pos)
	p1.Pos = fb.ScreenToWindow(p1.Pos)

	samples := RasterizeLine(p0, p1, opts.LineEndsInclusion, opts.LineDirection, true)
	return commitLineSamples(program, uniform, samples, fb)
}

func lerpProjectedFragment[V Varying[V]](a, b ProjectedFragment[V], t float64) ProjectedFragment[V] {
	zInv := a.ZInv + (b.ZInv-a.ZInv)*t
	return ProjectedFragment[V]{
		Pos:   a.Pos.Lerp(b.Pos, t),
		Depth: a.Depth + (b.Depth-a.Depth)*t,
		ZInv:  zInv,
		Attrs: lerpProjectedVarying(a.Attrs, b.Attrs, t, a.ZInv, b.ZInv, zInv),
	}
}

func commitLineSamples[U any, Vtx any, Var Varying[Var], Tgt Targets](
	program Program[U, Vtx, Var, Tgt], uniform U, samples []LineSample[Var], fb FrameBuffer,
) error {
	for i := 0; i+1 < len(samples); i += 2 {
		pair := samples[i : i+2]
		targets := make([]Tgt, len(pair))
		seqs := make([]FragmentSeq, len(pair))
		for j, s := range pair {
			pfrag := ProjectedFragment[Var]{Pos: math3d.V2(float64(s.X), float64(s.Y)), Depth: s.Depth, ZInv: s.ZInv, Attrs: s.Attrs}
			seqs[j] = program.OnFragment(s.Ctx, uniform, pfrag, &targets[j])
		}
		discarded, err := runFragmentGroup(seqs)
		if err != nil {
			return err
		}
		for j, s := range pair {
			if s.Ctx.IsHelperInvocation() || discarded[j] {
				continue
			}
			commit(fb, s.X, s.Y, s.Depth, targets[j].Color())
		}
	}
	return nil
}

func drawTrianglePrimitive[U any, Vtx any, Var Varying[Var], Tgt Targets](
	r *Renderer, program Program[U, Vtx, Var, Tgt], uniform U, v0, v1, v2 Vtx, fb FrameBuffer, opts RendererOptions, clipBuf *ClipBuffers[Var],
) error {
	f0 := program.OnVertex(uniform, v0)
	f1 := program.OnVertex(uniform, v1)
	f2 := program.OnVertex(uniform, v2)

	pos := Vec4Triplet{f0.Pos, f1.Pos, f2.Pos}
	attrs := AttrsTriplet[Var]{f0.Attrs, f1.Attrs, f2.Attrs}

	survivingPos, survivingAttrs := ClipTriangleFrustum(clipBuf, pos, attrs)
	for i := range survivingPos {
		if err := rasterizeClippedTriangle(r, program, uniform, survivingPos[i], survivingAttrs[i], fb, opts); err != nil {
			return err
		}
	}
	return nil
}

func rasterizeClippedTriangle[U any, Vtx any, Var Varying[Var], Tgt Targets](
	r *Renderer, program Program[U, Vtx, Var, Tgt], uniform U, pos Vec4Triplet, attrs AttrsTriplet[Var], fb FrameBuffer, opts RendererOptions,
) error {
	p := [3]ProjectedFragment[Var]{
		Project(Fragment[Var]{Pos: pos[0], Attrs: attrs[0]}),
		Project(Fragment[Var]{Pos: pos[1], Attrs: attrs[1]}),
		Project(Fragment[Var]{Pos: pos[2], Attrs: attrs[2]}),
	}
	for i := range p {
		p[i].Pos = r.toViewport(p[i].Pos)
	}

	if r.requiresScreenClipping() {
		sb := ScreenBounds()
		sp := [3]screenPoint{
			{Pos: p[0].Pos, Depth: p[0].Depth, ZInv: p[0].ZInv},
			{Pos: p[1].Pos, Depth: p[1].Depth, ZInv: p[1].ZInv},
			{Pos: p[2].Pos, Depth: p[2].Depth, ZInv: p[2].ZInv},
		}
		clippedSP, clippedAttrs := ClipTriangleScreen(sb, sp, AttrsTriplet[Var]{p[0].Attrs, p[1].Attrs, p[2].Attrs})
		for i := range clippedSP {
			q := [3]ProjectedFragment[Var]{
				{Pos: clippedSP[i][0].Pos, Depth: clippedSP[i][0].Depth, ZInv: clippedSP[i][0].ZInv, Attrs: clippedAttrs[i][0]},
				{Pos: clippedSP[i][1].Pos, Depth: clippedSP[i][1].Depth, ZInv: clippedSP[i][1].ZInv, Attrs: clippedAttrs[i][1]},
				{Pos: clippedSP[i][2].Pos, Depth: clippedSP[i][2].Depth, ZInv: clippedSP[i][2].ZInv, Attrs: clippedAttrs[i][2]},
			}
			if err := rasterizeWindowTriangle(program, uniform, q, fb, opts); err != nil {
				return err
			}
		}
		return nil
	}

	return rasterizeWindowTriangle(program, uniform, p, fb, opts)
}

func rasterizeWindowTriangle[U any, Vtx any, Var Varying[Var], Tgt Targets](
	program Program[U, Vtx, Var, Tgt], uniform U, p [3]ProjectedFragment[Var], fb FrameBuffer, opts RendererOptions,
) error {
	for i := range p {
		p[i].Pos = fb.ScreenToWindow(p[i].Pos)
	}

	// Winding/backface decisions are made here, in window space, per spec
	// §4.7: ScreenToWindow's Y-flip negates the signed area computed in
	// screen space, so deciding front-facing any earlier gets it backwards.
	// A triangle that is CCW in screen space therefore has a negative
	// window-space area2; RasterizeTriangle needs a positive one, so kept
	// screen-CCW triangles are swapped before rasterizing.
	area2 := (p[1].Pos.X-p[0].Pos.X)*(p[2].Pos.Y-p[0].Pos.Y) - (p[1].Pos.Y-p[0].Pos.Y)*(p[2].Pos.X-p[0].Pos.X)
	screenCCW := area2 < 0
	switch opts.WindingOrder {
	case WindingCW:
		if screenCCW {
			return nil
		}
	case WindingCCW:
		if !screenCCW {
			return nil
		}
		p[1], p[2] = p[2], p[1]
	case WindingNeither:
		if screenCCW {
			p[1], p[2] = p[2], p[1]
		}
	}

	bounds := fb.Bounds()
	samples := RasterizeTriangle(p[0], p[1], p[2], opts.TriangleFillBias, bounds, true)
	return commitTriangleSamples(program, uniform, samples, fb)
}

func commitTriangleSamples[U any, Vtx any, Var Varying[Var], Tgt Targets](
	program Program[U, Vtx, Var, Tgt], uniform U, samples []TriangleSample[Var], fb FrameBuffer,
) error {
	for i := 0; i+3 < len(samples); i += 4 {
		quad := samples[i : i+4]
		targets := make([]Tgt, len(quad))
		seqs := make([]FragmentSeq, len(quad))
		for j, s := range quad {
			pfrag := ProjectedFragment[Var]{Pos: math3d.V2(float64(s.X), float64(s.Y)), Depth: s.Depth, ZInv: s.ZInv, Attrs: s.Attrs}
			seqs[j] = program.OnFragment(s.Ctx, uniform, pfrag, &targets[j])
		}
		discarded, err := runFragmentGroup(seqs)
		if err != nil {
			return err
		}
		for j, s := range quad {
			if s.Ctx.IsHelperInvocation() || discarded[j] {
				continue
			}
			commit(fb, s.X, s.Y, s.Depth, targets[j].Color())
		}
	}
	return nil
}

// runSingleFragment drives a lone fragment-shader sequence to completion,
// reporting whether it was discarded.
func runSingleFragment(seq FragmentSeq) (bool, error) {
	discarded := false
	for tok := range seq {
		switch tok {
		case TokenDiscard:
			discarded = true
		case TokenSynchronize:
			// a single-member group trivially satisfies lock-step sync.
		}
	}
	return discarded, nil
}

// runFragmentGroup advances every member's token sequence in lock-step
// (spec §4.5), returning each member's discard status.
func runFragmentGroup(seqs []FragmentSeq) ([]bool, error) {
	members := make([]groupMember, len(seqs))
	for i, seq := range seqs {
		next, stop := iter.Pull(seq)
		members[i] = groupMember{next: next, stop: stop}
	}
	defer closeGroup(members)

	discarded := make([]bool, len(seqs))
	for {
		tokens, err := advanceGroup(members)
		if err != nil {
			return nil, err
		}
		allDone := true
		for i, tok := range tokens {
			if tok == TokenDiscard {
				discarded[i] = true
			}
			if !members[i].done {
				allDone = false
			}
		}
		if allDone {
			break
		}
	}
	return discarded, nil
}
