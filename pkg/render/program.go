package render

// Targets is the constraint a shader's output-target type must satisfy so
// the driver can turn it into a committed pixel color once a fragment
// invocation's token sequence ends (spec §4.5's "targets_out").
type Targets interface {
	Color() Color
}

// Program is a shader pair: a pure vertex stage and a resumable fragment
// stage, parameterized over the draw's uniform block, vertex type, varying
// (interpolated attribute) type, and output target type (spec §4.5).
//
// OnVertex must be pure and deterministic. OnFragment returns a lazily
// produced sequence of ProgramTokens; the driver advances every member of
// a fragment's group in lock-step, one token at a time, and whatever
// value the implementation last wrote into targetsOut via its own
// bookkeeping is taken as that invocation's result once its sequence ends.
type Program[U any, Vtx any, Var Varying[Var], Tgt Targets] interface {
	OnVertex(uniform U, vertex Vtx) Fragment[Var]
	OnFragment(ctx *FragmentContext, uniform U, pfrag ProjectedFragment[Var], targetsOut *Tgt) FragmentSeq
}
