package render

import (
	"iter"
	"testing"
)

type diffFloat float64

func (a diffFloat) Sub(b diffFloat) diffFloat { return a - b }

func TestFragmentInitAndAt(t *testing.T) {
	ctxs := newGroupContexts(GroupFilled, 4, 4)
	for i, c := range ctxs {
		FragmentInit(c, diffFloat(i*10))
	}
	for i, c := range ctxs {
		for j := range ctxs {
			got := FragmentAt[diffFloat](c, j)
			if got != diffFloat(j*10) {
				t.Errorf("invocation %d reading slot %d: got %v, want %v", i, j, got, j*10)
			}
		}
	}
}

func TestDFdxDFdyQuad(t *testing.T) {
	// Slots: 0,1 top row; 2,3 bottom row (spec §4.5 quad layout).
	ctxs := newGroupContexts(GroupFilled, 4, 4)
	values := []diffFloat{0, 10, 100, 115}
	for i, c := range ctxs {
		FragmentInit(c, values[i])
	}

	tests := []struct {
		slot   int
		dx, dy diffFloat
	}{
		{0, 10, 100},
		{1, 10, 105},
		{2, 15, 100},
		{3, 15, 105},
	}
	for _, tc := range tests {
		if got := DFdx[diffFloat](ctxs[tc.slot]); got != tc.dx {
			t.Errorf("slot %d DFdx = %v, want %v", tc.slot, got, tc.dx)
		}
		if got := DFdy[diffFloat](ctxs[tc.slot]); got != tc.dy {
			t.Errorf("slot %d DFdy = %v, want %v", tc.slot, got, tc.dy)
		}
	}
}

func TestDFdvLinePair(t *testing.T) {
	ctxs := newGroupContexts(GroupLine, 2, 1)
	FragmentInit(ctxs[0], diffFloat(3))
	FragmentInit(ctxs[1], diffFloat(7))

	if got := DFdv[diffFloat](ctxs[0]); got != 4 {
		t.Errorf("DFdv = %v, want 4", got)
	}
	if got := DFdv[diffFloat](ctxs[1]); got != 4 {
		t.Errorf("DFdv = %v, want 4", got)
	}
}

func TestNewGroupContextsMarksHelpers(t *testing.T) {
	ctxs := newGroupContexts(GroupFilled, 4, 2)
	for i, c := range ctxs {
		want := i >= 2
		if c.IsHelperInvocation() != want {
			t.Errorf("slot %d IsHelperInvocation = %v, want %v", i, c.IsHelperInvocation(), want)
		}
		if c.ID() != i {
			t.Errorf("slot %d ID() = %d, want %d", i, c.ID(), i)
		}
		if c.Kind() != GroupFilled {
			t.Errorf("slot %d Kind() = %v, want GroupFilled", i, c.Kind())
		}
	}
}

func TestAdvanceGroupRequiresUnanimousSync(t *testing.T) {
	seqA := func(yield func(ProgramToken) bool) {
		if !yield(TokenSynchronize) {
			return
		}
		yield(TokenKeep)
	}
	seqB := func(yield func(ProgramToken) bool) {
		yield(TokenKeep) // never synchronizes
	}

	nextA, stopA := iter.Pull(FragmentSeq(seqA))
	nextB, stopB := iter.Pull(FragmentSeq(seqB))
	defer stopA()
	defer stopB()

	members := []groupMember{{next: nextA}, {next: nextB}}
	_, err := advanceGroup(members)
	if err == nil {
		t.Error("expected a desync error when one member synchronizes and another does not")
	}
}

func TestAdvanceGroupCompletesPastEndAsKeep(t *testing.T) {
	seqA := func(yield func(ProgramToken) bool) {
		yield(TokenKeep)
	}
	nextA, stopA := iter.Pull(FragmentSeq(seqA))
	defer stopA()

	members := []groupMember{{next: nextA}}
	tokens, err := advanceGroup(members)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens[0] != TokenKeep {
		t.Errorf("got %v, want TokenKeep", tokens[0])
	}

	// A second pull past the sequence's end should report done and still
	// report TokenKeep without erroring.
	tokens, err = advanceGroup(members)
	if err != nil {
		t.Fatalf("unexpected error on exhausted sequence: %v", err)
	}
	if tokens[0] != TokenKeep {
		t.Errorf("got %v, want TokenKeep", tokens[0])
	}
	if !members[0].done {
		t.Error("member should be marked done after its sequence is exhausted")
	}
}
