// Package variablenode_test exercises VariableNode's readiness policy and
// two-pass combine against the laws and special cases of §4.4/§8.
package variablenode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juliusjh/belief-propagation/bpcore"
	"github.com/juliusjh/belief-propagation/bpmsg"
	"github.com/juliusjh/belief-propagation/variablenode"
)

func msg(pairs ...bpmsg.Entry[int]) bpmsg.HashMsg[int] {
	m := bpmsg.NewHashMsg[int]()
	for _, e := range pairs {
		m.Insert(e.Value, e.P)
	}
	return m
}

func entry(from int, e bpmsg.HashMsg[int]) bpcore.InboxEntry[int, bpmsg.HashMsg[int]] {
	return bpcore.InboxEntry[int, bpmsg.HashMsg[int]]{From: bpcore.NodeIndex(from), Msg: e}
}

func newReadyVar(t *testing.T, degree int) *variablenode.VariableNode[int, bpmsg.HashMsg[int]] {
	t.Helper()
	v := variablenode.New[int, bpmsg.HashMsg[int]]()
	conns := make([]bpcore.NodeIndex, degree)
	for i := range conns {
		conns[i] = bpcore.NodeIndex(i)
	}
	require.NoError(t, v.Initialize(conns))
	return v
}

func TestVariableNode_IsReady_FullCoverAlwaysReady(t *testing.T) {
	t.Parallel()
	v := newReadyVar(t, 2)
	ready, err := v.IsReady([]bpcore.InboxEntry[int, bpmsg.HashMsg[int]]{entry(0, msg()), entry(1, msg())}, 0)
	require.NoError(t, err)
	assert.True(t, ready)
}

func TestVariableNode_IsReady_EmptyNoPriorNotReady(t *testing.T) {
	t.Parallel()
	v := newReadyVar(t, 2)
	ready, err := v.IsReady(nil, 0)
	require.NoError(t, err)
	assert.False(t, ready)
}

func TestVariableNode_IsReady_InputNeedPolicies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		need          variablenode.InputNeed
		hasPropagated bool
		want          bool
	}{
		{"AlwaysExceptFirst/first", variablenode.AlwaysExceptFirst, false, true},
		{"AlwaysExceptFirst/subsequent", variablenode.AlwaysExceptFirst, true, false},
		{"Always", variablenode.Always, false, false},
		{"NeverExceptFirst/first", variablenode.NeverExceptFirst, false, false},
		{"NeverExceptFirst/subsequent", variablenode.NeverExceptFirst, true, true},
		{"Never", variablenode.Never, false, true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			v := variablenode.New[int, bpmsg.HashMsg[int]]()
			require.NoError(t, v.SetPrior(msg(bpmsg.Entry[int]{Value: 1, P: 1})))
			v.SetInputNeed(tc.need)
			require.NoError(t, v.Initialize([]bpcore.NodeIndex{0, 1}))

			if tc.hasPropagated {
				_, err := v.RunNodeFunction(nil)
				require.NoError(t, err)
			}

			ready, err := v.IsReady([]bpcore.InboxEntry[int, bpmsg.HashMsg[int]]{entry(0, msg())}, 1)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ready)
		})
	}
}

func TestVariableNode_EmptyInboxNoPrior(t *testing.T) {
	t.Parallel()
	v := newReadyVar(t, 2)
	_, err := v.RunNodeFunction(nil)
	require.ErrorIs(t, err, variablenode.ErrEmptyInbox)
}

func TestVariableNode_PriorOnlyBroadcast(t *testing.T) {
	t.Parallel()
	v := variablenode.New[int, bpmsg.HashMsg[int]]()
	prior := msg(bpmsg.Entry[int]{Value: 0, P: 0.5}, bpmsg.Entry[int]{Value: 1, P: 0.5})
	require.NoError(t, v.SetPrior(prior))
	require.NoError(t, v.Initialize([]bpcore.NodeIndex{10, 20, 30}))

	out, err := v.RunNodeFunction(nil)
	require.NoError(t, err)
	require.Len(t, out, 3)
	for _, e := range out {
		p0, _ := e.Msg.Get(0)
		p1, _ := e.Msg.Get(1)
		assert.InDelta(t, 0.5, p0, 1e-9) // the prior as set; the graph normalizes on delivery
		assert.InDelta(t, 0.5, p1, 1e-9)
	}
}

func TestVariableNode_SingleSender_NoPrior(t *testing.T) {
	t.Parallel()
	v := newReadyVar(t, 3)
	in := msg(bpmsg.Entry[int]{Value: 7, P: 1})
	out, err := v.RunNodeFunction([]bpcore.InboxEntry[int, bpmsg.HashMsg[int]]{entry(0, in)})
	require.NoError(t, err)

	require.Len(t, out, 2) // neighbors 1 and 2, not the sender (0)
	for _, e := range out {
		assert.NotEqual(t, bpcore.NodeIndex(0), e.From)
	}
}

func TestVariableNode_TwoPassCombine_EquivalesNaive(t *testing.T) {
	t.Parallel()

	// Three senders (0,1,2), no prior, full cover over a degree-3 node.
	m0 := msg(bpmsg.Entry[int]{Value: 1, P: 0.2}, bpmsg.Entry[int]{Value: 2, P: 0.8})
	m1 := msg(bpmsg.Entry[int]{Value: 1, P: 0.5}, bpmsg.Entry[int]{Value: 2, P: 0.5})
	m2 := msg(bpmsg.Entry[int]{Value: 1, P: 0.9}, bpmsg.Entry[int]{Value: 2, P: 0.1})

	v := newReadyVar(t, 3)
	inbox := []bpcore.InboxEntry[int, bpmsg.HashMsg[int]]{entry(0, m0), entry(1, m1), entry(2, m2)}
	out, err := v.RunNodeFunction(inbox)
	require.NoError(t, err)
	require.Len(t, out, 3)

	naive := map[bpcore.NodeIndex]bpmsg.HashMsg[int]{
		0: naiveProduct(t, m1, m2),
		1: naiveProduct(t, m0, m2),
		2: naiveProduct(t, m0, m1),
	}

	for _, e := range out {
		want := naive[e.From]
		for _, want_e := range want.Entries() {
			got, ok := e.Msg.Get(want_e.Value)
			require.True(t, ok)
			assert.InDelta(t, want_e.P, got, 1e-9)
		}
	}
}

// naiveProduct multiplies two messages elementwise (without the product's
// own normalization folded in more than once), used as the O(n^2) ground
// truth the two-pass combine must match per §8's two-pass equivalence law.
func naiveProduct(t *testing.T, a, b bpmsg.HashMsg[int]) bpmsg.HashMsg[int] {
	t.Helper()
	out := bpmsg.NewHashMsg[int]()
	for _, e := range a.Entries() {
		out.Insert(e.Value, e.P)
	}
	require.NoError(t, out.MultMsg(b))
	return out
}

func TestVariableNode_PartialCover_NoSendToAll_UnreachedGetsNothing(t *testing.T) {
	t.Parallel()
	v := newReadyVar(t, 3)
	v.SetInputNeed(variablenode.Never) // stay ready on partial cover for this test
	in0 := msg(bpmsg.Entry[int]{Value: 1, P: 1})
	in1 := msg(bpmsg.Entry[int]{Value: 1, P: 1})

	out, err := v.RunNodeFunction([]bpcore.InboxEntry[int, bpmsg.HashMsg[int]]{entry(0, in0), entry(1, in1)})
	require.NoError(t, err)

	seen := map[bpcore.NodeIndex]bool{}
	for _, e := range out {
		seen[e.From] = true
	}
	assert.False(t, seen[2], "unreached neighbor must not receive a message when send_to_all is false")
}

func TestVariableNode_PartialCover_SendToAll_UnreachedGetsFallback(t *testing.T) {
	t.Parallel()
	v := newReadyVar(t, 3)
	v.SetSendToAll(true)
	in0 := msg(bpmsg.Entry[int]{Value: 1, P: 1})
	in1 := msg(bpmsg.Entry[int]{Value: 1, P: 1})

	out, err := v.RunNodeFunction([]bpcore.InboxEntry[int, bpmsg.HashMsg[int]]{entry(0, in0), entry(1, in1)})
	require.NoError(t, err)

	seen := map[bpcore.NodeIndex]bool{}
	for _, e := range out {
		seen[e.From] = true
	}
	assert.True(t, seen[2], "unreached neighbor must receive the accumulated fallback when send_to_all is true")
}

func TestVariableNode_SetPriorTwiceFails(t *testing.T) {
	t.Parallel()
	v := variablenode.New[int, bpmsg.HashMsg[int]]()
	require.NoError(t, v.SetPrior(msg(bpmsg.Entry[int]{Value: 1, P: 1})))
	err := v.SetPrior(msg(bpmsg.Entry[int]{Value: 1, P: 1}))
	require.ErrorIs(t, err, variablenode.ErrPriorAlreadySet)
}

func TestVariableNode_ResetClearsEverything(t *testing.T) {
	t.Parallel()
	v := newReadyVar(t, 2)
	require.NoError(t, v.SetPrior(msg(bpmsg.Entry[int]{Value: 1, P: 1})))
	_, err := v.RunNodeFunction(nil)
	require.NoError(t, err)

	require.NoError(t, v.Reset())

	_, hasPrior := v.GetPrior()
	assert.False(t, hasPrior)

	// invariant 6: after reset+initialize, readiness matches the
	// post-construction state (AlwaysExceptFirst ready before first step).
	require.NoError(t, v.Initialize([]bpcore.NodeIndex{0, 1}))
	ready, err := v.IsReady([]bpcore.InboxEntry[int, bpmsg.HashMsg[int]]{entry(0, msg())}, 0)
	require.NoError(t, err)
	assert.True(t, ready, "has_propagated must be cleared by Reset for invariant 6 to hold")
}

func TestVariableNode_SetIsLog_RejectedAtInitialize(t *testing.T) {
	t.Parallel()
	v := variablenode.New[int, bpmsg.HashMsg[int]]()
	v.SetIsLog(true)
	err := v.Initialize([]bpcore.NodeIndex{0, 1})
	require.ErrorIs(t, err, variablenode.ErrLogSpaceUnsupported)
}
