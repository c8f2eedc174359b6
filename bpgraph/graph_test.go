package bpgraph_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juliusjh/belief-propagation/bpcore"
	"github.com/juliusjh/belief-propagation/bpgraph"
	"github.com/juliusjh/belief-propagation/bpmsg"
	"github.com/juliusjh/belief-propagation/variablenode"
)

type msgT = bpmsg.HashMsg[int]

func newVar() bpcore.NodeFunction[int, msgT] {
	return variablenode.New[int, msgT]()
}

// fixedFactor is a minimal factor test double with a declared arity, used
// across bpgraph tests that only need bipartite-side plumbing, not real
// factor semantics.
type fixedFactor struct {
	bpcore.BaseBehavior
	arity       int
	connections []bpcore.NodeIndex
	initialized bool
	run         func(inbox []bpcore.InboxEntry[int, msgT]) ([]bpcore.InboxEntry[int, msgT], error)
}

func (f *fixedFactor) IsFactor() bool             { return true }
func (f *fixedFactor) NumberInputs() (int, bool)  { return f.arity, true }
func (f *fixedFactor) GetPrior() (msgT, bool)     { var z msgT; return z, false }
func (f *fixedFactor) Reset() error               { f.initialized = false; f.connections = nil; return nil }
func (f *fixedFactor) Initialize(c []bpcore.NodeIndex) error {
	f.connections = append([]bpcore.NodeIndex(nil), c...)
	f.initialized = true
	return nil
}
func (f *fixedFactor) IsReady(inbox []bpcore.InboxEntry[int, msgT], step int) (bool, error) {
	return len(inbox) == f.arity, nil
}
func (f *fixedFactor) RunNodeFunction(inbox []bpcore.InboxEntry[int, msgT]) ([]bpcore.InboxEntry[int, msgT], error) {
	if f.run != nil {
		return f.run(inbox)
	}
	return nil, nil
}

func TestGraph_AddNode_ReturnsDenseIndices(t *testing.T) {
	t.Parallel()
	g := bpgraph.New[int, msgT]()
	i0 := g.AddNode("v0", newVar())
	i1 := g.AddNode("v1", newVar())
	assert.Equal(t, bpgraph.NodeIndex(0), i0)
	assert.Equal(t, bpgraph.NodeIndex(1), i1)
	assert.Equal(t, 2, g.NodesCount())
}

func TestGraph_AddEdge_BipartiteViolationRejected(t *testing.T) {
	t.Parallel()
	g := bpgraph.New[int, msgT]()
	v0 := g.AddNode("v0", newVar())
	v1 := g.AddNode("v1", newVar())
	err := g.AddEdge(v0, v1)
	require.ErrorIs(t, err, bpgraph.ErrBipartiteViolation)
}

func TestGraph_AddEdge_ValidLinkAccepted(t *testing.T) {
	t.Parallel()
	g := bpgraph.New[int, msgT]()
	v0 := g.AddNode("v0", newVar())
	f0 := g.AddNode("f0", &fixedFactor{arity: 1})
	require.NoError(t, g.AddEdge(v0, f0))

	inbox0, err := g.GetInbox(v0)
	require.NoError(t, err)
	assert.Empty(t, inbox0)
	assert.Equal(t, 1, g.VariableNodesCount())
	assert.Equal(t, 1, g.FactorNodesCount())
}

func TestGraph_AddEdge_RollsBackOnSecondEndpointFailure(t *testing.T) {
	t.Parallel()
	g := bpgraph.New[int, msgT]()
	v0 := g.AddNode("v0", newVar())
	f0 := g.AddNode("f0", &fixedFactor{arity: 0}) // arity 0: any edge overflows

	err := g.AddEdge(v0, f0)
	require.Error(t, err)
	require.True(t, errors.Is(err, bpcore.ErrArityMismatch))

	// v0's side must have been rolled back: a second attempt at the same edge
	// must fail on f0's arity again, not report a duplicate edge on v0 (which
	// would indicate the first AddEdge half-committed).
	err = g.AddEdge(v0, f0)
	require.ErrorIs(t, err, bpcore.ErrArityMismatch)
}

func TestGraph_AddEdge_OutOfBoundsIndex(t *testing.T) {
	t.Parallel()
	g := bpgraph.New[int, msgT]()
	v0 := g.AddNode("v0", newVar())
	err := g.AddEdge(v0, bpgraph.NodeIndex(99))
	require.ErrorIs(t, err, bpgraph.ErrIndexOutOfBounds)
}

func TestGraph_IsInitialized(t *testing.T) {
	t.Parallel()
	g := bpgraph.New[int, msgT]()
	v0 := g.AddNode("v0", newVar())
	f0 := g.AddNode("f0", &fixedFactor{arity: 1})
	require.NoError(t, g.AddEdge(v0, f0))
	assert.False(t, g.IsInitialized())
	require.NoError(t, g.Initialize())
	assert.True(t, g.IsInitialized())
}
