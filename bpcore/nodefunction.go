package bpcore

import "github.com/juliusjh/belief-propagation/bpmsg"

// NodeIndex is a dense, non-negative integer handle, stable for the
// lifetime of the graph. It is never a pointer, so neighbor references
// introduce no ownership cycles even though the adjacency graph itself may
// be cyclic.
type NodeIndex int

// ControlMessage and ControlAck are the opaque payload and reply of the
// out-of-band control channel (bpgraph.Graph.SendControlMessage). Behaviors
// that do not support reconfiguration can ignore the payload and return a
// nil ack; BaseBehavior does exactly that.
type ControlMessage any

// ControlAck is the opaque reply produced by a behavior's control-message
// handler.
type ControlAck any

// InboxEntry is one (sender, message) pair gathered in a node's inbox
// between drains.
type InboxEntry[T comparable, M bpmsg.Msg[T]] struct {
	From NodeIndex
	Msg  M
}

// NodeFunction is the capability set every per-node behavior (factor or
// variable) must provide. T is the domain value type, M its message
// representation.
type NodeFunction[T comparable, M bpmsg.Msg[T]] interface {
	// RunNodeFunction consumes the messages gathered since the last call and
	// produces the outbound (to, msg) pairs to deposit this step, at most
	// one per neighbor the node chooses to address.
	RunNodeFunction(inbox []InboxEntry[T, M]) ([]InboxEntry[T, M], error)

	// IsFactor reports whether this behavior sits on the factor side of the
	// bipartite graph (true) or the variable side (false).
	IsFactor() bool

	// NumberInputs reports a fixed required arity (ok=true), or ok=false if
	// arity is unconstrained.
	NumberInputs() (n int, ok bool)

	// Initialize is called exactly once, with the final neighbor list, once
	// the node's edges are fixed.
	Initialize(connections []NodeIndex) error

	// IsReady decides whether this node contributes messages at the given
	// step, given the inbox contents gathered so far this step.
	IsReady(inbox []InboxEntry[T, M], step int) (bool, error)

	// Reset returns the behavior to its pre-initialization state.
	Reset() error

	// GetPrior returns an optional standing contribution (used by variable
	// nodes); ok=false means no prior is set.
	GetPrior() (prior M, ok bool)

	// SendControlMessage is the optional side channel for mid-run user
	// reconfiguration.
	SendControlMessage(ctrl ControlMessage) (ControlAck, error)

	// DiscardMode is a reserved hint; default false.
	DiscardMode() bool
}

// BaseBehavior supplies the two NodeFunction methods every behavior without
// a control channel or discard-mode hint can embed verbatim, mirroring the
// Rust source's trait-level default implementations.
type BaseBehavior struct{}

// SendControlMessage is a no-op default: it ignores ctrl and returns a nil
// ack with no error.
func (BaseBehavior) SendControlMessage(ControlMessage) (ControlAck, error) {
	return nil, nil
}

// DiscardMode always reports false for behaviors that embed BaseBehavior.
func (BaseBehavior) DiscardMode() bool {
	return false
}
