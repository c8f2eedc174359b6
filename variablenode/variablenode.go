package variablenode

import (
	"fmt"

	"github.com/juliusjh/belief-propagation/bpcore"
	"github.com/juliusjh/belief-propagation/bpmsg"
)

// InputNeed controls a VariableNode's readiness once its inbox holds fewer
// messages than its degree (see IsReady).
type InputNeed int

const (
	// AlwaysExceptFirst requires a full cover of inputs on every step except
	// the first: on a partial cover it is ready only while the node has never
	// propagated. It is the default.
	AlwaysExceptFirst InputNeed = iota
	// Always never relaxes the full-cover requirement.
	Always
	// NeverExceptFirst requires a full cover only on the first step: on a
	// partial cover it is ready only once the node has propagated.
	NeverExceptFirst
	// Never is always ready, regardless of cover.
	Never
)

// VariableNode is the standard variable-side NodeFunction: an optional
// prior distribution, a boolean hasPropagated flag, an InputNeed policy,
// and a sendToAll flag controlling whether unreached neighbors get a
// fallback message on partial steps. IsLog is reserved and rejected at
// Initialize until log-space arithmetic is implemented.
type VariableNode[T comparable, M bpmsg.Msg[T]] struct {
	bpcore.BaseBehavior

	connections   []bpcore.NodeIndex
	initialized   bool
	prior         M
	hasPrior      bool
	hasPropagated bool
	inputNeed     InputNeed
	sendToAll     bool
	isLog         bool
}

// New returns a VariableNode with no prior, InputNeed = AlwaysExceptFirst,
// and sendToAll = false — the defaults described in the spec.
func New[T comparable, M bpmsg.Msg[T]]() *VariableNode[T, M] {
	return &VariableNode[T, M]{inputNeed: AlwaysExceptFirst}
}

// SetPrior sets the node's standing prior distribution. It fails with
// ErrPriorAlreadySet if a prior is already set.
func (v *VariableNode[T, M]) SetPrior(prior M) error {
	if v.hasPrior {
		return ErrPriorAlreadySet
	}
	v.prior = prior
	v.hasPrior = true
	return nil
}

// SetInputNeed sets the readiness policy applied once the inbox holds
// fewer messages than the node's degree.
func (v *VariableNode[T, M]) SetInputNeed(need InputNeed) { v.inputNeed = need }

// SetSendToAll sets whether unreached neighbors receive the accumulated
// product as a fallback message on a partial step.
func (v *VariableNode[T, M]) SetSendToAll(sendToAll bool) { v.sendToAll = sendToAll }

// SetIsLog requests log-space arithmetic. Only false is currently
// supported; true is stored but rejected at Initialize with
// ErrLogSpaceUnsupported, per the spec's instruction to reject rather than
// silently run linear-space math under a log-space flag.
func (v *VariableNode[T, M]) SetIsLog(isLog bool) { v.isLog = isLog }

// IsFactor always reports false: VariableNode sits on the variable side.
func (v *VariableNode[T, M]) IsFactor() bool { return false }

// NumberInputs reports ok=false: variable nodes have no fixed arity.
func (v *VariableNode[T, M]) NumberInputs() (int, bool) { return 0, false }

// Initialize records the final neighbor list. It fails with
// ErrLogSpaceUnsupported if SetIsLog(true) was requested.
func (v *VariableNode[T, M]) Initialize(connections []bpcore.NodeIndex) error {
	if v.isLog {
		return ErrLogSpaceUnsupported
	}
	v.connections = append([]bpcore.NodeIndex(nil), connections...)
	v.initialized = true
	return nil
}

// Reset returns the node to its pre-initialization state: prior,
// hasPropagated, and the recorded connections are all cleared. The
// original source's reset only clears the prior; this implementation
// clears every field Initialize/SetPrior populate so that reset+initialize
// is indistinguishable from the post-construction state (the spec's
// invariant 6), which the narrower original behavior would violate for the
// AlwaysExceptFirst/NeverExceptFirst policies.
func (v *VariableNode[T, M]) Reset() error {
	var zero M
	v.prior = zero
	v.hasPrior = false
	v.hasPropagated = false
	v.connections = nil
	v.initialized = false
	return nil
}

// GetPrior returns the standing prior, if any.
func (v *VariableNode[T, M]) GetPrior() (M, bool) { return v.prior, v.hasPrior }

// IsReady implements the readiness policy of §4.4: full cover is always
// ready; empty cover with no prior is never ready; otherwise the policy in
// inputNeed decides.
func (v *VariableNode[T, M]) IsReady(inbox []bpcore.InboxEntry[T, M], step int) (bool, error) {
	if !v.initialized {
		return false, ErrNotInitialized
	}
	a := len(v.connections)
	i := len(inbox)
	if i == a {
		return true, nil
	}
	if i == 0 && !v.hasPrior {
		return false, nil
	}
	switch v.inputNeed {
	case Always:
		return false, nil
	case AlwaysExceptFirst:
		return !v.hasPropagated, nil
	case NeverExceptFirst:
		return v.hasPropagated, nil
	case Never:
		return true, nil
	default:
		return false, fmt.Errorf("variablenode: unknown InputNeed %d", v.inputNeed)
	}
}
