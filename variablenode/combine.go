package variablenode

import (
	"github.com/juliusjh/belief-propagation/bpcore"
	"github.com/juliusjh/belief-propagation/bpmsg"
)

// RunNodeFunction computes the outbound messages for this step. It fails
// with ErrNotInitialized before Initialize; otherwise it marks
// hasPropagated = true first (also when the combine then fails), matching the
// original source: a node that attempted to propagate and failed still
// counts as "having had its turn" for InputNeed purposes.
func (v *VariableNode[T, M]) RunNodeFunction(inbox []bpcore.InboxEntry[T, M]) ([]bpcore.InboxEntry[T, M], error) {
	if !v.initialized {
		return nil, ErrNotInitialized
	}
	v.hasPropagated = true

	n := len(inbox)
	conns := v.connections

	switch {
	case n == 0:
		return v.broadcastPrior(conns)
	case n == 1:
		return v.combineSingle(inbox[0], conns)
	default:
		trackMissing := n != len(conns) && v.sendToAll
		return v.twoPassCombine(inbox, conns, trackMissing)
	}
}

// broadcastPrior handles n=0: broadcast the prior to every neighbor, or
// fail with ErrEmptyInbox if there is no prior to broadcast.
func (v *VariableNode[T, M]) broadcastPrior(conns []bpcore.NodeIndex) ([]bpcore.InboxEntry[T, M], error) {
	if !v.hasPrior {
		return nil, ErrEmptyInbox
	}
	out := make([]bpcore.InboxEntry[T, M], 0, len(conns))
	for _, c := range conns {
		out = append(out, bpcore.InboxEntry[T, M]{From: c, Msg: bpmsg.CloneTyped[T, M](v.prior)})
	}
	return out, nil
}

// combineSingle handles n=1: send the prior (if any) back to the sole
// sender, and the sender's message (multiplied by the prior, if any) to
// every other neighbor.
func (v *VariableNode[T, M]) combineSingle(entry bpcore.InboxEntry[T, M], conns []bpcore.NodeIndex) ([]bpcore.InboxEntry[T, M], error) {
	msgIn := bpmsg.CloneTyped[T, M](entry.Msg)

	var out []bpcore.InboxEntry[T, M]
	if v.hasPrior {
		if err := msgIn.MultMsg(v.prior); err != nil {
			return nil, err
		}
		out = append(out, bpcore.InboxEntry[T, M]{From: entry.From, Msg: bpmsg.CloneTyped[T, M](v.prior)})
	}
	for _, c := range conns {
		if c != entry.From {
			out = append(out, bpcore.InboxEntry[T, M]{From: c, Msg: bpmsg.CloneTyped[T, M](msgIn)})
		}
	}
	return out, nil
}

// twoPassCombine implements the O(n) prefix/suffix combine of §4.4: for
// every inbox entry, the outbound message is the product of the prior (if
// any) and every *other* inbox entry. When trackMissing is set (the
// send_to_all partial-cover branch), every neighbor that did not appear in
// the inbox this step additionally receives the full accumulated product
// (prior, if any, times every inbox entry — nothing is excluded for them,
// since they contributed nothing to exclude).
func (v *VariableNode[T, M]) twoPassCombine(inbox []bpcore.InboxEntry[T, M], conns []bpcore.NodeIndex, trackMissing bool) ([]bpcore.InboxEntry[T, M], error) {
	n := len(inbox)
	result := make([]bpcore.InboxEntry[T, M], n)

	var missing []bpcore.NodeIndex
	if trackMissing {
		missing = append([]bpcore.NodeIndex(nil), conns...)
		for _, e := range inbox {
			missing = removeIndex(missing, e.From)
		}
	}

	// Forward pass: result[i].Msg becomes the prior (if any) times the
	// product of every inbox entry strictly before i. Without a prior,
	// index 0 has no prefix factor at all yet — it is filled in entirely
	// by the backward pass below, never by its own message.
	var prefix M
	startIdx := 0
	if v.hasPrior {
		prefix = bpmsg.CloneTyped[T, M](v.prior)
	} else {
		result[0] = bpcore.InboxEntry[T, M]{From: inbox[0].From}
		prefix = bpmsg.CloneTyped[T, M](inbox[0].Msg)
		startIdx = 1
	}
	for i := startIdx; i < n; i++ {
		result[i] = bpcore.InboxEntry[T, M]{From: inbox[i].From, Msg: bpmsg.CloneTyped[T, M](prefix)}
		if err := prefix.MultMsg(inbox[i].Msg); err != nil {
			return nil, err
		}
	}
	// prefix now holds the prior (if any) times every inbox entry — the
	// full accumulated product handed to missing neighbors below.
	fullProduct := prefix

	// Backward pass: fold the running suffix product (everything strictly
	// after i) into result[i] using each entry's *original* message, never
	// the already-updated result entry. Index n-1 needs no suffix factor
	// and is already correct from the forward pass.
	suffix := bpmsg.CloneTyped[T, M](inbox[n-1].Msg)
	for i := n - 2; i >= 0; i-- {
		if i == 0 && !v.hasPrior {
			result[0].Msg = bpmsg.CloneTyped[T, M](suffix)
		} else if err := result[i].Msg.MultMsg(suffix); err != nil {
			return nil, err
		}
		if err := suffix.MultMsg(inbox[i].Msg); err != nil {
			return nil, err
		}
	}

	if trackMissing {
		for _, idx := range missing {
			result = append(result, bpcore.InboxEntry[T, M]{From: idx, Msg: bpmsg.CloneTyped[T, M](fullProduct)})
		}
	}

	return result, nil
}

// removeIndex returns a copy of idxs with the first occurrence of target
// removed, mirroring the original source's Vec::retain.
func removeIndex(idxs []bpcore.NodeIndex, target bpcore.NodeIndex) []bpcore.NodeIndex {
	for i, idx := range idxs {
		if idx == target {
			return append(idxs[:i:i], idxs[i+1:]...)
		}
	}
	return idxs
}
