// SPDX-License-Identifier: MIT

package bpgraph

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/juliusjh/belief-propagation/bpcore"
	"github.com/juliusjh/belief-propagation/bpmsg"
)

type outgoingBatch[T comparable, M bpmsg.Msg[T]] struct {
	From NodeIndex
	Msgs []bpcore.InboxEntry[T, M] // .From here holds the destination, mirroring RunNodeFunction's outbox convention
}

// Initialize initializes every not-yet-initialized node.
func (g *Graph[T, M]) Initialize() error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for i, node := range g.nodes {
		if node.IsInitialized() {
			continue
		}
		if err := node.Initialize(); err != nil {
			return &StepError{Site: "Initialize", Step: g.step, NodeIndex: NodeIndex(i), NodeName: node.Name(), Cause: err}
		}
	}
	return nil
}

// InitializeNode delivers msgs (addressed as if idx were sending them, each
// target must already list idx as a neighbor) through the normal validate/
// normalize/deposit pipeline, then initializes idx itself. msgs may be nil to
// skip the seed push.
func (g *Graph[T, M]) InitializeNode(idx NodeIndex, msgs []bpcore.InboxEntry[T, M]) error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if len(msgs) > 0 {
		if err := g.sendLocked([]outgoingBatch[T, M]{{From: idx, Msgs: msgs}}); err != nil {
			return err
		}
	}
	node, err := g.nodeLocked(idx)
	if err != nil {
		return err
	}
	if err := node.Initialize(); err != nil {
		return &StepError{Site: "InitializeNode", Step: g.step, NodeIndex: idx, NodeName: node.Name(), Cause: err}
	}
	return nil
}

// InitializeNodeConstantMsg seeds node idx's own inbox with msg once per
// neighbor in idx's adjacency list, then initializes idx. This mirrors the
// original source's send_post(m_i, msg.clone()) loop over idx's own
// connections exactly: the seed lands in idx's inbox, not its neighbors'.
func (g *Graph[T, M]) InitializeNodeConstantMsg(idx NodeIndex, msg M) error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	node, err := g.nodeLocked(idx)
	if err != nil {
		return err
	}
	for _, neighbor := range node.Connections() {
		node.SendPost(neighbor, bpmsg.CloneTyped[T, M](msg))
	}
	if err := node.Initialize(); err != nil {
		return &StepError{Site: "InitializeNodeConstantMsg", Step: g.step, NodeIndex: idx, NodeName: node.Name(), Cause: err}
	}
	return nil
}

// Reset resets every node (clearing inboxes and behavior state).
func (g *Graph[T, M]) Reset() error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for i, node := range g.nodes {
		if err := node.Reset(); err != nil {
			return &StepError{Site: "Reset", Step: g.step, NodeIndex: NodeIndex(i), NodeName: node.Name(), Cause: err}
		}
	}
	g.step = 0
	return nil
}

// SendControlMessage routes ctrl into node idx's behavior.
func (g *Graph[T, M]) SendControlMessage(idx NodeIndex, ctrl bpcore.ControlMessage) (bpcore.ControlAck, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	node, err := g.nodeLocked(idx)
	if err != nil {
		return nil, err
	}
	return node.SendControlMessage(ctrl)
}

// GetInbox returns a snapshot of node idx's current inbox without draining
// it.
func (g *Graph[T, M]) GetInbox(idx NodeIndex) ([]bpcore.InboxEntry[T, M], error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	node, err := g.nodeLocked(idx)
	if err != nil {
		return nil, err
	}
	return node.CloneInbox(), nil
}

// sendLocked delivers every (to, msg) addressed by each batch's from node,
// validating, normalizing, and checking adjacency per the spec's Phase B
// steps, under the caller's already-held read lock on g (the nodes slice is
// fixed; per-destination locking happens inside Node.SendPost).
func (g *Graph[T, M]) sendLocked(batches []outgoingBatch[T, M]) error {
	for _, batch := range batches {
		for _, out := range batch.Msgs {
			dest := out.From // InboxEntry.From holds the destination in outbox context
			g.logf(logrus.DebugLevel, "sending from %d to %d", batch.From, dest)

			msg := out.Msg
			if g.checkValidity && !msg.IsValid() {
				return &StepError{
					Site:      "send",
					Step:      g.step,
					NodeIndex: batch.From,
					Cause:     fmt.Errorf("%w: %d -> %d", ErrInvalidMessage, batch.From, dest),
				}
			}
			if g.normalize {
				if err := msg.Normalize(); err != nil {
					return &StepError{
						Site:      "send",
						Step:      g.step,
						NodeIndex: batch.From,
						Cause:     fmt.Errorf("normalize %d -> %d: %w", batch.From, dest, err),
					}
				}
			}

			to, err := g.nodeLocked(dest)
			if err != nil {
				return &StepError{Site: "send", Step: g.step, NodeIndex: batch.From, Cause: err}
			}
			if !to.HasConnection(batch.From) {
				return &StepError{
					Site:      "send",
					Step:      g.step,
					NodeIndex: dest,
					NodeName:  to.Name(),
					Cause:     fmt.Errorf("%w: %d -> %d", ErrMissingEdge, batch.From, dest),
				}
			}
			to.SendPost(batch.From, msg)
		}
	}
	return nil
}
