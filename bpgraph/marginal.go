// SPDX-License-Identifier: MIT

package bpgraph

import (
	"fmt"

	"github.com/juliusjh/belief-propagation/bpmsg"
)

// GetResult reads the marginal at a variable node: the max-scaled product of
// its prior (if any) and its current inbox entries. ok is false (with a nil
// error) when the node is a factor, or when the node has no inbox entries
// and no prior — both "no marginal available" cases the spec distinguishes
// from an actual failure.
func (g *Graph[T, M]) GetResult(idx NodeIndex) (result map[T]bpmsg.Probability, ok bool, err error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	node, err := g.nodeLocked(idx)
	if err != nil {
		return nil, false, err
	}

	if node.IsFactor() {
		return nil, false, nil
	}

	prior, hasPrior := node.GetPrior()
	inbox := node.CloneInbox()

	if len(inbox) == 0 {
		if !hasPrior {
			return nil, false, nil
		}
		scaled, err := bpmsg.MaxScale[T](prior)
		if err != nil {
			return nil, false, &StepError{Site: "GetResult", Step: g.step, NodeIndex: idx, NodeName: node.Name(), Cause: err}
		}
		return scaled, true, nil
	}

	var acc M
	start := 0
	if hasPrior {
		acc = bpmsg.CloneTyped[T, M](prior)
	} else {
		acc = bpmsg.CloneTyped[T, M](inbox[0].Msg)
		start = 1
	}
	for _, e := range inbox[start:] {
		if err := acc.MultMsg(e.Msg); err != nil {
			return nil, false, &StepError{
				Site: "GetResult", Step: g.step, NodeIndex: idx, NodeName: node.Name(),
				Cause: fmt.Errorf("combining inbox entry from %d: %w", e.From, err),
			}
		}
	}

	scaled, err := bpmsg.MaxScale[T](acc)
	if err != nil {
		return nil, false, &StepError{Site: "GetResult", Step: g.step, NodeIndex: idx, NodeName: node.Name(), Cause: err}
	}
	return scaled, true, nil
}
