// SPDX-License-Identifier: MIT

package bpgraph

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/juliusjh/belief-propagation/bpcore"
	"github.com/juliusjh/belief-propagation/bpmsg"
)

// minBatchSize is the floor on how many work items a single worker claims
// from the shared queue per lock acquisition, matching the original
// source's hardcoded min_batch_size.
const minBatchSize = 5

// Propagate runs steps sequential propagation steps.
func (g *Graph[T, M]) Propagate(steps int) error {
	if !g.IsInitialized() {
		return fmt.Errorf("bpgraph: Propagate: %w", ErrNotInitialized)
	}
	for i := 0; i < steps; i++ {
		if err := g.PropagateStep(); err != nil {
			return err
		}
	}
	return nil
}

// PropagateStep runs one sequential propagation step: Phase A (create) over
// every ready node, then Phase B (validate/normalize/deposit) over every
// produced message, then increments the step counter.
func (g *Graph[T, M]) PropagateStep() error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.checkValidity && !g.isValidLocked() {
		return fmt.Errorf("bpgraph: PropagateStep: %w", ErrGraphInvalid)
	}

	g.logf(logrus.InfoLevel, "propagating step %d", g.step)
	outgoing, err := g.createMessagesLocked()
	if err != nil {
		return err
	}
	g.logf(logrus.InfoLevel, "sending messages")
	if err := g.sendLocked(outgoing); err != nil {
		return err
	}
	g.step++
	return nil
}

// createMessagesLocked runs Phase A: every ready node's RunNodeFunction,
// under the caller's already-held read lock. No inbox is written here.
func (g *Graph[T, M]) createMessagesLocked() ([]outgoingBatch[T, M], error) {
	var res []outgoingBatch[T, M]
	for i, node := range g.nodes {
		ready, err := node.IsReady(g.step)
		if err != nil {
			return nil, &StepError{Site: "createMessages", Step: g.step, NodeIndex: NodeIndex(i), NodeName: node.Name(), Cause: err}
		}
		if !ready {
			continue
		}
		g.logf(logrus.DebugLevel, "creating messages at node %q", node.Name())
		out, err := node.CreateMessages(NodeIndex(i))
		if err != nil {
			return nil, &StepError{Site: "createMessages", Step: g.step, NodeIndex: NodeIndex(i), NodeName: node.Name(), Cause: err}
		}
		res = append(res, outgoingBatch[T, M]{From: NodeIndex(i), Msgs: out})
	}
	return res, nil
}

// PropagateThreaded runs steps propagation steps using workerCount workers
// per phase.
func (g *Graph[T, M]) PropagateThreaded(steps int, workerCount int) error {
	if !g.IsInitialized() {
		return fmt.Errorf("bpgraph: PropagateThreaded: %w", ErrNotInitialized)
	}
	for i := 0; i < steps; i++ {
		if err := g.PropagateStepThreaded(workerCount); err != nil {
			return err
		}
	}
	return nil
}

// PropagateStepThreaded runs one propagation step with Phase A and Phase B
// each distributed over workerCount goroutines draining a shared batch
// queue (batch size max(minBatchSize, remaining/(2*workerCount))). The
// first worker error is returned by errgroup.Group.Wait once every worker
// has stopped; the group carries no context, so a failing worker does not
// cancel the others, which keep claiming batches until the queue is empty.
func (g *Graph[T, M]) PropagateStepThreaded(workerCount int) error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.checkValidity && !g.isValidLocked() {
		return fmt.Errorf("bpgraph: PropagateStepThreaded: %w", ErrGraphInvalid)
	}
	if workerCount < 1 {
		workerCount = 1
	}

	g.logf(logrus.InfoLevel, "creating messages with %d workers", workerCount)
	outgoing, err := g.createMessagesThreadedLocked(workerCount)
	if err != nil {
		return err
	}
	g.logf(logrus.InfoLevel, "sending messages")
	if err := g.sendThreadedLocked(outgoing, workerCount); err != nil {
		return err
	}
	g.step++
	return nil
}

type readyNode[T comparable, M bpmsg.Msg[T]] struct {
	idx  NodeIndex
	node *bpcore.Node[T, M]
}

// createMessagesThreadedLocked is Phase A distributed over workerCount
// workers. Ready nodes are collected up front (a read-only scan), then
// drained in batches from a mutex-guarded queue; each worker accumulates its
// own local results and they are concatenated once every worker finishes.
func (g *Graph[T, M]) createMessagesThreadedLocked(workerCount int) ([]outgoingBatch[T, M], error) {
	var ready []readyNode[T, M]
	for i, node := range g.nodes {
		ok, err := node.IsReady(g.step)
		if err != nil {
			return nil, &StepError{Site: "createMessagesThreaded", Step: g.step, NodeIndex: NodeIndex(i), NodeName: node.Name(), Cause: err}
		}
		if ok {
			ready = append(ready, readyNode[T, M]{idx: NodeIndex(i), node: node})
		}
	}

	queue := ready
	var queueMu sync.Mutex
	results := make([][]outgoingBatch[T, M], workerCount)

	g2 := new(errgroup.Group)
	for w := 0; w < workerCount; w++ {
		w := w
		g2.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("bpgraph: worker panic: %v", r)
				}
			}()
			var local []outgoingBatch[T, M]
			for {
				chunk := func() []readyNode[T, M] {
					queueMu.Lock()
					defer queueMu.Unlock()
					n := len(queue)
					if n == 0 {
						return nil
					}
					batch := maxInt(minBatchSize, n/(2*workerCount))
					if batch > n {
						batch = n
					}
					c := queue[:batch]
					queue = queue[batch:]
					return c
				}()
				if len(chunk) == 0 {
					break
				}
				for _, rn := range chunk {
					out, err := rn.node.CreateMessages(rn.idx)
					if err != nil {
						return &StepError{Site: "createMessagesThreaded", Step: g.step, NodeIndex: rn.idx, NodeName: rn.node.Name(), Cause: err}
					}
					local = append(local, outgoingBatch[T, M]{From: rn.idx, Msgs: out})
				}
			}
			results[w] = local
			return nil
		})
	}
	if err := g2.Wait(); err != nil {
		return nil, err
	}

	var res []outgoingBatch[T, M]
	for _, r := range results {
		res = append(res, r...)
	}
	return res, nil
}

// sendThreadedLocked is Phase B distributed over workerCount workers
// draining a shared queue of outgoingBatch entries. Validation and
// normalization happen without any lock; the per-destination-node lock
// acquired inside Node.SendPost is the only serialization point, so workers
// never race on a single inbox.
func (g *Graph[T, M]) sendThreadedLocked(batches []outgoingBatch[T, M], workerCount int) error {
	queue := batches
	var queueMu sync.Mutex

	g2 := new(errgroup.Group)
	for w := 0; w < workerCount; w++ {
		g2.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("bpgraph: worker panic: %v", r)
				}
			}()
			for {
				chunk := func() []outgoingBatch[T, M] {
					queueMu.Lock()
					defer queueMu.Unlock()
					n := len(queue)
					if n == 0 {
						return nil
					}
					batch := maxInt(minBatchSize, n/(2*workerCount))
					if batch > n {
						batch = n
					}
					c := queue[:batch]
					queue = queue[batch:]
					return c
				}()
				if len(chunk) == 0 {
					return nil
				}
				if err := g.sendLocked(chunk); err != nil {
					return err
				}
			}
		})
	}
	return g2.Wait()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
