// SPDX-License-Identifier: MIT

package bpgraph

import (
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/juliusjh/belief-propagation/bpcore"
	"github.com/juliusjh/belief-propagation/bpmsg"
)

// NodeIndex is the graph-level node handle, identical to bpcore.NodeIndex.
type NodeIndex = bpcore.NodeIndex

// Graph owns an ordered, dense set of Nodes, enforces the bipartite
// variable/factor invariant on every edge, and drives propagation. Node
// identities are dense indices into nodes; no node is ever removed once
// added, matching the spec's no-incremental-mutation-after-start non-goal.
type Graph[T comparable, M bpmsg.Msg[T]] struct {
	mu sync.RWMutex

	nodes         []*bpcore.Node[T, M]
	step          int
	normalize     bool
	checkValidity bool
	logger        *logrus.Logger
}

// GraphOption configures a Graph at construction, mirroring the teacher's
// functional-options pattern (core.GraphOption).
type GraphOption[T comparable, M bpmsg.Msg[T]] func(g *Graph[T, M])

// WithNormalize overrides the default normalize=true setting.
func WithNormalize[T comparable, M bpmsg.Msg[T]](normalize bool) GraphOption[T, M] {
	return func(g *Graph[T, M]) { g.normalize = normalize }
}

// WithCheckValidity overrides the default check_validity=false setting.
func WithCheckValidity[T comparable, M bpmsg.Msg[T]](check bool) GraphOption[T, M] {
	return func(g *Graph[T, M]) { g.checkValidity = check }
}

// WithLogger wires a structured logger; a nil logger (the default) means
// silent operation, matching the Rust source's compiled-out print macros.
func WithLogger[T comparable, M bpmsg.Msg[T]](logger *logrus.Logger) GraphOption[T, M] {
	return func(g *Graph[T, M]) { g.logger = logger }
}

// New returns an empty Graph with normalize=true and check_validity=false,
// then applies opts in order.
func New[T comparable, M bpmsg.Msg[T]](opts ...GraphOption[T, M]) *Graph[T, M] {
	g := &Graph[T, M]{normalize: true}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Reserve pre-allocates capacity for number_nodes future AddNode calls.
func (g *Graph[T, M]) Reserve(numberNodes int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if cap(g.nodes)-len(g.nodes) < numberNodes {
		grown := make([]*bpcore.Node[T, M], len(g.nodes), len(g.nodes)+numberNodes)
		copy(grown, g.nodes)
		g.nodes = grown
	}
}

// SetNormalize toggles whether Phase B normalizes every message before
// delivery.
func (g *Graph[T, M]) SetNormalize(normalize bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.normalize = normalize
}

// SetCheckValidity toggles whether Phase B rejects invalid messages and
// whether propagate* calls pre-check graph validity.
func (g *Graph[T, M]) SetCheckValidity(check bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.checkValidity = check
}

// SetLogger wires a structured logger. Passing nil silences logging.
func (g *Graph[T, M]) SetLogger(logger *logrus.Logger) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.logger = logger
}

func (g *Graph[T, M]) logf(level logrus.Level, format string, args ...any) {
	if g.logger == nil {
		return
	}
	g.logger.Logf(level, format, args...)
}

// AddNode appends a new node with the given display name and behavior,
// returning its dense index.
func (g *Graph[T, M]) AddNode(name string, behavior bpcore.NodeFunction[T, M]) NodeIndex {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nodes = append(g.nodes, bpcore.NewNode[T, M](name, behavior))
	return NodeIndex(len(g.nodes) - 1)
}

// AddEdge links node0 and node1. It fails with ErrBipartiteViolation if both
// are factors or both are variables, with bpcore.ErrDuplicateEdge or
// bpcore.ErrArityMismatch if either endpoint rejects the edge. The pair
// insert is atomic: if the second side fails, the first side is rolled back.
func (g *Graph[T, M]) AddEdge(node0, node1 NodeIndex) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	n0, err := g.nodeLocked(node0)
	if err != nil {
		return err
	}
	n1, err := g.nodeLocked(node1)
	if err != nil {
		return err
	}
	if n0.IsFactor() == n1.IsFactor() {
		g.logf(logrus.DebugLevel, "cannot link nodes %d and %d: same kind", node0, node1)
		return fmt.Errorf("%w: nodes %d and %d", ErrBipartiteViolation, node0, node1)
	}

	g.logf(logrus.DebugLevel, "connecting nodes %d and %d", node0, node1)
	if err := n0.AddEdge(node1); err != nil {
		return fmt.Errorf("bpgraph: AddEdge(%d, %d): %w", node0, node1, err)
	}
	if err := n1.AddEdge(node0); err != nil {
		n0.RemoveLastEdge(node1)
		return fmt.Errorf("bpgraph: AddEdge(%d, %d): %w", node0, node1, err)
	}
	return nil
}

// Len reports the number of nodes in the graph.
func (g *Graph[T, M]) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// IsEmpty reports whether the graph has no nodes.
func (g *Graph[T, M]) IsEmpty() bool { return g.Len() == 0 }

// FactorNodesCount counts nodes whose behavior is a factor.
func (g *Graph[T, M]) FactorNodesCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n := 0
	for _, node := range g.nodes {
		if node.IsFactor() {
			n++
		}
	}
	return n
}

// VariableNodesCount counts nodes whose behavior is not a factor.
func (g *Graph[T, M]) VariableNodesCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n := 0
	for _, node := range g.nodes {
		if !node.IsFactor() {
			n++
		}
	}
	return n
}

// NodesCount is an alias for Len, matching the spec's nodes_count() name.
func (g *Graph[T, M]) NodesCount() int { return g.Len() }

// IsInitialized reports whether every node has been initialized.
func (g *Graph[T, M]) IsInitialized() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, node := range g.nodes {
		if !node.IsInitialized() {
			return false
		}
	}
	return true
}

// String renders one line per node, in index order.
func (g *Graph[T, M]) String() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var b strings.Builder
	for i, node := range g.nodes {
		fmt.Fprintf(&b, "%d:\t%s\n", i, node)
	}
	return b.String()
}

// nodeLocked returns the node at idx under the caller's already-held lock.
func (g *Graph[T, M]) nodeLocked(idx NodeIndex) (*bpcore.Node[T, M], error) {
	if idx < 0 || int(idx) >= len(g.nodes) {
		return nil, fmt.Errorf("%w: index %d (graph has %d nodes)", ErrIndexOutOfBounds, idx, len(g.nodes))
	}
	return g.nodes[idx], nil
}
