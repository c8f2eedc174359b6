package bpcore

import (
	"fmt"
	"sync"

	"github.com/juliusjh/belief-propagation/bpmsg"
)

// Node holds the per-vertex state of a factor graph: a display name, an
// ordered adjacency list (insertion order is the neighbor ordering handed
// to Initialize), an inbox of (from, msg) pairs collected since the last
// drain, and the boxed NodeFunction that decides readiness and computes
// outbound messages.
//
// A Node does not know which graph it belongs to. Adjacency is recorded as
// NodeIndex values only; the owning bpgraph.Graph is responsible for the
// bipartite and symmetric-adjacency invariants across the whole graph.
//
// Concurrency: inboxMu guards the inbox slice so concurrent Phase B workers
// can deposit into distinct nodes' inboxes without contending on a single
// graph-wide lock, and so a single node's deposits serialize. Adjacency and
// behavior state are mutated only during a node's own Phase A turn, when by
// scheduler construction no other worker touches this node; no lock is
// needed for that.
type Node[T comparable, M bpmsg.Msg[T]] struct {
	inboxMu sync.Mutex

	name        string
	adjacency   []NodeIndex
	inbox       []InboxEntry[T, M]
	behavior    NodeFunction[T, M]
	initialized bool
}

// NewNode constructs a Node with the given display name and behavior. The
// inbox is pre-sized to the behavior's declared arity when it declares one.
func NewNode[T comparable, M bpmsg.Msg[T]](name string, behavior NodeFunction[T, M]) *Node[T, M] {
	n := &Node[T, M]{
		name:     name,
		behavior: behavior,
	}
	if k, ok := behavior.NumberInputs(); ok {
		n.inbox = make([]InboxEntry[T, M], 0, k)
	}
	return n
}

// Name returns the node's display name.
func (n *Node[T, M]) Name() string { return n.name }

// Connections returns a copy of the node's adjacency list, in insertion
// order.
func (n *Node[T, M]) Connections() []NodeIndex {
	out := make([]NodeIndex, len(n.adjacency))
	copy(out, n.adjacency)
	return out
}

// HasConnection reports whether to is in this node's adjacency list.
func (n *Node[T, M]) HasConnection(to NodeIndex) bool {
	for _, c := range n.adjacency {
		if c == to {
			return true
		}
	}
	return false
}

// IsFactor reports whether the node's behavior sits on the factor side.
func (n *Node[T, M]) IsFactor() bool { return n.behavior.IsFactor() }

// NumberInputs delegates to the behavior's declared arity.
func (n *Node[T, M]) NumberInputs() (int, bool) { return n.behavior.NumberInputs() }

// IsInitialized reports whether Initialize has run since construction or
// the last Reset.
func (n *Node[T, M]) IsInitialized() bool { return n.initialized }

// AddEdge records an adjacency to to. It rejects duplicates and, when the
// behavior declares a fixed arity, rejects additions once the declared
// arity would be exceeded.
func (n *Node[T, M]) AddEdge(to NodeIndex) error {
	if n.HasConnection(to) {
		return fmt.Errorf("node %q: add edge to %d: %w", n.name, to, ErrDuplicateEdge)
	}
	if k, ok := n.behavior.NumberInputs(); ok && len(n.adjacency) >= k {
		return fmt.Errorf("node %q: add edge to %d would exceed declared arity %d: %w", n.name, to, k, ErrArityMismatch)
	}
	n.adjacency = append(n.adjacency, to)
	return nil
}

// RemoveLastEdge drops the most recently added adjacency to to, if it is
// indeed the last entry. It exists solely to roll back AddEdge's pair-insert
// when the second endpoint rejects the edge; callers must not use it for
// general adjacency mutation.
func (n *Node[T, M]) RemoveLastEdge(to NodeIndex) {
	if len(n.adjacency) > 0 && n.adjacency[len(n.adjacency)-1] == to {
		n.adjacency = n.adjacency[:len(n.adjacency)-1]
	}
}

// Initialize fixes the node's neighbor list and hands it to the behavior.
// It is idempotent only via Reset: calling Initialize twice without an
// intervening Reset fails with ErrAlreadyInitialized. If the behavior
// declares a fixed arity, the observed degree must equal it exactly.
func (n *Node[T, M]) Initialize() error {
	if n.initialized {
		return fmt.Errorf("node %q: %w", n.name, ErrAlreadyInitialized)
	}
	if k, ok := n.behavior.NumberInputs(); ok && len(n.adjacency) != k {
		return fmt.Errorf("node %q: has %d connections, needs exactly %d: %w", n.name, len(n.adjacency), k, ErrArityMismatch)
	}
	if err := n.behavior.Initialize(n.Connections()); err != nil {
		return fmt.Errorf("node %q: initialize behavior: %w", n.name, err)
	}
	n.initialized = true
	return nil
}

// Reset returns the node to its pre-initialization state: the behavior is
// reset, the inbox is cleared (re-sized to the declared arity if any), and
// Initialize may be called again.
func (n *Node[T, M]) Reset() error {
	n.inboxMu.Lock()
	defer n.inboxMu.Unlock()

	if err := n.behavior.Reset(); err != nil {
		return fmt.Errorf("node %q: reset behavior: %w", n.name, err)
	}
	if k, ok := n.behavior.NumberInputs(); ok {
		n.inbox = make([]InboxEntry[T, M], 0, k)
	} else {
		n.inbox = nil
	}
	n.initialized = false
	return nil
}

// SendPost appends (from, msg) to the node's inbox. It is the single
// mutation point the parallel scheduler's Phase B needs to serialize on a
// per-destination-node basis.
func (n *Node[T, M]) SendPost(from NodeIndex, msg M) {
	n.inboxMu.Lock()
	defer n.inboxMu.Unlock()

	n.inbox = append(n.inbox, InboxEntry[T, M]{From: from, Msg: msg})
}

// ReadPost atomically empties the inbox and returns its prior contents; the
// inbox's capacity is reset to the behavior's declared arity (if any).
func (n *Node[T, M]) ReadPost() []InboxEntry[T, M] {
	n.inboxMu.Lock()
	defer n.inboxMu.Unlock()

	out := n.inbox
	if k, ok := n.behavior.NumberInputs(); ok {
		n.inbox = make([]InboxEntry[T, M], 0, k)
	} else {
		n.inbox = make([]InboxEntry[T, M], 0, len(n.adjacency))
	}
	return out
}

// CloneInbox returns a snapshot of the current inbox contents without
// draining it; used for read-only observation (bpgraph.Graph.GetInbox and
// GetResult).
func (n *Node[T, M]) CloneInbox() []InboxEntry[T, M] {
	n.inboxMu.Lock()
	defer n.inboxMu.Unlock()

	out := make([]InboxEntry[T, M], len(n.inbox))
	copy(out, n.inbox)
	return out
}

// IsReady delegates to the behavior, passing a live view of the current
// inbox without draining it.
func (n *Node[T, M]) IsReady(step int) (bool, error) {
	n.inboxMu.Lock()
	inbox := make([]InboxEntry[T, M], len(n.inbox))
	copy(inbox, n.inbox)
	n.inboxMu.Unlock()

	ready, err := n.behavior.IsReady(inbox, step)
	if err != nil {
		return false, fmt.Errorf("node %q: is ready: %w", n.name, err)
	}
	return ready, nil
}

// DiscardMode delegates to the behavior's reserved hint.
func (n *Node[T, M]) DiscardMode() bool { return n.behavior.DiscardMode() }

// GetPrior delegates to the behavior's optional standing contribution.
func (n *Node[T, M]) GetPrior() (M, bool) { return n.behavior.GetPrior() }

// SendControlMessage routes ctrl into the behavior's control channel.
func (n *Node[T, M]) SendControlMessage(ctrl ControlMessage) (ControlAck, error) {
	ack, err := n.behavior.SendControlMessage(ctrl)
	if err != nil {
		return nil, fmt.Errorf("node %q: send control message: %w", n.name, err)
	}
	return ack, nil
}

// CreateMessages drains the inbox and delegates to the behavior, enriching
// any returned error with this node's index and name. idx is supplied by
// the caller (the node does not know its own index in the graph).
func (n *Node[T, M]) CreateMessages(idx NodeIndex) ([]InboxEntry[T, M], error) {
	incoming := n.ReadPost()
	out, err := n.behavior.RunNodeFunction(incoming)
	if err != nil {
		return nil, fmt.Errorf("node %d (%q): %w: %w", idx, n.name, ErrBehaviorError, err)
	}
	return out, nil
}

// String renders the node's name and current adjacency, mirroring the
// original source's Display impl.
func (n *Node[T, M]) String() string {
	return fmt.Sprintf("%s %v", n.name, n.adjacency)
}
