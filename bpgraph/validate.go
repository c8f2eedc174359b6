// SPDX-License-Identifier: MIT

package bpgraph

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/juliusjh/belief-propagation/bpcore"
)

// IsValid reports whether every node has at least one edge, every declared
// arity matches the observed degree, and every adjacency is symmetric. It
// mirrors the spec's boolean-only contract; use Validate for the full list
// of violations.
func (g *Graph[T, M]) IsValid() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.isValidLocked()
}

func (g *Graph[T, M]) isValidLocked() bool {
	g.logf(logrus.DebugLevel, "checking graph")
	for i := range g.nodes {
		if !g.isValidNodeLocked(NodeIndex(i)) {
			return false
		}
	}
	return true
}

func (g *Graph[T, M]) isValidNodeLocked(idx NodeIndex) bool {
	node, err := g.nodeLocked(idx)
	if err != nil {
		g.logf(logrus.InfoLevel, "could not find node %d", idx)
		return false
	}
	conns := node.Connections()
	if len(conns) == 0 {
		g.logf(logrus.InfoLevel, "node %d has no edges", idx)
		return false
	}
	if k, ok := node.NumberInputs(); ok && k != len(conns) {
		g.logf(logrus.InfoLevel, "node %d has %d connections, needs %d", idx, len(conns), k)
		return false
	}
	for _, c := range conns {
		peer, err := g.nodeLocked(c)
		if err != nil {
			g.logf(logrus.InfoLevel, "could not find node %d in connections of %d", c, idx)
			return false
		}
		if !peer.HasConnection(idx) {
			g.logf(logrus.InfoLevel, "%d does not list %d as a connection but %d lists %d", c, idx, idx, c)
			return false
		}
	}
	return true
}

// Validate collects every structural violation IsValid would otherwise
// collapse into a single bool, aggregated with go-multierror so callers can
// inspect or report all of them at once rather than stopping at the first.
func (g *Graph[T, M]) Validate() error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var result *multierror.Error
	for i, node := range g.nodes {
		idx := NodeIndex(i)
		conns := node.Connections()
		if len(conns) == 0 {
			result = multierror.Append(result, fmt.Errorf("node %d (%q): no edges", idx, node.Name()))
			continue
		}
		if k, ok := node.NumberInputs(); ok && k != len(conns) {
			result = multierror.Append(result, fmt.Errorf("node %d (%q): %w: has %d, needs %d", idx, node.Name(), bpcore.ErrArityMismatch, len(conns), k))
		}
		for _, c := range conns {
			peer, err := g.nodeLocked(c)
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("node %d (%q): neighbor %d: %w", idx, node.Name(), c, err))
				continue
			}
			if peer.IsFactor() == node.IsFactor() {
				result = multierror.Append(result, fmt.Errorf("node %d (%q) and %d (%q): %w", idx, node.Name(), c, peer.Name(), ErrBipartiteViolation))
			}
			if !peer.HasConnection(idx) {
				result = multierror.Append(result, fmt.Errorf("node %d (%q) does not list %d (%q) as a neighbor though the reverse holds", c, peer.Name(), idx, node.Name()))
			}
		}
	}
	return result.ErrorOrNil()
}
