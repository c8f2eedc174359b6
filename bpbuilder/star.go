// SPDX-License-Identifier: MIT
// Package: belief-propagation/bpbuilder

package bpbuilder

import (
	"fmt"

	"github.com/juliusjh/belief-propagation/bpcore"
	"github.com/juliusjh/belief-propagation/bpgraph"
	"github.com/juliusjh/belief-propagation/bpmsg"
)

const minStarLeaves = 2

// Star builds a hub-and-spoke topology: a single central factor node named
// "<factorPrefix>Center", connected to n leaf variable nodes named
// "<variablePrefix>0".."<variablePrefix>(n-1)". This is the shape of a
// single high-arity constraint over n variables, as opposed to Chain's
// sequence of binary constraints.
//
// leafAt is called with the 0-indexed leaf position; hub is the behavior
// for the central factor (its NumberInputs must accept arity n).
func Star[T comparable, M bpmsg.Msg[T]](n int, hub bpcore.NodeFunction[T, M], leafAt VariableFactory[T, M]) Constructor[T, M] {
	return func(g *bpgraph.Graph[T, M], cfg config) error {
		if n < minStarLeaves {
			return fmt.Errorf("Star: n=%d: %w", n, ErrTooFewVariables)
		}
		if leafAt == nil {
			return fmt.Errorf("Star: %w", ErrNilVariableFactory)
		}
		if hub == nil {
			return fmt.Errorf("Star: %w", ErrNilFactorFactory)
		}

		hubIdx := g.AddNode(cfg.factorPrefix+"Center", hub)
		for i := 0; i < n; i++ {
			name := fmt.Sprintf("%s%d", cfg.variablePrefix, i)
			leafIdx := g.AddNode(name, leafAt(i))
			if err := g.AddEdge(hubIdx, leafIdx); err != nil {
				return fmt.Errorf("Star: linking Center to V%d: %w", i, err)
			}
		}
		return nil
	}
}
