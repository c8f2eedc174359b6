// SPDX-License-Identifier: MIT
// Package: belief-propagation/bpbuilder

package bpbuilder

import (
	"fmt"

	"github.com/juliusjh/belief-propagation/bpcore"
	"github.com/juliusjh/belief-propagation/bpgraph"
	"github.com/juliusjh/belief-propagation/bpmsg"
)

// Chain builds a linear factor graph of n variable nodes V0..V(n-1) joined
// by n-1 factor nodes F1..F(n-1), each factor connecting the pair of
// variables on either side of it: V(i-1) -- F(i) -- V(i). This is the
// topology used by scenario S1 (the doubling chain).
//
// variableAt and factorAt are called with the 0-indexed position of the
// node within the chain; factorAt is called n-1 times for the factors
// between consecutive variables (index 1..n-1, matching the variable it
// precedes). Node names are assigned deterministically as
// "<variablePrefix><i>" and "<factorPrefix><i>".
func Chain[T comparable, M bpmsg.Msg[T]](n int, variableAt VariableFactory[T, M], factorAt FactorFactory[T, M]) Constructor[T, M] {
	return func(g *bpgraph.Graph[T, M], cfg config) error {
		if n < 2 {
			return fmt.Errorf("Chain: n=%d: %w", n, ErrTooFewVariables)
		}
		if variableAt == nil {
			return fmt.Errorf("Chain: %w", ErrNilVariableFactory)
		}
		if factorAt == nil {
			return fmt.Errorf("Chain: %w", ErrNilFactorFactory)
		}

		varIdx := make([]bpcore.NodeIndex, n)
		for i := 0; i < n; i++ {
			name := fmt.Sprintf("%s%d", cfg.variablePrefix, i)
			varIdx[i] = g.AddNode(name, variableAt(i))
		}

		for i := 1; i < n; i++ {
			name := fmt.Sprintf("%s%d", cfg.factorPrefix, i)
			fIdx := g.AddNode(name, factorAt(i))
			if err := g.AddEdge(varIdx[i-1], fIdx); err != nil {
				return fmt.Errorf("Chain: linking V%d to F%d: %w", i-1, i, err)
			}
			if err := g.AddEdge(varIdx[i], fIdx); err != nil {
				return fmt.Errorf("Chain: linking V%d to F%d: %w", i, i, err)
			}
		}
		return nil
	}
}
