// SPDX-License-Identifier: MIT
// Package: belief-propagation/bpbuilder
//
// Package bpbuilder provides deterministic, composable constructors for
// canonical bipartite factor-graph topologies, adapted from the lvlath
// builder package's Constructor/BuildGraph pattern: each topology factory
// returns a Constructor closure; BuildGraph resolves a config from
// Options and applies constructors to a fresh bpgraph.Graph in order.
//
// Constructors never panic; they return sentinel errors from this package
// wrapped with call-site context, and they never add edges or nodes once a
// prior constructor in the same BuildGraph call has failed.
package bpbuilder
