// SPDX-License-Identifier: MIT
//
// Package bpgraph owns the graph of bpcore.Nodes, enforces the bipartite
// variable/factor invariant, and drives propagation.
//
// A Graph is built with New, populated with AddNode/AddEdge, seeded with
// Initialize or InitializeNode/InitializeNodeConstantMsg, then advanced with
// Propagate/PropagateStep (sequential) or PropagateThreaded/
// PropagateStepThreaded (worker-pool parallel). GetResult reads a marginal
// back out of a variable node's inbox and prior.
//
// One propagation step is two strictly ordered phases: Phase A asks every
// ready node to create its outbound messages without touching any inbox;
// Phase B validates, optionally normalizes, and deposits each message into
// its destination's inbox under that node's own lock. The threaded variants
// run both phases over worker pools draining a shared batch queue, but never
// blur the Phase A / Phase B barrier.
package bpgraph
