// SPDX-License-Identifier: MIT
//
// Package bpcore defines NodeFunction, the polymorphic per-node behavior
// plug-in, and Node, the per-vertex state (name, adjacency, inbox, and a
// delegated NodeFunction) that bpgraph.Graph assembles into a factor graph.
//
// Nodes do not know the graph they belong to; they know only the
// NodeIndex handles of their neighbors, handed to them once at
// Initialize time. All adjacency and inbox bookkeeping here is generic
// over the domain type T and its message representation M (constrained to
// bpmsg.Msg[T]); NodeFunction implementations are supplied externally —
// variablenode.VariableNode is the one standard realization this module
// carries, factor-node behavior is always user code.
package bpcore
