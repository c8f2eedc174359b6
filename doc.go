// Package bp is a generic belief-propagation engine over bipartite factor
// graphs: variable nodes carrying distributions on one side, factor nodes
// carrying local functions on the other, exchanging messages along edges
// until marginals can be read off any variable node.
//
// The engine is split across five subpackages:
//
//	bpmsg/        — the Msg[T] contract and its default hash-map realization
//	bpcore/       — NodeFunction, Node, and shared sentinel errors/types
//	variablenode/ — the standard variable-side combine (two-pass prefix/suffix)
//	bpgraph/      — Graph construction, validation, and the sequential/
//	                parallel propagation scheduler
//	bpbuilder/    — deterministic constructors for common factor-graph shapes
//
// Factor-node behavior is user-supplied: implement bpcore.NodeFunction for
// your local function/table and wire it in with bpgraph.Graph.AddNode, the
// same way variablenode.VariableNode wires in the standard variable
// behavior.
//
//	go get github.com/juliusjh/belief-propagation/bpgraph
package bp
