// SPDX-License-Identifier: MIT
//
// errors.go — sentinel errors for the bpcore package.
//
// Error policy (explicit and strict):
//   • Only sentinel variables (package-level) are exposed.
//   • Callers MUST use errors.Is(err, ErrX) to branch on semantics.
//   • Sentinels are NEVER wrapped with formatted strings at definition site;
//     call sites attach context with fmt.Errorf's %w.

package bpcore

import "errors"

// ErrDuplicateEdge indicates AddEdge was asked to connect two nodes that are
// already adjacent.
var ErrDuplicateEdge = errors.New("bpcore: duplicate edge")

// ErrArityMismatch indicates the node's declared NumberInputs disagrees with
// its observed degree, either during AddEdge (would exceed the declared
// arity) or Initialize (degree does not equal the declared arity exactly).
var ErrArityMismatch = errors.New("bpcore: arity mismatch")

// ErrAlreadyInitialized indicates Initialize was called on a node that is
// already initialized; call Reset first.
var ErrAlreadyInitialized = errors.New("bpcore: node already initialized")

// ErrNotInitialized indicates an operation that requires Initialize to have
// run was attempted on a node that has not been initialized.
var ErrNotInitialized = errors.New("bpcore: node not initialized")

// ErrBehaviorError wraps an error returned by user-supplied NodeFunction
// code; CreateMessages enriches it with the node's index and name before
// returning it to the caller.
var ErrBehaviorError = errors.New("bpcore: behavior error")
