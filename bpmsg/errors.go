// SPDX-License-Identifier: MIT
//
// errors.go — sentinel errors for the bpmsg package.
//
// Error policy (explicit and strict):
//   • Only sentinel variables (package-level) are exposed.
//   • Callers MUST use errors.Is(err, ErrX) to branch on semantics.
//   • Implementations attach call-site context with fmt.Errorf's %w, never
//     by stringifying parameters into the sentinel itself.

package bpmsg

import "errors"

// ErrEmptyMessage indicates Normalize (or a MultMsg that calls it) was asked
// to rescale a message with an empty support.
var ErrEmptyMessage = errors.New("bpmsg: message has empty support")

// ErrDegenerate indicates MaxScale could not rescale a message because the
// maximum absolute value across its support is zero or NaN.
var ErrDegenerate = errors.New("bpmsg: degenerate message (max is zero or NaN)")
