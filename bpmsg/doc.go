// SPDX-License-Identifier: MIT
//
// Package bpmsg defines the Msg[T] contract: a finite, non-negative mapping
// from a discrete domain value T to a Probability, plus the pointwise
// multiply/normalize/validate operations the propagation engine needs.
//
// HashMsg[T] is the default realization, backed by a plain Go map. Its
// Normalize scales every entry by the size of the support rather than
// dividing by the sum or the max — this mirrors an anomaly present in the
// original implementation (see MaxScale) and is preserved
// deliberately rather than silently corrected. Callers that need a
// textbook-normalized distribution (marginal readout, diagnostics) should
// use MaxScale, which always divides by the maximum absolute value.
package bpmsg
