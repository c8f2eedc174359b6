// SPDX-License-Identifier: MIT
//
// Package variablenode implements the standard variable-side NodeFunction:
// an optional prior, a readiness policy governed by InputNeed, and the
// two-pass prefix/suffix combine that computes, for every neighbor j, the
// product of the prior (if any) and every inbox message *except* the one
// received from j — in O(n) message multiplications rather than the naive
// O(n*A).
package variablenode
