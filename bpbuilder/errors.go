// SPDX-License-Identifier: MIT
// Package: belief-propagation/bpbuilder
//
// errors.go — sentinel errors for the bpbuilder package.
//
// Error policy: only sentinel variables are exposed; callers branch with
// errors.Is. Constructors wrap these with call-site context via fmt.Errorf's
// %w; sentinels themselves are never stringified with parameters.

package bpbuilder

import "errors"

// ErrTooFewVariables indicates a topology factory was asked for fewer
// variable nodes than its minimum (2 for both Chain and Star).
var ErrTooFewVariables = errors.New("bpbuilder: too few variable nodes requested")

// ErrNilFactorFactory indicates a topology factory was not given a function
// to construct the factor behavior placed between variables.
var ErrNilFactorFactory = errors.New("bpbuilder: nil factor factory")

// ErrNilVariableFactory indicates a topology factory was not given a
// function to construct each variable's behavior.
var ErrNilVariableFactory = errors.New("bpbuilder: nil variable factory")

// ErrConstructFailed indicates BuildGraph was handed a nil Constructor, or a
// constructor otherwise failed in a way with no more specific sentinel.
var ErrConstructFailed = errors.New("bpbuilder: construction failed")
