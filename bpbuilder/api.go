// SPDX-License-Identifier: MIT
// Package: belief-propagation/bpbuilder

package bpbuilder

import (
	"fmt"

	"github.com/juliusjh/belief-propagation/bpcore"
	"github.com/juliusjh/belief-propagation/bpgraph"
	"github.com/juliusjh/belief-propagation/bpmsg"
)

// Constructor applies a deterministic mutation to a freshly created Graph
// using the resolved config. Constructors must validate parameters early,
// return sentinel errors (never panic), and emit nodes/edges in a stable
// order so BuildGraph is reproducible for identical inputs.
type Constructor[T comparable, M bpmsg.Msg[T]] func(g *bpgraph.Graph[T, M], cfg config) error

// config holds the deterministic-naming knobs shared by every topology
// factory in this package.
type config struct {
	variablePrefix string
	factorPrefix   string
}

// Option customizes the behavior of a topology constructor.
type Option func(cfg *config)

// WithVariablePrefix overrides the default "V" display-name prefix used for
// variable nodes. A empty prefix is a no-op.
func WithVariablePrefix(prefix string) Option {
	return func(cfg *config) {
		if prefix != "" {
			cfg.variablePrefix = prefix
		}
	}
}

// WithFactorPrefix overrides the default "F" display-name prefix used for
// factor nodes. An empty prefix is a no-op.
func WithFactorPrefix(prefix string) Option {
	return func(cfg *config) {
		if prefix != "" {
			cfg.factorPrefix = prefix
		}
	}
}

func newConfig(opts ...Option) config {
	cfg := config{variablePrefix: "V", factorPrefix: "F"}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// BuildGraph creates a new bpgraph.Graph with gopts, resolves the builder
// config from opts, and applies every constructor in order. A constructor
// error is wrapped with "BuildGraph: %w" and returned immediately; no
// partial cleanup is attempted, matching the teacher pattern's contract
// that a failed build is simply discarded by the caller.
func BuildGraph[T comparable, M bpmsg.Msg[T]](gopts []bpgraph.GraphOption[T, M], opts []Option, cons ...Constructor[T, M]) (*bpgraph.Graph[T, M], error) {
	g := bpgraph.New[T, M](gopts...)
	cfg := newConfig(opts...)

	for i, fn := range cons {
		if fn == nil {
			return nil, fmt.Errorf("BuildGraph: nil constructor at index %d: %w", i, ErrConstructFailed)
		}
		if err := fn(g, cfg); err != nil {
			return nil, fmt.Errorf("BuildGraph: %w", err)
		}
	}
	return g, nil
}

// VariableFactory produces the behavior for the i-th variable node of a
// topology (0-indexed).
type VariableFactory[T comparable, M bpmsg.Msg[T]] func(i int) bpcore.NodeFunction[T, M]

// FactorFactory produces the behavior for the i-th factor node of a
// topology (0-indexed).
type FactorFactory[T comparable, M bpmsg.Msg[T]] func(i int) bpcore.NodeFunction[T, M]
