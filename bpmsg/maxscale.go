package bpmsg

import "math"

// MaxScale divides every entry of m by the maximum absolute value across its
// support, returning a plain map as the exported, representation-agnostic
// distribution snapshot. It fails with ErrDegenerate if the maximum is zero
// or NaN, and with ErrEmptyMessage if m has no entries at all.
//
// This is the rescaling rule the spec recommends implementations lock in
// consistently (in place of HashMsg.Normalize's |support|-scaling anomaly)
// for anywhere a true comparable distribution is required: marginal
// readout uses it unconditionally.
func MaxScale[T comparable](m Msg[T]) (map[T]Probability, error) {
	entries := m.Entries()
	if len(entries) == 0 {
		return nil, ErrEmptyMessage
	}

	max := math.NaN()
	for _, e := range entries {
		abs := math.Abs(e.P)
		if math.IsNaN(max) || abs > max {
			max = abs
		}
	}
	if math.IsNaN(max) || max == 0 {
		return nil, ErrDegenerate
	}

	out := make(map[T]Probability, len(entries))
	for _, e := range entries {
		out[e.Value] = e.P / max
	}
	return out, nil
}
