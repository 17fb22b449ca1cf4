// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package transforms composes example-map transformations.
//
// The helpers here build kitti.Transform values: functions from one
// example map to another, applied by the datasets to every example they
// serve.
package transforms

import (
	"maps"
	"math/rand/v2"
	"sort"

	"github.com/gomlx/kitti"
)

// RandState couples a PRNG with the ability to snapshot and restore its
// state, so one random transformation can be replayed identically on
// several features of the same example.
type RandState struct {
	src *rand.PCG

	// Rand draws from the snapshot-able source. Transformations needing
	// randomness should use it exclusively.
	Rand *rand.Rand
}

// NewRandState creates a RandState seeded from the two words.
func NewRandState(seed1, seed2 uint64) *RandState {
	src := rand.NewPCG(seed1, seed2)
	return &RandState{src: src, Rand: rand.New(src)}
}

// Snapshot captures the current generator state.
func (s *RandState) Snapshot() []byte {
	b, err := s.src.MarshalBinary()
	if err != nil {
		// PCG marshaling cannot fail.
		panic(err)
	}
	return b
}

// Restore rewinds the generator to a state captured with Snapshot.
func (s *RandState) Restore(snapshot []byte) {
	if err := s.src.UnmarshalBinary(snapshot); err != nil {
		panic(err)
	}
}

// ApplyToFeatures builds a Transform applying fn to a subset of the
// features of an example. A nil features slice selects all of them, in
// sorted key order.
//
// With a non-nil state, the generator state is snapshotted once and
// restored before each application, so even random transformations treat
// every selected feature the same way. The generator is stepped once
// before the snapshot, distinct examples still see distinct draws.
func ApplyToFeatures(fn func(any) any, features []string, state *RandState) kitti.Transform {
	return func(example map[string]any) map[string]any {
		selected := features
		if selected == nil {
			selected = make([]string, 0, len(example))
			for name := range example {
				selected = append(selected, name)
			}
			sort.Strings(selected)
		}

		var snapshot []byte
		if state != nil {
			state.Rand.Uint64()
			snapshot = state.Snapshot()
		}

		out := maps.Clone(example)
		for _, feature := range selected {
			if state != nil {
				state.Restore(snapshot)
			}
			out[feature] = fn(example[feature])
		}
		return out
	}
}

// AddFeatures builds a Transform merging the result of fn into the
// example: existing features are kept, colliding names are overwritten by
// fn's output. Useful to derive new features from decoded ones.
func AddFeatures(fn func(map[string]any) map[string]any) kitti.Transform {
	return func(example map[string]any) map[string]any {
		out := maps.Clone(example)
		maps.Copy(out, fn(example))
		return out
	}
}

// Chain composes transforms left to right. Nil entries are skipped.
func Chain(list ...kitti.Transform) kitti.Transform {
	return func(example map[string]any) map[string]any {
		for _, t := range list {
			if t == nil {
				continue
			}
			example = t(example)
		}
		return example
	}
}
