// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package transforms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyToFeaturesSharedRandState(t *testing.T) {
	state := NewRandState(1, 2)
	noisy := func(v any) any {
		return v.(float64) + state.Rand.Float64()
	}

	transform := ApplyToFeatures(noisy, []string{"a", "b"}, state)
	out := transform(map[string]any{"a": 1.0, "b": 1.0, "c": 1.0})

	// Same input, same replayed randomness: both features get the same
	// perturbation. Unselected features are untouched.
	assert.Equal(t, out["a"], out["b"])
	assert.NotEqual(t, 1.0, out["a"])
	assert.Equal(t, 1.0, out["c"])
}

func TestApplyToFeaturesDistinctAcrossExamples(t *testing.T) {
	state := NewRandState(1, 2)
	noisy := func(v any) any {
		return v.(float64) + state.Rand.Float64()
	}
	transform := ApplyToFeatures(noisy, nil, state)

	first := transform(map[string]any{"a": 1.0})
	second := transform(map[string]any{"a": 1.0})
	assert.NotEqual(t, first["a"], second["a"], "the generator advances between examples")
}

func TestApplyToFeaturesWithoutState(t *testing.T) {
	calls := 0
	bump := func(v any) any {
		calls++
		return v.(int) + 1
	}
	transform := ApplyToFeatures(bump, nil, nil)
	in := map[string]any{"a": 1, "b": 2}
	out := transform(in)
	assert.Equal(t, 2, out["a"])
	assert.Equal(t, 3, out["b"])
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, in["a"], "the input map is not mutated")
}

func TestRandStateSnapshotRestore(t *testing.T) {
	state := NewRandState(7, 7)
	snapshot := state.Snapshot()
	first := state.Rand.Uint64()
	state.Restore(snapshot)
	require.Equal(t, first, state.Rand.Uint64())
}

func TestAddFeatures(t *testing.T) {
	derive := func(example map[string]any) map[string]any {
		return map[string]any{"sum": example["a"].(int) + example["b"].(int), "a": 0}
	}
	out := AddFeatures(derive)(map[string]any{"a": 1, "b": 2})
	assert.Equal(t, 3, out["sum"])
	assert.Equal(t, 0, out["a"], "derived features win on collision")
	assert.Equal(t, 2, out["b"])
}

func TestChain(t *testing.T) {
	add := func(k string) func(map[string]any) map[string]any {
		return func(example map[string]any) map[string]any {
			example[k] = len(example)
			return example
		}
	}
	out := Chain(add("x"), nil, add("y"))(map[string]any{})
	assert.Equal(t, 0, out["x"])
	assert.Equal(t, 1, out["y"])
}
