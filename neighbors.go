// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package kitti

import (
	"math/rand/v2"

	"github.com/gomlx/gomlx/pkg/support/fsutil"
	"github.com/pkg/errors"
)

// PrevPolicy selects which previous frame, if any, is attached to the
// elements of an example. The zero value disables previous-frame loading.
type PrevPolicy struct {
	low, high int
	ranged    bool
	set       bool
}

// FixedPrev attaches the frame k steps before the current one.
// FixedPrev(0) disables previous-frame loading.
func FixedPrev(k int) PrevPolicy {
	return PrevPolicy{low: k, high: k, set: true}
}

// RandomPrev attaches a frame between low and high (inclusive) steps before
// the current one. The offset is drawn once per example and reused for all
// of its elements.
func RandomPrev(low, high int) PrevPolicy {
	return PrevPolicy{low: low, high: high, ranged: true, set: true}
}

// Enabled reports whether the policy requests a previous frame.
func (p PrevPolicy) Enabled() bool {
	return p.set && (p.ranged || p.low != 0)
}

// Validate returns an error wrapping ErrInvalidConfig for negative offsets
// or an inverted range.
func (p PrevPolicy) Validate() error {
	if !p.set {
		return nil
	}
	if p.low < 0 || p.high < 0 {
		return errors.Wrapf(ErrInvalidConfig, "previous-frame offsets must be non-negative, got (%d, %d)", p.low, p.high)
	}
	if p.ranged && p.low > p.high {
		return errors.Wrapf(ErrInvalidConfig, "previous-frame range (%d, %d) has low > high", p.low, p.high)
	}
	return nil
}

// PrevResolver attaches temporal neighbors to the elements of one example.
//
// A resolver is bound to the example's anchor element: neighbor existence
// is always probed on paths derived from the anchor, so every modality of
// the example makes the same keep-or-fallback decision. For RandomPrev
// policies the offset is drawn on the first Resolve call and cached, which
// keeps all elements of the example on the same neighbor.
//
// Missing neighbors never fail: the element's current frame is attached
// again in place of the absent one, so a "previous" slot is always
// populated.
type PrevResolver struct {
	base *DataElem
	rng  *rand.Rand

	delta  int
	chosen bool
}

// NewPrevResolver creates a resolver bound to the example's anchor element.
func NewPrevResolver(base *DataElem) *PrevResolver {
	return &PrevResolver{base: base}
}

// WithRand sets the random source used to draw RandomPrev offsets. Without
// it the shared math/rand/v2 generator is used.
func (r *PrevResolver) WithRand(rng *rand.Rand) *PrevResolver {
	r.rng = rng
	return r
}

func (r *PrevResolver) intN(n int) int {
	if r.rng != nil {
		return r.rng.IntN(n)
	}
	return rand.IntN(n)
}

// neighborExists probes whether the anchor's file for the given frame
// exists on disk.
func (r *PrevResolver) neighborExists(frame int) bool {
	return fsutil.MustFileExists(r.base.PathForFrame(frame))
}

// Resolve mutates elem according to the previous-frame policy and the
// sequence length, and returns it.
//
// With an enabled policy, the chosen offset's frame is prepended if the
// anchor's file for it exists, otherwise the current frame is prepended
// unchanged. With seqLen == n > 1, frames current-1 .. current-(n-1) are
// prepended in turn, each missing one replaced by the current frame.
//
// Requesting both at once is a configuration error.
func (r *PrevResolver) Resolve(elem *DataElem, prev PrevPolicy, seqLen int) (*DataElem, error) {
	if prev.Enabled() && seqLen > 1 {
		return nil, errors.Wrap(ErrInvalidConfig, "previous-frame and frame-sequence loading cannot be combined")
	}

	if prev.Enabled() {
		if !r.chosen {
			r.delta = prev.low
			if prev.ranged && prev.high > prev.low {
				r.delta += r.intN(prev.high - prev.low + 1)
			}
			r.chosen = true
		}
		if target := elem.Frame() - r.delta; r.neighborExists(target) {
			elem.PrependFrame(target)
		} else {
			elem.PrependFrame(elem.Frame())
		}
	}

	if seqLen > 1 {
		anchor := elem.Frame()
		for delta := 1; delta < seqLen; delta++ {
			if target := anchor - delta; r.neighborExists(target) {
				elem.PrependFrame(target)
			} else {
				elem.PrependFrame(anchor)
			}
		}
	}
	return elem, nil
}
