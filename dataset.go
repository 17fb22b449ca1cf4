// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package kitti

import "github.com/pkg/errors"

// Transform maps a materialized example -- the name→content union of one
// DataGroup -- to its final form. Transforms compose with the helpers in
// the transforms sub-package.
type Transform func(example map[string]any) map[string]any

// Dataset is a sequence view over the DataGroups built by a dataset
// package, applying a final user transform to each materialized example.
//
// The order of examples follows the order anchors were discovered by the
// directory walk; callers needing a particular order must sort the groups
// themselves.
//
// Dataset does no locking: decoding mutates the accessed group's element
// caches, so concurrent access to the same index must be serialized by the
// caller (decoding is pure, a racing duplicate decode is wasted work, not
// corruption).
type Dataset struct {
	groups    []*DataGroup
	transform Transform
}

// NewDataset wraps groups into a dataset. A nil transform is the identity.
func NewDataset(groups []*DataGroup, transform Transform) *Dataset {
	return &Dataset{groups: groups, transform: transform}
}

// Len returns the number of examples.
func (ds *Dataset) Len() int { return len(ds.groups) }

// Groups exposes the underlying groups, e.g. for sorting or field
// removal before first use.
func (ds *Dataset) Groups() []*DataGroup { return ds.groups }

// Group returns the i-th group without materializing it.
func (ds *Dataset) Group(i int) *DataGroup { return ds.groups[i] }

// At materializes example i: every element of the i-th group is decoded
// (lazily, memoized per element) and the transform is applied to the
// resulting mapping.
func (ds *Dataset) At(i int) (map[string]any, error) {
	if i < 0 || i >= len(ds.groups) {
		return nil, errors.Errorf("example index %d out of range [0, %d)", i, len(ds.groups))
	}
	example, err := ds.groups[i].Data()
	if err != nil {
		return nil, err
	}
	if ds.transform != nil {
		example = ds.transform(example)
	}
	return example, nil
}
