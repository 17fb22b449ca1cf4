// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package kitti

import (
	"fmt"
	"slices"
	"sort"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// DataGroup aggregates the DataElems of one example -- all sensor files of
// the same drive and frame. Its decoded content is the union of its
// members', keyed by element name.
type DataGroup struct {
	// Drive shared by every member.
	Drive string

	// Cam is the camera id shared by all camera-bearing members, CamNone
	// when no member has a camera, CamMixed when they disagree (stereo
	// groups).
	Cam int

	frames []int
	elems  []*DataElem
}

// NewDataGroup assembles elements into a group. All elements must agree on
// drive and frame indices (including any attached neighbors); a mismatch
// returns an error wrapping ErrGroupMismatch. At least one element is
// required.
func NewDataGroup(elems ...*DataElem) (*DataGroup, error) {
	if len(elems) == 0 {
		return nil, errors.New("a DataGroup needs at least one element")
	}
	g := &DataGroup{
		Drive:  elems[0].Drive,
		frames: elems[0].Frames(),
	}
	for _, elem := range elems {
		if err := g.Add(elem); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Add appends one element, validating it against the group's drive and
// frame indices. The group's Cam summary is recomputed.
func (g *DataGroup) Add(elem *DataElem) error {
	if elem.Drive != g.Drive {
		return errors.Wrapf(ErrGroupMismatch, "element %q has drive %q, group has %q",
			elem.Name, elem.Drive, g.Drive)
	}
	if !slices.Equal(elem.frames, g.frames) {
		return errors.Wrapf(ErrGroupMismatch, "element %q has frames %v, group has %v",
			elem.Name, elem.frames, g.frames)
	}
	g.elems = append(g.elems, elem)
	g.refreshCam()
	return nil
}

// refreshCam recomputes the camera summary from the members.
func (g *DataGroup) refreshCam() {
	cams := lo.Uniq(lo.FilterMap(g.elems, func(e *DataElem, _ int) (int, bool) {
		return e.Cam, e.Cam != CamNone
	}))
	switch len(cams) {
	case 0:
		g.Cam = CamNone
	case 1:
		g.Cam = cams[0]
	default:
		g.Cam = CamMixed
	}
}

// Frame returns the group's own (most recent) frame index.
func (g *DataGroup) Frame() int { return g.frames[len(g.frames)-1] }

// Frames returns a copy of the group's frame indices, oldest neighbor
// first.
func (g *DataGroup) Frames() []int { return slices.Clone(g.frames) }

// Elems returns the group's members in insertion order.
func (g *DataGroup) Elems() []*DataElem { return g.elems }

// Elem returns the member with the given name, or nil.
func (g *DataGroup) Elem(name string) *DataElem {
	for _, e := range g.elems {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Fields returns the sorted member names.
func (g *DataGroup) Fields() []string {
	fields := lo.Map(g.elems, func(e *DataElem, _ int) string { return e.Name })
	sort.Strings(fields)
	return fields
}

// Remove drops every member with the given name. Removing a name that is
// not present is a no-op.
func (g *DataGroup) Remove(name string) {
	g.elems = lo.Reject(g.elems, func(e *DataElem, _ int) bool { return e.Name == name })
	g.refreshCam()
}

// Data decodes every member and returns the union of their contents keyed
// by element name. The first decoding failure aborts and is returned
// unchanged.
func (g *DataGroup) Data() (map[string]any, error) {
	out := make(map[string]any, len(g.elems))
	for _, elem := range g.elems {
		v, err := elem.Data()
		if err != nil {
			return nil, err
		}
		out[elem.Name] = v
	}
	return out, nil
}

// String implements fmt.Stringer.
func (g *DataGroup) String() string {
	return fmt.Sprintf("DataGroup(drive=%s, frames=%v, cam=%d, fields=%v)",
		g.Drive, g.frames, g.Cam, g.Fields())
}
