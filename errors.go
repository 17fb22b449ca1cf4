// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package kitti

import "github.com/pkg/errors"

// The error taxonomy of the package. Errors returned by this package (and by
// the dataset packages built on it) wrap one of the sentinels below, so
// callers can classify failures with errors.Is while still getting the
// offending path or parameter in the message.
//
// Decoding errors are deliberately absent: a decoder's error is returned
// unchanged by DataElem.Data.
var (
	// ErrDriveNotInferable indicates no drive token
	// (<date>_drive_<nnnn>_sync) was found in a path.
	ErrDriveNotInferable = errors.New("cannot infer drive from path, provide it explicitly")

	// ErrDateNotInferable indicates a drive identifier without a leading
	// <yyyy>_<mm>_<dd> date.
	ErrDateNotInferable = errors.New("cannot extract date from drive")

	// ErrFrameNotInferable indicates no 10-digit frame token was found in
	// a path.
	ErrFrameNotInferable = errors.New("cannot infer frame index from path, provide it explicitly")

	// ErrCamNotInferable indicates no image_<nn> token was found in a path.
	ErrCamNotInferable = errors.New("cannot infer camera from path, provide it explicitly")

	// ErrInvalidConfig is wrapped by all construction-time parameter
	// validation failures: unknown subset, malformed previous-frame
	// policies, mutually exclusive options requested together,
	// out-of-range camera ids.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrGroupMismatch is returned when an element added to a DataGroup
	// disagrees with the group's drive or frame index.
	ErrGroupMismatch = errors.New("all elements of a group must share drive and frame index")
)
