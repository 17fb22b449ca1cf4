// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package kitti

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Lexical patterns of the KITTI naming convention. Extraction is purely
// textual: no filesystem access, first match wins. This means a dataset root
// that itself contains a drive-like or date-like substring shadows the real
// token further down the path -- a known limitation, kept for compatibility
// with the datasets' reference tooling.
var (
	driveRegexp = regexp.MustCompile(`[0-9]+_[0-9]+_[0-9]+_drive_[0-9]+_sync`)
	dateRegexp  = regexp.MustCompile(`[0-9]+_[0-9]+_[0-9]+`)
	frameRegexp = regexp.MustCompile(`[0-9]{10}`)
	camRegexp   = regexp.MustCompile(`image_[0-9]{2}`)
)

// normalizePath converts OS-specific separators to forward slashes, the form
// all patterns are matched against.
func normalizePath(p string) string {
	return filepath.ToSlash(p)
}

// DriveFromPath extracts the drive identifier
// ("<date>_drive_<nnnn>_sync") embedded in path.
// It returns an error wrapping ErrDriveNotInferable if path carries no such
// token.
func DriveFromPath(path string) (string, error) {
	if m := driveRegexp.FindString(normalizePath(path)); m != "" {
		return m, nil
	}
	return "", errors.Wrapf(ErrDriveNotInferable, "path %q", path)
}

// DateFromDrive extracts the "<yyyy>_<mm>_<dd>" date prefix of a drive
// identifier.
func DateFromDrive(drive string) (string, error) {
	if m := dateRegexp.FindString(drive); m != "" {
		return m, nil
	}
	return "", errors.Wrapf(ErrDateNotInferable, "drive %q", drive)
}

// FrameFromPath extracts the frame index from the 10-digit zero-padded token
// in path.
func FrameFromPath(path string) (int, error) {
	m := frameRegexp.FindString(normalizePath(path))
	if m == "" {
		return 0, errors.Wrapf(ErrFrameNotInferable, "path %q", path)
	}
	frame, err := strconv.Atoi(m)
	if err != nil {
		return 0, errors.Wrapf(ErrFrameNotInferable, "path %q", path)
	}
	return frame, nil
}

// CamFromPath extracts the camera id from the "image_<nn>" token in path.
func CamFromPath(path string) (int, error) {
	m := camRegexp.FindString(normalizePath(path))
	if m == "" {
		return 0, errors.Wrapf(ErrCamNotInferable, "path %q", path)
	}
	cam, err := strconv.Atoi(strings.TrimPrefix(m, "image_"))
	if err != nil {
		return 0, errors.Wrapf(ErrCamNotInferable, "path %q", path)
	}
	return cam, nil
}

// FrameToken formats a frame index the way it appears in file names: a
// zero-padded 10-digit decimal.
func FrameToken(frame int) string {
	return fmt.Sprintf("%010d", frame)
}

// CamToken formats a camera id the way it appears in directory names, e.g.
// "image_02".
func CamToken(cam int) string {
	return fmt.Sprintf("image_%02d", cam)
}
