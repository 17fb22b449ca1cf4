// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package kitti

import (
	"fmt"
	"strings"

	"github.com/gomlx/gomlx/pkg/support/fsutil"
	"github.com/gomlx/gomlx/pkg/support/xslices"
	"github.com/pkg/errors"
)

// Camera id sentinels. Real camera ids are 0 to 3.
const (
	// CamNone marks elements (and groups) without a camera, e.g. LiDAR
	// scans or IMU readings.
	CamNone = -1

	// CamMixed marks a group whose camera-bearing members disagree on
	// the camera id, e.g. a stereo pair.
	CamMixed = -2
)

// Options is an open bag of loader-specific options, forwarded untouched to
// the element's decoder. See the decode package for the recognized keys.
type Options map[string]any

// StringOr returns the option value for key if it is a string, otherwise
// def.
func (o Options) StringOr(key, def string) string {
	if v, ok := o[key].(string); ok {
		return v
	}
	return def
}

// DataElem is a lazily-loaded handle to one sensor file -- or, once
// temporal neighbors have been attached, to a short run of files of the
// same kind.
//
// It keeps two parallel arrays, paths and frames, always mutated together:
// index len-1 is the frame the element was created for, and prepended
// entries are progressively older neighbors (oldest first). Content is
// decoded on first call to Data and memoized until the arrays change.
type DataElem struct {
	// Name is the element's field label inside its group, e.g. "gt",
	// "image_left" or "lidar".
	Name string

	// Type selects the decoder used by Data.
	Type ElemType

	// Cam is the camera id (0..3), or CamNone for camera-less types.
	Cam int

	// Drive is the recording-session identifier, Date its
	// "<yyyy>_<mm>_<dd>" prefix.
	Drive, Date string

	// Opts are forwarded to the decoder.
	Opts Options

	paths  []string
	frames []int

	data    any
	decoded bool
}

// Ident is the logical identity of an element: two elements with equal
// Idents refer to the same frame of the same sensor, even when their path
// strings differ across dataset variants.
type Ident struct {
	Type  ElemType
	Drive string
	Cam   int
	Frame int
}

type elemConfig struct {
	cam    int
	hasCam bool
	drive  string
	frame  int
	hasIdx bool
	opts   Options
}

// ElemOption configures NewDataElem, providing identifying fields that
// cannot (or should not) be inferred from the path.
type ElemOption func(*elemConfig)

// WithCam sets the camera id explicitly instead of inferring it from an
// "image_<nn>" path token.
func WithCam(cam int) ElemOption {
	return func(c *elemConfig) { c.cam = cam; c.hasCam = true }
}

// WithDrive sets the drive identifier explicitly.
func WithDrive(drive string) ElemOption {
	return func(c *elemConfig) { c.drive = drive }
}

// WithFrame sets the frame index explicitly.
func WithFrame(frame int) ElemOption {
	return func(c *elemConfig) { c.frame = frame; c.hasIdx = true }
}

// WithOpt adds one loader option, forwarded to the decoder.
func WithOpt(key string, value any) ElemOption {
	return func(c *elemConfig) {
		if c.opts == nil {
			c.opts = Options{}
		}
		c.opts[key] = value
	}
}

// NewDataElem creates an element for one file. Identifying fields not given
// through options are inferred from the path string (purely textual, the
// file does not need to exist): the drive token, the 10-digit frame token
// and -- for camera-bearing types -- the "image_<nn>" token. A field that
// can neither be inferred nor was given explicitly returns an inference
// error naming the field and the path.
func NewDataElem(name string, elemType ElemType, path string, options ...ElemOption) (*DataElem, error) {
	var cfg elemConfig
	for _, opt := range options {
		opt(&cfg)
	}

	elem := &DataElem{
		Name:   name,
		Type:   elemType,
		Drive:  cfg.drive,
		Opts:   cfg.opts,
		paths:  []string{path},
		frames: []int{cfg.frame},
	}

	var err error
	if elem.Drive == "" {
		if elem.Drive, err = DriveFromPath(path); err != nil {
			return nil, err
		}
	}
	if elem.Date, err = DateFromDrive(elem.Drive); err != nil {
		return nil, err
	}
	if !cfg.hasIdx {
		if elem.frames[0], err = FrameFromPath(path); err != nil {
			return nil, err
		}
	}

	switch {
	case cfg.hasCam:
		elem.Cam = cfg.cam
	case !elemType.HasCam():
		elem.Cam = CamNone
	default:
		if elem.Cam, err = CamFromPath(path); err != nil {
			return nil, err
		}
	}
	if elem.Cam != CamNone && (elem.Cam < 0 || elem.Cam > 3) {
		return nil, errors.Wrapf(ErrInvalidConfig, "camera id %d out of range 0..3 for element %q", elem.Cam, name)
	}
	return elem, nil
}

// Paths returns a copy of the element's paths, oldest attached neighbor
// first, the element's own frame last.
func (e *DataElem) Paths() []string { return xslices.Copy(e.paths) }

// Frames returns a copy of the frame indices, parallel to Paths.
func (e *DataElem) Frames() []int { return xslices.Copy(e.frames) }

// Frame returns the element's own (most recent) frame index.
func (e *DataElem) Frame() int { return xslices.Last(e.frames) }

// Path returns the element's own (most recent) path.
func (e *DataElem) Path() string { return xslices.Last(e.paths) }

// Len returns the number of attached paths: 1 for a plain element, more
// once neighbors have been prepended.
func (e *DataElem) Len() int { return len(e.paths) }

// Ident returns the element's logical identity, based on its own frame.
// Useful as a map key when de-duplicating elements across dataset variants.
func (e *DataElem) Ident() Ident {
	return Ident{Type: e.Type, Drive: e.Drive, Cam: e.Cam, Frame: e.Frame()}
}

// Equal reports whether both elements refer to the same logical frame:
// same type, drive, camera and frame index. Paths are deliberately not
// compared, their format varies across dataset variants.
func (e *DataElem) Equal(other *DataElem) bool {
	return other != nil && e.Ident() == other.Ident()
}

// Exists reports whether every path of the element exists on the
// filesystem. No decoding is attempted.
func (e *DataElem) Exists() bool {
	for _, p := range e.paths {
		if !fsutil.MustFileExists(p) {
			return false
		}
	}
	return true
}

// Data decodes the element's content, dispatching to the decoder registered
// for its type. With a single path the decoded value is returned directly;
// with neighbors attached it returns a []any, ordered like Paths (oldest
// first). The result is memoized: repeated calls return the same value
// until the paths are mutated. Decoder failures are returned unchanged.
func (e *DataElem) Data() (any, error) {
	if e.decoded {
		return e.data, nil
	}
	decode, err := decoderFor(e.Type)
	if err != nil {
		return nil, err
	}
	if len(e.paths) == 1 {
		v, err := decode(e, e.paths[0])
		if err != nil {
			return nil, err
		}
		e.data = v
	} else {
		values := make([]any, len(e.paths))
		for i, p := range e.paths {
			if values[i], err = decode(e, p); err != nil {
				return nil, err
			}
		}
		e.data = values
	}
	e.decoded = true
	return e.data, nil
}

// PathForFrame derives the path the element would have at another frame
// index, by textually substituting the zero-padded frame token of the
// element's own path. It does not mutate the element nor check that the
// result exists. Paths without a frame token (per-date calibration files)
// are returned unchanged.
func (e *DataElem) PathForFrame(frame int) string {
	return strings.ReplaceAll(e.Path(), FrameToken(e.Frame()), FrameToken(frame))
}

// PrependFrame attaches frame as the new oldest entry, deriving its path
// with PathForFrame, and invalidates the decoded-content cache.
func (e *DataElem) PrependFrame(frame int) {
	e.paths = append([]string{e.PathForFrame(frame)}, e.paths...)
	e.frames = append([]int{frame}, e.frames...)
	e.invalidate()
}

// PrependPath attaches an explicit path as the new oldest entry, inferring
// its frame index from the path, and invalidates the decoded-content
// cache.
func (e *DataElem) PrependPath(path string) error {
	frame, err := FrameFromPath(path)
	if err != nil {
		return err
	}
	e.paths = append([]string{path}, e.paths...)
	e.frames = append([]int{frame}, e.frames...)
	e.invalidate()
	return nil
}

// RemoveFrame drops the (path, frame) pair for the given frame index and
// invalidates the decoded-content cache. It returns an error if no such
// frame is attached.
func (e *DataElem) RemoveFrame(frame int) error {
	for i, f := range e.frames {
		if f == frame {
			e.frames = append(e.frames[:i], e.frames[i+1:]...)
			e.paths = append(e.paths[:i], e.paths[i+1:]...)
			e.invalidate()
			return nil
		}
	}
	return errors.Errorf("frame %d not attached to element %q (%s)", frame, e.Name, e.Type)
}

func (e *DataElem) invalidate() {
	e.data = nil
	e.decoded = false
}

// String implements fmt.Stringer.
func (e *DataElem) String() string {
	return fmt.Sprintf("DataElem(name=%s, type=%s, drive=%s, cam=%d, frames=%v)",
		e.Name, e.Type, e.Drive, e.Cam, e.frames)
}
