// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package kitti

import "github.com/pkg/errors"

// ElemType enumerates the kinds of files a DataElem can refer to. Every
// type decodes through its own registered DecodeFunc.
type ElemType int

const (
	// ImageElem is a camera image (PNG in the synced+rectified trees).
	ImageElem ElemType = iota

	// DepthElem is a depth map stored as a 16-bit PNG, in 1/256 meter
	// units.
	DepthElem

	// PointCloudElem is a Velodyne scan: binary little-endian float32
	// quadruples (x, y, z, reflectance).
	PointCloudElem

	// CalibElem is a per-camera calibration record from a
	// calib_cam_to_cam.txt file.
	CalibElem

	// IMUElem is one OXTS GPS/IMU reading, a whitespace-separated text
	// line.
	IMUElem

	// RigidTransformElem is a 4x4 roto-translation matrix in projective
	// coordinates, from a calib_velo_to_cam.txt or calib_imu_to_velo.txt
	// file.
	RigidTransformElem

	// IntrinsicsElem is the 3x3 intrinsics block of a camera's rectified
	// projection matrix.
	IntrinsicsElem
)

var elemTypeNames = [...]string{"image", "depth", "pcd", "calib", "imu", "rt", "intrinsics"}

// String implements fmt.Stringer.
func (t ElemType) String() string {
	if t < 0 || int(t) >= len(elemTypeNames) {
		return "invalid"
	}
	return elemTypeNames[t]
}

// HasCam reports whether elements of this type are bound to one camera.
// Camera-less types take the CamNone sentinel without requiring the caller
// to say so.
func (t ElemType) HasCam() bool {
	switch t {
	case PointCloudElem, IMUElem, RigidTransformElem:
		return false
	}
	return true
}

// DecodeFunc decodes the file at path into its in-memory representation.
// The element is provided for its metadata: camera id for calibration
// types, Opts for loader options. Implementations must not mutate it.
type DecodeFunc func(elem *DataElem, path string) (any, error)

// decoders is written only by RegisterDecoder, from init functions of
// decoder packages. No locking: registration must happen before any
// DataElem is decoded.
var decoders = map[ElemType]DecodeFunc{}

// RegisterDecoder installs the decoder for one element type, replacing any
// previous registration. The decode sub-package registers the default set
// on import.
func RegisterDecoder(t ElemType, fn DecodeFunc) {
	decoders[t] = fn
}

// decoderFor returns the decoder registered for t, or an error telling the
// caller which import is missing.
func decoderFor(t ElemType) (DecodeFunc, error) {
	if fn, ok := decoders[t]; ok {
		return fn, nil
	}
	return nil, errors.Errorf(
		"no decoder registered for %s elements -- import github.com/gomlx/kitti/decode for the default decoders", t)
}
