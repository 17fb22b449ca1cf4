// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package calib parses KITTI calibration files.
//
// A date directory of a raw recording holds three text files,
// calib_cam_to_cam.txt, calib_velo_to_cam.txt and calib_imu_to_velo.txt.
// Each is a sequence of "key: v0 v1 ..." lines, plus a calib_time line
// that carries no numeric payload and is skipped.
package calib

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// CamCalib holds the calibration of a single camera, read from a
// calib_cam_to_cam.txt file. Matrices are flat row-major slices.
type CamCalib struct {
	// Cam is the camera index, 0 to 3.
	Cam int

	// ImageSize is the (width, height) of the unrectified image.
	ImageSize [2]int

	// Intrinsics is the 3x3 camera matrix K.
	Intrinsics []float64

	// Distortion holds the k1, k2, p1, p2, k3 coefficients.
	Distortion []float64

	// Extrinsics is the 4x4 homogeneous rototranslation built from the
	// R and T entries of the camera.
	Extrinsics []float64

	// RectImageSize is the (width, height) after rectification.
	RectImageSize [2]int

	// RectRotation is the rectifying rotation R_rect, promoted to a 4x4
	// homogeneous matrix.
	RectRotation []float64

	// Projection is the 3x4 matrix P_rect projecting rectified 3D points
	// to the image plane.
	Projection []float64
}

// LoadCamCalib reads the calibration of camera cam (0 to 3) from a
// calib_cam_to_cam.txt file.
func LoadCamCalib(cam int, path string) (*CamCalib, error) {
	if cam < 0 || cam > 3 {
		return nil, errors.Errorf("camera must be in range [0, 3], got %d", cam)
	}
	values, err := parseKeyValues(path)
	if err != nil {
		return nil, err
	}

	suffix := "_0" + strconv.Itoa(cam)
	get := func(key string, wantLen int) ([]float64, error) {
		v, found := values[key]
		if !found {
			return nil, errors.Errorf("calibration file %q has no %q entry", path, key)
		}
		if len(v) != wantLen {
			return nil, errors.Errorf("calibration entry %q in %q has %d values, want %d",
				key, path, len(v), wantLen)
		}
		return v, nil
	}

	size, err := get("S"+suffix, 2)
	if err != nil {
		return nil, err
	}
	rectSize, err := get("S_rect"+suffix, 2)
	if err != nil {
		return nil, err
	}
	k, err := get("K"+suffix, 9)
	if err != nil {
		return nil, err
	}
	d, err := get("D"+suffix, 5)
	if err != nil {
		return nil, err
	}
	r, err := get("R"+suffix, 9)
	if err != nil {
		return nil, err
	}
	t, err := get("T"+suffix, 3)
	if err != nil {
		return nil, err
	}
	rectR, err := get("R_rect"+suffix, 9)
	if err != nil {
		return nil, err
	}
	p, err := get("P_rect"+suffix, 12)
	if err != nil {
		return nil, err
	}

	return &CamCalib{
		Cam:           cam,
		ImageSize:     [2]int{int(size[0]), int(size[1])},
		Intrinsics:    k,
		Distortion:    d,
		Extrinsics:    homogeneous(r, t),
		RectImageSize: [2]int{int(rectSize[0]), int(rectSize[1])},
		RectRotation:  homogeneous(rectR, nil),
		Projection:    p,
	}, nil
}

// RectIntrinsics returns the 3x3 intrinsics of the rectified camera, that
// is the left block of the P_rect projection matrix.
func (c *CamCalib) RectIntrinsics() []float64 {
	k := make([]float64, 0, 9)
	for row := 0; row < 3; row++ {
		k = append(k, c.Projection[row*4:row*4+3]...)
	}
	return k
}

// LoadRigidTransform reads a calib_velo_to_cam.txt or calib_imu_to_velo.txt
// file and returns the 4x4 homogeneous rototranslation it describes, as a
// flat row-major slice.
func LoadRigidTransform(path string) ([]float64, error) {
	values, err := parseKeyValues(path)
	if err != nil {
		return nil, err
	}
	r, found := values["R"]
	if !found || len(r) != 9 {
		return nil, errors.Errorf("calibration file %q has no 3x3 %q entry", path, "R")
	}
	t, found := values["T"]
	if !found || len(t) != 3 {
		return nil, errors.Errorf("calibration file %q has no 3-vector %q entry", path, "T")
	}
	return homogeneous(r, t), nil
}

// homogeneous embeds a 3x3 rotation and an optional translation into an
// identity 4x4 matrix.
func homogeneous(r, t []float64) []float64 {
	m := []float64{
		0, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 1,
	}
	for row := 0; row < 3; row++ {
		copy(m[row*4:row*4+3], r[row*3:row*3+3])
		if t != nil {
			m[row*4+3] = t[row]
		}
	}
	return m
}

func parseKeyValues(path string) (map[string][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open calibration file %q", path)
	}
	defer func() { _ = f.Close() }()

	values := make(map[string][]float64)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		key, rest, found := strings.Cut(line, ":")
		if !found {
			return nil, errors.Errorf("malformed line %q in calibration file %q", line, path)
		}
		if key == "calib_time" {
			continue
		}
		fields := strings.Fields(rest)
		vector := make([]float64, 0, len(fields))
		for _, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "entry %q in calibration file %q", key, path)
			}
			vector = append(vector, v)
		}
		values[key] = vector
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read calibration file %q", path)
	}
	return values, nil
}
