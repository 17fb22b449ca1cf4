// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package lidar reads Velodyne point-cloud scans of KITTI raw recordings.
//
// A scan is a .bin file of consecutive little-endian float32 quadruples,
// (x, y, z, reflectance) per point.
package lidar

import (
	"encoding/binary"
	"math"
	"os"

	"github.com/pkg/errors"
)

// pointSize is the byte length of one (x, y, z, reflectance) record.
const pointSize = 4 * 4

// Load reads a Velodyne scan and returns its points as a flat row-major
// slice of 4 values per point, plus the number of points. With projective
// set, the reflectance of every point is replaced by 1.0 so each row is a
// homogeneous 3D coordinate.
func Load(path string, projective bool) ([]float32, int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "failed to read point cloud %q", path)
	}
	if len(raw)%pointSize != 0 {
		return nil, 0, errors.Errorf("point cloud %q has %d bytes, not a multiple of %d",
			path, len(raw), pointSize)
	}

	numPoints := len(raw) / pointSize
	points := make([]float32, 0, numPoints*4)
	for offset := 0; offset < len(raw); offset += 4 {
		bits := binary.LittleEndian.Uint32(raw[offset:])
		points = append(points, math.Float32frombits(bits))
	}
	if projective {
		for i := 3; i < len(points); i += 4 {
			points[i] = 1.0
		}
	}
	return points, numPoints, nil
}
