// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package decode registers the default decoders for every element type.
//
// It is imported for its side effects only:
//
//	import _ "github.com/gomlx/kitti/decode"
//
// Camera images decode to image.Image. Depth maps, point clouds, rigid
// transforms and intrinsics decode to *tensors.Tensor. Calibration records
// and IMU readings decode to *calib.CamCalib and *oxts.IMUData.
package decode

import (
	"image"
	_ "image/jpeg"
	"image/png"
	"os"

	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/gomlx/kitti"
	"github.com/gomlx/kitti/calib"
	"github.com/gomlx/kitti/lidar"
	"github.com/gomlx/kitti/oxts"
	"github.com/pkg/errors"
)

func init() {
	kitti.RegisterDecoder(kitti.ImageElem, decodeImage)
	kitti.RegisterDecoder(kitti.DepthElem, decodeDepth)
	kitti.RegisterDecoder(kitti.PointCloudElem, decodePointCloud)
	kitti.RegisterDecoder(kitti.CalibElem, decodeCalib)
	kitti.RegisterDecoder(kitti.IMUElem, decodeIMU)
	kitti.RegisterDecoder(kitti.RigidTransformElem, decodeRigidTransform)
	kitti.RegisterDecoder(kitti.IntrinsicsElem, decodeIntrinsics)
}

func decodeImage(_ *kitti.DataElem, path string) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open image %q", path)
	}
	defer func() { _ = f.Close() }()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode image %q", path)
	}
	return img, nil
}

// decodeDepth reads a 16-bit depth PNG into a float32 tensor shaped
// [height, width, 1], in meters. The stored integer is 256 times the depth
// and 0 marks pixels without a measurement.
func decodeDepth(_ *kitti.DataElem, path string) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open depth map %q", path)
	}
	defer func() { _ = f.Close() }()
	img, err := png.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode depth map %q", path)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	depth := make([]float32, 0, width*height)
	if gray, ok := img.(*image.Gray16); ok {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				depth = append(depth, float32(gray.Gray16At(x, y).Y)/256.0)
			}
		}
	} else {
		// Non-Gray16 PNGs are unusual for depth maps but not an error,
		// RGBA() reports the same 16-bit value for grayscale colors.
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				v, _, _, _ := img.At(x, y).RGBA()
				depth = append(depth, float32(v)/256.0)
			}
		}
	}
	return tensors.FromFlatDataAndDimensions(depth, height, width, 1), nil
}

func decodePointCloud(elem *kitti.DataElem, path string) (any, error) {
	format := elem.Opts.StringOr("pcd_format", "projective")
	switch format {
	case "projective", "reflectance":
	default:
		return nil, errors.Errorf("unknown pcd_format %q for element %q, want projective or reflectance",
			format, elem.Name)
	}
	points, numPoints, err := lidar.Load(path, format == "projective")
	if err != nil {
		return nil, err
	}
	return tensors.FromFlatDataAndDimensions(points, numPoints, 4), nil
}

func decodeCalib(elem *kitti.DataElem, path string) (any, error) {
	if elem.Cam == kitti.CamNone || elem.Cam == kitti.CamMixed {
		return nil, errors.Errorf("calibration element %q has no camera id", elem.Name)
	}
	return calib.LoadCamCalib(elem.Cam, path)
}

func decodeIMU(_ *kitti.DataElem, path string) (any, error) {
	return oxts.Load(path)
}

func decodeRigidTransform(_ *kitti.DataElem, path string) (any, error) {
	rt, err := calib.LoadRigidTransform(path)
	if err != nil {
		return nil, err
	}
	return tensors.FromFlatDataAndDimensions(rt, 4, 4), nil
}

// decodeIntrinsics reads the calibration of the element's camera and keeps
// only the 3x3 intrinsics of the rectified projection.
func decodeIntrinsics(elem *kitti.DataElem, path string) (any, error) {
	if elem.Cam == kitti.CamNone || elem.Cam == kitti.CamMixed {
		return nil, errors.Errorf("intrinsics element %q has no camera id", elem.Name)
	}
	c, err := calib.LoadCamCalib(elem.Cam, path)
	if err != nil {
		return nil, err
	}
	return tensors.FromFlatDataAndDimensions(c.RectIntrinsics(), 3, 3), nil
}
