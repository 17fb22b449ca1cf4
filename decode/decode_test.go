// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package decode

import (
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/gomlx/kitti"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixtureDir returns a drive-shaped temp directory, so elements can infer
// their fields from the written paths.
func fixtureDir(t *testing.T, sub string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "2011_09_26", "2011_09_26_drive_0002_sync", sub)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	return dir
}

func TestDecodeDepth(t *testing.T) {
	img := image.NewGray16(image.Rect(0, 0, 2, 1))
	img.SetGray16(0, 0, color.Gray16{Y: 512}) // 2 m
	img.SetGray16(1, 0, color.Gray16{Y: 0})   // no measurement

	dir := fixtureDir(t, filepath.Join("proj_depth", "groundtruth", "image_02"))
	path := filepath.Join(dir, "0000000005.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	elem, err := kitti.NewDataElem("gt", kitti.DepthElem, path)
	require.NoError(t, err)
	data, err := elem.Data()
	require.NoError(t, err)

	tensor, ok := data.(*tensors.Tensor)
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 1}, tensor.Shape().Dimensions)
	assert.Equal(t, []float32{2.0, 0.0}, tensors.CopyFlatData[float32](tensor))
}

func TestDecodeImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	dir := fixtureDir(t, filepath.Join("image_02", "data"))
	path := filepath.Join(dir, "0000000005.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	elem, err := kitti.NewDataElem("image", kitti.ImageElem, path)
	require.NoError(t, err)
	data, err := elem.Data()
	require.NoError(t, err)
	decoded, ok := data.(image.Image)
	require.True(t, ok)
	assert.Equal(t, 3, decoded.Bounds().Dx())
	assert.Equal(t, 2, decoded.Bounds().Dy())
}

func TestDecodePointCloud(t *testing.T) {
	scan := []float32{1, 2, 3, 0.5, 4, 5, 6, 0.25}
	buf := make([]byte, 0, 4*len(scan))
	for _, v := range scan {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	dir := fixtureDir(t, filepath.Join("velodyne_points", "data"))
	path := filepath.Join(dir, "0000000005.bin")
	require.NoError(t, os.WriteFile(path, buf, 0o644))

	elem, err := kitti.NewDataElem("pcd", kitti.PointCloudElem, path)
	require.NoError(t, err)
	data, err := elem.Data()
	require.NoError(t, err)
	tensor := data.(*tensors.Tensor)
	assert.Equal(t, []int{2, 4}, tensor.Shape().Dimensions)
	flat := tensors.CopyFlatData[float32](tensor)
	assert.Equal(t, float32(1.0), flat[3], "projective is the default")
	assert.Equal(t, float32(1.0), flat[7])

	keep, err := kitti.NewDataElem("pcd", kitti.PointCloudElem, path,
		kitti.WithOpt("pcd_format", "reflectance"))
	require.NoError(t, err)
	data, err = keep.Data()
	require.NoError(t, err)
	flat = tensors.CopyFlatData[float32](data.(*tensors.Tensor))
	assert.Equal(t, scan, flat)

	bad, err := kitti.NewDataElem("pcd", kitti.PointCloudElem, path,
		kitti.WithOpt("pcd_format", "cartesian"))
	require.NoError(t, err)
	_, err = bad.Data()
	assert.ErrorContains(t, err, "pcd_format")
}

const camToCamFixture = `calib_time: 09-Jan-2012 13:57:47
S_02: 1392.0 512.0
K_02: 984.2 0.0 690.0 0.0 980.8 233.1 0.0 0.0 1.0
D_02: -0.37 0.20 0.0 0.0 -0.07
R_02: 1.0 0.0 0.0 0.0 1.0 0.0 0.0 0.0 1.0
T_02: 0.06 0.0 0.0
S_rect_02: 1242.0 375.0
R_rect_02: 1.0 0.0 0.0 0.0 1.0 0.0 0.0 0.0 1.0
P_rect_02: 721.5 0.0 609.5 44.8 0.0 721.5 172.8 0.0 0.0 0.0 1.0 0.0
`

func TestDecodeIntrinsics(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "2011_09_26")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "calib_cam_to_cam.txt")
	require.NoError(t, os.WriteFile(path, []byte(camToCamFixture), 0o644))

	elem, err := kitti.NewDataElem("intrinsics", kitti.IntrinsicsElem, path,
		kitti.WithCam(2), kitti.WithDrive("2011_09_26_drive_0002_sync"), kitti.WithFrame(5))
	require.NoError(t, err)
	data, err := elem.Data()
	require.NoError(t, err)
	tensor := data.(*tensors.Tensor)
	assert.Equal(t, []int{3, 3}, tensor.Shape().Dimensions)
	flat := tensors.CopyFlatData[float64](tensor)
	assert.InDelta(t, 721.5, flat[0], 1e-9)
	assert.InDelta(t, 1.0, flat[8], 1e-9)
}

func TestDecodeRigidTransform(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "2011_09_26")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "calib_velo_to_cam.txt")
	fixture := "R: 1 0 0 0 1 0 0 0 1\nT: 0.5 0.25 0.125\n"
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o644))

	elem, err := kitti.NewDataElem("rt", kitti.RigidTransformElem, path,
		kitti.WithDrive("2011_09_26_drive_0002_sync"), kitti.WithFrame(5))
	require.NoError(t, err)
	data, err := elem.Data()
	require.NoError(t, err)
	tensor := data.(*tensors.Tensor)
	assert.Equal(t, []int{4, 4}, tensor.Shape().Dimensions)
	flat := tensors.CopyFlatData[float64](tensor)
	assert.InDelta(t, 0.5, flat[3], 1e-9)
	assert.InDelta(t, 1.0, flat[15], 1e-9)
}
