// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package kitti

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustElem(t *testing.T, name string, typ ElemType, path string, options ...ElemOption) *DataElem {
	t.Helper()
	elem, err := NewDataElem(name, typ, path, options...)
	require.NoError(t, err)
	return elem
}

func TestNewDataGroup(t *testing.T) {
	_, err := NewDataGroup()
	assert.Error(t, err, "a group needs at least one element")

	img := mustElem(t, "img", ImageElem, examplePath)
	pcd := mustElem(t, "pcd", PointCloudElem,
		"kitti_raw/2011_09_26/2011_09_26_drive_0002_sync/velodyne_points/data/0000000005.bin")
	group, err := NewDataGroup(img, pcd)
	require.NoError(t, err)
	assert.Equal(t, "2011_09_26_drive_0002_sync", group.Drive)
	assert.Equal(t, 5, group.Frame())
	assert.Equal(t, []string{"img", "pcd"}, group.Fields())
}

func TestGroupAddRejectsMismatches(t *testing.T) {
	img := mustElem(t, "img", ImageElem, examplePath)
	group, err := NewDataGroup(img)
	require.NoError(t, err)

	otherDrive := mustElem(t, "other", ImageElem,
		"kitti_raw/2011_09_26/2011_09_26_drive_0005_sync/image_02/data/0000000005.png")
	assert.True(t, errors.Is(group.Add(otherDrive), ErrGroupMismatch))

	otherFrame := mustElem(t, "other", ImageElem,
		"kitti_raw/2011_09_26/2011_09_26_drive_0002_sync/image_02/data/0000000009.png")
	assert.True(t, errors.Is(group.Add(otherFrame), ErrGroupMismatch))

	// Same drive and frames but different attached-neighbor runs also
	// mismatch.
	neighbored := mustElem(t, "other", ImageElem, examplePath)
	neighbored.PrependFrame(4)
	assert.True(t, errors.Is(group.Add(neighbored), ErrGroupMismatch))
}

func TestGroupCamSummary(t *testing.T) {
	pcd := mustElem(t, "pcd", PointCloudElem,
		"kitti_raw/2011_09_26/2011_09_26_drive_0002_sync/velodyne_points/data/0000000005.bin")
	group, err := NewDataGroup(pcd)
	require.NoError(t, err)
	assert.Equal(t, CamNone, group.Cam, "no camera-bearing element")

	img2 := mustElem(t, "img2", ImageElem, examplePath)
	require.NoError(t, group.Add(img2))
	assert.Equal(t, 2, group.Cam, "single camera")

	img3 := mustElem(t, "img3", ImageElem,
		"kitti_raw/2011_09_26/2011_09_26_drive_0002_sync/image_03/data/0000000005.png")
	require.NoError(t, group.Add(img3))
	assert.Equal(t, CamMixed, group.Cam, "several cameras")

	group.Remove("img3")
	assert.Equal(t, 2, group.Cam, "summary refreshed on removal")
	assert.Nil(t, group.Elem("img3"))
	assert.NotNil(t, group.Elem("img2"))
}

func TestGroupData(t *testing.T) {
	registerPathDecoder(t, ImageElem)
	registerPathDecoder(t, PointCloudElem)

	img := mustElem(t, "img", ImageElem, examplePath)
	pcd := mustElem(t, "pcd", PointCloudElem,
		"kitti_raw/2011_09_26/2011_09_26_drive_0002_sync/velodyne_points/data/0000000005.bin")
	group, err := NewDataGroup(img, pcd)
	require.NoError(t, err)

	data, err := group.Data()
	require.NoError(t, err)
	require.Len(t, data, 2)
	assert.Equal(t, img.Path(), data["img"])
	assert.Equal(t, pcd.Path(), data["pcd"])
}

func TestGroupDataPropagatesDecodeError(t *testing.T) {
	boom := errors.New("boom")
	prev := decoders[ImageElem]
	RegisterDecoder(ImageElem, func(elem *DataElem, path string) (any, error) {
		return nil, boom
	})
	t.Cleanup(func() { decoders[ImageElem] = prev })

	img := mustElem(t, "img", ImageElem, examplePath)
	group, err := NewDataGroup(img)
	require.NoError(t, err)
	_, err = group.Data()
	assert.True(t, errors.Is(err, boom), "decoder errors must surface unchanged")
}
