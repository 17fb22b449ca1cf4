// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package depthprediction

import (
	"testing"

	"github.com/gomlx/kitti"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustElem(t *testing.T, name, path string) *kitti.DataElem {
	t.Helper()
	elem, err := kitti.NewDataElem(name, kitti.DepthElem, path)
	require.NoError(t, err)
	return elem
}

func TestStripLidar(t *testing.T) {
	base := "completion/train/2011_09_26_drive_0002_sync/proj_depth/groundtruth/image_02/0000000005.png"
	mono, err := kitti.NewDataGroup(
		mustElem(t, "gt", base),
		mustElem(t, "lidar", base),
	)
	require.NoError(t, err)
	stereo, err := kitti.NewDataGroup(
		mustElem(t, "gt_left", base),
		mustElem(t, "lidar_left", base),
		mustElem(t, "lidar_right", base),
	)
	require.NoError(t, err)

	stripLidar([]*kitti.DataGroup{mono, stereo})
	assert.Equal(t, []string{"gt"}, mono.Fields())
	assert.Equal(t, []string{"gt_left"}, stereo.Fields())
}

func TestCheckFoldersDelegates(t *testing.T) {
	assert.False(t, CheckFolders(t.TempDir()), "empty root is not a benchmark tree")
}
