// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package raw

import (
	"encoding/binary"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gomlx/kitti"
	_ "github.com/gomlx/kitti/decode"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	fixtureDate  = "2011_09_26"
	fixtureDrive = "2011_09_26_drive_0002_sync"
)

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

const rigidFixture = "R: 1 0 0 0 1 0 0 0 1\nT: 0.5 0.25 0.125\n"

func writePNG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	require.NoError(t, f.Close())
}

func writeScan(t *testing.T, path string) {
	t.Helper()
	scan := []float32{1, 2, 3, 0.5}
	buf := make([]byte, 0, 16)
	for _, v := range scan {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	require.NoError(t, os.WriteFile(path, buf, 0o644))
}

// writeFixtureTree creates a minimal synced+rectified root with the given
// frames populated in every modality.
func writeFixtureTree(t *testing.T, frames ...int) string {
	t.Helper()
	root := t.TempDir()
	datePath := filepath.Join(root, fixtureDate)
	drivePath := filepath.Join(datePath, fixtureDrive)
	for _, dir := range driveDirs {
		require.NoError(t, os.MkdirAll(filepath.Join(drivePath, dir, "data"), 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(datePath, "calib_cam_to_cam.txt"),
		[]byte(camToCamFixture), 0o644))
	for _, name := range []string{"calib_velo_to_cam.txt", "calib_imu_to_velo.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(datePath, name), []byte(rigidFixture), 0o644))
	}
	for _, frame := range frames {
		token := kitti.FrameToken(frame)
		for cam := 0; cam < 4; cam++ {
			writePNG(t, filepath.Join(drivePath, kitti.CamToken(cam), "data", token+".png"))
		}
		writeScan(t, filepath.Join(drivePath, "velodyne_points", "data", token+".bin"))
		oxtsLine := ""
		for i := 0; i < 30; i++ {
			if i > 0 {
				oxtsLine += " "
			}
			oxtsLine += "1.0"
		}
		require.NoError(t, os.WriteFile(filepath.Join(drivePath, "oxts", "data", token+".txt"),
			[]byte(oxtsLine+"\n"), 0o644))
	}
	return root
}

func TestCheckLayout(t *testing.T) {
	root := writeFixtureTree(t, 5)
	assert.True(t, CheckLayout(root))
	assert.False(t, CheckLayout(t.TempDir()), "empty root has no drives")

	require.NoError(t, os.Remove(filepath.Join(root, fixtureDate, "calib_cam_to_cam.txt")))
	assert.False(t, CheckLayout(root))
}

func TestNewIndexesAnchors(t *testing.T) {
	root := writeFixtureTree(t, 4, 5)
	ds, err := New(Config{Root: root, Calibs: []int{2}, Lidar: LidarOff})
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len(), "one example per camera-0 frame")

	group := ds.Group(0)
	assert.Equal(t, fixtureDrive, group.Drive)
	assert.Equal(t, []string{"cam_02", "cam_02_calib"}, group.Fields())
	assert.Equal(t, 4, group.Frame())
}

func TestNewAllModalities(t *testing.T) {
	root := writeFixtureTree(t, 5)
	ds, err := New(Config{
		Root:   root,
		Cams:   []int{2, 3},
		Calibs: []int{2},
		IMU:    true,
	})
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())
	assert.Equal(t, []string{
		"cam_02", "cam_02_calib", "cam_03",
		"imu_data", "imu_to_lidar",
		"lidar_data", "lidar_to_cam_00",
	}, ds.Group(0).Fields())

	example, err := ds.At(0)
	require.NoError(t, err)
	assert.Contains(t, example, "cam_02")
	assert.Contains(t, example, "lidar_data")
	assert.Contains(t, example, "imu_data")
}

func TestNewPreviousFields(t *testing.T) {
	root := writeFixtureTree(t, 4, 5)
	ds, err := New(Config{
		Root:     root,
		Cams:     []int{2},
		Calibs:   []int{2},
		Lidar:    LidarOff,
		Previous: kitti.FixedPrev(1),
	})
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())

	// Second example: frame 5 with frame 4 as neighbor.
	example, err := ds.At(1)
	require.NoError(t, err)
	assert.Contains(t, example, "cam_02")
	assert.Contains(t, example, "cam_02_previous")
	assert.Contains(t, example, "cam_02_calib_previous")

	// First example: frame 4 has no neighbor on disk, the fallback
	// duplicates the current frame.
	first := ds.Group(0)
	assert.Equal(t, []int{4, 4}, first.Frames())
}

func TestNewRejectsBadConfig(t *testing.T) {
	root := writeFixtureTree(t, 5)
	_, err := New(Config{Root: root, Cams: []int{7}})
	assert.True(t, errors.Is(err, kitti.ErrInvalidConfig))

	_, err = New(Config{Root: root, Lidar: "cartesian"})
	assert.True(t, errors.Is(err, kitti.ErrInvalidConfig))

	_, err = New(Config{Root: root, Previous: kitti.RandomPrev(3, 1)})
	assert.True(t, errors.Is(err, kitti.ErrInvalidConfig))
}

func TestDriveURL(t *testing.T) {
	assert.Equal(t,
		"https://s3.eu-central-1.amazonaws.com/avg-kitti/raw_data/2011_09_26_drive_0002/2011_09_26_drive_0002_sync.zip",
		DriveURL("2011_09_26_drive_0002_sync"))
	assert.Equal(t,
		"https://s3.eu-central-1.amazonaws.com/avg-kitti/raw_data/2011_09_26_calib.zip",
		CalibURL("2011_09_26"))
}
