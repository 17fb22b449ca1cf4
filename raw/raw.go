// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package raw loads the KITTI raw recordings, in their synced+rectified
// form.
//
// A root directory is organized by date and drive:
//
//	.
//	└── 2011_09_26
//	    ├── calib_cam_to_cam.txt
//	    ├── calib_imu_to_velo.txt
//	    ├── calib_velo_to_cam.txt
//	    └── 2011_09_26_drive_0002_sync
//	        ├── image_00 ... image_03
//	        │   └── data
//	        │       └── 0000000005.png
//	        ├── oxts
//	        │   └── data
//	        │       └── 0000000005.txt
//	        └── velodyne_points
//	            └── data
//	                └── 0000000005.bin
//
// Calibration files refer to the whole date. Dataset examples are keyed
// cam_0X, cam_0X_calib, lidar_data, lidar_to_cam_00, imu_data and
// imu_to_lidar, plus a _previous variant of each when a temporal-neighbor
// policy is set.
package raw

import (
	"os"
	"path/filepath"

	"github.com/gomlx/kitti"
	"k8s.io/klog/v2"
)

// calibFiles are the per-date calibration files of a raw root.
var calibFiles = []string{
	"calib_cam_to_cam.txt",
	"calib_velo_to_cam.txt",
	"calib_imu_to_velo.txt",
}

// driveDirs are the sub-directories a synced+rectified drive carries.
var driveDirs = []string{
	"image_00", "image_01", "image_02", "image_03",
	"oxts", "velodyne_points",
}

// CheckLayout reports whether root looks like a synced+rectified raw tree:
// at least one date directory holding the three calibration files and at
// least one drive directory with the expected sub-trees. Problems found
// are logged.
func CheckLayout(root string) bool {
	dates, err := os.ReadDir(root)
	if err != nil {
		klog.Errorf("cannot read raw root %q: %v", root, err)
		return false
	}
	checkedDrives := 0
	for _, date := range dates {
		if !date.IsDir() {
			continue
		}
		if _, err := kitti.DateFromDrive(date.Name()); err != nil {
			continue
		}
		datePath := filepath.Join(root, date.Name())
		for _, f := range calibFiles {
			if _, err := os.Stat(filepath.Join(datePath, f)); err != nil {
				klog.Errorf("date folder %q misses calibration file %s", datePath, f)
				return false
			}
		}
		drives, err := os.ReadDir(datePath)
		if err != nil {
			klog.Errorf("cannot read date folder %q: %v", datePath, err)
			return false
		}
		for _, drive := range drives {
			if !drive.IsDir() {
				continue
			}
			if _, err := kitti.DriveFromPath(drive.Name()); err != nil {
				continue
			}
			drivePath := filepath.Join(datePath, drive.Name())
			for _, d := range driveDirs {
				if _, err := os.Stat(filepath.Join(drivePath, d, "data")); err != nil {
					klog.Errorf("drive folder %q misses %s/data", drivePath, d)
					return false
				}
			}
			checkedDrives++
		}
	}
	if checkedDrives == 0 {
		klog.Errorf("raw root %q contains no drive folders", root)
		return false
	}
	return true
}
