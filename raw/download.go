// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package raw

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gomlx/kitti"
	"github.com/gomlx/kitti/downloader"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// s3Prefix is the bucket serving all raw-recording archives.
const s3Prefix = "https://s3.eu-central-1.amazonaws.com/avg-kitti/raw_data/"

// calibDates are the recording dates for which a calibration archive is
// published.
var calibDates = []string{
	"2011_09_26", "2011_09_28", "2011_09_29", "2011_09_30", "2011_10_03",
}

// DriveURL returns the archive URL of one synced+rectified drive, e.g.
// "2011_09_26_drive_0002_sync".
func DriveURL(drive string) string {
	// Archives live under the drive name without the _sync suffix.
	return s3Prefix + strings.TrimSuffix(drive, "_sync") + "/" + drive + ".zip"
}

// CalibURL returns the archive URL of the calibration files of one
// recording date.
func CalibURL(date string) string {
	return s3Prefix + date + "_calib.zip"
}

// DownloadCalib fetches and unpacks the per-date calibration files of all
// recording dates into root. Each archive scaffolds its own date folder.
func DownloadCalib(root string) error {
	if err := os.MkdirAll(root, 0777); err != nil {
		return errors.Wrapf(err, "failed to create raw root %q", root)
	}
	for _, date := range calibDates {
		zipFile := filepath.Join(root, date+"_calib.zip")
		if err := downloader.DownloadAndUnzip(CalibURL(date), zipFile, root); err != nil {
			return err
		}
	}
	return nil
}

// DownloadDrives fetches and unpacks the given synced+rectified drives
// into root, skipping drives already present, and downloads the
// calibration files first. The whole dataset is about 170GB, callers are
// expected to pass the subset of drives they need.
func DownloadDrives(root string, drives []string) error {
	if err := DownloadCalib(root); err != nil {
		return err
	}
	for _, drive := range drives {
		date, err := kitti.DateFromDrive(drive)
		if err != nil {
			return err
		}
		drivePath := filepath.Join(root, date, drive)
		if _, err := os.Stat(drivePath); err == nil {
			klog.V(1).Infof("drive %s already present, skipping", drive)
			continue
		}
		if err := downloadDrive(root, date, drive); err != nil {
			return err
		}
	}
	return nil
}

// downloadDrive fetches one drive archive and moves its payload in place.
// The archive nests the drive under a date folder, so it is extracted to a
// scratch directory first.
func downloadDrive(root, date, drive string) error {
	datePath := filepath.Join(root, date)
	if err := os.MkdirAll(datePath, 0777); err != nil {
		return errors.Wrapf(err, "failed to create date folder %q", datePath)
	}
	zipFile := filepath.Join(datePath, drive+".zip")
	scratch := filepath.Join(datePath, drive+"_tmp")
	if err := downloader.DownloadAndUnzip(DriveURL(drive), zipFile, scratch); err != nil {
		return err
	}
	if err := os.Rename(filepath.Join(scratch, date, drive), filepath.Join(datePath, drive)); err != nil {
		return errors.Wrapf(err, "archive of drive %s has an unexpected layout", drive)
	}
	if err := os.RemoveAll(scratch); err != nil {
		return errors.Wrapf(err, "failed to clean up %q", scratch)
	}
	return nil
}
