// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package depthcompletion

import (
	"os"
	"path/filepath"

	"github.com/gomlx/kitti/downloader"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Archives of the 2017 depth benchmarks, served from the KITTI S3 bucket.
const (
	SelectionURL = "https://s3.eu-central-1.amazonaws.com/avg-kitti/data_depth_selection.zip"
	VelodyneURL  = "https://s3.eu-central-1.amazonaws.com/avg-kitti/data_depth_velodyne.zip"
	AnnotatedURL = "https://s3.eu-central-1.amazonaws.com/avg-kitti/data_depth_annotated.zip"
)

// selectionDirs are the directories nested in the selection archive,
// promoted to the root during scaffolding.
var selectionDirs = []string{
	"test_depth_completion_anonymous",
	"test_depth_prediction_anonymous",
	"val_selection_cropped",
}

// Expected number of drive folders holding groundtruth and velodyne_raw
// maps after a complete download.
const (
	numTrainDrives = 138
	numValDrives   = 13
)

// Download fetches and scaffolds the depth benchmark archives under root:
// the annotated depth maps, the raw lidar projections and the selection of
// manually cropped validation and test frames.
func Download(root string) error {
	if err := os.MkdirAll(root, 0777); err != nil {
		return errors.Wrapf(err, "failed to create benchmark root %q", root)
	}

	zipFile := filepath.Join(root, filepath.Base(SelectionURL))
	if err := downloader.DownloadAndUnzip(SelectionURL, zipFile, root); err != nil {
		return err
	}
	// The selection archive nests everything under depth_selection.
	for _, dir := range selectionDirs {
		from := filepath.Join(root, "depth_selection", dir)
		if err := os.Rename(from, filepath.Join(root, dir)); err != nil {
			return errors.Wrapf(err, "selection archive misses directory %q", dir)
		}
	}
	if err := os.Remove(filepath.Join(root, "depth_selection")); err != nil {
		return errors.Wrap(err, "failed to remove emptied scaffold directory")
	}

	for _, url := range []string{VelodyneURL, AnnotatedURL} {
		zipFile := filepath.Join(root, filepath.Base(url))
		if err := downloader.DownloadAndUnzip(url, zipFile, root); err != nil {
			return err
		}
	}
	klog.Info("depth benchmark download done")
	return nil
}

// CheckFolders reports whether root holds a complete depth benchmark tree.
// Problems found are logged.
func CheckFolders(root string) bool {
	for _, dir := range selectionDirs {
		if _, err := os.Stat(filepath.Join(root, dir)); err != nil {
			klog.Errorf("missing selection data: folder %s not found under %q", dir, root)
			return false
		}
	}
	for split, want := range map[string]int{"train": numTrainDrives, "val": numValDrives} {
		gt, velodyne := countDriveFolders(filepath.Join(root, split))
		if gt != want || velodyne != want {
			klog.Errorf("%s split under %q has %d groundtruth and %d velodyne_raw drive folders, want %d",
				split, root, gt, velodyne, want)
			return false
		}
	}
	return true
}

// countDriveFolders counts directories holding a groundtruth and a
// velodyne_raw sub-directory, one per drive in a complete tree.
func countDriveFolders(root string) (gt, velodyne int) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		switch d.Name() {
		case "groundtruth":
			gt++
		case "velodyne_raw":
			velodyne++
		}
		return nil
	})
	return
}
