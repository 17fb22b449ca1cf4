// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package depthcompletion loads the 2017 KITTI depth completion benchmark,
// consisting of 93k training and 1.5k test images.
//
// Ground truth has been acquired by accumulating 3D point clouds from a
// 360 degree Velodyne HDL-64 laser scanner and a consistency check using
// stereo camera pairs.
//
// Two trees are needed: the raw recordings in synced+rectified form (for
// the camera images and the calibration files) and the depth benchmark
// tree with the annotated groundtruth and raw lidar projections, which
// Download can fetch.
package depthcompletion

import (
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomlx/kitti"
	"github.com/gomlx/kitti/raw"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Subset selects the examples a Dataset indexes.
type Subset string

const (
	// Train indexes the training groundtruth maps.
	Train Subset = "train"

	// Val indexes the validation groundtruth maps.
	Val Subset = "val"

	// Test indexes only the frames selected for the cropped test set,
	// with their full (uncropped) counterparts.
	Test Subset = "test"

	// All indexes training and validation together.
	All Subset = "all"
)

// Validate returns an error unless s is one of the defined subsets.
func (s Subset) Validate() error {
	switch s {
	case Train, Val, Test, All:
		return nil
	}
	return errors.Wrapf(kitti.ErrInvalidConfig, "subset %q not in train, val, test, all", s)
}

// Config configures a depth completion Dataset. The zero value (with the
// two roots set) indexes the monocular training subset.
type Config struct {
	// RawRoot is the root of the synced+rectified raw recordings.
	RawRoot string

	// CompletionRoot is the root of the depth benchmark tree.
	CompletionRoot string

	// Subset defaults to Train.
	Subset Subset

	// Stereo doubles every field into _left and _right variants from the
	// synchronized camera pair. Only camera-2 frames anchor the examples,
	// so the example count is unchanged. Not available on Test.
	Stereo bool

	// Previous attaches a temporal neighbor to every field. If the
	// neighbor's file cannot be found the same frame is attached instead.
	Previous kitti.PrevPolicy

	// Sequence loads a run of Sequence consecutive frames per field,
	// older first. Gaps are filled with the anchor frame. 0 and 1 mean
	// disabled. Incompatible with Previous.
	Sequence int

	// Rand draws the offsets of RandomPrev policies. Nil uses the shared
	// generator.
	Rand *rand.Rand

	// Transform is applied to every example map. Nil means identity.
	Transform kitti.Transform

	// Download fetches the benchmark archives into CompletionRoot when it
	// is missing or empty. The raw recordings are never fetched here,
	// they are selected per drive with the raw package.
	Download bool
}

func (cfg *Config) validate() error {
	if cfg.Subset == "" {
		cfg.Subset = Train
	}
	if err := cfg.Subset.Validate(); err != nil {
		return err
	}
	if err := cfg.Previous.Validate(); err != nil {
		return err
	}
	if cfg.Sequence < 0 {
		return errors.Wrapf(kitti.ErrInvalidConfig, "Sequence must be non-negative, got %d", cfg.Sequence)
	}
	if cfg.Previous.Enabled() && cfg.Sequence > 1 {
		return errors.Wrap(kitti.ErrInvalidConfig, "Previous and Sequence cannot be combined")
	}
	return nil
}

// Dataset indexes depth completion examples, one per groundtruth map. Each
// example carries the fields gt, image, lidar and intrinsics (suffixed
// _left and _right with Stereo set).
type Dataset struct {
	*kitti.Dataset
}

// New builds the example index for the configured subset.
func New(cfg Config) (*Dataset, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Download && dirMissingOrEmpty(cfg.CompletionRoot) {
		if err := Download(cfg.CompletionRoot); err != nil {
			return nil, err
		}
	}
	if !CheckFolders(cfg.CompletionRoot) {
		return nil, errors.Errorf("path %q does not contain the depth benchmark data", cfg.CompletionRoot)
	}
	if !raw.CheckLayout(cfg.RawRoot) {
		return nil, errors.Errorf("path %q does not contain synced+rectified raw recordings", cfg.RawRoot)
	}

	groups, err := GenerateExamples(&cfg)
	if err != nil {
		return nil, err
	}
	klog.V(1).Infof("indexed %d depth completion examples (subset %s)", len(groups), cfg.Subset)
	return &Dataset{kitti.NewDataset(groups, cfg.Transform)}, nil
}

// GenerateExamples builds one DataGroup per groundtruth map of the
// configured subset. Exposed for dataset variants built on the same
// index, like depth prediction.
func GenerateExamples(cfg *Config) ([]*kitti.DataGroup, error) {
	gts, err := listGroundTruths(cfg.CompletionRoot, cfg.Subset, cfg.Stereo)
	if err != nil {
		return nil, err
	}

	seqLen := cfg.Sequence
	if seqLen == 0 {
		seqLen = 1
	}

	groups := make([]*kitti.DataGroup, 0, len(gts))
	for _, gt := range gts {
		elems, err := exampleElems(cfg, gt)
		if err != nil {
			return nil, err
		}
		resolver := kitti.NewPrevResolver(gt).WithRand(cfg.Rand)
		for _, elem := range elems {
			if _, err := resolver.Resolve(elem, cfg.Previous, seqLen); err != nil {
				return nil, err
			}
		}
		group, err := kitti.NewDataGroup(elems...)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// exampleElems derives the fields of one example from its groundtruth
// element, each expanded to a stereo pair when configured.
func exampleElems(cfg *Config, gt *kitti.DataElem) ([]*kitti.DataElem, error) {
	var elems []*kitti.DataElem
	expand := func(elem *kitti.DataElem, err error) error {
		if err != nil {
			return err
		}
		if !cfg.Stereo {
			elems = append(elems, elem)
			return nil
		}
		pair, err := stereoPair(elem)
		if err != nil {
			return err
		}
		elems = append(elems, pair...)
		return nil
	}

	if err := expand(gt, nil); err != nil {
		return nil, err
	}

	imagePath := filepath.Join(cfg.RawRoot, gt.Date, gt.Drive,
		kitti.CamToken(gt.Cam), "data", kitti.FrameToken(gt.Frame())+".png")
	if err := expand(kitti.NewDataElem("image", kitti.ImageElem, imagePath)); err != nil {
		return nil, err
	}

	lidarPath := strings.ReplaceAll(gt.Path(), "groundtruth", "velodyne_raw")
	if err := expand(kitti.NewDataElem("lidar", kitti.DepthElem, lidarPath)); err != nil {
		return nil, err
	}

	calibPath := filepath.Join(cfg.RawRoot, gt.Date, "calib_cam_to_cam.txt")
	if err := expand(kitti.NewDataElem("intrinsics", kitti.IntrinsicsElem, calibPath,
		kitti.WithCam(gt.Cam), kitti.WithDrive(gt.Drive), kitti.WithFrame(gt.Frame()))); err != nil {
		return nil, err
	}
	return elems, nil
}

// stereoPair derives the _left (camera 2) and _right (camera 3) variants
// of an element by substituting its camera token. Paths without the token
// (calibration files) yield variants differing only in the camera field.
func stereoPair(elem *kitti.DataElem) ([]*kitti.DataElem, error) {
	pair := make([]*kitti.DataElem, 0, 2)
	for _, side := range []struct {
		suffix string
		cam    int
	}{{"_left", 2}, {"_right", 3}} {
		path := strings.ReplaceAll(elem.Path(), kitti.CamToken(elem.Cam), kitti.CamToken(side.cam))
		variant, err := kitti.NewDataElem(elem.Name+side.suffix, elem.Type, path,
			kitti.WithCam(side.cam), kitti.WithDrive(elem.Drive), kitti.WithFrame(elem.Frame()))
		if err != nil {
			return nil, err
		}
		pair = append(pair, variant)
	}
	return pair, nil
}

// listGroundTruths walks the benchmark tree and returns one element per
// groundtruth map of the subset. With stereo set only camera-2 maps anchor
// examples, except on Test where the selection drives the filtering.
func listGroundTruths(root string, subset Subset, stereo bool) ([]*kitti.DataElem, error) {
	var splits []string
	switch subset {
	case Train:
		splits = []string{"train"}
	case Val:
		splits = []string{"val"}
	case Test, All:
		splits = []string{"train", "val"}
	}

	var gts []*kitti.DataElem
	for _, split := range splits {
		err := filepath.WalkDir(filepath.Join(root, split), func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			slashed := filepath.ToSlash(path)
			if !strings.Contains(slashed, "/groundtruth/") || !strings.HasSuffix(slashed, ".png") {
				return nil
			}
			if stereo && subset != Test && !strings.Contains(slashed, "/image_02/") {
				return nil
			}
			gt, err := kitti.NewDataElem("gt", kitti.DepthElem, path)
			if err != nil {
				return err
			}
			gts = append(gts, gt)
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to walk %q", filepath.Join(root, split))
		}
	}

	if subset == Test {
		return filterTestSelection(root, gts)
	}
	return gts, nil
}

// filterTestSelection keeps only the groundtruth maps whose frames appear
// in the cropped validation selection. Selection file names embed drive,
// frame and camera, so identity comparison does the matching.
func filterTestSelection(root string, gts []*kitti.DataElem) ([]*kitti.DataElem, error) {
	selectionDir := filepath.Join(root, "val_selection_cropped", "groundtruth_depth")
	files, err := os.ReadDir(selectionDir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read test selection %q", selectionDir)
	}
	selected := make(map[kitti.Ident]bool, len(files))
	for _, f := range files {
		elem, err := kitti.NewDataElem("gt", kitti.DepthElem, filepath.Join(selectionDir, f.Name()))
		if err != nil {
			return nil, err
		}
		selected[elem.Ident()] = true
	}

	kept := gts[:0]
	for _, gt := range gts {
		if selected[gt.Ident()] {
			kept = append(kept, gt)
		}
	}
	return kept, nil
}

func dirMissingOrEmpty(path string) bool {
	entries, err := os.ReadDir(path)
	if err != nil {
		return true
	}
	return len(entries) == 0
}
