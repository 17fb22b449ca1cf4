// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package depthprediction loads the 2017 KITTI depth prediction benchmark.
//
// It shares archives, folder layout and example index with the depth
// completion benchmark; the only difference is that the sparse lidar
// projections are not part of the examples, depth is predicted from the
// camera image alone.
package depthprediction

import (
	"math/rand/v2"

	"github.com/gomlx/kitti"
	"github.com/gomlx/kitti/depthcompletion"
	"k8s.io/klog/v2"
)

// Subsets, re-exported from the completion benchmark.
const (
	Train = depthcompletion.Train
	Val   = depthcompletion.Val
	Test  = depthcompletion.Test
	All   = depthcompletion.All
)

// Config configures a depth prediction Dataset. See the depthcompletion
// package for the field semantics.
type Config struct {
	RawRoot        string
	CompletionRoot string
	Subset         depthcompletion.Subset
	Stereo         bool
	Previous       kitti.PrevPolicy
	Sequence       int
	Rand           *rand.Rand
	Transform      kitti.Transform
	Download       bool
}

// Dataset indexes depth prediction examples: gt, image and intrinsics
// fields (suffixed _left and _right with Stereo set).
type Dataset struct {
	*kitti.Dataset
}

// New builds the example index. It validates and, when asked, downloads
// through the depthcompletion package and then drops the lidar fields.
func New(cfg Config) (*Dataset, error) {
	completion, err := depthcompletion.New(depthcompletion.Config{
		RawRoot:        cfg.RawRoot,
		CompletionRoot: cfg.CompletionRoot,
		Subset:         cfg.Subset,
		Stereo:         cfg.Stereo,
		Previous:       cfg.Previous,
		Sequence:       cfg.Sequence,
		Rand:           cfg.Rand,
		Download:       cfg.Download,
	})
	if err != nil {
		return nil, err
	}
	groups := completion.Groups()
	stripLidar(groups)
	klog.V(1).Infof("indexed %d depth prediction examples (subset %s)", len(groups), cfg.Subset)
	return &Dataset{kitti.NewDataset(groups, cfg.Transform)}, nil
}

// stripLidar drops the sparse lidar fields, mono and stereo variants
// alike, from every group.
func stripLidar(groups []*kitti.DataGroup) {
	for _, group := range groups {
		for _, name := range []string{"lidar", "lidar_left", "lidar_right"} {
			group.Remove(name)
		}
	}
}

// Download fetches and scaffolds the benchmark archives under root. The
// prediction and completion benchmarks share their distribution.
func Download(root string) error { return depthcompletion.Download(root) }

// CheckFolders reports whether root holds a complete benchmark tree.
func CheckFolders(root string) bool { return depthcompletion.CheckFolders(root) }
