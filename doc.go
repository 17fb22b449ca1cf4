// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package kitti provides the building blocks used to index the KITTI Vision
// Benchmark Suite directory trees and to lazily load their heterogeneous
// sensor files (camera images, LiDAR point clouds, IMU readings, calibration
// matrices, depth maps) into per-frame examples.
//
// KITTI file paths encode the recording session ("drive"), date, camera and
// frame index by naming convention, e.g.:
//
//	2011_09_26/2011_09_26_drive_0002_sync/image_02/data/0000000005.png
//
// The package infers those identifying fields from path strings (see
// DriveFromPath and friends), wraps each file into a DataElem -- a lazy
// handle that decodes its content on first access -- and assembles the
// elements of one frame into a DataGroup. Temporal neighbors (a previous
// frame, or a short run of frames) can be attached to every element of a
// group with a PrevResolver.
//
// Decoding is dispatched through a small registry keyed by ElemType; the
// implementations live in the sub-package decode and are installed by
// importing it for its side effects:
//
//	import _ "github.com/gomlx/kitti/decode"
//
// The benchmark-specific packages raw, depthcompletion and depthprediction
// build on this package to turn dataset roots into ready-to-iterate
// example lists, and to adapt them to GoMLX's train.Dataset.
package kitti
