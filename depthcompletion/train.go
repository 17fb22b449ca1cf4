// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package depthcompletion

import (
	"image"
	"io"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/gomlx/gomlx/pkg/core/tensors/images"
	"github.com/gomlx/gomlx/pkg/ml/train"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// trainDataset adapts a Dataset to the train.Dataset interface, yielding
// one example per call: the camera image and sparse lidar map as inputs,
// the groundtruth depth map as label.
type trainDataset struct {
	name string
	ds   *Dataset

	width, height int

	mu   sync.Mutex
	next int
}

// ToTrain wraps the dataset for training loops. When width and height are
// positive the camera image is resized to them; depth maps are yielded at
// their stored resolution. Stereo datasets are not supported, their field
// names differ.
//
// Yield reads from disk on every call, wrap it with data.NewParallelDataset
// (or equivalent) to parallelize the decoding.
func (ds *Dataset) ToTrain(name string, width, height int) train.Dataset {
	return &trainDataset{name: name, ds: ds, width: width, height: height}
}

// Name implements train.Dataset.
func (ds *trainDataset) Name() string { return ds.name }

// Reset implements train.Dataset, restarting the epoch.
func (ds *trainDataset) Reset() {
	ds.mu.Lock()
	ds.next = 0
	ds.mu.Unlock()
}

// nextIndex returns the next example index, or -1 at the end of the
// epoch. Concurrency safe.
func (ds *trainDataset) nextIndex() int {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	if ds.next < 0 {
		return -1
	}
	index := ds.next
	ds.next++
	if ds.next >= ds.ds.Len() {
		ds.next = -1
	}
	return index
}

// Yield implements train.Dataset. It returns ds as spec, the image and
// lidar tensors as inputs and the groundtruth depth tensor as label. At
// the end of the epoch it returns io.EOF.
func (ds *trainDataset) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	spec = ds
	index := ds.nextIndex()
	if index < 0 {
		err = io.EOF
		return
	}
	example, err := ds.ds.At(index)
	if err != nil {
		err = errors.WithMessagef(err, "failed to load example #%d", index)
		return
	}

	imageTensor, err := ds.imageTensor(example, index)
	if err != nil {
		return
	}
	lidarTensor, err := fieldTensor(example, "lidar", index)
	if err != nil {
		return
	}
	gtTensor, err := fieldTensor(example, "gt", index)
	if err != nil {
		return
	}
	inputs = []*tensors.Tensor{imageTensor, lidarTensor}
	labels = []*tensors.Tensor{gtTensor}
	return
}

// imageTensor decodes and optionally resizes the camera image of an
// example, converting it to a float32 tensor shaped [height, width, 3].
func (ds *trainDataset) imageTensor(example map[string]any, index int) (*tensors.Tensor, error) {
	img, ok := example["image"].(image.Image)
	if !ok {
		return nil, errors.Errorf("example #%d has no decoded camera image, got %T", index, example["image"])
	}
	if ds.width > 0 && ds.height > 0 {
		img = imaging.Resize(img, ds.width, ds.height, imaging.Linear)
	}
	return images.ToTensor(dtypes.Float32).Single(img), nil
}

func fieldTensor(example map[string]any, field string, index int) (*tensors.Tensor, error) {
	tensor, ok := example[field].(*tensors.Tensor)
	if !ok {
		return nil, errors.Errorf("example #%d has no decoded %s map, got %T", index, field, example[field])
	}
	return tensor, nil
}
