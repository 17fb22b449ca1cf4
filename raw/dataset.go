// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package raw

import (
	"fmt"
	"io/fs"
	"math/rand/v2"
	"path/filepath"
	"strings"

	"github.com/gomlx/kitti"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Lidar loading modes.
const (
	// LidarProjective loads point clouds in the projective space, the
	// reflectance column replaced by 1.0.
	LidarProjective = "projective"

	// LidarReflectance keeps the measured reflectance.
	LidarReflectance = "reflectance"

	// LidarOff skips point clouds altogether.
	LidarOff = "off"
)

// Config configures a raw-recordings Dataset. The zero value selects
// camera 2 images, calibrations of cameras 0 and 2, projective lidar
// scans and no IMU data, matching the most common monocular setup.
type Config struct {
	// Root of the synced+rectified tree.
	Root string

	// Cams are the cameras whose images to load, each in 0..3. Empty
	// selects camera 2.
	Cams []int

	// Calibs are the cameras whose calibration records to load. Empty
	// selects cameras 0 and 2.
	Calibs []int

	// Lidar is one of LidarProjective, LidarReflectance or LidarOff.
	// Empty means LidarProjective. When enabled examples also carry the
	// lidar_to_cam_00 transform.
	Lidar string

	// IMU adds the imu_data reading and the imu_to_lidar transform.
	IMU bool

	// Previous attaches a temporal neighbor to every example field,
	// published under the field name with a _previous suffix.
	Previous kitti.PrevPolicy

	// Rand draws the offsets of RandomPrev policies. Nil uses the shared
	// generator.
	Rand *rand.Rand

	// Transform is applied to every example map. Nil means identity.
	Transform kitti.Transform

	// DownloadDrives fetches the named drives (and the calibration
	// archives) into Root before indexing. The full dataset is about
	// 170GB, so the drives wanted must be listed explicitly.
	DownloadDrives []string
}

func (cfg *Config) setDefaults() {
	if len(cfg.Cams) == 0 {
		cfg.Cams = []int{2}
	}
	if len(cfg.Calibs) == 0 {
		cfg.Calibs = []int{0, 2}
	}
	if cfg.Lidar == "" {
		cfg.Lidar = LidarProjective
	}
}

func (cfg *Config) validate() error {
	for _, cam := range append(append([]int{}, cfg.Cams...), cfg.Calibs...) {
		if cam < 0 || cam > 3 {
			return errors.Wrapf(kitti.ErrInvalidConfig, "each camera must be in range 0..3, got %d", cam)
		}
	}
	switch cfg.Lidar {
	case LidarProjective, LidarReflectance, LidarOff:
	default:
		return errors.Wrapf(kitti.ErrInvalidConfig,
			"Lidar must be %q, %q or %q, got %q", LidarProjective, LidarReflectance, LidarOff, cfg.Lidar)
	}
	return cfg.Previous.Validate()
}

// Dataset indexes a synced+rectified raw tree, one example per camera-0
// frame.
type Dataset struct {
	*kitti.Dataset
}

// New indexes the raw recordings under cfg.Root. Every camera-0 image is
// an example anchor; the remaining modalities are derived from its path.
func New(cfg Config) (*Dataset, error) {
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(cfg.DownloadDrives) > 0 {
		if err := DownloadDrives(cfg.Root, cfg.DownloadDrives); err != nil {
			return nil, err
		}
	}
	if !CheckLayout(cfg.Root) {
		return nil, errors.Errorf("path %q does not contain synced+rectified raw recordings", cfg.Root)
	}

	anchors, err := listAnchors(cfg.Root)
	if err != nil {
		return nil, err
	}
	groups := make([]*kitti.DataGroup, 0, len(anchors))
	for _, anchor := range anchors {
		group, err := buildGroup(cfg.Root, anchor, &cfg)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	klog.V(1).Infof("indexed %d raw examples under %q", len(groups), cfg.Root)

	transform := cfg.Transform
	if cfg.Previous.Enabled() {
		transform = chainTransforms(splitPrevious, cfg.Transform)
	}
	return &Dataset{kitti.NewDataset(groups, transform)}, nil
}

// listAnchors returns every camera-0 image under root, in the
// deterministic lexical order of the directory walk.
func listAnchors(root string) ([]string, error) {
	var anchors []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		slashed := filepath.ToSlash(path)
		if strings.Contains(slashed, "/image_00/data/") && strings.HasSuffix(slashed, ".png") {
			anchors = append(anchors, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to walk raw root %q", root)
	}
	return anchors, nil
}

// buildGroup derives all selected modalities of one camera-0 frame.
func buildGroup(root, anchor string, cfg *Config) (*kitti.DataGroup, error) {
	base, err := kitti.NewDataElem("cam_00", kitti.ImageElem, anchor)
	if err != nil {
		return nil, err
	}
	datePath := filepath.Join(root, base.Date)
	common := []kitti.ElemOption{
		kitti.WithDrive(base.Drive),
		kitti.WithFrame(base.Frame()),
	}

	var elems []*kitti.DataElem
	add := func(elem *kitti.DataElem, err error) error {
		if err != nil {
			return err
		}
		elems = append(elems, elem)
		return nil
	}

	for _, cam := range cfg.Cams {
		path := strings.Replace(anchor, "image_00", kitti.CamToken(cam), 1)
		if err := add(kitti.NewDataElem(fmt.Sprintf("cam_%02d", cam), kitti.ImageElem, path)); err != nil {
			return nil, err
		}
	}
	for _, cam := range cfg.Calibs {
		opts := append([]kitti.ElemOption{kitti.WithCam(cam)}, common...)
		if err := add(kitti.NewDataElem(fmt.Sprintf("cam_%02d_calib", cam), kitti.CalibElem,
			filepath.Join(datePath, "calib_cam_to_cam.txt"), opts...)); err != nil {
			return nil, err
		}
	}
	if cfg.Lidar != LidarOff {
		binPath := swapExt(strings.Replace(anchor, "image_00", "velodyne_points", 1), ".bin")
		if err := add(kitti.NewDataElem("lidar_data", kitti.PointCloudElem, binPath,
			kitti.WithOpt("pcd_format", cfg.Lidar))); err != nil {
			return nil, err
		}
		if err := add(kitti.NewDataElem("lidar_to_cam_00", kitti.RigidTransformElem,
			filepath.Join(datePath, "calib_velo_to_cam.txt"), common...)); err != nil {
			return nil, err
		}
	}
	if cfg.IMU {
		oxtsPath := swapExt(strings.Replace(anchor, "image_00", "oxts", 1), ".txt")
		if err := add(kitti.NewDataElem("imu_data", kitti.IMUElem, oxtsPath)); err != nil {
			return nil, err
		}
		if err := add(kitti.NewDataElem("imu_to_lidar", kitti.RigidTransformElem,
			filepath.Join(datePath, "calib_imu_to_velo.txt"), common...)); err != nil {
			return nil, err
		}
	}

	if cfg.Previous.Enabled() {
		resolver := kitti.NewPrevResolver(base).WithRand(cfg.Rand)
		for _, elem := range elems {
			if _, err := resolver.Resolve(elem, cfg.Previous, 1); err != nil {
				return nil, err
			}
		}
	}
	return kitti.NewDataGroup(elems...)
}

func swapExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// splitPrevious rewrites 2-entry field values, as produced by neighbor
// resolution, into a pair of fields: the older entry under the field name
// with a _previous suffix, the current one under the plain name.
func splitPrevious(example map[string]any) map[string]any {
	out := make(map[string]any, 2*len(example))
	for name, value := range example {
		if pair, ok := value.([]any); ok && len(pair) == 2 {
			out[name+"_previous"] = pair[0]
			out[name] = pair[1]
			continue
		}
		out[name] = value
	}
	return out
}

func chainTransforms(first, second kitti.Transform) kitti.Transform {
	if second == nil {
		return first
	}
	return func(example map[string]any) map[string]any {
		return second(first(example))
	}
}
