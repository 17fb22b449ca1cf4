// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package oxts reads GPS/IMU records of KITTI raw recordings.
//
// Each frame of a drive has a matching text file under oxts/data with a
// single line of 30 space-separated values, in the order documented by the
// dataformat.txt shipped with the recordings.
package oxts

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// numFields is the number of values on an oxts line.
const numFields = 30

// IMUData is one GPS/IMU record. Velocities are in m/s, accelerations in
// m/s^2 and angular rates in rad/s. The f/l/u suffixes denote the
// forward/left/up vehicle axes, n/e the north/east navigation axes.
type IMUData struct {
	Lat         float64 // latitude, deg
	Lon         float64 // longitude, deg
	Alt         float64 // altitude, m
	Roll        float64
	Pitch       float64
	Yaw         float64
	VN          float64
	VE          float64
	VF          float64
	VL          float64
	VU          float64
	AX          float64
	AY          float64
	AZ          float64
	AF          float64
	AL          float64
	AU          float64
	WX          float64
	WY          float64
	WZ          float64
	WF          float64
	WL          float64
	WU          float64
	PosAccuracy float64 // position accuracy, north/east in m
	VelAccuracy float64 // velocity accuracy, north/east in m/s

	NavStat int // navigation status
	NumSats int // number of satellites tracked by the primary GPS receiver
	PosMode int // position mode of the primary GPS receiver
	VelMode int // velocity mode of the primary GPS receiver
	OriMode int // orientation mode of the primary GPS receiver
}

// Load reads one IMU record from an oxts text file.
func Load(path string) (*IMUData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open oxts file %q", path)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, errors.Wrapf(err, "failed to read oxts file %q", path)
		}
		return nil, errors.Errorf("oxts file %q is empty", path)
	}
	fields := strings.Fields(scanner.Text())
	if len(fields) != numFields {
		return nil, errors.Errorf("oxts file %q has %d fields, want %d",
			path, len(fields), numFields)
	}
	values := make([]float64, numFields)
	for i, field := range fields {
		values[i], err = strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "field %d of oxts file %q", i, path)
		}
	}

	return &IMUData{
		Lat:         values[0],
		Lon:         values[1],
		Alt:         values[2],
		Roll:        values[3],
		Pitch:       values[4],
		Yaw:         values[5],
		VN:          values[6],
		VE:          values[7],
		VF:          values[8],
		VL:          values[9],
		VU:          values[10],
		AX:          values[11],
		AY:          values[12],
		AZ:          values[13],
		AF:          values[14],
		AL:          values[15],
		AU:          values[16],
		WX:          values[17],
		WY:          values[18],
		WZ:          values[19],
		WF:          values[20],
		WL:          values[21],
		WU:          values[22],
		PosAccuracy: values[23],
		VelAccuracy: values[24],
		NavStat:     int(values[25]),
		NumSats:     int(values[26]),
		PosMode:     int(values[27]),
		VelMode:     int(values[28]),
		OriMode:     int(values[29]),
	}, nil
}
