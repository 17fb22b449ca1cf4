// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package lidar

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScan(t *testing.T, values []float32) string {
	t.Helper()
	buf := make([]byte, 0, 4*len(values))
	for _, v := range values {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	path := filepath.Join(t.TempDir(), "0000000005.bin")
	require.NoError(t, os.WriteFile(path, buf, 0o644))
	return path
}

func TestLoadReflectance(t *testing.T) {
	scan := []float32{
		1.0, 2.0, 3.0, 0.25,
		-4.0, 5.5, -6.0, 0.75,
	}
	points, n, err := Load(writeScan(t, scan), false)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, scan, points)
}

func TestLoadProjective(t *testing.T) {
	scan := []float32{
		1.0, 2.0, 3.0, 0.25,
		-4.0, 5.5, -6.0, 0.75,
	}
	points, n, err := Load(writeScan(t, scan), true)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []float32{
		1.0, 2.0, 3.0, 1.0,
		-4.0, 5.5, -6.0, 1.0,
	}, points)
}

func TestLoadRejectsTruncatedScans(t *testing.T) {
	path := filepath.Join(t.TempDir(), "0000000005.bin")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0o644))
	_, _, err := Load(path, false)
	assert.ErrorContains(t, err, "multiple")
}
