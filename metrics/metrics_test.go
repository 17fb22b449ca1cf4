// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	pred  = []float64{2, 4}
	truth = []float64{1, 2}
)

func TestSquaredErrors(t *testing.T) {
	assert.InDelta(t, 2.5, MSE(pred, truth), 1e-12)
	assert.InDelta(t, math.Sqrt(2.5), RMSE(pred, truth), 1e-12)
	assert.InDelta(t, 1.5, SqRelError(pred, truth), 1e-12)
}

func TestAbsoluteErrors(t *testing.T) {
	assert.InDelta(t, 1.5, MAE(pred, truth), 1e-12)
	assert.InDelta(t, 1.0, AbsRelError(pred, truth), 1e-12)
}

func TestInverseErrors(t *testing.T) {
	// Inverse residuals: |1/1 - 1/2| = 0.5 and |1/2 - 1/4| = 0.25.
	assert.InDelta(t, 0.375, IMAE(pred, truth), 1e-12)
	assert.InDelta(t, math.Sqrt((0.25+0.0625)/2), IRMSE(pred, truth), 1e-12)
}

func TestSiLogScaleInvariance(t *testing.T) {
	// A prediction off by a constant factor has zero scale-invariant
	// error.
	assert.InDelta(t, 0.0, SiLog(pred, truth), 1e-12)

	skewed := []float64{2, 8}
	assert.Greater(t, SiLog(skewed, truth), 0.0)
}

func TestRatioThreshold(t *testing.T) {
	// Both predictions are exactly twice the groundtruth.
	assert.Equal(t, 0.0, RatioThreshold(Delta(1), pred, truth))
	assert.Equal(t, 0.0, RatioThreshold(2.0, pred, truth), "strictly below")
	assert.Equal(t, 1.0, RatioThreshold(2.1, pred, truth))
	assert.InDelta(t, 1.25*1.25, Delta(2), 1e-12)
}

func TestLengthMismatchPanics(t *testing.T) {
	assert.Panics(t, func() { MSE([]float64{1}, []float64{1, 2}) })
}
