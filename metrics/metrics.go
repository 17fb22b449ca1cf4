// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package metrics implements the evaluation metrics of the KITTI depth
// benchmarks.
//
// All functions take parallel slices of predicted and true depths, in
// meters, and panic on length mismatch. Pixels without a groundtruth
// measurement (depth 0) must be filtered out by the caller before
// evaluation; the inverse and relative metrics divide by the values.
package metrics

import "math"

func mustMatch(pred, truth []float64) {
	if len(pred) != len(truth) {
		panic("metrics: prediction and groundtruth lengths differ")
	}
}

func mean(values func(i int) float64, n int) float64 {
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += values(i)
	}
	return sum / float64(n)
}

// MSE computes the mean squared error.
func MSE(pred, truth []float64) float64 {
	mustMatch(pred, truth)
	return mean(func(i int) float64 {
		d := pred[i] - truth[i]
		return d * d
	}, len(pred))
}

// RMSE computes the root mean squared error.
func RMSE(pred, truth []float64) float64 {
	return math.Sqrt(MSE(pred, truth))
}

// IRMSE computes the root mean squared error of the inverse depths, in
// 1/m. The standard completion benchmark metric.
func IRMSE(pred, truth []float64) float64 {
	mustMatch(pred, truth)
	return math.Sqrt(mean(func(i int) float64 {
		d := 1/truth[i] - 1/pred[i]
		return d * d
	}, len(pred)))
}

// MAE computes the mean absolute error.
func MAE(pred, truth []float64) float64 {
	mustMatch(pred, truth)
	return mean(func(i int) float64 {
		return math.Abs(pred[i] - truth[i])
	}, len(pred))
}

// IMAE computes the mean absolute error of the inverse depths, in 1/m.
func IMAE(pred, truth []float64) float64 {
	mustMatch(pred, truth)
	return mean(func(i int) float64 {
		return math.Abs(1/truth[i] - 1/pred[i])
	}, len(pred))
}

// SqRelError computes the squared error relative to the groundtruth.
func SqRelError(pred, truth []float64) float64 {
	mustMatch(pred, truth)
	return mean(func(i int) float64 {
		d := pred[i] - truth[i]
		return d * d / truth[i]
	}, len(pred))
}

// AbsRelError computes the absolute error relative to the groundtruth.
func AbsRelError(pred, truth []float64) float64 {
	mustMatch(pred, truth)
	return mean(func(i int) float64 {
		return math.Abs(pred[i]-truth[i]) / truth[i]
	}, len(pred))
}

// SiLog computes the scale-invariant logarithmic error of Eigen et al.
// (https://arxiv.org/abs/1406.2283): the variance of the log-depth
// differences, insensitive to a global scaling of the prediction.
func SiLog(pred, truth []float64) float64 {
	mustMatch(pred, truth)
	diff := func(i int) float64 {
		return math.Log(pred[i]) - math.Log(truth[i])
	}
	meanDiff := mean(diff, len(pred))
	meanSq := mean(func(i int) float64 {
		d := diff(i)
		return d * d
	}, len(pred))
	return meanSq - meanDiff*meanDiff
}

// RatioThreshold computes the fraction of pixels whose depth ratio
// max(pred/truth, truth/pred) is below threshold. The benchmark accuracy
// deltas use thresholds 1.25, 1.25^2 and 1.25^3.
func RatioThreshold(threshold float64, pred, truth []float64) float64 {
	mustMatch(pred, truth)
	return mean(func(i int) float64 {
		if math.Max(truth[i]/pred[i], pred[i]/truth[i]) < threshold {
			return 1
		}
		return 0
	}, len(pred))
}

// Delta returns the 1.25^n accuracy threshold, for the benchmark's
// delta1, delta2 and delta3 columns.
func Delta(n int) float64 {
	return math.Pow(1.25, float64(n))
}
