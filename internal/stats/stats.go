// Package stats computes the outlier-robust price average used as the
// alerting baseline.
package stats

import (
	"errors"
	"math"
)

// ErrNoListings is returned when a price set is empty and no average can be
// produced.
var ErrNoListings = errors.New("no listings to average")

// AdjustedAverage returns the mean of prices restricted to the band
// [mean-3*sigma, mean+3*sigma] computed over the full input. A single
// out-of-line listing therefore barely moves the result, while a tight
// cluster averages to itself.
//
// Empty input returns ErrNoListings. If floating rounding empties the
// restricted subset, the unrestricted mean is returned instead.
func AdjustedAverage(prices []float64) (float64, error) {
	if len(prices) == 0 {
		return 0, ErrNoListings
	}

	mean := sum(prices) / float64(len(prices))
	sigma := stddev(prices, mean)

	lower := mean - 3*sigma
	upper := mean + 3*sigma

	var trimmedSum float64
	var trimmedN int
	for _, p := range prices {
		if p >= lower && p <= upper {
			trimmedSum += p
			trimmedN++
		}
	}
	if trimmedN == 0 {
		return mean, nil
	}
	return trimmedSum / float64(trimmedN), nil
}

func sum(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += v
	}
	return s
}

// stddev is the sample standard deviation, matching the statistics library
// the market data was originally tuned against. A single element yields 0.
func stddev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var m2 float64
	for _, v := range values {
		d := v - mean
		m2 += d * d
	}
	return math.Sqrt(m2 / float64(len(values)-1))
}
