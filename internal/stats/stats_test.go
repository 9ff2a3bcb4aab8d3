package stats

import (
	"errors"
	"math"
	"testing"
)

func TestAdjustedAverage_Empty(t *testing.T) {
	_, err := AdjustedAverage(nil)
	if !errors.Is(err, ErrNoListings) {
		t.Fatalf("expected ErrNoListings, got %v", err)
	}
}

func TestAdjustedAverage_SingleElement(t *testing.T) {
	got, err := AdjustedAverage([]float64{1234})
	if err != nil {
		t.Fatalf("AdjustedAverage: %v", err)
	}
	if got != 1234 {
		t.Errorf("got %f, want 1234", got)
	}
}

func TestAdjustedAverage_ConstantPrices(t *testing.T) {
	// Zero standard deviation: the trimmed mean is the constant exactly.
	for _, n := range []int{1, 2, 5, 100} {
		prices := make([]float64, n)
		for i := range prices {
			prices[i] = 250.0
		}
		got, err := AdjustedAverage(prices)
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		if got != 250.0 {
			t.Errorf("n=%d: got %f, want 250.0", n, got)
		}
	}
}

func TestAdjustedAverage_WithinRange(t *testing.T) {
	tests := [][]float64{
		{100, 200, 300},
		{5, 5, 5, 10000},
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		{0.5, 700000, 3},
	}
	for _, prices := range tests {
		got, err := AdjustedAverage(prices)
		if err != nil {
			t.Fatalf("%v: %v", prices, err)
		}
		lo, hi := prices[0], prices[0]
		for _, p := range prices {
			lo = math.Min(lo, p)
			hi = math.Max(hi, p)
		}
		if got < lo || got > hi {
			t.Errorf("%v: average %f outside [%f, %f]", prices, got, lo, hi)
		}
	}
}

func TestAdjustedAverage_TrimsExtremeOutlier(t *testing.T) {
	// A tight cluster with one listing at 1000x the cluster mean: the
	// outlier must move the average by less than 5% of the cluster mean.
	//
	// The cluster has to be at least 12 points: a single outlier's
	// z-score against the full sample is bounded by (n-1)/sqrt(n), so
	// with n below 13 it can never clear three sigma no matter how
	// large the outlier is.
	cluster := []float64{
		980, 985, 990, 995, 1000, 1000,
		1005, 1010, 1015, 1020, 995, 1005,
	}
	var clusterMean float64
	for _, p := range cluster {
		clusterMean += p
	}
	clusterMean /= float64(len(cluster))

	withOutlier := append(append([]float64{}, cluster...), clusterMean*1000)
	got, err := AdjustedAverage(withOutlier)
	if err != nil {
		t.Fatalf("AdjustedAverage: %v", err)
	}

	if relDiff := math.Abs(got-clusterMean) / clusterMean; relDiff >= 0.05 {
		t.Errorf("outlier moved average from %f to %f (%.1f%%)", clusterMean, got, relDiff*100)
	}
}

func TestAdjustedAverage_KeepsModerateSpread(t *testing.T) {
	// Everything within 3 sigma stays in: the trimmed mean equals the
	// plain mean for a moderate spread.
	prices := []float64{100, 110, 120, 130, 140}
	got, err := AdjustedAverage(prices)
	if err != nil {
		t.Fatalf("AdjustedAverage: %v", err)
	}
	if got != 120 {
		t.Errorf("got %f, want 120", got)
	}
}
