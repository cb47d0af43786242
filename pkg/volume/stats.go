package volume

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"orthoslice/internal/models"
)

// Stats summarizes the intensity distribution of a volume
type Stats struct {
	Range  models.Range
	Mean   float64
	StdDev float64
	Median float64
	// P01 and P99 are the 1st and 99th percentiles
	P01 float64
	P99 float64
}

// ScalarRange returns the minimum and maximum voxel value
func ScalarRange(vol *models.Volume) models.Range {
	if len(vol.Data) == 0 {
		return models.Range{}
	}
	return models.Range{Min: floats.Min(vol.Data), Max: floats.Max(vol.Data)}
}

// ComputeStats computes range, moments and percentiles of vol
func ComputeStats(vol *models.Volume) Stats {
	if len(vol.Data) == 0 {
		return Stats{}
	}

	sorted := make([]float64, len(vol.Data))
	copy(sorted, vol.Data)
	sort.Float64s(sorted)

	mean, std := stat.MeanStdDev(sorted, nil)
	return Stats{
		Range:  models.Range{Min: sorted[0], Max: sorted[len(sorted)-1]},
		Mean:   mean,
		StdDev: std,
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P01:    stat.Quantile(0.01, stat.Empirical, sorted, nil),
		P99:    stat.Quantile(0.99, stat.Empirical, sorted, nil),
	}
}

// WindowRange returns the bounds of the window control: 1 to half the scalar span
func WindowRange(r models.Range) models.Range {
	upper := (r.Max - r.Min) / 2
	if upper < 1 {
		upper = 1
	}
	return models.Range{Min: 1, Max: upper}
}

// LevelRange returns the bounds of the level control: the scalar range itself
func LevelRange(r models.Range) models.Range {
	return r
}
