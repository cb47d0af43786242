package pipeline

import (
	"math"
	"runtime"
	"sync"

	"orthoslice/internal/models"
)

// ShiftScale is the linear intensity remap stage: out = (in + Shift) * Scale,
// clamped to the unsigned 8-bit range.
type ShiftScale struct {
	Shift float64
	Scale float64

	// Workers bounds the number of goroutines used by Apply; zero means all cores
	Workers int
}

// Map remaps a single value
func (s ShiftScale) Map(value float64) uint8 {
	out := (value + s.Shift) * s.Scale
	if math.IsNaN(out) || out <= 0 {
		return 0
	}
	if out >= 255 {
		return 255
	}
	return uint8(out)
}

// Apply remaps every voxel of vol. The z range is split into contiguous
// chunks that are processed in parallel.
func (s ShiftScale) Apply(vol *models.Volume) *models.Volume8 {
	out := &models.Volume8{
		Data:   make([]uint8, len(vol.Data)),
		Width:  vol.Width,
		Height: vol.Height,
		Depth:  vol.Depth,
	}

	workers := s.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > vol.Depth {
		workers = vol.Depth
	}
	if workers < 1 {
		workers = 1
	}

	plane := vol.Width * vol.Height
	chunk := (vol.Depth + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < vol.Depth; start += chunk {
		end := start + chunk
		if end > vol.Depth {
			end = vol.Depth
		}

		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo * plane; i < hi*plane; i++ {
				out.Data[i] = s.Map(vol.Data[i])
			}
		}(start, end)
	}
	wg.Wait()

	return out
}
