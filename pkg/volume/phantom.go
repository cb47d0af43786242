package volume

import (
	"orthoslice/internal/models"
)

// ellipsoid is one additive component of the head phantom, in normalized
// coordinates where the volume spans [-1, 1] on every axis.
type ellipsoid struct {
	cx, cy, cz float64
	rx, ry, rz float64
	value      float64
}

// headPhantom stacks a skull shell, brain tissue, ventricles and a few
// lesions. Intensities land in the range of a typical T1 head study.
var headPhantom = []ellipsoid{
	{0, 0, 0, 0.90, 0.95, 0.92, 1900},           // skull
	{0, 0, 0, 0.84, 0.89, 0.86, -1700},          // inside of skull
	{0, 0, 0, 0.82, 0.87, 0.84, 1000},           // brain
	{-0.18, 0.05, 0.1, 0.10, 0.28, 0.22, -650},  // left ventricle
	{0.18, 0.05, 0.1, 0.10, 0.28, 0.22, -650},   // right ventricle
	{0.35, -0.35, -0.2, 0.08, 0.08, 0.08, 1400}, // lesion
	{-0.30, 0.40, 0.35, 0.05, 0.06, 0.05, 900},  // lesion
	{0, -0.55, -0.45, 0.20, 0.12, 0.15, 500},    // cerebellum
}

// Phantom builds a deterministic synthetic head volume. It stands in for the
// sample MR dataset so the viewer can run without data files.
func Phantom(width, height, depth int) *models.Volume {
	vol := models.NewVolume(width, height, depth)

	for z := 0; z < depth; z++ {
		nz := normalize(z, depth)
		for y := 0; y < height; y++ {
			ny := normalize(y, height)
			for x := 0; x < width; x++ {
				nx := normalize(x, width)
				var value float64
				for _, e := range headPhantom {
					dx := (nx - e.cx) / e.rx
					dy := (ny - e.cy) / e.ry
					dz := (nz - e.cz) / e.rz
					if dx*dx+dy*dy+dz*dz <= 1 {
						value += e.value
					}
				}
				vol.Set(x, y, z, value)
			}
		}
	}

	return vol
}

// normalize maps voxel index i of n to the center of its cell in [-1, 1]
func normalize(i, n int) float64 {
	return (float64(i)+0.5)/float64(n)*2 - 1
}
