package models

import (
	"fmt"
)

// Volume represents a 3D scalar volume such as an MRI or CT acquisition
type Volume struct {
	// Data is the 3D volume data as a 1D array, x fastest, then y, then z
	Data []float64

	// Width is the width of the volume in voxels (x extent)
	Width int

	// Height is the height of the volume in voxels (y extent)
	Height int

	// Depth is the depth of the volume in voxels (z extent)
	Depth int

	// Spacing is the physical size of each voxel in mm
	Spacing struct {
		X, Y, Z float64
	}
}

// NewVolume allocates a zero-filled volume with unit spacing
func NewVolume(width, height, depth int) *Volume {
	v := &Volume{
		Data:   make([]float64, width*height*depth),
		Width:  width,
		Height: height,
		Depth:  depth,
	}
	v.Spacing.X, v.Spacing.Y, v.Spacing.Z = 1, 1, 1
	return v
}

// Index returns the offset of voxel (x, y, z) in Data
func (v *Volume) Index(x, y, z int) int {
	return z*v.Width*v.Height + y*v.Width + x
}

// At returns the value of voxel (x, y, z)
func (v *Volume) At(x, y, z int) float64 {
	return v.Data[v.Index(x, y, z)]
}

// Set stores value at voxel (x, y, z)
func (v *Volume) Set(x, y, z int, value float64) {
	v.Data[v.Index(x, y, z)] = value
}

// Validate checks that the dimensions agree with the data length
func (v *Volume) Validate() error {
	if v.Width <= 0 || v.Height <= 0 || v.Depth <= 0 {
		return fmt.Errorf("invalid volume dimensions %dx%dx%d", v.Width, v.Height, v.Depth)
	}
	if len(v.Data) != v.Width*v.Height*v.Depth {
		return fmt.Errorf("volume data length %d does not match %dx%dx%d",
			len(v.Data), v.Width, v.Height, v.Depth)
	}
	return nil
}

// Extent returns the size of the volume along the given axis (0=x, 1=y, 2=z)
func (v *Volume) Extent(axis int) int {
	switch axis {
	case 0:
		return v.Width
	case 1:
		return v.Height
	default:
		return v.Depth
	}
}

// Volume8 is the 8-bit output of the intensity remap stage, same layout as Volume
type Volume8 struct {
	Data   []uint8
	Width  int
	Height int
	Depth  int
}

// Index returns the offset of voxel (x, y, z) in Data
func (v *Volume8) Index(x, y, z int) int {
	return z*v.Width*v.Height + y*v.Width + x
}
