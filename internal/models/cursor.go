package models

import (
	"fmt"
)

// Cursor is a voxel coordinate into the volume grid
type Cursor struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Axis returns the coordinate along axis (0=x, 1=y, 2=z)
func (c Cursor) Axis(axis int) int {
	switch axis {
	case 0:
		return c.X
	case 1:
		return c.Y
	default:
		return c.Z
	}
}

// Clamp limits each coordinate to the extent of v
func (c Cursor) Clamp(v *Volume) Cursor {
	return Cursor{
		X: clampInt(c.X, 0, v.Width-1),
		Y: clampInt(c.Y, 0, v.Height-1),
		Z: clampInt(c.Z, 0, v.Depth-1),
	}
}

func (c Cursor) String() string {
	return fmt.Sprintf("%d, %d, %d", c.X, c.Y, c.Z)
}

// Center returns the cursor at the middle voxel of v
func Center(v *Volume) Cursor {
	return Cursor{X: v.Width / 2, Y: v.Height / 2, Z: v.Depth / 2}
}

// WindowLevel holds the linear contrast remap parameters.
// Window is the width of the displayed intensity range, Level its center.
type WindowLevel struct {
	Window float64 `json:"window" yaml:"window" toml:"window"`
	Level  float64 `json:"level" yaml:"level" toml:"level"`
}

// ShiftScale converts window/level into the parameters of the shift/scale
// stage: out = (in + shift) * scale maps [level-window/2, level+window/2] to [0, 255].
func (wl WindowLevel) ShiftScale() (shift, scale float64) {
	scale = 255.0 / wl.Window
	shift = wl.Window/2.0 - wl.Level
	return shift, scale
}

// Range is an inclusive numeric interval
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Clamp limits value to the interval
func (r Range) Clamp(value float64) float64 {
	if value < r.Min {
		return r.Min
	}
	if value > r.Max {
		return r.Max
	}
	return value
}

// Contains reports whether value lies inside the interval
func (r Range) Contains(value float64) bool {
	return value >= r.Min && value <= r.Max
}

// Include returns the smallest interval covering r and value
func (r Range) Include(value float64) Range {
	if value < r.Min {
		r.Min = value
	}
	if value > r.Max {
		r.Max = value
	}
	return r
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
