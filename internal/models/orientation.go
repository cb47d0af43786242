package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownOrientation is returned when an orientation name cannot be parsed
var ErrUnknownOrientation = errors.New("unknown orientation")

// Orientation is one of the three anatomical viewing planes
type Orientation int

const (
	// Transverse shows the XY plane at the cursor's z
	Transverse Orientation = iota
	// Coronal shows the XZ plane at the cursor's y
	Coronal
	// Sagittal shows the YZ plane at the cursor's x
	Sagittal
)

// Orientations lists the three planes in display order
var Orientations = []Orientation{Transverse, Coronal, Sagittal}

func (o Orientation) String() string {
	switch o {
	case Transverse:
		return "transverse"
	case Coronal:
		return "coronal"
	case Sagittal:
		return "sagittal"
	default:
		return fmt.Sprintf("orientation(%d)", int(o))
	}
}

// Axis returns the volume axis held fixed by this plane (0=x, 1=y, 2=z)
func (o Orientation) Axis() int {
	switch o {
	case Transverse:
		return 2
	case Coronal:
		return 1
	default:
		return 0
	}
}

// Valid reports whether o is one of the three known planes
func (o Orientation) Valid() bool {
	return o >= Transverse && o <= Sagittal
}

// ParseOrientation accepts the plane name or its usual aliases
// (axial for transverse, frontal for coronal, and the fixed axis letter)
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "transverse", "axial", "z":
		return Transverse, nil
	case "coronal", "frontal", "y":
		return Coronal, nil
	case "sagittal", "x":
		return Sagittal, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOrientation, s)
}
