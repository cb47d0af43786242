package models

import (
	"errors"
	"math"
	"testing"
)

func TestParseOrientation(t *testing.T) {
	tests := []struct {
		in   string
		want Orientation
	}{
		{"transverse", Transverse},
		{"Axial", Transverse},
		{"coronal", Coronal},
		{" frontal ", Coronal},
		{"sagittal", Sagittal},
		{"x", Sagittal},
	}

	for _, tt := range tests {
		got, err := ParseOrientation(tt.in)
		if err != nil {
			t.Fatalf("ParseOrientation(%q) returned error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseOrientation(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}

	_, err := ParseOrientation("oblique")
	if !errors.Is(err, ErrUnknownOrientation) {
		t.Errorf("Expected ErrUnknownOrientation, got %v", err)
	}
}

func TestOrientationAxis(t *testing.T) {
	if Transverse.Axis() != 2 || Coronal.Axis() != 1 || Sagittal.Axis() != 0 {
		t.Errorf("Unexpected fixed axes: %d %d %d", Transverse.Axis(), Coronal.Axis(), Sagittal.Axis())
	}
	if Orientation(7).Valid() {
		t.Error("Expected orientation 7 to be invalid")
	}
}

func TestShiftScale(t *testing.T) {
	shift, scale := WindowLevel{Window: 1370, Level: 1268}.ShiftScale()

	if math.Abs(scale-0.18613) > 1e-5 {
		t.Errorf("Expected scale ~0.18613, got %f", scale)
	}
	if shift != -583.0 {
		t.Errorf("Expected shift -583.0, got %f", shift)
	}
}

func TestCursorClamp(t *testing.T) {
	v := NewVolume(4, 5, 6)

	c := Cursor{X: -3, Y: 9, Z: 2}.Clamp(v)
	if c != (Cursor{X: 0, Y: 4, Z: 2}) {
		t.Errorf("Expected (0, 4, 2), got (%s)", c)
	}

	if got := Center(v); got != (Cursor{X: 2, Y: 2, Z: 3}) {
		t.Errorf("Expected center (2, 2, 3), got (%s)", got)
	}
}

func TestVolumeIndexing(t *testing.T) {
	v := NewVolume(3, 4, 5)
	v.Set(2, 3, 4, 42)

	if v.Index(2, 3, 4) != len(v.Data)-1 {
		t.Errorf("Expected last index %d, got %d", len(v.Data)-1, v.Index(2, 3, 4))
	}
	if v.At(2, 3, 4) != 42 {
		t.Errorf("Expected 42, got %f", v.At(2, 3, 4))
	}
	if err := v.Validate(); err != nil {
		t.Errorf("Unexpected validation error: %v", err)
	}

	v.Data = v.Data[:10]
	if err := v.Validate(); err == nil {
		t.Error("Expected error for truncated data, got nil")
	}
}

func TestRangeInclude(t *testing.T) {
	r := Range{Min: 1, Max: 1500}

	if got := r.Include(3000); got != (Range{Min: 1, Max: 3000}) {
		t.Errorf("Expected [1, 3000], got %+v", got)
	}
	if got := r.Include(0.5); got != (Range{Min: 0.5, Max: 1500}) {
		t.Errorf("Expected [0.5, 1500], got %+v", got)
	}
	if got := r.Include(700); got != r {
		t.Errorf("Expected unchanged range, got %+v", got)
	}
}
