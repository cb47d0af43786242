// Package pipeline implements the image processing stages between the source
// volume and the displayed slices: a shift/scale intensity remap followed by
// orthogonal reslicing. Stages re-execute lazily, only after a parameter change.
package pipeline

import (
	"errors"
	"image"

	"orthoslice/internal/models"
)

// ErrIndexOutOfRange is returned when a slice index lies outside the volume
var ErrIndexOutOfRange = errors.New("slice index out of range")

// Pipeline holds a source volume and the remap parameters applied to it.
// It is not safe for concurrent use; the coordinator's dispatcher owns it.
type Pipeline struct {
	source *models.Volume
	filter ShiftScale

	output   *models.Volume8
	modified bool

	// Executions counts how many times the remap stage has run
	Executions int
}

// New creates a pipeline over source with an identity-like remap (shift 0, scale 1)
func New(source *models.Volume, workers int) *Pipeline {
	return &Pipeline{
		source:   source,
		filter:   ShiftScale{Shift: 0, Scale: 1, Workers: workers},
		modified: true,
	}
}

// Source returns the input volume
func (p *Pipeline) Source() *models.Volume {
	return p.source
}

// ShiftScale returns the current remap parameters
func (p *Pipeline) ShiftScale() (shift, scale float64) {
	return p.filter.Shift, p.filter.Scale
}

// SetShiftScale updates the remap stage. Setting the current values again
// does not invalidate the cached output.
func (p *Pipeline) SetShiftScale(shift, scale float64) {
	if p.filter.Shift == shift && p.filter.Scale == scale {
		return
	}
	p.filter.Shift = shift
	p.filter.Scale = scale
	p.modified = true
}

// Update re-executes the remap stage if a parameter changed since the last run
func (p *Pipeline) Update() *models.Volume8 {
	if p.modified || p.output == nil {
		p.output = p.filter.Apply(p.source)
		p.modified = false
		p.Executions++
	}
	return p.output
}

// Slice returns the remapped plane at index along o's axis
func (p *Pipeline) Slice(o models.Orientation, index int) (*image.Gray, error) {
	return Reslice(p.Update(), o, index)
}

// SliceSize returns the pixel size of the slice images for o
func (p *Pipeline) SliceSize(o models.Orientation) (int, int) {
	return SliceSize(o, p.source.Width, p.source.Height, p.source.Depth)
}
