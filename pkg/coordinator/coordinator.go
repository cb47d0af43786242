// Package coordinator keeps the 3D cursor and window/level of an orthogonal
// slice viewer and redisplays the three slice images whenever either changes.
//
// A Coordinator is not safe for concurrent use. Events from several sources
// go through a Dispatcher, which runs them one at a time on its own goroutine.
package coordinator

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/charmbracelet/log"

	"orthoslice/internal/models"
	"orthoslice/pkg/pipeline"
	"orthoslice/pkg/visualization"
	"orthoslice/pkg/volume"
)

var (
	// ErrInvalidWindow is returned for a window that is not finite and strictly positive
	ErrInvalidWindow = errors.New("window must be positive and finite")
	// ErrInvalidLevel is returned for a NaN or infinite level
	ErrInvalidLevel = errors.New("level must be finite")
)

// Surfaces holds one display surface per orientation, indexed by models.Orientation.
// A nil entry is skipped during refresh.
type Surfaces [3]visualization.Surface

// State is a snapshot of the coordinator
type State struct {
	Position    models.Cursor      `json:"position"`
	WindowLevel models.WindowLevel `json:"windowLevel"`
	Shift       float64            `json:"shift"`
	Scale       float64            `json:"scale"`
	Status      string             `json:"status"`
	Refreshes   int                `json:"refreshes"`
}

// Coordinator maps mouse motion on the three views into a cursor position and
// keeps the displayed slices consistent with the cursor and window/level
type Coordinator struct {
	pipeline    *pipeline.Pipeline
	surfaces    Surfaces
	label       visualization.Label
	logger      *log.Logger
	scalarRange models.Range

	cursor      models.Cursor
	windowLevel models.WindowLevel
	refreshes   int
}

// New creates a coordinator over p with the cursor at the volume center and
// the initial window/level applied to the pipeline. Nothing is displayed
// until the first RefreshImages.
func New(p *pipeline.Pipeline, surfaces Surfaces, label visualization.Label, initial models.WindowLevel, logger *log.Logger) (*Coordinator, error) {
	if err := checkWindowLevel(initial.Window, initial.Level); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	if label == nil {
		label = visualization.LogLabel{Logger: logger}
	}

	c := &Coordinator{
		pipeline:    p,
		surfaces:    surfaces,
		label:       label,
		logger:      logger,
		scalarRange: volume.ScalarRange(p.Source()),
		cursor:      models.Center(p.Source()),
	}
	c.applyWindowLevel(initial)
	return c, nil
}

// HandleMotion updates the two cursor axes visible in the view that received
// the motion event, then refreshes all three images.
//
//	transverse: x = eventX, y = viewHeight-eventY-1
//	coronal:    x = eventX, z = eventY
//	sagittal:   y = viewWidth-eventX-1, z = eventY
//
// The new position is clamped to the volume.
func (c *Coordinator) HandleMotion(o models.Orientation, eventX, eventY, viewWidth, viewHeight int) error {
	next := c.cursor
	switch o {
	case models.Transverse:
		next.X = eventX
		next.Y = viewHeight - eventY - 1
	case models.Coronal:
		next.X = eventX
		next.Z = eventY
	case models.Sagittal:
		next.Y = viewWidth - eventX - 1
		next.Z = eventY
	default:
		return fmt.Errorf("%w: %d", models.ErrUnknownOrientation, int(o))
	}

	c.cursor = next.Clamp(c.pipeline.Source())
	c.logger.Debug("motion", "view", o, "event", fmt.Sprintf("%d,%d", eventX, eventY), "position", c.cursor.String())

	return c.RefreshImages()
}

// MoveTo places the cursor at pos, clamped to the volume, and refreshes
func (c *Coordinator) MoveTo(pos models.Cursor) error {
	c.cursor = pos.Clamp(c.pipeline.Source())
	return c.RefreshImages()
}

// HandleWindowLevelChange applies a new window/level to the shift/scale stage
// and refreshes the images. A non-positive or non-finite window, or a
// non-finite level, is rejected without touching the current state.
func (c *Coordinator) HandleWindowLevelChange(window, level float64) error {
	if err := checkWindowLevel(window, level); err != nil {
		return err
	}

	c.applyWindowLevel(models.WindowLevel{Window: window, Level: level})
	shift, scale := c.pipeline.ShiftScale()
	c.logger.Debug("window/level", "window", window, "level", level, "shift", shift, "scale", scale)

	return c.RefreshImages()
}

// RefreshImages fetches the slice for each orientation at the cursor and
// pushes it into that orientation's surface, then updates the status label.
// All three slices are fetched before any surface is touched. A failing
// surface does not stop the others from being updated; the errors are
// joined and returned after the label is set.
func (c *Coordinator) RefreshImages() error {
	var slices [3]*image.Gray
	for _, o := range models.Orientations {
		img, err := c.pipeline.Slice(o, c.cursor.Axis(o.Axis()))
		if err != nil {
			return fmt.Errorf("failed to fetch %s slice: %w", o, err)
		}
		slices[o] = img
	}

	var errs []error
	for _, o := range models.Orientations {
		if c.surfaces[o] == nil {
			continue
		}
		if err := c.surfaces[o].Show(slices[o]); err != nil {
			errs = append(errs, fmt.Errorf("failed to display %s slice: %w", o, err))
		}
	}

	c.refreshes++
	c.label.SetText(c.Status())
	return errors.Join(errs...)
}

// ResetWindowLevel sets the window to the full scalar range and the level to
// its center, then refreshes
func (c *Coordinator) ResetWindowLevel() error {
	window := c.scalarRange.Max - c.scalarRange.Min
	if window <= 0 {
		window = 1
	}
	level := (c.scalarRange.Max + c.scalarRange.Min) / 2
	return c.HandleWindowLevelChange(window, level)
}

// AdjustWindowLevel applies an interactive drag. dx and dy are the pointer
// movement as a fraction of the view size (dy positive upward) measured from
// the start of the drag, and initial is the window/level at that start.
// Dragging right widens the window and dragging up raises the level. Moves
// are proportional to the starting values; the result is kept away from zero
// and inside the control ranges, widened to include the starting values so
// that a window set by ResetWindowLevel survives a short drag.
func (c *Coordinator) AdjustWindowLevel(initial models.WindowLevel, dx, dy float64) error {
	window, level := initial.Window, initial.Level

	dx *= 4
	dy *= 4

	if math.Abs(window) > 0.01 {
		dx *= window
	} else {
		dx *= math.Copysign(0.01, window)
	}
	if math.Abs(level) > 0.01 {
		dy *= level
	} else {
		dy *= math.Copysign(0.01, level)
	}

	// Keep the drag direction stable for negative values
	if window < 0 {
		dx = -dx
	}
	if level < 0 {
		dy = -dy
	}

	newWindow := awayFromZero(window + dx)
	newLevel := awayFromZero(level + dy)

	windowRange, levelRange := c.Ranges()
	windowRange = windowRange.Include(window)
	levelRange = levelRange.Include(level)
	return c.HandleWindowLevelChange(windowRange.Clamp(newWindow), levelRange.Clamp(newLevel))
}

// Position returns the cursor
func (c *Coordinator) Position() models.Cursor {
	return c.cursor
}

// WindowLevel returns the current window/level
func (c *Coordinator) WindowLevel() models.WindowLevel {
	return c.windowLevel
}

// Ranges returns the bounds of the window and level controls for this volume
func (c *Coordinator) Ranges() (window, level models.Range) {
	return volume.WindowRange(c.scalarRange), volume.LevelRange(c.scalarRange)
}

// ScalarRange returns the intensity range of the source volume
func (c *Coordinator) ScalarRange() models.Range {
	return c.scalarRange
}

// SliceSize returns the pixel size of the view for o
func (c *Coordinator) SliceSize(o models.Orientation) (int, int) {
	return c.pipeline.SliceSize(o)
}

// Status returns the label text for the current cursor
func (c *Coordinator) Status() string {
	return fmt.Sprintf("Position: %s", c.cursor)
}

// Refreshes returns how many times the images have been redisplayed
func (c *Coordinator) Refreshes() int {
	return c.refreshes
}

// State returns a snapshot of the coordinator
func (c *Coordinator) State() State {
	shift, scale := c.pipeline.ShiftScale()
	return State{
		Position:    c.cursor,
		WindowLevel: c.windowLevel,
		Shift:       shift,
		Scale:       scale,
		Status:      c.Status(),
		Refreshes:   c.refreshes,
	}
}

func (c *Coordinator) applyWindowLevel(wl models.WindowLevel) {
	c.windowLevel = wl
	shift, scale := wl.ShiftScale()
	c.pipeline.SetShiftScale(shift, scale)
}

func awayFromZero(v float64) float64 {
	if math.Abs(v) < 0.01 {
		if v < 0 {
			return -0.01
		}
		return 0.01
	}
	return v
}

func checkWindowLevel(window, level float64) error {
	if math.IsNaN(window) || math.IsInf(window, 0) || window <= 0 {
		return fmt.Errorf("%w, got %g", ErrInvalidWindow, window)
	}
	if math.IsNaN(level) || math.IsInf(level, 0) {
		return fmt.Errorf("%w, got %g", ErrInvalidLevel, level)
	}
	return nil
}
