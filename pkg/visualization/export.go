// Package visualization provides the display side of the viewer: surfaces
// that receive slice images, status labels, and slice sequence export.
package visualization

import (
	"fmt"
	"path/filepath"

	"orthoslice/internal/models"
	"orthoslice/pkg/pipeline"
)

// SaveSliceSequence extracts every slice along o from the pipeline and saves
// them to outputDir as slice_<orientation>_NNN.<format>. Each image is passed
// through wrap first when it is non-nil, so callers can add magnification.
func SaveSliceSequence(p *pipeline.Pipeline, o models.Orientation, outputDir, format string, quality int, wrap func(Surface) Surface) (int, error) {
	if !o.Valid() {
		return 0, fmt.Errorf("%w: %d", models.ErrUnknownOrientation, int(o))
	}

	count := p.Source().Extent(o.Axis())
	for pos := 0; pos < count; pos++ {
		img, err := p.Slice(o, pos)
		if err != nil {
			return pos, err
		}

		var surface Surface = &FileSurface{
			Path:    filepath.Join(outputDir, o.String(), fmt.Sprintf("slice_%s_%03d.%s", o, pos, format)),
			Format:  format,
			Quality: quality,
		}
		if wrap != nil {
			surface = wrap(surface)
		}
		if err := surface.Show(img); err != nil {
			return pos, fmt.Errorf("failed to save %s slice %d: %w", o, pos, err)
		}
	}

	return count, nil
}
