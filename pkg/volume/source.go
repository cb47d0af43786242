package volume

import (
	"fmt"

	"orthoslice/internal/models"
	"orthoslice/pkg/config"
)

// Open loads the volume described by the volume section of cfg
func Open(cfg *config.Config) (*models.Volume, error) {
	var (
		vol *models.Volume
		err error
	)

	switch cfg.Volume.Source {
	case config.SourcePhantom:
		vol = Phantom(cfg.Volume.Width, cfg.Volume.Height, cfg.Volume.Depth)
		vol.Spacing.Z = cfg.Volume.SliceGap
	case config.SourceSlices:
		vol, err = LoadSliceDir(cfg.Volume.Path, cfg.Volume.SliceGap)
	case config.SourceFITS:
		vol, err = LoadFITS(cfg.Volume.Path)
	default:
		return nil, fmt.Errorf("unknown volume source %q", cfg.Volume.Source)
	}
	if err != nil {
		return nil, err
	}

	if err := vol.Validate(); err != nil {
		return nil, err
	}
	return vol, nil
}
