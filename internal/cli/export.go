package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"orthoslice/internal/models"
	"orthoslice/pkg/visualization"
	"orthoslice/pkg/volume"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		orientations []string
		fitsPath     string
		outDir       string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every slice along each orientation, or the volume as FITS",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, vol, err := opts.load(ctx)
			if err != nil {
				return err
			}

			if fitsPath != "" {
				return writeFITS(fitsPath, vol)
			}

			if outDir == "" {
				outDir = cfg.Output.Dir
			}

			selected := models.Orientations
			if len(orientations) > 0 {
				selected = nil
				for _, name := range orientations {
					o, err := models.ParseOrientation(name)
					if err != nil {
						return err
					}
					selected = append(selected, o)
				}
			}

			scaler, err := visualization.ParseInterpolation(cfg.Display.Interpolation)
			if err != nil {
				return err
			}
			wrap := func(s visualization.Surface) visualization.Surface {
				if cfg.Display.Magnify == 1 {
					return s
				}
				return &visualization.MagnifySurface{Next: s, Factor: cfg.Display.Magnify, Scaler: scaler}
			}

			p := newPipeline(cfg, vol)
			p.SetShiftScale(cfg.WindowLevel.ShiftScale())

			for _, o := range selected {
				prog := newProgress(logger)
				n, err := visualization.SaveSliceSequence(p, o, outDir, cfg.Display.Format, cfg.Display.JPEGQuality, wrap)
				if err != nil {
					return err
				}
				prog.done(fmt.Sprintf("Saved %d %s slices to %s", n, o, filepath.Join(outDir, o.String())))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&orientations, "orientation", nil, "orientations to export (default all)")
	cmd.Flags().StringVar(&fitsPath, "fits", "", "write the volume as a FITS cube instead of slices")
	cmd.Flags().StringVarP(&outDir, "output", "o", "", "output directory (overrides output.dir)")

	return cmd
}

func writeFITS(path string, vol *models.Volume) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := volume.WriteFITS(file, vol); err != nil {
		file.Close()
		return fmt.Errorf("failed to write FITS: %w", err)
	}
	return file.Close()
}
