package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"orthoslice/internal/models"
	"orthoslice/pkg/coordinator"
	"orthoslice/pkg/visualization"
)

type renderOptions struct {
	x, y, z int
	window  float64
	level   float64
	outDir  string
}

func newRenderCmd(opts *rootOptions) *cobra.Command {
	ro := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the transverse, coronal and sagittal slices at a cursor position",
		Long: `Render writes one image per orientation to the output directory.
Cursor axes that are not given default to the volume center; window and
level default to the configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, vol, err := opts.load(ctx)
			if err != nil {
				return err
			}

			wl := cfg.WindowLevel
			if cmd.Flags().Changed("window") {
				wl.Window = ro.window
			}
			if cmd.Flags().Changed("level") {
				wl.Level = ro.level
			}
			outDir := cfg.Output.Dir
			if ro.outDir != "" {
				outDir = ro.outDir
			}

			var surfaces coordinator.Surfaces
			paths := make([]string, 0, 3)
			for _, o := range models.Orientations {
				path := filepath.Join(outDir, fmt.Sprintf("%s.%s", o, cfg.Display.Format))
				file := &visualization.FileSurface{Path: path, Format: cfg.Display.Format, Quality: cfg.Display.JPEGQuality}
				magnified, err := visualization.NewMagnifySurface(file, cfg.Display.Magnify, cfg.Display.Interpolation)
				if err != nil {
					return err
				}
				surfaces[o] = magnified
				paths = append(paths, path)
			}

			label := &visualization.TextLabel{}
			c, err := coordinator.New(newPipeline(cfg, vol), surfaces, label, wl, logger)
			if err != nil {
				return err
			}

			pos := models.Center(vol)
			if cmd.Flags().Changed("x") {
				pos.X = ro.x
			}
			if cmd.Flags().Changed("y") {
				pos.Y = ro.y
			}
			if cmd.Flags().Changed("z") {
				pos.Z = ro.z
			}

			prog := newProgress(logger)
			if err := c.MoveTo(pos); err != nil {
				return err
			}
			prog.done("Rendered slices")

			logger.Info(label.Text(), "window", wl.Window, "level", wl.Level)
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&ro.x, "x", 0, "cursor x (sagittal slice)")
	cmd.Flags().IntVar(&ro.y, "y", 0, "cursor y (coronal slice)")
	cmd.Flags().IntVar(&ro.z, "z", 0, "cursor z (transverse slice)")
	cmd.Flags().Float64Var(&ro.window, "window", 0, "window width (must be positive)")
	cmd.Flags().Float64Var(&ro.level, "level", 0, "window center")
	cmd.Flags().StringVarP(&ro.outDir, "output", "o", "", "output directory (overrides output.dir)")

	return cmd
}
