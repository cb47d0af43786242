package cli

import (
	"github.com/spf13/cobra"

	"orthoslice/pkg/volume"
)

func newInfoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print volume dimensions, intensity statistics and control ranges",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, vol, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}

			s := volume.ComputeStats(vol)
			window := volume.WindowRange(s.Range)
			level := volume.LevelRange(s.Range)

			out := cmd.OutOrStdout()
			printTitle(out, "Volume")
			printField(out, "Dimensions", "%d x %d x %d voxels", vol.Width, vol.Height, vol.Depth)
			printField(out, "Spacing", "%.3g x %.3g x %.3g mm", vol.Spacing.X, vol.Spacing.Y, vol.Spacing.Z)
			printField(out, "Range", "%.1f .. %.1f", s.Range.Min, s.Range.Max)
			printField(out, "Mean/StdDev", "%.1f / %.1f", s.Mean, s.StdDev)
			printField(out, "Percentiles", "p1 %.1f, median %.1f, p99 %.1f", s.P01, s.Median, s.P99)
			printTitle(out, "Controls")
			printField(out, "Window range", "%.0f .. %.0f", window.Min, window.Max)
			printField(out, "Level range", "%.0f .. %.0f", level.Min, level.Max)
			return nil
		},
	}
}
