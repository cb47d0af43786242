// Package cli implements the orthoslice command-line interface.
//
// Commands:
//   - serve: run the slice viewer behind an HTTP API
//   - render: write the three orthogonal slices at one cursor position
//   - info: print volume dimensions, intensity statistics and control ranges
//   - export: write every slice along each orientation, or the volume as FITS
//   - config init: write a default configuration file
//
// All commands accept --config for a YAML or TOML file and --verbose for
// debug logging. The logger travels in the command context.
package cli

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"orthoslice/internal/models"
	"orthoslice/pkg/config"
	"orthoslice/pkg/pipeline"
	"orthoslice/pkg/volume"
)

var version = "dev"

// SetVersion sets the version reported by --version
func SetVersion(v string) {
	version = v
}

// rootOptions holds the persistent flags shared by every command
type rootOptions struct {
	configPath string
	verbose    bool
}

// Execute builds the command tree and runs it with ctx
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "orthoslice",
		Short:        "Orthogonal slice viewer for 3D scalar volumes",
		Long:         `orthoslice shows transverse, coronal and sagittal slices of an MRI or CT volume through a shared 3D cursor, with window/level contrast control.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if opts.verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "orthoslice.yaml", "configuration file (YAML or TOML)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newRenderCmd(opts))
	root.AddCommand(newInfoCmd(opts))
	root.AddCommand(newExportCmd(opts))
	root.AddCommand(newConfigCmd(opts))

	return root
}

// load reads the configuration and the volume it names
func (o *rootOptions) load(ctx context.Context) (*config.Config, *models.Volume, error) {
	logger := loggerFromContext(ctx)

	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Output.Verbose {
		logger.SetLevel(log.DebugLevel)
	}

	prog := newProgress(logger)
	vol, err := volume.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	prog.done("Loaded " + cfg.Volume.Source + " volume")
	logger.Debug("volume", "width", vol.Width, "height", vol.Height, "depth", vol.Depth)

	return cfg, vol, nil
}

func newPipeline(cfg *config.Config, vol *models.Volume) *pipeline.Pipeline {
	return pipeline.New(vol, cfg.Processing.NumCores)
}
