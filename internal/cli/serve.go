package cli

import (
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"orthoslice/internal/models"
	"orthoslice/pkg/coordinator"
	"orthoslice/pkg/server"
	"orthoslice/pkg/visualization"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the slice viewer over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, vol, err := opts.load(ctx)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			var views [3]*visualization.MemorySurface
			var surfaces coordinator.Surfaces
			for _, o := range models.Orientations {
				views[o] = visualization.NewMemorySurface()
				surfaces[o] = views[o]
			}

			label := visualization.LogLabel{Logger: logger}
			c, err := coordinator.New(newPipeline(cfg, vol), surfaces, label, cfg.WindowLevel, logger)
			if err != nil {
				return err
			}
			if err := c.RefreshImages(); err != nil {
				return err
			}

			d := coordinator.NewDispatcher(c)
			go d.Run(ctx)

			err = server.New(d, views, logger).ListenAndServe(ctx, addr)
			if errors.Is(err, http.ErrServerClosed) || (ctx.Err() != nil && errors.Is(err, ctx.Err())) {
				logger.Info("Server stopped")
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}
