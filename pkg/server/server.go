// Package server exposes the slice viewer over HTTP. Requests are turned into
// coordinator events and run through the dispatcher, so HTTP clients play the
// role of the three slice widgets and the window/level controls.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"orthoslice/internal/models"
	"orthoslice/pkg/coordinator"
	"orthoslice/pkg/visualization"
)

// Server routes HTTP requests to a dispatcher and serves the latest frames
type Server struct {
	dispatcher *coordinator.Dispatcher
	views      [3]*visualization.MemorySurface
	logger     *log.Logger
}

// New creates a server. views holds the memory surfaces the coordinator
// displays into, indexed by orientation.
func New(d *coordinator.Dispatcher, views [3]*visualization.MemorySurface, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{dispatcher: d, views: views, logger: logger}
}

// Handler returns the route table
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/status", s.status)
	r.Get("/ranges", s.ranges)
	r.Post("/motion/{orientation}", s.motion)
	r.Put("/window-level", s.windowLevel)
	r.Post("/window-level/reset", s.resetWindowLevel)
	r.Post("/window-level/adjust", s.adjustWindowLevel)
	r.Get("/slices/{orientation}", s.slice)

	return r
}

// MotionRequest is the body of POST /motion/{orientation}
type MotionRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// WindowLevelRequest is the body of PUT /window-level
type WindowLevelRequest struct {
	Window float64 `json:"window"`
	Level  float64 `json:"level"`
}

// AdjustRequest is the body of POST /window-level/adjust. DX and DY are the
// drag distance from the start of the drag as a fraction of the view size,
// DY positive upward. Initial is the window/level when the drag started.
// Clients sending several updates for one drag should repeat the same
// Initial; without it the current window/level is used, so each request
// acts as a new drag.
type AdjustRequest struct {
	DX      float64             `json:"dx"`
	DY      float64             `json:"dy"`
	Initial *models.WindowLevel `json:"initial,omitempty"`
}

// RangesResponse describes the bounds of the window and level controls
type RangesResponse struct {
	Scalar models.Range `json:"scalar"`
	Window models.Range `json:"window"`
	Level  models.Range `json:"level"`
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	state, err := s.dispatcher.Snapshot(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	respondJSON(w, state)
}

func (s *Server) ranges(w http.ResponseWriter, r *http.Request) {
	var resp RangesResponse
	err := s.dispatcher.Do(r.Context(), func(c *coordinator.Coordinator) error {
		resp.Scalar = c.ScalarRange()
		resp.Window, resp.Level = c.Ranges()
		return nil
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	respondJSON(w, resp)
}

func (s *Server) motion(w http.ResponseWriter, r *http.Request) {
	o, err := models.ParseOrientation(chi.URLParam(r, "orientation"))
	if err != nil {
		s.fail(w, err)
		return
	}

	var req MotionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.dispatcher.Motion(r.Context(), o, req.X, req.Y); err != nil {
		s.fail(w, err)
		return
	}
	s.status(w, r)
}

func (s *Server) windowLevel(w http.ResponseWriter, r *http.Request) {
	var req WindowLevelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.dispatcher.WindowLevel(r.Context(), req.Window, req.Level); err != nil {
		s.fail(w, err)
		return
	}
	s.status(w, r)
}

func (s *Server) resetWindowLevel(w http.ResponseWriter, r *http.Request) {
	err := s.dispatcher.Do(r.Context(), func(c *coordinator.Coordinator) error {
		return c.ResetWindowLevel()
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	s.status(w, r)
}

func (s *Server) adjustWindowLevel(w http.ResponseWriter, r *http.Request) {
	var req AdjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	err := s.dispatcher.Do(r.Context(), func(c *coordinator.Coordinator) error {
		initial := c.WindowLevel()
		if req.Initial != nil {
			initial = *req.Initial
		}
		return c.AdjustWindowLevel(initial, req.DX, req.DY)
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	s.status(w, r)
}

func (s *Server) slice(w http.ResponseWriter, r *http.Request) {
	o, err := models.ParseOrientation(chi.URLParam(r, "orientation"))
	if err != nil {
		s.fail(w, err)
		return
	}

	view := s.views[o]
	if view == nil || view.Frame() == nil {
		http.Error(w, "no frame displayed yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := view.EncodePNG(w); err != nil {
		s.logger.Error("failed to encode slice", "orientation", o, "err", err)
	}
}

// fail maps coordinator errors to HTTP status codes
func (s *Server) fail(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrUnknownOrientation):
		code = http.StatusNotFound
	case errors.Is(err, coordinator.ErrInvalidWindow), errors.Is(err, coordinator.ErrInvalidLevel):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, coordinator.ErrStopped):
		code = http.StatusServiceUnavailable
	}
	if code == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	http.Error(w, err.Error(), code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http", "method", r.Method, "path", r.URL.Path,
			"status", ww.Status(), "elapsed", time.Since(start).Round(time.Microsecond))
	})
}

func respondJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ListenAndServe serves the API on addr until ctx is cancelled, then shuts
// down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}
