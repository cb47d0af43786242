package cli

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"orthoslice/pkg/config"
	"orthoslice/pkg/volume"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(5 * time.Millisecond)
	prog.done("Rendered slices")

	if !strings.Contains(buf.String(), "Rendered slices") {
		t.Errorf("Expected progress message in output, got %q", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("Expected default logger for a bare context")
	}

	l := newLogger(&bytes.Buffer{}, log.InfoLevel)
	if loggerFromContext(withLogger(context.Background(), l)) != l {
		t.Error("Expected the attached logger")
	}
}

func TestSetVersion(t *testing.T) {
	old := version
	defer SetVersion(old)

	SetVersion("1.2.3")
	if newRootCmd().Version != "1.2.3" {
		t.Errorf("Expected version 1.2.3, got %q", newRootCmd().Version)
	}
}

// writeTestConfig saves a small phantom configuration and returns its path
func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Volume.Width = 16
	cfg.Volume.Height = 12
	cfg.Volume.Depth = 10
	cfg.Processing.NumCores = 2
	cfg.Output.Dir = filepath.Join(dir, "out")

	path := filepath.Join(dir, "orthoslice.yaml")
	if err := config.SaveConfig(cfg, path); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runContext(t, context.Background(), args...)
}

func runContext(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestServeShutsDownOnCancel(t *testing.T) {
	cfgPath := writeTestConfig(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	errc := make(chan error, 1)
	go func() {
		_, err := runContext(t, ctx, "serve", "-c", cfgPath, "--addr", "127.0.0.1:0")
		errc <- err
	}()

	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not return after cancellation")
	}
}

func TestServeRejectsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("volume:\n  source: dicom\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := run(t, "serve", "-c", path, "--addr", "127.0.0.1:0"); err == nil {
		t.Error("Expected error for unknown volume source")
	}
}

func TestInfoCommand(t *testing.T) {
	cfgPath := writeTestConfig(t)

	out, err := run(t, "info", "-c", cfgPath)
	if err != nil {
		t.Fatalf("info failed: %v", err)
	}
	if !strings.Contains(out, "16 x 12 x 10 voxels") {
		t.Errorf("Expected dimensions in output, got:\n%s", out)
	}
	if !strings.Contains(out, "Window range:") {
		t.Errorf("Expected window range in output, got:\n%s", out)
	}
}

func TestRenderCommand(t *testing.T) {
	cfgPath := writeTestConfig(t)
	outDir := t.TempDir()

	out, err := run(t, "render", "-c", cfgPath, "-o", outDir, "--x", "3", "--window", "800", "--level", "1000")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	sizes := map[string][2]int{
		"transverse": {16, 12},
		"coronal":    {16, 10},
		"sagittal":   {12, 10},
	}
	for name, size := range sizes {
		path := filepath.Join(outDir, name+".png")
		if !strings.Contains(out, path) {
			t.Errorf("Expected %s to be listed in output", path)
		}
		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("Expected %s to exist: %v", path, err)
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("Failed to decode %s: %v", path, err)
		}
		b := img.Bounds()
		if b.Dx() != size[0] || b.Dy() != size[1] {
			t.Errorf("Expected %s to be %dx%d, got %dx%d", name, size[0], size[1], b.Dx(), b.Dy())
		}
	}
}

func TestRenderRejectsZeroWindow(t *testing.T) {
	cfgPath := writeTestConfig(t)

	if _, err := run(t, "render", "-c", cfgPath, "-o", t.TempDir(), "--window", "0"); err == nil {
		t.Error("Expected error for zero window")
	}
}

func TestExportCommand(t *testing.T) {
	cfgPath := writeTestConfig(t)
	outDir := t.TempDir()

	if _, err := run(t, "export", "-c", cfgPath, "-o", outDir, "--orientation", "sagittal"); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(outDir, "sagittal"))
	if err != nil {
		t.Fatalf("Expected sagittal directory: %v", err)
	}
	if len(entries) != 16 {
		t.Errorf("Expected 16 sagittal slices, got %d", len(entries))
	}
	if _, err := os.Stat(filepath.Join(outDir, "transverse")); !os.IsNotExist(err) {
		t.Error("Expected transverse slices to be skipped")
	}
}

func TestExportUnknownOrientation(t *testing.T) {
	cfgPath := writeTestConfig(t)

	if _, err := run(t, "export", "-c", cfgPath, "-o", t.TempDir(), "--orientation", "oblique"); err == nil {
		t.Error("Expected error for unknown orientation")
	}
}

func TestExportFITS(t *testing.T) {
	cfgPath := writeTestConfig(t)
	path := filepath.Join(t.TempDir(), "cube", "phantom.fits")

	if _, err := run(t, "export", "-c", cfgPath, "--fits", path); err != nil {
		t.Fatalf("export --fits failed: %v", err)
	}

	vol, err := volume.LoadFITS(path)
	if err != nil {
		t.Fatalf("Failed to read FITS: %v", err)
	}
	if vol.Width != 16 || vol.Height != 12 || vol.Depth != 10 {
		t.Errorf("Expected 16x12x10, got %dx%dx%d", vol.Width, vol.Height, vol.Depth)
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orthoslice.toml")

	if _, err := run(t, "config", "init", "-c", path); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load written config: %v", err)
	}
	if cfg.Volume.Source != config.SourcePhantom {
		t.Errorf("Expected phantom source, got %q", cfg.Volume.Source)
	}

	if _, err := run(t, "config", "init", "-c", path); err == nil {
		t.Error("Expected error when the file already exists")
	}
	if _, err := run(t, "config", "init", "-c", path, "--force"); err != nil {
		t.Errorf("Expected --force to overwrite, got %v", err)
	}
}
