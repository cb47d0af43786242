package visualization

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/draw"
)

// Surface is a destination for a displayed slice image
type Surface interface {
	Show(img image.Image) error
}

// MemorySurface keeps the most recent frame. It is safe for concurrent use so
// HTTP handlers can read frames while the dispatcher writes them.
type MemorySurface struct {
	mu     sync.RWMutex
	frame  image.Image
	frames int
}

// NewMemorySurface creates an empty memory surface
func NewMemorySurface() *MemorySurface {
	return &MemorySurface{}
}

// Show stores img as the current frame
func (m *MemorySurface) Show(img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frame = img
	m.frames++
	return nil
}

// Frame returns the current frame, or nil before the first Show
func (m *MemorySurface) Frame() image.Image {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.frame
}

// Frames returns how many frames have been shown
func (m *MemorySurface) Frames() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.frames
}

// EncodePNG writes the current frame to w as PNG
func (m *MemorySurface) EncodePNG(w io.Writer) error {
	frame := m.Frame()
	if frame == nil {
		return fmt.Errorf("no frame has been displayed yet")
	}
	return png.Encode(w, frame)
}

// FileSurface writes every frame to a fixed path, replacing the previous one
type FileSurface struct {
	Path string

	// Format is "png" or "jpeg"; empty picks from the file extension
	Format string

	// Quality is the JPEG quality
	Quality int
}

// Show encodes img to the surface's file
func (f *FileSurface) Show(img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, img, f.format(), f.Quality); err != nil {
		return err
	}
	return os.WriteFile(f.Path, buf.Bytes(), 0644)
}

func (f *FileSurface) format() string {
	if f.Format != "" {
		return f.Format
	}
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(f.Path)), ".")
}

// Encode writes img to w as PNG or JPEG
func Encode(w io.Writer, img image.Image, format string, quality int) error {
	switch strings.ToLower(format) {
	case "png":
		return png.Encode(w, img)
	case "jpeg", "jpg":
		if quality <= 0 {
			quality = 90
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	default:
		return fmt.Errorf("unsupported image format %q", format)
	}
}

// MagnifySurface enlarges frames by an integer factor before forwarding them
type MagnifySurface struct {
	Next   Surface
	Factor int
	Scaler draw.Scaler
}

// NewMagnifySurface wraps next, resampling with the named interpolator
// ("nearest", "bilinear" or "catmullrom")
func NewMagnifySurface(next Surface, factor int, interpolation string) (*MagnifySurface, error) {
	if factor < 1 {
		return nil, fmt.Errorf("magnification factor must be at least 1, got %d", factor)
	}
	scaler, err := ParseInterpolation(interpolation)
	if err != nil {
		return nil, err
	}
	return &MagnifySurface{Next: next, Factor: factor, Scaler: scaler}, nil
}

// Show resamples img and passes it on
func (m *MagnifySurface) Show(img image.Image) error {
	if m.Factor == 1 {
		return m.Next.Show(img)
	}
	b := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx()*m.Factor, b.Dy()*m.Factor))
	m.Scaler.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return m.Next.Show(dst)
}

// ParseInterpolation maps an interpolation name to an x/image scaler
func ParseInterpolation(name string) (draw.Scaler, error) {
	switch strings.ToLower(name) {
	case "", "nearest":
		return draw.NearestNeighbor, nil
	case "bilinear":
		return draw.BiLinear, nil
	case "catmullrom":
		return draw.CatmullRom, nil
	}
	return nil, fmt.Errorf("unknown interpolation %q", name)
}
