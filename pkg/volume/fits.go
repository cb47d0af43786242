package volume

import (
	"fmt"
	"io"
	"os"

	"github.com/astrogo/fitsio"

	"orthoslice/internal/models"
)

// LoadFITS reads the primary image HDU of a FITS file as a volume.
// NAXIS1 is x, NAXIS2 is y and NAXIS3 (optional) is z.
func LoadFITS(path string) (*models.Volume, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open FITS file: %w", err)
	}
	defer file.Close()

	return ReadFITS(file)
}

// ReadFITS decodes a FITS stream, applying BZERO and BSCALE
func ReadFITS(r io.Reader) (*models.Volume, error) {
	f, err := fitsio.Open(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode FITS: %w", err)
	}
	defer f.Close()

	img, ok := f.HDU(0).(fitsio.Image)
	if !ok {
		return nil, fmt.Errorf("primary HDU is not an image")
	}

	hdr := img.Header()
	axes := hdr.Axes()
	if len(axes) < 2 || len(axes) > 3 {
		return nil, fmt.Errorf("expected a 2D or 3D image, got %d axes", len(axes))
	}
	depth := 1
	if len(axes) == 3 {
		depth = axes[2]
	}

	raw, err := readPixels(img, hdr.Bitpix())
	if err != nil {
		return nil, err
	}

	vol := models.NewVolume(axes[0], axes[1], depth)
	if len(raw) != len(vol.Data) {
		return nil, fmt.Errorf("FITS data has %d pixels, expected %d", len(raw), len(vol.Data))
	}

	bzero := cardFloat(hdr, "BZERO", 0)
	bscale := cardFloat(hdr, "BSCALE", 1)
	for i, v := range raw {
		vol.Data[i] = bzero + bscale*v
	}
	vol.Spacing.X = cardFloat(hdr, "CDELT1", 1)
	vol.Spacing.Y = cardFloat(hdr, "CDELT2", 1)
	vol.Spacing.Z = cardFloat(hdr, "CDELT3", 1)

	return vol, nil
}

// readPixels reads the image data with the Go type matching BITPIX
func readPixels(img fitsio.Image, bitpix int) ([]float64, error) {
	var out []float64
	switch bitpix {
	case 8:
		var data []uint8
		if err := img.Read(&data); err != nil {
			return nil, fmt.Errorf("failed to read FITS pixels: %w", err)
		}
		out = make([]float64, len(data))
		for i, v := range data {
			out[i] = float64(v)
		}
	case 16:
		var data []int16
		if err := img.Read(&data); err != nil {
			return nil, fmt.Errorf("failed to read FITS pixels: %w", err)
		}
		out = make([]float64, len(data))
		for i, v := range data {
			out[i] = float64(v)
		}
	case 32:
		var data []int32
		if err := img.Read(&data); err != nil {
			return nil, fmt.Errorf("failed to read FITS pixels: %w", err)
		}
		out = make([]float64, len(data))
		for i, v := range data {
			out[i] = float64(v)
		}
	case -32:
		var data []float32
		if err := img.Read(&data); err != nil {
			return nil, fmt.Errorf("failed to read FITS pixels: %w", err)
		}
		out = make([]float64, len(data))
		for i, v := range data {
			out[i] = float64(v)
		}
	case -64:
		if err := img.Read(&out); err != nil {
			return nil, fmt.Errorf("failed to read FITS pixels: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported BITPIX %d", bitpix)
	}
	return out, nil
}

func cardFloat(hdr *fitsio.Header, name string, fallback float64) float64 {
	card := hdr.Get(name)
	if card == nil {
		return fallback
	}
	switch v := card.Value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case int32:
		return float64(v)
	}
	return fallback
}

// WriteFITS streams vol as a 64-bit float FITS cube to w
func WriteFITS(w io.Writer, vol *models.Volume) error {
	if err := vol.Validate(); err != nil {
		return err
	}

	f, err := fitsio.Create(w)
	if err != nil {
		return err
	}
	defer f.Close()

	img := fitsio.NewImage(-64, []int{vol.Width, vol.Height, vol.Depth})
	defer img.Close()

	err = img.Header().Append(
		fitsio.Card{Name: "CDELT1", Value: vol.Spacing.X},
		fitsio.Card{Name: "CDELT2", Value: vol.Spacing.Y},
		fitsio.Card{Name: "CDELT3", Value: vol.Spacing.Z},
	)
	if err != nil {
		return err
	}

	if err := img.Write(vol.Data); err != nil {
		return fmt.Errorf("failed to write FITS pixels: %w", err)
	}
	return f.Write(img)
}
