// Package volume reads scalar volumes from numbered slice images, FITS cubes,
// or a synthetic phantom, and summarizes their intensities.
package volume

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	_ "golang.org/x/image/tiff"

	"orthoslice/internal/models"
)

var (
	// ErrNoSlices is returned when a slice directory contains no images
	ErrNoSlices = errors.New("no slice images found")

	// ErrDimensionMismatch is returned when slices differ in size
	ErrDimensionMismatch = errors.New("slice dimensions differ")
)

var sliceExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".tif":  true,
	".tiff": true,
}

// LoadSliceDir loads numbered 2D slices from dir and stacks them along z.
//
// Files are ordered by the number embedded in their names so that
// slice_2.png comes before slice_10.png. Gray images keep their raw
// intensities; other color models are converted to 16-bit gray.
func LoadSliceDir(dir string, sliceGap float64) (*models.Volume, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read slice directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if sliceExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			names = append(names, entry.Name())
		}
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoSlices, dir)
	}

	sort.SliceStable(names, func(i, j int) bool {
		numI, numJ := extractNumber(names[i]), extractNumber(names[j])
		if numI != numJ {
			return numI < numJ
		}
		return names[i] < names[j]
	})

	var vol *models.Volume
	for z, name := range names {
		img, err := loadImage(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to load image %s: %w", name, err)
		}

		bounds := img.Bounds()
		if vol == nil {
			vol = models.NewVolume(bounds.Dx(), bounds.Dy(), len(names))
			vol.Spacing.Z = sliceGap
		} else if bounds.Dx() != vol.Width || bounds.Dy() != vol.Height {
			return nil, fmt.Errorf("%w: %s is %dx%d, expected %dx%d",
				ErrDimensionMismatch, name, bounds.Dx(), bounds.Dy(), vol.Width, vol.Height)
		}

		copySlice(vol, img, z)
	}

	return vol, nil
}

// extractNumber extracts the numeric part from a filename
func extractNumber(filename string) int {
	base := filepath.Base(filename)
	var digits strings.Builder
	for _, c := range base {
		if c >= '0' && c <= '9' {
			digits.WriteRune(c)
		}
	}

	if digits.Len() > 0 {
		if num, err := strconv.Atoi(digits.String()); err == nil {
			return num
		}
	}
	return 0
}

func loadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	return img, err
}

// copySlice writes img into plane z of vol
func copySlice(vol *models.Volume, img image.Image, z int) {
	bounds := img.Bounds()
	for y := 0; y < vol.Height; y++ {
		for x := 0; x < vol.Width; x++ {
			px, py := bounds.Min.X+x, bounds.Min.Y+y
			var value float64
			switch src := img.(type) {
			case *image.Gray:
				value = float64(src.GrayAt(px, py).Y)
			case *image.Gray16:
				value = float64(src.Gray16At(px, py).Y)
			default:
				value = float64(color.Gray16Model.Convert(img.At(px, py)).(color.Gray16).Y)
			}
			vol.Set(x, y, z, value)
		}
	}
}
