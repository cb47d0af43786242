package pipeline

import (
	"fmt"
	"image"

	"orthoslice/internal/models"
)

// SliceSize returns the width and height of the image Reslice produces for o
func SliceSize(o models.Orientation, width, height, depth int) (int, int) {
	switch o {
	case models.Transverse:
		return width, height
	case models.Coronal:
		return width, depth
	default:
		return height, depth
	}
}

// Reslice extracts the plane of vol fixed at index along o's axis.
//
// Images are laid out the way they are displayed:
//   - transverse: column is x, row r is y = height-1-r
//   - coronal:    column is x, row is z
//   - sagittal:   column c is y = height-1-c, row is z
//
// The motion mapping in the coordinator is the inverse of this layout.
func Reslice(vol *models.Volume8, o models.Orientation, index int) (*image.Gray, error) {
	extent := 0
	switch o {
	case models.Transverse:
		extent = vol.Depth
	case models.Coronal:
		extent = vol.Height
	case models.Sagittal:
		extent = vol.Width
	default:
		return nil, fmt.Errorf("%w: %d", models.ErrUnknownOrientation, int(o))
	}
	if index < 0 || index >= extent {
		return nil, fmt.Errorf("%w: %s index %d not in [0, %d)", ErrIndexOutOfRange, o, index, extent)
	}

	w, h := SliceSize(o, vol.Width, vol.Height, vol.Depth)
	img := image.NewGray(image.Rect(0, 0, w, h))

	switch o {
	case models.Transverse:
		for r := 0; r < h; r++ {
			src := vol.Index(0, vol.Height-1-r, index)
			copy(img.Pix[r*img.Stride:r*img.Stride+w], vol.Data[src:src+w])
		}
	case models.Coronal:
		for z := 0; z < h; z++ {
			src := vol.Index(0, index, z)
			copy(img.Pix[z*img.Stride:z*img.Stride+w], vol.Data[src:src+w])
		}
	case models.Sagittal:
		for z := 0; z < h; z++ {
			row := img.Pix[z*img.Stride:]
			for c := 0; c < w; c++ {
				row[c] = vol.Data[vol.Index(index, vol.Height-1-c, z)]
			}
		}
	}

	return img, nil
}
