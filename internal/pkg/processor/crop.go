package processor

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/imagecomposer/internal/entity"
)

// Target aspect ratio, width:height.
const (
	aspectW = 4
	aspectH = 5
)

// cropRect returns the centered 4:5 window for a w x h image.
func cropRect(w, h int) image.Rectangle {
	cropH := w * aspectH / aspectW
	if cropH <= h {
		top := (h - cropH) / 2
		return image.Rect(0, top, w, top+cropH)
	}

	cropW := h * aspectW / aspectH
	left := (w - cropW) / 2
	return image.Rect(left, 0, left+cropW, h)
}

func cropToAspect(img image.Image) (*image.NRGBA, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: photo has degenerate size %dx%d", entity.ErrImage, b.Dx(), b.Dy())
	}

	r := cropRect(b.Dx(), b.Dy())
	if r.Empty() {
		return nil, fmt.Errorf("%w: photo %dx%d is too small to crop to %d:%d", entity.ErrImage, b.Dx(), b.Dy(), aspectW, aspectH)
	}

	return imaging.Crop(img, r.Add(b.Min)), nil
}
