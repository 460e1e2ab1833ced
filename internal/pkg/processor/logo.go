package processor

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/imagecomposer/internal/entity"
)

// resizeLogo scales the logo to a third of the canvas width, keeping its
// aspect ratio.
func resizeLogo(logo image.Image, canvasW int) (*image.NRGBA, error) {
	b := logo.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: logo has degenerate size %dx%d", entity.ErrImage, b.Dx(), b.Dy())
	}

	targetW := canvasW / 3
	targetH := int(float64(b.Dy()) * (float64(targetW) / float64(b.Dx())))
	if targetW <= 0 || targetH <= 0 {
		return nil, fmt.Errorf("%w: logo %dx%d scales to %dx%d", entity.ErrImage, b.Dx(), b.Dy(), targetW, targetH)
	}

	return imaging.Resize(logo, targetW, targetH, imaging.Lanczos), nil
}

// logoPosition centers the logo horizontally with its middle at 2/3 of the
// canvas height.
func logoPosition(canvas, logo image.Rectangle) image.Point {
	x := (canvas.Dx() - logo.Dx()) / 2
	y := canvas.Dy()*2/3 - logo.Dy()/2
	return image.Pt(x, y).Add(canvas.Min)
}

// overlayLogo pastes the logo into img using its own alpha as the mask.
// Parts outside the canvas are clipped.
func overlayLogo(img *image.NRGBA, logo image.Image) (*image.NRGBA, image.Rectangle, error) {
	resized, err := resizeLogo(logo, img.Bounds().Dx())
	if err != nil {
		return nil, image.Rectangle{}, err
	}

	pos := logoPosition(img.Bounds(), resized.Bounds())
	placed := resized.Bounds().Sub(resized.Bounds().Min).Add(pos)

	pasteMasked(img, resized, pos)
	return img, placed, nil
}
