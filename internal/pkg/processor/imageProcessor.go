package processor

import (
	"fmt"
	"image"

	"github.com/ds124wfegd/imagecomposer/internal/entity"
)

// ImageProcessor builds the captioned 4:5 post image.
type ImageProcessor interface {
	Compose(photo, logo image.Image, caption string) (*Result, error)
}

// Result is the composed image plus the geometry chosen on the way.
type Result struct {
	Image  *image.NRGBA
	Crop   image.Rectangle
	Logo   image.Rectangle
	Layout TextLayout
}

type imageProcessor struct {
	fonts *FontManager
}

func NewImageProcessor(fonts *FontManager) ImageProcessor {
	return &imageProcessor{fonts: fonts}
}

// Compose runs crop, gradient, logo and caption in that order. Every stage
// works on a fresh buffer, so the inputs are never modified.
func (p *imageProcessor) Compose(photo, logo image.Image, caption string) (*Result, error) {
	if photo == nil || logo == nil {
		return nil, fmt.Errorf("%w: photo and logo are required", entity.ErrImage)
	}
	if p.fonts == nil {
		return nil, fmt.Errorf("%w: no font configured", entity.ErrFontLoad)
	}

	// 1. Кадрирование 4:5
	cropped, err := cropToAspect(photo)
	if err != nil {
		return nil, err
	}
	crop := cropRect(photo.Bounds().Dx(), photo.Bounds().Dy())

	// 2. Градиент снизу
	img := darkenBottom(cropped)

	// 3. Логотип
	img, logoRect, err := overlayLogo(img, logo)
	if err != nil {
		return nil, err
	}

	// 4. Подпись
	b := img.Bounds()
	layout, face, err := p.fitText(caption, textArea(b.Dx(), b.Dy()))
	if err != nil {
		return nil, err
	}
	defer face.Close()

	drawCaption(img, layout, face)

	return &Result{
		Image:  img,
		Crop:   crop,
		Logo:   logoRect,
		Layout: layout,
	}, nil
}
