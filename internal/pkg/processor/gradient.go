package processor

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

const (
	gradientStart    = 0.6
	gradientMaxAlpha = 200
	gradientPasses   = 3
)

// gradientMask is a black layer whose alpha grows linearly from 0 at 60%
// of the height to gradientMaxAlpha at the bottom edge.
func gradientMask(w, h int) *image.NRGBA {
	mask := image.NewNRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		a := rowAlpha(y, h).A
		if a == 0 {
			continue
		}

		row := mask.Pix[mask.PixOffset(0, y):mask.PixOffset(w, y)]
		for x := 0; x < len(row); x += 4 {
			row[x+3] = a
		}
	}
	return mask
}

// darkenBottom composites the same mask gradientPasses times. Each pass
// compounds, so this is not the same as one pass with a stronger alpha.
func darkenBottom(img *image.NRGBA) *image.NRGBA {
	out := imaging.Clone(img)
	b := out.Bounds()
	mask := gradientMask(b.Dx(), b.Dy())

	for i := 0; i < gradientPasses; i++ {
		alphaOver(out, mask, b.Min)
	}
	return out
}

// rowAlpha reports the mask alpha for row y of an image h pixels tall.
func rowAlpha(y, h int) color.Alpha {
	start := int(float64(h) * gradientStart)
	if y < start || y >= h {
		return color.Alpha{}
	}
	// The ratio is taken first: 200*(y-start)/(h-start) rounds differently
	// on some rows.
	return color.Alpha{A: uint8(float64(gradientMaxAlpha) * (float64(y-start) / float64(h-start)))}
}
