package processor

import (
	"image"
	"image/color"
	"math"
)

// overlapping returns the part of src placed at `at` that lands on dst, in
// dst coordinates, and the matching top-left point in src.
func overlapping(dst, src *image.NRGBA, at image.Point) (image.Rectangle, image.Point) {
	placed := src.Bounds().Sub(src.Bounds().Min).Add(at)
	r := placed.Intersect(dst.Bounds())
	return r, src.Bounds().Min.Add(r.Min.Sub(at))
}

// alphaOver composites src over dst in place with straight alpha:
// outA = a + dA(1-a), outC = (c*a + dC*dA*(1-a)) / outA.
func alphaOver(dst, src *image.NRGBA, at image.Point) {
	r, sp := overlapping(dst, src, at)

	for y := 0; y < r.Dy(); y++ {
		di := dst.PixOffset(r.Min.X, r.Min.Y+y)
		si := src.PixOffset(sp.X, sp.Y+y)

		for x := 0; x < r.Dx(); x, di, si = x+1, di+4, si+4 {
			s := src.Pix[si : si+4 : si+4]
			d := dst.Pix[di : di+4 : di+4]
			if s[3] == 0 {
				continue
			}

			sa := float64(s[3]) / 255
			da := float64(d[3]) / 255
			outA := sa + da*(1-sa)

			for c := 0; c < 3; c++ {
				v := (float64(s[c])*sa + float64(d[c])*da*(1-sa)) / outA
				d[c] = clampRound(v)
			}
			d[3] = clampRound(outA * 255)
		}
	}
}

// pasteMasked copies src onto dst using src's alpha as the mask for every
// channel, alpha included: d = s*m + d*(1-m).
func pasteMasked(dst, src *image.NRGBA, at image.Point) {
	r, sp := overlapping(dst, src, at)

	for y := 0; y < r.Dy(); y++ {
		di := dst.PixOffset(r.Min.X, r.Min.Y+y)
		si := src.PixOffset(sp.X, sp.Y+y)

		for x := 0; x < r.Dx(); x, di, si = x+1, di+4, si+4 {
			s := src.Pix[si : si+4 : si+4]
			d := dst.Pix[di : di+4 : di+4]

			m := uint32(s[3])
			switch m {
			case 0:
				continue
			case 255:
				copy(d, s)
				continue
			}

			for c := 0; c < 4; c++ {
				d[c] = mix(s[c], d[c], m)
			}
		}
	}
}

// fillMasked blends col into dst with mask as coverage. Like pasteMasked,
// every channel moves towards col, alpha included.
func fillMasked(dst *image.NRGBA, mask *image.Alpha, col color.NRGBA) {
	r := mask.Bounds().Intersect(dst.Bounds())
	ink := [4]uint8{col.R, col.G, col.B, col.A}

	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			m := uint32(mask.AlphaAt(x, y).A)
			if m == 0 {
				continue
			}

			i := dst.PixOffset(x, y)
			d := dst.Pix[i : i+4 : i+4]
			for c := 0; c < 4; c++ {
				d[c] = mix(ink[c], d[c], m)
			}
		}
	}
}

// mix returns round((s*m + d*(255-m)) / 255) for a mask value m in [0, 255].
func mix(s, d uint8, m uint32) uint8 {
	return uint8((uint32(s)*m + uint32(d)*(255-m) + 127) / 255)
}

func clampRound(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(math.Round(v))
}
