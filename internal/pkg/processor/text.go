package processor

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/ds124wfegd/imagecomposer/internal/entity"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const (
	MaxFontSize = 60
	MinFontSize = 10

	marginRatio  = 0.10
	textTopRatio = 0.65
	shadowOffset = 2
)

var (
	textColor    = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	outlineColor = color.NRGBA{A: 255}
	shadowColor  = color.NRGBA{A: 100}

	outlineOffsets = []image.Point{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
)

// TextLayout is the outcome of the font size search for one caption.
type TextLayout struct {
	FontSize   int
	Lines      []string
	LineHeight int
	// Top is the y of the first line's ascender.
	Top  int
	Area image.Rectangle
}

// Fits reports whether the wrapped block fits the text area vertically.
func (l TextLayout) Fits() bool {
	return l.LineHeight*len(l.Lines) <= l.Area.Dy()
}

// textArea is the band the caption is fitted into: 10% side margins, from
// 65% of the height plus a 10% margin down to the bottom minus that margin.
func textArea(w, h int) image.Rectangle {
	side := int(float64(w) * marginRatio)
	vertical := int(float64(h) * marginRatio)

	top := int(float64(h)*textTopRatio) + vertical
	bottom := h - vertical
	return image.Rect(side, top, w-side, bottom)
}

// wrapText greedily packs words into lines no wider than maxWidth. A word
// wider than maxWidth on its own still gets a line.
func wrapText(text string, maxWidth int, face font.Face) []string {
	limit := fixed.I(maxWidth)

	var lines []string
	current := ""
	for _, word := range strings.Fields(text) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}

		if font.MeasureString(face, candidate) <= limit {
			current = candidate
			continue
		}

		if current != "" {
			lines = append(lines, current)
		}
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// lineHeight is the distance from the ascender line to the lowest point
// of "Ag".
func lineHeight(face font.Face) int {
	bounds, _ := font.BoundString(face, "Ag")
	return (face.Metrics().Ascent + bounds.Max.Y).Ceil()
}

// fitText searches from MaxFontSize down to MinFontSize for the largest size
// whose wrapped lines fit area. When nothing fits, the MinFontSize layout is
// returned anyway. The caller owns the returned face.
func (p *imageProcessor) fitText(caption string, area image.Rectangle) (TextLayout, font.Face, error) {
	for size := MaxFontSize; size >= MinFontSize; size-- {
		face, err := p.fonts.Face(size)
		if err != nil {
			return TextLayout{}, nil, err
		}

		layout := TextLayout{
			FontSize:   size,
			Lines:      wrapText(caption, area.Dx(), face),
			LineHeight: lineHeight(face),
			Area:       area,
		}

		if layout.Fits() || size == MinFontSize {
			block := layout.LineHeight * len(layout.Lines)
			layout.Top = area.Min.Y + floorDiv(area.Dy()-block, 2)
			return layout, face, nil
		}
		face.Close()
	}

	return TextLayout{}, nil, fmt.Errorf("%w: no font size in [%d, %d]", entity.ErrFontLoad, MinFontSize, MaxFontSize)
}

// drawCaption renders every line centered on the canvas: shadow, outline,
// then the white text. The shadow ink has alpha 100, but its RGB still
// replaces the pixel by coverage, so it is solid black after flattening.
func drawCaption(img *image.NRGBA, layout TextLayout, face font.Face) {
	width := img.Bounds().Dx()
	ascent := face.Metrics().Ascent

	y := layout.Top
	for _, line := range layout.Lines {
		advance := font.MeasureString(face, line)
		x := int(math.Floor((float64(width) - fixedToFloat(advance)) / 2))

		drawString(img, face, line, x+shadowOffset, y+shadowOffset, ascent, shadowColor)
		for _, off := range outlineOffsets {
			drawString(img, face, line, x+off.X, y+off.Y, ascent, outlineColor)
		}
		drawString(img, face, line, x, y, ascent, textColor)

		y += layout.LineHeight
	}
}

// drawString draws text with (x, y) at the top-left of the ascender line.
// The glyphs are rasterized into a coverage mask first and col is blended
// into every channel of img by that coverage.
func drawString(img *image.NRGBA, face font.Face, text string, x, y int, ascent fixed.Int26_6, col color.NRGBA) {
	dot := fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y) + ascent}

	bounds, _ := font.BoundString(face, text)
	r := image.Rect(
		(dot.X+bounds.Min.X).Floor(), (dot.Y+bounds.Min.Y).Floor(),
		(dot.X+bounds.Max.X).Ceil(), (dot.Y+bounds.Max.Y).Ceil(),
	).Inset(-1).Intersect(img.Bounds())
	if r.Empty() {
		return
	}

	mask := image.NewAlpha(r)
	d := &font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  dot,
	}
	d.DrawString(text)

	fillMasked(img, mask, col)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
