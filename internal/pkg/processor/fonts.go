package processor

import (
	"fmt"

	"github.com/ds124wfegd/imagecomposer/internal/entity"
	"github.com/ds124wfegd/imagecomposer/internal/pkg/storage"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

// FontManager holds the parsed caption font. The parsed font is shared
// between requests; faces are created per composition.
type FontManager struct {
	parsed *opentype.Font
	source string
}

// NewFontManager loads fontPath through the asset storage. An empty path
// selects the embedded Go Bold font.
func NewFontManager(assets storage.FileStorage, fontPath string) (*FontManager, error) {
	data := gobold.TTF
	source := "embedded:gobold"

	if fontPath != "" {
		if assets == nil {
			assets = storage.NewFileStorage("")
		}
		source = assets.Resolve(fontPath)
		if !assets.Exists(fontPath) {
			return nil, fmt.Errorf("%w: font %s not found", entity.ErrFontLoad, source)
		}

		b, err := assets.ReadFile(fontPath)
		if err != nil {
			return nil, fmt.Errorf("%w: cannot read %s: %v", entity.ErrFontLoad, source, err)
		}
		data = b
	}

	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot parse %s: %v", entity.ErrFontLoad, source, err)
	}

	return &FontManager{parsed: parsed, source: source}, nil
}

// Source describes where the font was loaded from.
func (fm *FontManager) Source() string {
	return fm.source
}

// Face returns a face where one point equals one pixel.
func (fm *FontManager) Face(size int) (font.Face, error) {
	face, err := opentype.NewFace(fm.parsed, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: size %d: %v", entity.ErrFontLoad, size, err)
	}
	return face, nil
}
