// Package codec converts between the base64 payloads of the HTTP contract
// and in-memory images.
package codec

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/imagecomposer/internal/entity"

	// Registers WebP next to the formats imaging already decodes.
	_ "golang.org/x/image/webp"
)

// StripDataURI drops a "data:image/...;base64," header, i.e. everything up
// to and including the first comma. Text after a second comma is kept, so
// such input fails in DecodeBase64.
func StripDataURI(s string) string {
	if _, payload, found := strings.Cut(s, ","); found {
		return payload
	}
	return s
}

// DecodeBase64 accepts a raw or data-URI prefixed base64 string. Line
// breaks and surrounding spaces are ignored.
func DecodeBase64(s string) ([]byte, error) {
	payload := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, StripDataURI(s))

	if payload == "" {
		return nil, fmt.Errorf("%w: empty payload", entity.ErrDecode)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64: %v", entity.ErrDecode, err)
	}
	return data, nil
}

// DecodeImage decodes any registered raster format.
func DecodeImage(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable image: %v", entity.ErrDecode, err)
	}
	return img, nil
}

// DecodeBase64Image is DecodeBase64 followed by DecodeImage.
func DecodeBase64Image(s string) (image.Image, error) {
	data, err := DecodeBase64(s)
	if err != nil {
		return nil, err
	}
	return DecodeImage(data)
}

// Flatten drops the alpha channel: colour values are kept and every pixel
// becomes opaque, so the PNG encoder writes an RGB image.
func Flatten(img image.Image) *image.NRGBA {
	out := imaging.Clone(img)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 0xff
	}
	return out
}

// EncodePNG flattens img and encodes it as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, Flatten(img), imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodePNGBase64 returns the flattened PNG as standard base64.
func EncodePNGBase64(img image.Image) (string, int, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return "", 0, err
	}
	return base64.StdEncoding.EncodeToString(data), len(data), nil
}
