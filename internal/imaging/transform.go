package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"github.com/kolesa-team/go-webp/decoder"
	"github.com/kolesa-team/go-webp/webp"
	xdraw "golang.org/x/image/draw"

	"bannerlab/internal/domain"
)

// Decode parses raw bytes into a bitmap. PNG, JPEG and GIF go through the
// stdlib registry; WEBP is handled separately because the stdlib has no
// decoder for it.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", domain.ErrInvalidImageData)
	}
	if isWEBP(data) {
		img, err := webp.Decode(bytes.NewReader(data), &decoder.Options{})
		if err != nil {
			return nil, fmt.Errorf("%w: decode webp: %v", domain.ErrInvalidImageData, err)
		}
		return img, nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImageData, err)
	}
	return img, nil
}

// Resize scales img to width x height. Both dimensions must be positive;
// range limits are the caller's concern.
func Resize(img image.Image, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: resize dimensions must be positive, got %dx%d", domain.ErrInvalidImageData, width, height)
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Over, nil)
	return dst, nil
}

// EncodePNG flattens img onto an opaque white background and encodes it as
// PNG. The flatten step mirrors the product's RGB conversion: no alpha or
// greyscale passthrough.
func EncodePNG(img image.Image) ([]byte, error) {
	flat := flattenRGB(img)
	var buf bytes.Buffer
	if err := png.Encode(&buf, flat); err != nil {
		return nil, fmt.Errorf("%w: encode png: %v", domain.ErrInvalidImageData, err)
	}
	return buf.Bytes(), nil
}

// flattenRGB composites img over white into an opaque RGBA bitmap.
func flattenRGB(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	flat := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(flat, flat.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(flat, flat.Bounds(), img, bounds.Min, draw.Over)
	return flat
}

func isWEBP(data []byte) bool {
	if len(data) < 12 {
		return false
	}
	return string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP"
}
