// Package raster holds the bitmap type shared by all capture backends and a
// pure-Go code rasterizer that needs no browser.
package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // chromedp may hand back JPEG when quality < 100
	"image/png"
)

// ErrDecode indicates the captured bytes are not a decodable image.
var ErrDecode = errors.New("cannot decode captured image")

// Bitmap is an immutable captured image.
type Bitmap struct {
	img   image.Image
	scale float64
}

// NewBitmap wraps img. The caller must not modify img afterwards.
func NewBitmap(img image.Image, scale float64) *Bitmap {
	return &Bitmap{img: img, scale: scale}
}

// Decode builds a Bitmap from encoded image bytes (PNG or JPEG).
func Decode(data []byte, scale float64) (*Bitmap, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty capture", ErrDecode)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &Bitmap{img: img, scale: scale}, nil
}

// PixelWidth returns the width in device pixels.
func (b *Bitmap) PixelWidth() int { return b.img.Bounds().Dx() }

// PixelHeight returns the height in device pixels.
func (b *Bitmap) PixelHeight() int { return b.img.Bounds().Dy() }

// Scale is the oversampling factor the bitmap was captured at.
func (b *Bitmap) Scale() float64 { return b.scale }

// Image exposes the underlying image for read-only use.
func (b *Bitmap) Image() image.Image { return b.img }

// PNG encodes the bitmap.
func (b *Bitmap) PNG() ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, b.img); err != nil {
		return nil, fmt.Errorf("encoding bitmap: %w", err)
	}
	return buf.Bytes(), nil
}
