// Package media decodes, downsizes and inspects media files.
package media

import (
	"bytes"
	"image"
	"image/jpeg"
	"io"

	// Decoders for the formats a picker can hand us.
	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/domain"
)

const (
	DefaultMaxSize     = 800
	DefaultJPEGQuality = 85
)

// ScaledSize returns the dimensions after capping the longer side at maxSize,
// preserving aspect ratio with truncation. Sides never drop below 1 px.
func ScaledSize(width, height, maxSize int) (int, int) {
	if width <= maxSize && height <= maxSize {
		return width, height
	}
	ratio := float64(maxSize) / float64(max(width, height))
	w := max(int(float64(width)*ratio), 1)
	h := max(int(float64(height)*ratio), 1)
	return w, h
}

// Downscale returns src itself when both sides are within maxSize; otherwise
// a new bilinear-scaled image. The caller must drop its reference to src
// once a different image is returned.
func Downscale(src image.Image, maxSize int) image.Image {
	b := src.Bounds()
	w, h := ScaledSize(b.Dx(), b.Dy(), maxSize)
	if w == b.Dx() && h == b.Dy() {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// Processor re-encodes images with a size cap and JPEG quality.
type Processor struct {
	MaxSize int
	Quality int
}

// NewProcessor returns a Processor, substituting defaults for non-positive
// values.
func NewProcessor(maxSize, quality int) *Processor {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	return &Processor{MaxSize: maxSize, Quality: quality}
}

// Process decodes r, caps it at MaxSize and re-encodes it as JPEG.
func (p *Processor) Process(r io.Reader) ([]byte, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, domain.NewDecodeError("could not decode image", err)
	}

	img = Downscale(img, p.MaxSize)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.Quality}); err != nil {
		return nil, domain.NewDecodeError("could not encode image", err)
	}
	return buf.Bytes(), nil
}

