package imageprocessor

import (
	"bytes"
	"fmt"
	"image"
	stddraw "image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
)

// ImageSize represents a target image size.
type ImageSize struct {
	Name   string
	Width  int
	Height int
}

// SizeThumbnail is the profile thumbnail size served in listings.
var SizeThumbnail = ImageSize{Name: "thumb", Width: 150, Height: 150}

// Processor handles image processing operations.
type Processor struct {
	quality int // JPEG quality (1-100)
}

// NewProcessor creates a new image processor.
func NewProcessor(quality int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &Processor{
		quality: quality,
	}
}

// Cover decodes an image, scales it to fully cover the target box, crops the
// overflow around the center and re-encodes it in the source format. The
// result is always exactly size.Width x size.Height. Returns the encoded
// image together with its MIME type.
func (p *Processor) Cover(reader io.Reader, size ImageSize) (*bytes.Buffer, string, error) {
	img, format, err := image.Decode(reader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	cropped := p.cover(img, size.Width, size.Height)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		if err := jpeg.Encode(&buf, cropped, &jpeg.Options{Quality: p.quality}); err != nil {
			return nil, "", fmt.Errorf("failed to encode JPEG: %w", err)
		}
		return &buf, "image/jpeg", nil
	case "png":
		if err := png.Encode(&buf, cropped); err != nil {
			return nil, "", fmt.Errorf("failed to encode PNG: %w", err)
		}
		return &buf, "image/png", nil
	case "gif":
		if err := gif.Encode(&buf, cropped, nil); err != nil {
			return nil, "", fmt.Errorf("failed to encode GIF: %w", err)
		}
		return &buf, "image/gif", nil
	default:
		return nil, "", fmt.Errorf("unsupported image format: %s", format)
	}
}

// cover scales the image so both dimensions reach the target box, then crops
// the overflow anchored at the center.
func (p *Processor) cover(img image.Image, width, height int) image.Image {
	bounds := img.Bounds()
	srcW := bounds.Dx()
	srcH := bounds.Dy()

	scale := math.Max(float64(width)/float64(srcW), float64(height)/float64(srcH))
	scaledW := int(math.Ceil(float64(srcW) * scale))
	scaledH := int(math.Ceil(float64(srcH) * scale))
	if scaledW < width {
		scaledW = width
	}
	if scaledH < height {
		scaledH = height
	}

	scaled := image.NewRGBA(image.Rect(0, 0, scaledW, scaledH))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Over, nil)

	offset := image.Pt((scaledW-width)/2, (scaledH-height)/2)
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	stddraw.Draw(dst, dst.Bounds(), scaled, offset, stddraw.Src)

	return dst
}
