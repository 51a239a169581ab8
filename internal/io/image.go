package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/color"
	_ "image/gif"  // GIF decoder registration
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration

	"golang.org/x/image/draw"
)

// ImageService provides image processing operations for cover art.
//
// ImageService is used to:
//   - Decode cover art from tags, files or downloads
//   - Scale it down to the handful of cells a terminal can show
//   - Generate the placeholder cover used when a track has none
//
// Example usage:
//
//	svc := NewImageService()
//	thumb, err := svc.Thumbnail(ctx, data, 20, 20)
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// Thumbnail decodes an image and scales it to exactly width x height.
//
// Covers are square in practice, so the aspect ratio is not preserved; the
// Catmull-Rom kernel keeps small thumbnails readable.
//
// Parameters:
//   - ctx: Context for cancellation (currently unused)
//   - data: Encoded image (JPEG, PNG or GIF)
//   - width, height: Target size in pixels
func (s *ImageService) Thumbnail(ctx context.Context, data []byte, width, height int) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return s.Scale(img, width, height), nil
}

// Scale resizes img to width x height.
func (s *ImageService) Scale(img image.Image, width, height int) image.Image {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

// Placeholder returns the default album cover: a diagonal gradient with a
// centred disc, drawn at the requested size.
func (s *ImageService) Placeholder(width, height int) image.Image {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))

	top := color.RGBA{R: 0x4E, G: 0xCD, B: 0xC4, A: 0xFF}
	bottom := color.RGBA{R: 0x55, G: 0x3C, B: 0x9A, A: 0xFF}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			t := float64(x+y) / float64(width+height)
			dst.Set(x, y, lerp(top, bottom, t))
		}
	}

	disc := color.RGBA{R: 0x1A, G: 0x1A, B: 0x1A, A: 0xFF}
	cx, cy := float64(width)/2, float64(height)/2
	r := float64(min(width, height)) / 3
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			if d := dx*dx + dy*dy; d <= r*r && d >= (r/4)*(r/4) {
				dst.Set(x, y, disc)
			}
		}
	}
	return dst
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t)
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 0xFF}
}
