package services

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
)

// ImageService normalizes captured or uploaded label images before
// transmission: the longer side is bounded by maxDimension (aspect
// ratio preserved, never upscaled) and the result is re-encoded as
// JPEG at the configured quality.
type ImageService struct {
	maxDimension int
	quality      int
}

func NewImageService(maxDimension, quality int) *ImageService {
	return &ImageService{
		maxDimension: maxDimension,
		quality:      quality,
	}
}

func (s *ImageService) Normalize(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	longer := width
	if height > longer {
		longer = height
	}
	if longer <= s.maxDimension {
		// Already within bounds; only downscaling is allowed.
		return s.encode(img)
	}

	scale := float64(s.maxDimension) / float64(longer)
	newWidth := int(float64(width)*scale + 0.5)
	newHeight := int(float64(height)*scale + 0.5)
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)

	return s.encode(dst)
}

func (s *ImageService) encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: s.quality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
