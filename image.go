package recipe2pdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	"image/png"
	"math"

	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/alnah/go-recipe2pdf/internal/layout"
)

// MaxImageSize is the bounding box, in points, a recipe photo is scaled into.
const MaxImageSize = 200.0

// ResolvedImage is a fetched photo ready to draw.
type ResolvedImage struct {
	Image         layout.Image
	Width, Height int     // intrinsic pixels
	DrawW, DrawH  float64 // placed size in points
}

// ImageResolver turns photo identifiers into drawable images.
type ImageResolver struct {
	fetcher BlobFetcher
	baseURL string
}

// NewImageResolver creates a resolver fetching "<baseURL><photoID>.jpg".
func NewImageResolver(fetcher BlobFetcher, baseURL string) *ImageResolver {
	return &ImageResolver{fetcher: fetcher, baseURL: baseURL}
}

// URL returns the download URL of a photo.
func (r *ImageResolver) URL(photoID string) string {
	return r.baseURL + photoID + ".jpg"
}

// Resolve downloads and decodes a photo and computes its placed size.
// Errors wrap ErrImageFetch or ErrImageDecode.
func (r *ImageResolver) Resolve(ctx context.Context, photoID string) (*ResolvedImage, error) {
	url := r.URL(photoID)
	data, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageFetch, err)
	}

	img, err := decodeImage(photoID, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrImageDecode, url, err)
	}

	img.DrawW, img.DrawH = ScaleToFit(img.Width, img.Height, MaxImageSize, MaxImageSize)
	return img, nil
}

// ScaleToFit returns the size of a w x h picture scaled uniformly to fit
// maxW x maxH. Small pictures are scaled up.
func ScaleToFit(w, h int, maxW, maxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	ratio := math.Min(maxW/float64(w), maxH/float64(h))
	return float64(w) * ratio, float64(h) * ratio
}

// decodeImage reads the picture dimensions and prepares bytes the PDF
// writer can embed. JPEG and GIF pass through; PNG and WebP are re-encoded
// as 8-bit non-interlaced PNG.
func decodeImage(name string, data []byte) (*ResolvedImage, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d", cfg.Width, cfg.Height)
	}

	res := &ResolvedImage{Width: cfg.Width, Height: cfg.Height}
	switch format {
	case "jpeg":
		res.Image = layout.Image{Name: name, Type: "JPG", Data: data}
	case "gif":
		res.Image = layout.Image{Name: name, Type: "GIF", Data: data}
	default:
		encoded, err := toPNG(data)
		if err != nil {
			return nil, err
		}
		res.Image = layout.Image{Name: name, Type: "PNG", Data: encoded}
	}
	return res, nil
}

func toPNG(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	dst := image.NewNRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
