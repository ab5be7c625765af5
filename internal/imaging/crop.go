package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
)

// Region represents a rectangular region within an image.
//
// Coordinates follow the standard image convention:
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// ParseRegion parses "x1,y1,x2,y2".
func ParseRegion(s string) (Region, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Region{}, fmt.Errorf("region %q: want x1,y1,x2,y2", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Region{}, fmt.Errorf("region %q: %w", s, err)
		}
		v[i] = n
	}
	return Region{X1: v[0], Y1: v[1], X2: v[2], Y2: v[3]}, nil
}

// Crop extracts a rectangular region from an image
func Crop(img image.Image, r Region) (image.Image, error) {
	bounds := img.Bounds()

	if r.X1 < bounds.Min.X || r.Y1 < bounds.Min.Y || r.X2 > bounds.Max.X || r.Y2 > bounds.Max.Y {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			r.X1, r.Y1, r.X2, r.Y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	return imaging.Crop(img, image.Rect(r.X1, r.Y1, r.X2, r.Y2)), nil
}

// Resize scales an image with a Lanczos filter. When one of width or height
// is zero the aspect ratio is preserved; when both are zero the image is
// returned unchanged.
func Resize(img image.Image, width, height int) (image.Image, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid resize target %dx%d", width, height)
	}
	if width == 0 && height == 0 {
		return img, nil
	}
	return imaging.Resize(img, width, height, imaging.Lanczos), nil
}

// Preprocess applies the optional crop and then the optional resize.
func Preprocess(img image.Image, crop *Region, width, height int) (image.Image, error) {
	var err error
	if crop != nil {
		if img, err = Crop(img, *crop); err != nil {
			return nil, err
		}
	}
	return Resize(img, width, height)
}

// EncodePNGBase64 encodes an image as base64 PNG.
func EncodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
