// Package imaging crops and scales profile pictures before upload.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// JPEGQuality is the output quality of cropped pictures
const JPEGQuality = 95

// DefaultMaxSide bounds the longer edge of a cropped picture
const DefaultMaxSide = 512

// ErrEmptyArea is returned when the crop area misses the image
var ErrEmptyArea = errors.New("crop area is empty")

// Area is a crop rectangle in source pixels
type Area struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Full reports whether no area was chosen, meaning the whole image
func (a Area) Full() bool {
	return a.Width <= 0 || a.Height <= 0
}

// Crop decodes r, cuts out area (clamped to the image), scales the result
// so neither side exceeds maxSide and encodes it as JPEG.
func Crop(r io.Reader, area Area, maxSide int) ([]byte, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := src.Bounds()
	rect := bounds
	if !area.Full() {
		rect = image.Rect(area.X, area.Y, area.X+area.Width, area.Y+area.Height).
			Add(bounds.Min).
			Intersect(bounds)
	}
	if rect.Empty() {
		return nil, ErrEmptyArea
	}

	w, h := scaled(rect.Dx(), rect.Dy(), maxSide)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, rect, draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func scaled(w, h, maxSide int) (int, int) {
	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		return w, h
	}
	if w >= h {
		return maxSide, max(1, h*maxSide/w)
	}
	return max(1, w*maxSide/h), maxSide
}
