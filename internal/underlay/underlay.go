// Package underlay loads background raster images (scanned plans,
// site photos) that drawings are traced over.
package underlay

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"nestor-draft/pkg/geometry"

	_ "golang.org/x/image/tiff"
)

// Layer is one background image positioned in world coordinates.
type Layer struct {
	Path    string      // Original file path
	Image   image.Image // Decoded pixels
	Visible bool
	Opacity float64 // 0.0 - 1.0

	// World placement: the image origin in world coordinates and the
	// world size of one pixel.
	OffsetX      float64
	OffsetY      float64
	MetersPerPix float64
}

// NewLayer creates a layer with default placement.
func NewLayer() *Layer {
	return &Layer{
		Visible:      true,
		Opacity:      1.0,
		MetersPerPix: 0.01,
	}
}

// Load decodes an underlay image. PNG, JPEG and TIFF are supported.
func Load(path string) (*Layer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open underlay: %w", err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode underlay %s: %w", filepath.Base(path), err)
	}
	if !supported(format) {
		return nil, fmt.Errorf("unsupported underlay format %q", format)
	}

	layer := NewLayer()
	layer.Path = path
	layer.Image = img
	return layer, nil
}

func supported(format string) bool {
	switch strings.ToLower(format) {
	case "png", "jpeg", "tiff":
		return true
	}
	return false
}

// WorldBounds returns the rectangle the image covers in world
// coordinates under its current placement.
func (l *Layer) WorldBounds() geometry.Rect {
	if l.Image == nil {
		return geometry.Rect{}
	}
	b := l.Image.Bounds()
	return geometry.Rect{
		X:      l.OffsetX,
		Y:      l.OffsetY,
		Width:  float64(b.Dx()) * l.MetersPerPix,
		Height: float64(b.Dy()) * l.MetersPerPix,
	}
}

// WorldToPixel maps a world coordinate onto the image's pixel grid.
func (l *Layer) WorldToPixel(p geometry.Point2D) (int, int) {
	x := (p.X - l.OffsetX) / l.MetersPerPix
	y := (p.Y - l.OffsetY) / l.MetersPerPix
	return int(x), int(y)
}
