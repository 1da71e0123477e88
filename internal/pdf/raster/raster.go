// Package raster renders PDF pages to grayscale images and samples the
// brightness of page regions.
package raster

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/a3tai/cbs-offer-importer/internal/pdf/layout"
)

// DefaultResolution is the render resolution in dots per inch.
const DefaultResolution = 150.0

// Renderer draws a page at the given resolution.
type Renderer interface {
	Render(page *layout.Page, resolution float64) (image.Image, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(page *layout.Page, resolution float64) (image.Image, error)

// Render calls f.
func (f RendererFunc) Render(page *layout.Page, resolution float64) (image.Image, error) {
	return f(page, resolution)
}

// Raster is a grayscale render of a page together with the factors that map
// page units to pixels.
type Raster struct {
	Image      *image.Gray
	ScaleX     float64
	ScaleY     float64
	PageHeight float64
}

// NewRaster converts img to grayscale and derives the scale factors from the
// page dimensions.
func NewRaster(img image.Image, page *layout.Page) (*Raster, error) {
	if page.Width <= 0 || page.Height <= 0 {
		return nil, fmt.Errorf("page %d has no dimensions", page.Number)
	}

	gray, ok := img.(*image.Gray)
	if !ok {
		b := img.Bounds()
		gray = image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	}

	b := gray.Bounds()
	return &Raster{
		Image:      gray,
		ScaleX:     float64(b.Dx()) / page.Width,
		ScaleY:     float64(b.Dy()) / page.Height,
		PageHeight: page.Height,
	}, nil
}

// Brightness returns the mean gray level (0 black, 255 white) of the pixels
// under box. The crop is at least one pixel in each direction; pixels outside
// the image count as white.
func (r *Raster) Brightness(box layout.BBox) float64 {
	ix := int(box.X0 * r.ScaleX)
	iy := int((r.PageHeight - box.Y1) * r.ScaleY)
	iw := max(1, int(box.Width()*r.ScaleX))
	ih := max(1, int(box.Height()*r.ScaleY))

	b := r.Image.Bounds()
	crop := image.Rect(b.Min.X+ix, b.Min.Y+iy, b.Min.X+ix+iw, b.Min.Y+iy+ih)

	var sum int
	for y := crop.Min.Y; y < crop.Max.Y; y++ {
		for x := crop.Min.X; x < crop.Max.X; x++ {
			if !(image.Point{X: x, Y: y}).In(b) {
				sum += 255
				continue
			}
			sum += int(r.Image.Pix[r.Image.PixOffset(x, y)])
		}
	}
	return float64(sum) / float64(iw*ih)
}
