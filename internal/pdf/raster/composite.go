package raster

import (
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/a3tai/cbs-offer-importer/internal/pdf/layout"
)

// ImageSource returns the decoded pixels of an image placed on a page.
type ImageSource func(ref layout.ImageRef) (image.Image, error)

// Composite paints every image of page onto a white canvas at resolution dpi.
// Images whose source fails are left out and their errors returned alongside
// the canvas.
func Composite(page *layout.Page, resolution float64, source ImageSource) (*image.Gray, []error) {
	scale := resolution / 72
	w := max(1, int(math.Ceil(page.Width*scale)))
	h := max(1, int(math.Ceil(page.Height*scale)))

	canvas := image.NewGray(image.Rect(0, 0, w, h))
	xdraw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, xdraw.Src)

	var errs []error
	for _, ref := range page.Images {
		img, err := source(ref)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if img == nil {
			continue
		}

		dst := image.Rect(
			int(math.Floor(ref.X0*scale)),
			int(math.Floor((page.Height-ref.Y1)*scale)),
			int(math.Ceil(ref.X1*scale)),
			int(math.Ceil((page.Height-ref.Y0)*scale)),
		)
		if dst.Empty() {
			continue
		}
		xdraw.NearestNeighbor.Scale(canvas, dst, img, img.Bounds(), xdraw.Over, nil)
	}
	return canvas, errs
}
