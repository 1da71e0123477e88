package offer

import (
	"image"

	"github.com/a3tai/cbs-offer-importer/internal/pdf/layout"
	"github.com/a3tai/cbs-offer-importer/internal/pdf/raster"
)

const glyphAdvance = 5.0

// fakeDoc is an in-memory Source whose images are solid gray squares.
type fakeDoc struct {
	pages   []*layout.Page
	shades  map[string]uint8
	renders int
}

func newFakeDoc() *fakeDoc {
	return &fakeDoc{shades: make(map[string]uint8)}
}

func (d *fakeDoc) Pages() []*layout.Page {
	return d.pages
}

func (d *fakeDoc) Render(page *layout.Page, resolution float64) (image.Image, error) {
	d.renders++
	canvas, _ := raster.Composite(page, resolution, func(ref layout.ImageRef) (image.Image, error) {
		shade, ok := d.shades[ref.Key]
		if !ok {
			shade = 255
		}
		img := image.NewGray(image.Rect(0, 0, 4, 4))
		for i := range img.Pix {
			img.Pix[i] = shade
		}
		return img, nil
	})
	return canvas, nil
}

func (d *fakeDoc) page() *fakePage {
	p := &layout.Page{Number: len(d.pages) + 1, Width: 612, Height: 792}
	d.pages = append(d.pages, p)
	return &fakePage{doc: d, page: p}
}

type fakePage struct {
	doc  *fakeDoc
	page *layout.Page
}

// text draws s starting at (x, y) with a fixed advance per rune.
func (p *fakePage) text(s string, x, y float64) *fakePage {
	n := float64(len([]rune(s)))
	p.page.Glyphs = append(p.page.Glyphs, layout.SplitRun(s, x, y, n*glyphAdvance, 10)...)
	return p
}

// lines draws each string on its own line, 14 units apart, from y down.
func (p *fakePage) lines(x, y float64, ss ...string) *fakePage {
	for i, s := range ss {
		p.text(s, x, y-float64(i)*14)
	}
	return p
}

// box draws a 10.5 unit checkbox with the given gray shade.
func (p *fakePage) box(key string, x, y float64, shade uint8) *fakePage {
	p.page.Images = append(p.page.Images, layout.ImageRef{
		Key:  key,
		BBox: layout.BBox{X0: x, Y0: y, X1: x + 10.5, Y1: y + 10.5},
	})
	p.doc.shades[key] = shade
	return p
}

// feeSection draws a closing cost section header at y with a Buyer /
// Seller / One-Half / N/A option row 20 units below it; checked names the
// option whose box is black.
func (p *fakePage) feeSection(section, title string, y float64, checked string) *fakePage {
	p.text(section+" "+title, 72, y)
	row := y - 20
	options := []struct {
		name string
		x    float64
	}{
		{"Buyer", 100},
		{"Seller", 140},
		{"One-Half", 190},
		{"N/A", 250},
	}
	for _, o := range options {
		shade := uint8(255)
		if o.name == checked {
			shade = 0
		}
		p.box(section+o.name, o.x, row, shade)
		p.text(o.name, o.x+12, row)
	}
	return p
}
