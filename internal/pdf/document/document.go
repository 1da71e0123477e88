// Package document loads an offer PDF into positioned glyphs and images and
// renders its pages for checkbox sampling.
package document

import (
	"fmt"
	"image"
	"io"
	"os"
	"strings"

	lpdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/a3tai/cbs-offer-importer/internal/pdf/content"
	pdferrors "github.com/a3tai/cbs-offer-importer/internal/pdf/errors"
	"github.com/a3tai/cbs-offer-importer/internal/pdf/layout"
	"github.com/a3tai/cbs-offer-importer/internal/pdf/raster"
)

const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// Document is a loaded PDF. Text comes from ledongthuc/pdf, page geometry
// and image placement from pdfcpu. A Document is used by one goroutine at a
// time.
type Document struct {
	Path  string
	pages []*layout.Page

	ctx      *model.Context
	images   map[string]*types.StreamDict
	decoded  map[string]image.Image
	warnings []*pdferrors.PDFError
}

// Open reads the PDF at path.
func Open(path string) (*Document, error) {
	doc := &Document{
		Path:    path,
		images:  make(map[string]*types.StreamDict),
		decoded: make(map[string]image.Image),
	}

	err := pdferrors.Guard(path, func() error {
		if err := doc.readStructure(); err != nil {
			return err
		}
		return doc.readGlyphs()
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Pages returns the pages in order.
func (d *Document) Pages() []*layout.Page {
	return d.pages
}

// Text returns the text of all pages separated by newlines.
func (d *Document) Text() string {
	texts := make([]string, len(d.pages))
	for i, p := range d.pages {
		texts[i] = p.Text()
	}
	return strings.Join(texts, "\n")
}

// Warnings returns the problems met while rendering that did not stop it.
func (d *Document) Warnings() []*pdferrors.PDFError {
	return d.warnings
}

// Render composites the images of page onto a white canvas. Images that
// cannot be decoded are skipped and recorded as warnings.
func (d *Document) Render(page *layout.Page, resolution float64) (image.Image, error) {
	if d.ctx == nil {
		return nil, pdferrors.NewPDFError(pdferrors.ErrorTypeRenderFailure, "document is not loaded").
			WithFile(d.Path).WithPage(page.Number)
	}
	canvas, errs := raster.Composite(page, resolution, d.imageAt)
	for _, err := range errs {
		d.warnings = append(d.warnings,
			pdferrors.WrapError(pdferrors.ErrorTypeInvalidImage, err).WithFile(d.Path).WithPage(page.Number))
	}
	return canvas, nil
}

func (d *Document) readStructure() error {
	f, err := os.Open(d.Path)
	if err != nil {
		return pdferrors.WrapError(pdferrors.ErrorTypeFileAccess, err).WithFile(d.Path)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		return pdferrors.WrapError(pdferrors.ErrorTypeInvalidStructure, err).WithFile(d.Path)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return pdferrors.WrapError(pdferrors.ErrorTypeInvalidStructure, err).WithFile(d.Path)
	}
	d.ctx = ctx

	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		page, err := d.readPage(pageNr)
		if err != nil {
			return err
		}
		d.pages = append(d.pages, page)
	}
	return nil
}

func (d *Document) readPage(pageNr int) (*layout.Page, error) {
	page := &layout.Page{Number: pageNr, Width: defaultPageWidth, Height: defaultPageHeight}

	pageDict, _, attrs, err := d.ctx.PageDict(pageNr, false)
	if err != nil {
		return nil, pdferrors.WrapError(pdferrors.ErrorTypeInvalidStructure, err).
			WithFile(d.Path).WithPage(pageNr)
	}

	resources := types.Dict(nil)
	if attrs != nil {
		if attrs.MediaBox != nil {
			page.Width = attrs.MediaBox.Width()
			page.Height = attrs.MediaBox.Height()
		}
		resources = attrs.Resources
	}
	if resources == nil && pageDict != nil {
		resources = d.dict(pageDict["Resources"])
	}

	r, err := pdfcpu.ExtractPageContent(d.ctx, pageNr)
	if err != nil {
		return nil, pdferrors.WrapError(pdferrors.ErrorTypeInvalidStream, err).
			WithFile(d.Path).WithPage(pageNr)
	}
	if r == nil {
		return page, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, pdferrors.WrapError(pdferrors.ErrorTypeInvalidStream, err).
			WithFile(d.Path).WithPage(pageNr)
	}

	d.placeImages(page, data, resources, content.Identity, 0)
	return page, nil
}

func (d *Document) readGlyphs() error {
	f, r, err := lpdf.Open(d.Path)
	if err != nil {
		return pdferrors.WrapError(pdferrors.ErrorTypeInvalidFile, err).WithFile(d.Path)
	}
	defer f.Close()

	if r.NumPage() != len(d.pages) {
		return pdferrors.NewPDFError(pdferrors.ErrorTypeInvalidStructure, "page count mismatch").
			WithContext(fmt.Sprintf("text layer has %d pages, structure has %d", r.NumPage(), len(d.pages))).
			WithFile(d.Path)
	}

	for i, page := range d.pages {
		p := r.Page(i + 1)
		if p.V.IsNull() {
			continue
		}
		for _, t := range p.Content().Text {
			size := t.FontSize
			if size == 0 {
				size = 12.0
			}
			page.Glyphs = append(page.Glyphs, layout.SplitRun(t.S, t.X, t.Y, t.W, size)...)
		}
	}
	return nil
}
