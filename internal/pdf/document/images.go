package document

import (
	"fmt"
	"image"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/a3tai/cbs-offer-importer/internal/pdf/content"
	"github.com/a3tai/cbs-offer-importer/internal/pdf/layout"
)

// maxFormDepth bounds recursion through nested form XObjects.
const maxFormDepth = 8

// placeImages walks a content stream and records where each image XObject
// lands on page.
func (d *Document) placeImages(page *layout.Page, data []byte, resources types.Dict, ctm content.Matrix, depth int) {
	var stack []content.Matrix
	for _, op := range content.Scan(data) {
		switch op.Operator {
		case "q":
			stack = append(stack, ctm)
		case "Q":
			if n := len(stack); n > 0 {
				ctm = stack[n-1]
				stack = stack[:n-1]
			}
		case "cm":
			if m, err := content.MatrixFrom(op, 0); err == nil {
				ctm = m.Multiply(ctm)
			}
		case "Do":
			if name, ok := op.Name(); ok {
				d.placeXObject(page, name, resources, ctm, depth)
			}
		}
	}
}

func (d *Document) placeXObject(page *layout.Page, name string, resources types.Dict, ctm content.Matrix, depth int) {
	xobjects := d.dict(resources["XObject"])
	if xobjects == nil {
		return
	}
	obj, ok := xobjects[name]
	if !ok {
		return
	}
	sd, _, err := d.ctx.DereferenceStreamDict(obj)
	if err != nil || sd == nil {
		return
	}

	switch nameOf(sd.Dict["Subtype"]) {
	case "Image":
		key := imageKey(obj, page.Number, name)
		d.images[key] = sd
		x0, y0, x1, y1 := ctm.UnitSquare()
		page.Images = append(page.Images, layout.ImageRef{
			Key:  key,
			BBox: layout.BBox{X0: x0, Y0: y0, X1: x1, Y1: y1},
		})
	case "Form":
		if depth >= maxFormDepth {
			return
		}
		if err := sd.Decode(); err != nil {
			return
		}
		formCTM := ctm
		if m, ok := d.matrix(sd.Dict["Matrix"]); ok {
			formCTM = m.Multiply(ctm)
		}
		formResources := resources
		if r := d.dict(sd.Dict["Resources"]); r != nil {
			formResources = r
		}
		d.placeImages(page, sd.Content, formResources, formCTM, depth+1)
	}
}

// imageAt returns the decoded pixels of ref, decoding each image once.
func (d *Document) imageAt(ref layout.ImageRef) (image.Image, error) {
	if img, ok := d.decoded[ref.Key]; ok {
		return img, nil
	}
	sd, ok := d.images[ref.Key]
	if !ok {
		return nil, fmt.Errorf("unknown image %s", ref.Key)
	}
	img, err := d.decodeImage(ref.Key, sd)
	if err != nil {
		return nil, fmt.Errorf("image %s: %w", ref.Key, err)
	}
	d.decoded[ref.Key] = img
	return img, nil
}

func imageKey(obj types.Object, pageNr int, name string) string {
	switch v := obj.(type) {
	case types.IndirectRef:
		return fmt.Sprintf("obj:%d", int(v.ObjectNumber))
	case *types.IndirectRef:
		return fmt.Sprintf("obj:%d", int(v.ObjectNumber))
	}
	return fmt.Sprintf("page:%d/%s", pageNr, name)
}
