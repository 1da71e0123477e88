package document

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/hhrutter/tiff"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	pdferrors "github.com/a3tai/cbs-offer-importer/internal/pdf/errors"
)

// imageDecoders reads the file types pdfcpu renders image XObjects to.
var imageDecoders = map[string]func(io.Reader) (image.Image, error){
	"png": png.Decode,
	"jpg": jpeg.Decode,
	"tif": tiff.Decode,
}

// decodeImage turns an image XObject into pixels with pdfcpu's image
// extraction. Soft masks come back as alpha.
func (d *Document) decodeImage(key string, sd *types.StreamDict) (img image.Image, err error) {
	prepareStencil(sd)

	// pdfcpu panics on some malformed image dictionaries.
	err = pdferrors.Guard(d.Path, func() error {
		extracted, err := pdfcpu.ExtractImage(d.ctx, sd, false, key, 0, false)
		if err != nil {
			return err
		}
		if extracted == nil || extracted.Reader == nil {
			return fmt.Errorf("unsupported image filter %v", sd.FilterPipeline)
		}
		decode, ok := imageDecoders[extracted.FileType]
		if !ok {
			return fmt.Errorf("unsupported image type %q", extracted.FileType)
		}
		img, err = decode(extracted)
		return err
	})
	return img, err
}

// prepareStencil gives an image mask the 1 bit DeviceGray description
// pdfcpu renders from; masks may omit both entries.
func prepareStencil(sd *types.StreamDict) {
	if im := sd.BooleanEntry("ImageMask"); im == nil || !*im {
		if sd.IntEntry("BitsPerComponent") == nil {
			sd.InsertInt("BitsPerComponent", 8)
		}
		return
	}
	if _, ok := sd.Find("ColorSpace"); !ok {
		sd.InsertName("ColorSpace", model.DeviceGrayCS)
	}
	if sd.IntEntry("BitsPerComponent") == nil {
		sd.InsertInt("BitsPerComponent", 1)
	}
}
