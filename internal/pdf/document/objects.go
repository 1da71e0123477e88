package document

import (
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/a3tai/cbs-offer-importer/internal/pdf/content"
)

func (d *Document) resolve(obj types.Object) types.Object {
	if obj == nil {
		return nil
	}
	o, err := d.ctx.Dereference(obj)
	if err != nil {
		return nil
	}
	return o
}

func (d *Document) dict(obj types.Object) types.Dict {
	if obj == nil {
		return nil
	}
	dict, err := d.ctx.DereferenceDict(obj)
	if err != nil {
		return nil
	}
	return dict
}

func (d *Document) number(obj types.Object) (float64, bool) {
	switch v := d.resolve(obj).(type) {
	case types.Integer:
		return float64(v), true
	case types.Float:
		return float64(v), true
	}
	return 0, false
}

func (d *Document) array(obj types.Object) types.Array {
	a, _ := d.resolve(obj).(types.Array)
	return a
}

func (d *Document) matrix(obj types.Object) (content.Matrix, bool) {
	arr := d.array(obj)
	if len(arr) != 6 {
		return content.Identity, false
	}
	var m content.Matrix
	for i, item := range arr {
		v, ok := d.number(item)
		if !ok {
			return content.Identity, false
		}
		m[i] = v
	}
	return m, true
}

func nameOf(obj types.Object) string {
	if n, ok := obj.(types.Name); ok {
		return string(n)
	}
	return ""
}
