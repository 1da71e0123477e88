package document

import (
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareStencil(t *testing.T) {
	mask := &types.StreamDict{Dict: types.Dict{
		"Subtype":   types.Name("Image"),
		"ImageMask": types.Boolean(true),
	}}
	prepareStencil(mask)
	cs, ok := mask.Find("ColorSpace")
	require.True(t, ok)
	assert.Equal(t, types.Name("DeviceGray"), cs)
	require.NotNil(t, mask.IntEntry("BitsPerComponent"))
	assert.Equal(t, 1, *mask.IntEntry("BitsPerComponent"))

	plain := &types.StreamDict{Dict: types.Dict{
		"Subtype":    types.Name("Image"),
		"ColorSpace": types.Name("DeviceRGB"),
	}}
	prepareStencil(plain)
	require.NotNil(t, plain.IntEntry("BitsPerComponent"))
	assert.Equal(t, 8, *plain.IntEntry("BitsPerComponent"))
	cs, _ = plain.Find("ColorSpace")
	assert.Equal(t, types.Name("DeviceRGB"), cs)

	explicit := &types.StreamDict{Dict: types.Dict{
		"BitsPerComponent": types.Integer(4),
	}}
	prepareStencil(explicit)
	assert.Equal(t, 4, *explicit.IntEntry("BitsPerComponent"))
}

func TestImageKey(t *testing.T) {
	ref := types.IndirectRef{ObjectNumber: types.Integer(12)}
	assert.Equal(t, "obj:12", imageKey(ref, 1, "Im1"))
	assert.Equal(t, "obj:12", imageKey(&ref, 1, "Im1"))
	assert.Equal(t, "page:3/Im2", imageKey(types.Dict{}, 3, "Im2"))
}
