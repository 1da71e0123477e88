package importer

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/a3tai/cbs-offer-importer/internal/offer"
	"github.com/a3tai/cbs-offer-importer/internal/pdf/layout"
)

// stubDoc is a text-only contract; it has no checkbox images so it is
// never rendered.
type stubDoc struct {
	pages []*layout.Page
}

func (d *stubDoc) Pages() []*layout.Page { return d.pages }

func (d *stubDoc) Render(*layout.Page, float64) (image.Image, error) {
	return nil, errors.New("stub documents are not rendered")
}

func textPage(lines ...string) *layout.Page {
	p := &layout.Page{Number: 1, Width: 612, Height: 792}
	for i, line := range lines {
		y := 750 - float64(i)*14
		w := 5 * float64(utf8.RuneCountInString(line))
		p.Glyphs = append(p.Glyphs, layout.SplitRun(line, 40, y, w, 10)...)
	}
	return p
}

// stubOpener names the buyer after the file: "a_alice.pdf" is bought by
// "Alice". Files containing "bad" fail to open.
func stubOpener(path string) (offer.Source, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if strings.Contains(name, "bad") {
		return nil, errors.New("unreadable contract")
	}
	if i := strings.IndexByte(name, '_'); i >= 0 {
		name = name[i+1:]
	}
	buyer := strings.ToUpper(name[:1]) + name[1:]
	return &stubDoc{pages: []*layout.Page{textPage(
		"CONTRACT TO BUY AND SELL REAL ESTATE",
		"Listing Agent",
		"2.1. Buyer. "+buyer+" (Buyer), will take title",
		"4.1. Price and Terms.",
		"1 § 4.1. Purchase Price $ 450,000.00",
	)}}, nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func writeTemplate(t *testing.T, path string) {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "Offer"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", "Template"))
	require.NoError(t, f.SetCellFormula("Sheet1", "B13", "B6-B11"))
	require.NoError(t, f.SaveAs(path))
}

// offerDir lays out a folder with two good offers, one unreadable offer,
// an empty PDF, a non-PDF file and the workbook template.
func offerDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a_alice.pdf"), "%PDF-1.4 stub")
	writeFile(t, filepath.Join(dir, "b_bad.pdf"), "%PDF-1.4 stub")
	writeFile(t, filepath.Join(dir, "c_carol.pdf"), "%PDF-1.4 stub")
	writeFile(t, filepath.Join(dir, "empty.pdf"), "")
	writeFile(t, filepath.Join(dir, "notes.txt"), "not an offer")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o750))
	writeFile(t, filepath.Join(dir, "archive", "old.pdf"), "%PDF-1.4 stub")
	writeTemplate(t, filepath.Join(dir, "comparison.xlsx"))
	return dir
}

func newTestService(t *testing.T, dir string) *Service {
	t.Helper()
	svc, err := NewService(Options{
		Directory:   dir,
		MaxFileSize: 1 << 20,
		Workers:     2,
		Settings:    offer.DefaultSettings(),
		Opener:      stubOpener,
	})
	require.NoError(t, err)
	return svc
}
