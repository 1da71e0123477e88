// Package sheet writes extracted offers into the comparison workbook.
//
// The workbook's active sheet holds one offer per column. Row 2 carries the
// "OFFER n" header, column B is the formatting template for new columns and
// offers start in column C.
package sheet

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	// HeaderRow is the row holding the "OFFER n" headers.
	HeaderRow = 2
	// TemplateColumn is the column new offer columns copy their formatting from.
	TemplateColumn = 2
	// FirstOfferColumn is the first column that may receive an offer.
	FirstOfferColumn = 3
	// LastRow is the last row copied from the template column.
	LastRow = 103
)

// Workbook is an open comparison workbook.
type Workbook struct {
	file  *excelize.File
	sheet string
}

// Open loads the workbook at path and selects its active sheet.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return New(f), nil
}

// New wraps an already loaded excelize file.
func New(f *excelize.File) *Workbook {
	return &Workbook{file: f, sheet: f.GetSheetName(f.GetActiveSheetIndex())}
}

// Sheet returns the name of the sheet being written.
func (w *Workbook) Sheet() string {
	return w.sheet
}

// File exposes the underlying excelize file.
func (w *Workbook) File() *excelize.File {
	return w.file
}

// NextColumn returns the first column, starting at FirstOfferColumn, whose
// header cell is empty.
func (w *Workbook) NextColumn() (int, error) {
	for col := FirstOfferColumn; ; col++ {
		cell, err := excelize.CoordinatesToCellName(col, HeaderRow)
		if err != nil {
			return 0, err
		}
		v, err := w.file.GetCellValue(w.sheet, cell)
		if err != nil {
			return 0, fmt.Errorf("read %s: %w", cell, err)
		}
		if v == "" {
			return col, nil
		}
	}
}

// CopyColumn copies styles, formulas, column width and data validations of
// rows 1..lastRow from column src to column dst. Formula references to src
// are moved to dst unless they are absolute.
func (w *Workbook) CopyColumn(src, dst, lastRow int) error {
	srcName, err := excelize.ColumnNumberToName(src)
	if err != nil {
		return err
	}
	dstName, err := excelize.ColumnNumberToName(dst)
	if err != nil {
		return err
	}

	for row := 1; row <= lastRow; row++ {
		from, _ := excelize.CoordinatesToCellName(src, row)
		to, _ := excelize.CoordinatesToCellName(dst, row)

		style, err := w.file.GetCellStyle(w.sheet, from)
		if err != nil {
			return fmt.Errorf("style %s: %w", from, err)
		}
		if style != 0 {
			if err := w.file.SetCellStyle(w.sheet, to, to, style); err != nil {
				return fmt.Errorf("style %s: %w", to, err)
			}
		}

		formula, err := w.file.GetCellFormula(w.sheet, from)
		if err != nil {
			return fmt.Errorf("formula %s: %w", from, err)
		}
		if formula != "" {
			shifted := ShiftColumn(formula, srcName, dstName)
			if err := w.file.SetCellFormula(w.sheet, to, shifted); err != nil {
				return fmt.Errorf("formula %s: %w", to, err)
			}
		}
	}

	width, err := w.file.GetColWidth(w.sheet, srcName)
	if err != nil {
		return fmt.Errorf("width %s: %w", srcName, err)
	}
	if err := w.file.SetColWidth(w.sheet, dstName, dstName, width); err != nil {
		return fmt.Errorf("width %s: %w", dstName, err)
	}

	return w.copyValidations(srcName, dstName)
}

func (w *Workbook) copyValidations(src, dst string) error {
	dvs, err := w.file.GetDataValidations(w.sheet)
	if err != nil {
		return fmt.Errorf("data validations: %w", err)
	}
	for _, dv := range dvs {
		sqref, ok := moveSqref(dv.Sqref, src, dst)
		if !ok {
			continue
		}
		copied := *dv
		copied.Sqref = sqref
		if err := w.file.AddDataValidation(w.sheet, &copied); err != nil {
			return fmt.Errorf("data validation %s: %w", sqref, err)
		}
	}
	return nil
}

// WriteOffer writes the "OFFER n" header and every row value into col.
// Rows in skip, nil values and empty strings are left untouched.
func (w *Workbook) WriteOffer(col, n int, rows map[int]any, skip map[int]bool) error {
	header, err := excelize.CoordinatesToCellName(col, HeaderRow)
	if err != nil {
		return err
	}
	if err := w.file.SetCellValue(w.sheet, header, fmt.Sprintf("OFFER %d", n)); err != nil {
		return err
	}
	for row, v := range rows {
		if skip[row] || v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(w.sheet, cell, v); err != nil {
			return fmt.Errorf("write %s: %w", cell, err)
		}
	}
	return nil
}

// AppendOffer writes rows into the next free column, copying the template
// column's formatting first. It returns the column used; the offer number is
// the column's position relative to the template column.
func (w *Workbook) AppendOffer(rows map[int]any, skip map[int]bool) (int, error) {
	col, err := w.NextColumn()
	if err != nil {
		return 0, err
	}
	if err := w.CopyColumn(TemplateColumn, col, LastRow); err != nil {
		return 0, fmt.Errorf("sheet: copy column: %w", err)
	}
	if err := w.WriteOffer(col, col-TemplateColumn, rows, skip); err != nil {
		return 0, fmt.Errorf("sheet: write offer: %w", err)
	}
	name, _ := excelize.ColumnNumberToName(col)
	log.Printf("sheet: offer %d written to column %s", col-TemplateColumn, name)
	return col, nil
}

// SaveAs writes the workbook to path.
func (w *Workbook) SaveAs(path string) error {
	if err := w.file.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// Close releases the workbook.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// OutputPath is the default output next to template: "<stem>_filled.xlsx".
func OutputPath(template string) string {
	ext := filepath.Ext(template)
	return strings.TrimSuffix(template, ext) + "_filled.xlsx"
}
