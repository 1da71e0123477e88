// Package importer runs offer extraction over a folder of contracts and
// writes the results into the comparison workbook.
package importer

import (
	"time"

	pdferrors "github.com/a3tai/cbs-offer-importer/internal/pdf/errors"
)

// FileInfo describes one offer PDF found in a directory
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
	Valid        *bool  `json:"valid,omitempty"`
	Message      string `json:"message,omitempty"`
}

// SearchRequest lists offer PDFs in Directory whose names contain Query.
// With Validate set each file is also opened to confirm it parses.
type SearchRequest struct {
	Directory string `json:"directory"`
	Query     string `json:"query,omitempty"`
	Validate  bool   `json:"validate,omitempty"`
}

// SearchResult is the outcome of a directory search
type SearchResult struct {
	Files       []FileInfo `json:"files"`
	TotalCount  int        `json:"total_count"`
	Directory   string     `json:"directory"`
	SearchQuery string     `json:"search_query,omitempty"`
}

// ExtractRequest names one contract to extract.
type ExtractRequest struct {
	Path string `json:"path"`
}

// ExtractResult holds one extracted record keyed both ways: by field name
// for readers and by workbook row for the writer.
type ExtractResult struct {
	Path   string         `json:"path"`
	Fields map[string]any `json:"fields"`
	Rows   map[int]any    `json:"rows"`
	Count  int            `json:"count"`
}

// ImportRequest imports every offer PDF in Directory into Template.
// An empty Output writes "<template stem>_filled.xlsx" next to Template.
type ImportRequest struct {
	Directory string `json:"directory"`
	Template  string `json:"template"`
	Output    string `json:"output,omitempty"`
}

// OfferSummary is the per-file OK line of an import.
type OfferSummary struct {
	File   string   `json:"file"`
	Column int      `json:"column"`
	Offer  int      `json:"offer"`
	Buyer  string   `json:"buyer"`
	Price  *float64 `json:"price,omitempty"`
}

// ImportResult reports a finished import.
type ImportResult struct {
	RunID    string                     `json:"run_id"`
	Output   string                     `json:"output"`
	Files    int                        `json:"files"`
	Offers   []OfferSummary             `json:"offers"`
	Errors   *pdferrors.ErrorCollection `json:"errors"`
	Duration time.Duration              `json:"duration"`
}

// ServerInfo describes the running importer.
type ServerInfo struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Directory   string   `json:"directory"`
	MaxFileSize int64    `json:"max_file_size"`
	Workers     int      `json:"workers"`
	Resolution  float64  `json:"resolution"`
	Brightness  float64  `json:"brightness_threshold"`
	Tools       []string `json:"tools"`
	OfferCount  int      `json:"offer_count"`
}
