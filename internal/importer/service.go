package importer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/a3tai/cbs-offer-importer/internal/offer"
	pdferrors "github.com/a3tai/cbs-offer-importer/internal/pdf/errors"
	"github.com/a3tai/cbs-offer-importer/internal/sheet"
)

// ErrNoOffers reports an import folder without offer PDFs.
var ErrNoOffers = errors.New("no PDFs found")

// Options configures a Service.
type Options struct {
	Directory   string
	MaxFileSize int64
	Workers     int
	Settings    offer.Settings
	// Opener loads documents; nil selects offer.OpenDocument.
	Opener offer.Opener
}

// Service orchestrates folder discovery, extraction and workbook output
type Service struct {
	validator *Validator
	guard     *PathGuard
	extractor *offer.Extractor
	workers   int
}

// NewService creates a service rooted at opts.Directory
func NewService(opts Options) (*Service, error) {
	guard, err := NewPathGuard(opts.Directory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path guard: %w", err)
	}
	if opts.MaxFileSize <= 0 {
		return nil, fmt.Errorf("maximum file size must be positive")
	}
	return &Service{
		validator: NewValidator(opts.MaxFileSize),
		guard:     guard,
		extractor: offer.NewExtractor(opts.Settings, opts.Opener),
		workers:   opts.Workers,
	}, nil
}

// Extract reads one contract.
func (s *Service) Extract(req ExtractRequest) (*ExtractResult, error) {
	path, err := s.guard.Resolve(req.Path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	if err := s.validator.Stat(path); err != nil {
		return nil, err
	}

	rec, err := s.extractor.ExtractFile(path)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]any, rec.Len())
	for _, f := range rec.Fields() {
		v, _ := rec.Get(f)
		fields[f.String()] = v.Interface()
	}
	return &ExtractResult{
		Path:   path,
		Fields: fields,
		Rows:   rec.Rows(),
		Count:  rec.Len(),
	}, nil
}

// Search lists offer PDFs below the configured directory.
func (s *Service) Search(req SearchRequest) (*SearchResult, error) {
	dir, err := s.guard.ResolveDir(req.Directory)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	req.Directory = dir
	return s.validator.Search(req)
}

// Import extracts every offer PDF in req.Directory and writes one column per
// successfully extracted document into a copy of req.Template. Documents
// that fail are reported in the result and get no column.
func (s *Service) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	start := time.Now()
	runID := uuid.NewString()

	dir, err := s.guard.ResolveDir(req.Directory)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	template, err := s.guard.Resolve(req.Template)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	if err := ValidateTemplate(template); err != nil {
		return nil, err
	}
	output := sheet.OutputPath(template)
	if req.Output != "" {
		if output, err = s.guard.Resolve(req.Output); err != nil {
			return nil, fmt.Errorf("security validation failed: %w", err)
		}
	}

	files, err := s.validator.FindOffers(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoOffers, dir)
	}
	log.Printf("import %s: %d offer(s) in %s", runID, len(files), dir)

	wb, err := sheet.Open(template)
	if err != nil {
		return nil, pdferrors.WrapError(pdferrors.ErrorTypeWorkbook, err).WithFile(template)
	}
	defer func() { _ = wb.Close() }()

	results := s.extractor.ExtractAll(ctx, Paths(files), s.workers)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &ImportResult{
		RunID:  runID,
		Output: output,
		Files:  len(files),
		Offers: make([]OfferSummary, 0, len(files)),
		Errors: pdferrors.NewErrorCollection(),
	}
	for i, r := range results {
		name := files[i].Name
		if r.Err != nil {
			res.Errors.AddFailure(pdferrors.WrapError(pdferrors.ErrorTypeInvalidFile, r.Err).WithFile(name))
			continue
		}
		col, err := wb.AppendOffer(r.Record.Rows(), offer.SkipRows)
		if err != nil {
			return nil, pdferrors.WrapError(pdferrors.ErrorTypeWorkbook, err).WithFile(name)
		}
		res.Offers = append(res.Offers, summarize(name, col, r.Record))
	}

	if err := wb.SaveAs(output); err != nil {
		return nil, pdferrors.WrapError(pdferrors.ErrorTypeWorkbook, err).WithFile(output)
	}
	res.Duration = time.Since(start)
	log.Printf("import %s: saved %s (%s)", runID, output, res.Errors.Summary())
	return res, nil
}

// Info describes the service for the server-info surfaces.
func (s *Service) Info(name, version string, tools []string) *ServerInfo {
	info := &ServerInfo{
		Name:        name,
		Version:     version,
		Directory:   s.guard.Root(),
		MaxFileSize: s.validator.maxFileSize,
		Workers:     s.workers,
		Resolution:  s.extractor.Settings().Resolution,
		Brightness:  s.extractor.Settings().BrightnessThreshold,
		Tools:       tools,
	}
	if files, err := s.validator.FindOffers(s.guard.Root()); err == nil {
		info.OfferCount = len(files)
	}
	return info
}

func summarize(name string, col int, rec offer.Record) OfferSummary {
	sum := OfferSummary{
		File:   name,
		Column: col,
		Offer:  col - sheet.TemplateColumn,
	}
	if v, ok := rec.Get(offer.FieldBuyer); ok {
		sum.Buyer = v.String()
	}
	if v, ok := rec.Get(offer.FieldPrice); ok {
		if p, ok := v.Float(); ok {
			sum.Price = &p
		}
	}
	return sum
}
