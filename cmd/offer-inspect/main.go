package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/a3tai/cbs-offer-importer/internal/offer"
)

// options holds the parsed command line.
type options struct {
	format     string
	diagnostic bool
	help       bool
	brightness float64
	resolution float64
	path       string
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	defaults := offer.DefaultSettings()
	opts := &options{}

	fs := pflag.NewFlagSet("offer-inspect", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.format, "format", "text", "Output format: text, json")
	fs.BoolVar(&opts.diagnostic, "diagnostic", false, "Show how each checkbox section was resolved")
	fs.BoolVar(&opts.help, "help", false, "Show help message")
	fs.Float64Var(&opts.brightness, "brightness", defaults.BrightnessThreshold, "Darkest mean brightness still counted as checked")
	fs.Float64Var(&opts.resolution, "resolution", defaults.Resolution, "Render resolution in DPI")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.help {
		return opts, nil
	}
	if fs.NArg() != 1 {
		return nil, fmt.Errorf("exactly one PDF file path required")
	}
	if opts.format != "text" && opts.format != "json" {
		return nil, fmt.Errorf("unsupported output format: %s", opts.format)
	}
	opts.path = fs.Arg(0)
	return opts, nil
}

func main() {
	opts, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		printUsage(os.Stderr)
		os.Exit(1)
	}
	if opts.help {
		printHelp(os.Stdout)
		return
	}

	settings := offer.DefaultSettings()
	settings.BrightnessThreshold = opts.brightness
	settings.Resolution = opts.resolution

	result := inspect(opts.path, offer.NewExtractor(settings, nil), offer.OpenDocument, opts.diagnostic)
	if err := writeResult(os.Stdout, opts.format, result); err != nil {
		fmt.Fprintf(os.Stderr, "Error outputting results: %v\n", err)
		os.Exit(1)
	}
	if !result.Success {
		os.Exit(1)
	}
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "Offer Inspect - show the fields read from one CBS1 offer PDF")
	fmt.Fprintln(w)
	printUsage(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "OPTIONS:")
	fmt.Fprintln(w, "  --diagnostic   Show page, anchor, candidate count and brightness per checkbox section")
	fmt.Fprintln(w, "  --format       Output format: text (default), json")
	fmt.Fprintln(w, "  --brightness   Checked threshold, 0-255")
	fmt.Fprintln(w, "  --resolution   Render resolution in DPI")
	fmt.Fprintln(w, "  --help         Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "EXAMPLES:")
	fmt.Fprintln(w, "  offer-inspect offer.pdf")
	fmt.Fprintln(w, "  offer-inspect --diagnostic --format json offers/smith.pdf")
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "USAGE:")
	fmt.Fprintln(w, "  offer-inspect [OPTIONS] <pdf_file>")
}

// FieldValue is one extracted field with its workbook row.
type FieldValue struct {
	Row   int    `json:"row"`
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// InspectResult is the complete report for one document.
type InspectResult struct {
	FilePath       string            `json:"file_path"`
	Success        bool              `json:"success"`
	PageCount      int               `json:"page_count"`
	FieldCount     int               `json:"field_count"`
	Fields         []FieldValue      `json:"fields"`
	Diagnostics    []offer.Diagnosis `json:"diagnostics,omitempty"`
	Error          string            `json:"error,omitempty"`
	ExtractionTime string            `json:"extraction_time,omitempty"`
}

func inspect(path string, extractor *offer.Extractor, open offer.Opener, diagnostic bool) *InspectResult {
	start := time.Now()
	result := &InspectResult{FilePath: path}
	if abs, err := filepath.Abs(path); err == nil {
		result.FilePath = abs
	}

	src, err := open(result.FilePath)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.PageCount = len(src.Pages())

	rec, err := extractor.Extract(src)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	for _, f := range rec.Fields() {
		v, _ := rec.Get(f)
		result.Fields = append(result.Fields, FieldValue{Row: f.Row(), Name: f.String(), Value: v.Interface()})
	}
	result.FieldCount = len(result.Fields)

	if diagnostic {
		if result.Diagnostics, err = extractor.Diagnose(src); err != nil {
			result.Error = err.Error()
			return result
		}
	}

	result.Success = true
	result.ExtractionTime = time.Since(start).Round(time.Millisecond).String()
	return result
}

func writeResult(w io.Writer, format string, result *InspectResult) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	case "text":
		return writeText(w, result)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func writeText(w io.Writer, result *InspectResult) error {
	if !result.Success {
		_, err := fmt.Fprintf(w, "Extraction failed: %s\n", result.Error)
		return err
	}

	fmt.Fprintf(w, "%s (%d pages, %d fields, %s)\n\n", result.FilePath, result.PageCount, result.FieldCount, result.ExtractionTime)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ROW\tFIELD\tVALUE")
	for _, f := range result.Fields {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", f.Row, f.Name, formatValue(f.Value))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(result.Diagnostics) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SECTION\tPAGE\tANCHOR\tCANDIDATES\tBRIGHTNESS\tLABEL\tCHOICE")
	for _, d := range result.Diagnostics {
		if d.Page == 0 {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\t-\t%s\n", d.Section, d.Choice)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%.1f\t%d\t%.1f\t%q\t%s\n",
			d.Section, d.Page, d.AnchorY, d.Candidates, d.Brightness, d.Label, d.Choice)
	}
	return tw.Flush()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case float64:
		return fmt.Sprintf("%g", x)
	case string:
		return fmt.Sprintf("%q", x)
	default:
		return fmt.Sprint(x)
	}
}
