package mcp

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/xuri/excelize/v2"

	"github.com/a3tai/cbs-offer-importer/internal/config"
	"github.com/a3tai/cbs-offer-importer/internal/importer"
	"github.com/a3tai/cbs-offer-importer/internal/offer"
	"github.com/a3tai/cbs-offer-importer/internal/pdf/layout"
)

type textDoc struct{ pages []*layout.Page }

func (d *textDoc) Pages() []*layout.Page { return d.pages }

func (d *textDoc) Render(*layout.Page, float64) (image.Image, error) {
	return nil, errors.New("not rendered")
}

func openText(path string) (offer.Source, error) {
	if strings.Contains(path, "broken") {
		return nil, errors.New("broken offer")
	}
	p := &layout.Page{Number: 1, Width: 612, Height: 792}
	for i, line := range []string{
		"CONTRACT TO BUY AND SELL REAL ESTATE",
		"Agent Name",
		"2.1. Buyer. Pat Doe (Buyer), will take title",
	} {
		p.Glyphs = append(p.Glyphs, layout.SplitRun(line, 40, 750-float64(i)*14, 5*float64(len(line)), 10)...)
	}
	return &textDoc{pages: []*layout.Page{p}}, nil
}

func setupServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"offer-doe.pdf", "offer-broken.pdf", "readme.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4 stub"), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	f := excelize.NewFile()
	if err := f.SaveAs(filepath.Join(dir, "compare.xlsx")); err != nil {
		t.Fatalf("save template: %v", err)
	}
	_ = f.Close()

	cfg := config.DefaultConfig()
	cfg.Mode = config.ModeStdio
	cfg.OfferDirectory = dir
	cfg.ServerName = "test-server"

	service, err := importer.NewService(importer.Options{
		Directory:   dir,
		MaxFileSize: cfg.MaxFileSize,
		Workers:     1,
		Settings:    cfg.Settings(),
		Opener:      openText,
	})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	s, err := NewServer(cfg, service)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return s, dir
}

func call(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: args}}
}

func TestNewServer(t *testing.T) {
	if _, err := NewServer(config.DefaultConfig(), nil); err == nil {
		t.Error("expected error for nil service")
	}

	s, _ := setupServer(t)
	if s.mcpServer == nil {
		t.Error("mcpServer should be initialized")
	}
}

func TestServer_HandleOfferExtract(t *testing.T) {
	s, _ := setupServer(t)

	result, err := s.handleOfferExtract(context.Background(), call(map[string]interface{}{"path": "offer-doe.pdf"}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	text := extractTextFromResult(result)
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", text)
	}
	if !strings.Contains(text, `"buyer": "Pat Doe"`) {
		t.Errorf("expected buyer in response, got: %s", text)
	}
	if !strings.Contains(text, `"agent": "Agent Name"`) {
		t.Errorf("expected agent in response, got: %s", text)
	}
}

func TestServer_HandleOfferExtractErrors(t *testing.T) {
	s, _ := setupServer(t)

	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{"missing path", map[string]interface{}{}, "path"},
		{"outside directory", map[string]interface{}{"path": "../x.pdf"}, "security validation failed"},
		{"unreadable", map[string]interface{}{"path": "offer-broken.pdf"}, "broken offer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.handleOfferExtract(context.Background(), call(tt.args))
			if err != nil {
				t.Fatalf("handler failed: %v", err)
			}
			if !result.IsError {
				t.Error("expected a tool error")
			}
			if text := extractTextFromResult(result); !strings.Contains(text, tt.want) {
				t.Errorf("expected %q in %q", tt.want, text)
			}
		})
	}
}

func TestServer_HandleOfferImport(t *testing.T) {
	s, dir := setupServer(t)

	result, err := s.handleOfferImport(context.Background(), call(map[string]interface{}{"template": "compare.xlsx"}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	text := extractTextFromResult(result)
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", text)
	}
	if !strings.Contains(text, "offer-doe.pdf ... OK  -  Pat Doe") {
		t.Errorf("expected OK line, got: %s", text)
	}
	if !strings.Contains(text, "offer-broken.pdf: broken offer") {
		t.Errorf("expected error line, got: %s", text)
	}
	if _, err := os.Stat(filepath.Join(dir, "compare_filled.xlsx")); err != nil {
		t.Errorf("output workbook missing: %v", err)
	}

	result, _ = s.handleOfferImport(context.Background(), call(map[string]interface{}{}))
	if !result.IsError {
		t.Error("expected error without template")
	}
}

func TestServer_HandleOfferSearchDirectory(t *testing.T) {
	s, dir := setupServer(t)

	result, err := s.handleOfferSearchDirectory(context.Background(), call(map[string]interface{}{
		"directory": dir,
		"query":     "",
	}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	text := extractTextFromResult(result)
	if !strings.Contains(text, "Found 2 offer PDF(s)") {
		t.Errorf("expected two offers, got: %s", text)
	}
	if strings.Contains(text, "readme.txt") {
		t.Errorf("non-PDF listed: %s", text)
	}

	result, _ = s.handleOfferSearchDirectory(context.Background(), call(map[string]interface{}{
		"query":    "doe",
		"validate": true,
	}))
	text = extractTextFromResult(result)
	if !strings.Contains(text, "offer-doe.pdf") || !strings.Contains(text, "Valid: no") {
		t.Errorf("expected validated single match, got: %s", text)
	}

	result, _ = s.handleOfferSearchDirectory(context.Background(), call(map[string]interface{}{"query": "nobody"}))
	text = extractTextFromResult(result)
	if !strings.Contains(text, "No offer PDFs found") || !strings.Contains(text, "searched for: nobody") {
		t.Errorf("expected empty result, got: %s", text)
	}
}

func TestServer_HandleOfferServerInfo(t *testing.T) {
	s, dir := setupServer(t)

	result, err := s.handleOfferServerInfo(context.Background(), call(nil))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	text := extractTextFromResult(result)
	for _, want := range []string{"test-server", dir, "2 offer PDF(s)", "offer_extract", "offer_import", "150 DPI"} {
		if !strings.Contains(text, want) {
			t.Errorf("server info missing %q: %s", want, text)
		}
	}
}

// extractTextFromResult returns the first text content of a tool result
func extractTextFromResult(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, content := range result.Content {
		if textContent, ok := content.(mcp.TextContent); ok {
			return textContent.Text
		}
		if textContentPtr, ok := content.(*mcp.TextContent); ok {
			return textContentPtr.Text
		}
	}
	return ""
}
