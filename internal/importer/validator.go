package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Validator checks candidate offer files before extraction
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a validator that rejects files above maxFileSize bytes
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{maxFileSize: maxFileSize}
}

// ValidateFile checks the file on disk and opens it to confirm it parses
func (v *Validator) ValidateFile(filePath string) error {
	if filePath == "" {
		return fmt.Errorf("path cannot be empty")
	}

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", filePath)
	}
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if err := v.ValidateFileInfo(filePath, info); err != nil {
		return err
	}

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return fmt.Errorf("invalid PDF file: %w", err)
	}
	defer f.Close()

	if r.NumPage() == 0 {
		return fmt.Errorf("PDF has no pages: %s", filePath)
	}
	return nil
}

// ValidateFileInfo performs the checks that need no parsing
func (v *Validator) ValidateFileInfo(filePath string, info os.FileInfo) error {
	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	}
	if !isPDFName(filePath) {
		return fmt.Errorf("file is not a PDF: %s", filePath)
	}
	if info.Size() == 0 {
		return fmt.Errorf("file is empty: %s", filePath)
	}
	if info.Size() > v.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)", info.Size(), v.maxFileSize)
	}
	return nil
}

// Stat validates filePath without opening it
func (v *Validator) Stat(filePath string) error {
	if filePath == "" {
		return fmt.Errorf("path cannot be empty")
	}
	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", filePath)
	}
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	return v.ValidateFileInfo(filePath, info)
}

// ValidateTemplate checks that path is an existing .xlsx workbook
func ValidateTemplate(path string) error {
	if path == "" {
		return fmt.Errorf("template cannot be empty")
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("template does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("cannot access template: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("template is a directory: %s", path)
	}
	if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return fmt.Errorf("template must be a .xlsx file: %s", path)
	}
	return nil
}

func isPDFName(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}
