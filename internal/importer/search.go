package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FindOffers returns every PDF directly inside dir, sorted by name. Files
// failing the size checks are skipped; subdirectories are not searched.
func (v *Validator) FindOffers(dir string) ([]FileInfo, error) {
	if dir == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("directory does not exist: %s", dir)
		}
		return nil, fmt.Errorf("read directory: %w", err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isPDFName(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := v.ValidateFileInfo(path, info); err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:         path,
			Name:         entry.Name(),
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// Search lists offer PDFs in req.Directory, optionally filtered by a
// case-insensitive name query and checked by opening each file.
func (v *Validator) Search(req SearchRequest) (*SearchResult, error) {
	files, err := v.FindOffers(req.Directory)
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(req.Query))
	matched := files[:0]
	for _, f := range files {
		if query != "" && !strings.Contains(strings.ToLower(f.Name), query) {
			continue
		}
		if req.Validate {
			err := v.ValidateFile(f.Path)
			ok := err == nil
			f.Valid = &ok
			if err != nil {
				f.Message = err.Error()
			}
		}
		matched = append(matched, f)
	}

	return &SearchResult{
		Files:       matched,
		TotalCount:  len(matched),
		Directory:   req.Directory,
		SearchQuery: req.Query,
	}, nil
}

// Paths returns the paths of files in order.
func Paths(files []FileInfo) []string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths
}
