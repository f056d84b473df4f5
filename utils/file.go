package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ListPDFFiles returns the .pdf files directly inside dir, sorted by name.
func ListPDFFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.ToLower(filepath.Ext(entry.Name())) == ".pdf" {
			files = append(files, entry.Name())
		}
	}
	return files, nil
}
