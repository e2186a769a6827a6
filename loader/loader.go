// Package loader extracts plain text from uploaded documents, dispatching
// on file extension.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hubenschmidt/go-docqa/core"
)

// Document is the raw extraction result before chunking.
type Document struct {
	Name string
	Text string
}

// SupportedExtensions lists the formats Load accepts, lowercased with dot.
func SupportedExtensions() []string {
	return []string{".pdf", ".docx", ".txt", ".md"}
}

// Supported reports whether the filename's extension has a registered parser.
func Supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, s := range SupportedExtensions() {
		if ext == s {
			return true
		}
	}
	return false
}

// Load extracts text from the file at path. name carries the original
// filename (path may be a temp file from an upload) and decides the parser.
func Load(path, name string) (*Document, error) {
	var (
		text string
		err  error
	)

	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".pdf":
		text, err = extractPDF(path)
	case ".docx":
		text, err = extractDOCX(path)
	case ".txt", ".md":
		text, err = extractPlain(path)
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", name, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%s: %w", name, core.ErrEmptyDocument)
	}

	return &Document{Name: name, Text: text}, nil
}

func extractPlain(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return string(data), nil
}
