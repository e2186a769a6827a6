package loader

import (
	"fmt"

	"github.com/tsawler/tabula/docx"
)

func extractDOCX(path string) (string, error) {
	r, err := docx.Open(path)
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer r.Close()

	text, err := r.Text()
	if err != nil {
		return "", fmt.Errorf("read docx text: %w", err)
	}
	return text, nil
}
