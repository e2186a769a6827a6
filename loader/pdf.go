package loader

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	ltpdf "github.com/ledongthuc/pdf"
	"github.com/tsawler/tabula"
)

// extractPDF extracts text with tabula's layout-aware extractor. Some PDFs
// (odd encodings, stream quirks) extract empty there but fine with the
// simpler ledongthuc reader, so that runs as a fallback.
func extractPDF(path string) (string, error) {
	text, _, err := tabula.Open(path).Text()
	if err == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}

	fallback, ferr := extractPDFPlain(path)
	if ferr != nil {
		if err != nil {
			return "", fmt.Errorf("parse pdf: %w (fallback: %v)", err, ferr)
		}
		return "", fmt.Errorf("parse pdf: %w", ferr)
	}
	return fallback, nil
}

func extractPDFPlain(path string) (string, error) {
	f, rdr, err := ltpdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	plain, err := rdr.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read pdf buffer: %w", err)
	}
	return buf.String(), nil
}
