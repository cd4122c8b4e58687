package main

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// maxPDFChars caps extracted text; terms documents beyond this are
// almost certainly the wrong file.
const maxPDFChars = 500000

// extractPDFText extracts the plain text content of a PDF file.
func extractPDFText(pdfPath string) (string, error) {
	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	totalPages := r.NumPage()

	for i := 1; i <= totalPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")

		if sb.Len() > maxPDFChars {
			return "", fmt.Errorf("PDF text exceeds %d characters", maxPDFChars)
		}
	}

	content := strings.TrimSpace(sb.String())
	if content == "" {
		return "", fmt.Errorf("no text extracted from %s", pdfPath)
	}
	return content, nil
}
