// Package pdftext extracts plain text from a PDF attachment, the step
// SPEC_FULL §4.3's extract_dates_from_email algorithm needs before an
// itinerary or invoice PDF's dates can be found. Grounded on
// github.com/ledongthuc/pdf, the PDF text-extraction dependency surfaced
// by the example pack (found in rakunlabs-at and kadirpekel-hector's
// go.mod, not carried by the teacher, which has no document-parsing
// concern of its own).
package pdftext

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// Extract reads every page of a PDF given as raw bytes and returns its
// concatenated plain text.
func Extract(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdftext: opening reader: %w", err)
	}

	var buf bytes.Buffer
	text, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdftext: extracting text: %w", err)
	}
	if _, err := io.Copy(&buf, text); err != nil {
		return "", fmt.Errorf("pdftext: reading extracted text: %w", err)
	}
	return buf.String(), nil
}
