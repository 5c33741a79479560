package extractor

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PDFReader reads per-page plain text from PDF files.
type PDFReader struct{}

func NewPDFReader() *PDFReader { return &PDFReader{} }

// ReadPages returns the plain text of every page in order. Pages that
// cannot be represented (null page objects) yield empty text.
func (r *PDFReader) ReadPages(path string) ([]string, error) {
	f, doc, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	total := doc.NumPage()
	pages := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		page := doc.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}
