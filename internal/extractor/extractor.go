// Package extractor turns source PDFs into indexable units: each
// non-blank page is split into two halves sharing one source label.
package extractor

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"bankdocs/internal/domain"
)

// PageReader extracts raw text per page from one document.
type PageReader interface {
	ReadPages(path string) ([]string, error)
}

// Extractor walks an ordered document list and emits units in page order.
type Extractor struct {
	reader PageReader
}

func New(reader PageReader) *Extractor {
	return &Extractor{reader: reader}
}

// Extract reads every document in order. Missing documents are skipped
// with a warning. Blank pages produce no units; every other page
// produces exactly two units whose texts concatenate back to the page
// text. Halving bounds a retrieved context block to roughly half a page;
// mid-sentence splits are expected.
func (e *Extractor) Extract(paths []string) ([]domain.Unit, error) {
	var units []domain.Unit
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			log.Printf("Warning: skipping missing document %s", path)
			continue
		}
		pages, err := e.reader.ReadPages(path)
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", path, err)
		}
		name := filepath.Base(path)
		for i, text := range pages {
			if strings.TrimSpace(text) == "" {
				continue
			}
			source := fmt.Sprintf("%s, page %d", name, i+1)
			first, second := splitHalves(text)
			units = append(units,
				domain.Unit{Text: first, Source: source},
				domain.Unit{Text: second, Source: source},
			)
		}
	}
	return units, nil
}

// splitHalves cuts text into two contiguous halves by character count.
func splitHalves(text string) (string, string) {
	runes := []rune(text)
	mid := len(runes) / 2
	return string(runes[:mid]), string(runes[mid:])
}
