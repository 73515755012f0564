// Package pdftext extracts plain text from PDFs, page by page, so
// downstream consumers can attribute findings to a page number.
package pdftext

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// Scope selects which pages to extract.
type Scope string

const (
	// ScopeTail reads only the last N pages, where the references
	// section almost always lives. Much faster on long documents.
	ScopeTail Scope = "tail"
	// ScopeFull reads every page.
	ScopeFull Scope = "full"
)

// DefaultTailPages is the page window used by ScopeTail.
const DefaultTailPages = 10

// Page is the extracted text of a single PDF page.
type Page struct {
	// Number is the 1-based page number in the original document.
	Number int
	Text   string
}

// Document is the extracted text of a PDF.
type Document struct {
	Pages      []Page
	TotalPages int
}

// Text joins all extracted pages into one string.
func (d Document) Text() string {
	var buf bytes.Buffer

	for i, page := range d.Pages {
		if i > 0 {
			buf.WriteByte('\n')
		}

		buf.WriteString(page.Text)
	}

	return buf.String()
}

// ExtractFile reads a PDF from disk.
func ExtractFile(path string, scope Scope, tailPages int) (Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	return extract(r, scope, tailPages)
}

// ExtractBytes reads a PDF from an in-memory buffer, as used for
// downloads that never touch disk.
func ExtractBytes(data []byte, scope Scope, tailPages int) (Document, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Document{}, fmt.Errorf("read pdf: %w", err)
	}

	return extract(r, scope, tailPages)
}

// ExtractFileBuffered loads the file into memory before parsing, for
// callers that also need the raw bytes.
func ExtractFileBuffered(path string, scope Scope, tailPages int) (Document, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, nil, err
	}

	doc, err := ExtractBytes(data, scope, tailPages)

	return doc, data, err
}

// firstPage computes the 1-based page to start extraction from.
func firstPage(total int, scope Scope, tailPages int) int {
	if tailPages <= 0 {
		tailPages = DefaultTailPages
	}

	if scope == ScopeTail && total > tailPages {
		return total - tailPages + 1
	}

	return 1
}

func extract(r *pdf.Reader, scope Scope, tailPages int) (Document, error) {
	total := r.NumPage()
	start := firstPage(total, scope, tailPages)

	doc := Document{TotalPages: total}

	for i := start; i <= total; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Pages with broken font maps are skipped rather than
			// failing the whole document.
			continue
		}

		doc.Pages = append(doc.Pages, Page{Number: i, Text: text})
	}

	if len(doc.Pages) == 0 && total > 0 {
		return doc, fmt.Errorf("no extractable text in %d pages", total)
	}

	return doc, nil
}
