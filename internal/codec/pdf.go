package codec

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

func init() {
	// Keep pdfcpu from creating its config dir under the user's home, which
	// the process sandbox may not allow.
	api.DisableConfigDir()
}

// MergePDFs writes every page of inputs, in order, to w as one document.
func MergePDFs(w io.Writer, inputs []string) error {
	if len(inputs) == 0 {
		return fmt.Errorf("no input pdfs")
	}
	readers := make([]io.ReadSeeker, 0, len(inputs))
	for _, path := range inputs {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open pdf: %w", err)
		}
		defer f.Close()
		readers = append(readers, f)
	}
	if err := api.MergeRaw(readers, w, false, nil); err != nil {
		return fmt.Errorf("merge pdfs: %w", err)
	}
	return nil
}

// PageCount returns the number of pages in the PDF at path.
func PageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	n, err := api.PageCount(f, nil)
	if err != nil {
		return 0, fmt.Errorf("count pages of %q: %w", path, err)
	}
	return n, nil
}

// ExtractPages writes pages first..last (1-based, inclusive) of the PDF at
// path to w.
func ExtractPages(w io.Writer, path string, first, last int) error {
	if first < 1 || last < first {
		return fmt.Errorf("invalid page range %d-%d", first, last)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	selection := fmt.Sprintf("%d-%d", first, last)
	if first == last {
		selection = fmt.Sprintf("%d", first)
	}
	if err := api.Trim(f, w, []string{selection}, nil); err != nil {
		return fmt.Errorf("extract pages %s: %w", selection, err)
	}
	return nil
}

// ExtractText returns the plain text of every page, each followed by a newline.
func ExtractText(path string) (text string, err error) {
	// The text reader panics on some malformed documents.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("extract text from %q: malformed pdf: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			b.WriteString("\n")
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract text from page %d: %w", i, err)
		}
		b.WriteString(pageText)
		b.WriteString("\n")
	}
	return b.String(), nil
}
