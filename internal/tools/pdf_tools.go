package tools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/neoclaw-ai/filetransformer/internal/codec"
	"github.com/neoclaw-ai/filetransformer/internal/store"
)

// MergePDFsParams are the arguments of merge_pdfs.
type MergePDFsParams struct {
	PDFPaths []string `json:"pdf_paths" jsonschema:"PDF files to merge, in order."`
	OutPath  string   `json:"out_path" jsonschema:"File path of the merged PDF."`
	DryRun   bool     `json:"dry_run,omitempty" jsonschema:"Check paths and report what would happen without writing."`
}

// SplitPDFParams are the arguments of split_pdf.
type SplitPDFParams struct {
	PDFPath     string `json:"pdf_path" jsonschema:"PDF file to split."`
	EveryNPages *int   `json:"every_n_pages,omitempty" jsonschema:"Pages per output file. Defaults to 1."`
	DryRun      bool   `json:"dry_run,omitempty" jsonschema:"Check paths and report what would happen without writing."`
}

// ExtractTextParams are the arguments of extract_text.
type ExtractTextParams struct {
	PDFPath string `json:"pdf_path" jsonschema:"PDF file to read."`
}

// MergePDFs concatenates the pages of every input into one output PDF.
func (tb *Toolbox) MergePDFs(_ context.Context, p MergePDFsParams) (*Result, error) {
	if len(p.PDFPaths) == 0 || strings.TrimSpace(p.OutPath) == "" {
		return nil, errors.New("pdf_paths and out_path are required")
	}

	inputs := make([]string, 0, len(p.PDFPaths))
	for _, raw := range p.PDFPaths {
		path, err := tb.input(raw)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, path)
	}

	out, err := tb.guard.Validate(p.OutPath)
	if err != nil {
		return nil, err
	}
	if err := rejectDirectory(out, p.OutPath, "merged.pdf"); err != nil {
		return nil, err
	}
	if out, err = tb.output(out, p.DryRun); err != nil {
		return nil, err
	}

	if p.DryRun {
		return &Result{Output: fmt.Sprintf("[DRY RUN] Would merge %d PDFs into %s", len(inputs), p.OutPath)}, nil
	}

	if err := store.WriteFileFunc(out, func(w io.Writer) error {
		return codec.MergePDFs(w, inputs)
	}); err != nil {
		return nil, err
	}
	return &Result{Output: fmt.Sprintf("Merged %d PDFs into %s", len(inputs), p.OutPath)}, nil
}

// SplitPDF writes every N pages of the input to <base>_part_<k>.pdf.
func (tb *Toolbox) SplitPDF(ctx context.Context, p SplitPDFParams) (*Result, error) {
	if strings.TrimSpace(p.PDFPath) == "" {
		return nil, errors.New("pdf_path is required")
	}
	every := 1
	if p.EveryNPages != nil {
		every = *p.EveryNPages
	}
	if every < 1 {
		return nil, fmt.Errorf("every_n_pages must be at least 1, got %d", every)
	}

	in, err := tb.input(p.PDFPath)
	if err != nil {
		return nil, err
	}
	pages, err := codec.PageCount(in)
	if err != nil {
		return nil, err
	}
	if pages == 0 {
		return nil, fmt.Errorf("%s has no pages", p.PDFPath)
	}
	parts := (pages + every - 1) / every

	base, _ := splitExt(in)
	outs := make([]string, parts)
	for k := range outs {
		if outs[k], err = tb.output(fmt.Sprintf("%s_part_%d.pdf", base, k+1), p.DryRun); err != nil {
			return nil, err
		}
	}

	if p.DryRun {
		return &Result{Output: fmt.Sprintf("[DRY RUN] Would split %s (%d pages) into %d files.", p.PDFPath, pages, parts)}, nil
	}

	for k, out := range outs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		first := k*every + 1
		last := min(first+every-1, pages)
		if err := store.WriteFileFunc(out, func(w io.Writer) error {
			return codec.ExtractPages(w, in, first, last)
		}); err != nil {
			return nil, err
		}
	}
	return &Result{Output: fmt.Sprintf("Split PDF into %d files: %s", len(outs), strings.Join(outs, ", "))}, nil
}

// ExtractText returns the plain text of every page. Text beyond the inline
// limit is written in full to a new <base>.txt beside the PDF, or
// <base>_<n>.txt if that name is taken.
func (tb *Toolbox) ExtractText(_ context.Context, p ExtractTextParams) (*Result, error) {
	if strings.TrimSpace(p.PDFPath) == "" {
		return nil, errors.New("pdf_path is required")
	}
	in, err := tb.input(p.PDFPath)
	if err != nil {
		return nil, err
	}
	text, err := codec.ExtractText(in)
	if err != nil {
		return nil, err
	}
	base, _ := splitExt(in)
	return tb.truncateOutput(text, base+".txt")
}
