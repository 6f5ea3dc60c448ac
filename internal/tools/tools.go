// Package tools implements the file tools as a closed set of names, each
// dispatched to exactly one Toolbox method. Every path a tool touches goes
// through a PathGuard first.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/neoclaw-ai/filetransformer/internal/codec"
)

const defaultInlineOutputChars = 200_000

// Name identifies one tool.
type Name string

const (
	MergePDFs          Name = "merge_pdfs"
	SplitPDF           Name = "split_pdf"
	ExtractText        Name = "extract_text"
	ResizeImage        Name = "resize_image"
	ConvertImageFormat Name = "convert_image_format"
	CompressImage      Name = "compress_image"
	ZipFiles           Name = "zip_files"
)

// Info describes a tool for listings.
type Info struct {
	Name        Name
	Description string
}

var catalog = []Info{
	{MergePDFs, "Merge multiple PDF files into a single PDF."},
	{SplitPDF, "Split a PDF file into multiple files every N pages."},
	{ExtractText, "Extract text from a PDF file."},
	{ResizeImage, "Resize an image to specific width and height."},
	{ConvertImageFormat, "Convert an image from one format to another (e.g., png to jpg)."},
	{CompressImage, "Compress an image to reduce file size."},
	{ZipFiles, "Create a ZIP archive from multiple files. Entries may be ** glob patterns."},
}

// Catalog returns every tool in a stable order.
func Catalog() []Info {
	return append([]Info(nil), catalog...)
}

// ParseName returns the Name for s, or an error if no tool has that name.
func ParseName(s string) (Name, error) {
	s = strings.TrimSpace(s)
	for _, info := range catalog {
		if string(info.Name) == s {
			return info.Name, nil
		}
	}
	return "", fmt.Errorf("unknown tool: %s", s)
}

// Describe returns the description of name.
func Describe(name Name) string {
	for _, info := range catalog {
		if info.Name == name {
			return info.Description
		}
	}
	return ""
}

// PathGuard decides which paths tools may touch.
type PathGuard interface {
	Validate(raw string) (string, error)
	CheckSize(path string) error
	EnsureDirectory(path string) error
}

// Result is the normalized output returned by tools.
type Result struct {
	Output         string
	Truncated      bool
	FullOutputPath string
}

// Text renders the result for a client, noting where truncated output went.
func (r *Result) Text() string {
	if !r.Truncated {
		return r.Output
	}
	return fmt.Sprintf("%s\n\n[output truncated; full text written to %s]", r.Output, r.FullOutputPath)
}

// Options tunes a Toolbox. Zero values select defaults.
type Options struct {
	InlineOutputChars int
	MaxImagePixels    int64
}

// Toolbox runs tools against a guard.
type Toolbox struct {
	guard             PathGuard
	images            codec.Images
	inlineOutputChars int
}

// New returns a Toolbox whose tools only touch paths guard allows.
func New(guard PathGuard, opts Options) *Toolbox {
	limit := opts.InlineOutputChars
	if limit <= 0 {
		limit = defaultInlineOutputChars
	}
	return &Toolbox{
		guard:             guard,
		images:            codec.Images{MaxPixels: opts.MaxImagePixels},
		inlineOutputChars: limit,
	}
}

// Call decodes raw JSON arguments for name and runs the tool.
func (tb *Toolbox) Call(ctx context.Context, name Name, raw json.RawMessage) (*Result, error) {
	switch name {
	case MergePDFs:
		return invoke(ctx, raw, tb.MergePDFs)
	case SplitPDF:
		return invoke(ctx, raw, tb.SplitPDF)
	case ExtractText:
		return invoke(ctx, raw, tb.ExtractText)
	case ResizeImage:
		return invoke(ctx, raw, tb.ResizeImage)
	case ConvertImageFormat:
		return invoke(ctx, raw, tb.ConvertImageFormat)
	case CompressImage:
		return invoke(ctx, raw, tb.CompressImage)
	case ZipFiles:
		return invoke(ctx, raw, tb.ZipFiles)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

func invoke[P any](ctx context.Context, raw json.RawMessage, run func(context.Context, P) (*Result, error)) (*Result, error) {
	var params P
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if err := json.Unmarshal(trimmed, &params); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return run(ctx, params)
}
