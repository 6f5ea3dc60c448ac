package tools

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/neoclaw-ai/filetransformer/internal/codec"
	"github.com/neoclaw-ai/filetransformer/internal/store"
)

const (
	defaultCompressQuality = 80
	// JPEG quality used when resizing or converting.
	reencodeQuality = 90
)

// ResizeImageParams are the arguments of resize_image.
type ResizeImageParams struct {
	ImagePath string `json:"image_path" jsonschema:"Image to resize."`
	Width     int    `json:"width" jsonschema:"Target width in pixels."`
	Height    int    `json:"height" jsonschema:"Target height in pixels."`
	DryRun    bool   `json:"dry_run,omitempty" jsonschema:"Check paths and report what would happen without writing."`
}

// ConvertImageFormatParams are the arguments of convert_image_format.
type ConvertImageFormatParams struct {
	ImagePath string `json:"image_path" jsonschema:"Image to convert."`
	Format    string `json:"format" jsonschema:"Target format: png, jpg, jpeg or webp."`
	DryRun    bool   `json:"dry_run,omitempty" jsonschema:"Check paths and report what would happen without writing."`
}

// CompressImageParams are the arguments of compress_image.
type CompressImageParams struct {
	ImagePath string `json:"image_path" jsonschema:"Image to compress."`
	Quality   *int   `json:"quality,omitempty" jsonschema:"JPEG quality from 1 to 100. Defaults to 80."`
	DryRun    bool   `json:"dry_run,omitempty" jsonschema:"Check paths and report what would happen without writing."`
}

// ResizeImage writes <base>_<w>x<h><ext> scaled to exactly width x height.
func (tb *Toolbox) ResizeImage(_ context.Context, p ResizeImageParams) (*Result, error) {
	if strings.TrimSpace(p.ImagePath) == "" || p.Width == 0 || p.Height == 0 {
		return nil, errors.New("image_path, width, and height are required")
	}
	if err := tb.images.CheckDimensions(p.Width, p.Height); err != nil {
		return nil, err
	}

	in, err := tb.input(p.ImagePath)
	if err != nil {
		return nil, err
	}
	base, ext := splitExt(in)
	format, err := codec.FormatFromExtension(ext)
	if err != nil {
		return nil, err
	}
	out, err := tb.output(fmt.Sprintf("%s_%dx%d%s", base, p.Width, p.Height, ext), p.DryRun)
	if err != nil {
		return nil, err
	}

	if p.DryRun {
		return &Result{Output: fmt.Sprintf("[DRY RUN] Would resize %s to %dx%d", p.ImagePath, p.Width, p.Height)}, nil
	}

	img, err := tb.images.Open(in)
	if err != nil {
		return nil, err
	}
	resized, err := tb.images.Resize(img, p.Width, p.Height)
	if err != nil {
		return nil, err
	}
	if err := writeImage(out, resized, format, reencodeQuality); err != nil {
		return nil, err
	}
	return &Result{Output: fmt.Sprintf("Resized image saved to %s", out)}, nil
}

// ConvertImageFormat writes <base>.<format>.
func (tb *Toolbox) ConvertImageFormat(_ context.Context, p ConvertImageFormatParams) (*Result, error) {
	if strings.TrimSpace(p.ImagePath) == "" || strings.TrimSpace(p.Format) == "" {
		return nil, errors.New("image_path and format are required")
	}
	target := strings.ToLower(strings.TrimSpace(p.Format))
	if !slices.Contains(codec.ConvertTargets, target) {
		return nil, fmt.Errorf("format must be one of %s, got %q", strings.Join(codec.ConvertTargets, ", "), p.Format)
	}
	format, err := codec.FormatFromExtension(target)
	if err != nil {
		return nil, err
	}

	in, err := tb.input(p.ImagePath)
	if err != nil {
		return nil, err
	}
	base, _ := splitExt(in)
	out, err := tb.output(base+"."+target, p.DryRun)
	if err != nil {
		return nil, err
	}
	if sameFile(in, out) {
		return nil, fmt.Errorf("%s is already in %s format", p.ImagePath, target)
	}

	if p.DryRun {
		return &Result{Output: fmt.Sprintf("[DRY RUN] Would convert %s to %s", p.ImagePath, target)}, nil
	}

	img, err := tb.images.Open(in)
	if err != nil {
		return nil, err
	}
	if err := writeImage(out, img, format, reencodeQuality); err != nil {
		return nil, err
	}
	return &Result{Output: fmt.Sprintf("Converted image saved to %s", out)}, nil
}

// CompressImage writes <base>_compressed<ext>. JPEG honors quality, PNG uses
// the best compression level and WebP is re-encoded losslessly.
func (tb *Toolbox) CompressImage(_ context.Context, p CompressImageParams) (*Result, error) {
	if strings.TrimSpace(p.ImagePath) == "" {
		return nil, errors.New("image_path is required")
	}
	quality := defaultCompressQuality
	if p.Quality != nil {
		quality = *p.Quality
	}
	if quality < 1 || quality > 100 {
		return nil, fmt.Errorf("quality must be between 1 and 100, got %d", quality)
	}

	in, err := tb.input(p.ImagePath)
	if err != nil {
		return nil, err
	}
	base, ext := splitExt(in)
	format, err := codec.FormatFromExtension(ext)
	if err != nil {
		return nil, err
	}
	out, err := tb.output(base+"_compressed"+ext, p.DryRun)
	if err != nil {
		return nil, err
	}

	if p.DryRun {
		return &Result{Output: fmt.Sprintf("[DRY RUN] Would compress %s with quality=%d", p.ImagePath, quality)}, nil
	}

	img, err := tb.images.Open(in)
	if err != nil {
		return nil, err
	}
	if err := writeImage(out, img, format, quality); err != nil {
		return nil, err
	}
	return &Result{Output: fmt.Sprintf("Compressed image saved to %s", out)}, nil
}

func writeImage(path string, img image.Image, format codec.Format, quality int) error {
	return store.WriteFileFunc(path, func(w io.Writer) error {
		return codec.Encode(w, img, format, quality)
	})
}

func sameFile(a, b string) bool {
	if a == b {
		return true
	}
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}
