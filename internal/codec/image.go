package codec

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// DefaultMaxPixels bounds width*height of any decoded or produced image.
const DefaultMaxPixels int64 = 100_000_000

// ErrImageTooLarge matches every *ImageTooLargeError.
var ErrImageTooLarge = errors.New("image too large")

// ImageTooLargeError reports an image whose pixel count exceeds the ceiling.
type ImageTooLargeError struct {
	Width, Height int
	Limit         int64
}

func (e *ImageTooLargeError) Error() string {
	return fmt.Sprintf("image dimensions %dx%d exceed the limit of %d pixels", e.Width, e.Height, e.Limit)
}

func (e *ImageTooLargeError) Is(target error) bool {
	return target == ErrImageTooLarge
}

// Format is an image encoding.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	WebP Format = "webp"
	GIF  Format = "gif"
	TIFF Format = "tiff"
	BMP  Format = "bmp"
)

// ConvertTargets are the formats convert_image_format accepts.
var ConvertTargets = []string{"png", "jpg", "jpeg", "webp"}

// FormatFromExtension maps a file extension (with or without the dot) to a Format.
func FormatFromExtension(ext string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "webp":
		return WebP, nil
	case "gif":
		return GIF, nil
	case "tif", "tiff":
		return TIFF, nil
	case "bmp":
		return BMP, nil
	default:
		return "", fmt.Errorf("unsupported image format %q", ext)
	}
}

// Images decodes and encodes images under a pixel ceiling.
type Images struct {
	MaxPixels int64
}

func (c Images) maxPixels() int64 {
	if c.MaxPixels <= 0 {
		return DefaultMaxPixels
	}
	return c.MaxPixels
}

// CheckDimensions fails with *ImageTooLargeError when width*height exceeds the ceiling.
func (c Images) CheckDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("image dimensions must be positive, got %dx%d", width, height)
	}
	limit := c.maxPixels()
	if int64(width) > limit/int64(height) {
		return &ImageTooLargeError{Width: width, Height: height, Limit: limit}
	}
	return nil
}

// Open decodes the image at path. Dimensions are read from the header and
// checked before the pixel data is decoded.
func (c Images) Open(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("decode image header of %q: %w", filepath.Base(path), err)
	}
	if err := c.CheckDimensions(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind image: %w", err)
	}
	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image %q: %w", filepath.Base(path), err)
	}
	return img, nil
}

// Resize scales img to exactly width x height with a Lanczos filter.
func (c Images) Resize(img image.Image, width, height int) (image.Image, error) {
	if err := c.CheckDimensions(width, height); err != nil {
		return nil, err
	}
	return imaging.Resize(img, width, height, imaging.Lanczos), nil
}

// Encode writes img to w. quality applies to JPEG only and is clamped to 1..100.
// JPEG output is flattened onto white since it has no alpha channel.
func Encode(w io.Writer, img image.Image, format Format, quality int) error {
	var err error
	switch format {
	case JPEG:
		quality = min(max(quality, 1), 100)
		err = imaging.Encode(w, flatten(img), imaging.JPEG, imaging.JPEGQuality(quality))
	case PNG:
		err = imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
	case WebP:
		err = nativewebp.Encode(w, img, nil)
	case GIF:
		err = imaging.Encode(w, img, imaging.GIF)
	case TIFF:
		err = imaging.Encode(w, img, imaging.TIFF)
	case BMP:
		err = imaging.Encode(w, img, imaging.BMP)
	default:
		return fmt.Errorf("unsupported image format %q", format)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}

func flatten(img image.Image) image.Image {
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}
