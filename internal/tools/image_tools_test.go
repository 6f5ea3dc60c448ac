package tools

import (
	"context"
	"image"
	_ "image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/neoclaw-ai/filetransformer/internal/codec"
	"github.com/neoclaw-ai/filetransformer/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeConfig(t *testing.T, path string) (image.Config, string) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	return cfg, format
}

func TestResizeImage(t *testing.T) {
	tb, root := newTestToolbox(t, Options{})
	src := testutil.WritePNG(t, root, "pic.png", 40, 20)

	res, err := tb.ResizeImage(context.Background(), ResizeImageParams{ImagePath: src, Width: 10, Height: 5})
	require.NoError(t, err)
	out := filepath.Join(root, "pic_10x5.png")
	assert.Equal(t, "Resized image saved to "+out, res.Output)

	cfg, format := decodeConfig(t, out)
	assert.Equal(t, "png", format)
	assert.Equal(t, 10, cfg.Width)
	assert.Equal(t, 5, cfg.Height)
}

func TestResizeImageValidatesDimensions(t *testing.T) {
	tb, root := newTestToolbox(t, Options{MaxImagePixels: 100})
	src := testutil.WritePNG(t, root, "pic.png", 4, 4)

	_, err := tb.ResizeImage(context.Background(), ResizeImageParams{ImagePath: src, Width: 0, Height: 5})
	require.ErrorContains(t, err, "required")

	_, err = tb.ResizeImage(context.Background(), ResizeImageParams{ImagePath: src, Width: -2, Height: 5})
	require.ErrorContains(t, err, "must be positive")

	_, err = tb.ResizeImage(context.Background(), ResizeImageParams{ImagePath: src, Width: 11, Height: 10})
	require.ErrorIs(t, err, codec.ErrImageTooLarge)
}

func TestResizeImageRejectsDecodeBomb(t *testing.T) {
	tb, root := newTestToolbox(t, Options{MaxImagePixels: 50})
	src := testutil.WritePNG(t, root, "bomb.png", 10, 10)

	_, err := tb.ResizeImage(context.Background(), ResizeImageParams{ImagePath: src, Width: 5, Height: 5})
	require.ErrorIs(t, err, codec.ErrImageTooLarge)
	assert.NoFileExists(t, filepath.Join(root, "bomb_5x5.png"))
}

func TestResizeImageDryRun(t *testing.T) {
	tb, root := newTestToolbox(t, Options{})
	src := testutil.WritePNG(t, root, "pic.png", 4, 4)

	res, err := tb.ResizeImage(context.Background(), ResizeImageParams{ImagePath: src, Width: 2, Height: 2, DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, "[DRY RUN] Would resize "+src+" to 2x2", res.Output)
	assert.NoFileExists(t, filepath.Join(root, "pic_2x2.png"))
}

func TestConvertImageFormat(t *testing.T) {
	tb, root := newTestToolbox(t, Options{})
	src := testutil.WritePNG(t, root, "pic.png", 8, 6)

	for _, target := range []struct{ format, decoded string }{
		{"jpg", "jpeg"},
		{"WEBP", "webp"},
	} {
		res, err := tb.ConvertImageFormat(context.Background(), ConvertImageFormatParams{ImagePath: src, Format: target.format})
		require.NoError(t, err)
		out := filepath.Join(root, "pic."+strings.ToLower(target.format))
		assert.Equal(t, "Converted image saved to "+out, res.Output)

		cfg, format := decodeConfig(t, out)
		assert.Equal(t, target.decoded, format)
		assert.Equal(t, 8, cfg.Width)
	}
}

func TestConvertImageFormatRejectsSameFileAndUnknownFormat(t *testing.T) {
	tb, root := newTestToolbox(t, Options{})
	src := testutil.WritePNG(t, root, "pic.png", 4, 4)

	_, err := tb.ConvertImageFormat(context.Background(), ConvertImageFormatParams{ImagePath: src, Format: "png"})
	require.ErrorContains(t, err, "already in png format")

	_, err = tb.ConvertImageFormat(context.Background(), ConvertImageFormatParams{ImagePath: src, Format: "gif"})
	require.ErrorContains(t, err, "format must be one of")
}

func TestCompressImage(t *testing.T) {
	tb, root := newTestToolbox(t, Options{})
	src := testutil.WritePNG(t, root, "pic.png", 32, 32)
	jpg := filepath.Join(root, "photo.jpg")
	_, err := tb.ConvertImageFormat(context.Background(), ConvertImageFormatParams{ImagePath: src, Format: "jpg"})
	require.NoError(t, err)
	require.NoError(t, os.Rename(filepath.Join(root, "pic.jpg"), jpg))

	res, err := tb.CompressImage(context.Background(), CompressImageParams{ImagePath: jpg, Quality: intPtr(10)})
	require.NoError(t, err)
	out := filepath.Join(root, "photo_compressed.jpg")
	assert.Equal(t, "Compressed image saved to "+out, res.Output)

	before, err := os.Stat(jpg)
	require.NoError(t, err)
	after, err := os.Stat(out)
	require.NoError(t, err)
	assert.Less(t, after.Size(), before.Size())

	res, err = tb.CompressImage(context.Background(), CompressImageParams{ImagePath: src})
	require.NoError(t, err)
	_, format := decodeConfig(t, filepath.Join(root, "pic_compressed.png"))
	assert.Equal(t, "png", format)
}

func TestCompressImageQualityBoundsAndDryRun(t *testing.T) {
	tb, root := newTestToolbox(t, Options{})
	src := testutil.WritePNG(t, root, "pic.png", 4, 4)

	for _, q := range []int{0, 101} {
		_, err := tb.CompressImage(context.Background(), CompressImageParams{ImagePath: src, Quality: intPtr(q)})
		require.ErrorContains(t, err, "quality must be between 1 and 100")
	}

	res, err := tb.CompressImage(context.Background(), CompressImageParams{ImagePath: src, DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, "[DRY RUN] Would compress "+src+" with quality=80", res.Output)
}
