package codec

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/neoclaw-ai/filetransformer/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteZipStoresBaseNamesWithDeflate(t *testing.T) {
	dir := t.TempDir()
	a := testutil.WriteFile(t, dir, "nested/a.txt", []byte("alpha"))
	b := testutil.WriteFile(t, dir, "b.txt", []byte("bravo"))

	var buf bytes.Buffer
	require.NoError(t, WriteZip(&buf, []string{a, b}))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	assert.Equal(t, "a.txt", zr.File[0].Name)
	assert.Equal(t, "b.txt", zr.File[1].Name)
	assert.Equal(t, zip.Deflate, zr.File[0].Method)

	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "alpha", string(data))
}

func TestWriteZipRejectsDuplicateBaseNames(t *testing.T) {
	dir := t.TempDir()
	a := testutil.WriteFile(t, dir, "x/report.txt", []byte("1"))
	b := testutil.WriteFile(t, dir, "y/report.txt", []byte("2"))

	err := WriteZip(&bytes.Buffer{}, []string{a, b})
	require.ErrorContains(t, err, "duplicate zip entry")
}

func TestWriteZipRejectsDirectory(t *testing.T) {
	require.Error(t, WriteZip(&bytes.Buffer{}, []string{t.TempDir()}))
}

func TestSplitGlob(t *testing.T) {
	base, pattern, ok := SplitGlob("/data/in/**/*.pdf")
	require.True(t, ok)
	assert.Equal(t, filepath.FromSlash("/data/in"), base)
	assert.Equal(t, "**/*.pdf", pattern)

	_, _, ok = SplitGlob("/data/in/report.pdf")
	assert.False(t, ok)
}

func TestGlobMatchesFilesRecursively(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "a.pdf", []byte("a"))
	testutil.WriteFile(t, dir, "sub/b.pdf", []byte("b"))
	testutil.WriteFile(t, dir, "sub/c.txt", []byte("c"))

	matches, err := Glob(dir, "**/*.pdf")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.pdf"),
		filepath.Join(dir, "sub", "b.pdf"),
	}, matches)

	_, err = Glob(dir, "[")
	require.Error(t, err)
}
