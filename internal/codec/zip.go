package codec

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// WriteZip writes a Deflate archive to w holding each file under its base name.
func WriteZip(w io.Writer, files []string) error {
	if _, err := EntryNames(files); err != nil {
		return err
	}
	zw := zip.NewWriter(w)
	for _, path := range files {
		if err := addZipEntry(zw, path); err != nil {
			zw.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish zip: %w", err)
	}
	return nil
}

func addZipEntry(zw *zip.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %q: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%q is not a regular file", path)
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("zip header for %q: %w", path, err)
	}
	header.Name = filepath.Base(path)
	header.Method = zip.Deflate

	entry, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("add %q to zip: %w", header.Name, err)
	}
	if _, err := io.Copy(entry, f); err != nil {
		return fmt.Errorf("compress %q: %w", header.Name, err)
	}
	return nil
}

// EntryNames returns the archive entry name for each file, failing when two
// files share a base name.
func EntryNames(files []string) ([]string, error) {
	names := make([]string, 0, len(files))
	owners := make(map[string]string, len(files))
	for _, path := range files {
		name := filepath.Base(path)
		if prev, ok := owners[name]; ok {
			return nil, fmt.Errorf("duplicate zip entry %q from %q and %q", name, prev, path)
		}
		owners[name] = path
		names = append(names, name)
	}
	return names, nil
}

// SplitGlob reports whether p contains glob syntax and, if so, splits it into
// the static directory prefix and the pattern relative to it.
func SplitGlob(p string) (base, pattern string, ok bool) {
	slashed := filepath.ToSlash(p)
	if !strings.ContainsAny(slashed, "*?[{") {
		return "", "", false
	}
	base, pattern = doublestar.SplitPattern(slashed)
	return filepath.FromSlash(base), pattern, true
}

// Glob returns the regular files under base matching pattern, sorted. The
// pattern supports ** for any depth.
func Glob(base, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern %q", pattern)
	}
	matches, err := doublestar.Glob(os.DirFS(base), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("expand %q: %w", pattern, err)
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if !fs.ValidPath(m) {
			continue
		}
		out = append(out, filepath.Join(base, filepath.FromSlash(m)))
	}
	slices.Sort(out)
	return out, nil
}
