package store

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestWriteFileAndReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")

	if err := WriteFile(path, []byte("hello")); err != nil {
		t.Fatalf("write file: %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if got != "hello" {
		t.Fatalf("expected hello, got %q", got)
	}
}

func TestWriteFileReplacesExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	if err := WriteFile(path, []byte("new")); err != nil {
		t.Fatalf("write file: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if string(got) != "new" {
		t.Fatalf("expected new, got %q", string(got))
	}
}

func TestWriteFileRequiresExistingParent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "file.txt")
	if err := WriteFile(path, []byte("x")); err == nil {
		t.Fatalf("expected error when parent directory is missing")
	}
}

func TestWriteFileFuncFailureKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.zip")
	if err := os.WriteFile(path, []byte("original"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	boom := errors.New("encoder failed")
	err := WriteFileFunc(path, func(w io.Writer) error {
		if _, err := io.WriteString(w, "partial"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected encoder error, got %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if string(got) != "original" {
		t.Fatalf("expected original content to survive, got %q", string(got))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temp file cleanup, found %d entries", len(entries))
	}
}

func TestWriteFileConcurrentSamePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concurrent.txt")
	const writes = 50

	var wg sync.WaitGroup
	for i := 0; i < writes; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := WriteFile(path, []byte(fmt.Sprintf("writer-%02d", i))); err != nil {
				t.Errorf("write file: %v", err)
			}
		}(i)
	}
	wg.Wait()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if !strings.HasPrefix(string(raw), "writer-") || len(raw) != len("writer-00") {
		t.Fatalf("expected one complete write to win, got %q", string(raw))
	}
}

func TestCreateFileNeverReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")

	if err := CreateFile(path, []byte("first")); err != nil {
		t.Fatalf("create file: %v", err)
	}
	err := CreateFile(path, []byte("second"))
	if !errors.Is(err, fs.ErrExist) {
		t.Fatalf("expected fs.ErrExist, got %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if string(got) != "first" {
		t.Fatalf("expected original content to survive, got %q", string(got))
	}
}

func TestCreateFileRefusesDanglingSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.txt")
	link := filepath.Join(dir, "link.txt")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	if err := CreateFile(link, []byte("x")); !errors.Is(err, fs.ErrExist) {
		t.Fatalf("expected fs.ErrExist for symlink, got %v", err)
	}
	if _, err := os.Stat(target); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected symlink target to stay absent, got %v", err)
	}
}

func TestCleanPathRejectsBlank(t *testing.T) {
	if _, err := ReadFile("   "); err == nil {
		t.Fatalf("expected blank path error")
	}
}
