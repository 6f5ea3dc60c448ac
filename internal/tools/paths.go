package tools

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/neoclaw-ai/filetransformer/internal/store"
)

const maxFullOutputNames = 100

// input validates and size-checks a path the tool will read.
func (tb *Toolbox) input(raw string) (string, error) {
	path, err := tb.guard.Validate(raw)
	if err != nil {
		return "", err
	}
	if err := tb.guard.CheckSize(path); err != nil {
		return "", err
	}
	return path, nil
}

// output validates a path the tool will write. Outside a dry run the parent
// directory is created; in a dry run it is only checked.
func (tb *Toolbox) output(raw string, dryRun bool) (string, error) {
	path, err := tb.guard.Validate(raw)
	if err != nil {
		return "", err
	}
	if dryRun {
		if _, err := tb.guard.Validate(filepath.Dir(path)); err != nil {
			return "", err
		}
		return path, nil
	}
	if err := tb.guard.EnsureDirectory(path); err != nil {
		return "", err
	}
	return path, nil
}

func rejectDirectory(path, raw, suggestedName string) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return nil
	}
	return fmt.Errorf("out path must be a file path, not a directory: %s. Please include a filename (e.g., %s)", raw, filepath.Join(raw, suggestedName))
}

func splitExt(path string) (base, ext string) {
	ext = filepath.Ext(path)
	return strings.TrimSuffix(path, ext), ext
}

// truncateOutput keeps output inline when it fits. Otherwise it writes the
// full text to a new file near fullPath and returns the leading limit bytes
// cut at a rune boundary.
func (tb *Toolbox) truncateOutput(output, fullPath string) (*Result, error) {
	limit := tb.inlineOutputChars
	if len(output) <= limit {
		return &Result{Output: output}, nil
	}

	path, err := tb.writeFullOutput(output, fullPath)
	if err != nil {
		return nil, err
	}

	cut := limit
	for cut > 0 && !utf8.RuneStart(output[cut]) {
		cut--
	}
	return &Result{
		Output:         output[:cut],
		Truncated:      true,
		FullOutputPath: path,
	}, nil
}

// writeFullOutput creates fullPath, or <base>_<n><ext> when that name is
// taken. Existing files are never replaced.
func (tb *Toolbox) writeFullOutput(output, fullPath string) (string, error) {
	base, ext := splitExt(fullPath)
	for n := 0; n < maxFullOutputNames; n++ {
		candidate := fullPath
		if n > 0 {
			candidate = fmt.Sprintf("%s_%d%s", base, n, ext)
		}
		path, err := tb.output(candidate, false)
		if err != nil {
			return "", fmt.Errorf("full output path: %w", err)
		}
		err = store.CreateFile(path, []byte(output))
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("write full output: %w", err)
		}
		return path, nil
	}
	return "", fmt.Errorf("write full output: %s and %d numbered names are already taken", fullPath, maxFullOutputNames-1)
}
