package tools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/neoclaw-ai/filetransformer/internal/codec"
	"github.com/neoclaw-ai/filetransformer/internal/store"
)

// ZipFilesParams are the arguments of zip_files.
type ZipFilesParams struct {
	Paths  []string `json:"paths" jsonschema:"Files to archive. An entry may be a glob pattern such as /data/in/**/*.pdf."`
	OutZip string   `json:"out_zip" jsonschema:"File path of the archive to write."`
	DryRun bool     `json:"dry_run,omitempty" jsonschema:"Check paths and report what would happen without writing."`
}

// ZipFiles writes a Deflate archive holding each input under its base name.
func (tb *Toolbox) ZipFiles(ctx context.Context, p ZipFilesParams) (*Result, error) {
	if len(p.Paths) == 0 || strings.TrimSpace(p.OutZip) == "" {
		return nil, errors.New("paths and out_zip are required")
	}

	var files []string
	for _, raw := range p.Paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		matched, err := tb.expandInput(raw)
		if err != nil {
			return nil, err
		}
		files = append(files, matched...)
	}
	if _, err := codec.EntryNames(files); err != nil {
		return nil, err
	}

	out, err := tb.guard.Validate(p.OutZip)
	if err != nil {
		return nil, err
	}
	if err := rejectDirectory(out, p.OutZip, "archive.zip"); err != nil {
		return nil, err
	}
	if out, err = tb.output(out, p.DryRun); err != nil {
		return nil, err
	}

	if p.DryRun {
		return &Result{Output: fmt.Sprintf("[DRY RUN] Would zip %d files into %s", len(files), p.OutZip)}, nil
	}

	if err := store.WriteFileFunc(out, func(w io.Writer) error {
		return codec.WriteZip(w, files)
	}); err != nil {
		return nil, err
	}
	return &Result{Output: fmt.Sprintf("Zipped %d files into %s", len(files), p.OutZip)}, nil
}

// expandInput resolves one zip_files entry. An existing path is used as is;
// otherwise a glob pattern's static base is validated before it is walked and
// every match is validated and size-checked on its own.
func (tb *Toolbox) expandInput(raw string) ([]string, error) {
	path, err := tb.guard.Validate(raw)
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Lstat(path); statErr == nil {
		in, err := tb.input(path)
		if err != nil {
			return nil, err
		}
		return []string{in}, nil
	}

	base, pattern, ok := codec.SplitGlob(path)
	if !ok {
		return nil, fmt.Errorf("file not found: %s", raw)
	}
	base, err = tb.guard.Validate(base)
	if err != nil {
		return nil, err
	}
	matches, err := codec.Glob(base, pattern)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match %s", raw)
	}
	files := make([]string, 0, len(matches))
	for _, m := range matches {
		in, err := tb.input(m)
		if err != nil {
			return nil, err
		}
		files = append(files, in)
	}
	return files, nil
}
