package sandbox

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultMaxFileSize is the input size ceiling applied by CheckSize.
const DefaultMaxFileSize int64 = 50 << 20

const maxSymlinkDepth = 40

var defaultSandboxSegments = []string{"Downloads", "mcp_sandbox"}

// Roots selects the directories a Guard allows. Build one with ExplicitRoots
// or DefaultSandbox.
type Roots struct {
	dirs       []string
	useDefault bool
}

// ExplicitRoots allows exactly the given directories. They need not exist.
func ExplicitRoots(dirs ...string) Roots {
	return Roots{dirs: slices.Clone(dirs)}
}

// DefaultSandbox allows a single directory, ~/Downloads/mcp_sandbox, which is
// created when the Guard is built.
func DefaultSandbox() Roots {
	return Roots{useDefault: true}
}

// Option customizes a Guard.
type Option func(*Guard)

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(n int64) Option {
	return func(g *Guard) {
		g.maxFileSize = n
	}
}

// Guard decides whether a caller-supplied path lies inside one of a fixed set
// of root directories. It is immutable after construction and safe for
// concurrent use.
type Guard struct {
	roots       []string
	rootSegs    [][]string
	maxFileSize int64
}

// NewGuard canonicalizes roots and returns a Guard enforcing them.
func NewGuard(roots Roots, opts ...Option) (*Guard, error) {
	g := &Guard{maxFileSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(g)
	}
	if g.maxFileSize <= 0 {
		return nil, fmt.Errorf("max file size must be > 0, got %d", g.maxFileSize)
	}

	dirs := roots.dirs
	if roots.useDefault {
		dir, err := createDefaultSandbox()
		if err != nil {
			return nil, err
		}
		dirs = []string{dir}
	}
	if len(dirs) == 0 {
		return nil, errors.New("at least one allowed directory is required")
	}

	for _, dir := range dirs {
		clean := cleanInput(dir)
		if clean == "" {
			return nil, errors.New("allowed directory cannot be empty")
		}
		canonical, err := canonicalize(clean)
		if err != nil {
			return nil, fmt.Errorf("resolve allowed directory %q: %w", clean, err)
		}
		if slices.Contains(g.roots, canonical) {
			continue
		}
		g.roots = append(g.roots, canonical)
		g.rootSegs = append(g.rootSegs, segments(canonical))
	}
	return g, nil
}

func createDefaultSandbox() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	dir := filepath.Join(append([]string{home}, defaultSandboxSegments...)...)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create default sandbox %q: %w", dir, err)
	}
	return dir, nil
}

// Roots returns the canonical allowed directories in configuration order.
func (g *Guard) Roots() []string {
	return slices.Clone(g.roots)
}

// MaxFileSize returns the CheckSize ceiling in bytes.
func (g *Guard) MaxFileSize() int64 {
	return g.maxFileSize
}

// Validate returns the canonical absolute form of raw if it lies inside an
// allowed root. Surrounding whitespace and one layer of matching quotes are
// stripped first. The path does not need to exist.
func (g *Guard) Validate(raw string) (string, error) {
	clean := cleanInput(raw)
	if clean == "" {
		return "", errors.New("path is required")
	}
	canonical, err := canonicalize(clean)
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", clean, err)
	}
	if !g.contains(canonical) {
		return "", &AccessDeniedError{Path: clean, Roots: g.Roots()}
	}
	return canonical, nil
}

// CheckSize fails with *FileTooLargeError when path is a regular file larger
// than the ceiling. A missing path passes, and so does any existing path that
// is not a regular file (directory, FIFO, device): the size of those is not
// meaningful, and the codecs reject them when they try to read one.
func (g *Guard) CheckSize(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat %q: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil
	}
	if info.Size() > g.maxFileSize {
		return &FileTooLargeError{Path: path, Size: info.Size(), Limit: g.maxFileSize}
	}
	return nil
}

// EnsureDirectory validates the parent directory of an output path and creates
// it if missing.
func (g *Guard) EnsureDirectory(path string) error {
	clean := cleanInput(path)
	if clean == "" {
		return errors.New("path is required")
	}
	abs, err := filepath.Abs(clean)
	if err != nil {
		return fmt.Errorf("resolve path %q: %w", clean, err)
	}
	dir, err := g.Validate(filepath.Dir(abs))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}

func (g *Guard) contains(canonical string) bool {
	segs := segments(canonical)
	for _, root := range g.rootSegs {
		if len(segs) >= len(root) && slices.Equal(segs[:len(root)], root) {
			return true
		}
	}
	return false
}

// cleanInput trims whitespace and then one layer of matching quotes.
func cleanInput(raw string) string {
	s := strings.TrimSpace(raw)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			s = s[1 : len(s)-1]
		}
	}
	return s
}

// canonicalize makes p absolute, resolves . and .. lexically, then resolves
// symlinks along the longest existing prefix.
func canonicalize(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return resolveExisting(abs, 0)
}

func resolveExisting(abs string, depth int) (string, error) {
	if depth > maxSymlinkDepth {
		return "", errors.New("too many levels of symbolic links")
	}

	cur := abs
	var rest []string
	for {
		if resolved, err := filepath.EvalSymlinks(cur); err == nil {
			return joinRest(resolved, rest), nil
		}

		// A dangling link still redirects writes; follow it by hand.
		if info, err := os.Lstat(cur); err == nil && info.Mode()&fs.ModeSymlink != 0 {
			target, err := os.Readlink(cur)
			if err != nil {
				return "", fmt.Errorf("read symlink %q: %w", cur, err)
			}
			if !filepath.IsAbs(target) {
				parent := filepath.Dir(cur)
				if resolvedParent, err := filepath.EvalSymlinks(parent); err == nil {
					parent = resolvedParent
				}
				target = filepath.Join(parent, target)
			}
			return resolveExisting(joinRest(filepath.Clean(target), rest), depth+1)
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return joinRest(cur, rest), nil
		}
		rest = append([]string{filepath.Base(cur)}, rest...)
		cur = parent
	}
}

func joinRest(base string, rest []string) string {
	return filepath.Join(append([]string{base}, rest...)...)
}

// segments splits a canonical path into whole components. The volume name, if
// any, is the first segment.
func segments(p string) []string {
	vol := filepath.VolumeName(p)
	parts := strings.FieldsFunc(p[len(vol):], func(r rune) bool {
		return r == '/' || r == filepath.Separator
	})
	if vol != "" {
		parts = append([]string{vol}, parts...)
	}
	return parts
}
