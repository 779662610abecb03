package pathutil

import (
	"context"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/arborsmith/arbor/internal/fs"
)

// NormalizePath converts Windows-style separators to the current platform's separator
// and cleans the resulting path.
func NormalizePath(p string) string {
	if p == "" {
		return ""
	}

	// Replace Windows separators and collapse redundant separators/segments.
	replaced := strings.ReplaceAll(p, "\\", "/")
	return filepath.Clean(filepath.FromSlash(replaced))
}

// VaultRelative returns the path to target relative to the provided vault directory.
// The returned path always uses forward slashes to simplify downstream processing
// and ensure platform agnosticism.
func VaultRelative(vaultDir, target string) (string, error) {
	base := NormalizePath(vaultDir)
	cleanedTarget := NormalizePath(target)

	rel, err := filepath.Rel(base, cleanedTarget)
	if err != nil {
		return "", err
	}

	return filepath.ToSlash(rel), nil
}

// DefaultCaseInsensitive reports the platform default for path comparison:
// insensitive on macOS and Windows, sensitive elsewhere.
func DefaultCaseInsensitive() bool {
	return runtime.GOOS == "darwin" || runtime.GOOS == "windows"
}

// Resolver confines every navigation decision to one vault boundary.
// Comparisons happen on normalized absolute paths, case-insensitively
// when the backing filesystem is.
type Resolver struct {
	root            string
	caseInsensitive bool
}

// NewResolver builds a resolver rooted at root.
func NewResolver(root string, caseInsensitive bool) *Resolver {
	return &Resolver{
		root:            NormalizePath(root),
		caseInsensitive: caseInsensitive,
	}
}

// Root returns the normalized boundary root.
func (r *Resolver) Root() string { return r.root }

func (r *Resolver) equal(a, b string) bool {
	if r.caseInsensitive {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// Within reports whether path sits at or below the boundary root. The
// check is segment-aware: "/vault2" is not inside "/vault".
func (r *Resolver) Within(path string) bool {
	p := NormalizePath(path)
	if p == "" {
		return false
	}
	if r.equal(p, r.root) {
		return true
	}

	prefix := r.root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	if r.caseInsensitive {
		return strings.HasPrefix(strings.ToLower(p), strings.ToLower(prefix))
	}
	return strings.HasPrefix(p, prefix)
}

// Parent returns the directory above path. ok is false when path is at
// or outside the boundary root; ascent above the boundary is rejected,
// never clamped.
func (r *Resolver) Parent(path string) (string, bool) {
	p := NormalizePath(path)
	if p == "" || !r.Within(p) || r.equal(p, r.root) {
		return "", false
	}

	parent := filepath.Dir(p)
	if r.equal(parent, p) {
		return "", false
	}
	return parent, true
}

// Join attaches a single child name beneath dir. Names that could
// escape the directory ("..", absolute paths, embedded separators) are
// rejected with an empty result.
func (r *Resolver) Join(dir, name string) string {
	if name == "" || name == "." || name == ".." {
		return ""
	}
	if strings.ContainsAny(name, `/\`) {
		return ""
	}
	return NormalizePath(filepath.Join(dir, name))
}

// ChangeDirectory joins targetName onto cur and verifies through the
// gateway that the result is an existing directory inside the boundary.
// Any failure (missing entry, not a directory, outside the root) yields
// ok=false and the caller stays where it was.
func (r *Resolver) ChangeDirectory(ctx context.Context, g fs.Gateway, cur, targetName string) (string, bool) {
	next := r.Join(cur, targetName)
	if next == "" || !r.Within(next) {
		return "", false
	}

	entry, err := g.Stat(ctx, next)
	if err != nil || !entry.IsDir {
		return "", false
	}
	return next, true
}
