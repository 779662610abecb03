// Package fs is the single chokepoint for disk access.
//
// Everything above it (tree cache, clipboard, undo, TUI) talks to the
// Gateway interface and branches on the error taxonomy below; nothing
// else in the repository touches the os package for vault contents.
package fs

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"sort"
	"strings"
	"time"
)

// Classified errors. Callers branch with errors.Is; the concrete
// os-level cause stays wrapped inside for logs.
var (
	// ErrNotFound marks a missing entry. Delete operations swallow it
	// (deleting what is already gone is success); everything else
	// surfaces it.
	ErrNotFound = errors.New("entry not found")

	// ErrPermission marks an access failure. Listings skip the entry,
	// mutations surface it.
	ErrPermission = errors.New("permission denied")

	// ErrExists marks a name collision at a destination. It is raised
	// before anything is mutated.
	ErrExists = errors.New("destination already exists")

	// ErrUnsupported marks an operation the gateway refuses by policy,
	// such as copying a directory.
	ErrUnsupported = errors.New("operation not supported")
)

// Entry describes one file or directory.
//
// Paths are absolute and cleaned; Name is the final path element.
type Entry struct {
	Name    string
	Path    string
	IsDir   bool
	Size    int64
	ModTime time.Time
}

// Gateway abstracts the file operations the navigator needs.
//
// All methods take absolute paths. Implementations classify their
// failures into the taxonomy above.
type Gateway interface {
	// ListDir returns the direct children of path in listing order:
	// directories first, then case-folded name order. Children whose
	// metadata cannot be read are skipped; an unreadable directory is
	// an error.
	ListDir(ctx context.Context, path string) ([]Entry, error)

	Stat(ctx context.Context, path string) (Entry, error)

	// Rename moves oldPath to newPath, refusing to replace an existing
	// entry at newPath.
	Rename(ctx context.Context, oldPath, newPath string) error

	// DeleteFile removes a single file. A missing file is success.
	DeleteFile(ctx context.Context, path string) error

	// DeleteDirectory removes a directory and its contents. A missing
	// directory is success.
	DeleteDirectory(ctx context.Context, path string) error

	// CopyFile duplicates a regular file. Directory sources are
	// ErrUnsupported; an existing destination is ErrExists.
	CopyFile(ctx context.Context, src, dst string) error

	// MoveFile relocates a file or directory, refusing to replace an
	// existing destination.
	MoveFile(ctx context.Context, src, dst string) error

	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, data []byte) error
	Mkdir(ctx context.Context, path string) error
}

// SortEntries orders entries in listing order: directories before
// files, then case-insensitive name comparison.
func SortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
}

// classify maps an os-level error onto the taxonomy, keeping the
// original message inside the wrap.
func classify(op, path string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, iofs.ErrNotExist):
		return fmt.Errorf("%s %s: %w", op, path, ErrNotFound)
	case errors.Is(err, iofs.ErrPermission):
		return fmt.Errorf("%s %s: %w", op, path, ErrPermission)
	case errors.Is(err, iofs.ErrExist):
		return fmt.Errorf("%s %s: %w", op, path, ErrExists)
	default:
		return fmt.Errorf("%s %s: %w", op, path, err)
	}
}
