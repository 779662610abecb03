// Package staging implements the single-slot cut/copy clipboard. It is
// a plain struct with no UI dependencies so its rules are testable in
// isolation.
package staging

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arborsmith/arbor/internal/fs"
)

// ErrEmpty marks a paste with nothing staged.
var ErrEmpty = errors.New("clipboard is empty")

// Op is the pending clipboard operation.
type Op int

const (
	OpNone Op = iota
	OpCut
	OpCopy
)

func (o Op) String() string {
	switch o {
	case OpCut:
		return "cut"
	case OpCopy:
		return "copy"
	default:
		return "none"
	}
}

// Clipboard holds at most one staged path. Staging replaces whatever
// was staged before.
type Clipboard struct {
	op    Op
	path  string
	isDir bool
}

// Cut stages path for a move. Directories may be cut.
func (c *Clipboard) Cut(path string, isDir bool) {
	c.op, c.path, c.isDir = OpCut, path, isDir
}

// Copy stages path for duplication. Directories cannot be copied; the
// request is rejected and nothing is staged.
func (c *Clipboard) Copy(path string, isDir bool) error {
	if isDir {
		return fmt.Errorf("copy %s: %w", path, fs.ErrUnsupported)
	}
	c.op, c.path, c.isDir = OpCopy, path, false
	return nil
}

// Clear empties the slot.
func (c *Clipboard) Clear() {
	*c = Clipboard{}
}

// Empty reports whether nothing is staged.
func (c *Clipboard) Empty() bool { return c.op == OpNone }

// Staged returns the staged path and operation; op is OpNone when the
// slot is empty.
func (c *Clipboard) Staged() (path string, op Op) {
	return c.path, c.op
}

// Result describes a completed paste.
type Result struct {
	Src   string
	Dst   string
	Op    Op
	IsDir bool
	Moved bool // a cut-paste relocated Src to Dst
	NoOp  bool // destination equals source; nothing was touched
}

// Paste resolves the staged entry into destDir and performs it through
// the gateway.
//
// The destination is destDir joined with the source's base name.
// Pasting into the directory that already contains the source is a
// no-op. Any other existing entry at the destination aborts with
// ErrExists before anything is mutated. A successful cut-paste clears
// the slot; a copy-paste keeps it so the same source can be pasted
// again elsewhere.
func (c *Clipboard) Paste(ctx context.Context, g fs.Gateway, destDir string) (Result, error) {
	if c.op == OpNone {
		return Result{}, ErrEmpty
	}

	sep := string(filepath.Separator)
	if c.isDir && (destDir == c.path || strings.HasPrefix(destDir+sep, c.path+sep)) {
		return Result{}, fmt.Errorf("paste %s into itself: %w", c.path, fs.ErrUnsupported)
	}

	dst := filepath.Join(destDir, filepath.Base(c.path))
	if dst == c.path {
		return Result{Src: c.path, Dst: dst, Op: c.op, IsDir: c.isDir, NoOp: true}, nil
	}

	if _, err := g.Stat(ctx, dst); err == nil {
		return Result{}, fmt.Errorf("paste %s: %w", dst, fs.ErrExists)
	} else if !errors.Is(err, fs.ErrNotFound) {
		return Result{}, err
	}

	switch c.op {
	case OpCut:
		if err := g.MoveFile(ctx, c.path, dst); err != nil {
			return Result{}, err
		}
		res := Result{Src: c.path, Dst: dst, Op: OpCut, IsDir: c.isDir, Moved: true}
		c.Clear()
		return res, nil
	default:
		if err := g.CopyFile(ctx, c.path, dst); err != nil {
			return Result{}, err
		}
		return Result{Src: c.path, Dst: dst, Op: OpCopy}, nil
	}
}
