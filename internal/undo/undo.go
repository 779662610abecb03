// Package undo keeps a bounded stack of compensating entries for
// rename and delete.
//
// Callers push only after the forward mutation succeeded, using
// pre-images captured before it ran. Move and copy never reach this
// log.
package undo

import (
	"context"
	"errors"
	"fmt"

	"github.com/arborsmith/arbor/internal/fs"
)

// ErrNothingToUndo marks an undo request on an empty log.
var ErrNothingToUndo = errors.New("nothing to undo")

// Oldest entries fall off past this depth; file pre-images hold whole
// contents in memory.
const maxEntries = 64

type kind int

const (
	kindRename kind = iota
	kindDeleteFile
	kindDeleteDir
)

type entry struct {
	kind    kind
	from    string // rename: the previous path
	to      string // rename: the current path
	path    string // delete: the removed path
	content []byte // delete: file pre-image
}

// Op tells the caller what an undo did.
type Op int

const (
	// OpRename means a rename was reverted: Path exists again, Prev is
	// the name it moved away from.
	OpRename Op = iota
	// OpRestore means a deleted file was recreated at Path.
	OpRestore
)

// Undone describes the entry a successful undo reverted.
type Undone struct {
	Op   Op
	Path string
	Prev string
}

// Log is the undo stack for one session.
type Log struct {
	entries []entry
}

// PushRename records that from was renamed to to.
func (l *Log) PushRename(from, to string) {
	l.push(entry{kind: kindRename, from: from, to: to})
}

// PushFileDelete records a deleted file together with its full
// pre-delete content.
func (l *Log) PushFileDelete(path string, content []byte) {
	l.push(entry{kind: kindDeleteFile, path: path, content: content})
}

// PushDirDelete records a deleted directory. No contents are captured;
// directory deletion is lossy and undoing it is refused.
func (l *Log) PushDirDelete(path string) {
	l.push(entry{kind: kindDeleteDir, path: path})
}

func (l *Log) push(e entry) {
	if len(l.entries) >= maxEntries {
		l.entries = l.entries[1:]
	}
	l.entries = append(l.entries, e)
}

// Len reports how many entries can be undone.
func (l *Log) Len() int { return len(l.entries) }

// Available reports whether an undo would have anything to do.
func (l *Log) Available() bool { return len(l.entries) > 0 }

// Compensation is a popped entry's inverse. It carries everything the
// gateway call needs, so it can run outside the loop that owns the log.
type Compensation struct {
	e entry
}

// Pop removes the newest entry and hands back its compensation. ok is
// false on an empty log. The entry leaves the log immediately; a failed
// compensation is dropped, never retried.
func (l *Log) Pop() (Compensation, bool) {
	if len(l.entries) == 0 {
		return Compensation{}, false
	}

	e := l.entries[len(l.entries)-1]
	l.entries = l.entries[:len(l.entries)-1]
	return Compensation{e: e}, true
}

// Apply issues the compensating call through the gateway.
func (c Compensation) Apply(ctx context.Context, g fs.Gateway) (Undone, error) {
	switch c.e.kind {
	case kindRename:
		if err := g.Rename(ctx, c.e.to, c.e.from); err != nil {
			return Undone{}, err
		}
		return Undone{Op: OpRename, Path: c.e.from, Prev: c.e.to}, nil
	case kindDeleteFile:
		if err := g.WriteFile(ctx, c.e.path, c.e.content); err != nil {
			return Undone{}, err
		}
		return Undone{Op: OpRestore, Path: c.e.path}, nil
	default:
		return Undone{}, fmt.Errorf("restore directory %s: %w", c.e.path, fs.ErrUnsupported)
	}
}

// Undo pops the newest entry and applies its compensation in one step.
func (l *Log) Undo(ctx context.Context, g fs.Gateway) (Undone, error) {
	c, ok := l.Pop()
	if !ok {
		return Undone{}, ErrNothingToUndo
	}
	return c.Apply(ctx, g)
}
