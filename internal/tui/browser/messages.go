package browser

import (
	"github.com/arborsmith/arbor/internal/fs"
	"github.com/arborsmith/arbor/internal/staging"
	"github.com/arborsmith/arbor/internal/undo"
)

// Messages emitted upward for an embedding program. The browser also
// handles its own copies in Update, so running it standalone needs no
// extra wiring.

// CursorChangedMsg reports that the cursor rests on a new row.
type CursorChangedMsg struct {
	Path string
}

// SelectionMsg reports that a file was activated. An empty Path means
// the previous selection no longer exists.
type SelectionMsg struct {
	Path string
}

// TreeMutatedMsg reports a structural change that was confirmed on
// disk and patched into the tree.
type TreeMutatedMsg struct {
	Op   string
	Path string
}

// ClipboardChangedMsg reports the staging slot for badges.
type ClipboardChangedMsg struct {
	Op   staging.Op
	Path string
}

// UndoChangedMsg reports whether an undo is available.
type UndoChangedMsg struct {
	Available bool
}

// Internal async results. Every disk operation runs in a tea.Cmd and
// reports back through one of these; gen carries the tree generation
// the operation was dispatched under.

type dirLoadedMsg struct {
	path    string
	gen     int64
	entries []fs.Entry
	err     error
}

type renameDoneMsg struct {
	oldPath string
	newPath string
	gen     int64
	err     error
}

type deleteDoneMsg struct {
	path        string
	isDir       bool
	preimage    []byte
	hasPreimage bool
	gen         int64
	err         error
}

type createDoneMsg struct {
	path  string
	isDir bool
	gen   int64
	err   error
}

type pasteDoneMsg struct {
	res staging.Result
	gen int64
	err error
}

type undoDoneMsg struct {
	undone undo.Undone
	gen    int64
	err    error
}

type previewRenderedMsg struct {
	path     string
	cacheKey string
	content  string
	err      error
}

type editorFinishedMsg struct {
	path string
	err  error
}

type statusExpiredMsg struct {
	id int
}
