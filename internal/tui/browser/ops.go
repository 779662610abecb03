package browser

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/arborsmith/arbor/internal/fs"
	"github.com/arborsmith/arbor/internal/logging"
	"github.com/arborsmith/arbor/internal/undo"
)

// The commands below capture everything they need up front and touch
// no model state from their goroutines; results come back as messages
// and are integrated on the update loop.

func (m *Model) loadDirCmd(path string) tea.Cmd {
	g := m.state.Gateway
	gen := m.tree.Generation()

	return func() tea.Msg {
		entries, err := g.ListDir(context.Background(), path)
		return dirLoadedMsg{path: path, gen: gen, entries: entries, err: err}
	}
}

func (m *Model) renameCmd(oldPath, newPath string) tea.Cmd {
	g := m.state.Gateway
	gen := m.tree.Generation()

	return func() tea.Msg {
		err := g.Rename(context.Background(), oldPath, newPath)
		return renameDoneMsg{oldPath: oldPath, newPath: newPath, gen: gen, err: err}
	}
}

// deleteCmd captures the file pre-image before removing it so the undo
// entry can restore the exact bytes. A failed pre-image read does not
// stop the delete; it only costs the undo entry.
func (m *Model) deleteCmd(path string, isDir bool) tea.Cmd {
	g := m.state.Gateway
	gen := m.tree.Generation()

	return func() tea.Msg {
		msg := deleteDoneMsg{path: path, isDir: isDir, gen: gen}
		if isDir {
			msg.err = g.DeleteDirectory(context.Background(), path)
			return msg
		}

		if content, err := g.ReadFile(context.Background(), path); err == nil {
			msg.preimage = content
			msg.hasPreimage = true
		} else {
			logging.L().Warn("pre-image read failed, delete will not be undoable",
				zap.String("path", path),
				zap.Error(err),
			)
		}

		msg.err = g.DeleteFile(context.Background(), path)
		return msg
	}
}

func (m *Model) createCmd(path string, isDir bool) tea.Cmd {
	g := m.state.Gateway
	gen := m.tree.Generation()

	return func() tea.Msg {
		msg := createDoneMsg{path: path, isDir: isDir, gen: gen}
		if isDir {
			msg.err = g.Mkdir(context.Background(), path)
			return msg
		}

		// WriteFile truncates, so an existing entry has to be refused
		// here rather than overwritten.
		if _, err := g.Stat(context.Background(), path); err == nil {
			msg.err = fs.ErrExists
			return msg
		} else if !errors.Is(err, fs.ErrNotFound) {
			msg.err = err
			return msg
		}

		msg.err = g.WriteFile(context.Background(), path, nil)
		return msg
	}
}

// pasteCmd works on a snapshot of the clipboard; the real slot is
// cleared on the update loop once the result confirms a move and the
// slot still holds the same source.
func (m *Model) pasteCmd(destDir string) tea.Cmd {
	g := m.state.Gateway
	gen := m.tree.Generation()
	snapshot := *m.staging

	return func() tea.Msg {
		res, err := snapshot.Paste(context.Background(), g, destDir)
		return pasteDoneMsg{res: res, gen: gen, err: err}
	}
}

// undoCmd applies an already popped compensation. The goroutine holds
// only the compensation value and the gateway, never the log.
func (m *Model) undoCmd(comp undo.Compensation) tea.Cmd {
	g := m.state.Gateway
	gen := m.tree.Generation()

	return func() tea.Msg {
		undone, err := comp.Apply(context.Background(), g)
		return undoDoneMsg{undone: undone, gen: gen, err: err}
	}
}
