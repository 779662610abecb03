// Package browser is the lazy directory tree navigator: a Bubble Tea
// model over the arena tree cache, with single-slot staging, an undo
// log, and a markdown preview pane. All disk access goes through the
// filesystem gateway and runs in commands; the model itself stays
// single threaded.
package browser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/arborsmith/arbor/internal/cache"
	"github.com/arborsmith/arbor/internal/fs"
	"github.com/arborsmith/arbor/internal/logging"
	"github.com/arborsmith/arbor/internal/staging"
	"github.com/arborsmith/arbor/internal/state"
	"github.com/arborsmith/arbor/internal/tree"
	"github.com/arborsmith/arbor/internal/undo"
)

const (
	statusTTL         = 4 * time.Second
	maxPreviewEntries = 32
)

type Model struct {
	state    *state.State
	keys     *browserKeyMap
	help     help.Model
	spinner  spinner.Model
	input    inputModel
	preview  viewport.Model
	previews *cache.LRU

	tree    *tree.Cache
	staging *staging.Clipboard
	undo    *undo.Log

	rows   []*tree.Node
	cursor int
	offset int

	width  int
	height int

	focused    bool
	showHidden bool

	renaming    bool
	creating    bool
	creatingDir bool
	renamePath  string

	confirming   bool
	confirmPath  string
	confirmIsDir bool

	// one mutation in flight at a time; done messages clear it
	pendingOp string

	openPath    string
	previewPath string

	// refresh bookkeeping: directories to re-expand as their parents
	// load, and the row the cursor should come back to
	reexpand      []string
	restoreCursor string

	status   string
	statusID int
}

func NewModel(s *state.State) *Model {
	t := tree.New(s.Resolver.Root())
	showHidden := s.Vault != nil && s.Vault.ShowHidden
	t.SetFilter(buildFilter(excludedDirs(s), showHidden))

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	m := &Model{
		state:      s,
		keys:       newBrowserKeyMap(),
		help:       help.New(),
		spinner:    sp,
		input:      newInputModel(),
		preview:    viewport.New(0, 0),
		previews:   cache.NewLRU(maxPreviewEntries),
		tree:       t,
		staging:    &staging.Clipboard{},
		undo:       &undo.Log{},
		focused:    true,
		showHidden: showHidden,
	}
	m.rows = t.Visible()
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	root := m.tree.Root().Path
	if m.tree.Toggle(root) {
		cmds = append(cmds, m.loadDirCmd(root))
	}
	if wc := m.watchCmd(); wc != nil {
		cmds = append(cmds, wc)
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.preview.Width = m.previewWidth()
		m.preview.Height = m.treeHeight()
		m.help.Width = msg.Width
		m.ensureCursorVisible()
		cmd := m.schedulePreview()
		return m, cmd

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		switch {
		case m.confirming:
			return m.handleConfirmUpdate(msg)
		case m.renaming || m.creating:
			return m.handleInputUpdate(msg)
		default:
			return m.handleBrowseUpdate(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if !m.tree.AnyLoading() {
			return m, nil
		}
		return m, cmd

	case dirLoadedMsg:
		cmd := m.handleDirLoaded(msg)
		return m, cmd

	case renameDoneMsg:
		cmd := m.handleRenameDone(msg)
		return m, cmd

	case deleteDoneMsg:
		cmd := m.handleDeleteDone(msg)
		return m, cmd

	case createDoneMsg:
		cmd := m.handleCreateDone(msg)
		return m, cmd

	case pasteDoneMsg:
		cmd := m.handlePasteDone(msg)
		return m, cmd

	case undoDoneMsg:
		cmd := m.handleUndoDone(msg)
		return m, cmd

	case previewRenderedMsg:
		cmd := m.handlePreviewRendered(msg)
		return m, cmd

	case SelectionMsg:
		if msg.Path == "" {
			m.openPath = ""
			return m, nil
		}
		m.openPath = msg.Path
		return m, m.editorCmd(msg.Path)

	case editorFinishedMsg:
		if msg.err != nil {
			logging.L().Warn("editor exited with an error",
				zap.String("path", msg.path),
				zap.Error(msg.err),
			)
			cmd := m.setStatus("editor exited with an error")
			return m, cmd
		}
		// the mtime in the preview cache key picks up any edit
		cmd := m.schedulePreview()
		return m, cmd

	case statusExpiredMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil

	case state.VaultChangedMsg:
		cmd := m.handleVaultChanged(msg)
		return m, cmd

	case state.VaultWatcherErrMsg:
		logging.L().Warn("vault watcher error", zap.Error(msg.Err))
		return m, m.watchCmd()
	}

	return m, nil
}

func (m Model) handleBrowseUpdate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.up):
		cmd = m.moveCursor(-1)

	case key.Matches(msg, m.keys.down):
		cmd = m.moveCursor(1)

	case key.Matches(msg, m.keys.activate):
		cmd = m.activate()

	case key.Matches(msg, m.keys.goBack):
		cmd = m.goBack()

	case key.Matches(msg, m.keys.rename):
		cmd = m.beginRenameAtCursor()

	case key.Matches(msg, m.keys.createFile):
		cmd = m.beginCreate(false)

	case key.Matches(msg, m.keys.createDir):
		cmd = m.beginCreate(true)

	case key.Matches(msg, m.keys.delete):
		m.beginConfirmDelete()

	case key.Matches(msg, m.keys.cut):
		cmd = m.stageCut()

	case key.Matches(msg, m.keys.copy):
		cmd = m.stageCopy()

	case key.Matches(msg, m.keys.paste):
		cmd = m.startPaste()

	case key.Matches(msg, m.keys.undo):
		cmd = m.startUndo()

	case key.Matches(msg, m.keys.yankPath):
		cmd = m.yankPath()

	case key.Matches(msg, m.keys.toggleHidden):
		cmd = m.toggleHidden()

	case key.Matches(msg, m.keys.refresh):
		cmd = m.Refresh()

	case key.Matches(msg, m.keys.previewDown):
		m.preview.HalfViewDown()

	case key.Matches(msg, m.keys.previewUp):
		m.preview.HalfViewUp()

	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, cmd
}

func (m Model) handleInputUpdate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.exitInput) {
		m.closeInput()
		return m, nil
	}

	if key.Matches(msg, m.keys.submitInput) {
		cmd := m.submitInput()
		return m, cmd
	}

	var cmd tea.Cmd
	m.input.Input, cmd = m.input.Input.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmUpdate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		path, isDir := m.confirmPath, m.confirmIsDir
		m.confirming = false
		m.confirmPath = ""
		cmd := m.dispatch("delete", m.deleteCmd(path, isDir))
		return m, cmd
	case "n", "N", "esc", "q":
		m.confirming = false
		m.confirmPath = ""
		return m, nil
	}
	return m, nil
}

// Focus lets the browser receive keys again after a Blur.
func (m *Model) Focus() { m.focused = true }

// Blur makes the browser ignore keys so an embedding program can route
// them elsewhere.
func (m *Model) Blur() { m.focused = false }

// Refresh drops the arena, bumps the generation, reloads the root, and
// re-expands what survives. Outstanding loads become stale.
func (m *Model) Refresh() tea.Cmd {
	var expanded []string
	for _, n := range m.tree.Visible() {
		if n.IsDir && n.Expanded && n != m.tree.Root() {
			expanded = append(expanded, n.Path)
		}
	}

	m.restoreCursor = m.currentPath()
	m.reexpand = expanded
	m.tree.Reset()
	m.rows = m.tree.Visible()
	m.cursor = 0
	m.offset = 0

	root := m.tree.Root().Path
	if m.tree.Toggle(root) {
		return m.fetch(root)
	}
	return nil
}

// StartRenameFor moves the cursor to path if it is visible and opens
// the rename input prefilled with the current name.
func (m *Model) StartRenameFor(path string) tea.Cmd {
	n := m.tree.Get(path)
	if n == nil || n == m.tree.Root() {
		return nil
	}
	moveCmd := m.moveCursorTo(path)
	return tea.Batch(moveCmd, m.beginRename(n))
}

func (m *Model) activate() tea.Cmd {
	row := m.currentRow()
	if row == nil {
		return nil
	}

	if row.IsDir {
		if m.tree.Toggle(row.Path) {
			return m.fetch(row.Path)
		}
		return m.rebuildRows(row.Path)
	}

	return emit(SelectionMsg{Path: row.Path})
}

func (m *Model) goBack() tea.Cmd {
	row := m.currentRow()
	if row == nil || row == m.tree.Root() {
		return nil
	}

	if row.IsDir && row.Expanded {
		m.tree.Toggle(row.Path)
		return m.rebuildRows(row.Path)
	}

	parent := row.Parent()
	if parent == nil {
		return nil
	}
	return m.moveCursorTo(parent.Path)
}

func (m *Model) beginRenameAtCursor() tea.Cmd {
	row := m.currentRow()
	if row == nil || row == m.tree.Root() {
		return nil
	}
	return m.beginRename(row)
}

func (m *Model) beginRename(n *tree.Node) tea.Cmd {
	m.renaming = true
	m.renamePath = n.Path
	m.input.Title = "Rename"
	m.input.Input.SetValue(n.Name)
	m.input.Input.CursorEnd()
	m.input.Input.Focus()
	return textinput.Blink
}

func (m *Model) beginCreate(isDir bool) tea.Cmd {
	m.creating = true
	m.creatingDir = isDir
	if isDir {
		m.input.Title = "New directory"
	} else {
		m.input.Title = "New file"
	}
	m.input.Input.SetValue("")
	m.input.Input.Focus()
	return textinput.Blink
}

func (m *Model) beginConfirmDelete() {
	row := m.currentRow()
	if row == nil || row == m.tree.Root() {
		return
	}
	m.confirming = true
	m.confirmPath = row.Path
	m.confirmIsDir = row.IsDir
}

func (m *Model) closeInput() {
	m.renaming = false
	m.creating = false
	m.creatingDir = false
	m.renamePath = ""
	m.input.Input.Blur()
	m.input.Input.SetValue("")
}

func (m *Model) submitInput() tea.Cmd {
	name := strings.TrimSpace(m.input.Input.Value())

	switch {
	case m.renaming:
		target := m.renamePath
		m.closeInput()

		n := m.tree.Get(target)
		if n == nil || name == "" || name == n.Name {
			return nil
		}
		newPath := m.state.Resolver.Join(filepath.Dir(target), name)
		if newPath == "" {
			return m.setStatus("invalid name")
		}
		return m.dispatch("rename", m.renameCmd(target, newPath))

	case m.creating:
		isDir := m.creatingDir
		dest := m.destDirForCursor()
		m.closeInput()

		if name == "" {
			return nil
		}
		path := m.state.Resolver.Join(dest, name)
		if path == "" {
			return m.setStatus("invalid name")
		}
		return m.dispatch("create", m.createCmd(path, isDir))
	}

	return nil
}

func (m *Model) stageCut() tea.Cmd {
	row := m.currentRow()
	if row == nil || row == m.tree.Root() {
		return nil
	}
	m.staging.Cut(row.Path, row.IsDir)
	return tea.Batch(m.emitClipboard(), m.setStatus("cut "+row.Name))
}

func (m *Model) stageCopy() tea.Cmd {
	row := m.currentRow()
	if row == nil || row == m.tree.Root() {
		return nil
	}
	if err := m.staging.Copy(row.Path, row.IsDir); err != nil {
		return m.setStatus("directories cannot be copied")
	}
	return tea.Batch(m.emitClipboard(), m.setStatus("copied "+row.Name))
}

func (m *Model) startPaste() tea.Cmd {
	if m.staging.Empty() {
		return m.setStatus("clipboard is empty")
	}
	return m.dispatch("paste", m.pasteCmd(m.destDirForCursor()))
}

// startUndo pops the entry on the update loop; only the detached
// compensation crosses into the command goroutine, so the log is never
// touched off the loop.
func (m *Model) startUndo() tea.Cmd {
	if m.pendingOp != "" {
		return m.setStatus("still waiting on " + m.pendingOp)
	}
	comp, ok := m.undo.Pop()
	if !ok {
		return m.setStatus("nothing to undo")
	}
	return tea.Batch(m.emitUndo(), m.dispatch("undo", m.undoCmd(comp)))
}

// toggleHidden flips dotfile visibility. The filter only applies on
// load, so the whole arena is refreshed.
func (m *Model) toggleHidden() tea.Cmd {
	m.showHidden = !m.showHidden
	m.tree.SetFilter(buildFilter(excludedDirs(m.state), m.showHidden))
	return m.Refresh()
}

func (m *Model) yankPath() tea.Cmd {
	row := m.currentRow()
	if row == nil {
		return nil
	}
	if err := clipboard.WriteAll(row.Path); err != nil {
		logging.L().Warn("system clipboard unavailable", zap.Error(err))
		return m.setStatus("system clipboard unavailable")
	}
	return m.setStatus("yanked " + row.Path)
}

func (m *Model) handleDirLoaded(msg dirLoadedMsg) tea.Cmd {
	if msg.err != nil {
		m.tree.FailLoad(msg.path, msg.gen)
		return m.failStatus("read "+filepath.Base(msg.path), msg.err)
	}
	if !m.tree.FinishLoad(msg.path, msg.gen, msg.entries) {
		logging.L().Debug("discarding stale listing", zap.String("path", msg.path))
		return nil
	}

	var cmds []tea.Cmd

	if len(m.reexpand) > 0 {
		rest := m.reexpand[:0]
		for _, p := range m.reexpand {
			if filepath.Dir(p) != msg.path {
				rest = append(rest, p)
				continue
			}
			if m.tree.Toggle(p) {
				cmds = append(cmds, m.fetch(p))
			}
		}
		m.reexpand = rest
	}

	if cmd := m.rebuildRows(""); cmd != nil {
		cmds = append(cmds, cmd)
	}

	if m.restoreCursor != "" && m.tree.Get(m.restoreCursor) != nil {
		if cmd := m.moveCursorTo(m.restoreCursor); cmd != nil {
			cmds = append(cmds, cmd)
		}
		m.restoreCursor = ""
	}

	return tea.Batch(cmds...)
}

func (m *Model) handleRenameDone(msg renameDoneMsg) tea.Cmd {
	m.pendingOp = ""
	if msg.err != nil {
		return m.failStatus("rename", msg.err)
	}

	m.undo.PushRename(msg.oldPath, msg.newPath)
	cmds := []tea.Cmd{
		m.emitUndo(),
		emit(TreeMutatedMsg{Op: "rename", Path: msg.newPath}),
	}

	// Renaming a directory moves everything beneath it, so the open-file
	// marker gets the same prefix rewrite the tree does.
	if m.openPath != "" && pathIsOrUnder(m.openPath, msg.oldPath) {
		m.openPath = msg.newPath + strings.TrimPrefix(m.openPath, msg.oldPath)
	}
	if msg.gen == m.tree.Generation() && m.tree.ApplyRename(msg.oldPath, msg.newPath) {
		if cmd := m.rebuildRows(msg.newPath); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	cmds = append(cmds, m.setStatus("renamed to "+filepath.Base(msg.newPath)))
	return tea.Batch(cmds...)
}

func (m *Model) handleDeleteDone(msg deleteDoneMsg) tea.Cmd {
	m.pendingOp = ""
	if msg.err != nil {
		return m.failStatus("delete", msg.err)
	}

	if msg.isDir {
		m.undo.PushDirDelete(msg.path)
	} else if msg.hasPreimage {
		m.undo.PushFileDelete(msg.path, msg.preimage)
	}

	cmds := []tea.Cmd{
		m.emitUndo(),
		emit(TreeMutatedMsg{Op: "delete", Path: msg.path}),
	}

	if staged, _ := m.staging.Staged(); staged == msg.path {
		m.staging.Clear()
		cmds = append(cmds, m.emitClipboard())
	}
	if m.openPath != "" && pathIsOrUnder(m.openPath, msg.path) {
		m.openPath = ""
		cmds = append(cmds, emit(SelectionMsg{Path: ""}))
	}

	if msg.gen == m.tree.Generation() && m.tree.ApplyDelete(msg.path) {
		if cmd := m.rebuildRows(""); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	status := "deleted " + filepath.Base(msg.path)
	if !msg.isDir && !msg.hasPreimage {
		status += " (not undoable)"
	}
	cmds = append(cmds, m.setStatus(status))
	return tea.Batch(cmds...)
}

func (m *Model) handleCreateDone(msg createDoneMsg) tea.Cmd {
	m.pendingOp = ""
	if msg.err != nil {
		return m.failStatus("create", msg.err)
	}

	cmds := []tea.Cmd{emit(TreeMutatedMsg{Op: "create", Path: msg.path})}
	if msg.gen == m.tree.Generation() && m.tree.ApplyCreate(msg.path, msg.isDir) != nil {
		if cmd := m.rebuildRows(msg.path); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	cmds = append(cmds, m.setStatus("created "+filepath.Base(msg.path)))
	return tea.Batch(cmds...)
}

func (m *Model) handlePasteDone(msg pasteDoneMsg) tea.Cmd {
	m.pendingOp = ""
	if msg.err != nil {
		if errors.Is(msg.err, fs.ErrUnsupported) {
			return m.setStatus("cannot paste a directory into itself")
		}
		return m.failStatus("paste", msg.err)
	}

	res := msg.res
	if res.NoOp {
		return m.setStatus("source is already here")
	}

	cmds := []tea.Cmd{emit(TreeMutatedMsg{Op: res.Op.String(), Path: res.Dst})}

	if res.Moved {
		if staged, op := m.staging.Staged(); op == staging.OpCut && staged == res.Src {
			m.staging.Clear()
			cmds = append(cmds, m.emitClipboard())
		}
		if m.openPath != "" && pathIsOrUnder(m.openPath, res.Src) {
			m.openPath = ""
			cmds = append(cmds, emit(SelectionMsg{Path: ""}))
		}
	}

	if msg.gen == m.tree.Generation() {
		changed := false
		if res.Moved && m.tree.ApplyDelete(res.Src) {
			changed = true
		}
		if m.tree.ApplyCreate(res.Dst, res.IsDir) != nil {
			changed = true
		}
		if changed {
			if cmd := m.rebuildRows(res.Dst); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}

	cmds = append(cmds, m.setStatus("pasted "+filepath.Base(res.Dst)))
	return tea.Batch(cmds...)
}

func (m *Model) handleUndoDone(msg undoDoneMsg) tea.Cmd {
	m.pendingOp = ""

	// The entry already left the log at dispatch; a failed compensation
	// stays dropped.
	if msg.err != nil {
		if errors.Is(msg.err, fs.ErrUnsupported) {
			return m.setStatus("directory deletes cannot be undone")
		}
		return m.failStatus("undo", msg.err)
	}

	cmds := []tea.Cmd{emit(TreeMutatedMsg{Op: "undo", Path: msg.undone.Path})}

	if msg.gen == m.tree.Generation() {
		changed := false
		switch msg.undone.Op {
		case undo.OpRename:
			changed = m.tree.ApplyRename(msg.undone.Prev, msg.undone.Path)
		case undo.OpRestore:
			changed = m.tree.ApplyCreate(msg.undone.Path, false) != nil
		}
		if changed {
			if cmd := m.rebuildRows(msg.undone.Path); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}

	switch msg.undone.Op {
	case undo.OpRename:
		cmds = append(cmds, m.setStatus("rename undone"))
	default:
		cmds = append(cmds, m.setStatus("restored "+filepath.Base(msg.undone.Path)))
	}
	return tea.Batch(cmds...)
}

func (m *Model) handlePreviewRendered(msg previewRenderedMsg) tea.Cmd {
	if msg.err != nil {
		if m.previewPath == msg.path {
			m.preview.SetContent(fmt.Sprintf("Error reading %s", filepath.Base(msg.path)))
		}
		return nil
	}

	m.previews.Put(msg.cacheKey, msg.content)
	if m.previewPath == msg.path {
		m.preview.SetContent(msg.content)
		m.preview.GotoTop()
	}
	return nil
}

func (m *Model) handleVaultChanged(msg state.VaultChangedMsg) tea.Cmd {
	cmds := []tea.Cmd{m.watchCmd()}

	abs := filepath.Join(m.state.Resolver.Root(), filepath.FromSlash(msg.Path))
	dir := filepath.Dir(abs)
	if m.tree.StartReload(dir) {
		logging.L().Debug("reloading changed directory", zap.String("path", dir))
		cmds = append(cmds, m.fetch(dir))
	}

	return tea.Batch(cmds...)
}

func (m *Model) moveCursor(delta int) tea.Cmd {
	if len(m.rows) == 0 {
		return nil
	}

	next := m.cursor + delta
	if next < 0 {
		next = 0
	}
	if next > len(m.rows)-1 {
		next = len(m.rows) - 1
	}
	if next == m.cursor {
		return nil
	}

	m.cursor = next
	m.ensureCursorVisible()
	return tea.Batch(emit(CursorChangedMsg{Path: m.rows[m.cursor].Path}), m.schedulePreview())
}

func (m *Model) moveCursorTo(path string) tea.Cmd {
	for i, n := range m.rows {
		if n.Path != path {
			continue
		}
		if i == m.cursor {
			return nil
		}
		m.cursor = i
		m.ensureCursorVisible()
		return tea.Batch(emit(CursorChangedMsg{Path: path}), m.schedulePreview())
	}
	return nil
}

// ensureCursorVisible scrolls only when the cursor has left the
// window; while it is visible the offset never moves.
func (m *Model) ensureCursorVisible() {
	h := m.treeHeight()
	if h <= 0 {
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	} else if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
}

// rebuildRows reflattens the visible rows, keeps the cursor on prefer
// (or clamped in place), and reports cursor movement.
func (m *Model) rebuildRows(prefer string) tea.Cmd {
	before := m.currentPath()

	m.rows = m.tree.Visible()
	if prefer != "" {
		for i, n := range m.rows {
			if n.Path == prefer {
				m.cursor = i
				break
			}
		}
	}
	if m.cursor > len(m.rows)-1 {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureCursorVisible()

	if after := m.currentPath(); after != "" && after != before {
		return tea.Batch(emit(CursorChangedMsg{Path: after}), m.schedulePreview())
	}
	return nil
}

func (m *Model) currentRow() *tree.Node {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor]
}

func (m *Model) currentPath() string {
	if row := m.currentRow(); row != nil {
		return row.Path
	}
	return ""
}

// destDirForCursor is where paste and create land: the directory under
// the cursor, or the containing directory when the cursor is on a file.
func (m *Model) destDirForCursor() string {
	row := m.currentRow()
	if row == nil {
		return m.tree.Root().Path
	}
	if row.IsDir {
		return row.Path
	}
	if p := row.Parent(); p != nil {
		return p.Path
	}
	return m.tree.Root().Path
}

func (m *Model) dispatch(op string, cmd tea.Cmd) tea.Cmd {
	if m.pendingOp != "" {
		return m.setStatus("still waiting on " + m.pendingOp)
	}
	m.pendingOp = op
	return cmd
}

func (m *Model) fetch(path string) tea.Cmd {
	return tea.Batch(m.loadDirCmd(path), m.spinner.Tick)
}

func (m *Model) watchCmd() tea.Cmd {
	if m.state == nil || m.state.Watcher == nil {
		return nil
	}
	return m.state.Watcher.Start()
}

func (m *Model) setStatus(s string) tea.Cmd {
	m.status = s
	m.statusID++
	id := m.statusID
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return statusExpiredMsg{id: id}
	})
}

func (m *Model) failStatus(action string, err error) tea.Cmd {
	logging.L().Warn("operation failed",
		zap.String("op", action),
		zap.Error(err),
	)

	switch {
	case errors.Is(err, fs.ErrExists):
		return m.setStatus(action + " failed: already exists")
	case errors.Is(err, fs.ErrNotFound):
		return m.setStatus(action + " failed: no longer exists")
	case errors.Is(err, fs.ErrPermission):
		return m.setStatus(action + " failed: permission denied")
	case errors.Is(err, fs.ErrUnsupported):
		return m.setStatus(action + " failed: not supported")
	default:
		return m.setStatus(action + " failed")
	}
}

func (m *Model) emitClipboard() tea.Cmd {
	path, op := m.staging.Staged()
	return emit(ClipboardChangedMsg{Op: op, Path: path})
}

func (m *Model) emitUndo() tea.Cmd {
	return emit(UndoChangedMsg{Available: m.undo.Available()})
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func pathIsOrUnder(candidate, root string) bool {
	if candidate == root {
		return true
	}
	return strings.HasPrefix(candidate, root+string(filepath.Separator))
}

func excludedDirs(s *state.State) []string {
	if s == nil || s.Vault == nil {
		return nil
	}
	return s.Vault.ExcludedDirs
}

func buildFilter(excluded []string, showHidden bool) tree.Filter {
	skip := make(map[string]struct{}, len(excluded))
	for _, name := range excluded {
		skip[name] = struct{}{}
	}

	return func(name string, isDir bool) bool {
		if !showHidden && strings.HasPrefix(name, ".") {
			return false
		}
		if isDir {
			if _, ok := skip[name]; ok {
				return false
			}
		}
		return true
	}
}

func Run(s *state.State) error {
	m := NewModel(s)

	if _, err := tea.NewProgram(m, tea.WithInput(os.Stdin), tea.WithAltScreen()).Run(); err != nil {
		if strings.Contains(err.Error(), "resource temporarily unavailable") {
			os.Exit(0)
		}
		return fmt.Errorf("error running browser: %w", err)
	}

	return nil
}
