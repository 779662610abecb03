package browser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/arborsmith/arbor/internal/staging"
	"github.com/arborsmith/arbor/internal/tree"
)

// rows outside the panes: title, status, help
const chromeLines = 3

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	h := m.treeHeight()

	left := treeStyle.Copy().
		Width(m.treeWidth()).
		Height(h).
		MaxHeight(h).
		Render(m.renderTree())

	panes := lipgloss.JoinHorizontal(lipgloss.Top, left, m.renderSidePane(h))

	return appStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render(m.titleLine()),
		panes,
		m.statusLine(),
		helpStyle.Render(m.help.View(m.keys)),
	))
}

func (m Model) renderTree() string {
	height := m.treeHeight()
	end := m.offset + height
	if end > len(m.rows) {
		end = len(m.rows)
	}

	var b strings.Builder
	for i := m.offset; i < end; i++ {
		if i > m.offset {
			b.WriteByte('\n')
		}
		b.WriteString(m.renderRow(m.rows[i], i == m.cursor))
	}
	return b.String()
}

func (m Model) renderRow(n *tree.Node, underCursor bool) string {
	indent := strings.Repeat("  ", n.Depth)

	glyph := " "
	loading := false
	if n.IsDir {
		switch {
		case n.Loading:
			loading = true
		case n.Expanded:
			glyph = "▾"
		default:
			glyph = "▸"
		}
	}

	name := n.Name
	if n == m.tree.Root() {
		name = n.Path
	}

	badge := ""
	if staged, op := m.staging.Staged(); op != staging.OpNone && staged == n.Path {
		badge = " (" + op.String() + ")"
	}

	// every row stays on one line; wrapping would break the offset math
	budget := m.treeWidth() - len([]rune(indent)) - 2 - len([]rune(badge))
	name = truncate(name, budget)

	g := glyphStyle.Render(glyph)
	if loading {
		g = m.spinner.View()
	}

	var label string
	switch {
	case underCursor && m.focused:
		label = cursorLineStyle.Render(name)
	case n.IsDir:
		label = dirStyle.Render(name)
	default:
		label = name
	}

	line := indent + g + " " + label
	if badge != "" {
		line += stagedStyle.Render(badge)
	}
	return line
}

func (m Model) renderSidePane(height int) string {
	if m.renaming || m.creating {
		prompt := fmt.Sprintf("%s\n\n%s\n\n%s",
			titleStyle.Render(m.input.Title),
			m.input.View(),
			helpStyle.Render("enter to submit, esc to cancel"),
		)
		return textPromptStyle.Copy().
			Width(m.previewWidth()).
			Height(height).
			MaxHeight(height).
			Padding(0, 2).
			Render(prompt)
	}

	return previewStyle.Copy().
		Width(m.previewWidth()).
		Height(height).
		MaxHeight(height).
		Render(m.preview.View())
}

func (m Model) titleLine() string {
	if m.state == nil {
		return "arbor"
	}
	name := m.state.VaultName
	if name == "" {
		name = filepath.Base(m.tree.Root().Path)
	}
	return "arbor · " + name
}

func (m Model) statusLine() string {
	if m.confirming {
		target := filepath.Base(m.confirmPath)
		if m.confirmIsDir {
			return statusStyle(fmt.Sprintf("Delete directory %s and everything in it? (y/n)", target))
		}
		return statusStyle(fmt.Sprintf("Delete %s? (y/n)", target))
	}
	if m.status != "" {
		return statusStyle(m.status)
	}

	var parts []string
	if staged, op := m.staging.Staged(); op != staging.OpNone {
		parts = append(parts, fmt.Sprintf("%s: %s", op, filepath.Base(staged)))
	}
	if n := m.undo.Len(); n > 0 {
		parts = append(parts, fmt.Sprintf("undo: %d", n))
	}
	if m.pendingOp != "" {
		parts = append(parts, m.pendingOp+"…")
	}
	if len(parts) == 0 {
		return " "
	}
	return statusStyle(strings.Join(parts, " · "))
}

func (m Model) treeHeight() int {
	_, frameV := appStyle.GetFrameSize()
	h := m.height - frameV - chromeLines
	if h < 1 {
		h = 1
	}
	return h
}

func (m Model) treeWidth() int {
	frameH, _ := appStyle.GetFrameSize()
	w := (m.width - frameH) / 2
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) previewWidth() int {
	frameH, _ := appStyle.GetFrameSize()
	w := m.width - frameH - m.treeWidth() -
		treeStyle.GetHorizontalFrameSize() - previewStyle.GetHorizontalFrameSize()
	if w < 20 {
		w = 20
	}
	return w
}

func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
