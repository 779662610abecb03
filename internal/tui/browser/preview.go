package browser

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"

	"github.com/arborsmith/arbor/internal/note"
)

const maxPreviewBytes = 512 * 1024

// schedulePreview refreshes the preview pane for the cursor row. Cached
// renders are applied immediately; otherwise an async render command is
// returned. The cache key includes the file's mtime and the pane width,
// so edits and resizes invalidate naturally.
func (m *Model) schedulePreview() tea.Cmd {
	row := m.currentRow()
	if row == nil || row.IsDir {
		m.previewPath = ""
		m.preview.SetContent("")
		return nil
	}

	entry, err := m.state.Gateway.Stat(context.Background(), row.Path)
	if err != nil {
		m.previewPath = row.Path
		m.preview.SetContent(fmt.Sprintf("Error reading %s", row.Name))
		return nil
	}

	key := previewCacheKey(row.Path, entry.ModTime.UnixNano(), m.previewWidth())
	if cached, ok := m.previews.Get(key); ok {
		m.previewPath = row.Path
		m.preview.SetContent(cached)
		m.preview.GotoTop()
		return nil
	}

	m.previewPath = row.Path
	return m.renderPreviewCmd(row.Path, key, m.previewWidth())
}

func (m *Model) renderPreviewCmd(path, key string, width int) tea.Cmd {
	g := m.state.Gateway

	return func() tea.Msg {
		content, err := g.ReadFile(context.Background(), path)
		if err != nil {
			return previewRenderedMsg{path: path, cacheKey: key, err: err}
		}
		return previewRenderedMsg{
			path:     path,
			cacheKey: key,
			content:  renderPreview(path, content, width),
		}
	}
}

func previewCacheKey(path string, modNanos int64, width int) string {
	return fmt.Sprintf("%s|%d|%d", path, modNanos, width)
}

// renderPreview produces the preview pane content: glamour output with
// a display title header for markdown, raw text otherwise.
func renderPreview(path string, content []byte, width int) string {
	name := filepath.Base(path)

	if len(content) > maxPreviewBytes {
		return fmt.Sprintf("%s is too large to preview", name)
	}
	if looksBinary(content) {
		return fmt.Sprintf("%s is not a text file", name)
	}

	if strings.EqualFold(filepath.Ext(name), ".md") {
		// Initiate glamour renderer to add colors to our markdown preview
		r, _ := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dracula"),
			glamour.WithWordWrap(width),
			glamour.WithColorProfile(termenv.ANSI256),
		)

		markdown, err := r.Render(string(content))
		if err != nil {
			return "Error rendering markdown"
		}

		return fmt.Sprintf("%s\n%s", titleStyle.Render(note.DisplayTitle(name, content)), markdown)
	}

	return string(content)
}

func looksBinary(content []byte) bool {
	probe := content
	if len(probe) > 1024 {
		probe = probe[:1024]
	}
	return bytes.ContainsRune(probe, 0)
}
