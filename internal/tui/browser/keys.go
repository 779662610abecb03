package browser

import "github.com/charmbracelet/bubbles/key"

type browserKeyMap struct {
	up           key.Binding
	down         key.Binding
	activate     key.Binding
	goBack       key.Binding
	rename       key.Binding
	createFile   key.Binding
	createDir    key.Binding
	delete       key.Binding
	cut          key.Binding
	copy         key.Binding
	paste        key.Binding
	undo         key.Binding
	yankPath     key.Binding
	toggleHidden key.Binding
	refresh      key.Binding
	previewDown  key.Binding
	previewUp    key.Binding
	submitInput  key.Binding
	exitInput    key.Binding
	toggleHelp   key.Binding
	quit         key.Binding
}

func newBrowserKeyMap() *browserKeyMap {
	return &browserKeyMap{
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		activate: key.NewBinding(
			key.WithKeys("enter", "l", "right"),
			key.WithHelp("↵/l", "open"),
		),
		goBack: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h", "back"),
		),
		rename: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rename"),
		),
		createFile: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new file"),
		),
		createDir: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "new dir"),
		),
		delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		cut: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "cut"),
		),
		copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy"),
		),
		paste: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "paste"),
		),
		undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "undo"),
		),
		yankPath: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "yank path"),
		),
		toggleHidden: key.NewBinding(
			key.WithKeys("."),
			key.WithHelp(".", "hidden"),
		),
		refresh: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "refresh"),
		),
		previewDown: key.NewBinding(
			key.WithKeys("ctrl+d", "pgdown"),
			key.WithHelp("ctrl+d", "preview down"),
		),
		previewUp: key.NewBinding(
			key.WithKeys("ctrl+u", "pgup"),
			key.WithHelp("ctrl+u", "preview up"),
		),
		submitInput: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "submit"),
		),
		exitInput: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		toggleHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp satisfies help.KeyMap for the one line help bar.
func (m browserKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		m.up,
		m.down,
		m.activate,
		m.goBack,
		m.toggleHelp,
		m.quit,
	}
}

// FullHelp satisfies help.KeyMap for the expanded help view.
func (m browserKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.up, m.down, m.activate, m.goBack},
		{m.rename, m.createFile, m.createDir, m.delete},
		{m.cut, m.copy, m.paste, m.undo},
		{m.yankPath, m.toggleHidden, m.refresh},
		{m.previewDown, m.previewUp, m.toggleHelp, m.quit},
	}
}
