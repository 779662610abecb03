package browser

import (
	"os/exec"

	tea "github.com/charmbracelet/bubbletea"
)

// editorCmd suspends the program, runs the configured editor on path,
// and resumes with an editorFinishedMsg.
func (m *Model) editorCmd(path string) tea.Cmd {
	command, args := m.state.EditorCommand()
	c := exec.Command(command, append(args, path)...)

	return tea.ExecProcess(c, func(err error) tea.Msg {
		return editorFinishedMsg{path: path, err: err}
	})
}
