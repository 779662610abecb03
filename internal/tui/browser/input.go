package browser

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
)

type inputModel struct {
	Title string
	Input textinput.Model
}

func newInputModel() inputModel {
	t := textinput.New()
	t.Cursor.Style = cursorStyle
	t.PromptStyle = focusedStyle
	t.TextStyle = focusedStyle

	return inputModel{Input: t}
}

func (m inputModel) View() string {
	var b strings.Builder
	b.WriteString(m.Input.View())
	return b.String()
}
