package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"portal/internal/core/verification"
	"portal/internal/domain"
)

type dialogResultMsg struct {
	result verification.Result
	err    error
}

type dialogFocus int

const (
	focusNote dialogFocus = iota
	focusChoice
)

var dialogChoices = []domain.ConfirmationChoice{domain.ChoiceUnset, domain.ChoicePreserve}

// DialogModel renders a verification.Dialog: a free-text note and the
// confirmation radio group.
type DialogModel struct {
	dialog *verification.Dialog
	styles Styles

	note   textarea.Model
	focus  dialogFocus
	cursor int
	err    string
}

func NewDialogModel(d *verification.Dialog, styles Styles) DialogModel {
	ta := textarea.New()
	ta.Placeholder = "Reason for the status change"
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(50)

	return DialogModel{dialog: d, styles: styles, note: ta}
}

// Open shows the dialog and returns the command that waits for its result.
func (m DialogModel) Open(initial domain.VerificationDecision) (DialogModel, tea.Cmd) {
	ch, err := m.dialog.Open(initial)
	if err != nil {
		m.err = err.Error()
		return m, nil
	}

	m.note.SetValue(initial.Note)
	m.cursor = int(initial.PreserveConfirmations)
	m.focus = focusNote
	m.err = ""

	return m, tea.Batch(m.note.Focus(), awaitDialog(ch))
}

func awaitDialog(ch <-chan verification.Result) tea.Cmd {
	return func() tea.Msg {
		res, err := verification.Await(context.Background(), ch)
		return dialogResultMsg{result: res, err: err}
	}
}

func (m DialogModel) IsOpen() bool {
	return m.dialog.IsOpen()
}

func (m DialogModel) Update(msg tea.Msg) (DialogModel, tea.Cmd) {
	if !m.dialog.IsOpen() {
		return m, nil
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.note, cmd = m.note.Update(msg)
		return m, cmd
	}

	switch key.Type {
	case tea.KeyEsc:
		// The dialog only closes through its buttons.
		return m, nil

	case tea.KeyCtrlX:
		m.close()
		_ = m.dialog.Cancel()
		return m, nil

	case tea.KeyCtrlS:
		m.close()
		if _, err := m.dialog.Confirm(); err != nil {
			m.err = err.Error()
		}
		return m, nil

	case tea.KeyTab, tea.KeyShiftTab:
		if m.focus == focusNote {
			m.focus = focusChoice
			m.note.Blur()
			return m, nil
		}
		m.focus = focusNote
		return m, m.note.Focus()
	}

	if m.focus == focusChoice {
		switch key.String() {
		case "up", "k":
			m.cursor = (m.cursor + len(dialogChoices) - 1) % len(dialogChoices)
		case "down", "j":
			m.cursor = (m.cursor + 1) % len(dialogChoices)
		case " ", "enter":
			if err := m.dialog.SelectChoice(dialogChoices[m.cursor].Value()); err != nil {
				m.err = err.Error()
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.note, cmd = m.note.Update(msg)
	if err := m.dialog.SetNote(m.note.Value()); err != nil {
		m.err = err.Error()
	}
	return m, cmd
}

func (m *DialogModel) close() {
	m.note.Blur()
	m.note.Reset()
	m.cursor = 0
}

func (m DialogModel) View() string {
	if !m.dialog.IsOpen() {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(m.dialog.Title()) + "\n")

	b.WriteString(m.styles.Label.Render("Note") + "\n")
	b.WriteString(m.note.View() + "\n\n")

	b.WriteString(m.styles.Label.Render("Critical field confirmations") + "\n")
	selected := m.dialog.Current().PreserveConfirmations
	for i, c := range dialogChoices {
		mark := "( )"
		if c == selected {
			mark = "(•)"
		}
		line := mark + " " + c.Label()
		if m.focus == focusChoice && i == m.cursor {
			line = m.styles.Selected.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	if m.err != "" {
		b.WriteString(m.styles.Error.Render(m.err) + "\n")
	}
	b.WriteString("\n" + m.styles.Help.Render("tab: switch • space: select • ctrl+s: confirm • ctrl+x: cancel"))

	return m.styles.Dialog.Render(b.String())
}
