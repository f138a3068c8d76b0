package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"portal/internal/core/verification"
	"portal/internal/domain"
)

const verificationTitle = "Change status to needs verification"

// StakeholdersModel is the landing page after sign-in.
type StakeholdersModel struct {
	styles Styles
	user   *domain.User
	dialog DialogModel
	last   string
}

func NewStakeholdersModel(styles Styles) StakeholdersModel {
	return StakeholdersModel{
		styles: styles,
		dialog: NewDialogModel(verification.NewDialog(verificationTitle), styles),
	}
}

func (m *StakeholdersModel) SetUser(u *domain.User) {
	m.user = u
}

// Capturing reports whether key input belongs to the open dialog.
func (m StakeholdersModel) Capturing() bool {
	return m.dialog.IsOpen()
}

func (m StakeholdersModel) LastDecision() string {
	return m.last
}

func (m StakeholdersModel) Update(msg tea.Msg) (StakeholdersModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dialogResultMsg:
		m.last = describeResult(msg)
		return m, nil

	case tea.KeyMsg:
		if !m.dialog.IsOpen() && msg.String() == "v" {
			var cmd tea.Cmd
			m.dialog, cmd = m.dialog.Open(domain.VerificationDecision{})
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.dialog, cmd = m.dialog.Update(msg)
	return m, cmd
}

func describeResult(msg dialogResultMsg) string {
	switch {
	case msg.err != nil:
		return "Dialog closed: " + msg.err.Error()
	case msg.result.Cancelled:
		return "Status change cancelled."
	default:
		d := msg.result.Decision
		return fmt.Sprintf("Status change requested. Note: %q. %s.", d.Note, d.PreserveConfirmations.Label())
	}
}

func (m StakeholdersModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Stakeholders"))
	b.WriteString("\n")

	if m.user != nil {
		b.WriteString(fmt.Sprintf("Signed in as %s <%s>\n\n", m.user.DisplayName(), m.user.Email))
	}

	if m.dialog.IsOpen() {
		b.WriteString(m.dialog.View())
		b.WriteString("\n")
		return b.String()
	}

	if m.last != "" {
		b.WriteString(m.last + "\n\n")
	}
	b.WriteString(m.styles.Help.Render("v: change status to needs verification • ctrl+c: quit"))
	return b.String()
}
