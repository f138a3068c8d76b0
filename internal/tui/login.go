package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"portal/internal/core/login"
	"portal/internal/domain"
)

type submitDoneMsg struct {
	outcome login.Outcome
	err     error
}

type LoginModel struct {
	ctrl   *login.Controller
	styles Styles

	inputs  [2]textinput.Model
	focus   int
	errors  domain.FieldErrors
	pending bool
}

var loginFields = [2]string{domain.FieldEmail, domain.FieldPassword}

func NewLoginModel(ctrl *login.Controller, styles Styles) LoginModel {
	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 254
	email.SetValue(ctrl.Values().Email)
	email.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return LoginModel{
		ctrl:   ctrl,
		styles: styles,
		inputs: [2]textinput.Model{email, password},
	}
}

func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

// Submitting reports whether a submission is in flight; inputs are locked.
func (m LoginModel) Submitting() bool {
	return m.pending
}

func (m LoginModel) FieldErrors() domain.FieldErrors {
	return m.errors
}

func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case submitDoneMsg:
		m.pending = false
		if msg.err != nil {
			return m, nil
		}
		m.errors = msg.outcome.FieldErrors
		return m, nil

	case tea.KeyMsg:
		if m.pending {
			return m, nil
		}

		switch msg.Type {
		case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
			m.inputs[m.focus].Blur()
			m.focus = (m.focus + 1) % len(m.inputs)
			return m, m.inputs[m.focus].Focus()

		case tea.KeyEnter:
			return m.submit()
		}

		var cmd tea.Cmd
		before := m.inputs[m.focus].Value()
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		if after := m.inputs[m.focus].Value(); after != before {
			m.change(loginFields[m.focus], after)
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *LoginModel) change(field, value string) {
	errs, err := m.ctrl.Change(field, value)
	if err != nil {
		return
	}
	if m.errors == nil {
		m.errors = domain.FieldErrors{}
	}
	delete(m.errors, field)
	for k, v := range errs {
		m.errors[k] = v
	}
}

func (m LoginModel) submit() (LoginModel, tea.Cmd) {
	m.pending = true
	ctrl := m.ctrl
	return m, func() tea.Msg {
		out, err := ctrl.Submit(context.Background())
		return submitDoneMsg{outcome: out, err: err}
	}
}

func (m LoginModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Sign in"))
	b.WriteString("\n")

	labels := [2]string{"Email", "Password"}
	for i, in := range m.inputs {
		label := m.styles.Label.Render(labels[i])
		if i == m.focus {
			label = m.styles.Focused.Render(labels[i])
		}
		b.WriteString(label + "\n" + in.View() + "\n")
		if msg := m.errors[loginFields[i]]; msg != "" {
			b.WriteString(m.styles.Error.Render(msg) + "\n")
		}
		b.WriteString("\n")
	}

	if m.pending {
		b.WriteString(m.styles.Help.Render("Signing in...") + "\n")
	} else {
		b.WriteString(m.styles.Help.Render("enter: sign in • tab: next field • ctrl+c: quit") + "\n")
	}

	b.WriteString(m.styles.Link.Render("Forgot password? "+m.ctrl.ForgotPasswordLink()) + "\n")
	b.WriteString(m.styles.Link.Render("No account? "+login.RegisterRoute) + "\n")

	return b.String()
}
