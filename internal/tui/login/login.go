// ABOUTME: Login and registration forms as bubbletea models
// ABOUTME: Uses huh forms and emits submission messages for the app to act on

package login

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/kdichter/contactctl/internal/tui/styles"
)

// Mode selects which form is shown
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

// SubmittedMsg is sent when the login form completes
type SubmittedMsg struct {
	Email    string
	Password string
}

// RegisterSubmittedMsg is sent when the registration form completes
type RegisterSubmittedMsg struct {
	Firstname string
	Lastname  string
	Email     string
	Password  string
}

// CancelledMsg is sent when the user backs out of the form
type CancelledMsg struct{}

// Model is the auth form screen
type Model struct {
	mode  Mode
	form  *huh.Form
	busy  bool
	err   string
	width int

	// Form field values
	firstname string
	lastname  string
	email     string
	password  string
}

// New creates an auth form for the given mode
func New(mode Mode) *Model {
	m := &Model{mode: mode}
	m.form = m.createForm()
	return m
}

func (m *Model) createForm() *huh.Form {
	var fields []huh.Field

	if m.mode == ModeRegister {
		fields = append(fields,
			huh.NewInput().
				Title("First name").
				CharLimit(64).
				Value(&m.firstname).
				Validate(required("first name")),
			huh.NewInput().
				Title("Last name").
				CharLimit(64).
				Value(&m.lastname).
				Validate(required("last name")),
		)
	}

	fields = append(fields,
		huh.NewInput().
			Title("Email").
			Placeholder("you@example.com").
			CharLimit(128).
			Value(&m.email).
			Validate(required("email")),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			CharLimit(128).
			Value(&m.password).
			Validate(required("password")),
	)

	title := "Log in"
	if m.mode == ModeRegister {
		title = "Create account"
	}

	return huh.NewForm(
		huh.NewGroup(fields...).Title(title),
	).WithTheme(huh.ThemeBase())
}

func required(name string) func(string) error {
	return func(v string) error {
		if strings.TrimSpace(v) == "" {
			return &fieldError{name}
		}
		return nil
	}
}

type fieldError struct{ field string }

func (e *fieldError) Error() string { return e.field + " is required" }

// Mode returns the form's current mode
func (m *Model) Mode() Mode {
	return m.mode
}

// SetError displays an error line and re-arms the form for another attempt
func (m *Model) SetError(msg string) tea.Cmd {
	m.err = msg
	m.busy = false
	m.password = ""
	m.form = m.createForm()
	return m.form.Init()
}

// Busy reports whether a submission is in flight
func (m *Model) Busy() bool {
	return m.busy
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return m.form.Init()
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}
		return m, cmd

	case tea.KeyMsg:
		if m.busy {
			// The submit is a single in-flight request; ignore input
			// until it resolves
			return m, nil
		}
		if msg.String() == "esc" {
			return m, func() tea.Msg { return CancelledMsg{} }
		}
		m.err = ""
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m.submit()
	}

	return m, cmd
}

// submit marks the form busy and emits the submission message
func (m *Model) submit() (tea.Model, tea.Cmd) {
	m.busy = true

	if m.mode == ModeRegister {
		msg := RegisterSubmittedMsg{
			Firstname: m.firstname,
			Lastname:  m.lastname,
			Email:     m.email,
			Password:  m.password,
		}
		return m, func() tea.Msg { return msg }
	}

	msg := SubmittedMsg{Email: m.email, Password: m.password}
	return m, func() tea.Msg { return msg }
}

// View implements tea.Model
func (m *Model) View() string {
	var sb strings.Builder

	if m.busy {
		if m.mode == ModeRegister {
			sb.WriteString(styles.Subtitle.Render("Creating account..."))
		} else {
			sb.WriteString(styles.Subtitle.Render("Logging in..."))
		}
		return sb.String()
	}

	sb.WriteString(m.form.View())

	if m.err != "" {
		sb.WriteString("\n")
		sb.WriteString(styles.StatusError.Render(m.err))
	}

	if m.mode == ModeLogin {
		sb.WriteString("\n")
		sb.WriteString(styles.Help.Render("ctrl+r to create an account"))
	} else {
		sb.WriteString("\n")
		sb.WriteString(styles.Help.Render("ctrl+r to go back to login"))
	}

	return sb.String()
}
