// ABOUTME: Contact create/edit form as a bubbletea model
// ABOUTME: Uses a huh form over the contact fields shared by list and detail screens

package contactform

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/kdichter/contactctl/internal/client"
	"github.com/kdichter/contactctl/internal/tui/recentfiles"
	"github.com/kdichter/contactctl/internal/tui/styles"
)

// Mode selects between creating a new contact and editing an existing one
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// CompleteMsg is sent when the form is submitted. PhotoPath is only set
// in create mode when the user supplied an optional photo file.
type CompleteMsg struct {
	Contact   client.Contact
	PhotoPath string
}

// CancelledMsg is sent when the user backs out of the form
type CancelledMsg struct{}

// Model is the contact form
type Model struct {
	mode  Mode
	form  *huh.Form
	width int

	// Form field values. ID is carried through untouched in edit mode.
	id        string
	photoURL  string
	name      string
	email     string
	phone     string
	address   string
	title     string
	status    string
	photoPath string
}

var statusOptions = []huh.Option[string]{
	huh.NewOption("Inactive", client.StatusInactive),
	huh.NewOption("Active", client.StatusActive),
}

// New creates a contact form. In edit mode the fields are prefilled from
// the given contact; in create mode contact may be nil.
func New(mode Mode, contact *client.Contact) *Model {
	m := &Model{mode: mode, status: client.StatusInactive}

	if contact != nil {
		m.id = contact.ID
		m.photoURL = contact.PhotoURL
		m.name = contact.Name
		m.email = contact.Email
		m.phone = contact.Phone
		m.address = contact.Address
		m.title = contact.Title
		if contact.Status != "" {
			m.status = contact.Status
		}
	}

	m.form = m.createForm()
	return m
}

func (m *Model) createForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Name").
			CharLimit(128).
			Value(&m.name).
			Validate(func(v string) error {
				if strings.TrimSpace(v) == "" {
					return errNameRequired
				}
				return nil
			}),
		huh.NewInput().
			Title("Email").
			CharLimit(128).
			Value(&m.email),
		huh.NewInput().
			Title("Title").
			CharLimit(128).
			Value(&m.title),
		huh.NewInput().
			Title("Phone").
			CharLimit(32).
			Value(&m.phone),
		huh.NewInput().
			Title("Address").
			CharLimit(256).
			Value(&m.address),
		huh.NewSelect[string]().
			Title("Account status").
			Options(statusOptions...).
			Value(&m.status),
	}

	groupTitle := "Edit Contact"
	if m.mode == ModeCreate {
		groupTitle = "New Contact"
		fields = append(fields,
			huh.NewInput().
				Title("Photo file (optional)").
				Placeholder("/path/to/photo.jpg").
				CharLimit(256).
				Value(&m.photoPath).
				Validate(validatePhotoPath),
		)
	}

	return huh.NewForm(
		huh.NewGroup(fields...).Title(groupTitle),
	).WithTheme(huh.ThemeBase())
}

var errNameRequired = &formError{"name is required"}

type formError struct{ msg string }

func (e *formError) Error() string { return e.msg }

func validatePhotoPath(v string) error {
	if v == "" {
		return nil
	}
	if !recentfiles.IsImage(v) {
		return &formError{"must be a jpg, png, or gif file"}
	}
	return nil
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
		if msg.String() == "esc" {
			return m, func() tea.Msg { return CancelledMsg{} }
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m.complete()
	}

	return m, cmd
}

// complete assembles the contact record and emits CompleteMsg
func (m *Model) complete() (tea.Model, tea.Cmd) {
	contact := client.Contact{
		ID:       m.id,
		Name:     m.name,
		Email:    m.email,
		Phone:    m.phone,
		Address:  m.address,
		Title:    m.title,
		Status:   m.status,
		PhotoURL: m.photoURL,
	}

	msg := CompleteMsg{Contact: contact, PhotoPath: m.photoPath}
	return m, func() tea.Msg { return msg }
}

// View implements tea.Model
func (m *Model) View() string {
	var sb strings.Builder
	sb.WriteString(m.form.View())
	sb.WriteString("\n")
	sb.WriteString(styles.Help.Render("esc to cancel"))
	return sb.String()
}
