// ABOUTME: Contact detail screen as a bubbletea model
// ABOUTME: Shows one contact and handles editing, photo replacement, and deletion

package detail

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kdichter/contactctl/internal/client"
	"github.com/kdichter/contactctl/internal/tui/contactform"
	"github.com/kdichter/contactctl/internal/tui/debuglog"
	"github.com/kdichter/contactctl/internal/tui/filepicker"
	"github.com/kdichter/contactctl/internal/tui/icons"
	"github.com/kdichter/contactctl/internal/tui/recentfiles"
	"github.com/kdichter/contactctl/internal/tui/styles"
	"github.com/kdichter/contactctl/internal/tui/widgets"
)

// BackMsg asks the app to return to the contact list
type BackMsg struct{}

// SessionExpiredMsg is sent when the backend rejects the stored token
type SessionExpiredMsg struct{}

// photoState tracks the lifecycle of the displayed photo. A pending or
// failed upload keeps showing the locally chosen file; only a reload
// from the backend replaces it.
type photoState int

const (
	photoCommitted photoState = iota
	photoPending
	photoFailed
)

type contactLoadedMsg struct {
	seq     int
	contact *client.Contact
	err     error
}

type contactSavedMsg struct {
	seq int
	err error
}

type contactDeletedMsg struct {
	seq int
	err error
}

type photoUploadedMsg struct {
	seq int
	id  string
	url string
	err error
}

// Model is the contact detail screen
type Model struct {
	client  *client.Client
	recents *recentfiles.RecentFiles

	id      string
	contact *client.Contact

	busy    bool
	spinner spinner.Model

	photo      photoState
	photoShown string

	form   *contactform.Model
	picker *filepicker.FilePicker

	confirmDelete bool
	hint          string
	err           string

	seq int

	width  int
	height int
}

// New creates a detail screen for the given contact id
func New(c *client.Client, recents *recentfiles.RecentFiles, id string) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Subtitle

	return &Model{
		client:  c,
		recents: recents,
		id:      id,
		spinner: sp,
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.spinner.Tick)
}

func (m *Model) load() tea.Cmd {
	m.seq++
	m.busy = true
	seq := m.seq
	c := m.client
	id := m.id
	return func() tea.Msg {
		contact, err := c.GetContact(context.Background(), id)
		return contactLoadedMsg{seq: seq, contact: contact, err: err}
	}
}

func (m *Model) save(contact client.Contact) tea.Cmd {
	m.seq++
	m.busy = true
	seq := m.seq
	c := m.client
	return func() tea.Msg {
		_, err := c.UpdateContact(context.Background(), &contact)
		return contactSavedMsg{seq: seq, err: err}
	}
}

func (m *Model) deleteContact() tea.Cmd {
	m.seq++
	m.busy = true
	seq := m.seq
	c := m.client
	id := m.id
	return func() tea.Msg {
		return contactDeletedMsg{seq: seq, err: c.DeleteContact(context.Background(), id)}
	}
}

func (m *Model) uploadPhoto(path string) tea.Cmd {
	m.seq++
	seq := m.seq
	c := m.client
	id := m.id
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return photoUploadedMsg{seq: seq, id: id, err: err}
		}
		defer f.Close()
		url, err := c.UpdatePhoto(context.Background(), id, filepath.Base(path), f)
		return photoUploadedMsg{seq: seq, id: id, url: url, err: err}
	}
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m.forward(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case contactLoadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.busy = false
		if msg.err != nil {
			if client.IsUnauthorized(msg.err) {
				debuglog.Log("session rejected during contact load")
				return m, func() tea.Msg { return SessionExpiredMsg{} }
			}
			if client.IsNotFound(msg.err) {
				m.err = "contact no longer exists"
				return m, nil
			}
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.contact = msg.contact
		// The backend copy wins over any local preview
		m.photo = photoCommitted
		m.photoShown = msg.contact.PhotoURL
		return m, nil

	case contactSavedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.busy = false
		if msg.err != nil {
			if client.IsUnauthorized(msg.err) {
				return m, func() tea.Msg { return SessionExpiredMsg{} }
			}
			m.err = msg.err.Error()
			return m, nil
		}
		m.hint = "contact saved"
		return m, m.load()

	case contactDeletedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.busy = false
		if msg.err != nil {
			if client.IsUnauthorized(msg.err) {
				return m, func() tea.Msg { return SessionExpiredMsg{} }
			}
			m.err = msg.err.Error()
			return m, nil
		}
		return m, func() tea.Msg { return BackMsg{} }

	case photoUploadedMsg:
		// An upload started on another contact, or superseded by a
		// newer request, must not touch this model
		if msg.id != m.id || msg.seq != m.seq {
			return m, nil
		}
		if msg.err != nil {
			if client.IsUnauthorized(msg.err) {
				return m, func() tea.Msg { return SessionExpiredMsg{} }
			}
			// Keep showing the chosen file so the user sees what they
			// picked alongside the failure badge
			m.photo = photoFailed
			m.err = msg.err.Error()
			return m, nil
		}
		m.photo = photoCommitted
		m.photoShown = msg.url
		m.hint = "photo updated"
		return m, nil

	case contactform.CompleteMsg:
		m.form = nil
		return m, m.save(msg.Contact)

	case contactform.CancelledMsg:
		m.form = nil
		return m, nil

	case filepicker.PhotoSelectedMsg:
		// The picker checked existence, but the file can still vanish
		// or be unreadable; keep the picker open instead of starting
		// an upload that cannot read its input
		f, err := os.Open(msg.Path)
		if err != nil {
			if m.picker != nil {
				m.picker.SetError("cannot open file: " + err.Error())
			}
			return m, nil
		}
		f.Close()
		m.picker = nil
		m.photo = photoPending
		m.photoShown = msg.Path
		if m.recents != nil {
			if err := m.recents.Add(msg.Path); err != nil {
				debuglog.Error("saving recent photo", err)
			}
		}
		return m, m.uploadPhoto(msg.Path)

	case filepicker.CancelledMsg:
		m.picker = nil
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.forward(msg)
}

// forward passes a message to whichever sub-model is active
func (m *Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form != nil {
		_, cmd := m.form.Update(msg)
		return m, cmd
	}
	if m.picker != nil {
		_, cmd := m.picker.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form != nil || m.picker != nil {
		return m.forward(msg)
	}

	if m.confirmDelete {
		switch msg.String() {
		case "y", "Y":
			m.confirmDelete = false
			return m, m.deleteContact()
		default:
			m.confirmDelete = false
			return m, nil
		}
	}

	m.hint = ""

	switch msg.String() {
	case "esc", "b":
		return m, func() tea.Msg { return BackMsg{} }
	case "e":
		if m.contact != nil && !m.busy {
			m.form = contactform.New(contactform.ModeEdit, m.contact)
			return m, m.form.Init()
		}
	case "p":
		if m.contact != nil && !m.busy {
			recents := []string{}
			if m.recents != nil {
				if files, err := m.recents.Load(); err == nil {
					recents = files
				}
			}
			m.picker = filepicker.New(recents)
			return m, m.picker.Init()
		}
	case "d":
		if m.contact != nil && !m.busy {
			m.confirmDelete = true
		}
	case "r":
		if !m.busy {
			return m, m.load()
		}
	}

	return m, nil
}

// View implements tea.Model
func (m *Model) View() string {
	if m.form != nil {
		return m.form.View()
	}
	if m.picker != nil {
		return m.picker.View()
	}

	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.Contact.String() + " Contact"))
	sb.WriteString("\n\n")

	if m.busy && m.contact == nil {
		sb.WriteString(m.spinner.View() + " Loading contact...")
		sb.WriteString("\n")
		return sb.String()
	}

	if m.contact != nil {
		sb.WriteString(m.renderContact())
	}

	if m.confirmDelete {
		sb.WriteString("\n")
		sb.WriteString(styles.StatusWarning.Render(
			fmt.Sprintf("Delete %s? (y/n)", m.contact.Name)))
	}
	if m.err != "" {
		sb.WriteString("\n")
		sb.WriteString(widgets.StatusText(m.err, widgets.StatusError))
	}
	if m.hint != "" {
		sb.WriteString("\n")
		sb.WriteString(widgets.StatusText(m.hint, widgets.StatusInfo))
	}
	if m.busy {
		sb.WriteString("\n")
		sb.WriteString(m.spinner.View() + " Working...")
	}

	return sb.String()
}

func (m *Model) renderContact() string {
	c := m.contact
	var sb strings.Builder

	row := func(icon icons.Icon, label, value string) {
		if value == "" {
			value = styles.Dim.Render("(none)")
		} else {
			value = styles.ValueStyle.Render(value)
		}
		sb.WriteString(fmt.Sprintf("  %s %s %s\n",
			icon.String(), styles.KeyStyle.Render(label+":"), value))
	}

	sb.WriteString("  " + styles.Subtitle.Render(c.Name))
	badge := widgets.ContactStatusBadge(c.Status)
	if badge != "" {
		sb.WriteString("  " + badge)
	}
	sb.WriteString("\n\n")

	row(icons.Email, "Email", c.Email)
	row(icons.Phone, "Phone", c.Phone)
	row(icons.Address, "Address", c.Address)
	row(icons.Settings, "Title", c.Title)

	photo := m.photoShown
	if photo == "" {
		photo = styles.Dim.Render("(no photo)")
	}
	pb := widgets.PhotoBadge(m.photo == photoPending, m.photo == photoFailed)
	line := fmt.Sprintf("  %s %s %s", icons.Photo.String(), styles.KeyStyle.Render("Photo:"), photo)
	if pb != "" {
		line += "  " + pb
	}
	sb.WriteString(line)
	sb.WriteString("\n")

	return sb.String()
}
