// ABOUTME: Paginated contact list screen as a bubbletea model
// ABOUTME: Handles page navigation, search, creation, and deletion of contacts

package contacts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kdichter/contactctl/internal/client"
	"github.com/kdichter/contactctl/internal/tui/contactform"
	"github.com/kdichter/contactctl/internal/tui/debuglog"
	"github.com/kdichter/contactctl/internal/tui/icons"
	"github.com/kdichter/contactctl/internal/tui/styles"
	"github.com/kdichter/contactctl/internal/tui/widgets"
)

// OpenContactMsg asks the app to open the detail screen for a contact
type OpenContactMsg struct {
	ID string
}

// SignOutMsg asks the app to clear the session and return to login
type SignOutMsg struct{}

// SessionExpiredMsg is sent when the backend rejects the stored token
type SessionExpiredMsg struct{}

type pageLoadedMsg struct {
	seq  int
	page *client.Page
	err  error
}

type contactCreatedMsg struct {
	err      error
	photoErr error
}

type contactDeletedMsg struct {
	err error
}

// Model is the contact list screen
type Model struct {
	client   *client.Client
	pageSize int

	page    *client.Page
	pageNum int
	cursor  int

	busy    bool
	spinner spinner.Model

	searching bool
	search    textinput.Model
	filter    string

	form *contactform.Model

	confirmDelete *client.Contact
	hint          string
	err           string

	// seq tags each page request so late responses from an abandoned
	// request cannot overwrite a newer page
	seq int

	width  int
	height int
}

// New creates a contact list screen
func New(c *client.Client, pageSize int) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Subtitle

	search := textinput.New()
	search.Placeholder = "name or email"
	search.CharLimit = 128
	search.Width = 40

	return &Model{
		client:   c,
		pageSize: pageSize,
		spinner:  sp,
		search:   search,
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadPage(0), m.spinner.Tick)
}

// loadPage requests a page of contacts and tags the response with a
// sequence number
func (m *Model) loadPage(page int) tea.Cmd {
	m.seq++
	m.busy = true
	seq := m.seq
	c := m.client
	size := m.pageSize
	return func() tea.Msg {
		p, err := c.ListContacts(context.Background(), page, size)
		return pageLoadedMsg{seq: seq, page: p, err: err}
	}
}

func (m *Model) createContact(contact client.Contact, photoPath string) tea.Cmd {
	m.busy = true
	c := m.client
	return func() tea.Msg {
		created, err := c.CreateContact(context.Background(), &contact)
		if err != nil {
			return contactCreatedMsg{err: err}
		}
		var photoErr error
		if photoPath != "" {
			f, err := os.Open(photoPath)
			if err != nil {
				photoErr = err
			} else {
				defer f.Close()
				_, photoErr = c.UpdatePhoto(context.Background(), created.ID, filepath.Base(photoPath), f)
			}
		}
		return contactCreatedMsg{photoErr: photoErr}
	}
}

func (m *Model) deleteContact(id string) tea.Cmd {
	m.busy = true
	c := m.client
	return func() tea.Msg {
		err := c.DeleteContact(context.Background(), id)
		return contactDeletedMsg{err: err}
	}
}

// visible returns the contacts on the loaded page matching the search
// filter. The filter only narrows what is already loaded; it never
// fetches other pages.
func (m *Model) visible() []client.Contact {
	if m.page == nil {
		return nil
	}
	if m.filter == "" {
		return m.page.Content
	}
	needle := strings.ToLower(m.filter)
	var matched []client.Contact
	for _, c := range m.page.Content {
		if strings.Contains(strings.ToLower(c.Name), needle) ||
			strings.Contains(strings.ToLower(c.Email), needle) {
			matched = append(matched, c)
		}
	}
	return matched
}

func (m *Model) clampCursor() {
	n := len(m.visible())
	if n == 0 {
		m.cursor = 0
		return
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.form != nil {
			_, cmd := m.form.Update(msg)
			return m, cmd
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pageLoadedMsg:
		if msg.seq != m.seq {
			// A newer request is in flight; this response is stale
			return m, nil
		}
		m.busy = false
		if msg.err != nil {
			if client.IsUnauthorized(msg.err) {
				debuglog.Log("session rejected during page load")
				return m, func() tea.Msg { return SessionExpiredMsg{} }
			}
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.page = msg.page
		m.pageNum = msg.page.Number
		m.clampCursor()
		if len(msg.page.Content) == 0 && m.pageNum > 0 {
			m.hint = "page is empty, press ← for the previous page"
		}
		return m, nil

	case contactCreatedMsg:
		m.busy = false
		if msg.err != nil {
			if client.IsUnauthorized(msg.err) {
				return m, func() tea.Msg { return SessionExpiredMsg{} }
			}
			m.err = msg.err.Error()
			return m, nil
		}
		if msg.photoErr != nil {
			m.hint = "contact created, photo upload failed: " + msg.photoErr.Error()
		} else {
			m.hint = "contact created"
		}
		// New contacts land on the first page
		m.cursor = 0
		return m, m.loadPage(0)

	case contactDeletedMsg:
		m.busy = false
		if msg.err != nil {
			if client.IsUnauthorized(msg.err) {
				return m, func() tea.Msg { return SessionExpiredMsg{} }
			}
			m.err = msg.err.Error()
			return m, nil
		}
		m.hint = "contact deleted"
		return m, m.loadPage(m.pageNum)

	case contactform.CompleteMsg:
		m.form = nil
		return m, m.createContact(msg.Contact, msg.PhotoPath)

	case contactform.CancelledMsg:
		m.form = nil
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.form != nil {
		_, cmd := m.form.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form != nil {
		_, cmd := m.form.Update(msg)
		return m, cmd
	}

	if m.confirmDelete != nil {
		switch msg.String() {
		case "y", "Y":
			id := m.confirmDelete.ID
			m.confirmDelete = nil
			return m, m.deleteContact(id)
		default:
			m.confirmDelete = nil
			return m, nil
		}
	}

	if m.searching {
		switch msg.String() {
		case "esc":
			m.searching = false
			m.filter = ""
			m.search.SetValue("")
			m.clampCursor()
			return m, nil
		case "enter":
			m.searching = false
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.filter = m.search.Value()
		m.clampCursor()
		return m, cmd
	}

	m.hint = ""

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
	case "left", "h":
		if m.busy {
			return m, nil
		}
		if m.pageNum > 0 {
			m.cursor = 0
			return m, m.loadPage(m.pageNum - 1)
		}
	case "right", "l":
		if m.busy {
			return m, nil
		}
		if m.page != nil && m.pageNum < m.page.TotalPages-1 {
			m.cursor = 0
			return m, m.loadPage(m.pageNum + 1)
		}
	case "enter":
		visible := m.visible()
		if m.cursor < len(visible) {
			id := visible[m.cursor].ID
			return m, func() tea.Msg { return OpenContactMsg{ID: id} }
		}
	case "/":
		m.searching = true
		m.search.Focus()
		return m, textinput.Blink
	case "n":
		if m.busy {
			return m, nil
		}
		m.form = contactform.New(contactform.ModeCreate, nil)
		return m, m.form.Init()
	case "d":
		visible := m.visible()
		if m.cursor < len(visible) && !m.busy {
			m.confirmDelete = &visible[m.cursor]
		}
	case "r":
		if !m.busy {
			return m, m.loadPage(m.pageNum)
		}
	case "s":
		return m, func() tea.Msg { return SignOutMsg{} }
	case "q":
		return m, tea.Quit
	}

	return m, nil
}

// Reload refreshes the current page, for use after returning from the
// detail screen
func (m *Model) Reload() tea.Cmd {
	return m.loadPage(m.pageNum)
}

// View implements tea.Model
func (m *Model) View() string {
	if m.form != nil {
		return m.form.View()
	}

	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.Contact.String() + " Contacts"))
	sb.WriteString("\n\n")

	if m.searching || m.filter != "" {
		sb.WriteString(icons.Search.String() + " " + m.search.View())
		sb.WriteString("\n\n")
	}

	if m.busy && m.page == nil {
		sb.WriteString(m.spinner.View() + " Loading contacts...")
		sb.WriteString("\n")
		return sb.String()
	}

	visible := m.visible()
	if len(visible) == 0 {
		if m.filter != "" {
			sb.WriteString(styles.Dim.Render("No contacts match the search"))
		} else {
			sb.WriteString(styles.Dim.Render("No contacts on this page"))
		}
		sb.WriteString("\n")
	}

	for i, c := range visible {
		line := m.renderRow(c, i == m.cursor)
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.renderPager())

	if m.confirmDelete != nil {
		sb.WriteString("\n")
		sb.WriteString(styles.StatusWarning.Render(
			fmt.Sprintf("Delete %s? (y/n)", m.confirmDelete.Name)))
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

func (m *Model) renderRow(c client.Contact, selected bool) string {
	name := c.Name
	if name == "" {
		name = "(unnamed)"
	}

	parts := []string{name}
	if c.Email != "" {
		parts = append(parts, icons.Email.String()+" "+c.Email)
	}
	badge := widgets.ContactStatusBadge(c.Status)
	if badge != "" {
		parts = append(parts, badge)
	}

	line := strings.Join(parts, "  ")
	if selected {
		return styles.Selected.Render("> " + line)
	}
	return styles.Normal.Render("  " + line)
}

func (m *Model) renderPager() string {
	if m.page == nil {
		return ""
	}
	pager := fmt.Sprintf("Page %d of %d (%d contacts)",
		m.pageNum+1, max(m.page.TotalPages, 1), m.page.TotalElements)
	return lipgloss.NewStyle().Faint(true).Render(pager)
}
